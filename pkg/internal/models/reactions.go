package models

// Reaction is compound-unique on (message, account, emoji): a member holds
// at most one reaction of a given emoji per message.
type Reaction struct {
	BaseModel

	MessageID uint    `json:"message_id" gorm:"uniqueIndex:idx_reaction_identity"`
	AccountID uint    `json:"account_id" gorm:"uniqueIndex:idx_reaction_identity"`
	Emoji     string  `json:"emoji" gorm:"uniqueIndex:idx_reaction_identity"`
	Message   Message `json:"message"`
	Account   Account `json:"account"`
}
