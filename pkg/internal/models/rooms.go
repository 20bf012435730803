package models

type RoomType = uint8

const (
	RoomTypeCommon = RoomType(iota)
	RoomTypeDirect
)

type Room struct {
	BaseModel

	Alias       string       `json:"alias"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Members     []RoomMember `json:"members"`
	Messages    []Message    `json:"messages"`
	Type        RoomType     `json:"type"`
	AccountID   uint         `json:"account_id"`
	IsPublic    bool         `json:"is_public"`
}

type NotifyLevel = int8

const (
	NotifyLevelAll = NotifyLevel(iota)
	NotifyLevelMentioned
	NotifyLevelNone
)

type RoomMember struct {
	BaseModel

	RoomID    uint        `json:"room_id"`
	AccountID uint        `json:"account_id"`
	Room      Room        `json:"room"`
	Account   Account     `json:"account"`
	Notify    NotifyLevel `json:"notify"`
}
