package models

import "gorm.io/datatypes"

// TombstoneBody replaces the body of a retention-swept message. The sweep
// re-selection predicate compares against this exact literal, so it must
// never change once rows carry it.
const TombstoneBody = "[This message was automatically deleted due to age]"

type Message struct {
	BaseModel

	Body        string                      `json:"body"`
	Attachments datatypes.JSONSlice[string] `json:"attachments"`
	Images      datatypes.JSONSlice[string] `json:"images"`
	Edited      bool                        `json:"edited"`

	Room     Room       `json:"room"`
	Author   Account    `json:"author"`
	ReplyID  *uint      `json:"reply_id"`
	ReplyTo  *Message   `json:"reply_to" gorm:"foreignKey:ReplyID"`
	RoomID   uint       `json:"room_id"`
	AuthorID uint       `json:"author_id"`
	Files    []Attachment `json:"files" gorm:"foreignKey:MessageID"`
	Reacts   []Reaction `json:"reacts" gorm:"foreignKey:MessageID"`
}

// Redacted reports whether the retention sweeper has already scrubbed this
// message. The tombstone body is the marker; there is no separate column.
func (v Message) Redacted() bool {
	return v.Body == TombstoneBody
}
