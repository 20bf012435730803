package services

import (
	"github.com/clubworks/messaging/pkg/internal/database"
	"github.com/clubworks/messaging/pkg/internal/models"
)

// ResolveReply resolves a message's reply target for display. A missing
// parent (deleted, or never existed) resolves to nil and the caller renders
// a placeholder; a reply must never fail to display because its target is
// gone. Replies form a forest since parents always predate children, so
// there is no cycle to chase; the self-reference check is purely defensive.
func ResolveReply(message models.Message) *models.Message {
	if message.ReplyID == nil {
		return nil
	}
	if *message.ReplyID == message.ID {
		return nil
	}

	var parent models.Message
	if err := database.C.
		Where("id = ? AND room_id = ?", *message.ReplyID, message.RoomID).
		Preload("Author").
		First(&parent).Error; err != nil {
		return nil
	}
	if parent.Redacted() {
		// A tombstoned parent counts as unavailable too.
		return nil
	}

	return &parent
}
