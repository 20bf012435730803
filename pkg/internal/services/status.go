package services

import (
	"fmt"

	"github.com/clubworks/messaging/pkg/internal/database"
	"github.com/clubworks/messaging/pkg/internal/models"
)

// SetTypingStatus broadcasts a typing hint to everyone else in the room.
// Best-effort only: dropped frames and offline members are fine, nothing
// here is part of the message lifecycle.
func SetTypingStatus(roomId uint, userId uint) error {
	var member models.RoomMember
	if err := database.C.
		Where("account_id = ? AND room_id = ?", userId, roomId).
		Preload("Account").
		First(&member).Error; err != nil {
		return fmt.Errorf("room member not found: %v", err)
	}

	var others []models.RoomMember
	if err := database.C.Where(models.RoomMember{
		RoomID: roomId,
	}).Find(&others).Error; err != nil {
		return fmt.Errorf("unable to list room members: %v", err)
	}

	var targets []uint
	for _, item := range others {
		if item.AccountID == userId {
			continue
		}
		targets = append(targets, item.AccountID)
	}

	PushCommandBatch(targets, UnifiedCommand{
		Action: "status.typing",
		Payload: map[string]any{
			"user_id": userId,
			"room_id": roomId,
			"member":  member,
		},
	})

	return nil
}
