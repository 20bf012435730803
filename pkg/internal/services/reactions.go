package services

import (
	"errors"

	"github.com/clubworks/messaging/pkg/internal/database"
	"github.com/clubworks/messaging/pkg/internal/models"
	"gorm.io/gorm"
)

// ToggleReaction adds the reaction if the member does not hold it yet and
// removes it otherwise. The compound unique index backs this up; the toggle
// just avoids surfacing a constraint error for the common double-tap.
func ToggleReaction(message models.Message, account models.Account, emoji string) (models.Reaction, bool, error) {
	var reaction models.Reaction
	err := database.C.Where(models.Reaction{
		MessageID: message.ID,
		AccountID: account.ID,
		Emoji:     emoji,
	}).First(&reaction).Error

	if err == nil {
		if err := database.C.Unscoped().Delete(&reaction).Error; err != nil {
			return reaction, false, err
		}
		PushRoomCommand(message.RoomID, UnifiedCommand{
			Action:  "reactions.delete",
			Payload: reaction,
		})
		return reaction, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return reaction, false, err
	}

	reaction = models.Reaction{
		MessageID: message.ID,
		AccountID: account.ID,
		Emoji:     emoji,
	}
	if err := database.C.Save(&reaction).Error; err != nil {
		return reaction, false, err
	}

	PushRoomCommand(message.RoomID, UnifiedCommand{
		Action:  "reactions.new",
		Payload: reaction,
	})

	return reaction, true, nil
}

func ListReactions(message models.Message) ([]models.Reaction, error) {
	var reactions []models.Reaction
	if err := database.C.Where(models.Reaction{
		MessageID: message.ID,
	}).Find(&reactions).Error; err != nil {
		return reactions, err
	} else {
		return reactions, nil
	}
}
