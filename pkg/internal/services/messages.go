package services

import (
	"errors"

	"github.com/clubworks/messaging/pkg/internal/database"
	"github.com/clubworks/messaging/pkg/internal/models"
	"gorm.io/gorm"
)

func CountMessage(room models.Room) int64 {
	var count int64
	if err := database.C.Where(models.Message{
		RoomID: room.ID,
	}).Model(&models.Message{}).Count(&count).Error; err != nil {
		return 0
	} else {
		return count
	}
}

// clampPage bounds client-supplied paging. A non-positive take falls back
// to the default; a negative value would cancel the limit entirely and
// pull the whole history.
func clampPage(take int, offset int) (int, int) {
	if take <= 0 {
		take = 50
	} else if take > 100 {
		take = 100
	}
	if offset < 0 {
		offset = 0
	}
	return take, offset
}

func ListMessage(room models.Room, take int, offset int) ([]models.Message, error) {
	take, offset = clampPage(take, offset)

	var messages []models.Message
	if err := database.C.
		Where(models.Message{
			RoomID: room.ID,
		}).Limit(take).Offset(offset).
		Order("created_at DESC").
		Preload("Author").
		Preload("Reacts").
		Find(&messages).Error; err != nil {
		return messages, err
	} else {
		return messages, nil
	}
}

func GetMessage(room models.Room, id uint) (models.Message, error) {
	var message models.Message
	if err := database.C.
		Where(models.Message{
			BaseModel: models.BaseModel{ID: id},
			RoomID:    room.ID,
		}).
		Preload("Author").
		First(&message).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return message, ErrMessageNotFound
		}
		return message, err
	} else {
		return message, nil
	}
}

// EditMessage rewrites the body of a message. Callers must have passed the
// permission evaluator already; this only touches the store.
func EditMessage(message models.Message, body string, attachments []string) (models.Message, error) {
	message.Body = body
	message.Attachments = attachments
	message.Edited = true
	if err := database.C.Save(&message).Error; err != nil {
		return message, err
	}

	PushRoomCommand(message.RoomID, UnifiedCommand{
		Action:  "messages.edit",
		Payload: message,
	})

	return message, nil
}

// DeleteMessage removes the row entirely; only the retention sweeper
// redacts. Its attachment rows are detached rather than deleted, which
// leaves them orphaned for the next sweep to reap.
func DeleteMessage(message models.Message) error {
	if err := database.C.Model(&models.Attachment{}).
		Where("message_id = ?", message.ID).
		Update("message_id", nil).Error; err != nil {
		return err
	}
	if err := database.C.Delete(&message).Error; err != nil {
		return err
	}

	PushRoomCommand(message.RoomID, UnifiedCommand{
		Action:  "messages.delete",
		Payload: map[string]any{"id": message.ID, "room_id": message.RoomID},
	})

	return nil
}

// DecorateReplies resolves the reply target of each message for display.
// A reply whose target is gone still renders; see ResolveReply.
func DecorateReplies(messages []models.Message) []models.Message {
	for idx, message := range messages {
		messages[idx].ReplyTo = ResolveReply(message)
	}
	return messages
}
