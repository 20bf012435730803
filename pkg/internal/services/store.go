package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/clubworks/messaging/pkg/internal/database"
	"github.com/clubworks/messaging/pkg/internal/models"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/datatypes"
)

// MessageRef is the slim projection the cleaner works with; it never loads
// message bodies just to decide eligibility.
type MessageRef struct {
	ID        uint      `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

type AttachmentRef struct {
	ID       uint   `json:"id"`
	FilePath string `json:"file_path"`
}

// MessageStore is the transactional surface the outbox and the cleaner
// depend on. It owns no policy; everything above it decides what to write.
type MessageStore interface {
	InsertMessage(message models.Message) (models.Message, error)
	SelectMessagesOlderThan(cutoff time.Time, limit int) ([]MessageRef, error)
	RedactMessages(ids []uint) (int64, error)
	SelectOrphanedAttachments() ([]AttachmentRef, error)
	DeleteAttachments(ids []uint) (int64, error)
	PurgeRemoved(before time.Time) (int64, error)
}

type gormStore struct{}

// Store returns the gorm-backed MessageStore over the shared source.
func Store() MessageStore {
	return gormStore{}
}

func (gormStore) InsertMessage(message models.Message) (models.Message, error) {
	// Client timestamps are advisory only; the store assigns the
	// authoritative ones on commit.
	message.CreatedAt = time.Time{}
	message.UpdatedAt = time.Time{}
	if err := database.C.Save(&message).Error; err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return message, fmt.Errorf("%w: %v", ErrStoreConstraint, err)
		}
		return message, err
	}
	return message, nil
}

func (gormStore) SelectMessagesOlderThan(cutoff time.Time, limit int) ([]MessageRef, error) {
	var refs []MessageRef
	if err := database.C.Model(&models.Message{}).
		Where("created_at < ? AND body != ?", cutoff, models.TombstoneBody).
		Order("created_at ASC").
		Limit(limit).
		Find(&refs).Error; err != nil {
		return refs, err
	}
	return refs, nil
}

func (gormStore) RedactMessages(ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	// Detach owned attachment rows first; the orphan sweep reaps them.
	if err := database.C.Model(&models.Attachment{}).
		Where("message_id IN ?", ids).
		Update("message_id", nil).Error; err != nil {
		return 0, err
	}
	tx := database.C.Model(&models.Message{}).
		Where("id IN ?", ids).
		Updates(map[string]any{
			"body":        models.TombstoneBody,
			"attachments": datatypes.JSONSlice[string]{},
			"images":      datatypes.JSONSlice[string]{},
		})
	if tx.Error != nil {
		return 0, tx.Error
	}
	return tx.RowsAffected, nil
}

func (gormStore) SelectOrphanedAttachments() ([]AttachmentRef, error) {
	var refs []AttachmentRef
	if err := database.C.Model(&models.Attachment{}).
		Where("message_id IS NULL").
		Find(&refs).Error; err != nil {
		return refs, err
	}
	return refs, nil
}

// PurgeRemoved drops rows that were soft-deleted before the given
// instant. Interactive deletes only flag the row, so a mistaken delete
// stays recoverable for a short while; this is where they actually
// leave the table.
func (gormStore) PurgeRemoved(before time.Time) (int64, error) {
	var total int64
	for _, model := range database.AutoMaintainRange {
		tx := database.C.Unscoped().
			Delete(model, "deleted_at IS NOT NULL AND deleted_at < ?", before)
		if tx.Error != nil {
			return total, tx.Error
		}
		total += tx.RowsAffected
	}
	return total, nil
}

func (gormStore) DeleteAttachments(ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	tx := database.C.Unscoped().Delete(&models.Attachment{}, "id IN ?", ids)
	if tx.Error != nil {
		return 0, tx.Error
	}
	return tx.RowsAffected, nil
}
