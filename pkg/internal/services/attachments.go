package services

import (
	"github.com/clubworks/messaging/pkg/internal/database"
	"github.com/clubworks/messaging/pkg/internal/models"
)

// NewAttachment records an upload's metadata. The row starts unowned;
// LinkAttachments claims it when the message commits. Whatever never gets
// claimed is reaped by the orphan sweep.
func NewAttachment(uploader models.Account, filePath, fileType string, fileSize int64) (models.Attachment, error) {
	attachment := models.Attachment{
		FilePath:   filePath,
		FileType:   fileType,
		FileSize:   fileSize,
		UploaderID: uploader.ID,
	}
	if err := database.C.Save(&attachment).Error; err != nil {
		return attachment, err
	}
	return attachment, nil
}

// LinkAttachments claims uploaded rows for a committed message. Only the
// uploader's own unowned rows can be claimed.
func LinkAttachments(message models.Message, ids []uint) ([]models.Attachment, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	if err := database.C.Model(&models.Attachment{}).
		Where("id IN ? AND uploader_id = ? AND message_id IS NULL", ids, message.AuthorID).
		Update("message_id", message.ID).Error; err != nil {
		return nil, err
	}

	var attachments []models.Attachment
	if err := database.C.
		Where("message_id = ?", message.ID).
		Find(&attachments).Error; err != nil {
		return attachments, err
	}
	return attachments, nil
}

func GetAttachment(id uint) (models.Attachment, error) {
	var attachment models.Attachment
	if err := database.C.Where("id = ?", id).First(&attachment).Error; err != nil {
		return attachment, err
	}
	return attachment, nil
}

// ListOrphanedAttachments is the admin-facing preview of what the next
// orphan sweep would delete.
func ListOrphanedAttachments() ([]AttachmentRef, error) {
	return Store().SelectOrphanedAttachments()
}
