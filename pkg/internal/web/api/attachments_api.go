package api

import (
	"github.com/clubworks/messaging/pkg/internal/models"
	"github.com/clubworks/messaging/pkg/internal/services"
	"github.com/clubworks/messaging/pkg/internal/web/exts"
	"github.com/gofiber/fiber/v2"
)

func getAttachment(c *fiber.Ctx) error {
	attachmentId, _ := c.ParamsInt("attachmentId", 0)

	attachment, err := services.GetAttachment(uint(attachmentId))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	return c.JSON(attachment)
}

// uploadAttachment registers an upload that already landed in external
// storage. The row is unowned until the message that carries it commits;
// unclaimed rows age out through the orphan sweep.
func uploadAttachment(c *fiber.Ctx) error {
	user := c.Locals("user").(models.Account)

	var data struct {
		FilePath string `json:"file_path" validate:"required"`
		FileType string `json:"file_type" validate:"required"`
		FileSize int64  `json:"file_size" validate:"required"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	attachment, err := services.NewAttachment(user, data.FilePath, data.FileType, data.FileSize)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	return c.JSON(attachment)
}
