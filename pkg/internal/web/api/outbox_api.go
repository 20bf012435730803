package api

import (
	"errors"

	"github.com/clubworks/messaging/pkg/internal/models"
	"github.com/clubworks/messaging/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
)

// The outbox endpoints expose the reconciliation state machine: clients
// poll or get pushed the pending/confirmed/failed transitions, and drive
// retry or discard for failed sends.

func listOutbox(c *fiber.Ctx) error {
	user := c.Locals("user").(models.Account)
	alias := c.Params("room")

	room, _, err := services.GetRoomIdentity(alias, user.ID)
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	return c.JSON(services.SharedOutbox().Collect(room.ID))
}

func getOutboxEntry(c *fiber.Ctx) error {
	token := c.Params("token")

	entry, err := services.SharedOutbox().Get(token)
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	return c.JSON(entry)
}

func retryOutboxEntry(c *fiber.Ctx) error {
	user := c.Locals("user").(models.Account)
	token := c.Params("token")

	outbox := services.SharedOutbox()
	entry, err := outbox.Get(token)
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}
	if entry.Message.AuthorID != user.ID {
		return fiber.NewError(fiber.StatusForbidden, "only the author can retry a failed send")
	}

	entry, err = outbox.Retry(token)
	if err != nil {
		if errors.Is(err, services.ErrNotRetryable) {
			return fiber.NewError(fiber.StatusConflict, err.Error())
		}
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	return c.Status(fiber.StatusAccepted).JSON(entry)
}

func discardOutboxEntry(c *fiber.Ctx) error {
	user := c.Locals("user").(models.Account)
	token := c.Params("token")

	outbox := services.SharedOutbox()
	entry, err := outbox.Get(token)
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}
	if entry.Message.AuthorID != user.ID {
		return fiber.NewError(fiber.StatusForbidden, "only the author can discard a failed send")
	}

	if err := outbox.Discard(token); err != nil {
		if errors.Is(err, services.ErrNotRetryable) {
			return fiber.NewError(fiber.StatusConflict, err.Error())
		}
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	return c.SendStatus(fiber.StatusOK)
}
