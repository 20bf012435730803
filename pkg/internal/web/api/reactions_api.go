package api

import (
	"github.com/clubworks/messaging/pkg/internal/models"
	"github.com/clubworks/messaging/pkg/internal/services"
	"github.com/clubworks/messaging/pkg/internal/web/exts"
	"github.com/gofiber/fiber/v2"
)

func listReactions(c *fiber.Ctx) error {
	user := c.Locals("user").(models.Account)
	alias := c.Params("room")
	messageId, _ := c.ParamsInt("messageId", 0)

	room, _, err := services.GetRoomIdentity(alias, user.ID)
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	message, err := services.GetMessage(room, uint(messageId))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	reactions, err := services.ListReactions(message)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(reactions)
}

func toggleReaction(c *fiber.Ctx) error {
	user := c.Locals("user").(models.Account)
	alias := c.Params("room")
	messageId, _ := c.ParamsInt("messageId", 0)

	var data struct {
		Emoji string `json:"emoji" validate:"required"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	room, _, err := services.GetRoomIdentity(alias, user.ID)
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	message, err := services.GetMessage(room, uint(messageId))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	reaction, added, err := services.ToggleReaction(message, user, data.Emoji)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	return c.JSON(fiber.Map{
		"added":    added,
		"reaction": reaction,
	})
}
