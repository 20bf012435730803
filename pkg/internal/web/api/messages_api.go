package api

import (
	"strings"
	"time"

	"github.com/clubworks/messaging/pkg/internal/models"
	"github.com/clubworks/messaging/pkg/internal/services"
	"github.com/clubworks/messaging/pkg/internal/web/exts"
	"github.com/gofiber/fiber/v2"
)

func listMessage(c *fiber.Ctx) error {
	user := c.Locals("user").(models.Account)
	alias := c.Params("room")
	take := c.QueryInt("take", 50)
	offset := c.QueryInt("offset", 0)

	room, _, err := services.GetRoomIdentity(alias, user.ID)
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	messages, err := services.ListMessage(room, take, offset)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(fiber.Map{
		"count": services.CountMessage(room),
		"data":  services.DecorateReplies(messages),
	})
}

func getMessage(c *fiber.Ctx) error {
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
	message.ReplyTo = services.ResolveReply(message)

	return c.JSON(message)
}

func newMessage(c *fiber.Ctx) error {
	user := c.Locals("user").(models.Account)
	alias := c.Params("room")

	var data struct {
		Uuid        string   `json:"uuid"`
		Body        string   `json:"body"`
		Attachments []string `json:"attachments"`
		Images      []string `json:"images"`
		Files       []uint   `json:"files"`
		ReplyTo     *uint    `json:"reply_to"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	data.Body = strings.TrimSpace(data.Body)
	if len(data.Body) == 0 && len(data.Attachments) == 0 && len(data.Files) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "empty message was not allowed")
	}

	room, member, err := services.GetRoomIdentity(alias, user.ID)
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	message := models.Message{
		Body:        data.Body,
		Attachments: data.Attachments,
		Images:      data.Images,
		RoomID:      room.ID,
		AuthorID:    member.AccountID,
		ReplyID:     data.ReplyTo,
	}

	// The durable write happens off this request; the reply is the
	// pending overlay, reconciled later under the same client token.
	entry, err := services.SharedOutbox().Submit(message, data.Uuid, data.Files)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	return c.Status(fiber.StatusAccepted).JSON(entry)
}

func editMessage(c *fiber.Ctx) error {
	user := c.Locals("user").(models.Account)
	alias := c.Params("room")
	messageId, _ := c.ParamsInt("messageId", 0)

	var data struct {
		Body        string   `json:"body" validate:"required"`
		Attachments []string `json:"attachments"`
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

	if err := services.EnsureCanEditMessage(user, message, time.Now()); err != nil {
		return fiber.NewError(fiber.StatusForbidden, err.Error())
	}

	message, err = services.EditMessage(message, data.Body, data.Attachments)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	return c.JSON(message)
}

func deleteMessage(c *fiber.Ctx) error {
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

	if err := services.EnsureCanDeleteMessage(user, message, time.Now()); err != nil {
		return fiber.NewError(fiber.StatusForbidden, err.Error())
	}

	if err := services.DeleteMessage(message); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	return c.SendStatus(fiber.StatusOK)
}
