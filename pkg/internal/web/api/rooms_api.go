package api

import (
	"github.com/clubworks/messaging/pkg/internal/models"
	"github.com/clubworks/messaging/pkg/internal/services"
	"github.com/clubworks/messaging/pkg/internal/web/exts"
	"github.com/gofiber/fiber/v2"
)

func listRoom(c *fiber.Ctx) error {
	user := c.Locals("user").(models.Account)

	rooms, err := services.ListAvailableRoom(user.ID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(rooms)
}

func getRoom(c *fiber.Ctx) error {
	user := c.Locals("user").(models.Account)
	alias := c.Params("room")

	room, _, err := services.GetRoomIdentity(alias, user.ID)
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	return c.JSON(room)
}

func createRoom(c *fiber.Ctx) error {
	user := c.Locals("user").(models.Account)

	var data struct {
		Alias       string `json:"alias" validate:"required,lowercase,min=4,max=32"`
		Name        string `json:"name" validate:"required"`
		Description string `json:"description"`
		IsPublic    bool   `json:"is_public"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	room, err := services.NewRoom(models.Room{
		Alias:       data.Alias,
		Name:        data.Name,
		Description: data.Description,
		IsPublic:    data.IsPublic,
		AccountID:   user.ID,
	})
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	return c.JSON(room)
}

func listRoomMember(c *fiber.Ctx) error {
	user := c.Locals("user").(models.Account)
	alias := c.Params("room")

	room, _, err := services.GetRoomIdentity(alias, user.ID)
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	members, err := services.ListRoomMember(room)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	out := make([]fiber.Map, 0, len(members))
	for _, member := range members {
		out = append(out, fiber.Map{
			"member": member,
			"online": services.CheckOnline(member.AccountID),
		})
	}

	return c.JSON(out)
}

func addRoomMember(c *fiber.Ctx) error {
	user := c.Locals("user").(models.Account)
	alias := c.Params("room")

	var data struct {
		AccountID uint `json:"account_id" validate:"required"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	room, _, err := services.GetRoomIdentity(alias, user.ID)
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	account, err := services.GetAccount(data.AccountID)
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	member, err := services.AddRoomMember(room, account)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	return c.JSON(member)
}

func setTypingStatus(c *fiber.Ctx) error {
	user := c.Locals("user").(models.Account)
	alias := c.Params("room")

	room, _, err := services.GetRoomIdentity(alias, user.ID)
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	if err := services.SetTypingStatus(room.ID, user.ID); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	return c.SendStatus(fiber.StatusOK)
}
