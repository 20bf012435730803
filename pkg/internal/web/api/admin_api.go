package api

import (
	"github.com/clubworks/messaging/pkg/internal/models"
	"github.com/clubworks/messaging/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
)

// Manual sweep triggers for committee members; the cron schedule in main
// covers the routine cadence.

func ensureModerator(c *fiber.Ctx) (models.Account, error) {
	user := c.Locals("user").(models.Account)
	if !models.IsModeratorRole(user.Role) {
		return user, fiber.NewError(fiber.StatusForbidden, "this action requires a committee role")
	}
	return user, nil
}

func sweepMessages(c *fiber.Ctx) error {
	if _, err := ensureModerator(c); err != nil {
		return err
	}

	months := c.QueryInt("months", 2)
	if months <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "months must be positive")
	}

	report := services.NewSweeper(services.Store()).SweepMessages(months)
	return c.JSON(report)
}

func sweepOrphanedAttachments(c *fiber.Ctx) error {
	if _, err := ensureModerator(c); err != nil {
		return err
	}

	report := services.NewSweeper(services.Store()).SweepOrphanedAttachments()
	return c.JSON(report)
}

func listOrphanedAttachments(c *fiber.Ctx) error {
	if _, err := ensureModerator(c); err != nil {
		return err
	}

	refs, err := services.ListOrphanedAttachments()
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(refs)
}
