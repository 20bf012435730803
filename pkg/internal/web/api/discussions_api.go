package api

import (
	"time"

	"github.com/clubworks/messaging/pkg/internal/models"
	"github.com/clubworks/messaging/pkg/internal/services"
	"github.com/clubworks/messaging/pkg/internal/web/exts"
	"github.com/gofiber/fiber/v2"
)

func getPost(c *fiber.Ctx) error {
	postId, _ := c.ParamsInt("postId", 0)

	post, err := services.GetPost(uint(postId))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	return c.JSON(post)
}

func createPost(c *fiber.Ctx) error {
	user := c.Locals("user").(models.Account)

	var data struct {
		Title string `json:"title" validate:"required"`
		Body  string `json:"body" validate:"required"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	post, err := services.NewPost(models.Post{
		Title:    data.Title,
		Body:     data.Body,
		AuthorID: user.ID,
	})
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	return c.JSON(post)
}

func editPost(c *fiber.Ctx) error {
	user := c.Locals("user").(models.Account)
	postId, _ := c.ParamsInt("postId", 0)

	var data struct {
		Title string `json:"title" validate:"required"`
		Body  string `json:"body" validate:"required"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	post, err := services.GetPost(uint(postId))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	if err := services.EnsureCanEditPost(user, post, time.Now()); err != nil {
		return fiber.NewError(fiber.StatusForbidden, err.Error())
	}

	post.Title = data.Title
	post.Body = data.Body
	post, err = services.EditPost(post)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	return c.JSON(post)
}

func deletePost(c *fiber.Ctx) error {
	user := c.Locals("user").(models.Account)
	postId, _ := c.ParamsInt("postId", 0)

	post, err := services.GetPost(uint(postId))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	if err := services.EnsureCanDeletePost(user, post, time.Now()); err != nil {
		return fiber.NewError(fiber.StatusForbidden, err.Error())
	}

	if err := services.DeletePost(post); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	return c.SendStatus(fiber.StatusOK)
}

func listComment(c *fiber.Ctx) error {
	postId, _ := c.ParamsInt("postId", 0)
	take := c.QueryInt("take", 50)
	offset := c.QueryInt("offset", 0)

	comments, err := services.ListComment(uint(postId), take, offset)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(comments)
}

func createComment(c *fiber.Ctx) error {
	user := c.Locals("user").(models.Account)
	postId, _ := c.ParamsInt("postId", 0)

	var data struct {
		Body string `json:"body" validate:"required"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	post, err := services.GetPost(uint(postId))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	comment, err := services.NewComment(models.Comment{
		Body:     data.Body,
		PostID:   post.ID,
		AuthorID: user.ID,
	})
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	return c.JSON(comment)
}

func deleteComment(c *fiber.Ctx) error {
	user := c.Locals("user").(models.Account)
	commentId, _ := c.ParamsInt("commentId", 0)

	comment, err := services.GetComment(uint(commentId))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	if err := services.EnsureCanDeleteComment(user, comment, time.Now()); err != nil {
		return fiber.NewError(fiber.StatusForbidden, err.Error())
	}

	if err := services.DeleteComment(comment); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	return c.SendStatus(fiber.StatusOK)
}
