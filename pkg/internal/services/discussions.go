package services

import (
	"github.com/clubworks/messaging/pkg/internal/database"
	"github.com/clubworks/messaging/pkg/internal/models"
)

func GetPost(id uint) (models.Post, error) {
	var post models.Post
	if err := database.C.
		Where("id = ?", id).
		Preload("Author").
		First(&post).Error; err != nil {
		return post, err
	}
	return post, nil
}

func NewPost(post models.Post) (models.Post, error) {
	if err := database.C.Save(&post).Error; err != nil {
		return post, err
	}
	return post, nil
}

func EditPost(post models.Post) (models.Post, error) {
	if err := database.C.Save(&post).Error; err != nil {
		return post, err
	}
	return post, nil
}

// DeletePost removes the post row and its comments outright. Discussion
// content is never tombstoned; only chat messages get that treatment.
func DeletePost(post models.Post) error {
	if err := database.C.Delete(&models.Comment{}, "post_id = ?", post.ID).Error; err != nil {
		return err
	}
	return database.C.Delete(&post).Error
}

func GetComment(id uint) (models.Comment, error) {
	var comment models.Comment
	if err := database.C.
		Where("id = ?", id).
		Preload("Author").
		First(&comment).Error; err != nil {
		return comment, err
	}
	return comment, nil
}

func NewComment(comment models.Comment) (models.Comment, error) {
	if err := database.C.Save(&comment).Error; err != nil {
		return comment, err
	}
	return comment, nil
}

func DeleteComment(comment models.Comment) error {
	return database.C.Delete(&comment).Error
}

func ListComment(postId uint, take int, offset int) ([]models.Comment, error) {
	take, offset = clampPage(take, offset)

	var comments []models.Comment
	if err := database.C.Where(models.Comment{
		PostID: postId,
	}).Limit(take).Offset(offset).
		Order("created_at ASC").
		Preload("Author").
		Find(&comments).Error; err != nil {
		return comments, err
	}
	return comments, nil
}
