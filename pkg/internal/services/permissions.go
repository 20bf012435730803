package services

import (
	"fmt"
	"time"

	"github.com/clubworks/messaging/pkg/internal/models"
)

// Time windows for self-service edit and delete, one named constant per
// content type. The post/comment asymmetry is inherited platform behavior;
// do not fold them into one constant without confirming intent.
const (
	// EditWindow is uniform across content types.
	EditWindow          = 2 * time.Hour
	MessageDeleteWindow = 2 * time.Hour
	PostDeleteWindow    = 3 * time.Hour
	CommentDeleteWindow = 2 * time.Hour

	// ModerationGraceWindow is how long committee-class roles can still
	// remove someone else's content after the fact.
	ModerationGraceWindow = 7 * 24 * time.Hour
)

// The evaluators below are pure functions of the actor, the content row and
// the supplied clock reading. They are consulted on the interactive paths
// and never by the store itself.

func withinWindow(createdAt time.Time, now time.Time, window time.Duration) bool {
	return now.Sub(createdAt) <= window
}

// CanEditMessage permits only the author, only within the edit window.
// No role bypasses it.
func CanEditMessage(actor models.Account, message models.Message, now time.Time) bool {
	if actor.ID != message.AuthorID {
		return false
	}
	return withinWindow(message.CreatedAt, now, EditWindow)
}

func CanDeleteMessage(actor models.Account, message models.Message, now time.Time) bool {
	if models.IsModeratorRole(actor.Role) {
		return withinWindow(message.CreatedAt, now, ModerationGraceWindow)
	}
	if actor.ID != message.AuthorID {
		return false
	}
	return withinWindow(message.CreatedAt, now, MessageDeleteWindow)
}

func CanEditPost(actor models.Account, post models.Post, now time.Time) bool {
	if actor.ID != post.AuthorID {
		return false
	}
	return withinWindow(post.CreatedAt, now, EditWindow)
}

func CanDeletePost(actor models.Account, post models.Post, now time.Time) bool {
	if models.IsModeratorRole(actor.Role) {
		return withinWindow(post.CreatedAt, now, ModerationGraceWindow)
	}
	if actor.ID != post.AuthorID {
		return false
	}
	return withinWindow(post.CreatedAt, now, PostDeleteWindow)
}

// The Ensure variants are what the interactive paths call right before a
// store mutation; they surface ErrPermissionDenied with the reason.

func EnsureCanEditMessage(actor models.Account, message models.Message, now time.Time) error {
	if !CanEditMessage(actor, message, now) {
		return fmt.Errorf("%w: only the author can edit, within %v of posting", ErrPermissionDenied, EditWindow)
	}
	return nil
}

func EnsureCanDeleteMessage(actor models.Account, message models.Message, now time.Time) error {
	if !CanDeleteMessage(actor, message, now) {
		return fmt.Errorf("%w: the delete window for this message has closed", ErrPermissionDenied)
	}
	return nil
}

func EnsureCanEditPost(actor models.Account, post models.Post, now time.Time) error {
	if !CanEditPost(actor, post, now) {
		return fmt.Errorf("%w: only the author can edit, within %v of posting", ErrPermissionDenied, EditWindow)
	}
	return nil
}

func EnsureCanDeletePost(actor models.Account, post models.Post, now time.Time) error {
	if !CanDeletePost(actor, post, now) {
		return fmt.Errorf("%w: the delete window for this post has closed", ErrPermissionDenied)
	}
	return nil
}

func EnsureCanDeleteComment(actor models.Account, comment models.Comment, now time.Time) error {
	if !CanDeleteComment(actor, comment, now) {
		return fmt.Errorf("%w: the delete window for this comment has closed", ErrPermissionDenied)
	}
	return nil
}

func CanEditComment(actor models.Account, comment models.Comment, now time.Time) bool {
	if actor.ID != comment.AuthorID {
		return false
	}
	return withinWindow(comment.CreatedAt, now, EditWindow)
}

func CanDeleteComment(actor models.Account, comment models.Comment, now time.Time) bool {
	if models.IsModeratorRole(actor.Role) {
		return withinWindow(comment.CreatedAt, now, ModerationGraceWindow)
	}
	if actor.ID != comment.AuthorID {
		return false
	}
	return withinWindow(comment.CreatedAt, now, CommentDeleteWindow)
}
