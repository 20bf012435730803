package services

import (
	"sync"

	"github.com/clubworks/messaging/pkg/internal/models"
	"github.com/rs/zerolog/log"
)

var (
	sharedOutbox     *Outbox
	sharedOutboxOnce sync.Once
)

// SharedOutbox is the process-wide outbox over the gorm store. State
// changes fan out over the gateway so clients can swap their optimistic
// entries, keyed by the client token carried in the payload.
func SharedOutbox() *Outbox {
	sharedOutboxOnce.Do(func() {
		sharedOutbox = NewOutbox(Store())
		sharedOutbox.LinkFiles = func(message models.Message, ids []uint) {
			if _, err := LinkAttachments(message, ids); err != nil {
				log.Warn().Err(err).Uint("message", message.ID).
					Msg("An error occurred when linking attachments to message...")
			}
		}
		sharedOutbox.Notify = func(entry LocalMessage) {
			switch entry.Status {
			case LocalStatusConfirmed:
				PushRoomCommand(entry.Message.RoomID, UnifiedCommand{
					Action:  "messages.new",
					Payload: entry,
				})
			case LocalStatusFailed:
				// Only the author needs to see a failed send; it is
				// theirs to retry or discard.
				PushCommand(entry.Message.AuthorID, UnifiedCommand{
					Action:  "messages.failed",
					Message: entry.Error,
					Payload: entry,
				})
			}
		}
	})
	return sharedOutbox
}
