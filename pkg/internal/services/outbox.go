package services

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/clubworks/messaging/pkg/internal/models"
	"github.com/google/uuid"
)

type LocalStatus = uint8

const (
	LocalStatusPending = LocalStatus(iota)
	LocalStatusConfirmed
	LocalStatusFailed
)

// LocalMessage is the client-visible overlay of a message in flight: the
// optimistic copy shown before the store confirms it. Once confirmed it
// carries the store-assigned id and authoritative timestamp.
type LocalMessage struct {
	ClientToken string         `json:"client_token"`
	Status      LocalStatus    `json:"status"`
	Message     models.Message `json:"message"`
	SubmittedAt time.Time      `json:"submitted_at"`
	Error       string         `json:"error,omitempty"`

	// FileIDs are uploaded attachment rows waiting to be claimed once
	// the message commits.
	FileIDs []uint `json:"file_ids,omitempty"`
}

// MessageInserter is the only store capability the outbox needs.
type MessageInserter interface {
	InsertMessage(message models.Message) (models.Message, error)
}

// Outbox turns a composition event into a confirmed, ordered message. The
// durable write happens off the caller's goroutine; the caller gets the
// pending overlay back immediately. Reconciliation is keyed by client token
// and nothing else: entries from other rooms and users land concurrently,
// so positional matching would cross-assign.
type Outbox struct {
	store MessageInserter

	mu      sync.Mutex
	entries map[string]*LocalMessage

	// Notify, when set, observes every state change. Used to fan out
	// pending/confirmed/failed events to connected clients.
	Notify func(entry LocalMessage)

	// LinkFiles, when set, claims uploaded attachment rows for a message
	// right after its commit.
	LinkFiles func(message models.Message, ids []uint)
}

func NewOutbox(store MessageInserter) *Outbox {
	return &Outbox{
		store:   store,
		entries: make(map[string]*LocalMessage),
	}
}

var (
	ErrTokenTaken    = errors.New("client token already in use")
	ErrTokenUnknown  = errors.New("no such pending message")
	ErrNotRetryable  = errors.New("message is not in a failed state")
	ErrTokenTooShort = errors.New("client token was not valid")
)

// Submit registers a pending message under the given client token and
// kicks off the durable write. An empty token gets a generated one. The
// returned overlay reflects the pending state; the advisory timestamp is
// the local clock and will be replaced on confirmation.
func (v *Outbox) Submit(message models.Message, token string, fileIds []uint) (LocalMessage, error) {
	if len(token) == 0 {
		token = uuid.NewString()
	} else if len(token) < 36 {
		return LocalMessage{}, ErrTokenTooShort
	}

	// The token is correlation state only; it never reaches the store.
	now := time.Now()
	message.CreatedAt = now

	v.mu.Lock()
	if _, ok := v.entries[token]; ok {
		v.mu.Unlock()
		return LocalMessage{}, ErrTokenTaken
	}
	entry := &LocalMessage{
		ClientToken: token,
		Status:      LocalStatusPending,
		Message:     message,
		SubmittedAt: now,
		FileIDs:     fileIds,
	}
	v.entries[token] = entry
	snapshot := *entry
	v.mu.Unlock()

	go v.deliver(token)

	return snapshot, nil
}

func (v *Outbox) deliver(token string) {
	v.mu.Lock()
	entry, ok := v.entries[token]
	if !ok || entry.Status != LocalStatusPending {
		v.mu.Unlock()
		return
	}
	message := entry.Message
	v.mu.Unlock()

	// The one network-bound suspension of the interactive path; taken
	// outside the lock so slow inserts never stall other rooms.
	saved, err := v.store.InsertMessage(message)

	v.mu.Lock()
	entry, ok = v.entries[token]
	if !ok {
		// Discarded while in flight; the durable row (if any) stands.
		v.mu.Unlock()
		return
	}
	if err != nil {
		entry.Status = LocalStatusFailed
		entry.Error = err.Error()
	} else {
		entry.Status = LocalStatusConfirmed
		entry.Message = saved
		entry.Error = ""
	}
	snapshot := *entry
	v.mu.Unlock()

	if err == nil && len(snapshot.FileIDs) > 0 && v.LinkFiles != nil {
		v.LinkFiles(snapshot.Message, snapshot.FileIDs)
	}

	if v.Notify != nil {
		v.Notify(snapshot)
	}
}

// Retry re-issues the durable write for a failed entry under the same
// token. A failed send stays visible until the user retries or discards;
// it is never dropped on the floor.
func (v *Outbox) Retry(token string) (LocalMessage, error) {
	v.mu.Lock()
	entry, ok := v.entries[token]
	if !ok {
		v.mu.Unlock()
		return LocalMessage{}, ErrTokenUnknown
	}
	if entry.Status != LocalStatusFailed {
		snapshot := *entry
		v.mu.Unlock()
		return snapshot, ErrNotRetryable
	}
	entry.Status = LocalStatusPending
	entry.Error = ""
	snapshot := *entry
	v.mu.Unlock()

	go v.deliver(token)

	return snapshot, nil
}

// Discard drops a failed entry. Pending and confirmed entries are kept;
// discarding mid-flight would leave the durable outcome unknown.
func (v *Outbox) Discard(token string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	entry, ok := v.entries[token]
	if !ok {
		return ErrTokenUnknown
	}
	if entry.Status != LocalStatusFailed {
		return ErrNotRetryable
	}
	delete(v.entries, token)
	return nil
}

// Get returns the current overlay for a token.
func (v *Outbox) Get(token string) (LocalMessage, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	entry, ok := v.entries[token]
	if !ok {
		return LocalMessage{}, ErrTokenUnknown
	}
	return *entry, nil
}

// Collect returns the overlays for one room: confirmed entries first in
// authoritative store order, then pending and failed ones by local
// submission time. Confirmed overlays are advisory here too; the store's
// history endpoint is the source of truth once a client re-syncs.
func (v *Outbox) Collect(roomId uint) []LocalMessage {
	v.mu.Lock()
	defer v.mu.Unlock()

	// Non-nil even when empty so callers serialize an empty list.
	out := []LocalMessage{}
	for _, entry := range v.entries {
		if entry.Message.RoomID == roomId {
			out = append(out, *entry)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		ci := out[i].Status == LocalStatusConfirmed
		cj := out[j].Status == LocalStatusConfirmed
		if ci != cj {
			return ci
		}
		if ci {
			return out[i].Message.CreatedAt.Before(out[j].Message.CreatedAt)
		}
		return out[i].SubmittedAt.Before(out[j].SubmittedAt)
	})
	return out
}

// Evict removes confirmed entries older than the given age. Confirmed
// overlays only matter until clients have re-synced from the store, so
// the gateway prunes them on a timer.
func (v *Outbox) Evict(maxAge time.Duration) int {
	deadline := time.Now().Add(-maxAge)

	v.mu.Lock()
	defer v.mu.Unlock()

	var count int
	for token, entry := range v.entries {
		if entry.Status == LocalStatusConfirmed && entry.SubmittedAt.Before(deadline) {
			delete(v.entries, token)
			count++
		}
	}
	return count
}
