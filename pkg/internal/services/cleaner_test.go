package services

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/clubworks/messaging/pkg/internal/models"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// memStore is an in-memory MessageStore for exercising the sweeper and the
// outbox without a database.
type memStore struct {
	mu sync.Mutex

	nextId      uint
	messages    map[uint]*models.Message
	attachments map[uint]*models.Attachment

	insertErr error
	redactErr func(call int) error
	redacts   int
}

func newMemStore() *memStore {
	return &memStore{
		messages:    make(map[uint]*models.Message),
		attachments: make(map[uint]*models.Attachment),
	}
}

func (s *memStore) seedMessage(body string, age time.Duration) uint {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextId++
	s.messages[s.nextId] = &models.Message{
		BaseModel: models.BaseModel{ID: s.nextId, CreatedAt: time.Now().Add(-age)},
		Body:      body,
	}
	return s.nextId
}

func (s *memStore) seedAttachment(messageId *uint) uint {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextId++
	s.attachments[s.nextId] = &models.Attachment{
		BaseModel: models.BaseModel{ID: s.nextId},
		FilePath:  fmt.Sprintf("uploads/%d", s.nextId),
		MessageID: messageId,
	}
	return s.nextId
}

func (s *memStore) removeMessage(id uint, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages[id].DeletedAt = gorm.DeletedAt{Time: at, Valid: true}
}

func (s *memStore) InsertMessage(message models.Message) (models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.insertErr != nil {
		return message, s.insertErr
	}
	s.nextId++
	message.ID = s.nextId
	message.CreatedAt = time.Now()
	s.messages[message.ID] = &message
	return message, nil
}

func (s *memStore) SelectMessagesOlderThan(cutoff time.Time, limit int) ([]MessageRef, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var refs []MessageRef
	for _, message := range s.messages {
		if message.DeletedAt.Valid {
			continue
		}
		if message.CreatedAt.Before(cutoff) && message.Body != models.TombstoneBody {
			refs = append(refs, MessageRef{ID: message.ID, CreatedAt: message.CreatedAt})
		}
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].CreatedAt.Before(refs[j].CreatedAt) })
	if len(refs) > limit {
		refs = refs[:limit]
	}
	return refs, nil
}

func (s *memStore) RedactMessages(ids []uint) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.redacts++
	if s.redactErr != nil {
		if err := s.redactErr(s.redacts); err != nil {
			return 0, err
		}
	}
	var count int64
	for _, id := range ids {
		if message, ok := s.messages[id]; ok {
			message.Body = models.TombstoneBody
			message.Attachments = nil
			message.Images = nil
			count++
		}
		for _, attachment := range s.attachments {
			if attachment.MessageID != nil && *attachment.MessageID == id {
				attachment.MessageID = nil
			}
		}
	}
	return count, nil
}

func (s *memStore) SelectOrphanedAttachments() ([]AttachmentRef, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var refs []AttachmentRef
	for _, attachment := range s.attachments {
		if attachment.MessageID == nil {
			refs = append(refs, AttachmentRef{ID: attachment.ID, FilePath: attachment.FilePath})
		}
	}
	return refs, nil
}

func (s *memStore) PurgeRemoved(before time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var count int64
	for id, message := range s.messages {
		if message.DeletedAt.Valid && message.DeletedAt.Time.Before(before) {
			delete(s.messages, id)
			count++
		}
	}
	for id, attachment := range s.attachments {
		if attachment.DeletedAt.Valid && attachment.DeletedAt.Time.Before(before) {
			delete(s.attachments, id)
			count++
		}
	}
	return count, nil
}

func (s *memStore) DeleteAttachments(ids []uint) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var count int64
	for _, id := range ids {
		if _, ok := s.attachments[id]; ok {
			delete(s.attachments, id)
			count++
		}
	}
	return count, nil
}

const day = 24 * time.Hour

func TestSweepMessagesRedactsOnlyOldMessages(t *testing.T) {
	store := newMemStore()
	oldId := store.seedMessage("vintage gossip", 70*day)
	newId := store.seedMessage("fresh gossip", 10*day)

	report := NewSweeper(store).SweepMessages(2)

	require.True(t, report.Success)
	assert.EqualValues(t, 1, report.Count)
	assert.Equal(t, models.TombstoneBody, store.messages[oldId].Body)
	assert.Empty(t, store.messages[oldId].Attachments)
	assert.Equal(t, "fresh gossip", store.messages[newId].Body)
}

func TestSweepMessagesIdempotent(t *testing.T) {
	store := newMemStore()
	store.seedMessage("first", 90*day)
	store.seedMessage("second", 80*day)

	sweeper := NewSweeper(store)
	first := sweeper.SweepMessages(2)
	second := sweeper.SweepMessages(2)

	require.True(t, first.Success)
	require.True(t, second.Success)
	assert.EqualValues(t, 2, first.Count)
	assert.EqualValues(t, 0, second.Count)
}

func TestSweepMessagesProcessesInBatches(t *testing.T) {
	store := newMemStore()
	for i := 0; i < 5; i++ {
		store.seedMessage("stale", 70*day)
	}

	sweeper := NewSweeper(store)
	sweeper.BatchSize = 2
	report := sweeper.SweepMessages(2)

	require.True(t, report.Success)
	assert.EqualValues(t, 5, report.Count)
	assert.GreaterOrEqual(t, store.redacts, 3)
}

func TestSweepMessagesPartialFailureKeepsCommittedBatches(t *testing.T) {
	store := newMemStore()
	for i := 0; i < 4; i++ {
		store.seedMessage("stale", 70*day)
	}
	store.redactErr = func(call int) error {
		if call >= 2 {
			return errors.New("connection reset")
		}
		return nil
	}

	sweeper := NewSweeper(store)
	sweeper.BatchSize = 2
	report := sweeper.SweepMessages(2)

	assert.False(t, report.Success)
	assert.EqualValues(t, 2, report.Count)

	// The first batch stays redacted; a later run picks up the rest.
	redacted := lo.CountBy(lo.Values(store.messages), func(item *models.Message) bool {
		return item.Body == models.TombstoneBody
	})
	assert.Equal(t, 2, redacted)

	store.redactErr = nil
	resumed := sweeper.SweepMessages(2)
	require.True(t, resumed.Success)
	assert.EqualValues(t, 2, resumed.Count)
}

func TestSweepMessagesSkipsTombstonedRegardlessOfAge(t *testing.T) {
	store := newMemStore()
	store.seedMessage(models.TombstoneBody, 365*day)

	report := NewSweeper(store).SweepMessages(2)

	require.True(t, report.Success)
	assert.EqualValues(t, 0, report.Count)
}

func TestSweepMessagesOrphansOwnedAttachments(t *testing.T) {
	store := newMemStore()
	oldId := store.seedMessage("had a file", 70*day)
	fileId := store.seedAttachment(&oldId)

	sweeper := NewSweeper(store)
	require.True(t, sweeper.SweepMessages(2).Success)

	// Redaction cleared the ownership edge; the orphan pass takes the row.
	require.Nil(t, store.attachments[fileId].MessageID)
	report := sweeper.SweepOrphanedAttachments()
	require.True(t, report.Success)
	assert.EqualValues(t, 1, report.Count)
	assert.NotContains(t, store.attachments, fileId)
}

func TestSweepRemovedPurgesAgedSoftDeletes(t *testing.T) {
	store := newMemStore()
	goneId := store.seedMessage("regretted", 3*day)
	freshId := store.seedMessage("second thoughts", 3*day)
	keptId := store.seedMessage("still standing", 3*day)
	store.removeMessage(goneId, time.Now().Add(-2*time.Hour))
	store.removeMessage(freshId, time.Now().Add(-10*time.Minute))

	sweeper := NewSweeper(store)
	report := sweeper.SweepRemoved(time.Hour)

	require.True(t, report.Success)
	assert.EqualValues(t, 1, report.Count)
	assert.NotContains(t, store.messages, goneId)
	assert.Contains(t, store.messages, freshId)
	assert.Contains(t, store.messages, keptId)

	second := sweeper.SweepRemoved(time.Hour)
	require.True(t, second.Success)
	assert.EqualValues(t, 0, second.Count)
}

func TestSweepOrphanedAttachments(t *testing.T) {
	store := newMemStore()
	ownerId := store.seedMessage("has a file", 1*day)
	orphanId := store.seedAttachment(nil)
	ownedId := store.seedAttachment(&ownerId)

	sweeper := NewSweeper(store)
	report := sweeper.SweepOrphanedAttachments()

	require.True(t, report.Success)
	assert.EqualValues(t, 1, report.Count)
	assert.NotContains(t, store.attachments, orphanId)
	assert.Contains(t, store.attachments, ownedId)

	second := sweeper.SweepOrphanedAttachments()
	require.True(t, second.Success)
	assert.EqualValues(t, 0, second.Count)
}
