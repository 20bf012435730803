package services

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/clubworks/messaging/pkg/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gatedInserter holds every insert until the test releases it, so
// completion order is fully scripted.
type gatedInserter struct {
	mu     sync.Mutex
	nextId uint
	gates  map[string]chan error
}

func newGatedInserter() *gatedInserter {
	return &gatedInserter{gates: make(map[string]chan error)}
}

func (g *gatedInserter) gate(body string) chan error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.gates[body]; !ok {
		g.gates[body] = make(chan error, 1)
	}
	return g.gates[body]
}

func (g *gatedInserter) InsertMessage(message models.Message) (models.Message, error) {
	if err := <-g.gate(message.Body); err != nil {
		return message, err
	}
	g.mu.Lock()
	g.nextId++
	message.ID = g.nextId
	message.CreatedAt = time.Now()
	g.mu.Unlock()
	return message, nil
}

// watchOutbox returns an outbox whose state changes land on the channel.
func watchOutbox(store MessageInserter) (*Outbox, chan LocalMessage) {
	outbox := NewOutbox(store)
	settled := make(chan LocalMessage, 16)
	outbox.Notify = func(entry LocalMessage) {
		settled <- entry
	}
	return outbox, settled
}

func waitSettled(t *testing.T, settled chan LocalMessage, token string) LocalMessage {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case entry := <-settled:
			if entry.ClientToken == token {
				return entry
			}
		case <-deadline:
			t.Fatalf("entry %s never settled", token)
		}
	}
}

func roomMessage(roomId uint, body string) models.Message {
	return models.Message{Body: body, RoomID: roomId, AuthorID: 1}
}

func TestOutboxReconcilesByTokenNotPosition(t *testing.T) {
	inserter := newGatedInserter()
	outbox, settled := watchOutbox(inserter)

	first, err := outbox.Submit(roomMessage(1, "first"), "", nil)
	require.NoError(t, err)
	second, err := outbox.Submit(roomMessage(1, "second"), "", nil)
	require.NoError(t, err)

	assert.Equal(t, LocalStatusPending, first.Status)
	assert.Equal(t, LocalStatusPending, second.Status)
	assert.NotEqual(t, first.ClientToken, second.ClientToken)

	// Complete the second submit before the first; each entry must still
	// reconcile to its own durable row.
	inserter.gate("second") <- nil
	secondDone := waitSettled(t, settled, second.ClientToken)
	inserter.gate("first") <- nil
	firstDone := waitSettled(t, settled, first.ClientToken)

	assert.Equal(t, LocalStatusConfirmed, firstDone.Status)
	assert.Equal(t, LocalStatusConfirmed, secondDone.Status)
	assert.Equal(t, "first", firstDone.Message.Body)
	assert.Equal(t, "second", secondDone.Message.Body)
	assert.NotZero(t, firstDone.Message.ID)
	assert.NotZero(t, secondDone.Message.ID)
	assert.NotEqual(t, firstDone.Message.ID, secondDone.Message.ID)
}

func TestOutboxFailedSendStaysVisible(t *testing.T) {
	inserter := newGatedInserter()
	outbox, settled := watchOutbox(inserter)

	entry, err := outbox.Submit(roomMessage(1, "doomed"), "", nil)
	require.NoError(t, err)

	inserter.gate("doomed") <- errors.New("store unreachable")
	failed := waitSettled(t, settled, entry.ClientToken)

	assert.Equal(t, LocalStatusFailed, failed.Status)
	assert.Contains(t, failed.Error, "store unreachable")

	// The entry is still there for the user to act on.
	kept, err := outbox.Get(entry.ClientToken)
	require.NoError(t, err)
	assert.Equal(t, LocalStatusFailed, kept.Status)
}

func TestOutboxRetryAfterFailure(t *testing.T) {
	inserter := newGatedInserter()
	outbox, settled := watchOutbox(inserter)

	entry, err := outbox.Submit(roomMessage(1, "flaky"), "", nil)
	require.NoError(t, err)

	inserter.gate("flaky") <- errors.New("timeout")
	waitSettled(t, settled, entry.ClientToken)

	retried, err := outbox.Retry(entry.ClientToken)
	require.NoError(t, err)
	assert.Equal(t, LocalStatusPending, retried.Status)

	inserter.gate("flaky") <- nil
	confirmed := waitSettled(t, settled, entry.ClientToken)
	assert.Equal(t, LocalStatusConfirmed, confirmed.Status)
	assert.NotZero(t, confirmed.Message.ID)
}

func TestOutboxRetryRequiresFailedState(t *testing.T) {
	inserter := newGatedInserter()
	outbox, settled := watchOutbox(inserter)

	entry, err := outbox.Submit(roomMessage(1, "steady"), "", nil)
	require.NoError(t, err)

	_, err = outbox.Retry(entry.ClientToken)
	assert.ErrorIs(t, err, ErrNotRetryable)

	inserter.gate("steady") <- nil
	waitSettled(t, settled, entry.ClientToken)

	_, err = outbox.Retry("no-such-token-aaaaaaaaaaaaaaaaaaaaaaaa")
	assert.ErrorIs(t, err, ErrTokenUnknown)
}

func TestOutboxDiscard(t *testing.T) {
	inserter := newGatedInserter()
	outbox, settled := watchOutbox(inserter)

	entry, err := outbox.Submit(roomMessage(1, "unwanted"), "", nil)
	require.NoError(t, err)

	// Mid-flight entries cannot be discarded; the durable outcome is
	// still unknown.
	assert.ErrorIs(t, outbox.Discard(entry.ClientToken), ErrNotRetryable)

	inserter.gate("unwanted") <- errors.New("rejected")
	waitSettled(t, settled, entry.ClientToken)

	require.NoError(t, outbox.Discard(entry.ClientToken))
	_, err = outbox.Get(entry.ClientToken)
	assert.ErrorIs(t, err, ErrTokenUnknown)
}

func TestOutboxSubmitTokenRules(t *testing.T) {
	inserter := newGatedInserter()
	outbox, _ := watchOutbox(inserter)

	_, err := outbox.Submit(roomMessage(1, "short"), "abc", nil)
	assert.ErrorIs(t, err, ErrTokenTooShort)

	token := "11111111-2222-3333-4444-555555555555"
	_, err = outbox.Submit(roomMessage(1, "taken"), token, nil)
	require.NoError(t, err)
	_, err = outbox.Submit(roomMessage(1, "taken again"), token, nil)
	assert.ErrorIs(t, err, ErrTokenTaken)
}

func TestOutboxCollectOrdersConfirmedFirst(t *testing.T) {
	inserter := newGatedInserter()
	outbox, settled := watchOutbox(inserter)

	a, _ := outbox.Submit(roomMessage(7, "a"), "", nil)
	b, _ := outbox.Submit(roomMessage(7, "b"), "", nil)
	c, _ := outbox.Submit(roomMessage(7, "c"), "", nil)
	_, _ = outbox.Submit(roomMessage(8, "other room"), "", nil)

	// Confirm b then a; c stays pending.
	inserter.gate("b") <- nil
	waitSettled(t, settled, b.ClientToken)
	inserter.gate("a") <- nil
	waitSettled(t, settled, a.ClientToken)

	entries := outbox.Collect(7)
	require.Len(t, entries, 3)

	// Confirmed entries lead in store order, pending ones trail in
	// submission order.
	assert.Equal(t, "b", entries[0].Message.Body)
	assert.Equal(t, "a", entries[1].Message.Body)
	assert.Equal(t, c.ClientToken, entries[2].ClientToken)
	assert.Equal(t, LocalStatusPending, entries[2].Status)
}

func TestOutboxCollectEmptyRoomIsNotNil(t *testing.T) {
	outbox := NewOutbox(newGatedInserter())

	entries := outbox.Collect(42)

	require.NotNil(t, entries)
	assert.Empty(t, entries)
}

func TestOutboxEvictsReconciledEntries(t *testing.T) {
	inserter := newGatedInserter()
	outbox, settled := watchOutbox(inserter)

	entry, _ := outbox.Submit(roomMessage(1, "done"), "", nil)
	inserter.gate("done") <- nil
	waitSettled(t, settled, entry.ClientToken)

	assert.Equal(t, 1, outbox.Evict(0))
	_, err := outbox.Get(entry.ClientToken)
	assert.ErrorIs(t, err, ErrTokenUnknown)
}
