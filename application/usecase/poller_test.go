package usecase

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patrimonia/portal/application/port/inbound"
	"github.com/patrimonia/portal/domain/entity"
)

// pollSource serves empty batches until emptyRounds polls have happened.
type pollSource struct {
	inbound.MessagingUseCase
	polls       int32
	emptyRounds int32
	batch       []entity.Message
}

func (s *pollSource) NewSince(ctx context.Context, conversationID string, since time.Time) ([]entity.Message, error) {
	n := atomic.AddInt32(&s.polls, 1)
	if n <= s.emptyRounds {
		return nil, nil
	}
	return s.batch, nil
}

func TestWaitForNewReturnsFirstBatch(t *testing.T) {
	src := &pollSource{
		emptyRounds: 2,
		batch:       []entity.Message{{ID: "m-1", Contenu: "Bonjour"}},
	}
	p := NewPoller(src, 5*time.Millisecond, testLogger())

	msgs, err := p.WaitForNew(context.Background(), "c-1", time.Now(), time.Second)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "m-1", msgs[0].ID)
	assert.GreaterOrEqual(t, atomic.LoadInt32(&src.polls), int32(3))
}

func TestWaitForNewTimesOutEmpty(t *testing.T) {
	src := &pollSource{emptyRounds: 1 << 30}
	p := NewPoller(src, 5*time.Millisecond, testLogger())

	msgs, err := p.WaitForNew(context.Background(), "c-1", time.Now(), 50*time.Millisecond)
	require.NoError(t, err)
	assert.NotNil(t, msgs)
	assert.Empty(t, msgs)
}

func TestConversationsArePacedIndependently(t *testing.T) {
	src := &pollSource{
		batch: []entity.Message{{ID: "m-1"}},
	}
	p := NewPoller(src, 500*time.Millisecond, testLogger())

	// Burn the first conversation's immediate slot.
	_, err := p.WaitForNew(context.Background(), "c-1", time.Now(), time.Second)
	require.NoError(t, err)

	// A different conversation must not inherit c-1's cooldown.
	start := time.Now()
	msgs, err := p.WaitForNew(context.Background(), "c-2", time.Now(), time.Second)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Less(t, time.Since(start), 250*time.Millisecond,
		"polling one conversation must not delay another")
}

func TestRunDeliversBatchesUntilCancelled(t *testing.T) {
	src := &pollSource{
		emptyRounds: 1,
		batch: []entity.Message{
			{ID: "m-1", CreatedAt: time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)},
		},
	}
	p := NewPoller(src, 5*time.Millisecond, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	delivered := make(chan []entity.Message, 1)
	done := make(chan error, 1)
	go func() {
		done <- p.Run(ctx, "c-1", time.Now(), func(batch []entity.Message) {
			select {
			case delivered <- batch:
			default:
			}
		})
	}()

	select {
	case batch := <-delivered:
		assert.Equal(t, "m-1", batch[0].ID)
	case <-time.After(time.Second):
		t.Fatal("no batch delivered")
	}

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("poller did not stop on cancel")
	}
}
