package worker

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ascent/pkg/domain"
	"ascent/pkg/platform/audit"
	auditmem "ascent/pkg/platform/audit/store/memory"
)

func TestWorkerDrainsInbox(t *testing.T) {
	store := auditmem.New()
	inbox := make(chan audit.Event, 8)
	worker := New(store, inbox, slog.New(slog.DiscardHandler))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = worker.Run(ctx)
		close(done)
	}()

	publisher := NewChannelPublisher(inbox)
	userID := domain.UserID(uuid.New())
	require.NoError(t, publisher.Emit(ctx, audit.Event{
		Action: audit.EventSessionRecorded,
		UserID: userID,
		Gleams: 180,
	}))

	require.Eventually(t, func() bool {
		return len(store.Events()) == 1
	}, time.Second, 10*time.Millisecond)

	events := store.Events()
	assert.Equal(t, audit.EventSessionRecorded, events[0].Action)
	// The publisher fills in the category from the action.
	assert.Equal(t, audit.CategoryCurrency, events[0].Category)

	cancel()
	<-done
}

func TestChannelPublisherDropsWhenFull(t *testing.T) {
	inbox := make(chan audit.Event, 1)
	publisher := NewChannelPublisher(inbox)

	require.NoError(t, publisher.Emit(context.Background(), audit.Event{Action: audit.EventSessionRecorded}))
	err := publisher.Emit(context.Background(), audit.Event{Action: audit.EventSessionRecorded})
	assert.ErrorIs(t, err, ErrInboxFull)
}
