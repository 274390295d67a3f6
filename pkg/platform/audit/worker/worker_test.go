package worker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	audit "sponsorreg/pkg/platform/audit"
	"sponsorreg/pkg/platform/audit/store/memory"
)

func TestWorkerPersistsEvents(t *testing.T) {
	store := memory.NewInMemoryStore()
	inbox := make(chan audit.Event, 8)
	w := NewWorker(store, inbox)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	pub := NewChannelPublisher(inbox)
	require.NoError(t, pub.Emit(ctx, audit.NewEvent(audit.ActionAgreementCreated, "SP_SPONSOR")))
	require.NoError(t, pub.Emit(ctx, audit.NewEvent(audit.ActionAgreementUpdated, "SP_SPONSOR")))

	assert.Eventually(t, func() bool {
		events, err := store.ListRecent(ctx, 0)
		return err == nil && len(events) == 2
	}, time.Second, 10*time.Millisecond)

	cancel()
	require.ErrorIs(t, <-done, context.Canceled)

	events, err := store.ListRecent(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, audit.ActionAgreementUpdated, events[0].Action)
}

func TestChannelPublisherDropsWhenFull(t *testing.T) {
	inbox := make(chan audit.Event, 1)
	pub := NewChannelPublisher(inbox)

	ctx := context.Background()
	require.NoError(t, pub.Emit(ctx, audit.NewEvent(audit.ActionAuthoritySet, "SP_A")))
	// Inbox full: emission still succeeds, event is dropped.
	require.NoError(t, pub.Emit(ctx, audit.NewEvent(audit.ActionAuthoritySet, "SP_A")))
	assert.Len(t, inbox, 1)
}
