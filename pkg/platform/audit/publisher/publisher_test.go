package publisher

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "campushire/pkg/domain"
	"campushire/pkg/platform/audit"
	"campushire/pkg/platform/audit/store/memory"
)

func TestPublisher_SyncMode(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store)
	defer pub.Close()

	candidateID := id.NewCandidateID()
	err := pub.Emit(context.Background(), audit.Event{
		CandidateID: candidateID,
		Action:      audit.EventApplicationAdmitted,
	})
	require.NoError(t, err)

	events, err := store.ListByCandidate(context.Background(), candidateID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, audit.EventApplicationAdmitted, events[0].Action)
	assert.False(t, events[0].Timestamp.IsZero(), "publisher should stamp emit time")
}

func TestPublisher_AsyncMode(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store, WithAsyncBuffer(10))
	defer pub.Close()

	candidateID := id.NewCandidateID()
	err := pub.Emit(context.Background(), audit.Event{
		CandidateID: candidateID,
		Action:      audit.EventChallengeSubmitted,
	})
	require.NoError(t, err)

	// Wait for async processing
	time.Sleep(100 * time.Millisecond)

	events, err := store.ListByCandidate(context.Background(), candidateID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, audit.EventChallengeSubmitted, events[0].Action)
}

func TestPublisher_AsyncDrainsOnClose(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store, WithAsyncBuffer(100))

	candidateID := id.NewCandidateID()
	for i := 0; i < 10; i++ {
		err := pub.Emit(context.Background(), audit.Event{
			CandidateID: candidateID,
			Action:      audit.EventApplicationAdvanced,
		})
		require.NoError(t, err)
	}

	// Close should drain all buffered events
	pub.Close()

	events, err := store.ListByCandidate(context.Background(), candidateID)
	require.NoError(t, err)
	assert.Len(t, events, 10, "all events should be drained on close")
}
