package worker

import (
	"context"
	"testing"
	"time"

	"chirper/internal/queue"
)

// fakeConsumer serves a fixed pending list and records acknowledgements.
// ReadPending returns only messages not yet acked, like a real consumer group.
type fakeConsumer struct {
	pending []queue.Message
	acked   []string

	readPendingCalls int
}

func (f *fakeConsumer) EnsureGroup(ctx context.Context, stream, group string) error {
	return nil
}

func (f *fakeConsumer) Read(ctx context.Context, stream, group, consumer string, count int64, block time.Duration) ([]queue.Message, error) {
	return nil, nil
}

func (f *fakeConsumer) ReadPending(ctx context.Context, stream, group, consumer string, count int64) ([]queue.Message, error) {
	f.readPendingCalls++

	var out []queue.Message
	for _, msg := range f.pending {
		if !f.isAcked(msg.ID) {
			out = append(out, msg)
		}
	}
	return out, nil
}

func (f *fakeConsumer) Ack(ctx context.Context, stream, group string, messageIDs ...string) error {
	f.acked = append(f.acked, messageIDs...)
	return nil
}

func (f *fakeConsumer) isAcked(id string) bool {
	for _, acked := range f.acked {
		if acked == id {
			return true
		}
	}
	return false
}

func TestManager_PendingDrain_AcksFailedMessages(t *testing.T) {
	consumer := &fakeConsumer{
		pending: []queue.Message{
			{ID: "1-0", Event: queue.FeedEvent{Type: "bogus_type"}},
			{ID: "2-0", Event: queue.NewPostCreatedEvent(100, 2)},
		},
	}
	feedCache := newFakeFeedCache()
	handler := NewHandler(
		feedCache,
		&fakeFollowerProvider{followers: map[int64][]int64{2: {10}}},
		&fakePostsProvider{},
	)

	m := NewManager(consumer, handler, 1)
	m.processPending(context.Background(), "worker-1")

	// The unrecognized message is acked despite the handler error; otherwise
	// it would sit at the head of the pending list forever.
	if len(consumer.acked) != 2 {
		t.Fatalf("acked %d messages, want 2 (got %v)", len(consumer.acked), consumer.acked)
	}

	// The drain terminates: one batch with both messages, one empty read.
	if consumer.readPendingCalls != 2 {
		t.Errorf("ReadPending called %d times, want 2", consumer.readPendingCalls)
	}

	// The valid message behind the failing one is still processed.
	if _, ok := feedCache.feeds[10][100]; !ok {
		t.Error("post 100 missing from follower's feed")
	}
}

func TestManager_HandleMessages_AcksOnHandlerError(t *testing.T) {
	consumer := &fakeConsumer{}
	handler := NewHandler(newFakeFeedCache(), &fakeFollowerProvider{}, &fakePostsProvider{})

	m := NewManager(consumer, handler, 1)
	m.handleMessages(context.Background(), "worker-1", []queue.Message{
		{ID: "7-0", Event: queue.FeedEvent{Type: "bogus_type"}},
	})

	if len(consumer.acked) != 1 || consumer.acked[0] != "7-0" {
		t.Errorf("acked = %v, want [7-0]", consumer.acked)
	}
}
