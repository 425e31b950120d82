package worker

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"chirper/internal/queue"
)

const (
	// readCount is the max messages claimed per XREADGROUP call
	readCount = 10

	// readBlock is how long a worker blocks waiting for new messages
	readBlock = 5 * time.Second

	// errBackoff is the pause after a read error before retrying
	errBackoff = 2 * time.Second
)

// Manager runs a pool of workers consuming feed events from the stream.
type Manager struct {
	consumer   queue.Consumer
	handler    *Handler
	numWorkers int

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewManager creates a worker pool of the given size.
func NewManager(consumer queue.Consumer, handler *Handler, numWorkers int) *Manager {
	if numWorkers < 1 {
		numWorkers = 1
	}
	return &Manager{
		consumer:   consumer,
		handler:    handler,
		numWorkers: numWorkers,
	}
}

// Start creates the consumer group and launches the workers. Workers run
// until Stop is called or the parent context is cancelled.
func (m *Manager) Start(ctx context.Context) error {
	if err := m.consumer.EnsureGroup(ctx, queue.StreamFeed, queue.ConsumerGroupFeed); err != nil {
		return fmt.Errorf("ensure consumer group: %w", err)
	}

	workerCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel

	for i := 0; i < m.numWorkers; i++ {
		name := fmt.Sprintf("worker-%d", i+1)
		m.wg.Add(1)
		go m.runWorker(workerCtx, name)
	}

	log.Printf("[Manager] started %d feed workers", m.numWorkers)
	return nil
}

// Stop signals all workers to finish and waits for them.
func (m *Manager) Stop() {
	if m.cancel == nil {
		return
	}
	m.cancel()
	m.wg.Wait()
	log.Printf("[Manager] all workers stopped")
}

// runWorker is the per-worker loop. It first drains any messages left
// unacknowledged by a previous run of this consumer, then reads new
// messages until the context is cancelled.
func (m *Manager) runWorker(ctx context.Context, name string) {
	defer m.wg.Done()

	m.processPending(ctx, name)

	for {
		select {
		case <-ctx.Done():
			log.Printf("[%s] shutting down", name)
			return
		default:
		}

		m.processMessages(ctx, name)
	}
}

// processPending re-processes messages delivered to this consumer but never
// acknowledged. Runs once at startup for crash recovery.
func (m *Manager) processPending(ctx context.Context, name string) {
	for {
		messages, err := m.consumer.ReadPending(ctx, queue.StreamFeed, queue.ConsumerGroupFeed, name, readCount)
		if err != nil {
			log.Printf("[%s] read pending failed: %v", name, err)
			return
		}
		if len(messages) == 0 {
			return
		}

		log.Printf("[%s] recovering %d pending messages", name, len(messages))
		m.handleMessages(ctx, name, messages)
	}
}

// processMessages reads one batch of new messages and handles it. Read
// errors back off before retrying so a Redis outage doesn't hot-loop.
func (m *Manager) processMessages(ctx context.Context, name string) {
	messages, err := m.consumer.Read(ctx, queue.StreamFeed, queue.ConsumerGroupFeed, name, readCount, readBlock)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		log.Printf("[%s] read failed: %v", name, err)
		select {
		case <-ctx.Done():
		case <-time.After(errBackoff):
		}
		return
	}

	m.handleMessages(ctx, name, messages)
}

// handleMessages processes messages one by one. Messages are acknowledged
// even when the handler fails: feed cache maintenance is best effort and the
// cache self-heals from the database on the next read, so retrying a
// poisoned message forever would only wedge the pending drain.
func (m *Manager) handleMessages(ctx context.Context, name string, messages []queue.Message) {
	for _, msg := range messages {
		if err := m.handler.HandleEvent(ctx, msg.Event); err != nil {
			log.Printf("[%s] handle failed: msgID=%s type=%s err=%v", name, msg.ID, msg.Event.Type, err)
		}

		if err := m.consumer.Ack(ctx, queue.StreamFeed, queue.ConsumerGroupFeed, msg.ID); err != nil {
			log.Printf("[%s] ack failed: msgID=%s err=%v", name, msg.ID, err)
		}
	}
}
