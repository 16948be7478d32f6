package queue

import (
	"context"
	"fmt"
	"sync"
)

// memoryQueueDepth is the per-subject buffer; Publish fails once a subject
// backs up this far rather than blocking the API handler.
const memoryQueueDepth = 10000

// MemoryQueue is a channel-backed queue for tests and single-process
// deployments. Delivery is at-most-once: handler errors are not redelivered.
type MemoryQueue struct {
	mu       sync.RWMutex
	channels map[string]chan []byte
	cancels  map[string]context.CancelFunc
}

// NewMemoryQueue creates a new in-memory queue instance
func NewMemoryQueue() *MemoryQueue {
	return &MemoryQueue{
		channels: make(map[string]chan []byte),
		cancels:  make(map[string]context.CancelFunc),
	}
}

func (q *MemoryQueue) channel(subject string) chan []byte {
	q.mu.Lock()
	defer q.mu.Unlock()

	ch, ok := q.channels[subject]
	if !ok {
		ch = make(chan []byte, memoryQueueDepth)
		q.channels[subject] = ch
	}
	return ch
}

// Publish enqueues a copy of data on the subject's channel. The copy keeps
// callers free to reuse their buffer.
func (q *MemoryQueue) Publish(ctx context.Context, subject string, data []byte) error {
	buf := make([]byte, len(data))
	copy(buf, data)

	select {
	case q.channel(subject) <- buf:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return fmt.Errorf("channel full for subject: %s", subject)
	}
}

// Subscribe drains the subject's channel on a goroutine. One subscriber per
// subject; handler errors are swallowed, there is no redelivery here.
func (q *MemoryQueue) Subscribe(subject string, handler MessageHandler) error {
	ch := q.channel(subject)

	q.mu.Lock()
	if _, exists := q.cancels[subject]; exists {
		q.mu.Unlock()
		return fmt.Errorf("already subscribed to subject: %s", subject)
	}
	ctx, cancel := context.WithCancel(context.Background())
	q.cancels[subject] = cancel
	q.mu.Unlock()

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case data := <-ch:
				_ = handler(data)
			}
		}
	}()

	return nil
}

// Unsubscribe stops the subject's drain goroutine. Buffered messages stay
// queued for a later subscriber.
func (q *MemoryQueue) Unsubscribe(subject string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	cancel, exists := q.cancels[subject]
	if !exists {
		return fmt.Errorf("not subscribed to subject: %s", subject)
	}

	cancel()
	delete(q.cancels, subject)
	return nil
}

// Close tears down all subscriptions and channels.
func (q *MemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	for subject, cancel := range q.cancels {
		cancel()
		delete(q.cancels, subject)
	}
	for subject, ch := range q.channels {
		close(ch)
		delete(q.channels, subject)
	}

	return nil
}

// GetPendingCount reports how many messages are buffered for a subject.
func (q *MemoryQueue) GetPendingCount(subject string) int {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if ch, ok := q.channels[subject]; ok {
		return len(ch)
	}
	return 0
}
