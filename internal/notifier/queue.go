package notifier

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/corepay/transaction-service/internal/logger"
	"github.com/google/uuid"
)

// Queue is an in-memory, channel-backed Publisher. Suitable for a
// single-instance deployment; swapping in a broker-backed Publisher
// does not touch the transaction engine.
type Queue struct {
	events    chan TransactionPostedEvent
	closeChan chan struct{}
	wg        sync.WaitGroup
	mu        sync.RWMutex
	closed    bool
}

func NewQueue(bufferSize int) *Queue {
	return &Queue{
		events:    make(chan TransactionPostedEvent, bufferSize),
		closeChan: make(chan struct{}),
	}
}

func (q *Queue) PublishTransactionPosted(ctx context.Context, event TransactionPostedEvent) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return fmt.Errorf("notification queue is closed")
	}

	if event.EventID == "" {
		event.EventID = uuid.New().String()
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	select {
	case q.events <- event:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-q.closeChan:
		return fmt.Errorf("notification queue is closed")
	}
}

// Start launches workerCount delivery goroutines. Delivery is at most
// once; events buffered when the queue closes are dropped, which the
// fire-and-forget contract allows.
func (q *Queue) Start(ctx context.Context, workerCount int, handler Handler) {
	for i := 0; i < workerCount; i++ {
		q.wg.Add(1)
		go q.worker(ctx, handler)
	}
}

func (q *Queue) worker(ctx context.Context, handler Handler) {
	defer q.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case <-q.closeChan:
			return
		case event := <-q.events:
			handler(ctx, event)
		}
	}
}

// Close stops accepting events and waits for the workers to exit.
func (q *Queue) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	close(q.closeChan)
	q.mu.Unlock()

	q.wg.Wait()

	logger.Info("notification queue closed", logger.Fields{
		"pending": len(q.events),
	})
}
