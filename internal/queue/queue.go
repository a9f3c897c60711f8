package queue

import (
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"
)

// Queue interface
type Queue interface {
	Publish(topic string, payload any) error
	Subscribe(topic string, handler func(payload any) error) error
}

// InMemoryQueue fans every published payload out to the topic's subscribers
// and retries a failing handler with exponential backoff.
type InMemoryQueue struct {
	mu       sync.Mutex
	handlers map[string][]func(payload any) error
	pending  int
	idle     *sync.Cond

	MaxRetries      int
	InitialInterval time.Duration
}

// NewInMemoryQueue creates a new queue
func NewInMemoryQueue() *InMemoryQueue {
	q := &InMemoryQueue{
		handlers:        make(map[string][]func(payload any) error),
		MaxRetries:      3,
		InitialInterval: 500 * time.Millisecond,
	}
	q.idle = sync.NewCond(&q.mu)
	return q
}

// Publish sends a message to all subscribers
func (q *InMemoryQueue) Publish(topic string, payload any) error {
	q.mu.Lock()
	handlers := q.handlers[topic]
	// counted under the lock so a concurrent Wait sees these jobs
	q.pending += len(handlers)
	q.mu.Unlock()

	if len(handlers) == 0 {
		return fmt.Errorf("no subscribers for topic %s", topic)
	}

	for _, handler := range handlers {
		go q.processJob(topic, handler, payload)
	}

	return nil
}

// processJob handles retries and errors
func (q *InMemoryQueue) processJob(topic string, handler func(payload any) error, payload any) {
	defer q.done()

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = q.InitialInterval
	b.MaxElapsedTime = 0

	attempt := 0
	err := backoff.Retry(func() error {
		attempt++
		err := handler(payload)
		if err != nil {
			log.Warn().Err(err).Str("topic", topic).Int("attempt", attempt).Msg("job failed")
		}
		return err
	}, backoff.WithMaxRetries(b, uint64(q.MaxRetries)))

	if err != nil {
		log.Error().Err(err).Str("topic", topic).Int("attempts", attempt).Msg("job permanently failed")
		return
	}
	log.Debug().Str("topic", topic).Msg("job processed successfully")
}

func (q *InMemoryQueue) done() {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.pending--
	if q.pending == 0 {
		q.idle.Broadcast()
	}
}

// Subscribe adds a handler for a topic
func (q *InMemoryQueue) Subscribe(topic string, handler func(payload any) error) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.handlers[topic] = append(q.handlers[topic], handler)
	return nil
}

// Wait blocks until every job published so far has finished, retries included.
func (q *InMemoryQueue) Wait() {
	q.mu.Lock()
	defer q.mu.Unlock()

	for q.pending > 0 {
		q.idle.Wait()
	}
}

var _ Queue = (*InMemoryQueue)(nil)
