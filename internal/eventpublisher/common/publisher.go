package common

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go-firestore-portfolio/internal/eventpublisher/event"
)

var ErrWriteFailure = fmt.Errorf("write failure threshold exceeded")

type PublisherWithFailureThreshold[T any] struct {
	writeTimeout          time.Duration
	writeFailureThreshold int
	failureCount          map[event.WChannel[T]]int
	failureMu             sync.Mutex
}

func NewPublisherWithFailureThreshold[T any](writeTimeout time.Duration, writeFailureThreshold int) *PublisherWithFailureThreshold[T] {
	return &PublisherWithFailureThreshold[T]{
		writeTimeout:          writeTimeout,
		writeFailureThreshold: writeFailureThreshold,
		failureCount:          make(map[event.WChannel[T]]int),
	}
}

// Publish writes e to subscriber within the write timeout. A missed write counts as a
// failure; ErrWriteFailure is returned once the subscriber reaches the threshold.
func (p *PublisherWithFailureThreshold[T]) Publish(ctx context.Context, subscriber event.WChannel[T], e event.Event[T]) (err error) {

	defer func() {
		// the subscriber may have been closed by an unsubscribe racing with this write
		if r := recover(); r != nil {
			err = ErrWriteFailure
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, p.writeTimeout)
	defer cancel()

	select {
	case subscriber <- e:
		return nil
	case <-ctx.Done():
		p.failureMu.Lock()
		count := p.failureCount[subscriber] + 1
		p.failureCount[subscriber] = count
		p.failureMu.Unlock()

		if count >= p.writeFailureThreshold {
			return ErrWriteFailure
		}
		return nil
	}
}

// Forget drops the failure count of subscriber.
func (p *PublisherWithFailureThreshold[T]) Forget(subscriber event.WChannel[T]) {
	p.failureMu.Lock()
	defer p.failureMu.Unlock()
	delete(p.failureCount, subscriber)
}
