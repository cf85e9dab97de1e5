package common

import (
	"sync"

	"go-firestore-portfolio/internal/eventpublisher/event"
)

type SubManager[T any] struct {
	subscribers    map[event.WChannel[T]]struct{}
	subscriptionMu sync.RWMutex
}

func NewSubManager[T any]() *SubManager[T] {
	return &SubManager[T]{
		subscribers: make(map[event.WChannel[T]]struct{}),
	}
}

func (m *SubManager[T]) Subscribe(subscriber event.WChannel[T]) {
	m.subscriptionMu.Lock()
	defer m.subscriptionMu.Unlock()

	if _, ok := m.subscribers[subscriber]; !ok {
		m.subscribers[subscriber] = struct{}{}
	}
}

// Unsubscribe closes subscriber. It reports whether subscriber was subscribed.
func (m *SubManager[T]) Unsubscribe(subscriber event.WChannel[T]) bool {
	m.subscriptionMu.Lock()
	defer m.subscriptionMu.Unlock()

	// only act on the subscribed channels
	if _, ok := m.subscribers[subscriber]; !ok {
		return false
	}
	delete(m.subscribers, subscriber)
	close(subscriber)
	return true
}

func (m *SubManager[T]) UnsubscribeAll() {
	m.subscriptionMu.Lock()
	defer m.subscriptionMu.Unlock()

	for subscriber := range m.subscribers {
		delete(m.subscribers, subscriber)
		close(subscriber)
	}
}

func (m *SubManager[T]) Len() int {
	m.subscriptionMu.RLock()
	defer m.subscriptionMu.RUnlock()
	return len(m.subscribers)
}

func (m *SubManager[T]) OnSubscribers(do func(event.WChannel[T])) {
	m.subscriptionMu.RLock()

	// 'do' may unsubscribe, so iterate over a copy
	subsCopy := make([]event.WChannel[T], 0, len(m.subscribers))
	for subscriber := range m.subscribers {
		subsCopy = append(subsCopy, subscriber)
	}
	m.subscriptionMu.RUnlock()

	for _, subscriber := range subsCopy {
		do(subscriber)
	}
}
