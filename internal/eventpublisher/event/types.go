package event

type (
	Event[T any] struct {
		Message T
		Err     error
	}

	Channel[T any]  chan Event[T]
	WChannel[T any] chan<- Event[T]
)
