// Package session keeps the signed-in user of a client and tells subscribers
// whenever it changes.
package session

import (
	"context"
	"sync"
	"time"

	ierr "go-firestore-portfolio/internal/errors"
	"go-firestore-portfolio/internal/eventpublisher/common"
	"go-firestore-portfolio/internal/eventpublisher/event"

	"github.com/rs/zerolog/log"
)

const (
	writeTimeout          = time.Second
	writeFailureThreshold = 3
	subscriberBuffer      = 4
)

type User struct {
	Uid         string `json:"uid"`
	DisplayName string `json:"displayName"`
	PhotoURL    string `json:"photoUrl"`
}

// Provider is the identity provider. Verify turns a credential into a user,
// Revoke ends every session of uid.
type Provider interface {
	Verify(ctx context.Context, credential string) (*User, error)
	Revoke(ctx context.Context, uid string) error
}

type RegistrationChecker interface {
	IsRegistered(ctx context.Context, userUid string) (bool, error)
}

type State struct {
	User       *User
	Registered bool
}

type StateEvent = event.Event[State]

type Session struct {
	provider Provider
	registry RegistrationChecker

	mu    sync.RWMutex
	state State

	submanager *common.SubManager[State]
	publisher  *common.PublisherWithFailureThreshold[State]
}

func New(provider Provider, registry RegistrationChecker) *Session {
	return &Session{
		provider:   provider,
		registry:   registry,
		submanager: common.NewSubManager[State](),
		publisher:  common.NewPublisherWithFailureThreshold[State](writeTimeout, writeFailureThreshold),
	}
}

// SignIn verifies credential and makes its owner the current user.
// The registration lookup runs before subscribers are told.
func (s *Session) SignIn(ctx context.Context, credential string) (*User, error) {
	if credential == "" {
		return nil, ierr.Unauthenticatedf("missing credential")
	}

	user, err := s.provider.Verify(ctx, credential)
	if err != nil {
		return nil, err
	}

	registered, err := s.registry.IsRegistered(ctx, user.Uid)
	s.set(ctx, State{User: user, Registered: registered && err == nil}, err)
	if err != nil {
		return user, err
	}

	log.Info().Str("userUid", user.Uid).Bool("registered", registered).Msg("signed in")
	return user, nil
}

// SignOut revokes the current user's tokens and clears the session.
// The session stays signed in when the provider fails.
func (s *Session) SignOut(ctx context.Context) error {
	user := s.CurrentUser()
	if user == nil {
		return nil
	}

	if err := s.provider.Revoke(ctx, user.Uid); err != nil {
		return err
	}
	s.set(ctx, State{}, nil)

	log.Info().Str("userUid", user.Uid).Msg("signed out")
	return nil
}

// Refresh repeats the registration lookup for the current user, e.g. after the
// profile was saved.
func (s *Session) Refresh(ctx context.Context) (bool, error) {
	user := s.CurrentUser()
	if user == nil {
		return false, nil
	}

	registered, err := s.registry.IsRegistered(ctx, user.Uid)
	if err != nil {
		s.set(ctx, s.State(), err)
		return false, err
	}
	s.set(ctx, State{User: user, Registered: registered}, nil)
	return registered, nil
}

func (s *Session) CurrentUser() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.User
}

func (s *Session) Registered() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Registered
}

func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Subscribe returns a channel that first receives the current state and then
// every change. The channel is closed when ctx is done, the returned func is
// called, or the subscriber falls behind.
func (s *Session) Subscribe(ctx context.Context) (<-chan StateEvent, func()) {
	ch := make(chan StateEvent, subscriberBuffer)

	// a set that lands after the snapshot must find ch registered
	s.mu.Lock()
	ch <- StateEvent{Message: s.state}
	s.submanager.Subscribe(ch)
	s.mu.Unlock()

	done := make(chan struct{})
	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			close(done)
			s.Unsubscribe(ch)
		})
	}

	go func() {
		select {
		case <-ctx.Done():
			unsubscribe()
		case <-done:
		}
	}()
	return ch, unsubscribe
}

func (s *Session) Unsubscribe(subscriber event.WChannel[State]) {
	if s.submanager.Unsubscribe(subscriber) {
		s.publisher.Forget(subscriber)
	}
}

func (s *Session) set(ctx context.Context, state State, err error) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()

	e := StateEvent{Message: state, Err: err}
	s.submanager.OnSubscribers(func(subscriber event.WChannel[State]) {
		if err := s.publisher.Publish(ctx, subscriber, e); err != nil {
			log.Warn().Err(err).Msg("dropping session subscriber")
			s.Unsubscribe(subscriber)
		}
	})
}

// Close releases every subscriber.
func (s *Session) Close() {
	s.submanager.UnsubscribeAll()
}
