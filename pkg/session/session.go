// Package session tracks where each chat user is in the conversation.
package session

import (
	"context"
	"sync"

	"github.com/pkg/errors"
)

// State is the conversation step of one user.
type State string

const (
	// Idle waits for a command or a job description.
	Idle State = "idle"
	// AwaitingResume expects the next message or upload to be a resume.
	AwaitingResume State = "awaiting_resume"
	// AwaitingJobDescription expects the next text to be a job description.
	AwaitingJobDescription State = "awaiting_job_description"
)

// ParseState validates a stored state name.
func ParseState(s string) (state State, err error) {
	switch State(s) {
	case Idle, AwaitingResume, AwaitingJobDescription:
		state = State(s)
	default:
		err = errors.Errorf("unknown session state %q", s)
	}
	return state, err
}

// Store keeps per-user states. A user without a stored state is Idle.
type Store interface {
	Get(ctx context.Context, user string) (state State, err error)
	Set(ctx context.Context, user string, state State) (err error)
	Clear(ctx context.Context, user string) (err error)
}

// MemoryStore is a process-local Store.
type MemoryStore struct {
	mu     sync.RWMutex
	states map[string]State
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() (store *MemoryStore) {
	store = &MemoryStore{states: make(map[string]State)}
	return store
}

// Get implements Store.
func (s *MemoryStore) Get(_ context.Context, user string) (state State, err error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, ok := s.states[user]
	if !ok {
		state = Idle
	}
	return state, err
}

// Set implements Store.
func (s *MemoryStore) Set(_ context.Context, user string, state State) (err error) {
	_, err = ParseState(string(state))
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[user] = state
	return err
}

// Clear implements Store.
func (s *MemoryStore) Clear(_ context.Context, user string) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, user)
	return err
}
