package wizard

import (
	"context"
	"errors"
	"time"
)

// Manager loads a session, applies a change and saves it back.
type Manager struct {
	store SessionStore
	now   func() time.Time
}

func NewManager(store SessionStore) *Manager {
	return &Manager{store: store, now: time.Now}
}

// Checkpoint saves s as is. Controllers use it to publish the busy flag.
func (m *Manager) Checkpoint(ctx context.Context, s *Session) error {
	s.UpdatedAt = m.now()
	return m.store.Save(ctx, s)
}

// Load returns the session for id, creating a fresh one when none exists.
func (m *Manager) Load(ctx context.Context, id string) (*Session, error) {
	s, err := m.store.Get(ctx, id)
	if errors.Is(err, ErrSessionNotFound) {
		s = NewSession(id)
		if err := m.Checkpoint(ctx, s); err != nil {
			return nil, err
		}
		return s, nil
	}
	if err != nil {
		return nil, err
	}
	if s.Stepper == nil {
		// Sessions written without navigation state restart from scratch.
		s = NewSession(id)
	}
	return s, nil
}

// Update runs fn on the session and saves the result, even when fn fails:
// field errors attached by a failed action must survive the redirect.
// ErrBusy is the exception since the in-flight request owns the session.
// The final save ignores cancellation of ctx so that a busy flag published
// during fn is always cleared.
func (m *Manager) Update(ctx context.Context, id string, fn func(s *Session) error) (*Session, error) {
	s, err := m.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	fnErr := fn(s)
	if errors.Is(fnErr, ErrBusy) {
		return s, fnErr
	}
	if err := m.Checkpoint(context.WithoutCancel(ctx), s); err != nil {
		return nil, err
	}
	return s, fnErr
}

// Delete forgets the session.
func (m *Manager) Delete(ctx context.Context, id string) error {
	return m.store.Delete(ctx, id)
}
