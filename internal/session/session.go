// Package session keeps fetch results and the résumé being edited for the
// lifetime of a user session.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/profile2pdf/internal/types"
)

// DefaultTTL is how long an idle session is kept
const DefaultTTL = 2 * time.Hour

// ErrNotFound is returned for unknown or expired sessions
var ErrNotFound = errors.New("session not found")

// Session is one user's fetch result and current résumé.
type Session struct {
	ID        string                       `json:"id"`
	Result    *types.AggregatedFetchResult `json:"result"`
	Resume    *types.ResumeRecord          `json:"resume"`
	CreatedAt time.Time                    `json:"createdAt"`
	UpdatedAt time.Time                    `json:"updatedAt"`
}

// Store persists sessions. Every Put restarts the session's expiry.
type Store interface {
	Get(ctx context.Context, id string) (*Session, error)
	Put(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
}

// Manager creates and updates sessions on top of a Store. Updates to one
// session are serialized within a Manager.
type Manager struct {
	store Store
	now   func() time.Time
	locks sync.Map // session ID -> *sync.Mutex
}

// NewManager creates a Manager.
func NewManager(store Store) *Manager {
	return &Manager{store: store, now: time.Now}
}

// Create starts a session holding result and its synthesized résumé.
func (m *Manager) Create(ctx context.Context, result *types.AggregatedFetchResult, resume *types.ResumeRecord) (*Session, error) {
	now := m.now().UTC()
	s := &Session{
		ID:        uuid.NewString(),
		Result:    result,
		Resume:    resume.Clone(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := m.store.Put(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// Get returns the session with id, or ErrNotFound.
func (m *Manager) Get(ctx context.Context, id string) (*Session, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}
	return m.store.Get(ctx, id)
}

// ReplaceResume stores resume as the session's current résumé.
func (m *Manager) ReplaceResume(ctx context.Context, id string, resume *types.ResumeRecord) (*Session, error) {
	return m.UpdateResume(ctx, id, func(*types.ResumeRecord) (*types.ResumeRecord, error) {
		return resume, nil
	})
}

// UpdateResume replaces the session's résumé with the result of fn applied to
// the current one. Concurrent updates of the same session run one at a time,
// so none is lost. When fn fails the session is left unchanged.
func (m *Manager) UpdateResume(ctx context.Context, id string, fn func(current *types.ResumeRecord) (*types.ResumeRecord, error)) (*Session, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}
	mu := m.lock(id)
	mu.Lock()
	defer mu.Unlock()

	s, err := m.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	next, err := fn(s.Resume)
	if err != nil {
		return nil, err
	}
	updated := *s
	updated.Resume = next.Clone()
	updated.UpdatedAt = m.now().UTC()
	if err := m.store.Put(ctx, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (m *Manager) lock(id string) *sync.Mutex {
	mu, _ := m.locks.LoadOrStore(id, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// Delete ends the session. Deleting an unknown session is not an error.
func (m *Manager) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return nil
	}
	m.locks.Delete(id)
	return m.store.Delete(ctx, id)
}
