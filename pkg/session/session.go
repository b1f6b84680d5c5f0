// Package session keeps live map instances for the HTTP server.
//
// Each session owns one mounted map: its markers, its interaction
// controller and the recorded tooltip. Events for one session are applied
// one at a time; different sessions never share state.
//
// Sessions expire after a period without events. Expiry is checked on every
// Get, and Cleanup removes expired sessions in bulk:
//
//	store := session.NewMemoryStore()
//	sess, err := session.New(dataset.Builtin(), session.DefaultTTL)
//	if err != nil {
//	    return err
//	}
//	store.Set(ctx, sess)
//
//	sess, err = store.Get(ctx, id)
//	if sess == nil {
//	    // unknown or expired
//	}
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/pointmap/pkg/dataset"
	"github.com/matzehuels/pointmap/pkg/interact"
	"github.com/matzehuels/pointmap/pkg/pointmap"
	"github.com/matzehuels/pointmap/pkg/render"
)

// Sentinel errors for session operations.
var (
	// ErrExpired is returned when a session has exceeded its TTL.
	ErrExpired = errors.New("expired")

	// ErrNoMap is returned when a session is created for a host without a map.
	ErrNoMap = errors.New("no map mounted")
)

// DefaultTTL is how long a session lives without events.
const DefaultTTL = 30 * time.Minute

// Session is one live map instance.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu        sync.Mutex
	ttl       time.Duration
	expiresAt time.Time
	m         *pointmap.Map
	surface   *render.Recorder
	tooltip   *interact.RecordingTooltip
}

// New mounts ds on an in-memory host and wraps it in a session with a fresh
// ID. opts are passed to pointmap.Mount.
func New(ds *dataset.Dataset, ttl time.Duration, opts ...pointmap.Option) (*Session, error) {
	surface := render.NewRecorder()
	tooltip := &interact.RecordingTooltip{}
	m, err := pointmap.Mount(ds, pointmap.Host{Surface: surface, Tooltip: tooltip}, opts...)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, ErrNoMap
	}

	now := time.Now()
	return &Session{
		ID:        uuid.NewString(),
		CreatedAt: now,
		ttl:       ttl,
		expiresAt: now.Add(ttl),
		m:         m,
		surface:   surface,
		tooltip:   tooltip,
	}, nil
}

// Do runs fn with exclusive access to the session's map and extends the
// session's lifetime.
func (s *Session) Do(fn func(m *pointmap.Map) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expiresAt = time.Now().Add(s.ttl)
	return fn(s.m)
}

// Snapshot returns the interaction state and the IDs of markers whose
// primitives are currently marked active.
func (s *Session) Snapshot() (interact.State, []int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.m.Controller.State(), s.surface.Active()
}

// IsExpired returns true if the session has expired.
func (s *Session) IsExpired() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return time.Now().After(s.expiresAt)
}

// ExpiresAt returns when the session expires unless it is used again.
func (s *Session) ExpiresAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.expiresAt
}

// Store is the interface for session storage backends.
type Store interface {
	// Get retrieves a session by ID.
	// Returns nil, nil if the session doesn't exist.
	// Returns nil, ErrExpired if the session exists but has expired.
	Get(ctx context.Context, id string) (*Session, error)

	// Set stores a session.
	Set(ctx context.Context, s *Session) error

	// Delete removes a session. Deleting an unknown ID is not an error.
	Delete(ctx context.Context, id string) error

	// Cleanup removes expired sessions.
	Cleanup(ctx context.Context) error
}
