package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// ErrSessionNotFound is returned for unknown or expired session ids
var ErrSessionNotFound = errors.New("session not found")

// Registry holds all live sessions. Sessions that stay idle longer
// than the configured TTL are purged by the janitor.
type Registry struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
	ttl      time.Duration
}

// NewRegistry creates a session registry with the given idle TTL
func NewRegistry(ttl time.Duration) *Registry {
	return &Registry{
		sessions: make(map[uuid.UUID]*Session),
		ttl:      ttl,
	}
}

// Create starts a new session
func (r *Registry) Create() *Session {
	s := newSession()

	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()

	return s
}

// Get returns the session with the given id and refreshes its idle
// timer
func (r *Registry) Get(id uuid.UUID) (*Session, error) {
	r.mu.RLock()
	s, ok := r.sessions[id]
	r.mu.RUnlock()

	if !ok {
		return nil, ErrSessionNotFound
	}
	s.touch()
	return s, nil
}

// Delete removes a session and everything it holds
func (r *Registry) Delete(id uuid.UUID) {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
}

// Len returns the number of live sessions
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// PurgeExpired drops sessions idle for longer than the TTL and returns
// how many were removed
func (r *Registry) PurgeExpired() int {
	cutoff := time.Now().Add(-r.ttl)

	r.mu.Lock()
	defer r.mu.Unlock()

	purged := 0
	for id, s := range r.sessions {
		if s.idleSince().Before(cutoff) {
			delete(r.sessions, id)
			purged++
		}
	}
	return purged
}

// StartJanitor schedules periodic expiry purges on the given cron
// runner
func (r *Registry) StartJanitor(c *cron.Cron) error {
	_, err := c.AddFunc("@every 10m", func() {
		if purged := r.PurgeExpired(); purged > 0 {
			log.Info().Int("purged", purged).Msg("expired sessions removed")
		}
	})
	return err
}
