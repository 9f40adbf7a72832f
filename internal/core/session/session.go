package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/docuscan/docuscan-be/internal/core/queue"
)

// Session scopes one browser session: its upload queue and the edit
// overlay the UI maintains on top of extracted text. Nothing in a
// session survives the registry's expiry purge.
type Session struct {
	ID    uuid.UUID
	Files *queue.Store

	mu        sync.RWMutex
	overlay   map[uuid.UUID]string
	createdAt time.Time
	lastSeen  time.Time
}

func newSession() *Session {
	now := time.Now()
	return &Session{
		ID:        uuid.New(),
		Files:     queue.NewStore(),
		overlay:   make(map[uuid.UUID]string),
		createdAt: now,
		lastSeen:  now,
	}
}

// SetOverlay records a user edit for a file. Edits target disjoint
// per-file entries, so no coordination beyond the map lock is needed.
func (s *Session) SetOverlay(fileID uuid.UUID, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overlay[fileID] = text
}

// ClearOverlay drops the edit for a file, if any
func (s *Session) ClearOverlay(fileID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.overlay, fileID)
}

// Overlay returns a copy of the current edit overlay
func (s *Session) Overlay() map[uuid.UUID]string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[uuid.UUID]string, len(s.overlay))
	for k, v := range s.overlay {
		out[k] = v
	}
	return out
}

// CreatedAt returns the session creation time
func (s *Session) CreatedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.createdAt
}

func (s *Session) touch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = time.Now()
}

func (s *Session) idleSince() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastSeen
}
