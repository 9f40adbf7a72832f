package queue

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Status represents the processing status of an uploaded file
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusError      Status = "error"
)

// ErrFileNotFound is returned when a file id is not present in the store
var ErrFileNotFound = errors.New("file not found")

// File represents one uploaded image in the processing queue
type File struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	MediaType string    `json:"media_type"`
	Size      int64     `json:"size"`

	// Data holds the original image bytes; Preview is a data-URL encoding
	// of the same image for display.
	Data    []byte `json:"-"`
	Preview string `json:"preview"`

	Status     Status  `json:"status"`
	Text       string  `json:"text,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`
	Error      string  `json:"error,omitempty"`

	CreatedAt   time.Time  `json:"created_at"`
	ProcessedAt *time.Time `json:"processed_at,omitempty"`
}

// Store is the in-memory upload queue for one session. Files keep their
// insertion order; status transitions are validated so a file can only
// move pending -> processing -> completed/error, and terminal states are
// only left through an explicit Reset.
type Store struct {
	mu    sync.RWMutex
	files []*File
	index map[uuid.UUID]*File
}

// NewStore creates an empty upload queue
func NewStore() *Store {
	return &Store{
		index: make(map[uuid.UUID]*File),
	}
}

// Add appends a new pending file to the queue and returns its record
func (s *Store) Add(name, mediaType string, size int64, data []byte, preview string) File {
	s.mu.Lock()
	defer s.mu.Unlock()

	f := &File{
		ID:        uuid.New(),
		Name:      name,
		MediaType: mediaType,
		Size:      size,
		Data:      data,
		Preview:   preview,
		Status:    StatusPending,
		CreatedAt: time.Now(),
	}
	s.files = append(s.files, f)
	s.index[f.ID] = f

	return *f
}

// Get returns a copy of the file with the given id
func (s *Store) Get(id uuid.UUID) (File, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, ok := s.index[id]
	if !ok {
		return File{}, false
	}
	return *f, true
}

// List returns copies of all files in queue order
func (s *Store) List() []File {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]File, 0, len(s.files))
	for _, f := range s.files {
		out = append(out, *f)
	}
	return out
}

// Pending returns the ids of all pending files in queue order. This is
// the snapshot a processing run operates on.
func (s *Store) Pending() []uuid.UUID {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var ids []uuid.UUID
	for _, f := range s.files {
		if f.Status == StatusPending {
			ids = append(ids, f.ID)
		}
	}
	return ids
}

// Remove deletes a file from the queue
func (s *Store) Remove(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.index[id]; !ok {
		return ErrFileNotFound
	}
	delete(s.index, id)
	for i, f := range s.files {
		if f.ID == id {
			s.files = append(s.files[:i], s.files[i+1:]...)
			break
		}
	}
	return nil
}

// MarkProcessing transitions a pending file to processing
func (s *Store) MarkProcessing(id uuid.UUID) error {
	return s.transition(id, StatusProcessing, func(f *File) {})
}

// MarkCompleted transitions a processing file to completed and stores
// the recognized text
func (s *Store) MarkCompleted(id uuid.UUID, text string, confidence float64) error {
	return s.transition(id, StatusCompleted, func(f *File) {
		now := time.Now()
		f.Text = text
		f.Confidence = confidence
		f.Error = ""
		f.ProcessedAt = &now
	})
}

// MarkError transitions a processing file to error. No text is stored.
func (s *Store) MarkError(id uuid.UUID, msg string) error {
	return s.transition(id, StatusError, func(f *File) {
		now := time.Now()
		f.Text = ""
		f.Confidence = 0
		f.Error = msg
		f.ProcessedAt = &now
	})
}

// Reset puts a terminal file back to pending so the next run picks it
// up again. Resetting a pending or processing file is an error.
func (s *Store) Reset(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.index[id]
	if !ok {
		return ErrFileNotFound
	}
	if f.Status != StatusCompleted && f.Status != StatusError {
		return fmt.Errorf("cannot reset file in status %q", f.Status)
	}
	f.Status = StatusPending
	f.Text = ""
	f.Confidence = 0
	f.Error = ""
	f.ProcessedAt = nil
	return nil
}

// Count returns the number of files per status
func (s *Store) Count() map[Status]int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[Status]int)
	for _, f := range s.files {
		counts[f.Status]++
	}
	return counts
}

// Len returns the number of files in the queue
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.files)
}

func (s *Store) transition(id uuid.UUID, to Status, apply func(*File)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.index[id]
	if !ok {
		return ErrFileNotFound
	}
	if !validTransition(f.Status, to) {
		return fmt.Errorf("invalid status transition %q -> %q", f.Status, to)
	}
	f.Status = to
	apply(f)
	return nil
}

func validTransition(from, to Status) bool {
	switch to {
	case StatusProcessing:
		return from == StatusPending
	case StatusCompleted, StatusError:
		return from == StatusProcessing
	default:
		return false
	}
}
