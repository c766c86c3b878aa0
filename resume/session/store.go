// Package session holds the single mutable document of an editing session.
// Store methods are the only way to change it.
package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"resume-editor/resume/model"
)

// ErrItemNotFound is returned by operations that must address an existing item.
var ErrItemNotFound = errors.New("item not found")

var errNoop = errors.New("no change")

// Change describes one committed mutation.
type Change struct {
	Op      string
	Version uint64
}

// Listener is notified after every committed mutation, outside the store lock.
type Listener func(Change)

// Store owns one document and a version counter bumped on every commit.
// A failed operation leaves both untouched.
type Store struct {
	mu        sync.Mutex
	doc       model.Document
	version   uint64
	listeners []Listener
}

// New takes ownership of a copy of doc.
func New(doc model.Document) *Store {
	doc.Normalize()
	return &Store{doc: doc.Clone(), version: 1}
}

// Subscribe registers fn for change notifications.
func (s *Store) Subscribe(fn Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Snapshot returns a deep copy of the document and its version.
func (s *Store) Snapshot() (model.Document, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Clone(), s.version
}

// Version returns the current document version.
func (s *Store) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

// ID returns the document id.
func (s *Store) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.ID
}

// Replace swaps in a different document wholesale.
func (s *Store) Replace(doc model.Document) {
	doc.Normalize()
	_ = s.mutate("replace", func(d *model.Document) error {
		*d = doc.Clone()
		return nil
	})
}

// ApplySaved records server-assigned timestamps from a save echo without
// creating a new version.
func (s *Store) ApplySaved(saved model.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if saved.ID != s.doc.ID {
		return
	}
	if !saved.UpdatedAt.IsZero() {
		s.doc.UpdatedAt = saved.UpdatedAt
	}
	if s.doc.CreatedAt.IsZero() {
		s.doc.CreatedAt = saved.CreatedAt
	}
}

// UpdatedAt returns the last server-confirmed update time.
func (s *Store) UpdatedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.UpdatedAt
}

// mutate applies fn to a working copy and commits it only when fn succeeds.
func (s *Store) mutate(op string, fn func(d *model.Document) error) error {
	s.mu.Lock()
	work := s.doc.Clone()
	if err := fn(&work); err != nil {
		s.mu.Unlock()
		return err
	}
	s.doc = work
	s.version++
	change := Change{Op: op, Version: s.version}
	listeners := append([]Listener(nil), s.listeners...)
	s.mu.Unlock()

	for _, l := range listeners {
		l(change)
	}
	return nil
}

// mutateIf is mutate for operations that may turn out to be no-ops; nothing is
// committed when fn reports false.
func (s *Store) mutateIf(op string, fn func(d *model.Document) (bool, error)) (bool, error) {
	changed := false
	err := s.mutate(op, func(d *model.Document) error {
		ok, err := fn(d)
		if err != nil {
			return err
		}
		if !ok {
			return errNoop
		}
		changed = true
		return nil
	})
	if errors.Is(err, errNoop) {
		return false, nil
	}
	return changed, err
}

func unknownKind(kind model.Kind) error {
	return &model.ValidationError{Field: "kind", Message: fmt.Sprintf("unknown item kind %q", kind)}
}
