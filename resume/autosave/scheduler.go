// Package autosave debounces document saves: Idle -> Dirty -> Saving -> Idle | Error.
package autosave

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"resume-editor/resume/model"
)

// State of the scheduler.
type State string

const (
	StateIdle   State = "idle"
	StateDirty  State = "dirty"
	StateSaving State = "saving"
	StateError  State = "error"
)

const (
	DefaultDelay   = 3 * time.Second
	DefaultTimeout = 10 * time.Second
)

// Persister stores a whole document and returns the persisted copy.
type Persister interface {
	Save(ctx context.Context, doc model.Document) (model.Document, error)
}

// PersisterFunc adapts a function to Persister.
type PersisterFunc func(ctx context.Context, doc model.Document) (model.Document, error)

func (f PersisterFunc) Save(ctx context.Context, doc model.Document) (model.Document, error) {
	return f(ctx, doc)
}

// Source supplies the document to save and its version.
type Source interface {
	Snapshot() (model.Document, uint64)
}

// Status is a point-in-time view of the scheduler.
type Status struct {
	State        State     `json:"state"`
	Error        string    `json:"error,omitempty"`
	SavedVersion uint64    `json:"savedVersion"`
	LastSavedAt  time.Time `json:"lastSavedAt,omitempty"`
	Saves        int       `json:"saves"`
}

// SaveEvent is reported to the observer after every persist attempt.
type SaveEvent struct {
	DocumentID string
	Version    uint64
	Duration   time.Duration
	Err        error
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithClock replaces the wall clock.
func WithClock(c Clock) Option {
	return func(s *Scheduler) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithDelay sets the idle delay before a save fires.
func WithDelay(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.delay = d
		}
	}
}

// WithTimeout bounds each persist call.
func WithTimeout(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithLogger sets a custom zap logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Scheduler) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithOnSaved registers a callback receiving the persisted document.
func WithOnSaved(fn func(model.Document)) Option {
	return func(s *Scheduler) { s.onSaved = fn }
}

// WithObserver registers a callback receiving every save attempt.
func WithObserver(fn func(SaveEvent)) Option {
	return func(s *Scheduler) { s.observe = fn }
}

// Scheduler decides when the document is sent to the Persister.
// At most one persist call is in flight at any time.
type Scheduler struct {
	source    Source
	persister Persister
	clock     Clock
	delay     time.Duration
	timeout   time.Duration
	logger    *zap.Logger
	onSaved   func(model.Document)
	observe   func(SaveEvent)
	flight    singleflight.Group

	mu           sync.Mutex
	state        State
	lastErr      string
	pending      bool
	timer        Timer
	timerGen     uint64
	savedVersion uint64
	lastSavedAt  time.Time
	saves        int
	closed       bool
}

// New creates an idle scheduler.
func New(source Source, persister Persister, opts ...Option) *Scheduler {
	s := &Scheduler{
		source:    source,
		persister: persister,
		clock:     realClock{},
		delay:     DefaultDelay,
		timeout:   DefaultTimeout,
		logger:    zap.NewNop(),
		state:     StateIdle,
	}
	for _, opt := range opts {
		opt(s)
	}
	_, s.savedVersion = source.Snapshot()
	return s
}

// MarkDirty records a committed mutation and restarts the idle timer.
func (s *Scheduler) MarkDirty() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.pending = true
	if s.state != StateSaving {
		s.state = StateDirty
	}
	s.armLocked()
}

// SaveNow saves immediately, skipping the timer. A call made while a save is
// in flight waits for that save instead of starting another.
func (s *Scheduler) SaveNow() Status {
	s.save()
	return s.Status()
}

// Close stops the timer and flushes unsaved edits. An in-flight save is
// allowed to complete.
func (s *Scheduler) Close() Status {
	s.mu.Lock()
	s.closed = true
	s.stopTimerLocked()
	s.mu.Unlock()

	for i := 0; i < 2; i++ {
		st := s.SaveNow()
		if st.State != StateDirty && st.State != StateSaving {
			return st
		}
	}
	return s.Status()
}

// Status reports the current state.
func (s *Scheduler) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Status{
		State:        s.state,
		Error:        s.lastErr,
		SavedVersion: s.savedVersion,
		LastSavedAt:  s.lastSavedAt,
		Saves:        s.saves,
	}
}

func (s *Scheduler) armLocked() {
	s.stopTimerLocked()
	s.timerGen++
	gen := s.timerGen
	s.timer = s.clock.AfterFunc(s.delay, func() { s.fire(gen) })
}

func (s *Scheduler) stopTimerLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *Scheduler) fire(gen uint64) {
	s.mu.Lock()
	if gen != s.timerGen {
		s.mu.Unlock()
		return
	}
	s.timer = nil
	// An in-flight save re-arms the timer when it completes with pending edits.
	if s.state == StateSaving || !s.pending {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()
	s.save()
}

func (s *Scheduler) save() {
	_, _, _ = s.flight.Do("save", func() (any, error) {
		s.persist()
		return nil, nil
	})
}

type saveResult struct {
	doc model.Document
	err error
}

func (s *Scheduler) persist() {
	s.mu.Lock()
	if !s.pending {
		s.mu.Unlock()
		return
	}
	s.stopTimerLocked()
	s.state = StateSaving
	s.pending = false
	s.mu.Unlock()

	doc, version := s.source.Snapshot()
	start := s.clock.Now()

	// Saves outlive their callers; only the timeout cancels them.
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	done := make(chan saveResult, 1)
	go func() {
		saved, err := s.persister.Save(ctx, doc)
		done <- saveResult{doc: saved, err: err}
	}()
	var res saveResult
	select {
	case res = <-done:
	case <-ctx.Done():
		res.err = ctx.Err()
	}
	if errors.Is(res.err, context.DeadlineExceeded) {
		res.err = fmt.Errorf("save timed out after %s: %w", s.timeout, res.err)
	}
	elapsed := s.clock.Now().Sub(start)

	s.mu.Lock()
	if res.err != nil {
		s.state = StateError
		s.lastErr = res.err.Error()
		s.pending = true
		s.stopTimerLocked()
	} else {
		s.lastErr = ""
		s.savedVersion = version
		s.lastSavedAt = s.clock.Now()
		s.saves++
		if s.pending {
			s.state = StateDirty
			if s.timer == nil && !s.closed {
				s.armLocked()
			}
		} else {
			s.state = StateIdle
		}
	}
	state := s.state
	s.mu.Unlock()

	if res.err != nil {
		s.logger.Warn("autosave failed",
			zap.String("document_id", doc.ID),
			zap.Uint64("version", version),
			zap.Duration("elapsed", elapsed),
			zap.Error(res.err))
	} else {
		s.logger.Debug("autosave complete",
			zap.String("document_id", doc.ID),
			zap.Uint64("version", version),
			zap.String("state", string(state)),
			zap.Duration("elapsed", elapsed))
		if s.onSaved != nil {
			s.onSaved(res.doc)
		}
	}
	if s.observe != nil {
		s.observe(SaveEvent{DocumentID: doc.ID, Version: version, Duration: elapsed, Err: res.err})
	}
}
