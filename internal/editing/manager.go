// Package editing keeps live editing sessions: one session.Store per open
// resume, autosaved through the resumes service.
package editing

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"resume-editor/internal/projcache"
	"resume-editor/internal/resumes"
	"resume-editor/internal/shared/metrics"
	"resume-editor/resume/autosave"
	"resume-editor/resume/model"
	"resume-editor/resume/render"
	"resume-editor/resume/session"
)

// Backend loads resumes and builds persisters for a user.
type Backend interface {
	Get(ctx context.Context, userID, id string) (model.Document, error)
	Persister(userID string) autosave.Persister
}

// Config tunes session behavior.
type Config struct {
	AutosaveDelay time.Duration
	SaveTimeout   time.Duration
	IdleTTL       time.Duration
	// ReaperSpec is a robfig/cron spec such as "@every 1m".
	ReaperSpec string
	Clock      autosave.Clock
	Logger     *zap.Logger
}

// Session is one open resume.
type Session struct {
	UserID    string
	ResumeID  string
	// Token tells this session apart from earlier or concurrent sessions of
	// the same resume.
	Token     string
	Store     *session.Store
	Scheduler *autosave.Scheduler

	mu       sync.Mutex
	lastUsed time.Time
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastUsed = now
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUsed
}

type sessionKey struct {
	userID   string
	resumeID string
}

// Manager owns the open sessions.
type Manager struct {
	backend   Backend
	projector *projcache.Projector
	cfg       Config
	logger    *zap.Logger
	cron      *cron.Cron

	mu       sync.Mutex
	sessions map[sessionKey]*Session
}

// NewManager constructs a Manager. Call Start to run the idle reaper.
func NewManager(backend Backend, projector *projcache.Projector, cfg Config) *Manager {
	if cfg.AutosaveDelay <= 0 {
		cfg.AutosaveDelay = autosave.DefaultDelay
	}
	if cfg.SaveTimeout <= 0 {
		cfg.SaveTimeout = autosave.DefaultTimeout
	}
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = 30 * time.Minute
	}
	if cfg.ReaperSpec == "" {
		cfg.ReaperSpec = "@every 1m"
	}
	if cfg.Clock == nil {
		cfg.Clock = autosave.SystemClock()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		backend:   backend,
		projector: projector,
		cfg:       cfg,
		logger:    logger.Named("editing"),
		sessions:  make(map[sessionKey]*Session),
	}
}

// Open returns the user's session for resumeID, loading it on first use.
// A missing resume yields resumes.ErrNotFound and no session.
func (m *Manager) Open(ctx context.Context, userID, resumeID string) (*Session, error) {
	key := sessionKey{userID: userID, resumeID: resumeID}
	if sess := m.lookup(key); sess != nil {
		return sess, nil
	}

	doc, err := m.backend.Get(ctx, userID, resumeID)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if sess, ok := m.sessions[key]; ok {
		sess.touch(m.cfg.Clock.Now())
		return sess, nil
	}
	sess := m.newSession(userID, doc)
	m.sessions[key] = sess
	metrics.IncSessionsOpened()
	m.logger.Info("session opened", zap.String("user_id", userID), zap.String("resume_id", resumeID))
	return sess, nil
}

// Lookup returns an already open session without loading one.
func (m *Manager) Lookup(userID, resumeID string) (*Session, bool) {
	sess := m.lookup(sessionKey{userID: userID, resumeID: resumeID})
	return sess, sess != nil
}

func (m *Manager) lookup(key sessionKey) *Session {
	m.mu.Lock()
	sess := m.sessions[key]
	m.mu.Unlock()
	if sess != nil {
		sess.touch(m.cfg.Clock.Now())
	}
	return sess
}

func (m *Manager) newSession(userID string, doc model.Document) *Session {
	store := session.New(doc)
	resumeID := store.ID()
	logger := m.logger.With(zap.String("resume_id", resumeID))
	sched := autosave.New(store, m.backend.Persister(userID),
		autosave.WithClock(m.cfg.Clock),
		autosave.WithDelay(m.cfg.AutosaveDelay),
		autosave.WithTimeout(m.cfg.SaveTimeout),
		autosave.WithLogger(logger),
		autosave.WithOnSaved(store.ApplySaved),
		autosave.WithObserver(observeSave),
	)
	store.Subscribe(func(session.Change) { sched.MarkDirty() })
	return &Session{
		UserID:    userID,
		ResumeID:  resumeID,
		Token:     uuid.NewString(),
		Store:     store,
		Scheduler: sched,
		lastUsed:  m.cfg.Clock.Now(),
	}
}

func observeSave(ev autosave.SaveEvent) {
	metrics.ObserveSaveDurationMs(float64(ev.Duration) / float64(time.Millisecond))
	if ev.Err != nil {
		metrics.IncSaveFailures()
		return
	}
	metrics.IncSaves()
}

// Close flushes and drops a session. ok is false when none was open.
func (m *Manager) Close(ctx context.Context, userID, resumeID string) (autosave.Status, bool) {
	key := sessionKey{userID: userID, resumeID: resumeID}
	m.mu.Lock()
	sess, ok := m.sessions[key]
	delete(m.sessions, key)
	m.mu.Unlock()
	if !ok {
		return autosave.Status{}, false
	}
	return m.closeSession(ctx, sess), true
}

func (m *Manager) closeSession(ctx context.Context, sess *Session) autosave.Status {
	st := sess.Scheduler.Close()
	if m.projector != nil && m.projector.Cache != nil {
		if err := m.projector.Cache.Invalidate(ctx, sess.ResumeID); err != nil {
			m.logger.Warn("projection cache invalidate failed", zap.String("resume_id", sess.ResumeID), zap.Error(err))
		}
	}
	metrics.IncSessionsClosed()
	fields := []zap.Field{
		zap.String("user_id", sess.UserID),
		zap.String("resume_id", sess.ResumeID),
		zap.String("state", string(st.State)),
	}
	if st.Error != "" {
		fields = append(fields, zap.String("error", st.Error))
		m.logger.Warn("session closed with unsaved edits", fields...)
	} else {
		m.logger.Info("session closed", fields...)
	}
	return st
}

// Reap closes sessions idle for longer than the configured TTL and returns how
// many were closed.
func (m *Manager) Reap(ctx context.Context) int {
	cutoff := m.cfg.Clock.Now().Add(-m.cfg.IdleTTL)
	m.mu.Lock()
	var idle []*Session
	for key, sess := range m.sessions {
		if !sess.idleSince().After(cutoff) {
			idle = append(idle, sess)
			delete(m.sessions, key)
		}
	}
	m.mu.Unlock()

	for _, sess := range idle {
		m.closeSession(ctx, sess)
	}
	return len(idle)
}

// Len returns the number of open sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Start schedules the idle reaper.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cron != nil {
		return errors.New("editing manager already started")
	}
	c := cron.New()
	if _, err := c.AddFunc(m.cfg.ReaperSpec, func() {
		if n := m.Reap(ctx); n > 0 {
			m.logger.Info("reaped idle sessions", zap.Int("count", n))
		}
	}); err != nil {
		return fmt.Errorf("cron.AddFunc(%q): %w", m.cfg.ReaperSpec, err)
	}
	c.Start()
	m.cron = c
	return nil
}

// Stop halts the reaper and flushes every open session.
func (m *Manager) Stop(ctx context.Context) {
	m.mu.Lock()
	c := m.cron
	m.cron = nil
	all := make([]*Session, 0, len(m.sessions))
	for key, sess := range m.sessions {
		all = append(all, sess)
		delete(m.sessions, key)
	}
	m.mu.Unlock()

	if c != nil {
		<-c.Stop().Done()
	}
	for _, sess := range all {
		m.closeSession(ctx, sess)
	}
}

// Project renders the live document of sess, memoized by session and version.
func (m *Manager) Project(ctx context.Context, sess *Session, templateID string) (render.RenderableDocument, error) {
	doc, version := sess.Store.Snapshot()
	return m.projector.Project(ctx, projcache.Key{
		ResumeID:   sess.ResumeID,
		Session:    sess.Token,
		Version:    version,
		TemplateID: templateID,
	}, &doc)
}

var _ Backend = (*resumes.Service)(nil)
