package projcache

import (
	"container/list"
	"context"
	"sync"
	"time"

	"resume-editor/resume/render"
)

// Options bound cache size and entry lifetime.
type Options struct {
	MaxEntries int
	TTL        time.Duration
	// Now defaults to time.Now.
	Now func() time.Time
}

type memoryEntry struct {
	key     Key
	doc     render.RenderableDocument
	expires time.Time
}

// Memory is a bounded LRU cache held in process.
type Memory struct {
	mu      sync.Mutex
	opts    Options
	order   *list.List
	entries map[Key]*list.Element
}

// NewMemory constructs a Memory cache.
func NewMemory(opts Options) *Memory {
	if opts.MaxEntries <= 0 {
		opts.MaxEntries = 512
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Memory{
		opts:    opts,
		order:   list.New(),
		entries: make(map[Key]*list.Element),
	}
}

// Get returns a cached projection.
func (m *Memory) Get(ctx context.Context, key Key) (render.RenderableDocument, bool, error) {
	if err := ctx.Err(); err != nil {
		return render.RenderableDocument{}, false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	el, ok := m.entries[key]
	if !ok {
		return render.RenderableDocument{}, false, nil
	}
	entry := el.Value.(*memoryEntry)
	if !entry.expires.IsZero() && !m.opts.Now().Before(entry.expires) {
		m.removeLocked(el)
		return render.RenderableDocument{}, false, nil
	}
	m.order.MoveToFront(el)
	return entry.doc, true, nil
}

// Set stores a projection, evicting the least recently used entry when full.
func (m *Memory) Set(ctx context.Context, key Key, doc render.RenderableDocument) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var expires time.Time
	if m.opts.TTL > 0 {
		expires = m.opts.Now().Add(m.opts.TTL)
	}
	if el, ok := m.entries[key]; ok {
		entry := el.Value.(*memoryEntry)
		entry.doc = doc
		entry.expires = expires
		m.order.MoveToFront(el)
		return nil
	}
	m.entries[key] = m.order.PushFront(&memoryEntry{key: key, doc: doc, expires: expires})
	for m.order.Len() > m.opts.MaxEntries {
		m.removeLocked(m.order.Back())
	}
	return nil
}

// Invalidate drops every entry of a resume.
func (m *Memory) Invalidate(ctx context.Context, resumeID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, el := range m.entries {
		if key.ResumeID == resumeID {
			m.removeLocked(el)
		}
	}
	return nil
}

// Len returns the number of cached entries.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.order.Len()
}

func (m *Memory) removeLocked(el *list.Element) {
	entry := m.order.Remove(el).(*memoryEntry)
	delete(m.entries, entry.key)
}

var _ Cache = (*Memory)(nil)
