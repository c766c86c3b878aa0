// Package projcache memoizes template projections of live editing sessions.
// Versions restart with every session, so a key carries the session token as
// well; a key is never reused for different content.
package projcache

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"resume-editor/resume/render"
)

// Key identifies one projection.
type Key struct {
	ResumeID   string
	// Session is unique per editing session across processes.
	Session    string
	Version    uint64
	TemplateID string
}

func (k Key) String() string {
	return k.ResumeID + ":" + k.Session + ":" + strconv.FormatUint(k.Version, 10) + ":" + k.TemplateID
}

// Cache stores projected documents.
type Cache interface {
	Get(ctx context.Context, key Key) (render.RenderableDocument, bool, error)
	Set(ctx context.Context, key Key, doc render.RenderableDocument) error
	// Invalidate drops every entry of a resume.
	Invalidate(ctx context.Context, resumeID string) error
}

// New returns a Redis-backed cache when redisURL is set, else a memory cache.
func New(ctx context.Context, redisURL string, opts Options) (Cache, error) {
	if strings.TrimSpace(redisURL) == "" {
		return NewMemory(opts), nil
	}
	client, err := NewRedisClient(ctx, redisURL)
	if err != nil {
		return nil, fmt.Errorf("projection cache: %w", err)
	}
	return NewRedis(client, opts), nil
}
