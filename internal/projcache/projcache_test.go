package projcache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-editor/resume/model"
	"resume-editor/resume/render"
)

func TestMemoryEvictsLeastRecentlyUsed(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(Options{MaxEntries: 2})

	a := Key{ResumeID: "r", Version: 1, TemplateID: "classic"}
	b := Key{ResumeID: "r", Version: 2, TemplateID: "classic"}
	d := Key{ResumeID: "r", Version: 3, TemplateID: "classic"}
	require.NoError(t, c.Set(ctx, a, render.RenderableDocument{Title: "a"}))
	require.NoError(t, c.Set(ctx, b, render.RenderableDocument{Title: "b"}))

	_, ok, err := c.Get(ctx, a)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, c.Set(ctx, d, render.RenderableDocument{Title: "d"}))
	assert.Equal(t, 2, c.Len())
	_, ok, _ = c.Get(ctx, b)
	assert.False(t, ok, "b was least recently used")
	got, ok, _ := c.Get(ctx, a)
	assert.True(t, ok)
	assert.Equal(t, "a", got.Title)
}

func TestMemoryExpiresEntries(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewMemory(Options{TTL: time.Minute, Now: func() time.Time { return now }})

	key := Key{ResumeID: "r", Version: 1, TemplateID: "modern"}
	require.NoError(t, c.Set(ctx, key, render.RenderableDocument{Title: "x"}))
	_, ok, _ := c.Get(ctx, key)
	assert.True(t, ok)

	now = now.Add(time.Minute)
	_, ok, _ = c.Get(ctx, key)
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestMemoryInvalidate(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(Options{})
	require.NoError(t, c.Set(ctx, Key{ResumeID: "r1", Version: 1, TemplateID: "classic"}, render.RenderableDocument{}))
	require.NoError(t, c.Set(ctx, Key{ResumeID: "r1", Version: 2, TemplateID: "modern"}, render.RenderableDocument{}))
	require.NoError(t, c.Set(ctx, Key{ResumeID: "r2", Version: 1, TemplateID: "classic"}, render.RenderableDocument{}))

	require.NoError(t, c.Invalidate(ctx, "r1"))
	assert.Equal(t, 1, c.Len())
}

func TestRedisKeyFormat(t *testing.T) {
	key := Key{ResumeID: "abc", Session: "s1", Version: 42, TemplateID: "technical"}
	assert.Equal(t, "projcache:abc:s1:42:technical", redisKey(key))
}

type failingCache struct{}

func (failingCache) Get(context.Context, Key) (render.RenderableDocument, bool, error) {
	return render.RenderableDocument{}, false, errors.New("down")
}

func (failingCache) Set(context.Context, Key, render.RenderableDocument) error {
	return errors.New("down")
}

func (failingCache) Invalidate(context.Context, string) error { return nil }

func TestProjectorUsesCacheAndSurvivesFailures(t *testing.T) {
	ctx := context.Background()
	reg, err := render.NewDefaultRegistry()
	require.NoError(t, err)
	doc := model.NewDocument("Cached")
	key := Key{ResumeID: "r", Version: 1, TemplateID: "classic"}

	mem := NewMemory(Options{})
	p := &Projector{Cache: mem, Registry: reg}
	first, err := p.Project(ctx, key, &doc)
	require.NoError(t, err)
	assert.Equal(t, 1, mem.Len())

	doc.Title = "Changed without a new version"
	second, err := p.Project(ctx, key, &doc)
	require.NoError(t, err)
	assert.Equal(t, first, second, "same version is served from cache")

	broken := &Projector{Cache: failingCache{}, Registry: reg}
	out, err := broken.Project(ctx, key, &doc)
	require.NoError(t, err)
	assert.Equal(t, "Changed without a new version", out.Title)

	_, err = p.Project(ctx, Key{ResumeID: "r", Version: 2, TemplateID: "nope"}, &doc)
	assert.ErrorIs(t, err, render.ErrUnknownTemplate)
}

func TestNewWithoutRedisURLIsMemory(t *testing.T) {
	c, err := New(context.Background(), "", Options{})
	require.NoError(t, err)
	_, ok := c.(*Memory)
	assert.True(t, ok)
}

func TestSessionsOfOneResumeDoNotShareEntries(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(Options{})
	old := Key{ResumeID: "r", Session: "a", Version: 2, TemplateID: "classic"}
	fresh := Key{ResumeID: "r", Session: "b", Version: 2, TemplateID: "classic"}
	require.NoError(t, c.Set(ctx, old, render.RenderableDocument{Title: "A"}))

	_, ok, err := c.Get(ctx, fresh)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, fresh, render.RenderableDocument{Title: "B"}))
	require.NoError(t, c.Invalidate(ctx, "r"))
	assert.Equal(t, 0, c.Len())
}
