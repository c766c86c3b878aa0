package projcache

import (
	"context"

	"go.uber.org/zap"

	"resume-editor/internal/shared/metrics"
	"resume-editor/resume/model"
	"resume-editor/resume/render"
)

// Projector projects documents through a Registry, consulting the cache first.
// Cache failures are logged and fall through to a fresh projection.
type Projector struct {
	Cache    Cache
	Registry *render.Registry
	Logger   *zap.Logger
}

// Project returns the projection of doc at key.Version under key.TemplateID.
func (p *Projector) Project(ctx context.Context, key Key, doc *model.Document) (render.RenderableDocument, error) {
	logger := p.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if p.Cache != nil {
		cached, ok, err := p.Cache.Get(ctx, key)
		if err != nil {
			logger.Warn("projection cache get failed", zap.String("key", key.String()), zap.Error(err))
		} else if ok {
			metrics.IncProjectionCacheHits()
			return cached, nil
		}
	}

	out, err := p.Registry.Project(doc, key.TemplateID)
	if err != nil {
		return render.RenderableDocument{}, err
	}
	metrics.IncProjections()

	if p.Cache != nil {
		if err := p.Cache.Set(ctx, key, out); err != nil {
			logger.Warn("projection cache set failed", zap.String("key", key.String()), zap.Error(err))
		}
	}
	return out, nil
}
