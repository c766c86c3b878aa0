// Package exports renders resumes through one or more templates and stores the
// print views in the object store.
package exports

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"resume-editor/internal/shared/metrics"
	"resume-editor/internal/shared/storage/object"
	"resume-editor/internal/shared/util"
	"resume-editor/resume/model"
	"resume-editor/resume/render"
)

var (
	// ErrInvalidInput is returned for unknown formats or an empty request.
	ErrInvalidInput = errors.New("invalid input")
	// ErrForbidden is returned when a key belongs to another user.
	ErrForbidden = errors.New("forbidden")
)

const (
	// maxParallel bounds concurrent renders per export.
	maxParallel = 4
	presignTTL  = 5 * time.Minute
)

// Loader fetches the document to export.
type Loader interface {
	Get(ctx context.Context, userID, id string) (model.Document, error)
}

// Request selects the templates and formats to produce.
type Request struct {
	Templates []string
	Formats   []string
}

// Artifact is one stored rendering.
type Artifact struct {
	Template    string `json:"template"`
	Format      string `json:"format"`
	Key         string `json:"key"`
	SizeBytes   int64  `json:"sizeBytes"`
	ContentType string `json:"contentType"`
}

// Service produces and serves exports.
type Service struct {
	Store     object.ObjectStore
	Templates *render.Registry
	Resumes   Loader
}

// Export renders every template/format pair concurrently and stores the
// results. Artifacts come back in request order.
func (s *Service) Export(ctx context.Context, userID, resumeID string, req Request) ([]Artifact, error) {
	templates := dedupe(req.Templates)
	formats := dedupe(req.Formats)
	if len(formats) == 0 {
		formats = []string{render.FormatHTML}
	}
	if len(templates) == 0 {
		return nil, fmt.Errorf("%w: at least one template is required", ErrInvalidInput)
	}
	for _, f := range formats {
		if _, ok := contentTypes[f]; !ok {
			return nil, fmt.Errorf("%w: unsupported format %q", ErrInvalidInput, f)
		}
	}

	doc, err := s.Resumes.Get(ctx, userID, resumeID)
	if err != nil {
		return nil, err
	}

	out := make([]Artifact, len(templates)*len(formats))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallel)
	for ti, templateID := range templates {
		for fi, format := range formats {
			slot := ti*len(formats) + fi
			templateID, format := templateID, format
			g.Go(func() error {
				projected, err := s.Templates.Project(&doc, templateID)
				if err != nil {
					return err
				}
				metrics.IncProjections()
				body, err := encode(projected, format)
				if err != nil {
					return fmt.Errorf("render %s/%s: %w", templateID, format, err)
				}
				name := fmt.Sprintf("%s-%s.%s", resumeID, templateID, extensions[format])
				obj, err := s.Store.Put(gctx, userID, name, contentTypes[format], bytes.NewReader(body))
				if err != nil {
					return fmt.Errorf("store %s: %w", name, err)
				}
				out[slot] = Artifact{
					Template:    templateID,
					Format:      format,
					Key:         obj.Key,
					SizeBytes:   obj.SizeBytes,
					ContentType: obj.ContentType,
				}
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Open returns a stored export owned by userID.
func (s *Service) Open(ctx context.Context, userID, key string) (io.ReadCloser, string, error) {
	clean, err := authorize(userID, key)
	if err != nil {
		return nil, "", err
	}
	r, err := s.Store.Open(ctx, clean)
	if err != nil {
		return nil, "", err
	}
	return r, contentTypeForKey(clean), nil
}

// DownloadURL returns a presigned link for an export owned by userID. ok is
// false when the store cannot presign and the export must be streamed.
func (s *Service) DownloadURL(ctx context.Context, userID, key string) (link string, ok bool, err error) {
	clean, err := authorize(userID, key)
	if err != nil {
		return "", false, err
	}
	p, ok := s.Store.(object.Presigner)
	if !ok {
		return "", false, nil
	}
	link, err = p.PresignGet(ctx, clean, presignTTL)
	if err != nil {
		return "", false, err
	}
	return link, true, nil
}

func authorize(userID, key string) (string, error) {
	clean := path.Clean(strings.TrimSpace(key))
	if clean == "." || strings.HasPrefix(clean, "..") || strings.HasPrefix(clean, "/") {
		return "", fmt.Errorf("%w: invalid key", ErrInvalidInput)
	}
	if !util.OwnsKey(userID, clean) {
		return "", ErrForbidden
	}
	return clean, nil
}

var (
	contentTypes = map[string]string{
		render.FormatHTML: "text/html; charset=utf-8",
		render.FormatText: "text/plain; charset=utf-8",
		render.FormatJSON: "application/json",
	}
	extensions = map[string]string{
		render.FormatHTML: "html",
		render.FormatText: "txt",
		render.FormatJSON: "json",
	}
)

func contentTypeForKey(key string) string {
	for format, ext := range extensions {
		if strings.HasSuffix(key, "."+ext) {
			return contentTypes[format]
		}
	}
	return "application/octet-stream"
}

func encode(doc render.RenderableDocument, format string) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	switch format {
	case render.FormatHTML:
		err = render.WriteHTML(&buf, doc)
	case render.FormatText:
		err = render.WriteText(&buf, doc)
	case render.FormatJSON:
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		err = enc.Encode(doc)
	default:
		err = fmt.Errorf("%w: unsupported format %q", ErrInvalidInput, format)
	}
	return buf.Bytes(), err
}

func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
