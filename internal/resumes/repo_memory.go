package resumes

import (
	"context"
	"sort"
	"sync"
	"time"

	"resume-editor/resume/model"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]map[string]model.Document // userId -> resumeId -> document
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		data: make(map[string]map[string]model.Document),
	}
}

// Create stores a new resume for a user.
func (r *MemoryRepo) Create(ctx context.Context, userID string, doc model.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	docs, ok := r.data[userID]
	if !ok {
		docs = make(map[string]model.Document)
		r.data[userID] = docs
	}
	docs[doc.ID] = doc.Clone()
	return nil
}

// GetByID returns a resume by ID for a user.
func (r *MemoryRepo) GetByID(ctx context.Context, userID, id string) (model.Document, error) {
	if err := ctx.Err(); err != nil {
		return model.Document{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	doc, ok := r.data[userID][id]
	if !ok {
		return model.Document{}, ErrNotFound
	}
	return doc.Clone(), nil
}

// ListByUser returns resumes newest-updated first.
func (r *MemoryRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Summary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	out := make([]Summary, 0, len(r.data[userID]))
	for _, doc := range r.data[userID] {
		out = append(out, summaryOf(userID, doc))
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})

	if offset >= len(out) {
		return []Summary{}, nil
	}
	end := offset + limit
	if limit <= 0 || end > len(out) {
		end = len(out)
	}
	return out[offset:end], nil
}

// Update replaces an existing resume.
func (r *MemoryRepo) Update(ctx context.Context, userID string, doc model.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	docs := r.data[userID]
	if _, ok := docs[doc.ID]; !ok {
		return ErrNotFound
	}
	docs[doc.ID] = doc.Clone()
	return nil
}

// UpdateTitle renames a resume.
func (r *MemoryRepo) UpdateTitle(ctx context.Context, userID, id, title string, updatedAt time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.data[userID][id]
	if !ok {
		return ErrNotFound
	}
	doc.Title = title
	doc.UpdatedAt = updatedAt
	r.data[userID][id] = doc
	return nil
}

// Delete removes a resume.
func (r *MemoryRepo) Delete(ctx context.Context, userID, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.data[userID][id]; !ok {
		return ErrNotFound
	}
	delete(r.data[userID], id)
	return nil
}

var _ Repo = (*MemoryRepo)(nil)
