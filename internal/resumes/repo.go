package resumes

import (
	"context"
	"time"

	"resume-editor/resume/model"
)

// Repo persists resumes scoped by user.
type Repo interface {
	Create(ctx context.Context, userID string, doc model.Document) error
	GetByID(ctx context.Context, userID, id string) (model.Document, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]Summary, error)
	// Update replaces the stored document. It returns ErrNotFound when the
	// resume does not exist for userID.
	Update(ctx context.Context, userID string, doc model.Document) error
	UpdateTitle(ctx context.Context, userID, id, title string, updatedAt time.Time) error
	Delete(ctx context.Context, userID, id string) error
}
