package resumes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"resume-editor/resume/autosave"
	"resume-editor/resume/model"
)

// ProfileSource supplies the base document for profile and job creation modes.
// found is false when the user has no stored profile.
type ProfileSource interface {
	BaseDocument(ctx context.Context, userID string) (doc model.Document, found bool, err error)
}

// Service coordinates resume persistence.
type Service struct {
	Repo     Repo
	Profiles ProfileSource
	// Now defaults to time.Now in UTC.
	Now func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// Create builds and stores a new resume according to in.Mode.
func (s *Service) Create(ctx context.Context, userID string, in CreateInput) (model.Document, error) {
	mode := strings.ToLower(strings.TrimSpace(in.Mode))
	if mode == "" {
		mode = ModeEmpty
	}
	title := strings.TrimSpace(in.Title)

	var doc model.Document
	switch mode {
	case ModeEmpty:
		doc = model.NewDocument(title)
	case ModeProfile, ModeJob:
		jobID := strings.TrimSpace(in.JobID)
		jobTitle := strings.TrimSpace(in.JobTitle)
		if mode == ModeJob && jobID == "" {
			return model.Document{}, fmt.Errorf("%w: jobId is required for job mode", ErrInvalidInput)
		}
		base, err := s.baseDocument(ctx, userID)
		if err != nil {
			return model.Document{}, err
		}
		doc = base
		if mode == ModeJob {
			doc.JobID = &jobID
			if jobTitle != "" {
				doc.PersonalDetails.JobTitle = jobTitle
				if title == "" {
					title = jobTitle
				}
			}
		}
		doc.Title = title
		if doc.Title == "" {
			doc.Title = model.NewDocument("").Title
		}
	default:
		return model.Document{}, fmt.Errorf("%w: unknown mode %q", ErrInvalidInput, in.Mode)
	}

	now := s.now()
	doc.ID = uuid.NewString()
	doc.CreatedAt = now
	doc.UpdatedAt = now
	doc.Normalize()
	if err := doc.Validate(); err != nil {
		return model.Document{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	if err := s.Repo.Create(ctx, userID, doc); err != nil {
		return model.Document{}, err
	}
	return doc, nil
}

func (s *Service) baseDocument(ctx context.Context, userID string) (model.Document, error) {
	if s.Profiles == nil {
		return model.NewDocument(""), nil
	}
	doc, found, err := s.Profiles.BaseDocument(ctx, userID)
	if err != nil {
		return model.Document{}, err
	}
	if !found {
		return model.NewDocument(""), nil
	}
	return doc, nil
}

// Get returns the stored resume.
func (s *Service) Get(ctx context.Context, userID, id string) (model.Document, error) {
	if strings.TrimSpace(id) == "" {
		return model.Document{}, ErrNotFound
	}
	return s.Repo.GetByID(ctx, userID, id)
}

// List returns resume summaries for the user.
func (s *Service) List(ctx context.Context, userID string, limit, offset int) ([]Summary, error) {
	return s.Repo.ListByUser(ctx, userID, limit, offset)
}

// Update replaces the whole document. Replaying the same document is
// idempotent apart from the refreshed updatedAt.
func (s *Service) Update(ctx context.Context, userID, id string, doc model.Document) (model.Document, error) {
	if strings.TrimSpace(id) == "" {
		return model.Document{}, ErrNotFound
	}
	if doc.ID != "" && doc.ID != id {
		return model.Document{}, fmt.Errorf("%w: document id %q does not match %q", ErrInvalidInput, doc.ID, id)
	}
	doc.ID = id
	doc.Normalize()
	if err := doc.Validate(); err != nil {
		return model.Document{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	existing, err := s.Repo.GetByID(ctx, userID, id)
	if err != nil {
		return model.Document{}, err
	}
	doc.CreatedAt = existing.CreatedAt
	doc.UpdatedAt = s.now()
	if err := s.Repo.Update(ctx, userID, doc); err != nil {
		return model.Document{}, err
	}
	return doc, nil
}

// UpdateTitle renames a resume and returns the stored title and time.
func (s *Service) UpdateTitle(ctx context.Context, userID, id, title string) (string, time.Time, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", time.Time{}, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	now := s.now()
	if err := s.Repo.UpdateTitle(ctx, userID, id, title, now); err != nil {
		return "", time.Time{}, err
	}
	return title, now, nil
}

// Delete removes a resume.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	return s.Repo.Delete(ctx, userID, id)
}

// Persister saves documents on behalf of userID for an autosave scheduler.
func (s *Service) Persister(userID string) autosave.Persister {
	return autosave.PersisterFunc(func(ctx context.Context, doc model.Document) (model.Document, error) {
		return s.Update(ctx, userID, doc.ID, doc)
	})
}

// IsInvalid reports whether err is a caller input problem.
func IsInvalid(err error) bool {
	return errors.Is(err, ErrInvalidInput) || errors.Is(err, model.ErrValidation) || errors.Is(err, model.ErrInvariant)
}
