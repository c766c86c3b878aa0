package profiles

import (
	"context"
	"errors"
	"fmt"
	"time"

	"resume-editor/resume/model"
)

// Service manages user profiles.
type Service struct {
	Repo Repo
}

// NewService constructs a Service.
func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

// Get returns the profile for userID.
func (s *Service) Get(ctx context.Context, userID string) (Profile, error) {
	return s.Repo.Get(ctx, userID)
}

// Put validates and stores the profile for userID.
func (s *Service) Put(ctx context.Context, userID string, p Profile) (Profile, error) {
	if err := p.Validate(); err != nil {
		return Profile{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	p.UserID = userID
	p.UpdatedAt = time.Now().UTC()
	if err := s.Repo.Put(ctx, p); err != nil {
		return Profile{}, err
	}
	return p, nil
}

// BaseDocument returns a document seeded from the user's profile.
func (s *Service) BaseDocument(ctx context.Context, userID string) (model.Document, bool, error) {
	p, err := s.Repo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return model.Document{}, false, nil
		}
		return model.Document{}, false, err
	}
	return p.ToDocument(), true, nil
}
