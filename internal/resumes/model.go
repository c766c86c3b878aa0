package resumes

import (
	"time"

	"resume-editor/resume/model"
)

// Creation modes accepted by Service.Create.
const (
	ModeEmpty   = "empty"
	ModeProfile = "profile"
	ModeJob     = "job"
)

// Summary is the list view of a stored resume.
type Summary struct {
	ID        string
	UserID    string
	Title     string
	JobID     *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreateInput describes a new resume.
type CreateInput struct {
	Mode     string
	Title    string
	JobID    string
	JobTitle string
}

func summaryOf(userID string, doc model.Document) Summary {
	return Summary{
		ID:        doc.ID,
		UserID:    userID,
		Title:     doc.Title,
		JobID:     doc.JobID,
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}
}
