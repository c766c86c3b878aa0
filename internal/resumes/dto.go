package resumes

import (
	"errors"
	"time"

	"resume-editor/resume/model"
)

type createRequest struct {
	Mode     string `json:"mode"`
	Title    string `json:"title"`
	JobID    string `json:"jobId"`
	JobTitle string `json:"jobTitle"`
}

type titleRequest struct {
	Title string `json:"title"`
}

type summaryResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	JobID     *string   `json:"jobId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type titleResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toSummaryResponse(s Summary) summaryResponse {
	return summaryResponse{
		ID:        s.ID,
		Title:     s.Title,
		JobID:     s.JobID,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

// validationDetails extracts structured details from a validation failure.
func validationDetails(err error) interface{} {
	var schemaErr *SchemaError
	if errors.As(err, &schemaErr) {
		return schemaErr.Errors
	}
	var ve *model.ValidationError
	if errors.As(err, &ve) {
		return []FieldError{{Field: ve.Field, Message: ve.Message}}
	}
	return nil
}
