package resumes

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"resume-editor/resume/model"
)

// encodePayload serializes the document body stored next to the indexed columns.
func encodePayload(doc model.Document) (string, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("encode resume payload: %w", err)
	}
	return string(raw), nil
}

// decodePayload rebuilds a document, letting the row columns win over the payload.
func decodePayload(raw []byte, id, title string, jobID sql.NullString, createdAt, updatedAt time.Time) (model.Document, error) {
	var doc model.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return model.Document{}, fmt.Errorf("decode resume payload: %w", err)
	}
	doc.ID = id
	doc.Title = title
	doc.JobID = nil
	if jobID.Valid {
		v := jobID.String
		doc.JobID = &v
	}
	doc.CreatedAt = createdAt.UTC()
	doc.UpdatedAt = updatedAt.UTC()
	doc.Normalize()
	return doc, nil
}

func nullableJobID(jobID *string) sql.NullString {
	if jobID == nil || *jobID == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: *jobID, Valid: true}
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
