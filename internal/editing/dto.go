package editing

import (
	"encoding/json"

	"resume-editor/resume/autosave"
	"resume-editor/resume/model"
)

type sessionResponse struct {
	Document model.Document  `json:"document"`
	Version  uint64          `json:"version"`
	Status   autosave.Status `json:"status"`
}

type mutationResponse struct {
	Version uint64          `json:"version"`
	ID      int             `json:"id,omitempty"`
	Status  autosave.Status `json:"status"`
}

type titleRequest struct {
	Title string `json:"title"`
}

type summaryRequest struct {
	Summary      *string `json:"summary"`
	SectionTitle *string `json:"sectionTitle"`
}

type sectionsOrderRequest struct {
	Keys []model.SectionKey `json:"keys"`
}

type moveSectionRequest struct {
	Target    model.SectionKey `json:"target"`
	Placement string           `json:"placement"`
}

type itemsOrderRequest struct {
	IDs []int `json:"ids"`
}

type moveItemRequest struct {
	ToIndex *int `json:"toIndex"`
}

type skillRequest struct {
	Skill string `json:"skill"`
}

type rawBody = json.RawMessage
