package render

import "resume-editor/resume/model"

// RenderableDocument is the formatted output of one template.
type RenderableDocument struct {
	TemplateID string            `json:"templateId"`
	Title      string            `json:"title"`
	Header     *Header           `json:"header,omitempty"`
	Sections   []RenderedSection `json:"sections"`
}

// Header is the formatted personal details block.
type Header struct {
	Name     string   `json:"name"`
	Headline string   `json:"headline,omitempty"`
	Contact  []string `json:"contact,omitempty"`
}

// RenderedSection is one formatted section. Text carries free text or an
// inline skill list; Entries carries item rows.
type RenderedSection struct {
	Key     model.SectionKey `json:"key"`
	Heading string           `json:"heading"`
	Text    string           `json:"text,omitempty"`
	Entries []Entry          `json:"entries,omitempty"`
}

// Entry is one formatted item row.
type Entry struct {
	ID       int      `json:"id"`
	Title    string   `json:"title"`
	Subtitle string   `json:"subtitle,omitempty"`
	Location string   `json:"location,omitempty"`
	Dates    string   `json:"dates,omitempty"`
	Body     string   `json:"body,omitempty"`
	Tags     []string `json:"tags,omitempty"`
	Mark     string   `json:"mark,omitempty"`
}
