package render

import (
	"fmt"
	"strings"
	"time"

	"resume-editor/resume/model"
)

// Formatter turns a view into a template's output. Formatters must be pure.
type Formatter func(v View) RenderableDocument

// Heading case options.
const (
	CaseAsIs  = "asis"
	CaseUpper = "upper"
	CaseLower = "lower"
)

// Skill mark styles.
const (
	MarkNone    = "none"
	MarkStars   = "stars"
	MarkDots    = "dots"
	MarkBars    = "bars"
	MarkText    = "text"
	MarkPercent = "percent"
)

// Style parameterizes the shared formatter for a catalog template.
type Style struct {
	ID                string `yaml:"id"`
	Name              string `yaml:"name"`
	Description       string `yaml:"description"`
	DateLayout        string `yaml:"dateLayout"`
	RangeSeparator    string `yaml:"rangeSeparator"`
	PresentLabel      string `yaml:"presentLabel"`
	LocationSeparator string `yaml:"locationSeparator"`
	HeadingCase       string `yaml:"headingCase"`
	SkillMarks        string `yaml:"skillMarks"`
	InlineSkills      bool   `yaml:"inlineSkills"`
	SkillSeparator    string `yaml:"skillSeparator"`
	HashTags          bool   `yaml:"hashTags"`
	CompanyFirst      bool   `yaml:"companyFirst"`
}

// ApplyDefaults fills unset style fields.
func (s *Style) ApplyDefaults() {
	if s.Name == "" {
		s.Name = s.ID
	}
	if s.DateLayout == "" {
		s.DateLayout = "Jan 2006"
	}
	if s.RangeSeparator == "" {
		s.RangeSeparator = " - "
	}
	if s.PresentLabel == "" {
		s.PresentLabel = "Present"
	}
	if s.LocationSeparator == "" {
		s.LocationSeparator = ", "
	}
	if s.HeadingCase == "" {
		s.HeadingCase = CaseAsIs
	}
	if s.SkillMarks == "" {
		s.SkillMarks = MarkNone
	}
	if s.SkillSeparator == "" {
		s.SkillSeparator = ", "
	}
}

// Validate rejects styles the formatter cannot honour.
func (s Style) Validate() error {
	if strings.TrimSpace(s.ID) == "" {
		return fmt.Errorf("template id is required")
	}
	switch s.HeadingCase {
	case CaseAsIs, CaseUpper, CaseLower:
	default:
		return fmt.Errorf("template %s: unknown headingCase %q", s.ID, s.HeadingCase)
	}
	switch s.SkillMarks {
	case MarkNone, MarkStars, MarkDots, MarkBars, MarkText, MarkPercent:
	default:
		return fmt.Errorf("template %s: unknown skillMarks %q", s.ID, s.SkillMarks)
	}
	return nil
}

// Formatter builds the formatter for this style.
func (s Style) Formatter() Formatter {
	return func(v View) RenderableDocument {
		out := RenderableDocument{TemplateID: s.ID, Title: v.Title, Sections: make([]RenderedSection, 0, len(v.Sections))}
		if v.Personal != nil {
			out.Header = s.header(*v.Personal)
		}
		for _, sec := range v.Sections {
			out.Sections = append(out.Sections, s.section(sec))
		}
		return out
	}
}

func (s Style) header(pd model.PersonalDetails) *Header {
	h := &Header{Name: strings.TrimSpace(pd.FullName), Headline: strings.TrimSpace(pd.JobTitle)}
	location := s.joinLocation(pd.Address, pd.City, pd.Country)
	for _, c := range []string{pd.Email, pd.Phone, location, pd.Linkedin, pd.Github, pd.Website} {
		if c = strings.TrimSpace(c); c != "" {
			h.Contact = append(h.Contact, c)
		}
	}
	return h
}

func (s Style) section(sec ViewSection) RenderedSection {
	out := RenderedSection{Key: sec.Key, Heading: s.heading(sec.Title)}
	switch sec.Key {
	case model.KeySummary:
		out.Text = strings.TrimSpace(sec.Summary)
	case model.KeyEducation:
		for _, it := range sec.Education {
			out.Entries = append(out.Entries, Entry{
				ID:       it.ID,
				Title:    it.Degree,
				Subtitle: it.School,
				Location: s.joinLocation(it.City, it.Country),
				Dates:    s.dateRange(it.StartDate, it.EndDate, it.Present),
				Body:     strings.TrimSpace(it.Description),
			})
		}
	case model.KeyExperience:
		for _, it := range sec.Experience {
			title, subtitle := it.JobTitle, it.Company
			if s.CompanyFirst && subtitle != "" {
				title, subtitle = subtitle, title
			}
			out.Entries = append(out.Entries, Entry{
				ID:       it.ID,
				Title:    title,
				Subtitle: subtitle,
				Location: s.joinLocation(it.City, it.Country),
				Dates:    s.dateRange(it.StartDate, it.EndDate, it.Present),
				Body:     strings.TrimSpace(it.Description),
			})
		}
	case model.KeyProject:
		for _, it := range sec.Projects {
			out.Entries = append(out.Entries, Entry{
				ID:    it.ID,
				Title: it.Title,
				Dates: s.dateRange(it.StartDate, it.EndDate, it.Present),
				Body:  strings.TrimSpace(it.Description),
				Tags:  s.tags(it.Skills),
			})
		}
	case model.KeySkill:
		if s.InlineSkills {
			out.Text = s.inlineSkills(sec.Skills)
			break
		}
		for _, it := range sec.Skills {
			out.Entries = append(out.Entries, Entry{ID: it.ID, Title: it.Skill, Mark: s.skillMark(it.Level)})
		}
	}
	return out
}

func (s Style) heading(title string) string {
	title = strings.TrimSpace(title)
	switch s.HeadingCase {
	case CaseUpper:
		return strings.ToUpper(title)
	case CaseLower:
		return strings.ToLower(title)
	}
	return title
}

func (s Style) joinLocation(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, s.LocationSeparator)
}

func (s Style) dateRange(start, end string, present bool) string {
	from := s.formatDate(start)
	to := s.formatDate(end)
	if present {
		to = s.PresentLabel
	}
	switch {
	case from != "" && to != "":
		return from + s.RangeSeparator + to
	case from != "":
		return from
	default:
		return to
	}
}

func (s Style) formatDate(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	for _, layout := range []string{"2006-01-02", "2006-01"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format(s.DateLayout)
		}
	}
	return raw
}

func (s Style) tags(skills []model.ProjectSkill) []string {
	if len(skills) == 0 {
		return nil
	}
	out := make([]string, 0, len(skills))
	for _, tag := range skills {
		label := strings.TrimSpace(tag.Skill)
		if s.HashTags {
			label = "#" + strings.ToLower(strings.ReplaceAll(label, " ", ""))
		}
		out = append(out, label)
	}
	return out
}

func (s Style) inlineSkills(skills []model.SkillItem) string {
	parts := make([]string, 0, len(skills))
	for _, it := range skills {
		label := strings.TrimSpace(it.Skill)
		if mark := s.skillMark(it.Level); mark != "" {
			label += " (" + mark + ")"
		}
		parts = append(parts, label)
	}
	return strings.Join(parts, s.SkillSeparator)
}

func (s Style) skillMark(level model.SkillLevel) string {
	rank := level.Rank()
	if rank == 0 {
		return ""
	}
	switch s.SkillMarks {
	case MarkStars:
		return meter(rank, "★", "☆")
	case MarkDots:
		return meter(rank, "●", "○")
	case MarkBars:
		return meter(rank, "▰", "▱")
	case MarkText:
		lower := strings.ToLower(string(level))
		return strings.ToUpper(lower[:1]) + lower[1:]
	case MarkPercent:
		return fmt.Sprintf("%d%%", rank*100/model.MaxSkillRank)
	}
	return ""
}

func meter(rank int, full, empty string) string {
	return strings.Repeat(full, rank) + strings.Repeat(empty, model.MaxSkillRank-rank)
}
