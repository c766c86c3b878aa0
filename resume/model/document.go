package model

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Document is a complete resume as edited and persisted.
type Document struct {
	ID                string                  `json:"id"`
	JobID             *string                 `json:"jobId,omitempty"`
	Title             string                  `json:"title"`
	PersonalDetails   PersonalDetails         `json:"personalDetails"`
	SummarySection    SummarySection          `json:"summarySection"`
	EducationSection  Section[EducationItem]  `json:"educationSection"`
	ExperienceSection Section[ExperienceItem] `json:"experienceSection"`
	ProjectSection    Section[ProjectItem]    `json:"projectSection"`
	SkillSection      Section[SkillItem]      `json:"skillSection"`
	// SectionsOrder maps orderable section keys to display rank. It wins over
	// each section's own OrderIndex.
	SectionsOrder map[SectionKey]int `json:"sectionsOrder"`
	CreatedAt     time.Time          `json:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt"`
}

// Default section titles used for new documents.
const (
	DefaultSummaryTitle    = "Summary"
	DefaultEducationTitle  = "Education"
	DefaultExperienceTitle = "Experience"
	DefaultProjectTitle    = "Projects"
	DefaultSkillTitle      = "Skills"
)

// NewDocument returns an empty document with default titles and ranks.
func NewDocument(title string) Document {
	doc := Document{
		Title:             strings.TrimSpace(title),
		SummarySection:    SummarySection{SectionTitle: DefaultSummaryTitle, OrderIndex: 1},
		EducationSection:  Section[EducationItem]{ID: 1, OrderIndex: 2, SectionTitle: DefaultEducationTitle, Items: []EducationItem{}},
		ExperienceSection: Section[ExperienceItem]{ID: 2, OrderIndex: 3, SectionTitle: DefaultExperienceTitle, Items: []ExperienceItem{}},
		ProjectSection:    Section[ProjectItem]{ID: 3, OrderIndex: 4, SectionTitle: DefaultProjectTitle, Items: []ProjectItem{}},
		SkillSection:      Section[SkillItem]{ID: 4, OrderIndex: 5, SectionTitle: DefaultSkillTitle, Items: []SkillItem{}},
		SectionsOrder:     make(map[SectionKey]int, len(defaultSectionOrder)),
	}
	if doc.Title == "" {
		doc.Title = "Untitled resume"
	}
	for i, key := range defaultSectionOrder {
		doc.SectionsOrder[key] = i + 1
	}
	return doc
}

// Clone returns a deep copy sharing no mutable state with d.
func (d Document) Clone() Document {
	out := d
	if d.JobID != nil {
		jobID := *d.JobID
		out.JobID = &jobID
	}
	out.EducationSection = cloneSection(d.EducationSection)
	out.ExperienceSection = cloneSection(d.ExperienceSection)
	out.ProjectSection = cloneSection(d.ProjectSection)
	for i := range out.ProjectSection.Items {
		skills := out.ProjectSection.Items[i].Skills
		if skills != nil {
			cp := make([]ProjectSkill, len(skills))
			copy(cp, skills)
			out.ProjectSection.Items[i].Skills = cp
		}
	}
	out.SkillSection = cloneSection(d.SkillSection)
	if d.SectionsOrder != nil {
		out.SectionsOrder = make(map[SectionKey]int, len(d.SectionsOrder))
		for k, v := range d.SectionsOrder {
			out.SectionsOrder[k] = v
		}
	}
	return out
}

// SectionSequence resolves the display order of the orderable sections.
// Ranks come from SectionsOrder, falling back to the section's own OrderIndex;
// ties keep registration order.
func (d *Document) SectionSequence() []SectionKey {
	keys := OrderableKeys()
	sort.SliceStable(keys, func(i, j int) bool {
		return d.sectionRank(keys[i]) < d.sectionRank(keys[j])
	})
	return keys
}

func (d *Document) sectionRank(key SectionKey) int {
	if rank, ok := d.SectionsOrder[key]; ok {
		return rank
	}
	return d.SectionOrderIndex(key)
}

// SectionOrderIndex returns the section's own OrderIndex.
func (d *Document) SectionOrderIndex(key SectionKey) int {
	switch key {
	case KeySummary:
		return d.SummarySection.OrderIndex
	case KeyEducation:
		return d.EducationSection.OrderIndex
	case KeyExperience:
		return d.ExperienceSection.OrderIndex
	case KeyProject:
		return d.ProjectSection.OrderIndex
	case KeySkill:
		return d.SkillSection.OrderIndex
	}
	return 0
}

// SectionHidden reports the visibility flag of any section, personal details included.
func (d *Document) SectionHidden(key SectionKey) bool {
	switch key {
	case KeyPersonalDetails:
		return d.PersonalDetails.Hidden
	case KeySummary:
		return d.SummarySection.Hidden
	case KeyEducation:
		return d.EducationSection.Hidden
	case KeyExperience:
		return d.ExperienceSection.Hidden
	case KeyProject:
		return d.ProjectSection.Hidden
	case KeySkill:
		return d.SkillSection.Hidden
	}
	return false
}

// SectionTitle returns the display title of an orderable section.
func (d *Document) SectionTitle(key SectionKey) string {
	switch key {
	case KeySummary:
		return d.SummarySection.SectionTitle
	case KeyEducation:
		return d.EducationSection.SectionTitle
	case KeyExperience:
		return d.ExperienceSection.SectionTitle
	case KeyProject:
		return d.ProjectSection.SectionTitle
	case KeySkill:
		return d.SkillSection.SectionTitle
	}
	return ""
}

// Normalize fills structural defaults a stored or client-supplied document may lack.
// It never changes ranks or ids that are present.
func (d *Document) Normalize() {
	if d.EducationSection.Items == nil {
		d.EducationSection.Items = []EducationItem{}
	}
	if d.ExperienceSection.Items == nil {
		d.ExperienceSection.Items = []ExperienceItem{}
	}
	if d.ProjectSection.Items == nil {
		d.ProjectSection.Items = []ProjectItem{}
	}
	if d.SkillSection.Items == nil {
		d.SkillSection.Items = []SkillItem{}
	}
	if d.SectionsOrder == nil {
		d.SectionsOrder = make(map[SectionKey]int, len(defaultSectionOrder))
		for i, key := range d.SectionSequence() {
			d.SectionsOrder[key] = i + 1
		}
		return
	}
	// Sections missing from the map rank after the listed ones, in their
	// own OrderIndex order.
	highest := 0
	for _, rank := range d.SectionsOrder {
		if rank > highest {
			highest = rank
		}
	}
	for _, key := range d.SectionSequence() {
		if _, ok := d.SectionsOrder[key]; !ok {
			highest++
			d.SectionsOrder[key] = highest
		}
	}
}

// Validate checks a whole document, as received from a client for a full replace.
func (d *Document) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return &ValidationError{Field: "title", Message: "is required"}
	}
	if err := d.validateSectionsOrder(); err != nil {
		return err
	}
	if err := ValidateSectionTitle(d.SummarySection.SectionTitle); err != nil {
		return prefixField("summarySection", err)
	}
	if err := validateSection("educationSection", &d.EducationSection); err != nil {
		return err
	}
	if err := validateSection("experienceSection", &d.ExperienceSection); err != nil {
		return err
	}
	if err := validateSection("projectSection", &d.ProjectSection); err != nil {
		return err
	}
	if err := validateSection("skillSection", &d.SkillSection); err != nil {
		return err
	}
	for i, project := range d.ProjectSection.Items {
		seen := make(map[int]struct{}, len(project.Skills))
		for _, tag := range project.Skills {
			if _, dup := seen[tag.ID]; dup {
				return &ValidationError{Field: fmt.Sprintf("projectSection.items[%d].skills", i), Message: fmt.Sprintf("duplicate skill id %d", tag.ID)}
			}
			seen[tag.ID] = struct{}{}
		}
	}
	return nil
}

// validateSectionsOrder requires one distinct positive rank per orderable section.
func (d *Document) validateSectionsOrder() error {
	ranked := make(map[int]SectionKey, len(d.SectionsOrder))
	for key, rank := range d.SectionsOrder {
		if !key.Orderable() {
			return &ValidationError{Field: "sectionsOrder", Message: fmt.Sprintf("unknown section %q", key)}
		}
		if rank < 1 {
			return &ValidationError{Field: "sectionsOrder." + string(key), Message: "must be a positive rank"}
		}
		if other, dup := ranked[rank]; dup {
			return &ValidationError{Field: "sectionsOrder." + string(key), Message: fmt.Sprintf("rank %d is already used by %q", rank, other)}
		}
		ranked[rank] = key
	}
	for _, key := range OrderableKeys() {
		if _, ok := d.SectionsOrder[key]; !ok {
			return &ValidationError{Field: "sectionsOrder." + string(key), Message: "is required"}
		}
	}
	return nil
}

func validateSection[T any, P ItemPtr[T]](field string, s *Section[T]) error {
	if err := ValidateSectionTitle(s.SectionTitle); err != nil {
		return prefixField(field, err)
	}
	if err := CheckOrder[T, P](s.Items); err != nil {
		return &ValidationError{Field: field + ".items", Message: err.Error()}
	}
	for i := range s.Items {
		if err := ValidateItem(&s.Items[i]); err != nil {
			return prefixField(fmt.Sprintf("%s.items[%d]", field, i), err)
		}
	}
	return nil
}

func prefixField(prefix string, err error) error {
	if ve, ok := err.(*ValidationError); ok {
		field := prefix
		if ve.Field != "" {
			field = prefix + "." + ve.Field
		}
		return &ValidationError{Field: field, Message: ve.Message}
	}
	return err
}
