package editor

import (
	"fmt"
	"strings"

	"resume-editor/resume/model"
)

// ToggleSectionVisibility flips the hidden flag of any section, including the
// personal details and summary blocks.
func ToggleSectionVisibility(doc *model.Document, key model.SectionKey) error {
	switch key {
	case model.KeyPersonalDetails:
		doc.PersonalDetails.Hidden = !doc.PersonalDetails.Hidden
	case model.KeySummary:
		doc.SummarySection.Hidden = !doc.SummarySection.Hidden
	case model.KeyEducation:
		doc.EducationSection.Hidden = !doc.EducationSection.Hidden
	case model.KeyExperience:
		doc.ExperienceSection.Hidden = !doc.ExperienceSection.Hidden
	case model.KeyProject:
		doc.ProjectSection.Hidden = !doc.ProjectSection.Hidden
	case model.KeySkill:
		doc.SkillSection.Hidden = !doc.SkillSection.Hidden
	default:
		return &model.ValidationError{Field: "sectionKey", Message: fmt.Sprintf("unknown section %q", key)}
	}
	return nil
}

// ReorderSections replaces sectionsOrder with ranks 1..N following keys,
// which must name every orderable section exactly once. Section OrderIndex
// values are left alone.
func ReorderSections(doc *model.Document, keys []model.SectionKey) error {
	orderable := model.OrderableKeys()
	if len(keys) != len(orderable) {
		return &model.InvariantError{Op: "reorderSections", Reason: fmt.Sprintf("got %d keys for %d sections", len(keys), len(orderable))}
	}
	order := make(map[model.SectionKey]int, len(keys))
	for i, key := range keys {
		if !key.Orderable() {
			return &model.InvariantError{Op: "reorderSections", Reason: fmt.Sprintf("unknown section %q", key)}
		}
		if _, dup := order[key]; dup {
			return &model.InvariantError{Op: "reorderSections", Reason: fmt.Sprintf("duplicate section %q", key)}
		}
		order[key] = i + 1
	}
	doc.SectionsOrder = order
	return nil
}

// UpdateSectionTitle renames an orderable section.
func UpdateSectionTitle(doc *model.Document, key model.SectionKey, title string) error {
	if err := model.ValidateSectionTitle(title); err != nil {
		return err
	}
	title = strings.TrimSpace(title)
	switch key {
	case model.KeySummary:
		doc.SummarySection.SectionTitle = title
	case model.KeyEducation:
		doc.EducationSection.SectionTitle = title
	case model.KeyExperience:
		doc.ExperienceSection.SectionTitle = title
	case model.KeyProject:
		doc.ProjectSection.SectionTitle = title
	case model.KeySkill:
		doc.SkillSection.SectionTitle = title
	default:
		return &model.ValidationError{Field: "sectionKey", Message: fmt.Sprintf("section %q has no title", key)}
	}
	return nil
}

// UpdatePersonalDetails merges patch into the contact block.
func UpdatePersonalDetails(doc *model.Document, patch model.PersonalDetailsPatch) {
	patch.Apply(&doc.PersonalDetails)
}

// UpdateSummary replaces the summary text.
func UpdateSummary(doc *model.Document, text string) {
	doc.SummarySection.Summary = text
}

// UpdateSummaryTitle renames the summary block.
func UpdateSummaryTitle(doc *model.Document, title string) error {
	return UpdateSectionTitle(doc, model.KeySummary, title)
}

// UpdateTitle renames the document itself.
func UpdateTitle(doc *model.Document, title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return &model.ValidationError{Field: "title", Message: "is required"}
	}
	doc.Title = title
	return nil
}
