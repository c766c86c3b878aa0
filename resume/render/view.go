// Package render projects a resume document into display-ready views, one per template.
package render

import (
	"sort"

	"resume-editor/resume/model"
)

// View is the ordered, visibility-filtered content every template formats.
type View struct {
	Title    string
	Personal *model.PersonalDetails
	Sections []ViewSection
}

// ViewSection is one visible section. Exactly one of the item slices is set,
// or Summary for the summary block.
type ViewSection struct {
	Key        model.SectionKey
	Title      string
	Summary    string
	Education  []model.EducationItem
	Experience []model.ExperienceItem
	Projects   []model.ProjectItem
	Skills     []model.SkillItem
}

// BuildView orders sections, drops hidden sections and items, and sorts items
// by orderIndex. The result shares no mutable state with doc.
func BuildView(doc *model.Document) View {
	v := View{Title: doc.Title}
	if !doc.PersonalDetails.Hidden {
		pd := doc.PersonalDetails
		v.Personal = &pd
	}
	for _, key := range doc.SectionSequence() {
		if doc.SectionHidden(key) {
			continue
		}
		sec := ViewSection{Key: key, Title: doc.SectionTitle(key)}
		switch key {
		case model.KeySummary:
			sec.Summary = doc.SummarySection.Summary
		case model.KeyEducation:
			sec.Education = visibleItems(doc.EducationSection.Items)
		case model.KeyExperience:
			sec.Experience = visibleItems(doc.ExperienceSection.Items)
		case model.KeyProject:
			sec.Projects = visibleItems(doc.ProjectSection.Items)
			for i := range sec.Projects {
				sec.Projects[i].Skills = append([]model.ProjectSkill(nil), sec.Projects[i].Skills...)
			}
		case model.KeySkill:
			sec.Skills = visibleItems(doc.SkillSection.Items)
		}
		v.Sections = append(v.Sections, sec)
	}
	return v
}

func visibleItems[T any, P model.ItemPtr[T]](items []T) []T {
	out := make([]T, 0, len(items))
	for i := range items {
		if !P(&items[i]).Base().Hidden {
			out = append(out, items[i])
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return P(&out[i]).Base().OrderIndex < P(&out[j]).Base().OrderIndex
	})
	return out
}
