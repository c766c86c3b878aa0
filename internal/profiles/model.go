package profiles

import (
	"errors"
	"fmt"
	"time"

	"resume-editor/resume/model"
)

var (
	// ErrNotFound is returned when the user has not stored a profile.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput is returned when a profile fails validation.
	ErrInvalidInput = errors.New("invalid input")
)

// Profile is the reusable base a user's resumes are seeded from.
type Profile struct {
	UserID          string                 `json:"-"`
	PersonalDetails model.PersonalDetails  `json:"personalDetails"`
	Summary         string                 `json:"summary"`
	Education       []model.EducationItem  `json:"education"`
	Experience      []model.ExperienceItem `json:"experience"`
	Projects        []model.ProjectItem    `json:"projects"`
	Skills          []model.SkillItem      `json:"skills"`
	UpdatedAt       time.Time              `json:"updatedAt"`
}

// ToDocument copies the profile into a new document. Items get fresh ids and
// ranks in profile order.
func (p Profile) ToDocument() model.Document {
	doc := model.NewDocument("")
	doc.PersonalDetails = p.PersonalDetails
	doc.SummarySection.Summary = p.Summary
	doc.EducationSection.Items, doc.EducationSection.LastItemID = reindexed(p.Education)
	doc.ExperienceSection.Items, doc.ExperienceSection.LastItemID = reindexed(p.Experience)
	doc.ProjectSection.Items, doc.ProjectSection.LastItemID = reindexed(p.Projects)
	doc.SkillSection.Items, doc.SkillSection.LastItemID = reindexed(p.Skills)
	for i := range doc.ProjectSection.Items {
		proj := &doc.ProjectSection.Items[i]
		skills := make([]model.ProjectSkill, len(proj.Skills))
		for j, s := range proj.Skills {
			skills[j] = model.ProjectSkill{ID: j + 1, Skill: s.Skill}
		}
		proj.Skills = skills
		proj.LastSkillID = len(skills)
	}
	return doc
}

func reindexed[T any, P model.ItemPtr[T]](items []T) ([]T, int) {
	out := make([]T, len(items))
	copy(out, items)
	for i := range out {
		base := P(&out[i]).Base()
		base.ID = i + 1
		base.OrderIndex = i + 1
	}
	return out, len(out)
}

// Validate checks every item of the profile.
func (p Profile) Validate() error {
	if err := validateItems("education", p.Education); err != nil {
		return err
	}
	if err := validateItems("experience", p.Experience); err != nil {
		return err
	}
	if err := validateItems("projects", p.Projects); err != nil {
		return err
	}
	return validateItems("skills", p.Skills)
}

func validateItems[T any](field string, items []T) error {
	for i := range items {
		if err := model.ValidateItem(&items[i]); err != nil {
			var ve *model.ValidationError
			if errors.As(err, &ve) {
				return &model.ValidationError{Field: fmt.Sprintf("%s[%d].%s", field, i, ve.Field), Message: ve.Message}
			}
			return err
		}
	}
	return nil
}
