package model

import (
	"encoding/json"
	"fmt"
)

// Patch merges caller-supplied fields into an item. Nil fields are left untouched.
type Patch[T any] interface {
	Apply(item *T)
}

// EducationPatch is a partial update of an EducationItem.
type EducationPatch struct {
	Degree      *string `json:"degree"`
	School      *string `json:"school"`
	City        *string `json:"city"`
	Country     *string `json:"country"`
	StartDate   *string `json:"startDate"`
	EndDate     *string `json:"endDate"`
	Present     *bool   `json:"present"`
	Description *string `json:"description"`
}

func (p EducationPatch) Apply(it *EducationItem) {
	setString(&it.Degree, p.Degree)
	setString(&it.School, p.School)
	setString(&it.City, p.City)
	setString(&it.Country, p.Country)
	setString(&it.StartDate, p.StartDate)
	setString(&it.EndDate, p.EndDate)
	setBool(&it.Present, p.Present)
	setString(&it.Description, p.Description)
}

// ExperiencePatch is a partial update of an ExperienceItem.
type ExperiencePatch struct {
	JobTitle    *string `json:"jobTitle"`
	Company     *string `json:"company"`
	City        *string `json:"city"`
	Country     *string `json:"country"`
	StartDate   *string `json:"startDate"`
	EndDate     *string `json:"endDate"`
	Present     *bool   `json:"present"`
	Description *string `json:"description"`
}

func (p ExperiencePatch) Apply(it *ExperienceItem) {
	setString(&it.JobTitle, p.JobTitle)
	setString(&it.Company, p.Company)
	setString(&it.City, p.City)
	setString(&it.Country, p.Country)
	setString(&it.StartDate, p.StartDate)
	setString(&it.EndDate, p.EndDate)
	setBool(&it.Present, p.Present)
	setString(&it.Description, p.Description)
}

// ProjectPatch is a partial update of a ProjectItem. Skill tags have their own operations.
type ProjectPatch struct {
	Title       *string `json:"title"`
	StartDate   *string `json:"startDate"`
	EndDate     *string `json:"endDate"`
	Present     *bool   `json:"present"`
	Description *string `json:"description"`
}

func (p ProjectPatch) Apply(it *ProjectItem) {
	setString(&it.Title, p.Title)
	setString(&it.StartDate, p.StartDate)
	setString(&it.EndDate, p.EndDate)
	setBool(&it.Present, p.Present)
	setString(&it.Description, p.Description)
}

// SkillPatch is a partial update of a SkillItem.
type SkillPatch struct {
	Skill *string     `json:"skill"`
	Level *SkillLevel `json:"level"`
}

func (p SkillPatch) Apply(it *SkillItem) {
	setString(&it.Skill, p.Skill)
	if p.Level != nil {
		it.Level = *p.Level
	}
}

// PersonalDetailsPatch is a partial update of the contact block.
type PersonalDetailsPatch struct {
	FullName *string `json:"fullName"`
	JobTitle *string `json:"jobTitle"`
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
	Address  *string `json:"address"`
	City     *string `json:"city"`
	Country  *string `json:"country"`
	Linkedin *string `json:"linkedin"`
	Github   *string `json:"github"`
	Website  *string `json:"website"`
}

func (p PersonalDetailsPatch) Apply(pd *PersonalDetails) {
	setString(&pd.FullName, p.FullName)
	setString(&pd.JobTitle, p.JobTitle)
	setString(&pd.Email, p.Email)
	setString(&pd.Phone, p.Phone)
	setString(&pd.Address, p.Address)
	setString(&pd.City, p.City)
	setString(&pd.Country, p.Country)
	setString(&pd.Linkedin, p.Linkedin)
	setString(&pd.Github, p.Github)
	setString(&pd.Website, p.Website)
}

// ItemPatch is a tagged union over the per-kind patches.
type ItemPatch struct {
	Kind       Kind
	Education  *EducationPatch
	Experience *ExperiencePatch
	Project    *ProjectPatch
	Skill      *SkillPatch
}

// DecodePatch unmarshals raw JSON into the patch shape selected by kind.
func DecodePatch(kind Kind, raw []byte) (ItemPatch, error) {
	patch := ItemPatch{Kind: kind}
	var target any
	switch kind {
	case KindEducation:
		patch.Education = &EducationPatch{}
		target = patch.Education
	case KindExperience:
		patch.Experience = &ExperiencePatch{}
		target = patch.Experience
	case KindProject:
		patch.Project = &ProjectPatch{}
		target = patch.Project
	case KindSkill:
		patch.Skill = &SkillPatch{}
		target = patch.Skill
	default:
		return ItemPatch{}, &ValidationError{Field: "kind", Message: fmt.Sprintf("unknown item kind %q", kind)}
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return ItemPatch{}, &ValidationError{Field: string(kind), Message: "is not a valid patch: " + err.Error()}
	}
	return patch, nil
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func setBool(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}
