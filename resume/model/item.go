package model

import (
	"fmt"
	"strings"
)

// Kind discriminates the four item shapes a section can hold.
type Kind string

const (
	KindEducation  Kind = "education"
	KindExperience Kind = "experience"
	KindProject    Kind = "project"
	KindSkill      Kind = "skill"
)

// Kinds lists every item kind in section registration order.
func Kinds() []Kind {
	return []Kind{KindEducation, KindExperience, KindProject, KindSkill}
}

// ParseKind accepts a kind or its section key, case-insensitively.
func ParseKind(raw string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(raw))) {
	case KindEducation:
		return KindEducation, nil
	case KindExperience:
		return KindExperience, nil
	case KindProject:
		return KindProject, nil
	case KindSkill:
		return KindSkill, nil
	}
	return "", &ValidationError{Field: "kind", Message: fmt.Sprintf("unknown item kind %q", raw)}
}

// SectionKey returns the key of the section holding items of this kind.
func (k Kind) SectionKey() SectionKey {
	return SectionKey(k)
}

// Item is implemented by pointers to the concrete item shapes.
type Item interface {
	Kind() Kind
	Base() *BaseItem
}

// ItemPtr constrains a type parameter to a pointer to an item shape.
type ItemPtr[T any] interface {
	*T
	Item
}

// BaseItem carries the identity, rank and visibility shared by every item.
type BaseItem struct {
	ID         int  `json:"id"`
	OrderIndex int  `json:"orderIndex"`
	Hidden     bool `json:"hidden"`
}

// Base gives generic code access to the shared fields.
func (b *BaseItem) Base() *BaseItem { return b }

// EducationItem is one entry of the education section.
type EducationItem struct {
	BaseItem
	Degree      string `json:"degree" validate:"nonblank"`
	School      string `json:"school"`
	City        string `json:"city"`
	Country     string `json:"country"`
	StartDate   string `json:"startDate" validate:"omitempty,resumedate"`
	EndDate     string `json:"endDate" validate:"omitempty,resumedate"`
	Present     bool   `json:"present"`
	Description string `json:"description"`
}

func (EducationItem) Kind() Kind { return KindEducation }

func (e EducationItem) dateRange() (string, string, bool) { return e.StartDate, e.EndDate, e.Present }

// ExperienceItem is one entry of the work history section.
type ExperienceItem struct {
	BaseItem
	JobTitle    string `json:"jobTitle" validate:"nonblank"`
	Company     string `json:"company"`
	City        string `json:"city"`
	Country     string `json:"country"`
	StartDate   string `json:"startDate" validate:"omitempty,resumedate"`
	EndDate     string `json:"endDate" validate:"omitempty,resumedate"`
	Present     bool   `json:"present"`
	Description string `json:"description"`
}

func (ExperienceItem) Kind() Kind { return KindExperience }

func (e ExperienceItem) dateRange() (string, string, bool) { return e.StartDate, e.EndDate, e.Present }

// ProjectSkill is a tag attached to a project.
type ProjectSkill struct {
	ID    int    `json:"id"`
	Skill string `json:"skill" validate:"nonblank"`
}

// ProjectItem is one entry of the projects section. Skills keep insertion order.
type ProjectItem struct {
	BaseItem
	Title       string         `json:"title" validate:"nonblank"`
	StartDate   string         `json:"startDate" validate:"omitempty,resumedate"`
	EndDate     string         `json:"endDate" validate:"omitempty,resumedate"`
	Present     bool           `json:"present"`
	Description string         `json:"description"`
	Skills      []ProjectSkill `json:"skills" validate:"dive"`
	// LastSkillID is the highest skill id ever issued on this project.
	LastSkillID int `json:"lastSkillId,omitempty"`
}

func (ProjectItem) Kind() Kind { return KindProject }

func (p ProjectItem) dateRange() (string, string, bool) { return p.StartDate, p.EndDate, p.Present }

// SkillLevel grades a skill item.
type SkillLevel string

const (
	LevelBeginner     SkillLevel = "BEGINNER"
	LevelIntermediate SkillLevel = "INTERMEDIATE"
	LevelAdvanced     SkillLevel = "ADVANCED"
	LevelExpert       SkillLevel = "EXPERT"
)

// Rank maps the level onto 1..4; unknown or empty levels rank 0.
func (l SkillLevel) Rank() int {
	switch l {
	case LevelBeginner:
		return 1
	case LevelIntermediate:
		return 2
	case LevelAdvanced:
		return 3
	case LevelExpert:
		return 4
	}
	return 0
}

// MaxSkillRank is the rank of the highest skill level.
const MaxSkillRank = 4

// SkillItem is one entry of the skills section.
type SkillItem struct {
	BaseItem
	Skill string     `json:"skill" validate:"nonblank"`
	Level SkillLevel `json:"level" validate:"omitempty,oneof=BEGINNER INTERMEDIATE ADVANCED EXPERT"`
}

func (SkillItem) Kind() Kind { return KindSkill }

var (
	_ Item = (*EducationItem)(nil)
	_ Item = (*ExperienceItem)(nil)
	_ Item = (*ProjectItem)(nil)
	_ Item = (*SkillItem)(nil)
)
