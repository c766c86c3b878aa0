package model

import (
	"encoding/json"
	"fmt"
)

// Entry is a tagged union over the item shapes. Exactly one payload matches Kind.
type Entry struct {
	Kind       Kind
	Education  *EducationItem
	Experience *ExperienceItem
	Project    *ProjectItem
	Skill      *SkillItem
}

// DecodeEntry unmarshals raw JSON into the item shape selected by kind.
func DecodeEntry(kind Kind, raw []byte) (Entry, error) {
	entry := Entry{Kind: kind}
	var target any
	switch kind {
	case KindEducation:
		entry.Education = &EducationItem{}
		target = entry.Education
	case KindExperience:
		entry.Experience = &ExperienceItem{}
		target = entry.Experience
	case KindProject:
		entry.Project = &ProjectItem{}
		target = entry.Project
	case KindSkill:
		entry.Skill = &SkillItem{}
		target = entry.Skill
	default:
		return Entry{}, &ValidationError{Field: "kind", Message: fmt.Sprintf("unknown item kind %q", kind)}
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return Entry{}, &ValidationError{Field: string(kind), Message: "is not a valid item: " + err.Error()}
	}
	return entry, nil
}

// Item returns the populated payload, or nil when the entry is malformed.
func (e Entry) Item() Item {
	switch e.Kind {
	case KindEducation:
		if e.Education != nil {
			return e.Education
		}
	case KindExperience:
		if e.Experience != nil {
			return e.Experience
		}
	case KindProject:
		if e.Project != nil {
			return e.Project
		}
	case KindSkill:
		if e.Skill != nil {
			return e.Skill
		}
	}
	return nil
}

// MarshalJSON writes the payload with an added kind field.
func (e Entry) MarshalJSON() ([]byte, error) {
	item := e.Item()
	if item == nil {
		return []byte("null"), nil
	}
	raw, err := json.Marshal(item)
	if err != nil {
		return nil, err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	kind, _ := json.Marshal(e.Kind)
	fields["kind"] = kind
	return json.Marshal(fields)
}
