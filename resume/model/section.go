package model

import (
	"fmt"
	"strings"
)

// SectionKey names a top-level block of the document.
type SectionKey string

const (
	KeyPersonalDetails SectionKey = "personalDetails"
	KeySummary         SectionKey = "summary"
	KeyEducation       SectionKey = "education"
	KeyExperience      SectionKey = "experience"
	KeyProject         SectionKey = "project"
	KeySkill           SectionKey = "skill"
)

// defaultSectionOrder is the registration order; it breaks rank ties.
var defaultSectionOrder = []SectionKey{KeySummary, KeyEducation, KeyExperience, KeyProject, KeySkill}

// OrderableKeys returns the keys that take part in sectionsOrder, in registration order.
func OrderableKeys() []SectionKey {
	out := make([]SectionKey, len(defaultSectionOrder))
	copy(out, defaultSectionOrder)
	return out
}

// Orderable reports whether the key takes part in sectionsOrder.
func (k SectionKey) Orderable() bool {
	for _, key := range defaultSectionOrder {
		if key == k {
			return true
		}
	}
	return false
}

// Kind returns the item kind held by the section, if it is a collection.
func (k SectionKey) Kind() (Kind, bool) {
	switch k {
	case KeyEducation:
		return KindEducation, true
	case KeyExperience:
		return KindExperience, true
	case KeyProject:
		return KindProject, true
	case KeySkill:
		return KindSkill, true
	}
	return "", false
}

// ParseSectionKey validates a section key supplied by a caller.
func ParseSectionKey(raw string) (SectionKey, error) {
	key := SectionKey(strings.TrimSpace(raw))
	if key == KeyPersonalDetails || key.Orderable() {
		return key, nil
	}
	return "", &ValidationError{Field: "sectionKey", Message: fmt.Sprintf("unknown section %q", raw)}
}

// Section is an ordered, homogeneous collection of one item shape.
// Items[i].OrderIndex == i+1 holds between mutations.
type Section[T any] struct {
	ID           int    `json:"id"`
	OrderIndex   int    `json:"orderIndex"`
	SectionTitle string `json:"sectionTitle"`
	Hidden       bool   `json:"hidden"`
	Items        []T    `json:"items"`
	// LastItemID is the highest item id ever issued in this section.
	LastItemID int `json:"lastItemId,omitempty"`
}

// SummarySection is the singleton free-text block.
type SummarySection struct {
	Summary      string `json:"summary"`
	SectionTitle string `json:"sectionTitle"`
	Hidden       bool   `json:"hidden"`
	OrderIndex   int    `json:"orderIndex"`
}

// PersonalDetails is the contact block rendered as the document header.
type PersonalDetails struct {
	FullName string `json:"fullName"`
	JobTitle string `json:"jobTitle"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	City     string `json:"city"`
	Country  string `json:"country"`
	Linkedin string `json:"linkedin"`
	Github   string `json:"github"`
	Website  string `json:"website"`
	Hidden   bool   `json:"hidden"`
}

// CheckOrder verifies that items carry orderIndex 1..N in slice order and unique ids.
func CheckOrder[T any, P ItemPtr[T]](items []T) error {
	seen := make(map[int]struct{}, len(items))
	for i := range items {
		base := P(&items[i]).Base()
		if base.OrderIndex != i+1 {
			return &InvariantError{Op: "checkOrder", Reason: fmt.Sprintf("item %d at position %d has orderIndex %d", base.ID, i+1, base.OrderIndex)}
		}
		if _, dup := seen[base.ID]; dup {
			return &InvariantError{Op: "checkOrder", Reason: fmt.Sprintf("duplicate item id %d", base.ID)}
		}
		seen[base.ID] = struct{}{}
	}
	return nil
}

// MaxItemID returns the larger of the highest live id and the section's high-water mark.
func MaxItemID[T any, P ItemPtr[T]](s *Section[T]) int {
	highest := s.LastItemID
	for i := range s.Items {
		if id := P(&s.Items[i]).Base().ID; id > highest {
			highest = id
		}
	}
	return highest
}

func cloneSection[T any](s Section[T]) Section[T] {
	out := s
	out.Items = make([]T, len(s.Items))
	copy(out.Items, s.Items)
	return out
}
