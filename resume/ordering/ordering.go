// Package ordering turns move gestures into new section and item orders and
// hands them to the editor.
package ordering

import (
	"fmt"

	"resume-editor/resume/editor"
	"resume-editor/resume/model"
)

// Placement says on which side of the target a moved element lands.
type Placement string

const (
	Before Placement = "before"
	After  Placement = "after"
)

// ParsePlacement accepts "before" or "after"; empty means before.
func ParsePlacement(raw string) (Placement, error) {
	switch Placement(raw) {
	case "", Before:
		return Before, nil
	case After:
		return After, nil
	}
	return "", &model.ValidationError{Field: "placement", Message: fmt.Sprintf("must be %q or %q", Before, After)}
}

// Move removes key from seq and reinserts it next to target. The input is not modified.
func Move[K comparable](seq []K, key, target K, placement Placement) ([]K, error) {
	from := indexOf(seq, key)
	if from < 0 {
		return nil, fmt.Errorf("move: %v not in sequence", key)
	}
	if indexOf(seq, target) < 0 {
		return nil, fmt.Errorf("move: target %v not in sequence", target)
	}
	out := make([]K, 0, len(seq))
	out = append(out, seq[:from]...)
	out = append(out, seq[from+1:]...)
	if key == target {
		return append(out[:from], append([]K{key}, out[from:]...)...), nil
	}
	at := indexOf(out, target)
	if placement == After {
		at++
	}
	out = append(out[:at], append([]K{key}, out[at:]...)...)
	return out, nil
}

// MoveIndex moves the element at from to position to, shifting the rest.
func MoveIndex[K any](seq []K, from, to int) ([]K, error) {
	if from < 0 || from >= len(seq) || to < 0 || to >= len(seq) {
		return nil, fmt.Errorf("move: index out of range (from=%d to=%d len=%d)", from, to, len(seq))
	}
	out := make([]K, 0, len(seq))
	out = append(out, seq[:from]...)
	out = append(out, seq[from+1:]...)
	moved := seq[from]
	out = append(out[:to], append([]K{moved}, out[to:]...)...)
	return out, nil
}

// MoveSection moves one section next to another in the rendered order.
// Only sectionsOrder changes.
func MoveSection(doc *model.Document, key, target model.SectionKey, placement Placement) error {
	if !key.Orderable() {
		return &model.ValidationError{Field: "key", Message: fmt.Sprintf("section %q cannot be moved", key)}
	}
	if !target.Orderable() {
		return &model.ValidationError{Field: "target", Message: fmt.Sprintf("section %q cannot be a move target", target)}
	}
	next, err := Move(doc.SectionSequence(), key, target, placement)
	if err != nil {
		return err
	}
	return editor.ReorderSections(doc, next)
}

// MoveItem handles a drag that drops the item with the given id at position toIndex (0-based).
// A missing id is a no-op.
func MoveItem[T any, P model.ItemPtr[T]](s *model.Section[T], id, toIndex int) error {
	ids := editor.ItemIDs[T, P](s)
	from := indexOf(ids, id)
	if from < 0 {
		return nil
	}
	if toIndex < 0 || toIndex >= len(ids) {
		return &model.ValidationError{Field: "toIndex", Message: fmt.Sprintf("must be between 0 and %d", len(ids)-1)}
	}
	next, err := MoveIndex(ids, from, toIndex)
	if err != nil {
		return err
	}
	return editor.ReorderItemsByID[T, P](s, next)
}

func indexOf[K comparable](seq []K, v K) int {
	for i, e := range seq {
		if e == v {
			return i
		}
	}
	return -1
}
