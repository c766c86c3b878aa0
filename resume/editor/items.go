// Package editor implements the mutation operations over a resume document.
// Every operation validates before touching its target and leaves item
// orderIndex values contiguous from 1 in slice order.
package editor

import (
	"fmt"

	"resume-editor/resume/model"
)

// AddItem appends item as the last entry of s and returns the stored copy.
// The id is one past the highest id the section has ever issued.
// Inline project skill tags are renumbered 1..n in payload order.
func AddItem[T any, P model.ItemPtr[T]](s *model.Section[T], item T) (T, error) {
	if project, ok := any(P(&item)).(*model.ProjectItem); ok {
		issueSkillIDs(project)
	}
	if err := model.ValidateItem(P(&item)); err != nil {
		var zero T
		return zero, err
	}
	id := model.MaxItemID[T, P](s) + 1
	base := P(&item).Base()
	base.ID = id
	base.OrderIndex = len(s.Items) + 1
	s.Items = append(s.Items, item)
	s.LastItemID = id
	if project, ok := any(P(&item)).(*model.ProjectItem); ok && project.Skills != nil {
		project.Skills = append([]model.ProjectSkill{}, project.Skills...)
	}
	return item, nil
}

// UpdateItem merges patch into the item with the given id. A missing id is a no-op.
// id, orderIndex and hidden are never changed.
func UpdateItem[T any, P model.ItemPtr[T]](s *model.Section[T], id int, patch model.Patch[T]) error {
	idx := indexOf[T, P](s.Items, id)
	if idx < 0 {
		return nil
	}
	updated := s.Items[idx]
	keep := *P(&updated).Base()
	patch.Apply(&updated)
	*P(&updated).Base() = keep
	if err := model.ValidateItem(P(&updated)); err != nil {
		return err
	}
	s.Items[idx] = updated
	return nil
}

// DeleteItem removes the item with the given id and re-ranks the survivors.
// It reports whether an item was removed.
func DeleteItem[T any, P model.ItemPtr[T]](s *model.Section[T], id int) bool {
	idx := indexOf[T, P](s.Items, id)
	if idx < 0 {
		return false
	}
	if last := model.MaxItemID[T, P](s); last > s.LastItemID {
		s.LastItemID = last
	}
	items := make([]T, 0, len(s.Items)-1)
	items = append(items, s.Items[:idx]...)
	items = append(items, s.Items[idx+1:]...)
	reindex[T, P](items)
	s.Items = items
	return true
}

// ReorderItems installs the order of seq, which must be a permutation of the
// section's current items. Only positions change; item content is taken from
// the section, not from seq.
func ReorderItems[T any, P model.ItemPtr[T]](s *model.Section[T], seq []T) error {
	ids := make([]int, len(seq))
	for i := range seq {
		ids[i] = P(&seq[i]).Base().ID
	}
	return ReorderItemsByID[T, P](s, ids)
}

// ReorderItemsByID arranges the section's items in the order of ids.
func ReorderItemsByID[T any, P model.ItemPtr[T]](s *model.Section[T], ids []int) error {
	if len(ids) != len(s.Items) {
		return &model.InvariantError{Op: "reorderItems", Reason: fmt.Sprintf("got %d ids for %d items", len(ids), len(s.Items))}
	}
	byID := make(map[int]T, len(s.Items))
	for _, item := range s.Items {
		byID[P(&item).Base().ID] = item
	}
	items := make([]T, 0, len(ids))
	seen := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			return &model.InvariantError{Op: "reorderItems", Reason: fmt.Sprintf("duplicate id %d", id)}
		}
		seen[id] = struct{}{}
		item, ok := byID[id]
		if !ok {
			return &model.InvariantError{Op: "reorderItems", Reason: fmt.Sprintf("unknown id %d", id)}
		}
		items = append(items, item)
	}
	reindex[T, P](items)
	s.Items = items
	return nil
}

// ToggleItemVisibility flips the hidden flag of one item.
// It reports whether the id was found.
func ToggleItemVisibility[T any, P model.ItemPtr[T]](s *model.Section[T], id int) bool {
	idx := indexOf[T, P](s.Items, id)
	if idx < 0 {
		return false
	}
	base := P(&s.Items[idx]).Base()
	base.Hidden = !base.Hidden
	return true
}

// ItemIDs lists the item ids in current order.
func ItemIDs[T any, P model.ItemPtr[T]](s *model.Section[T]) []int {
	ids := make([]int, len(s.Items))
	for i := range s.Items {
		ids[i] = P(&s.Items[i]).Base().ID
	}
	return ids
}

func indexOf[T any, P model.ItemPtr[T]](items []T, id int) int {
	for i := range items {
		if P(&items[i]).Base().ID == id {
			return i
		}
	}
	return -1
}

func reindex[T any, P model.ItemPtr[T]](items []T) {
	for i := range items {
		P(&items[i]).Base().OrderIndex = i + 1
	}
}
