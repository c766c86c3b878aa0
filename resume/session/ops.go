package session

import (
	"resume-editor/resume/editor"
	"resume-editor/resume/model"
	"resume-editor/resume/ordering"
)

// AddItem appends entry to the section of its kind and returns the new item id.
func (s *Store) AddItem(entry model.Entry) (int, error) {
	var id int
	err := s.mutate("addItem", func(d *model.Document) error {
		var err error
		switch entry.Kind {
		case model.KindEducation:
			id, err = addEntry(&d.EducationSection, entry.Education)
		case model.KindExperience:
			id, err = addEntry(&d.ExperienceSection, entry.Experience)
		case model.KindProject:
			id, err = addEntry(&d.ProjectSection, entry.Project)
		case model.KindSkill:
			id, err = addEntry(&d.SkillSection, entry.Skill)
		default:
			err = unknownKind(entry.Kind)
		}
		return err
	})
	return id, err
}

func addEntry[T any, P model.ItemPtr[T]](sec *model.Section[T], item *T) (int, error) {
	if item == nil {
		var zero T
		return 0, &model.ValidationError{Field: string(P(&zero).Kind()), Message: "payload is required"}
	}
	stored, err := editor.AddItem[T, P](sec, *item)
	if err != nil {
		return 0, err
	}
	return P(&stored).Base().ID, nil
}

// UpdateItem merges patch into the item with the given id. A missing id is a
// silent no-op and commits nothing.
func (s *Store) UpdateItem(id int, patch model.ItemPatch) error {
	_, err := s.mutateIf("updateItem", func(d *model.Document) (bool, error) {
		switch patch.Kind {
		case model.KindEducation:
			return updateEntry[model.EducationItem](&d.EducationSection, id, patch.Education)
		case model.KindExperience:
			return updateEntry[model.ExperienceItem](&d.ExperienceSection, id, patch.Experience)
		case model.KindProject:
			return updateEntry[model.ProjectItem](&d.ProjectSection, id, patch.Project)
		case model.KindSkill:
			return updateEntry[model.SkillItem](&d.SkillSection, id, patch.Skill)
		}
		return false, unknownKind(patch.Kind)
	})
	return err
}

func updateEntry[T any, P model.ItemPtr[T], Q model.Patch[T]](sec *model.Section[T], id int, patch *Q) (bool, error) {
	if patch == nil || !hasItem[T, P](sec, id) {
		return false, nil
	}
	if err := editor.UpdateItem[T, P](sec, id, *patch); err != nil {
		return false, err
	}
	return true, nil
}

// DeleteItem removes an item. It reports whether the item existed.
func (s *Store) DeleteItem(kind model.Kind, id int) (bool, error) {
	return s.mutateIf("deleteItem", func(d *model.Document) (bool, error) {
		switch kind {
		case model.KindEducation:
			return editor.DeleteItem(&d.EducationSection, id), nil
		case model.KindExperience:
			return editor.DeleteItem(&d.ExperienceSection, id), nil
		case model.KindProject:
			return editor.DeleteItem(&d.ProjectSection, id), nil
		case model.KindSkill:
			return editor.DeleteItem(&d.SkillSection, id), nil
		}
		return false, unknownKind(kind)
	})
}

// ReorderItems installs a new item order given as the full id sequence.
func (s *Store) ReorderItems(kind model.Kind, ids []int) error {
	return s.mutate("reorderItems", func(d *model.Document) error {
		switch kind {
		case model.KindEducation:
			return editor.ReorderItemsByID(&d.EducationSection, ids)
		case model.KindExperience:
			return editor.ReorderItemsByID(&d.ExperienceSection, ids)
		case model.KindProject:
			return editor.ReorderItemsByID(&d.ProjectSection, ids)
		case model.KindSkill:
			return editor.ReorderItemsByID(&d.SkillSection, ids)
		}
		return unknownKind(kind)
	})
}

// MoveItem drops the item with the given id at toIndex (0-based).
func (s *Store) MoveItem(kind model.Kind, id, toIndex int) error {
	_, err := s.mutateIf("moveItem", func(d *model.Document) (bool, error) {
		switch kind {
		case model.KindEducation:
			return moveEntry(&d.EducationSection, id, toIndex)
		case model.KindExperience:
			return moveEntry(&d.ExperienceSection, id, toIndex)
		case model.KindProject:
			return moveEntry(&d.ProjectSection, id, toIndex)
		case model.KindSkill:
			return moveEntry(&d.SkillSection, id, toIndex)
		}
		return false, unknownKind(kind)
	})
	return err
}

func moveEntry[T any, P model.ItemPtr[T]](sec *model.Section[T], id, toIndex int) (bool, error) {
	if !hasItem[T, P](sec, id) {
		return false, ErrItemNotFound
	}
	if err := ordering.MoveItem[T, P](sec, id, toIndex); err != nil {
		return false, err
	}
	return true, nil
}

// ToggleItemVisibility flips one item's hidden flag.
func (s *Store) ToggleItemVisibility(kind model.Kind, id int) error {
	found, err := s.mutateIf("toggleItemVisibility", func(d *model.Document) (bool, error) {
		switch kind {
		case model.KindEducation:
			return editor.ToggleItemVisibility(&d.EducationSection, id), nil
		case model.KindExperience:
			return editor.ToggleItemVisibility(&d.ExperienceSection, id), nil
		case model.KindProject:
			return editor.ToggleItemVisibility(&d.ProjectSection, id), nil
		case model.KindSkill:
			return editor.ToggleItemVisibility(&d.SkillSection, id), nil
		}
		return false, unknownKind(kind)
	})
	if err == nil && !found {
		return ErrItemNotFound
	}
	return err
}

// ToggleSectionVisibility flips a section's hidden flag.
func (s *Store) ToggleSectionVisibility(key model.SectionKey) error {
	return s.mutate("toggleSectionVisibility", func(d *model.Document) error {
		return editor.ToggleSectionVisibility(d, key)
	})
}

// ReorderSections installs a new section order given as the full key sequence.
func (s *Store) ReorderSections(keys []model.SectionKey) error {
	return s.mutate("reorderSections", func(d *model.Document) error {
		return editor.ReorderSections(d, keys)
	})
}

// MoveSection moves key before or after target in the rendered order.
func (s *Store) MoveSection(key, target model.SectionKey, placement ordering.Placement) error {
	return s.mutate("moveSection", func(d *model.Document) error {
		return ordering.MoveSection(d, key, target, placement)
	})
}

// UpdateSectionTitle renames a section.
func (s *Store) UpdateSectionTitle(key model.SectionKey, title string) error {
	return s.mutate("updateSectionTitle", func(d *model.Document) error {
		return editor.UpdateSectionTitle(d, key, title)
	})
}

// UpdatePersonalDetails merges patch into the contact block.
func (s *Store) UpdatePersonalDetails(patch model.PersonalDetailsPatch) error {
	return s.mutate("updatePersonalDetails", func(d *model.Document) error {
		editor.UpdatePersonalDetails(d, patch)
		return nil
	})
}

// UpdateSummary replaces the summary text.
func (s *Store) UpdateSummary(text string) error {
	return s.mutate("updateSummary", func(d *model.Document) error {
		editor.UpdateSummary(d, text)
		return nil
	})
}

// UpdateSummaryTitle renames the summary block.
func (s *Store) UpdateSummaryTitle(title string) error {
	return s.mutate("updateSummaryTitle", func(d *model.Document) error {
		return editor.UpdateSummaryTitle(d, title)
	})
}

// UpdateTitle renames the document.
func (s *Store) UpdateTitle(title string) error {
	return s.mutate("updateTitle", func(d *model.Document) error {
		return editor.UpdateTitle(d, title)
	})
}

// AddProjectSkill tags a project and returns the new tag id.
func (s *Store) AddProjectSkill(projectID int, skill string) (int, error) {
	var id int
	err := s.mutate("addProjectSkill", func(d *model.Document) error {
		var err error
		id, err = editor.AddProjectSkill(&d.ProjectSection, projectID, skill)
		if err == nil && id == 0 {
			return ErrItemNotFound
		}
		return err
	})
	return id, err
}

// RemoveProjectSkill drops a tag from a project.
func (s *Store) RemoveProjectSkill(projectID, skillID int) error {
	removed, err := s.mutateIf("removeProjectSkill", func(d *model.Document) (bool, error) {
		return editor.RemoveProjectSkill(&d.ProjectSection, projectID, skillID), nil
	})
	if err == nil && !removed {
		return ErrItemNotFound
	}
	return err
}

func hasItem[T any, P model.ItemPtr[T]](sec *model.Section[T], id int) bool {
	for i := range sec.Items {
		if P(&sec.Items[i]).Base().ID == id {
			return true
		}
	}
	return false
}
