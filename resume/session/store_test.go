package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-editor/resume/model"
	"resume-editor/resume/ordering"
)

func newStore() *Store {
	doc := model.NewDocument("Backend")
	doc.ID = "doc-1"
	return New(doc)
}

func skillEntry(name string) model.Entry {
	return model.Entry{Kind: model.KindSkill, Skill: &model.SkillItem{Skill: name}}
}

func TestCommittedMutationsBumpVersionAndNotify(t *testing.T) {
	s := newStore()
	var changes []Change
	s.Subscribe(func(c Change) { changes = append(changes, c) })

	id, err := s.AddItem(skillEntry("Go"))
	require.NoError(t, err)
	assert.Equal(t, 1, id)
	require.NoError(t, s.ToggleSectionVisibility(model.KeySummary))

	assert.Equal(t, uint64(3), s.Version())
	require.Len(t, changes, 2)
	assert.Equal(t, Change{Op: "addItem", Version: 2}, changes[0])
	assert.Equal(t, "toggleSectionVisibility", changes[1].Op)
}

func TestFailedMutationLeavesDocumentUntouched(t *testing.T) {
	s := newStore()
	notified := 0
	s.Subscribe(func(Change) { notified++ })
	_, err := s.AddItem(skillEntry("Go"))
	require.NoError(t, err)
	before, version := s.Snapshot()

	_, err = s.AddItem(model.Entry{Kind: model.KindExperience, Experience: &model.ExperienceItem{JobTitle: "Dev", StartDate: "2021-01", EndDate: "2020-01"}})
	assert.ErrorIs(t, err, model.ErrValidation)
	assert.ErrorIs(t, s.ReorderItems(model.KindSkill, []int{1, 1}), model.ErrInvariant)
	assert.ErrorIs(t, s.UpdateSectionTitle(model.KeySkill, ""), model.ErrValidation)

	after, afterVersion := s.Snapshot()
	assert.Equal(t, before, after)
	assert.Equal(t, version, afterVersion)
	assert.Equal(t, 1, notified)
}

func TestUpdateItemMissingIDIsSilentNoop(t *testing.T) {
	s := newStore()
	_, err := s.AddItem(skillEntry("Go"))
	require.NoError(t, err)
	version := s.Version()

	level := model.LevelExpert
	require.NoError(t, s.UpdateItem(9, model.ItemPatch{Kind: model.KindSkill, Skill: &model.SkillPatch{Level: &level}}))
	assert.Equal(t, version, s.Version())

	require.NoError(t, s.UpdateItem(1, model.ItemPatch{Kind: model.KindSkill, Skill: &model.SkillPatch{Level: &level}}))
	doc, _ := s.Snapshot()
	assert.Equal(t, model.LevelExpert, doc.SkillSection.Items[0].Level)
	assert.Equal(t, version+1, s.Version())
}

func TestSnapshotIsIsolated(t *testing.T) {
	s := newStore()
	_, err := s.AddItem(model.Entry{Kind: model.KindProject, Project: &model.ProjectItem{Title: "CLI"}})
	require.NoError(t, err)
	_, err = s.AddProjectSkill(1, "Go")
	require.NoError(t, err)

	snap, _ := s.Snapshot()
	snap.ProjectSection.Items[0].Skills[0].Skill = "mutated"
	snap.SectionsOrder[model.KeySkill] = 42

	again, _ := s.Snapshot()
	assert.Equal(t, "Go", again.ProjectSection.Items[0].Skills[0].Skill)
	assert.Equal(t, 5, again.SectionsOrder[model.KeySkill])
}

func TestMoveOperations(t *testing.T) {
	s := newStore()
	for _, name := range []string{"Go", "Rust", "SQL"} {
		_, err := s.AddItem(skillEntry(name))
		require.NoError(t, err)
	}

	require.NoError(t, s.MoveItem(model.KindSkill, 3, 0))
	require.NoError(t, s.MoveSection(model.KeySkill, model.KeySummary, ordering.Before))
	assert.ErrorIs(t, s.MoveItem(model.KindSkill, 9, 0), ErrItemNotFound)

	doc, _ := s.Snapshot()
	assert.Equal(t, "SQL", doc.SkillSection.Items[0].Skill)
	require.NoError(t, model.CheckOrder(doc.SkillSection.Items))
	assert.Equal(t, []model.SectionKey{model.KeySkill, model.KeySummary, model.KeyEducation, model.KeyExperience, model.KeyProject}, doc.SectionSequence())
}

func TestDeleteAndToggleReportMissingItems(t *testing.T) {
	s := newStore()
	_, err := s.AddItem(skillEntry("Go"))
	require.NoError(t, err)

	removed, err := s.DeleteItem(model.KindSkill, 5)
	require.NoError(t, err)
	assert.False(t, removed)
	assert.ErrorIs(t, s.ToggleItemVisibility(model.KindSkill, 5), ErrItemNotFound)
	assert.ErrorIs(t, s.RemoveProjectSkill(1, 1), ErrItemNotFound)
	_, err = s.AddProjectSkill(1, "Go")
	assert.ErrorIs(t, err, ErrItemNotFound)

	removed, err = s.DeleteItem(model.KindSkill, 1)
	require.NoError(t, err)
	assert.True(t, removed)
	_, err = s.DeleteItem("hobby", 1)
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestProjectSkillScenario(t *testing.T) {
	s := newStore()
	_, err := s.AddItem(model.Entry{Kind: model.KindProject, Project: &model.ProjectItem{Title: "CLI"}})
	require.NoError(t, err)
	_, err = s.AddProjectSkill(1, "Go")
	require.NoError(t, err)
	_, err = s.AddProjectSkill(1, "Rust")
	require.NoError(t, err)

	require.NoError(t, s.RemoveProjectSkill(1, 1))

	doc, _ := s.Snapshot()
	assert.Equal(t, []model.ProjectSkill{{ID: 2, Skill: "Rust"}}, doc.ProjectSection.Items[0].Skills)
	assert.Equal(t, 1, doc.ProjectSection.Items[0].ID)
	assert.Equal(t, 1, doc.ProjectSection.Items[0].OrderIndex)
}

func TestApplySavedDoesNotBumpVersion(t *testing.T) {
	s := newStore()
	version := s.Version()
	saved, _ := s.Snapshot()
	saved.UpdatedAt = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	s.ApplySaved(saved)
	assert.Equal(t, version, s.Version())
	assert.Equal(t, saved.UpdatedAt, s.UpdatedAt())

	other := saved
	other.ID = "doc-2"
	other.UpdatedAt = time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	s.ApplySaved(other)
	assert.Equal(t, saved.UpdatedAt, s.UpdatedAt())
}

func TestReplaceSwapsDocument(t *testing.T) {
	s := newStore()
	next := model.NewDocument("Other")
	next.ID = "doc-2"
	s.Replace(next)
	assert.Equal(t, "doc-2", s.ID())
	assert.Equal(t, uint64(2), s.Version())
}

func TestAddProjectWithInlineSkillsStaysValid(t *testing.T) {
	s := newStore()
	entry, err := model.DecodeEntry(model.KindProject, []byte(`{"title":"CLI","skills":[{"skill":"Go"},{"skill":"Rust"}]}`))
	require.NoError(t, err)
	id, err := s.AddItem(entry)
	require.NoError(t, err)

	doc, _ := s.Snapshot()
	require.NoError(t, doc.Validate())
	assert.Equal(t, []model.ProjectSkill{{ID: 1, Skill: "Go"}, {ID: 2, Skill: "Rust"}}, doc.ProjectSection.Items[0].Skills)

	tagID, err := s.AddProjectSkill(id, "Zig")
	require.NoError(t, err)
	assert.Equal(t, 3, tagID)
}
