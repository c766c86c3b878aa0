package editor

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-editor/resume/model"
)

func orderIndexes[T any, P model.ItemPtr[T]](items []T) []int {
	out := make([]int, len(items))
	for i := range items {
		out[i] = P(&items[i]).Base().OrderIndex
	}
	return out
}

func strPtr(s string) *string { return &s }

func TestEducationAddDeleteScenario(t *testing.T) {
	doc := model.NewDocument("Backend")
	sec := &doc.EducationSection

	first, err := AddItem(sec, model.EducationItem{Degree: "BSc", School: "MIT"})
	require.NoError(t, err)
	assert.Equal(t, 1, first.ID)
	assert.Equal(t, 1, first.OrderIndex)

	second, err := AddItem(sec, model.EducationItem{Degree: "MSc"})
	require.NoError(t, err)
	assert.Equal(t, 2, second.ID)
	assert.Equal(t, 2, second.OrderIndex)

	require.True(t, DeleteItem(sec, 1))
	require.Len(t, sec.Items, 1)
	assert.Equal(t, 2, sec.Items[0].ID)
	assert.Equal(t, 1, sec.Items[0].OrderIndex)
}

func TestDeleteThenAddNeverReusesID(t *testing.T) {
	doc := model.NewDocument("Backend")
	sec := &doc.SkillSection
	for _, s := range []string{"Go", "Rust", "SQL"} {
		_, err := AddItem(sec, model.SkillItem{Skill: s})
		require.NoError(t, err)
	}

	require.True(t, DeleteItem(sec, 3))
	added, err := AddItem(sec, model.SkillItem{Skill: "Kotlin"})
	require.NoError(t, err)
	assert.Equal(t, 4, added.ID)

	require.True(t, DeleteItem(sec, 4))
	require.True(t, DeleteItem(sec, 2))
	require.True(t, DeleteItem(sec, 1))
	require.Empty(t, sec.Items)

	added, err = AddItem(sec, model.SkillItem{Skill: "Zig"})
	require.NoError(t, err)
	assert.Equal(t, 5, added.ID)
	assert.Equal(t, 1, added.OrderIndex)
}

func TestAddItemRejectsInvalidWithoutChange(t *testing.T) {
	doc := model.NewDocument("Backend")
	sec := &doc.ExperienceSection

	_, err := AddItem(sec, model.ExperienceItem{JobTitle: "Dev", StartDate: "2022-01", EndDate: "2021-01"})
	var ve *model.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "endDate", ve.Field)
	assert.Empty(t, sec.Items)
	assert.Zero(t, sec.LastItemID)
}

func TestUpdateItemMergesAndKeepsIdentity(t *testing.T) {
	doc := model.NewDocument("Backend")
	sec := &doc.ExperienceSection
	_, err := AddItem(sec, model.ExperienceItem{JobTitle: "Dev", Company: "Acme", StartDate: "2020-01"})
	require.NoError(t, err)
	_, err = AddItem(sec, model.ExperienceItem{JobTitle: "Lead", Company: "Beta"})
	require.NoError(t, err)

	err = UpdateItem[model.ExperienceItem](sec, 1, model.ExperiencePatch{Company: strPtr("Acme Corp"), EndDate: strPtr("2021-06")})
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", sec.Items[0].Company)
	assert.Equal(t, "Dev", sec.Items[0].JobTitle)
	assert.Equal(t, 1, sec.Items[0].ID)
	assert.Equal(t, 1, sec.Items[0].OrderIndex)

	err = UpdateItem[model.ExperienceItem](sec, 1, model.ExperiencePatch{JobTitle: strPtr("")})
	var ve *model.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "jobTitle", ve.Field)
	assert.Equal(t, "Dev", sec.Items[0].JobTitle)

	before := append([]model.ExperienceItem(nil), sec.Items...)
	require.NoError(t, UpdateItem[model.ExperienceItem](sec, 42, model.ExperiencePatch{Company: strPtr("Ghost")}))
	assert.Equal(t, before, sec.Items)
}

func TestReorderItemsIsPermutation(t *testing.T) {
	doc := model.NewDocument("Backend")
	sec := &doc.ProjectSection
	for _, title := range []string{"A", "B", "C", "D"} {
		_, err := AddItem(sec, model.ProjectItem{Title: title})
		require.NoError(t, err)
	}

	seq := []model.ProjectItem{sec.Items[2], sec.Items[0], sec.Items[3], sec.Items[1]}
	seq[0].Title = "ignored"
	require.NoError(t, ReorderItems(sec, seq))

	assert.Equal(t, []int{3, 1, 4, 2}, ItemIDs(sec))
	assert.Equal(t, []int{1, 2, 3, 4}, orderIndexes(sec.Items))
	assert.Equal(t, "C", sec.Items[0].Title)
}

func TestReorderItemsRejectsNonPermutation(t *testing.T) {
	doc := model.NewDocument("Backend")
	sec := &doc.SkillSection
	for _, s := range []string{"Go", "Rust", "SQL"} {
		_, err := AddItem(sec, model.SkillItem{Skill: s})
		require.NoError(t, err)
	}

	cases := map[string][]int{
		"duplicate": {1, 1, 2},
		"unknown":   {1, 2, 9},
		"short":     {1, 2},
	}
	for name, ids := range cases {
		t.Run(name, func(t *testing.T) {
			err := ReorderItemsByID(sec, ids)
			assert.ErrorIs(t, err, model.ErrInvariant)
			assert.Equal(t, []int{1, 2, 3}, ItemIDs(sec))
		})
	}
}

func TestToggleItemVisibilityTwiceRestores(t *testing.T) {
	doc := model.NewDocument("Backend")
	sec := &doc.SkillSection
	_, err := AddItem(sec, model.SkillItem{Skill: "Go"})
	require.NoError(t, err)

	require.True(t, ToggleItemVisibility(sec, 1))
	assert.True(t, sec.Items[0].Hidden)
	require.True(t, ToggleItemVisibility(sec, 1))
	assert.False(t, sec.Items[0].Hidden)
	assert.False(t, ToggleItemVisibility(sec, 7))
}

func TestRandomOperationsKeepOrderContiguous(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	doc := model.NewDocument("Backend")
	sec := &doc.EducationSection
	issued := map[int]bool{}

	for step := 0; step < 500; step++ {
		switch op := rng.Intn(4); {
		case op == 0 || len(sec.Items) == 0:
			item, err := AddItem(sec, model.EducationItem{Degree: "Deg"})
			require.NoError(t, err)
			require.False(t, issued[item.ID], "id %d reissued", item.ID)
			issued[item.ID] = true
		case op == 1:
			ids := ItemIDs(sec)
			DeleteItem(sec, ids[rng.Intn(len(ids))])
		case op == 2:
			ids := ItemIDs(sec)
			rng.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })
			before := ItemIDs(sec)
			require.NoError(t, ReorderItemsByID(sec, ids))
			after := ItemIDs(sec)
			sort.Ints(before)
			sort.Ints(after)
			require.Equal(t, before, after)
		default:
			ids := ItemIDs(sec)
			ToggleItemVisibility(sec, ids[rng.Intn(len(ids))])
		}
		require.NoError(t, model.CheckOrder(sec.Items), "step %d", step)
	}
}

func TestReorderSectionsMovesSkillToRankTwo(t *testing.T) {
	doc := model.NewDocument("Backend")
	doc.EducationSection.OrderIndex = 7

	keys := []model.SectionKey{model.KeySummary, model.KeySkill, model.KeyEducation, model.KeyExperience, model.KeyProject}
	require.NoError(t, ReorderSections(&doc, keys))

	assert.Equal(t, map[model.SectionKey]int{
		model.KeySummary:    1,
		model.KeySkill:      2,
		model.KeyEducation:  3,
		model.KeyExperience: 4,
		model.KeyProject:    5,
	}, doc.SectionsOrder)
	assert.Equal(t, 7, doc.EducationSection.OrderIndex)
}

func TestReorderSectionsRejectsBadKeys(t *testing.T) {
	doc := model.NewDocument("Backend")
	bad := [][]model.SectionKey{
		{model.KeySummary, model.KeySkill},
		{model.KeySummary, model.KeySkill, model.KeySkill, model.KeyExperience, model.KeyProject},
		{model.KeyPersonalDetails, model.KeySkill, model.KeyEducation, model.KeyExperience, model.KeyProject},
	}
	for _, keys := range bad {
		assert.ErrorIs(t, ReorderSections(&doc, keys), model.ErrInvariant)
	}
	assert.Equal(t, 5, doc.SectionsOrder[model.KeySkill])
}

func TestToggleSectionVisibilitySpecialCases(t *testing.T) {
	doc := model.NewDocument("Backend")
	require.NoError(t, ToggleSectionVisibility(&doc, model.KeyPersonalDetails))
	require.NoError(t, ToggleSectionVisibility(&doc, model.KeySummary))
	require.NoError(t, ToggleSectionVisibility(&doc, model.KeyProject))

	assert.True(t, doc.PersonalDetails.Hidden)
	assert.True(t, doc.SummarySection.Hidden)
	assert.True(t, doc.ProjectSection.Hidden)
	assert.False(t, doc.SkillSection.Hidden)
	assert.ErrorIs(t, ToggleSectionVisibility(&doc, "hobbies"), model.ErrValidation)
}

func TestSectionTitleAndSummaryUpdates(t *testing.T) {
	doc := model.NewDocument("Backend")
	require.NoError(t, UpdateSectionTitle(&doc, model.KeySkill, " Toolbox "))
	assert.Equal(t, "Toolbox", doc.SkillSection.SectionTitle)
	assert.ErrorIs(t, UpdateSectionTitle(&doc, model.KeySkill, " "), model.ErrValidation)
	assert.Equal(t, "Toolbox", doc.SkillSection.SectionTitle)

	UpdateSummary(&doc, "Ten years of Go.")
	require.NoError(t, UpdateSummaryTitle(&doc, "Profile"))
	assert.Equal(t, "Ten years of Go.", doc.SummarySection.Summary)
	assert.Equal(t, "Profile", doc.SummarySection.SectionTitle)

	UpdatePersonalDetails(&doc, model.PersonalDetailsPatch{FullName: strPtr("Ada Lovelace")})
	UpdatePersonalDetails(&doc, model.PersonalDetailsPatch{City: strPtr("London")})
	assert.Equal(t, "Ada Lovelace", doc.PersonalDetails.FullName)
	assert.Equal(t, "London", doc.PersonalDetails.City)
}

func TestRemoveProjectSkillKeepsProjectIdentity(t *testing.T) {
	doc := model.NewDocument("Backend")
	sec := &doc.ProjectSection
	_, err := AddItem(sec, model.ProjectItem{Title: "Other"})
	require.NoError(t, err)
	project, err := AddItem(sec, model.ProjectItem{Title: "CLI"})
	require.NoError(t, err)

	goID, err := AddProjectSkill(sec, project.ID, "Go")
	require.NoError(t, err)
	rustID, err := AddProjectSkill(sec, project.ID, "Rust")
	require.NoError(t, err)
	assert.Equal(t, 1, goID)
	assert.Equal(t, 2, rustID)

	require.True(t, RemoveProjectSkill(sec, project.ID, 1))
	assert.Equal(t, []model.ProjectSkill{{ID: 2, Skill: "Rust"}}, sec.Items[1].Skills)
	assert.Equal(t, 2, sec.Items[1].ID)
	assert.Equal(t, 2, sec.Items[1].OrderIndex)

	again, err := AddProjectSkill(sec, project.ID, "Zig")
	require.NoError(t, err)
	assert.Equal(t, 3, again)

	missing, err := AddProjectSkill(sec, 99, "Go")
	require.NoError(t, err)
	assert.Zero(t, missing)
	_, err = AddProjectSkill(sec, project.ID, "  ")
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestAddProjectIssuesInlineSkillIDs(t *testing.T) {
	doc := model.NewDocument("Backend")
	sec := &doc.ProjectSection

	project, err := AddItem(sec, model.ProjectItem{
		Title:  "CLI",
		Skills: []model.ProjectSkill{{Skill: "Go"}, {ID: 7, Skill: " Rust "}},
	})
	require.NoError(t, err)
	assert.Equal(t, []model.ProjectSkill{{ID: 1, Skill: "Go"}, {ID: 2, Skill: "Rust"}}, sec.Items[0].Skills)
	assert.Equal(t, 2, sec.Items[0].LastSkillID)
	require.NoError(t, doc.Validate())

	next, err := AddProjectSkill(sec, project.ID, "Zig")
	require.NoError(t, err)
	assert.Equal(t, 3, next)

	_, err = AddItem(sec, model.ProjectItem{Title: "Blank", Skills: []model.ProjectSkill{{Skill: "Go"}, {Skill: "  "}}})
	assert.ErrorIs(t, err, model.ErrValidation)
	assert.Len(t, sec.Items, 1)
}

func TestAddItemReturnsDetachedCopy(t *testing.T) {
	doc := model.NewDocument("Backend")
	sec := &doc.ProjectSection

	project, err := AddItem(sec, model.ProjectItem{Title: "CLI", Skills: []model.ProjectSkill{{Skill: "Go"}}})
	require.NoError(t, err)
	project.Skills[0].Skill = "Changed"
	project.Title = "Changed"

	assert.Equal(t, "Go", sec.Items[0].Skills[0].Skill)
	assert.Equal(t, "CLI", sec.Items[0].Title)
}
