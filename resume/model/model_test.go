package model

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateItemRequiresTitleField(t *testing.T) {
	err := ValidateItem(&EducationItem{Degree: "  "})

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "degree", ve.Field)
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestValidateItemDates(t *testing.T) {
	cases := []struct {
		name  string
		item  ExperienceItem
		field string
	}{
		{name: "valid month range", item: ExperienceItem{JobTitle: "Dev", StartDate: "2019-01", EndDate: "2021-06"}},
		{name: "present ignores end", item: ExperienceItem{JobTitle: "Dev", StartDate: "2021-01", EndDate: "2019-01", Present: true}},
		{name: "day and month compare by month", item: ExperienceItem{JobTitle: "Dev", StartDate: "2020-05-14", EndDate: "2020-05"}},
		{name: "bad format", item: ExperienceItem{JobTitle: "Dev", StartDate: "May 2020"}, field: "startDate"},
		{name: "bad month", item: ExperienceItem{JobTitle: "Dev", EndDate: "2020-13"}, field: "endDate"},
		{name: "end before start", item: ExperienceItem{JobTitle: "Dev", StartDate: "2021-01", EndDate: "2020-12"}, field: "endDate"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateItem(&tc.item)
			if tc.field == "" {
				require.NoError(t, err)
				return
			}
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tc.field, ve.Field)
		})
	}
}

func TestValidateItemSkillLevelAndTags(t *testing.T) {
	err := ValidateItem(&SkillItem{Skill: "Go", Level: "GURU"})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "level", ve.Field)

	err = ValidateItem(&ProjectItem{Title: "CLI", Skills: []ProjectSkill{{ID: 1, Skill: ""}}})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "skills[0].skill", ve.Field)
}

func TestSectionSequenceUsesOrderMapThenFallback(t *testing.T) {
	doc := NewDocument("Backend")
	assert.Equal(t, []SectionKey{KeySummary, KeyEducation, KeyExperience, KeyProject, KeySkill}, doc.SectionSequence())

	doc.SectionsOrder = map[SectionKey]int{KeySkill: 1}
	doc.SummarySection.OrderIndex = 3
	doc.EducationSection.OrderIndex = 3
	doc.ExperienceSection.OrderIndex = 2
	doc.ProjectSection.OrderIndex = 9

	// skill=1 from the map, experience=2, summary and education tie at 3 and keep registration order.
	assert.Equal(t, []SectionKey{KeySkill, KeyExperience, KeySummary, KeyEducation, KeyProject}, doc.SectionSequence())
}

func TestCloneIsDeep(t *testing.T) {
	doc := NewDocument("Backend")
	jobID := "job-1"
	doc.JobID = &jobID
	doc.ProjectSection.Items = append(doc.ProjectSection.Items, ProjectItem{
		BaseItem: BaseItem{ID: 1, OrderIndex: 1},
		Title:    "CLI",
		Skills:   []ProjectSkill{{ID: 1, Skill: "Go"}},
	})

	cp := doc.Clone()
	cp.ProjectSection.Items[0].Skills[0].Skill = "Rust"
	cp.ProjectSection.Items[0].Title = "Other"
	cp.SectionsOrder[KeySkill] = 99
	*cp.JobID = "job-2"

	assert.Equal(t, "Go", doc.ProjectSection.Items[0].Skills[0].Skill)
	assert.Equal(t, "CLI", doc.ProjectSection.Items[0].Title)
	assert.Equal(t, 5, doc.SectionsOrder[KeySkill])
	assert.Equal(t, "job-1", *doc.JobID)
}

func TestDocumentValidate(t *testing.T) {
	doc := NewDocument("Backend")
	require.NoError(t, doc.Validate())

	doc.EducationSection.Items = []EducationItem{
		{BaseItem: BaseItem{ID: 1, OrderIndex: 1}, Degree: "BSc"},
		{BaseItem: BaseItem{ID: 2, OrderIndex: 3}, Degree: "MSc"},
	}
	err := doc.Validate()
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "educationSection.items", ve.Field)

	doc.EducationSection.Items[1].OrderIndex = 2
	doc.EducationSection.Items[1].Degree = ""
	require.ErrorAs(t, doc.Validate(), &ve)
	assert.Equal(t, "educationSection.items[1].degree", ve.Field)

	doc.EducationSection.Items[1].Degree = "MSc"
	doc.SectionsOrder["hobbies"] = 6
	require.ErrorAs(t, doc.Validate(), &ve)
	assert.Equal(t, "sectionsOrder", ve.Field)
}

func TestSectionsOrderMustRankEverySectionOnce(t *testing.T) {
	doc := NewDocument("Backend")
	doc.SectionsOrder[KeySkill] = doc.SectionsOrder[KeySummary]
	err := doc.Validate()
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Message, "already used")

	doc = NewDocument("Backend")
	delete(doc.SectionsOrder, KeyProject)
	require.ErrorAs(t, doc.Validate(), &ve)
	assert.Equal(t, "sectionsOrder.project", ve.Field)
}

func TestNormalizeFillsMissingSectionRanks(t *testing.T) {
	doc := NewDocument("Backend")
	doc.SectionsOrder = map[SectionKey]int{KeySkill: 1, KeySummary: 2}
	doc.Normalize()

	assert.Equal(t, map[SectionKey]int{
		KeySkill:      1,
		KeySummary:    2,
		KeyEducation:  3,
		KeyExperience: 4,
		KeyProject:    5,
	}, doc.SectionsOrder)
	require.NoError(t, doc.Validate())
}

func TestCheckOrderRejectsDuplicateIDs(t *testing.T) {
	items := []SkillItem{
		{BaseItem: BaseItem{ID: 1, OrderIndex: 1}, Skill: "Go"},
		{BaseItem: BaseItem{ID: 1, OrderIndex: 2}, Skill: "Rust"},
	}
	err := CheckOrder(items)
	assert.ErrorIs(t, err, ErrInvariant)
}

func TestDocumentJSONUsesWireNames(t *testing.T) {
	doc := NewDocument("Backend")
	raw, err := json.Marshal(doc)
	require.NoError(t, err)

	var fields map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &fields))
	for _, key := range []string{"id", "title", "personalDetails", "summarySection", "educationSection", "experienceSection", "projectSection", "skillSection", "sectionsOrder", "createdAt", "updatedAt"} {
		assert.Contains(t, fields, key)
	}
	assert.NotContains(t, fields, "jobId")
	assert.JSONEq(t, `{"summary":1,"education":2,"experience":3,"project":4,"skill":5}`, string(fields["sectionsOrder"]))
}

func TestDecodeEntryAndPatch(t *testing.T) {
	entry, err := DecodeEntry(KindSkill, []byte(`{"skill":"Go","level":"EXPERT"}`))
	require.NoError(t, err)
	require.NotNil(t, entry.Skill)
	assert.Equal(t, LevelExpert, entry.Skill.Level)
	assert.Equal(t, KindSkill, entry.Item().Kind())

	patch, err := DecodePatch(KindExperience, []byte(`{"company":"Acme"}`))
	require.NoError(t, err)
	item := ExperienceItem{JobTitle: "Dev", Company: "Old", City: "Oslo"}
	patch.Experience.Apply(&item)
	assert.Equal(t, "Acme", item.Company)
	assert.Equal(t, "Oslo", item.City)

	_, err = DecodeEntry("hobby", []byte(`{}`))
	assert.ErrorIs(t, err, ErrValidation)
}
