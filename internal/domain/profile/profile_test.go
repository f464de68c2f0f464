package profile

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSkills(t *testing.T) {
	assert.Equal(t, []string{"node", "react", "css"}, ParseSkills("node, react ,  css"))
	assert.Equal(t, []string{"go"}, ParseSkills(" go ,, ,"))
	assert.Empty(t, ParseSkills(" , "))
}

func TestApply_IsPartialMerge(t *testing.T) {
	now := time.Now().UTC()
	p := New(uuid.New(), now)
	p.Status = "Developer"
	p.Skills = []string{"go"}
	p.Location = "Hanoi"

	p.Apply(Fields{Bio: StringField("x")}, now)
	p.Apply(Fields{Bio: StringField("x")}, now)
	p.Apply(Fields{Company: StringField("y")}, now)

	assert.Equal(t, "x", p.Bio)
	assert.Equal(t, "y", p.Company)
	assert.Equal(t, "Developer", p.Status)
	assert.Equal(t, "Hanoi", p.Location)
	assert.Equal(t, []string{"go"}, p.Skills)
}

func TestApply_IgnoresEmptyValues(t *testing.T) {
	now := time.Now().UTC()
	p := New(uuid.New(), now)
	p.Website = "https://example.com"

	p.Apply(Fields{Website: StringField(""), Skills: StringField("")}, now)

	assert.Equal(t, "https://example.com", p.Website)
	assert.Empty(t, p.Skills)
}

func TestApply_IsIdempotent(t *testing.T) {
	now := time.Now().UTC()
	fields := Fields{
		Status: StringField("Senior"),
		Skills: StringField("go, sql"),
		Social: map[SocialPlatform]*string{Twitter: StringField("https://twitter.com/dev")},
	}

	once := New(uuid.New(), now)
	once.Apply(fields, now)

	twice := *once
	twice.Social = map[SocialPlatform]string{}
	for k, v := range once.Social {
		twice.Social[k] = v
	}
	twice.Apply(fields, now)

	assert.Equal(t, once.Status, twice.Status)
	assert.Equal(t, once.Skills, twice.Skills)
	assert.Equal(t, once.Social, twice.Social)
}

func TestApply_MergesSocialPerKey(t *testing.T) {
	now := time.Now().UTC()
	p := New(uuid.New(), now)
	p.Social[YouTube] = "https://youtube.com/old"

	p.Apply(Fields{Social: map[SocialPlatform]*string{
		Twitter:                   StringField("https://twitter.com/new"),
		YouTube:                   StringField(""),
		SocialPlatform("myspace"): StringField("https://myspace.com/x"),
	}}, now)

	assert.Equal(t, map[SocialPlatform]string{
		YouTube: "https://youtube.com/old",
		Twitter: "https://twitter.com/new",
	}, p.Social)
}

func TestAddExperience_HeadInsertWithFreshIDs(t *testing.T) {
	p := New(uuid.New(), time.Now())

	a := p.AddExperience(ExperienceEntry{Title: "A"})
	b := p.AddExperience(ExperienceEntry{Title: "B"})

	require.Len(t, p.Experience, 2)
	assert.Equal(t, "B", p.Experience[0].Title)
	assert.Equal(t, "A", p.Experience[1].Title)
	assert.NotEqual(t, uuid.Nil, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestRemoveExperience(t *testing.T) {
	p := New(uuid.New(), time.Now())
	a := p.AddExperience(ExperienceEntry{Title: "A"})
	b := p.AddExperience(ExperienceEntry{Title: "B"})
	c := p.AddExperience(ExperienceEntry{Title: "C"})

	assert.False(t, p.RemoveExperience(uuid.New()), "unknown id is a no-op")
	require.Len(t, p.Experience, 3)

	assert.True(t, p.RemoveExperience(b.ID))
	require.Len(t, p.Experience, 2)
	assert.Equal(t, c.ID, p.Experience[0].ID)
	assert.Equal(t, a.ID, p.Experience[1].ID)
}

func TestRemoveFirst_OnlyFirstDuplicate(t *testing.T) {
	id := uuid.New()
	items := []EducationEntry{{ID: id, School: "first"}, {ID: id, School: "second"}}

	out, removed := removeFirst(items, func(e EducationEntry) bool { return e.ID == id })

	assert.True(t, removed)
	require.Len(t, out, 1)
	assert.Equal(t, "second", out[0].School)
}

func TestEducation_AddAndRemove(t *testing.T) {
	p := New(uuid.New(), time.Now())
	first := p.AddEducation(EducationEntry{School: "MIT"})
	p.AddEducation(EducationEntry{School: "Stanford"})

	assert.Equal(t, "Stanford", p.Education[0].School)
	assert.True(t, p.RemoveEducation(first.ID))
	require.Len(t, p.Education, 1)
	assert.Equal(t, "Stanford", p.Education[0].School)
}
