package state

import (
	"fmt"
	"math/rand"
	"testing"

	"cv-builder/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func acmeExperience() domain.Experience {
	return domain.Experience{
		ID:        "e1",
		Company:   "Acme",
		Position:  "Engineer",
		StartDate: "2020-01",
		EndDate:   "",
		Current:   true,
	}
}

func TestExperienceLifecycle(t *testing.T) {
	s := domain.EmptyState()

	s = Apply(s, AddExperience{Item: acmeExperience()})
	require.Len(t, s.Data.Experience, 1)
	assert.Equal(t, acmeExperience(), s.Data.Experience[0])

	s = Apply(s, UpdateExperience{ID: "e1", Patch: ExperiencePatch{
		Current: Ptr(false),
		EndDate: Ptr("2021-06"),
	}})
	require.Len(t, s.Data.Experience, 1)
	want := acmeExperience()
	want.Current = false
	want.EndDate = "2021-06"
	assert.Equal(t, want, s.Data.Experience[0])

	s = Apply(s, DeleteExperience{ID: "e1"})
	assert.Empty(t, s.Data.Experience)
	assert.NotNil(t, s.Data.Experience)
}

func TestUpdateMissingIDIsNoop(t *testing.T) {
	s := domain.ExampleState()
	before := s.Clone()

	tests := []Action{
		UpdateEducation{ID: "missing", Patch: EducationPatch{Degree: Ptr("x")}},
		UpdateExperience{ID: "missing", Patch: ExperiencePatch{Company: Ptr("x")}},
		UpdateSkill{ID: "missing", Patch: SkillPatch{Name: Ptr("x")}},
		UpdateLanguage{ID: "missing", Patch: LanguagePatch{Name: Ptr("x")}},
		UpdateCertification{ID: "missing", Patch: CertificationPatch{Name: Ptr("x")}},
	}
	for _, a := range tests {
		t.Run(a.Type(), func(t *testing.T) {
			assert.Equal(t, before, Apply(s, a))
		})
	}
}

func TestDeleteMissingIDIsNoop(t *testing.T) {
	s := domain.ExampleState()
	before := s.Clone()

	tests := []Action{
		DeleteEducation{ID: "missing"},
		DeleteExperience{ID: "missing"},
		DeleteSkill{ID: "missing"},
		DeleteLanguage{ID: "missing"},
		DeleteCertification{ID: "missing"},
	}
	for _, a := range tests {
		t.Run(a.Type(), func(t *testing.T) {
			assert.Equal(t, before, Apply(s, a))
		})
	}
}

func TestUpdateIsIdempotent(t *testing.T) {
	s := domain.ExampleState()
	a := UpdateSkill{ID: "skill3", Patch: SkillPatch{
		Level: Ptr(domain.SkillExpert),
		Name:  Ptr("Next.js 14"),
	}}

	once := Apply(s, a)
	twice := Apply(once, a)
	assert.Equal(t, once, twice)
	assert.Equal(t, "Next.js 14", once.Data.Skills[2].Name)
	assert.Equal(t, domain.CategoryTechnical, once.Data.Skills[2].Category)
}

func TestUpdatePreservesOrder(t *testing.T) {
	s := domain.ExampleState()
	s = Apply(s, UpdateLanguage{ID: "lang2", Patch: LanguagePatch{Level: Ptr(domain.LanguageNative)}})

	ids := []string{}
	for _, l := range s.Data.Languages {
		ids = append(ids, l.ID)
	}
	assert.Equal(t, []string{"lang1", "lang2", "lang3"}, ids)
	assert.Equal(t, domain.LanguageNative, s.Data.Languages[1].Level)
}

func TestClearAllDataAlwaysYieldsEmptyState(t *testing.T) {
	loaded := domain.ExampleState()
	loaded.Data.PersonalInfo.FullName = "Somebody Else"
	loaded.Settings.Template = domain.TemplateCreative

	starts := map[string]domain.AppState{
		"empty":       domain.EmptyState(),
		"example":     domain.ExampleState(),
		"after load":  Apply(domain.EmptyState(), LoadData{State: loaded}),
		"zero value":  {},
		"after clear": Apply(domain.ExampleState(), ClearAllData{}),
	}
	for name, s := range starts {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, domain.EmptyState(), Apply(s, ClearAllData{}))
		})
	}
}

func TestUpdateSettingsChangesOnlyGivenKeys(t *testing.T) {
	s := domain.EmptyState()
	before := s.Settings

	s = Apply(s, UpdateSettings{Patch: SettingsPatch{Template: Ptr(domain.TemplateClassic)}})

	assert.Equal(t, domain.TemplateClassic, s.Settings.Template)
	assert.Equal(t, before.PrimaryColor, s.Settings.PrimaryColor)
	assert.Equal(t, before.Font, s.Settings.Font)
	assert.Equal(t, before.SectionOrder, s.Settings.SectionOrder)
}

func TestUpdateSettingsSectionOrderIsCopied(t *testing.T) {
	order := []string{"skills", "experience"}
	s := Apply(domain.EmptyState(), UpdateSettings{Patch: SettingsPatch{SectionOrder: &order}})
	order[0] = "changed"

	assert.Equal(t, []string{"skills", "experience"}, s.Settings.SectionOrder)
}

func TestUpdatePersonalInfoMergesShallow(t *testing.T) {
	s := domain.ExampleState()
	s = Apply(s, UpdatePersonalInfo{Patch: PersonalInfoPatch{Phone: Ptr(""), Email: Ptr("new@example.com")}})

	assert.Equal(t, "new@example.com", s.Data.PersonalInfo.Email)
	assert.Empty(t, s.Data.PersonalInfo.Phone)
	assert.Equal(t, "María García López", s.Data.PersonalInfo.FullName)
}

func TestCurrentWithEndDateIsStoredAsSent(t *testing.T) {
	s := Apply(domain.EmptyState(), AddEducation{Item: domain.Education{
		ID:        "ed1",
		StartDate: "2019-09",
		EndDate:   "2023-06",
		Current:   true,
	}})

	assert.True(t, s.Data.Education[0].Current)
	assert.Equal(t, "2023-06", s.Data.Education[0].EndDate)
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	s := domain.ExampleState()
	before := s.Clone()

	actions := []Action{
		AddSkill{Item: domain.Skill{ID: "new", Name: "Go"}},
		UpdateSkill{ID: "skill1", Patch: SkillPatch{Name: Ptr("Preact")}},
		DeleteSkill{ID: "skill2"},
		UpdateSettings{Patch: SettingsPatch{SectionOrder: &[]string{"skills"}}},
		UpdatePersonalInfo{Patch: PersonalInfoPatch{FullName: Ptr("X")}},
		ClearAllData{},
	}
	for _, a := range actions {
		next := Apply(s, a)
		assert.NotEqual(t, before, next, a.Type())
		assert.Equal(t, before, s, a.Type())
	}
}

func TestAddCopiesIntoNewSlice(t *testing.T) {
	base := make([]domain.Skill, 1, 8)
	base[0] = domain.Skill{ID: "a"}
	s := domain.EmptyState()
	s.Data.Skills = base

	first := Apply(s, AddSkill{Item: domain.Skill{ID: "b"}})
	second := Apply(s, AddSkill{Item: domain.Skill{ID: "c"}})

	assert.Equal(t, "b", first.Data.Skills[1].ID)
	assert.Equal(t, "c", second.Data.Skills[1].ID)
}

func TestLoadDataDeepCopies(t *testing.T) {
	in := domain.ExampleState()
	s := Apply(domain.EmptyState(), LoadData{State: in})
	in.Data.Skills[0].Name = "mutated"

	assert.Equal(t, "React", s.Data.Skills[0].Name)
}

func TestUnknownActionIsNoop(t *testing.T) {
	s := domain.ExampleState()
	assert.Equal(t, s, Apply(s, Unknown{Kind: "UNDO"}))
}

// Random sequences over one list never produce duplicate ids and never change
// the id of a surviving item.
func TestRandomSequencesKeepIDsUnique(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for run := 0; run < 50; run++ {
		s := domain.EmptyState()
		created := map[string]string{}
		next := 0

		for step := 0; step < 200; step++ {
			var a Action
			switch op := rng.Intn(3); {
			case op == 0 || len(s.Data.Certifications) == 0:
				id := fmt.Sprintf("c%d", next)
				next++
				created[id] = id
				a = AddCertification{Item: domain.Certification{ID: id, Name: "cert " + id}}
			case op == 1:
				target := s.Data.Certifications[rng.Intn(len(s.Data.Certifications))].ID
				if rng.Intn(4) == 0 {
					target = "missing"
				}
				a = UpdateCertification{ID: target, Patch: CertificationPatch{Issuer: Ptr(fmt.Sprint(step))}}
			default:
				target := s.Data.Certifications[rng.Intn(len(s.Data.Certifications))].ID
				a = DeleteCertification{ID: target}
			}
			s = Apply(s, a)

			seen := map[string]bool{}
			for _, c := range s.Data.Certifications {
				require.False(t, seen[c.ID], "duplicate id %s", c.ID)
				seen[c.ID] = true
				require.Equal(t, created[c.ID], c.ID)
				require.Equal(t, "cert "+c.ID, c.Name)
			}
		}
	}
}
