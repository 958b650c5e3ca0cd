package state

import "cv-builder/internal/domain"

// Apply returns the state that results from applying a to s. It is total and
// pure: s is never modified, lists that change are rebuilt into new slices and
// unknown actions return s unchanged. Field contents are not validated.
func Apply(s domain.AppState, a Action) domain.AppState {
	switch act := a.(type) {
	case UpdatePersonalInfo:
		s.Data.PersonalInfo = act.Patch.merge(s.Data.PersonalInfo)
	case UpdateProfessionalSummary:
		s.Data.ProfessionalSummary = act.Summary

	case AddEducation:
		s.Data.Education = appendItem(s.Data.Education, act.Item)
	case UpdateEducation:
		s.Data.Education = updateItem(s.Data.Education, act.ID, educationID, act.Patch.merge)
	case DeleteEducation:
		s.Data.Education = deleteItem(s.Data.Education, act.ID, educationID)

	case AddExperience:
		s.Data.Experience = appendItem(s.Data.Experience, act.Item)
	case UpdateExperience:
		s.Data.Experience = updateItem(s.Data.Experience, act.ID, experienceID, act.Patch.merge)
	case DeleteExperience:
		s.Data.Experience = deleteItem(s.Data.Experience, act.ID, experienceID)

	case AddSkill:
		s.Data.Skills = appendItem(s.Data.Skills, act.Item)
	case UpdateSkill:
		s.Data.Skills = updateItem(s.Data.Skills, act.ID, skillID, act.Patch.merge)
	case DeleteSkill:
		s.Data.Skills = deleteItem(s.Data.Skills, act.ID, skillID)

	case AddLanguage:
		s.Data.Languages = appendItem(s.Data.Languages, act.Item)
	case UpdateLanguage:
		s.Data.Languages = updateItem(s.Data.Languages, act.ID, languageID, act.Patch.merge)
	case DeleteLanguage:
		s.Data.Languages = deleteItem(s.Data.Languages, act.ID, languageID)

	case AddCertification:
		s.Data.Certifications = appendItem(s.Data.Certifications, act.Item)
	case UpdateCertification:
		s.Data.Certifications = updateItem(s.Data.Certifications, act.ID, certificationID, act.Patch.merge)
	case DeleteCertification:
		s.Data.Certifications = deleteItem(s.Data.Certifications, act.ID, certificationID)

	case UpdateSettings:
		s.Settings = act.Patch.merge(s.Settings)
	case LoadData:
		return act.State.Clone()
	case ClearAllData:
		return domain.EmptyState()
	}
	return s
}

func educationID(v domain.Education) string         { return v.ID }
func experienceID(v domain.Experience) string       { return v.ID }
func skillID(v domain.Skill) string                 { return v.ID }
func languageID(v domain.Language) string           { return v.ID }
func certificationID(v domain.Certification) string { return v.ID }

func appendItem[T any](items []T, item T) []T {
	out := make([]T, 0, len(items)+1)
	out = append(out, items...)
	return append(out, item)
}

func updateItem[T any](items []T, id string, idOf func(T) string, merge func(T) T) []T {
	for i, it := range items {
		if idOf(it) != id {
			continue
		}
		out := make([]T, len(items))
		copy(out, items)
		out[i] = merge(it)
		return out
	}
	return items
}

func deleteItem[T any](items []T, id string, idOf func(T) string) []T {
	idx := -1
	for i, it := range items {
		if idOf(it) == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return items
	}
	out := make([]T, 0, len(items)-1)
	for _, it := range items {
		if idOf(it) != id {
			out = append(out, it)
		}
	}
	return out
}
