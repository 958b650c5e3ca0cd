// Package state holds the CV mutation protocol: the closed set of actions,
// the pure reducer that applies them and the store consumers share.
package state

import "cv-builder/internal/domain"

// Wire names of the actions.
const (
	TypeUpdatePersonalInfo        = "UPDATE_PERSONAL_INFO"
	TypeUpdateProfessionalSummary = "UPDATE_PROFESSIONAL_SUMMARY"
	TypeAddEducation              = "ADD_EDUCATION"
	TypeUpdateEducation           = "UPDATE_EDUCATION"
	TypeDeleteEducation           = "DELETE_EDUCATION"
	TypeAddExperience             = "ADD_EXPERIENCE"
	TypeUpdateExperience          = "UPDATE_EXPERIENCE"
	TypeDeleteExperience          = "DELETE_EXPERIENCE"
	TypeAddSkill                  = "ADD_SKILL"
	TypeUpdateSkill               = "UPDATE_SKILL"
	TypeDeleteSkill               = "DELETE_SKILL"
	TypeAddLanguage               = "ADD_LANGUAGE"
	TypeUpdateLanguage            = "UPDATE_LANGUAGE"
	TypeDeleteLanguage            = "DELETE_LANGUAGE"
	TypeAddCertification          = "ADD_CERTIFICATION"
	TypeUpdateCertification       = "UPDATE_CERTIFICATION"
	TypeDeleteCertification       = "DELETE_CERTIFICATION"
	TypeUpdateSettings            = "UPDATE_SETTINGS"
	TypeLoadData                  = "LOAD_DATA"
	TypeClearAllData              = "CLEAR_ALL_DATA"
)

// Action is a request to transform the AppState. The set is closed; anything
// this package does not define arrives as Unknown.
type Action interface {
	Type() string
	action()
}

type UpdatePersonalInfo struct{ Patch PersonalInfoPatch }
type UpdateProfessionalSummary struct{ Summary string }

type AddEducation struct{ Item domain.Education }
type UpdateEducation struct {
	ID    string
	Patch EducationPatch
}
type DeleteEducation struct{ ID string }

type AddExperience struct{ Item domain.Experience }
type UpdateExperience struct {
	ID    string
	Patch ExperiencePatch
}
type DeleteExperience struct{ ID string }

type AddSkill struct{ Item domain.Skill }
type UpdateSkill struct {
	ID    string
	Patch SkillPatch
}
type DeleteSkill struct{ ID string }

type AddLanguage struct{ Item domain.Language }
type UpdateLanguage struct {
	ID    string
	Patch LanguagePatch
}
type DeleteLanguage struct{ ID string }

type AddCertification struct{ Item domain.Certification }
type UpdateCertification struct {
	ID    string
	Patch CertificationPatch
}
type DeleteCertification struct{ ID string }

type UpdateSettings struct{ Patch SettingsPatch }
type LoadData struct{ State domain.AppState }
type ClearAllData struct{}

// Unknown is any action type this version does not understand. Applying it is a no-op.
type Unknown struct{ Kind string }

func (UpdatePersonalInfo) Type() string        { return TypeUpdatePersonalInfo }
func (UpdateProfessionalSummary) Type() string { return TypeUpdateProfessionalSummary }
func (AddEducation) Type() string              { return TypeAddEducation }
func (UpdateEducation) Type() string           { return TypeUpdateEducation }
func (DeleteEducation) Type() string           { return TypeDeleteEducation }
func (AddExperience) Type() string             { return TypeAddExperience }
func (UpdateExperience) Type() string          { return TypeUpdateExperience }
func (DeleteExperience) Type() string          { return TypeDeleteExperience }
func (AddSkill) Type() string                  { return TypeAddSkill }
func (UpdateSkill) Type() string               { return TypeUpdateSkill }
func (DeleteSkill) Type() string               { return TypeDeleteSkill }
func (AddLanguage) Type() string               { return TypeAddLanguage }
func (UpdateLanguage) Type() string            { return TypeUpdateLanguage }
func (DeleteLanguage) Type() string            { return TypeDeleteLanguage }
func (AddCertification) Type() string          { return TypeAddCertification }
func (UpdateCertification) Type() string       { return TypeUpdateCertification }
func (DeleteCertification) Type() string       { return TypeDeleteCertification }
func (UpdateSettings) Type() string            { return TypeUpdateSettings }
func (LoadData) Type() string                  { return TypeLoadData }
func (ClearAllData) Type() string              { return TypeClearAllData }
func (u Unknown) Type() string                 { return u.Kind }

func (UpdatePersonalInfo) action()        {}
func (UpdateProfessionalSummary) action() {}
func (AddEducation) action()              {}
func (UpdateEducation) action()           {}
func (DeleteEducation) action()           {}
func (AddExperience) action()             {}
func (UpdateExperience) action()          {}
func (DeleteExperience) action()          {}
func (AddSkill) action()                  {}
func (UpdateSkill) action()               {}
func (DeleteSkill) action()               {}
func (AddLanguage) action()               {}
func (UpdateLanguage) action()            {}
func (DeleteLanguage) action()            {}
func (AddCertification) action()          {}
func (UpdateCertification) action()       {}
func (DeleteCertification) action()       {}
func (UpdateSettings) action()            {}
func (LoadData) action()                  {}
func (ClearAllData) action()              {}
func (Unknown) action()                   {}
