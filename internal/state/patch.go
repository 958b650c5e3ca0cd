package state

import "cv-builder/internal/domain"

// Patches carry partial updates. A nil field was not provided and is left as is.

type PersonalInfoPatch struct {
	FullName *string `json:"fullName,omitempty"`
	Email    *string `json:"email,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Location *string `json:"location,omitempty"`
	Website  *string `json:"website,omitempty"`
	LinkedIn *string `json:"linkedin,omitempty"`
	GitHub   *string `json:"github,omitempty"`
}

type EducationPatch struct {
	Institution *string `json:"institution,omitempty"`
	Degree      *string `json:"degree,omitempty"`
	Field       *string `json:"field,omitempty"`
	StartDate   *string `json:"startDate,omitempty"`
	EndDate     *string `json:"endDate,omitempty"`
	Current     *bool   `json:"current,omitempty"`
	Description *string `json:"description,omitempty"`
}

type ExperiencePatch struct {
	Company     *string `json:"company,omitempty"`
	Position    *string `json:"position,omitempty"`
	StartDate   *string `json:"startDate,omitempty"`
	EndDate     *string `json:"endDate,omitempty"`
	Current     *bool   `json:"current,omitempty"`
	Description *string `json:"description,omitempty"`
	Location    *string `json:"location,omitempty"`
}

type SkillPatch struct {
	Name     *string               `json:"name,omitempty"`
	Level    *domain.SkillLevel    `json:"level,omitempty"`
	Category *domain.SkillCategory `json:"category,omitempty"`
}

type LanguagePatch struct {
	Name  *string               `json:"name,omitempty"`
	Level *domain.LanguageLevel `json:"level,omitempty"`
}

type CertificationPatch struct {
	Name   *string `json:"name,omitempty"`
	Issuer *string `json:"issuer,omitempty"`
	Date   *string `json:"date,omitempty"`
	URL    *string `json:"url,omitempty"`
}

type SettingsPatch struct {
	Template     *string   `json:"template,omitempty"`
	PrimaryColor *string   `json:"primaryColor,omitempty"`
	Font         *string   `json:"font,omitempty"`
	SectionOrder *[]string `json:"sectionOrder,omitempty"`
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

func (p PersonalInfoPatch) merge(v domain.PersonalInfo) domain.PersonalInfo {
	set(&v.FullName, p.FullName)
	set(&v.Email, p.Email)
	set(&v.Phone, p.Phone)
	set(&v.Location, p.Location)
	set(&v.Website, p.Website)
	set(&v.LinkedIn, p.LinkedIn)
	set(&v.GitHub, p.GitHub)
	return v
}

func (p EducationPatch) merge(v domain.Education) domain.Education {
	set(&v.Institution, p.Institution)
	set(&v.Degree, p.Degree)
	set(&v.Field, p.Field)
	set(&v.StartDate, p.StartDate)
	set(&v.EndDate, p.EndDate)
	set(&v.Current, p.Current)
	set(&v.Description, p.Description)
	return v
}

func (p ExperiencePatch) merge(v domain.Experience) domain.Experience {
	set(&v.Company, p.Company)
	set(&v.Position, p.Position)
	set(&v.StartDate, p.StartDate)
	set(&v.EndDate, p.EndDate)
	set(&v.Current, p.Current)
	set(&v.Description, p.Description)
	set(&v.Location, p.Location)
	return v
}

func (p SkillPatch) merge(v domain.Skill) domain.Skill {
	set(&v.Name, p.Name)
	set(&v.Level, p.Level)
	set(&v.Category, p.Category)
	return v
}

func (p LanguagePatch) merge(v domain.Language) domain.Language {
	set(&v.Name, p.Name)
	set(&v.Level, p.Level)
	return v
}

func (p CertificationPatch) merge(v domain.Certification) domain.Certification {
	set(&v.Name, p.Name)
	set(&v.Issuer, p.Issuer)
	set(&v.Date, p.Date)
	set(&v.URL, p.URL)
	return v
}

func (p SettingsPatch) merge(v domain.CVSettings) domain.CVSettings {
	set(&v.Template, p.Template)
	set(&v.PrimaryColor, p.PrimaryColor)
	set(&v.Font, p.Font)
	if p.SectionOrder != nil {
		v.SectionOrder = append([]string{}, (*p.SectionOrder)...)
	}
	return v
}

// Ptr is a helper for building patches.
func Ptr[T any](v T) *T { return &v }
