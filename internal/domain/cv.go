package domain

import (
	"encoding/json"
	"strings"
)

type SkillLevel string

const (
	SkillBasic        SkillLevel = "Basic"
	SkillIntermediate SkillLevel = "Intermediate"
	SkillAdvanced     SkillLevel = "Advanced"
	SkillExpert       SkillLevel = "Expert"
)

type SkillCategory string

const (
	CategoryTechnical SkillCategory = "Technical"
	CategorySoft      SkillCategory = "Soft"
)

type LanguageLevel string

const (
	LanguageBasic        LanguageLevel = "Basic"
	LanguageIntermediate LanguageLevel = "Intermediate"
	LanguageAdvanced     LanguageLevel = "Advanced"
	LanguageNative       LanguageLevel = "Native"
)

const (
	TemplateClassic  = "classic"
	TemplateModern   = "modern"
	TemplateCreative = "creative"
)

const (
	FontInter    = "inter"
	FontRoboto   = "roboto"
	FontPlayfair = "playfair"
)

// Section tokens accepted in CVSettings.SectionOrder.
const (
	SectionPersonalInfo        = "personalInfo"
	SectionProfessionalSummary = "professionalSummary"
	SectionExperience          = "experience"
	SectionEducation           = "education"
	SectionSkills              = "skills"
	SectionLanguages           = "languages"
	SectionCertifications      = "certifications"
)

type PersonalInfo struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
	Website  string `json:"website"`
	LinkedIn string `json:"linkedin"`
	GitHub   string `json:"github"`
}

type Education struct {
	ID          string `json:"id"`
	Institution string `json:"institution"`
	Degree      string `json:"degree"`
	Field       string `json:"field"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Current     bool   `json:"current"`
	Description string `json:"description"`
}

type Experience struct {
	ID          string `json:"id"`
	Company     string `json:"company"`
	Position    string `json:"position"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Current     bool   `json:"current"`
	Description string `json:"description"`
	Location    string `json:"location"`
}

type Skill struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	Level    SkillLevel    `json:"level"`
	Category SkillCategory `json:"category"`
}

type Language struct {
	ID    string        `json:"id"`
	Name  string        `json:"name"`
	Level LanguageLevel `json:"level"`
}

type Certification struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Issuer string `json:"issuer"`
	Date   string `json:"date"`
	URL    string `json:"url"`
}

// CVData is the résumé content. List order is display order.
type CVData struct {
	PersonalInfo        PersonalInfo    `json:"personalInfo"`
	ProfessionalSummary string          `json:"professionalSummary"`
	Education           []Education     `json:"education"`
	Experience          []Experience    `json:"experience"`
	Skills              []Skill         `json:"skills"`
	Languages           []Language      `json:"languages"`
	Certifications      []Certification `json:"certifications"`
}

type CVSettings struct {
	Template     string   `json:"template"`
	PrimaryColor string   `json:"primaryColor"`
	Font         string   `json:"font"`
	SectionOrder []string `json:"sectionOrder"`
}

// AppState is the whole working state of a session.
type AppState struct {
	Data     CVData     `json:"data"`
	Settings CVSettings `json:"settings"`
}

var skillLevelAliases = map[string]SkillLevel{
	"basic":        SkillBasic,
	"básico":       SkillBasic,
	"basico":       SkillBasic,
	"intermediate": SkillIntermediate,
	"intermedio":   SkillIntermediate,
	"advanced":     SkillAdvanced,
	"avanzado":     SkillAdvanced,
	"expert":       SkillExpert,
	"experto":      SkillExpert,
}

var skillCategoryAliases = map[string]SkillCategory{
	"technical": CategoryTechnical,
	"técnica":   CategoryTechnical,
	"tecnica":   CategoryTechnical,
	"soft":      CategorySoft,
	"blanda":    CategorySoft,
}

var languageLevelAliases = map[string]LanguageLevel{
	"basic":        LanguageBasic,
	"básico":       LanguageBasic,
	"basico":       LanguageBasic,
	"intermediate": LanguageIntermediate,
	"intermedio":   LanguageIntermediate,
	"advanced":     LanguageAdvanced,
	"avanzado":     LanguageAdvanced,
	"native":       LanguageNative,
	"nativo":       LanguageNative,
}

// ParseSkillLevel accepts the canonical tokens and the Spanish UI labels.
func ParseSkillLevel(s string) (SkillLevel, bool) {
	l, ok := skillLevelAliases[strings.ToLower(strings.TrimSpace(s))]
	return l, ok
}

func ParseSkillCategory(s string) (SkillCategory, bool) {
	c, ok := skillCategoryAliases[strings.ToLower(strings.TrimSpace(s))]
	return c, ok
}

func ParseLanguageLevel(s string) (LanguageLevel, bool) {
	l, ok := languageLevelAliases[strings.ToLower(strings.TrimSpace(s))]
	return l, ok
}

func (l SkillLevel) Valid() bool {
	switch l {
	case SkillBasic, SkillIntermediate, SkillAdvanced, SkillExpert:
		return true
	}
	return false
}

func (c SkillCategory) Valid() bool {
	return c == CategoryTechnical || c == CategorySoft
}

func (l LanguageLevel) Valid() bool {
	switch l {
	case LanguageBasic, LanguageIntermediate, LanguageAdvanced, LanguageNative:
		return true
	}
	return false
}

// UnmarshalJSON normalizes known aliases. Unknown values are kept as sent.
func (l *SkillLevel) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if v, ok := ParseSkillLevel(s); ok {
		*l = v
		return nil
	}
	*l = SkillLevel(s)
	return nil
}

func (c *SkillCategory) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if v, ok := ParseSkillCategory(s); ok {
		*c = v
		return nil
	}
	*c = SkillCategory(s)
	return nil
}

func (l *LanguageLevel) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if v, ok := ParseLanguageLevel(s); ok {
		*l = v
		return nil
	}
	*l = LanguageLevel(s)
	return nil
}
