package render

import "cv-builder/internal/domain"

// Labels holds the fixed Spanish headings and placeholders used by every
// template.
type Labels struct {
	Summary             string
	Experience          string
	Education           string
	Skills              string
	Technical           string
	Soft                string
	Languages           string
	Certifications      string
	Contact             string
	Present             string
	Ongoing             string
	NamePlaceholder     string
	InitialsPlaceholder string
}

func DefaultLabels() Labels {
	return Labels{
		Summary:             "Resumen Profesional",
		Experience:          "Experiencia Laboral",
		Education:           "Educación",
		Skills:              "Habilidades",
		Technical:           "Técnicas",
		Soft:                "Blandas",
		Languages:           "Idiomas",
		Certifications:      "Certificaciones",
		Contact:             "Contacto",
		Present:             "Presente",
		Ongoing:             "En curso",
		NamePlaceholder:     "Tu Nombre",
		InitialsPlaceholder: "TN",
	}
}

var skillLevelLabels = map[domain.SkillLevel]string{
	domain.SkillBasic:        "Básico",
	domain.SkillIntermediate: "Intermedio",
	domain.SkillAdvanced:     "Avanzado",
	domain.SkillExpert:       "Experto",
}

var languageLevelLabels = map[domain.LanguageLevel]string{
	domain.LanguageBasic:        "Básico",
	domain.LanguageIntermediate: "Intermedio",
	domain.LanguageAdvanced:     "Avanzado",
	domain.LanguageNative:       "Nativo",
}

var shortMonths = [12]string{"Ene", "Feb", "Mar", "Abr", "May", "Jun", "Jul", "Ago", "Sep", "Oct", "Nov", "Dic"}

var longMonths = [12]string{
	"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
	"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
}
