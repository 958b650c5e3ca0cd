package formatters

import (
	"errors"
	"fmt"
	"strings"

	"cv-builder/internal/domain"
)

var ErrEmptyAnswer = errors.New("empty answer from generative service")

// SummaryFormatter builds the professional-summary prompt and cleans the answer.
type SummaryFormatter struct {
	MaxWords int
}

func NewSummaryFormatter() *SummaryFormatter {
	return &SummaryFormatter{MaxWords: 150}
}

func (sf *SummaryFormatter) Prompt(jobTitle string, data domain.CVData) string {
	name := orDefault(data.PersonalInfo.FullName, "No especificado")

	var exp []string
	for _, e := range data.Experience {
		exp = append(exp, fmt.Sprintf("%s en %s", e.Position, e.Company))
	}
	var edu []string
	for _, e := range data.Education {
		edu = append(edu, fmt.Sprintf("%s en %s", e.Degree, orDefault(e.Field, e.Institution)))
	}
	var skills []string
	for _, s := range data.Skills {
		skills = append(skills, s.Name)
	}

	var b strings.Builder
	b.WriteString("Genera un resumen profesional en español para un currículum vitae.\n\n")
	b.WriteString("Información del candidato:\n")
	fmt.Fprintf(&b, "- Puesto objetivo: %s\n", jobTitle)
	fmt.Fprintf(&b, "- Nombre: %s\n", name)
	fmt.Fprintf(&b, "- Experiencia laboral: %s\n", orDefault(strings.Join(exp, ", "), "No especificada"))
	fmt.Fprintf(&b, "- Educación: %s\n", orDefault(strings.Join(edu, ", "), "No especificada"))
	fmt.Fprintf(&b, "- Habilidades: %s\n\n", orDefault(strings.Join(skills, ", "), "No especificadas"))
	b.WriteString("Genera un resumen profesional de 3-4 líneas que:\n")
	b.WriteString("1. Destaque la experiencia relevante para el puesto objetivo\n")
	b.WriteString("2. Mencione las habilidades clave\n")
	b.WriteString("3. Sea conciso y profesional\n")
	b.WriteString("4. Esté en español\n")
	fmt.Fprintf(&b, "5. No exceda las %d palabras\n\n", sf.MaxWords)
	b.WriteString("Responde solo con el resumen, sin comillas ni texto adicional.")
	return b.String()
}

func (sf *SummaryFormatter) Parse(output string) (string, error) {
	text := CleanText(output)
	if text == "" {
		return "", ErrEmptyAnswer
	}
	return text, nil
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
