package formatters

import (
	"fmt"
	"strings"
)

type ExperienceFormatter struct {
	MaxWords int
}

func NewExperienceFormatter() *ExperienceFormatter {
	return &ExperienceFormatter{MaxWords: 120}
}

// Prompt asks for a 3-4 line description of a position held at a company.
func (ef *ExperienceFormatter) Prompt(position, company string) string {
	var b strings.Builder
	b.WriteString("Genera una descripción profesional en español para una experiencia laboral en un currículum vitae.\n\n")
	fmt.Fprintf(&b, "Puesto: %s\n", position)
	fmt.Fprintf(&b, "Empresa: %s\n\n", company)
	b.WriteString("Genera una descripción de 3-4 líneas que:\n")
	b.WriteString("1. Describa las responsabilidades principales del puesto\n")
	b.WriteString("2. Incluya logros o resultados específicos (usa números cuando sea apropiado)\n")
	b.WriteString("3. Use verbos de acción en pasado\n")
	b.WriteString("4. Sea profesional y concisa\n")
	b.WriteString("5. Esté en español\n")
	fmt.Fprintf(&b, "6. No exceda las %d palabras\n\n", ef.MaxWords)
	b.WriteString("Responde solo con la descripción, sin comillas ni texto adicional.")
	return b.String()
}

func (ef *ExperienceFormatter) Parse(output string) (string, error) {
	text := CleanText(output)
	if text == "" {
		return "", ErrEmptyAnswer
	}
	return text, nil
}
