package formatters

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode"

	"cv-builder/internal/domain"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// SuggestedSkill is a validated skill suggestion. It has no id yet; ids are
// assigned when the suggestion is added to a CV.
type SuggestedSkill struct {
	Name     string               `json:"name"`
	Level    domain.SkillLevel    `json:"level"`
	Category domain.SkillCategory `json:"category"`
}

// ParseError reports a skills answer that could not be turned into at least
// one valid suggestion.
type ParseError struct {
	Reason string
	Raw    string
	Cause  error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("parse skill suggestions: %s: %v", e.Reason, e.Cause)
	}
	return fmt.Sprintf("parse skill suggestions: %s", e.Reason)
}

func (e *ParseError) Unwrap() error { return e.Cause }

type SkillsFormatter struct {
	Min, Max int
}

func NewSkillsFormatter() *SkillsFormatter {
	return &SkillsFormatter{Min: 8, Max: 12}
}

func (sf *SkillsFormatter) Prompt(jobTitle string) string {
	return fmt.Sprintf(`Sugiere habilidades relevantes para el puesto: %[1]s

Genera ÚNICAMENTE un array JSON válido con %[2]d-%[3]d habilidades (mix de técnicas y blandas).

Formato exacto requerido:
[
  {"name": "React", "level": "Avanzado", "category": "Técnica"},
  {"name": "Comunicación", "level": "Intermedio", "category": "Blanda"}
]

Criterios:
1. Incluye tanto habilidades técnicas como blandas
2. Los niveles DEBEN ser exactamente: "Básico", "Intermedio", "Avanzado", "Experto"
3. Las categorías DEBEN ser exactamente: "Técnica", "Blanda"
4. Que sean relevantes para el puesto: %[1]s
5. En español
6. Responde SOLO con el array JSON, sin texto adicional, sin bloques de código, sin explicaciones

IMPORTANTE: No uses bloques de código, responde directamente con el array JSON.`, jobTitle, sf.Min, sf.Max)
}

type rawSkill struct {
	Name     *string `json:"name"`
	Level    *string `json:"level"`
	Category *string `json:"category"`
}

// Parse extracts the JSON payload from output and validates every entry.
// Invalid entries are dropped. A ParseError is returned when the payload is
// not JSON or no entry survives.
func (sf *SkillsFormatter) Parse(output string) ([]SuggestedSkill, error) {
	cleaned := CleanJSONResponse(output)
	if cleaned == "" {
		return nil, &ParseError{Reason: "empty response", Raw: output}
	}

	var items []json.RawMessage
	if strings.HasPrefix(cleaned, "{") {
		items = []json.RawMessage{json.RawMessage(cleaned)}
		if !json.Valid(items[0]) {
			return nil, &ParseError{Reason: "invalid JSON", Raw: output}
		}
	} else if err := json.Unmarshal([]byte(cleaned), &items); err != nil {
		return nil, &ParseError{Reason: "invalid JSON", Raw: output, Cause: err}
	}

	out := make([]SuggestedSkill, 0, len(items))
	for _, it := range items {
		var r rawSkill
		if err := json.Unmarshal(it, &r); err != nil {
			continue
		}
		if s, ok := r.validate(); ok {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil, &ParseError{Reason: "no valid skills in response", Raw: output}
	}
	return out, nil
}

func (r rawSkill) validate() (SuggestedSkill, bool) {
	if r.Name == nil || r.Level == nil || r.Category == nil {
		return SuggestedSkill{}, false
	}
	name := strings.TrimSpace(*r.Name)
	level, okLevel := domain.ParseSkillLevel(*r.Level)
	category, okCategory := domain.ParseSkillCategory(*r.Category)
	if name == "" || !okLevel || !okCategory {
		return SuggestedSkill{}, false
	}
	return SuggestedSkill{Name: name, Level: level, Category: category}, true
}

var (
	developerKeywords = []string{"developer", "desarrollador", "programador", "programmer", "frontend", "backend"}
	designerKeywords  = []string{"designer", "disenador", "ux", "ui"}
)

// DefaultSkills is the offline fallback table, keyed by substring matching
// on the job title. Matching is coarse: "equipo" contains "ui".
func DefaultSkills(jobTitle string) []SuggestedSkill {
	title := foldTitle(jobTitle)

	for _, k := range developerKeywords {
		if strings.Contains(title, k) {
			return developerSkills()
		}
	}
	for _, k := range designerKeywords {
		if strings.Contains(title, k) {
			return designerSkills()
		}
	}
	return genericSkills()
}

// foldTitle lower-cases and strips diacritics so "Diseñador" matches "disenador".
func foldTitle(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return cases.Fold().String(out)
}

func developerSkills() []SuggestedSkill {
	return []SuggestedSkill{
		{"JavaScript", domain.SkillAdvanced, domain.CategoryTechnical},
		{"HTML/CSS", domain.SkillAdvanced, domain.CategoryTechnical},
		{"React", domain.SkillIntermediate, domain.CategoryTechnical},
		{"Node.js", domain.SkillIntermediate, domain.CategoryTechnical},
		{"Git", domain.SkillIntermediate, domain.CategoryTechnical},
		{"Resolución de problemas", domain.SkillAdvanced, domain.CategorySoft},
		{"Trabajo en equipo", domain.SkillAdvanced, domain.CategorySoft},
		{"Comunicación", domain.SkillIntermediate, domain.CategorySoft},
	}
}

func designerSkills() []SuggestedSkill {
	return []SuggestedSkill{
		{"Figma", domain.SkillAdvanced, domain.CategoryTechnical},
		{"Adobe Creative Suite", domain.SkillIntermediate, domain.CategoryTechnical},
		{"Prototipado", domain.SkillAdvanced, domain.CategoryTechnical},
		{"Design Thinking", domain.SkillIntermediate, domain.CategoryTechnical},
		{"Creatividad", domain.SkillAdvanced, domain.CategorySoft},
		{"Atención al detalle", domain.SkillAdvanced, domain.CategorySoft},
		{"Comunicación visual", domain.SkillAdvanced, domain.CategorySoft},
		{"Empatía", domain.SkillIntermediate, domain.CategorySoft},
	}
}

func genericSkills() []SuggestedSkill {
	return []SuggestedSkill{
		{"Microsoft Office", domain.SkillIntermediate, domain.CategoryTechnical},
		{"Análisis de datos", domain.SkillBasic, domain.CategoryTechnical},
		{"Gestión de proyectos", domain.SkillIntermediate, domain.CategoryTechnical},
		{"Comunicación", domain.SkillAdvanced, domain.CategorySoft},
		{"Liderazgo", domain.SkillIntermediate, domain.CategorySoft},
		{"Trabajo en equipo", domain.SkillAdvanced, domain.CategorySoft},
		{"Adaptabilidad", domain.SkillAdvanced, domain.CategorySoft},
		{"Resolución de problemas", domain.SkillAdvanced, domain.CategorySoft},
	}
}
