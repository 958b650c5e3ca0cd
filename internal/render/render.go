// Package render turns CV data and presentation settings into an HTML
// document through one of the classic, modern or creative templates.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"cv-builder/internal/domain"
)

//go:embed templates/*.html templates/style.css
var templateFS embed.FS

// PreviewID is the id of the element wrapping the rendered CV.
const PreviewID = "cv-preview"

type Renderer struct {
	tpl    *template.Template
	css    template.CSS
	labels Labels
}

type view struct {
	Data      domain.CVData
	Settings  domain.CVSettings
	Color     string
	Labels    Labels
	Technical []domain.Skill
	Soft      []domain.Skill
}

type documentView struct {
	Title     string
	CSS       template.CSS
	PreviewID string
	FontClass string
	Template  string
	Color     string
	Body      template.HTML
}

func New() (*Renderer, error) {
	tpl, err := template.New("cv").Funcs(funcMap()).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	css, err := templateFS.ReadFile("templates/style.css")
	if err != nil {
		return nil, fmt.Errorf("read stylesheet: %w", err)
	}
	return &Renderer{tpl: tpl, css: template.CSS(css), labels: DefaultLabels()}, nil
}

// MustNew panics if the embedded templates do not parse.
func MustNew() *Renderer {
	r, err := New()
	if err != nil {
		panic(err)
	}
	return r
}

// TemplateName resolves the template setting; unknown names use modern.
func TemplateName(name string) string {
	switch name {
	case domain.TemplateClassic, domain.TemplateModern, domain.TemplateCreative:
		return name
	default:
		return domain.TemplateModern
	}
}

// Stylesheet returns the CSS shared by the preview and every export.
func (r *Renderer) Stylesheet() string { return string(r.css) }

// Render produces a complete HTML document whose body holds the preview
// element.
func (r *Renderer) Render(data domain.CVData, settings domain.CVSettings) (string, error) {
	name := TemplateName(settings.Template)
	v := view{
		Data:     data,
		Settings: settings,
		Color:    safeColor(settings.PrimaryColor),
		Labels:   r.labels,
	}
	for _, s := range data.Skills {
		switch s.Category {
		case domain.CategoryTechnical:
			v.Technical = append(v.Technical, s)
		case domain.CategorySoft:
			v.Soft = append(v.Soft, s)
		}
	}

	var body bytes.Buffer
	if err := r.tpl.ExecuteTemplate(&body, name, v); err != nil {
		return "", fmt.Errorf("execute %s template: %w", name, err)
	}

	var doc bytes.Buffer
	err := r.tpl.ExecuteTemplate(&doc, "document", documentView{
		Title:     "CV",
		CSS:       r.css,
		PreviewID: PreviewID,
		FontClass: fontClass(settings.Font),
		Template:  name,
		Color:     v.Color,
		Body:      template.HTML(body.String()),
	})
	if err != nil {
		return "", fmt.Errorf("execute document: %w", err)
	}
	return doc.String(), nil
}
