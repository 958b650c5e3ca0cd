package usecase

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"cv-builder/internal/domain"
	"cv-builder/internal/render"

	"github.com/PuerkitoBio/goquery"
)

var printTemplate = template.Must(template.New("print").Parse(`<!DOCTYPE html>
<html lang="es">
<head>
<meta charset="utf-8">
<title>CV para Imprimir</title>
<style>{{.CSS}}</style>
<style>
@page { size: A4; margin: 0; }
html, body { margin: 0; padding: 0; background: #f3f4f6; }
.print-frame { width: 210mm; height: 297mm; margin: 20px auto; background: #fff; overflow: hidden; box-shadow: 0 2px 12px rgba(0, 0, 0, 0.15); }
.print-frame #cv-preview { transform: none; }
.print-instructions { max-width: 210mm; margin: 20px auto 0; padding: 12px 16px; border-radius: 6px; background: #eff6ff; color: #1e3a8a; font-family: system-ui, sans-serif; font-size: 14px; }
.print-instructions button { margin-top: 8px; padding: 6px 14px; border: 0; border-radius: 4px; background: #2563eb; color: #fff; cursor: pointer; }
@media print {
  html, body { background: #fff; }
  .print-instructions { display: none; }
  .print-frame { margin: 0; box-shadow: none; }
}
</style>
</head>
<body>
<div class="print-instructions">
<p><strong>Instrucciones:</strong> usa Ctrl+P (Cmd+P en Mac) o el botón para imprimir. Selecciona tamaño A4, márgenes "Ninguno" y activa "Gráficos de fondo".</p>
<button type="button" onclick="window.print()">Imprimir CV</button>
</div>
<div class="print-frame">{{.Preview}}</div>
</body>
</html>
`))

// PrintView renders a standalone A4 print document around the preview.
func (e *Exporter) PrintView(state domain.AppState) (string, error) {
	preview, err := e.previewFragment(state)
	if err != nil {
		return "", &ExportError{Format: domain.FormatPrint, Cause: err}
	}

	var buf bytes.Buffer
	err = printTemplate.Execute(&buf, struct {
		CSS     template.CSS
		Preview template.HTML
	}{
		CSS:     template.CSS(e.html.Stylesheet()),
		Preview: template.HTML(preview),
	})
	if err != nil {
		return "", &ExportError{Format: domain.FormatPrint, Cause: err}
	}
	return buf.String(), nil
}

// previewFragment extracts the preview element from the rendered document.
func (e *Exporter) previewFragment(state domain.AppState) (string, error) {
	doc, err := e.renderDocument(state)
	if err != nil {
		return "", err
	}
	sel := doc.Find("#" + render.PreviewID).First()
	if sel.Length() == 0 {
		return "", fmt.Errorf("preview element #%s not found", render.PreviewID)
	}
	return goquery.OuterHtml(sel)
}

const exportCSS = `
@page { size: A4; margin: 0; }
html, body { margin: 0; padding: 0; background: #fff; }
#cv-preview { width: 794px !important; height: 1123px !important; min-height: 1123px !important; max-height: 1123px !important; transform: none !important; position: static !important; }
#cv-preview * { -webkit-font-smoothing: antialiased; text-rendering: geometricPrecision; }
`

// exportDocument is the rendered document with the preview pinned to the
// A4 pixel size used for PDF and image exports.
func (e *Exporter) exportDocument(state domain.AppState) (string, error) {
	doc, err := e.renderDocument(state)
	if err != nil {
		return "", err
	}
	sel := doc.Find("#" + render.PreviewID).First()
	if sel.Length() == 0 {
		return "", fmt.Errorf("preview element #%s not found", render.PreviewID)
	}
	style, _ := sel.Attr("style")
	style = strings.TrimSuffix(strings.TrimSpace(style), ";")
	if style != "" {
		style += "; "
	}
	sel.SetAttr("style", style+"width: 794px; height: 1123px; transform: none")
	doc.Find("head").AppendHtml("<style>" + exportCSS + "</style>")

	return doc.Html()
}

func (e *Exporter) renderDocument(state domain.AppState) (*goquery.Document, error) {
	html, err := e.html.Render(state.Data, state.Settings)
	if err != nil {
		return nil, err
	}
	return goquery.NewDocumentFromReader(strings.NewReader(html))
}
