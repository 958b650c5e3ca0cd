package usecase

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"cv-builder/internal/domain"
	"cv-builder/internal/logger"

	"github.com/google/uuid"
)

// Renderer turns CV data into an HTML document containing the preview
// element.
type Renderer interface {
	Render(data domain.CVData, settings domain.CVSettings) (string, error)
	Stylesheet() string
}

// DocumentRenderer rasterizes an HTML document.
type DocumentRenderer interface {
	RenderPDF(ctx context.Context, html string) ([]byte, error)
	RenderImage(ctx context.Context, html string, format domain.ExportFormat) ([]byte, error)
}

// ArtifactSink keeps a copy of an exported file and returns where it went.
type ArtifactSink interface {
	Store(ctx context.Context, name, contentType string, data []byte) (string, error)
}

type ExportLog interface {
	Save(ctx context.Context, j *domain.ExportJob) error
}

// Artifact is a finished download.
type Artifact struct {
	Filename    string
	ContentType string
	Data        []byte
	Location    string
}

var exportMessages = map[domain.ExportFormat]string{
	domain.FormatPDF:   "Error al exportar PDF. ¿Deseas intentar imprimir en su lugar?",
	domain.FormatPNG:   "Error al exportar como imagen. Intenta nuevamente.",
	domain.FormatJPEG:  "Error al exportar como imagen. Intenta nuevamente.",
	domain.FormatPrint: "Error al abrir la ventana de impresión. Intenta usar Ctrl+P para imprimir esta página.",
}

// ExportError reports a failed export. Fallback names the format the user
// can try instead, if any.
type ExportError struct {
	Format   domain.ExportFormat
	Fallback domain.ExportFormat
	Cause    error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export %s: %v", e.Format, e.Cause)
}

func (e *ExportError) Unwrap() error { return e.Cause }

func (e *ExportError) UserMessage() string { return exportMessages[e.Format] }

var whitespace = regexp.MustCompile(`\s+`)

// Filename derives the download name from the CV owner's name. Surrounding
// whitespace is trimmed before inner runs become underscores.
func Filename(data domain.CVData, ext string) string {
	name := strings.TrimSpace(data.PersonalInfo.FullName)
	if name == "" {
		return "CV_MiCV." + ext
	}
	return "CV_" + whitespace.ReplaceAllString(name, "_") + "." + ext
}

type Exporter struct {
	html     Renderer
	docs     DocumentRenderer
	sink     ArtifactSink
	log      ExportLog
	attempts int
	backoff  func(attempt int) time.Duration
}

// NewExporter wires the export pipeline. sink and log may be nil.
func NewExporter(html Renderer, docs DocumentRenderer, sink ArtifactSink, log ExportLog, attempts int) *Exporter {
	if attempts <= 0 {
		attempts = 3
	}
	return &Exporter{
		html:     html,
		docs:     docs,
		sink:     sink,
		log:      log,
		attempts: attempts,
		backoff:  func(i int) time.Duration { return time.Duration(1<<i) * time.Second },
	}
}

// Preview renders the live preview document.
func (e *Exporter) Preview(state domain.AppState) (string, error) {
	return e.html.Render(state.Data, state.Settings)
}

// ExportPDF renders the CV on a single A4 page. Failures carry the print
// view as fallback.
func (e *Exporter) ExportPDF(ctx context.Context, state domain.AppState) (Artifact, error) {
	return e.export(ctx, state, domain.FormatPDF, func(ctx context.Context, doc string) ([]byte, error) {
		return e.docs.RenderPDF(ctx, doc)
	})
}

// ExportImage renders the CV as a PNG or JPEG at twice the A4 pixel size.
func (e *Exporter) ExportImage(ctx context.Context, state domain.AppState, format domain.ExportFormat) (Artifact, error) {
	if format != domain.FormatPNG && format != domain.FormatJPEG {
		return Artifact{}, &ExportError{Format: format, Cause: fmt.Errorf("unsupported image format %q", format)}
	}
	return e.export(ctx, state, format, func(ctx context.Context, doc string) ([]byte, error) {
		return e.docs.RenderImage(ctx, doc, format)
	})
}

type rasterizeFunc func(ctx context.Context, doc string) ([]byte, error)

func (e *Exporter) export(ctx context.Context, state domain.AppState, format domain.ExportFormat, rasterize rasterizeFunc) (Artifact, error) {
	job := &domain.ExportJob{
		ID:        uuid.New(),
		Filename:  Filename(state.Data, format.Extension()),
		Format:    format,
		Template:  state.Settings.Template,
		CreatedAt: time.Now().UTC(),
	}

	out, err := e.rasterizeWithRetry(ctx, state, format, rasterize)
	if err != nil {
		exportErr := &ExportError{Format: format, Cause: err}
		if format == domain.FormatPDF {
			exportErr.Fallback = domain.FormatPrint
		}
		job.Status = domain.ExportFailed
		job.Error = err.Error()
		e.record(ctx, job)
		return Artifact{}, exportErr
	}

	art := Artifact{Filename: job.Filename, ContentType: format.ContentType(), Data: out}
	if e.sink != nil {
		loc, err := e.sink.Store(ctx, art.Filename, art.ContentType, art.Data)
		if err != nil {
			logger.Warn().Err(err).Str("filename", art.Filename).Msg("could not store export artifact")
		} else {
			art.Location = loc
		}
	}

	job.Status = domain.ExportSucceeded
	job.SizeBytes = len(out)
	job.Location = art.Location
	e.record(ctx, job)
	return art, nil
}

func (e *Exporter) rasterizeWithRetry(ctx context.Context, state domain.AppState, format domain.ExportFormat, rasterize rasterizeFunc) ([]byte, error) {
	doc, err := e.exportDocument(state)
	if err != nil {
		return nil, err
	}

	var (
		out       []byte
		renderErr error
	)
	for i := 0; i < e.attempts; i++ {
		out, renderErr = rasterize(ctx, doc)
		if renderErr == nil {
			if hasSignature(format, out) {
				return out, nil
			}
			renderErr = fmt.Errorf("invalid %s output (len=%d)", format, len(out))
		}
		logger.Warn().Err(renderErr).Int("attempt", i+1).Str("format", string(format)).Msg("render attempt failed")
		if i < e.attempts-1 {
			select {
			case <-time.After(e.backoff(i)):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}
	return nil, fmt.Errorf("rendering failed after %d attempts: %w", e.attempts, renderErr)
}

func hasSignature(format domain.ExportFormat, b []byte) bool {
	switch format {
	case domain.FormatPDF:
		return bytes.HasPrefix(b, []byte("%PDF"))
	case domain.FormatPNG:
		return bytes.HasPrefix(b, []byte("\x89PNG"))
	case domain.FormatJPEG:
		return bytes.HasPrefix(b, []byte{0xFF, 0xD8, 0xFF})
	default:
		return len(b) > 0
	}
}

func (e *Exporter) record(ctx context.Context, job *domain.ExportJob) {
	if e.log == nil {
		return
	}
	if err := e.log.Save(ctx, job); err != nil {
		logger.Warn().Err(err).Str("export_id", job.ID.String()).Msg("could not record export")
	}
}
