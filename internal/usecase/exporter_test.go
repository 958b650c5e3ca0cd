package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"cv-builder/internal/domain"
	"cv-builder/internal/render"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDocs struct {
	mu      sync.Mutex
	outputs [][]byte
	errs    []error
	calls   int
	lastDoc string
}

func (f *fakeDocs) next(doc string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.calls
	f.calls++
	f.lastDoc = doc
	var (
		out []byte
		err error
	)
	if i < len(f.outputs) {
		out = f.outputs[i]
	}
	if i < len(f.errs) {
		err = f.errs[i]
	}
	return out, err
}

func (f *fakeDocs) RenderPDF(_ context.Context, doc string) ([]byte, error) { return f.next(doc) }

func (f *fakeDocs) RenderImage(_ context.Context, doc string, _ domain.ExportFormat) ([]byte, error) {
	return f.next(doc)
}

type fakeSink struct {
	names []string
	err   error
}

func (s *fakeSink) Store(_ context.Context, name, _ string, _ []byte) (string, error) {
	s.names = append(s.names, name)
	if s.err != nil {
		return "", s.err
	}
	return "/tmp/" + name, nil
}

type fakeLog struct{ jobs []domain.ExportJob }

func (l *fakeLog) Save(_ context.Context, j *domain.ExportJob) error {
	l.jobs = append(l.jobs, *j)
	return nil
}

func newTestExporter(docs DocumentRenderer, sink ArtifactSink, log ExportLog) *Exporter {
	e := NewExporter(render.MustNew(), docs, sink, log, 3)
	e.backoff = func(int) time.Duration { return 0 }
	return e
}

func TestFilename(t *testing.T) {
	tests := []struct {
		name, ext, want string
	}{
		{"María García López", "pdf", "CV_María_García_López.pdf"},
		{"Ana \t Ruiz", "png", "CV_Ana_Ruiz.png"},
		{"", "jpeg", "CV_MiCV.jpeg"},
		{"   ", "pdf", "CV_MiCV.pdf"},
		{" Ana ", "pdf", "CV_Ana.pdf"},
	}
	for _, tt := range tests {
		data := domain.CVData{PersonalInfo: domain.PersonalInfo{FullName: tt.name}}
		assert.Equal(t, tt.want, Filename(data, tt.ext))
	}
}

func TestExportPDFSucceedsAfterRetry(t *testing.T) {
	docs := &fakeDocs{
		outputs: [][]byte{nil, []byte("garbage"), []byte("%PDF-1.7 ...")},
		errs:    []error{errors.New("chrome crashed"), nil, nil},
	}
	sink := &fakeSink{}
	log := &fakeLog{}
	e := newTestExporter(docs, sink, log)

	art, err := e.ExportPDF(context.Background(), domain.ExampleState())
	require.NoError(t, err)
	assert.Equal(t, 3, docs.calls)
	assert.Equal(t, "CV_María_García_López.pdf", art.Filename)
	assert.Equal(t, "application/pdf", art.ContentType)
	assert.Equal(t, "/tmp/CV_María_García_López.pdf", art.Location)

	require.Len(t, log.jobs, 1)
	assert.Equal(t, domain.ExportSucceeded, log.jobs[0].Status)
	assert.Equal(t, len(art.Data), log.jobs[0].SizeBytes)
}

func TestExportPDFFailureOffersPrintFallback(t *testing.T) {
	docs := &fakeDocs{errs: []error{errors.New("a"), errors.New("b"), errors.New("c")}}
	log := &fakeLog{}
	e := newTestExporter(docs, nil, log)

	_, err := e.ExportPDF(context.Background(), domain.EmptyState())
	var ee *ExportError
	require.True(t, errors.As(err, &ee))
	assert.Equal(t, domain.FormatPDF, ee.Format)
	assert.Equal(t, domain.FormatPrint, ee.Fallback)
	assert.Equal(t, "Error al exportar PDF. ¿Deseas intentar imprimir en su lugar?", ee.UserMessage())
	assert.Equal(t, 3, docs.calls)

	require.Len(t, log.jobs, 1)
	assert.Equal(t, domain.ExportFailed, log.jobs[0].Status)
	assert.NotEmpty(t, log.jobs[0].Error)
}

func TestExportImage(t *testing.T) {
	docs := &fakeDocs{outputs: [][]byte{{0xFF, 0xD8, 0xFF, 0xE0}}}
	e := newTestExporter(docs, nil, nil)

	art, err := e.ExportImage(context.Background(), domain.EmptyState(), domain.FormatJPEG)
	require.NoError(t, err)
	assert.Equal(t, "CV_MiCV.jpeg", art.Filename)
	assert.Equal(t, "image/jpeg", art.ContentType)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(docs.lastDoc))
	require.NoError(t, err)
	style, _ := doc.Find("#" + render.PreviewID).Attr("style")
	assert.Contains(t, style, "width: 794px")
	assert.Contains(t, style, "height: 1123px")
}

func TestExportImageFailureHasNoFallback(t *testing.T) {
	docs := &fakeDocs{outputs: [][]byte{[]byte("x"), []byte("x"), []byte("x")}}
	e := newTestExporter(docs, nil, nil)

	_, err := e.ExportImage(context.Background(), domain.EmptyState(), domain.FormatPNG)
	var ee *ExportError
	require.True(t, errors.As(err, &ee))
	assert.Empty(t, ee.Fallback)
	assert.Equal(t, "Error al exportar como imagen. Intenta nuevamente.", ee.UserMessage())
}

func TestExportImageRejectsUnknownFormat(t *testing.T) {
	e := newTestExporter(&fakeDocs{}, nil, nil)
	_, err := e.ExportImage(context.Background(), domain.EmptyState(), domain.FormatPDF)
	assert.Error(t, err)
}

func TestSinkFailureDoesNotFailExport(t *testing.T) {
	docs := &fakeDocs{outputs: [][]byte{[]byte("\x89PNG\r\n")}}
	e := newTestExporter(docs, &fakeSink{err: errors.New("bucket down")}, nil)

	art, err := e.ExportImage(context.Background(), domain.EmptyState(), domain.FormatPNG)
	require.NoError(t, err)
	assert.Empty(t, art.Location)
}

func TestExportStopsOnCancelledContext(t *testing.T) {
	docs := &fakeDocs{errs: []error{errors.New("a"), errors.New("b"), errors.New("c")}}
	e := NewExporter(render.MustNew(), docs, nil, nil, 3)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.ExportPDF(ctx, domain.EmptyState())
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, docs.calls)
}

func TestPrintView(t *testing.T) {
	e := newTestExporter(&fakeDocs{}, nil, nil)

	html, err := e.PrintView(domain.ExampleState())
	require.NoError(t, err)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	assert.Equal(t, "CV para Imprimir", doc.Find("title").Text())
	assert.Equal(t, "es", doc.Find("html").AttrOr("lang", ""))
	assert.Equal(t, 1, doc.Find(".print-frame #"+render.PreviewID).Length())
	assert.Equal(t, "window.print()", doc.Find(".print-instructions button").AttrOr("onclick", ""))
	assert.Contains(t, html, "@page { size: A4; margin: 0; }")
	assert.Contains(t, doc.Find(".print-frame").Text(), "María García López")
}
