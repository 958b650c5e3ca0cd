package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"cv-builder/internal/domain"
	"cv-builder/internal/model"
	"cv-builder/internal/render"
	"cv-builder/internal/state"
	"cv-builder/internal/usecase"
	"cv-builder/pkg/ai"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubDocs struct {
	pdf   []byte
	image []byte
	err   error
}

func (s *stubDocs) RenderPDF(context.Context, string) ([]byte, error) { return s.pdf, s.err }

func (s *stubDocs) RenderImage(context.Context, string, domain.ExportFormat) ([]byte, error) {
	return s.image, s.err
}

type stubText struct {
	ready error
}

func (s *stubText) GenerateProfessionalSummary(context.Context, string, domain.CVData) (string, error) {
	return "Resumen generado", nil
}

func (s *stubText) GenerateExperienceDescription(context.Context, string, string) (string, error) {
	return "Descripción generada", nil
}

func (s *stubText) SuggestSkills(context.Context, string) (ai.SkillSuggestions, error) {
	return ai.SkillSuggestions{Skills: []ai.SuggestedSkill{{Name: "Go", Level: domain.SkillExpert, Category: domain.CategoryTechnical}}}, nil
}

func (s *stubText) Ready() error { return s.ready }

type testServer struct {
	app   *fiber.App
	h     *Handler
	store *state.Store
	gen   *usecase.Generator
}

func newTestServer(t *testing.T, docs *stubDocs, text *stubText) *testServer {
	t.Helper()
	return newLimitedTestServer(t, docs, text, 1000)
}

func newLimitedTestServer(t *testing.T, docs *stubDocs, text *stubText, rateLimit int) *testServer {
	t.Helper()
	store := state.NewStore(domain.ExampleState())
	exporter := usecase.NewExporter(render.MustNew(), docs, nil, nil, 1)
	gen := usecase.NewGenerator(text, store, usecase.NewTaskRegistry(), time.Second)
	h := NewHandler(store, exporter, gen, nil, false)
	app := NewApp(h, RouterConfig{AppName: "cv-builder-test", RateLimitMax: rateLimit, RateLimitWindow: time.Minute})
	return &testServer{app: app, h: h, store: store, gen: gen}
}

type envelope struct {
	Success    bool            `json:"success"`
	Message    string          `json:"message"`
	DevMessage string          `json:"dev_message"`
	Data       json.RawMessage `json:"data"`
	Details    json.RawMessage `json:"details"`
}

func (s *testServer) do(t *testing.T, method, path, body string) (int, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(b, &env), string(b))
	return resp.StatusCode, env
}

func decodeState(t *testing.T, raw json.RawMessage) domain.AppState {
	t.Helper()
	var st domain.AppState
	require.NoError(t, json.Unmarshal(raw, &st))
	return st
}

func TestGetState(t *testing.T) {
	s := newTestServer(t, &stubDocs{}, &stubText{})
	code, env := s.do(t, "GET", "/api/state", "")
	assert.Equal(t, fiber.StatusOK, code)
	assert.True(t, env.Success)
	assert.Equal(t, "María García López", decodeState(t, env.Data).Data.PersonalInfo.FullName)
}

func TestDispatchAssignsIDToNewItems(t *testing.T) {
	s := newTestServer(t, &stubDocs{}, &stubText{})
	code, env := s.do(t, "POST", "/api/actions",
		`{"type":"ADD_LANGUAGE","payload":{"name":"Alemán","level":"Básico"}}`)
	require.Equal(t, fiber.StatusOK, code)

	langs := decodeState(t, env.Data).Data.Languages
	last := langs[len(langs)-1]
	assert.Equal(t, "Alemán", last.Name)
	assert.Equal(t, domain.LanguageBasic, last.Level)
	assert.NotEmpty(t, last.ID)
	assert.Equal(t, langs, s.store.State().Data.Languages)
}

func TestDispatchRejectsMalformedPayload(t *testing.T) {
	s := newTestServer(t, &stubDocs{}, &stubText{})
	code, env := s.do(t, "POST", "/api/actions", `{"type":"ADD_SKILL","payload":"oops"}`)
	assert.Equal(t, fiber.StatusBadRequest, code)
	assert.False(t, env.Success)
	assert.Contains(t, env.DevMessage, "ADD_SKILL")
	assert.Equal(t, domain.ExampleState(), s.store.State())
}

func TestDispatchIgnoresUnknownAction(t *testing.T) {
	s := newTestServer(t, &stubDocs{}, &stubText{})
	code, env := s.do(t, "POST", "/api/actions", `{"type":"RESET_EVERYTHING"}`)
	assert.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, domain.ExampleState(), decodeState(t, env.Data))
}

func TestLoadStateReportsSchemaErrors(t *testing.T) {
	s := newTestServer(t, &stubDocs{}, &stubText{})
	code, env := s.do(t, "POST", "/api/state/load", `{"data":{"personalInfo":{"fullName":1}},"settings":{}}`)
	assert.Equal(t, fiber.StatusBadRequest, code)

	var fields []model.FieldError
	require.NoError(t, json.Unmarshal(env.Details, &fields))
	require.NotEmpty(t, fields)
	assert.Equal(t, "data.personalInfo.fullName", fields[0].Field)
	assert.Equal(t, domain.ExampleState(), s.store.State())
}

func TestLoadAndClearState(t *testing.T) {
	s := newTestServer(t, &stubDocs{}, &stubText{})
	code, _ := s.do(t, "POST", "/api/state/load",
		`{"data":{"personalInfo":{"fullName":"Luis Pérez"}},"settings":{"template":"creative"}}`)
	require.Equal(t, fiber.StatusOK, code)
	st := s.store.State()
	assert.Equal(t, "Luis Pérez", st.Data.PersonalInfo.FullName)
	assert.Equal(t, domain.TemplateCreative, st.Settings.Template)
	assert.Empty(t, st.Data.Skills)

	code, _ = s.do(t, "POST", "/api/state/clear", "")
	require.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, domain.EmptyState(), s.store.State())
}

func TestLoadDataActionMatchesLoadEndpoint(t *testing.T) {
	const imported = `{"data":{"personalInfo":{"fullName":"Luis Pérez"}},"settings":{"template":"classic"}}`

	viaAction := newTestServer(t, &stubDocs{}, &stubText{})
	code, env := viaAction.do(t, "POST", "/api/actions", `{"type":"LOAD_DATA","payload":`+imported+`}`)
	require.Equal(t, fiber.StatusOK, code)
	fromAction := decodeState(t, env.Data)

	viaLoad := newTestServer(t, &stubDocs{}, &stubText{})
	code, env = viaLoad.do(t, "POST", "/api/state/load", imported)
	require.Equal(t, fiber.StatusOK, code)
	fromLoad := decodeState(t, env.Data)

	assert.Equal(t, domain.DefaultSectionOrder(), fromAction.Settings.SectionOrder)
	assert.Equal(t, domain.FontInter, fromAction.Settings.Font)
	assert.Equal(t, fromLoad, fromAction)
	assert.Equal(t, viaLoad.store.State(), viaAction.store.State())
}

func TestPreviewAndPrintAreHTML(t *testing.T) {
	s := newTestServer(t, &stubDocs{}, &stubText{})
	for _, path := range []string{"/preview", "/export/print"} {
		resp, err := s.app.Test(httptest.NewRequest("GET", path, nil), -1)
		require.NoError(t, err)
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		assert.Equal(t, fiber.StatusOK, resp.StatusCode, path)
		assert.Contains(t, resp.Header.Get("Content-Type"), "text/html", path)
		assert.Contains(t, string(body), `id="cv-preview"`, path)
	}
}

func TestExportPDFDownload(t *testing.T) {
	s := newTestServer(t, &stubDocs{pdf: []byte("%PDF-1.4 test")}, &stubText{})
	resp, err := s.app.Test(httptest.NewRequest("GET", "/export/pdf", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "attachment")
	assert.Contains(t, resp.Header.Get("Content-Disposition"), ".pdf")
	assert.Equal(t, "%PDF-1.4 test", string(body))
}

func TestExportPDFFailureOffersPrint(t *testing.T) {
	s := newTestServer(t, &stubDocs{err: errors.New("chrome not found")}, &stubText{})
	code, env := s.do(t, "GET", "/export/pdf", "")
	assert.Equal(t, fiber.StatusBadGateway, code)
	assert.Equal(t, "Error al exportar PDF. ¿Deseas intentar imprimir en su lugar?", env.Message)
	assert.JSONEq(t, `{"fallback":"/export/print"}`, string(env.Details))
}

func TestExportImageDownload(t *testing.T) {
	s := newTestServer(t, &stubDocs{image: []byte("\x89PNG\r\n\x1a\n")}, &stubText{})
	resp, err := s.app.Test(httptest.NewRequest("GET", "/export/png", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
}

func TestGenerateSummaryTask(t *testing.T) {
	s := newTestServer(t, &stubDocs{}, &stubText{})
	code, env := s.do(t, "POST", "/api/ai/summary", `{"jobTitle":"Desarrolladora"}`)
	require.Equal(t, fiber.StatusAccepted, code)

	var task usecase.Task
	require.NoError(t, json.Unmarshal(env.Data, &task))
	assert.Equal(t, usecase.TaskInProgress, task.Status)
	s.gen.Wait()

	code, env = s.do(t, "GET", "/api/ai/tasks/"+task.ID, "")
	require.Equal(t, fiber.StatusOK, code)
	require.NoError(t, json.Unmarshal(env.Data, &task))
	assert.Equal(t, usecase.TaskSucceeded, task.Status)
	assert.Equal(t, "Resumen generado", s.store.State().Data.ProfessionalSummary)
}

func TestGenerateSkillsAndExperience(t *testing.T) {
	s := newTestServer(t, &stubDocs{}, &stubText{})
	before := len(s.store.State().Data.Skills)

	code, _ := s.do(t, "POST", "/api/ai/skills", `{"jobTitle":"Backend"}`)
	require.Equal(t, fiber.StatusAccepted, code)
	code, _ = s.do(t, "POST", "/api/ai/experience/exp2", "")
	require.Equal(t, fiber.StatusAccepted, code)
	s.gen.Wait()

	st := s.store.State()
	assert.Len(t, st.Data.Skills, before+1)
	assert.Equal(t, "Descripción generada", st.Data.Experience[1].Description)
}

func TestGenerateValidation(t *testing.T) {
	s := newTestServer(t, &stubDocs{}, &stubText{})

	code, _ := s.do(t, "POST", "/api/ai/summary", `{"jobTitle":"   "}`)
	assert.Equal(t, fiber.StatusBadRequest, code)

	code, _ = s.do(t, "POST", "/api/ai/skills", `not json`)
	assert.Equal(t, fiber.StatusBadRequest, code)

	code, _ = s.do(t, "POST", "/api/ai/experience/nope", "")
	assert.Equal(t, fiber.StatusNotFound, code)

	code, _ = s.do(t, "GET", "/api/ai/tasks/nope", "")
	assert.Equal(t, fiber.StatusNotFound, code)
}

func TestGenerateWithoutCredentials(t *testing.T) {
	s := newTestServer(t, &stubDocs{}, &stubText{ready: &ai.ConfigError{Setting: "GEMINI_API_KEY"}})
	code, env := s.do(t, "POST", "/api/ai/summary", `{"jobTitle":"Desarrolladora"}`)
	assert.Equal(t, fiber.StatusServiceUnavailable, code)
	assert.Contains(t, env.Message, "GEMINI_API_KEY")
}

func TestListExportsWithoutHistory(t *testing.T) {
	s := newTestServer(t, &stubDocs{}, &stubText{})
	code, env := s.do(t, "GET", "/api/exports", "")
	assert.Equal(t, fiber.StatusOK, code)
	assert.JSONEq(t, `[]`, string(env.Data))

	code, _ = s.do(t, "GET", "/api/exports?limit=500", "")
	assert.Equal(t, fiber.StatusBadRequest, code)
}

func TestEventsSendsCurrentState(t *testing.T) {
	s := newTestServer(t, &stubDocs{}, &stubText{})
	s.h.Close()

	resp, err := s.app.Test(httptest.NewRequest("GET", "/api/events", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))
	assert.True(t, strings.HasPrefix(string(body), "event: state\ndata: {"))
	assert.Contains(t, string(body), "María García López")
}

func TestEventsDeliverNewestState(t *testing.T) {
	s := newTestServer(t, &stubDocs{}, &stubText{})

	type result struct {
		body string
		err  error
	}
	out := make(chan result, 1)
	go func() {
		resp, err := s.app.Test(httptest.NewRequest("GET", "/api/events", nil), -1)
		if err != nil {
			out <- result{err: err}
			return
		}
		defer resp.Body.Close()
		b, err := io.ReadAll(resp.Body)
		out <- result{body: string(b), err: err}
	}()
	time.Sleep(50 * time.Millisecond)

	for i := 0; i < 50; i++ {
		s.store.Dispatch(state.UpdateProfessionalSummary{Summary: fmt.Sprintf("borrador %d", i)})
	}
	s.store.Dispatch(state.UpdateProfessionalSummary{Summary: "Resumen final"})
	s.h.Close()

	var res result
	select {
	case res = <-out:
	case <-time.After(5 * time.Second):
		t.Fatal("event stream did not end")
	}
	require.NoError(t, res.err)

	var last string
	for _, line := range strings.Split(res.body, "\n") {
		if strings.HasPrefix(line, "data: ") {
			last = strings.TrimPrefix(line, "data: ")
		}
	}
	require.NotEmpty(t, last)
	var st domain.AppState
	require.NoError(t, json.Unmarshal([]byte(last), &st))
	assert.Equal(t, "Resumen final", st.Data.ProfessionalSummary)
}

func TestTaskPollingIsNotRateLimited(t *testing.T) {
	s := newLimitedTestServer(t, &stubDocs{}, &stubText{}, 1)
	code, env := s.do(t, "POST", "/api/ai/summary", `{"jobTitle":"Desarrolladora"}`)
	require.Equal(t, fiber.StatusAccepted, code)
	var task usecase.Task
	require.NoError(t, json.Unmarshal(env.Data, &task))

	for i := 0; i < 5; i++ {
		code, _ = s.do(t, "GET", "/api/ai/tasks/"+task.ID, "")
		assert.Equal(t, fiber.StatusOK, code)
	}

	code, _ = s.do(t, "POST", "/api/ai/skills", `{"jobTitle":"Desarrolladora"}`)
	assert.Equal(t, fiber.StatusTooManyRequests, code)
	s.gen.Wait()
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{&usecase.ErrNotFound{Kind: "task", ID: "x"}, fiber.StatusNotFound},
		{&usecase.ErrValidation{Field: "f"}, fiber.StatusBadRequest},
		{&state.DecodeError{Type: "ADD_SKILL", Cause: errors.New("x")}, fiber.StatusBadRequest},
		{&model.ValidationError{}, fiber.StatusBadRequest},
		{&ai.ConfigError{Setting: "AI_SERVICE_URL"}, fiber.StatusServiceUnavailable},
		{&usecase.ExportError{Format: domain.FormatPNG}, fiber.StatusBadGateway},
		{fiber.ErrNotFound, fiber.StatusNotFound},
		{errors.New("boom"), fiber.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, HTTPStatus(tt.err), "%T", tt.err)
	}
}
