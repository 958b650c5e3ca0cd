package http

import (
	"context"
	"errors"
	"strings"
	"sync"

	"cv-builder/internal/domain"
	"cv-builder/internal/model"
	"cv-builder/internal/state"
	"cv-builder/internal/usecase"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// ExportHistory lists recorded exports.
type ExportHistory interface {
	Recent(ctx context.Context, limit int) ([]domain.ExportJob, error)
}

type Handler struct {
	store      *state.Store
	exporter   *usecase.Exporter
	generator  *usecase.Generator
	history    ExportHistory
	validate   *validator.Validate
	production bool

	done      chan struct{}
	closeOnce sync.Once
}

// NewHandler wires the HTTP surface. history may be nil.
func NewHandler(store *state.Store, exporter *usecase.Exporter, generator *usecase.Generator, history ExportHistory, production bool) *Handler {
	return &Handler{
		store:      store,
		exporter:   exporter,
		generator:  generator,
		history:    history,
		validate:   validator.New(),
		production: production,
		done:       make(chan struct{}),
	}
}

// Close ends open event streams.
func (h *Handler) Close() {
	h.closeOnce.Do(func() { close(h.done) })
}

func (h *Handler) GetState(c *fiber.Ctx) error {
	return respond(c, fiber.StatusOK, "ok", h.store.State())
}

// Dispatch applies one wire action and returns the resulting state.
func (h *Handler) Dispatch(c *fiber.Ctx) error {
	a, err := state.DecodeAction(c.Body())
	if err != nil {
		return h.fail(c, err, nil)
	}
	next := h.store.Dispatch(prepareAction(a))
	return respond(c, fiber.StatusOK, a.Type(), next)
}

// prepareAction gives Add actions without an item id a fresh one and fills
// the defaults of a loaded state, as POST /api/state/load does.
func prepareAction(a state.Action) state.Action {
	switch v := a.(type) {
	case state.LoadData:
		v.State = v.State.WithDefaults()
		return v
	case state.AddEducation:
		if v.Item.ID == "" {
			v.Item.ID = uuid.NewString()
		}
		return v
	case state.AddExperience:
		if v.Item.ID == "" {
			v.Item.ID = uuid.NewString()
		}
		return v
	case state.AddSkill:
		if v.Item.ID == "" {
			v.Item.ID = uuid.NewString()
		}
		return v
	case state.AddLanguage:
		if v.Item.ID == "" {
			v.Item.ID = uuid.NewString()
		}
		return v
	case state.AddCertification:
		if v.Item.ID == "" {
			v.Item.ID = uuid.NewString()
		}
		return v
	}
	return a
}

func (h *Handler) LoadState(c *fiber.Ctx) error {
	st, err := model.DecodeState(c.Body())
	if err != nil {
		var verr *model.ValidationError
		if errors.As(err, &verr) {
			return h.fail(c, err, verr.Fields)
		}
		return h.fail(c, &usecase.ErrValidation{Field: "body", Message: err.Error()}, nil)
	}
	next := h.store.Dispatch(state.LoadData{State: st})
	return respond(c, fiber.StatusOK, state.TypeLoadData, next)
}

func (h *Handler) ClearState(c *fiber.Ctx) error {
	next := h.store.Dispatch(state.ClearAllData{})
	return respond(c, fiber.StatusOK, state.TypeClearAllData, next)
}

func (h *Handler) Preview(c *fiber.Ctx) error {
	html, err := h.exporter.Preview(h.store.State())
	if err != nil {
		return h.fail(c, err, nil)
	}
	c.Type("html", "utf-8")
	return c.SendString(html)
}

func (h *Handler) Print(c *fiber.Ctx) error {
	html, err := h.exporter.PrintView(h.store.State())
	if err != nil {
		return h.fail(c, err, nil)
	}
	c.Type("html", "utf-8")
	return c.SendString(html)
}

func (h *Handler) ExportPDF(c *fiber.Ctx) error {
	art, err := h.exporter.ExportPDF(c.UserContext(), h.store.State())
	if err != nil {
		return h.exportFailed(c, err)
	}
	return sendArtifact(c, art)
}

func (h *Handler) ExportImage(format domain.ExportFormat) fiber.Handler {
	return func(c *fiber.Ctx) error {
		art, err := h.exporter.ExportImage(c.UserContext(), h.store.State(), format)
		if err != nil {
			return h.exportFailed(c, err)
		}
		return sendArtifact(c, art)
	}
}

func (h *Handler) exportFailed(c *fiber.Ctx, err error) error {
	var ee *usecase.ExportError
	if errors.As(err, &ee) && ee.Fallback == domain.FormatPrint {
		return h.fail(c, err, fiber.Map{"fallback": "/export/print"})
	}
	return h.fail(c, err, nil)
}

func sendArtifact(c *fiber.Ctx, art usecase.Artifact) error {
	c.Attachment(art.Filename)
	c.Set(fiber.HeaderContentType, art.ContentType)
	if art.Location != "" {
		c.Set("X-Export-Location", art.Location)
	}
	return c.Send(art.Data)
}

type jobTitleRequest struct {
	JobTitle string `json:"jobTitle" validate:"required,max=200"`
}

func (h *Handler) parseJobTitle(c *fiber.Ctx) (string, error) {
	var req jobTitleRequest
	if err := c.BodyParser(&req); err != nil {
		return "", &usecase.ErrValidation{Field: "body", Message: "invalid payload"}
	}
	req.JobTitle = strings.TrimSpace(req.JobTitle)
	if err := h.validate.Struct(req); err != nil {
		return "", err
	}
	return req.JobTitle, nil
}

func (h *Handler) GenerateSummary(c *fiber.Ctx) error {
	title, err := h.parseJobTitle(c)
	if err != nil {
		return h.fail(c, err, nil)
	}
	task, err := h.generator.StartSummary(title)
	if err != nil {
		return h.fail(c, err, nil)
	}
	return respond(c, fiber.StatusAccepted, "generation started", task)
}

func (h *Handler) GenerateExperience(c *fiber.Ctx) error {
	task, err := h.generator.StartExperience(c.Params("id"))
	if err != nil {
		return h.fail(c, err, nil)
	}
	return respond(c, fiber.StatusAccepted, "generation started", task)
}

func (h *Handler) SuggestSkills(c *fiber.Ctx) error {
	title, err := h.parseJobTitle(c)
	if err != nil {
		return h.fail(c, err, nil)
	}
	task, err := h.generator.StartSkills(title)
	if err != nil {
		return h.fail(c, err, nil)
	}
	return respond(c, fiber.StatusAccepted, "generation started", task)
}

func (h *Handler) GetTask(c *fiber.Ctx) error {
	id := c.Params("id")
	task, ok := h.generator.Tasks().Get(id)
	if !ok {
		return h.fail(c, &usecase.ErrNotFound{Kind: "task", ID: id}, nil)
	}
	return respond(c, fiber.StatusOK, string(task.Status), task)
}

func (h *Handler) ListExports(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 20)
	if limit < 1 || limit > 100 {
		return h.fail(c, &usecase.ErrValidation{Field: "limit", Message: "must be between 1 and 100"}, nil)
	}
	jobs := []domain.ExportJob{}
	if h.history != nil {
		recent, err := h.history.Recent(c.UserContext(), limit)
		if err != nil {
			return h.fail(c, err, nil)
		}
		jobs = recent
	}
	return respond(c, fiber.StatusOK, "ok", jobs)
}
