package http

import (
	"errors"

	"cv-builder/internal/model"
	"cv-builder/internal/state"
	"cv-builder/internal/usecase"
	"cv-builder/pkg/ai"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		fe     *fiber.Error
		nf     *usecase.ErrNotFound
		ve     *usecase.ErrValidation
		de     *state.DecodeError
		se     *model.ValidationError
		fields validator.ValidationErrors
		ee     *usecase.ExportError
	)
	switch {
	case err == nil:
		return fiber.StatusOK
	case errors.As(err, &fe):
		return fe.Code
	case errors.As(err, &nf):
		return fiber.StatusNotFound
	case errors.As(err, &ve), errors.As(err, &de), errors.As(err, &se), errors.As(err, &fields):
		return fiber.StatusBadRequest
	case errors.Is(err, ai.ErrMissingCredentials):
		return fiber.StatusServiceUnavailable
	case errors.As(err, &ee):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

// UserMessage is the Spanish message shown for err.
func UserMessage(err error) string {
	var (
		fe *fiber.Error
		nf *usecase.ErrNotFound
		ee *usecase.ExportError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &fe):
		return fe.Message
	case errors.Is(err, ai.ErrMissingCredentials):
		return ai.UserMessage(err)
	case errors.As(err, &ee):
		return ee.UserMessage()
	case errors.As(err, &nf):
		return "No se encontró el elemento solicitado."
	case HTTPStatus(err) == fiber.StatusBadRequest:
		return "Solicitud inválida."
	default:
		return "Error interno del servidor."
	}
}
