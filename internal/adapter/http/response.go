package http

import (
	"github.com/gofiber/fiber/v2"
)

type successResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

type errorResponse struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	DevMessage string `json:"dev_message,omitempty"`
	Details    any    `json:"details,omitempty"`
}

func respond(c *fiber.Ctx, code int, message string, data any) error {
	return c.Status(code).JSON(successResponse{Success: true, Message: message, Data: data})
}

// fail writes the error envelope. dev_message is only filled outside
// production.
func (h *Handler) fail(c *fiber.Ctx, err error, details any) error {
	resp := errorResponse{
		Success: false,
		Message: UserMessage(err),
		Details: details,
	}
	if !h.production && err != nil {
		resp.DevMessage = err.Error()
	}
	return c.Status(HTTPStatus(err)).JSON(resp)
}
