package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/shubh-37/social-strategist/internal/agents"
	"github.com/shubh-37/social-strategist/internal/errs"
	"github.com/shubh-37/social-strategist/internal/session"
)

// StatusFor maps a planner error to an HTTP status.
func StatusFor(err error) int {
	var classified *errs.Error
	switch {
	case errors.Is(err, agents.ErrInvalidInput):
		return fiber.StatusBadRequest
	case errors.Is(err, session.ErrPostNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, session.ErrBusy):
		return fiber.StatusConflict
	case errors.As(err, &classified):
		if classified.Kind == errs.KindTransportFailure {
			return fiber.StatusServiceUnavailable
		}
		return fiber.StatusBadGateway
	}
	return fiber.StatusInternalServerError
}

func (h *Handler) fail(c *fiber.Ctx, err error) error {
	status := StatusFor(err)
	body := fiber.Map{"error": err.Error()}

	var classified *errs.Error
	if errors.As(err, &classified) {
		body["kind"] = classified.Kind
		body["message"] = classified.Message()
	}
	if status >= fiber.StatusInternalServerError {
		h.logger.Warn("Request failed", h.fields(c, err)...)
	}
	return c.Status(status).JSON(body)
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}
