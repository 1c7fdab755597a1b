package handler

import (
	"github.com/gofiber/fiber/v2"
)

// errorPayload is the standardized error response body: {"error": <message>}.
// Bare-status responses (401/403/204) carry no body at all.
type errorPayload struct {
	Error string `json:"error"`
}

// validationPayload carries field-level validation failures.
type validationPayload struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

// writeError writes the standard JSON error body without leaking internals.
func writeError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(errorPayload{Error: message})
}

// writeValidationError writes a 400 with per-field reasons.
func writeValidationError(c *fiber.Ctx, fields map[string]string) error {
	return c.Status(fiber.StatusBadRequest).JSON(validationPayload{
		Error:  "validation failed",
		Fields: fields,
	})
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		if e, ok := err.(*fiber.Error); ok {
			status = e.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "bad request")
		case fiber.StatusNotFound:
			return writeError(c, status, "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "method not allowed")
		default:
			return writeError(c, status, "internal server error")
		}
	}
}
