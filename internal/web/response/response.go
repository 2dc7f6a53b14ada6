// Package response writes the JSON envelope shared by every API endpoint.
package response

import (
	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/digiflydk/studio-sub001/internal/db/controller/document"
	"github.com/digiflydk/studio-sub001/internal/db/controller/header"
	"github.com/digiflydk/studio-sub001/internal/validation"
)

// Error codes.
const (
	CodeValidation  = "validation_failed"
	CodeBadRequest  = "bad_request"
	CodeNotFound    = "not_found"
	CodeCredentials = "credentials_unavailable"
	CodeInternal    = "internal"
)

type (
	// Success is the envelope of a successful call.
	Success struct {
		OK   bool `json:"ok"`
		Data any  `json:"data"`
	}

	// Failure is the envelope of a failed call.
	Failure struct {
		OK      bool   `json:"ok"`
		Error   string `json:"error"`
		Message string `json:"message"`
		Details any    `json:"details,omitempty"`
	}
)

// OK writes data with status 200.
func OK(c *fiber.Ctx, data any) error {
	return c.Status(fiber.StatusOK).JSON(Success{OK: true, Data: data})
}

// Fail writes a failure envelope.
func Fail(c *fiber.Ctx, status int, code, message string, details any) error {
	return c.Status(status).JSON(Failure{Error: code, Message: message, Details: details})
}

// BadRequest writes a bad_request failure.
func BadRequest(c *fiber.Ctx, message string) error {
	return Fail(c, fiber.StatusBadRequest, CodeBadRequest, message, nil)
}

// Classify maps an error to its status, code and public message.
func Classify(err error) (int, string, string) {
	var verr *validation.Error

	switch {
	case errors.As(err, &verr):
		return fiber.StatusBadRequest, CodeValidation, "validation failed"
	case errors.Is(err, header.ErrNoHeaderSection):
		return fiber.StatusBadRequest, CodeBadRequest, header.ErrNoHeaderSection.Error()
	case errors.Is(err, document.ErrInvalidPath), errors.Is(err, document.ErrNotObject):
		return fiber.StatusBadRequest, CodeBadRequest, "invalid document"
	case errors.Is(err, header.ErrGeneralMissing):
		return fiber.StatusNotFound, CodeNotFound, header.ErrGeneralMissing.Error()
	case errors.Is(err, document.ErrNotFound):
		return fiber.StatusNotFound, CodeNotFound, "document not found"
	case errors.Is(err, document.ErrCredentials), errors.Is(err, document.ErrReadOnly):
		return fiber.StatusServiceUnavailable, CodeCredentials, "admin credentials unavailable"
	default:
		return fiber.StatusInternalServerError, CodeInternal, "internal error"
	}
}

// FromError writes the failure envelope for err. Internal error text is
// only exposed when dev is set; it is always logged.
func FromError(c *fiber.Ctx, err error, dev bool) error {
	status, code, message := Classify(err)

	var details any

	var verr *validation.Error
	if errors.As(err, &verr) {
		details = verr.Fields
	}

	if status >= fiber.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Path()).Str("code", code).Msg("request failed")
	} else {
		log.Debug().Err(err).Str("path", c.Path()).Str("code", code).Msg("request rejected")
	}

	if dev && details == nil {
		message = err.Error()
	}

	return Fail(c, status, code, message, details)
}
