package serverutils

import (
	"errors"

	"site-content-be/pkg/editor"
	"site-content-be/pkg/fonts"
	"site-content-be/pkg/lexical"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// StatusError is implemented by service errors that carry their HTTP status.
type StatusError interface {
	error
	StatusCode() int
}

// ErrorHandlerMiddleware converts errors returned by handlers into the
// BaseResponse envelope.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}
		return WriteError(ctx, err)
	}
}

// WriteError renders err with the status it maps to.
func WriteError(ctx *fiber.Ctx, err error) error {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		return ctx.Status(fiber.StatusBadRequest).
			JSON(ErrorResponseWithData(fiber.StatusBadRequest, "Validation failed", validationMessages(validationErrs)))
	}

	code := StatusFor(err)
	message := err.Error()
	if code == fiber.StatusInternalServerError {
		message = "Internal server error"
	}
	return ctx.Status(code).JSON(ErrorResponse(code, message))
}

// StatusFor maps an error to an HTTP status code.
func StatusFor(err error) int {
	var fiberErr *fiber.Error
	var statusErr StatusError
	var invalidArg *editor.InvalidArgumentError
	var malformed *lexical.MalformedDocumentError
	var malformedNode *lexical.MalformedNodeError
	var fontErr *fonts.FontLoadError

	switch {
	case errors.As(err, &fiberErr):
		return fiberErr.Code
	case errors.As(err, &statusErr):
		return statusErr.StatusCode()
	case errors.As(err, &invalidArg):
		return fiber.StatusBadRequest
	case errors.As(err, &malformed), errors.As(err, &malformedNode):
		return fiber.StatusUnprocessableEntity
	case errors.As(err, &fontErr):
		if fontErr.Op == "validate" {
			return fiber.StatusBadRequest
		}
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}
