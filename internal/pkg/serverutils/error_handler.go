package serverutils

import (
	"errors"

	"docchat-client/internal/entity"
	"docchat-client/pkg/backend"

	"github.com/gofiber/fiber/v2"
)

// StatusFor maps domain and backend errors to HTTP status codes.
func StatusFor(err error) int {
	var fe *fiber.Error
	var ve *ValidationError
	var be *backend.Error

	switch {
	case errors.As(err, &fe):
		return fe.Code
	case errors.As(err, &ve),
		errors.Is(err, entity.ErrEmptyMessage),
		errors.Is(err, entity.ErrUnsupportedFile):
		return fiber.StatusBadRequest
	case errors.Is(err, entity.ErrSessionNotFound),
		errors.Is(err, entity.ErrDocumentNotFound),
		errors.Is(err, entity.ErrMessageNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, entity.ErrSendInProgress),
		errors.Is(err, entity.ErrSelectionStale):
		return fiber.StatusConflict
	case errors.Is(err, entity.ErrDuplicateReply),
		errors.Is(err, backend.ErrMalformedResponse):
		return fiber.StatusBadGateway
	case errors.As(err, &be):
		if be.Status == fiber.StatusNotFound {
			return fiber.StatusNotFound
		}
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}
		code := StatusFor(err)
		return ctx.Status(code).JSON(ErrorResponse(code, err.Error()))
	}
}
