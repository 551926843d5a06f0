package serverutils

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"docgrounder-be/pkg/apperr"
)

// ErrorHandlerMiddleware converts service errors bubbling out of handlers
// into the standard response envelope. Kind drives the HTTP status; anything
// unclassified is a 500 with a generic message.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var verr *ValidationError
		if errors.As(err, &verr) {
			return ctx.Status(fiber.StatusBadRequest).JSON(ErrorResponse(fiber.StatusBadRequest, verr.Error()))
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Code, fiberErr.Message))
		}

		var aerr *apperr.Error
		if errors.As(err, &aerr) {
			status := statusForKind(aerr.Kind)
			message := aerr.Message
			if status == fiber.StatusInternalServerError {
				message = "Internal server error"
			}
			return ctx.Status(status).JSON(ErrorResponse(status, message))
		}

		return ctx.Status(fiber.StatusInternalServerError).
			JSON(ErrorResponse(fiber.StatusInternalServerError, "Internal server error"))
	}
}

func statusForKind(kind apperr.Kind) int {
	switch kind {
	case apperr.KindInvalidFormat:
		return fiber.StatusUnsupportedMediaType
	case apperr.KindCorruptInput:
		return fiber.StatusUnprocessableEntity
	case apperr.KindSessionNotFound, apperr.KindDocumentNotFound:
		return fiber.StatusNotFound
	case apperr.KindSessionNotReady:
		return fiber.StatusConflict
	case apperr.KindQueueUnavailable, apperr.KindEmbeddingUnavailable, apperr.KindGenerationUnavailable:
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}
