package serverutils

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"pii-anonymizer-be/pkg/apperrors"
)

func OK(ctx *fiber.Ctx, message string, data interface{}) error {
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    fiber.StatusOK,
		"message": message,
		"data":    data,
	})
}

func Created(ctx *fiber.Ctx, message string, data interface{}) error {
	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"code":    fiber.StatusCreated,
		"message": message,
		"data":    data,
	})
}

func statusForKind(kind apperrors.Kind) int {
	switch kind {
	case apperrors.KindValidation, apperrors.KindDetectionInput:
		return fiber.StatusBadRequest
	case apperrors.KindAuthentication:
		return fiber.StatusUnauthorized
	case apperrors.KindAuthorization:
		return fiber.StatusForbidden
	case apperrors.KindNotFound:
		return fiber.StatusNotFound
	case apperrors.KindRateLimit:
		return fiber.StatusTooManyRequests
	case apperrors.KindVaultUnavailable, apperrors.KindAuditWrite:
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

// Fail maps a service error onto the response envelope. Rate-limit errors
// additionally carry a Retry-After header.
func Fail(ctx *fiber.Ctx, err error) error {
	status := statusForKind(apperrors.KindOf(err))

	var appErr *apperrors.Error
	if errors.As(err, &appErr) && appErr.RetryAfter > 0 {
		ctx.Set(fiber.HeaderRetryAfter, strconv.Itoa(int(appErr.RetryAfter.Seconds())))
	}

	message := err.Error()
	if status == fiber.StatusInternalServerError {
		message = "internal error"
	}

	return ctx.Status(status).JSON(fiber.Map{
		"success": false,
		"code":    status,
		"message": message,
	})
}
