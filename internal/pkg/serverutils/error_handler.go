package serverutils

import (
	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware converts errors escaping a handler into the
// standard response envelope. Controllers normally respond themselves; this
// is the safety net for middleware and parser errors.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}
		if _, ok := err.(*fiber.Error); ok {
			return err
		}
		return Fail(ctx, err)
	}
}
