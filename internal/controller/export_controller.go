package controller

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"pii-anonymizer-be/internal/pkg/serverutils"
	"pii-anonymizer-be/internal/service"
	"pii-anonymizer-be/pkg/apperrors"
)

type IExportController interface {
	RegisterRoutes(r fiber.Router)
	Export(ctx *fiber.Ctx) error
}

type exportController struct {
	exportService service.IExportService
}

func NewExportController(exportService service.IExportService) IExportController {
	return &exportController{exportService: exportService}
}

func (c *exportController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/sessions")
	h.Use(serverutils.JwtMiddleware)
	h.Get(":id/export", c.Export)
}

// Export streams the rendered document back as a download. The format comes
// from the query string and defaults to txt.
func (c *exportController) Export(ctx *fiber.Ctx) error {
	actorID, err := serverutils.ActorID(ctx)
	if err != nil {
		return serverutils.Fail(ctx, apperrors.New(apperrors.KindAuthentication, "invalid token subject"))
	}
	sessionID, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.Fail(ctx, apperrors.New(apperrors.KindValidation, "invalid session id"))
	}

	format := ctx.Query("format", "txt")

	res, err := c.exportService.Export(ctx.Context(), actorID, sessionID, format)
	if err != nil {
		return serverutils.Fail(ctx, err)
	}

	ctx.Set(fiber.HeaderContentType, res.ContentType)
	ctx.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", res.Filename))
	return ctx.Send(res.Data)
}
