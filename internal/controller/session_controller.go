package controller

import (
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"pii-anonymizer-be/internal/pkg/serverutils"
	"pii-anonymizer-be/internal/service"
	"pii-anonymizer-be/pkg/apperrors"
	"pii-anonymizer-be/pkg/extract"
)

type ISessionController interface {
	RegisterRoutes(r fiber.Router)
	Upload(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type sessionController struct {
	sessionService service.ISessionService
}

func NewSessionController(sessionService service.ISessionService) ISessionController {
	return &sessionController{
		sessionService: sessionService,
	}
}

func (c *sessionController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/sessions")
	h.Use(serverutils.JwtMiddleware)
	h.Post("/upload", c.Upload)
	h.Get("", c.List)
	h.Get(":id", c.Show)
	h.Delete(":id", c.Delete)
}

func (c *sessionController) Upload(ctx *fiber.Ctx) error {
	actorID, err := serverutils.ActorID(ctx)
	if err != nil {
		return serverutils.Fail(ctx, apperrors.New(apperrors.KindAuthentication, "invalid token subject"))
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return serverutils.Fail(ctx, apperrors.New(apperrors.KindValidation, "missing multipart field 'file'"))
	}
	if fileHeader.Size > extract.MaxFileSize {
		return serverutils.Fail(ctx, apperrors.New(apperrors.KindValidation, "file exceeds the 10MB limit"))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return serverutils.Fail(ctx, err)
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return serverutils.Fail(ctx, err)
	}

	res, err := c.sessionService.Upload(ctx.Context(), actorID, fileHeader.Filename, content)
	if err != nil {
		return serverutils.Fail(ctx, err)
	}
	return serverutils.Created(ctx, "Document anonymized", res)
}

func (c *sessionController) List(ctx *fiber.Ctx) error {
	actorID, err := serverutils.ActorID(ctx)
	if err != nil {
		return serverutils.Fail(ctx, apperrors.New(apperrors.KindAuthentication, "invalid token subject"))
	}

	res, err := c.sessionService.List(ctx.Context(), actorID)
	if err != nil {
		return serverutils.Fail(ctx, err)
	}
	return serverutils.OK(ctx, "Sessions fetched", res)
}

func (c *sessionController) Show(ctx *fiber.Ctx) error {
	actorID, err := serverutils.ActorID(ctx)
	if err != nil {
		return serverutils.Fail(ctx, apperrors.New(apperrors.KindAuthentication, "invalid token subject"))
	}
	sessionID, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.Fail(ctx, apperrors.New(apperrors.KindValidation, "invalid session id"))
	}

	res, err := c.sessionService.Get(ctx.Context(), actorID, sessionID)
	if err != nil {
		return serverutils.Fail(ctx, err)
	}
	return serverutils.OK(ctx, "Session fetched", res)
}

func (c *sessionController) Delete(ctx *fiber.Ctx) error {
	actorID, err := serverutils.ActorID(ctx)
	if err != nil {
		return serverutils.Fail(ctx, apperrors.New(apperrors.KindAuthentication, "invalid token subject"))
	}
	sessionID, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.Fail(ctx, apperrors.New(apperrors.KindValidation, "invalid session id"))
	}

	if err := c.sessionService.Delete(ctx.Context(), actorID, sessionID); err != nil {
		return serverutils.Fail(ctx, err)
	}
	return serverutils.OK(ctx, "Session deleted", nil)
}
