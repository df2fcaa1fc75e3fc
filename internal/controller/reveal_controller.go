package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"pii-anonymizer-be/internal/dto"
	"pii-anonymizer-be/internal/pkg/serverutils"
	"pii-anonymizer-be/internal/service"
	"pii-anonymizer-be/pkg/apperrors"
)

type IRevealController interface {
	RegisterRoutes(r fiber.Router)
	Reveal(ctx *fiber.Ctx) error
	Status(ctx *fiber.Ctx) error
	AuditLog(ctx *fiber.Ctx) error
}

type revealController struct {
	revealService service.IRevealService
}

func NewRevealController(revealService service.IRevealService) IRevealController {
	return &revealController{revealService: revealService}
}

func (c *revealController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/sessions")
	h.Use(serverutils.JwtMiddleware)
	h.Post(":id/reveal", c.Reveal)
	h.Get(":id/reveal/status", c.Status)
	h.Get(":id/audit", c.AuditLog)
}

func (c *revealController) Reveal(ctx *fiber.Ctx) error {
	actorID, err := serverutils.ActorID(ctx)
	if err != nil {
		return serverutils.Fail(ctx, apperrors.New(apperrors.KindAuthentication, "invalid token subject"))
	}
	sessionID, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.Fail(ctx, apperrors.New(apperrors.KindValidation, "invalid session id"))
	}

	var req dto.RevealRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.Fail(ctx, apperrors.Wrap(apperrors.KindValidation, "malformed request body", err))
	}

	res, err := c.revealService.Reveal(ctx.Context(), actorID, sessionID, &req)
	if err != nil {
		return serverutils.Fail(ctx, err)
	}
	return serverutils.OK(ctx, "Original text revealed", res)
}

func (c *revealController) Status(ctx *fiber.Ctx) error {
	actorID, err := serverutils.ActorID(ctx)
	if err != nil {
		return serverutils.Fail(ctx, apperrors.New(apperrors.KindAuthentication, "invalid token subject"))
	}
	sessionID, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.Fail(ctx, apperrors.New(apperrors.KindValidation, "invalid session id"))
	}

	res, err := c.revealService.Status(ctx.Context(), actorID, sessionID)
	if err != nil {
		return serverutils.Fail(ctx, err)
	}
	return serverutils.OK(ctx, "Reveal status fetched", res)
}

func (c *revealController) AuditLog(ctx *fiber.Ctx) error {
	actorID, err := serverutils.ActorID(ctx)
	if err != nil {
		return serverutils.Fail(ctx, apperrors.New(apperrors.KindAuthentication, "invalid token subject"))
	}
	sessionID, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.Fail(ctx, apperrors.New(apperrors.KindValidation, "invalid session id"))
	}

	res, err := c.revealService.AuditLog(ctx.Context(), actorID, sessionID)
	if err != nil {
		return serverutils.Fail(ctx, err)
	}
	return serverutils.OK(ctx, "Audit log fetched", res)
}
