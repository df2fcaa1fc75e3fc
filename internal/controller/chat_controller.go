package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"pii-anonymizer-be/internal/dto"
	"pii-anonymizer-be/internal/pkg/serverutils"
	"pii-anonymizer-be/internal/service"
	"pii-anonymizer-be/pkg/apperrors"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	Ask(ctx *fiber.Ctx) error
	History(ctx *fiber.Ctx) error
	Clear(ctx *fiber.Ctx) error
	Suggestions(ctx *fiber.Ctx) error
}

type chatController struct {
	chatService service.IChatService
}

func NewChatController(chatService service.IChatService) IChatController {
	return &chatController{chatService: chatService}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/sessions")
	h.Use(serverutils.JwtMiddleware)
	h.Post(":id/chat", c.Ask)
	h.Get(":id/chat/history", c.History)
	h.Delete(":id/chat/history", c.Clear)
	h.Get(":id/chat/suggestions", c.Suggestions)
}

func (c *chatController) Ask(ctx *fiber.Ctx) error {
	actorID, err := serverutils.ActorID(ctx)
	if err != nil {
		return serverutils.Fail(ctx, apperrors.New(apperrors.KindAuthentication, "invalid token subject"))
	}
	sessionID, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.Fail(ctx, apperrors.New(apperrors.KindValidation, "invalid session id"))
	}

	var req dto.ChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.Fail(ctx, apperrors.Wrap(apperrors.KindValidation, "malformed request body", err))
	}

	res, err := c.chatService.Ask(ctx.Context(), actorID, sessionID, &req)
	if err != nil {
		return serverutils.Fail(ctx, err)
	}
	return serverutils.OK(ctx, "Answer composed", res)
}

func (c *chatController) History(ctx *fiber.Ctx) error {
	actorID, err := serverutils.ActorID(ctx)
	if err != nil {
		return serverutils.Fail(ctx, apperrors.New(apperrors.KindAuthentication, "invalid token subject"))
	}
	sessionID, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.Fail(ctx, apperrors.New(apperrors.KindValidation, "invalid session id"))
	}

	res, err := c.chatService.History(ctx.Context(), actorID, sessionID)
	if err != nil {
		return serverutils.Fail(ctx, err)
	}
	return serverutils.OK(ctx, "Transcript fetched", res)
}

func (c *chatController) Clear(ctx *fiber.Ctx) error {
	actorID, err := serverutils.ActorID(ctx)
	if err != nil {
		return serverutils.Fail(ctx, apperrors.New(apperrors.KindAuthentication, "invalid token subject"))
	}
	sessionID, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.Fail(ctx, apperrors.New(apperrors.KindValidation, "invalid session id"))
	}

	if err := c.chatService.Clear(ctx.Context(), actorID, sessionID); err != nil {
		return serverutils.Fail(ctx, err)
	}
	return serverutils.OK(ctx, "Transcript cleared", nil)
}

func (c *chatController) Suggestions(ctx *fiber.Ctx) error {
	actorID, err := serverutils.ActorID(ctx)
	if err != nil {
		return serverutils.Fail(ctx, apperrors.New(apperrors.KindAuthentication, "invalid token subject"))
	}
	sessionID, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.Fail(ctx, apperrors.New(apperrors.KindValidation, "invalid session id"))
	}

	res, err := c.chatService.Suggestions(ctx.Context(), actorID, sessionID)
	if err != nil {
		return serverutils.Fail(ctx, err)
	}
	return serverutils.OK(ctx, "Suggestions generated", res)
}
