package controller

import (
	"github.com/gofiber/fiber/v2"

	"pii-anonymizer-be/internal/dto"
	"pii-anonymizer-be/internal/pkg/serverutils"
	"pii-anonymizer-be/internal/service"
	"pii-anonymizer-be/pkg/apperrors"
)

type IAuthController interface {
	RegisterRoutes(r fiber.Router)
	Register(ctx *fiber.Ctx) error
	Login(ctx *fiber.Ctx) error
	Logout(ctx *fiber.Ctx) error
	Me(ctx *fiber.Ctx) error
}

type authController struct {
	service service.IAuthService
}

func NewAuthController(service service.IAuthService) IAuthController {
	return &authController{service: service}
}

func (c *authController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/auth")
	h.Post("/register", c.Register)
	h.Post("/login", c.Login)
	h.Post("/logout", serverutils.JwtMiddleware, c.Logout)
	h.Get("/me", serverutils.JwtMiddleware, c.Me)
}

func (c *authController) Register(ctx *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.Fail(ctx, apperrors.Wrap(apperrors.KindValidation, "malformed request body", err))
	}

	res, err := c.service.Register(ctx.Context(), &req)
	if err != nil {
		return serverutils.Fail(ctx, err)
	}
	return serverutils.Created(ctx, "User registered successfully", res)
}

func (c *authController) Login(ctx *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.Fail(ctx, apperrors.Wrap(apperrors.KindValidation, "malformed request body", err))
	}

	res, err := c.service.Login(ctx.Context(), &req)
	if err != nil {
		return serverutils.Fail(ctx, err)
	}
	return serverutils.OK(ctx, "Login successful", res)
}

func (c *authController) Logout(ctx *fiber.Ctx) error {
	actorID, err := serverutils.ActorID(ctx)
	if err != nil {
		return serverutils.Fail(ctx, apperrors.New(apperrors.KindAuthentication, "invalid token subject"))
	}

	if err := c.service.Logout(ctx.Context(), actorID); err != nil {
		return serverutils.Fail(ctx, err)
	}
	return serverutils.OK(ctx, "Logged out", nil)
}

func (c *authController) Me(ctx *fiber.Ctx) error {
	actorID, err := serverutils.ActorID(ctx)
	if err != nil {
		return serverutils.Fail(ctx, apperrors.New(apperrors.KindAuthentication, "invalid token subject"))
	}

	res, err := c.service.Me(ctx.Context(), actorID)
	if err != nil {
		return serverutils.Fail(ctx, err)
	}
	return serverutils.OK(ctx, "Profile fetched", res)
}
