package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/yulclaims/claim_service/internal/api/rest/middleware"
	"github.com/yulclaims/claim_service/internal/dto"
	"github.com/yulclaims/claim_service/internal/helper"
	"github.com/yulclaims/claim_service/internal/helper/utils"
	"github.com/yulclaims/claim_service/internal/services"
)

type UserHandler struct {
	svc  services.UserService
	auth helper.Auth
}

func NewUserHandler(svc services.UserService, auth helper.Auth) *UserHandler {
	return &UserHandler{svc: svc, auth: auth}
}

func (h *UserHandler) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	api.Post("/register", h.Register)
	api.Post("/login", h.Login)

	authed := api.Group("", middleware.AuthMiddleware(h.auth))
	authed.Get("/me", h.Me)
	authed.Get("/admin/users", middleware.SeniorAdminOnly(h.svc), h.ListUsers)
	authed.Put("/admin/users/:userID/role", middleware.SeniorAdminOnly(h.svc), h.SetRole)
}

func (h *UserHandler) Register(ctx *fiber.Ctx) error {
	var requestBody dto.RegisterRequest
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Please provide valid inputs")
	}

	meta := dto.RequestMeta{
		IPAddress: ctx.IP(),
		UserAgent: ctx.Get("User-Agent"),
	}
	if err := h.svc.Register(requestBody, meta); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, "User registered successfully")
}

func (h *UserHandler) Login(ctx *fiber.Ctx) error {
	var requestBody dto.LoginRequest
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "email and password are required")
	}

	user, token, err := h.svc.Login(requestBody)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "Invalid email or password")
	}

	return utils.ResponseSuccess(ctx, fiber.StatusOK, fiber.Map{
		"token": token,
		"user": fiber.Map{
			"id":    user.ID,
			"email": user.Email,
			"name":  user.DisplayName,
			"role":  user.Role,
		},
	})
}

func (h *UserHandler) Me(ctx *fiber.Ctx) error {
	user, err := h.svc.Authenticate(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, err.Error())
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, user)
}

func (h *UserHandler) ListUsers(ctx *fiber.Ctx) error {
	limit := ctx.QueryInt("limit", 50)
	offset := ctx.QueryInt("offset", 0)

	users, err := h.svc.ListUsers(limit, offset)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusInternalServerError, err.Error())
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, users)
}

func (h *UserHandler) SetRole(ctx *fiber.Ctx) error {
	userID, err := strconv.ParseUint(ctx.Params("userID"), 10, 32)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "invalid user id")
	}

	var requestBody dto.SetRoleRequest
	if err := ctx.BodyParser(&requestBody); err != nil || requestBody.Role == "" {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "role is required")
	}

	adminID, _ := ctx.Locals("userID").(uint)

	if err := h.svc.SetRole(adminID, uint(userID), requestBody.Role); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, "Role updated")
}
