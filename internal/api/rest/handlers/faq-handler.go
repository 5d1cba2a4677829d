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

type FaqHandler struct {
	svc     services.FaqService
	userSvc services.UserService
	auth    helper.Auth
}

func NewFaqHandler(svc services.FaqService, userSvc services.UserService, auth helper.Auth) *FaqHandler {
	return &FaqHandler{svc: svc, userSvc: userSvc, auth: auth}
}

func (h *FaqHandler) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	api.Get("/faqs", h.ListFaqs)
	api.Post("/chatbot", h.Chatbot)
	api.Post("/voice-search", h.VoiceSearch)

	admin := api.Group("/admin/faqs", middleware.AuthMiddleware(h.auth), middleware.SeniorAdminOnly(h.userSvc))
	admin.Post("/", h.CreateFaq)
	admin.Put("/:id", h.UpdateFaq)
	admin.Delete("/:id", h.DeleteFaq)
}

func (h *FaqHandler) ListFaqs(ctx *fiber.Ctx) error {
	faqs, err := h.svc.ListFaqs(ctx.Query("search"))
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusInternalServerError, err.Error())
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, faqs)
}

func (h *FaqHandler) Chatbot(ctx *fiber.Ctx) error {
	var requestBody dto.ChatbotRequest
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "query is required")
	}

	resp, err := h.svc.Chatbot(ctx.Context(), requestBody.Query)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
	}
	// A fallback answer still reaches the caller, flagged as a provider
	// failure.
	if !resp.IsHelpful {
		return utils.ResponseSuccess(ctx, fiber.StatusInternalServerError, resp)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, resp)
}

func (h *FaqHandler) VoiceSearch(ctx *fiber.Ctx) error {
	var requestBody dto.VoiceSearchRequest
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "transcript is required")
	}

	resp, err := h.svc.VoiceSearch(ctx.Context(), requestBody.Transcript)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, resp)
}

func (h *FaqHandler) CreateFaq(ctx *fiber.Ctx) error {
	var requestBody dto.FaqRequest
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Please provide valid inputs")
	}

	faq, err := h.svc.CreateFaq(requestBody)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, faq)
}

func (h *FaqHandler) UpdateFaq(ctx *fiber.Ctx) error {
	id, err := strconv.ParseUint(ctx.Params("id"), 10, 32)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "invalid faq id")
	}

	var requestBody dto.FaqRequest
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Please provide valid inputs")
	}

	faq, err := h.svc.UpdateFaq(uint(id), requestBody)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, faq)
}

func (h *FaqHandler) DeleteFaq(ctx *fiber.Ctx) error {
	id, err := strconv.ParseUint(ctx.Params("id"), 10, 32)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "invalid faq id")
	}

	if err := h.svc.DeleteFaq(uint(id)); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, "FAQ removed")
}
