package handlers

import (
	"mime/multipart"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/yulclaims/claim_service/internal/api/rest/middleware"
	"github.com/yulclaims/claim_service/internal/dto"
	"github.com/yulclaims/claim_service/internal/helper"
	"github.com/yulclaims/claim_service/internal/helper/utils"
	"github.com/yulclaims/claim_service/internal/services"
)

type ClaimHandler struct {
	svc     services.ClaimService
	userSvc services.UserService
	auth    helper.Auth
}

func NewClaimHandler(svc services.ClaimService, userSvc services.UserService, auth helper.Auth) *ClaimHandler {
	return &ClaimHandler{svc: svc, userSvc: userSvc, auth: auth}
}

func (h *ClaimHandler) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Public claim surface
	api.Post("/claims", h.CreateClaim)
	api.Get("/claims/status/:claimId", h.GetClaimStatus)
	api.Get("/claims/:identifier", h.GetClaims)
	api.Post("/calculate-compensation", h.CalculateCompensation)
	api.Get("/stats", h.Stats)

	// e-signature
	api.Post("/docusign/create-poa", h.CreatePOA)
	api.Post("/docusign/callback", h.POACallback)

	// Admin
	authed := api.Group("", middleware.AuthMiddleware(h.auth))
	authed.Patch("/claims/:claimId/status", middleware.JuniorAdminOnly(h.userSvc), h.UpdateStatus)
	authed.Get("/admin/claims", middleware.JuniorAdminOnly(h.userSvc), h.ListClaims)
	authed.Get("/admin/claims/:claimId/payments", middleware.JuniorAdminOnly(h.userSvc), h.ClaimPayments)
	authed.Get("/admin/claims/:claimId/audit", middleware.JuniorAdminOnly(h.userSvc), h.ClaimAuditLog)
	authed.Post("/admin/claims/export", middleware.SeniorAdminOnly(h.userSvc), h.ExportClaims)
	authed.Get("/admin/consents/:email", middleware.JuniorAdminOnly(h.userSvc), h.ConsentAuditTrail)
	authed.Get("/admin/consent-records", middleware.SeniorAdminOnly(h.userSvc), h.ExportConsentRecords)
}

func requestMeta(ctx *fiber.Ctx) dto.RequestMeta {
	return dto.RequestMeta{
		IPAddress: ctx.IP(),
		UserAgent: ctx.Get("User-Agent"),
	}
}

func (h *ClaimHandler) CreateClaim(ctx *fiber.Ctx) error {
	var requestBody dto.CreateClaimRequest
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Please provide valid inputs")
	}

	var documents []*multipart.FileHeader
	if form, err := ctx.MultipartForm(); err == nil && form != nil {
		documents = form.File["documents"]
	}

	claim, warnings, err := h.svc.CreateClaim(ctx.Context(), requestBody, documents, requestMeta(ctx))
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
	}

	return utils.ResponseSuccessWithWarnings(ctx, fiber.StatusOK, claim, warnings)
}

func (h *ClaimHandler) GetClaims(ctx *fiber.Ctx) error {
	identifier := ctx.Params("identifier")

	claims, err := h.svc.GetClaimsByIdentifier(identifier)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusInternalServerError, err.Error())
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, claims)
}

func (h *ClaimHandler) GetClaimStatus(ctx *fiber.Ctx) error {
	claim, err := h.svc.GetClaimStatus(ctx.Params("claimId"))
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusNotFound, "claim not found")
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, claim)
}

func (h *ClaimHandler) CalculateCompensation(ctx *fiber.Ctx) error {
	var requestBody dto.CalculateCompensationRequest
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Please provide valid inputs")
	}

	resp, err := h.svc.CalculateCompensation(ctx.Context(), requestBody)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, resp)
}

func (h *ClaimHandler) Stats(ctx *fiber.Ctx) error {
	return utils.ResponseSuccess(ctx, fiber.StatusOK, h.svc.Stats(ctx.Context()))
}

func (h *ClaimHandler) UpdateStatus(ctx *fiber.Ctx) error {
	var requestBody dto.UpdateStatusRequest
	if err := ctx.BodyParser(&requestBody); err != nil || requestBody.Status == "" {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "status is required")
	}

	adminID, _ := ctx.Locals("userID").(uint)

	claim, err := h.svc.UpdateStatus(ctx.Context(), ctx.Params("claimId"), adminID, requestBody)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, claim)
}

func (h *ClaimHandler) ListClaims(ctx *fiber.Ctx) error {
	claims, err := h.svc.ListClaims()
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusInternalServerError, err.Error())
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, claims)
}

func (h *ClaimHandler) ClaimPayments(ctx *fiber.Ctx) error {
	payments, err := h.svc.ClaimPayments(ctx.Params("claimId"))
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, payments)
}

func (h *ClaimHandler) ClaimAuditLog(ctx *fiber.Ctx) error {
	entries, err := h.svc.ClaimAuditLog(ctx.Params("claimId"))
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, entries)
}

func (h *ClaimHandler) ExportClaims(ctx *fiber.Ctx) error {
	url, err := h.svc.ExportClaims(ctx.Context())
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusInternalServerError, err.Error())
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, fiber.Map{"spreadsheet_url": url})
}

func (h *ClaimHandler) ConsentAuditTrail(ctx *fiber.Ctx) error {
	records, err := h.svc.ConsentAuditTrail(ctx.Params("email"))
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, records)
}

func (h *ClaimHandler) ExportConsentRecords(ctx *fiber.Ctx) error {
	var from, to *time.Time
	if v := ctx.Query("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return utils.ResponseError(ctx, fiber.StatusBadRequest, "from must be RFC3339")
		}
		from = &t
	}
	if v := ctx.Query("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return utils.ResponseError(ctx, fiber.StatusBadRequest, "to must be RFC3339")
		}
		to = &t
	}

	records, err := h.svc.ExportConsentRecords(from, to)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusInternalServerError, err.Error())
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, records)
}

func (h *ClaimHandler) CreatePOA(ctx *fiber.Ctx) error {
	var requestBody dto.CreatePOARequest
	if err := ctx.BodyParser(&requestBody); err != nil || requestBody.ClaimID == "" {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "claimId is required")
	}

	signing, err := h.svc.CreatePOA(ctx.Context(), requestBody.ClaimID)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, signing)
}

func (h *ClaimHandler) POACallback(ctx *fiber.Ctx) error {
	var requestBody dto.POACallbackRequest
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Please provide valid inputs")
	}

	claim, err := h.svc.CompletePOA(ctx.Context(), requestBody.EnvelopeID, requestBody.Event, requestMeta(ctx))
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, claim)
}
