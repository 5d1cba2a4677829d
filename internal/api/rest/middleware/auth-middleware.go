package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/yulclaims/claim_service/internal/domain"
	"github.com/yulclaims/claim_service/internal/helper"
	"github.com/yulclaims/claim_service/internal/services"
)

func AuthMiddleware(auth helper.Auth) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		// 1) try cookie first
		tokenStr := strings.TrimSpace(ctx.Cookies("access_token"))

		// 2) fallback to Authorization header
		if tokenStr == "" {
			tokenStr = strings.TrimSpace(ctx.Get("Authorization"))
		}

		user, err := auth.VerifyToken(tokenStr)
		if err != nil {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": err.Error(),
			})
		}

		ctx.Locals("userID", uint(user.UserID))
		ctx.Locals("user", user)
		return ctx.Next()
	}
}

// requireRole checks the persisted role, not the token claim, so a
// demotion takes effect without waiting for token expiry.
func requireRole(userSvc services.UserService, want string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		userID, ok := ctx.Locals("userID").(uint)
		if !ok || userID == 0 {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "unauthorized",
			})
		}

		user, err := userSvc.GetProfile(userID)
		if err != nil || user == nil {
			return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to load user",
			})
		}

		if !domain.RoleAtLeast(user.Role, want) {
			return ctx.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "insufficient role",
			})
		}

		return ctx.Next()
	}
}

func JuniorAdminOnly(userSvc services.UserService) fiber.Handler {
	return requireRole(userSvc, domain.RoleJuniorAdmin)
}

func SeniorAdminOnly(userSvc services.UserService) fiber.Handler {
	return requireRole(userSvc, domain.RoleSeniorAdmin)
}
