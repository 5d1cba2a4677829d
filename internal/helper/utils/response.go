package utils

import "github.com/gofiber/fiber/v2"

func ResponseError(ctx *fiber.Ctx, status int, msg string) error {
	return ctx.Status(status).JSON(fiber.Map{
		"error": msg,
	})
}

func ResponseSuccess(ctx *fiber.Ctx, status int, data interface{}) error {
	return ctx.Status(status).JSON(fiber.Map{"data": data})
}

// ResponseSuccessWithWarnings is for partial successes, e.g. a claim that
// was accepted while some of its documents were skipped.
func ResponseSuccessWithWarnings(ctx *fiber.Ctx, status int, data interface{}, warnings []string) error {
	if len(warnings) == 0 {
		return ResponseSuccess(ctx, status, data)
	}
	return ctx.Status(status).JSON(fiber.Map{
		"data":     data,
		"warnings": warnings,
	})
}
