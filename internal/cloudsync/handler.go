package cloudsync

import "github.com/gofiber/fiber/v2"

// GET /api/sync/status
func StatusHandler(c *Coordinator) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		return ctx.JSON(c.Status())
	}
}

// POST /api/sync/trigger - bağlantı döndüğünde kuyruğu elle tetikler
func TriggerHandler(c *Coordinator) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		c.TriggerSync()
		return ctx.JSON(fiber.Map{"message": "Senkronizasyon tetiklendi"})
	}
}
