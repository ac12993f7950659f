package audit

import (
	"restoran-pos-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// GET /api/audit-records?entity_type=&entity_id=&user_id=&action=&limit=
func ListHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := db.Order("id DESC")

		if entityType := c.Query("entity_type"); entityType != "" {
			q = q.Where("entity_type = ?", entityType)
		}
		if entityID := c.QueryInt("entity_id"); entityID > 0 {
			q = q.Where("entity_id = ?", entityID)
		}
		if userID := c.QueryInt("user_id"); userID > 0 {
			q = q.Where("user_id = ?", userID)
		}
		if action := c.Query("action"); action != "" {
			q = q.Where("action = ?", action)
		}

		limit := c.QueryInt("limit", 100)
		if limit <= 0 || limit > 500 {
			limit = 100
		}

		var records []models.AuditRecord
		if err := q.Limit(limit).Find(&records).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Denetim kayıtları listelenemedi")
		}
		return c.JSON(records)
	}
}
