package menu

import (
	"strings"

	"restoran-pos-backend/internal/ledger"
	"restoran-pos-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateDishRequest struct {
	Name    string  `json:"name"`
	Price   float64 `json:"price"`
	TaxCode string  `json:"tax_code"`
}

func ListDishesHandler(led *ledger.Ledger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := led.DB().Order("name ASC")
		if c.Query("include_inactive") != "true" {
			q = q.Where("active = ?", true)
		}

		var dishes []models.Dish
		if err := q.Find(&dishes).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürünler listelenemedi")
		}
		return c.JSON(dishes)
	}
}

func CreateDishHandler(led *ledger.Ledger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateDishRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" || body.Price <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Ürün adı ve pozitif fiyat zorunlu")
		}
		if body.TaxCode == "" {
			body.TaxCode = "KDV"
		}

		dish := models.Dish{
			Name:    body.Name,
			Price:   body.Price,
			TaxCode: body.TaxCode,
			Active:  true,
		}
		if err := led.DB().Create(&dish).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürün oluşturulamadı")
		}
		return c.Status(fiber.StatusCreated).JSON(dish)
	}
}
