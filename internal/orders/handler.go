package orders

import (
	"restoran-pos-backend/internal/auth"
	"restoran-pos-backend/internal/httperr"
	"restoran-pos-backend/internal/ledger"
	"restoran-pos-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateOrderRequest struct {
	TableID        *uint  `json:"table_id"`
	SubAccountName string `json:"sub_account_name"`
}

type AddItemRequest struct {
	DishID   uint   `json:"dish_id"`
	Quantity int    `json:"quantity"` // delta: negatif değerler miktar düşürür
	Note     string `json:"note"`
}

type CheckoutRequest struct {
	Payments      []ledger.PaymentInput `json:"payments"`
	CustomerTaxID string                `json:"customer_tax_id"`
}

func CreateHandler(led *ledger.Ledger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateOrderRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		actor, err := auth.CurrentActor(c)
		if err != nil {
			return err
		}

		order, err := led.CreateOrder(body.TableID, body.SubAccountName, actor)
		if err != nil {
			return httperr.FromLedger(err)
		}
		return c.Status(fiber.StatusCreated).JSON(order)
	}
}

func ListHandler(led *ledger.Ledger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := led.DB().Preload("Items").Preload("Payments").Order("id DESC")

		if status := c.Query("status"); status != "" {
			q = q.Where("status = ?", status)
		}
		if tableID := c.QueryInt("table_id"); tableID > 0 {
			q = q.Where("table_id = ?", tableID)
		}

		var orders []models.Order
		if err := q.Limit(200).Find(&orders).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Adisyonlar listelenemedi")
		}
		return c.JSON(orders)
	}
}

func GetHandler(led *ledger.Ledger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz adisyon ID")
		}

		var order models.Order
		if err := led.DB().Preload("Items").Preload("Payments").
			First(&order, "id = ?", id).Error; err != nil {
			return httperr.FromLedger(ledger.ErrOrderNotFound)
		}
		return c.JSON(order)
	}
}

func AddItemHandler(led *ledger.Ledger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz adisyon ID")
		}

		var body AddItemRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		actor, err := auth.CurrentActor(c)
		if err != nil {
			return err
		}

		order, err := led.AddItem(uint(id), body.DishID, body.Quantity, body.Note, actor)
		if err != nil {
			return httperr.FromLedger(err)
		}
		return c.JSON(order)
	}
}

func RemoveItemHandler(led *ledger.Ledger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz adisyon ID")
		}
		index, err := c.ParamsInt("index")
		if err != nil || index < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz satır indeksi")
		}

		actor, err := auth.CurrentActor(c)
		if err != nil {
			return err
		}

		order, err := led.RemoveItem(uint(id), index, actor)
		if err != nil {
			return httperr.FromLedger(err)
		}
		return c.JSON(order)
	}
}

func CheckoutHandler(led *ledger.Ledger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz adisyon ID")
		}

		var body CheckoutRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		actor, err := auth.CurrentActor(c)
		if err != nil {
			return err
		}

		order, err := led.Checkout(uint(id), body.Payments, body.CustomerTaxID, actor)
		if err != nil {
			return httperr.FromLedger(err)
		}
		return c.JSON(order)
	}
}
