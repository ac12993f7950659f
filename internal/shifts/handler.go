package shifts

import (
	"restoran-pos-backend/internal/auth"
	"restoran-pos-backend/internal/httperr"
	"restoran-pos-backend/internal/ledger"
	"restoran-pos-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type OpenShiftRequest struct {
	OpeningBalance float64 `json:"opening_balance"`
}

type CloseShiftRequest struct {
	CountedBalance float64 `json:"counted_balance"`
}

type CashMovementRequest struct {
	Direction   string  `json:"direction"` // "in" / "out"
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
}

func OpenHandler(led *ledger.Ledger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body OpenShiftRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		actor, err := auth.CurrentActor(c)
		if err != nil {
			return err
		}

		shift, err := led.OpenShift(body.OpeningBalance, actor)
		if err != nil {
			return httperr.FromLedger(err)
		}
		return c.Status(fiber.StatusCreated).JSON(shift)
	}
}

func CloseHandler(led *ledger.Ledger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CloseShiftRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		actor, err := auth.CurrentActor(c)
		if err != nil {
			return err
		}

		shift, err := led.CloseShift(body.CountedBalance, actor)
		if err != nil {
			return httperr.FromLedger(err)
		}
		return c.JSON(shift)
	}
}

func CurrentHandler(led *ledger.Ledger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		shiftID := led.ActiveShiftID()
		if shiftID == nil {
			return httperr.FromLedger(ledger.ErrNoActiveShift)
		}

		var shift models.Shift
		if err := led.DB().First(&shift, "id = ?", *shiftID).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Vardiya okunamadı")
		}
		return c.JSON(shift)
	}
}

func ListHandler(led *ledger.Ledger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var shifts []models.Shift
		if err := led.DB().Order("id DESC").Limit(100).Find(&shifts).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Vardiyalar listelenemedi")
		}
		return c.JSON(shifts)
	}
}

func CreateCashMovementHandler(led *ledger.Ledger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CashMovementRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		actor, err := auth.CurrentActor(c)
		if err != nil {
			return err
		}

		movement, err := led.AddCashMovement(body.Direction, body.Amount, body.Description, actor)
		if err != nil {
			return httperr.FromLedger(err)
		}
		return c.Status(fiber.StatusCreated).JSON(movement)
	}
}

func ListCashMovementsHandler(led *ledger.Ledger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := led.DB().Order("id DESC")

		if shiftID := c.QueryInt("shift_id"); shiftID > 0 {
			q = q.Where("shift_id = ?", shiftID)
		} else if active := led.ActiveShiftID(); active != nil {
			q = q.Where("shift_id = ?", *active)
		}

		var movements []models.CashMovement
		if err := q.Limit(200).Find(&movements).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kasa hareketleri listelenemedi")
		}
		return c.JSON(movements)
	}
}
