package corrections

import (
	"restoran-pos-backend/internal/auth"
	"restoran-pos-backend/internal/httperr"
	"restoran-pos-backend/internal/ledger"

	"github.com/gofiber/fiber/v2"
)

type CorrectPaymentRequest struct {
	Payments            []ledger.PaymentInput `json:"payments"`
	Reason              string                `json:"reason"`
	SupervisorConfirmed bool                  `json:"supervisor_confirmed"`
}

// POST /api/orders/:id/correct-payment
//
// Fatura kesilmiş (post-print) adisyonda onay kutusu tek başına yetmez; onayı
// veren oturumun yönetici olması da gerekir. İkisi birden yoksa ledger
// SUPERVISOR_REQUIRED döner.
func CorrectPaymentHandler(led *ledger.Ledger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz adisyon ID")
		}

		var body CorrectPaymentRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		actor, err := auth.CurrentActor(c)
		if err != nil {
			return err
		}

		confirmed := body.SupervisorConfirmed && auth.IsAdmin(c)

		order, err := led.CorrectPayment(uint(id), body.Payments, body.Reason, confirmed, actor)
		if err != nil {
			return httperr.FromLedger(err)
		}
		return c.JSON(order)
	}
}
