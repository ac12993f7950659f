package httperr

import (
	"errors"

	"restoran-pos-backend/internal/ledger"

	"github.com/gofiber/fiber/v2"
)

// Error - ledger sentinel hatalarının HTTP karşılığı. Code alanı istemciler
// için sabittir; Message kullanıcıya gösterilir. main'deki ErrorHandler bu tipi
// tanıyıp {"error": ..., "code": ...} olarak serileştirir.
type Error struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"error"`
}

func (e *Error) Error() string { return e.Message }

var ledgerCodes = []struct {
	target error
	status int
	code   string
}{
	{ledger.ErrNoActiveShift, fiber.StatusConflict, "NO_ACTIVE_SHIFT"},
	{ledger.ErrShiftAlreadyOpen, fiber.StatusConflict, "SHIFT_ALREADY_OPEN"},
	{ledger.ErrOrderNotFound, fiber.StatusNotFound, "ORDER_NOT_FOUND"},
	{ledger.ErrOrderClosed, fiber.StatusConflict, "ORDER_CLOSED"},
	{ledger.ErrOrderOpen, fiber.StatusConflict, "ORDER_OPEN"},
	{ledger.ErrInvalidQuantity, fiber.StatusBadRequest, "INVALID_QUANTITY"},
	{ledger.ErrInvalidAmount, fiber.StatusBadRequest, "INVALID_AMOUNT"},
	{ledger.ErrInvalidPayment, fiber.StatusBadRequest, "INVALID_PAYMENT"},
	{ledger.ErrAmountMismatch, fiber.StatusBadRequest, "AMOUNT_MISMATCH"},
	{ledger.ErrTableNotFound, fiber.StatusNotFound, "TABLE_NOT_FOUND"},
	{ledger.ErrTableOccupied, fiber.StatusConflict, "TABLE_OCCUPIED"},
	{ledger.ErrNoOpenOrders, fiber.StatusConflict, "NO_OPEN_ORDERS"},
	{ledger.ErrDishNotFound, fiber.StatusNotFound, "DISH_NOT_FOUND"},
	{ledger.ErrReasonRequired, fiber.StatusBadRequest, "REASON_REQUIRED"},
	{ledger.ErrSupervisorRequired, fiber.StatusForbidden, "SUPERVISOR_REQUIRED"},
}

// FromLedger - sentinel hataları statü+koda çevirir; tanınmayan hata olduğu
// gibi döner ve ErrorHandler 500 üretir.
func FromLedger(err error) error {
	for _, m := range ledgerCodes {
		if errors.Is(err, m.target) {
			return &Error{Status: m.status, Code: m.code, Message: m.target.Error()}
		}
	}
	return err
}
