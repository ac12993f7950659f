package orders

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"restoran-pos-backend/internal/auth"
	"restoran-pos-backend/internal/database"
	"restoran-pos-backend/internal/httperr"
	"restoran-pos-backend/internal/ledger"
	"restoran-pos-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupOrdersApp(t *testing.T) (*fiber.App, *ledger.Ledger) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	led, err := ledger.New(db, "A", 14)
	require.NoError(t, err)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var he *httperr.Error
			if errors.As(err, &he) {
				return c.Status(he.Status).JSON(fiber.Map{"error": he.Message, "code": he.Code})
			}
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{"error": e.Message})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Beklenmeyen sunucu hatası"})
		},
	})

	// JWT katmanının yerine sabit bir kasiyer kimliği
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(auth.CtxUserIDKey, uint(1))
		c.Locals(auth.CtxUserNameKey, "Ayşe")
		c.Locals(auth.CtxUserRoleKey, models.RoleCashier)
		return c.Next()
	})

	app.Post("/api/orders", CreateHandler(led))
	app.Get("/api/orders/:id", GetHandler(led))
	app.Post("/api/orders/:id/items", AddItemHandler(led))
	app.Post("/api/orders/:id/checkout", CheckoutHandler(led))
	return app, led
}

type errBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) (*http.Response, []byte) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	return resp, buf.Bytes()
}

func TestCreateOrderWithoutShiftReturnsConflictCode(t *testing.T) {
	app, _ := setupOrdersApp(t)

	resp, body := doJSON(t, app, http.MethodPost, "/api/orders", CreateOrderRequest{})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	var eb errBody
	require.NoError(t, json.Unmarshal(body, &eb))
	assert.Equal(t, "NO_ACTIVE_SHIFT", eb.Code)
	assert.NotEmpty(t, eb.Error)
}

func TestCheckoutMismatchReturnsStableCode(t *testing.T) {
	app, led := setupOrdersApp(t)

	_, err := led.OpenShift(1000, ledger.Actor{ID: 1, Name: "Ayşe"})
	require.NoError(t, err)
	dish := models.Dish{Name: "Pizza", Price: 1500, Active: true}
	require.NoError(t, led.DB().Create(&dish).Error)

	resp, body := doJSON(t, app, http.MethodPost, "/api/orders", CreateOrderRequest{})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created models.Order
	require.NoError(t, json.Unmarshal(body, &created))

	resp, _ = doJSON(t, app, http.MethodPost, "/api/orders/1/items",
		AddItemRequest{DishID: dish.ID, Quantity: 2})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = doJSON(t, app, http.MethodPost, "/api/orders/1/checkout",
		CheckoutRequest{Payments: []ledger.PaymentInput{{Method: models.PaymentMethodCash, Amount: 3400}}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var eb errBody
	require.NoError(t, json.Unmarshal(body, &eb))
	assert.Equal(t, "AMOUNT_MISMATCH", eb.Code)

	// Adisyon açık kaldı
	resp, body = doJSON(t, app, http.MethodGet, "/api/orders/1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var reloaded models.Order
	require.NoError(t, json.Unmarshal(body, &reloaded))
	assert.Equal(t, models.OrderStatusOpen, reloaded.Status)
}

func TestGetUnknownOrder(t *testing.T) {
	app, _ := setupOrdersApp(t)

	resp, body := doJSON(t, app, http.MethodGet, "/api/orders/999", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var eb errBody
	require.NoError(t, json.Unmarshal(body, &eb))
	assert.Equal(t, "ORDER_NOT_FOUND", eb.Code)
}
