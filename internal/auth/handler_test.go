package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"restoran-pos-backend/internal/config"
	"restoran-pos-backend/internal/database"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupAuthApp(t *testing.T) *fiber.App {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	database.DB = db

	cfg := &config.Config{JWTSecret: "test-secret-that-is-long-enough-123456"}

	app := fiber.New()
	app.Post("/api/auth/register-admin", RegisterAdminHandler(cfg))
	app.Post("/api/auth/login", LoginHandler(cfg))
	app.Get("/api/auth/me", JWTMiddleware(cfg), MeHandler())
	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestRegisterAdminAndLogin(t *testing.T) {
	app := setupAuthApp(t)

	resp := postJSON(t, app, "/api/auth/register-admin", RegisterAdminRequest{
		Name: "Patron", Email: "Patron@Example.com", Password: "gizli123",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	// İkinci admin bu endpoint'ten açılamaz
	resp = postJSON(t, app, "/api/auth/register-admin", RegisterAdminRequest{
		Name: "İkinci", Email: "ikinci@example.com", Password: "gizli123",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// Email büyük/küçük harf duyarsız normalize edilir
	resp = postJSON(t, app, "/api/auth/login", LoginRequest{
		Email: "patron@example.com", Password: "gizli123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Token string `json:"token"`
		User  struct {
			Role string `json:"role"`
		} `json:"user"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.NotEmpty(t, body.Token)
	assert.Equal(t, "admin", body.User.Role)

	// Token korumalı endpoint'te geçerli olmalı
	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+body.Token)
	meResp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, meResp.StatusCode)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	app := setupAuthApp(t)

	postJSON(t, app, "/api/auth/register-admin", RegisterAdminRequest{
		Name: "Patron", Email: "patron@example.com", Password: "gizli123",
	})

	resp := postJSON(t, app, "/api/auth/login", LoginRequest{
		Email: "patron@example.com", Password: "yanlis",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = postJSON(t, app, "/api/auth/login", LoginRequest{
		Email: "yok@example.com", Password: "gizli123",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestProtectedRouteWithoutToken(t *testing.T) {
	app := setupAuthApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req = httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer sahte.token.degeri")
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
