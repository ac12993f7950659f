package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"restoran-pos-backend/internal/audit"
	"restoran-pos-backend/internal/auth"
	"restoran-pos-backend/internal/cloudsync"
	"restoran-pos-backend/internal/config"
	"restoran-pos-backend/internal/corrections"
	"restoran-pos-backend/internal/database"
	"restoran-pos-backend/internal/httperr"
	"restoran-pos-backend/internal/ledger"
	"restoran-pos-backend/internal/menu"
	"restoran-pos-backend/internal/models"
	"restoran-pos-backend/internal/orders"
	"restoran-pos-backend/internal/shifts"
	"restoran-pos-backend/internal/tables"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	cfg := config.Load()
	database.Init(cfg)

	led, err := ledger.New(database.DB, cfg.InvoiceSeries, cfg.TaxRate)
	if err != nil {
		log.Fatal("Ledger başlatılamadı:", err)
	}

	coordinator := cloudsync.NewCoordinator(database.DB, led, cfg)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	coordinator.Start(ctx)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var he *httperr.Error
			if errors.As(err, &he) {
				return c.Status(he.Status).JSON(fiber.Map{
					"error": he.Message,
					"code":  he.Code,
				})
			}
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			log.Println("Unexpected error:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Beklenmeyen sunucu hatası",
			})
		},
	})

	// CORS origins'i virgülle ayrılmış string'den array'e çevir
	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/register-admin", auth.RegisterAdminHandler(cfg))
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())

	// Admin-only kurulum işlemleri
	adminRoutes := protected.Group("")
	adminRoutes.Use(auth.RequireRole(models.RoleAdmin))
	adminRoutes.Post("/tables", tables.CreateHandler(led))
	adminRoutes.Post("/dishes", menu.CreateDishHandler(led))

	// Salon
	protected.Get("/tables", tables.ListHandler(led))
	protected.Post("/tables/:id/transfer", tables.TransferHandler(led))
	protected.Post("/tables/:id/force-close", tables.ForceCloseHandler(led))

	// Menü
	protected.Get("/dishes", menu.ListDishesHandler(led))

	// Adisyonlar
	protected.Post("/orders", orders.CreateHandler(led))
	protected.Get("/orders", orders.ListHandler(led))
	protected.Get("/orders/:id", orders.GetHandler(led))
	protected.Post("/orders/:id/items", orders.AddItemHandler(led))
	protected.Delete("/orders/:id/items/:index", orders.RemoveItemHandler(led))
	protected.Post("/orders/:id/checkout", orders.CheckoutHandler(led))
	protected.Post("/orders/:id/correct-payment", corrections.CorrectPaymentHandler(led))

	// Vardiya / kasa
	protected.Post("/shifts/open", shifts.OpenHandler(led))
	protected.Post("/shifts/close", shifts.CloseHandler(led))
	protected.Get("/shifts/current", shifts.CurrentHandler(led))
	protected.Get("/shifts", shifts.ListHandler(led))
	protected.Post("/cash-movements", shifts.CreateCashMovementHandler(led))
	protected.Get("/cash-movements", shifts.ListCashMovementsHandler(led))

	// Denetim kayıtları
	protected.Get("/audit-records", audit.ListHandler(database.DB))

	// Senkronizasyon durumu
	protected.Get("/sync/status", cloudsync.StatusHandler(coordinator))
	protected.Post("/sync/trigger", cloudsync.TriggerHandler(coordinator))

	log.Println("Server çalışıyor port:", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
