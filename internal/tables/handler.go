package tables

import (
	"strings"

	"restoran-pos-backend/internal/auth"
	"restoran-pos-backend/internal/httperr"
	"restoran-pos-backend/internal/ledger"
	"restoran-pos-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateTableRequest struct {
	Name  string           `json:"name"`
	Seats int              `json:"seats"`
	Zone  models.TableZone `json:"zone"`
	PosX  int              `json:"pos_x"`
	PosY  int              `json:"pos_y"`
}

type TransferRequest struct {
	ToTableID uint `json:"to_table_id"`
}

func ListHandler(led *ledger.Ledger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var tables []models.Table
		q := led.DB().Order("name ASC")
		if zone := c.Query("zone"); zone != "" {
			q = q.Where("zone = ?", zone)
		}
		if err := q.Find(&tables).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Masalar listelenemedi")
		}
		return c.JSON(tables)
	}
}

func CreateHandler(led *ledger.Ledger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateTableRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Masa adı zorunlu")
		}
		if body.Seats <= 0 {
			body.Seats = 4
		}
		if body.Zone == "" {
			body.Zone = models.TableZoneIndoor
		}

		table := models.Table{
			Name:     body.Name,
			Seats:    body.Seats,
			Zone:     body.Zone,
			Status:   models.TableStatusFree,
			PosX:     body.PosX,
			PosY:     body.PosY,
			Revision: 1,
		}
		if err := led.DB().Create(&table).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Masa oluşturulamadı")
		}
		return c.Status(fiber.StatusCreated).JSON(table)
	}
}

func TransferHandler(led *ledger.Ledger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fromID, err := c.ParamsInt("id")
		if err != nil || fromID <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz masa ID")
		}

		var body TransferRequest
		if err := c.BodyParser(&body); err != nil || body.ToTableID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Hedef masa belirtilmeli")
		}
		if uint(fromID) == body.ToTableID {
			return fiber.NewError(fiber.StatusBadRequest, "Kaynak ve hedef masa aynı olamaz")
		}

		actor, err := auth.CurrentActor(c)
		if err != nil {
			return err
		}

		if err := led.TransferTable(uint(fromID), body.ToTableID, actor); err != nil {
			return httperr.FromLedger(err)
		}
		return c.JSON(fiber.Map{"message": "Masa taşındı"})
	}
}

func ForceCloseHandler(led *ledger.Ledger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz masa ID")
		}

		actor, err := auth.CurrentActor(c)
		if err != nil {
			return err
		}

		if err := led.CloseTableWithoutPayment(uint(id), actor); err != nil {
			return httperr.FromLedger(err)
		}
		return c.JSON(fiber.Map{"message": "Masa ödemesiz kapatıldı"})
	}
}
