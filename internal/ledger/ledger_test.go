package ledger

import (
	"testing"

	"restoran-pos-backend/internal/database"
	"restoran-pos-backend/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	kasiyer = Actor{ID: 1, Name: "Ayşe"}
	mudur   = Actor{ID: 2, Name: "Mehmet"}
)

func newTestLedger(t *testing.T) *Ledger {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	led, err := New(db, "A", 14)
	require.NoError(t, err)
	return led
}

func seedDish(t *testing.T, led *Ledger, name string, price float64) models.Dish {
	t.Helper()
	dish := models.Dish{Name: name, Price: price, TaxCode: "KDV", Active: true}
	require.NoError(t, led.DB().Create(&dish).Error)
	return dish
}

func seedTable(t *testing.T, led *Ledger, name string) models.Table {
	t.Helper()
	table := models.Table{Name: name, Seats: 4, Zone: models.TableZoneIndoor, Status: models.TableStatusFree, Revision: 1}
	require.NoError(t, led.DB().Create(&table).Error)
	return table
}

func openShiftWith(t *testing.T, led *Ledger, opening float64) *models.Shift {
	t.Helper()
	shift, err := led.OpenShift(opening, kasiyer)
	require.NoError(t, err)
	return shift
}

func reloadOrder(t *testing.T, led *Ledger, id uint) models.Order {
	t.Helper()
	var order models.Order
	require.NoError(t, led.DB().Preload("Items").Preload("Payments").First(&order, "id = ?", id).Error)
	return order
}

func reloadTable(t *testing.T, led *Ledger, id uint) models.Table {
	t.Helper()
	var table models.Table
	require.NoError(t, led.DB().First(&table, "id = ?", id).Error)
	return table
}
