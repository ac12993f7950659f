package ledger

import (
	"encoding/json"
	"testing"

	"restoran-pos-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransferMovesOpenOrders(t *testing.T) {
	led := newTestLedger(t)
	openShiftWith(t, led, 1000)
	pizza := seedDish(t, led, "Pizza", 1500)
	from := seedTable(t, led, "Masa 1")
	to := seedTable(t, led, "Masa 2")

	order, err := led.CreateOrder(&from.ID, "", kasiyer)
	require.NoError(t, err)
	_, err = led.AddItem(order.ID, pizza.ID, 1, "", kasiyer)
	require.NoError(t, err)

	require.NoError(t, led.TransferTable(from.ID, to.ID, kasiyer))

	moved := reloadOrder(t, led, order.ID)
	require.NotNil(t, moved.TableID)
	assert.Equal(t, to.ID, *moved.TableID)
	assert.Equal(t, models.TableStatusFree, reloadTable(t, led, from.ID).Status)
	assert.Equal(t, models.TableStatusOccupied, reloadTable(t, led, to.ID).Status)

	var rec models.AuditRecord
	require.NoError(t, led.DB().
		Where("action = ?", models.AuditActionTableTransfer).First(&rec).Error)
	assert.Equal(t, from.ID, rec.EntityID)
}

func TestTransferToOccupiedTableMutatesNothing(t *testing.T) {
	led := newTestLedger(t)
	openShiftWith(t, led, 1000)
	from := seedTable(t, led, "Masa 1")
	to := seedTable(t, led, "Masa 2")

	src, err := led.CreateOrder(&from.ID, "", kasiyer)
	require.NoError(t, err)
	dst, err := led.CreateOrder(&to.ID, "", kasiyer)
	require.NoError(t, err)

	err = led.TransferTable(from.ID, to.ID, kasiyer)
	assert.ErrorIs(t, err, ErrTableOccupied)

	// Hiçbir şey taşınmadı, statüler yerinde
	assert.Equal(t, from.ID, *reloadOrder(t, led, src.ID).TableID)
	assert.Equal(t, to.ID, *reloadOrder(t, led, dst.ID).TableID)
	assert.Equal(t, models.TableStatusOccupied, reloadTable(t, led, from.ID).Status)

	var count int64
	led.DB().Model(&models.AuditRecord{}).
		Where("action = ?", models.AuditActionTableTransfer).Count(&count)
	assert.Zero(t, count)
}

func TestTransferRequiresOpenOrdersAtSource(t *testing.T) {
	led := newTestLedger(t)
	openShiftWith(t, led, 1000)
	from := seedTable(t, led, "Masa 1")
	to := seedTable(t, led, "Masa 2")

	err := led.TransferTable(from.ID, to.ID, kasiyer)
	assert.ErrorIs(t, err, ErrNoOpenOrders)

	err = led.TransferTable(99, to.ID, kasiyer)
	assert.ErrorIs(t, err, ErrTableNotFound)
}

func TestForceCloseDiscardsDraftsWithAuditTrail(t *testing.T) {
	led := newTestLedger(t)
	openShiftWith(t, led, 1000)
	pizza := seedDish(t, led, "Pizza", 1500)
	table := seedTable(t, led, "Masa 1")

	order, err := led.CreateOrder(&table.ID, "", kasiyer)
	require.NoError(t, err)
	_, err = led.AddItem(order.ID, pizza.ID, 2, "", kasiyer)
	require.NoError(t, err)

	require.NoError(t, led.CloseTableWithoutPayment(table.ID, mudur))

	assert.Equal(t, models.TableStatusFree, reloadTable(t, led, table.ID).Status)

	var orderCount int64
	led.DB().Model(&models.Order{}).Where("id = ?", order.ID).Count(&orderCount)
	assert.Zero(t, orderCount)

	// İptal edilen taslak denetim kaydında eksiksiz durmalı
	var rec models.AuditRecord
	require.NoError(t, led.DB().
		Where("action = ?", models.AuditActionTableForce).First(&rec).Error)
	var drafts []models.Order
	require.NoError(t, json.Unmarshal([]byte(rec.BeforeData), &drafts))
	require.Len(t, drafts, 1)
	assert.Equal(t, order.ID, drafts[0].ID)
	assert.Len(t, drafts[0].Items, 1)
}
