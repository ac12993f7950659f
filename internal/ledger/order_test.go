package ledger

import (
	"testing"

	"restoran-pos-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateOrderRequiresOpenShift(t *testing.T) {
	led := newTestLedger(t)

	_, err := led.CreateOrder(nil, "", kasiyer)
	assert.ErrorIs(t, err, ErrNoActiveShift)
}

func TestCreateOrderOccupiesTable(t *testing.T) {
	led := newTestLedger(t)
	openShiftWith(t, led, 1000)
	table := seedTable(t, led, "Masa 1")

	order, err := led.CreateOrder(&table.ID, "", kasiyer)
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusOpen, order.Status)
	assert.Equal(t, "Ana Hesap", order.SubAccountName)
	assert.NotNil(t, order.ShiftID)
	assert.Equal(t, models.TableStatusOccupied, reloadTable(t, led, table.ID).Status)
}

func TestAddItemRecomputesTotals(t *testing.T) {
	led := newTestLedger(t)
	openShiftWith(t, led, 1000)
	pizza := seedDish(t, led, "Pizza Margherita", 1500)
	ayran := seedDish(t, led, "Ayran", 100)

	order, err := led.CreateOrder(nil, "Tezgah", kasiyer)
	require.NoError(t, err)

	order, err = led.AddItem(order.ID, pizza.ID, 2, "", kasiyer)
	require.NoError(t, err)
	order, err = led.AddItem(order.ID, ayran.ID, 3, "", kasiyer)
	require.NoError(t, err)

	// 2*1500 + 3*100 = 3300 ara toplam, %14 KDV = 462
	assert.InDelta(t, 462.0, order.TaxTotal, AmountEpsilon)
	assert.InDelta(t, 3762.0, order.Total, AmountEpsilon)
	assert.Len(t, order.Items, 2)

	// Toplam her zaman satır setinden türetilir
	var sum float64
	for _, it := range order.Items {
		sum += it.UnitPrice * float64(it.Quantity)
	}
	assert.InDelta(t, sum+order.TaxTotal, order.Total, AmountEpsilon)
}

func TestAddItemDeltaSemantics(t *testing.T) {
	led := newTestLedger(t)
	openShiftWith(t, led, 1000)
	pizza := seedDish(t, led, "Pizza", 1500)

	order, err := led.CreateOrder(nil, "", kasiyer)
	require.NoError(t, err)

	// Aynı ürün + aynı not tek satırda birikir
	order, err = led.AddItem(order.ID, pizza.ID, 2, "", kasiyer)
	require.NoError(t, err)
	order, err = led.AddItem(order.ID, pizza.ID, 1, "", kasiyer)
	require.NoError(t, err)
	require.Len(t, order.Items, 1)
	assert.Equal(t, 3, order.Items[0].Quantity)

	// Farklı not ayrı satır açar
	order, err = led.AddItem(order.ID, pizza.ID, 1, "az pişmiş", kasiyer)
	require.NoError(t, err)
	assert.Len(t, order.Items, 2)

	// Negatif delta miktarı düşürür
	order, err = led.AddItem(order.ID, pizza.ID, -2, "", kasiyer)
	require.NoError(t, err)
	assert.Equal(t, 1, order.Items[0].Quantity)

	// Sıfıra inen satır silinir
	order, err = led.AddItem(order.ID, pizza.ID, -1, "", kasiyer)
	require.NoError(t, err)
	assert.Len(t, order.Items, 1)

	// Sıfırın altı reddedilir, adisyon değişmez
	before := reloadOrder(t, led, order.ID)
	_, err = led.AddItem(order.ID, pizza.ID, -5, "az pişmiş", kasiyer)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
	after := reloadOrder(t, led, order.ID)
	assert.Equal(t, before.Total, after.Total)
	assert.Equal(t, before.Revision, after.Revision)
}

func TestAddItemUnknownDish(t *testing.T) {
	led := newTestLedger(t)
	openShiftWith(t, led, 1000)

	order, err := led.CreateOrder(nil, "", kasiyer)
	require.NoError(t, err)

	_, err = led.AddItem(order.ID, 999, 1, "", kasiyer)
	assert.ErrorIs(t, err, ErrDishNotFound)
}

func TestRemoveItemByIndex(t *testing.T) {
	led := newTestLedger(t)
	openShiftWith(t, led, 1000)
	pizza := seedDish(t, led, "Pizza", 1500)
	ayran := seedDish(t, led, "Ayran", 100)

	order, err := led.CreateOrder(nil, "", kasiyer)
	require.NoError(t, err)
	order, err = led.AddItem(order.ID, pizza.ID, 1, "", kasiyer)
	require.NoError(t, err)
	order, err = led.AddItem(order.ID, ayran.ID, 2, "", kasiyer)
	require.NoError(t, err)

	order, err = led.RemoveItem(order.ID, 0, kasiyer)
	require.NoError(t, err)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "Ayran", order.Items[0].Name)
	assert.InDelta(t, 200*1.14, order.Total, AmountEpsilon)

	_, err = led.RemoveItem(order.ID, 5, kasiyer)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestMutationsRejectedOnClosedOrder(t *testing.T) {
	led := newTestLedger(t)
	openShiftWith(t, led, 1000)
	pizza := seedDish(t, led, "Pizza", 1500)

	order, err := led.CreateOrder(nil, "", kasiyer)
	require.NoError(t, err)
	order, err = led.AddItem(order.ID, pizza.ID, 1, "", kasiyer)
	require.NoError(t, err)

	_, err = led.Checkout(order.ID, []PaymentInput{{Method: models.PaymentMethodCash, Amount: order.Total}}, "", kasiyer)
	require.NoError(t, err)

	_, err = led.AddItem(order.ID, pizza.ID, 1, "", kasiyer)
	assert.ErrorIs(t, err, ErrOrderClosed)
	_, err = led.RemoveItem(order.ID, 0, kasiyer)
	assert.ErrorIs(t, err, ErrOrderClosed)
}
