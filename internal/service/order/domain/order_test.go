package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLines() []OrderLine {
	return []OrderLine{
		{ItemID: "apple", Name: "Fresh Apple", Price: 2.50, Quantity: 4},
		{ItemID: "salmon", Name: "Salmon Fillet", Price: 12.99, Quantity: 2},
	}
}

func testAddress() DeliveryAddress {
	return DeliveryAddress{Street: "1 Main St", City: "Springfield", Full: "1 Main St, Springfield"}
}

func TestNewOrderComputesTotalsOnce(t *testing.T) {
	order, err := NewOrder("order-1", "user-1", testLines(), testAddress(), PaymentCredit, 4.99, "", "TRK-ABC", 45*time.Minute)
	require.NoError(t, err)

	assert.InDelta(t, 35.98, order.Subtotal, 0.001) // 4*2.50 + 2*12.99
	assert.InDelta(t, 4.99, order.DeliveryFee, 0.001)
	assert.InDelta(t, 40.97, order.Total, 0.001)
	assert.Equal(t, StatusPending, order.Status)
	assert.Equal(t, "TRK-ABC", order.TrackingID)
	assert.True(t, order.EstimatedAt.After(order.CreatedAt))
}

func TestNewOrderPaymentStatus(t *testing.T) {
	prepaid, err := NewOrder("o1", "u1", testLines(), testAddress(), PaymentCredit, 0, "", "TRK-1", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, PaymentStatusPaid, prepaid.PaymentStatus)

	cod, err := NewOrder("o2", "u1", testLines(), testAddress(), PaymentCashOnDelivery, 0, "", "TRK-2", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, PaymentStatusPending, cod.PaymentStatus)
}

func TestNewOrderRejectsBadInput(t *testing.T) {
	_, err := NewOrder("o1", "u1", nil, testAddress(), PaymentCredit, 0, "", "TRK-1", time.Hour)
	assert.ErrorIs(t, err, ErrEmptyCart)

	_, err = NewOrder("", "u1", testLines(), testAddress(), PaymentCredit, 0, "", "TRK-1", time.Hour)
	assert.Error(t, err)

	badQty := []OrderLine{{ItemID: "apple", Price: 1, Quantity: 0}}
	_, err = NewOrder("o1", "u1", badQty, testAddress(), PaymentCredit, 0, "", "TRK-1", time.Hour)
	assert.Error(t, err)
}

func TestTransitionToKeepsLinesImmutable(t *testing.T) {
	order, err := NewOrder("o1", "u1", testLines(), testAddress(), PaymentCredit, 4.99, "", "TRK-1", time.Hour)
	require.NoError(t, err)

	total, subtotal := order.Total, order.Subtotal
	require.NoError(t, order.TransitionTo(StatusConfirmed))
	require.NoError(t, order.TransitionTo(StatusDelivered))

	assert.Equal(t, total, order.Total)
	assert.Equal(t, subtotal, order.Subtotal)
	assert.Len(t, order.Lines, 2)
}

func TestTransitionToRejectsInvalidMove(t *testing.T) {
	order, err := NewOrder("o1", "u1", testLines(), testAddress(), PaymentCredit, 0, "", "TRK-1", time.Hour)
	require.NoError(t, err)
	require.NoError(t, order.TransitionTo(StatusCancelled))

	terr := order.TransitionTo(StatusConfirmed)
	var invalid *InvalidTransitionError
	require.ErrorAs(t, terr, &invalid)
	assert.Equal(t, StatusCancelled, invalid.From)
	assert.Equal(t, StatusConfirmed, invalid.To)
	assert.Equal(t, StatusCancelled, order.Status)
}

func TestOwnedBy(t *testing.T) {
	order, err := NewOrder("o1", "u1", testLines(), testAddress(), PaymentCredit, 0, "", "TRK-1", time.Hour)
	require.NoError(t, err)
	assert.True(t, order.OwnedBy("u1"))
	assert.False(t, order.OwnedBy("u2"))
}
