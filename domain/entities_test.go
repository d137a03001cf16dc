package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderState_Label(t *testing.T) {
	tests := []struct {
		state OrderState
		want  string
	}{
		{StateDraft, "Borrador"},
		{StateConfirmed, "Confirmado"},
		{StateReady, "Listo"},
		{StateUnderRepair, "En Reparación"},
		{StateTest, "En Pruebas"},
		{StateToInvoice, "Facturar"},
		{StateDone, "Finalizado"},
		{StateHandover, "Entregado"},
		{StateGuarantee, "Garantía"},
		{StateCancel, "Cancelado"},
	}

	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.state.Label())
			assert.True(t, tt.state.Valid())
		})
	}

	t.Run("unknown state falls back to the raw value", func(t *testing.T) {
		s := OrderState("shipped")
		assert.Equal(t, "shipped", s.Label())
		assert.False(t, s.Valid())
	})
}

func TestPortalSession_SelectedOrder(t *testing.T) {
	session := PortalSession{
		Orders: []RepairOrder{{ID: 3472, ProductName: "iPhone 12 Pro"}, {ID: 3480}},
	}

	_, ok := session.SelectedOrder()
	assert.False(t, ok, "no selection while SelectedOrderID is zero")

	session.SelectedOrderID = 3472
	order, ok := session.SelectedOrder()
	require.True(t, ok)
	assert.Equal(t, "iPhone 12 Pro", order.ProductName)

	session.SelectedOrderID = 9999
	_, ok = session.SelectedOrder()
	assert.False(t, ok)
}

func TestInvoiceFor(t *testing.T) {
	opened := time.Date(2024, 5, 20, 9, 30, 0, 0, time.UTC)
	order := RepairOrder{
		ID:          3472,
		ProductName: "iPhone 12 Pro",
		Description: "Cambio de pantalla",
		State:       StateUnderRepair,
		PartnerName: "Ana García",
		DateOpen:    &opened,
		TotalAmount: 149.99,
		Currency:    "DOP",
	}

	invoice := InvoiceFor(&order)

	assert.Equal(t, int64(3472), invoice.OrderID)
	assert.Equal(t, "Ana García", invoice.Customer)
	assert.Equal(t, "iPhone 12 Pro", invoice.Product)
	assert.Equal(t, "Cambio de pantalla", invoice.Description)
	assert.Equal(t, "En Reparación", invoice.StateLabel)
	assert.Equal(t, &opened, invoice.DateOpen)
	assert.Equal(t, 149.99, invoice.TotalAmount)
	assert.Equal(t, "DOP", invoice.Currency)
}
