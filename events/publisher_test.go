package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/quickserve/models"
)

func TestNewOrderEvent(t *testing.T) {
	at := time.Date(2026, 10, 17, 12, 5, 0, 0, time.UTC)
	order := &models.Order{
		ID:          "o-1",
		TableNumber: "A1",
		Status:      models.StatusPreparing,
		TotalAmount: decimal.NewFromInt(380),
		UpdatedAt:   at,
	}

	event := NewOrderEvent(OrderStatusChanged, order, models.StatusPlaced, "chef:2")
	assert.Equal(t, "o-1", event.OrderID)
	assert.Equal(t, models.StatusPreparing, event.Status)
	assert.Equal(t, models.StatusPlaced, event.PreviousStatus)
	assert.Equal(t, "chef:2", event.ChangedBy)
	assert.True(t, event.OccurredAt.Equal(at))

	body, err := json.Marshal(event)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"type": "order.status_changed",
		"orderId": "o-1",
		"tableNumber": "A1",
		"status": "preparing",
		"previousStatus": "placed",
		"totalAmount": "380",
		"changedBy": "chef:2",
		"occurredAt": "2026-10-17T12:05:00Z"
	}`, string(body))

	placed := NewOrderEvent(OrderPlaced, order, "", "customer")
	body, err = json.Marshal(placed)
	require.NoError(t, err)
	assert.NotContains(t, string(body), "previousStatus")
}

func TestLogPublisher(t *testing.T) {
	var p Publisher = LogPublisher{}
	assert.NoError(t, p.Publish(context.Background(), OrderEvent{Type: OrderPlaced, OrderID: "o-1"}))
	assert.NoError(t, p.Close())
}
