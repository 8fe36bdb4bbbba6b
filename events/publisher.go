package events

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/quickserve/models"
	"github.com/yeremiapane/quickserve/utils"
)

type EventType string

const (
	OrderPlaced        EventType = "order.placed"
	OrderStatusChanged EventType = "order.status_changed"
)

// OrderEvent is emitted after an order write has been committed.
type OrderEvent struct {
	Type           EventType          `json:"type"`
	OrderID        string             `json:"orderId"`
	TableNumber    string             `json:"tableNumber"`
	Status         models.OrderStatus `json:"status"`
	PreviousStatus models.OrderStatus `json:"previousStatus,omitempty"`
	TotalAmount    decimal.Decimal    `json:"totalAmount"`
	ChangedBy      string             `json:"changedBy"`
	OccurredAt     time.Time          `json:"occurredAt"`
}

// NewOrderEvent builds an event from the committed order snapshot.
func NewOrderEvent(t EventType, order *models.Order, previous models.OrderStatus, actor string) OrderEvent {
	return OrderEvent{
		Type:           t,
		OrderID:        order.ID,
		TableNumber:    order.TableNumber,
		Status:         order.Status,
		PreviousStatus: previous,
		TotalAmount:    order.TotalAmount,
		ChangedBy:      actor,
		OccurredAt:     order.UpdatedAt,
	}
}

type Publisher interface {
	Publish(ctx context.Context, event OrderEvent) error
	Close() error
}

// LogPublisher writes events to the info log. It is used when no broker is configured.
type LogPublisher struct{}

func (LogPublisher) Publish(_ context.Context, event OrderEvent) error {
	utils.InfoLogger.WithFields(logrus.Fields{
		"event":        event.Type,
		"order_id":     event.OrderID,
		"table_number": event.TableNumber,
		"status":       event.Status,
	}).Info("order event")
	return nil
}

func (LogPublisher) Close() error { return nil }
