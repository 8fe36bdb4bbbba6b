package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/quickserve/events"
	"github.com/yeremiapane/quickserve/models"
	"github.com/yeremiapane/quickserve/utils"
)

// CustomerActor is recorded in the history for orders placed from a table.
const CustomerActor = "customer"

// maxStatusRevalidations bounds how often Advance re-reads an order that
// changed under it before giving up with a retryable error.
const maxStatusRevalidations = 1

// OrderStore is the write side of the order repository.
type OrderStore interface {
	Insert(ctx context.Context, order *models.Order, actor string) error
	FindByID(ctx context.Context, id string) (*models.Order, error)
	UpdateStatus(ctx context.Context, id string, from, to models.OrderStatus, actor string, at time.Time) error
}

// OrderLifecycle creates orders and moves them through their statuses.
type OrderLifecycle struct {
	Orders  OrderStore
	Pricing *PricingEngine
	Events  events.Publisher
	Now     func() time.Time
	NewID   func() string
}

func NewOrderLifecycle(orders OrderStore, pricing *PricingEngine, publisher events.Publisher) *OrderLifecycle {
	if publisher == nil {
		publisher = events.LogPublisher{}
	}
	return &OrderLifecycle{
		Orders:  orders,
		Pricing: pricing,
		Events:  publisher,
		Now:     time.Now,
		NewID:   uuid.NewString,
	}
}

// CreateOrder prices the cart against the menu and stores a new order in the
// placed status.
func (ol *OrderLifecycle) CreateOrder(ctx context.Context, tableNumber string, lines []CartLine) (*models.Order, error) {
	table, err := NormalizeTableNumber(tableNumber)
	if err != nil {
		return nil, err
	}

	quote, err := ol.Pricing.Price(ctx, lines)
	if err != nil {
		return nil, err
	}

	now := ol.Now().UTC()
	order := &models.Order{
		ID:          ol.NewID(),
		TableNumber: table,
		Items:       quote.Items,
		TotalAmount: quote.Total,
		Status:      models.StatusPlaced,
		PaymentMode: models.PaymentPayAtCounter,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := ol.Orders.Insert(ctx, order, CustomerActor); err != nil {
		utils.ErrorLogger.WithFields(logrus.Fields{
			"table_number": table,
		}).Errorf("create order failed: %v", err)
		return nil, err
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"order_id":     order.ID,
		"table_number": order.TableNumber,
		"items":        len(order.Items),
		"total":        order.TotalAmount.StringFixed(2),
	}).Info("order placed")

	ol.publish(ctx, events.NewOrderEvent(events.OrderPlaced, order, "", CustomerActor))
	return order, nil
}

// Advance moves an order to target. Asking for the current status is a
// no-op success. The write is a compare-and-set on the status that was
// validated, so a concurrent change is never overwritten.
func (ol *OrderLifecycle) Advance(ctx context.Context, orderID string, target models.OrderStatus, actor string) (*models.Order, error) {
	if actor == "" {
		actor = models.RoleStaff
	}

	order, err := ol.Orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	for attempt := 0; ; attempt++ {
		from := order.Status
		changed, err := models.CheckTransition(order.ID, from, target)
		if err != nil {
			utils.InfoLogger.WithFields(logrus.Fields{
				"order_id": order.ID,
				"from":     from,
				"to":       target,
				"actor":    actor,
			}).Warn("status change rejected")
			return nil, err
		}
		if !changed {
			return order, nil
		}

		now := ol.Now().UTC()
		err = ol.Orders.UpdateStatus(ctx, order.ID, from, target, actor, now)
		if err == nil {
			order.Status = target
			order.UpdatedAt = now
			utils.InfoLogger.WithFields(logrus.Fields{
				"order_id": order.ID,
				"from":     from,
				"to":       target,
				"actor":    actor,
			}).Info("order status changed")
			ol.publish(ctx, events.NewOrderEvent(events.OrderStatusChanged, order, from, actor))
			return order, nil
		}
		if !errors.Is(err, models.ErrStatusConflict) {
			return nil, err
		}
		if attempt >= maxStatusRevalidations {
			return nil, &models.PersistenceError{Op: "update order status", Err: err}
		}

		order, err = ol.Orders.FindByID(ctx, orderID)
		if err != nil {
			return nil, err
		}
	}
}

// publish runs after the store commit; the store stays authoritative, so a
// broker failure is logged and not returned.
func (ol *OrderLifecycle) publish(ctx context.Context, event events.OrderEvent) {
	if err := ol.Events.Publish(ctx, event); err != nil {
		utils.ErrorLogger.WithFields(logrus.Fields{
			"event":    event.Type,
			"order_id": event.OrderID,
		}).Errorf("publish order event: %v", err)
	}
}
