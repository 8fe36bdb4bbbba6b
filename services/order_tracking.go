package services

import (
	"context"
	"strings"

	"github.com/yeremiapane/quickserve/models"
)

const (
	DefaultTableHistoryLimit = 10
	MaxTableHistoryLimit     = 50
)

// OrderReader is the read side of the order repository.
type OrderReader interface {
	FindByID(ctx context.Context, id string) (*models.Order, error)
	FindLatestByTable(ctx context.Context, tableNumber string, limit int) ([]models.Order, error)
	FindByStatuses(ctx context.Context, statuses []models.OrderStatus) ([]models.Order, error)
	History(ctx context.Context, id string) ([]models.OrderStatusLog, error)
}

// OrderTracking serves the polling reads. It holds no cache: every call
// reflects what the store holds at that moment.
type OrderTracking struct {
	Orders OrderReader
}

func NewOrderTracking(orders OrderReader) *OrderTracking {
	return &OrderTracking{Orders: orders}
}

func (ot *OrderTracking) GetOrder(ctx context.Context, orderID string) (*models.Order, error) {
	id := strings.TrimSpace(orderID)
	if id == "" {
		return nil, models.NewValidationError("orderId", "is required")
	}
	return ot.Orders.FindByID(ctx, id)
}

// GetLatestForTable returns the newest order of the table. found is false,
// with a nil error, when the table has no orders yet.
func (ot *OrderTracking) GetLatestForTable(ctx context.Context, tableNumber string) (order *models.Order, found bool, err error) {
	orders, err := ot.ListForTable(ctx, tableNumber, 1)
	if err != nil {
		return nil, false, err
	}
	if len(orders) == 0 {
		return nil, false, nil
	}
	return &orders[0], true, nil
}

// ListForTable returns up to limit orders of the table, newest first. A
// non-positive limit means the default; larger limits are capped.
func (ot *OrderTracking) ListForTable(ctx context.Context, tableNumber string, limit int) ([]models.Order, error) {
	table, err := NormalizeTableNumber(tableNumber)
	if err != nil {
		return nil, err
	}
	switch {
	case limit <= 0:
		limit = DefaultTableHistoryLimit
	case limit > MaxTableHistoryLimit:
		limit = MaxTableHistoryLimit
	}
	return ot.Orders.FindLatestByTable(ctx, table, limit)
}

// ActiveOrders lists orders in the given statuses, oldest first. With no
// statuses it lists everything still in progress.
func (ot *OrderTracking) ActiveOrders(ctx context.Context, statuses []models.OrderStatus) ([]models.Order, error) {
	if len(statuses) == 0 {
		statuses = models.ActiveStatuses()
	}
	return ot.Orders.FindByStatuses(ctx, statuses)
}

func (ot *OrderTracking) History(ctx context.Context, orderID string) ([]models.OrderStatusLog, error) {
	id := strings.TrimSpace(orderID)
	if id == "" {
		return nil, models.NewValidationError("orderId", "is required")
	}
	return ot.Orders.History(ctx, id)
}
