package database

import (
	"context"
	"errors"
	"time"

	"github.com/yeremiapane/quickserve/models"
	"gorm.io/gorm"
)

// OrderRepository is the typed access layer over the orders tables.
// Every call is bounded by the configured operation timeout.
type OrderRepository struct {
	DB      *gorm.DB
	Timeout time.Duration
}

func NewOrderRepository(db *gorm.DB, timeout time.Duration) *OrderRepository {
	return &OrderRepository{DB: db, Timeout: timeout}
}

func (r *OrderRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, r.Timeout)
}

// Insert writes the order, its items and the first history entry in a single
// transaction, so a reader never sees a partially written order.
func (r *OrderRepository) Insert(ctx context.Context, order *models.Order, actor string) error {
	if err := validateForInsert(order); err != nil {
		return err
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	for i := range order.Items {
		order.Items[i].OrderID = order.ID
		order.Items[i].Position = i
	}

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Create(order).Error; err != nil {
			return err
		}
		if err := tx.Create(&order.Items).Error; err != nil {
			return err
		}
		return tx.Create(&models.OrderStatusLog{
			OrderID:   order.ID,
			ToStatus:  order.Status,
			ChangedBy: actor,
			ChangedAt: order.CreatedAt,
		}).Error
	})
	if err != nil {
		return &models.PersistenceError{Op: "insert order", Err: err}
	}
	return nil
}

// FindByID loads one order with its items in their original order.
func (r *OrderRepository) FindByID(ctx context.Context, id string) (*models.Order, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var order models.Order
	err := r.DB.WithContext(ctx).
		Preload("Items", orderedItems).
		Where("id = ?", id).
		First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &models.NotFoundError{Resource: "order", ID: id}
	}
	if err != nil {
		return nil, &models.PersistenceError{Op: "find order", Err: err}
	}
	return &order, nil
}

// FindLatestByTable returns up to limit orders for the table, newest first.
// No orders is an empty slice, not an error.
func (r *OrderRepository) FindLatestByTable(ctx context.Context, tableNumber string, limit int) ([]models.Order, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	orders := make([]models.Order, 0)
	err := r.DB.WithContext(ctx).
		Preload("Items", orderedItems).
		Where("table_number = ?", tableNumber).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, &models.PersistenceError{Op: "find orders by table", Err: err}
	}
	return orders, nil
}

// FindByStatuses lists orders in any of the statuses, oldest first.
func (r *OrderRepository) FindByStatuses(ctx context.Context, statuses []models.OrderStatus) ([]models.Order, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	orders := make([]models.Order, 0)
	err := r.DB.WithContext(ctx).
		Preload("Items", orderedItems).
		Where("status IN ?", statuses).
		Order("created_at ASC").
		Find(&orders).Error
	if err != nil {
		return nil, &models.PersistenceError{Op: "find orders by status", Err: err}
	}
	return orders, nil
}

// UpdateStatus moves an order from one status to another as a compare-and-set
// keyed on the expected current status, and records the change in the history
// within the same transaction. It does not judge whether the move is legal.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, from, to models.OrderStatus, actor string, at time.Time) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Order{}).
			Where("id = ? AND status = ?", id, from).
			Updates(map[string]interface{}{"status": to, "updated_at": at})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&models.Order{}).Where("id = ?", id).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return &models.NotFoundError{Resource: "order", ID: id}
			}
			return models.ErrStatusConflict
		}
		return tx.Create(&models.OrderStatusLog{
			OrderID:    id,
			FromStatus: from,
			ToStatus:   to,
			ChangedBy:  actor,
			ChangedAt:  at,
		}).Error
	})

	switch {
	case err == nil:
		return nil
	case errors.Is(err, models.ErrStatusConflict), models.IsNotFound(err):
		return err
	default:
		return &models.PersistenceError{Op: "update order status", Err: err}
	}
}

// History returns the status changes of an order, oldest first.
func (r *OrderRepository) History(ctx context.Context, id string) ([]models.OrderStatusLog, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var count int64
	if err := r.DB.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return nil, &models.PersistenceError{Op: "find order", Err: err}
	}
	if count == 0 {
		return nil, &models.NotFoundError{Resource: "order", ID: id}
	}

	logs := make([]models.OrderStatusLog, 0)
	err := r.DB.WithContext(ctx).
		Where("order_id = ?", id).
		Order("changed_at ASC").
		Order("id ASC").
		Find(&logs).Error
	if err != nil {
		return nil, &models.PersistenceError{Op: "find order history", Err: err}
	}
	return logs, nil
}

// Ping checks that the store answers within the operation timeout.
func (r *OrderRepository) Ping(ctx context.Context) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	sqlDB, err := r.DB.DB()
	if err != nil {
		return &models.PersistenceError{Op: "ping", Err: err}
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return &models.PersistenceError{Op: "ping", Err: err}
	}
	return nil
}

func orderedItems(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

func validateForInsert(order *models.Order) error {
	switch {
	case order.ID == "":
		return models.NewValidationError("id", "is required")
	case order.TableNumber == "":
		return models.NewValidationError("tableNumber", "is required")
	case len(order.Items) == 0:
		return models.NewValidationError("items", "must not be empty")
	case !order.Status.Valid():
		return models.NewValidationError("status", "unknown status %q", string(order.Status))
	}
	for i, item := range order.Items {
		if item.Quantity < 1 {
			return models.NewValidationError("items", "line %d: quantity must be at least 1", i+1)
		}
		if item.UnitPrice.IsNegative() {
			return models.NewValidationError("items", "line %d: unit price must not be negative", i+1)
		}
		if !models.FitsAmount(item.LineTotal) {
			return models.NewValidationError("items", "line %d: line total out of range", i+1)
		}
	}
	if !order.TotalAmount.Equal(order.RecomputeTotal()) {
		return models.NewValidationError("totalAmount", "does not match the sum of the line totals")
	}
	if !models.FitsAmount(order.TotalAmount) {
		return models.NewValidationError("totalAmount", "out of range")
	}
	return nil
}
