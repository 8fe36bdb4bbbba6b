package database

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/yeremiapane/quickserve/models"
	"gorm.io/gorm"
)

// MenuCatalog reads menu items straight from the store; nothing is cached.
type MenuCatalog struct {
	DB      *gorm.DB
	Timeout time.Duration
}

func NewMenuCatalog(db *gorm.DB, timeout time.Duration) *MenuCatalog {
	return &MenuCatalog{DB: db, Timeout: timeout}
}

func (mc *MenuCatalog) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if mc.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, mc.Timeout)
}

func (mc *MenuCatalog) FindByID(ctx context.Context, id uint) (*models.Menu, error) {
	ctx, cancel := mc.withTimeout(ctx)
	defer cancel()

	var menu models.Menu
	err := mc.DB.WithContext(ctx).Preload("Category").First(&menu, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &models.NotFoundError{Resource: "menu item", ID: strconv.FormatUint(uint64(id), 10)}
	}
	if err != nil {
		return nil, &models.PersistenceError{Op: "find menu item", Err: err}
	}
	return &menu, nil
}

// FindByName matches names case-insensitively.
func (mc *MenuCatalog) FindByName(ctx context.Context, name string) (*models.Menu, error) {
	ctx, cancel := mc.withTimeout(ctx)
	defer cancel()

	var menu models.Menu
	err := mc.DB.WithContext(ctx).
		Preload("Category").
		Where("LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name))).
		First(&menu).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &models.NotFoundError{Resource: "menu item", ID: name}
	}
	if err != nil {
		return nil, &models.PersistenceError{Op: "find menu item", Err: err}
	}
	return &menu, nil
}

// List returns the menu grouped by category order, then name.
func (mc *MenuCatalog) List(ctx context.Context, onlyAvailable bool) ([]models.Menu, error) {
	ctx, cancel := mc.withTimeout(ctx)
	defer cancel()

	menus := make([]models.Menu, 0)
	q := mc.DB.WithContext(ctx).Preload("Category")
	if onlyAvailable {
		q = q.Where("is_available = ?", true)
	}
	if err := q.Order("category_id ASC").Order("name ASC").Find(&menus).Error; err != nil {
		return nil, &models.PersistenceError{Op: "list menu", Err: err}
	}
	return menus, nil
}

// Count is used to decide whether the seed must run.
func (mc *MenuCatalog) Count(ctx context.Context) (int64, error) {
	ctx, cancel := mc.withTimeout(ctx)
	defer cancel()

	var n int64
	if err := mc.DB.WithContext(ctx).Model(&models.Menu{}).Count(&n).Error; err != nil {
		return 0, &models.PersistenceError{Op: "count menu", Err: err}
	}
	return n, nil
}
