package services

import (
	"context"

	"github.com/yeremiapane/quickserve/models"
)

type MenuLookup interface {
	FindByID(ctx context.Context, id uint) (*models.Menu, error)
	FindByName(ctx context.Context, name string) (*models.Menu, error)
	List(ctx context.Context, onlyAvailable bool) ([]models.Menu, error)
}

// MenuService answers price lookups with a fresh read per call.
type MenuService struct {
	Catalog MenuLookup
}

func NewMenuService(catalog MenuLookup) *MenuService {
	return &MenuService{Catalog: catalog}
}

func (ms *MenuService) ResolvePrice(ctx context.Context, line CartLine) (PricedItem, error) {
	var (
		menu *models.Menu
		err  error
	)
	switch {
	case line.MenuID != 0:
		menu, err = ms.Catalog.FindByID(ctx, line.MenuID)
	case line.Name != "":
		menu, err = ms.Catalog.FindByName(ctx, line.Name)
	default:
		return PricedItem{}, models.NewValidationError("items", "menu item is required")
	}
	if err != nil {
		return PricedItem{}, err
	}
	return PricedItem{
		MenuID:    menu.ID,
		Name:      menu.Name,
		UnitPrice: menu.Price,
		Available: menu.IsAvailable,
	}, nil
}

func (ms *MenuService) ListMenu(ctx context.Context, onlyAvailable bool) ([]models.Menu, error) {
	return ms.Catalog.List(ctx, onlyAvailable)
}

func (ms *MenuService) GetMenuItem(ctx context.Context, id uint) (*models.Menu, error) {
	return ms.Catalog.FindByID(ctx, id)
}
