package services

import (
	"context"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/yeremiapane/quickserve/models"
)

// maxLineQuantity caps a single cart line; larger counts are typing mistakes.
const maxLineQuantity = 1000

// CartLine is the canonical cart entry produced at the HTTP boundary.
// MenuID wins over Name when both are set.
type CartLine struct {
	MenuID   uint
	Name     string
	Quantity int
}

func (l CartLine) ref() string {
	if l.MenuID != 0 {
		return "#" + strconv.FormatUint(uint64(l.MenuID), 10)
	}
	return strconv.Quote(l.Name)
}

// PricedItem is the authoritative menu data for one cart line.
type PricedItem struct {
	MenuID    uint
	Name      string
	UnitPrice decimal.Decimal
	Available bool
}

// PriceResolver is the menu collaborator. It is asked once per line, per order.
type PriceResolver interface {
	ResolvePrice(ctx context.Context, line CartLine) (PricedItem, error)
}

// Quote is the priced result of a cart.
type Quote struct {
	Items []models.OrderItem
	Total decimal.Decimal
}

// PricingEngine turns cart lines into priced order items. Client prices are
// never an input.
type PricingEngine struct {
	Menu PriceResolver
}

func NewPricingEngine(menu PriceResolver) *PricingEngine {
	return &PricingEngine{Menu: menu}
}

func (pe *PricingEngine) Price(ctx context.Context, lines []CartLine) (*Quote, error) {
	if len(lines) == 0 {
		return nil, models.NewValidationError("items", "must contain at least one line")
	}

	quote := &Quote{Items: make([]models.OrderItem, 0, len(lines)), Total: decimal.Zero}
	for i, line := range lines {
		if line.Quantity < 1 {
			return nil, models.NewValidationError("items", "line %d: quantity must be a positive integer", i+1)
		}
		if line.Quantity > maxLineQuantity {
			return nil, models.NewValidationError("items", "line %d: quantity must be at most %d", i+1, maxLineQuantity)
		}
		if line.MenuID == 0 && line.Name == "" {
			return nil, models.NewValidationError("items", "line %d: menu item is required", i+1)
		}

		priced, err := pe.Menu.ResolvePrice(ctx, line)
		if models.IsNotFound(err) {
			return nil, models.NewValidationError("items", "line %d: unknown menu item %s", i+1, line.ref())
		}
		if err != nil {
			return nil, err
		}
		if !priced.Available {
			return nil, models.NewValidationError("items", "line %d: %s is not available", i+1, priced.Name)
		}
		if priced.UnitPrice.IsNegative() {
			return nil, models.NewValidationError("items", "line %d: %s has a negative price", i+1, priced.Name)
		}

		lineTotal := priced.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
		if !models.FitsAmount(lineTotal) {
			return nil, models.NewValidationError("items", "line %d: total of %s is too large", i+1, priced.Name)
		}
		quote.Items = append(quote.Items, models.OrderItem{
			MenuID:    priced.MenuID,
			Name:      priced.Name,
			Quantity:  line.Quantity,
			UnitPrice: priced.UnitPrice,
			LineTotal: lineTotal,
		})
		quote.Total = quote.Total.Add(lineTotal)
	}
	if !models.FitsAmount(quote.Total) {
		return nil, models.NewValidationError("items", "order total is too large")
	}
	return quote, nil
}
