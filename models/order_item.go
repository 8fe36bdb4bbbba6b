package models

import "github.com/shopspring/decimal"

// OrderItem is one priced cart line. Items are never edited after the order is placed.
type OrderItem struct {
	ID        uint            `gorm:"primaryKey" json:"-"`
	OrderID   string          `gorm:"type:varchar(36);not null;index" json:"-"`
	Position  int             `gorm:"not null" json:"-"`
	MenuID    uint            `gorm:"not null" json:"menuId"`
	Name      string          `gorm:"type:varchar(255);not null" json:"name"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"unitPrice"`
	LineTotal decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"lineTotal"`
}
