package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentPayAtCounter is the only payment mode; there is no gateway state.
const PaymentPayAtCounter = "pay_at_counter"

// maxAmount is the largest value the decimal(12,2) amount columns hold.
var maxAmount = decimal.RequireFromString("9999999999.99")

// FitsAmount reports whether v can be stored in an amount column without
// rounding or overflow.
func FitsAmount(v decimal.Decimal) bool {
	return !v.IsNegative() && v.LessThanOrEqual(maxAmount) && v.Equal(v.Round(2))
}

type Order struct {
	ID          string          `gorm:"type:varchar(36);primaryKey" json:"id"`
	TableNumber string          `gorm:"type:varchar(50);not null;index:idx_orders_table_created,priority:1" json:"tableNumber"`
	Items       []OrderItem     `gorm:"foreignKey:OrderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"items"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"totalAmount"`
	Status      OrderStatus     `gorm:"type:varchar(20);not null;default:'placed';index" json:"status"`
	PaymentMode string          `gorm:"type:varchar(30);not null;default:'pay_at_counter'" json:"paymentMode"`
	CreatedAt   time.Time       `gorm:"not null;index:idx_orders_table_created,priority:2" json:"createdAt"`
	UpdatedAt   time.Time       `gorm:"not null" json:"updatedAt"`
}

// RecomputeTotal sums the line totals. It is deterministic and safe to call
// any number of times.
func (o *Order) RecomputeTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.LineTotal)
	}
	return total
}
