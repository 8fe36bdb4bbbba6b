package models

import "time"

// OrderStatusLog is the append-only history of an order's statuses.
// FromStatus is empty for the entry written at creation.
type OrderStatusLog struct {
	ID         uint        `gorm:"primaryKey" json:"id"`
	OrderID    string      `gorm:"type:varchar(36);not null;index" json:"orderId"`
	FromStatus OrderStatus `gorm:"type:varchar(20)" json:"from,omitempty"`
	ToStatus   OrderStatus `gorm:"type:varchar(20);not null" json:"to"`
	ChangedBy  string      `gorm:"type:varchar(100);not null" json:"changedBy"`
	ChangedAt  time.Time   `gorm:"not null" json:"changedAt"`
}
