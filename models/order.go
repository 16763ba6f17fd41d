package models

import "time"

// Order statuses. Only "paid" admits an order into sales aggregation.
const (
	OrderStatusPending   = "pending"
	OrderStatusPreparing = "preparing"
	OrderStatusServed    = "served"
	OrderStatusPaid      = "paid"
)

// Order is an immutable-at-creation record of a submitted cart. Items,
// total_amount and table_no are frozen at submission; only status moves.
// Orders are never deleted by normal flow.
type Order struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	TableNo     string      `gorm:"type:varchar(50);not null" json:"table_no"`
	Status      string      `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	TotalAmount float64     `gorm:"type:decimal(10,2);not null;default:0.00" json:"total_amount"`
	CreatedAt   time.Time   `gorm:"not null;index" json:"created_at"`
	UpdatedAt   time.Time   `gorm:"not null" json:"updated_at"`
	Items       []OrderLine `gorm:"foreignKey:OrderID" json:"items"`
}

// IsValidOrderStatus reports whether s is one of the four order statuses.
func IsValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusPending, OrderStatusPreparing, OrderStatusServed, OrderStatusPaid:
		return true
	}
	return false
}
