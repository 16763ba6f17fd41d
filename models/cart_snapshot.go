package models

import "time"

// CartSnapshot is the durable form of one client cart: the full line set
// re-serialized on every mutation, keyed by the client's cart key. TableNo
// holds the table context captured from a QR scan, if any. One row per
// device; carts are never shared across keys.
type CartSnapshot struct {
	ID        uint      `gorm:"primaryKey"`
	CartKey   string    `gorm:"type:varchar(64);uniqueIndex;not null"`
	TableNo   string    `gorm:"type:varchar(50)"`
	Payload   string    `gorm:"type:text;not null"`
	UpdatedAt time.Time `gorm:"not null"`
}
