package models

import (
	"encoding/json"
	"time"
)

// OrderLine is one frozen cart line inside an order. SubTotal is computed
// once at submission (price + add-on prices) and is the authoritative
// amount even if the menu item is later edited or deleted.
type OrderLine struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	OrderID uint `gorm:"not null;index" json:"order_id"`
	// Omitting Order field from JSON to avoid recursive nesting
	Order     Order     `gorm:"foreignKey:OrderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Price     float64   `gorm:"type:decimal(10,2);not null" json:"price"`
	AddOns    string    `gorm:"type:text" json:"-"`
	SubTotal  float64   `gorm:"type:decimal(10,2);not null" json:"sub_total"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

// GetAddOns decodes the frozen add-on sequence.
func (l *OrderLine) GetAddOns() []AddOn {
	if l.AddOns == "" {
		return []AddOn{}
	}
	var addOns []AddOn
	if err := json.Unmarshal([]byte(l.AddOns), &addOns); err != nil {
		return []AddOn{}
	}
	return addOns
}

// SetAddOns encodes addOns into the JSON column.
func (l *OrderLine) SetAddOns(addOns []AddOn) error {
	if addOns == nil {
		addOns = []AddOn{}
	}
	data, err := json.Marshal(addOns)
	if err != nil {
		return err
	}
	l.AddOns = string(data)
	return nil
}

// MarshalJSON flattens the add-on column into a regular JSON array field.
func (l OrderLine) MarshalJSON() ([]byte, error) {
	type alias OrderLine
	return json.Marshal(struct {
		alias
		AddOnList []AddOn `json:"add_ons"`
	}{
		alias:     alias(l),
		AddOnList: l.GetAddOns(),
	})
}
