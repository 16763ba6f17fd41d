package models

import (
	"encoding/json"
	"time"
)

// Menu statuses. "hidden" is excluded from the customer listing,
// "soldout" blocks add-to-cart.
const (
	MenuStatusActive  = "active"
	MenuStatusHidden  = "hidden"
	MenuStatusPromo   = "promo"
	MenuStatusSoldout = "soldout"
)

type Menu struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Price     float64   `gorm:"type:decimal(10,2);not null" json:"price"`
	ImageUrl  string    `gorm:"type:varchar(255)" json:"image_url"`
	Status    string    `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	AddOns    string    `gorm:"type:text" json:"-"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

// IsValidMenuStatus reports whether s is one of the four menu statuses.
func IsValidMenuStatus(s string) bool {
	switch s {
	case MenuStatusActive, MenuStatusHidden, MenuStatusPromo, MenuStatusSoldout:
		return true
	}
	return false
}

// GetAddOns decodes the JSON add-on column, preserving order.
func (m *Menu) GetAddOns() []AddOn {
	if m.AddOns == "" {
		return []AddOn{}
	}
	var addOns []AddOn
	if err := json.Unmarshal([]byte(m.AddOns), &addOns); err != nil {
		return []AddOn{}
	}
	return addOns
}

// SetAddOns encodes addOns into the JSON column.
func (m *Menu) SetAddOns(addOns []AddOn) error {
	if addOns == nil {
		addOns = []AddOn{}
	}
	data, err := json.Marshal(addOns)
	if err != nil {
		return err
	}
	m.AddOns = string(data)
	return nil
}

// OffersAddOn reports whether the menu's add-on set contains an add-on
// with the same name and price.
func (m *Menu) OffersAddOn(a AddOn) bool {
	for _, offered := range m.GetAddOns() {
		if offered.Name == a.Name && offered.Price == a.Price {
			return true
		}
	}
	return false
}

// MarshalJSON flattens the add-on column into a regular JSON array field.
func (m Menu) MarshalJSON() ([]byte, error) {
	type alias Menu
	return json.Marshal(struct {
		alias
		AddOnList []AddOn `json:"add_ons"`
	}{
		alias:     alias(m),
		AddOnList: m.GetAddOns(),
	})
}

// UnmarshalJSON is the inverse of MarshalJSON so snapshots survive a
// JSON round-trip with their add-on set intact.
func (m *Menu) UnmarshalJSON(data []byte) error {
	type alias Menu
	aux := struct {
		*alias
		AddOnList []AddOn `json:"add_ons"`
	}{alias: (*alias)(m)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	return m.SetAddOns(aux.AddOnList)
}
