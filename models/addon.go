package models

// AddOn is an optional priced modifier attached to a menu item or frozen
// into an order line. It has no identity of its own; the owning record's
// JSON column is the source of truth.
type AddOn struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// AddOnsTotal sums the prices of the given add-ons.
func AddOnsTotal(addOns []AddOn) float64 {
	var total float64
	for _, a := range addOns {
		total += a.Price
	}
	return total
}
