package cart

import (
	"errors"
	"fmt"

	"github.com/tableside/restaurant-order/models"
)

var (
	// ErrStoreUnavailable is returned when the backing store has not been
	// initialized yet; writes fail closed instead of dropping data.
	ErrStoreUnavailable = errors.New("cart store unavailable")
	// ErrAddOnNotOffered is returned when a selected add-on is not part of
	// the snapshotted item's own add-on set.
	ErrAddOnNotOffered = errors.New("selected add-on is not offered by this item")
)

// Line is one staged selection: a snapshot copy of the menu item at the
// moment of adding, plus the chosen subset of its add-ons. Later menu
// edits do not touch an existing line.
type Line struct {
	Item           models.Menu    `json:"item"`
	SelectedAddOns []models.AddOn `json:"selected_add_ons"`
}

// Total is the line total: item price plus selected add-on prices.
func (l Line) Total() float64 {
	return l.Item.Price + models.AddOnsTotal(l.SelectedAddOns)
}

// Cart is the unsubmitted staging collection for one client. It is a
// plain value; all mutation goes through the Store so every change is
// persisted and observers are notified.
type Cart struct {
	Lines []Line `json:"lines"`
}

// Total sums the line totals.
func (c Cart) Total() float64 {
	var total float64
	for _, l := range c.Lines {
		total += l.Total()
	}
	return total
}

// Empty reports whether the cart has no lines.
func (c Cart) Empty() bool {
	return len(c.Lines) == 0
}

// newLine validates the subset invariant and builds a Line. Adding the
// same item twice is allowed and yields two independent lines.
func newLine(item models.Menu, selected []models.AddOn) (Line, error) {
	for _, a := range selected {
		if !item.OffersAddOn(a) {
			return Line{}, fmt.Errorf("%w: %s", ErrAddOnNotOffered, a.Name)
		}
	}
	if selected == nil {
		selected = []models.AddOn{}
	}
	return Line{Item: item, SelectedAddOns: selected}, nil
}
