package sales

import (
	"errors"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tableside/restaurant-order/models"
)

// ErrInvalidWindow is returned for unparseable or reversed date ranges.
var ErrInvalidWindow = errors.New("invalid sales window")

const dateLayout = "2006-01-02"

// rankingLimit caps the per-item ranking to the top rows by revenue.
const rankingLimit = 10

// Window is an inclusive calendar-date range in local time. It is a query
// parameter, never persisted; every report recomputes from scratch.
type Window struct {
	Start time.Time
	End   time.Time
}

// NewWindow parses "YYYY-MM-DD" bounds in local time.
func NewWindow(start, end string) (Window, error) {
	s, err := time.ParseInLocation(dateLayout, start, time.Local)
	if err != nil {
		return Window{}, ErrInvalidWindow
	}
	e, err := time.ParseInLocation(dateLayout, end, time.Local)
	if err != nil {
		return Window{}, ErrInvalidWindow
	}
	if e.Before(s) {
		return Window{}, ErrInvalidWindow
	}
	return Window{Start: s, End: e}, nil
}

// CurrentMonth is the default query range: first of the month through today.
func CurrentMonth(now time.Time) Window {
	return Window{
		Start: time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.Local),
		End:   now,
	}
}

// Contains reports whether t falls inside the window, using
// start-of-day/end-of-day boundaries, both inclusive.
func (w Window) Contains(t time.Time) bool {
	from := time.Date(w.Start.Year(), w.Start.Month(), w.Start.Day(), 0, 0, 0, 0, time.Local)
	until := time.Date(w.End.Year(), w.End.Month(), w.End.Day(), 23, 59, 59, 999000000, time.Local)
	return !t.Before(from) && !t.After(until)
}

// StartLabel and EndLabel format the bounds for filenames and captions.
func (w Window) StartLabel() string { return w.Start.Format(dateLayout) }
func (w Window) EndLabel() string   { return w.End.Format(dateLayout) }

// Filter returns the orders admitted into the window: status paid and
// created inside the range. Input order is preserved.
func Filter(orders []models.Order, w Window) []models.Order {
	var matched []models.Order
	for _, o := range orders {
		if o.Status == models.OrderStatusPaid && w.Contains(o.CreatedAt) {
			matched = append(matched, o)
		}
	}
	return matched
}

// RankingRow is a per-item aggregate within a window. One unit per order
// line regardless of add-ons.
type RankingRow struct {
	Name      string  `json:"name"`
	UnitsSold int     `json:"units_sold"`
	Revenue   float64 `json:"revenue"`
}

// Summary holds the derived metrics for one filtered order set.
type Summary struct {
	Count      int          `json:"count"`
	SalesTotal float64      `json:"sales_total"`
	AvgTicket  string       `json:"avg_ticket"`
	Ranking    []RankingRow `json:"ranking"`
}

// orderAmount is the coalescing rule for order totals: total_amount,
// falling back to 0 when absent.
func orderAmount(o models.Order) float64 {
	return o.TotalAmount
}

// lineRevenue is the coalescing rule for line revenue: sub_total, falling
// back to price, falling back to 0.
func lineRevenue(l models.OrderLine) float64 {
	if l.SubTotal != 0 {
		return l.SubTotal
	}
	if l.Price != 0 {
		return l.Price
	}
	return 0
}

// Summarize recomputes all metrics from an already-filtered order set.
// An empty set degrades to zero values, never an error.
func Summarize(filtered []models.Order) Summary {
	summary := Summary{
		Count:     len(filtered),
		AvgTicket: "0.00",
		Ranking:   []RankingRow{},
	}

	total := decimal.Zero
	for _, o := range filtered {
		total = total.Add(decimal.NewFromFloat(orderAmount(o)))
	}
	summary.SalesTotal, _ = total.Float64()

	if summary.Count > 0 {
		summary.AvgTicket = total.Div(decimal.NewFromInt(int64(summary.Count))).StringFixed(2)
	}

	// Group lines by item name in encounter order.
	index := make(map[string]int)
	var rows []RankingRow
	for _, o := range filtered {
		for _, line := range o.Items {
			i, ok := index[line.Name]
			if !ok {
				i = len(rows)
				index[line.Name] = i
				rows = append(rows, RankingRow{Name: line.Name})
			}
			rows[i].UnitsSold++
			rows[i].Revenue += lineRevenue(line)
		}
	}

	// Stable sort keeps first-encounter order for equal revenue.
	sort.SliceStable(rows, func(a, b int) bool {
		return rows[a].Revenue > rows[b].Revenue
	})
	if len(rows) > rankingLimit {
		rows = rows[:rankingLimit]
	}
	summary.Ranking = rows

	return summary
}
