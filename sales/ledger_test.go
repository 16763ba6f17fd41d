package sales

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tableside/restaurant-order/models"
)

func TestLedgerFilename(t *testing.T) {
	w, _ := NewWindow("2024-01-01", "2024-01-31")
	assert.Equal(t, "sales_2024-01-01_2024-01-31", LedgerFilename(w))
}

func TestItemText(t *testing.T) {
	var burger, tea models.OrderLine
	burger.Name = "Burger"
	assert.NoError(t, burger.SetAddOns([]models.AddOn{
		{Name: "Cheese", Price: 1.5},
		{Name: "Bacon", Price: 2},
	}))
	tea.Name = "Tea"

	o := models.Order{Items: []models.OrderLine{burger, tea}}
	assert.Equal(t, "Burger(+Cheese+Bacon)|Tea", ItemText(o))
}

func TestLedgerContent(t *testing.T) {
	createdAt := time.Date(2024, 5, 2, 12, 30, 0, 0, time.Local)
	o := paidOrder(7, 42.5, createdAt)
	var line models.OrderLine
	line.Name = "Tea"
	line.SubTotal = 42.5
	o.Items = []models.OrderLine{line}

	data, err := Ledger([]models.Order{o})
	assert.NoError(t, err)

	text := string(data)
	lines := strings.Split(strings.TrimSuffix(text, "\r\n"), "\r\n")
	assert.Len(t, lines, 2)
	assert.Equal(t, "id,datetime,tableNo,totalAmount,items", lines[0])
	assert.Equal(t, "7,"+createdAt.Format(time.RFC3339)+",T1,42.5,Tea", lines[1])
}

func TestLedgerQuotesEmbeddedDelimiters(t *testing.T) {
	o := paidOrder(1, 10, time.Date(2024, 5, 2, 12, 0, 0, 0, time.Local))
	var line models.OrderLine
	line.Name = "Fish, Chips"
	line.SubTotal = 10
	o.Items = []models.OrderLine{line}

	data, err := Ledger([]models.Order{o})
	assert.NoError(t, err)
	assert.Contains(t, string(data), `"Fish, Chips"`)
}

func TestLedgerRejectsEmptySet(t *testing.T) {
	_, err := Ledger(nil)
	assert.ErrorIs(t, err, ErrEmptyExport)

	_, err = Ledger([]models.Order{})
	assert.ErrorIs(t, err, ErrEmptyExport)
}
