package sales

import (
	"bytes"
	"encoding/csv"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/tableside/restaurant-order/models"
)

// ErrEmptyExport is returned when an export is triggered on a zero-row
// filtered set; no artifact is produced.
var ErrEmptyExport = errors.New("no paid orders in the selected range")

// LedgerFilename is the artifact name for a window, without extension.
func LedgerFilename(w Window) string {
	return "sales_" + w.StartLabel() + "_" + w.EndLabel()
}

// ItemText renders one order's lines as the pipe-delimited ledger cell:
// "name(+addOn1+addOn2)" per line.
func ItemText(o models.Order) string {
	parts := make([]string, 0, len(o.Items))
	for _, line := range o.Items {
		text := line.Name
		if addOns := line.GetAddOns(); len(addOns) > 0 {
			names := make([]string, 0, len(addOns))
			for _, a := range addOns {
				names = append(names, a.Name)
			}
			text += "(+" + strings.Join(names, "+") + ")"
		}
		parts = append(parts, text)
	}
	return strings.Join(parts, "|")
}

// Ledger serializes the filtered orders (not the ranking) to CSV with
// columns id, datetime, tableNo, totalAmount, items. Fields with embedded
// delimiters are quoted by the writer; rows end in CRLF.
func Ledger(filtered []models.Order) ([]byte, error) {
	if len(filtered) == 0 {
		return nil, ErrEmptyExport
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.UseCRLF = true

	if err := w.Write([]string{"id", "datetime", "tableNo", "totalAmount", "items"}); err != nil {
		return nil, err
	}
	for _, o := range filtered {
		record := []string{
			strconv.FormatUint(uint64(o.ID), 10),
			o.CreatedAt.Format(time.RFC3339),
			o.TableNo,
			strconv.FormatFloat(orderAmount(o), 'f', -1, 64),
			ItemText(o),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
