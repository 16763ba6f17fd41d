package controllers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-pdf/fpdf"
	chart "github.com/wcharczuk/go-chart/v2"
	"gorm.io/gorm"

	"github.com/tableside/restaurant-order/models"
	"github.com/tableside/restaurant-order/sales"
	"github.com/tableside/restaurant-order/utils"
)

type ReportController struct {
	DB *gorm.DB
}

func NewReportController(db *gorm.DB) *ReportController {
	return &ReportController{DB: db}
}

// window parses the start_date/end_date query params, defaulting to the
// current month like the staff dashboard does.
func reportWindow(c *gin.Context) (sales.Window, error) {
	start := c.Query("start_date")
	end := c.Query("end_date")
	if start == "" && end == "" {
		return sales.CurrentMonth(time.Now()), nil
	}
	return sales.NewWindow(start, end)
}

// filtered loads the full order stream and applies the window filter.
// Reports are synchronous pulls: nothing is cached or maintained
// incrementally, every query recomputes from the current order set.
func (rc *ReportController) filtered(c *gin.Context) ([]models.Order, sales.Window, bool) {
	w, err := reportWindow(c)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return nil, sales.Window{}, false
	}

	var orders []models.Order
	if err := rc.DB.Preload("Items").Order("created_at DESC").Find(&orders).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return nil, sales.Window{}, false
	}

	return sales.Filter(orders, w), w, true
}

// GetSalesReport -> totals, average ticket and the top-10 ranking for a
// date window, plus the matching orders for the detail list. An empty
// window is a zero-valued report, not an error.
func (rc *ReportController) GetSalesReport(c *gin.Context) {
	filtered, w, ok := rc.filtered(c)
	if !ok {
		return
	}

	summary := sales.Summarize(filtered)
	if filtered == nil {
		filtered = []models.Order{}
	}

	utils.RespondJSON(c, http.StatusOK, "Sales report", gin.H{
		"start_date": w.StartLabel(),
		"end_date":   w.EndLabel(),
		"summary":    summary,
		"orders":     filtered,
	})
}

// ExportCSV -> the ledger artifact. A zero-row window is rejected here,
// at the trigger point; no empty artifact is ever produced.
func (rc *ReportController) ExportCSV(c *gin.Context) {
	filtered, w, ok := rc.filtered(c)
	if !ok {
		return
	}

	data, err := sales.Ledger(filtered)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	filename := sales.LedgerFilename(w) + ".csv"
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "text/csv", data)
}

// ExportPDF -> the same window rendered as a printable table.
func (rc *ReportController) ExportPDF(c *gin.Context) {
	filtered, w, ok := rc.filtered(c)
	if !ok {
		return
	}
	if len(filtered) == 0 {
		utils.RespondError(c, http.StatusBadRequest, sales.ErrEmptyExport)
		return
	}

	summary := sales.Summarize(filtered)

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 10, fmt.Sprintf("Sales %s to %s", w.StartLabel(), w.EndLabel()),
		"", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Orders: %d    Revenue: %s    Avg ticket: %s",
		summary.Count, utils.FormatAmount(summary.SalesTotal), summary.AvgTicket),
		"", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 9)
	widths := []float64{15, 40, 25, 25, 85}
	headers := []string{"ID", "Datetime", "Table", "Total", "Items"}
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 8)
	for _, o := range filtered {
		cells := []string{
			fmt.Sprintf("%d", o.ID),
			o.CreatedAt.Format("2006-01-02 15:04"),
			o.TableNo,
			utils.FormatAmount(o.TotalAmount),
			sales.ItemText(o),
		}
		for i, cell := range cells {
			pdf.CellFormat(widths[i], 6, cell, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	filename := sales.LedgerFilename(w) + ".pdf"
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

// ExportChart -> the ranking as a PNG bar chart for the dashboard.
func (rc *ReportController) ExportChart(c *gin.Context) {
	filtered, w, ok := rc.filtered(c)
	if !ok {
		return
	}

	summary := sales.Summarize(filtered)
	if len(summary.Ranking) == 0 {
		utils.RespondError(c, http.StatusBadRequest, sales.ErrEmptyExport)
		return
	}

	bars := make([]chart.Value, 0, len(summary.Ranking))
	for _, row := range summary.Ranking {
		bars = append(bars, chart.Value{Value: row.Revenue, Label: row.Name})
	}

	graph := chart.BarChart{
		Title:    fmt.Sprintf("Revenue by item %s to %s", w.StartLabel(), w.EndLabel()),
		Height:   512,
		BarWidth: 50,
		Bars:     bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	c.Data(http.StatusOK, "image/png", buf.Bytes())
}
