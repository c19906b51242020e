package groceries

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/trailmeals/server/internal/storage"
)

// GeneratePDF renders the grocery list as a one-page-per-overflow PDF.
func GeneratePDF(trip *storage.Trip, items []Item) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, fmt.Sprintf("Grocery List: %s", trip.Name))
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("%d days, starting %s", trip.Days, trip.StartDate.Format("2006-01-02")))
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(100, 7, "Ingredient", "1", 0, "L", false, 0, "")
	pdf.CellFormat(40, 7, "Amount", "1", 0, "R", false, 0, "")
	pdf.CellFormat(40, 7, "Unit", "1", 0, "L", false, 0, "")
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 10)
	for _, item := range items {
		pdf.CellFormat(100, 6, item.Name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 6, formatAmount(item.Amount), "1", 0, "R", false, 0, "")
		pdf.CellFormat(40, 6, item.Unit, "1", 0, "L", false, 0, "")
		pdf.Ln(-1)
	}

	if len(items) == 0 {
		pdf.Cell(0, 8, "No ingredients planned.")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func formatAmount(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.2f", v)
}
