package export

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-pdf/fpdf"

	"StockNewsDigest/internal/domain"
)

// ExportPDF renders the digest as stock_summary_YYYY-MM-DD.pdf with
// the same sections as the Markdown export.
func (e *FileExporter) ExportPDF(summary, title string, data domain.DigestData) (string, error) {
	path := filepath.Join(e.dir, fmt.Sprintf("stock_summary_%s.pdf", e.now().Format("2006-01-02")))

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.MultiCell(0, 9, title, "", "L", false)
	pdf.Ln(4)

	if len(data.Quotes) > 0 {
		writeHeading(pdf, "Current Stock Prices")

		pdf.SetFont("Helvetica", "B", 10)
		colWidths := []float64{35, 35, 35, 35}
		headers := []string{"Ticker", "Price", "Change", "% Change"}
		for i, header := range headers {
			pdf.CellFormat(colWidths[i], 7, header, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)

		pdf.SetFont("Helvetica", "", 10)
		for _, ticker := range sortedKeys(data.Quotes) {
			quote := data.Quotes[ticker]
			cells := []string{ticker, "$" + quote.Price, signedChange(quote.Change), quote.PercentChange + "%"}
			for i, cell := range cells {
				pdf.CellFormat(colWidths[i], 7, cell, "1", 0, "L", false, 0, "")
			}
			pdf.Ln(-1)
		}
		pdf.Ln(4)
	}

	if len(data.Sentiment) > 0 {
		writeHeading(pdf, "Market Sentiment")

		pdf.SetFont("Helvetica", "", 10)
		for _, ticker := range sortedKeys(data.Sentiment) {
			bucket := data.Sentiment[ticker]
			if bucket.Positive+bucket.Negative+bucket.Neutral == 0 {
				continue
			}
			pdf.SetFont("Helvetica", "B", 11)
			pdf.MultiCell(0, 6, ticker, "", "L", false)
			pdf.SetFont("Helvetica", "", 10)
			pdf.MultiCell(0, 5, fmt.Sprintf("Positive: %d   Negative: %d   Neutral: %d",
				bucket.Positive, bucket.Negative, bucket.Neutral), "", "L", false)
			pdf.Ln(2)
		}
		pdf.Ln(2)
	}

	writeHeading(pdf, "Summary")
	pdf.SetFont("Helvetica", "", 10)
	for _, line := range strings.Split(summary, "\n") {
		pdf.MultiCell(0, 5, line, "", "L", false)
	}

	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("write pdf export: %w", err)
	}

	return path, nil
}

func writeHeading(pdf *fpdf.Fpdf, text string) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.MultiCell(0, 8, text, "", "L", false)
	pdf.Ln(1)
}
