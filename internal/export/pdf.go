// Package export renders finished document snapshots. It is a read-only
// consumer of the pricing schema: nothing here feeds back into computation.
package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf/v2"

	"github.com/vantage-admin/vantage-admin/internal/pricing"
)

// PDFRenderer renders quotation snapshots to PDF.
type PDFRenderer struct {
	companyName string
}

func NewPDFRenderer(companyName string) *PDFRenderer {
	if companyName == "" {
		companyName = "Vantage Admin"
	}
	return &PDFRenderer{companyName: companyName}
}

// RenderQuotation renders the quotation-flow export shape to a PDF byte
// slice.
func (r *PDFRenderer) RenderQuotation(doc pricing.QuotationExport) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	// Header
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(190, 10, r.companyName+" - Quotation", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(190, 6, fmt.Sprintf("Quotation No: %s", doc.Number), "", 1, "C", false, 0, "")
	pdf.CellFormat(95, 6, fmt.Sprintf("Date: %s", doc.Date), "", 0, "L", false, 0, "")
	pdf.CellFormat(95, 6, fmt.Sprintf("Valid Until: %s", doc.ValidUntil), "", 1, "R", false, 0, "")
	pdf.Ln(4)

	// Customer block
	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, "Customer", "1", 1, "L", true, 0, "")
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(95, 7, fmt.Sprintf("Name: %s", doc.Customer.Name), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Contact: %s", doc.Customer.Contact), "RB", 1, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("VAT No: %s", doc.Customer.VATNumber), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("CR No: %s", doc.Customer.CRNumber), "RB", 1, "L", false, 0, "")
	pdf.Ln(4)

	// Line items
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(12, 8, "#", "1", 0, "C", true, 0, "")
	pdf.CellFormat(88, 8, "Description", "1", 0, "L", true, 0, "")
	pdf.CellFormat(20, 8, "Qty", "1", 0, "R", true, 0, "")
	pdf.CellFormat(15, 8, "Unit", "1", 0, "C", true, 0, "")
	pdf.CellFormat(25, 8, "Unit Price", "1", 0, "R", true, 0, "")
	pdf.CellFormat(30, 8, "Total", "1", 1, "R", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	for _, line := range doc.LineItems {
		pdf.CellFormat(12, 7, fmt.Sprintf("%d", line.SerialNumber), "1", 0, "C", false, 0, "")
		pdf.CellFormat(88, 7, line.Description, "1", 0, "L", false, 0, "")
		pdf.CellFormat(20, 7, fmt.Sprintf("%.2f", line.Quantity), "1", 0, "R", false, 0, "")
		pdf.CellFormat(15, 7, line.Unit, "1", 0, "C", false, 0, "")
		pdf.CellFormat(25, 7, fmt.Sprintf("%.2f", line.UnitPrice), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 7, fmt.Sprintf("%.2f", line.Total), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(4)

	// Totals block: display rounding only, the numbers arrive precomputed.
	r.totalRow(pdf, "Subtotal", doc.Subtotal, doc.Currency, false)
	if doc.DiscountAmount != 0 {
		r.totalRow(pdf, "Discount", -doc.DiscountAmount, doc.Currency, false)
	}
	r.totalRow(pdf, "VAT", doc.VAT, doc.Currency, false)
	r.totalRow(pdf, "Grand Total", doc.Total, doc.Currency, true)

	if doc.CustomTerms != "" {
		pdf.Ln(6)
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(190, 6, "Terms & Conditions", "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 9)
		pdf.MultiCell(190, 5, doc.CustomTerms, "", "L", false)
	}
	if doc.Notes != "" {
		pdf.Ln(3)
		pdf.SetFont("Arial", "I", 9)
		pdf.MultiCell(190, 5, doc.Notes, "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("export: render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *PDFRenderer) totalRow(pdf *gofpdf.Fpdf, label string, amount float64, currency string, bold bool) {
	style := ""
	if bold {
		style = "B"
	}
	pdf.SetFont("Arial", style, 10)
	pdf.CellFormat(130, 7, "", "", 0, "L", false, 0, "")
	pdf.CellFormat(30, 7, label, "1", 0, "L", bold, 0, "")
	pdf.CellFormat(30, 7, pricing.FormatAmount(amount, currency), "1", 1, "R", bold, 0, "")
}
