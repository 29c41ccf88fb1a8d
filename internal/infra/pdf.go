package infra

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"minimart/internal/model"

	"github.com/go-pdf/fpdf"
)

// ReceiptLayout carries the store branding printed on every receipt.
type ReceiptLayout struct {
	StoreName string
	Currency  string
	Footer    string
}

const (
	receiptWidth  = 74.0
	receiptMargin = 4.0
	nameMaxRunes  = 22
)

// RenderReceiptPDF draws a thermal-paper receipt. The page grows with the
// number of lines so long sales never spill onto a second page.
func RenderReceiptPDF(r *model.Receipt, layout ReceiptLayout) ([]byte, error) {
	height := 90.0 + float64(len(r.Items))*5
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: receiptWidth, Ht: height},
	})
	pdf.SetMargins(receiptMargin, receiptMargin, receiptMargin)
	pdf.SetAutoPageBreak(false, receiptMargin)
	pdf.AddPage()

	contentW := receiptWidth - 2*receiptMargin
	money := func(label string, v string, bold bool) {
		style := ""
		if bold {
			style = "B"
		}
		pdf.SetFont("Helvetica", style, 8)
		pdf.CellFormat(contentW*0.6, 5, label, "", 0, "L", false, 0, "")
		pdf.CellFormat(contentW*0.4, 5, v, "", 1, "R", false, 0, "")
	}
	rule := func() {
		pdf.Ln(1)
		pdf.Line(receiptMargin, pdf.GetY(), receiptWidth-receiptMargin, pdf.GetY())
		pdf.Ln(2)
	}
	cur := layout.Currency

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(contentW, 7, layout.StoreName, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 7)
	if r.Location != "" {
		pdf.CellFormat(contentW, 4, r.Location, "", 1, "C", false, 0, "")
	}
	pdf.Ln(1)
	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(contentW, 5, "Receipt "+r.OrderNumber, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(contentW, 4, r.OrderDate.Format("2006-01-02 15:04"), "", 1, "L", false, 0, "")
	if r.Cashier != "" {
		pdf.CellFormat(contentW, 4, "Cashier: "+r.Cashier, "", 1, "L", false, 0, "")
	}
	rule()

	// ── Lines ────────────────────────────────────────────────────────────────
	col1, col2, col3 := contentW*0.52, contentW*0.16, contentW*0.32
	pdf.SetFont("Helvetica", "B", 7)
	pdf.CellFormat(col1, 5, "Item", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 5, "Qty", "B", 0, "C", false, 0, "")
	pdf.CellFormat(col3, 5, "Amount", "B", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "", 7)
	for _, it := range r.Items {
		pdf.CellFormat(col1, 5, truncate(it.Name, nameMaxRunes), "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 5, fmt.Sprintf("x%d", it.Qty), "", 0, "C", false, 0, "")
		pdf.CellFormat(col3, 5, cur+it.LineTotal().StringFixed(2), "", 1, "R", false, 0, "")
	}
	rule()

	// ── Totals ───────────────────────────────────────────────────────────────
	t := r.Totals
	money("Subtotal", cur+t.Subtotal.StringFixed(2), false)
	if !t.Discount.IsZero() {
		money("Discount", "-"+cur+t.Discount.StringFixed(2), false)
	}
	money("TOTAL", cur+t.Total.StringFixed(2), true)
	money("Cash", cur+t.CashReceived.StringFixed(2), false)
	money("Change", cur+t.ChangeDue.StringFixed(2), false)

	if layout.Footer != "" {
		pdf.Ln(3)
		pdf.SetFont("Helvetica", "I", 7)
		pdf.CellFormat(contentW, 4, layout.Footer, "", 1, "C", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: render: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteReceiptPDF renders r into dir/receipt_<order number>.pdf and returns the path.
func WriteReceiptPDF(r *model.Receipt, layout ReceiptLayout, dir string) (string, error) {
	data, err := RenderReceiptPDF(r, layout)
	if err != nil {
		return "", err
	}
	return SaveReceiptPDF(dir, r.OrderNumber, data)
}

// SaveReceiptPDF stores already rendered bytes under dir.
func SaveReceiptPDF(dir, orderNumber string, data []byte) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}
	path := filepath.Join(dir, ReceiptFileName(orderNumber))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}
	return path, nil
}

// ReceiptFileName is the attachment and on-disk name for a receipt.
func ReceiptFileName(orderNumber string) string {
	return "receipt_" + safeName(orderNumber) + ".pdf"
}

func truncate(s string, n int) string {
	rs := []rune(s)
	if len(rs) <= n {
		return s
	}
	return string(rs[:n-3]) + "..."
}

func safeName(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, s)
}
