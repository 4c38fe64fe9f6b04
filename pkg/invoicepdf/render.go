// Package invoicepdf prints a parsed invoice as a one-document A4 PDF:
// header block, item table and the totals as the vendor stated them.
package invoicepdf

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"codeberg.org/go-pdf/fpdf"
	"github.com/shopspring/decimal"

	"github.com/gardar/invoicekit/pkg/invoice"
	"github.com/gardar/invoicekit/pkg/normalize"
)

const utf8Family = "invoice"

// item table column widths in mm, summing to the A4 text width
var columnWidths = []float64{10, 30, 80, 16, 22, 22}

// Render builds the PDF for inv.
func Render(inv *invoice.Invoice, config Config) ([]byte, error) {
	if inv == nil {
		return nil, fmt.Errorf("no invoice to render")
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCatalogSort(true)
	created := time.Date(inv.IssueDate.Year, inv.IssueDate.Month, inv.IssueDate.Day, 0, 0, 0, 0, time.UTC)
	pdf.SetCreationDate(created)
	pdf.SetModificationDate(created)
	pdf.SetTitle(inv.Number, true)
	pdf.SetAuthor(inv.Issuer, true)

	family := config.Font.Name
	if config.Font.File != "" {
		pdf.AddUTF8Font(utf8Family, "", config.Font.File)
		pdf.AddUTF8Font(utf8Family, "B", config.Font.File)
		if err := pdf.Error(); err != nil {
			return nil, fmt.Errorf("failed to load font %s: %w", config.Font.File, err)
		}
		family = utf8Family
	}
	enc := newTextEncoder(config.Font.File != "")

	pdf.AddPage()
	drawHeader(pdf, inv, config, family, enc)
	drawItems(pdf, inv, config, family, enc)
	drawTotals(pdf, inv, config, family, enc)

	if config.LogWarnings && enc.replaced > 0 {
		fmt.Fprintf(getLogger(config), "Warning: %d characters not available in font %s were replaced\n",
			enc.replaced, config.Font.Name)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func drawHeader(pdf *fpdf.Fpdf, inv *invoice.Invoice, config Config, family string, enc *textEncoder) {
	pdf.SetFont(family, "B", config.Font.Title)
	pdf.CellFormat(0, 10, enc.String(config.Title+" "+inv.Number), "", 1, "L", false, 0, "")

	border := ""
	if config.Debug {
		border = "1"
	}
	rows := [][2]string{
		{"Issuer", inv.Issuer},
		{"Issue date", inv.IssueDate.String()},
	}
	if inv.DueDate != nil {
		rows = append(rows, [2]string{"Due date", inv.DueDate.String()})
	}
	if inv.ShippingDate != nil {
		rows = append(rows, [2]string{"Shipping date", inv.ShippingDate.String()})
	}
	rows = append(rows, [2]string{"Currency", inv.Currency})

	for _, r := range rows {
		pdf.SetFont(family, "B", config.Font.Size)
		pdf.CellFormat(35, 6, enc.String(r[0]), border, 0, "L", false, 0, "")
		pdf.SetFont(family, "", config.Font.Size)
		pdf.CellFormat(0, 6, enc.String(r[1]), border, 1, "L", false, 0, "")
	}
	pdf.Ln(4)
}

func drawItems(pdf *fpdf.Fpdf, inv *invoice.Invoice, config Config, family string, enc *textEncoder) {
	header := []string{"#", "Catalog ID", "Name", "Qty", "Unit price", "Amount"}
	align := []string{"R", "L", "L", "R", "R", "R"}

	pdf.SetFont(family, "B", config.Font.Size)
	pdf.SetFillColor(230, 230, 230)
	for i, h := range header {
		pdf.CellFormat(columnWidths[i], 7, enc.String(h), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont(family, "", config.Font.Size)
	for _, it := range inv.Items {
		cells := []string{
			strconv.Itoa(it.Line),
			it.CatalogID,
			fitText(pdf, it.Name, columnWidths[2]-2, enc),
			it.Quantity.String(),
			formatMoney(it.UnitPrice, inv.Currency),
			formatMoney(it.Amount, inv.Currency),
		}
		for i, c := range cells {
			if i != 2 {
				c = enc.String(c)
			}
			pdf.CellFormat(columnWidths[i], 6, c, "1", 0, align[i], false, 0, "")
		}
		pdf.Ln(-1)
	}
	if len(inv.Items) == 0 {
		pdf.CellFormat(sum(columnWidths), 6, enc.String("No items"), "1", 1, "C", false, 0, "")
	}
	pdf.Ln(4)
}

type totalRow struct {
	label string
	value decimal.Decimal
}

func drawTotals(pdf *fpdf.Fpdf, inv *invoice.Invoice, config Config, family string, enc *textEncoder) {
	border := ""
	if config.Debug {
		border = "1"
	}
	rows := []totalRow{{"Subtotal", inv.Totals.Subtotal}}
	if inv.Totals.Shipping != nil {
		rows = append(rows, totalRow{"Shipping", *inv.Totals.Shipping})
	}
	rows = append(rows, totalRow{"Tax", inv.Totals.Tax}, totalRow{"Total", inv.Totals.Total})

	labelX := sum(columnWidths) - 60
	for i, r := range rows {
		style := ""
		if i == len(rows)-1 {
			style = "B"
		}
		pdf.SetFont(family, style, config.Font.Size)
		pdf.SetX(pdf.GetX() + labelX)
		pdf.CellFormat(30, 6, enc.String(r.label), border, 0, "L", false, 0, "")
		pdf.CellFormat(30, 6, enc.String(formatMoney(r.value, inv.Currency)), border, 1, "R", false, 0, "")
	}
}

// fitText shortens s with an ellipsis until it fits width.
func fitText(pdf *fpdf.Fpdf, s string, width float64, enc *textEncoder) string {
	text := enc.String(s)
	if pdf.GetStringWidth(text) <= width {
		return text
	}
	runes := []rune(s)
	for n := len(runes) - 1; n > 0; n-- {
		text = enc.convert(string(runes[:n]) + "...")
		if pdf.GetStringWidth(text) <= width {
			return text
		}
	}
	return text
}

// formatMoney prints an amount with the currency's minor-unit digits and
// thousands separators, e.g. "1,280" for JPY or "0.05" for USD.
func formatMoney(d decimal.Decimal, currency string) string {
	places, err := normalize.CurrencyPrecision(currency)
	if err != nil {
		return d.String()
	}
	intPart, frac, _ := strings.Cut(d.Abs().StringFixed(places), ".")

	var b strings.Builder
	if d.IsNegative() {
		b.WriteByte('-')
	}
	for i := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteByte(intPart[i])
	}
	if frac != "" {
		b.WriteString(".")
		b.WriteString(frac)
	}
	return b.String()
}

func sum(xs []float64) float64 {
	total := 0.0
	for _, x := range xs {
		total += x
	}
	return total
}
