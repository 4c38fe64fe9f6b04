package invoice

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/gardar/invoicekit/pkg/markup"
	"github.com/gardar/invoicekit/pkg/normalize"
)

// itemTable is the located line-item table and its column layout.
type itemTable struct {
	rows    []*html.Node
	header  int // index of the header row in rows
	width   int // grid columns of the header row
	columns map[string]span
}

// span is the run of grid columns a header cell covers.
type span struct {
	start, width int
}

// locateItemTable returns the first table, in document order, with a row
// that names every required column. Rows of nested tables belong to the
// nested table only.
func (p *Parser) locateItemTable(doc *html.Node) (*itemTable, error) {
	tables := markup.FindAll(doc, func(n *html.Node) bool { return markup.IsElement(n, "table") })
	for _, t := range tables {
		rows := markup.Rows(t)
		for i, row := range rows {
			cols, width, ok := p.matchHeader(row)
			if !ok {
				continue
			}
			p.debugf("item table: header at row %d, %d columns", i+1, width)
			return &itemTable{rows: rows, header: i, width: width, columns: cols}, nil
		}
	}
	return nil, &ParseError{Kind: KindStructural, Err: ErrItemTableNotFound}
}

// matchHeader maps header cells to columns. The first cell carrying a
// column's label wins.
func (p *Parser) matchHeader(row *html.Node) (map[string]span, int, bool) {
	cols := make(map[string]span)
	width := 0
	for _, cell := range markup.Cells(row) {
		key := normalize.Label(markup.Text(cell))
		s := span{start: width, width: markup.Colspan(cell)}
		width += s.width
		for _, c := range p.columns {
			if _, taken := cols[c.name]; !taken && c.labels[key] {
				cols[c.name] = s
				break
			}
		}
	}
	for _, c := range p.columns {
		if _, ok := cols[c.name]; c.required && !ok {
			return nil, 0, false
		}
	}
	return cols, width, true
}

type rowShape int

const (
	rowData rowShape = iota
	rowHeader
	rowBlank
	rowSummary
	rowUnknown
)

var rowShapeNames = map[rowShape]string{
	rowData:    "data",
	rowHeader:  "header",
	rowBlank:   "blank",
	rowSummary: "summary",
	rowUnknown: "unknown",
}

// classify applies the row-shape policy to a row after the header:
//
//  1. a repeated header row is skipped
//  2. a row whose cells are all blank is skipped
//  3. a row with a cell reading one of SummaryLabels is skipped
//  4. a row with one cell per header grid column and no colspan is data
//  5. anything else cannot be classified
func (p *Parser) classify(t *itemTable, row *html.Node) rowShape {
	if _, _, ok := p.matchHeader(row); ok {
		return rowHeader
	}
	cells := markup.Cells(row)
	blank := true
	for _, cell := range cells {
		if !isBlank(cell) {
			blank = false
			break
		}
	}
	if blank {
		return rowBlank
	}
	for _, cell := range cells {
		if p.summary[normalize.Label(markup.Text(cell))] {
			return rowSummary
		}
	}
	if len(cells) != t.width {
		return rowUnknown
	}
	for _, cell := range cells {
		if markup.Colspan(cell) != 1 {
			return rowUnknown
		}
	}
	return rowData
}

func (r *parseRun) items(t *itemTable) ([]LineItem, error) {
	items := []LineItem{}
	for i := t.header + 1; i < len(t.rows); i++ {
		row, rowNum := t.rows[i], i+1
		shape := r.p.classify(t, row)
		switch shape {
		case rowData:
		case rowUnknown:
			return nil, &ParseError{
				Kind: KindStructural,
				Row:  rowNum,
				Raw:  normalize.Text(markup.Text(row)),
				Err:  ErrUnclassifiedRow,
			}
		default:
			r.p.debugf("row %d: skipped %s row", rowNum, rowShapeNames[shape])
			continue
		}

		item, err := r.item(t, row, rowNum)
		if err != nil {
			return nil, err
		}
		item.Line = len(items) + 1
		items = append(items, item)
	}
	return items, nil
}

func (r *parseRun) item(t *itemTable, row *html.Node, rowNum int) (LineItem, error) {
	cell := func(column string) string { return t.cellText(row, column) }

	item := LineItem{
		CatalogID: cell(ColumnCatalogID),
		Name:      cell(ColumnName),
	}
	if item.Name == "" {
		return LineItem{}, &ParseError{Kind: KindFieldExtraction, Field: ColumnName, Row: rowNum, Err: ErrEmptyValue}
	}
	if img := markup.Find(row, isImage); img != nil {
		item.ImageURL = strings.TrimSpace(markup.Attr(img, "src"))
	}

	raw := cell(ColumnQuantity)
	q, err := normalize.Decimal(raw)
	if err != nil {
		return LineItem{}, normalizationError(ColumnQuantity, raw, rowNum, err)
	}
	if q.IsNegative() {
		return LineItem{}, &ParseError{Kind: KindNormalization, Field: ColumnQuantity, Raw: raw, Row: rowNum, Err: ErrNegativeQuantity}
	}
	item.Quantity = q

	if item.UnitPrice, err = r.money.parse(ColumnUnitPrice, cell(ColumnUnitPrice), rowNum); err != nil {
		return LineItem{}, err
	}
	if item.Amount, err = r.money.parse(ColumnAmount, cell(ColumnAmount), rowNum); err != nil {
		return LineItem{}, err
	}

	if raw, ok := t.optionalCell(row, ColumnDiscount); ok {
		d, err := r.money.parse(ColumnDiscount, raw, rowNum)
		if err != nil {
			return LineItem{}, err
		}
		item.Discount = &d
	}
	if raw, ok := t.optionalCell(row, ColumnTaxRate); ok {
		rate, err := normalize.Percent(raw)
		if err != nil {
			return LineItem{}, normalizationError(ColumnTaxRate, raw, rowNum, err)
		}
		item.TaxRate = &rate
	}
	return item, nil
}

// cellText joins the normalized text of the grid columns under a header
// cell. Header cells may span several data cells, e.g. image and name.
func (t *itemTable) cellText(row *html.Node, column string) string {
	s, ok := t.columns[column]
	if !ok {
		return ""
	}
	var parts []string
	for col := s.start; col < s.start+s.width; col++ {
		c := markup.CellAt(row, col)
		if c == nil {
			continue
		}
		if v := normalize.Text(markup.Text(c)); v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, " ")
}

// optionalCell returns the text of an optional column when the table has the
// column and the row fills it.
func (t *itemTable) optionalCell(row *html.Node, column string) (string, bool) {
	if _, ok := t.columns[column]; !ok {
		return "", false
	}
	v := t.cellText(row, column)
	return v, v != ""
}

func isImage(n *html.Node) bool {
	return markup.IsElement(n, "img")
}

func normalizationError(field, raw string, row int, err error) *ParseError {
	return &ParseError{Kind: KindNormalization, Field: field, Raw: raw, Row: row, Err: err}
}
