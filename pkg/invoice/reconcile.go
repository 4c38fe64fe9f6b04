package invoice

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Discrepancy is a stated value that differs from the value recomputed from
// other parts of the invoice.
type Discrepancy struct {
	Field    string          `yaml:"field" json:"field"`
	Line     int             `yaml:"line,omitempty" json:"line,omitempty"` // 0 for totals
	Stated   decimal.Decimal `yaml:"stated" json:"stated"`
	Computed decimal.Decimal `yaml:"computed" json:"computed"`
}

func (d Discrepancy) String() string {
	if d.Line > 0 {
		return fmt.Sprintf("line %d %s: stated %s, computed %s", d.Line, d.Field, d.Stated, d.Computed)
	}
	return fmt.Sprintf("%s: stated %s, computed %s", d.Field, d.Stated, d.Computed)
}

// Reconcile recomputes line amounts, the subtotal and the grand total from
// the stated parts and reports every value that does not match. A nil
// result means the document is internally consistent.
//
// A line amount is quantity × unit price less the discount; the discount is
// subtracted whatever its printed sign. The subtotal is the sum of line
// amounts and the total is subtotal + tax + shipping.
func (inv *Invoice) Reconcile() []Discrepancy {
	var out []Discrepancy

	sum := decimal.Zero
	for _, it := range inv.Items {
		computed := it.Quantity.Mul(it.UnitPrice)
		if it.Discount != nil {
			computed = computed.Sub(it.Discount.Abs())
		}
		if !computed.Equal(it.Amount) {
			out = append(out, Discrepancy{Field: ColumnAmount, Line: it.Line, Stated: it.Amount, Computed: computed})
		}
		sum = sum.Add(it.Amount)
	}

	if !sum.Equal(inv.Totals.Subtotal) {
		out = append(out, Discrepancy{Field: FieldSubtotal, Stated: inv.Totals.Subtotal, Computed: sum})
	}

	total := inv.Totals.Subtotal.Add(inv.Totals.Tax)
	if inv.Totals.Shipping != nil {
		total = total.Add(*inv.Totals.Shipping)
	}
	if !total.Equal(inv.Totals.Total) {
		out = append(out, Discrepancy{Field: FieldTotal, Stated: inv.Totals.Total, Computed: total})
	}
	return out
}
