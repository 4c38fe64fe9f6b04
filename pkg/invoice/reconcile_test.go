package invoice

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconcile_Consistent(t *testing.T) {
	inv, err := Parse(readFixture(t, "akizuki_order.html"))
	require.NoError(t, err)
	assert.Nil(t, inv.Reconcile())
}

func TestReconcile_ReportsDrift(t *testing.T) {
	text := readFixture(t, "akizuki_order.html")
	// Line 2 states 3 x 1,280 = 3,850 and the grand total is off by one.
	text = replaceOnce(t, text, `<td class="num">￥3,840</td>`, `<td class="num">￥3,850</td>`)
	text = replaceOnce(t, text, "<b>7,639円</b>", "<b>7,640円</b>")

	inv, err := Parse(text)
	require.NoError(t, err)

	got := inv.Reconcile()
	require.Len(t, got, 3)

	assert.Equal(t, ColumnAmount, got[0].Field)
	assert.Equal(t, 2, got[0].Line)
	assertDecimal(t, "3850", got[0].Stated)
	assertDecimal(t, "3840", got[0].Computed)

	assert.Equal(t, FieldSubtotal, got[1].Field)
	assert.Equal(t, 0, got[1].Line)
	assertDecimal(t, "6490", got[1].Stated)
	assertDecimal(t, "6500", got[1].Computed)

	assert.Equal(t, FieldTotal, got[2].Field)
	assertDecimal(t, "7640", got[2].Stated)
	assertDecimal(t, "7639", got[2].Computed)
	assert.Equal(t, "total: stated 7640, computed 7639", got[2].String())
	assert.Equal(t, "line 2 amount: stated 3850, computed 3840", got[0].String())
}

func TestReconcile_Discount(t *testing.T) {
	discount := dec("-100")
	inv := &Invoice{
		Items: []LineItem{
			{Line: 1, Quantity: dec("2"), UnitPrice: dec("500"), Amount: dec("900"), Discount: &discount},
		},
		Totals: Totals{Subtotal: dec("900"), Tax: dec("90"), Total: dec("990")},
	}
	assert.Empty(t, inv.Reconcile())

	positive := dec("100")
	inv.Items[0].Discount = &positive
	assert.Empty(t, inv.Reconcile())
}
