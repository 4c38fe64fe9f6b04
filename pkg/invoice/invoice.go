// Package invoice extracts a typed Invoice from vendor HTML delivery notes
// and invoices, such as the order documents exported by Akizuki Denshi.
//
// The exports are loosely formatted: decorative elements come and go between
// versions, labels carry full-width spaces, and numbers and dates use
// Japanese conventions. The parser therefore never relies on absolute
// positions. It locates regions by what they say:
//
// - The item table is the first table with a row naming every required
// column (catalog code, name, quantity, unit price, amount).
// - Header fields and totals are found next to their labels, using
// declarative rules that can be overridden from a YAML file.
// - Numerals, money and dates go through package normalize, which fails
// closed on anything it does not recognize.
//
// Parsing is all-or-nothing. Every failure is a *ParseError whose Kind tells
// a structural problem (not this kind of document) from a missing field, a
// value that could not be normalized, or a cross-field inconsistency.
//
// Main Functions:
//
// - Parse / (*Parser).Parse: HTML text to *Invoice
// - ParseFile: read and charset-decode a file, then Parse
// - Render / ReadRendered: canonical YAML form and its reader
// - (*Invoice).Reconcile: stated totals versus recomputed ones
package invoice

import (
	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// Invoice is the structured form of one vendor document. It is built once
// per parse call and not modified by the package afterwards.
type Invoice struct {
	Issuer       string      `yaml:"issuer" json:"issuer"`
	Number       string      `yaml:"number" json:"number"` // order ID or invoice number
	IssueDate    civil.Date  `yaml:"issue_date" json:"issue_date"`
	DueDate      *civil.Date `yaml:"due_date,omitempty" json:"due_date,omitempty"`
	ShippingDate *civil.Date `yaml:"shipping_date,omitempty" json:"shipping_date,omitempty"`
	Currency     string      `yaml:"currency" json:"currency"` // ISO 4217, shared by every amount
	ItemCount    *int        `yaml:"item_count,omitempty" json:"item_count,omitempty"`
	Items        []LineItem  `yaml:"items" json:"items"`
	Totals       Totals      `yaml:"totals" json:"totals"`
}

// LineItem is one purchased product row, in document order.
type LineItem struct {
	Line      int              `yaml:"line" json:"line"` // 1-based position among items
	CatalogID string           `yaml:"catalog_id" json:"catalog_id"`
	Name      string           `yaml:"name" json:"name"`
	ImageURL  string           `yaml:"image_url,omitempty" json:"image_url,omitempty"`
	Quantity  decimal.Decimal  `yaml:"quantity" json:"quantity"`
	UnitPrice decimal.Decimal  `yaml:"unit_price" json:"unit_price"`
	Amount    decimal.Decimal  `yaml:"amount" json:"amount"` // stated line subtotal
	Discount  *decimal.Decimal `yaml:"discount,omitempty" json:"discount,omitempty"`
	TaxRate   *decimal.Decimal `yaml:"tax_rate,omitempty" json:"tax_rate,omitempty"` // percent
}

// Totals holds the totals as the document states them. They are never
// recomputed; see Reconcile.
type Totals struct {
	Subtotal decimal.Decimal  `yaml:"subtotal" json:"subtotal"`
	Shipping *decimal.Decimal `yaml:"shipping,omitempty" json:"shipping,omitempty"`
	Tax      decimal.Decimal  `yaml:"tax" json:"tax"`
	Total    decimal.Decimal  `yaml:"total" json:"total"`
}
