package invoice

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gardar/invoicekit/pkg/normalize"
)

// Header and total fields.
const (
	FieldIssuer       = "issuer"
	FieldNumber       = "number"
	FieldIssueDate    = "issue_date"
	FieldDueDate      = "due_date"
	FieldShippingDate = "shipping_date"
	FieldItemCount    = "item_count"
	FieldSubtotal     = "subtotal"
	FieldShipping     = "shipping"
	FieldTax          = "tax"
	FieldTotal        = "total"
)

// Item table columns.
const (
	ColumnCatalogID = "catalog_id"
	ColumnName      = "name"
	ColumnQuantity  = "quantity"
	ColumnUnitPrice = "unit_price"
	ColumnAmount    = "amount"
	ColumnDiscount  = "discount"
	ColumnTaxRate   = "tax_rate"
)

var (
	requiredFields  = []string{FieldIssuer, FieldNumber, FieldIssueDate, FieldSubtotal, FieldTax, FieldTotal}
	requiredColumns = []string{ColumnCatalogID, ColumnName, ColumnQuantity, ColumnUnitPrice, ColumnAmount}
	optionalColumns = []string{ColumnDiscount, ColumnTaxRate}
)

// Strategy names where a field's value sits relative to its label.
type Strategy string

const (
	// StrategyNext takes the label element's next element sibling
	// (th -> td, dt -> dd, span -> span).
	StrategyNext Strategy = "next"
	// StrategyBelow takes the cell in the same column of the following row.
	StrategyBelow Strategy = "below"
	// StrategyInline takes the text after "label:" in the same text run.
	StrategyInline Strategy = "inline"
)

// FieldRule is the declarative extraction rule for one field. Strategies
// are tried in order; within a strategy the first label occurrence in
// document order that yields a non-empty value wins.
type FieldRule struct {
	Labels     []string   `yaml:"labels"`
	Strategies []Strategy `yaml:"strategies"`
}

// Config holds the label tables and options of a Parser.
type Config struct {
	// DefaultCurrency applies when no amount in the document carries a
	// currency marker.
	DefaultCurrency string               `yaml:"default_currency"`
	Fields          map[string]FieldRule `yaml:"fields"`
	// Columns maps item columns to header labels.
	Columns map[string][]string `yaml:"columns"`
	// SummaryLabels mark item-table rows that are totals, not items.
	SummaryLabels []string `yaml:"summary_labels"`

	Debug  bool      `yaml:"debug"` // report skipped rows to Logger
	Logger io.Writer `yaml:"-"`     // nil = stderr
}

func defaultStrategies() []Strategy {
	return []Strategy{StrategyNext, StrategyBelow, StrategyInline}
}

// DefaultConfig returns the label tables for Akizuki Denshi order documents
// plus common English equivalents.
func DefaultConfig() Config {
	return Config{
		DefaultCurrency: "JPY",
		Fields: map[string]FieldRule{
			FieldIssuer:       {Labels: []string{"発行元", "販売元", "発行者", "Issuer", "Seller"}, Strategies: defaultStrategies()},
			FieldNumber:       {Labels: []string{"オーダーID", "注文番号", "受注番号", "納品書番号", "請求書番号", "Order ID", "Invoice No"}, Strategies: defaultStrategies()},
			FieldIssueDate:    {Labels: []string{"注文日", "ご注文日", "発行日", "請求日", "Order Date", "Issue Date"}, Strategies: defaultStrategies()},
			FieldDueDate:      {Labels: []string{"お支払期限", "支払期限", "支払期日", "Due Date"}, Strategies: defaultStrategies()},
			FieldShippingDate: {Labels: []string{"出荷日", "発送日", "Shipping Date"}, Strategies: defaultStrategies()},
			FieldItemCount:    {Labels: []string{"明細件数", "品目数", "Item Count"}, Strategies: defaultStrategies()},
			FieldSubtotal:     {Labels: []string{"商品合計", "小計", "Subtotal"}, Strategies: defaultStrategies()},
			FieldShipping:     {Labels: []string{"送料", "Shipping"}, Strategies: defaultStrategies()},
			FieldTax:          {Labels: []string{"消費税", "消費税額", "Tax"}, Strategies: defaultStrategies()},
			FieldTotal:        {Labels: []string{"合計金額", "ご請求金額", "総合計", "合計", "Total"}, Strategies: defaultStrategies()},
		},
		Columns: map[string][]string{
			ColumnCatalogID: {"通販コード", "商品コード", "カタログID", "Catalog ID", "Code"},
			ColumnName:      {"商品名", "品名", "Description", "Product"},
			ColumnQuantity:  {"数量", "個数", "Qty", "Quantity"},
			ColumnUnitPrice: {"単価", "Unit Price"},
			ColumnAmount:    {"金額", "Amount"},
			ColumnDiscount:  {"値引", "値引額", "Discount"},
			ColumnTaxRate:   {"税率", "Tax Rate"},
		},
		SummaryLabels: []string{
			"小計", "商品合計", "送料", "消費税", "消費税額", "値引", "合計", "合計金額", "総合計",
			"Subtotal", "Shipping", "Tax", "Total",
		},
	}
}

// LoadConfig reads a YAML parser configuration and merges it over
// DefaultConfig. Field rules and column lists in the file replace the
// defaults for the keys they name; other keys keep their defaults. A rule
// given without strategies tries all of them.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	for name, rule := range cfg.Fields {
		if len(rule.Strategies) == 0 {
			rule.Strategies = defaultStrategies()
			cfg.Fields[name] = rule
		}
	}
	return cfg, nil
}

// validate checks that every required field and column has labels and that
// the strategies and currency are known.
func (c Config) validate() error {
	if _, err := normalize.CurrencyPrecision(c.DefaultCurrency); err != nil {
		return fmt.Errorf("default currency: %w", err)
	}
	for _, f := range requiredFields {
		if len(c.Fields[f].Labels) == 0 {
			return fmt.Errorf("field %s has no labels", f)
		}
	}
	for name, rule := range c.Fields {
		if len(rule.Labels) > 0 && len(rule.Strategies) == 0 {
			return fmt.Errorf("field %s has no strategies", name)
		}
		for _, s := range rule.Strategies {
			switch s {
			case StrategyNext, StrategyBelow, StrategyInline:
			default:
				return fmt.Errorf("field %s: unknown strategy %q", name, s)
			}
		}
	}
	for _, col := range requiredColumns {
		if len(c.Columns[col]) == 0 {
			return fmt.Errorf("column %s has no labels", col)
		}
	}
	return nil
}

// getLogger returns the configured writer, defaulting to stderr.
func getLogger(c Config) io.Writer {
	if c.Logger == nil {
		return os.Stderr
	}
	return c.Logger
}
