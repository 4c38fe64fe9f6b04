package invoice

import (
	"fmt"
	"io"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"golang.org/x/net/html"

	"github.com/gardar/invoicekit/pkg/markup"
	"github.com/gardar/invoicekit/pkg/normalize"
)

// Parser extracts invoices with one fixed configuration. It keeps no state
// between calls and is safe for concurrent use.
type Parser struct {
	fields  map[string]fieldRule
	columns []columnRule
	summary map[string]bool
	labels  map[string]bool // every field, column and summary label

	defaultCurrency string
	debug           bool
	logger          io.Writer
}

// fieldRule is a FieldRule with its labels normalized for comparison.
type fieldRule struct {
	labels     map[string]bool
	raw        []string
	strategies []Strategy
}

type columnRule struct {
	name     string
	labels   map[string]bool
	required bool
}

// NewParser validates cfg and copies it into a Parser. Later changes to cfg
// do not affect the Parser.
func NewParser(cfg Config) (*Parser, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid parser config: %w", err)
	}

	p := &Parser{
		fields:          make(map[string]fieldRule, len(cfg.Fields)),
		summary:         labelSet(cfg.SummaryLabels),
		labels:          labelSet(cfg.SummaryLabels),
		defaultCurrency: cfg.DefaultCurrency,
		debug:           cfg.Debug,
		logger:          getLogger(cfg),
	}
	for name, rule := range cfg.Fields {
		p.fields[name] = fieldRule{
			labels:     labelSet(rule.Labels),
			raw:        append([]string(nil), rule.Labels...),
			strategies: append([]Strategy(nil), rule.Strategies...),
		}
		addLabels(p.labels, rule.Labels)
	}
	for _, name := range requiredColumns {
		p.columns = append(p.columns, columnRule{name: name, labels: labelSet(cfg.Columns[name]), required: true})
		addLabels(p.labels, cfg.Columns[name])
	}
	for _, name := range optionalColumns {
		if len(cfg.Columns[name]) == 0 {
			continue
		}
		p.columns = append(p.columns, columnRule{name: name, labels: labelSet(cfg.Columns[name])})
		addLabels(p.labels, cfg.Columns[name])
	}
	return p, nil
}

// Parse extracts an invoice from HTML text using DefaultConfig.
func Parse(text string) (*Invoice, error) {
	p, err := NewParser(DefaultConfig())
	if err != nil {
		return nil, err
	}
	return p.Parse(text)
}

// Parse extracts an invoice from HTML text. It returns either a complete,
// validated Invoice or a *ParseError, never both.
func (p *Parser) Parse(text string) (*Invoice, error) {
	doc, err := markup.Parse(text)
	if err != nil {
		return nil, &ParseError{Kind: KindStructural, Err: err}
	}

	table, err := p.locateItemTable(doc)
	if err != nil {
		return nil, err
	}

	run := &parseRun{p: p, doc: doc}
	inv := &Invoice{}
	if err := run.header(inv); err != nil {
		return nil, err
	}
	if inv.Items, err = run.items(table); err != nil {
		return nil, err
	}
	if err := run.totals(inv); err != nil {
		return nil, err
	}
	if inv.Currency, err = run.money.resolve(p.defaultCurrency); err != nil {
		return nil, err
	}
	if err := validate(inv); err != nil {
		return nil, err
	}
	return inv, nil
}

// parseRun carries the per-call state of one Parse.
type parseRun struct {
	p     *Parser
	doc   *html.Node
	money moneyLedger
}

func (r *parseRun) header(inv *Invoice) error {
	var err error
	if inv.Issuer, err = r.requiredText(FieldIssuer); err != nil {
		return err
	}
	if inv.Number, err = r.requiredText(FieldNumber); err != nil {
		return err
	}

	raw, err := r.required(FieldIssueDate)
	if err != nil {
		return err
	}
	if inv.IssueDate, err = parseDate(FieldIssueDate, raw); err != nil {
		return err
	}
	if inv.DueDate, err = r.optionalDate(FieldDueDate); err != nil {
		return err
	}
	if inv.ShippingDate, err = r.optionalDate(FieldShippingDate); err != nil {
		return err
	}

	if raw, err := r.p.lookup(r.doc, FieldItemCount); err == nil {
		n, err := parseCount(FieldItemCount, raw)
		if err != nil {
			return err
		}
		inv.ItemCount = &n
	}
	return nil
}

func (r *parseRun) totals(inv *Invoice) error {
	for _, t := range []struct {
		field string
		dst   *decimal.Decimal
	}{
		{FieldSubtotal, &inv.Totals.Subtotal},
		{FieldTax, &inv.Totals.Tax},
		{FieldTotal, &inv.Totals.Total},
	} {
		raw, err := r.required(t.field)
		if err != nil {
			return err
		}
		if *t.dst, err = r.money.parse(t.field, raw, 0); err != nil {
			return err
		}
	}

	if raw, err := r.p.lookup(r.doc, FieldShipping); err == nil {
		d, err := r.money.parse(FieldShipping, raw, 0)
		if err != nil {
			return err
		}
		inv.Totals.Shipping = &d
	}
	return nil
}

func (r *parseRun) required(field string) (string, error) {
	raw, err := r.p.lookup(r.doc, field)
	if err != nil {
		return "", &ParseError{Kind: KindFieldExtraction, Field: field, Err: err}
	}
	return raw, nil
}

func (r *parseRun) requiredText(field string) (string, error) {
	raw, err := r.required(field)
	if err != nil {
		return "", err
	}
	return normalize.Text(raw), nil
}

func (r *parseRun) optionalDate(field string) (*civil.Date, error) {
	raw, err := r.p.lookup(r.doc, field)
	if err != nil {
		return nil, nil
	}
	d, err := parseDate(field, raw)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (p *Parser) debugf(format string, args ...interface{}) {
	if p.debug {
		fmt.Fprintf(p.logger, format+"\n", args...)
	}
}

func labelSet(labels []string) map[string]bool {
	set := make(map[string]bool, len(labels))
	addLabels(set, labels)
	return set
}

func addLabels(set map[string]bool, labels []string) {
	for _, l := range labels {
		if k := normalize.Label(l); k != "" {
			set[k] = true
		}
	}
}
