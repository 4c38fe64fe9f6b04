package invoice

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/gardar/invoicekit/pkg/markup"
	"github.com/gardar/invoicekit/pkg/normalize"
)

// lookup finds the raw value text of a field by its rule. Strategies are
// tried in order and, within one strategy, label occurrences in document
// order. A candidate value that is empty or is itself a known label is
// passed over. When the only value cells next to the label are blank the
// field is present but empty: lookup returns ErrEmptyValue without trying
// the remaining strategies. ErrFieldNotFound means no strategy found a value.
func (p *Parser) lookup(doc *html.Node, field string) (string, error) {
	rule, ok := p.fields[field]
	if !ok || len(rule.labels) == 0 {
		return "", ErrFieldNotFound
	}

	var labelNodes []*html.Node
	for _, s := range rule.strategies {
		if s != StrategyInline && labelNodes == nil {
			labelNodes = labelElements(doc, rule.labels)
		}
		var v string
		blank := false
		switch s {
		case StrategyNext:
			v, blank = p.nextValue(labelNodes)
		case StrategyBelow:
			v = p.belowValue(labelNodes)
		case StrategyInline:
			v = p.inlineValue(doc, rule.raw)
		}
		if v != "" {
			p.debugf("field %s: %q (%s)", field, v, s)
			return v, nil
		}
		if blank {
			p.debugf("field %s: blank value next to label", field)
			return "", ErrEmptyValue
		}
	}
	return "", ErrFieldNotFound
}

// nextValue returns the first usable value following a label, and whether
// some label was followed by an empty value cell. A blank th is header
// filler and does not count.
func (p *Parser) nextValue(labelNodes []*html.Node) (string, bool) {
	blank := false
	for _, n := range labelNodes {
		sib := nextElement(n)
		if sib == nil {
			continue
		}
		if isBlank(sib) {
			blank = blank || !markup.IsElement(sib, "th")
			continue
		}
		if v := p.usable(markup.Text(sib)); v != "" {
			return v, false
		}
	}
	return "", blank
}

// belowValue returns the first usable value under a label cell of a
// horizontal header row.
func (p *Parser) belowValue(labelNodes []*html.Node) string {
	for _, n := range labelNodes {
		value := p.cellBelow(n)
		if value == nil || markup.IsElement(value, "th") {
			continue
		}
		if v := p.usable(markup.Text(value)); v != "" {
			return v
		}
	}
	return ""
}

// usable returns the normalized text, or "" when it is empty or a label.
func (p *Parser) usable(text string) string {
	v := normalize.Text(text)
	if v == "" || p.labels[normalize.Label(v)] {
		return ""
	}
	return v
}

// labelElements returns the innermost elements whose whole text is one of
// labels, in document order.
func labelElements(doc *html.Node, labels map[string]bool) []*html.Node {
	return markup.FindAll(doc, func(n *html.Node) bool {
		if !markup.IsElement(n) || markup.IsElement(n, "html", "head", "body", "table", "tbody", "thead", "tr") {
			return false
		}
		key := normalize.Label(markup.Text(n))
		if !labels[key] {
			return false
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if markup.IsElement(c) && normalize.Label(markup.Text(c)) == key {
				return false
			}
		}
		return true
	})
}

// nextElement returns the element following the label, climbing out of
// wrappers that hold nothing but the label (<th><b>注文日</b></th>).
func nextElement(n *html.Node) *html.Node {
	key := normalize.Label(markup.Text(n))
	for {
		if sib := markup.NextElementSibling(n); sib != nil {
			return sib
		}
		parent := n.Parent
		if !markup.IsElement(parent) || markup.IsElement(parent, "tr", "table", "body") ||
			normalize.Label(markup.Text(parent)) != key {
			return nil
		}
		n = parent
	}
}

// cellBelow returns the cell in the label cell's grid column on the next
// row of the same table. The label cell must sit in a header row: it ends the
// row or is followed by a th or another label. In a key/value row the cell
// below is the next key, not a value.
func (p *Parser) cellBelow(n *html.Node) *html.Node {
	cell := n
	if !markup.IsElement(cell, "th", "td") {
		cell = markup.Ancestor(n, "th", "td")
		if cell == nil || normalize.Label(markup.Text(cell)) != normalize.Label(markup.Text(n)) {
			return nil
		}
	}
	if sib := markup.NextElementSibling(cell); sib != nil &&
		!markup.IsElement(sib, "th") && !p.labels[normalize.Label(markup.Text(sib))] {
		return nil
	}
	row := markup.Ancestor(cell, "tr")
	table := markup.Ancestor(cell, "table")
	if row == nil || table == nil {
		return nil
	}
	rows := markup.Rows(table)
	for i, r := range rows {
		if r == row && i+1 < len(rows) {
			return markup.CellAt(rows[i+1], markup.Column(cell))
		}
	}
	return nil
}

// inlineValue finds "label: value" inside one text node. When the label
// ends the text node, the value is the text that follows it within the
// same parent element, or within the grandparent for a wrapped label
// (<b>注文日:</b> 2025/01/03).
func (p *Parser) inlineValue(doc *html.Node, labels []string) string {
	texts := markup.FindAll(doc, func(n *html.Node) bool {
		return n.Type == html.TextNode && markup.Ancestor(n, "script", "style") == nil
	})
	for _, t := range texts {
		v, ok := normalize.SplitLabel(t.Data, labels)
		if !ok {
			continue
		}
		if v == "" {
			v = followingText(t)
			if v == "" && t.NextSibling == nil && !markup.IsElement(t.Parent, "body", "table", "tbody", "tr") {
				v = followingText(t.Parent)
			}
		}
		if v = p.usable(v); v != "" {
			return v
		}
	}
	return ""
}

func isBlank(n *html.Node) bool {
	return normalize.Text(markup.Text(n)) == "" && markup.Find(n, isImage) == nil
}

func followingText(n *html.Node) string {
	var b strings.Builder
	for s := n.NextSibling; s != nil; s = s.NextSibling {
		if s.Type == html.TextNode {
			b.WriteString(s.Data)
		} else {
			b.WriteString(markup.Text(s))
		}
		b.WriteString(" ")
	}
	return strings.TrimSpace(b.String())
}
