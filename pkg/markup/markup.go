// Package markup wraps golang.org/x/net/html with the small set of tree
// helpers the invoice scraper needs.
//
// The parser is the same error-recovering tokenizer browsers use, so exports
// with unclosed cells, implied tbody elements or stray text still produce a
// usable tree. Helpers walk that tree by tag name, attribute and text content
// and never depend on absolute positions.
package markup

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// Parse builds a node tree from HTML text.
func Parse(text string) (*html.Node, error) {
	doc, err := html.Parse(strings.NewReader(text))
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}
	return doc, nil
}

// IsElement reports whether n is an element with one of the given tag names.
// With no names it matches any element.
func IsElement(n *html.Node, tags ...string) bool {
	if n == nil || n.Type != html.ElementNode {
		return false
	}
	if len(tags) == 0 {
		return true
	}
	for _, t := range tags {
		if n.Data == t {
			return true
		}
	}
	return false
}

// Attr returns the value of attribute key, or "" when absent.
func Attr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

// Find returns the first node in document order below root (root included)
// that satisfies match.
func Find(root *html.Node, match func(*html.Node) bool) *html.Node {
	if root == nil {
		return nil
	}
	if match(root) {
		return root
	}
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if found := Find(c, match); found != nil {
			return found
		}
	}
	return nil
}

// FindAll returns every node below root (root included) that satisfies
// match, in document order. Matching nodes are still descended into.
func FindAll(root *html.Node, match func(*html.Node) bool) []*html.Node {
	var result []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if match(n) {
			result = append(result, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	if root != nil {
		walk(root)
	}
	return result
}

// Text concatenates all descendant text, skipping script and style content.
// Block boundaries are not marked; callers normalize whitespace themselves.
func Text(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		switch {
		case node.Type == html.TextNode:
			b.WriteString(node.Data)
		case IsElement(node, "script", "style"):
			return
		case IsElement(node, "br"):
			b.WriteString(" ")
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

// NextElementSibling skips text and comment siblings.
func NextElementSibling(n *html.Node) *html.Node {
	for s := n.NextSibling; s != nil; s = s.NextSibling {
		if s.Type == html.ElementNode {
			return s
		}
	}
	return nil
}

// Ancestor returns the nearest ancestor of n with one of the tag names.
func Ancestor(n *html.Node, tags ...string) *html.Node {
	for p := n.Parent; p != nil; p = p.Parent {
		if IsElement(p, tags...) {
			return p
		}
	}
	return nil
}

// Rows returns the tr rows that belong to table, in document order.
// Rows of tables nested inside table's cells are excluded.
func Rows(table *html.Node) []*html.Node {
	return FindAll(table, func(n *html.Node) bool {
		return IsElement(n, "tr") && Ancestor(n, "table") == table
	})
}

// Cells returns the th and td children of a row.
func Cells(row *html.Node) []*html.Node {
	var cells []*html.Node
	for c := row.FirstChild; c != nil; c = c.NextSibling {
		if IsElement(c, "th", "td") {
			cells = append(cells, c)
		}
	}
	return cells
}

// Colspan returns the cell's colspan, defaulting to 1 for missing or
// unreadable values.
func Colspan(cell *html.Node) int {
	v := strings.TrimSpace(Attr(cell, "colspan"))
	if v == "" {
		return 1
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// Column returns the 0-based grid column at which cell starts, expanding the
// colspans of the cells before it.
func Column(cell *html.Node) int {
	col := 0
	for s := cell.PrevSibling; s != nil; s = s.PrevSibling {
		if IsElement(s, "th", "td") {
			col += Colspan(s)
		}
	}
	return col
}

// CellAt returns the cell of row covering grid column col, or nil.
func CellAt(row *html.Node, col int) *html.Node {
	pos := 0
	for _, cell := range Cells(row) {
		span := Colspan(cell)
		if col >= pos && col < pos+span {
			return cell
		}
		pos += span
	}
	return nil
}
