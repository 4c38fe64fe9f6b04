package invoice

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"golang.org/x/net/html/charset"
)

// ParseFile reads an exported invoice file with DefaultConfig. See
// (*Parser).ParseFile.
func ParseFile(path string) (*Invoice, error) {
	p, err := NewParser(DefaultConfig())
	if err != nil {
		return nil, err
	}
	return p.ParseFile(path)
}

// ParseFile reads path, decodes it to UTF-8 and parses it. Vendor exports
// are often Shift_JIS or EUC-JP; the encoding is taken from a byte order
// mark or a <meta charset> declaration, then UTF-8 if the first kilobyte is
// valid UTF-8, then windows-1252. Read and decode failures are KindIO.
func (p *Parser) ParseFile(path string) (*Invoice, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ParseError{Kind: KindIO, Raw: path, Err: err}
	}
	text, err := DecodeHTML(data)
	if err != nil {
		return nil, &ParseError{Kind: KindIO, Raw: path, Err: err}
	}
	return p.Parse(text)
}

// DecodeHTML converts HTML bytes in any declared encoding to a UTF-8 string.
func DecodeHTML(data []byte) (string, error) {
	r, err := charset.NewReader(bytes.NewReader(data), "text/html")
	if err != nil {
		return "", fmt.Errorf("failed to detect charset: %w", err)
	}
	decoded, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to decode html: %w", err)
	}
	return string(decoded), nil
}
