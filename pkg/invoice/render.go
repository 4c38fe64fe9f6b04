package invoice

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Render returns the canonical YAML form of inv. Field order is fixed,
// decimals are written as exact strings and dates as YYYY-MM-DD, so equal
// invoices render to identical bytes.
func Render(inv *Invoice) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(inv); err != nil {
		return nil, fmt.Errorf("failed to render invoice: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to render invoice: %w", err)
	}
	return buf.Bytes(), nil
}

// ReadRendered reads the output of Render back into an Invoice. Unknown keys
// are rejected.
func ReadRendered(data []byte) (*Invoice, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var inv Invoice
	if err := dec.Decode(&inv); err != nil {
		return nil, fmt.Errorf("failed to read rendered invoice: %w", err)
	}
	if inv.Items == nil {
		inv.Items = []LineItem{}
	}
	return &inv, nil
}

// ToJSON converts a value to indented JSON.
func ToJSON(data interface{}) (string, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(jsonData), nil
}
