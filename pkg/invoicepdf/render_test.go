package invoicepdf

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gardar/invoicekit/pkg/invoice"
)

func sampleInvoice(issuer, name, currency string) *invoice.Invoice {
	shipping := decimal.RequireFromString("500")
	return &invoice.Invoice{
		Issuer:    issuer,
		Number:    "E250103-012345",
		IssueDate: civil.Date{Year: 2025, Month: time.January, Day: 3},
		Currency:  currency,
		Items: []invoice.LineItem{
			{
				Line: 1, CatalogID: "M-12345", Name: name,
				Quantity:  decimal.RequireFromString("10"),
				UnitPrice: decimal.RequireFromString("20"),
				Amount:    decimal.RequireFromString("200"),
			},
		},
		Totals: invoice.Totals{
			Subtotal: decimal.RequireFromString("200"),
			Shipping: &shipping,
			Tax:      decimal.RequireFromString("20"),
			Total:    decimal.RequireFromString("720"),
		},
	}
}

func TestRender(t *testing.T) {
	var log bytes.Buffer
	cfg := DefaultConfig()
	cfg.Logger = &log

	out, err := Render(sampleInvoice("Parts Supply Inc.", "Resistor 10k", "USD"), cfg)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	assert.Empty(t, log.String())
}

func TestRender_Deterministic(t *testing.T) {
	inv := sampleInvoice("Parts Supply Inc.", "Resistor 10k", "USD")
	first, err := Render(inv, DefaultConfig())
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		again, err := Render(inv, DefaultConfig())
		require.NoError(t, err)
		require.Equal(t, first, again, "render %d", i+2)
	}
}

func TestRender_ReplacesUnsupportedRunes(t *testing.T) {
	var log bytes.Buffer
	cfg := DefaultConfig()
	cfg.Logger = &log

	out, err := Render(sampleInvoice("秋月電子", "LED", "JPY"), cfg)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	assert.Contains(t, log.String(), "4 characters not available")

	log.Reset()
	cfg.LogWarnings = false
	_, err = Render(sampleInvoice("秋月電子", "LED", "JPY"), cfg)
	require.NoError(t, err)
	assert.Empty(t, log.String())
}

func TestRender_MissingFontFile(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Font.File = filepath.Join(t.TempDir(), "missing.ttf")
	_, err := Render(sampleInvoice("a", "b", "JPY"), cfg)
	assert.ErrorContains(t, err, "failed to load font")
}

func TestRender_NoInvoice(t *testing.T) {
	_, err := Render(nil, DefaultConfig())
	assert.Error(t, err)
}

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		in, currency, want string
	}{
		{"1280", "JPY", "1,280"},
		{"1234567", "JPY", "1,234,567"},
		{"-300", "JPY", "-300"},
		{"0.05", "USD", "0.05"},
		{"1234.5", "EUR", "1,234.50"},
		{"12.345", "XXX", "12.345"},
	}
	for _, tt := range tests {
		t.Run(tt.in+tt.currency, func(t *testing.T) {
			assert.Equal(t, tt.want, formatMoney(decimal.RequireFromString(tt.in), tt.currency))
		})
	}
}
