package invoicepdf

import (
	"io"
)

// Config holds user options for the printable invoice
type Config struct {
	Debug       bool      // Draw cell borders around header and total blocks
	LogWarnings bool      // Whether to print warnings
	Logger      io.Writer // Custom logger for warnings (nil = stdout)
	Title       string    // Heading printed above the invoice number
	Font        FontConfig
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() Config {
	return Config{
		Debug:       false,
		LogWarnings: true,
		Logger:      nil, // stdout
		Title:       "Invoice",
		Font:        DefaultFont,
	}
}

// FontConfig contains font settings for the rendered text
type FontConfig struct {
	Name  string  // Core font name (e.g., "Helvetica"), used without File
	File  string  // TrueType font file; required to print Japanese text
	Size  float64 // Body font size in points
	Title float64 // Heading font size in points
}

// DefaultFont uses the Helvetica core font. Text outside Latin-1 is replaced,
// so set File to a CJK font for Japanese invoices.
var DefaultFont = FontConfig{
	Name:  "Helvetica",
	Size:  9,
	Title: 16,
}
