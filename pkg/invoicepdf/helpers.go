package invoicepdf

import (
	"io"
	"os"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// textEncoder prepares strings for the selected font. Core fonts only
// cover Latin-1; a TrueType font takes UTF-8 unchanged.
type textEncoder struct {
	utf8     bool
	latin1   *encoding.Encoder
	replaced int // runes the core font could not show
}

func newTextEncoder(utf8 bool) *textEncoder {
	return &textEncoder{
		utf8:   utf8,
		latin1: encoding.ReplaceUnsupported(charmap.ISO8859_1.NewEncoder()),
	}
}

// String converts s and counts the runes that had to be replaced.
func (e *textEncoder) String(s string) string {
	if !e.utf8 {
		for _, r := range s {
			if _, ok := charmap.ISO8859_1.EncodeRune(r); !ok {
				e.replaced++
			}
		}
	}
	return e.convert(s)
}

func (e *textEncoder) convert(s string) string {
	if e.utf8 {
		return s
	}
	out, err := e.latin1.String(s)
	if err != nil {
		// Track encoding errors but continue
		e.replaced++
		return ""
	}
	return out
}

// getLogger returns the appropriate io.Writer to use for logging
// based on the configuration settings, defaulting to os.Stdout if nil.
func getLogger(config Config) io.Writer {
	if config.Logger == nil {
		return os.Stdout
	}
	return config.Logger
}
