package invoice

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestParseFile_ShiftJIS(t *testing.T) {
	inv, err := ParseFile(filepath.Join("testdata", "sjis_order.html"))
	require.NoError(t, err)

	assert.Equal(t, "株式会社秋月電子通商", inv.Issuer)
	assert.Equal(t, "E250201-000321", inv.Number)
	require.Len(t, inv.Items, 1)
	assert.Equal(t, "三端子レギュレーター 5V", inv.Items[0].Name)
	assertDecimal(t, "4", inv.Items[0].Quantity)
	assertDecimal(t, "220", inv.Totals.Total)
	assert.Equal(t, "JPY", inv.Currency)
}

func TestParseFile_UTF8(t *testing.T) {
	inv, err := ParseFile(filepath.Join("testdata", "akizuki_order.html"))
	require.NoError(t, err)
	assert.Equal(t, "LED 赤色 5mm", inv.Items[0].Name)
}

func TestParseFile_Missing(t *testing.T) {
	inv, err := ParseFile(filepath.Join(t.TempDir(), "missing.html"))
	assert.Nil(t, inv)
	requireParseError(t, err, KindIO, os.ErrNotExist)
	assert.ErrorIs(t, err, ErrIO)
}

func TestParse_Concurrent(t *testing.T) {
	p, err := NewParser(DefaultConfig())
	require.NoError(t, err)

	texts := []string{
		readFixture(t, "akizuki_order.html"),
		readFixture(t, "whitespace.html"),
		readFixture(t, "empty_order.html"),
	}
	want := make([][]byte, len(texts))
	for i, text := range texts {
		inv, err := p.Parse(text)
		require.NoError(t, err)
		want[i], err = Render(inv)
		require.NoError(t, err)
	}

	const rounds = 16
	got := make([][]byte, rounds*len(texts))
	var g errgroup.Group
	for i := range got {
		g.Go(func() error {
			inv, err := p.Parse(texts[i%len(texts)])
			if err != nil {
				return err
			}
			got[i], err = Render(inv)
			return err
		})
	}
	require.NoError(t, g.Wait())
	for i := range got {
		assert.Equal(t, string(want[i%len(texts)]), string(got[i]))
	}
}
