package normalize

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"ideographic spaces", "　株式会社　秋月電子通商　", "株式会社 秋月電子通商"},
		{"full-width ascii", "Ｅ２５０１０１－００１", "E250101-001"},
		{"half-width katakana", "ｶﾞｲﾄﾞ", "ガイド"},
		{"mixed whitespace", "a \t\n b", "a b"},
		{"zero width", "ab\u200bc", "abc"},
		{"empty", " 　 ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Text(tt.in))
		})
	}
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "注文日", Label("注 文 日："))
	assert.Equal(t, "注文日", Label("　注文日　"))
	assert.Equal(t, "orderid", Label("Order ID:"))
}

func TestSplitLabel(t *testing.T) {
	v, ok := SplitLabel("オーダーID：E250101-001", []string{"注文番号", "オーダーID"})
	require.True(t, ok)
	assert.Equal(t, "E250101-001", v)

	v, ok = SplitLabel("Order ID  12345", []string{"order id"})
	require.True(t, ok)
	assert.Equal(t, "12345", v)

	_, ok = SplitLabel("合計金額: ¥100", []string{"合計"})
	assert.False(t, ok)

	_, ok = SplitLabel("出荷日", []string{"注文日"})
	assert.False(t, ok)

	_, ok = SplitLabel("Tax Rate: 10%", []string{"Tax"})
	assert.False(t, ok)

	v, ok = SplitLabel("Tax Rate: 10%", []string{"Tax", "Tax Rate"})
	require.True(t, ok)
	assert.Equal(t, "10%", v)

	v, ok = SplitLabel("Total $15.33", []string{"Total"})
	require.True(t, ok)
	assert.Equal(t, "$15.33", v)

	v, ok = SplitLabel("注文日 2025/01/03", []string{"注文日"})
	require.True(t, ok)
	assert.Equal(t, "2025/01/03", v)
}

func TestDecimal(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1,234", "1234"},
		{"１，２３４", "1234"},
		{"1234567", "1234567"},
		{"12.50", "12.5"},
		{"1,234,567.8", "1234567.8"},
		{"△500", "-500"},
		{"- 3", "-3"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			d, err := Decimal(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.String())
		})
	}
}

func TestDecimal_Malformed(t *testing.T) {
	for _, in := range []string{"12a34", "12,34", "1,2345", "", "1.2.3", "--1", ",123", "1 234"} {
		t.Run(in, func(t *testing.T) {
			_, err := Decimal(in)
			assert.ErrorIs(t, err, ErrMalformedNumber)
		})
	}
}

func TestMoney(t *testing.T) {
	tests := []struct {
		in       string
		value    string
		currency string
	}{
		{"¥1,234", "1234", "JPY"},
		{"￥1,234", "1234", "JPY"},
		{"1,234円", "1234", "JPY"},
		{"1,100円(税込)", "1100", "JPY"},
		{"JPY 500", "500", "JPY"},
		{"-¥300", "-300", "JPY"},
		{"¥-300", "-300", "JPY"},
		{"$12.50", "12.5", "USD"},
		{"12.50 USD", "12.5", "USD"},
		{"1,234", "1234", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			a, err := Money(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.value, a.Value.String())
			assert.Equal(t, tt.currency, a.Currency)
		})
	}
}

func TestMoney_Malformed(t *testing.T) {
	for _, in := range []string{"¥12a34", "¥100円", "$€5", "-¥-5", "円"} {
		t.Run(in, func(t *testing.T) {
			_, err := Money(in)
			assert.ErrorIs(t, err, ErrMalformedNumber)
		})
	}
}

func TestPercent(t *testing.T) {
	d, err := Percent("８％")
	require.NoError(t, err)
	assert.Equal(t, "8", d.String())

	d, err = Percent("10%")
	require.NoError(t, err)
	assert.Equal(t, "10", d.String())

	_, err = Percent("120%")
	assert.ErrorIs(t, err, ErrOutOfRange)

	_, err = Percent("ten")
	assert.ErrorIs(t, err, ErrMalformedNumber)
}

func TestCheckPrecision(t *testing.T) {
	d, err := Decimal("10.5")
	require.NoError(t, err)
	assert.ErrorIs(t, CheckPrecision(d, "JPY"), ErrPrecision)
	assert.NoError(t, CheckPrecision(d, "USD"))

	d, err = Decimal("100.00")
	require.NoError(t, err)
	assert.NoError(t, CheckPrecision(d, "JPY"))

	assert.ErrorIs(t, CheckPrecision(d, "XXX"), ErrUnknownCurrency)
}

func TestDate(t *testing.T) {
	want := civil.Date{Year: 2025, Month: time.January, Day: 3}
	for _, in := range []string{
		"2025/01/03",
		"2025/1/3",
		"2025-01-03",
		"2025.01.03",
		"2025年1月3日",
		"2025年 1月 3日",
		"２０２５／０１／０３",
		"2025/01/03 10:15",
		"2025/01/03 10:15:42",
		"2025年1月3日(金)",
		"2025年1月3日（金） 9:00",
		"2025/01/03(金)10:15",
		"令和7年1月3日",
	} {
		t.Run(in, func(t *testing.T) {
			got, err := Date(in)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestDate_Era(t *testing.T) {
	got, err := Date("令和元年5月1日")
	require.NoError(t, err)
	assert.Equal(t, civil.Date{Year: 2019, Month: time.May, Day: 1}, got)

	got, err = Date("平成31年4月30日")
	require.NoError(t, err)
	assert.Equal(t, civil.Date{Year: 2019, Month: time.April, Day: 30}, got)

	_, err = Date("平成32年1月1日")
	assert.ErrorIs(t, err, ErrInvalidDate)

	_, err = Date("令和元年4月1日")
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestDate_Failures(t *testing.T) {
	tests := []struct {
		in   string
		want error
	}{
		{"01/03/2025", ErrAmbiguousDate},
		{"03-01-2025", ErrAmbiguousDate},
		{"25/01/03", ErrAmbiguousDate},
		{"1月3日", ErrAmbiguousDate},
		{"2025/02/30", ErrInvalidDate},
		{"2025/13/01", ErrInvalidDate},
		{"2025/01-03", ErrMalformedDate},
		{"2025(x)/01/03", ErrMalformedDate},
		{"2025/01/03 (金) 備考", ErrMalformedDate},
		{"tomorrow", ErrMalformedDate},
		{"", ErrMalformedDate},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			_, err := Date(tt.in)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
