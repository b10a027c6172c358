package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTotals(t *testing.T) {
	lines := []Line{
		{Quantity: 2, UnitPrice: 10.00},
		{Quantity: 1, UnitPrice: 20.00},
	}

	subtotal, tax, total := Totals(lines)

	assert.Equal(t, 40.00, subtotal)
	assert.Equal(t, 7.20, tax)
	assert.Equal(t, 47.20, total)
}

func TestTotalsEmpty(t *testing.T) {
	subtotal, tax, total := Totals(nil)

	assert.Equal(t, 0.0, subtotal)
	assert.Equal(t, 0.0, tax)
	assert.Equal(t, 0.0, total)
}

func TestTotalsRounding(t *testing.T) {
	lines := []Line{{Quantity: 3, UnitPrice: 33.333}}

	subtotal, tax, total := Totals(lines)

	assert.Equal(t, 100.00, subtotal)
	assert.Equal(t, 18.00, tax)
	assert.Equal(t, Round2(subtotal+subtotal*IGVRate), total)
}

func TestCurrency(t *testing.T) {
	assert.Equal(t, "S/", PEN.Symbol())
	assert.Equal(t, "SOLES", PEN.LongName())
	assert.Equal(t, "$", USD.Symbol())
	assert.Equal(t, "DOLARES AMERICANOS", USD.LongName())
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "47.20", Format(47.2))
	assert.Equal(t, "0.00", Format(0))
	assert.Equal(t, "1000.00", Format(1000))
}

func TestInWords(t *testing.T) {
	cases := []struct {
		amount float64
		want   string
	}{
		{0, "CERO CON 00/100 SOLES"},
		{1, "UNO CON 00/100 SOLES"},
		{15, "QUINCE CON 00/100 SOLES"},
		{16, "DIECISEIS CON 00/100 SOLES"},
		{21, "VEINTIUNO CON 00/100 SOLES"},
		{47.20, "CUARENTA Y SIETE CON 20/100 SOLES"},
		{100, "CIEN CON 00/100 SOLES"},
		{101, "CIENTO UNO CON 00/100 SOLES"},
		{340, "TRESCIENTOS CUARENTA CON 00/100 SOLES"},
		{500, "QUINIENTOS CON 00/100 SOLES"},
		{700, "SETECIENTOS CON 00/100 SOLES"},
		{999, "NOVECIENTOS NOVENTA Y NUEVE CON 00/100 SOLES"},
		{1000, "MIL CON 00/100 SOLES"},
		{1001, "MIL UNO CON 00/100 SOLES"},
		{21000, "VEINTIUN MIL CON 00/100 SOLES"},
		{123456, "CIENTO VEINTITRES MIL CUATROCIENTOS CINCUENTA Y SEIS CON 00/100 SOLES"},
		{1000000, "UN MILLON CON 00/100 SOLES"},
		{2000000, "DOS MILLONES CON 00/100 SOLES"},
		{999999999, "NOVECIENTOS NOVENTA Y NUEVE MILLONES NOVECIENTOS NOVENTA Y NUEVE MIL NOVECIENTOS NOVENTA Y NUEVE CON 00/100 SOLES"},
		{1234.56, "MIL DOSCIENTOS TREINTA Y CUATRO CON 56/100 SOLES"},
	}

	for _, tc := range cases {
		got, err := InWords(tc.amount, PEN)
		require.NoError(t, err, "amount %v", tc.amount)
		assert.Equal(t, tc.want, got, "amount %v", tc.amount)
	}
}

func TestInWordsUSD(t *testing.T) {
	got, err := InWords(200, USD)
	require.NoError(t, err)
	assert.Equal(t, "DOSCIENTOS CON 00/100 DOLARES AMERICANOS", got)
}

func TestInWordsCentRollover(t *testing.T) {
	// 1.999 rounds to 2.00, never "UNO CON 100/100".
	got, err := InWords(1.999, PEN)
	require.NoError(t, err)
	assert.Equal(t, "DOS CON 00/100 SOLES", got)
}

func TestInWordsOutOfRange(t *testing.T) {
	for _, amount := range []float64{1_000_000_000, 999_999_999.999, -1} {
		got, err := InWords(amount, PEN)
		assert.ErrorIs(t, err, ErrAmountOutOfRange, "amount %v", amount)
		assert.Empty(t, got)
	}
}
