// Package money implements the monetary rules shared by quotations,
// purchase orders and document generation: fixed-rate IGV totals,
// currency naming and the spelled-out amount used on printed documents.
package money

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrAmountOutOfRange reports an amount whose integer part falls
// outside the range InWords can spell out.
var ErrAmountOutOfRange = errors.New("amount out of range for spelling")

// IGVRate is the Peruvian VAT rate applied to every taxable line.
const IGVRate = 0.18

// Currency is the two-value currency switch used across the system.
type Currency string

const (
	PEN Currency = "PEN"
	USD Currency = "USD"
)

// Symbol returns the short symbol printed next to amounts.
func (c Currency) Symbol() string {
	if c == USD {
		return "$"
	}
	return "S/"
}

// LongName returns the uppercase currency name used in spelled-out amounts.
func (c Currency) LongName() string {
	if c == USD {
		return "DOLARES AMERICANOS"
	}
	return "SOLES"
}

// Line is one taxable line: quantity times unit price.
type Line struct {
	Quantity  float64
	UnitPrice float64
}

// Totals computes subtotal, IGV and total over the given lines,
// each rounded to two decimals.
func Totals(lines []Line) (subtotal, tax, total float64) {
	for _, l := range lines {
		subtotal += l.Quantity * l.UnitPrice
	}
	subtotal = Round2(subtotal)
	tax = Round2(subtotal * IGVRate)
	total = Round2(subtotal + tax)
	return subtotal, tax, total
}

// Round2 rounds half away from zero to two decimals.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Format renders an amount with two decimals and no grouping, e.g. "47.20".
func Format(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

var units = []string{
	"", "UNO", "DOS", "TRES", "CUATRO", "CINCO", "SEIS", "SIETE", "OCHO", "NUEVE",
	"DIEZ", "ONCE", "DOCE", "TRECE", "CATORCE", "QUINCE", "DIECISEIS",
	"DIECISIETE", "DIECIOCHO", "DIECINUEVE", "VEINTE", "VEINTIUNO", "VEINTIDOS",
	"VEINTITRES", "VEINTICUATRO", "VEINTICINCO", "VEINTISEIS", "VEINTISIETE",
	"VEINTIOCHO", "VEINTINUEVE",
}

var tens = []string{
	"", "", "", "TREINTA", "CUARENTA", "CINCUENTA", "SESENTA", "SETENTA",
	"OCHENTA", "NOVENTA",
}

var hundreds = []string{
	"", "CIENTO", "DOSCIENTOS", "TRESCIENTOS", "CUATROCIENTOS", "QUINIENTOS",
	"SEISCIENTOS", "SETECIENTOS", "OCHOCIENTOS", "NOVECIENTOS",
}

// InWords spells out a currency amount in Spanish, integer part in words
// and cents as a two-digit fraction, e.g. "MIL CON 00/100 SOLES".
// The integer part must fall in 0 through 999,999,999; anything outside
// that range returns ErrAmountOutOfRange.
func InWords(amount float64, c Currency) (string, error) {
	amount = Round2(amount)
	intPart := int64(amount)
	cents := int64(math.Round((amount - float64(intPart)) * 100))
	if cents == 100 {
		intPart++
		cents = 0
	}
	if intPart < 0 || intPart > 999_999_999 {
		return "", fmt.Errorf("%w: %.2f", ErrAmountOutOfRange, amount)
	}
	return fmt.Sprintf("%s CON %02d/100 %s", spellInteger(intPart), cents, c.LongName()), nil
}

func spellInteger(n int64) string {
	if n == 0 {
		return "CERO"
	}

	var parts []string

	millions := n / 1_000_000
	if millions > 0 {
		if millions == 1 {
			parts = append(parts, "UN MILLON")
		} else {
			parts = append(parts, apocopate(spellGroup(int(millions))), "MILLONES")
		}
	}

	thousands := (n / 1000) % 1000
	if thousands > 0 {
		if thousands == 1 {
			parts = append(parts, "MIL")
		} else {
			parts = append(parts, apocopate(spellGroup(int(thousands))), "MIL")
		}
	}

	rest := n % 1000
	if rest > 0 {
		parts = append(parts, spellGroup(int(rest)))
	}

	return strings.Join(parts, " ")
}

// spellGroup spells 1..999.
func spellGroup(n int) string {
	if n == 100 {
		return "CIEN"
	}

	var parts []string
	if h := n / 100; h > 0 {
		parts = append(parts, hundreds[h])
	}

	n %= 100
	switch {
	case n == 0:
	case n < 30:
		parts = append(parts, units[n])
	default:
		t := tens[n/10]
		if u := n % 10; u > 0 {
			parts = append(parts, t+" Y "+units[u])
		} else {
			parts = append(parts, t)
		}
	}

	return strings.Join(parts, " ")
}

// apocopate turns a trailing UNO into UN so that 21,000 reads
// "VEINTIUN MIL" rather than "VEINTIUNO MIL".
func apocopate(s string) string {
	if strings.HasSuffix(s, "UNO") {
		return strings.TrimSuffix(s, "O")
	}
	return s
}
