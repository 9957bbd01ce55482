// Package core provides money parsing and handling utilities.
//
// This file contains functions for parsing monetary amounts from user input
// and rendering cents for display.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// maxAmount keeps cents arithmetic well inside int64 even after summing many rows.
var maxAmount = decimal.New(1, 12)

// ParseAmount converts a decimal string to Money.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators. Values
// with more than two fractional digits are rounded half away from zero.
// Zero is a valid amount; negative and non-numeric input is rejected.
//
// Examples:
//
//	ParseAmount("12.34")  -> 1234 cents
//	ParseAmount("12,5")   -> 1250 cents
//	ParseAmount("12.345") -> 1235 cents
//	ParseAmount("-5")     -> ErrNegativeAmount
func ParseAmount(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")

	body := s
	negative := false
	switch body[0] {
	case '-':
		negative = true
		body = body[1:]
	case '+':
		body = body[1:]
	}
	if !isPlainDecimal(body) {
		return Money{}, ErrInvalidAmount
	}

	d, err := decimal.NewFromString(body)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	if negative && !d.IsZero() {
		return Money{}, ErrNegativeAmount
	}
	if d.GreaterThanOrEqual(maxAmount) {
		return Money{}, ErrInvalidAmount
	}
	return Money{Cents: d.Round(2).Shift(2).IntPart()}, nil
}

// isPlainDecimal accepts digits with at most one dot; exponents and signs are rejected.
func isPlainDecimal(s string) bool {
	if s == "" || s == "." {
		return false
	}
	dots := 0
	for _, r := range s {
		switch {
		case r == '.':
			dots++
			if dots > 1 {
				return false
			}
		case r < '0' || r > '9':
			return false
		}
	}
	return true
}

// Decimal returns the amount in currency units.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.Cents, -2)
}

// String renders the amount with exactly two decimals, e.g. "52.50".
func (m Money) String() string {
	return m.Decimal().StringFixed(2)
}

// Format renders the amount with thousands separators and a currency symbol,
// e.g. Format("₹") on 123456 cents gives "₹1,234.56".
func (m Money) Format(symbol string) string {
	neg := m.Cents < 0
	s := Money{Cents: abs(m.Cents)}.String()
	intPart, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	out := symbol + b.String() + "." + frac
	if neg {
		return "-" + out
	}
	return out
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
