// Package money renders portfolio amounts in compact locale units, e.g.
// "₹1.2Cr" or "$5.3K", for on-screen overlays and axis labels.
package money

import "fmt"

// Unit is one magnitude step of a locale, e.g. lakh or million.
type Unit struct {
	Threshold float64
	Suffix    string
}

// Locale is a currency symbol plus its magnitude units in descending order.
// Amounts at or above the largest threshold get two decimals, smaller units
// one decimal, and amounts below the smallest unit are rendered as plain
// integers. Zero is always the bare "<symbol>0".
type Locale struct {
	Symbol string
	Units  []Unit
}

// Indian renders rupee amounts in crores, lakhs and thousands.
var Indian = Locale{
	Symbol: "₹",
	Units: []Unit{
		{Threshold: 1e7, Suffix: "Cr"},
		{Threshold: 1e5, Suffix: "L"},
		{Threshold: 1e3, Suffix: "K"},
	},
}

// US renders dollar amounts in millions and thousands.
var US = Locale{
	Symbol: "$",
	Units: []Unit{
		{Threshold: 1e6, Suffix: "M"},
		{Threshold: 1e3, Suffix: "K"},
	},
}

// WithSymbol returns a copy of the locale using a different currency symbol,
// keeping the unit table. Lets a config swap ₹ for Rs. without touching
// thresholds.
func (l Locale) WithSymbol(symbol string) Locale {
	out := l
	out.Symbol = symbol
	return out
}

// Format renders v per the locale policy.
func (l Locale) Format(v float64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	if v == 0 {
		return l.Symbol + "0"
	}
	for i, u := range l.Units {
		if v >= u.Threshold {
			if i == 0 {
				return fmt.Sprintf("%s%s%.2f%s", sign, l.Symbol, v/u.Threshold, u.Suffix)
			}
			return fmt.Sprintf("%s%s%.1f%s", sign, l.Symbol, v/u.Threshold, u.Suffix)
		}
	}
	return fmt.Sprintf("%s%s%.0f", sign, l.Symbol, v)
}

// Percent renders a signed whole-number percentage, e.g. "+24%".
func Percent(p float64) string {
	return fmt.Sprintf("%+.0f%%", p)
}
