package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Currency is the ISO code a salary or salary expectation is quoted in.
type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyGBP Currency = "GBP"
	CurrencyINR Currency = "INR"
	CurrencyCAD Currency = "CAD"
	CurrencyAUD Currency = "AUD"

	DefaultCurrency = CurrencyUSD
)

func (c Currency) IsValid() bool {
	switch c {
	case CurrencyUSD, CurrencyEUR, CurrencyGBP, CurrencyINR, CurrencyCAD, CurrencyAUD:
		return true
	}
	return false
}

// PayPeriod is the interval a salary amount covers.
type PayPeriod string

const (
	PayPeriodHourly  PayPeriod = "hourly"
	PayPeriodMonthly PayPeriod = "monthly"
	PayPeriodYearly  PayPeriod = "yearly"

	DefaultPayPeriod = PayPeriodYearly
)

func (p PayPeriod) IsValid() bool {
	switch p {
	case PayPeriodHourly, PayPeriodMonthly, PayPeriodYearly:
		return true
	}
	return false
}

// FormatAmount renders an amount with thousands separators, e.g. 120000 -> "120,000".
// Cents are only shown when non-zero.
func FormatAmount(v float64) string {
	cents := int64(math.Round(math.Abs(v) * 100))
	digits := strconv.FormatInt(cents/100, 10)

	var b strings.Builder
	if v < 0 && cents != 0 {
		b.WriteByte('-')
	}
	for i, c := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	if rem := cents % 100; rem != 0 {
		fmt.Fprintf(&b, ".%02d", rem)
	}
	return b.String()
}
