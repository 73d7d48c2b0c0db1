package common

import (
	"fmt"
	"math"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Display markers for figures that could not be computed.
const (
	NotAvailable = "N/A"
	EmptyCell    = "--"
)

var ptBR = message.NewPrinter(language.BrazilianPortuguese)

// FormatCurrency renders a monetary value with pt-BR digit grouping,
// e.g. 1234.5 -> "R$ 1.234,50".
func FormatCurrency(value float64) string {
	return ptBR.Sprintf("R$ %v", number.Decimal(value, number.Scale(2)))
}

// FormatNumber renders a plain number with the given fraction digits,
// e.g. FormatNumber(1.008016, 4) -> "1,0080".
func FormatNumber(value float64, decimals int) string {
	return ptBR.Sprintf("%v", number.Decimal(value, number.Scale(decimals)))
}

// FormatAnnualRate renders a decimal annual rate as a signed percentage,
// e.g. 0.0741 -> "+7,41% a.a.". Zero formats with a plus sign.
func FormatAnnualRate(rate float64) string {
	pct := rate * 100
	sign := "+"
	if pct < 0 {
		sign = "-"
	}
	return ptBR.Sprintf("%s%v%% a.a.", sign, number.Decimal(math.Abs(pct), number.Scale(2)))
}

// FormatPercent renders a decimal fraction as an unsigned percentage,
// e.g. 0.325 -> "32,50%".
func FormatPercent(fraction float64) string {
	return ptBR.Sprintf("%v%%", number.Decimal(fraction*100, number.Scale(2)))
}

// FormatMonth renders the month label used to key table rows, e.g. "Jan 2024".
func FormatMonth(t time.Time) string {
	return t.Format("Jan 2006")
}

// FormatDate renders a full date in Brazilian day-first order.
func FormatDate(t time.Time) string {
	return t.Format("02/01/2006")
}

// ParseMonthOrDate accepts YYYY-MM-DD or YYYY-MM. A bare month resolves to
// its first day, or its last day when endOfMonth is set (closing a range).
func ParseMonthOrDate(value string, endOfMonth bool) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01", value)
	if err != nil {
		return nil, fmt.Errorf("use YYYY-MM or YYYY-MM-DD, got %q", value)
	}
	if endOfMonth {
		t = t.AddDate(0, 1, 0).AddDate(0, 0, -1)
	}
	return &t, nil
}
