// Package format renders money and dates the way the portal displays them
// to Vietnamese customers.
package format

import (
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const currencySymbol = "₫"

var printer = message.NewPrinter(language.Vietnamese)

// Currency formats an amount as whole dong with vi-VN digit grouping,
// e.g. "1.000.000 ₫".
func Currency(amount decimal.Decimal) string {
	return printer.Sprintf("%d", amount.Round(0).IntPart()) + " " + currencySymbol
}

// CurrencyInt is Currency for plain integer amounts.
func CurrencyInt(amount int64) string {
	return Currency(decimal.NewFromInt(amount))
}

// Number groups digits without a currency symbol.
func Number(n int64) string {
	return printer.Sprintf("%d", n)
}

// DateTime renders a timestamp in local time, or "" for the zero time.
func DateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format("15:04 02/01/2006")
}

// Date renders a day without zero padding, as in "27/8/2025".
func Date(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format("2/1/2006")
}
