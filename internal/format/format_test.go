package format

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestCurrency(t *testing.T) {
	tests := []struct {
		name   string
		amount decimal.Decimal
		want   string
	}{
		{"million", decimal.NewFromInt(1000000), "1.000.000 ₫"},
		{"small", decimal.NewFromInt(500), "500 ₫"},
		{"zero", decimal.Zero, "0 ₫"},
		{"rounds fraction", decimal.RequireFromString("1999.6"), "2.000 ₫"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Currency(tt.amount); got != tt.want {
				t.Errorf("Currency(%s) = %q, want %q", tt.amount, got, tt.want)
			}
		})
	}
}

func TestNumber(t *testing.T) {
	if got := Number(25000); got != "25.000" {
		t.Errorf("Number(25000) = %q, want 25.000", got)
	}
}

func TestDates(t *testing.T) {
	ts := time.Date(2025, 8, 7, 9, 5, 0, 0, time.Local)

	if got := Date(ts); got != "7/8/2025" {
		t.Errorf("Date() = %q, want 7/8/2025", got)
	}
	if got := DateTime(ts); got != "09:05 07/08/2025" {
		t.Errorf("DateTime() = %q, want 09:05 07/08/2025", got)
	}
	if Date(time.Time{}) != "" || DateTime(time.Time{}) != "" {
		t.Error("zero time should render empty")
	}
}
