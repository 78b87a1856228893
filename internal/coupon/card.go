// Package coupon builds the view models for the customer's coupon list:
// cards, pagination and the local code preview. Everything here is pure.
package coupon

import (
	"time"

	"github.com/Lixing-Zhang/coupon-portal/internal/format"
	"github.com/Lixing-Zhang/coupon-portal/internal/models"
	"github.com/shopspring/decimal"
)

// Card is one rendered coupon.
type Card struct {
	Code          string
	Description   string
	DiscountLabel string
	DiscountClass string
	StatusClass   string
	StatusText    string
	DateRange     string
	Expired       bool
	// Active cards offer the "use" action; the others show UnavailableReason.
	Active            bool
	UnavailableReason string
}

var statusClasses = map[models.CouponStatus]string{
	models.CouponActive:   "status-active",
	models.CouponExpired:  "status-expired",
	models.CouponUsed:     "status-used",
	models.CouponInactive: "status-inactive",
}

var statusTexts = map[models.CouponStatus]string{
	models.CouponActive:   "Khả dụng",
	models.CouponExpired:  "Hết hạn",
	models.CouponUsed:     "Đã dùng",
	models.CouponInactive: "Tạm khóa",
}

// BuildCards maps coupons to cards in order.
func BuildCards(items []models.Coupon, now time.Time) []Card {
	cards := make([]Card, 0, len(items))
	for _, c := range items {
		cards = append(cards, BuildCard(c, now))
	}
	return cards
}

func BuildCard(c models.Coupon, now time.Time) Card {
	expired := c.IsExpired(now)
	label, class := DiscountLabel(c.Type, c.Value)

	card := Card{
		Code:          c.Code,
		Description:   c.Description,
		DiscountLabel: label,
		DiscountClass: class,
		StatusClass:   StatusClass(c.Status),
		StatusText:    StatusText(c.Status),
		DateRange:     format.Date(c.StartDate.Time) + " - " + format.Date(c.EndDate.Time),
		Expired:       expired,
		Active:        c.Status == models.CouponActive && !expired,
	}
	if !card.Active {
		card.UnavailableReason = UnavailableReason(c.Status, expired)
	}
	return card
}

// DiscountLabel returns the badge text and its CSS class.
func DiscountLabel(t models.DiscountType, value decimal.Decimal) (string, string) {
	switch t {
	case models.DiscountPercentage:
		return value.String() + "% OFF", "discount-percentage"
	case models.DiscountFixedAmount:
		return "-" + format.Currency(value), "discount-fixed"
	case models.DiscountFreeShipping:
		return "MIỄN PHÍ SHIP", "discount-shipping"
	default:
		return value.String(), "discount-other"
	}
}

func StatusClass(s models.CouponStatus) string {
	if class, ok := statusClasses[s]; ok {
		return class
	}
	return "status-inactive"
}

func StatusText(s models.CouponStatus) string {
	if text, ok := statusTexts[s]; ok {
		return text
	}
	return "Không rõ"
}

// UnavailableReason explains why a card cannot be used. Expiry wins over
// the server status.
func UnavailableReason(s models.CouponStatus, expired bool) string {
	switch {
	case expired:
		return "Đã hết hạn"
	case s == models.CouponUsed:
		return "Đã sử dụng"
	case s == models.CouponInactive:
		return "Tạm khóa"
	default:
		return "Không khả dụng"
	}
}
