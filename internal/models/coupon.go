package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DiscountType is the server-defined kind of discount a coupon grants.
type DiscountType string

const (
	DiscountPercentage   DiscountType = "PERCENTAGE"
	DiscountFixedAmount  DiscountType = "FIXED_AMOUNT"
	DiscountFreeShipping DiscountType = "FREE_SHIPPING"
)

// CouponStatus is the server-side lifecycle state of a user's coupon.
type CouponStatus string

const (
	CouponActive   CouponStatus = "ACTIVE"
	CouponExpired  CouponStatus = "EXPIRED"
	CouponUsed     CouponStatus = "USED"
	CouponInactive CouponStatus = "INACTIVE"
)

// Coupon is a coupon owned by the logged-in user, as returned by
// GET /coupons/user/{userId}. Read-only on this side.
type Coupon struct {
	CouponID    int64           `json:"couponId"`
	Code        string          `json:"couponCode"`
	Description string          `json:"description"`
	Status      CouponStatus    `json:"status"`
	Type        DiscountType    `json:"type"`
	Value       decimal.Decimal `json:"value"`
	StartDate   Timestamp       `json:"startDate"`
	EndDate     Timestamp       `json:"endDate"`
}

// IsExpired reports whether the validity window ended before now.
// A coupon without an end date never expires client-side.
func (c Coupon) IsExpired(now time.Time) bool {
	return !c.EndDate.IsZero() && c.EndDate.Before(now)
}

// IsUsable reports status == ACTIVE and now < end.
func (c Coupon) IsUsable(now time.Time) bool {
	return c.Status == CouponActive && !c.EndDate.IsZero() && now.Before(c.EndDate.Time)
}

// UserCouponsPage is one page of a user's coupons. Page and Size are nil
// when the server omits them.
type UserCouponsPage struct {
	UserCoupons []Coupon `json:"userCoupons"`
	TotalCount  int64    `json:"totalCount"`
	Page        *int     `json:"page"`
	Size        *int     `json:"size"`
}
