package models

import "github.com/shopspring/decimal"

// MinOrderAmount is the smallest order amount, in VND, accepted for submission.
const MinOrderAmount = 1000

// OrderRequest is the body of POST /orders/process.
// CouponCode is omitted entirely when no coupon was requested.
type OrderRequest struct {
	UserID      int64  `json:"userId"`
	OrderAmount int64  `json:"orderAmount"`
	OrderDate   string `json:"orderDate"`
	CouponCode  string `json:"couponCode,omitempty"`
	RequestID   string `json:"requestId,omitempty"`
}

// OrderStatus is the server-defined processing state of an order.
type OrderStatus string

const (
	OrderCompleted OrderStatus = "COMPLETED"
	OrderPending   OrderStatus = "PENDING"
	OrderCancelled OrderStatus = "CANCELLED"
	OrderFailed    OrderStatus = "FAILED"
)

// OrderResult is the successful response of POST /orders/process.
type OrderResult struct {
	OrderID        int64           `json:"orderId"`
	UserID         int64           `json:"userId"`
	OrderAmount    decimal.Decimal `json:"orderAmount"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	FinalAmount    decimal.Decimal `json:"finalAmount"`
	CouponCode     string          `json:"couponCode,omitempty"`
	CouponID       *int64          `json:"couponId,omitempty"`
	OrderDate      Timestamp       `json:"orderDate"`
	Status         OrderStatus     `json:"status"`
}

// Payable returns the final amount, falling back to the order amount
// when the server sent none (or zero).
func (r OrderResult) Payable() decimal.Decimal {
	if r.FinalAmount.IsZero() {
		return r.OrderAmount
	}
	return r.FinalAmount
}

// HasDiscount reports whether a positive discount was applied.
func (r OrderResult) HasDiscount() bool {
	return r.DiscountAmount.IsPositive()
}
