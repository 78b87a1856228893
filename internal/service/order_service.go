package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/Lixing-Zhang/coupon-portal/internal/apiclient"
	"github.com/Lixing-Zhang/coupon-portal/internal/models"
	"github.com/Lixing-Zhang/coupon-portal/internal/session"
	"github.com/shopspring/decimal"
)

// Customer-facing order messages.
const (
	msgNotLoggedIn    = "Bạn cần đăng nhập để sử dụng chức năng này."
	msgAmountTooLow   = "Số tiền đơn hàng phải tối thiểu 1.000 VNĐ."
	msgAmountTooLarge = "Số tiền đơn hàng quá lớn."
	msgDateMissing    = "Vui lòng chọn ngày tạo đơn hàng."
	msgNetworkError   = "Lỗi kết nối máy chủ. Vui lòng thử lại sau."
	msgGenericError   = "Có lỗi xảy ra khi xử lý đơn hàng"
	ruleViolationMsg  = "Đơn hàng chưa thoả điều kiện, điều chỉnh đơn hàng để tiếp tục sử dụng coupon nhé: "
)

// errorCodeMessages maps API error codes to friendlier texts.
var errorCodeMessages = map[string]string{
	"INSUFFICIENT_BUDGET": "Rất tiếc, coupon này đang tạm hết!",
	"COUPON_NOT_FOUND":    "Có vẻ như mã coupon bạn nhập chưa đúng hoặc không còn tồn tại.",
	"COUPON_EXPIRED":      "Oops! Coupon này đã hết hạn mất rồi.",
}

var (
	minAmount = decimal.NewFromInt(models.MinOrderAmount)
	maxAmount = decimal.NewFromInt(math.MaxInt64)
)

// orderDateLayouts are the accepted form values, minute precision first.
var orderDateLayouts = []string{"2006-01-02T15:04", models.LocalLayout}

// OrderAPI submits orders.
type OrderAPI interface {
	ProcessOrder(ctx context.Context, token string, req models.OrderRequest) (*models.OrderResult, error)
}

// OrderForm is the raw order form as posted.
type OrderForm struct {
	Amount     string
	OrderDate  string
	CouponCode string
}

// OrderService validates and submits customer orders.
type OrderService struct {
	api    OrderAPI
	logger *slog.Logger
}

func NewOrderService(api OrderAPI, logger *slog.Logger) *OrderService {
	return &OrderService{api: api, logger: logger}
}

// Submit validates form against the session in st and posts the order.
// Concurrent submissions are not deduplicated.
func (s *OrderService) Submit(ctx context.Context, st *session.State, form OrderForm) (*models.OrderResult, error) {
	req, err := BuildOrderRequest(st.Auth(), form)
	if err != nil {
		return nil, err
	}

	result, err := s.api.ProcessOrder(ctx, st.Auth().Token, req)
	if err != nil {
		s.logger.Warn("order failed",
			"user_id", req.UserID,
			"amount", req.OrderAmount,
			"coupon_code", req.CouponCode,
			"error", err,
		)
		return nil, fmt.Errorf("process order: %w", err)
	}

	s.logger.Info("order processed",
		"order_id", result.OrderID,
		"user_id", req.UserID,
		"coupon_code", req.CouponCode,
		"status", result.Status,
	)
	return result, nil
}

// BuildOrderRequest runs the local checks in order: session, amount, date.
func BuildOrderRequest(auth models.Session, form OrderForm) (models.OrderRequest, error) {
	if !auth.Valid() {
		return models.OrderRequest{}, ErrNotLoggedIn
	}
	userID, err := strconv.ParseInt(auth.UserID, 10, 64)
	if err != nil {
		return models.OrderRequest{}, ErrNotLoggedIn
	}

	amount := ParseAmount(form.Amount)
	if amount.LessThan(minAmount) {
		return models.OrderRequest{}, &ValidationError{Message: msgAmountTooLow}
	}
	if amount.GreaterThan(maxAmount) {
		return models.OrderRequest{}, &ValidationError{Message: msgAmountTooLarge}
	}

	orderDate, ok := NormalizeOrderDate(form.OrderDate)
	if !ok {
		return models.OrderRequest{}, &ValidationError{Message: msgDateMissing}
	}

	return models.OrderRequest{
		UserID:      userID,
		OrderAmount: amount.IntPart(),
		OrderDate:   orderDate,
		CouponCode:  strings.TrimSpace(form.CouponCode),
	}, nil
}

// ParseAmount keeps only the digits of s, so "1.000.000" and "1,000,000"
// both read as one million. Input without digits yields zero.
func ParseAmount(s string) decimal.Decimal {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(b.String())
	if err != nil {
		return decimal.Zero
	}
	return d
}

// NormalizeOrderDate turns a datetime-local value into the API's
// zone-less second-precision form.
func NormalizeOrderDate(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	for _, layout := range orderDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(models.LocalLayout), true
		}
	}
	return "", false
}

// DefaultOrderDate is now truncated to the minute, as a datetime-local value.
func DefaultOrderDate(now time.Time) string {
	return now.Truncate(time.Minute).Format("2006-01-02T15:04")
}

// FriendlyErrorMessage maps an order error to the text shown to the user.
func FriendlyErrorMessage(err error) string {
	var valErr *ValidationError
	var apiErr *apiclient.APIError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotLoggedIn):
		return msgNotLoggedIn
	case errors.As(err, &valErr):
		return valErr.Message
	case errors.As(err, &apiErr):
		if apiErr.Code == "RULE_VIOLATION" {
			return ruleViolationMsg + apiErr.Message
		}
		if msg, ok := errorCodeMessages[apiErr.Code]; ok {
			return msg
		}
		return orDefault(apiErr.Message, msgGenericError)
	case errors.Is(err, apiclient.ErrTransport):
		return msgNetworkError
	default:
		return msgGenericError
	}
}

// OrderStatusLabel returns the Vietnamese label for a status, or the raw
// value when unknown.
func OrderStatusLabel(s models.OrderStatus) string {
	switch s {
	case models.OrderCompleted:
		return "Hoàn thành"
	case models.OrderPending:
		return "Đang xử lý"
	case models.OrderCancelled:
		return "Đã hủy"
	case models.OrderFailed:
		return "Thất bại"
	default:
		return string(s)
	}
}
