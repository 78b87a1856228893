package coupon

import (
	"strings"
	"time"

	"github.com/Lixing-Zhang/coupon-portal/internal/models"
)

// PreviewResult is the outcome of checking a code against the cached list.
type PreviewResult struct {
	Checked bool
	Valid   bool
	Message string
}

// Preview looks code up in the user's cached coupons without calling the
// API. The server remains the authority at order time.
func Preview(items []models.Coupon, code string, now time.Time) PreviewResult {
	code = strings.TrimSpace(code)
	if code == "" {
		return PreviewResult{Checked: true, Message: "Vui lòng nhập mã coupon"}
	}

	for _, c := range items {
		if c.Code != code {
			continue
		}
		if c.Status == models.CouponActive && !c.EndDate.IsZero() && !c.EndDate.Before(now) {
			return PreviewResult{Checked: true, Valid: true, Message: "Mã hợp lệ - " + c.Description}
		}
		return PreviewResult{Checked: true, Message: "Mã không khả dụng hoặc đã hết hạn"}
	}

	return PreviewResult{Checked: true, Message: "Mã không tồn tại hoặc không thuộc về bạn"}
}
