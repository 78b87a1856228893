package coupon

import (
	"strings"
	"testing"
	"time"

	"github.com/Lixing-Zhang/coupon-portal/internal/models"
	"github.com/shopspring/decimal"
)

var now = time.Date(2025, 8, 27, 12, 0, 0, 0, time.Local)

func ts(d time.Duration) models.Timestamp {
	return models.Timestamp{Time: now.Add(d)}
}

func TestBuildCard(t *testing.T) {
	tests := []struct {
		name        string
		coupon      models.Coupon
		wantActive  bool
		wantClass   string
		wantText    string
		wantReason  string
		wantExpired bool
	}{
		{
			name:       "active",
			coupon:     models.Coupon{Status: models.CouponActive, EndDate: ts(time.Hour)},
			wantActive: true, wantClass: "status-active", wantText: "Khả dụng",
		},
		{
			name:       "active but past end date",
			coupon:     models.Coupon{Status: models.CouponActive, EndDate: ts(-time.Hour)},
			wantActive: false, wantClass: "status-active", wantText: "Khả dụng",
			wantReason: "Đã hết hạn", wantExpired: true,
		},
		{
			name:       "used and expired reports expiry first",
			coupon:     models.Coupon{Status: models.CouponUsed, EndDate: ts(-time.Hour)},
			wantActive: false, wantClass: "status-used", wantText: "Đã dùng",
			wantReason: "Đã hết hạn", wantExpired: true,
		},
		{
			name:       "used",
			coupon:     models.Coupon{Status: models.CouponUsed, EndDate: ts(time.Hour)},
			wantActive: false, wantClass: "status-used", wantText: "Đã dùng", wantReason: "Đã sử dụng",
		},
		{
			name:       "inactive",
			coupon:     models.Coupon{Status: models.CouponInactive, EndDate: ts(time.Hour)},
			wantActive: false, wantClass: "status-inactive", wantText: "Tạm khóa", wantReason: "Tạm khóa",
		},
		{
			name:       "unknown status",
			coupon:     models.Coupon{Status: "ARCHIVED", EndDate: ts(time.Hour)},
			wantActive: false, wantClass: "status-inactive", wantText: "Không rõ", wantReason: "Không khả dụng",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			card := BuildCard(tt.coupon, now)
			if card.Active != tt.wantActive {
				t.Errorf("Active = %v, want %v", card.Active, tt.wantActive)
			}
			if card.Expired != tt.wantExpired {
				t.Errorf("Expired = %v, want %v", card.Expired, tt.wantExpired)
			}
			if card.StatusClass != tt.wantClass || card.StatusText != tt.wantText {
				t.Errorf("status = %s/%s, want %s/%s", card.StatusClass, card.StatusText, tt.wantClass, tt.wantText)
			}
			if card.UnavailableReason != tt.wantReason {
				t.Errorf("UnavailableReason = %q, want %q", card.UnavailableReason, tt.wantReason)
			}
		})
	}
}

func TestBuildCards_KeepsOrderAndEmpty(t *testing.T) {
	if got := BuildCards(nil, now); len(got) != 0 {
		t.Errorf("BuildCards(nil) = %d cards", len(got))
	}
	cards := BuildCards([]models.Coupon{{Code: "B"}, {Code: "A"}}, now)
	if cards[0].Code != "B" || cards[1].Code != "A" {
		t.Errorf("order not preserved: %s, %s", cards[0].Code, cards[1].Code)
	}
}

func TestDiscountLabel(t *testing.T) {
	tests := []struct {
		typ       models.DiscountType
		value     decimal.Decimal
		wantLabel string
		wantClass string
	}{
		{models.DiscountPercentage, decimal.NewFromInt(10), "10% OFF", "discount-percentage"},
		{models.DiscountFixedAmount, decimal.NewFromInt(50000), "-50.000 ₫", "discount-fixed"},
		{models.DiscountFreeShipping, decimal.Zero, "MIỄN PHÍ SHIP", "discount-shipping"},
		{"CASHBACK", decimal.NewFromInt(7), "7", "discount-other"},
	}

	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			label, class := DiscountLabel(tt.typ, tt.value)
			if label != tt.wantLabel || class != tt.wantClass {
				t.Errorf("DiscountLabel() = %q/%q, want %q/%q", label, class, tt.wantLabel, tt.wantClass)
			}
		})
	}
}

func labels(p Pagination) string {
	parts := make([]string, 0, len(p.Links))
	for _, l := range p.Links {
		s := l.Label
		if l.Active {
			s = "[" + s + "]"
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, " ")
}

func TestBuildPagination(t *testing.T) {
	tests := []struct {
		name       string
		current    int
		size       int
		total      int64
		wantPages  int
		wantHidden bool
		wantLinks  string
		wantInfo   string
		wantPrev   bool
		wantNext   bool
	}{
		{name: "empty", current: 0, size: 10, total: 0, wantHidden: true},
		{name: "single page", current: 0, size: 10, total: 10, wantPages: 1, wantHidden: true},
		{
			name: "first of three", current: 0, size: 10, total: 25, wantPages: 3,
			wantLinks: "[1] 2 3", wantInfo: "Hiển thị 1-10 trong tổng 25 mã", wantNext: true,
		},
		{
			name: "middle of three", current: 1, size: 10, total: 25, wantPages: 3,
			wantLinks: "1 [2] 3", wantInfo: "Hiển thị 11-20 trong tổng 25 mã",
			wantPrev: true, wantNext: true,
		},
		{
			name: "last partial page", current: 2, size: 10, total: 25, wantPages: 3,
			wantLinks: "1 2 [3]", wantInfo: "Hiển thị 21-25 trong tổng 25 mã", wantPrev: true,
		},
		{
			name: "middle of many", current: 5, size: 10, total: 100, wantPages: 10,
			wantLinks: "1 ... 4 5 [6] 7 8 ... 10", wantInfo: "Hiển thị 51-60 trong tổng 100 mã",
			wantPrev: true, wantNext: true,
		},
		{
			name: "shortcuts without ellipsis", current: 3, size: 10, total: 70, wantPages: 7,
			wantLinks: "1 2 3 [4] 5 6 7", wantPrev: true, wantNext: true,
			wantInfo: "Hiển thị 31-40 trong tổng 70 mã",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := BuildPagination(tt.current, tt.size, tt.total)
			if p.Visible == tt.wantHidden {
				t.Fatalf("Visible = %v, want %v", p.Visible, !tt.wantHidden)
			}
			if p.TotalPages != tt.wantPages {
				t.Errorf("TotalPages = %d, want %d", p.TotalPages, tt.wantPages)
			}
			if tt.wantHidden {
				return
			}
			if got := labels(p); got != tt.wantLinks {
				t.Errorf("links = %q, want %q", got, tt.wantLinks)
			}
			if p.Info != tt.wantInfo {
				t.Errorf("Info = %q, want %q", p.Info, tt.wantInfo)
			}
			if p.HasPrev != tt.wantPrev || p.HasNext != tt.wantNext {
				t.Errorf("prev/next = %v/%v, want %v/%v", p.HasPrev, p.HasNext, tt.wantPrev, tt.wantNext)
			}
		})
	}
}

func TestBuildPagination_ExactlyOneActive(t *testing.T) {
	for current := 0; current < 12; current++ {
		p := BuildPagination(current, 5, 60)
		active := 0
		for _, l := range p.Links {
			if l.Active {
				active++
				if l.Page != current {
					t.Errorf("current %d: active link is page %d", current, l.Page)
				}
			}
		}
		if active != 1 {
			t.Errorf("current %d: %d active links", current, active)
		}
	}
}

func TestPreview(t *testing.T) {
	items := []models.Coupon{
		{Code: "WELCOME10", Description: "Giảm 10%", Status: models.CouponActive, EndDate: ts(time.Hour)},
		{Code: "OLD", Status: models.CouponActive, EndDate: ts(-time.Hour)},
		{Code: "USED", Status: models.CouponUsed, EndDate: ts(time.Hour)},
	}

	tests := []struct {
		code      string
		wantValid bool
		wantMsg   string
	}{
		{"", false, "Vui lòng nhập mã coupon"},
		{"   ", false, "Vui lòng nhập mã coupon"},
		{"WELCOME10", true, "Mã hợp lệ - Giảm 10%"},
		{" WELCOME10 ", true, "Mã hợp lệ - Giảm 10%"},
		{"OLD", false, "Mã không khả dụng hoặc đã hết hạn"},
		{"USED", false, "Mã không khả dụng hoặc đã hết hạn"},
		{"welcome10", false, "Mã không tồn tại hoặc không thuộc về bạn"},
		{"NOPE", false, "Mã không tồn tại hoặc không thuộc về bạn"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			got := Preview(items, tt.code, now)
			if got.Valid != tt.wantValid || got.Message != tt.wantMsg {
				t.Errorf("Preview(%q) = %+v, want valid=%v msg=%q", tt.code, got, tt.wantValid, tt.wantMsg)
			}
		})
	}
}
