package view

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Lixing-Zhang/coupon-portal/internal/admin"
	"github.com/Lixing-Zhang/coupon-portal/internal/coupon"
	"github.com/Lixing-Zhang/coupon-portal/internal/models"
	"github.com/Lixing-Zhang/coupon-portal/internal/session"
	"github.com/shopspring/decimal"
)

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := New(slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return r
}

func render(t *testing.T, r *Renderer, page string, data any) string {
	t.Helper()
	var buf bytes.Buffer
	if err := r.Execute(&buf, page, data); err != nil {
		t.Fatalf("Execute(%s) error = %v", page, err)
	}
	return buf.String()
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"<script>alert(1)</script>", "&lt;script&gt;alert(1)&lt;/script&gt;"},
		{`a & "b"`, "a &amp; &#34;b&#34;"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := string(Sanitize(tt.in)); got != tt.want {
			t.Errorf("Sanitize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		limit int
		want  string
	}{
		{"short", "abc", 5, "abc"},
		{"exact", "abcde", 5, "abcde"},
		{"cut", "abcdef", 5, "abcde..."},
		{"multibyte", "Giảm giá lớn", 4, "Giảm..."},
		{"no limit", "abc", 0, "abc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Truncate(tt.in, tt.limit); got != tt.want {
				t.Errorf("Truncate() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSanitizeAndTruncate_DoesNotSplitEntities(t *testing.T) {
	got := string(SanitizeAndTruncate("<<<<<<", 3))
	if got != "&lt;&lt;&lt;..." {
		t.Errorf("SanitizeAndTruncate() = %q", got)
	}
}

func TestRender_CouponCardsEscapeFreeText(t *testing.T) {
	r := newTestRenderer(t)
	now := time.Now()
	items := []models.Coupon{{
		Code:        "<b>CODE</b>",
		Description: "<script>alert(1)</script>",
		Status:      models.CouponActive,
		Type:        models.DiscountPercentage,
		Value:       decimal.NewFromInt(10),
		EndDate:     models.Timestamp{Time: now.Add(24 * time.Hour)},
	}}

	out := render(t, r, PageApp, AppPage{
		Title: "Coupons",
		Tab:   session.TabCoupons,
		Coupons: CouponsPanel{
			Cards:     coupon.BuildCards(items, now),
			PageSize:  10,
			PageSizes: PageSizes,
		},
	})

	if strings.Contains(out, "<script>alert") || strings.Contains(out, "<b>CODE") {
		t.Error("free text rendered unescaped")
	}
	if !strings.Contains(out, "&lt;script&gt;alert(1)&lt;/script&gt;") {
		t.Error("escaped description missing")
	}
	if strings.Contains(out, "&amp;lt;") {
		t.Error("description escaped twice")
	}
	if !strings.Contains(out, "/app/use/%3Cb%3ECODE%3C%2Fb%3E") {
		t.Error("use link does not path-escape the code")
	}
	if !strings.Contains(out, "10% OFF") {
		t.Error("discount label missing")
	}
}

func TestRender_LongDescriptionIsClipped(t *testing.T) {
	r := newTestRenderer(t)
	long := strings.Repeat("x", DescriptionLimit+50)

	out := render(t, r, PageApp, AppPage{
		Tab: session.TabCoupons,
		Coupons: CouponsPanel{
			Cards: []coupon.Card{{Code: "A", Description: long}},
		},
	})

	if !strings.Contains(out, strings.Repeat("x", DescriptionLimit)+"...") {
		t.Error("description not truncated to the card limit")
	}
	if strings.Contains(out, strings.Repeat("x", DescriptionLimit+1)) {
		t.Error("description longer than the limit")
	}
}

func TestRender_CouponsPanelStates(t *testing.T) {
	r := newTestRenderer(t)

	tests := []struct {
		name    string
		panel   CouponsPanel
		want    []string
		notWant []string
	}{
		{
			name:  "empty",
			panel: CouponsPanel{},
			want:  []string{"Chưa có mã giảm giá"},
		},
		{
			name:    "error shows retry",
			panel:   CouponsPanel{Error: "Không thể tải danh sách mã giảm giá: HTTP 500", Cards: []coupon.Card{{Code: "OLD"}}},
			want:    []string{"Lỗi kết nối", "HTTP 500", `action="/app/coupons/retry"`},
			notWant: []string{"OLD"},
		},
		{
			name:  "loading",
			panel: CouponsPanel{Loading: true},
			want:  []string{"Đang tải..."},
		},
		{
			name:  "pagination",
			panel: CouponsPanel{Cards: []coupon.Card{{Code: "A"}}, Pagination: coupon.BuildPagination(5, 10, 100)},
			want: []string{
				"Hiển thị 51-60 trong tổng 100 mã",
				"/app/coupons?page=4&size=10",
				"/app/coupons?page=6&size=10",
				`class="page-btn active" href="/app/coupons?page=5&size=10"`,
				"page-ellipsis",
			},
		},
		{
			name:    "single page hides pagination",
			panel:   CouponsPanel{Cards: []coupon.Card{{Code: "A"}}, Pagination: coupon.BuildPagination(0, 10, 3)},
			notWant: []string{"pagination-info"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := render(t, r, PageApp, AppPage{Tab: session.TabCoupons, Coupons: tt.panel})
			for _, s := range tt.want {
				if !strings.Contains(out, s) {
					t.Errorf("output missing %q", s)
				}
			}
			for _, s := range tt.notWant {
				if strings.Contains(out, s) {
					t.Errorf("output unexpectedly contains %q", s)
				}
			}
		})
	}
}

func TestRender_OrderPanel(t *testing.T) {
	r := newTestRenderer(t)

	t.Run("summary without discount", func(t *testing.T) {
		out := render(t, r, PageApp, AppPage{Tab: session.TabOrder, Order: OrderPanel{
			Result: &OrderSummary{
				OrderID:     12,
				OrderAmount: decimal.NewFromInt(200000),
				FinalAmount: decimal.NewFromInt(200000),
				StatusLabel: "Hoàn thành",
				StatusClass: "status-completed",
			},
		}})
		for _, s := range []string{"Không có mã giảm giá được áp dụng", "200.000 ₫", "#12", "Hoàn thành"} {
			if !strings.Contains(out, s) {
				t.Errorf("output missing %q", s)
			}
		}
	})

	t.Run("summary with discount", func(t *testing.T) {
		out := render(t, r, PageApp, AppPage{Tab: session.TabOrder, Order: OrderPanel{
			Result: &OrderSummary{
				OrderAmount:    decimal.NewFromInt(200000),
				DiscountAmount: decimal.NewFromInt(30000),
				FinalAmount:    decimal.NewFromInt(170000),
				HasDiscount:    true,
				CouponCode:     "WELCOME10",
			},
		}})
		for _, s := range []string{"Giảm giá (WELCOME10)", "-30.000 ₫", "170.000 ₫"} {
			if !strings.Contains(out, s) {
				t.Errorf("output missing %q", s)
			}
		}
	})

	t.Run("error escapes message and offers retry", func(t *testing.T) {
		out := render(t, r, PageApp, AppPage{Tab: session.TabOrder, Order: OrderPanel{
			Amount: "5000",
			Error:  "<img src=x onerror=alert(1)>",
		}})
		if strings.Contains(out, "<img src=x") {
			t.Error("error message rendered unescaped")
		}
		for _, s := range []string{"Không thể xử lý đơn hàng", "Thử lại", `action="/app/orders/clear"`, `value="5000"`} {
			if !strings.Contains(out, s) {
				t.Errorf("output missing %q", s)
			}
		}
	})

	t.Run("preview", func(t *testing.T) {
		out := render(t, r, PageApp, AppPage{Tab: session.TabOrder, Order: OrderPanel{
			Preview: coupon.PreviewResult{Checked: true, Message: "Mã không tồn tại hoặc không thuộc về bạn"},
		}})
		if !strings.Contains(out, "❌ Mã không tồn tại hoặc không thuộc về bạn") {
			t.Error("preview result missing")
		}
	})
}

func TestRender_AdminPages(t *testing.T) {
	r := newTestRenderer(t)
	ok := true

	tests := []struct {
		name string
		page string
		data AdminPage
		want []string
	}{
		{
			name: "dashboard",
			page: PageAdminDashboard,
			data: AdminPage{Section: "dashboard", Username: "admin", Stats: admin.Stats{Coupons: 1200, Rules: 2, Collections: 1}},
			want: []string{"1.200", "Total Rules", "admin"},
		},
		{
			name: "empty coupons",
			page: PageAdminCoupons,
			data: AdminPage{Section: "coupons"},
			want: []string{"No coupons available"},
		},
		{
			name: "list error",
			page: PageAdminRules,
			data: AdminPage{Section: "rules", Error: "HTTP 500"},
			want: []string{"HTTP 500", `href="/admin/rules"`},
		},
		{
			name: "flash",
			page: PageAdminCollections,
			data: AdminPage{Section: "collections", Flash: &session.Flash{Success: true, Message: "Collection updated successfully via API"}},
			want: []string{"toast-success", "Collection updated successfully via API", "No collections available"},
		},
		{
			name: "coupon edit",
			page: PageAdminCouponEdit,
			data: AdminPage{Section: "coupons", CouponForm: &admin.CouponForm{
				ID: 3, Code: "SAVE", Type: models.DiscountPercentage, ShowMaxDiscount: true, Active: ok,
				Collections: []admin.Option{{Value: "", Label: "No collection"}, {Value: "1", Label: "Gold", Selected: true}},
			}},
			want: []string{`name="max_discount"`, `value="1" selected`, `action="/admin/coupons/3"`, `value="true" selected`},
		},
		{
			name: "rule edit",
			page: PageAdminRuleEdit,
			data: AdminPage{Section: "rules", RuleForm: &admin.RuleForm{ID: 2, StartTime: "09:00", RuleTypes: []admin.Option{{Value: "DAILY_ACTIVE_TIME", Label: "DAILY_ACTIVE_TIME", Selected: true}}}},
			want: []string{`value="09:00"`, `name="ruleId" value="2"`},
		},
		{
			name: "collection edit",
			page: PageAdminCollectionEdit,
			data: AdminPage{Section: "collections", CollectionForm: &admin.CollectionForm{ID: 1, Rules: []admin.Option{{Value: "2", Label: "#2 rule", Selected: true}}}},
			want: []string{`name="ruleIds" value="2" checked`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := render(t, r, tt.page, tt.data)
			for _, s := range tt.want {
				if !strings.Contains(out, s) {
					t.Errorf("output missing %q", s)
				}
			}
		})
	}
}

func TestRenderer_UnknownPage(t *testing.T) {
	r := newTestRenderer(t)
	if err := r.Execute(io.Discard, "nope", nil); err == nil {
		t.Error("Execute() with unknown page succeeded")
	}

	rec := httptest.NewRecorder()
	r.Render(rec, http.StatusOK, "nope", nil)
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("Render() status = %d, want 500", rec.Code)
	}
}

func TestRender_SetsStatusAndContentType(t *testing.T) {
	r := newTestRenderer(t)
	rec := httptest.NewRecorder()
	r.Render(rec, http.StatusUnauthorized, PageLogin, LoginPage{Title: "Đăng nhập", Error: "Đăng nhập thất bại"})

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q", ct)
	}
	if !strings.Contains(rec.Body.String(), "Đăng nhập thất bại") {
		t.Error("login error missing")
	}
}

func TestStatic(t *testing.T) {
	rec := httptest.NewRecorder()
	Static().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/style.css", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), ".coupon-card") {
		t.Errorf("style.css status = %d", rec.Code)
	}
}
