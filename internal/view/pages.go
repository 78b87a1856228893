package view

import (
	"github.com/Lixing-Zhang/coupon-portal/internal/admin"
	"github.com/Lixing-Zhang/coupon-portal/internal/coupon"
	"github.com/Lixing-Zhang/coupon-portal/internal/session"
	"github.com/shopspring/decimal"
)

// Page names accepted by Renderer.Render.
const (
	PageLogin               = "login"
	PageApp                 = "app"
	PageAdminLogin          = "admin_login"
	PageAdminDashboard      = "admin_dashboard"
	PageAdminCoupons        = "admin_coupons"
	PageAdminCouponEdit     = "admin_coupon_edit"
	PageAdminRules          = "admin_rules"
	PageAdminRuleEdit       = "admin_rule_edit"
	PageAdminCollections    = "admin_collections"
	PageAdminCollectionEdit = "admin_collection_edit"
)

// PageSizes are the choices of the coupon page size select.
var PageSizes = []int{5, 10, 20, 50}

type LoginPage struct {
	Title    string
	Username string
	Error    string
}

// AppPage is the logged-in customer view with its two tabs.
type AppPage struct {
	Title   string
	Tab     session.Tab
	Coupons CouponsPanel
	Order   OrderPanel
}

type CouponsPanel struct {
	Cards      []coupon.Card
	Pagination coupon.Pagination
	Loading    bool
	// Error replaces the grid with a retry panel when set.
	Error     string
	PageSize  int
	PageSizes []int
}

type OrderPanel struct {
	Amount     string
	OrderDate  string
	CouponCode string
	Preview    coupon.PreviewResult
	Result     *OrderSummary
	Error      string
}

// OrderSummary is a processed order as shown after submission.
type OrderSummary struct {
	OrderID        int64
	OrderAmount    decimal.Decimal
	DiscountAmount decimal.Decimal
	FinalAmount    decimal.Decimal
	HasDiscount    bool
	CouponCode     string
	StatusClass    string
	StatusLabel    string
	CreatedAt      string
}

type AdminLoginPage struct {
	Title    string
	Username string
	Error    string
}

// AdminPage serves every admin section; only the fields of the current
// section are filled.
type AdminPage struct {
	Title    string
	Section  string
	Username string
	Flash    *session.Flash
	Error    string

	Stats       admin.Stats
	Coupons     []admin.CouponRow
	Rules       []admin.RuleRow
	Collections []admin.CollectionRow

	CouponForm     *admin.CouponForm
	RuleForm       *admin.RuleForm
	CollectionForm *admin.CollectionForm
}
