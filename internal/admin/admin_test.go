package admin

import (
	"errors"
	"fmt"
	"net/url"
	"testing"
	"time"

	"github.com/Lixing-Zhang/coupon-portal/internal/apiclient"
	"github.com/Lixing-Zhang/coupon-portal/internal/models"
	"github.com/shopspring/decimal"
)

func TestDiscountDisplay(t *testing.T) {
	tests := []struct {
		name string
		typ  models.DiscountType
		cfg  models.CouponConfig
		want string
	}{
		{"percentage with cap", models.DiscountPercentage, models.CouponConfig{Value: decimal.NewFromInt(10), MaxDiscount: decimal.NewFromInt(50000)}, "10% (max 50.000 ₫)"},
		{"percentage without cap", models.DiscountPercentage, models.CouponConfig{Value: decimal.NewFromInt(15)}, "15%"},
		{"fixed", models.DiscountFixedAmount, models.CouponConfig{Value: decimal.NewFromInt(20000)}, "20.000 ₫"},
		{"other", "BOGO", models.CouponConfig{Value: decimal.NewFromInt(1)}, "1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DiscountDisplay(tt.typ, tt.cfg); got != tt.want {
				t.Errorf("DiscountDisplay() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExpiryLabel(t *testing.T) {
	now := time.Date(2025, 8, 27, 12, 0, 0, 0, time.Local)
	tests := []struct {
		end  time.Time
		want string
	}{
		{now.Add(-time.Hour), "Expired"},
		{now, "Expires today"},
		{now.Add(20 * time.Hour), "Expires tomorrow"},
		{now.Add(72 * time.Hour), "Expires in 3 days"},
		{now.AddDate(0, 1, 0), now.AddDate(0, 1, 0).Format(models.LocalLayout)},
	}

	for _, tt := range tests {
		if got := ExpiryLabel(tt.end, now); got != tt.want {
			t.Errorf("ExpiryLabel(%v) = %q, want %q", tt.end, got, tt.want)
		}
	}
}

func TestBuildCouponRows(t *testing.T) {
	inactive := false
	col := int64(3)
	rows := BuildCouponRows([]models.AdminCoupon{
		{CouponID: 1, Code: "A", Status: "ACTIVE", Type: models.DiscountFixedAmount, Config: models.CouponConfig{Value: decimal.NewFromInt(1000)}},
		{CouponID: 2, Code: "B", IsActive: &inactive, Config: models.CouponConfig{Type: "PERCENTAGE", Value: decimal.NewFromInt(5)}, CollectionKeyID: &col},
	}, time.Now())

	if rows[0].Title != "No title" || rows[0].Description != "No description" {
		t.Errorf("defaults not applied: %+v", rows[0])
	}
	if !rows[0].Active || rows[0].StatusLabel != "Active" {
		t.Errorf("row 0 status = %v/%s", rows[0].Active, rows[0].StatusLabel)
	}
	if rows[1].Active || rows[1].StatusLabel != "Inactive" {
		t.Errorf("row 1 status = %v/%s", rows[1].Active, rows[1].StatusLabel)
	}
	if rows[1].Discount != "5%" {
		t.Errorf("type should fall back to config.type, got %q", rows[1].Discount)
	}
	if rows[1].Collection != "3" || rows[0].Collection != "" {
		t.Errorf("collections = %q/%q", rows[0].Collection, rows[1].Collection)
	}
}

func TestParseCouponForm(t *testing.T) {
	tests := []struct {
		name      string
		form      url.Values
		wantErr   string
		checkBody func(t *testing.T, req models.UpdateCouponRequest)
	}{
		{
			name:    "missing id",
			form:    url.Values{"code": {"A"}},
			wantErr: "Please enter Coupon ID",
		},
		{
			name:    "missing code",
			form:    url.Values{"couponId": {"1"}, "code": {"  "}},
			wantErr: "Coupon code is required",
		},
		{
			name: "no collection sends null",
			form: url.Values{"couponId": {"1"}, "code": {"A"}, "collectionKey": {""}},
			checkBody: func(t *testing.T, req models.UpdateCouponRequest) {
				if req.CollectionKeyID != nil {
					t.Errorf("CollectionKeyID = %d, want nil", *req.CollectionKeyID)
				}
				if req.Config != nil {
					t.Error("Config should be omitted")
				}
			},
		},
		{
			name: "percentage with everything",
			form: url.Values{
				"couponId": {"7"}, "code": {"SAVE"}, "title": {"Save"}, "isActive": {"false"},
				"collectionKey": {"2"}, "expireDate": {"2025-12-31T23:59"},
				"type": {"PERCENTAGE"}, "value": {"12.5"}, "max_discount": {"40000"},
			},
			checkBody: func(t *testing.T, req models.UpdateCouponRequest) {
				if req.CollectionKeyID == nil || *req.CollectionKeyID != 2 {
					t.Errorf("CollectionKeyID = %v, want 2", req.CollectionKeyID)
				}
				if req.IsActive == nil || *req.IsActive {
					t.Errorf("IsActive = %v, want false", req.IsActive)
				}
				if req.EndDate != "2025-12-31T23:59:00" {
					t.Errorf("EndDate = %q", req.EndDate)
				}
				if req.Config == nil || !req.Config.Value.Equal(decimal.RequireFromString("12.5")) || !req.Config.MaxDiscount.Equal(decimal.NewFromInt(40000)) {
					t.Errorf("Config = %+v", req.Config)
				}
			},
		},
		{
			name: "fixed amount drops max discount",
			form: url.Values{"couponId": {"7"}, "code": {"SAVE"}, "type": {"FIXED_AMOUNT"}, "value": {"20000"}, "max_discount": {"5"}},
			checkBody: func(t *testing.T, req models.UpdateCouponRequest) {
				if req.Config == nil || req.Config.MaxDiscount != nil {
					t.Errorf("Config = %+v, want value only", req.Config)
				}
			},
		},
		{
			name:    "bad value",
			form:    url.Values{"couponId": {"1"}, "code": {"A"}, "value": {"1e"}},
			wantErr: "Invalid discount value",
		},
		{
			name:    "bad collection",
			form:    url.Values{"couponId": {"1"}, "code": {"A"}, "collectionKey": {"x"}},
			wantErr: "Invalid collection",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, req, err := ParseCouponForm(tt.form)
			if tt.wantErr != "" {
				var formErr *FormError
				if !errors.As(err, &formErr) || formErr.Message != tt.wantErr {
					t.Fatalf("error = %v, want %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error = %v", err)
			}
			tt.checkBody(t, req)
		})
	}
}

func TestParseRuleForm(t *testing.T) {
	_, req, err := ParseRuleForm(url.Values{"ruleId": {"1"}, "ruleType": {"MIN_ORDER_AMOUNT"}, "min_amount": {"150000"}})
	if err != nil {
		t.Fatal(err)
	}
	if req.RuleConfig["min_amount"] != 150000.0 || req.RuleConfig["type"] != models.RuleMinOrderAmount {
		t.Errorf("RuleConfig = %v", req.RuleConfig)
	}

	_, req, err = ParseRuleForm(url.Values{"ruleId": {"2"}, "ruleType": {"DAILY_ACTIVE_TIME"}, "start_time": {"08:30"}, "end_time": {"21:00"}})
	if err != nil {
		t.Fatal(err)
	}
	if req.RuleConfig["start_time"] != "08:30:00" || req.RuleConfig["end_time"] != "21:00:00" {
		t.Errorf("RuleConfig = %v", req.RuleConfig)
	}

	_, req, err = ParseRuleForm(url.Values{"ruleId": {"2"}, "ruleType": {"DAILY_ACTIVE_TIME"}, "start_time": {"08:30"}})
	if err != nil || req.RuleConfig != nil {
		t.Errorf("half-filled times: config = %v, err = %v", req.RuleConfig, err)
	}

	if _, _, err := ParseRuleForm(url.Values{"ruleId": {"2"}, "ruleType": {"DAILY_ACTIVE_TIME"}, "start_time": {"25:00"}, "end_time": {"21:00"}}); err == nil {
		t.Error("invalid clock accepted")
	}
	if _, _, err := ParseRuleForm(url.Values{}); err == nil {
		t.Error("missing rule id accepted")
	}
}

func TestParseCollectionForm(t *testing.T) {
	req, err := ParseCollectionForm(url.Values{"collectionId": {"4"}, "name": {"N"}, "ruleIds": {"1", "3"}})
	if err != nil {
		t.Fatal(err)
	}
	if req.CollectionID != 4 || len(req.RuleIDs) != 2 || req.RuleIDs[1] != 3 {
		t.Errorf("req = %+v", req)
	}

	req, err = ParseCollectionForm(url.Values{"collectionId": {"4"}})
	if err != nil || req.RuleIDs != nil {
		t.Errorf("no rules checked: %+v, %v", req, err)
	}

	if _, err := ParseCollectionForm(url.Values{"collectionId": {""}}); err == nil {
		t.Error("missing collection id accepted")
	}
}

func TestNewForms(t *testing.T) {
	col := int64(2)
	f := NewCouponForm(models.AdminCoupon{
		CouponID: 1, Code: "A", Type: models.DiscountPercentage,
		Config:          models.CouponConfig{Value: decimal.NewFromInt(10), MaxDiscount: decimal.NewFromInt(5000)},
		CollectionKeyID: &col,
	}, []models.Collection{{CollectionID: 1, Name: "One"}, {CollectionID: 2, Name: "Two"}})

	if !f.ShowMaxDiscount || f.MaxDiscount != "5000" || f.Value != "10" {
		t.Errorf("form = %+v", f)
	}
	selected := ""
	for _, o := range f.Collections {
		if o.Selected {
			selected = o.Value
		}
	}
	if selected != "2" {
		t.Errorf("selected collection = %q, want 2", selected)
	}

	rf := NewRuleForm(models.Rule{RuleID: 2, RuleType: models.RuleDailyActiveTime, RuleConfiguration: map[string]any{"start_time": "08:00:00", "end_time": "22:00:00"}})
	if rf.StartTime != "08:00" || rf.EndTime != "22:00" {
		t.Errorf("rule form times = %s-%s", rf.StartTime, rf.EndTime)
	}

	cf := NewCollectionForm(models.Collection{CollectionID: 1, RuleIDs: []int64{2}}, []models.Rule{{RuleID: 1}, {RuleID: 2}})
	if cf.Rules[0].Selected || !cf.Rules[1].Selected {
		t.Errorf("rule checkboxes = %+v", cf.Rules)
	}
}

func TestUpdateResult(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		want    string
		success bool
	}{
		{"ok", nil, "Coupon updated successfully via API", true},
		{"api message", &apiclient.APIError{StatusCode: 400, Message: "code taken"}, "code taken", false},
		{"api bare", &apiclient.APIError{StatusCode: 500}, "HTTP 500: An error occurred while updating coupon", false},
		{"transport", fmt.Errorf("%w: dial", apiclient.ErrTransport), "Cannot connect to server. Please check your network connection.", false},
		{"form", &FormError{Message: "Please enter Coupon ID"}, "Please enter Coupon ID", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := UpdateResult("Coupon", tt.err)
			if got != tt.want || ok != tt.success {
				t.Errorf("UpdateResult() = %q, %v, want %q, %v", got, ok, tt.want, tt.success)
			}
		})
	}
}
