package admin

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Lixing-Zhang/coupon-portal/internal/models"
	"github.com/shopspring/decimal"
)

// datetimeLocalLayout is the value format of <input type="datetime-local">.
const datetimeLocalLayout = "2006-01-02T15:04"

var clockPattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// FormError is a problem with a posted admin form.
type FormError struct {
	Message string
}

func (e *FormError) Error() string { return e.Message }

// Option is a <select> or checkbox choice.
type Option struct {
	Value    string
	Label    string
	Selected bool
}

// CouponForm prefills the coupon edit view.
type CouponForm struct {
	ID          int64
	Code        string
	Title       string
	Description string
	Active      bool
	Type        models.DiscountType
	Value       string
	MaxDiscount string
	// ShowMaxDiscount is true for percentage coupons only.
	ShowMaxDiscount bool
	ExpireDate      string
	Collections     []Option
}

func NewCouponForm(c models.AdminCoupon, collections []models.Collection) CouponForm {
	f := CouponForm{
		ID:          c.CouponID,
		Code:        c.Code,
		Title:       c.Title,
		Description: c.Description,
		Active:      c.Active(),
		Type:        couponType(c),
	}
	if f.Type == "UNKNOWN" {
		f.Type = models.DiscountPercentage
	}
	if !c.Config.Value.IsZero() {
		f.Value = c.Config.Value.String()
	}
	f.ShowMaxDiscount = f.Type == models.DiscountPercentage
	if f.ShowMaxDiscount && !c.Config.MaxDiscount.IsZero() {
		f.MaxDiscount = c.Config.MaxDiscount.String()
	}
	if !c.EndDate.IsZero() {
		f.ExpireDate = c.EndDate.Local().Format(datetimeLocalLayout)
	}

	f.Collections = append(f.Collections, Option{Value: "", Label: "No collection", Selected: c.CollectionKeyID == nil})
	for _, col := range collections {
		f.Collections = append(f.Collections, Option{
			Value:    strconv.FormatInt(col.CollectionID, 10),
			Label:    orDefault(col.Name, "Collection "+strconv.FormatInt(col.CollectionID, 10)),
			Selected: c.CollectionKeyID != nil && *c.CollectionKeyID == col.CollectionID,
		})
	}
	return f
}

// ParseCouponForm reads a posted coupon edit form. An empty collection
// choice becomes an explicit null in the request.
func ParseCouponForm(form url.Values) (int64, models.UpdateCouponRequest, error) {
	var req models.UpdateCouponRequest

	id, err := parseID(form.Get("couponId"), "Please enter Coupon ID")
	if err != nil {
		return 0, req, err
	}

	req.Code = strings.TrimSpace(form.Get("code"))
	if req.Code == "" {
		return 0, req, &FormError{Message: "Coupon code is required"}
	}
	req.Title = strings.TrimSpace(form.Get("title"))
	req.Description = strings.TrimSpace(form.Get("description"))
	req.IsActive = parseActive(form.Get("isActive"))

	if key := strings.TrimSpace(form.Get("collectionKey")); key != "" {
		n, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			return 0, req, &FormError{Message: "Invalid collection"}
		}
		req.CollectionKeyID = &n
	}

	if expire := strings.TrimSpace(form.Get("expireDate")); expire != "" {
		end, err := ParseLocalDateTime(expire)
		if err != nil {
			return 0, req, &FormError{Message: "Invalid expire date"}
		}
		req.EndDate = end
	}

	var cfg models.UpdateCouponConfig
	if v := strings.TrimSpace(form.Get("value")); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return 0, req, &FormError{Message: "Invalid discount value"}
		}
		cfg.Value = &d
	}
	if v := strings.TrimSpace(form.Get("max_discount")); v != "" && models.DiscountType(form.Get("type")) == models.DiscountPercentage {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return 0, req, &FormError{Message: "Invalid max discount"}
		}
		cfg.MaxDiscount = &d
	}
	if cfg.Value != nil || cfg.MaxDiscount != nil {
		req.Config = &cfg
	}

	return id, req, nil
}

// ParseLocalDateTime converts a datetime-local value to the API's
// zone-less "YYYY-MM-DDTHH:mm:ss" form.
func ParseLocalDateTime(s string) (string, error) {
	t, err := time.Parse(datetimeLocalLayout, s)
	if err != nil {
		t, err = time.Parse(models.LocalLayout, s)
		if err != nil {
			return "", err
		}
	}
	return t.Format(models.LocalLayout), nil
}

// RuleForm prefills the rule edit view.
type RuleForm struct {
	ID          int64
	Name        string
	Description string
	Active      bool
	RuleType    string
	MinAmount   string
	StartTime   string
	EndTime     string
	RuleTypes   []Option
}

var ruleTypes = []string{models.RuleMinOrderAmount, models.RuleDailyActiveTime}

func NewRuleForm(r models.Rule) RuleForm {
	f := RuleForm{
		ID:          r.RuleID,
		Name:        r.Name,
		Description: r.Description,
		Active:      r.Active(),
		RuleType:    orDefault(r.RuleType, models.RuleMinOrderAmount),
	}
	cfg := r.RuleConfiguration
	if v, ok := cfg["min_amount"]; ok && v != nil {
		f.MinAmount = numberString(v)
	}
	f.StartTime = clockPrefix(cfg["start_time"])
	f.EndTime = clockPrefix(cfg["end_time"])

	for _, t := range ruleTypes {
		f.RuleTypes = append(f.RuleTypes, Option{Value: t, Label: t, Selected: t == f.RuleType})
	}
	return f
}

// ParseRuleForm reads a posted rule edit form. The config is sent only
// when the fields for the chosen rule type are filled in.
func ParseRuleForm(form url.Values) (int64, models.ModifyRuleRequest, error) {
	var req models.ModifyRuleRequest

	id, err := parseID(form.Get("ruleId"), "Please enter Rule ID")
	if err != nil {
		return 0, req, err
	}
	req.RuleID = id
	req.Description = strings.TrimSpace(form.Get("description"))
	req.IsActive = parseActive(form.Get("isActive"))
	req.RuleType = strings.TrimSpace(form.Get("ruleType"))

	switch req.RuleType {
	case models.RuleMinOrderAmount:
		if v := strings.TrimSpace(form.Get("min_amount")); v != "" {
			amount, err := strconv.ParseFloat(v, 64)
			if err != nil || amount < 0 {
				return 0, req, &FormError{Message: "Invalid minimum amount"}
			}
			req.RuleConfig = map[string]any{"type": models.RuleMinOrderAmount, "min_amount": amount}
		}
	case models.RuleDailyActiveTime:
		start := strings.TrimSpace(form.Get("start_time"))
		end := strings.TrimSpace(form.Get("end_time"))
		if start != "" && end != "" {
			if !clockPattern.MatchString(start) || !clockPattern.MatchString(end) {
				return 0, req, &FormError{Message: "Times must be HH:MM"}
			}
			req.RuleConfig = map[string]any{
				"type":       models.RuleDailyActiveTime,
				"start_time": start + ":00",
				"end_time":   end + ":00",
			}
		}
	}

	return id, req, nil
}

// CollectionForm prefills the collection edit view.
type CollectionForm struct {
	ID          int64
	Name        string
	Description string
	Rules       []Option
}

func NewCollectionForm(c models.Collection, rules []models.Rule) CollectionForm {
	f := CollectionForm{
		ID:          c.CollectionID,
		Name:        c.Name,
		Description: c.Description,
	}
	for _, r := range rules {
		label := orDefault(r.Name, r.RuleType)
		if r.Description != "" {
			label += " - " + r.Description
		}
		f.Rules = append(f.Rules, Option{
			Value:    strconv.FormatInt(r.RuleID, 10),
			Label:    "#" + strconv.FormatInt(r.RuleID, 10) + " " + label,
			Selected: c.HasRule(r.RuleID),
		})
	}
	return f
}

// ParseCollectionForm reads a posted collection edit form. ruleIds is sent
// only when at least one rule is checked.
func ParseCollectionForm(form url.Values) (models.ModifyCollectionRequest, error) {
	var req models.ModifyCollectionRequest

	id, err := parseID(form.Get("collectionId"), "Please enter Collection ID")
	if err != nil {
		return req, err
	}
	req.CollectionID = id
	req.Name = strings.TrimSpace(form.Get("name"))
	req.Description = strings.TrimSpace(form.Get("description"))

	for _, v := range form["ruleIds"] {
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return req, &FormError{Message: "Invalid rule id " + v}
		}
		req.RuleIDs = append(req.RuleIDs, n)
	}
	return req, nil
}

func parseID(s, missing string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, &FormError{Message: missing}
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return 0, &FormError{Message: missing}
	}
	return n, nil
}

// parseActive maps the status select: "" leaves the flag unchanged.
func parseActive(s string) *bool {
	switch s {
	case "true":
		v := true
		return &v
	case "false":
		v := false
		return &v
	default:
		return nil
	}
}

func clockPrefix(v any) string {
	s, _ := v.(string)
	if len(s) >= 5 {
		return s[:5]
	}
	return s
}

func numberString(v any) string {
	switch n := v.(type) {
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64)
	case string:
		return n
	default:
		return ""
	}
}
