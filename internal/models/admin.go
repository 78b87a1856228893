package models

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// AdminCoupon is a coupon definition as listed by GET /coupons.
type AdminCoupon struct {
	CouponID        int64        `json:"couponId"`
	Code            string       `json:"code"`
	Title           string       `json:"title"`
	Description     string       `json:"description"`
	Status          string       `json:"status"`
	Type            DiscountType `json:"type"`
	Config          CouponConfig `json:"config"`
	IsActive        *bool        `json:"isActive"`
	StartDate       Timestamp    `json:"startDate"`
	EndDate         Timestamp    `json:"endDate"`
	CollectionKeyID *int64       `json:"collectionKeyId"`
}

// Active resolves the active flag, deriving it from Status when absent.
func (c AdminCoupon) Active() bool {
	if c.IsActive != nil {
		return *c.IsActive
	}
	return c.Status == string(CouponActive)
}

// CouponConfig is the discount configuration of an admin coupon. The API
// has used both max_discount and maxDiscount for the cap.
type CouponConfig struct {
	Type        string          `json:"type,omitempty"`
	Value       decimal.Decimal `json:"value"`
	MaxDiscount decimal.Decimal `json:"max_discount"`
}

func (c *CouponConfig) UnmarshalJSON(data []byte) error {
	var raw struct {
		Type           string           `json:"type"`
		Value          *decimal.Decimal `json:"value"`
		MaxDiscount    *decimal.Decimal `json:"max_discount"`
		MaxDiscountAlt *decimal.Decimal `json:"maxDiscount"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*c = CouponConfig{Type: raw.Type}
	if raw.Value != nil {
		c.Value = *raw.Value
	}
	switch {
	case raw.MaxDiscount != nil:
		c.MaxDiscount = *raw.MaxDiscount
	case raw.MaxDiscountAlt != nil:
		c.MaxDiscount = *raw.MaxDiscountAlt
	}
	return nil
}

// Rule types understood by the admin editor.
const (
	RuleMinOrderAmount  = "MIN_ORDER_AMOUNT"
	RuleDailyActiveTime = "DAILY_ACTIVE_TIME"
)

// Rule is a server-side condition as listed by GET /rules.
type Rule struct {
	RuleID            int64          `json:"ruleId"`
	Name              string         `json:"name"`
	Description       string         `json:"description"`
	IsActive          *bool          `json:"isActive"`
	RuleType          string         `json:"ruleType"`
	RuleConfiguration map[string]any `json:"ruleConfiguration"`
}

func (r Rule) Active() bool {
	return r.IsActive == nil || *r.IsActive
}

// Collection groups rules; coupons point at one through collectionKeyId.
type Collection struct {
	CollectionID int64   `json:"collectionId"`
	RuleIDs      []int64 `json:"ruleIds"`
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	IsActive     *bool   `json:"isActive"`
}

func (c Collection) Active() bool {
	return c.IsActive == nil || *c.IsActive
}

// HasRule reports whether ruleID is a member of the collection.
func (c Collection) HasRule(ruleID int64) bool {
	for _, id := range c.RuleIDs {
		if id == ruleID {
			return true
		}
	}
	return false
}

type ListCouponsResponse struct {
	Coupons       []AdminCoupon `json:"coupons"`
	Page          int           `json:"page"`
	Size          int           `json:"size"`
	TotalElements int64         `json:"totalElements"`
	TotalPages    int           `json:"totalPages"`
}

type ListRulesResponse struct {
	Rules         []Rule `json:"rules"`
	Page          int    `json:"page"`
	Size          int    `json:"size"`
	TotalElements int64  `json:"totalElements"`
	TotalPages    int    `json:"totalPages"`
}

type ListCollectionsResponse struct {
	Collections []Collection `json:"collections"`
	TotalCount  int64        `json:"totalCount"`
	Page        int          `json:"page"`
	Size        int          `json:"size"`
}

// UpdateCouponRequest is the body of PUT /coupons/{id}. CollectionKeyID is
// always sent; null detaches the coupon from its collection.
type UpdateCouponRequest struct {
	Code            string              `json:"code"`
	Title           string              `json:"title,omitempty"`
	Description     string              `json:"description,omitempty"`
	IsActive        *bool               `json:"isActive,omitempty"`
	CollectionKeyID *int64              `json:"collectionKeyId"`
	EndDate         string              `json:"endDate,omitempty"`
	Config          *UpdateCouponConfig `json:"config,omitempty"`
}

type UpdateCouponConfig struct {
	Value       *decimal.Decimal `json:"value,omitempty"`
	MaxDiscount *decimal.Decimal `json:"max_discount,omitempty"`
}

// MarshalJSON writes the amounts as JSON numbers rather than the quoted
// strings decimal produces by default.
func (c UpdateCouponConfig) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.Number, 2)
	if c.Value != nil {
		out["value"] = json.Number(c.Value.String())
	}
	if c.MaxDiscount != nil {
		out["max_discount"] = json.Number(c.MaxDiscount.String())
	}
	return json.Marshal(out)
}

// ModifyRuleRequest is the body of PUT /rules/{id}.
type ModifyRuleRequest struct {
	RuleID      int64          `json:"ruleId"`
	Description string         `json:"description,omitempty"`
	IsActive    *bool          `json:"isActive,omitempty"`
	RuleType    string         `json:"ruleType,omitempty"`
	RuleConfig  map[string]any `json:"ruleConfig,omitempty"`
}

// ModifyCollectionRequest is the body of PUT /rules/collections.
type ModifyCollectionRequest struct {
	CollectionID int64   `json:"collectionId"`
	Name         string  `json:"name,omitempty"`
	Description  string  `json:"description,omitempty"`
	RuleIDs      []int64 `json:"ruleIds,omitempty"`
}
