// Package admin builds the admin panel's list rows and edit forms, and
// turns posted forms back into API update requests.
package admin

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/Lixing-Zhang/coupon-portal/internal/format"
	"github.com/Lixing-Zhang/coupon-portal/internal/models"
)

// CouponRow is one entry of the coupon list.
type CouponRow struct {
	ID          int64
	Code        string
	Title       string
	Description string
	Discount    string
	Active      bool
	StatusLabel string
	Collection  string
	Expiry      string
}

type RuleRow struct {
	ID          int64
	Type        string
	Name        string
	Description string
	Active      bool
	StatusLabel string
}

type CollectionRow struct {
	ID          int64
	Name        string
	Description string
	RuleCount   int
	Active      bool
	StatusLabel string
}

// Stats are the dashboard counters.
type Stats struct {
	Coupons     int64
	Rules       int64
	Collections int64
}

func BuildCouponRows(items []models.AdminCoupon, now time.Time) []CouponRow {
	rows := make([]CouponRow, 0, len(items))
	for _, c := range items {
		active := c.Active()
		status := c.Status
		if status == "" {
			status = activeStatus(active)
		}
		row := CouponRow{
			ID:          c.CouponID,
			Code:        c.Code,
			Title:       orDefault(c.Title, "No title"),
			Description: orDefault(c.Description, "No description"),
			Discount:    DiscountDisplay(couponType(c), c.Config),
			Active:      active,
			StatusLabel: statusLabel(status),
		}
		if c.CollectionKeyID != nil {
			row.Collection = strconv.FormatInt(*c.CollectionKeyID, 10)
		}
		if !c.EndDate.IsZero() {
			row.Expiry = ExpiryLabel(c.EndDate.Time, now)
		}
		rows = append(rows, row)
	}
	return rows
}

func BuildRuleRows(items []models.Rule) []RuleRow {
	rows := make([]RuleRow, 0, len(items))
	for _, r := range items {
		active := r.Active()
		rows = append(rows, RuleRow{
			ID:          r.RuleID,
			Type:        orDefault(r.RuleType, "UNKNOWN"),
			Name:        r.Name,
			Description: orDefault(r.Description, "No description"),
			Active:      active,
			StatusLabel: statusLabel(activeStatus(active)),
		})
	}
	return rows
}

func BuildCollectionRows(items []models.Collection) []CollectionRow {
	rows := make([]CollectionRow, 0, len(items))
	for _, c := range items {
		active := c.Active()
		rows = append(rows, CollectionRow{
			ID:          c.CollectionID,
			Name:        orDefault(c.Name, "No name"),
			Description: orDefault(c.Description, "No description"),
			RuleCount:   len(c.RuleIDs),
			Active:      active,
			StatusLabel: statusLabel(activeStatus(active)),
		})
	}
	return rows
}

// DiscountDisplay renders "10% (max 50.000 ₫)" or "20.000 ₫". Other types
// show the raw value.
func DiscountDisplay(t models.DiscountType, cfg models.CouponConfig) string {
	switch t {
	case models.DiscountPercentage:
		s := cfg.Value.String() + "%"
		if cfg.MaxDiscount.IsPositive() {
			s += " (max " + format.Currency(cfg.MaxDiscount) + ")"
		}
		return s
	case models.DiscountFixedAmount:
		return format.Currency(cfg.Value)
	default:
		return cfg.Value.String()
	}
}

// ExpiryLabel describes how far away end is, in whole days rounded up.
func ExpiryLabel(end, now time.Time) string {
	days := int(math.Ceil(end.Sub(now).Hours() / 24))
	switch {
	case end.Before(now):
		return "Expired"
	case days == 0:
		return "Expires today"
	case days == 1:
		return "Expires tomorrow"
	case days <= 7:
		return fmt.Sprintf("Expires in %d days", days)
	default:
		return end.Local().Format(models.LocalLayout)
	}
}

func couponType(c models.AdminCoupon) models.DiscountType {
	if c.Type != "" {
		return c.Type
	}
	if c.Config.Type != "" {
		return models.DiscountType(c.Config.Type)
	}
	return "UNKNOWN"
}

func activeStatus(active bool) string {
	if active {
		return "ACTIVE"
	}
	return "INACTIVE"
}

func statusLabel(status string) string {
	if status == "ACTIVE" {
		return "Active"
	}
	return "Inactive"
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
