package fakeapi

import (
	"fmt"
	"time"
)

const (
	roleUser  = "USER"
	roleAdmin = "ADMIN"
)

// Seeded accounts.
const (
	DemoUsername  = "user1"
	DemoPassword  = "password123"
	DemoUserID    = 34
	AdminUsername = "admin"
	AdminPassword = "admin123"
	AdminUserID   = 1
)

func (s *Server) seed(now time.Time) {
	if err := s.AddUser(DemoUserID, DemoUsername, DemoPassword, roleUser); err != nil {
		panic(err)
	}
	if err := s.AddUser(AdminUserID, AdminUsername, AdminPassword, roleAdmin); err != nil {
		panic(err)
	}

	start := now.AddDate(0, 0, -7).Format(wireLayout)
	end := now.AddDate(0, 1, 0).Format(wireLayout)
	past := now.AddDate(0, 0, -1).Format(wireLayout)

	coupons := []userCoupon{
		{CouponCode: "WELCOME10", Description: "Giảm 10% cho đơn hàng đầu tiên", Type: "PERCENTAGE", Value: 10, Status: "ACTIVE", EndDate: end},
		{CouponCode: "SAVE50K", Description: "Giảm 50.000đ cho đơn từ 500.000đ", Type: "FIXED_AMOUNT", Value: 50000, Status: "ACTIVE", EndDate: end},
		{CouponCode: "FREESHIP", Description: "Miễn phí vận chuyển", Type: "FREE_SHIPPING", Value: 0, Status: "ACTIVE", EndDate: end},
		{CouponCode: "OLDDEAL", Description: "Ưu đãi tháng trước", Type: "PERCENTAGE", Value: 20, Status: "EXPIRED", EndDate: past},
		{CouponCode: "USEDONE", Description: "Đã dùng cho đơn trước", Type: "FIXED_AMOUNT", Value: 20000, Status: "USED", EndDate: end},
		{CouponCode: "PAUSED", Description: "Tạm ngưng", Type: "PERCENTAGE", Value: 15, Status: "INACTIVE", EndDate: end},
	}
	for i := 7; i <= 25; i++ {
		coupons = append(coupons, userCoupon{
			CouponCode:  fmt.Sprintf("PROMO%02d", i),
			Description: fmt.Sprintf("Khuyến mãi số %d", i),
			Type:        "PERCENTAGE",
			Value:       float64(i),
			Status:      "ACTIVE",
			EndDate:     end,
		})
	}
	for i := range coupons {
		coupons[i].CouponID = int64(i + 1)
		coupons[i].StartDate = start
	}
	s.userCoupons[DemoUserID] = coupons

	s.outcomes["WELCOME10"] = OrderOutcome{DiscountAmount: 30000}
	s.outcomes["SAVE50K"] = OrderOutcome{DiscountAmount: 50000}
	s.outcomes["FREESHIP"] = OrderOutcome{DiscountAmount: 15000}
	s.outcomes["OLDDEAL"] = OrderOutcome{ErrorCode: "COUPON_EXPIRED", Message: "Coupon has expired"}
	s.outcomes["SOLDOUT"] = OrderOutcome{ErrorCode: "INSUFFICIENT_BUDGET", Message: "Coupon budget exhausted"}
	s.outcomes["BIGORDER"] = OrderOutcome{ErrorCode: "RULE_VIOLATION", Message: "Minimum order amount is 500000"}

	welcomeCollection := int64(1)
	s.coupons[1] = &adminCoupon{
		CouponID: 1, Code: "WELCOME10", Title: "Welcome", Description: "First order discount",
		Type: "PERCENTAGE", Status: "ACTIVE", IsActive: true,
		Config:    map[string]any{"type": "PERCENTAGE", "value": 10.0, "max_discount": 50000.0},
		StartDate: start, EndDate: end, CollectionKeyID: &welcomeCollection,
	}
	s.coupons[2] = &adminCoupon{
		CouponID: 2, Code: "SAVE50K", Title: "Save 50K", Description: "Flat discount",
		Type: "FIXED_AMOUNT", Status: "ACTIVE", IsActive: true,
		Config:    map[string]any{"type": "FIXED_AMOUNT", "value": 50000.0},
		StartDate: start, EndDate: end,
	}
	s.coupons[3] = &adminCoupon{
		CouponID: 3, Code: "FLASH5", Title: "Flash sale", Description: "Weekend flash sale",
		Type: "PERCENTAGE", Status: "INACTIVE", IsActive: false,
		Config:    map[string]any{"type": "PERCENTAGE", "value": 5.0, "maxDiscount": 20000.0},
		StartDate: start, EndDate: past,
	}

	s.rules[1] = &rule{
		RuleID: 1, Name: "Minimum order", Description: "Order must reach a minimum amount",
		IsActive: true, RuleType: "MIN_ORDER_AMOUNT",
		RuleConfiguration: map[string]any{"type": "MIN_ORDER_AMOUNT", "min_amount": 100000.0},
	}
	s.rules[2] = &rule{
		RuleID: 2, Name: "Business hours", Description: "Only during the day",
		IsActive: true, RuleType: "DAILY_ACTIVE_TIME",
		RuleConfiguration: map[string]any{"type": "DAILY_ACTIVE_TIME", "start_time": "08:00:00", "end_time": "22:00:00"},
	}

	s.collections[1] = &collection{
		CollectionID: 1, RuleIDs: []int64{1, 2}, Name: "Welcome rules",
		Description: "Rules for the welcome coupon", IsActive: true,
	}
}
