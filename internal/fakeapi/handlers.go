package fakeapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/Lixing-Zhang/coupon-portal/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type orderRequest struct {
	UserID      int64   `json:"userId"`
	OrderAmount float64 `json:"orderAmount"`
	OrderDate   string  `json:"orderDate"`
	CouponCode  string  `json:"couponCode"`
	RequestID   string  `json:"requestId"`
}

func pageParams(c *gin.Context) (int, int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "0"))
	if err != nil || page < 0 {
		page = 0
	}
	size, err := strconv.Atoi(c.DefaultQuery("size", "10"))
	if err != nil || size <= 0 {
		size = 10
	}
	return page, size
}

func totalPages(total, size int) int {
	return (total + size - 1) / size
}

func (s *Server) listUserCoupons(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("userId"), 10, 64)
	if err != nil {
		abortError(c, http.StatusBadRequest, "INVALID_ARGUMENT", "userId must be numeric")
		return
	}
	claims := claimsFrom(c)
	if claims.UserID != userID && claims.Role != roleAdmin {
		abortError(c, http.StatusForbidden, "FORBIDDEN", "Cannot read another user's coupons")
		return
	}

	page, size := pageParams(c)

	s.mu.Lock()
	all := s.userCoupons[userID]
	from, to := window(len(all), page, size)
	items := append([]userCoupon{}, all[from:to]...)
	s.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{
		"userCoupons": items,
		"totalCount":  len(all),
		"page":        page,
		"size":        size,
	})
}

func (s *Server) processOrder(c *gin.Context) {
	var req orderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortError(c, http.StatusBadRequest, "INVALID_ARGUMENT", "Invalid request body")
		return
	}
	if req.OrderAmount <= 0 {
		abortError(c, http.StatusBadRequest, "INVALID_ARGUMENT", "orderAmount must be positive")
		return
	}

	amount := int64(req.OrderAmount)
	log := logrus.WithFields(logrus.Fields{
		"user_id":     req.UserID,
		"coupon_code": req.CouponCode,
		"request_id":  req.RequestID,
	})

	s.mu.Lock()
	defer s.mu.Unlock()

	var discount int64
	var couponID *int64
	if req.CouponCode != "" {
		outcome, ok := s.outcomes[req.CouponCode]
		if !ok {
			log.Warn("processOrder: coupon not found")
			abortError(c, http.StatusBadRequest, "COUPON_NOT_FOUND", "Coupon not found")
			return
		}
		if outcome.ErrorCode != "" {
			status := outcome.HTTPStatus
			if status == 0 {
				status = http.StatusBadRequest
			}
			log.WithField("code", outcome.ErrorCode).Warn("processOrder: rejected")
			abortError(c, status, outcome.ErrorCode, outcome.Message)
			return
		}
		discount = min(outcome.DiscountAmount, amount)
		for _, uc := range s.userCoupons[req.UserID] {
			if uc.CouponCode == req.CouponCode {
				id := uc.CouponID
				couponID = &id
				break
			}
		}
	}

	orderDate := req.OrderDate
	if orderDate == "" {
		orderDate = time.Now().Format(wireLayout)
	}

	s.nextOrderID++
	s.orders = append(s.orders, OrderRecord{
		UserID:     req.UserID,
		Amount:     amount,
		OrderDate:  orderDate,
		CouponCode: req.CouponCode,
		RequestID:  req.RequestID,
	})

	body := gin.H{
		"orderId":        s.nextOrderID,
		"userId":         req.UserID,
		"orderAmount":    amount,
		"discountAmount": discount,
		"finalAmount":    amount - discount,
		"orderDate":      orderDate,
		"status":         string(models.OrderCompleted),
	}
	if req.CouponCode != "" {
		body["couponCode"] = req.CouponCode
	}
	if couponID != nil {
		body["couponId"] = *couponID
	}
	c.JSON(http.StatusOK, body)
}

func (s *Server) listCoupons(c *gin.Context) {
	page, size := pageParams(c)

	s.mu.Lock()
	keys := sortedKeys(s.coupons)
	from, to := window(len(keys), page, size)
	items := make([]adminCoupon, 0, to-from)
	for _, k := range keys[from:to] {
		items = append(items, *s.coupons[k])
	}
	s.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{
		"coupons":       items,
		"page":          page,
		"size":          size,
		"totalElements": len(keys),
		"totalPages":    totalPages(len(keys), size),
	})
}

func (s *Server) updateCoupon(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		abortError(c, http.StatusBadRequest, "INVALID_ARGUMENT", "Invalid coupon id")
		return
	}

	data, err := c.GetRawData()
	if err != nil {
		abortError(c, http.StatusBadRequest, "INVALID_ARGUMENT", "Invalid request body")
		return
	}
	var req models.UpdateCouponRequest
	var present map[string]json.RawMessage
	if json.Unmarshal(data, &req) != nil || json.Unmarshal(data, &present) != nil {
		abortError(c, http.StatusBadRequest, "INVALID_ARGUMENT", "Invalid request body")
		return
	}
	if req.Code == "" {
		abortError(c, http.StatusBadRequest, "VALIDATION_ERROR", "code is required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	coupon, ok := s.coupons[id]
	if !ok {
		abortError(c, http.StatusNotFound, "COUPON_NOT_FOUND", "Coupon not found")
		return
	}
	if req.CollectionKeyID != nil {
		if _, ok := s.collections[*req.CollectionKeyID]; !ok {
			abortError(c, http.StatusBadRequest, "COLLECTION_NOT_FOUND", "Collection not found")
			return
		}
	}

	coupon.Code = req.Code
	if req.Title != "" {
		coupon.Title = req.Title
	}
	if req.Description != "" {
		coupon.Description = req.Description
	}
	if req.IsActive != nil {
		coupon.IsActive = *req.IsActive
		coupon.Status = "INACTIVE"
		if coupon.IsActive {
			coupon.Status = "ACTIVE"
		}
	}
	if _, ok := present["collectionKeyId"]; ok {
		coupon.CollectionKeyID = req.CollectionKeyID
	}
	if req.EndDate != "" {
		coupon.EndDate = req.EndDate
	}
	if req.Config != nil {
		if req.Config.Value != nil {
			coupon.Config["value"] = req.Config.Value.InexactFloat64()
		}
		if req.Config.MaxDiscount != nil {
			delete(coupon.Config, "maxDiscount")
			coupon.Config["max_discount"] = req.Config.MaxDiscount.InexactFloat64()
		}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Coupon updated"})
}

func (s *Server) listRules(c *gin.Context) {
	page, size := pageParams(c)

	s.mu.Lock()
	keys := sortedKeys(s.rules)
	from, to := window(len(keys), page, size)
	items := make([]rule, 0, to-from)
	for _, k := range keys[from:to] {
		items = append(items, *s.rules[k])
	}
	s.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{
		"rules":         items,
		"page":          page,
		"size":          size,
		"totalElements": len(keys),
		"totalPages":    totalPages(len(keys), size),
	})
}

func (s *Server) updateRule(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		abortError(c, http.StatusBadRequest, "INVALID_ARGUMENT", "Invalid rule id")
		return
	}
	var req models.ModifyRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortError(c, http.StatusBadRequest, "INVALID_ARGUMENT", "Invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.rules[id]
	if !ok {
		abortError(c, http.StatusNotFound, "RULE_NOT_FOUND", "Rule not found")
		return
	}
	if req.Description != "" {
		r.Description = req.Description
	}
	if req.IsActive != nil {
		r.IsActive = *req.IsActive
	}
	if req.RuleType != "" {
		r.RuleType = req.RuleType
	}
	if req.RuleConfig != nil {
		r.RuleConfiguration = req.RuleConfig
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Rule updated"})
}

func (s *Server) listCollections(c *gin.Context) {
	page, size := pageParams(c)

	s.mu.Lock()
	keys := sortedKeys(s.collections)
	from, to := window(len(keys), page, size)
	items := make([]collection, 0, to-from)
	for _, k := range keys[from:to] {
		items = append(items, *s.collections[k])
	}
	s.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"collections": items,
			"totalCount":  len(keys),
			"page":        page,
			"size":        size,
		},
	})
}

func (s *Server) updateCollection(c *gin.Context) {
	var req models.ModifyCollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortError(c, http.StatusBadRequest, "INVALID_ARGUMENT", "Invalid request body")
		return
	}
	if req.CollectionID <= 0 {
		abortError(c, http.StatusBadRequest, "VALIDATION_ERROR", "collectionId is required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	col, ok := s.collections[req.CollectionID]
	if !ok {
		abortError(c, http.StatusNotFound, "COLLECTION_NOT_FOUND", "Collection not found")
		return
	}
	for _, id := range req.RuleIDs {
		if _, ok := s.rules[id]; !ok {
			abortError(c, http.StatusBadRequest, "RULE_NOT_FOUND", "Rule "+strconv.FormatInt(id, 10)+" not found")
			return
		}
	}
	if req.Name != "" {
		col.Name = req.Name
	}
	if req.Description != "" {
		col.Description = req.Description
	}
	if req.RuleIDs != nil {
		col.RuleIDs = append([]int64(nil), req.RuleIDs...)
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Collection updated"})
}
