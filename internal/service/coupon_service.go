package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Lixing-Zhang/coupon-portal/internal/models"
	"github.com/Lixing-Zhang/coupon-portal/internal/session"
)

// CouponAPI fetches a page of the user's coupons.
type CouponAPI interface {
	UserCoupons(ctx context.Context, token, userID string, page, size int) (*models.UserCouponsPage, error)
}

// CouponService loads the user's coupon list into session state.
type CouponService struct {
	api    CouponAPI
	logger *slog.Logger
}

func NewCouponService(api CouponAPI, logger *slog.Logger) *CouponService {
	return &CouponService{api: api, logger: logger}
}

// Load fetches one page and replaces the cached list with it. It returns
// ErrSkipped without calling the API when the session is incomplete or a
// load is already running. On failure the cached list is left untouched
// and the error is recorded for the error panel.
func (s *CouponService) Load(ctx context.Context, st *session.State, page, size int) error {
	auth := st.Auth()
	if !auth.Valid() {
		return ErrSkipped
	}
	if page < 0 {
		page = 0
	}
	if size <= 0 {
		size = st.Coupons().PageSize
	}

	epoch, ok := st.TryBeginLoad()
	if !ok {
		return ErrSkipped
	}
	defer st.FinishLoad(epoch)

	resp, err := s.api.UserCoupons(ctx, auth.Token, auth.UserID, page, size)
	if err != nil {
		s.logger.Warn("failed to load coupons", "user_id", auth.UserID, "page", page, "error", err)
		st.SetLoadError(epoch, "Không thể tải danh sách mã giảm giá: "+apiFailure(err))
		return fmt.Errorf("load coupons: %w", err)
	}

	if resp.Page != nil {
		page = *resp.Page
	}
	if resp.Size != nil && *resp.Size > 0 {
		size = *resp.Size
	}
	st.ApplyPage(epoch, resp.UserCoupons, page, size, resp.TotalCount)

	s.logger.Debug("coupons loaded", "user_id", auth.UserID, "page", page, "count", len(resp.UserCoupons))
	return nil
}

// Reload fetches the currently shown page again.
func (s *CouponService) Reload(ctx context.Context, st *session.State) error {
	list := st.Coupons()
	return s.Load(ctx, st, list.Page, list.PageSize)
}

// EnterCouponsTab switches to the coupons tab, loading the first page only
// when nothing is cached and no load is running.
func (s *CouponService) EnterCouponsTab(ctx context.Context, st *session.State) error {
	st.SetTab(session.TabCoupons)

	list := st.Coupons()
	if len(list.Items) > 0 || list.Loading {
		return ErrSkipped
	}
	return s.Load(ctx, st, list.Page, list.PageSize)
}
