package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Lixing-Zhang/coupon-portal/internal/admin"
	"github.com/Lixing-Zhang/coupon-portal/internal/apiclient"
	"github.com/Lixing-Zhang/coupon-portal/internal/models"
	"github.com/Lixing-Zhang/coupon-portal/internal/session"
	"golang.org/x/sync/errgroup"
)

// AdminAPI is the part of the REST API the admin panel uses.
type AdminAPI interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error)
	ListCoupons(ctx context.Context, token string, page, size int) (*models.ListCouponsResponse, error)
	UpdateCoupon(ctx context.Context, token string, id int64, req models.UpdateCouponRequest) error
	ListRules(ctx context.Context, token string, page, size int) (*models.ListRulesResponse, error)
	UpdateRule(ctx context.Context, token string, id int64, req models.ModifyRuleRequest) error
	ListCollections(ctx context.Context, token string, page, size int) (*models.ListCollectionsResponse, error)
	UpdateCollection(ctx context.Context, token string, req models.ModifyCollectionRequest) error
}

// AdminListSize is the page size used for the admin lists.
const AdminListSize = 100

// AdminService backs the admin panel.
type AdminService struct {
	api    AdminAPI
	logger *slog.Logger
}

func NewAdminService(api AdminAPI, logger *slog.Logger) *AdminService {
	return &AdminService{api: api, logger: logger}
}

// Login accepts only a successful response carrying the ADMIN role. Any
// refusal is ErrNotAdmin; transport failures are returned wrapped.
func (s *AdminService) Login(ctx context.Context, st *session.State, username, password string) error {
	resp, err := s.api.Login(ctx, models.LoginRequest{Username: username, Password: password})
	if err != nil {
		var apiErr *apiclient.APIError
		if errors.As(err, &apiErr) {
			s.logger.Info("admin login rejected", "username", username, "status", apiErr.StatusCode)
			return ErrNotAdmin
		}
		return fmt.Errorf("admin login: %w", err)
	}
	if !resp.Success || resp.Role != models.RoleAdmin || resp.Token == "" {
		s.logger.Info("admin login refused", "username", username, "role", resp.Role)
		return ErrNotAdmin
	}

	st.AdminLogin(session.AdminSession{Token: resp.Token, Username: resp.Username, UserData: *resp})
	s.logger.Info("admin logged in", "username", resp.Username)
	return nil
}

// Dashboard fetches the three counters concurrently. A failed call leaves
// its counter at zero and does not affect the others.
func (s *AdminService) Dashboard(ctx context.Context, token string) admin.Stats {
	var stats admin.Stats
	var g errgroup.Group

	g.Go(func() error {
		resp, err := s.api.ListCoupons(ctx, token, 0, 1)
		if err != nil {
			s.logger.Warn("dashboard: coupons count failed", "error", err)
			return nil
		}
		stats.Coupons = resp.TotalElements
		return nil
	})
	g.Go(func() error {
		resp, err := s.api.ListRules(ctx, token, 0, 1)
		if err != nil {
			s.logger.Warn("dashboard: rules count failed", "error", err)
			return nil
		}
		stats.Rules = resp.TotalElements
		return nil
	})
	g.Go(func() error {
		resp, err := s.api.ListCollections(ctx, token, 0, 1)
		if err != nil {
			s.logger.Warn("dashboard: collections count failed", "error", err)
			return nil
		}
		stats.Collections = resp.TotalCount
		return nil
	})

	_ = g.Wait()
	return stats
}

// Coupons lists coupons and caches them on st for the edit views.
func (s *AdminService) Coupons(ctx context.Context, st *session.State, token string) ([]models.AdminCoupon, error) {
	resp, err := s.api.ListCoupons(ctx, token, 0, AdminListSize)
	if err != nil {
		return nil, fmt.Errorf("list coupons: %w", err)
	}
	st.SetAdminCoupons(resp.Coupons)
	return resp.Coupons, nil
}

func (s *AdminService) Rules(ctx context.Context, st *session.State, token string) ([]models.Rule, error) {
	resp, err := s.api.ListRules(ctx, token, 0, AdminListSize)
	if err != nil {
		return nil, fmt.Errorf("list rules: %w", err)
	}
	st.SetAdminRules(resp.Rules)
	return resp.Rules, nil
}

func (s *AdminService) Collections(ctx context.Context, st *session.State, token string) ([]models.Collection, error) {
	resp, err := s.api.ListCollections(ctx, token, 0, AdminListSize)
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	st.SetAdminCollections(resp.Collections)
	return resp.Collections, nil
}

// FindCoupon looks id up in the cached list, fetching it when the cache
// is empty.
func (s *AdminService) FindCoupon(ctx context.Context, st *session.State, token string, id int64) (models.AdminCoupon, bool, error) {
	items := st.AdminCoupons()
	if len(items) == 0 {
		var err error
		if items, err = s.Coupons(ctx, st, token); err != nil {
			return models.AdminCoupon{}, false, err
		}
	}
	for _, c := range items {
		if c.CouponID == id {
			return c, true, nil
		}
	}
	return models.AdminCoupon{}, false, nil
}

func (s *AdminService) FindRule(ctx context.Context, st *session.State, token string, id int64) (models.Rule, bool, error) {
	items := st.AdminRules()
	if len(items) == 0 {
		var err error
		if items, err = s.Rules(ctx, st, token); err != nil {
			return models.Rule{}, false, err
		}
	}
	for _, r := range items {
		if r.RuleID == id {
			return r, true, nil
		}
	}
	return models.Rule{}, false, nil
}

func (s *AdminService) FindCollection(ctx context.Context, st *session.State, token string, id int64) (models.Collection, bool, error) {
	items := st.AdminCollections()
	if len(items) == 0 {
		var err error
		if items, err = s.Collections(ctx, st, token); err != nil {
			return models.Collection{}, false, err
		}
	}
	for _, c := range items {
		if c.CollectionID == id {
			return c, true, nil
		}
	}
	return models.Collection{}, false, nil
}

// UpdateCoupon sends the update and drops the cached coupon list so the
// next view refetches it.
func (s *AdminService) UpdateCoupon(ctx context.Context, st *session.State, token string, id int64, req models.UpdateCouponRequest) error {
	if err := s.api.UpdateCoupon(ctx, token, id, req); err != nil {
		s.logger.Warn("coupon update failed", "coupon_id", id, "error", err)
		return err
	}
	st.SetAdminCoupons(nil)
	s.logger.Info("coupon updated", "coupon_id", id)
	return nil
}

func (s *AdminService) UpdateRule(ctx context.Context, st *session.State, token string, id int64, req models.ModifyRuleRequest) error {
	if err := s.api.UpdateRule(ctx, token, id, req); err != nil {
		s.logger.Warn("rule update failed", "rule_id", id, "error", err)
		return err
	}
	st.SetAdminRules(nil)
	s.logger.Info("rule updated", "rule_id", id)
	return nil
}

func (s *AdminService) UpdateCollection(ctx context.Context, st *session.State, token string, req models.ModifyCollectionRequest) error {
	if err := s.api.UpdateCollection(ctx, token, req); err != nil {
		s.logger.Warn("collection update failed", "collection_id", req.CollectionID, "error", err)
		return err
	}
	st.SetAdminCollections(nil)
	s.logger.Info("collection updated", "collection_id", req.CollectionID)
	return nil
}
