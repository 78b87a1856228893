package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/Lixing-Zhang/coupon-portal/internal/apiclient"
	"github.com/Lixing-Zhang/coupon-portal/internal/models"
	"github.com/Lixing-Zhang/coupon-portal/internal/session"
)

// AuthAPI is the login endpoint.
type AuthAPI interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error)
}

// AuthService handles customer login.
type AuthService struct {
	api    AuthAPI
	logger *slog.Logger
}

func NewAuthService(api AuthAPI, logger *slog.Logger) *AuthService {
	return &AuthService{api: api, logger: logger}
}

// LoginError is a refused or failed login; Message is shown on the form.
type LoginError struct {
	Message string
	Err     error
}

func (e *LoginError) Error() string { return e.Message }
func (e *LoginError) Unwrap() error { return e.Err }

// Login authenticates and stores the session on st. The username is
// trimmed; the password is sent as typed.
func (s *AuthService) Login(ctx context.Context, st *session.State, username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return &ValidationError{Message: "Vui lòng nhập tên đăng nhập và mật khẩu"}
	}

	resp, err := s.api.Login(ctx, models.LoginRequest{Username: username, Password: password})
	if err != nil {
		var apiErr *apiclient.APIError
		if errors.As(err, &apiErr) {
			s.logger.Info("login rejected", "username", username, "status", apiErr.StatusCode)
			return &LoginError{Message: orDefault(apiErr.ErrorMessage, "Đăng nhập thất bại"), Err: err}
		}
		s.logger.Warn("login failed", "username", username, "error", err)
		return &LoginError{Message: "Lỗi kết nối máy chủ", Err: err}
	}

	if !resp.Success || resp.Token == "" || resp.UserID == "" {
		return &LoginError{Message: orDefault(resp.ErrorMessage, "Đăng nhập thất bại")}
	}

	if err := st.Login(resp.Token, resp.UserID.String()); err != nil {
		return &LoginError{Message: "Đăng nhập thất bại", Err: err}
	}
	s.logger.Info("user logged in", "user_id", resp.UserID)
	return nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
