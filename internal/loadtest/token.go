package loadtest

import (
	"context"
	"errors"
	"fmt"

	"github.com/Lixing-Zhang/coupon-portal/internal/models"
)

// Authenticator is the login call of the API client.
type Authenticator interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error)
}

// FetchToken logs in with the configured credentials and stores the token
// in the config. It is a no-op when a token is already set.
func FetchToken(ctx context.Context, auth Authenticator, cfg *Config) error {
	if cfg.Token != "" {
		return nil
	}
	resp, err := auth.Login(ctx, models.LoginRequest{Username: cfg.Username, Password: cfg.Password})
	if err != nil {
		return fmt.Errorf("login as %s: %w", cfg.Username, err)
	}
	if !resp.Success || resp.Token == "" {
		return errors.New("login returned no token")
	}
	cfg.Token = resp.Token
	return nil
}
