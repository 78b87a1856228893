// Package loadtest fires concurrent order requests at the order endpoint
// and summarizes the latencies, in the shape of a shared-iterations run:
// a fixed number of iterations split among a pool of virtual users.
package loadtest

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

// Defaults for a run.
const (
	DefaultBaseURL     = "http://localhost:8080/api/v1"
	DefaultVUs         = 6
	DefaultIterations  = 10
	DefaultMaxDuration = 30 * time.Second
	DefaultUserID      = 34
	DefaultOrderAmount = 3000000
	DefaultCouponCode  = "WELCOME10"
	DefaultOrderDate   = "2025-08-27T18:00:00"
)

// OrderPath is appended to the base URL.
const OrderPath = "/orders/process"

// Config describes one run.
type Config struct {
	BaseURL     string
	Token       string
	VUs         int
	Iterations  int
	MaxDuration time.Duration

	UserID          int64
	OrderAmount     int64
	CouponCode      string
	OrderDate       string
	RequestIDPrefix string
	// RequestID, when set, is sent verbatim by every iteration. Otherwise
	// each iteration sends RequestIDPrefix followed by a fresh uuid.
	RequestID string

	// Username and Password are used to fetch a token when Token is empty.
	Username string
	Password string
}

// FromEnv builds a Config from environment lookups, falling back to the
// defaults for missing or malformed values.
func FromEnv(getenv func(string) string) Config {
	str := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}
	integer := func(key string, def int64) int64 {
		n, err := strconv.ParseInt(strings.TrimSpace(getenv(key)), 10, 64)
		if err != nil {
			return def
		}
		return n
	}
	duration := func(key string, def time.Duration) time.Duration {
		d, err := time.ParseDuration(strings.TrimSpace(getenv(key)))
		if err != nil {
			return def
		}
		return d
	}

	return Config{
		BaseURL:         strings.TrimRight(str("API_BASE_URL", DefaultBaseURL), "/"),
		Token:           str("AUTH_TOKEN", ""),
		VUs:             int(integer("VUS", DefaultVUs)),
		Iterations:      int(integer("ITERATIONS", DefaultIterations)),
		MaxDuration:     duration("MAX_DURATION", DefaultMaxDuration),
		UserID:          integer("USER_ID", DefaultUserID),
		OrderAmount:     integer("ORDER_AMOUNT", DefaultOrderAmount),
		CouponCode:      str("COUPON_CODE", DefaultCouponCode),
		OrderDate:       str("ORDER_DATE", DefaultOrderDate),
		RequestIDPrefix: str("REQUEST_ID_PREFIX", ""),
		RequestID:       str("REQUEST_ID", ""),
		Username:        str("LOADTEST_USERNAME", ""),
		Password:        str("LOADTEST_PASSWORD", ""),
	}
}

// Validate checks that the run can start.
func (c Config) Validate() error {
	var errs []error
	if c.BaseURL == "" {
		errs = append(errs, errors.New("base URL is required"))
	}
	if c.VUs <= 0 {
		errs = append(errs, errors.New("VUS must be positive"))
	}
	if c.Iterations <= 0 {
		errs = append(errs, errors.New("ITERATIONS must be positive"))
	}
	if c.MaxDuration <= 0 {
		errs = append(errs, errors.New("MAX_DURATION must be positive"))
	}
	if c.Token == "" && c.Username == "" {
		errs = append(errs, errors.New("AUTH_TOKEN or LOADTEST_USERNAME is required"))
	}
	return errors.Join(errs...)
}

// authorization returns the header value, adding the Bearer scheme when
// the token was given bare.
func (c Config) authorization() string {
	if strings.HasPrefix(c.Token, "Bearer ") {
		return c.Token
	}
	return "Bearer " + c.Token
}
