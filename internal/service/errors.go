package service

import (
	"errors"
	"fmt"

	"github.com/Lixing-Zhang/coupon-portal/internal/apiclient"
)

var (
	// ErrSkipped is returned when a coupon load was not started because the
	// session is logged out or another load is in flight. It is not shown.
	ErrSkipped = errors.New("coupon load skipped")
	// ErrNotLoggedIn is returned when an action needs a customer session.
	ErrNotLoggedIn = errors.New("not logged in")
	// ErrNotAdmin is returned when an admin login is refused.
	ErrNotAdmin = errors.New("not an admin")
)

// ValidationError is a local input problem; Message is shown as is.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// apiFailure renders a client error as a short technical message.
func apiFailure(err error) string {
	var apiErr *apiclient.APIError
	switch {
	case errors.As(err, &apiErr) && apiErr.Message != "":
		return apiErr.Message
	case errors.As(err, &apiErr):
		return fmt.Sprintf("HTTP %d", apiErr.StatusCode)
	case errors.Is(err, apiclient.ErrTransport):
		return "không kết nối được máy chủ"
	default:
		return err.Error()
	}
}
