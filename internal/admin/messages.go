package admin

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Lixing-Zhang/coupon-portal/internal/apiclient"
)

// UpdateResult turns the outcome of an update call into the notice shown to
// the admin. entity is "Coupon", "Rule" or "Collection".
func UpdateResult(entity string, err error) (string, bool) {
	if err == nil {
		return entity + " updated successfully via API", true
	}

	var formErr *FormError
	var apiErr *apiclient.APIError
	switch {
	case errors.As(err, &formErr):
		return formErr.Message, false
	case errors.As(err, &apiErr):
		if apiErr.Message != "" {
			return apiErr.Message, false
		}
		return fmt.Sprintf("HTTP %d: An error occurred while updating %s", apiErr.StatusCode, strings.ToLower(entity)), false
	default:
		return "Cannot connect to server. Please check your network connection.", false
	}
}
