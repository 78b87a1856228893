package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrTransport marks failures to reach the API at all.
	ErrTransport = errors.New("api unreachable")
	// ErrDecode marks a 2xx response whose body could not be decoded.
	ErrDecode = errors.New("malformed api response")
)

// APIError is a non-2xx response from the API.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	// ErrorMessage is the auth endpoint's errorMessage field, kept apart
	// because login failures display only that field.
	ErrorMessage string
	Details      map[string]string
}

func (e *APIError) Error() string {
	switch {
	case e.Code != "" && e.Message != "":
		return fmt.Sprintf("api error %d %s: %s", e.StatusCode, e.Code, e.Message)
	case e.Message != "":
		return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
	default:
		return fmt.Sprintf("api error %d", e.StatusCode)
	}
}

// parseAPIError builds an APIError from whatever error body the API sent.
// The gateway uses {code,message,details}; auth failures use errorMessage.
func parseAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status}

	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return apiErr
	}

	apiErr.Code = stringField(raw, "code")
	apiErr.ErrorMessage = stringField(raw, "errorMessage")
	apiErr.Message = firstNonEmpty(
		stringField(raw, "message"),
		stringField(raw, "errorMessage"),
		stringField(raw, "error"),
	)

	if details, ok := raw["details"].(map[string]any); ok {
		apiErr.Details = make(map[string]string, len(details))
		for k, v := range details {
			apiErr.Details[k] = fmt.Sprint(v)
		}
	}
	return apiErr
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
