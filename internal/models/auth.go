package models

// Session is the customer's authenticated identity. Token and UserID are
// either both set or both empty.
type Session struct {
	Token  string
	UserID string
}

// Valid reports whether both halves of the session are present.
func (s Session) Valid() bool {
	return s.Token != "" && s.UserID != ""
}

// Role values issued by the auth endpoint.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is the body of POST /auth/login for both outcomes.
type LoginResponse struct {
	Success      bool   `json:"success"`
	Token        string `json:"token,omitempty"`
	UserID       ID     `json:"userId,omitempty"`
	Username     string `json:"username,omitempty"`
	Role         string `json:"role,omitempty"`
	Message      string `json:"message,omitempty"`
	ErrorMessage string `json:"errorMessage,omitempty"`
}
