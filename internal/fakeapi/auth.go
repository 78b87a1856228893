package fakeapi

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

const claimsKey = "claims"

// Claims are carried in the bearer tokens the fake issues.
type Claims struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "errorMessage": "Invalid request body"})
		return
	}

	s.mu.Lock()
	u, ok := s.users[req.Username]
	s.mu.Unlock()

	if !ok || bcrypt.CompareHashAndPassword(u.hash, []byte(req.Password)) != nil {
		logrus.WithField("username", req.Username).Warn("login: invalid credentials")
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "errorMessage": "Tên đăng nhập hoặc mật khẩu không đúng"})
		return
	}

	token, err := s.issueToken(u)
	if err != nil {
		logrus.WithError(err).Error("login: failed to sign token")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "errorMessage": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"token":    token,
		"userId":   u.id,
		"username": u.username,
		"role":     u.role,
		"message":  "Login successful",
	})
}

func (s *Server) issueToken(u user) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID:   u.id,
		Username: u.username,
		Role:     u.role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(u.id, 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *Server) requireToken(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		abortError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Missing bearer token")
		return
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(strings.TrimPrefix(header, "Bearer "), claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		abortError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid token")
		return
	}

	c.Set(claimsKey, claims)
	c.Next()
}

func requireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claimsFrom(c).Role != role {
			abortError(c, http.StatusForbidden, "FORBIDDEN", "Insufficient permissions")
			return
		}
		c.Next()
	}
}

func claimsFrom(c *gin.Context) *Claims {
	if v, ok := c.Get(claimsKey); ok {
		if claims, ok := v.(*Claims); ok {
			return claims
		}
	}
	return &Claims{}
}

func abortError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{"code": code, "message": message})
}
