// Package fakeapi is an in-memory stand-in for the coupon/order REST API,
// used for local development and as the peer in client tests. It serves
// canned fixtures and never evaluates discounts or rules.
package fakeapi

import (
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// BasePath is where the API routes are mounted.
const BasePath = "/api/v1"

const wireLayout = "2006-01-02T15:04:05"

// OrderOutcome is the canned response for orders using a coupon code.
// A non-empty ErrorCode turns the order into an error response.
type OrderOutcome struct {
	DiscountAmount int64
	ErrorCode      string
	Message        string
	HTTPStatus     int
}

type user struct {
	id       int64
	username string
	role     string
	hash     []byte
}

type userCoupon struct {
	CouponID    int64   `json:"couponId"`
	CouponCode  string  `json:"couponCode"`
	Description string  `json:"description"`
	Type        string  `json:"type"`
	Value       float64 `json:"value"`
	Status      string  `json:"status"`
	StartDate   string  `json:"startDate"`
	EndDate     string  `json:"endDate"`
}

type adminCoupon struct {
	CouponID        int64          `json:"couponId"`
	Code            string         `json:"code"`
	Title           string         `json:"title"`
	Description     string         `json:"description"`
	Type            string         `json:"type"`
	Status          string         `json:"status"`
	IsActive        bool           `json:"isActive"`
	Config          map[string]any `json:"config"`
	StartDate       string         `json:"startDate"`
	EndDate         string         `json:"endDate"`
	CollectionKeyID *int64         `json:"collectionKeyId"`
}

type rule struct {
	RuleID            int64          `json:"ruleId"`
	Name              string         `json:"name"`
	Description       string         `json:"description"`
	IsActive          bool           `json:"isActive"`
	RuleType          string         `json:"ruleType"`
	RuleConfiguration map[string]any `json:"ruleConfiguration"`
}

type collection struct {
	CollectionID int64   `json:"collectionId"`
	RuleIDs      []int64 `json:"ruleIds"`
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	IsActive     bool    `json:"isActive"`
}

// Server holds the fixture state behind a gin engine.
type Server struct {
	secret []byte
	engine *gin.Engine

	mu          sync.Mutex
	users       map[string]user
	userCoupons map[int64][]userCoupon
	outcomes    map[string]OrderOutcome
	orders      []OrderRecord
	nextOrderID int64
	coupons     map[int64]*adminCoupon
	rules       map[int64]*rule
	collections map[int64]*collection
}

// OrderRecord is an order the fake accepted, kept for inspection.
type OrderRecord struct {
	UserID     int64
	Amount     int64
	OrderDate  string
	CouponCode string
	RequestID  string
}

// New builds a server seeded with the default fixtures. Tokens are signed
// with secret.
func New(secret string) *Server {
	s := &Server{
		secret:      []byte(secret),
		users:       make(map[string]user),
		userCoupons: make(map[int64][]userCoupon),
		outcomes:    make(map[string]OrderOutcome),
		nextOrderID: 1000,
		coupons:     make(map[int64]*adminCoupon),
		rules:       make(map[int64]*rule),
		collections: make(map[int64]*collection),
	}
	s.seed(time.Now())
	s.engine = s.routes()
	return s
}

// Handler returns the HTTP handler serving the API.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	api := r.Group(BasePath)
	api.POST("/auth/login", s.login)

	authed := api.Group("", s.requireToken)
	authed.GET("/coupons/user/:userId", s.listUserCoupons)
	authed.POST("/orders/process", s.processOrder)

	admin := authed.Group("", requireRole(roleAdmin))
	admin.GET("/coupons", s.listCoupons)
	admin.PUT("/coupons/:id", s.updateCoupon)
	admin.GET("/rules", s.listRules)
	admin.PUT("/rules/:id", s.updateRule)
	admin.GET("/rules/collections", s.listCollections)
	admin.PUT("/rules/collections", s.updateCollection)

	return r
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logrus.WithFields(logrus.Fields{
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status":      c.Writer.Status(),
			"duration_ms": time.Since(start).Milliseconds(),
		}).Debug("fakeapi request")
	}
}

// AddUser registers a login. Used by tests that need extra accounts.
func (s *Server) AddUser(id int64, username, password, role string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[username] = user{id: id, username: username, role: role, hash: hash}
	return nil
}

// SetOrderOutcome configures the response for orders using code.
func (s *Server) SetOrderOutcome(code string, outcome OrderOutcome) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outcomes[code] = outcome
}

// Orders returns the orders accepted so far.
func (s *Server) Orders() []OrderRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]OrderRecord(nil), s.orders...)
}

// CouponCollection reports the collection a coupon is attached to.
func (s *Server) CouponCollection(id int64) (*int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.coupons[id]
	if !ok {
		return nil, false
	}
	return c.CollectionKeyID, true
}

// CouponConfig returns a copy of an admin coupon's config.
func (s *Server) CouponConfig(id int64) map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.coupons[id]
	if !ok {
		return nil
	}
	out := make(map[string]any, len(c.Config))
	for k, v := range c.Config {
		out[k] = v
	}
	return out
}

// RuleConfiguration returns a copy of a rule's configuration.
func (s *Server) RuleConfiguration(id int64) map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rules[id]
	if !ok {
		return nil
	}
	out := make(map[string]any, len(r.RuleConfiguration))
	for k, v := range r.RuleConfiguration {
		out[k] = v
	}
	return out
}

// CollectionRules returns the rule ids of a collection.
func (s *Server) CollectionRules(id int64) []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.collections[id]
	if !ok {
		return nil
	}
	return append([]int64(nil), c.RuleIDs...)
}

func sortedKeys[V any](m map[int64]V) []int64 {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// window returns the [from,to) bounds of page within total items.
func window(total, page, size int) (int, int) {
	from := page * size
	if from > total {
		from = total
	}
	to := from + size
	if to > total {
		to = total
	}
	return from, to
}
