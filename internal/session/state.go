package session

import (
	"errors"
	"sync"

	"github.com/Lixing-Zhang/coupon-portal/internal/models"
)

// ErrIncompleteSession is returned when a login lacks the token or user id.
var ErrIncompleteSession = errors.New("session requires both token and user id")

// Tab is the visible panel of the logged-in view.
type Tab string

const (
	TabCoupons Tab = "coupons"
	TabOrder   Tab = "order"
)

// ParseTab maps a query value to a tab, defaulting to coupons.
func ParseTab(s string) Tab {
	if Tab(s) == TabOrder {
		return TabOrder
	}
	return TabCoupons
}

// CouponList is the cached page of the user's coupons.
type CouponList struct {
	Items      []models.Coupon
	Page       int
	PageSize   int
	TotalCount int64
	Loading    bool
}

// OrderDraft holds the order form values between requests.
type OrderDraft struct {
	Amount     string
	OrderDate  string
	CouponCode string
}

// AdminSession is the admin panel login. UserData is the raw login payload.
type AdminSession struct {
	Token    string
	Username string
	UserData models.LoginResponse
}

// Flash is a one-shot notice shown after a redirect.
type Flash struct {
	Success bool
	Message string
}

// State is everything one browser session holds. All methods are safe for
// concurrent use.
type State struct {
	mu sync.Mutex

	auth    models.Session
	tab     Tab
	coupons CouponList
	loadErr string
	// epoch changes on logout so a load started before it cannot write
	// into the fresh state.
	epoch uint64

	draft OrderDraft

	admin            *AdminSession
	adminCoupons     []models.AdminCoupon
	adminRules       []models.Rule
	adminCollections []models.Collection
	flash            *Flash

	defaultPageSize int
}

func newState(defaultPageSize int) *State {
	return &State{
		tab:             TabCoupons,
		coupons:         CouponList{PageSize: defaultPageSize},
		defaultPageSize: defaultPageSize,
	}
}

// Login stores the customer session. Both values must be non-empty. A
// different user starts from an empty coupon list and order form.
func (s *State) Login(token, userID string) error {
	if token == "" || userID == "" {
		return ErrIncompleteSession
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.auth.UserID != userID {
		s.coupons = CouponList{PageSize: s.defaultPageSize}
		s.loadErr = ""
		s.draft = OrderDraft{}
		s.epoch++
	}
	s.auth = models.Session{Token: token, UserID: userID}
	s.tab = TabCoupons
	return nil
}

// Logout clears the customer session together with its coupon list.
func (s *State) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.auth = models.Session{}
	s.tab = TabCoupons
	s.coupons = CouponList{PageSize: s.defaultPageSize}
	s.loadErr = ""
	s.draft = OrderDraft{}
	s.epoch++
}

func (s *State) Auth() models.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.auth
}

func (s *State) Tab() Tab {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tab
}

func (s *State) SetTab(t Tab) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tab = t
}

// TryBeginLoad marks a load as in flight. It returns false, and changes
// nothing, when one already is. The returned epoch must be handed back to
// ApplyPage and FinishLoad.
func (s *State) TryBeginLoad() (uint64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.coupons.Loading {
		return 0, false
	}
	s.coupons.Loading = true
	return s.epoch, true
}

// FinishLoad clears the loading flag set by the matching TryBeginLoad.
func (s *State) FinishLoad(epoch uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if epoch == s.epoch {
		s.coupons.Loading = false
	}
}

// ApplyPage replaces the cached list with a freshly loaded page. It is a
// no-op, returning false, if the session was logged out meanwhile.
func (s *State) ApplyPage(epoch uint64, items []models.Coupon, page, size int, total int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if epoch != s.epoch {
		return false
	}
	s.coupons.Items = items
	s.coupons.Page = page
	s.coupons.PageSize = size
	s.coupons.TotalCount = total
	s.loadErr = ""
	return true
}

// Coupons returns a snapshot of the cached list.
func (s *State) Coupons() CouponList {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.coupons
	out.Items = append([]models.Coupon(nil), s.coupons.Items...)
	return out
}

// SetLoadError records the last failed load for the error panel. Like
// ApplyPage it drops errors from a load started before a logout.
func (s *State) SetLoadError(epoch uint64, msg string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if epoch != s.epoch {
		return false
	}
	s.loadErr = msg
	return true
}

func (s *State) LoadError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadErr
}

func (s *State) Draft() OrderDraft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}

func (s *State) SetDraft(d OrderDraft) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = d
}

func (s *State) AdminLogin(a AdminSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.admin = &a
}

// AdminLogout drops the admin login and every cached admin list.
func (s *State) AdminLogout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.admin = nil
	s.adminCoupons = nil
	s.adminRules = nil
	s.adminCollections = nil
}

func (s *State) Admin() (AdminSession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.admin == nil || s.admin.Token == "" {
		return AdminSession{}, false
	}
	return *s.admin, true
}

func (s *State) SetAdminCoupons(items []models.AdminCoupon) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.adminCoupons = items
}

func (s *State) AdminCoupons() []models.AdminCoupon {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.AdminCoupon(nil), s.adminCoupons...)
}

func (s *State) SetAdminRules(items []models.Rule) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.adminRules = items
}

func (s *State) AdminRules() []models.Rule {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Rule(nil), s.adminRules...)
}

func (s *State) SetAdminCollections(items []models.Collection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.adminCollections = items
}

func (s *State) AdminCollections() []models.Collection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Collection(nil), s.adminCollections...)
}

func (s *State) SetFlash(f Flash) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flash = &f
}

// PopFlash returns the pending flash once.
func (s *State) PopFlash() (Flash, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.flash == nil {
		return Flash{}, false
	}
	f := *s.flash
	s.flash = nil
	return f, true
}
