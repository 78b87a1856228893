package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Lixing-Zhang/coupon-portal/internal/coupon"
	"github.com/Lixing-Zhang/coupon-portal/internal/format"
	"github.com/Lixing-Zhang/coupon-portal/internal/middleware"
	"github.com/Lixing-Zhang/coupon-portal/internal/models"
	"github.com/Lixing-Zhang/coupon-portal/internal/service"
	"github.com/Lixing-Zhang/coupon-portal/internal/session"
	"github.com/Lixing-Zhang/coupon-portal/internal/view"
	"github.com/go-chi/chi/v5"
)

const appTitle = "Coupon Portal"

var orderStatusClasses = map[models.OrderStatus]string{
	models.OrderCompleted: "status-completed",
	models.OrderPending:   "status-pending",
	models.OrderCancelled: "status-cancelled",
	models.OrderFailed:    "status-failed",
}

// AppHandler serves the customer pages: login, the coupon list and the
// order form.
type AppHandler struct {
	auth    *service.AuthService
	coupons *service.CouponService
	orders  *service.OrderService
	view    *view.Renderer
	log     *slog.Logger
	now     func() time.Time
}

func NewAppHandler(auth *service.AuthService, coupons *service.CouponService, orders *service.OrderService, renderer *view.Renderer, log *slog.Logger) *AppHandler {
	return &AppHandler{
		auth:    auth,
		coupons: coupons,
		orders:  orders,
		view:    renderer,
		log:     log,
		now:     time.Now,
	}
}

// Routes registers the customer routes. r must already carry
// middleware.Session.
func (h *AppHandler) Routes(r chi.Router) {
	r.Get("/", h.Index)
	r.Post("/login", h.Login)
	r.Post("/logout", h.Logout)

	r.Route("/app", func(r chi.Router) {
		r.Use(middleware.RequireCustomer)
		r.Get("/", h.App)
		r.Get("/coupons", h.Coupons)
		r.Post("/coupons/retry", h.RetryCoupons)
		r.Get("/use/{code}", h.UseCoupon)
		r.Post("/orders", h.SubmitOrder)
		r.Post("/orders/clear", h.ClearOrder)
		r.Post("/orders/validate-coupon", h.ValidateCoupon)
	})
}

// Index handles GET /
func (h *AppHandler) Index(w http.ResponseWriter, r *http.Request) {
	st, ok := stateFrom(w, r)
	if !ok {
		return
	}
	if st.Auth().Valid() {
		redirect(w, r, "/app")
		return
	}
	h.view.Render(w, http.StatusOK, view.PageLogin, view.LoginPage{Title: appTitle})
}

// Login handles POST /login. On success the first coupon page is loaded
// before redirecting, so the list is ready on arrival.
func (h *AppHandler) Login(w http.ResponseWriter, r *http.Request) {
	st, ok := stateFrom(w, r)
	if !ok {
		return
	}
	username := r.PostFormValue("username")

	if err := h.auth.Login(r.Context(), st, username, r.PostFormValue("password")); err != nil {
		status := http.StatusOK
		var loginErr *service.LoginError
		if errors.As(err, &loginErr) {
			status = http.StatusUnauthorized
		}
		h.view.Render(w, status, view.PageLogin, view.LoginPage{
			Title:    appTitle,
			Username: strings.TrimSpace(username),
			Error:    err.Error(),
		})
		return
	}

	list := st.Coupons()
	h.loadCoupons(r, st, 0, list.PageSize)
	redirect(w, r, "/app?tab=coupons")
}

// Logout handles POST /logout
func (h *AppHandler) Logout(w http.ResponseWriter, r *http.Request) {
	st, ok := stateFrom(w, r)
	if !ok {
		return
	}
	st.Logout()
	redirect(w, r, "/")
}

// App handles GET /app?tab=coupons|order. Entering the coupons tab loads
// only when nothing is cached.
func (h *AppHandler) App(w http.ResponseWriter, r *http.Request) {
	st, ok := stateFrom(w, r)
	if !ok {
		return
	}

	switch session.ParseTab(r.URL.Query().Get("tab")) {
	case session.TabOrder:
		st.SetTab(session.TabOrder)
	default:
		if err := h.coupons.EnterCouponsTab(r.Context(), st); err != nil && !errors.Is(err, service.ErrSkipped) {
			h.log.Debug("coupon load on tab entry failed", "error", err)
		}
	}

	h.render(w, st, view.OrderPanel{})
}

// Coupons handles GET /app/coupons?page=&size=
func (h *AppHandler) Coupons(w http.ResponseWriter, r *http.Request) {
	st, ok := stateFrom(w, r)
	if !ok {
		return
	}
	list := st.Coupons()
	page := queryInt(r, "page", list.Page)
	size := queryInt(r, "size", list.PageSize)

	st.SetTab(session.TabCoupons)
	h.loadCoupons(r, st, page, size)
	h.render(w, st, view.OrderPanel{})
}

// RetryCoupons handles POST /app/coupons/retry by reloading the current page.
func (h *AppHandler) RetryCoupons(w http.ResponseWriter, r *http.Request) {
	st, ok := stateFrom(w, r)
	if !ok {
		return
	}
	st.SetTab(session.TabCoupons)
	if err := h.coupons.Reload(r.Context(), st); err != nil && !errors.Is(err, service.ErrSkipped) {
		h.log.Debug("coupon retry failed", "error", err)
	}
	redirect(w, r, "/app?tab=coupons")
}

// UseCoupon handles GET /app/use/{code}: switch to the order tab with the
// code filled in.
func (h *AppHandler) UseCoupon(w http.ResponseWriter, r *http.Request) {
	st, ok := stateFrom(w, r)
	if !ok {
		return
	}
	code, err := url.PathUnescape(chi.URLParam(r, "code"))
	if err != nil {
		code = chi.URLParam(r, "code")
	}

	draft := st.Draft()
	draft.CouponCode = code
	if draft.OrderDate == "" {
		draft.OrderDate = service.DefaultOrderDate(h.now())
	}
	st.SetDraft(draft)
	st.SetTab(session.TabOrder)
	redirect(w, r, "/app?tab=order")
}

// SubmitOrder handles POST /app/orders
func (h *AppHandler) SubmitOrder(w http.ResponseWriter, r *http.Request) {
	st, ok := stateFrom(w, r)
	if !ok {
		return
	}
	form := h.orderForm(r, st)
	st.SetTab(session.TabOrder)

	result, err := h.orders.Submit(r.Context(), st, form)
	if err != nil {
		h.render(w, st, view.OrderPanel{Error: service.FriendlyErrorMessage(err)})
		return
	}
	h.render(w, st, view.OrderPanel{Result: h.orderSummary(result)})
}

// ClearOrder handles POST /app/orders/clear: empty form, date reset to now.
func (h *AppHandler) ClearOrder(w http.ResponseWriter, r *http.Request) {
	st, ok := stateFrom(w, r)
	if !ok {
		return
	}
	st.SetDraft(session.OrderDraft{OrderDate: service.DefaultOrderDate(h.now())})
	st.SetTab(session.TabOrder)
	redirect(w, r, "/app?tab=order")
}

// ValidateCoupon handles POST /app/orders/validate-coupon. It checks the
// code against the cached list only.
func (h *AppHandler) ValidateCoupon(w http.ResponseWriter, r *http.Request) {
	st, ok := stateFrom(w, r)
	if !ok {
		return
	}
	form := h.orderForm(r, st)
	st.SetTab(session.TabOrder)

	preview := coupon.Preview(st.Coupons().Items, form.CouponCode, h.now())
	h.render(w, st, view.OrderPanel{Preview: preview})
}

// orderForm reads the posted order form and keeps it as the draft.
func (h *AppHandler) orderForm(r *http.Request, st *session.State) service.OrderForm {
	form := service.OrderForm{
		Amount:     r.PostFormValue("amount"),
		OrderDate:  r.PostFormValue("orderDate"),
		CouponCode: r.PostFormValue("couponCode"),
	}
	st.SetDraft(session.OrderDraft{
		Amount:     form.Amount,
		OrderDate:  form.OrderDate,
		CouponCode: form.CouponCode,
	})
	return form
}

func (h *AppHandler) loadCoupons(r *http.Request, st *session.State, page, size int) {
	err := h.coupons.Load(r.Context(), st, page, size)
	if err != nil && !errors.Is(err, service.ErrSkipped) {
		h.log.Debug("coupon load failed", "page", page, "size", size, "error", err)
	}
}

// render draws the app page. order carries the outcome of the current
// request; the form fields come from the stored draft.
func (h *AppHandler) render(w http.ResponseWriter, st *session.State, order view.OrderPanel) {
	now := h.now()
	list := st.Coupons()

	draft := st.Draft()
	order.Amount = draft.Amount
	order.OrderDate = draft.OrderDate
	order.CouponCode = draft.CouponCode
	if order.OrderDate == "" {
		order.OrderDate = service.DefaultOrderDate(now)
	}

	h.view.Render(w, http.StatusOK, view.PageApp, view.AppPage{
		Title: appTitle,
		Tab:   st.Tab(),
		Coupons: view.CouponsPanel{
			Cards:      coupon.BuildCards(list.Items, now),
			Pagination: coupon.BuildPagination(list.Page, list.PageSize, list.TotalCount),
			Loading:    list.Loading,
			Error:      st.LoadError(),
			PageSize:   list.PageSize,
			PageSizes:  view.PageSizes,
		},
		Order: order,
	})
}

func (h *AppHandler) orderSummary(res *models.OrderResult) *view.OrderSummary {
	class, ok := orderStatusClasses[res.Status]
	if !ok {
		class = "status-unknown"
	}
	return &view.OrderSummary{
		OrderID:        res.OrderID,
		OrderAmount:    res.OrderAmount,
		DiscountAmount: res.DiscountAmount,
		FinalAmount:    res.Payable(),
		HasDiscount:    res.HasDiscount(),
		CouponCode:     res.CouponCode,
		StatusClass:    class,
		StatusLabel:    service.OrderStatusLabel(res.Status),
		CreatedAt:      format.DateTime(res.OrderDate.Time),
	}
}
