package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Lixing-Zhang/coupon-portal/internal/admin"
	"github.com/Lixing-Zhang/coupon-portal/internal/apiclient"
	"github.com/Lixing-Zhang/coupon-portal/internal/middleware"
	"github.com/Lixing-Zhang/coupon-portal/internal/service"
	"github.com/Lixing-Zhang/coupon-portal/internal/session"
	"github.com/Lixing-Zhang/coupon-portal/internal/view"
	"github.com/go-chi/chi/v5"
)

const (
	adminTitle         = "Coupon Admin"
	msgAdminRefused    = "Login failed or not admin"
	msgAdminConnection = "Cannot connect to server. Please check your network connection."
)

// AdminHandler serves the admin panel under /admin.
type AdminHandler struct {
	svc  *service.AdminService
	view *view.Renderer
	log  *slog.Logger
	now  func() time.Time
}

func NewAdminHandler(svc *service.AdminService, renderer *view.Renderer, log *slog.Logger) *AdminHandler {
	return &AdminHandler{svc: svc, view: renderer, log: log, now: time.Now}
}

// Routes registers the admin routes. r must already carry
// middleware.Session.
func (h *AdminHandler) Routes(r chi.Router) {
	r.Route("/admin", func(r chi.Router) {
		r.Get("/", h.Index)
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin)
			r.Get("/dashboard", h.Dashboard)

			r.Get("/coupons", h.Coupons)
			r.Get("/coupons/{id}/edit", h.EditCoupon)
			r.Post("/coupons/{id}", h.UpdateCoupon)

			r.Get("/rules", h.Rules)
			r.Get("/rules/{id}/edit", h.EditRule)
			r.Post("/rules/{id}", h.UpdateRule)

			r.Get("/collections", h.Collections)
			r.Get("/collections/{id}/edit", h.EditCollection)
			r.Post("/collections/{id}", h.UpdateCollection)
		})
	})
}

// Index handles GET /admin: the login form, or the dashboard when logged in.
func (h *AdminHandler) Index(w http.ResponseWriter, r *http.Request) {
	st, ok := stateFrom(w, r)
	if !ok {
		return
	}
	if _, ok := st.Admin(); ok {
		redirect(w, r, "/admin/dashboard")
		return
	}
	h.view.Render(w, http.StatusOK, view.PageAdminLogin, view.AdminLoginPage{Title: adminTitle})
}

// Login handles POST /admin/login
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	st, ok := stateFrom(w, r)
	if !ok {
		return
	}
	username := strings.TrimSpace(r.PostFormValue("username"))

	if err := h.svc.Login(r.Context(), st, username, r.PostFormValue("password")); err != nil {
		msg := msgAdminRefused
		status := http.StatusUnauthorized
		if !errors.Is(err, service.ErrNotAdmin) {
			h.log.Error("admin login failed", "error", err)
			msg = msgAdminConnection
			status = http.StatusBadGateway
		}
		h.view.Render(w, status, view.PageAdminLogin, view.AdminLoginPage{Title: adminTitle, Username: username, Error: msg})
		return
	}
	redirect(w, r, "/admin/dashboard")
}

// Logout handles POST /admin/logout
func (h *AdminHandler) Logout(w http.ResponseWriter, r *http.Request) {
	st, ok := stateFrom(w, r)
	if !ok {
		return
	}
	st.AdminLogout()
	redirect(w, r, "/admin")
}

// Dashboard handles GET /admin/dashboard
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	st, token, ok := h.adminState(w, r)
	if !ok {
		return
	}
	page := h.page(st, "dashboard")
	page.Stats = h.svc.Dashboard(r.Context(), token)
	h.view.Render(w, http.StatusOK, view.PageAdminDashboard, page)
}

// Coupons handles GET /admin/coupons
func (h *AdminHandler) Coupons(w http.ResponseWriter, r *http.Request) {
	st, token, ok := h.adminState(w, r)
	if !ok {
		return
	}
	page := h.page(st, "coupons")
	items, err := h.svc.Coupons(r.Context(), st, token)
	if err != nil {
		page.Error = listError("coupons", err)
	} else {
		page.Coupons = admin.BuildCouponRows(items, h.now())
	}
	h.view.Render(w, http.StatusOK, view.PageAdminCoupons, page)
}

// EditCoupon handles GET /admin/coupons/{id}/edit
func (h *AdminHandler) EditCoupon(w http.ResponseWriter, r *http.Request) {
	st, token, ok := h.adminState(w, r)
	if !ok {
		return
	}
	id, ok := pathID(chi.URLParam(r, "id"))
	if !ok {
		h.notFound(w, r, st, "Coupon", "/admin/coupons")
		return
	}

	page := h.page(st, "coupons")
	c, found, err := h.svc.FindCoupon(r.Context(), st, token, id)
	switch {
	case err != nil:
		page.Error = listError("coupons", err)
	case !found:
		h.notFound(w, r, st, "Coupon", "/admin/coupons")
		return
	default:
		collections := st.AdminCollections()
		if len(collections) == 0 {
			if collections, err = h.svc.Collections(r.Context(), st, token); err != nil {
				h.log.Warn("collections unavailable for coupon form", "error", err)
			}
		}
		form := admin.NewCouponForm(c, collections)
		page.CouponForm = &form
	}
	h.view.Render(w, http.StatusOK, view.PageAdminCouponEdit, page)
}

// UpdateCoupon handles POST /admin/coupons/{id}
func (h *AdminHandler) UpdateCoupon(w http.ResponseWriter, r *http.Request) {
	st, token, ok := h.adminState(w, r)
	if !ok {
		return
	}
	id, req, err := admin.ParseCouponForm(h.form(r))
	if err == nil {
		err = h.svc.UpdateCoupon(r.Context(), st, token, id, req)
	}
	h.finishUpdate(w, r, st, "Coupon", err, "/admin/coupons", editPath("coupons", id, chi.URLParam(r, "id")))
}

// Rules handles GET /admin/rules
func (h *AdminHandler) Rules(w http.ResponseWriter, r *http.Request) {
	st, token, ok := h.adminState(w, r)
	if !ok {
		return
	}
	page := h.page(st, "rules")
	items, err := h.svc.Rules(r.Context(), st, token)
	if err != nil {
		page.Error = listError("rules", err)
	} else {
		page.Rules = admin.BuildRuleRows(items)
	}
	h.view.Render(w, http.StatusOK, view.PageAdminRules, page)
}

// EditRule handles GET /admin/rules/{id}/edit
func (h *AdminHandler) EditRule(w http.ResponseWriter, r *http.Request) {
	st, token, ok := h.adminState(w, r)
	if !ok {
		return
	}
	id, ok := pathID(chi.URLParam(r, "id"))
	if !ok {
		h.notFound(w, r, st, "Rule", "/admin/rules")
		return
	}

	page := h.page(st, "rules")
	rule, found, err := h.svc.FindRule(r.Context(), st, token, id)
	switch {
	case err != nil:
		page.Error = listError("rules", err)
	case !found:
		h.notFound(w, r, st, "Rule", "/admin/rules")
		return
	default:
		form := admin.NewRuleForm(rule)
		page.RuleForm = &form
	}
	h.view.Render(w, http.StatusOK, view.PageAdminRuleEdit, page)
}

// UpdateRule handles POST /admin/rules/{id}
func (h *AdminHandler) UpdateRule(w http.ResponseWriter, r *http.Request) {
	st, token, ok := h.adminState(w, r)
	if !ok {
		return
	}
	id, req, err := admin.ParseRuleForm(h.form(r))
	if err == nil {
		err = h.svc.UpdateRule(r.Context(), st, token, id, req)
	}
	h.finishUpdate(w, r, st, "Rule", err, "/admin/rules", editPath("rules", id, chi.URLParam(r, "id")))
}

// Collections handles GET /admin/collections
func (h *AdminHandler) Collections(w http.ResponseWriter, r *http.Request) {
	st, token, ok := h.adminState(w, r)
	if !ok {
		return
	}
	page := h.page(st, "collections")
	items, err := h.svc.Collections(r.Context(), st, token)
	if err != nil {
		page.Error = listError("collections", err)
	} else {
		page.Collections = admin.BuildCollectionRows(items)
	}
	h.view.Render(w, http.StatusOK, view.PageAdminCollections, page)
}

// EditCollection handles GET /admin/collections/{id}/edit
func (h *AdminHandler) EditCollection(w http.ResponseWriter, r *http.Request) {
	st, token, ok := h.adminState(w, r)
	if !ok {
		return
	}
	id, ok := pathID(chi.URLParam(r, "id"))
	if !ok {
		h.notFound(w, r, st, "Collection", "/admin/collections")
		return
	}

	page := h.page(st, "collections")
	c, found, err := h.svc.FindCollection(r.Context(), st, token, id)
	switch {
	case err != nil:
		page.Error = listError("collections", err)
	case !found:
		h.notFound(w, r, st, "Collection", "/admin/collections")
		return
	default:
		rules := st.AdminRules()
		if len(rules) == 0 {
			if rules, err = h.svc.Rules(r.Context(), st, token); err != nil {
				h.log.Warn("rules unavailable for collection form", "error", err)
			}
		}
		form := admin.NewCollectionForm(c, rules)
		page.CollectionForm = &form
	}
	h.view.Render(w, http.StatusOK, view.PageAdminCollectionEdit, page)
}

// UpdateCollection handles POST /admin/collections/{id}
func (h *AdminHandler) UpdateCollection(w http.ResponseWriter, r *http.Request) {
	st, token, ok := h.adminState(w, r)
	if !ok {
		return
	}
	req, err := admin.ParseCollectionForm(h.form(r))
	if err == nil {
		err = h.svc.UpdateCollection(r.Context(), st, token, req)
	}
	h.finishUpdate(w, r, st, "Collection", err, "/admin/collections", editPath("collections", req.CollectionID, chi.URLParam(r, "id")))
}

// adminState returns the session and admin token. RequireAdmin has already
// run, so a missing admin login only happens on a concurrent logout.
func (h *AdminHandler) adminState(w http.ResponseWriter, r *http.Request) (*session.State, string, bool) {
	st, ok := stateFrom(w, r)
	if !ok {
		return nil, "", false
	}
	a, ok := st.Admin()
	if !ok {
		redirect(w, r, "/admin")
		return nil, "", false
	}
	return st, a.Token, true
}

func (h *AdminHandler) page(st *session.State, section string) view.AdminPage {
	a, _ := st.Admin()
	page := view.AdminPage{Title: adminTitle, Section: section, Username: a.Username}
	if f, ok := st.PopFlash(); ok {
		page.Flash = &f
	}
	return page
}

func (h *AdminHandler) form(r *http.Request) url.Values {
	if err := r.ParseForm(); err != nil {
		h.log.Debug("malformed admin form", "error", err)
	}
	return r.PostForm
}

// finishUpdate stores the outcome as a flash and redirects: back to the
// list on success, to the edit form otherwise.
func (h *AdminHandler) finishUpdate(w http.ResponseWriter, r *http.Request, st *session.State, entity string, err error, listPath, editPath string) {
	msg, ok := admin.UpdateResult(entity, err)
	st.SetFlash(session.Flash{Success: ok, Message: msg})
	if ok || editPath == "" {
		redirect(w, r, listPath)
		return
	}
	redirect(w, r, editPath)
}

func (h *AdminHandler) notFound(w http.ResponseWriter, r *http.Request, st *session.State, entity, listPath string) {
	st.SetFlash(session.Flash{Message: entity + " not found"})
	redirect(w, r, listPath)
}

// editPath prefers the id parsed from the form, falling back to the one in
// the URL.
func editPath(section string, id int64, urlID string) string {
	if id <= 0 {
		n, ok := pathID(urlID)
		if !ok {
			return ""
		}
		id = n
	}
	return "/admin/" + section + "/" + strconv.FormatInt(id, 10) + "/edit"
}

// listError is the inline panel text for a failed list call.
func listError(entity string, err error) string {
	var apiErr *apiclient.APIError
	switch {
	case errors.As(err, &apiErr) && apiErr.Message != "":
		return fmt.Sprintf("Failed to load %s: %s", entity, apiErr.Message)
	case errors.As(err, &apiErr):
		return fmt.Sprintf("Failed to load %s: HTTP %d", entity, apiErr.StatusCode)
	default:
		return msgAdminConnection
	}
}
