package middleware

import (
	"net/http"

	"github.com/Lixing-Zhang/coupon-portal/internal/session"
)

// RequireCustomer redirects to the login page unless the session holds a
// customer token and user id. It must run after Session.
func RequireCustomer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, st, ok := session.FromContext(r.Context())
		if !ok || !st.Auth().Valid() {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin redirects to the admin login form unless an admin is logged
// in on this session. It must run after Session.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, st, ok := session.FromContext(r.Context())
		if !ok {
			http.Redirect(w, r, "/admin", http.StatusSeeOther)
			return
		}
		if _, ok := st.Admin(); !ok {
			http.Redirect(w, r, "/admin", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}
