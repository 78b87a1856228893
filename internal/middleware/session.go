package middleware

import (
	"log/slog"
	"net/http"

	"github.com/Lixing-Zhang/coupon-portal/internal/config"
	"github.com/Lixing-Zhang/coupon-portal/internal/session"
)

// Session attaches the caller's session state to the request context,
// creating a session and its cookie on the first visit or when the cookie
// names a session this process does not know.
func Session(store *session.Store, cfg config.SessionConfig, logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var id string
			if c, err := r.Cookie(cfg.CookieName); err == nil {
				id = c.Value
			}

			sid, st, created := store.GetOrCreate(id)
			if created {
				http.SetCookie(w, &http.Cookie{
					Name:     cfg.CookieName,
					Value:    sid,
					Path:     "/",
					HttpOnly: true,
					Secure:   cfg.SecureCookie,
					SameSite: http.SameSiteLaxMode,
				})
				logger.Debug("session created", "sessions", store.Len())
			}

			next.ServeHTTP(w, r.WithContext(session.NewContext(r.Context(), sid, st)))
		})
	}
}
