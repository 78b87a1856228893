package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/Lixing-Zhang/coupon-portal/internal/session"
)

// stateFrom returns the session attached by middleware.Session. A missing
// session is a wiring error and answers 500.
func stateFrom(w http.ResponseWriter, r *http.Request) (*session.State, bool) {
	_, st, ok := session.FromContext(r.Context())
	if !ok {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return nil, false
	}
	return st, true
}

// redirect answers a form post or state change with 303 See Other.
func redirect(w http.ResponseWriter, r *http.Request, to string) {
	http.Redirect(w, r, to, http.StatusSeeOther)
}

// queryInt reads a non-negative integer query parameter, or def when it is
// absent or malformed.
func queryInt(r *http.Request, key string, def int) int {
	v := strings.TrimSpace(r.URL.Query().Get(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return def
	}
	return n
}

func pathID(s string) (int64, bool) {
	id, err := strconv.ParseInt(s, 10, 64)
	return id, err == nil && id > 0
}
