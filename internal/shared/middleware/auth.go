package middleware

import (
	"net/http"

	"github.com/andrasnagy-data/greenplate/internal/shared/htmx"
	"github.com/andrasnagy-data/greenplate/internal/shared/session"
	"github.com/rs/zerolog/hlog"
)

// LoginPath is where anonymous visitors of protected routes are sent.
const LoginPath = "/login"

// RequireSession protects routes from anonymous access. It relies on
// session.Middleware having injected the request's Store and re-reads
// it on every request.
func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		store := session.FromContext(r.Context())
		if !store.IsAuthenticated(r.Context()) {
			hlog.FromRequest(r).Debug().Str("path", r.URL.Path).Msg("Anonymous request to protected route")
			htmx.Redirect(w, r, LoginPath)
			return
		}
		next.ServeHTTP(w, r)
	})
}
