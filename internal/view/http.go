package view

import (
	"io"
	"net/http"

	"github.com/andrasnagy-data/greenplate/internal/shared/session"
	"github.com/rs/zerolog/hlog"
)

// NavFor builds the navigation for the current session; nil is anonymous.
func NavFor(sess *session.Session) Nav {
	if sess == nil {
		return Nav{}
	}
	return Nav{Authenticated: true, Username: sess.Username}
}

// Write renders an HTML response. A render error becomes a 500 since nothing has been written yet.
func Write(w http.ResponseWriter, r *http.Request, render func(io.Writer) error) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := render(w); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("Failed to render template")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
