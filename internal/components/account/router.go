package account

import (
	"bytes"
	"io"
	"net/http"
	"strconv"

	"github.com/andrasnagy-data/greenplate/internal/pages"
	"github.com/andrasnagy-data/greenplate/internal/shared/apiclient"
	"github.com/andrasnagy-data/greenplate/internal/shared/htmx"
	"github.com/andrasnagy-data/greenplate/internal/shared/middleware"
	"github.com/andrasnagy-data/greenplate/internal/shared/recipe"
	"github.com/andrasnagy-data/greenplate/internal/shared/session"
	"github.com/andrasnagy-data/greenplate/internal/view"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"
)

type (
	Router struct {
		service  servicer
		renderer *view.Renderer
	}
)

func NewRouter(service servicer, renderer *view.Renderer) *Router {
	return &Router{service: service, renderer: renderer}
}

func (r *Router) Page() pages.Page {
	return pages.Account
}

func (r *Router) Mount(router chi.Router) {
	router.Group(func(g chi.Router) {
		g.Use(middleware.RequireSession)
		g.Get("/account/{kind}", r.GetCollection)
		g.Get("/account/{kind}/export", r.ExportCollection)
		g.Delete("/account/{kind}/{id}", r.RemoveRecipe)
	})
}

// ServePage sends anonymous visitors to the login page.
func (r *Router) ServePage(w http.ResponseWriter, req *http.Request) {
	middleware.RequireSession(http.HandlerFunc(r.servePage)).ServeHTTP(w, req)
}

func (r *Router) servePage(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	logger := hlog.FromRequest(req)

	sess, ok := r.session(w, req)
	if !ok {
		return
	}

	active := recipe.Saved
	if tab, err := recipe.ParseCollection(req.URL.Query().Get("tab")); err == nil {
		active = tab
	}

	collections, err := r.service.Collections(ctx, sess)
	if r.expired(w, req, err) {
		return
	}
	if err != nil {
		logger.Warn().Err(err).Msg("Error loading collections")
		collections = &CollectionsOut{}
	}

	data := view.AccountData{Username: sess.Username}
	for _, kind := range recipe.Collections() {
		data.Tabs = append(data.Tabs, view.AccountTab{
			Kind:       kind,
			Active:     kind == active,
			Collection: view.CollectionData{Kind: kind, Recipes: collections.Of(kind)},
		})
	}

	view.Write(w, req, func(out io.Writer) error {
		return r.renderer.Page(out, pages.Account.String(), view.PageData{
			Title:   pages.Account.Title(),
			Nav:     view.NavFor(sess),
			Content: data,
		})
	})
}

func (r *Router) GetCollection(w http.ResponseWriter, req *http.Request) {
	logger := hlog.FromRequest(req)

	kind, ok := r.kind(w, req)
	if !ok {
		return
	}
	sess, ok := r.session(w, req)
	if !ok {
		return
	}

	recipes, err := r.service.Collection(req.Context(), sess, kind)
	if r.expired(w, req, err) {
		return
	}
	if err != nil {
		logger.Warn().Err(err).Str("collection", kind.String()).Msg("Error loading collection")
		r.alert(w, req, apiclient.Message(err, apiclient.DefaultMessage))
		return
	}

	r.collection(w, req, kind, recipes)
}

// RemoveRecipe deletes upstream and, on success, re-renders the collection from a fresh fetch.
// A failed re-fetch is reported on its own since the recipe is already gone.
func (r *Router) RemoveRecipe(w http.ResponseWriter, req *http.Request) {
	logger := hlog.FromRequest(req)

	kind, ok := r.kind(w, req)
	if !ok {
		return
	}
	idStr := chi.URLParam(req, "id")
	id, err := strconv.Atoi(idStr)
	if err != nil || id <= 0 {
		logger.Warn().Str("id", idStr).Msg("Invalid recipe ID")
		http.Error(w, "Invalid recipe ID", http.StatusBadRequest)
		return
	}
	sess, ok := r.session(w, req)
	if !ok {
		return
	}

	err = r.service.Remove(req.Context(), sess, kind, id)
	if r.expired(w, req, err) {
		return
	}
	if err != nil {
		logger.Error().Err(err).Int("id", id).Str("collection", kind.String()).Msg("Error removing recipe")
		r.alert(w, req, msgRemoveFailed)
		return
	}
	logger.Debug().Int("id", id).Str("collection", kind.String()).Msg("Recipe removed")

	recipes, err := r.service.Collection(req.Context(), sess, kind)
	if r.expired(w, req, err) {
		return
	}
	if err != nil {
		logger.Warn().Err(err).Str("collection", kind.String()).Msg("Error reloading collection after removal")
		r.alert(w, req, msgReloadFailed)
		return
	}
	r.collection(w, req, kind, recipes)
}

// ExportCollection downloads a collection as CSV or XLSX.
func (r *Router) ExportCollection(w http.ResponseWriter, req *http.Request) {
	logger := hlog.FromRequest(req)

	kind, ok := r.kind(w, req)
	if !ok {
		return
	}
	format, err := ParseExportFormat(req.URL.Query().Get("format"))
	if err != nil {
		http.Error(w, "Unsupported export format", http.StatusBadRequest)
		return
	}
	sess, ok := r.session(w, req)
	if !ok {
		return
	}

	recipes, err := r.service.Collection(req.Context(), sess, kind)
	if r.expired(w, req, err) {
		return
	}
	if err != nil {
		logger.Error().Err(err).Str("collection", kind.String()).Msg("Error getting collection for export")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if format == FormatXLSX {
		err = writeXLSX(&buf, kind, recipes)
	} else {
		err = writeCSV(&buf, recipes)
	}
	if err != nil {
		logger.Error().Err(err).Str("format", string(format)).Msg("Error writing export")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", "attachment; filename="+exportFilename(kind, format))
	_, _ = buf.WriteTo(w)
}

func (r *Router) kind(w http.ResponseWriter, req *http.Request) (recipe.Collection, bool) {
	kind, err := recipe.ParseCollection(chi.URLParam(req, "kind"))
	if err != nil {
		http.NotFound(w, req)
		return "", false
	}
	return kind, true
}

// session returns the current session. RequireSession has already run, so
// a missing session here means storage changed mid-request.
func (r *Router) session(w http.ResponseWriter, req *http.Request) (*session.Session, bool) {
	ctx := req.Context()
	sess, err := session.FromContext(ctx).Current(ctx)
	if err != nil || sess == nil {
		htmx.Redirect(w, req, middleware.LoginPath)
		return nil, false
	}
	return sess, true
}

// expired logs the browser out when the API rejected its token.
func (r *Router) expired(w http.ResponseWriter, req *http.Request, err error) bool {
	if !apiclient.IsStatus(err, http.StatusUnauthorized) {
		return false
	}

	ctx := req.Context()
	hlog.FromRequest(req).Info().Err(err).Msg("API rejected token, logging out")
	if err := session.FromContext(ctx).Logout(ctx); err != nil {
		hlog.FromRequest(req).Error().Err(err).Msg("Failed to clear session")
	}
	htmx.Redirect(w, req, middleware.LoginPath)
	return true
}

func (r *Router) collection(w http.ResponseWriter, req *http.Request, kind recipe.Collection, recipes []recipe.Detail) {
	view.Write(w, req, func(out io.Writer) error {
		return r.renderer.Collection(out, view.CollectionData{Kind: kind, Recipes: recipes, OOB: true})
	})
}

func (r *Router) alert(w http.ResponseWriter, req *http.Request, message string) {
	htmx.Retarget(w, "#alerts", "innerHTML")
	view.Write(w, req, func(out io.Writer) error {
		return r.renderer.Alert(out, view.AlertData{Kind: view.AlertError, Message: message})
	})
}
