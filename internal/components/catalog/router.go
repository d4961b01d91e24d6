package catalog

import (
	"io"
	"net/http"
	"strconv"

	"github.com/andrasnagy-data/greenplate/internal/pages"
	"github.com/andrasnagy-data/greenplate/internal/shared/apiclient"
	"github.com/andrasnagy-data/greenplate/internal/shared/htmx"
	"github.com/andrasnagy-data/greenplate/internal/shared/recipe"
	"github.com/andrasnagy-data/greenplate/internal/shared/session"
	"github.com/andrasnagy-data/greenplate/internal/shared/validate"
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
	return pages.Catalog
}

func (r *Router) Mount(router chi.Router) {
	router.Get("/recipes", r.GetGrid)
	router.Get("/recipes/random", r.GetRandom)
	router.Get("/recipes/{id}", r.GetRecipe)
	router.Post("/recipes/generate", r.Generate)
	router.Post("/recipes/{id}/save", r.addTo(recipe.Saved))
	router.Post("/recipes/{id}/like", r.addTo(recipe.Liked))
}

// ServePage renders the catalog with its grid in the loading state; the grid fetches itself on load.
func (r *Router) ServePage(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	sess, _ := session.FromContext(ctx).Current(ctx)

	query := req.URL.Query().Get("q")
	data := view.CatalogData{
		Query: query,
		Grid:  view.GridData{State: view.GridLoading, Query: query},
	}
	if id, err := strconv.Atoi(req.URL.Query().Get("recipe")); err == nil && id > 0 {
		data.OpenRecipe = id
	}

	view.Write(w, req, func(out io.Writer) error {
		return r.renderer.Page(out, pages.Catalog.String(), view.PageData{
			Title:   pages.Catalog.Title(),
			Nav:     view.NavFor(sess),
			Content: data,
		})
	})
}

// GetGrid runs one fetch cycle of the grid: loading ends in loaded or error.
// A fetch superseded by a newer one is cancelled by the browser and renders nothing.
func (r *Router) GetGrid(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	logger := hlog.FromRequest(req)

	query := req.URL.Query().Get("q")
	res, err := r.service.Recipes(ctx, query)
	if apiclient.IsCanceled(err) {
		logger.Debug().Str("query", query).Msg("Recipe fetch superseded")
		return
	}

	data := view.GridData{State: view.GridError, Query: query}
	if err != nil {
		logger.Warn().Err(err).Str("query", query).Msg("Error loading recipes")
	} else {
		data = view.GridData{State: view.GridLoaded, Query: res.Query, Recipes: res.Recipes}
	}

	view.Write(w, req, func(out io.Writer) error {
		return r.renderer.Grid(out, data)
	})
}

func (r *Router) GetRecipe(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	logger := hlog.FromRequest(req)

	id, ok := r.recipeID(w, req)
	if !ok {
		return
	}

	detail, err := r.service.Recipe(ctx, id)
	if err != nil {
		logger.Warn().Err(err).Int("id", id).Msg("Error loading recipe details")
		r.alert(w, req, view.AlertError, apiclient.Message(err, msgRecipeFailed))
		return
	}
	r.modal(w, req, detail)
}

func (r *Router) GetRandom(w http.ResponseWriter, req *http.Request) {
	logger := hlog.FromRequest(req)

	detail, err := r.service.Random(req.Context())
	if err != nil {
		logger.Warn().Err(err).Msg("Error loading random recipe")
		r.alert(w, req, view.AlertError, msgRandomFailed)
		return
	}
	r.modal(w, req, detail)
}

func (r *Router) Generate(w http.ResponseWriter, req *http.Request) {
	logger := hlog.FromRequest(req)

	if err := req.ParseForm(); err != nil {
		logger.Warn().Err(err).Msg("Failed to parse form")
		r.alert(w, req, view.AlertError, "Invalid form data")
		return
	}

	detail, err := r.service.Generate(req.Context(), GenerateIn{Input: req.FormValue("input")})
	if verr, ok := validate.IsError(err); ok {
		r.alert(w, req, view.AlertError, verr.Message)
		return
	}
	if err != nil {
		logger.Warn().Err(err).Msg("Error generating recipe")
		r.alert(w, req, view.AlertError, apiclient.Message(err, msgGenerateFailed))
		return
	}

	logger.Debug().Int("id", detail.ID).Str("name", detail.Name).Msg("Recipe generated")
	r.modal(w, req, detail)
}

func (r *Router) addTo(kind recipe.Collection) http.HandlerFunc {
	messages := collectionMessages[kind]

	return func(w http.ResponseWriter, req *http.Request) {
		ctx := req.Context()
		logger := hlog.FromRequest(req)

		id, ok := r.recipeID(w, req)
		if !ok {
			return
		}

		sess, err := session.FromContext(ctx).Current(ctx)
		if err != nil || sess == nil {
			r.alert(w, req, view.AlertError, msgLoginRequired)
			return
		}

		if err := r.service.AddToCollection(ctx, sess, kind, id); err != nil {
			logger.Warn().Err(err).Int("id", id).Str("collection", kind.String()).Msg("Error adding recipe to collection")
			r.alert(w, req, view.AlertError, messages.failed)
			return
		}

		logger.Debug().Int("id", id).Str("collection", kind.String()).Msg("Recipe added to collection")
		r.alert(w, req, view.AlertSuccess, messages.ok)
	}
}

func (r *Router) recipeID(w http.ResponseWriter, req *http.Request) (int, bool) {
	idStr := chi.URLParam(req, "id")
	id, err := strconv.Atoi(idStr)
	if err != nil || id <= 0 {
		hlog.FromRequest(req).Warn().Str("id", idStr).Msg("Invalid recipe ID")
		http.Error(w, "Invalid recipe ID", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func (r *Router) modal(w http.ResponseWriter, req *http.Request, detail *recipe.Detail) {
	ctx := req.Context()
	data := view.ModalData{
		Recipe:        detail,
		Authenticated: session.FromContext(ctx).IsAuthenticated(ctx),
	}
	view.Write(w, req, func(out io.Writer) error {
		return r.renderer.Modal(out, data)
	})
}

// alert renders into #alerts regardless of which element made the request.
func (r *Router) alert(w http.ResponseWriter, req *http.Request, kind, message string) {
	htmx.Retarget(w, "#alerts", "innerHTML")
	view.Write(w, req, func(out io.Writer) error {
		return r.renderer.Alert(out, view.AlertData{Kind: kind, Message: message})
	})
}
