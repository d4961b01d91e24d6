package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrasnagy-data/greenplate/internal/components/account"
	"github.com/andrasnagy-data/greenplate/internal/components/auth"
	"github.com/andrasnagy-data/greenplate/internal/components/catalog"
	"github.com/andrasnagy-data/greenplate/internal/pages"
	"github.com/andrasnagy-data/greenplate/internal/shared/apitest"
	"github.com/andrasnagy-data/greenplate/internal/shared/config"
	"github.com/andrasnagy-data/greenplate/internal/shared/cookie"
	"github.com/andrasnagy-data/greenplate/internal/shared/recipe"
	"github.com/andrasnagy-data/greenplate/internal/shared/session"
	"github.com/andrasnagy-data/greenplate/internal/view"
)

type downBackend struct{ session.Backend }

func (downBackend) Ping(context.Context) error { return errors.New("connection refused") }

func cookieBackend(t *testing.T) session.Backend {
	t.Helper()
	key, err := cookie.DeriveKey("test-secret")
	require.NoError(t, err)
	codec, err := cookie.NewCodec("session", key, false)
	require.NoError(t, err)
	return session.NewCookieBackend(codec)
}

func controllers(t *testing.T, upstream *apitest.Upstream, renderer *view.Renderer) []pages.Controller {
	t.Helper()
	authSrvc := auth.NewAuthService(upstream.Client)
	return []pages.Controller{
		catalog.NewRouter(catalog.NewService(upstream.Client), renderer),
		auth.NewLoginRouter(authSrvc, renderer),
		auth.NewRegisterRouter(authSrvc, renderer),
		auth.NewForgotPasswordRouter(authSrvc, renderer),
		account.NewRouter(account.NewService(upstream.Client), renderer),
	}
}

func newTestServer(t *testing.T, backend session.Backend) (*apitest.Upstream, http.Handler) {
	t.Helper()
	return newTestServerWith(t, &config.Config{Environment: "test", Port: 8080}, backend)
}

func newTestServerWith(t *testing.T, cfg *config.Config, backend session.Backend) (*apitest.Upstream, http.Handler) {
	t.Helper()
	upstream := apitest.New(t)
	renderer, err := view.NewRenderer()
	require.NoError(t, err)

	s, err := NewServer(params{
		Config:         cfg,
		Logger:         zerolog.Nop(),
		HealthHandler:  NewHealthHandler(NewHealthSrvc(upstream.Client, backend)),
		SessionBackend: backend,
		Renderer:       renderer,
		Controllers:    controllers(t, upstream, renderer),
	})
	require.NoError(t, err)
	return upstream, s.Handler()
}

func TestNewServer_DuplicatePageIsAnError(t *testing.T) {
	upstream := apitest.New(t)
	renderer, err := view.NewRenderer()
	require.NoError(t, err)

	cs := controllers(t, upstream, renderer)
	_, err = NewServer(params{
		Config:      &config.Config{},
		Logger:      zerolog.Nop(),
		Renderer:    renderer,
		Controllers: append(cs, cs[0]),
	})
	assert.Error(t, err)
}

func TestPagesResolve(t *testing.T) {
	_, handler := newTestServer(t, cookieBackend(t))

	for _, path := range []string{"/", "/index.html", "/login", "/login.html", "/register", "/register.html", "/forgot-password", "/forgot-password.html"} {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.Contains(t, rec.Header().Get("Content-Type"), "text/html", path)
	}
}

func TestUnknownPage(t *testing.T) {
	upstream, handler := newTestServer(t, cookieBackend(t))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/recipes.html", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	doc, err := goquery.NewDocumentFromReader(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, 1, doc.Find(".not-found").Length())
	assert.Empty(t, rec.Result().Cookies())
	assert.Empty(t, upstream.Calls())
}

func TestAccount_RedirectsAnonymous(t *testing.T) {
	_, handler := newTestServer(t, cookieBackend(t))

	for _, path := range []string{"/account", "/account.html"} {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusSeeOther, rec.Code, path)
		assert.Equal(t, "/login", rec.Header().Get("Location"), path)
	}
}

func TestLoginThenAccount(t *testing.T) {
	upstream, handler := newTestServer(t, cookieBackend(t))
	upstream.Handle(http.MethodPost, "/auth/login", http.StatusOK, map[string]string{"token": "tok", "username": "alice"})
	upstream.Handle(http.MethodGet, "/user/saved", http.StatusOK, []recipe.Detail{{Summary: recipe.Summary{ID: 1, Name: "Soup"}}})
	upstream.Handle(http.MethodGet, "/user/liked", http.StatusOK, []recipe.Detail{})

	form := url.Values{"email_or_username": {"alice"}, "password": {"secret"}}
	login := apitest.HTMX(httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode())))
	login.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, login)
	require.Equal(t, "/", rec.Header().Get("HX-Redirect"))

	page := httptest.NewRequest(http.MethodGet, "/account", nil)
	for _, c := range rec.Result().Cookies() {
		page.AddCookie(c)
	}
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, page)

	require.Equal(t, http.StatusOK, rec.Code)
	doc, err := goquery.NewDocumentFromReader(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, "alice", doc.Find("#username-display").Text())
	assert.Equal(t, "1", doc.Find("#saved-count").Text())

	for _, c := range upstream.Calls()[1:] {
		assert.Equal(t, "Bearer tok", c.Auth)
	}
}

func TestHealth(t *testing.T) {
	t.Run("serving", func(t *testing.T) {
		upstream, handler := newTestServer(t, cookieBackend(t))
		upstream.Handle(http.MethodGet, "/health", http.StatusOK, map[string]string{"status": "healthy"})

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		var res HealthResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&res))
		assert.Equal(t, "serving", res.Status)
		assert.True(t, res.API)
		assert.True(t, res.Sessions)
	})

	t.Run("api down", func(t *testing.T) {
		_, handler := newTestServer(t, cookieBackend(t))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		var res HealthResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&res))
		assert.Equal(t, "not serving", res.Status)
		assert.False(t, res.API)
		assert.True(t, res.Sessions)
	})

	t.Run("sessions down", func(t *testing.T) {
		upstream, handler := newTestServer(t, downBackend{})
		upstream.Handle(http.MethodGet, "/health", http.StatusOK, map[string]string{"status": "healthy"})

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		var res HealthResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&res))
		assert.True(t, res.API)
		assert.False(t, res.Sessions)
	})
}

func TestCORS(t *testing.T) {
	preflight := func(handler http.Handler, origin string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodOptions, "/login", nil)
		req.Header.Set("Origin", origin)
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	t.Run("same origin only by default", func(t *testing.T) {
		_, handler := newTestServer(t, cookieBackend(t))

		rec := preflight(handler, "https://evil.example.com")
		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("listed origins", func(t *testing.T) {
		cfg := &config.Config{Environment: "test", CORSOrigins: []string{"https://app.example.com"}}
		_, handler := newTestServerWith(t, cfg, cookieBackend(t))

		rec := preflight(handler, "https://app.example.com")
		assert.Equal(t, "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))

		rec = preflight(handler, "https://evil.example.com")
		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})
}
