// Package apitest runs a fake GreenPlate API for handler tests.
package apitest

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/andrasnagy-data/greenplate/internal/shared/apiclient"
	"github.com/andrasnagy-data/greenplate/internal/shared/session"
	"github.com/stretchr/testify/require"
)

// Call is one request the fake API received, with the /api prefix stripped.
type Call struct {
	Method string
	Path   string
	Query  string
	Auth   string
	Body   string
}

type Upstream struct {
	Client *apiclient.Client

	mu     sync.Mutex
	calls  []Call
	routes map[string]http.HandlerFunc
}

// New starts a fake API that answers 404 for every route not registered with Handle.
func New(t *testing.T) *Upstream {
	t.Helper()

	u := &Upstream{routes: map[string]http.HandlerFunc{}}
	srv := httptest.NewServer(http.HandlerFunc(u.serve))
	t.Cleanup(srv.Close)

	client, err := apiclient.NewClient(srv.URL+"/api", srv.Client())
	require.NoError(t, err)
	u.Client = client
	return u
}

func (u *Upstream) serve(w http.ResponseWriter, r *http.Request) {
	raw, _ := io.ReadAll(r.Body)
	path := strings.TrimPrefix(r.URL.Path, "/api")

	u.mu.Lock()
	u.calls = append(u.calls, Call{
		Method: r.Method,
		Path:   path,
		Query:  r.URL.RawQuery,
		Auth:   r.Header.Get("Authorization"),
		Body:   string(raw),
	})
	handler, ok := u.routes[r.Method+" "+path]
	u.mu.Unlock()

	if !ok {
		JSON(w, http.StatusNotFound, map[string]string{"message": "Endpoint not found"})
		return
	}
	handler(w, r)
}

// Handle answers method and path with status and body encoded as JSON.
func (u *Upstream) Handle(method, path string, status int, body any) {
	u.HandleFunc(method, path, func(w http.ResponseWriter, _ *http.Request) {
		JSON(w, status, body)
	})
}

func (u *Upstream) HandleFunc(method, path string, fn http.HandlerFunc) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.routes[method+" "+path] = fn
}

func (u *Upstream) Calls() []Call {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]Call(nil), u.calls...)
}

func JSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// LoggedIn returns a store over fresh memory storage holding token and username.
func LoggedIn(t *testing.T, token, username string) *session.Store {
	t.Helper()
	store := session.NewStore(session.NewMemoryStorage())
	require.NoError(t, store.Login(context.Background(), token, username))
	return store
}

// WithStore returns r carrying store as its session.
func WithStore(r *http.Request, store *session.Store) *http.Request {
	return r.WithContext(session.WithStore(r.Context(), store))
}

// HTMX marks r as issued by HTMX.
func HTMX(r *http.Request) *http.Request {
	r.Header.Set("HX-Request", "true")
	return r
}
