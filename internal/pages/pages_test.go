package pages

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		path string
		want Page
	}{
		{"/", Catalog},
		{"", Catalog},
		{"/index.html", Catalog},
		{"/login", Login},
		{"/login.html", Login},
		{"/register.html", Register},
		{"/forgot-password", ForgotPassword},
		{"/account.html", Account},
		{"/static/account.html", Unknown},
		{"/catalog", Unknown},
		{"/x/login", Unknown},
		{"/about.html", Unknown},
		{"/recipes", Unknown},
		{"/Login.html", Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(tt.path))
		})
	}
}

func TestAliases_ResolveToTheirPage(t *testing.T) {
	seen := map[string]Page{}
	for _, p := range All() {
		for _, alias := range p.Aliases() {
			assert.Equal(t, p, Resolve(alias), alias)
			if other, dup := seen[alias]; dup {
				t.Fatalf("alias %s shared by %s and %s", alias, p, other)
			}
			seen[alias] = p
		}
	}
	assert.Empty(t, Unknown.Aliases())
}

type stubController struct {
	page    Page
	mounted bool
}

func (s *stubController) Page() Page { return s.page }

func (s *stubController) ServePage(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte(s.page.String()))
}

func (s *stubController) Mount(chi.Router) { s.mounted = true }

func TestRegistry(t *testing.T) {
	t.Run("duplicate page", func(t *testing.T) {
		_, err := NewRegistry(&stubController{page: Login}, &stubController{page: Login})
		assert.Error(t, err)
	})

	t.Run("unknown page", func(t *testing.T) {
		_, err := NewRegistry(&stubController{page: Unknown})
		assert.Error(t, err)
	})

	t.Run("mount", func(t *testing.T) {
		catalog := &stubController{page: Catalog}
		login := &stubController{page: Login}
		reg, err := NewRegistry(catalog, login)
		require.NoError(t, err)

		_, ok := reg.Lookup(Account)
		assert.False(t, ok)

		r := chi.NewRouter()
		reg.Mount(r)
		assert.True(t, catalog.mounted)
		assert.True(t, login.mounted)

		for path, want := range map[string]string{"/": "catalog", "/index.html": "catalog", "/login.html": "login"} {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
			assert.Equal(t, want, rec.Body.String(), path)
		}

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/account", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestResolve_AgreesWithMountedRoutes(t *testing.T) {
	var controllers []Controller
	for _, p := range All() {
		controllers = append(controllers, &stubController{page: p})
	}
	reg, err := NewRegistry(controllers...)
	require.NoError(t, err)
	r := chi.NewRouter()
	reg.Mount(r)

	for _, path := range []string{"/", "/index.html", "/catalog", "/catalog.html", "/x/login", "/login", "/account.html", "/static/account.html"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

		if page := Resolve(path); page == Unknown {
			assert.Equal(t, http.StatusNotFound, rec.Code, path)
		} else {
			assert.Equal(t, page.String(), rec.Body.String(), path)
		}
	}
}
