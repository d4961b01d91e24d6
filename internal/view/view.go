// Package view renders recipes, forms and pages from the embedded templates.
// Rendering never touches the network or session storage: everything a
// template shows is passed in.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/andrasnagy-data/greenplate/internal/shared/recipe"
)

//go:embed templates
var templateFS embed.FS

// GridState is the catalog grid's position in its fetch cycle.
type GridState string

const (
	GridIdle    GridState = "idle"
	GridLoading GridState = "loading"
	GridLoaded  GridState = "loaded"
	GridError   GridState = "error"
)

const (
	AlertError   = "error"
	AlertSuccess = "success"
)

type (
	Nav struct {
		Authenticated bool
		Username      string
	}

	PageData struct {
		Title   string
		Nav     Nav
		Content any
	}

	GridData struct {
		State   GridState
		Recipes []recipe.Summary
		Query   string
	}

	// ModalData shows save and like actions only when Authenticated.
	ModalData struct {
		Recipe        *recipe.Detail
		Authenticated bool
	}

	AccountCardData struct {
		Kind   recipe.Collection
		Recipe recipe.Summary
	}

	// CollectionData renders one account tab. OOB also refreshes the tab's count.
	CollectionData struct {
		Kind    recipe.Collection
		Recipes []recipe.Detail
		OOB     bool
	}

	AlertData struct {
		Kind    string
		Message string
	}

	// FormMessageData is shown next to a form. A non-empty RedirectTo sends the browser there after RedirectAfter.
	FormMessageData struct {
		Kind          string
		Title         string
		Message       string
		RedirectTo    string
		RedirectAfter time.Duration
	}

	CatalogData struct {
		Query      string
		Grid       GridData
		OpenRecipe int
	}

	AccountTab struct {
		Kind       recipe.Collection
		Active     bool
		Collection CollectionData
	}

	AccountData struct {
		Username string
		Tabs     []AccountTab
	}
)

func (d CollectionData) Cards() []AccountCardData {
	cards := make([]AccountCardData, len(d.Recipes))
	for i, r := range d.Recipes {
		cards[i] = AccountCardData{Kind: d.Kind, Recipe: r.Summary}
	}
	return cards
}

func (d CollectionData) EmptyMessage() string {
	return fmt.Sprintf("You have no %s recipes yet.", d.Kind)
}

func (d FormMessageData) DelaySeconds() int {
	return int(d.RedirectAfter / time.Second)
}

// Renderer holds the parsed templates: fragments in one set, one set per page.
type Renderer struct {
	fragments *template.Template
	pages     map[string]*template.Template
}

var funcs = template.FuncMap{
	"money": Money,
	"inc":   func(i int) int { return i + 1 },
	"query": url.QueryEscape,
}

// Money formats a cost in dollars with two decimals.
func Money(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

func NewRenderer() (*Renderer, error) {
	base, err := template.New("base").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	files, err := fs.Glob(templateFS, "templates/pages/*.html")
	if err != nil {
		return nil, err
	}

	pages := make(map[string]*template.Template, len(files))
	for _, file := range files {
		t, err := base.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := t.ParseFS(templateFS, file); err != nil {
			return nil, fmt.Errorf("parse page %s: %w", file, err)
		}
		pages[strings.TrimSuffix(path.Base(file), ".html")] = t
	}

	return &Renderer{fragments: base, pages: pages}, nil
}

// Pages lists the names of the page templates.
func (r *Renderer) Pages() []string {
	names := make([]string, 0, len(r.pages))
	for name := range r.pages {
		names = append(names, name)
	}
	return names
}

func (r *Renderer) Page(w io.Writer, name string, data PageData) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown page template %q", name)
	}
	return execute(w, t, "layout", data)
}

func (r *Renderer) Card(w io.Writer, s recipe.Summary) error {
	return execute(w, r.fragments, "card", s)
}

func (r *Renderer) AccountCard(w io.Writer, kind recipe.Collection, s recipe.Summary) error {
	return execute(w, r.fragments, "account-card", AccountCardData{Kind: kind, Recipe: s})
}

func (r *Renderer) Grid(w io.Writer, data GridData) error {
	return execute(w, r.fragments, "grid", data)
}

func (r *Renderer) Modal(w io.Writer, data ModalData) error {
	return execute(w, r.fragments, "modal", data)
}

func (r *Renderer) Collection(w io.Writer, data CollectionData) error {
	return execute(w, r.fragments, "collection", data)
}

func (r *Renderer) Alert(w io.Writer, data AlertData) error {
	return execute(w, r.fragments, "alert", data)
}

func (r *Renderer) FormMessage(w io.Writer, data FormMessageData) error {
	return execute(w, r.fragments, "form-message", data)
}

// execute renders into a buffer first so a template error never leaves half a response.
func execute(w io.Writer, t *template.Template, name string, data any) error {
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, name, data); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	_, err := buf.WriteTo(w)
	return err
}
