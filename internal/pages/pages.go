// Package pages names every page the front end serves and routes each to exactly one controller.
package pages

import (
	"fmt"
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"
)

// Page identifies one logical page.
type Page int

const (
	Unknown Page = iota
	Catalog
	Login
	Register
	ForgotPassword
	Account
)

// All lists every known page.
func All() []Page {
	return []Page{Catalog, Login, Register, ForgotPassword, Account}
}

var names = map[Page]string{
	Catalog:        "catalog",
	Login:          "login",
	Register:       "register",
	ForgotPassword: "forgot-password",
	Account:        "account",
}

var titles = map[Page]string{
	Catalog:        "Recipes",
	Login:          "Log In",
	Register:       "Create Account",
	ForgotPassword: "Reset Password",
	Account:        "My Account",
}

// String is also the name of the page's template.
func (p Page) String() string {
	if name, ok := names[p]; ok {
		return name
	}
	return "unknown"
}

func (p Page) Title() string {
	return titles[p]
}

// Path is the canonical URL of the page.
func (p Page) Path() string {
	switch p {
	case Unknown:
		return ""
	case Catalog:
		return "/"
	}
	return "/" + p.String()
}

// Filename is the legacy static file name the page used to be served as.
func (p Page) Filename() string {
	switch p {
	case Unknown:
		return ""
	case Catalog:
		return "index.html"
	}
	return p.String() + ".html"
}

// Aliases lists every path that resolves to p, canonical first.
func (p Page) Aliases() []string {
	if p == Unknown {
		return nil
	}
	return []string{p.Path(), "/" + p.Filename()}
}

// Resolve maps a request path to the page routed at it. Only the page aliases
// resolve, so Resolve and the mounted router agree; anything else is Unknown.
func Resolve(path string) Page {
	if path == "" {
		path = "/"
	}
	for _, p := range All() {
		if slices.Contains(p.Aliases(), path) {
			return p
		}
	}
	return Unknown
}

// Controller serves one page and the fragment endpoints that page uses.
type Controller interface {
	Page() Page
	// ServePage renders the full page.
	ServePage(w http.ResponseWriter, r *http.Request)
	// Mount registers the controller's fragment endpoints.
	Mount(r chi.Router)
}

// Registry holds at most one controller per page.
type Registry struct {
	controllers map[Page]Controller
}

// NewRegistry resolves every controller's page once. Registering Unknown or
// the same page twice is an error.
func NewRegistry(controllers ...Controller) (*Registry, error) {
	reg := &Registry{controllers: make(map[Page]Controller, len(controllers))}
	for _, c := range controllers {
		page := c.Page()
		if page == Unknown {
			return nil, fmt.Errorf("controller %T has no page", c)
		}
		if existing, ok := reg.controllers[page]; ok {
			return nil, fmt.Errorf("page %s registered by both %T and %T", page, existing, c)
		}
		for _, alias := range page.Aliases() {
			if Resolve(alias) != page {
				return nil, fmt.Errorf("alias %s of page %s resolves to %s", alias, page, Resolve(alias))
			}
		}
		reg.controllers[page] = c
	}
	return reg, nil
}

// Lookup returns the controller for page, if one is registered.
func (reg *Registry) Lookup(page Page) (Controller, bool) {
	c, ok := reg.controllers[page]
	return c, ok
}

// Mount serves every registered page at each of its aliases and lets each
// controller add its own endpoints. Pages are mounted in All() order.
func (reg *Registry) Mount(r chi.Router) {
	for _, page := range All() {
		c, ok := reg.controllers[page]
		if !ok {
			continue
		}
		for _, alias := range page.Aliases() {
			r.Get(alias, c.ServePage)
		}
		c.Mount(r)
	}
}
