package auth

import (
	"errors"
	"io"
	"net/http"

	"github.com/andrasnagy-data/greenplate/internal/pages"
	"github.com/andrasnagy-data/greenplate/internal/shared/apiclient"
	"github.com/andrasnagy-data/greenplate/internal/shared/htmx"
	"github.com/andrasnagy-data/greenplate/internal/shared/session"
	"github.com/andrasnagy-data/greenplate/internal/shared/validate"
	"github.com/andrasnagy-data/greenplate/internal/view"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"
)

type (
	// forms holds what the login, register and forgot-password pages share.
	forms struct {
		service  servicer
		renderer *view.Renderer
	}

	LoginRouter          struct{ forms }
	RegisterRouter       struct{ forms }
	ForgotPasswordRouter struct{ forms }
)

func NewLoginRouter(service servicer, renderer *view.Renderer) *LoginRouter {
	return &LoginRouter{forms{service: service, renderer: renderer}}
}

func NewRegisterRouter(service servicer, renderer *view.Renderer) *RegisterRouter {
	return &RegisterRouter{forms{service: service, renderer: renderer}}
}

func NewForgotPasswordRouter(service servicer, renderer *view.Renderer) *ForgotPasswordRouter {
	return &ForgotPasswordRouter{forms{service: service, renderer: renderer}}
}

func (r *LoginRouter) Page() pages.Page          { return pages.Login }
func (r *RegisterRouter) Page() pages.Page       { return pages.Register }
func (r *ForgotPasswordRouter) Page() pages.Page { return pages.ForgotPassword }

func (r *LoginRouter) ServePage(w http.ResponseWriter, req *http.Request) {
	r.servePage(w, req, pages.Login)
}

func (r *RegisterRouter) ServePage(w http.ResponseWriter, req *http.Request) {
	r.servePage(w, req, pages.Register)
}

func (r *ForgotPasswordRouter) ServePage(w http.ResponseWriter, req *http.Request) {
	r.servePage(w, req, pages.ForgotPassword)
}

func (r *LoginRouter) Mount(router chi.Router) {
	router.Post(pages.Login.Path(), r.HandleLogin)
	router.Post("/logout", r.HandleLogout)
}

func (r *RegisterRouter) Mount(router chi.Router) {
	router.Post(pages.Register.Path(), r.HandleRegister)
}

func (r *ForgotPasswordRouter) Mount(router chi.Router) {
	router.Post(pages.ForgotPassword.Path(), r.HandleForgotPassword)
}

// HandleLogin stores the session and sends the browser to the catalog.
func (r *LoginRouter) HandleLogin(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	logger := hlog.FromRequest(req)

	login := req.FormValue("email_or_username")
	logger.Debug().Str("login", login).Msg("Login attempt")

	out, err := r.service.Login(ctx, LoginIn{EmailOrUsername: login, Password: req.FormValue("password")})
	if err != nil {
		r.fail(w, req, err, "Login failed")
		return
	}

	if err := session.FromContext(ctx).Login(ctx, out.Token, out.Username); err != nil {
		logger.Error().Err(err).Str("username", out.Username).Msg("Login failed: could not store session")
		r.message(w, req, view.FormMessageData{Kind: view.AlertError, Message: msgUnexpected})
		return
	}

	logger.Debug().Str("username", out.Username).Msg("Login successful")
	htmx.Redirect(w, req, pages.Catalog.Path())
}

// HandleLogout clears the session and sends the browser to the catalog.
func (r *LoginRouter) HandleLogout(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	logger := hlog.FromRequest(req)

	if err := session.FromContext(ctx).Logout(ctx); err != nil {
		logger.Error().Err(err).Msg("Logout failed: could not clear session")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	logger.Debug().Msg("Logged out")
	htmx.Redirect(w, req, pages.Catalog.Path())
}

func (r *RegisterRouter) HandleRegister(w http.ResponseWriter, req *http.Request) {
	logger := hlog.FromRequest(req)

	in := RegisterIn{
		Email:                req.FormValue("email"),
		Username:             req.FormValue("username"),
		Password:             req.FormValue("password"),
		PasswordConfirmation: req.FormValue("confirm_password"),
	}
	if err := r.service.Register(req.Context(), in); err != nil {
		r.fail(w, req, err, "Registration failed")
		return
	}

	logger.Info().Str("username", in.Username).Msg("Account registered")
	r.message(w, req, view.FormMessageData{
		Kind:          view.AlertSuccess,
		Message:       msgRegistered,
		RedirectTo:    pages.Login.Path(),
		RedirectAfter: registerRedirectAfter,
	})
}

func (r *ForgotPasswordRouter) HandleForgotPassword(w http.ResponseWriter, req *http.Request) {
	logger := hlog.FromRequest(req)

	if err := r.service.ForgotPassword(req.Context(), req.FormValue("email")); err != nil {
		r.fail(w, req, err, "Password reset failed")
		return
	}

	logger.Debug().Msg("Password reset requested")
	r.message(w, req, view.FormMessageData{
		Kind:          view.AlertSuccess,
		Title:         msgResetSentTitle,
		Message:       msgResetSent,
		RedirectTo:    pages.Login.Path(),
		RedirectAfter: resetRedirectAfter,
	})
}

func (f *forms) servePage(w http.ResponseWriter, req *http.Request, page pages.Page) {
	ctx := req.Context()
	sess, _ := session.FromContext(ctx).Current(ctx)

	view.Write(w, req, func(out io.Writer) error {
		return f.renderer.Page(out, page.String(), view.PageData{
			Title: page.Title(),
			Nav:   view.NavFor(sess),
		})
	})
}

// fail shows err next to the form: validation and API messages verbatim, anything else generically.
func (f *forms) fail(w http.ResponseWriter, req *http.Request, err error, what string) {
	logger := hlog.FromRequest(req)

	message := msgUnexpected
	var apiErr *apiclient.APIError
	switch verr, isValidation := validate.IsError(err); {
	case isValidation:
		logger.Debug().Str("field", verr.Field).Msg(what + ": invalid form")
		message = verr.Message
	case errors.As(err, &apiErr):
		logger.Warn().Err(err).Int("status", apiErr.Status).Msg(what)
		message = apiErr.Message
	default:
		logger.Error().Err(err).Msg(what)
	}

	f.message(w, req, view.FormMessageData{Kind: view.AlertError, Message: message})
}

func (f *forms) message(w http.ResponseWriter, req *http.Request, data view.FormMessageData) {
	view.Write(w, req, func(out io.Writer) error {
		return f.renderer.FormMessage(out, data)
	})
}
