// GreenPlate web front end: server-rendered pages with HTMX fragments over the recipe REST API.
package main

import (
	"github.com/andrasnagy-data/greenplate/internal/components/account"
	"github.com/andrasnagy-data/greenplate/internal/components/auth"
	"github.com/andrasnagy-data/greenplate/internal/components/catalog"
	"github.com/andrasnagy-data/greenplate/internal/pages"
	"github.com/andrasnagy-data/greenplate/internal/server"
	"github.com/andrasnagy-data/greenplate/internal/shared/apiclient"
	"github.com/andrasnagy-data/greenplate/internal/shared/config"
	"github.com/andrasnagy-data/greenplate/internal/shared/logging"
	"github.com/andrasnagy-data/greenplate/internal/shared/session"
	"github.com/andrasnagy-data/greenplate/internal/view"
	"github.com/rs/zerolog/log"
	"go.uber.org/fx"
)

// asController registers a page router in the controllers group the server mounts.
func asController(constructor any) any {
	return fx.Annotate(
		constructor,
		fx.As(new(pages.Controller)),
		fx.ResultTags(`group:"controllers"`),
	)
}

func main() {
	// The session backend decides which connections exist, so config is read before the graph is built.
	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	fx.New(
		fx.Supply(cfg),
		session.Module(cfg.SessionBackend),
		fx.Provide(
			logging.NewLogger,
			apiclient.New,
			view.NewRenderer,
			server.NewServer,
			server.NewHealthSrvc,
			server.NewHealthHandler,
			catalog.NewService,
			auth.NewAuthService,
			account.NewService,
			asController(catalog.NewRouter),
			asController(auth.NewLoginRouter),
			asController(auth.NewRegisterRouter),
			asController(auth.NewForgotPasswordRouter),
			asController(account.NewRouter),
		),
		fx.Invoke(server.Register),
	).Run()
}
