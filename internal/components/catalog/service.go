package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/andrasnagy-data/greenplate/internal/shared/apiclient"
	"github.com/andrasnagy-data/greenplate/internal/shared/recipe"
	"github.com/andrasnagy-data/greenplate/internal/shared/session"
	"github.com/andrasnagy-data/greenplate/internal/shared/validate"
)

type (
	servicer interface {
		Recipes(ctx context.Context, query string) (*GridOut, error)
		Recipe(ctx context.Context, id int) (*recipe.Detail, error)
		Random(ctx context.Context) (*recipe.Detail, error)
		Generate(ctx context.Context, in GenerateIn) (*recipe.Detail, error)
		AddToCollection(ctx context.Context, sess *session.Session, kind recipe.Collection, id int) error
	}

	service struct {
		api *apiclient.Client
	}
)

func NewService(api *apiclient.Client) servicer {
	return &service{api: api}
}

// Recipes lists every recipe, or searches when query is not blank.
func (s *service) Recipes(ctx context.Context, query string) (*GridOut, error) {
	query = strings.TrimSpace(query)

	var (
		recipes []recipe.Summary
		err     error
	)
	if query == "" {
		recipes, err = s.api.ListRecipes(ctx)
	} else {
		recipes, err = s.api.SearchRecipes(ctx, query)
	}
	if err != nil {
		return nil, fmt.Errorf("fetch recipes: %w", err)
	}
	return &GridOut{Query: query, Recipes: recipes}, nil
}

func (s *service) Recipe(ctx context.Context, id int) (*recipe.Detail, error) {
	return s.api.GetRecipe(ctx, id)
}

func (s *service) Random(ctx context.Context) (*recipe.Detail, error) {
	return s.api.RandomRecipe(ctx)
}

// Generate rejects blank input locally, before calling the API.
func (s *service) Generate(ctx context.Context, in GenerateIn) (*recipe.Detail, error) {
	input := strings.TrimSpace(in.Input)
	if err := validate.Required("input", input, msgGenerateEmpty); err != nil {
		return nil, err
	}
	return s.api.GenerateRecipe(ctx, input)
}

func (s *service) AddToCollection(ctx context.Context, sess *session.Session, kind recipe.Collection, id int) error {
	return s.api.AddToCollection(ctx, sess, kind, id)
}
