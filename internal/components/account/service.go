package account

import (
	"context"
	"fmt"

	"github.com/andrasnagy-data/greenplate/internal/shared/apiclient"
	"github.com/andrasnagy-data/greenplate/internal/shared/recipe"
	"github.com/andrasnagy-data/greenplate/internal/shared/session"
)

type (
	servicer interface {
		Collections(ctx context.Context, sess *session.Session) (*CollectionsOut, error)
		Collection(ctx context.Context, sess *session.Session, kind recipe.Collection) ([]recipe.Detail, error)
		Remove(ctx context.Context, sess *session.Session, kind recipe.Collection, id int) error
	}

	service struct {
		api *apiclient.Client
	}
)

func NewService(api *apiclient.Client) servicer {
	return &service{api: api}
}

func (s *service) Collections(ctx context.Context, sess *session.Session) (*CollectionsOut, error) {
	saved, err := s.api.ListCollection(ctx, sess, recipe.Saved)
	if err != nil {
		return nil, fmt.Errorf("list saved recipes: %w", err)
	}
	liked, err := s.api.ListCollection(ctx, sess, recipe.Liked)
	if err != nil {
		return nil, fmt.Errorf("list liked recipes: %w", err)
	}
	return &CollectionsOut{Saved: saved, Liked: liked}, nil
}

func (s *service) Collection(ctx context.Context, sess *session.Session, kind recipe.Collection) ([]recipe.Detail, error) {
	return s.api.ListCollection(ctx, sess, kind)
}

// Remove deletes the recipe from the collection. Callers re-fetch the collection themselves.
func (s *service) Remove(ctx context.Context, sess *session.Session, kind recipe.Collection, id int) error {
	if err := s.api.RemoveFromCollection(ctx, sess, kind, id); err != nil {
		return fmt.Errorf("remove recipe %d from %s: %w", id, kind, err)
	}
	return nil
}
