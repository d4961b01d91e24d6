package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/andrasnagy-data/greenplate/internal/shared/recipe"
	"github.com/andrasnagy-data/greenplate/internal/shared/session"
)

type (
	LoginRequest struct {
		EmailOrUsername string `json:"email_or_username"`
		Password        string `json:"password"`
	}

	LoginResponse struct {
		Token    string `json:"token"`
		Username string `json:"username"`
	}

	RegisterRequest struct {
		Email    string `json:"email"`
		Username string `json:"username"`
		Password string `json:"password"`
	}

	// MessageResponse is the body of API calls that only report an outcome.
	MessageResponse struct {
		Message string `json:"message"`
	}

	generateRequest struct {
		Input string `json:"input"`
	}

	collectionRequest struct {
		RecipeID int `json:"recipe_id"`
	}
)

func (c *Client) ListRecipes(ctx context.Context) ([]recipe.Summary, error) {
	var out []recipe.Summary
	if err := c.Get(ctx, "/recipes", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) SearchRecipes(ctx context.Context, query string) ([]recipe.Summary, error) {
	var out []recipe.Summary
	path := "/recipes/search?" + url.Values{"q": {query}}.Encode()
	if err := c.Get(ctx, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetRecipe(ctx context.Context, id int) (*recipe.Detail, error) {
	var out recipe.Detail
	if err := c.Get(ctx, fmt.Sprintf("/recipes/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) RandomRecipe(ctx context.Context) (*recipe.Detail, error) {
	var out recipe.Detail
	if err := c.Get(ctx, "/recipes/random", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GenerateRecipe asks the API to create a recipe from a dish name, ingredient list or description.
func (c *Client) GenerateRecipe(ctx context.Context, input string) (*recipe.Detail, error) {
	var out recipe.Detail
	err := c.do(ctx, http.MethodPost, "/recipes/generate", nil, generateRequest{Input: input}, &out,
		"Failed to generate recipe. Please try again.")
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Login(ctx context.Context, in LoginRequest) (*LoginResponse, error) {
	var out LoginResponse
	err := c.do(ctx, http.MethodPost, "/auth/login", nil, in, &out,
		"Login failed. Please check your credentials.")
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Register(ctx context.Context, in RegisterRequest) (*MessageResponse, error) {
	var out MessageResponse
	err := c.do(ctx, http.MethodPost, "/auth/register", nil, in, &out,
		"Registration failed. Please try again.")
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ForgotPassword(ctx context.Context, email string) (*MessageResponse, error) {
	var out MessageResponse
	err := c.do(ctx, http.MethodPost, "/auth/forgot-password", nil, map[string]string{"email": email}, &out,
		"Unable to send reset email. Please try again.")
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ListCollection returns the recipes in one of the user's collections.
func (c *Client) ListCollection(ctx context.Context, sess *session.Session, kind recipe.Collection) ([]recipe.Detail, error) {
	var out []recipe.Detail
	if err := c.Get(ctx, "/user/"+kind.String(), sess, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) AddToCollection(ctx context.Context, sess *session.Session, kind recipe.Collection, id int) error {
	return c.Post(ctx, "/user/"+kind.String(), sess, collectionRequest{RecipeID: id}, nil)
}

func (c *Client) RemoveFromCollection(ctx context.Context, sess *session.Session, kind recipe.Collection, id int) error {
	return c.Delete(ctx, fmt.Sprintf("/user/%s/%d", kind, id), sess)
}
