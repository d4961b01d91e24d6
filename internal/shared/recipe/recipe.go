// Package recipe holds the recipe shapes returned by the GreenPlate API.
package recipe

import (
	"errors"
	"fmt"
)

type (
	// Summary is the shape returned by listing endpoints.
	Summary struct {
		ID         int     `json:"id"`
		Name       string  `json:"name"`
		Emoji      string  `json:"emoji"`
		Time       string  `json:"time"`
		Difficulty string  `json:"difficulty"`
		TotalCost  float64 `json:"total_cost"`
	}

	Ingredient struct {
		Name   string  `json:"name"`
		Amount string  `json:"amount"`
		Cost   float64 `json:"cost"`
	}

	// Detail is the shape returned by single-recipe endpoints.
	// TotalCost is taken as sent; it is not re-summed from Ingredients.
	Detail struct {
		Summary
		Ingredients  []Ingredient `json:"ingredients"`
		Instructions []string     `json:"instructions"`
		Servings     int          `json:"servings"`
	}
)

// Collection names one of the user's recipe sets.
type Collection string

const (
	Saved Collection = "saved"
	Liked Collection = "liked"
)

var ErrUnknownCollection = errors.New("unknown collection")

// Collections lists every collection in display order.
func Collections() []Collection {
	return []Collection{Saved, Liked}
}

func ParseCollection(s string) (Collection, error) {
	switch c := Collection(s); c {
	case Saved, Liked:
		return c, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCollection, s)
}

func (c Collection) String() string {
	return string(c)
}

// Title is the capitalized label used in tabs and exports.
func (c Collection) Title() string {
	switch c {
	case Saved:
		return "Saved"
	case Liked:
		return "Liked"
	}
	return string(c)
}
