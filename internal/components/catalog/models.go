package catalog

import "github.com/andrasnagy-data/greenplate/internal/shared/recipe"

type (
	// GridOut is one fetch cycle's result for the recipe grid.
	GridOut struct {
		Query   string
		Recipes []recipe.Summary
	}

	GenerateIn struct {
		Input string `json:"input"`
	}
)

const (
	msgGenerateEmpty  = "Please provide a recipe name or description"
	msgGenerateFailed = "Failed to generate recipe. Please try again."
	msgRandomFailed   = "Failed to load random recipe. Please try again."
	msgRecipeFailed   = "Failed to load recipe. Please try again."
	msgLoginRequired  = "Please log in to save and like recipes!"
)

// collectionMessages are the alert texts for adding to a collection.
var collectionMessages = map[recipe.Collection]struct{ ok, failed string }{
	recipe.Saved: {"Recipe saved successfully!", "Failed to save recipe. Please try again."},
	recipe.Liked: {"Recipe liked successfully!", "Failed to like recipe. Please try again."},
}
