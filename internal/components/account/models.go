package account

import (
	"errors"

	"github.com/andrasnagy-data/greenplate/internal/shared/recipe"
)

// ExportFormat is the file type a collection is exported as.
type ExportFormat string

const (
	FormatCSV  ExportFormat = "csv"
	FormatXLSX ExportFormat = "xlsx"
)

var ErrUnknownFormat = errors.New("unknown export format")

func ParseExportFormat(s string) (ExportFormat, error) {
	switch f := ExportFormat(s); f {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return f, nil
	}
	return "", ErrUnknownFormat
}

func (f ExportFormat) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv"
}

type (
	// CollectionsOut holds both collections for the account page.
	CollectionsOut struct {
		Saved []recipe.Detail
		Liked []recipe.Detail
	}
)

func (c *CollectionsOut) Of(kind recipe.Collection) []recipe.Detail {
	if kind == recipe.Liked {
		return c.Liked
	}
	return c.Saved
}

const (
	msgRemoveFailed = "Failed to remove recipe. Please try again."
	msgReloadFailed = "Recipe removed, but the list could not be reloaded. Please refresh the page."
)
