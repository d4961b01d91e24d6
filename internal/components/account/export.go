package account

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/andrasnagy-data/greenplate/internal/shared/recipe"
	"github.com/xuri/excelize/v2"
)

var exportHeader = []string{"ID", "Name", "Emoji", "Time", "Difficulty", "Servings", "Total Cost", "Ingredients"}

func exportRow(r recipe.Detail) []string {
	return []string{
		strconv.Itoa(r.ID),
		r.Name,
		r.Emoji,
		r.Time,
		r.Difficulty,
		strconv.Itoa(r.Servings),
		strconv.FormatFloat(r.TotalCost, 'f', 2, 64),
		ingredientList(r.Ingredients),
	}
}

func ingredientList(ingredients []recipe.Ingredient) string {
	parts := make([]string, len(ingredients))
	for i, ing := range ingredients {
		if ing.Amount == "" {
			parts[i] = ing.Name
			continue
		}
		parts[i] = fmt.Sprintf("%s (%s)", ing.Name, ing.Amount)
	}
	return strings.Join(parts, "; ")
}

// exportFilename is e.g. "greenplate-saved.xlsx".
func exportFilename(kind recipe.Collection, format ExportFormat) string {
	return fmt.Sprintf("greenplate-%s.%s", kind, format)
}

func writeCSV(w io.Writer, recipes []recipe.Detail) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return err
	}
	for _, r := range recipes {
		if err := cw.Write(exportRow(r)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// writeXLSX writes one sheet named after the collection. Numeric columns stay numbers.
func writeXLSX(w io.Writer, kind recipe.Collection, recipes []recipe.Detail) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := kind.Title()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}

	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return err
	}

	header := make([]any, len(exportHeader))
	for i, h := range exportHeader {
		header[i] = h
	}
	if err := sw.SetRow("A1", header); err != nil {
		return err
	}

	for i, r := range recipes {
		row := []any{
			r.ID, r.Name, r.Emoji, r.Time, r.Difficulty, r.Servings, r.TotalCost, ingredientList(r.Ingredients),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, row); err != nil {
			return err
		}
	}
	if err := sw.Flush(); err != nil {
		return err
	}

	_, err = f.WriteTo(w)
	return err
}
