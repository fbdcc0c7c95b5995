package fileio

import (
	"fmt"
	"io"
	"strings"

	excelize "github.com/xuri/excelize/v2"

	"product-normalizer/internal/normalize/model"
)

const (
	resultsSheet = "normalization"
	catalogSheet = "catalog"
)

var (
	resultHeader  = []any{"name", "quantity", "price", "product_id", "normalized_name", "match_method", "confidence", "needs_review", "suggestions"}
	catalogHeader = []any{"product_id", "normalized_name", "category", "unit_of_measure", "aliases_fr", "aliases_en"}
)

// WriteResultsXLSX выгружает результаты пакетной нормализации;
// строки, требующие проверки, подсвечены.
func WriteResultsXLSX(w io.Writer, items []model.BatchItem) error {
	f, err := newWorkbook(resultsSheet, resultHeader)
	if err != nil {
		return err
	}
	defer f.Close()

	review, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"FFF2CC"}, Pattern: 1},
	})
	if err != nil {
		return err
	}

	for i, it := range items {
		row := i + 2
		res := model.MatchResult{Method: model.MethodNone, NeedsReview: true}
		if it.Normalization != nil {
			res = *it.Normalization
		}
		values := []any{
			it.Name, it.Quantity, it.Price,
			res.ProductID, res.NormalizedName, string(res.Method), res.Confidence, res.NeedsReview,
			formatSuggestions(res.Suggestions),
		}
		if err := setRow(f, resultsSheet, row, values); err != nil {
			return err
		}
		if res.NeedsReview {
			last, _ := excelize.CoordinatesToCellName(len(resultHeader), row)
			if err := f.SetCellStyle(resultsSheet, fmt.Sprintf("A%d", row), last, review); err != nil {
				return err
			}
		}
	}
	_ = f.SetColWidth(resultsSheet, "A", "A", 36)
	_ = f.SetColWidth(resultsSheet, "E", "E", 28)
	_ = f.SetColWidth(resultsSheet, "I", "I", 48)
	return f.Write(w)
}

// WriteCatalogXLSX выгружает каталог; файл читается обратно ReadProducts.
func WriteCatalogXLSX(w io.Writer, products []model.ProductRecord) error {
	f, err := newWorkbook(catalogSheet, catalogHeader)
	if err != nil {
		return err
	}
	defer f.Close()

	for i, p := range products {
		values := []any{
			p.ProductID, p.NormalizedName, p.Category, p.UnitOfMeasure,
			strings.Join(p.AliasesPrimary, "; "), strings.Join(p.AliasesSecondary, "; "),
		}
		if err := setRow(f, catalogSheet, i+2, values); err != nil {
			return err
		}
	}
	_ = f.SetColWidth(catalogSheet, "B", "B", 28)
	_ = f.SetColWidth(catalogSheet, "E", "F", 48)
	return f.Write(w)
}

func newWorkbook(sheet string, header []any) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		_ = f.Close()
		return nil, err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	if err := setRow(f, sheet, 1, header); err != nil {
		_ = f.Close()
		return nil, err
	}
	last, _ := excelize.CoordinatesToCellName(len(header), 1)
	if err := f.SetCellStyle(sheet, "A1", last, bold); err != nil {
		_ = f.Close()
		return nil, err
	}
	return f, nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

// "PROD_020 tomato (0.565); PROD_024 potato (0.4)"
func formatSuggestions(ss []model.Suggestion) string {
	parts := make([]string, 0, len(ss))
	for _, s := range ss {
		parts = append(parts, fmt.Sprintf("%s %s (%.3g)", s.ProductID, s.NormalizedName, s.Score))
	}
	return strings.Join(parts, "; ")
}
