package fileio

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"product-normalizer/internal/normalize/model"
)

// Заголовки кассовых выгрузок и прайсов (FR/EN), альтернативы через "|".
const (
	NameColumns     = "name|désignation|libellé|article|produit|product|item|description"
	QuantityColumns = "quantity|quantité|qté|qte|qty"
	PriceColumns    = "price|prix|montant|amount"

	CatalogNameColumns     = "normalized_name|nom|name|désignation"
	CatalogCategoryColumns = "category|catégorie|famille"
	CatalogUnitColumns     = "unit_of_measure|unité|unit"
	CatalogAliasFRColumns  = "aliases_fr|alias fr|synonymes"
	CatalogAliasENColumns  = "aliases_en|alias en|english"
)

var ErrNoNameColumn = errors.New("name column not found")

// ItemColumns — желаемые имена колонок; пустое поле — значение по умолчанию.
type ItemColumns struct {
	Name     string
	Quantity string
	Price    string
}

func (c ItemColumns) withDefaults() ItemColumns {
	if strings.TrimSpace(c.Name) == "" {
		c.Name = NameColumns
	}
	if strings.TrimSpace(c.Quantity) == "" {
		c.Quantity = QuantityColumns
	}
	if strings.TrimSpace(c.Price) == "" {
		c.Price = PriceColumns
	}
	return c
}

// ReadReceiptItems читает позиции чека из csv/xls/xlsx. Строки без
// названия пропускаются, прочие колонки попадают в Extra.
func ReadReceiptItems(r io.Reader, filename string, headerRow int, cols ItemColumns) ([]model.BatchItem, error) {
	recs, err := ReadAnyMaps(r, filename, headerRow)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return []model.BatchItem{}, nil
	}
	cols = cols.withDefaults()

	nameKey := ResolveKey(recs[0], cols.Name)
	if nameKey == "" {
		return nil, fmt.Errorf("%w: want %q, have %s", ErrNoNameColumn, cols.Name, headerList(recs[0]))
	}
	qtyKey := ResolveKey(recs[0], cols.Quantity)
	priceKey := ResolveKey(recs[0], cols.Price)
	if qtyKey == nameKey {
		qtyKey = ""
	}
	if priceKey == nameKey || priceKey == qtyKey {
		priceKey = ""
	}

	items := make([]model.BatchItem, 0, len(recs))
	for _, rec := range recs {
		name := strings.TrimSpace(rec[nameKey])
		if name == "" {
			continue
		}
		it := model.BatchItem{Name: name}
		if qtyKey != "" {
			it.Quantity, _ = ParseAmount(rec[qtyKey])
		}
		if priceKey != "" {
			it.Price, _ = ParseAmount(rec[priceKey])
		}
		for k, v := range rec {
			if k == nameKey || k == qtyKey || k == priceKey {
				continue
			}
			if v = strings.TrimSpace(v); v != "" {
				if it.Extra == nil {
					it.Extra = make(map[string]any)
				}
				it.Extra[k] = v
			}
		}
		items = append(items, it)
	}
	return items, nil
}

// ReadProducts читает товары для импорта в каталог.
func ReadProducts(r io.Reader, filename string, headerRow int) ([]model.NewProduct, error) {
	recs, err := ReadAnyMaps(r, filename, headerRow)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return []model.NewProduct{}, nil
	}
	nameKey := ResolveKey(recs[0], CatalogNameColumns)
	if nameKey == "" {
		return nil, fmt.Errorf("%w: want %q, have %s", ErrNoNameColumn, CatalogNameColumns, headerList(recs[0]))
	}
	catKey := ResolveKey(recs[0], CatalogCategoryColumns)
	unitKey := ResolveKey(recs[0], CatalogUnitColumns)
	frKey := ResolveKey(recs[0], CatalogAliasFRColumns)
	enKey := ResolveKey(recs[0], CatalogAliasENColumns)

	out := make([]model.NewProduct, 0, len(recs))
	for _, rec := range recs {
		name := strings.TrimSpace(rec[nameKey])
		if name == "" {
			continue
		}
		out = append(out, model.NewProduct{
			NormalizedName: name,
			Category:       field(rec, catKey),
			UnitOfMeasure:  field(rec, unitKey),
			AliasesFR:      splitAliases(field(rec, frKey)),
			AliasesEN:      splitAliases(field(rec, enKey)),
		})
	}
	return out, nil
}

func field(rec map[string]string, key string) string {
	if key == "" {
		return ""
	}
	return strings.TrimSpace(rec[key])
}

// splitAliases: "banane; banane douce|plantain" → три алиаса.
func splitAliases(s string) []string {
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == ';' || r == '|' || r == ',' })
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func headerList(rec map[string]string) string {
	keys := make([]string, 0, len(rec))
	for k := range rec {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return "[" + strings.Join(keys, ", ") + "]"
}
