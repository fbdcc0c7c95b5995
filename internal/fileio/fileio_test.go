package fileio

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	excelize "github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"

	"product-normalizer/internal/normalize/model"
)

func TestReadCSVUTF8WithBOM(t *testing.T) {
	data := "\xEF\xBB\xBFDésignation,Quantité,Prix\nTomates fraîches,2,\"1 500,00\"\n,,\nBNN PLTN,1,800\n"
	recs, err := ReadAnyMaps(strings.NewReader(data), "ticket.csv", 1)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "Tomates fraîches", recs[0]["Désignation"])
	assert.Equal(t, "1 500,00", recs[0]["Prix"])
	assert.Equal(t, "BNN PLTN", recs[1]["Désignation"])
}

func TestReadCSVSemicolonWindows1252(t *testing.T) {
	text := "Désignation;Quantité;Prix unitaire\n" +
		"Crème fraîche épaisse;1;2,50\n" +
		"Pâté de campagne à l'ancienne;2;3,20\n" +
		"Fève de cacao sèche;1;1,10\n" +
		"Bière blonde légère;6;0,95\n"
	encoded, err := charmap.Windows1252.NewEncoder().String(text)
	require.NoError(t, err)

	recs, err := ReadAnyMaps(strings.NewReader(encoded), "export.csv", 1)
	require.NoError(t, err)
	require.Len(t, recs, 4)
	assert.Equal(t, "Crème fraîche épaisse", recs[0]["Désignation"])
	assert.Equal(t, "Bière blonde légère", recs[3]["Désignation"])
	assert.Equal(t, "0,95", recs[3]["Prix unitaire"])
}

func TestReadAnyMapsUnsupported(t *testing.T) {
	_, err := ReadAnyMaps(strings.NewReader("x"), "ticket.pdf", 1)
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestHeaderRowAndEmptyHeaders(t *testing.T) {
	data := "Ticket 0042\nArticle,,Montant\nRiz,x,1000\n"
	recs, err := ReadAnyMaps(strings.NewReader(data), "t.csv", 2)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, map[string]string{"Article": "Riz", "Column 2": "x", "Montant": "1000"}, recs[0])
}

func TestDuplicateHeadersAndHeaderBeyondData(t *testing.T) {
	data := "Article;Prix;Prix\nRiz;1000;900\n"
	recs, err := ReadAnyMaps(strings.NewReader(data), "t.csv", 1)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, map[string]string{"Article": "Riz", "Prix": "1000", "Prix (2)": "900"}, recs[0])

	recs, err = ReadAnyMaps(strings.NewReader(data), "t.csv", 5)
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestResolveKey(t *testing.T) {
	rec := map[string]string{"N°": "", "Désignation article": "", "Qté": "", "Prix TTC": ""}

	assert.Equal(t, "Désignation article", ResolveKey(rec, NameColumns))
	assert.Equal(t, "Qté", ResolveKey(rec, QuantityColumns))
	assert.Equal(t, "Prix TTC", ResolveKey(rec, PriceColumns))
	assert.Equal(t, "N°", ResolveKey(rec, "N°"))
	assert.Empty(t, ResolveKey(rec, "barcode|ean"))
	assert.Empty(t, ResolveKey(rec, ""))
}

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"1 234,50", 1234.5, true},
		{"1\u00a0234,50", 1234.5, true},
		{"2 500 FC", 2500, true},
		{"1,5", 1.5, true},
		{"1.234,50", 1234.5, true},
		{"1,234.50", 1234.5, true},
		{"1.234.567", 1234567, true},
		{"-3", -3, true},
		{"", 0, false},
		{"n/a", 0, false},
	}
	for _, tc := range cases {
		got, ok := ParseAmount(tc.in)
		assert.Equal(t, tc.ok, ok, tc.in)
		assert.InDelta(t, tc.want, got, 1e-9, tc.in)
	}
}

func TestReadReceiptItems(t *testing.T) {
	data := "Libellé;Qté;Prix;Rayon\nTomates fraîches;2;1 500,00;Légumes\n;1;10;\nSavon OMO;1;2 000;Hygiène\n"
	items, err := ReadReceiptItems(strings.NewReader(data), "ticket.csv", 1, ItemColumns{})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, model.BatchItem{
		Name: "Tomates fraîches", Quantity: 2, Price: 1500,
		Extra: map[string]any{"Rayon": "Légumes"},
	}, items[0])
	assert.Equal(t, "Savon OMO", items[1].Name)
	assert.Equal(t, 2000.0, items[1].Price)

	items, err = ReadReceiptItems(strings.NewReader("Code,Texte\n1,Riz\n"), "t.csv", 1, ItemColumns{Name: "Texte"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Riz", items[0].Name)
	assert.Zero(t, items[0].Quantity)

	_, err = ReadReceiptItems(strings.NewReader("Code,EAN\n1,2\n"), "t.csv", 1, ItemColumns{})
	assert.ErrorIs(t, err, ErrNoNameColumn)
}

func TestCatalogXLSXRoundTrip(t *testing.T) {
	products := []model.ProductRecord{
		{ProductID: "PROD_001", NormalizedName: "plantain", Category: "Fruits", UnitOfMeasure: "kg",
			AliasesPrimary: []string{"banane plantain", "plantain mûr"}, AliasesSecondary: []string{"cooking banana"}},
		{ProductID: "PROD_060", NormalizedName: "rice", Category: "Grains", UnitOfMeasure: "kg"},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteCatalogXLSX(&buf, products))

	got, err := ReadProducts(&buf, "catalog.xlsx", 1)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, model.NewProduct{
		NormalizedName: "plantain", Category: "Fruits", UnitOfMeasure: "kg",
		AliasesFR: []string{"banane plantain", "plantain mûr"}, AliasesEN: []string{"cooking banana"},
	}, got[0])
	assert.Equal(t, "rice", got[1].NormalizedName)
	assert.Empty(t, got[1].AliasesFR)
}

func TestWriteResultsXLSX(t *testing.T) {
	items := []model.BatchItem{
		{Name: "Tomates", Quantity: 2, Normalization: &model.MatchResult{
			ProductID: "PROD_020", NormalizedName: "tomato", Confidence: 1, Method: model.MethodExact,
		}},
		{Name: "Tomates fraiches", Normalization: &model.MatchResult{
			NormalizedName: "tomates fraiches", Confidence: 0.565, Method: model.MethodNone, NeedsReview: true,
			Suggestions: []model.Suggestion{{ProductID: "PROD_020", NormalizedName: "tomato", Score: 0.565}},
		}},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteResultsXLSX(&buf, items))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(resultsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "product_id", rows[0][3])
	assert.Equal(t, "PROD_020", rows[1][3])
	assert.Equal(t, "exact", rows[1][5])
	assert.Equal(t, "TRUE", rows[2][7])
	assert.Equal(t, "PROD_020 tomato (0.565)", rows[2][8])
}
