package handler

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"product-normalizer/internal/middleware"
	"product-normalizer/internal/normalize/model"
	"product-normalizer/internal/normalize/service"
)

func newTestRouter(t *testing.T, maxBatch int) http.Handler {
	t.Helper()
	return newLoggedRouter(t, maxBatch, zerolog.Nop())
}

func newLoggedRouter(t *testing.T, maxBatch int, logger zerolog.Logger) *chi.Mux {
	t.Helper()
	c := service.NewCatalog(service.DefaultCatalog(), nil, nil, zerolog.Nop())
	m := service.NewMatcher(c)

	r := chi.NewRouter()
	r.Use(middleware.RequestID())
	r.Post("/normalize", Normalize(m, logger))
	r.Post("/normalize/batch", NormalizeBatch(m, logger, maxBatch))
	r.Post("/normalize/file", NormalizeFile(m, logger, maxBatch))
	r.Get("/products/search", SearchProducts(m, logger))
	r.Get("/products/export", ExportCatalog(m, logger))
	r.Get("/products/{id}", GetProduct(m))
	r.Post("/products", AddProduct(m))
	r.Post("/products/import", ImportProducts(m, logger))
	r.Post("/mappings", LearnMapping(m))
	r.Get("/stats", Stats(m))
	return r
}

func doJSON(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func doMultipart(t *testing.T, h http.Handler, target, filename, content string, fields map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if filename != "" {
		fw, err := mw.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestNormalize(t *testing.T) {
	h := newTestRouter(t, 0)

	rec := doJSON(t, h, http.MethodPost, "/normalize", `{"name":"BNN PLTN"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	res := decode[model.MatchResult](t, rec)
	assert.Equal(t, "PROD_001", res.ProductID)
	assert.Equal(t, model.MethodAbbreviation, res.Method)
	assert.InDelta(t, 0.95, res.Confidence, 1e-9)
	assert.False(t, res.NeedsReview)

	rec = doJSON(t, h, http.MethodPost, "/normalize", `{"name":"Unknown Product XYZ"}`)
	res = decode[model.MatchResult](t, rec)
	assert.Empty(t, res.ProductID)
	assert.Equal(t, model.MethodNone, res.Method)
	assert.True(t, res.NeedsReview)
}

func TestNormalizeBadRequest(t *testing.T) {
	h := newTestRouter(t, 0)

	for name, body := range map[string]string{
		"empty":    ``,
		"broken":   `{"name":`,
		"unknown":  `{"title":"x"}`,
		"trailing": `{"name":"a"}{"name":"b"}`,
	} {
		t.Run(name, func(t *testing.T) {
			rec := doJSON(t, h, http.MethodPost, "/normalize", body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.NotEmpty(t, decode[errorResponse](t, rec).Error)
		})
	}
}

func TestNormalizeBatch(t *testing.T) {
	h := newTestRouter(t, 0)

	rec := doJSON(t, h, http.MethodPost, "/normalize/batch",
		`{"items":[{"name":"Tomates","quantity":2},{"name":"Unknown Product XYZ"},{"name":"BNN PLTN","price":3.5}]}`)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[batchResponse](t, rec)
	require.Len(t, resp.Items, 3)
	assert.Equal(t, batchSummary{Total: 3, Matched: 2, NeedsReview: 1}, resp.Summary)

	assert.Equal(t, "Tomates", resp.Items[0].Name)
	assert.InDelta(t, 2.0, resp.Items[0].Quantity, 1e-9)
	assert.Equal(t, "PROD_020", resp.Items[0].Normalization.ProductID)
	assert.Equal(t, model.MethodNone, resp.Items[1].Normalization.Method)
	assert.Equal(t, "PROD_001", resp.Items[2].Normalization.ProductID)
}

func TestNormalizeBatchKeepsItemFields(t *testing.T) {
	h := newTestRouter(t, 0)

	rec := doJSON(t, h, http.MethodPost, "/normalize/batch", `{"items":[{"name":"Riz","unit":"kg","line":3}]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var raw struct {
		Items []map[string]any `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	require.Len(t, raw.Items, 1)
	assert.Equal(t, "Riz", raw.Items[0]["name"])
	assert.Equal(t, "kg", raw.Items[0]["unit"])
	assert.InDelta(t, 3.0, raw.Items[0]["line"], 1e-9)
	assert.Contains(t, raw.Items[0], "normalization")
	assert.NotContains(t, raw.Items[0], "extra")

	// строгость верхнего уровня запроса сохраняется
	rec = doJSON(t, h, http.MethodPost, "/normalize/batch", `{"items":[],"shop":"S1"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRequestIDInHandlerLogs(t *testing.T) {
	var buf bytes.Buffer
	h := newLoggedRouter(t, 0, zerolog.New(&buf))

	req := httptest.NewRequest(http.MethodPost, "/normalize/batch", strings.NewReader(`{"items":[{"name":"Tomates"}]}`))
	req.Header.Set("X-Request-ID", "rid-batch-1")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, buf.String(), `"rid":"rid-batch-1"`)
	assert.Contains(t, buf.String(), `"message":"batch done"`)

	buf.Reset()
	csv := "normalized_name;category;aliases_fr;aliases_en\nmiel;Grocery;miel pur;honey\n"
	rec = doMultipart(t, h, "/products/import", "catalog.csv", csv, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Contains(t, buf.String(), `"message":"catalog import"`)
	assert.Contains(t, buf.String(), `"imported":1`)
	assert.Contains(t, buf.String(), `"rid":"`)
}

func TestNormalizeBatchTooMany(t *testing.T) {
	h := newTestRouter(t, 1)
	rec := doJSON(t, h, http.MethodPost, "/normalize/batch", `{"items":[{"name":"a"},{"name":"b"}]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode[errorResponse](t, rec).Error, "too many items")
}

const receiptCSV = "Désignation;Qté;Prix\nTomates;2;1,50\nBNN PLTN;1;3\n;;\nzzz qqq;1;9\n"

func TestNormalizeFileJSON(t *testing.T) {
	h := newTestRouter(t, 0)

	rec := doMultipart(t, h, "/normalize/file", "receipt.csv", receiptCSV, map[string]string{"shop_id": "S1"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decode[batchResponse](t, rec)
	require.Len(t, resp.Items, 3)
	assert.Equal(t, "PROD_020", resp.Items[0].Normalization.ProductID)
	assert.InDelta(t, 1.5, resp.Items[0].Price, 1e-9)
	assert.Equal(t, "PROD_001", resp.Items[1].Normalization.ProductID)
	assert.Equal(t, 1, resp.Summary.NeedsReview)
}

func TestNormalizeFileXLSX(t *testing.T) {
	h := newTestRouter(t, 0)

	rec := doMultipart(t, h, "/normalize/file", "receipt.csv", receiptCSV, map[string]string{"format": "xlsx"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, xlsxContentType, rec.Header().Get("Content-Type"))

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("normalization")
	require.NoError(t, err)
	assert.Len(t, rows, 4) // заголовок + три позиции
}

func TestNormalizeFileErrors(t *testing.T) {
	h := newTestRouter(t, 0)

	rec := doMultipart(t, h, "/normalize/file", "", "", map[string]string{"shop_id": "S1"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doMultipart(t, h, "/normalize/file", "receipt.pdf", "%PDF", nil)
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)

	rec = doMultipart(t, h, "/normalize/file", "receipt.csv", "a;b\n1;2\n", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode[errorResponse](t, rec).Error, "name column not found")

	rec = doMultipart(t, h, "/normalize/file", "receipt.csv", receiptCSV, map[string]string{"format": "pdf"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSearchProducts(t *testing.T) {
	h := newTestRouter(t, 0)

	rec := doJSON(t, h, http.MethodGet, "/products/search?q=huile", "")
	require.Equal(t, http.StatusOK, rec.Code)
	hits := decode[[]model.SearchHit](t, rec)
	require.NotEmpty(t, hits)
	assert.Equal(t, "PROD_071", hits[0].ProductID)
	for i := 1; i < len(hits); i++ {
		assert.GreaterOrEqual(t, hits[i-1].MatchScore, hits[i].MatchScore)
		assert.Greater(t, hits[i].MatchScore, 0.3)
	}

	rec = doJSON(t, h, http.MethodGet, "/products/search?q=tomate&limit=2", "")
	assert.Len(t, decode[[]model.SearchHit](t, rec), 2)

	rec = doJSON(t, h, http.MethodGet, "/products/search?q=qqqqqqqq", "")
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))

	assert.Equal(t, http.StatusBadRequest, doJSON(t, h, http.MethodGet, "/products/search", "").Code)
	assert.Equal(t, http.StatusBadRequest, doJSON(t, h, http.MethodGet, "/products/search?q=a&limit=x", "").Code)
}

func TestGetProduct(t *testing.T) {
	h := newTestRouter(t, 0)

	rec := doJSON(t, h, http.MethodGet, "/products/PROD_024", "")
	require.Equal(t, http.StatusOK, rec.Code)
	p := decode[model.ProductRecord](t, rec)
	assert.Equal(t, "potato", p.NormalizedName)
	assert.Contains(t, p.AliasesPrimary, "pomme de terre")

	rec = doJSON(t, h, http.MethodGet, "/products/PROD_999", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, decode[errorResponse](t, rec).Error, service.ErrUnknownProduct.Error())
}

func TestAddProductAndLearn(t *testing.T) {
	h := newTestRouter(t, 0)

	rec := doJSON(t, h, http.MethodPost, "/products",
		`{"normalized_name":"Miel","category":"Grocery","aliases_fr":["miel pur"],"aliases_en":["honey"]}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "PROD_095", decode[map[string]string](t, rec)["product_id"])

	res := decode[model.MatchResult](t, doJSON(t, h, http.MethodPost, "/normalize", `{"name":"HONEY"}`))
	assert.Equal(t, "PROD_095", res.ProductID)
	assert.Equal(t, "miel", res.NormalizedName)

	rec = doJSON(t, h, http.MethodPost, "/products", `{"normalized_name":"  - "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/mappings", `{"name":"MIEL FORET 500G","product_id":"PROD_095","shop_id":"S1"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[map[string]bool](t, rec)["ok"])

	res = decode[model.MatchResult](t, doJSON(t, h, http.MethodPost, "/normalize", `{"name":"Miel foret 500g","shop_id":"S1"}`))
	assert.Equal(t, "PROD_095", res.ProductID)
	assert.Equal(t, model.MethodExact, res.Method)
	assert.InDelta(t, 1.0, res.Confidence, 1e-9)

	rec = doJSON(t, h, http.MethodPost, "/mappings", `{"name":"   ","product_id":"PROD_095"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	st := decode[model.Stats](t, doJSON(t, h, http.MethodGet, "/stats", ""))
	assert.Equal(t, 58, st.Products)
	assert.Equal(t, 1, st.Mappings)
	assert.Equal(t, uint64(3), st.Generation)
}

func TestImportAndExport(t *testing.T) {
	h := newTestRouter(t, 0)

	csv := "normalized_name;category;aliases_fr;aliases_en\nmiel;Grocery;miel pur|miel liquide;honey\nvinaigre;Grocery;;vinegar\n"
	rec := doMultipart(t, h, "/products/import", "catalog.csv", csv, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var resp struct {
		ProductIDs []string `json:"product_ids"`
		Imported   int      `json:"imported"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []string{"PROD_095", "PROD_096"}, resp.ProductIDs)
	assert.Equal(t, 2, resp.Imported)

	res := decode[model.MatchResult](t, doJSON(t, h, http.MethodPost, "/normalize", `{"name":"Miel liquide"}`))
	assert.Equal(t, "PROD_095", res.ProductID)

	rec = doJSON(t, h, http.MethodGet, "/products/export", "")
	require.Equal(t, http.StatusOK, rec.Code)
	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("catalog")
	require.NoError(t, err)
	assert.Len(t, rows, 1+59)

	rec = doMultipart(t, h, "/products/import", "catalog.csv", "normalized_name\n", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStats(t *testing.T) {
	h := newTestRouter(t, 0)
	st := decode[model.Stats](t, doJSON(t, h, http.MethodGet, "/stats", ""))
	assert.Equal(t, model.Stats{Generation: 1, Products: 57, IndexKeys: 185, Mappings: 0}, st)
}
