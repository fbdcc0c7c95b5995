package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"product-normalizer/internal/fileio"
	"product-normalizer/internal/normalize/model"
	"product-normalizer/internal/normalize/service"
)

type learnRequest struct {
	Name      string `json:"name"`
	ProductID string `json:"product_id"`
	ShopID    string `json:"shop_id"`
}

// SearchProducts: GET /products/search?q=&limit=.
func SearchProducts(m *service.Matcher, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := strings.TrimSpace(r.URL.Query().Get("q"))
		if q == "" {
			writeError(w, http.StatusBadRequest, "query parameter q is required")
			return
		}
		limit := 0
		if s := r.URL.Query().Get("limit"); s != "" {
			n, err := strconv.Atoi(s)
			if err != nil || n < 0 {
				writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
				return
			}
			limit = n
		}
		if err := writeJSON(w, http.StatusOK, m.SearchProducts(q, limit)); err != nil {
			log := reqLogger(logger, r)
			log.Error().Err(err).Msg("write json")
		}
	}
}

// GetProduct: GET /products/{id}.
func GetProduct(m *service.Matcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		p, ok := m.ProductInfo(id)
		if !ok {
			writeError(w, http.StatusNotFound, service.ErrUnknownProduct.Error()+": "+id)
			return
		}
		_ = writeJSON(w, http.StatusOK, p)
	}
}

// ExportCatalog: GET /products/export → xlsx.
func ExportCatalog(m *service.Matcher, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", xlsxContentType)
		w.Header().Set("Content-Disposition", `attachment; filename="catalog.xlsx"`)
		if err := fileio.WriteCatalogXLSX(w, m.Catalog().Products()); err != nil {
			log := reqLogger(logger, r)
			log.Error().Err(err).Msg("write xlsx")
		}
	}
}

// AddProduct: POST /products NewProduct → {product_id}.
func AddProduct(m *service.Matcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req model.NewProduct
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, bodyStatus(err), err.Error())
			return
		}
		id, err := m.Catalog().AddProduct(r.Context(), req)
		if err != nil {
			writeError(w, productStatus(err), err.Error())
			return
		}
		_ = writeJSON(w, http.StatusCreated, map[string]string{"product_id": id})
	}
}

// ImportProducts: POST /products/import, multipart file + header_row.
func ImportProducts(m *service.Matcher, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(multipartMemory); err != nil {
			writeError(w, bodyStatus(err), "bad multipart form: "+err.Error())
			return
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			writeError(w, http.StatusBadRequest, "missing file: "+err.Error())
			return
		}
		defer file.Close()

		products, err := fileio.ReadProducts(file, header.Filename, atoi(r.FormValue("header_row"), 1))
		if err != nil {
			writeError(w, fileStatus(err), "failed to read file: "+err.Error())
			return
		}
		if len(products) == 0 {
			writeError(w, http.StatusBadRequest, "no products in file")
			return
		}
		ids, err := m.Catalog().AddProducts(r.Context(), products)
		if err != nil {
			writeError(w, productStatus(err), err.Error())
			return
		}
		log := reqLogger(logger, r)
		log.Info().Str("file", header.Filename).Int("imported", len(ids)).Msg("catalog import")
		_ = writeJSON(w, http.StatusCreated, map[string]any{"product_ids": ids, "imported": len(ids)})
	}
}

// LearnMapping: POST /mappings {name, product_id, shop_id}.
func LearnMapping(m *service.Matcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req learnRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, bodyStatus(err), err.Error())
			return
		}
		if !m.Catalog().LearnMapping(r.Context(), req.Name, req.ProductID, req.ShopID) {
			writeError(w, http.StatusBadRequest, "name and product_id must be non-empty after normalization")
			return
		}
		_ = writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	}
}

// Stats: GET /stats.
func Stats(m *service.Matcher) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		_ = writeJSON(w, http.StatusOK, m.Catalog().Stats())
	}
}

func productStatus(err error) int {
	if errors.Is(err, service.ErrInvalidProduct) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
