package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"product-normalizer/internal/fileio"
	"product-normalizer/internal/normalize/model"
	"product-normalizer/internal/normalize/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type normalizeRequest struct {
	Name   string `json:"name"`
	ShopID string `json:"shop_id"`
}

type batchRequest struct {
	Items  []model.BatchItem `json:"items"`
	ShopID string            `json:"shop_id"`
}

type batchSummary struct {
	Total       int `json:"total"`
	Matched     int `json:"matched"`
	NeedsReview int `json:"needs_review"`
}

type batchResponse struct {
	Items   []model.BatchItem `json:"items"`
	Summary batchSummary      `json:"summary"`
}

// Normalize: POST /normalize {name, shop_id} → MatchResult.
func Normalize(m *service.Matcher, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req normalizeRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, bodyStatus(err), err.Error())
			return
		}
		res := m.Resolve(r.Context(), req.Name, req.ShopID)
		if err := writeJSON(w, http.StatusOK, res); err != nil {
			log := reqLogger(logger, r)
			log.Error().Err(err).Msg("write json")
		}
	}
}

// NormalizeBatch: POST /normalize/batch {items, shop_id}.
// Лишние поля позиций возвращаются вместе с результатом.
func NormalizeBatch(m *service.Matcher, logger zerolog.Logger, maxItems int) http.HandlerFunc {
	maxItems = batchLimit(maxItems)
	return func(w http.ResponseWriter, r *http.Request) {
		var req batchRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, bodyStatus(err), err.Error())
			return
		}
		runBatch(w, r, m, reqLogger(logger, r), maxItems, req.Items, req.ShopID, "json")
	}
}

// NormalizeFile: POST /normalize/file, multipart с чеком (csv/xls/xlsx).
// Поля: file, name_col, qty_col, price_col, header_row, shop_id, format=json|xlsx.
func NormalizeFile(m *service.Matcher, logger zerolog.Logger, maxItems int) http.HandlerFunc {
	maxItems = batchLimit(maxItems)
	return func(w http.ResponseWriter, r *http.Request) {
		normalizeFile(w, r, m, reqLogger(logger, r), maxItems)
	}
}

func normalizeFile(w http.ResponseWriter, r *http.Request, m *service.Matcher, log zerolog.Logger, maxItems int) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		writeError(w, bodyStatus(err), "bad multipart form: "+err.Error())
		return
	}
	format := strings.ToLower(strings.TrimSpace(r.FormValue("format")))
	switch format {
	case "":
		format = "json"
	case "json", "xlsx":
	default:
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown format %q", format))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file: "+err.Error())
		return
	}
	defer file.Close()

	items, err := fileio.ReadReceiptItems(file, header.Filename, atoi(r.FormValue("header_row"), 1), fileio.ItemColumns{
		Name:     r.FormValue("name_col"),
		Quantity: r.FormValue("qty_col"),
		Price:    r.FormValue("price_col"),
	})
	if err != nil {
		writeError(w, fileStatus(err), "failed to read file: "+err.Error())
		return
	}
	runBatch(w, r, m, log, maxItems, items, r.FormValue("shop_id"), format)
}

func runBatch(w http.ResponseWriter, r *http.Request, m *service.Matcher, log zerolog.Logger, maxItems int, items []model.BatchItem, shop, format string) {
	if len(items) > maxItems {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("too many items: %d > %d", len(items), maxItems))
		return
	}

	start := time.Now()
	out, err := m.NormalizeBatch(r.Context(), items, shop)
	if err != nil {
		// клиент ушёл или сервер останавливается
		log.Warn().Err(err).Int("items", len(items)).Msg("batch aborted")
		writeError(w, http.StatusServiceUnavailable, "batch aborted: "+err.Error())
		return
	}
	sum := summarize(out)
	log.Info().
		Int("items", sum.Total).
		Int("matched", sum.Matched).
		Int("needs_review", sum.NeedsReview).
		Str("format", format).
		Dur("elapsed", time.Since(start)).
		Msg("batch done")

	if format == "xlsx" {
		w.Header().Set("Content-Type", xlsxContentType)
		w.Header().Set("Content-Disposition", `attachment; filename="normalization.xlsx"`)
		if err := fileio.WriteResultsXLSX(w, out); err != nil {
			log.Error().Err(err).Msg("write xlsx")
		}
		return
	}
	if err := writeJSON(w, http.StatusOK, batchResponse{Items: out, Summary: sum}); err != nil {
		log.Error().Err(err).Msg("write json")
	}
}

func summarize(items []model.BatchItem) batchSummary {
	s := batchSummary{Total: len(items)}
	for _, it := range items {
		if it.Normalization == nil {
			continue
		}
		if it.Normalization.Matched() {
			s.Matched++
		}
		if it.Normalization.NeedsReview {
			s.NeedsReview++
		}
	}
	return s
}

// fileStatus: неподдерживаемый формат — 415, остальное — 400.
func fileStatus(err error) int {
	if errors.Is(err, fileio.ErrUnsupported) {
		return http.StatusUnsupportedMediaType
	}
	return http.StatusBadRequest
}
