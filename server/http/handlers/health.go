package handlers

import (
	"encoding/json"
	"net/http"

	"product-normalizer/internal/normalize/model"
)

// StatsSource — всё, что нужно health-check от каталога.
type StatsSource interface {
	Stats() model.Stats
}

type healthResponse struct {
	Status   string `json:"status"`
	Products int    `json:"products"`
}

// Health: 200, пока каталог не пуст.
func Health(src StatsSource) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		st := src.Stats()
		resp := healthResponse{Status: "ok", Products: st.Products}
		code := http.StatusOK
		if st.Products == 0 {
			resp.Status = "empty catalog"
			code = http.StatusServiceUnavailable
		}
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(resp)
	}
}
