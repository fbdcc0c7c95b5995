// Package handler — HTTP-обёртка над каскадом сопоставления и каталогом.
// Каждый эндпоинт — фабрика http.HandlerFunc, роутер вешает их как
// r.Post("/normalize", normHnd.Normalize(m, logger)).
package handler

import (
	"net/http"

	"github.com/rs/zerolog"

	"product-normalizer/internal/middleware"
)

const (
	defaultMaxBatchItems = 5000
	multipartMemory      = 32 << 20
)

// batchLimit: maxItems <= 0 — значение по умолчанию.
func batchLimit(maxItems int) int {
	if maxItems <= 0 {
		return defaultMaxBatchItems
	}
	return maxItems
}

// reqLogger привязывает идентификатор запроса, если middleware его проставил.
func reqLogger(logger zerolog.Logger, r *http.Request) zerolog.Logger {
	if rid := middleware.GetRequestID(r); rid != "" {
		return logger.With().Str("rid", rid).Logger()
	}
	return logger
}
