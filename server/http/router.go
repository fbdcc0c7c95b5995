package serverhttp

import (
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"product-normalizer/internal/config"
	"product-normalizer/internal/middleware"
	normHnd "product-normalizer/internal/normalize/handler"
	"product-normalizer/internal/normalize/service"
	"product-normalizer/server/http/handlers"
)

func NewRouter(cfg config.Config, m *service.Matcher, logger zerolog.Logger) *chi.Mux {
	r := chi.NewRouter()

	// порядок важен: recover -> requestID -> logging -> cors -> limit -> rate
	r.Use(middleware.Recover(logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS(cfg.AllowOrigins))
	r.Use(middleware.LimitBytes(cfg.MaxUploadBytes()))
	r.Use(middleware.RateLimit(cfg.RateLimit.RPS, cfg.RateLimit.Burst))

	// health-check
	r.Get("/health", handlers.Health(m.Catalog()))

	// сопоставление
	r.Post("/normalize", normHnd.Normalize(m, logger))
	r.Post("/normalize/batch", normHnd.NormalizeBatch(m, logger, 0))
	r.Post("/normalize/file", normHnd.NormalizeFile(m, logger, 0))

	// каталог
	r.Get("/products/search", normHnd.SearchProducts(m, logger))
	r.Get("/products/export", normHnd.ExportCatalog(m, logger))
	r.Get("/products/{id}", normHnd.GetProduct(m))
	r.Post("/products", normHnd.AddProduct(m))
	r.Post("/products/import", normHnd.ImportProducts(m, logger))

	r.Post("/mappings", normHnd.LearnMapping(m))
	r.Get("/stats", normHnd.Stats(m))

	return r
}
