package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"product-normalizer/internal/config"
	"product-normalizer/internal/normalize/service"
	"product-normalizer/internal/semantic"
	"product-normalizer/internal/storage"
	"product-normalizer/internal/translate"
	serverhttp "product-normalizer/server/http"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	logger := config.SetupLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := storage.New(cfg.StorageOptions(), logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("open storage")
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error().Err(err).Msg("close storage")
		}
	}()

	catalog := service.Open(ctx, store, logger)

	matcher, err := newMatcher(cfg, catalog, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("build matcher")
	}

	// внешние правки json-файлов подхватываются без перезапуска
	if js, ok := store.(*storage.JSONStore); ok && cfg.Storage.Watch {
		go func() {
			err := js.Watch(ctx, func() {
				if err := catalog.Reload(ctx); err != nil {
					logger.Warn().Err(err).Msg("catalog reload failed, keeping current snapshot")
				}
			})
			if err != nil {
				logger.Error().Err(err).Msg("storage watch stopped")
			}
		}()
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           serverhttp.NewRouter(cfg, matcher, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}
	logger.Info().Str("addr", cfg.Addr()).Str("storage", cfg.Storage.Driver).Msg("server starting")

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("listen")
		}
	}()

	// graceful shutdown
	<-ctx.Done()
	logger.Info().Msg("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("shutdown")
	}
	logger.Info().Msg("bye")
}

func newMatcher(cfg config.Config, catalog *service.Catalog, logger zerolog.Logger) (*service.Matcher, error) {
	opts := []service.Option{
		service.WithPolicy(cfg.Policy()),
		service.WithExpander(service.NewExpander(cfg.Match.Abbreviations)),
		service.WithLogger(logger),
	}

	if cfg.Translation.Enabled {
		var (
			dict *translate.Dictionary
			err  error
		)
		if cfg.Translation.Glossary != "" {
			dict, err = translate.Load(cfg.Translation.Glossary)
		} else {
			dict, err = translate.Default()
		}
		if err != nil {
			return nil, fmt.Errorf("load glossary: %w", err)
		}
		logger.Info().Int("phrases", dict.Len()).Msg("translation enabled")
		opts = append(opts, service.WithTranslator(dict))
	}

	if cfg.Semantic.Enabled {
		opts = append(opts, service.WithSemantic(semantic.FromCatalog(catalog.Products())))
		logger.Info().Msg("semantic matcher enabled")
	}

	return service.NewMatcher(catalog, opts...), nil
}
