package service

import (
	"context"

	"product-normalizer/internal/normalize/model"
)

// Translator — внешний переводчик. nil отключает этап перевода
// и языковые варианты при поиске по схожести.
type Translator interface {
	NormalizeToPivot(ctx context.Context, text, pivotLang string) (string, error)
	Variants(ctx context.Context, text string) ([]string, error)
}

// SemanticScorer — внешний семантический матчер, оценка в [0,1].
type SemanticScorer interface {
	Similarity(ctx context.Context, a, b string) (float64, error)
}

// Store — долговременное хранилище каталога и выученных соответствий.
type Store interface {
	LoadCatalog(ctx context.Context) ([]model.ProductRecord, error)
	SaveCatalog(ctx context.Context, products []model.ProductRecord) error
	LoadMappings(ctx context.Context) ([]model.LearnedMapping, error)
	SaveMappings(ctx context.Context, mappings []model.LearnedMapping) error
}
