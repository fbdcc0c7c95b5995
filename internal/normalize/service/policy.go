package service

import (
	"errors"
	"time"
)

// Policy — константы каскада. Не выводятся из данных, поэтому живут в конфиге.
type Policy struct {
	Weights Weights

	TranslationConfidence  float64 // перевод в pivot-язык дал точный ключ
	VariantConfidence      float64 // один из языковых вариантов дал точный ключ
	AbbreviationConfidence float64

	SemanticWeight float64 // понижающий коэффициент семантической оценки
	SemanticCutoff float64 // семантика запускается, только если лучший балл ниже

	AcceptThreshold float64 // ≥ — уверенное совпадение
	ReviewThreshold float64 // ≥ — предварительное совпадение с проверкой
	SuggestionFloor float64 // > — кандидат в подсказки
	MaxSuggestions  int

	SearchFloor float64
	SearchLimit int

	PivotLanguage       string
	CollaboratorTimeout time.Duration // 0 — без дедлайна
	BatchWorkers        int
}

func DefaultPolicy() Policy {
	return Policy{
		Weights:                DefaultWeights,
		TranslationConfidence:  0.98,
		VariantConfidence:      0.96,
		AbbreviationConfidence: 0.95,
		SemanticWeight:         0.9,
		SemanticCutoff:         0.9,
		AcceptThreshold:        0.85,
		ReviewThreshold:        0.6,
		SuggestionFloor:        0.5,
		MaxSuggestions:         5,
		SearchFloor:            0.3,
		SearchLimit:            10,
		PivotLanguage:          "en",
		BatchWorkers:           8,
	}
}

// Validate проверяет согласованность порогов.
func (p Policy) Validate() error {
	if err := p.Weights.Valid(); err != nil {
		return err
	}
	if p.ReviewThreshold > p.AcceptThreshold {
		return errors.New("review threshold must not exceed accept threshold")
	}
	for _, v := range []float64{
		p.TranslationConfidence, p.VariantConfidence, p.AbbreviationConfidence,
		p.SemanticWeight, p.SemanticCutoff, p.AcceptThreshold, p.ReviewThreshold,
		p.SuggestionFloor, p.SearchFloor,
	} {
		if v < 0 || v > 1 {
			return errors.New("policy confidences and thresholds must be within [0,1]")
		}
	}
	if p.MaxSuggestions < 0 {
		return errors.New("max suggestions must be non-negative")
	}
	return nil
}
