// Package semantic — лексико-семантическая оценка близости названий:
// стемминг porter2, Jaro-Winkler по токенам, веса IDF по корпусу каталога.
package semantic

import (
	"context"
	"math"
	"strings"

	"github.com/hbollon/go-edlib"
	"github.com/surgebase/porter2"

	"product-normalizer/internal/normalize/model"
	"product-normalizer/internal/normalize/service"
)

// короче не стеммим: "riz", "sel", "ail"
const minStemLength = 4

// Matcher реализует service.SemanticScorer. После построения не меняется.
type Matcher struct {
	idf     map[string]float64
	unknown float64 // вес стема, которого нет в корпусе
}

// New строит матчер по корпусу названий.
func New(corpus []string) *Matcher {
	df := make(map[string]int)
	docs := 0
	for _, text := range corpus {
		stems := stemTokens(service.Canonicalize(text))
		if len(stems) == 0 {
			continue
		}
		docs++
		seen := make(map[string]struct{}, len(stems))
		for _, s := range stems {
			if _, ok := seen[s]; ok {
				continue
			}
			seen[s] = struct{}{}
			df[s]++
		}
	}

	n := float64(docs)
	m := &Matcher{
		idf:     make(map[string]float64, len(df)),
		unknown: math.Log(n+1) + 1,
	}
	for s, c := range df {
		m.idf[s] = math.Log((n+1)/float64(c+1)) + 1
	}
	return m
}

// FromCatalog — корпус из имён и алиасов товаров.
func FromCatalog(products []model.ProductRecord) *Matcher {
	var corpus []string
	for _, p := range products {
		corpus = append(corpus, p.Names()...)
	}
	return New(corpus)
}

// Similarity — среднее двух направленных оценок: для каждого токена
// лучший Jaro-Winkler среди токенов другой строки, взвешенно по IDF.
func (m *Matcher) Similarity(ctx context.Context, a, b string) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	ca, cb := service.Canonicalize(a), service.Canonicalize(b)
	if ca == "" || cb == "" {
		return 0, nil
	}
	if ca == cb {
		return 1, nil
	}
	sa, sb := stemTokens(ca), stemTokens(cb)
	score := (m.directed(sa, sb) + m.directed(sb, sa)) / 2
	return math.Min(1, math.Max(0, score)), nil
}

func (m *Matcher) directed(from, to []string) float64 {
	var sum, weights float64
	for _, f := range from {
		w := m.weight(f)
		best := 0.0
		for _, t := range to {
			if s := jaroWinkler(f, t); s > best {
				best = s
			}
		}
		sum += w * best
		weights += w
	}
	if weights == 0 {
		return 0
	}
	return sum / weights
}

func (m *Matcher) weight(stem string) float64 {
	if w, ok := m.idf[stem]; ok {
		return w
	}
	return m.unknown
}

func jaroWinkler(a, b string) float64 {
	if a == b {
		return 1
	}
	s, err := edlib.StringsSimilarity(a, b, edlib.JaroWinkler)
	if err != nil {
		return 0
	}
	return float64(s)
}

func stemTokens(canon string) []string {
	words := strings.Fields(canon)
	for i, w := range words {
		if len(w) >= minStemLength {
			words[i] = porter2.Stem(w)
		}
	}
	return words
}
