package service

import (
	"sort"

	"product-normalizer/internal/normalize/model"
)

// SearchProducts — ранжированный поиск по каталогу: лучшая схожесть запроса
// с именем и алиасами каждого товара. limit <= 0 — значение из политики.
func (m *Matcher) SearchProducts(query string, limit int) []model.SearchHit {
	if limit <= 0 {
		limit = m.policy.SearchLimit
	}
	q := Canonicalize(query)
	hits := make([]model.SearchHit, 0)
	if q == "" {
		return hits
	}

	for _, p := range m.catalog.Snapshot().products {
		best := 0.0
		for _, name := range p.Names() {
			if s := CombinedSimilarity(q, Canonicalize(name), m.policy.Weights); s > best {
				best = s
			}
		}
		if best > m.policy.SearchFloor {
			hits = append(hits, model.SearchHit{ProductRecord: p, MatchScore: best})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].MatchScore > hits[j].MatchScore })
	if len(hits) > limit {
		hits = hits[:limit]
	}
	for i := range hits {
		hits[i].MatchScore = round3(hits[i].MatchScore)
	}
	return hits
}
