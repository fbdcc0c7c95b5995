package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"product-normalizer/internal/normalize/model"
)

// Matcher — каскад сопоставления: точное совпадение → перевод →
// сокращения → схожесть (+семантика) → пороговое решение.
// Безопасен для конкурентного использования: каждое решение работает
// с одним снимком каталога.
type Matcher struct {
	catalog    *Catalog
	policy     Policy
	expander   *Expander
	translator Translator
	semantic   SemanticScorer
	log        zerolog.Logger
}

type Option func(*Matcher)

func WithPolicy(p Policy) Option { return func(m *Matcher) { m.policy = p } }

func WithExpander(e *Expander) Option {
	return func(m *Matcher) {
		if e != nil {
			m.expander = e
		}
	}
}

func WithTranslator(t Translator) Option { return func(m *Matcher) { m.translator = t } }

func WithSemantic(s SemanticScorer) Option { return func(m *Matcher) { m.semantic = s } }

func WithLogger(l zerolog.Logger) Option { return func(m *Matcher) { m.log = l } }

func NewMatcher(c *Catalog, opts ...Option) *Matcher {
	m := &Matcher{
		catalog:  c,
		policy:   DefaultPolicy(),
		expander: defaultExpander,
		log:      zerolog.Nop(),
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

func (m *Matcher) Catalog() *Catalog { return m.catalog }

func (m *Matcher) Policy() Policy { return m.policy }

// ProductInfo — карточка товара по идентификатору.
func (m *Matcher) ProductInfo(id string) (model.ProductRecord, bool) {
	return m.catalog.Product(id)
}

// Resolve сопоставляет сырой текст с товаром каталога.
func (m *Matcher) Resolve(ctx context.Context, raw, shop string) model.MatchResult {
	res := m.resolve(ctx, m.catalog.Snapshot(), raw, strings.TrimSpace(shop))
	m.log.Debug().
		Str("raw", raw).
		Str("shop", shop).
		Str("method", string(res.Method)).
		Str("product_id", res.ProductID).
		Float64("confidence", res.Confidence).
		Bool("needs_review", res.NeedsReview).
		Msg("resolve")
	return res
}

func (m *Matcher) resolve(ctx context.Context, snap *Snapshot, raw, shop string) model.MatchResult {
	canon := Canonicalize(raw)
	if canon == "" {
		return emptyResult()
	}

	// (1) точное совпадение: сначала соответствие конкретного магазина
	if shop != "" {
		if id, ok := snap.LookupLearned(model.MappingKey{Text: canon, Shop: shop}); ok {
			return m.hit(snap, id, canon, 1.0, model.MethodExact)
		}
	}
	if id, ok := snap.Lookup(canon); ok {
		return m.hit(snap, id, canon, 1.0, model.MethodExact)
	}

	// (2) перевод в pivot-язык, затем все языковые варианты
	var variants []string
	if m.translator != nil {
		if res, ok := m.translate(ctx, snap, raw, canon, &variants); ok {
			return res
		}
	}

	// (3) сокращения и бренды
	if exp := Canonicalize(m.expander.Expand(raw)); exp != "" && exp != canon {
		if id, ok := snap.Lookup(exp); ok {
			return m.hit(snap, id, exp, m.policy.AbbreviationConfidence, model.MethodAbbreviation)
		}
	}

	// (4)+(5) схожесть и пороги
	return m.similarity(ctx, snap, canon, variants)
}

func (m *Matcher) translate(ctx context.Context, snap *Snapshot, raw, canon string, variants *[]string) (model.MatchResult, bool) {
	var pivot string
	err := m.call(ctx, func(ctx context.Context) (err error) {
		pivot, err = m.translator.NormalizeToPivot(ctx, raw, m.policy.PivotLanguage)
		return err
	})
	if err != nil {
		m.log.Debug().Err(err).Str("raw", raw).Msg("translation to pivot failed")
	} else if pc := Canonicalize(pivot); pc != "" && pc != canon {
		if id, ok := snap.Lookup(pc); ok {
			return m.hit(snap, id, pc, m.policy.TranslationConfidence, model.MethodTranslation), true
		}
	}

	var vs []string
	err = m.call(ctx, func(ctx context.Context) (err error) {
		vs, err = m.translator.Variants(ctx, raw)
		return err
	})
	if err != nil {
		m.log.Debug().Err(err).Str("raw", raw).Msg("translation variants failed")
		return model.MatchResult{}, false
	}
	*variants = vs
	for _, v := range vs {
		if vc := Canonicalize(v); vc != "" {
			if id, ok := snap.Lookup(vc); ok {
				return m.hit(snap, id, vc, m.policy.VariantConfidence, model.MethodTranslationVariant), true
			}
		}
	}
	return model.MatchResult{}, false
}

type candidate struct {
	productID string
	key       string
	score     float64
}

func (m *Matcher) similarity(ctx context.Context, snap *Snapshot, canon string, variants []string) model.MatchResult {
	search := searchVariants(canon, variants)
	keys := snap.Keys()
	p := m.policy

	var best candidate
	sugg := make(map[string]model.Suggestion)

	for _, sv := range search {
		for _, k := range keys {
			s := CombinedSimilarity(sv, k, p.Weights)
			id := snap.index[k]
			if s > best.score {
				best = candidate{productID: id, key: k, score: s}
			}
			if s > p.SuggestionFloor {
				offer(sugg, snap, id, k, s, "")
			}
		}
	}

	if m.semantic != nil && best.score < p.SemanticCutoff {
		m.semanticPass(ctx, snap, search, &best, sugg)
	}

	suggestions := rankSuggestions(sugg, p.MaxSuggestions)

	switch {
	case best.productID != "" && best.score >= p.AcceptThreshold:
		return model.MatchResult{
			ProductID:      best.productID,
			NormalizedName: snap.displayName(best.productID, best.key),
			Confidence:     round3(best.score),
			Method:         model.MethodSimilarity,
			Suggestions:    []model.Suggestion{},
		}
	case best.productID != "" && best.score >= p.ReviewThreshold:
		return model.MatchResult{
			ProductID:      best.productID,
			NormalizedName: snap.displayName(best.productID, best.key),
			Confidence:     round3(best.score),
			Method:         model.MethodSimilarityLow,
			NeedsReview:    true,
			Suggestions:    suggestions,
		}
	default:
		return model.MatchResult{
			NormalizedName: canon,
			Confidence:     round3(best.score),
			Method:         model.MethodNone,
			NeedsReview:    true,
			Suggestions:    suggestions,
		}
	}
}

// semanticPass — тот же двойной цикл с семантической оценкой.
// Взвешенная оценка конкурирует за лучший результат, сырая идёт в подсказки.
// Ошибка на паре пропускает только эту пару.
func (m *Matcher) semanticPass(ctx context.Context, snap *Snapshot, search []string, best *candidate, sugg map[string]model.Suggestion) {
	p := m.policy
	if p.CollaboratorTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.CollaboratorTimeout)
		defer cancel()
	}

	skipped := 0
	for _, sv := range search {
		for _, k := range snap.Keys() {
			if ctx.Err() != nil {
				m.log.Debug().Err(ctx.Err()).Int("skipped", skipped).Msg("semantic pass interrupted")
				return
			}
			var raw float64
			err := protect(func() (err error) {
				raw, err = m.semantic.Similarity(ctx, sv, k)
				return err
			})
			if err != nil || math.IsNaN(raw) {
				skipped++
				m.log.Debug().Err(err).Str("a", sv).Str("b", k).Msg("semantic score skipped")
				continue
			}
			raw = clamp01(raw)
			id := snap.index[k]
			if w := raw * p.SemanticWeight; w > best.score {
				*best = candidate{productID: id, key: k, score: w}
			}
			if raw > p.SuggestionFloor {
				offer(sugg, snap, id, k, raw, model.SuggestionSemantic)
			}
		}
	}
}

// call — вызов внешнего переводчика с опциональным дедлайном и защитой от паники.
func (m *Matcher) call(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.policy.CollaboratorTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.policy.CollaboratorTimeout)
		defer cancel()
	}
	return protect(func() error { return fn(ctx) })
}

func protect(fn func() error) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("collaborator panic: %v", rec)
		}
	}()
	return fn()
}

func (m *Matcher) hit(snap *Snapshot, productID, key string, confidence float64, method model.MatchMethod) model.MatchResult {
	return model.MatchResult{
		ProductID:      productID,
		NormalizedName: snap.displayName(productID, key),
		Confidence:     confidence,
		Method:         method,
		Suggestions:    []model.Suggestion{},
	}
}

func emptyResult() model.MatchResult {
	return model.MatchResult{
		Method:      model.MethodNone,
		NeedsReview: true,
		Suggestions: []model.Suggestion{},
	}
}

// searchVariants: канон + канонические языковые варианты, без повторов,
// в порядке первого появления.
func searchVariants(canon string, variants []string) []string {
	out := []string{canon}
	seen := map[string]struct{}{canon: {}}
	for _, v := range variants {
		cv := Canonicalize(v)
		if cv == "" {
			continue
		}
		if _, ok := seen[cv]; ok {
			continue
		}
		seen[cv] = struct{}{}
		out = append(out, cv)
	}
	return out
}

// offer — одна подсказка на товар, с максимальной оценкой.
func offer(sugg map[string]model.Suggestion, snap *Snapshot, productID, key string, score float64, method string) {
	if cur, ok := sugg[productID]; ok && cur.Score >= score {
		return
	}
	sugg[productID] = model.Suggestion{
		ProductID:      productID,
		NormalizedName: snap.displayName(productID, key),
		Score:          score,
		Method:         method,
	}
}

func rankSuggestions(sugg map[string]model.Suggestion, limit int) []model.Suggestion {
	out := make([]model.Suggestion, 0, len(sugg))
	for _, s := range sugg {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].ProductID < out[j].ProductID
	})
	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	for i := range out {
		out[i].Score = round3(out[i].Score)
	}
	return out
}

func round3(v float64) float64 { return math.Round(v*1000) / 1000 }

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
