package model

import (
	"encoding/json"
	"strings"
	"time"
)

// ProductRecord — запись мастер-каталога (golden record).
type ProductRecord struct {
	ProductID        string   `json:"product_id"`
	NormalizedName   string   `json:"normalized_name"`
	Category         string   `json:"category"`
	UnitOfMeasure    string   `json:"unit_of_measure"`
	AliasesPrimary   []string `json:"aliases_fr"` // французские названия
	AliasesSecondary []string `json:"aliases_en"` // английские названия
}

// Names возвращает normalized_name и все алиасы в порядке индексации.
func (p ProductRecord) Names() []string {
	out := make([]string, 0, 1+len(p.AliasesPrimary)+len(p.AliasesSecondary))
	out = append(out, p.NormalizedName)
	out = append(out, p.AliasesPrimary...)
	out = append(out, p.AliasesSecondary...)
	return out
}

// NewProduct — запрос на добавление товара в каталог.
type NewProduct struct {
	NormalizedName string   `json:"normalized_name"`
	Category       string   `json:"category"`
	UnitOfMeasure  string   `json:"unit_of_measure"`
	AliasesFR      []string `json:"aliases_fr"`
	AliasesEN      []string `json:"aliases_en"`
}

// MappingKey — канонический текст + опциональный магазин.
type MappingKey struct {
	Text string
	Shop string
}

func (k MappingKey) String() string {
	if k.Shop == "" {
		return k.Text
	}
	return k.Text + "|" + k.Shop
}

// ParseMappingKey разбирает "text|shop" обратно в ключ. В каноническом
// тексте "|" не бывает, а в идентификаторе магазина может быть.
func ParseMappingKey(s string) MappingKey {
	text, shop, _ := strings.Cut(s, "|")
	return MappingKey{Text: text, Shop: shop}
}

// LearnedMapping — подтверждённое оператором соответствие.
type LearnedMapping struct {
	Text      string    `json:"text"`
	Shop      string    `json:"shop_id,omitempty"`
	ProductID string    `json:"product_id"`
	LearnedAt time.Time `json:"learned_at"`
}

func (m LearnedMapping) Key() MappingKey { return MappingKey{Text: m.Text, Shop: m.Shop} }

type MatchMethod string

const (
	MethodExact              MatchMethod = "exact"
	MethodTranslation        MatchMethod = "translation"
	MethodTranslationVariant MatchMethod = "translation_variant"
	MethodAbbreviation       MatchMethod = "abbreviation"
	MethodSimilarity         MatchMethod = "similarity"
	MethodSimilarityLow      MatchMethod = "similarity_low"
	MethodNone               MatchMethod = "none"
)

// SuggestionSemantic помечает подсказки, найденные семантическим матчером.
const SuggestionSemantic = "semantic"

type Suggestion struct {
	ProductID      string  `json:"product_id"`
	NormalizedName string  `json:"normalized_name"`
	Score          float64 `json:"score"`
	Method         string  `json:"method,omitempty"`
}

type MatchResult struct {
	ProductID      string       `json:"product_id,omitempty"`
	NormalizedName string       `json:"normalized_name,omitempty"`
	Confidence     float64      `json:"confidence"`
	Method         MatchMethod  `json:"match_method"`
	NeedsReview    bool         `json:"needs_review"`
	Suggestions    []Suggestion `json:"suggestions"`
}

// Matched — найден ли товар.
func (r MatchResult) Matched() bool { return r.ProductID != "" }

// BatchItem — строка чека; Normalization заполняется при пакетной обработке.
// В JSON прочие поля позиции лежат на верхнем уровне рядом с name и
// попадают в Extra, так что позиция возвращается с теми же полями.
type BatchItem struct {
	Name          string         `json:"name"`
	Quantity      float64        `json:"quantity,omitempty"`
	Price         float64        `json:"price,omitempty"`
	Extra         map[string]any `json:"-"`
	Normalization *MatchResult   `json:"normalization,omitempty"`
}

var batchItemKeys = map[string]struct{}{
	"name": {}, "quantity": {}, "price": {}, "normalization": {}, "extra": {},
}

func (b *BatchItem) UnmarshalJSON(data []byte) error {
	var known struct {
		Name          string         `json:"name"`
		Quantity      float64        `json:"quantity"`
		Price         float64        `json:"price"`
		Extra         map[string]any `json:"extra"`
		Normalization *MatchResult   `json:"normalization"`
	}
	if err := json.Unmarshal(data, &known); err != nil {
		return err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*b = BatchItem{
		Name:          known.Name,
		Quantity:      known.Quantity,
		Price:         known.Price,
		Normalization: known.Normalization,
	}
	// явный объект extra тоже принимаем, верхний уровень важнее
	for k, v := range known.Extra {
		b.setExtra(k, v)
	}
	for k, v := range raw {
		if _, ok := batchItemKeys[k]; ok {
			continue
		}
		var val any
		if err := json.Unmarshal(v, &val); err != nil {
			return err
		}
		b.setExtra(k, val)
	}
	return nil
}

func (b BatchItem) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(b.Extra)+4)
	for k, v := range b.Extra {
		if _, ok := batchItemKeys[k]; !ok {
			out[k] = v
		}
	}
	out["name"] = b.Name
	if b.Quantity != 0 {
		out["quantity"] = b.Quantity
	}
	if b.Price != 0 {
		out["price"] = b.Price
	}
	if b.Normalization != nil {
		out["normalization"] = b.Normalization
	}
	return json.Marshal(out)
}

func (b *BatchItem) setExtra(k string, v any) {
	if b.Extra == nil {
		b.Extra = make(map[string]any)
	}
	b.Extra[k] = v
}

type SearchHit struct {
	ProductRecord
	MatchScore float64 `json:"match_score"`
}

// Stats — сводка по текущему снимку каталога.
type Stats struct {
	Generation uint64 `json:"generation"`
	Products   int    `json:"products"`
	IndexKeys  int    `json:"index_keys"`
	Mappings   int    `json:"mappings"`
}
