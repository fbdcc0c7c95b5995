package service

import (
	"sort"

	"product-normalizer/internal/normalize/model"
)

// Snapshot — неизменяемый снимок каталога: товары, индекс "канон → товар"
// и выученные соответствия. Читатели работают только со снимком,
// писатели публикуют новый целиком.
type Snapshot struct {
	Generation uint64

	products []model.ProductRecord
	byID     map[string]int
	index    map[string]string
	keys     []string // ключи индекса в порядке первой вставки
	learned  map[model.MappingKey]model.LearnedMapping
}

// buildSnapshot: сначала имена и алиасы каталога, затем поверх — выученные
// соответствия в порядке обучения (последний писатель выигрывает).
func buildSnapshot(gen uint64, products []model.ProductRecord, mappings []model.LearnedMapping) *Snapshot {
	s := &Snapshot{
		Generation: gen,
		products:   products,
		byID:       make(map[string]int, len(products)),
		index:      make(map[string]string),
		learned:    make(map[model.MappingKey]model.LearnedMapping, len(mappings)),
	}
	for i, p := range products {
		s.byID[p.ProductID] = i
		for _, name := range p.Names() {
			s.put(Canonicalize(name), p.ProductID)
		}
	}
	for _, m := range orderMappings(mappings) {
		// файл могли править руками
		m.Text = Canonicalize(m.Text)
		if m.Text == "" || m.ProductID == "" {
			continue
		}
		s.learned[m.Key()] = m
		s.put(m.Text, m.ProductID)
	}
	return s
}

func (s *Snapshot) put(key, productID string) {
	if key == "" {
		return
	}
	if _, ok := s.index[key]; !ok {
		s.keys = append(s.keys, key)
	}
	s.index[key] = productID
}

// withMapping — копия снимка с одной новой записью (без полной перестройки).
func (s *Snapshot) withMapping(m model.LearnedMapping) *Snapshot {
	next := &Snapshot{
		Generation: s.Generation + 1,
		products:   s.products,
		byID:       s.byID,
		index:      make(map[string]string, len(s.index)+1),
		keys:       make([]string, len(s.keys), len(s.keys)+1),
		learned:    make(map[model.MappingKey]model.LearnedMapping, len(s.learned)+1),
	}
	for k, v := range s.index {
		next.index[k] = v
	}
	copy(next.keys, s.keys)
	for k, v := range s.learned {
		next.learned[k] = v
	}
	next.learned[m.Key()] = m
	next.put(m.Text, m.ProductID)
	return next
}

// Lookup — точный поиск по каноническому ключу.
func (s *Snapshot) Lookup(key string) (string, bool) {
	id, ok := s.index[key]
	return id, ok
}

// LookupLearned — выученное соответствие с учётом магазина.
func (s *Snapshot) LookupLearned(key model.MappingKey) (string, bool) {
	m, ok := s.learned[key]
	return m.ProductID, ok
}

// Keys — ключи индекса; срез общий, менять нельзя.
func (s *Snapshot) Keys() []string { return s.keys }

func (s *Snapshot) Product(id string) (model.ProductRecord, bool) {
	i, ok := s.byID[id]
	if !ok {
		return model.ProductRecord{}, false
	}
	return s.products[i], true
}

// Products — копия списка товаров.
func (s *Snapshot) Products() []model.ProductRecord {
	out := make([]model.ProductRecord, len(s.products))
	copy(out, s.products)
	return out
}

// Mappings — выученные соответствия в порядке обучения.
func (s *Snapshot) Mappings() []model.LearnedMapping {
	out := make([]model.LearnedMapping, 0, len(s.learned))
	for _, m := range s.learned {
		out = append(out, m)
	}
	return orderMappings(out)
}

func (s *Snapshot) Stats() model.Stats {
	return model.Stats{
		Generation: s.Generation,
		Products:   len(s.products),
		IndexKeys:  len(s.index),
		Mappings:   len(s.learned),
	}
}

// displayName — имя товара или сам ключ, если товара нет в каталоге.
func (s *Snapshot) displayName(productID, fallback string) string {
	if p, ok := s.Product(productID); ok {
		return p.NormalizedName
	}
	return fallback
}

func orderMappings(ms []model.LearnedMapping) []model.LearnedMapping {
	out := make([]model.LearnedMapping, len(ms))
	copy(out, ms)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].LearnedAt.Equal(out[j].LearnedAt) {
			return out[i].LearnedAt.Before(out[j].LearnedAt)
		}
		return out[i].Key().String() < out[j].Key().String()
	})
	return out
}
