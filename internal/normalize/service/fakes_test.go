package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"product-normalizer/internal/normalize/model"
)

// memStore — хранилище в памяти для тестов.
type memStore struct {
	mu       sync.Mutex
	products []model.ProductRecord
	mappings []model.LearnedMapping
	loadErr  error
	saveErr  error

	catalogSaves int
	mappingSaves int
}

func (s *memStore) LoadCatalog(context.Context) ([]model.ProductRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return cloneProducts(s.products), nil
}

func (s *memStore) SaveCatalog(_ context.Context, p []model.ProductRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.catalogSaves++
	if s.saveErr != nil {
		return s.saveErr
	}
	s.products = cloneProducts(p)
	return nil
}

func (s *memStore) LoadMappings(context.Context) ([]model.LearnedMapping, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return append([]model.LearnedMapping(nil), s.mappings...), nil
}

func (s *memStore) SaveMappings(_ context.Context, m []model.LearnedMapping) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mappingSaves++
	if s.saveErr != nil {
		return s.saveErr
	}
	s.mappings = append([]model.LearnedMapping(nil), m...)
	return nil
}

// gatedStore останавливает LoadMappings, пока тест не откроет release.
type gatedStore struct {
	*memStore
	entered chan struct{}
	release chan struct{}
}

func (s *gatedStore) LoadMappings(ctx context.Context) ([]model.LearnedMapping, error) {
	close(s.entered)
	<-s.release
	return s.memStore.LoadMappings(ctx)
}

// fakeTranslator отвечает по таблицам канонических форм.
type fakeTranslator struct {
	pivot    map[string]string
	variants map[string][]string
	err      error
	panics   bool
	block    bool

	mu    sync.Mutex
	calls int
}

func (f *fakeTranslator) NormalizeToPivot(ctx context.Context, text, _ string) (string, error) {
	f.hit()
	if err := f.fail(ctx); err != nil {
		return "", err
	}
	if v, ok := f.pivot[Canonicalize(text)]; ok {
		return v, nil
	}
	return text, nil
}

func (f *fakeTranslator) Variants(ctx context.Context, text string) ([]string, error) {
	f.hit()
	if err := f.fail(ctx); err != nil {
		return nil, err
	}
	return append([]string{text}, f.variants[Canonicalize(text)]...), nil
}

func (f *fakeTranslator) hit() {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
}

func (f *fakeTranslator) fail(ctx context.Context) error {
	if f.panics {
		panic("translator exploded")
	}
	if f.block {
		<-ctx.Done()
		return ctx.Err()
	}
	return f.err
}

// fakeSemantic: фиксированные оценки по ключу индекса.
type fakeSemantic struct {
	scores map[string]float64
	errFor map[string]bool
	panics bool

	mu    sync.Mutex
	calls int
}

func (f *fakeSemantic) Similarity(_ context.Context, _, b string) (float64, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.panics {
		panic("semantic exploded")
	}
	if f.errFor[b] {
		return 0, errors.New("semantic backend unavailable")
	}
	return f.scores[b], nil
}

func newTestCatalog(products []model.ProductRecord) *Catalog {
	c := NewCatalog(products, nil, nil, zerolog.Nop())
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	var n int
	c.now = func() time.Time {
		n++
		return base.Add(time.Duration(n) * time.Second)
	}
	return c
}

func defaultMatcher(opts ...Option) *Matcher {
	return NewMatcher(newTestCatalog(DefaultCatalog()), opts...)
}
