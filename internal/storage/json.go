package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/rs/zerolog"

	"product-normalizer/internal/normalize/model"
)

// JSONStore хранит каталог и соответствия двумя JSON-файлами в Dir.
type JSONStore struct {
	Dir string

	// Debounce — пауза перед перечитыванием после внешней правки файла.
	Debounce time.Duration

	log zerolog.Logger
	now func() time.Time

	mu      sync.Mutex
	written map[string]uint64 // имя файла → xxhash последней собственной записи
}

func NewJSONStore(dir string, logger zerolog.Logger) *JSONStore {
	if dir == "" {
		dir = "."
	}
	return &JSONStore{
		Dir:      dir,
		Debounce: 250 * time.Millisecond,
		log:      logger,
		now:      time.Now,
		written:  make(map[string]uint64),
	}
}

type catalogDoc struct {
	Products    []model.ProductRecord `json:"products"`
	Version     string                `json:"version"`
	LastUpdated time.Time             `json:"last_updated"`
}

type mappingsDoc struct {
	Mappings    mappingList `json:"mappings"`
	Version     string      `json:"version"`
	LastUpdated time.Time   `json:"last_updated"`
}

// mappingList читает и список записей, и старый формат
// {"текст|магазин": "PROD_001"}.
type mappingList []model.LearnedMapping

func (l *mappingList) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '{' {
		var legacy map[string]string
		if err := json.Unmarshal(b, &legacy); err != nil {
			return err
		}
		keys := make([]string, 0, len(legacy))
		for k := range legacy {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := make(mappingList, 0, len(keys))
		for _, k := range keys {
			mk := model.ParseMappingKey(k)
			out = append(out, model.LearnedMapping{Text: mk.Text, Shop: mk.Shop, ProductID: legacy[k]})
		}
		*l = out
		return nil
	}
	var list []model.LearnedMapping
	if err := json.Unmarshal(b, &list); err != nil {
		return err
	}
	*l = list
	return nil
}

func (s *JSONStore) LoadCatalog(ctx context.Context) ([]model.ProductRecord, error) {
	var doc catalogDoc
	if err := s.read(ctx, catalogFile, &doc); err != nil {
		return nil, err
	}
	return doc.Products, nil
}

func (s *JSONStore) SaveCatalog(ctx context.Context, products []model.ProductRecord) error {
	if products == nil {
		products = []model.ProductRecord{}
	}
	return s.write(ctx, catalogFile, catalogDoc{
		Products:    products,
		Version:     formatVer,
		LastUpdated: s.now().UTC(),
	})
}

func (s *JSONStore) LoadMappings(ctx context.Context) ([]model.LearnedMapping, error) {
	var doc mappingsDoc
	if err := s.read(ctx, mappingsFile, &doc); err != nil {
		return nil, err
	}
	return doc.Mappings, nil
}

func (s *JSONStore) SaveMappings(ctx context.Context, mappings []model.LearnedMapping) error {
	if mappings == nil {
		mappings = []model.LearnedMapping{}
	}
	return s.write(ctx, mappingsFile, mappingsDoc{
		Mappings:    mappings,
		Version:     formatVer,
		LastUpdated: s.now().UTC(),
	})
}

func (s *JSONStore) Close() error { return nil }

func (s *JSONStore) read(ctx context.Context, name string, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path := filepath.Join(s.Dir, name)
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%s: %w", path, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func (s *JSONStore) write(ctx context.Context, name string, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := writeFileAtomic(s.Dir, name, data); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Join(s.Dir, name), err)
	}
	s.written[name] = xxhash.Sum64(data)
	return nil
}

// ownWrite — совпадает ли содержимое с нашей последней записью.
func (s *JSONStore) ownWrite(name string, data []byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.written[name]
	return ok && h == xxhash.Sum64(data)
}
