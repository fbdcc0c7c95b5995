package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"product-normalizer/internal/normalize/model"
)

const (
	productIDPrefix = "PROD_"
	productIDWidth  = 3
)

// Catalog — каталог товаров с атомарно подменяемым снимком.
// Изменения сериализуются мьютексом, читатели не блокируются.
type Catalog struct {
	mu    sync.Mutex
	snap  atomic.Pointer[Snapshot]
	store Store // может быть nil
	log   zerolog.Logger
	now   func() time.Time
}

// NewCatalog строит каталог из готовых данных. store может быть nil.
func NewCatalog(products []model.ProductRecord, mappings []model.LearnedMapping, store Store, logger zerolog.Logger) *Catalog {
	c := &Catalog{store: store, log: logger, now: time.Now}
	c.snap.Store(buildSnapshot(1, cloneProducts(products), mappings))
	return c
}

// Open загружает каталог и соответствия из хранилища. Отсутствующие
// или битые данные заменяются встроенным каталогом — это не ошибка.
func Open(ctx context.Context, store Store, logger zerolog.Logger) *Catalog {
	if store == nil {
		logger.Warn().Msg("catalog store not configured, using built-in catalog")
		return NewCatalog(DefaultCatalog(), nil, nil, logger)
	}

	products, err := store.LoadCatalog(ctx)
	seedCatalog := false
	switch {
	case err != nil:
		logger.Warn().Err(err).Msg("load catalog failed, using built-in catalog")
		products, seedCatalog = DefaultCatalog(), true
	case len(products) == 0:
		logger.Info().Msg("catalog is empty, using built-in catalog")
		products, seedCatalog = DefaultCatalog(), true
	}

	mappings, err := store.LoadMappings(ctx)
	seedMappings := false
	if err != nil {
		logger.Warn().Err(err).Msg("load mappings failed, starting with none")
		mappings, seedMappings = nil, true
	}

	c := NewCatalog(products, mappings, store, logger)
	if seedCatalog {
		c.saveCatalog(ctx, c.Snapshot())
	}
	if seedMappings {
		c.saveMappings(ctx, c.Snapshot())
	}
	st := c.Snapshot().Stats()
	logger.Info().
		Int("products", st.Products).
		Int("index_keys", st.IndexKeys).
		Int("mappings", st.Mappings).
		Msg("catalog ready")
	return c
}

// Snapshot — текущий снимок. Для одного решения берите снимок один раз.
func (c *Catalog) Snapshot() *Snapshot { return c.snap.Load() }

func (c *Catalog) Product(id string) (model.ProductRecord, bool) {
	return c.Snapshot().Product(id)
}

func (c *Catalog) Products() []model.ProductRecord { return c.Snapshot().Products() }

func (c *Catalog) Stats() model.Stats { return c.Snapshot().Stats() }

// LearnMapping запоминает подтверждённое соответствие и сразу делает его
// видимым следующему Resolve. false — пустой текст или идентификатор.
func (c *Catalog) LearnMapping(ctx context.Context, raw, productID, shop string) bool {
	text := Canonicalize(raw)
	productID = strings.TrimSpace(productID)
	if text == "" || productID == "" {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	// время берём под мьютексом: порядок LearnedAt совпадает с порядком применения
	m := model.LearnedMapping{
		Text:      text,
		Shop:      strings.TrimSpace(shop),
		ProductID: productID,
		LearnedAt: c.now().UTC(),
	}
	next := c.Snapshot().withMapping(m)
	c.snap.Store(next)
	c.saveMappings(ctx, next)

	c.log.Info().
		Str("raw", raw).
		Str("key", m.Key().String()).
		Str("product_id", productID).
		Msg("learned mapping")
	return true
}

// AddProduct добавляет товар и перестраивает индекс.
func (c *Catalog) AddProduct(ctx context.Context, p model.NewProduct) (string, error) {
	ids, err := c.AddProducts(ctx, []model.NewProduct{p})
	if err != nil {
		return "", err
	}
	return ids[0], nil
}

// AddProducts добавляет товары одной перестройкой индекса.
// Если хотя бы один товар некорректен, каталог не меняется.
func (c *Catalog) AddProducts(ctx context.Context, items []model.NewProduct) ([]string, error) {
	for i, p := range items {
		if Canonicalize(p.NormalizedName) == "" {
			return nil, fmt.Errorf("item %d (%q): %w", i, p.NormalizedName, ErrInvalidProduct)
		}
	}
	if len(items) == 0 {
		return nil, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	cur := c.Snapshot()
	products := cur.Products()
	next := maxIDSuffix(products)
	ids := make([]string, 0, len(items))
	for _, p := range items {
		next++
		id := fmt.Sprintf("%s%0*d", productIDPrefix, productIDWidth, next)
		unit := strings.TrimSpace(p.UnitOfMeasure)
		if unit == "" {
			unit = "piece"
		}
		products = append(products, model.ProductRecord{
			ProductID:        id,
			NormalizedName:   strings.ToLower(strings.TrimSpace(p.NormalizedName)),
			Category:         strings.TrimSpace(p.Category),
			UnitOfMeasure:    unit,
			AliasesPrimary:   cleanAliases(p.AliasesFR),
			AliasesSecondary: cleanAliases(p.AliasesEN),
		})
		ids = append(ids, id)
	}

	snap := buildSnapshot(cur.Generation+1, products, cur.Mappings())
	c.snap.Store(snap)
	c.saveCatalog(ctx, snap)

	c.log.Info().Strs("product_ids", ids).Int("index_keys", len(snap.index)).Msg("products added")
	return ids, nil
}

// Reload перечитывает хранилище. При ошибке текущий снимок остаётся.
// Чтение идёт под мьютексом писателей: иначе LearnMapping, успевший между
// чтением и подменой, пропал бы из индекса.
func (c *Catalog) Reload(ctx context.Context) error {
	if c.store == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	products, err := c.store.LoadCatalog(ctx)
	if err != nil {
		return fmt.Errorf("reload catalog: %w", err)
	}
	if len(products) == 0 {
		return fmt.Errorf("reload catalog: no products")
	}
	mappings, err := c.store.LoadMappings(ctx)
	if err != nil {
		return fmt.Errorf("reload mappings: %w", err)
	}

	snap := buildSnapshot(c.Snapshot().Generation+1, products, mappings)
	c.snap.Store(snap)
	c.log.Info().Uint64("generation", snap.Generation).Int("products", len(products)).Msg("catalog reloaded")
	return nil
}

// Сохранение — забота хранилища; ошибка только логируется.
func (c *Catalog) saveCatalog(ctx context.Context, s *Snapshot) {
	if c.store == nil {
		return
	}
	if err := c.store.SaveCatalog(ctx, s.Products()); err != nil {
		c.log.Error().Err(err).Msg("save catalog")
	}
}

func (c *Catalog) saveMappings(ctx context.Context, s *Snapshot) {
	if c.store == nil {
		return
	}
	if err := c.store.SaveMappings(ctx, s.Mappings()); err != nil {
		c.log.Error().Err(err).Msg("save mappings")
	}
}

// maxIDSuffix — наибольший числовой суффикс среди идентификаторов.
// Нечисловые суффиксы пропускаем.
func maxIDSuffix(products []model.ProductRecord) int {
	top := 0
	for _, p := range products {
		i := strings.LastIndex(p.ProductID, "_")
		if i < 0 {
			continue
		}
		n, err := strconv.Atoi(p.ProductID[i+1:])
		if err != nil {
			continue
		}
		if n > top {
			top = n
		}
	}
	return top
}

func cleanAliases(in []string) []string {
	out := make([]string, 0, len(in))
	for _, a := range in {
		if a = strings.TrimSpace(a); a != "" {
			out = append(out, a)
		}
	}
	return out
}

func cloneProducts(in []model.ProductRecord) []model.ProductRecord {
	out := make([]model.ProductRecord, len(in))
	copy(out, in)
	return out
}
