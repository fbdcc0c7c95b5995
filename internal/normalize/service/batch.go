package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"product-normalizer/internal/normalize/model"
)

// NormalizeBatch сопоставляет позиции чека параллельно, порядок сохраняется.
// Все позиции читают один и тот же снимок каталога.
func (m *Matcher) NormalizeBatch(ctx context.Context, items []model.BatchItem, shop string) ([]model.BatchItem, error) {
	out := make([]model.BatchItem, len(items))
	copy(out, items)
	if len(out) == 0 {
		return out, nil
	}

	snap := m.catalog.Snapshot()
	workers := m.policy.BatchWorkers
	if workers <= 0 {
		workers = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range out {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res := m.resolve(gctx, snap, out[i].Name, shop)
			out[i].Normalization = &res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	m.log.Debug().
		Int("items", len(out)).
		Uint64("generation", snap.Generation).
		Msg("batch normalized")
	return out, nil
}
