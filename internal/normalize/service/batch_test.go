package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"product-normalizer/internal/normalize/model"
)

func TestNormalizeBatch(t *testing.T) {
	defer goleak.VerifyNone(t)

	m := defaultMatcher()
	items := []model.BatchItem{
		{Name: "Tomates", Quantity: 2, Price: 1500},
		{Name: "BNN PLTN", Quantity: 1},
		{Name: "Unknown Product XYZ", Extra: map[string]any{"line": 3}},
		{Name: ""},
	}
	out, err := m.NormalizeBatch(context.Background(), items, "shop-1")
	require.NoError(t, err)
	require.Len(t, out, len(items))

	for i := range items {
		assert.Equal(t, items[i].Name, out[i].Name)
		require.NotNil(t, out[i].Normalization, i)
		assert.Nil(t, items[i].Normalization, "input must not be modified")
	}
	assert.Equal(t, model.MethodExact, out[0].Normalization.Method)
	assert.Equal(t, 2.0, out[0].Quantity)
	assert.Equal(t, model.MethodAbbreviation, out[1].Normalization.Method)
	assert.Equal(t, model.MethodNone, out[2].Normalization.Method)
	assert.Equal(t, 3, out[2].Extra["line"])
	assert.Equal(t, model.MethodNone, out[3].Normalization.Method)
}

func TestNormalizeBatchPreservesOrder(t *testing.T) {
	defer goleak.VerifyNone(t)

	p := DefaultPolicy()
	p.BatchWorkers = 3
	m := defaultMatcher(WithPolicy(p))

	names := []string{"tomate", "banane", "riz", "sucre", "savon", "soda", "lait", "pain"}
	var items []model.BatchItem
	for i := 0; i < 40; i++ {
		items = append(items, model.BatchItem{Name: names[i%len(names)]})
	}
	out, err := m.NormalizeBatch(context.Background(), items, "")
	require.NoError(t, err)
	for i, it := range out {
		want := m.Resolve(context.Background(), it.Name, "")
		assert.Equal(t, want, *it.Normalization, fmt.Sprintf("item %d", i))
	}
}

func TestNormalizeBatchCancelled(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := defaultMatcher().NormalizeBatch(ctx, []model.BatchItem{{Name: "riz"}}, "")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNormalizeBatchEmpty(t *testing.T) {
	out, err := defaultMatcher().NormalizeBatch(context.Background(), nil, "")
	require.NoError(t, err)
	assert.Empty(t, out)
}
