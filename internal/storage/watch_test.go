package storage

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestJSONStoreWatch(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	s := NewJSONStore(t.TempDir(), zerolog.Nop())
	s.Debounce = 20 * time.Millisecond
	require.NoError(t, s.SaveCatalog(ctx, sampleProducts()))

	var reloads atomic.Int32
	done := make(chan error, 1)
	go func() { done <- s.Watch(ctx, func() { reloads.Add(1) }) }()
	// даём наблюдателю подписаться
	time.Sleep(100 * time.Millisecond)

	// собственная запись не вызывает перезагрузку
	require.NoError(t, s.SaveCatalog(ctx, sampleProducts()[:1]))
	time.Sleep(200 * time.Millisecond)
	assert.Zero(t, reloads.Load())

	// внешняя правка вызывает
	doc := catalogDoc{Products: sampleProducts(), Version: "1.0"}
	data, err := json.Marshal(doc)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(s.Dir, catalogFile), data, 0o644))
	assert.Eventually(t, func() bool { return reloads.Load() >= 1 }, 3*time.Second, 20*time.Millisecond)

	// посторонние файлы игнорируются
	before := reloads.Load()
	require.NoError(t, os.WriteFile(filepath.Join(s.Dir, "notes.txt"), []byte("x"), 0o644))
	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, before, reloads.Load())

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("watcher did not stop")
	}
}
