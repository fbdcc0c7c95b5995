package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watch следит за файлами хранилища и вызывает onChange после внешней
// правки (с паузой Debounce). Собственные записи узнаются по хешу
// содержимого и пропускаются. Блокируется до отмены ctx.
func (s *JSONStore) Watch(ctx context.Context, onChange func()) error {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.Add(s.Dir); err != nil {
		return fmt.Errorf("watch %s: %w", s.Dir, err)
	}
	s.log.Info().Str("dir", s.Dir).Msg("watching catalog files")

	var (
		timer   *time.Timer
		fire    <-chan time.Time
		pending = make(map[string]struct{})
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			name := filepath.Base(ev.Name)
			if name != catalogFile && name != mappingsFile {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			pending[name] = struct{}{}
			if timer == nil {
				timer = time.NewTimer(s.Debounce)
			} else {
				timer.Reset(s.Debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			if s.changedExternally(pending) {
				s.log.Info().Msg("catalog files changed on disk, reloading")
				onChange()
			}
			pending = make(map[string]struct{})

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			s.log.Warn().Err(err).Msg("catalog watcher error")
		}
	}
}

func (s *JSONStore) changedExternally(names map[string]struct{}) bool {
	for name := range names {
		data, err := os.ReadFile(filepath.Join(s.Dir, name))
		if err != nil {
			continue
		}
		if !s.ownWrite(name, data) {
			return true
		}
	}
	return false
}
