// Package storage — долговременное хранение каталога и выученных соответствий.
package storage

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"product-normalizer/internal/normalize/service"
)

// ErrNotFound — файла или строк ещё нет. Каталог в этом случае
// стартует со встроенных данных.
var ErrNotFound = errors.New("not found")

const (
	DriverJSON   = "json"
	DriverSQLite = "sqlite"

	catalogFile  = "master_products.json"
	mappingsFile = "product_mappings.json"
	formatVer    = "1.0"
)

// Store — service.Store с освобождением ресурсов.
type Store interface {
	service.Store
	Close() error
}

type Options struct {
	Driver     string
	Dir        string
	SQLitePath string
}

// New открывает хранилище выбранного драйвера.
func New(opts Options, logger zerolog.Logger) (Store, error) {
	switch opts.Driver {
	case "", DriverJSON:
		return NewJSONStore(opts.Dir, logger), nil
	case DriverSQLite:
		return OpenSQLite(opts.SQLitePath, logger)
	}
	return nil, fmt.Errorf("unknown storage driver %q", opts.Driver)
}
