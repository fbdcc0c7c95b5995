package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"

	"product-normalizer/internal/normalize/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS products (
	product_id      TEXT PRIMARY KEY,
	position        INTEGER NOT NULL,
	normalized_name TEXT NOT NULL,
	category        TEXT NOT NULL DEFAULT '',
	unit_of_measure TEXT NOT NULL DEFAULT '',
	aliases_fr      TEXT NOT NULL DEFAULT '[]',
	aliases_en      TEXT NOT NULL DEFAULT '[]'
);
CREATE TABLE IF NOT EXISTS mappings (
	text       TEXT NOT NULL,
	shop_id    TEXT NOT NULL DEFAULT '',
	product_id TEXT NOT NULL,
	learned_at TEXT NOT NULL,
	PRIMARY KEY (text, shop_id)
);`

// SQLiteStore — каталог и соответствия в одной базе SQLite.
type SQLiteStore struct {
	db  *sql.DB
	log zerolog.Logger
}

func OpenSQLite(path string, logger zerolog.Logger) (*SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite path is empty")
	}
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}
	// один писатель, как и у каталога
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate %s: %w", path, err)
	}
	logger.Info().Str("path", path).Msg("sqlite store opened")
	return &SQLiteStore{db: db, log: logger}, nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

func (s *SQLiteStore) LoadCatalog(ctx context.Context) ([]model.ProductRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT product_id, normalized_name, category, unit_of_measure, aliases_fr, aliases_en
		FROM products ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	var out []model.ProductRecord
	for rows.Next() {
		var (
			p      model.ProductRecord
			fr, en string
		)
		if err := rows.Scan(&p.ProductID, &p.NormalizedName, &p.Category, &p.UnitOfMeasure, &fr, &en); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		if err := json.Unmarshal([]byte(fr), &p.AliasesPrimary); err != nil {
			return nil, fmt.Errorf("product %s aliases_fr: %w", p.ProductID, err)
		}
		if err := json.Unmarshal([]byte(en), &p.AliasesSecondary); err != nil {
			return nil, fmt.Errorf("product %s aliases_en: %w", p.ProductID, err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("products: %w", ErrNotFound)
	}
	return out, nil
}

func (s *SQLiteStore) SaveCatalog(ctx context.Context, products []model.ProductRecord) error {
	return s.replace(ctx, "products", func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `INSERT INTO products
			(product_id, position, normalized_name, category, unit_of_measure, aliases_fr, aliases_en)
			VALUES (?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for i, p := range products {
			fr, err := marshalAliases(p.AliasesPrimary)
			if err != nil {
				return err
			}
			en, err := marshalAliases(p.AliasesSecondary)
			if err != nil {
				return err
			}
			if _, err := stmt.ExecContext(ctx, p.ProductID, i, p.NormalizedName, p.Category, p.UnitOfMeasure, fr, en); err != nil {
				return fmt.Errorf("insert product %s: %w", p.ProductID, err)
			}
		}
		return nil
	})
}

func (s *SQLiteStore) LoadMappings(ctx context.Context) ([]model.LearnedMapping, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT text, shop_id, product_id, learned_at FROM mappings ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("query mappings: %w", err)
	}
	defer rows.Close()

	var out []model.LearnedMapping
	for rows.Next() {
		var (
			m  model.LearnedMapping
			at string
		)
		if err := rows.Scan(&m.Text, &m.Shop, &m.ProductID, &at); err != nil {
			return nil, fmt.Errorf("scan mapping: %w", err)
		}
		if m.LearnedAt, err = time.Parse(time.RFC3339Nano, at); err != nil {
			return nil, fmt.Errorf("mapping %q learned_at: %w", m.Key(), err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) SaveMappings(ctx context.Context, mappings []model.LearnedMapping) error {
	return s.replace(ctx, "mappings", func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `INSERT INTO mappings (text, shop_id, product_id, learned_at) VALUES (?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for _, m := range mappings {
			at := m.LearnedAt.UTC().Format(time.RFC3339Nano)
			if _, err := stmt.ExecContext(ctx, m.Text, m.Shop, m.ProductID, at); err != nil {
				return fmt.Errorf("insert mapping %q: %w", m.Key(), err)
			}
		}
		return nil
	})
}

// replace очищает таблицу и заполняет её заново в одной транзакции.
func (s *SQLiteStore) replace(ctx context.Context, table string, fill func(tx *sql.Tx) error) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	if _, err = tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
		return fmt.Errorf("clear %s: %w", table, err)
	}
	if err = fill(tx); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit %s: %w", table, err)
	}
	s.log.Debug().Str("table", table).Msg("saved")
	return nil
}

func marshalAliases(a []string) (string, error) {
	if a == nil {
		a = []string{}
	}
	b, err := json.Marshal(a)
	return string(b), err
}
