package insightstore

import (
	"context"
	"database/sql"
	"fmt"

	domainInsight "github.com/hackatransparency/alfred-vision/domains/insight"
	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore persists insights in a single flat table so they survive
// restarts. An optional byte budget makes the quota path observable the
// same way the memory store does.
type SQLiteStore struct {
	db       *sql.DB
	maxBytes int64
}

// NewSQLiteStore opens (or creates) the database at dbPath. maxBytes <= 0
// means unlimited.
func NewSQLiteStore(dbPath string, maxBytes int64) (*SQLiteStore, error) {
	connStr := fmt.Sprintf("file:%s?_journal_mode=WAL&_foreign_keys=on", dbPath)
	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open insight store: %w", err)
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS insights (key TEXT PRIMARY KEY, value TEXT NOT NULL)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create insights table: %w", err)
	}

	return &SQLiteStore{db: db, maxBytes: maxBytes}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM insights WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (s *SQLiteStore) Set(ctx context.Context, key, value string) error {
	if s.maxBytes > 0 {
		var used sql.NullInt64
		err := s.db.QueryRowContext(ctx,
			`SELECT SUM(LENGTH(key) + LENGTH(value)) FROM insights WHERE key != ?`, key).Scan(&used)
		if err != nil {
			return err
		}
		if used.Int64+int64(len(key)+len(value)) > s.maxBytes {
			return domainInsight.ErrQuotaExceeded
		}
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO insights (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value)
	return err
}

func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM insights WHERE key = ?`, key)
	return err
}

// Keys matches by exact prefix. LIKE is avoided because cache keys contain
// underscores, which LIKE treats as wildcards.
func (s *SQLiteStore) Keys(ctx context.Context, prefix string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT key FROM insights WHERE substr(key, 1, ?) = ?`, len(prefix), prefix)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}
