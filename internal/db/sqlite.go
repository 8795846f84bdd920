// Package db provides the SQLite-backed persistent key-value area for the
// record store.
package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/quitbet/quitbet/internal/records"
)

// SQLiteBackend stores each record under one row of the records table.
type SQLiteBackend struct {
	db  *sql.DB
	log *zap.Logger
}

func NewSQLiteBackend(db *sql.DB, log *zap.Logger) (*SQLiteBackend, error) {
	if db == nil {
		return nil, errors.New("nil db")
	}
	if log == nil {
		log = zap.NewNop()
	}
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, stmt := range pragmas {
		if _, err := db.Exec(stmt); err != nil {
			return nil, fmt.Errorf("apply sqlite pragma %q: %w", stmt, err)
		}
	}
	return &SQLiteBackend{db: db, log: log}, nil
}

func (b *SQLiteBackend) Get(key string) ([]byte, error) {
	var value string
	err := b.db.QueryRow(`SELECT value FROM records WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, records.ErrNoRecord
	}
	if err != nil {
		return nil, fmt.Errorf("select record %s: %w", key, err)
	}
	return []byte(value), nil
}

func (b *SQLiteBackend) Put(key string, value []byte) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := b.db.Exec(`
		INSERT INTO records (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, string(value), now)
	if err != nil {
		return fmt.Errorf("upsert record %s: %w", key, err)
	}
	return nil
}

func (b *SQLiteBackend) Delete(keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	tx, err := b.db.Begin()
	if err != nil {
		return fmt.Errorf("begin delete: %w", err)
	}
	for _, k := range keys {
		if _, err := tx.Exec(`DELETE FROM records WHERE key = ?`, k); err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				b.log.Warn("rollback delete", zap.Error(rerr))
			}
			return fmt.Errorf("delete record %s: %w", k, err)
		}
	}
	return tx.Commit()
}

func (b *SQLiteBackend) Keys(prefix string) ([]string, error) {
	rows, err := b.db.Query(`SELECT key FROM records WHERE key LIKE ? ORDER BY key`, prefix+"%")
	if err != nil {
		return nil, fmt.Errorf("list records %s: %w", prefix, err)
	}
	defer rows.Close()
	out := []string{}
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("scan record key: %w", err)
		}
		out = append(out, k)
	}
	return out, rows.Err()
}
