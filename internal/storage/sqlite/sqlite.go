// Package sqlite implements the storage on an embedded sqlite database.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite" // pure go sqlite driver

	"github.com/drakos74/free-transit/internal/storage"
)

const schema = `
CREATE TABLE IF NOT EXISTS records (
	collection TEXT NOT NULL,
	label      TEXT NOT NULL,
	value      TEXT NOT NULL,
	updated_at INTEGER NOT NULL,
	PRIMARY KEY (collection, label)
)`

// DB wraps the database connection.
type DB struct {
	conn *sql.DB
	path string
}

// Open opens the database at the given path and creates the schema if needed.
func Open(ctx context.Context, path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	conn, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	// a single writer avoids lock contention
	conn.SetMaxOpenConns(1)

	if _, err := conn.ExecContext(ctx, schema); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	log.Info().Str("path", path).Msg("opened sqlite storage")
	return &DB{conn: conn, path: path}, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Shard creates storages on the database, one per collection.
func (db *DB) Shard() storage.Shard {
	return func(collection string) (storage.Persistence, error) {
		return &Storage{db: db.conn, collection: collection, timeout: 5 * time.Second}, nil
	}
}

// Storage stores json encoded values in the records table.
type Storage struct {
	db         *sql.DB
	collection string
	timeout    time.Duration
}

func (s *Storage) Store(k storage.Key, value interface{}) error {
	b, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("could not marshal value for '%+v': %v: %w", k, err, storage.CouldNotStoreErr)
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO records (collection, label, value, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT (collection, label) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		s.key(k), k.Label, string(b), time.Now().Unix())
	if err != nil {
		return fmt.Errorf("could not store '%+v': %v: %w", k, err, storage.CouldNotStoreErr)
	}
	return nil
}

func (s *Storage) Load(k storage.Key, value interface{}) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM records WHERE collection = ? AND label = ?`,
		s.key(k), k.Label).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("could not find '%+v': %w", k, storage.NotFoundErr)
	}
	if err != nil {
		return fmt.Errorf("could not query '%+v': %v: %w", k, err, storage.CouldNotLoadErr)
	}
	if err := json.Unmarshal([]byte(data), value); err != nil {
		return fmt.Errorf("could not unmarshal '%+v': %v: %w", k, err, storage.CouldNotLoadErr)
	}
	return nil
}

func (s *Storage) Delete(k storage.Key) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	_, err := s.db.ExecContext(ctx, `DELETE FROM records WHERE collection = ? AND label = ?`,
		s.key(k), k.Label)
	if err != nil {
		return fmt.Errorf("could not delete '%+v': %v: %w", k, err, storage.CouldNotStoreErr)
	}
	return nil
}

// key falls back to the storage collection for keys without one.
func (s *Storage) key(k storage.Key) string {
	if k.Collection == "" {
		return s.collection
	}
	return k.Collection
}
