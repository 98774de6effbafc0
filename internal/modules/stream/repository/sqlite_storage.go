package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/reshetovitsme/stream-schedule-feed/internal/modules/stream/domain"
	"github.com/reshetovitsme/stream-schedule-feed/internal/shared/errors"
	"github.com/samber/oops"
	_ "modernc.org/sqlite"
)

const schema = `CREATE TABLE IF NOT EXISTS items (
  id TEXT NOT NULL PRIMARY KEY,
  channel_id TEXT NOT NULL,
  status TEXT NOT NULL,
  effective_at TEXT NOT NULL,
  position INTEGER NOT NULL,
  payload TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS items_channel ON items (channel_id);
CREATE TABLE IF NOT EXISTS publications (
  id INTEGER NOT NULL PRIMARY KEY CHECK (id = 1),
  published_at TEXT NOT NULL
);`

// SQLiteStorage implements stream.Repository on an SQLite database. Each
// row stores the item as JSON so the published shape matches the file store.
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage opens the database at path and applies the schema
func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, oops.With("path", path, "context", "failed to create storage directory").Wrap(err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, oops.With("path", path, "context", "failed to open sqlite").Wrap(err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, oops.With("path", path, "context", "failed to apply schema").Wrap(err)
	}
	if _, err := db.Exec(`PRAGMA journal_mode=wal;`); err != nil {
		_ = db.Close()
		return nil, oops.With("path", path, "context", "failed to set WAL").Wrap(err)
	}

	return &SQLiteStorage{db: db}, nil
}

// Shutdown closes the database when the injector shuts down
func (s *SQLiteStorage) Shutdown() error {
	return s.db.Close()
}

func (s *SQLiteStorage) Load(ctx context.Context) ([]domain.Item, error) {
	var publishedAt string
	err := s.db.QueryRowContext(ctx, `SELECT published_at FROM publications WHERE id = 1`).Scan(&publishedAt)
	if err == sql.ErrNoRows {
		return nil, errors.ErrStateNotFound
	}
	if err != nil {
		return nil, oops.With("context", "failed to read publication marker").Wrap(err)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT id, payload FROM items ORDER BY position ASC`)
	if err != nil {
		return nil, oops.With("context", "failed to query items").Wrap(err)
	}
	defer rows.Close()

	items := []domain.Item{}
	for rows.Next() {
		var id, payload string
		if err := rows.Scan(&id, &payload); err != nil {
			return nil, oops.With("context", "failed to scan item").Wrap(err)
		}
		var item domain.Item
		if err := json.Unmarshal([]byte(payload), &item); err != nil {
			return nil, oops.With("item_id", id, "context", "failed to unmarshal item").Wrap(err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.With("context", "failed to iterate items").Wrap(err)
	}

	return items, nil
}

// Save replaces every stored item in one transaction
func (s *SQLiteStorage) Save(ctx context.Context, items []domain.Item) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return oops.With("context", "failed to begin transaction").Wrap(err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM items`); err != nil {
		return oops.With("context", "failed to clear items").Wrap(err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO items (id, channel_id, status, effective_at, position, payload)
VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return oops.With("context", "failed to prepare insert").Wrap(err)
	}
	defer stmt.Close()

	for position, item := range items {
		payload, err := json.Marshal(item)
		if err != nil {
			return oops.With("item_id", item.ID, "context", "failed to marshal item").Wrap(err)
		}
		effective := item.EffectiveTime().UTC().Format(time.RFC3339Nano)
		if _, err := stmt.ExecContext(ctx, item.ID, item.ChannelID, item.Status.String(), effective, position, string(payload)); err != nil {
			return oops.With("item_id", item.ID, "context", "failed to insert item").Wrap(err)
		}
	}

	const marker = `INSERT INTO publications (id, published_at) VALUES (1, ?)
ON CONFLICT(id) DO UPDATE SET published_at = excluded.published_at`
	if _, err := tx.ExecContext(ctx, marker, time.Now().UTC().Format(time.RFC3339Nano)); err != nil {
		return oops.With("context", "failed to record publication").Wrap(err)
	}

	if err := tx.Commit(); err != nil {
		return oops.With("context", "failed to commit collection").Wrap(err)
	}
	return nil
}
