package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "modernc.org/sqlite"

	"jobscout/internal/model"
)

// SQLiteStore persists the ledger in a SQLite database. Commit is one
// transaction, which gives the same crash-safety as the file store's rename.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteStore opens (or creates) the database at dbPath and ensures the
// ledger table exists.
func NewSQLiteStore(dbPath string, logger *slog.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite db: %w", err)
	}

	createTable := `CREATE TABLE IF NOT EXISTS ledger_entries (
		fingerprint TEXT PRIMARY KEY,
		title       TEXT NOT NULL,
		company     TEXT NOT NULL,
		first_seen  DATETIME NOT NULL
	)`
	if _, err := db.Exec(createTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating ledger_entries table: %w", err)
	}

	return &SQLiteStore{db: db, logger: logger}, nil
}

// Load reads all entries. A query failure yields an empty ledger and a
// warning rather than failing the run.
func (s *SQLiteStore) Load(ctx context.Context) (*Ledger, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT fingerprint, title, company, first_seen FROM ledger_entries")
	if err != nil {
		s.logger.Warn("ledger unreadable, starting empty; duplicates from history may be re-sent",
			"error", err)
		return New(), nil
	}
	defer rows.Close()

	led := New()
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Fingerprint, &e.Title, &e.Company, &e.FirstSeenAt); err != nil {
			s.logger.Warn("skipping unreadable ledger row", "error", err)
			continue
		}
		led.Add(e)
	}
	if err := rows.Err(); err != nil {
		s.logger.Warn("ledger scan stopped early", "error", err)
	}
	return led, nil
}

// Commit inserts newEntries in a single transaction and adds them to led.
func (s *SQLiteStore) Commit(ctx context.Context, led *Ledger, newEntries []Entry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &model.LedgerCommitError{Err: fmt.Errorf("begin tx: %w", err)}
	}

	for _, e := range newEntries {
		_, err := tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO ledger_entries (fingerprint, title, company, first_seen) VALUES (?, ?, ?, ?)",
			e.Fingerprint, e.Title, e.Company, e.FirstSeenAt)
		if err != nil {
			tx.Rollback()
			return &model.LedgerCommitError{Err: fmt.Errorf("insert %s: %w", e.Fingerprint, err)}
		}
	}

	if err := tx.Commit(); err != nil {
		return &model.LedgerCommitError{Err: fmt.Errorf("commit tx: %w", err)}
	}

	for _, e := range newEntries {
		led.Add(e)
	}
	return nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
