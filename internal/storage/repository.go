// Package storage persists the ledger in SQLite. The repository is the
// system of record; the query engine works on in-memory snapshots read
// from here.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"vibe/internal/core"

	_ "modernc.org/sqlite"
)

const dateLayout = "2006-01-02"

// ErrNotFound is returned when a transaction id does not exist.
var ErrNotFound = errors.New("transaction not found")

// StoredTransaction is a ledger row together with its database id.
type StoredTransaction struct {
	ID int64
	core.Transaction
}

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// InsertBatch stores a cleaned ledger in one transaction and returns the
// database ids in row order.
func (r *SQLiteRepository) InsertBatch(ctx context.Context, ledger core.Ledger) ([]int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO transactions (date, description, amount_cents, category) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return nil, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	ids := make([]int64, 0, len(ledger))
	for _, t := range ledger {
		if err := t.Validate(); err != nil {
			return nil, fmt.Errorf("invalid transaction %q: %w", t.Description, err)
		}
		res, err := stmt.ExecContext(ctx, t.Date.Format(dateLayout), t.Description, t.Amount.Cents, t.Category)
		if err != nil {
			return nil, fmt.Errorf("insert transaction: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("last insert id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	slog.InfoContext(ctx, "Ledger batch saved to SQLite", "count", len(ids))
	return ids, nil
}

// ListAll returns the full ledger ordered by date, then insertion order.
func (r *SQLiteRepository) ListAll(ctx context.Context) (core.Ledger, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT date, description, amount_cents, category FROM transactions ORDER BY date, id`)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var ledger core.Ledger
	for rows.Next() {
		var (
			dateStr  string
			desc     string
			cents    int64
			category string
		)
		if err := rows.Scan(&dateStr, &desc, &cents, &category); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		day, err := time.Parse(dateLayout, dateStr)
		if err != nil {
			return nil, fmt.Errorf("parse stored date %q: %w", dateStr, err)
		}
		ledger = append(ledger, core.Transaction{
			Date:        core.Date{Time: day},
			Description: desc,
			Amount:      core.Money{Cents: cents},
			Category:    category,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return ledger, nil
}

// ListUncategorized returns up to limit rows still carrying the unknown
// category, oldest first.
func (r *SQLiteRepository) ListUncategorized(ctx context.Context, limit int) ([]StoredTransaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, date, description, amount_cents, category FROM transactions
		 WHERE category = ? ORDER BY id LIMIT ?`, core.UnknownCategory, limit)
	if err != nil {
		return nil, fmt.Errorf("list uncategorized: %w", err)
	}
	defer rows.Close()

	var out []StoredTransaction
	for rows.Next() {
		st, err := scanStored(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate uncategorized: %w", err)
	}
	return out, nil
}

// GetTransaction retrieves a single row by id.
func (r *SQLiteRepository) GetTransaction(ctx context.Context, id int64) (StoredTransaction, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, date, description, amount_cents, category FROM transactions WHERE id = ?`, id)

	st, err := scanStored(row)
	if errors.Is(err, sql.ErrNoRows) {
		return StoredTransaction{}, ErrNotFound
	}
	if err != nil {
		return StoredTransaction{}, err
	}
	return st, nil
}

// UpdateCategory sets the category label on a single row.
func (r *SQLiteRepository) UpdateCategory(ctx context.Context, id int64, category string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET category = ? WHERE id = ?`, category, id)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}

	slog.InfoContext(ctx, "Transaction categorized", "id", id, "category", category)
	return nil
}

// Count returns the number of stored transactions.
func (r *SQLiteRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count transactions: %w", err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanStored(row rowScanner) (StoredTransaction, error) {
	var (
		st      StoredTransaction
		dateStr string
	)
	if err := row.Scan(&st.ID, &dateStr, &st.Description, &st.Amount.Cents, &st.Category); err != nil {
		return StoredTransaction{}, fmt.Errorf("scan transaction: %w", err)
	}
	day, err := time.Parse(dateLayout, dateStr)
	if err != nil {
		return StoredTransaction{}, fmt.Errorf("parse stored date %q: %w", dateStr, err)
	}
	st.Date = core.Date{Time: day}
	return st, nil
}
