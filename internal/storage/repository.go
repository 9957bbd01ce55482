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

	"expenses/internal/core"

	_ "modernc.org/sqlite"
)

// SQLiteRepository owns the expenses table of a local SQLite file.
type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
	dsn     string
}

// DSN builds the modernc connection string for a database file.
// synchronous(FULL) makes every commit durable before it returns.
func DSN(dbPath string) string {
	return "file:" + dbPath + "?_pragma=busy_timeout(5000)&_pragma=synchronous(FULL)"
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	dsn := DSN(dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// Single user, single writer.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dsn); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{
		db:      db,
		queries: New(db),
		dsn:     dsn,
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping checks that the database file is still reachable.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// SchemaVersion returns the applied migration version.
func (r *SQLiteRepository) SchemaVersion() (uint, error) {
	version, dirty, err := SchemaVersion(r.dsn)
	if err != nil {
		return 0, err
	}
	if dirty {
		return version, fmt.Errorf("schema version %d is dirty", version)
	}
	return version, nil
}

// Add validates e and inserts it, returning the assigned id.
func (r *SQLiteRepository) Add(ctx context.Context, e core.Expense) (int64, error) {
	e = e.Normalize()
	if err := e.ValidateAt(time.Now()); err != nil {
		return 0, err
	}

	var created Expense
	err := r.inTx(ctx, func(q *Queries) error {
		var err error
		created, err = q.CreateExpense(ctx, CreateExpenseParams{
			Date:        e.Date.String(),
			Category:    e.Category,
			AmountCents: e.Amount.Cents,
			Description: e.Description,
		})
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("create expense: %w", err)
	}

	slog.InfoContext(ctx, "Expense saved to SQLite",
		"id", created.ID,
		"category", created.Category,
		"amount_cents", created.AmountCents,
		"date", created.Date)

	return created.ID, nil
}

// ListAll returns every expense, most recent date first.
func (r *SQLiteRepository) ListAll(ctx context.Context) ([]core.Expense, error) {
	rows, err := r.queries.ListExpenses(ctx)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}

	expenses := make([]core.Expense, 0, len(rows))
	for _, row := range rows {
		e, err := toDomain(row)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, e)
	}
	return expenses, nil
}

// Get returns a single expense by id.
func (r *SQLiteRepository) Get(ctx context.Context, id int64) (core.Expense, error) {
	row, err := r.queries.GetExpense(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Expense{}, &core.NotFoundError{ID: id}
	}
	if err != nil {
		return core.Expense{}, fmt.Errorf("get expense by id: %w", err)
	}
	return toDomain(row)
}

// Update replaces every mutable field of the expense identified by e.ID.
func (r *SQLiteRepository) Update(ctx context.Context, e core.Expense) error {
	e = e.Normalize()
	if err := e.ValidateAt(time.Now()); err != nil {
		return err
	}

	err := r.inTx(ctx, func(q *Queries) error {
		n, err := q.UpdateExpense(ctx, UpdateExpenseParams{
			Date:        e.Date.String(),
			Category:    e.Category,
			AmountCents: e.Amount.Cents,
			Description: e.Description,
			ID:          e.ID,
		})
		if err != nil {
			return fmt.Errorf("update expense: %w", err)
		}
		if n == 0 {
			return &core.NotFoundError{ID: e.ID}
		}
		return nil
	})
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "Expense updated", "id", e.ID, "amount_cents", e.Amount.Cents)
	return nil
}

// Delete permanently removes the expense with the given id.
func (r *SQLiteRepository) Delete(ctx context.Context, id int64) error {
	err := r.inTx(ctx, func(q *Queries) error {
		n, err := q.DeleteExpense(ctx, id)
		if err != nil {
			return fmt.Errorf("delete expense: %w", err)
		}
		if n == 0 {
			return &core.NotFoundError{ID: id}
		}
		return nil
	})
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "Expense deleted", "id", id)
	return nil
}

// Total returns the sum of all amounts, zero when the table is empty.
func (r *SQLiteRepository) Total(ctx context.Context) (core.Money, error) {
	total, err := r.queries.GetTotal(ctx)
	if err != nil {
		return core.Money{}, fmt.Errorf("get total: %w", err)
	}
	return core.Money{Cents: total}, nil
}

// DataVersion reports SQLite's data_version for the pool's single connection.
// It moves when another process commits to the same file; commits made
// through this repository leave it unchanged.
func (r *SQLiteRepository) DataVersion(ctx context.Context) (int64, error) {
	version, err := r.queries.GetDataVersion(ctx)
	if err != nil {
		return 0, fmt.Errorf("get data version: %w", err)
	}
	return version, nil
}

// CategoryTotals returns per-category sums, largest first.
func (r *SQLiteRepository) CategoryTotals(ctx context.Context) ([]core.CategoryAmount, error) {
	sums, err := r.queries.GetCategorySums(ctx)
	if err != nil {
		return nil, fmt.Errorf("get category sums: %w", err)
	}

	out := make([]core.CategoryAmount, len(sums))
	for i, s := range sums {
		out[i] = core.CategoryAmount{
			Category: s.Category,
			Amount:   core.Money{Cents: s.TotalAmount},
			Count:    int(s.ExpenseCount),
		}
	}
	return out, nil
}

// Categories returns the distinct categories currently in use.
func (r *SQLiteRepository) Categories(ctx context.Context) ([]string, error) {
	cats, err := r.queries.GetUsedCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("get used categories: %w", err)
	}
	return cats, nil
}

// inTx runs fn in a transaction; any error rolls back so no partial write is visible.
func (r *SQLiteRepository) inTx(ctx context.Context, fn func(q *Queries) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(r.queries.WithTx(tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			slog.ErrorContext(ctx, "Rollback failed", "error", rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func toDomain(row Expense) (core.Expense, error) {
	t, err := time.Parse(core.DateLayout, row.Date)
	if err != nil {
		return core.Expense{}, fmt.Errorf("parse stored date %q for expense %d: %w", row.Date, row.ID, err)
	}
	return core.Expense{
		ID:          row.ID,
		Date:        core.Date{Time: t},
		Category:    row.Category,
		Description: row.Description,
		Amount:      core.Money{Cents: row.AmountCents},
	}, nil
}
