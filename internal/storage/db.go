package storage

import (
	"context"
	"database/sql"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

// Expense mirrors a row of the expenses table.
type Expense struct {
	ID          int64
	Date        string
	Category    string
	AmountCents int64
	Description string
	CreatedAt   sql.NullTime
	UpdatedAt   sql.NullTime
}

type CategorySum struct {
	Category     string
	TotalAmount  int64
	ExpenseCount int64
}
