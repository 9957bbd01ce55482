package storage

import (
	"context"
)

const createExpense = `
INSERT INTO expenses (date, category, amount_cents, description)
VALUES (?, ?, ?, ?)
RETURNING id, date, category, amount_cents, description, created_at, updated_at
`

type CreateExpenseParams struct {
	Date        string
	Category    string
	AmountCents int64
	Description string
}

func (q *Queries) CreateExpense(ctx context.Context, arg CreateExpenseParams) (Expense, error) {
	row := q.db.QueryRowContext(ctx, createExpense,
		arg.Date,
		arg.Category,
		arg.AmountCents,
		arg.Description,
	)
	var i Expense
	err := row.Scan(
		&i.ID,
		&i.Date,
		&i.Category,
		&i.AmountCents,
		&i.Description,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getExpense = `
SELECT id, date, category, amount_cents, description, created_at, updated_at
FROM expenses
WHERE id = ?
`

func (q *Queries) GetExpense(ctx context.Context, id int64) (Expense, error) {
	row := q.db.QueryRowContext(ctx, getExpense, id)
	var i Expense
	err := row.Scan(
		&i.ID,
		&i.Date,
		&i.Category,
		&i.AmountCents,
		&i.Description,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const listExpenses = `
SELECT id, date, category, amount_cents, description, created_at, updated_at
FROM expenses
ORDER BY date DESC, id DESC
`

func (q *Queries) ListExpenses(ctx context.Context) ([]Expense, error) {
	rows, err := q.db.QueryContext(ctx, listExpenses)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Expense{}
	for rows.Next() {
		var i Expense
		if err := rows.Scan(
			&i.ID,
			&i.Date,
			&i.Category,
			&i.AmountCents,
			&i.Description,
			&i.CreatedAt,
			&i.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const updateExpense = `
UPDATE expenses
SET date = ?, category = ?, amount_cents = ?, description = ?, updated_at = CURRENT_TIMESTAMP
WHERE id = ?
`

type UpdateExpenseParams struct {
	Date        string
	Category    string
	AmountCents int64
	Description string
	ID          int64
}

func (q *Queries) UpdateExpense(ctx context.Context, arg UpdateExpenseParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateExpense,
		arg.Date,
		arg.Category,
		arg.AmountCents,
		arg.Description,
		arg.ID,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deleteExpense = `
DELETE FROM expenses
WHERE id = ?
`

func (q *Queries) DeleteExpense(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteExpense, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const getTotal = `
SELECT CAST(COALESCE(SUM(amount_cents), 0) AS INTEGER) AS total
FROM expenses
`

func (q *Queries) GetTotal(ctx context.Context) (int64, error) {
	row := q.db.QueryRowContext(ctx, getTotal)
	var total int64
	err := row.Scan(&total)
	return total, err
}

const getDataVersion = `PRAGMA data_version`

// GetDataVersion changes whenever another connection commits to the database file.
func (q *Queries) GetDataVersion(ctx context.Context) (int64, error) {
	row := q.db.QueryRowContext(ctx, getDataVersion)
	var version int64
	err := row.Scan(&version)
	return version, err
}

const getCategorySums = `
SELECT category, CAST(SUM(amount_cents) AS INTEGER) AS total_amount, COUNT(*) AS expense_count
FROM expenses
GROUP BY category
ORDER BY total_amount DESC, category ASC
`

func (q *Queries) GetCategorySums(ctx context.Context) ([]CategorySum, error) {
	rows, err := q.db.QueryContext(ctx, getCategorySums)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []CategorySum{}
	for rows.Next() {
		var i CategorySum
		if err := rows.Scan(&i.Category, &i.TotalAmount, &i.ExpenseCount); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getUsedCategories = `
SELECT DISTINCT category
FROM expenses
ORDER BY category ASC
`

func (q *Queries) GetUsedCategories(ctx context.Context) ([]string, error) {
	rows, err := q.db.QueryContext(ctx, getUsedCategories)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []string{}
	for rows.Next() {
		var category string
		if err := rows.Scan(&category); err != nil {
			return nil, err
		}
		items = append(items, category)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
