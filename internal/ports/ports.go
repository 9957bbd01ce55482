package ports

import (
	"context"

	"expenses/internal/core"
)

// Ports implemented by the storage backends.
type (
	ExpenseWriter interface {
		Add(ctx context.Context, e core.Expense) (id int64, err error)
		Update(ctx context.Context, e core.Expense) error
		Delete(ctx context.Context, id int64) error
	}

	ExpenseReader interface {
		// ListAll returns every expense, most recent date first.
		ListAll(ctx context.Context) ([]core.Expense, error)
		Get(ctx context.Context, id int64) (core.Expense, error)
	}

	// TotalReader provides aggregates over the current record set.
	TotalReader interface {
		Total(ctx context.Context) (core.Money, error)
		CategoryTotals(ctx context.Context) ([]core.CategoryAmount, error)
	}

	// CategoryReader lists the categories currently in use.
	CategoryReader interface {
		Categories(ctx context.Context) ([]string, error)
	}

	// VersionReader is implemented by stores that other processes can write
	// to. The version changes whenever such a foreign write commits.
	VersionReader interface {
		DataVersion(ctx context.Context) (int64, error)
	}

	ExpenseStore interface {
		ExpenseWriter
		ExpenseReader
		TotalReader
		CategoryReader
		Ping(ctx context.Context) error
		Close() error
	}
)
