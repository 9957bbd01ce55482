package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"expenses/internal/core"
	applog "expenses/internal/log"
)

// seedPriceRange is the amount range of generated expenses.
var seedPriceRange = [2]float64{1, 250}

func runSeed(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("seed", a)
	n := fs.Int("n", 20, "number of expenses to insert")
	days := fs.Int("days", 90, "spread dates over this many past days")
	seed := fs.Int64("seed", 0, "random seed, 0 picks one from the clock")
	if ok, err := parseFlags(fs, args); !ok {
		return err
	}
	if *n < 1 || *days < 1 {
		fmt.Fprintln(a.stdout, "seed: -n and -days must be positive")
		return errUsage
	}

	categories, err := a.svc.Categories(ctx)
	if err != nil {
		return err
	}

	inputs := fakeExpenses(gofakeit.New(*seed), categories, *n, *days, time.Now())
	for _, in := range inputs {
		if _, err := a.svc.AddExpense(ctx, in); err != nil {
			return fmt.Errorf("seed expense: %w", err)
		}
	}

	a.logger.Info("Seeded demo expenses", applog.FieldOperation, applog.OpSeed, applog.FieldCount, len(inputs))
	fmt.Fprintf(a.stdout, "Inserted %d demo expenses.\n", len(inputs))
	return nil
}

// fakeExpenses builds n raw inputs dated within the last days, today included.
func fakeExpenses(f *gofakeit.Faker, categories []string, n, days int, now time.Time) []core.ExpenseInput {
	if len(categories) == 0 {
		categories = core.DefaultCategories
	}
	today := core.Today(now).Time
	start := today.AddDate(0, 0, -(days - 1))

	out := make([]core.ExpenseInput, 0, n)
	for i := 0; i < n; i++ {
		price := f.Price(seedPriceRange[0], seedPriceRange[1])
		out = append(out, core.ExpenseInput{
			Amount:      strconv.FormatFloat(price, 'f', 2, 64),
			Category:    f.RandomString(categories),
			Description: f.Sentence(3),
			Date:        f.DateRange(start, today).Format(core.DateLayout),
		})
	}
	return out
}
