package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"expenses/internal/core"
	"expenses/internal/ports"
)

var _ ports.ExpenseStore = (*SQLiteRepository)(nil)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "data", "expenses.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func expense(cents int64, category, desc string, y, m, d int) core.Expense {
	return core.Expense{
		Date:        core.NewDate(y, m, d),
		Category:    category,
		Description: desc,
		Amount:      core.Money{Cents: cents},
	}
}

func TestAddAndListAll(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	items, err := repo.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll on empty table: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected empty list, got %d", len(items))
	}

	id, err := repo.Add(ctx, expense(1250, " Food ", "lunch", 2024, 1, 1))
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if id <= 0 {
		t.Fatalf("expected positive id, got %d", id)
	}

	items, err = repo.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	got := items[0]
	if got.ID != id || got.Amount.Cents != 1250 || got.Category != "Food" || got.Description != "lunch" || got.Date.String() != "2024-01-01" {
		t.Fatalf("unexpected record: %+v", got)
	}

	id2, err := repo.Add(ctx, expense(0, "Others", "", 2024, 1, 1))
	if err != nil {
		t.Fatalf("Add zero amount: %v", err)
	}
	if id2 == id {
		t.Fatalf("ids must be unique, got %d twice", id)
	}
}

func TestAddRejectsInvalid(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	_, err := repo.Add(ctx, expense(-500, "Food", "bad", 2024, 1, 1))
	if !core.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	_, err = repo.Add(ctx, expense(100, "", "bad", 2024, 1, 1))
	if !errors.Is(err, core.ErrEmptyCategory) {
		t.Fatalf("expected ErrEmptyCategory, got %v", err)
	}

	items, _ := repo.ListAll(ctx)
	if len(items) != 0 {
		t.Fatalf("no record should be created, got %d", len(items))
	}
}

func TestRejectsFutureDates(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	if _, err := repo.Add(ctx, expense(100, "Food", "", 2999, 1, 1)); !errors.Is(err, core.ErrFutureDate) {
		t.Fatalf("expected ErrFutureDate on add, got %v", err)
	}

	id, err := repo.Add(ctx, expense(100, "Food", "", 2024, 1, 1))
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	future := expense(100, "Food", "", 2999, 1, 1)
	future.ID = id
	if err := repo.Update(ctx, future); !errors.Is(err, core.ErrFutureDate) {
		t.Fatalf("expected ErrFutureDate on update, got %v", err)
	}
	got, _ := repo.Get(ctx, id)
	if got.Date.String() != "2024-01-01" {
		t.Fatalf("rejected update must not change the record, got %s", got.Date)
	}
}

func TestDataVersionTracksOtherConnections(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "expenses.db")
	open := func() *SQLiteRepository {
		repo, err := NewSQLiteRepository(path)
		if err != nil {
			t.Fatalf("NewSQLiteRepository: %v", err)
		}
		t.Cleanup(func() { _ = repo.Close() })
		return repo
	}
	server, other := open(), open()

	before, err := server.DataVersion(ctx)
	if err != nil {
		t.Fatalf("DataVersion: %v", err)
	}
	if _, err := server.Add(ctx, expense(100, "Food", "", 2024, 1, 1)); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if v, _ := server.DataVersion(ctx); v != before {
		t.Fatalf("own commits must not move the version: %d -> %d", before, v)
	}

	if _, err := other.Add(ctx, expense(200, "Bills", "", 2024, 1, 2)); err != nil {
		t.Fatalf("Add from other connection: %v", err)
	}
	if v, _ := server.DataVersion(ctx); v == before {
		t.Fatalf("a commit from another connection must move the version, still %d", v)
	}
}

func TestListAllOrdersByDateDesc(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	for _, e := range []core.Expense{
		expense(100, "A", "old", 2023, 12, 31),
		expense(200, "B", "new", 2024, 2, 1),
		expense(300, "C", "mid", 2024, 1, 15),
	} {
		if _, err := repo.Add(ctx, e); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}

	items, err := repo.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	want := []string{"new", "mid", "old"}
	for i, w := range want {
		if items[i].Description != w {
			t.Fatalf("position %d: got %q, want %q", i, items[i].Description, w)
		}
	}
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	id, err := repo.Add(ctx, expense(1250, "Food", "lunch", 2024, 1, 1))
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	upd := expense(1500, "Transport", "taxi", 2024, 1, 3)
	upd.ID = id
	if err := repo.Update(ctx, upd); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, err := repo.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.ID != id || got.Amount.Cents != 1500 || got.Category != "Transport" || got.Description != "taxi" || got.Date.String() != "2024-01-03" {
		t.Fatalf("unexpected record after update: %+v", got)
	}

	bad := upd
	bad.Amount = core.Money{Cents: -1}
	if err := repo.Update(ctx, bad); !core.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	got, _ = repo.Get(ctx, id)
	if got.Amount.Cents != 1500 {
		t.Fatalf("failed update must not change the record, got %+v", got)
	}
}

func TestUpdateMissingID(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	if _, err := repo.Add(ctx, expense(100, "Food", "x", 2024, 1, 1)); err != nil {
		t.Fatalf("Add: %v", err)
	}
	before, _ := repo.ListAll(ctx)

	missing := expense(999, "Bills", "y", 2024, 1, 2)
	missing.ID = 4242
	err := repo.Update(ctx, missing)
	var nf *core.NotFoundError
	if !errors.As(err, &nf) || nf.ID != 4242 {
		t.Fatalf("expected NotFoundError for 4242, got %v", err)
	}

	after, _ := repo.ListAll(ctx)
	if len(after) != len(before) || after[0] != before[0] {
		t.Fatalf("record set changed: before=%+v after=%+v", before, after)
	}
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	id, err := repo.Add(ctx, expense(100, "Food", "x", 2024, 1, 1))
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := repo.Delete(ctx, id); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	items, _ := repo.ListAll(ctx)
	for _, e := range items {
		if e.ID == id {
			t.Fatalf("deleted id %d still listed", id)
		}
	}
	if err := repo.Delete(ctx, id); !core.IsNotFound(err) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
	if _, err := repo.Get(ctx, id); !core.IsNotFound(err) {
		t.Fatalf("expected not found on get, got %v", err)
	}
}

func TestTotalScenario(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	total, err := repo.Total(ctx)
	if err != nil || total.Cents != 0 {
		t.Fatalf("expected zero total on empty table, got %d (err=%v)", total.Cents, err)
	}

	first, err := repo.Add(ctx, expense(1250, "Food", "lunch", 2024, 1, 1))
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := repo.Add(ctx, expense(4000, "Bills", "electric", 2024, 1, 2)); err != nil {
		t.Fatalf("Add: %v", err)
	}

	total, _ = repo.Total(ctx)
	if total.String() != "52.50" {
		t.Fatalf("expected 52.50, got %s", total)
	}
	items, _ := repo.ListAll(ctx)
	if len(items) != 2 || core.Sum(items) != total {
		t.Fatalf("total must equal the sum over ListAll: items=%d sum=%s total=%s", len(items), core.Sum(items), total)
	}

	if err := repo.Delete(ctx, first); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	total, _ = repo.Total(ctx)
	if total.String() != "40.00" {
		t.Fatalf("expected 40.00 after delete, got %s", total)
	}
}

func TestCategoryTotalsAndCategories(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	for _, e := range []core.Expense{
		expense(1000, "Food", "a", 2024, 1, 1),
		expense(500, "Food", "b", 2024, 1, 2),
		expense(4000, "Bills", "c", 2024, 1, 3),
	} {
		if _, err := repo.Add(ctx, e); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}

	sums, err := repo.CategoryTotals(ctx)
	if err != nil {
		t.Fatalf("CategoryTotals: %v", err)
	}
	if len(sums) != 2 || sums[0].Category != "Bills" || sums[0].Amount.Cents != 4000 || sums[1].Amount.Cents != 1500 || sums[1].Count != 2 {
		t.Fatalf("unexpected sums: %+v", sums)
	}

	cats, err := repo.Categories(ctx)
	if err != nil {
		t.Fatalf("Categories: %v", err)
	}
	if len(cats) != 2 || cats[0] != "Bills" || cats[1] != "Food" {
		t.Fatalf("unexpected categories: %v", cats)
	}
}

func TestReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "expenses.db")

	repo, err := NewSQLiteRepository(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	id, err := repo.Add(ctx, expense(777, "Food", "persisted", 2024, 1, 1))
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := repo.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	repo, err = NewSQLiteRepository(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer repo.Close()

	got, err := repo.Get(ctx, id)
	if err != nil || got.Amount.Cents != 777 {
		t.Fatalf("expected persisted record, got %+v (err=%v)", got, err)
	}
	version, err := repo.SchemaVersion()
	if err != nil || version != 1 {
		t.Fatalf("expected schema version 1, got %d (err=%v)", version, err)
	}
}
