package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"expenses/internal/core"
)

// Store keeps expenses in process memory with the same semantics as the SQLite store.
type Store struct {
	mu     sync.Mutex
	nextID int64
	items  map[int64]core.Expense
}

func New() *Store {
	return &Store{nextID: 1, items: make(map[int64]core.Expense)}
}

// Add validates e, assigns the next id and stores it.
func (s *Store) Add(_ context.Context, e core.Expense) (int64, error) {
	e = e.Normalize()
	if err := e.ValidateAt(time.Now()); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	e.ID = s.nextID
	s.nextID++
	s.items[e.ID] = e
	return e.ID, nil
}

// ListAll returns a copy of every expense, most recent date first.
func (s *Store) ListAll(_ context.Context) ([]core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Expense, 0, len(s.items))
	for _, e := range s.items {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date.Time) {
			return out[i].Date.After(out[j].Date.Time)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (s *Store) Get(_ context.Context, id int64) (core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.items[id]
	if !ok {
		return core.Expense{}, &core.NotFoundError{ID: id}
	}
	return e, nil
}

func (s *Store) Update(_ context.Context, e core.Expense) error {
	e = e.Normalize()
	if err := e.ValidateAt(time.Now()); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[e.ID]; !ok {
		return &core.NotFoundError{ID: e.ID}
	}
	s.items[e.ID] = e
	return nil
}

func (s *Store) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return &core.NotFoundError{ID: id}
	}
	delete(s.items, id)
	return nil
}

func (s *Store) Total(_ context.Context) (core.Money, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var total core.Money
	for _, e := range s.items {
		total = total.Add(e.Amount)
	}
	return total, nil
}

// CategoryTotals returns per-category sums, largest first.
func (s *Store) CategoryTotals(_ context.Context) ([]core.CategoryAmount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	byCat := map[string]*core.CategoryAmount{}
	for _, e := range s.items {
		ca, ok := byCat[e.Category]
		if !ok {
			ca = &core.CategoryAmount{Category: e.Category}
			byCat[e.Category] = ca
		}
		ca.Amount = ca.Amount.Add(e.Amount)
		ca.Count++
	}
	out := make([]core.CategoryAmount, 0, len(byCat))
	for _, ca := range byCat {
		out = append(out, *ca)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Amount.Cents != out[j].Amount.Cents {
			return out[i].Amount.Cents > out[j].Amount.Cents
		}
		return out[i].Category < out[j].Category
	})
	return out, nil
}

// Categories returns the distinct categories in use, sorted.
func (s *Store) Categories(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	seen := map[string]struct{}{}
	out := []string{}
	for _, e := range s.items {
		c := strings.TrimSpace(e.Category)
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	sort.Strings(out)
	return out, nil
}

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) Close() error { return nil }
