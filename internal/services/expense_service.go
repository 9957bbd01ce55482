package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"expenses/internal/cache"
	"expenses/internal/core"
	applog "expenses/internal/log"
	"expenses/internal/ports"
)

const (
	keyTotal   = "total"
	keySummary = "summary"
)

// ExpenseService is the boundary a presentation layer talks to: raw input in,
// plain values out. It validates input, delegates to the store and keeps the
// derived aggregates cached until the next mutation.
type ExpenseService struct {
	store      ports.ExpenseStore
	aggregates cache.Cache[core.Summary]
	logger     *applog.Logger
	categories []string
	now        func() time.Time
	closer     func() error

	// mu guards gen and version. gen moves on every invalidation so a
	// result read from the store before a mutation is never cached after it.
	mu      sync.Mutex
	gen     uint64
	version int64
}

// Option customizes an ExpenseService.
type Option func(*ExpenseService)

// WithCache overrides the aggregate cache.
func WithCache(c cache.Cache[core.Summary]) Option {
	return func(s *ExpenseService) { s.aggregates = c }
}

func WithLogger(l *applog.Logger) Option {
	return func(s *ExpenseService) { s.logger = l.WithComponent(applog.ComponentExpense) }
}

// WithCategories sets the suggested categories offered to the user.
func WithCategories(cats []string) Option {
	return func(s *ExpenseService) { s.categories = dedupe(cats) }
}

// WithCloser replaces store.Close as the way Close releases the backend.
func WithCloser(fn func() error) Option {
	return func(s *ExpenseService) { s.closer = fn }
}

// WithClock replaces time.Now, used to default and bound expense dates.
func WithClock(now func() time.Time) Option {
	return func(s *ExpenseService) { s.now = now }
}

func NewExpenseService(store ports.ExpenseStore, opts ...Option) *ExpenseService {
	s := &ExpenseService{
		store:      store,
		aggregates: cache.NewLRUCache[core.Summary](4, 5*time.Minute),
		logger:     applog.New(applog.DefaultConfig()).WithComponent(applog.ComponentExpense),
		categories: append([]string(nil), core.DefaultCategories...),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Validate checks raw input without touching the store.
func (s *ExpenseService) Validate(in core.ExpenseInput) (core.Expense, core.ValidationResult) {
	return core.ValidateInput(in, s.now())
}

// AddExpense validates in and stores a new expense, returning its id.
func (s *ExpenseService) AddExpense(ctx context.Context, in core.ExpenseInput) (int64, error) {
	e, res := s.Validate(in)
	if err := res.Err(); err != nil {
		s.logFailure(ctx, "Expense rejected", err, applog.OpCreate, 0)
		return 0, err
	}

	id, err := s.store.Add(ctx, e)
	if err != nil {
		s.logFailure(ctx, "Failed to save expense", err, applog.OpCreate, 0)
		return 0, fmt.Errorf("save expense: %w", err)
	}
	s.invalidate()

	s.log(ctx).InfoContext(ctx, "Expense created",
		applog.NewFields().
			WithOperation(applog.OpCreate).
			WithExpense(id, e.Amount.Cents, e.Category, e.Date.String()).
			ToSlice()...)
	return id, nil
}

// ListExpenses returns every expense, most recent first; never nil.
func (s *ExpenseService) ListExpenses(ctx context.Context) ([]core.Expense, error) {
	items, err := s.store.ListAll(ctx)
	if err != nil {
		s.logFailure(ctx, "Failed to list expenses", err, applog.OpList, 0)
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	if items == nil {
		items = []core.Expense{}
	}
	return items, nil
}

func (s *ExpenseService) GetExpense(ctx context.Context, id int64) (core.Expense, error) {
	e, err := s.store.Get(ctx, id)
	if err != nil {
		return core.Expense{}, fmt.Errorf("get expense: %w", err)
	}
	return e, nil
}

// UpdateExpense replaces every mutable field of expense id with in.
func (s *ExpenseService) UpdateExpense(ctx context.Context, id int64, in core.ExpenseInput) error {
	e, res := s.Validate(in)
	if err := res.Err(); err != nil {
		s.logFailure(ctx, "Expense update rejected", err, applog.OpUpdate, id)
		return err
	}
	e.ID = id

	if err := s.store.Update(ctx, e); err != nil {
		s.logFailure(ctx, "Failed to update expense", err, applog.OpUpdate, id)
		return fmt.Errorf("update expense: %w", err)
	}
	s.invalidate()

	s.log(ctx).InfoContext(ctx, "Expense updated",
		applog.NewFields().
			WithOperation(applog.OpUpdate).
			WithExpense(id, e.Amount.Cents, e.Category, e.Date.String()).
			ToSlice()...)
	return nil
}

func (s *ExpenseService) DeleteExpense(ctx context.Context, id int64) error {
	if err := s.store.Delete(ctx, id); err != nil {
		s.logFailure(ctx, "Failed to delete expense", err, applog.OpDelete, id)
		return fmt.Errorf("delete expense: %w", err)
	}
	s.invalidate()

	s.log(ctx).InfoContext(ctx, "Expense deleted", applog.FieldOperation, applog.OpDelete, applog.FieldExpenseID, id)
	return nil
}

// Total returns the sum of all current amounts.
func (s *ExpenseService) Total(ctx context.Context) (core.Money, error) {
	gen, cacheable := s.generation(ctx)
	if cacheable {
		if cached, ok := s.aggregates.Get(keyTotal); ok {
			s.log(ctx).DebugContext(ctx, "Total served from cache", applog.FieldCacheHit, true, applog.FieldTotalCents, cached.Total.Cents)
			return cached.Total, nil
		}
	}

	total, err := s.store.Total(ctx)
	if err != nil {
		s.logFailure(ctx, "Failed to compute total", err, applog.OpTotal, 0)
		return core.Money{}, fmt.Errorf("compute total: %w", err)
	}
	if cacheable {
		s.remember(keyTotal, gen, core.Summary{Total: total})
	}
	return total, nil
}

// CategorySummary returns the total with a per-category breakdown, largest first.
func (s *ExpenseService) CategorySummary(ctx context.Context) (core.Summary, error) {
	gen, cacheable := s.generation(ctx)
	if cacheable {
		if cached, ok := s.aggregates.Get(keySummary); ok {
			return cloneSummary(cached), nil
		}
	}

	byCat, err := s.store.CategoryTotals(ctx)
	if err != nil {
		s.logFailure(ctx, "Failed to compute category totals", err, applog.OpSummary, 0)
		return core.Summary{}, fmt.Errorf("category totals: %w", err)
	}
	sum := core.Summary{ByCategory: byCat}
	for _, c := range byCat {
		sum.Total = sum.Total.Add(c.Amount)
		sum.Count += c.Count
	}
	if cacheable {
		s.remember(keySummary, gen, sum)
	}
	return cloneSummary(sum), nil
}

// Categories returns the suggested categories followed by any other
// category already used by a stored expense.
func (s *ExpenseService) Categories(ctx context.Context) ([]string, error) {
	used, err := s.store.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return dedupe(append(append([]string(nil), s.categories...), used...)), nil
}

// Ping reports whether the backing store is reachable.
func (s *ExpenseService) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// Close releases the store, through the closer when one was given.
func (s *ExpenseService) Close() error {
	closeFn := s.closer
	if closeFn == nil {
		if s.store == nil {
			return nil
		}
		closeFn = s.store.Close
	}
	if err := closeFn(); err != nil {
		return fmt.Errorf("close expense service: %w", err)
	}
	return nil
}

func (s *ExpenseService) invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.aggregates.Purge()
}

// generation returns the cache generation to pair with a store read. When the
// store can be written by other processes and its version moved since the last
// look, the cache is purged first. cacheable is false when the version is unknown.
func (s *ExpenseService) generation(ctx context.Context) (gen uint64, cacheable bool) {
	var version int64
	if vr, ok := s.store.(ports.VersionReader); ok {
		v, err := vr.DataVersion(ctx)
		if err != nil {
			s.log(ctx).WarnContext(ctx, "Store version unavailable, bypassing cache", "error", err)
			return 0, false
		}
		version = v
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if version != s.version {
		s.version = version
		s.gen++
		s.aggregates.Purge()
	}
	return s.gen, true
}

// remember caches v unless a mutation happened since gen was taken.
func (s *ExpenseService) remember(key string, gen uint64, v core.Summary) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return
	}
	s.aggregates.Set(key, v)
}

// log prefers the request-scoped logger carried by ctx.
func (s *ExpenseService) log(ctx context.Context) *applog.Logger {
	return applog.FromContextOr(ctx, s.logger).WithComponent(applog.ComponentExpense)
}

func (s *ExpenseService) logFailure(ctx context.Context, msg string, err error, op string, id int64) {
	fields := applog.NewFields().WithOperation(op).WithError(err, errorType(err))
	if id != 0 {
		fields[applog.FieldExpenseID] = id
	}
	if core.IsValidation(err) || core.IsNotFound(err) {
		s.log(ctx).WarnContext(ctx, msg, fields.ToSlice()...)
		return
	}
	s.log(ctx).ErrorContext(ctx, msg, fields.ToSlice()...)
}

func errorType(err error) string {
	switch {
	case core.IsValidation(err):
		return applog.ErrorTypeValidation
	case core.IsNotFound(err):
		return applog.ErrorTypeNotFound
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return applog.ErrorTypeInternal
	default:
		return applog.ErrorTypeDatabase
	}
}

func cloneSummary(s core.Summary) core.Summary {
	s.ByCategory = append([]core.CategoryAmount(nil), s.ByCategory...)
	return s
}
