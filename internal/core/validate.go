package core

import (
	"strings"
	"time"
)

// ExpenseInput is raw user input as collected by a form or a command line.
type ExpenseInput struct {
	Amount      string
	Category    string
	Description string
	Date        string // YYYY-MM-DD, empty means today
}

// ValidationResult collects every field that failed validation.
type ValidationResult struct {
	Errors []FieldError
}

func (r *ValidationResult) add(field string, err error) {
	r.Errors = append(r.Errors, FieldError{Field: field, Err: err})
}

// Valid reports whether no field failed.
func (r ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// Err returns nil for a valid result, otherwise a *ValidationError.
func (r ValidationResult) Err() error {
	if r.Valid() {
		return nil
	}
	fields := make([]FieldError, len(r.Errors))
	copy(fields, r.Errors)
	return &ValidationError{Fields: fields}
}

// ParseDate parses an ISO-8601 calendar date. An empty string yields the
// date of now; dates after now are rejected.
func ParseDate(s string, now time.Time) (Date, error) {
	s = strings.TrimSpace(s)
	today := Today(now)
	if s == "" {
		return today, nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	d := Date{Time: t}
	if d.After(today.Time) {
		return Date{}, ErrFutureDate
	}
	return d, nil
}

// ValidateInput converts raw input into an Expense, checking every field.
// The returned Expense is only meaningful when the result is valid.
func ValidateInput(in ExpenseInput, now time.Time) (Expense, ValidationResult) {
	var (
		res ValidationResult
		e   Expense
	)

	amount, err := ParseAmount(in.Amount)
	if err != nil {
		res.add(FieldAmount, err)
	}
	e.Amount = amount

	e.Category = sanitize(in.Category)
	if e.Category == "" {
		res.add(FieldCategory, ErrEmptyCategory)
	} else if len([]rune(e.Category)) > MaxCategoryLength {
		res.add(FieldCategory, ErrCategoryTooLong)
	}

	e.Description = sanitize(in.Description)
	if len([]rune(e.Description)) > MaxDescriptionLength {
		res.add(FieldDescription, ErrDescriptionTooLong)
	}

	date, err := ParseDate(in.Date, now)
	if err != nil {
		res.add(FieldDate, err)
	}
	e.Date = date

	return e, res
}

// sanitize trims whitespace and drops control characters other than tab and newlines.
func sanitize(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != '\t' && r != '\n' && r != '\r' {
			return -1
		}
		return r
	}, s)
}
