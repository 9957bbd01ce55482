package core

import (
	"errors"
	"strings"
	"time"
)

// DateLayout is the ISO-8601 calendar date format used for storage and input.
const DateLayout = "2006-01-02"

const (
	MaxCategoryLength    = 50
	MaxDescriptionLength = 200
)

// DefaultCategories are offered as suggestions; any non-empty category is accepted.
var DefaultCategories = []string{
	"Food",
	"Transport",
	"Bills",
	"Shopping",
	"Entertainment",
	"Healthcare",
	"Others",
}

type (
	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	Expense struct {
		ID          int64 // Assigned by the store, zero until persisted
		Date        Date
		Category    string
		Description string
		Amount      Money
	}
)

var (
	ErrInvalidDay         = errors.New("invalid day")
	ErrInvalidMonth       = errors.New("invalid month")
	ErrInvalidDate        = errors.New("invalid date")
	ErrFutureDate         = errors.New("date is in the future")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrNegativeAmount     = errors.New("amount cannot be negative")
	ErrEmptyCategory      = errors.New("empty category")
	ErrCategoryTooLong    = errors.New("category too long (max 50 characters)")
	ErrDescriptionTooLong = errors.New("description too long (max 200 characters)")
)

func (d Date) Validate() error {
	if d.IsZero() {
		return errors.New("date cannot be zero")
	}
	_, month, day := d.Date()
	if day < 1 || day > 31 {
		return ErrInvalidDay
	}
	if month < 1 || month > 12 {
		return ErrInvalidMonth
	}
	return nil
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// Today returns the calendar date of now, normalized to UTC midnight.
func Today(now time.Time) Date {
	y, m, d := now.Date()
	return NewDate(y, int(m), d)
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

func (m Money) Validate() error {
	if m.Cents < 0 {
		return ErrNegativeAmount
	}
	return nil
}

// Add returns the sum of two amounts.
func (m Money) Add(other Money) Money {
	return Money{Cents: m.Cents + other.Cents}
}

// Validate checks the invariants every persisted expense must hold.
func (e Expense) Validate() error {
	if err := e.Date.Validate(); err != nil {
		return &ValidationError{Fields: []FieldError{{Field: FieldDate, Err: err}}}
	}
	var res ValidationResult
	if err := e.Amount.Validate(); err != nil {
		res.add(FieldAmount, err)
	}
	category := strings.TrimSpace(e.Category)
	if category == "" {
		res.add(FieldCategory, ErrEmptyCategory)
	} else if len([]rune(category)) > MaxCategoryLength {
		res.add(FieldCategory, ErrCategoryTooLong)
	}
	if len([]rune(e.Description)) > MaxDescriptionLength {
		res.add(FieldDescription, ErrDescriptionTooLong)
	}
	return res.Err()
}

// ValidateAt is Validate plus the rule that the date is not after the
// calendar day of now.
func (e Expense) ValidateAt(now time.Time) error {
	if err := e.Validate(); err != nil {
		return err
	}
	if e.Date.After(Today(now).Time) {
		return &ValidationError{Fields: []FieldError{{Field: FieldDate, Err: ErrFutureDate}}}
	}
	return nil
}

// Normalize returns a copy with the free-text fields trimmed.
func (e Expense) Normalize() Expense {
	e.Category = strings.TrimSpace(e.Category)
	e.Description = strings.TrimSpace(e.Description)
	return e
}
