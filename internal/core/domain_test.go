package core

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestDateValidate(t *testing.T) {
	cases := []struct {
		d  Date
		ok bool
	}{
		{NewDate(2025, 1, 1), true},
		{NewDate(2025, 12, 31), true},
		{Date{Time: time.Time{}}, false}, // zero time
	}
	for i, tc := range cases {
		err := tc.d.Validate()
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestMoneyValidate(t *testing.T) {
	if err := (Money{Cents: 0}).Validate(); err != nil {
		t.Fatalf("expected zero to be ok, got %v", err)
	}
	if err := (Money{Cents: -1}).Validate(); !errors.Is(err, ErrNegativeAmount) {
		t.Fatalf("expected ErrNegativeAmount, got %v", err)
	}
}

func TestExpenseValidate(t *testing.T) {
	good := Expense{
		Date:        NewDate(2024, 1, 1),
		Category:    "Food",
		Description: "lunch",
		Amount:      Money{Cents: 1250},
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	noDesc := good
	noDesc.Description = ""
	if err := noDesc.Validate(); err != nil {
		t.Fatalf("description is optional, got %v", err)
	}

	bads := []struct {
		e     Expense
		field string
	}{
		{Expense{Date: Date{}, Category: "c", Amount: Money{Cents: 1}}, FieldDate},
		{Expense{Date: NewDate(2024, 1, 1), Category: "c", Amount: Money{Cents: -500}}, FieldAmount},
		{Expense{Date: NewDate(2024, 1, 1), Category: "  ", Amount: Money{Cents: 1}}, FieldCategory},
		{Expense{Date: NewDate(2024, 1, 1), Category: strings.Repeat("x", 51), Amount: Money{Cents: 1}}, FieldCategory},
		{Expense{Date: NewDate(2024, 1, 1), Category: "c", Description: strings.Repeat("d", 201), Amount: Money{Cents: 1}}, FieldDescription},
	}
	for i, tc := range bads {
		err := tc.e.Validate()
		var ve *ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("case %d expected *ValidationError, got %v", i, err)
		}
		if _, ok := ve.Messages()[tc.field]; !ok {
			t.Fatalf("case %d expected field %q in %v", i, tc.field, ve.Messages())
		}
	}
}

func TestExpenseValidateAt(t *testing.T) {
	now := time.Date(2024, 3, 15, 23, 30, 0, 0, time.UTC)
	e := Expense{Date: NewDate(2024, 3, 15), Category: "Food", Amount: Money{Cents: 100}}
	if err := e.ValidateAt(now); err != nil {
		t.Fatalf("today must be accepted, got %v", err)
	}

	e.Date = NewDate(2999, 1, 1)
	if err := e.Validate(); err != nil {
		t.Fatalf("Validate has no clock and must not reject, got %v", err)
	}
	err := e.ValidateAt(now)
	if !errors.Is(err, ErrFutureDate) || !IsValidation(err) {
		t.Fatalf("expected future date validation error, got %v", err)
	}

	e.Category = ""
	if err := e.ValidateAt(now); !errors.Is(err, ErrEmptyCategory) {
		t.Fatalf("field errors are reported first, got %v", err)
	}
}

func TestValidateInput(t *testing.T) {
	now := time.Date(2024, 3, 15, 18, 30, 0, 0, time.UTC)

	t.Run("valid input", func(t *testing.T) {
		e, res := ValidateInput(ExpenseInput{
			Amount:      "12.50",
			Category:    " Food ",
			Description: "lunch\x00",
			Date:        "2024-01-01",
		}, now)
		if !res.Valid() {
			t.Fatalf("expected valid, got %v", res.Err())
		}
		if e.Amount.Cents != 1250 || e.Category != "Food" || e.Description != "lunch" {
			t.Fatalf("unexpected expense: %+v", e)
		}
		if e.Date.String() != "2024-01-01" {
			t.Fatalf("unexpected date: %s", e.Date)
		}
	})

	t.Run("empty date defaults to today", func(t *testing.T) {
		e, res := ValidateInput(ExpenseInput{Amount: "1", Category: "Bills"}, now)
		if !res.Valid() {
			t.Fatalf("expected valid, got %v", res.Err())
		}
		if e.Date.String() != "2024-03-15" {
			t.Fatalf("expected today, got %s", e.Date)
		}
	})

	t.Run("collects every failing field", func(t *testing.T) {
		_, res := ValidateInput(ExpenseInput{Amount: "-5", Category: "", Date: "2024-13-01"}, now)
		if res.Valid() {
			t.Fatal("expected invalid result")
		}
		err := res.Err()
		if !IsValidation(err) {
			t.Fatalf("expected validation error, got %v", err)
		}
		if !errors.Is(err, ErrNegativeAmount) || !errors.Is(err, ErrEmptyCategory) || !errors.Is(err, ErrInvalidDate) {
			t.Fatalf("missing sentinel errors in %v", err)
		}
		if len(res.Errors) != 3 {
			t.Fatalf("expected 3 field errors, got %d", len(res.Errors))
		}
	})

	t.Run("future date rejected", func(t *testing.T) {
		_, res := ValidateInput(ExpenseInput{Amount: "1", Category: "Food", Date: "2024-03-16"}, now)
		if !errors.Is(res.Err(), ErrFutureDate) {
			t.Fatalf("expected ErrFutureDate, got %v", res.Err())
		}
	})
}

func TestNotFoundError(t *testing.T) {
	var err error = &NotFoundError{ID: 7}
	if !errors.Is(err, ErrNotFound) || !IsNotFound(err) {
		t.Fatal("expected NotFoundError to match ErrNotFound")
	}
	if IsValidation(err) {
		t.Fatal("not found must not look like a validation error")
	}
	if err.Error() != "expense 7 not found" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestSum(t *testing.T) {
	got := Sum([]Expense{{Amount: Money{Cents: 1250}}, {Amount: Money{Cents: 4000}}})
	if got.Cents != 5250 {
		t.Fatalf("expected 5250, got %d", got.Cents)
	}
	if Sum(nil).Cents != 0 {
		t.Fatal("expected zero for empty input")
	}
}
