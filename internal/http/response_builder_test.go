package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"expenses/internal/core"
)

func TestJSONResponseBuilder_Basic(t *testing.T) {
	w := httptest.NewRecorder()

	NewJSONResponse().
		Status(http.StatusCreated).
		Location("/api/expenses/1").
		Data(map[string]int{"id": 1}).
		Write(w)

	if w.Code != http.StatusCreated {
		t.Errorf("Status code = %d, want %d", w.Code, http.StatusCreated)
	}
	if w.Header().Get("Content-Type") != "application/json; charset=utf-8" {
		t.Errorf("Content-Type = %q", w.Header().Get("Content-Type"))
	}
	if w.Header().Get("Location") != "/api/expenses/1" {
		t.Errorf("Location = %q", w.Header().Get("Location"))
	}
	if w.Body.String() != "{\"id\":1}\n" {
		t.Errorf("Body = %q", w.Body.String())
	}
}

func TestJSONResponseBuilder_NoContent(t *testing.T) {
	w := httptest.NewRecorder()
	NewJSONResponse().Status(http.StatusNoContent).Write(w)

	if w.Code != http.StatusNoContent || w.Body.Len() != 0 {
		t.Fatalf("expected empty 204, got %d %q", w.Code, w.Body.String())
	}
}

func TestErrorResponses(t *testing.T) {
	tests := []struct {
		name    string
		builder *JSONResponseBuilder
		code    int
	}{
		{"bad request", BadRequestError("bad"), http.StatusBadRequest},
		{"not found", NotFoundError("missing"), http.StatusNotFound},
		{"internal", InternalServerError("boom"), http.StatusInternalServerError},
		{"method", MethodNotAllowedError(), http.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			tt.builder.Write(w)
			if w.Code != tt.code {
				t.Fatalf("status = %d, want %d", w.Code, tt.code)
			}
			var body errorBody
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil || body.Error == "" {
				t.Fatalf("expected error body, got %q (%v)", w.Body.String(), err)
			}
		})
	}
}

func TestValidationErrorResponse(t *testing.T) {
	ve := &core.ValidationError{Fields: []core.FieldError{
		{Field: core.FieldAmount, Err: core.ErrNegativeAmount},
		{Field: core.FieldCategory, Err: core.ErrEmptyCategory},
	}}
	w := httptest.NewRecorder()
	ValidationErrorResponse(ve).Write(w)

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d", w.Code)
	}
	var body errorBody
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Fields[core.FieldAmount] != core.ErrNegativeAmount.Error() || len(body.Fields) != 2 {
		t.Fatalf("unexpected fields: %+v", body.Fields)
	}
}

func TestSummaryResponseFormatting(t *testing.T) {
	got := newSummaryResponse(core.Summary{
		Total: core.Money{Cents: 123456},
		Count: 2,
		ByCategory: []core.CategoryAmount{
			{Category: "Bills", Amount: core.Money{Cents: 123456}, Count: 2},
		},
	}, "$")
	if got.Display != "$1,234.56" || got.Total != "1234.56" || got.ByCategory[0].Display != "$1,234.56" {
		t.Fatalf("unexpected formatting: %+v", got)
	}
}
