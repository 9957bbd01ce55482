package http

import (
	"errors"
	"net/http"
	"strconv"

	"expenses/internal/core"
	applog "expenses/internal/log"
)

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	items, err := s.svc.ListExpenses(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err, applog.OpList)
		return
	}

	out := make([]expenseResponse, 0, len(items))
	for _, e := range items {
		out = append(out, newExpenseResponse(e, s.currency))
	}
	NewJSONResponse().Data(out).Write(w)
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	in, err := parseExpenseInput(w, r)
	if err != nil {
		s.requestLogger(r).WarnContext(r.Context(), "Unreadable expense body", "error", err)
		BadRequestError("invalid request body").Write(w)
		return
	}

	id, err := s.svc.AddExpense(r.Context(), in)
	if err != nil {
		s.writeServiceError(w, r, err, applog.OpCreate)
		return
	}

	created, err := s.svc.GetExpense(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err, applog.OpRead)
		return
	}

	NewJSONResponse().
		Status(http.StatusCreated).
		Location("/api/expenses/" + strconv.FormatInt(id, 10)).
		Data(newExpenseResponse(created, s.currency)).
		Write(w)
}

func (s *Server) handleGetExpense(w http.ResponseWriter, r *http.Request) {
	id, err := expenseID(r)
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}

	e, err := s.svc.GetExpense(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err, applog.OpRead)
		return
	}
	NewJSONResponse().Data(newExpenseResponse(e, s.currency)).Write(w)
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	id, err := expenseID(r)
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}

	in, err := parseExpenseInput(w, r)
	if err != nil {
		s.requestLogger(r).WarnContext(r.Context(), "Unreadable expense body", "error", err, applog.FieldExpenseID, id)
		BadRequestError("invalid request body").Write(w)
		return
	}

	if err := s.svc.UpdateExpense(r.Context(), id, in); err != nil {
		s.writeServiceError(w, r, err, applog.OpUpdate)
		return
	}

	updated, err := s.svc.GetExpense(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err, applog.OpRead)
		return
	}
	NewJSONResponse().Data(newExpenseResponse(updated, s.currency)).Write(w)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	id, err := expenseID(r)
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}

	if err := s.svc.DeleteExpense(r.Context(), id); err != nil {
		s.writeServiceError(w, r, err, applog.OpDelete)
		return
	}
	NewJSONResponse().Status(http.StatusNoContent).Write(w)
}

func (s *Server) handleTotal(w http.ResponseWriter, r *http.Request) {
	total, err := s.svc.Total(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err, applog.OpTotal)
		return
	}
	NewJSONResponse().Data(newTotalResponse(total, s.currency)).Write(w)
}

func (s *Server) handleCategorySummary(w http.ResponseWriter, r *http.Request) {
	sum, err := s.svc.CategorySummary(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err, applog.OpSummary)
		return
	}
	NewJSONResponse().Data(newSummaryResponse(sum, s.currency)).Write(w)
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := s.svc.Categories(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err, applog.OpList)
		return
	}
	NewJSONResponse().Data(map[string][]string{"categories": cats}).Write(w)
}

// writeServiceError maps domain errors to status codes; anything unknown is a 500
// whose detail stays in the log.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error, op string) {
	var ve *core.ValidationError
	switch {
	case errors.As(err, &ve):
		ValidationErrorResponse(ve).Write(w)
	case core.IsNotFound(err):
		var nf *core.NotFoundError
		msg := "expense not found"
		if errors.As(err, &nf) {
			msg = nf.Error()
		}
		NotFoundError(msg).Write(w)
	default:
		s.requestLogger(r).ErrorContext(r.Context(), "Request failed",
			applog.NewFields().
				WithOperation(op).
				WithError(err, applog.ErrorTypeInternal).
				ToSlice()...)
		InternalServerError("internal error").Write(w)
	}
}
