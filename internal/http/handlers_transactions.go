package http

import (
	"errors"
	"net/http"

	"github.com/cdJohnEl/PocketLens/internal/backend"
	"github.com/cdJohnEl/PocketLens/internal/core"
	"github.com/cdJohnEl/PocketLens/internal/storage"
)

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	transactions, err := s.txns.List(r.Context(), user.ID)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "failed to load transactions")
		return
	}
	writeJSON(w, r, http.StatusOK, map[string][]core.Transaction{"transactions": transactions})
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	var t core.Transaction
	if err := decodeJSON(r, &t); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	saved, err := s.txns.Create(r.Context(), user.ID, t)
	if err != nil {
		s.writeTransactionError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, saved)
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	id := r.PathValue("id")

	var patch core.TransactionPatch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := s.txns.Update(r.Context(), user.ID, id, patch)
	if err != nil {
		s.writeTransactionError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, updated)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	id := r.PathValue("id")

	if err := s.txns.Delete(r.Context(), user.ID, id); err != nil {
		s.writeTransactionError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) writeTransactionError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "transaction not found")
	case errors.Is(err, backend.ErrNotConfigured):
		writeError(w, r, http.StatusServiceUnavailable, "data backend not configured")
	case errors.Is(err, core.ErrInvalidType),
		errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrInvalidDate),
		errors.Is(err, core.ErrEmptyCategory),
		errors.Is(err, core.ErrCategoryTooLong):
		writeError(w, r, http.StatusUnprocessableEntity, err.Error())
	default:
		writeError(w, r, http.StatusInternalServerError, "failed to save transaction")
	}
}
