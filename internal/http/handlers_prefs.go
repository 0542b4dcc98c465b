package http

import (
	"errors"
	"net/http"

	"github.com/cdJohnEl/PocketLens/internal/backend"
	"github.com/cdJohnEl/PocketLens/internal/core"
	"github.com/cdJohnEl/PocketLens/internal/currency"
)

func (s *Server) handleExchangeRates(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, s.rates.Fetch(r.Context()))
}

type categoriesResponse struct {
	Income     []string            `json:"income"`
	Expenses   []string            `json:"expenses"`
	Methods    []string            `json:"methods"`
	Currencies []currency.Currency `json:"currencies"`
}

// handleCategories serves the client-side suggestion lists and the
// supported currency table.
func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, categoriesResponse{
		Income:     core.CategorySuggestions[core.Income],
		Expenses:   core.CategorySuggestions[core.Expenses],
		Methods:    core.PaymentMethods,
		Currencies: currency.Currencies,
	})
}

func (s *Server) handleGetPreferences(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	userPrefs, err := s.prefs.Get(r.Context(), user.ID)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "failed to load preferences")
		return
	}
	writeJSON(w, r, http.StatusOK, userPrefs)
}

func (s *Server) handlePutPreferences(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	var userPrefs core.Preferences
	if err := decodeJSON(r, &userPrefs); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	saved, err := s.prefs.Save(r.Context(), user.ID, userPrefs)
	if err != nil {
		if errors.Is(err, backend.ErrNotConfigured) {
			writeError(w, r, http.StatusServiceUnavailable, "no data backend configured")
			return
		}
		writeError(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, r, http.StatusOK, saved)
}
