package http

import (
	"net/http"

	"github.com/cdJohnEl/PocketLens/internal/core"
	"github.com/cdJohnEl/PocketLens/internal/currency"
)

const (
	recentCount = 5
	topCount    = 3
)

type dashboardResponse struct {
	Totals             core.Totals        `json:"totals"`
	RecentTransactions []core.Transaction `json:"recentTransactions"`
	Insight            string             `json:"insight"`
	Currency           string             `json:"currency"`
	Rate               float64            `json:"rate"`
	FormattedTotals    formattedTotals    `json:"formattedTotals"`
}

type formattedTotals struct {
	Income   string `json:"income"`
	Expenses string `json:"expenses"`
	Net      string `json:"net"`
}

type reportsResponse struct {
	Totals            core.Totals          `json:"totals"`
	TopIncome         []core.Transaction   `json:"topIncome"`
	TopExpenses       []core.Transaction   `json:"topExpenses"`
	CategoryBreakdown []core.CategoryShare `json:"categoryBreakdown"`
	MonthlySeries     []core.MonthPoint    `json:"monthlySeries"`
}

// handleDashboard returns the aggregates the landing view renders:
// totals, the five most recent entries and the cached insight text.
// Amounts are also pre-formatted in the user's display currency.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	ctx := r.Context()

	transactions, err := s.txns.List(ctx, user.ID)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "failed to load transactions")
		return
	}

	userPrefs, err := s.prefs.Get(ctx, user.ID)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "failed to load preferences")
		return
	}

	rate := 0.0
	if userPrefs.Currency != currency.BaseCurrency {
		rate = s.rates.Rate(ctx, userPrefs.Currency)
	}

	// Missing insight is normal before first generation.
	insightText := ""
	if ins, err := s.store.Insight(ctx, user.ID); err == nil {
		insightText = ins.Text
	}

	totals := core.Summarize(transactions)
	writeJSON(w, r, http.StatusOK, dashboardResponse{
		Totals:             totals,
		RecentTransactions: core.Recent(transactions, recentCount),
		Insight:            insightText,
		Currency:           userPrefs.Currency,
		Rate:               rate,
		FormattedTotals: formattedTotals{
			Income:   currency.Format(totals.Income, userPrefs.Currency, rate),
			Expenses: currency.Format(totals.Expenses, userPrefs.Currency, rate),
			Net:      currency.Format(totals.Net, userPrefs.Currency, rate),
		},
	})
}

// handleReports returns the full report aggregates: totals, top three
// by amount per type, category percentages and the monthly series.
func (s *Server) handleReports(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	transactions, err := s.txns.List(r.Context(), user.ID)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "failed to load transactions")
		return
	}

	writeJSON(w, r, http.StatusOK, reportsResponse{
		Totals:            core.Summarize(transactions),
		TopIncome:         core.TopByAmount(transactions, core.Income, topCount),
		TopExpenses:       core.TopByAmount(transactions, core.Expenses, topCount),
		CategoryBreakdown: core.CategoryBreakdown(transactions),
		MonthlySeries:     core.MonthlySeries(transactions),
	})
}
