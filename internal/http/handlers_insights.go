package http

import (
	"errors"
	"net/http"

	"github.com/cdJohnEl/PocketLens/internal/core"
	"github.com/cdJohnEl/PocketLens/internal/insights"
)

type insightRequest struct {
	Transactions []core.Transaction `json:"transactions"`
}

type insightResponse struct {
	Insights string `json:"insights"`
}

// handleCachedInsight serves the worker-generated insight for the
// signed-in user without touching the provider.
func (s *Server) handleCachedInsight(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	ins, err := s.store.Insight(r.Context(), user.ID)
	if err != nil {
		writeJSON(w, r, http.StatusOK, insightResponse{Insights: insights.NoDataMessage})
		return
	}
	writeJSON(w, r, http.StatusOK, insightResponse{Insights: ins.Text})
}

// handleGenerateTips generates short tips from the posted transaction
// list. Empty or malformed lists are a 400 with the documented body.
func (s *Server) handleGenerateTips(w http.ResponseWriter, r *http.Request) {
	var req insightRequest
	if err := decodeJSON(r, &req); err != nil || len(req.Transactions) == 0 {
		writeJSON(w, r, http.StatusBadRequest, insightResponse{Insights: "No transactions provided."})
		return
	}

	text, err := s.insights.Tips(r.Context(), req.Transactions)
	if errors.Is(err, insights.ErrNoTransactions) {
		writeJSON(w, r, http.StatusBadRequest, insightResponse{Insights: "No transactions provided."})
		return
	}
	if err != nil {
		writeJSON(w, r, http.StatusInternalServerError, insightResponse{Insights: insights.UnavailableMessage})
		return
	}
	writeJSON(w, r, http.StatusOK, insightResponse{Insights: text})
}

// handleScanReceipt runs the full analysis prompt over the posted
// transaction list. An empty list yields the canned message with a 200.
func (s *Server) handleScanReceipt(w http.ResponseWriter, r *http.Request) {
	var req insightRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	text, err := s.insights.Analyze(r.Context(), req.Transactions)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "Failed to generate insights")
		return
	}
	writeJSON(w, r, http.StatusOK, insightResponse{Insights: text})
}
