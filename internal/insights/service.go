// Package insights turns a user's transaction history into short
// natural-language analysis via a text generation provider.
package insights

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/cdJohnEl/PocketLens/internal/core"
	"github.com/cdJohnEl/PocketLens/internal/currency"
	logpkg "github.com/cdJohnEl/PocketLens/internal/log"
)

// ErrNoTransactions is returned by Tips when there is nothing to
// analyze.
var ErrNoTransactions = errors.New("no transactions provided")

// Canned responses for the degraded paths.
const (
	NoDataMessage      = "No transaction data available for analysis."
	UnavailableMessage = "Unable to generate insights at the moment. Please try again."
)

// Service builds prompts from transaction data and delegates text
// generation to the configured provider.
type Service struct {
	gen    TextGenerator
	logger *logpkg.Logger
}

func NewService(gen TextGenerator, logger *logpkg.Logger) *Service {
	return &Service{gen: gen, logger: logger.WithComponent(logpkg.ComponentInsights)}
}

// Configured reports whether a text generation provider is wired up.
func (s *Service) Configured() bool { return s.gen != nil }

// Analyze produces 3-4 insights from aggregate financial metrics. An
// empty history short-circuits to a canned message without calling the
// provider.
func (s *Service) Analyze(ctx context.Context, transactions []core.Transaction) (string, error) {
	if len(transactions) == 0 {
		return NoDataMessage, nil
	}
	if s.gen == nil {
		return "", fmt.Errorf("no text generation provider configured")
	}

	text, err := s.gen.GenerateText(ctx, analysisPrompt(transactions))
	if err != nil {
		s.logger.ErrorContext(ctx, "Insight generation failed", logpkg.FieldError, err)
		return "", fmt.Errorf("generate insights: %w", err)
	}
	return text, nil
}

// Tips produces 2-3 short actionable tips from the raw transaction
// list. Returns ErrNoTransactions on an empty history.
func (s *Service) Tips(ctx context.Context, transactions []core.Transaction) (string, error) {
	if len(transactions) == 0 {
		return "", ErrNoTransactions
	}
	if s.gen == nil {
		return "", fmt.Errorf("no text generation provider configured")
	}

	prompt, err := tipsPrompt(transactions)
	if err != nil {
		return "", err
	}
	text, err := s.gen.GenerateText(ctx, prompt)
	if err != nil {
		s.logger.ErrorContext(ctx, "Tip generation failed", logpkg.FieldError, err)
		return "", fmt.Errorf("generate tips: %w", err)
	}
	return text, nil
}

func analysisPrompt(transactions []core.Transaction) string {
	totals := core.Summarize(transactions)

	top := "None"
	if share, ok := core.TopExpenseCategory(transactions); ok {
		top = fmt.Sprintf("%s (%s)", share.Category, naira(share.Amount))
	}

	var b strings.Builder
	b.WriteString("Analyze this financial data and provide 3-4 actionable insights in a friendly, encouraging tone:\n\n")
	b.WriteString("Financial Summary:\n")
	fmt.Fprintf(&b, "- Total Income: %s\n", naira(totals.Income))
	fmt.Fprintf(&b, "- Total Expenses: %s\n", naira(totals.Expenses))
	fmt.Fprintf(&b, "- Net Worth: %s\n", naira(totals.Net))
	fmt.Fprintf(&b, "- Top Expense Category: %s\n", top)
	fmt.Fprintf(&b, "- Total Transactions: %d\n\n", len(transactions))
	b.WriteString("Provide insights about:\n")
	b.WriteString("1. Spending patterns and trends\n")
	b.WriteString("2. Savings opportunities\n")
	b.WriteString("3. Budget recommendations\n")
	b.WriteString("4. Financial health assessment\n\n")
	b.WriteString("Keep it concise, positive, and actionable. Use Nigerian Naira (₦) currency format.")
	return b.String()
}

func tipsPrompt(transactions []core.Transaction) (string, error) {
	data, err := json.MarshalIndent(transactions, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal transactions: %w", err)
	}
	return "Analyze the following financial transactions and provide a concise summary of 2-3 actionable insights " +
		"or tips to help the user improve their financial health. Be brief, use no more than 3 sentences, " +
		"and do not include disclaimers.\n\nTransactions:\n" + string(data), nil
}

func naira(amount float64) string {
	return currency.Format(amount, currency.BaseCurrency, 0)
}
