package insights

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/cdJohnEl/PocketLens/internal/core"
	logpkg "github.com/cdJohnEl/PocketLens/internal/log"
)

type fakeGenerator struct {
	calls      int
	lastPrompt string
	text       string
	err        error
}

func (f *fakeGenerator) GenerateText(_ context.Context, prompt string) (string, error) {
	f.calls++
	f.lastPrompt = prompt
	return f.text, f.err
}

func sampleTransactions() []core.Transaction {
	return []core.Transaction{
		{UserID: "u1", Type: core.Income, Category: "Salary", Amount: 100000, Date: "2026-03-01"},
		{UserID: "u1", Type: core.Expenses, Category: "Food & Drinks", Amount: 25000, Date: "2026-03-05"},
		{UserID: "u1", Type: core.Expenses, Category: "Transportation", Amount: 10000, Date: "2026-03-07"},
	}
}

func TestAnalyzeEmptySkipsProvider(t *testing.T) {
	gen := &fakeGenerator{text: "unused"}
	svc := NewService(gen, logpkg.New(logpkg.DefaultConfig()))

	got, err := svc.Analyze(context.Background(), nil)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if got != NoDataMessage {
		t.Errorf("Analyze() = %q, want canned message", got)
	}
	if gen.calls != 0 {
		t.Errorf("provider called %d times for empty history", gen.calls)
	}
}

func TestAnalyzePromptContents(t *testing.T) {
	gen := &fakeGenerator{text: "Great job saving this month!"}
	svc := NewService(gen, logpkg.New(logpkg.DefaultConfig()))

	got, err := svc.Analyze(context.Background(), sampleTransactions())
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if got != "Great job saving this month!" {
		t.Errorf("Analyze() = %q", got)
	}

	for _, want := range []string{
		"Total Income: ₦100,000",
		"Total Expenses: ₦35,000",
		"Net Worth: ₦65,000",
		"Top Expense Category: Food & Drinks (₦25,000)",
		"Total Transactions: 3",
	} {
		if !strings.Contains(gen.lastPrompt, want) {
			t.Errorf("prompt missing %q\nprompt: %s", want, gen.lastPrompt)
		}
	}
}

func TestAnalyzeProviderFailure(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("rate limited")}
	svc := NewService(gen, logpkg.New(logpkg.DefaultConfig()))

	if _, err := svc.Analyze(context.Background(), sampleTransactions()); err == nil {
		t.Fatal("expected error when provider fails")
	}
}

func TestTips(t *testing.T) {
	gen := &fakeGenerator{text: "Cut back on dining out."}
	svc := NewService(gen, logpkg.New(logpkg.DefaultConfig()))

	if _, err := svc.Tips(context.Background(), nil); !errors.Is(err, ErrNoTransactions) {
		t.Errorf("expected ErrNoTransactions, got %v", err)
	}
	if gen.calls != 0 {
		t.Errorf("provider called %d times for empty history", gen.calls)
	}

	got, err := svc.Tips(context.Background(), sampleTransactions())
	if err != nil {
		t.Fatalf("Tips() error = %v", err)
	}
	if got != "Cut back on dining out." {
		t.Errorf("Tips() = %q", got)
	}
	if !strings.Contains(gen.lastPrompt, "Salary") {
		t.Error("prompt should embed the transaction list")
	}
}

func TestUnconfiguredService(t *testing.T) {
	svc := NewService(nil, logpkg.New(logpkg.DefaultConfig()))

	if svc.Configured() {
		t.Error("Configured() = true without provider")
	}
	if _, err := svc.Analyze(context.Background(), sampleTransactions()); err == nil {
		t.Error("expected error without provider")
	}
}
