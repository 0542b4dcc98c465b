package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cdJohnEl/PocketLens/internal/amqp"
	"github.com/cdJohnEl/PocketLens/internal/core"
	"github.com/cdJohnEl/PocketLens/internal/insights"
	logpkg "github.com/cdJohnEl/PocketLens/internal/log"
	"github.com/cdJohnEl/PocketLens/internal/storage"
)

type fakeGenerator struct {
	calls int
	text  string
	err   error
}

func (f *fakeGenerator) GenerateText(_ context.Context, _ string) (string, error) {
	f.calls++
	return f.text, f.err
}

func newTestWorker(gen insights.TextGenerator) (*InsightWorker, *storage.MemoryStore) {
	store := storage.NewMemoryStore()
	svc := insights.NewService(gen, logpkg.New(logpkg.DefaultConfig()))
	return NewInsightWorker(store, svc, 10, time.Minute), store
}

func seedTransaction(t *testing.T, store *storage.MemoryStore, userID string) {
	t.Helper()
	_, err := store.AddTransaction(context.Background(), core.Transaction{
		UserID: userID, Type: core.Expenses, Category: "Food & Drinks",
		Amount: 5000, Date: "2026-05-01",
	})
	if err != nil {
		t.Fatalf("AddTransaction() error = %v", err)
	}
}

func TestHandleChangeMessageRefreshesInsight(t *testing.T) {
	gen := &fakeGenerator{text: "Watch your food spending."}
	w, store := newTestWorker(gen)

	seedTransaction(t, store, "user-1")
	if err := store.MarkInsightDirty(context.Background(), "user-1"); err != nil {
		t.Fatalf("MarkInsightDirty() error = %v", err)
	}

	if err := w.HandleChangeMessage(amqp.NewTransactionChangedMessage("user-1", amqp.OpCreate)); err != nil {
		t.Fatalf("HandleChangeMessage() error = %v", err)
	}

	ins, err := store.Insight(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Insight() error = %v", err)
	}
	if ins.Text != "Watch your food spending." {
		t.Errorf("Text = %q", ins.Text)
	}
	if ins.Dirty {
		t.Error("insight still stale after refresh")
	}
}

func TestRefreshEmptyHistoryStoresCannedText(t *testing.T) {
	gen := &fakeGenerator{text: "unused"}
	w, store := newTestWorker(gen)

	if err := w.Refresh(context.Background(), "user-1"); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if gen.calls != 0 {
		t.Errorf("provider called %d times for empty history", gen.calls)
	}

	ins, err := store.Insight(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Insight() error = %v", err)
	}
	if ins.Text != insights.NoDataMessage {
		t.Errorf("Text = %q", ins.Text)
	}
}

func TestProcessStaleInsights(t *testing.T) {
	gen := &fakeGenerator{text: "Save more."}
	w, store := newTestWorker(gen)
	ctx := context.Background()

	seedTransaction(t, store, "user-1")
	seedTransaction(t, store, "user-2")
	for _, u := range []string{"user-1", "user-2"} {
		if err := store.MarkInsightDirty(ctx, u); err != nil {
			t.Fatalf("MarkInsightDirty() error = %v", err)
		}
	}

	if err := w.ProcessStaleInsights(ctx); err != nil {
		t.Fatalf("ProcessStaleInsights() error = %v", err)
	}

	stale, err := store.DirtyInsightUsers(ctx, 10)
	if err != nil {
		t.Fatalf("DirtyInsightUsers() error = %v", err)
	}
	if len(stale) != 0 {
		t.Errorf("stale users after sweep = %v", stale)
	}
	if gen.calls != 2 {
		t.Errorf("provider calls = %d, want 2", gen.calls)
	}
}

func TestProcessStaleInsightsContinuesOnFailure(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("provider down")}
	w, store := newTestWorker(gen)
	ctx := context.Background()

	seedTransaction(t, store, "user-1")
	if err := store.MarkInsightDirty(ctx, "user-1"); err != nil {
		t.Fatalf("MarkInsightDirty() error = %v", err)
	}

	// Per-user failures are logged, not returned.
	if err := w.ProcessStaleInsights(ctx); err != nil {
		t.Fatalf("ProcessStaleInsights() error = %v", err)
	}

	stale, err := store.DirtyInsightUsers(ctx, 10)
	if err != nil {
		t.Fatalf("DirtyInsightUsers() error = %v", err)
	}
	if len(stale) != 1 {
		t.Errorf("expected user still stale after failed refresh, got %v", stale)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	w, _ := newTestWorker(&fakeGenerator{text: "x"})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx, nil) }()

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run() error = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run() did not stop after cancel")
	}
}
