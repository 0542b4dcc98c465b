// Package worker regenerates cached insights when transaction
// histories change.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/cdJohnEl/PocketLens/internal/amqp"
	"github.com/cdJohnEl/PocketLens/internal/backend"
	"github.com/cdJohnEl/PocketLens/internal/insights"
)

// Consumer delivers transaction change messages. Satisfied by the AMQP
// client.
type Consumer interface {
	ConsumeTransactionChanged(ctx context.Context, handler func(*amqp.TransactionChangedMessage) error) error
}

// InsightWorker keeps per-user insight caches fresh. Change messages
// trigger immediate regeneration; a periodic sweep catches users whose
// messages were lost.
type InsightWorker struct {
	store     backend.Store
	insights  *insights.Service
	batchSize int
	interval  time.Duration
}

func NewInsightWorker(store backend.Store, svc *insights.Service, batchSize int, interval time.Duration) *InsightWorker {
	return &InsightWorker{
		store:     store,
		insights:  svc,
		batchSize: batchSize,
		interval:  interval,
	}
}

// HandleChangeMessage regenerates the insight for the user named in a
// change message.
func (w *InsightWorker) HandleChangeMessage(msg *amqp.TransactionChangedMessage) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	slog.InfoContext(ctx, "Processing change message",
		"user_id", msg.UserID,
		"op", msg.Op)

	return w.Refresh(ctx, msg.UserID)
}

// Refresh regenerates and stores the insight for one user.
func (w *InsightWorker) Refresh(ctx context.Context, userID string) error {
	transactions, err := w.store.ListTransactions(ctx, userID)
	if err != nil {
		return fmt.Errorf("list transactions: %w", err)
	}

	text, err := w.insights.Analyze(ctx, transactions)
	if err != nil {
		return fmt.Errorf("analyze transactions: %w", err)
	}

	if err := w.store.SaveInsight(ctx, userID, text); err != nil {
		return fmt.Errorf("save insight: %w", err)
	}

	slog.InfoContext(ctx, "Insight refreshed",
		"user_id", userID,
		"transactions", len(transactions))
	return nil
}

// ProcessStaleInsights refreshes up to batchSize users whose cached
// insight is stale. Failures are logged per user so one bad history
// does not stall the sweep.
func (w *InsightWorker) ProcessStaleInsights(ctx context.Context) error {
	users, err := w.store.DirtyInsightUsers(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("list stale insights: %w", err)
	}
	if len(users) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Refreshing stale insights", "count", len(users))

	for _, userID := range users {
		if err := w.Refresh(ctx, userID); err != nil {
			slog.ErrorContext(ctx, "Failed to refresh insight",
				"user_id", userID,
				"error", err)
		}
	}
	return nil
}

// Run consumes change messages and sweeps for stale insights until ctx
// is cancelled. A nil consumer runs the sweep alone.
func (w *InsightWorker) Run(ctx context.Context, consumer Consumer) error {
	g, ctx := errgroup.WithContext(ctx)

	if consumer != nil {
		g.Go(func() error {
			return consumer.ConsumeTransactionChanged(ctx, w.HandleChangeMessage)
		})
	}

	g.Go(func() error {
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
				if err := w.ProcessStaleInsights(ctx); err != nil {
					slog.ErrorContext(ctx, "Stale insight sweep failed", "error", err)
				}
			}
		}
	})

	return g.Wait()
}
