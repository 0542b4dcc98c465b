package backend

import (
	"context"

	"github.com/cdJohnEl/PocketLens/internal/core"
)

// UnconfiguredStore is the backend used when no data store has been set
// up. Reads succeed with empty results so the UI renders a zeroed
// dashboard; every write fails with ErrNotConfigured.
type UnconfiguredStore struct{}

func NewUnconfigured() *UnconfiguredStore { return &UnconfiguredStore{} }

func (*UnconfiguredStore) AddTransaction(context.Context, core.Transaction) (core.Transaction, error) {
	return core.Transaction{}, ErrNotConfigured
}

func (*UnconfiguredStore) ListTransactions(context.Context, string) ([]core.Transaction, error) {
	return []core.Transaction{}, nil
}

func (*UnconfiguredStore) GetTransaction(context.Context, string) (core.Transaction, error) {
	return core.Transaction{}, ErrNotConfigured
}

func (*UnconfiguredStore) UpdateTransaction(context.Context, string, core.TransactionPatch) error {
	return ErrNotConfigured
}

func (*UnconfiguredStore) DeleteTransaction(context.Context, string) error {
	return ErrNotConfigured
}

func (*UnconfiguredStore) Preferences(context.Context, string) (core.Preferences, error) {
	return core.DefaultPreferences(), nil
}

func (*UnconfiguredStore) SavePreferences(context.Context, string, core.Preferences) error {
	return ErrNotConfigured
}

func (*UnconfiguredStore) Insight(context.Context, string) (core.Insight, error) {
	return core.Insight{}, ErrNotConfigured
}

func (*UnconfiguredStore) SaveInsight(context.Context, string, string) error {
	return ErrNotConfigured
}

func (*UnconfiguredStore) MarkInsightDirty(context.Context, string) error {
	return ErrNotConfigured
}

func (*UnconfiguredStore) DirtyInsightUsers(context.Context, int) ([]string, error) {
	return nil, nil
}
