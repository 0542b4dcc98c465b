package backend

import (
	"context"
	"errors"

	"github.com/cdJohnEl/PocketLens/internal/core"
)

// ErrNotConfigured signals that no data backend is configured. Reads
// degrade to empty results; writes surface this error.
var ErrNotConfigured = errors.New("data backend not configured")

// Ports for the persistence layer.
type (
	TransactionStore interface {
		AddTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error)
		ListTransactions(ctx context.Context, userID string) ([]core.Transaction, error)
		GetTransaction(ctx context.Context, id string) (core.Transaction, error)
		UpdateTransaction(ctx context.Context, id string, patch core.TransactionPatch) error
		DeleteTransaction(ctx context.Context, id string) error
	}

	PreferenceStore interface {
		Preferences(ctx context.Context, userID string) (core.Preferences, error)
		SavePreferences(ctx context.Context, userID string, prefs core.Preferences) error
	}

	InsightStore interface {
		Insight(ctx context.Context, userID string) (core.Insight, error)
		SaveInsight(ctx context.Context, userID, text string) error
		MarkInsightDirty(ctx context.Context, userID string) error
		DirtyInsightUsers(ctx context.Context, limit int) ([]string, error)
	}
)

// Store is the unified backend interface the application talks to.
type Store interface {
	TransactionStore
	PreferenceStore
	InsightStore
}

// CleanupFunc releases resources held by a backend.
type CleanupFunc func() error

// Result contains the backend instance and optional cleanup function.
type Result struct {
	Store   Store
	Cleanup CleanupFunc
}

// Type represents the kind of data backend.
type Type string

const (
	SQLiteBackend Type = "sqlite"
	MemoryBackend Type = "memory"
	// UnconfiguredBackend serves empty reads and rejects writes. Used
	// when no backend has been set up so the app still starts.
	UnconfiguredBackend Type = ""
)

func (t Type) String() string {
	if t == UnconfiguredBackend {
		return "unconfigured"
	}
	return string(t)
}

func (t Type) IsValid() bool {
	switch t {
	case SQLiteBackend, MemoryBackend, UnconfiguredBackend:
		return true
	default:
		return false
	}
}
