package backend

import (
	"fmt"
	"log/slog"

	"github.com/cdJohnEl/PocketLens/internal/storage"
)

// Config holds what the factory needs to build a backend.
type Config struct {
	Type         Type
	SQLiteDBPath string
}

// Factory creates backends based on configuration.
type Factory struct {
	logger *slog.Logger
}

func NewFactory(logger *slog.Logger) *Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &Factory{logger: logger}
}

// CreateBackend builds the store named by config.Type. An empty type
// yields the unconfigured store rather than an error so the app can
// start without persistence.
func (f *Factory) CreateBackend(config Config) (*Result, error) {
	if !config.Type.IsValid() {
		return nil, fmt.Errorf("invalid backend type: %s", config.Type)
	}

	switch config.Type {
	case SQLiteBackend:
		repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
		}
		f.logger.Info("Initialized SQLite backend", "db_path", config.SQLiteDBPath)
		return &Result{Store: repo, Cleanup: repo.Close}, nil

	case MemoryBackend:
		f.logger.Info("Initialized memory backend")
		return &Result{Store: storage.NewMemoryStore()}, nil

	default:
		f.logger.Warn("No data backend configured, reads return empty results and writes are rejected")
		return &Result{Store: NewUnconfigured()}, nil
	}
}
