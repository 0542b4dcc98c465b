// Package prefs manages per-user settings: display currency, theme,
// notification toggles and profile details.
package prefs

import (
	"context"
	"fmt"

	"github.com/cdJohnEl/PocketLens/internal/backend"
	"github.com/cdJohnEl/PocketLens/internal/broadcast"
	"github.com/cdJohnEl/PocketLens/internal/core"
	"github.com/cdJohnEl/PocketLens/internal/currency"
	logpkg "github.com/cdJohnEl/PocketLens/internal/log"
)

// CurrencyChange is published when a user switches display currency so
// open views can re-render amounts.
type CurrencyChange struct {
	UserID   string
	Currency string
}

type Service struct {
	store   backend.PreferenceStore
	changes *broadcast.Broadcaster[CurrencyChange]
	logger  *logpkg.Logger
}

func NewService(store backend.PreferenceStore, logger *logpkg.Logger) *Service {
	return &Service{
		store:   store,
		changes: broadcast.New[CurrencyChange](),
		logger:  logger.WithComponent(logpkg.ComponentPrefs),
	}
}

// Get returns the user's preferences, defaults included for anything
// never saved.
func (s *Service) Get(ctx context.Context, userID string) (core.Preferences, error) {
	return s.store.Preferences(ctx, userID)
}

// Save validates and persists the full preference document. A currency
// switch is broadcast to subscribers.
func (s *Service) Save(ctx context.Context, userID string, prefs core.Preferences) (core.Preferences, error) {
	if prefs.Currency == "" {
		prefs.Currency = core.DefaultCurrency
	}
	if _, ok := currency.Lookup(prefs.Currency); !ok {
		return core.Preferences{}, fmt.Errorf("unsupported currency %q", prefs.Currency)
	}

	previous, err := s.store.Preferences(ctx, userID)
	if err != nil {
		return core.Preferences{}, fmt.Errorf("read preferences: %w", err)
	}

	if err := s.store.SavePreferences(ctx, userID, prefs); err != nil {
		return core.Preferences{}, fmt.Errorf("save preferences: %w", err)
	}

	if previous.Currency != prefs.Currency {
		s.logger.InfoContext(ctx, "Display currency changed",
			logpkg.FieldUserID, userID,
			logpkg.FieldCurrency, prefs.Currency)
		s.changes.Publish(CurrencyChange{UserID: userID, Currency: prefs.Currency})
	}

	return prefs, nil
}

// Subscribe returns a channel of currency changes and a cancel
// function.
func (s *Service) Subscribe() (<-chan CurrencyChange, func()) {
	return s.changes.Subscribe()
}
