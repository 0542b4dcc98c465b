package prefs

import (
	"context"
	"testing"

	"github.com/cdJohnEl/PocketLens/internal/core"
	logpkg "github.com/cdJohnEl/PocketLens/internal/log"
	"github.com/cdJohnEl/PocketLens/internal/storage"
)

func newTestService() *Service {
	return NewService(storage.NewMemoryStore(), logpkg.New(logpkg.DefaultConfig()))
}

func TestGetReturnsDefaults(t *testing.T) {
	svc := newTestService()

	got, err := svc.Get(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Currency != core.DefaultCurrency {
		t.Errorf("Currency = %q, want %q", got.Currency, core.DefaultCurrency)
	}
	if got.Profile.Timezone != "Africa/Lagos" {
		t.Errorf("Timezone = %q", got.Profile.Timezone)
	}
}

func TestSaveRejectsUnknownCurrency(t *testing.T) {
	svc := newTestService()

	prefs := core.DefaultPreferences()
	prefs.Currency = "XXX"
	if _, err := svc.Save(context.Background(), "user-1", prefs); err == nil {
		t.Error("expected error for unsupported currency")
	}
}

func TestSaveBroadcastsCurrencyChange(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	changes, cancel := svc.Subscribe()
	defer cancel()

	prefs := core.DefaultPreferences()
	prefs.Currency = "USD"
	if _, err := svc.Save(ctx, "user-1", prefs); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	change := <-changes
	if change.UserID != "user-1" || change.Currency != "USD" {
		t.Errorf("change = %+v", change)
	}

	// Saving again with the same currency must not broadcast.
	prefs.DarkMode = true
	if _, err := svc.Save(ctx, "user-1", prefs); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	select {
	case change := <-changes:
		t.Errorf("unexpected broadcast %+v", change)
	default:
	}

	got, err := svc.Get(ctx, "user-1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !got.DarkMode || got.Currency != "USD" {
		t.Errorf("persisted prefs = %+v", got)
	}
}

func TestSaveFillsEmptyCurrency(t *testing.T) {
	svc := newTestService()

	prefs := core.Preferences{}
	saved, err := svc.Save(context.Background(), "user-1", prefs)
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if saved.Currency != core.DefaultCurrency {
		t.Errorf("Currency = %q, want default", saved.Currency)
	}
}
