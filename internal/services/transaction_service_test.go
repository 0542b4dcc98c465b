package services

import (
	"context"
	"errors"
	"testing"

	"github.com/cdJohnEl/PocketLens/internal/amqp"
	"github.com/cdJohnEl/PocketLens/internal/core"
	logpkg "github.com/cdJohnEl/PocketLens/internal/log"
	"github.com/cdJohnEl/PocketLens/internal/storage"
)

type fakePublisher struct {
	published []string
	err       error
}

func (f *fakePublisher) PublishTransactionChanged(_ context.Context, userID, op string) error {
	f.published = append(f.published, userID+":"+op)
	return f.err
}

func newTestService(pub ChangePublisher) (*TransactionService, *storage.MemoryStore) {
	store := storage.NewMemoryStore()
	return NewTransactionService(store, pub, logpkg.New(logpkg.DefaultConfig())), store
}

func TestCreateValidatesAndPublishes(t *testing.T) {
	pub := &fakePublisher{}
	svc, store := newTestService(pub)
	ctx := context.Background()

	saved, err := svc.Create(ctx, "user-1", core.Transaction{
		Type: core.Expenses, Category: "Groceries", Amount: 50, Method: "Cash", Date: "2026-04-01",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if saved.ID == "" || saved.UserID != "user-1" {
		t.Errorf("saved = %+v", saved)
	}

	if len(pub.published) != 1 || pub.published[0] != "user-1:"+amqp.OpCreate {
		t.Errorf("published = %v", pub.published)
	}

	ins, err := store.Insight(ctx, "user-1")
	if err != nil {
		t.Fatalf("Insight() error = %v", err)
	}
	if !ins.Dirty {
		t.Error("expected insight marked stale after create")
	}
}

func TestCreateRejectsInvalid(t *testing.T) {
	svc, _ := newTestService(nil)

	tests := []struct {
		name string
		txn  core.Transaction
		want error
	}{
		{
			name: "bad type",
			txn:  core.Transaction{Type: "Transfer", Category: "X", Amount: 1, Date: "2026-01-01"},
			want: core.ErrInvalidType,
		},
		{
			name: "negative amount",
			txn:  core.Transaction{Type: core.Income, Category: "X", Amount: -1, Date: "2026-01-01"},
			want: core.ErrInvalidAmount,
		},
		{
			name: "bad date",
			txn:  core.Transaction{Type: core.Income, Category: "X", Amount: 1, Date: "01/02/2026"},
			want: core.ErrInvalidDate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Create(context.Background(), "user-1", tt.txn); !errors.Is(err, tt.want) {
				t.Errorf("Create() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestUpdateChecksOwnership(t *testing.T) {
	svc, _ := newTestService(nil)
	ctx := context.Background()

	saved, err := svc.Create(ctx, "user-1", core.Transaction{
		Type: core.Income, Category: "Salary", Amount: 100, Date: "2026-04-01",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	amount := 200.0
	if _, err := svc.Update(ctx, "user-2", saved.ID, core.TransactionPatch{Amount: &amount}); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("cross-user update error = %v, want ErrNotFound", err)
	}

	updated, err := svc.Update(ctx, "user-1", saved.ID, core.TransactionPatch{Amount: &amount})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.Amount != 200 {
		t.Errorf("Amount = %v", updated.Amount)
	}
}

func TestDeletePublishes(t *testing.T) {
	pub := &fakePublisher{}
	svc, _ := newTestService(pub)
	ctx := context.Background()

	saved, err := svc.Create(ctx, "user-1", core.Transaction{
		Type: core.Expenses, Category: "Transport", Amount: 10, Date: "2026-04-02",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := svc.Delete(ctx, "user-1", saved.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := svc.Delete(ctx, "user-1", saved.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("second delete error = %v", err)
	}

	want := []string{"user-1:" + amqp.OpCreate, "user-1:" + amqp.OpDelete}
	if len(pub.published) != 2 || pub.published[0] != want[0] || pub.published[1] != want[1] {
		t.Errorf("published = %v, want %v", pub.published, want)
	}
}

func TestPublishFailureDoesNotFailWrite(t *testing.T) {
	pub := &fakePublisher{err: errors.New("broker down")}
	svc, _ := newTestService(pub)

	if _, err := svc.Create(context.Background(), "user-1", core.Transaction{
		Type: core.Income, Category: "Bonus", Amount: 5, Date: "2026-04-03",
	}); err != nil {
		t.Fatalf("Create() error = %v, want nil despite publish failure", err)
	}
}
