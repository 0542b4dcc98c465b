package services

import (
	"context"
	"fmt"

	"github.com/cdJohnEl/PocketLens/internal/amqp"
	"github.com/cdJohnEl/PocketLens/internal/backend"
	"github.com/cdJohnEl/PocketLens/internal/core"
	logpkg "github.com/cdJohnEl/PocketLens/internal/log"
	"github.com/cdJohnEl/PocketLens/internal/storage"
)

// ChangePublisher notifies downstream consumers that a user's
// transaction history changed. Satisfied by the AMQP client.
type ChangePublisher interface {
	PublishTransactionChanged(ctx context.Context, userID, op string) error
}

// TransactionService orchestrates transaction writes: validation, the
// store write, and the best-effort change notification that drives
// insight regeneration. Store failures propagate; notification
// failures are logged and swallowed.
type TransactionService struct {
	store     backend.Store
	publisher ChangePublisher
	logger    *logpkg.Logger
}

func NewTransactionService(store backend.Store, publisher ChangePublisher, logger *logpkg.Logger) *TransactionService {
	return &TransactionService{
		store:     store,
		publisher: publisher,
		logger:    logger.WithComponent(logpkg.ComponentBackend),
	}
}

// Create validates and stores a new transaction for the user.
func (s *TransactionService) Create(ctx context.Context, userID string, t core.Transaction) (core.Transaction, error) {
	t.UserID = userID
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}

	saved, err := s.store.AddTransaction(ctx, t)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("save transaction: %w", err)
	}

	s.notifyChange(ctx, userID, amqp.OpCreate)
	return saved, nil
}

// List returns the user's transactions, most recent first.
func (s *TransactionService) List(ctx context.Context, userID string) ([]core.Transaction, error) {
	return s.store.ListTransactions(ctx, userID)
}

// Update applies a partial update to a transaction the user owns.
// Unknown ids and other users' transactions both report not found.
func (s *TransactionService) Update(ctx context.Context, userID, id string, patch core.TransactionPatch) (core.Transaction, error) {
	if err := patch.Validate(); err != nil {
		return core.Transaction{}, err
	}

	if err := s.checkOwnership(ctx, userID, id); err != nil {
		return core.Transaction{}, err
	}

	if err := s.store.UpdateTransaction(ctx, id, patch); err != nil {
		return core.Transaction{}, fmt.Errorf("update transaction: %w", err)
	}

	updated, err := s.store.GetTransaction(ctx, id)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("reload transaction: %w", err)
	}

	s.notifyChange(ctx, userID, amqp.OpUpdate)
	return updated, nil
}

// Delete removes a transaction the user owns.
func (s *TransactionService) Delete(ctx context.Context, userID, id string) error {
	if err := s.checkOwnership(ctx, userID, id); err != nil {
		return err
	}

	if err := s.store.DeleteTransaction(ctx, id); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}

	s.notifyChange(ctx, userID, amqp.OpDelete)
	return nil
}

func (s *TransactionService) checkOwnership(ctx context.Context, userID, id string) error {
	existing, err := s.store.GetTransaction(ctx, id)
	if err != nil {
		return err
	}
	if existing.UserID != userID {
		return storage.ErrNotFound
	}
	return nil
}

// notifyChange marks the cached insight stale and publishes the change
// event. Neither failure blocks the write that already happened.
func (s *TransactionService) notifyChange(ctx context.Context, userID, op string) {
	if err := s.store.MarkInsightDirty(ctx, userID); err != nil {
		s.logger.ErrorContext(ctx, "Failed to mark insight stale",
			logpkg.FieldUserID, userID, logpkg.FieldError, err)
	}

	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishTransactionChanged(ctx, userID, op); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish change message",
			logpkg.FieldUserID, userID,
			logpkg.FieldOperation, op,
			logpkg.FieldError, err)
	}
}
