package repository

import (
	"context"

	"github.com/nimasrn/payment-gateway/internal/model"
)

type TransactionRepository struct {
	store *Store
}

func NewTransactionRepository(store *Store) *TransactionRepository {
	return &TransactionRepository{store: store}
}

// Create appends the transaction and returns a snapshot of the stored
// record.
func (r *TransactionRepository) Create(ctx context.Context, t *model.Transaction) (*model.Transaction, error) {
	if err := r.store.insertTransaction(t); err != nil {
		return nil, err
	}
	return t.Clone(), nil
}

func (r *TransactionRepository) Get(ctx context.Context, id string) (*model.Transaction, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	t, ok := r.store.txByID[id]
	if !ok {
		return nil, ErrTransactionNotFound
	}
	return t.Clone(), nil
}

// List returns snapshots of every transaction in insertion order.
func (r *TransactionRepository) List(ctx context.Context) ([]*model.Transaction, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	out := make([]*model.Transaction, 0, len(r.store.transactions))
	for _, t := range r.store.transactions {
		out = append(out, t.Clone())
	}
	return out, nil
}

// UpdateStatus mutates the stored record's status in place. Void is the
// only caller; everything else treats stored transactions as immutable.
func (r *TransactionRepository) UpdateStatus(ctx context.Context, id string, status model.TransactionStatus) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	t, ok := r.store.txByID[id]
	if !ok {
		return ErrTransactionNotFound
	}
	t.Status = status
	return nil
}
