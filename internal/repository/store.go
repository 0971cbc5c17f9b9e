package repository

import (
	"context"
	"errors"
	"sync"

	"github.com/nimasrn/payment-gateway/internal/model"
)

var (
	ErrTransactionNotFound  = errors.New("transaction not found")
	ErrSubscriptionNotFound = errors.New("subscription not found")
	ErrCustomerNotFound     = errors.New("customer not found")
	ErrDuplicateID          = errors.New("id already exists")
)

// Store is the in-memory database behind the gateway. All state lives for
// the process lifetime only. Every read hands out clones, never live
// references, so an in-flight read cannot observe a later write.
//
// Records are append-only with one exception: a void flips the original
// transaction's status in place through UpdateTransactionStatus.
type Store struct {
	mu sync.RWMutex

	// commitMu serializes multi-entity commits (the purchase bundle and
	// the void pair) so readers never see half of one.
	commitMu sync.Mutex

	transactions  []*model.Transaction
	txByID        map[string]*model.Transaction
	subscriptions []*model.Subscription
	subByID       map[string]*model.Subscription
	customers     []*model.Customer
	cusByID       map[string]*model.Customer
}

func NewStore() *Store {
	return &Store{
		txByID:  make(map[string]*model.Transaction),
		subByID: make(map[string]*model.Subscription),
		cusByID: make(map[string]*model.Customer),
	}
}

// WithinTransaction runs fn while holding the commit lock. The in-memory
// store has no rollback; callers are expected to fail before the first
// insert or not at all.
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	s.commitMu.Lock()
	defer s.commitMu.Unlock()
	return fn(ctx)
}

func (s *Store) insertTransaction(t *model.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.txByID[t.ID]; ok {
		return ErrDuplicateID
	}
	stored := t.Clone()
	s.transactions = append(s.transactions, stored)
	s.txByID[stored.ID] = stored
	return nil
}

func (s *Store) insertSubscription(sub *model.Subscription) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.subByID[sub.ID]; ok {
		return ErrDuplicateID
	}
	stored := sub.Clone()
	s.subscriptions = append(s.subscriptions, stored)
	s.subByID[stored.ID] = stored
	return nil
}

func (s *Store) insertCustomer(c *model.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.cusByID[c.ID]; ok {
		return ErrDuplicateID
	}
	stored := c.Clone()
	s.customers = append(s.customers, stored)
	s.cusByID[stored.ID] = stored
	return nil
}
