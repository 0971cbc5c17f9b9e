package repository

import (
	"context"
	"time"

	"github.com/nimasrn/payment-gateway/internal/model"
)

type SubscriptionRepository struct {
	store *Store
}

func NewSubscriptionRepository(store *Store) *SubscriptionRepository {
	return &SubscriptionRepository{store: store}
}

func (r *SubscriptionRepository) Create(ctx context.Context, sub *model.Subscription) (*model.Subscription, error) {
	if err := r.store.insertSubscription(sub); err != nil {
		return nil, err
	}
	return sub.Clone(), nil
}

func (r *SubscriptionRepository) Get(ctx context.Context, id string) (*model.Subscription, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	sub, ok := r.store.subByID[id]
	if !ok {
		return nil, ErrSubscriptionNotFound
	}
	return sub.Clone(), nil
}

func (r *SubscriptionRepository) List(ctx context.Context) ([]*model.Subscription, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	out := make([]*model.Subscription, 0, len(r.store.subscriptions))
	for _, sub := range r.store.subscriptions {
		out = append(out, sub.Clone())
	}
	return out, nil
}

func (r *SubscriptionRepository) UpdateStatus(ctx context.Context, id string, status model.SubscriptionStatus) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	sub, ok := r.store.subByID[id]
	if !ok {
		return ErrSubscriptionNotFound
	}
	sub.Status = status
	return nil
}

func (r *SubscriptionRepository) SetNextBillingDate(ctx context.Context, id string, next time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	sub, ok := r.store.subByID[id]
	if !ok {
		return ErrSubscriptionNotFound
	}
	sub.NextBillingDate = next
	return nil
}

func (r *SubscriptionRepository) SetPaymentMethod(ctx context.Context, id string, pm model.PaymentMethod) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	sub, ok := r.store.subByID[id]
	if !ok {
		return ErrSubscriptionNotFound
	}
	sub.PaymentMethod = pm
	return nil
}
