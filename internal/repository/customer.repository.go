package repository

import (
	"context"

	"github.com/nimasrn/payment-gateway/internal/model"
)

type CustomerRepository struct {
	store *Store
}

func NewCustomerRepository(store *Store) *CustomerRepository {
	return &CustomerRepository{store: store}
}

func (r *CustomerRepository) Create(ctx context.Context, c *model.Customer) (*model.Customer, error) {
	if err := r.store.insertCustomer(c); err != nil {
		return nil, err
	}
	return c.Clone(), nil
}

func (r *CustomerRepository) Get(ctx context.Context, id string) (*model.Customer, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	c, ok := r.store.cusByID[id]
	if !ok {
		return nil, ErrCustomerNotFound
	}
	return c.Clone(), nil
}

func (r *CustomerRepository) List(ctx context.Context) ([]*model.Customer, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	out := make([]*model.Customer, 0, len(r.store.customers))
	for _, c := range r.store.customers {
		out = append(out, c.Clone())
	}
	return out, nil
}

// WithinTransaction exposes the store's commit lock to the service layer
// so a purchase commits its transaction, subscription and customer as one
// unit.
func (r *CustomerRepository) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.store.WithinTransaction(ctx, fn)
}
