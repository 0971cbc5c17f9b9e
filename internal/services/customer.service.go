package services

import (
	"context"
	"errors"

	"github.com/nimasrn/payment-gateway/internal/model"
	"github.com/nimasrn/payment-gateway/internal/repository"
)

type CustomerReader interface {
	Get(ctx context.Context, id string) (*model.Customer, error)
	List(ctx context.Context) ([]*model.Customer, error)
}

type CustomerService struct {
	customerRepo CustomerReader
	delays       Delays
}

func NewCustomerService(customerRepo CustomerReader, delays Delays) *CustomerService {
	return &CustomerService{
		customerRepo: customerRepo,
		delays:       delays,
	}
}

func (s *CustomerService) List(ctx context.Context) ([]*model.Customer, error) {
	if err := sleep(ctx, s.delays.List); err != nil {
		return nil, err
	}
	return s.customerRepo.List(ctx)
}

// Get returns (nil, nil) on an unknown id; a miss is not a failure.
func (s *CustomerService) Get(ctx context.Context, id string) (*model.Customer, error) {
	if err := sleep(ctx, s.delays.Get); err != nil {
		return nil, err
	}
	c, err := s.customerRepo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCustomerNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return c, nil
}
