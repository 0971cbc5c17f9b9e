package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nimasrn/payment-gateway/internal/model"
	"github.com/nimasrn/payment-gateway/internal/repository"
	"github.com/nimasrn/payment-gateway/pkg/logger"
)

var ErrSubscriptionNotFound = errors.New("Subscription not found")

type SubscriptionRepository interface {
	Get(ctx context.Context, id string) (*model.Subscription, error)
	List(ctx context.Context) ([]*model.Subscription, error)
	UpdateStatus(ctx context.Context, id string, status model.SubscriptionStatus) error
	SetNextBillingDate(ctx context.Context, id string, next time.Time) error
	SetPaymentMethod(ctx context.Context, id string, pm model.PaymentMethod) error
}

// SubscriptionService covers the lifecycle operations the dashboard
// exposes on a subscription. These sit outside the transaction state
// machine; they only touch the subscription record itself.
type SubscriptionService struct {
	subscriptionRepo SubscriptionRepository
	delays           Delays
}

func NewSubscriptionService(subscriptionRepo SubscriptionRepository, delays Delays) *SubscriptionService {
	return &SubscriptionService{
		subscriptionRepo: subscriptionRepo,
		delays:           delays,
	}
}

func (s *SubscriptionService) List(ctx context.Context) ([]*model.Subscription, error) {
	if err := sleep(ctx, s.delays.List); err != nil {
		return nil, err
	}
	return s.subscriptionRepo.List(ctx)
}

// Get returns (nil, nil) on an unknown id; a miss is not a failure.
func (s *SubscriptionService) Get(ctx context.Context, id string) (*model.Subscription, error) {
	if err := sleep(ctx, s.delays.Get); err != nil {
		return nil, err
	}
	sub, err := s.subscriptionRepo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrSubscriptionNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return sub, nil
}

func (s *SubscriptionService) Cancel(ctx context.Context, id string) (*model.Subscription, error) {
	if err := sleep(ctx, s.delays.Operation); err != nil {
		return nil, err
	}
	if err := s.subscriptionRepo.UpdateStatus(ctx, id, model.SubscriptionStatusCanceled); err != nil {
		return nil, mapSubscriptionErr(err)
	}
	logger.Info("subscription canceled", "subscription_id", id)
	return s.subscriptionRepo.Get(ctx, id)
}

// Renew pushes the next billing date one period out and reactivates a
// past-due subscription.
func (s *SubscriptionService) Renew(ctx context.Context, id string) (*model.Subscription, error) {
	if err := sleep(ctx, s.delays.Operation); err != nil {
		return nil, err
	}
	sub, err := s.subscriptionRepo.Get(ctx, id)
	if err != nil {
		return nil, mapSubscriptionErr(err)
	}
	if err := s.subscriptionRepo.SetNextBillingDate(ctx, id, time.Now().Add(billingPeriod)); err != nil {
		return nil, fmt.Errorf("set next billing date: %w", err)
	}
	if sub.Status == model.SubscriptionStatusPastDue {
		if err := s.subscriptionRepo.UpdateStatus(ctx, id, model.SubscriptionStatusActive); err != nil {
			return nil, fmt.Errorf("reactivate: %w", err)
		}
	}
	logger.Info("subscription renewed", "subscription_id", id)
	return s.subscriptionRepo.Get(ctx, id)
}

func (s *SubscriptionService) UpdatePaymentMethod(ctx context.Context, id string, pm model.PaymentMethod) (*model.Subscription, error) {
	if err := sleep(ctx, s.delays.Operation); err != nil {
		return nil, err
	}
	if err := s.subscriptionRepo.SetPaymentMethod(ctx, id, pm); err != nil {
		return nil, mapSubscriptionErr(err)
	}
	logger.Info("subscription payment method updated", "subscription_id", id)
	return s.subscriptionRepo.Get(ctx, id)
}

func mapSubscriptionErr(err error) error {
	if errors.Is(err, repository.ErrSubscriptionNotFound) {
		return ErrSubscriptionNotFound
	}
	return err
}
