package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nimasrn/payment-gateway/internal/gateways"
	"github.com/nimasrn/payment-gateway/internal/ident"
	"github.com/nimasrn/payment-gateway/internal/model"
	"github.com/nimasrn/payment-gateway/internal/repository"
	"github.com/nimasrn/payment-gateway/pkg/logger"
	"github.com/nimasrn/payment-gateway/pkg/prom"
)

var (
	ErrPaymentDeclined       = errors.New("Payment declined by processor")
	ErrAuthorizationNotFound = errors.New("Authorization not found")
	ErrTransactionNotFound   = errors.New("Transaction not found")
	ErrAlreadyVoided         = errors.New("Transaction already voided")
)

const billingPeriod = 30 * 24 * time.Hour

type TransactionRepository interface {
	Create(ctx context.Context, t *model.Transaction) (*model.Transaction, error)
	Get(ctx context.Context, id string) (*model.Transaction, error)
	List(ctx context.Context) ([]*model.Transaction, error)
	UpdateStatus(ctx context.Context, id string, status model.TransactionStatus) error
}

type SubscriptionCreator interface {
	Create(ctx context.Context, sub *model.Subscription) (*model.Subscription, error)
}

type CustomerRepository interface {
	Create(ctx context.Context, c *model.Customer) (*model.Customer, error)
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type PaymentProcessor interface {
	Authorize(ctx context.Context, req gateways.AuthorizeRequest) (*gateways.AuthorizeResponse, error)
}

// PaymentService is the transaction state machine. Submissions, captures,
// voids and refunds all mint new transaction records; void additionally
// flips the original record's stored status, the one in-place mutation in
// the model. Capture and refund deliberately leave their original alone.
type PaymentService struct {
	transactionRepo  TransactionRepository
	subscriptionRepo SubscriptionCreator
	customerRepo     CustomerRepository
	processor        PaymentProcessor
	ids              *ident.Generator
	currency         string
	planName         string
	delays           Delays
}

type PaymentOptions struct {
	Currency string
	PlanName string
	Delays   Delays
}

func NewPaymentService(
	transactionRepo TransactionRepository,
	subscriptionRepo SubscriptionCreator,
	customerRepo CustomerRepository,
	processor PaymentProcessor,
	ids *ident.Generator,
	opts PaymentOptions,
) *PaymentService {
	if opts.Currency == "" {
		opts.Currency = "USD"
	}
	if opts.PlanName == "" {
		opts.PlanName = "Monthly Plan"
	}
	return &PaymentService{
		transactionRepo:  transactionRepo,
		subscriptionRepo: subscriptionRepo,
		customerRepo:     customerRepo,
		processor:        processor,
		ids:              ids,
		currency:         opts.Currency,
		planName:         opts.PlanName,
		delays:           opts.Delays,
	}
}

// Process submits a purchase or authorization. On decline nothing is
// stored. On a successful purchase the transaction, a subscription and a
// fresh customer commit as one unit.
func (s *PaymentService) Process(ctx context.Context, req model.PaymentRequest) (*model.Transaction, error) {
	start := time.Now()

	if err := req.Validate(); err != nil {
		return nil, err
	}
	amount, err := req.AmountValue()
	if err != nil {
		return nil, err
	}

	if err := sleep(ctx, s.delays.Process); err != nil {
		return nil, err
	}

	auth, err := s.processor.Authorize(ctx, gateways.AuthorizeRequest{
		CardNumber: req.CardNumber,
		CardName:   req.CardName,
		Amount:     amount,
		Currency:   s.currency,
	})
	if err != nil {
		return nil, fmt.Errorf("authorize: %w", err)
	}
	if !auth.Approved {
		prom.AddDeclined()
		logger.Warn("payment declined",
			"type", string(req.Type),
			"card_last4", req.CardLast4(),
			"response_code", auth.ResponseCode,
			"response_message", auth.ResponseMessage,
		)
		return nil, ErrPaymentDeclined
	}

	tx := &model.Transaction{
		ID:              s.ids.New("tx"),
		Type:            req.Type,
		Amount:          amount,
		Currency:        s.currency,
		Status:          model.TransactionStatusSuccess,
		CardLast4:       req.CardLast4(),
		CustomerName:    req.CardName,
		Timestamp:       time.Now(),
		RequestID:       auth.RequestID,
		ResponseCode:    auth.ResponseCode,
		ResponseMessage: auth.ResponseMessage,
	}

	var created *model.Transaction
	err = s.customerRepo.WithinTransaction(ctx, func(ctx context.Context) error {
		if req.Type == model.TransactionTypePurchase {
			sub := &model.Subscription{
				ID:              s.ids.New("sub"),
				CustomerID:      s.ids.New("cus"),
				PlanName:        s.planName,
				Amount:          amount,
				Currency:        s.currency,
				Status:          model.SubscriptionStatusActive,
				StartDate:       tx.Timestamp,
				NextBillingDate: tx.Timestamp.Add(billingPeriod),
				PaymentMethod: model.PaymentMethod{
					CardLast4:   tx.CardLast4,
					CardType:    model.CardTypeFromNumber(req.CardNumber),
					ExpiryMonth: req.ExpiryMonth,
					ExpiryYear:  req.ExpiryYear,
				},
			}
			tx.SubscriptionID = sub.ID

			cus := &model.Customer{
				ID:            sub.CustomerID,
				Name:          req.CardName,
				Email:         mockEmail(req.CardName),
				CreatedAt:     tx.Timestamp,
				Subscriptions: []string{sub.ID},
				Transactions:  []string{tx.ID},
			}

			if _, err := s.subscriptionRepo.Create(ctx, sub); err != nil {
				return fmt.Errorf("create subscription: %w", err)
			}
			if _, err := s.customerRepo.Create(ctx, cus); err != nil {
				return fmt.Errorf("create customer: %w", err)
			}
		}

		c, err := s.transactionRepo.Create(ctx, tx)
		if err != nil {
			return fmt.Errorf("create transaction: %w", err)
		}
		created = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	prom.AddTransaction(string(created.Type), string(created.Status))
	prom.AddProcessDuration(time.Since(start).Seconds(), "process")
	logger.Info("payment processed",
		"transaction_id", created.ID,
		"type", string(created.Type),
		"amount", created.Amount,
		"subscription_id", created.SubscriptionID,
	)
	return created, nil
}

// Capture settles a previous authorization. The amount defaults to the
// authorization's. The original record keeps its status.
func (s *PaymentService) Capture(ctx context.Context, authorizationID string, amount *float64) (*model.Transaction, error) {
	start := time.Now()

	if err := sleep(ctx, s.delays.Operation); err != nil {
		return nil, err
	}

	orig, err := s.transactionRepo.Get(ctx, authorizationID)
	if err != nil {
		if errors.Is(err, repository.ErrTransactionNotFound) {
			return nil, ErrAuthorizationNotFound
		}
		return nil, fmt.Errorf("get authorization: %w", err)
	}
	if orig.Type != model.TransactionTypeAuthorization {
		return nil, ErrAuthorizationNotFound
	}

	captureAmount := orig.Amount
	if amount != nil {
		captureAmount = *amount
	}

	tx := &model.Transaction{
		ID:              s.ids.New("tx"),
		Type:            model.TransactionTypeCapture,
		Amount:          captureAmount,
		Currency:        orig.Currency,
		Status:          model.TransactionStatusSuccess,
		CardLast4:       orig.CardLast4,
		CustomerName:    orig.CustomerName,
		Timestamp:       time.Now(),
		RequestID:       s.ids.New("req"),
		ResponseCode:    "100",
		ResponseMessage: "Success",
	}

	created, err := s.transactionRepo.Create(ctx, tx)
	if err != nil {
		return nil, fmt.Errorf("create capture: %w", err)
	}

	prom.AddTransaction(string(created.Type), string(created.Status))
	prom.AddProcessDuration(time.Since(start).Seconds(), "capture")
	logger.Info("authorization captured",
		"transaction_id", created.ID,
		"authorization_id", authorizationID,
		"amount", created.Amount,
	)
	return created, nil
}

// Void cancels a transaction: a new void record is minted and the
// original's stored status flips to voided. Both commit together.
func (s *PaymentService) Void(ctx context.Context, transactionID string) (*model.Transaction, error) {
	start := time.Now()

	if err := sleep(ctx, s.delays.Operation); err != nil {
		return nil, err
	}

	orig, err := s.transactionRepo.Get(ctx, transactionID)
	if err != nil {
		if errors.Is(err, repository.ErrTransactionNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	if orig.Status == model.TransactionStatusVoided {
		return nil, ErrAlreadyVoided
	}

	tx := &model.Transaction{
		ID:              s.ids.New("tx"),
		Type:            model.TransactionTypeVoid,
		Amount:          orig.Amount,
		Currency:        orig.Currency,
		Status:          model.TransactionStatusVoided,
		CardLast4:       orig.CardLast4,
		CustomerName:    orig.CustomerName,
		Timestamp:       time.Now(),
		RequestID:       s.ids.New("req"),
		ResponseCode:    "100",
		ResponseMessage: "Success",
	}

	var created *model.Transaction
	err = s.customerRepo.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.transactionRepo.UpdateStatus(ctx, transactionID, model.TransactionStatusVoided); err != nil {
			return fmt.Errorf("void original: %w", err)
		}
		c, err := s.transactionRepo.Create(ctx, tx)
		if err != nil {
			return fmt.Errorf("create void: %w", err)
		}
		created = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	prom.AddTransaction(string(created.Type), string(created.Status))
	prom.AddProcessDuration(time.Since(start).Seconds(), "void")
	logger.Info("transaction voided",
		"transaction_id", created.ID,
		"original_id", transactionID,
	)
	return created, nil
}

// Refund returns funds for a settled transaction. The amount defaults to
// the original's. Unlike void, the original record is left untouched.
func (s *PaymentService) Refund(ctx context.Context, transactionID string, amount *float64) (*model.Transaction, error) {
	start := time.Now()

	if err := sleep(ctx, s.delays.Operation); err != nil {
		return nil, err
	}

	orig, err := s.transactionRepo.Get(ctx, transactionID)
	if err != nil {
		if errors.Is(err, repository.ErrTransactionNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("get transaction: %w", err)
	}

	refundAmount := orig.Amount
	if amount != nil {
		refundAmount = *amount
	}

	tx := &model.Transaction{
		ID:              s.ids.New("tx"),
		Type:            model.TransactionTypeRefund,
		Amount:          refundAmount,
		Currency:        orig.Currency,
		Status:          model.TransactionStatusRefunded,
		CardLast4:       orig.CardLast4,
		CustomerName:    orig.CustomerName,
		Timestamp:       time.Now(),
		RequestID:       s.ids.New("req"),
		ResponseCode:    "100",
		ResponseMessage: "Success",
	}

	created, err := s.transactionRepo.Create(ctx, tx)
	if err != nil {
		return nil, fmt.Errorf("create refund: %w", err)
	}

	prom.AddTransaction(string(created.Type), string(created.Status))
	prom.AddProcessDuration(time.Since(start).Seconds(), "refund")
	logger.Info("transaction refunded",
		"transaction_id", created.ID,
		"original_id", transactionID,
		"amount", created.Amount,
	)
	return created, nil
}

// List returns a snapshot of the full transaction history in insertion
// order.
func (s *PaymentService) List(ctx context.Context) ([]*model.Transaction, error) {
	if err := sleep(ctx, s.delays.List); err != nil {
		return nil, err
	}
	return s.transactionRepo.List(ctx)
}

// Get returns a snapshot of one transaction, or (nil, nil) when the id is
// unknown. A miss is not a failure.
func (s *PaymentService) Get(ctx context.Context, id string) (*model.Transaction, error) {
	if err := sleep(ctx, s.delays.Get); err != nil {
		return nil, err
	}
	t, err := s.transactionRepo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrTransactionNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return t, nil
}

func mockEmail(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), ".") + "@example.com"
}
