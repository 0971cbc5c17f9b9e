package services

import (
	"context"
	"math/rand"
	"strings"
	"testing"

	"github.com/nimasrn/payment-gateway/internal/gateways"
	"github.com/nimasrn/payment-gateway/internal/ident"
	"github.com/nimasrn/payment-gateway/internal/model"
	"github.com/nimasrn/payment-gateway/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type paymentEnv struct {
	service       *PaymentService
	transactions  *repository.TransactionRepository
	subscriptions *repository.SubscriptionRepository
	customers     *repository.CustomerRepository
}

// newPaymentEnv wires the service against real in-memory repositories with
// zeroed delays and a pinned acquirer outcome (declineRate 0 or 1).
func newPaymentEnv(declineRate float64) paymentEnv {
	store := repository.NewStore()
	ids := ident.New(rand.NewSource(1))
	processor := gateways.NewProcessor(declineRate, rand.NewSource(1), ids)

	transactions := repository.NewTransactionRepository(store)
	subscriptions := repository.NewSubscriptionRepository(store)
	customers := repository.NewCustomerRepository(store)

	return paymentEnv{
		service: NewPaymentService(
			transactions, subscriptions, customers, processor, ids,
			PaymentOptions{},
		),
		transactions:  transactions,
		subscriptions: subscriptions,
		customers:     customers,
	}
}

func purchaseRequest() model.PaymentRequest {
	return model.PaymentRequest{
		CardNumber:  "4242424242424242",
		CardName:    "John Doe",
		ExpiryMonth: "12",
		ExpiryYear:  "2027",
		CVV:         "123",
		Amount:      "99.99",
		Type:        model.TransactionTypePurchase,
	}
}

func TestPaymentService_Process_Purchase(t *testing.T) {
	env := newPaymentEnv(0)
	ctx := context.Background()

	tx, err := env.service.Process(ctx, purchaseRequest())
	require.NoError(t, err)

	t.Run("transaction fields", func(t *testing.T) {
		assert.True(t, strings.HasPrefix(tx.ID, "tx_"))
		assert.Equal(t, model.TransactionTypePurchase, tx.Type)
		assert.Equal(t, 99.99, tx.Amount)
		assert.Equal(t, "USD", tx.Currency)
		assert.Equal(t, model.TransactionStatusSuccess, tx.Status)
		assert.Equal(t, "4242", tx.CardLast4)
		assert.Equal(t, "John Doe", tx.CustomerName)
		assert.Equal(t, "100", tx.ResponseCode)
		assert.NotEmpty(t, tx.RequestID)
	})

	t.Run("subscription created and linked", func(t *testing.T) {
		require.NotEmpty(t, tx.SubscriptionID)
		sub, err := env.subscriptions.Get(ctx, tx.SubscriptionID)
		require.NoError(t, err)
		assert.Equal(t, model.SubscriptionStatusActive, sub.Status)
		assert.Equal(t, "Monthly Plan", sub.PlanName)
		assert.Equal(t, 99.99, sub.Amount)
		assert.Equal(t, "4242", sub.PaymentMethod.CardLast4)
		assert.Equal(t, "Visa", sub.PaymentMethod.CardType)
		assert.True(t, sub.NextBillingDate.Equal(sub.StartDate.Add(billingPeriod)))
	})

	t.Run("customer created and linked", func(t *testing.T) {
		sub, err := env.subscriptions.Get(ctx, tx.SubscriptionID)
		require.NoError(t, err)
		cus, err := env.customers.Get(ctx, sub.CustomerID)
		require.NoError(t, err)
		assert.Equal(t, "John Doe", cus.Name)
		assert.Equal(t, "john.doe@example.com", cus.Email)
		assert.Equal(t, []string{sub.ID}, cus.Subscriptions)
		assert.Equal(t, []string{tx.ID}, cus.Transactions)
	})
}

func TestPaymentService_Process_Authorization(t *testing.T) {
	env := newPaymentEnv(0)
	ctx := context.Background()

	req := purchaseRequest()
	req.Amount = "199.99"
	req.Type = model.TransactionTypeAuthorization

	tx, err := env.service.Process(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, model.TransactionTypeAuthorization, tx.Type)
	assert.Equal(t, 199.99, tx.Amount)
	assert.Empty(t, tx.SubscriptionID)

	// an authorization creates no subscription or customer
	subs, err := env.subscriptions.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, subs)
	customers, err := env.customers.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, customers)
}

func TestPaymentService_Process_Declined(t *testing.T) {
	env := newPaymentEnv(1)
	ctx := context.Background()

	_, err := env.service.Process(ctx, purchaseRequest())
	assert.ErrorIs(t, err, ErrPaymentDeclined)
	assert.EqualError(t, err, "Payment declined by processor")

	// a decline leaves the store completely untouched
	txs, err := env.transactions.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, txs)
	subs, err := env.subscriptions.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, subs)
	customers, err := env.customers.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, customers)
}

func TestPaymentService_Process_Invalid(t *testing.T) {
	env := newPaymentEnv(0)
	ctx := context.Background()

	req := purchaseRequest()
	req.CardNumber = ""
	_, err := env.service.Process(ctx, req)
	assert.Error(t, err)

	txs, err := env.transactions.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, txs)
}

func TestPaymentService_Capture(t *testing.T) {
	env := newPaymentEnv(0)
	ctx := context.Background()

	authReq := purchaseRequest()
	authReq.Amount = "199.99"
	authReq.Type = model.TransactionTypeAuthorization
	auth, err := env.service.Process(ctx, authReq)
	require.NoError(t, err)

	t.Run("amount defaults to the authorization's", func(t *testing.T) {
		capture, err := env.service.Capture(ctx, auth.ID, nil)
		require.NoError(t, err)
		assert.Equal(t, model.TransactionTypeCapture, capture.Type)
		assert.Equal(t, 199.99, capture.Amount)
		assert.Equal(t, model.TransactionStatusSuccess, capture.Status)
		assert.NotEqual(t, auth.ID, capture.ID)
	})

	t.Run("partial amount honored", func(t *testing.T) {
		amount := 50.00
		capture, err := env.service.Capture(ctx, auth.ID, &amount)
		require.NoError(t, err)
		assert.Equal(t, 50.00, capture.Amount)
	})

	t.Run("original authorization untouched", func(t *testing.T) {
		got, err := env.transactions.Get(ctx, auth.ID)
		require.NoError(t, err)
		assert.Equal(t, model.TransactionTypeAuthorization, got.Type)
		assert.Equal(t, model.TransactionStatusSuccess, got.Status)
		assert.Equal(t, 199.99, got.Amount)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := env.service.Capture(ctx, "tx_missing", nil)
		assert.ErrorIs(t, err, ErrAuthorizationNotFound)
		assert.EqualError(t, err, "Authorization not found")
	})

	t.Run("purchase is not capturable", func(t *testing.T) {
		purchase, err := env.service.Process(ctx, purchaseRequest())
		require.NoError(t, err)
		_, err = env.service.Capture(ctx, purchase.ID, nil)
		assert.ErrorIs(t, err, ErrAuthorizationNotFound)
	})
}

func TestPaymentService_Void(t *testing.T) {
	env := newPaymentEnv(0)
	ctx := context.Background()

	purchase, err := env.service.Process(ctx, purchaseRequest())
	require.NoError(t, err)

	voidTx, err := env.service.Void(ctx, purchase.ID)
	require.NoError(t, err)

	t.Run("void record minted", func(t *testing.T) {
		assert.Equal(t, model.TransactionTypeVoid, voidTx.Type)
		assert.Equal(t, model.TransactionStatusVoided, voidTx.Status)
		assert.Equal(t, purchase.Amount, voidTx.Amount)
		assert.NotEqual(t, purchase.ID, voidTx.ID)
	})

	t.Run("original status flips to voided", func(t *testing.T) {
		got, err := env.transactions.Get(ctx, purchase.ID)
		require.NoError(t, err)
		assert.Equal(t, model.TransactionStatusVoided, got.Status)
		assert.Equal(t, model.TransactionTypePurchase, got.Type)
	})

	t.Run("second void rejected", func(t *testing.T) {
		_, err := env.service.Void(ctx, purchase.ID)
		assert.ErrorIs(t, err, ErrAlreadyVoided)
		assert.EqualError(t, err, "Transaction already voided")
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := env.service.Void(ctx, "tx_missing")
		assert.ErrorIs(t, err, ErrTransactionNotFound)
		assert.EqualError(t, err, "Transaction not found")
	})
}

func TestPaymentService_Refund(t *testing.T) {
	env := newPaymentEnv(0)
	ctx := context.Background()

	purchase, err := env.service.Process(ctx, purchaseRequest())
	require.NoError(t, err)

	t.Run("amount defaults to the original's", func(t *testing.T) {
		refund, err := env.service.Refund(ctx, purchase.ID, nil)
		require.NoError(t, err)
		assert.Equal(t, model.TransactionTypeRefund, refund.Type)
		assert.Equal(t, model.TransactionStatusRefunded, refund.Status)
		assert.Equal(t, 99.99, refund.Amount)
	})

	t.Run("partial amount honored", func(t *testing.T) {
		amount := 25.00
		refund, err := env.service.Refund(ctx, purchase.ID, &amount)
		require.NoError(t, err)
		assert.Equal(t, 25.00, refund.Amount)
	})

	t.Run("original keeps its status, unlike void", func(t *testing.T) {
		got, err := env.transactions.Get(ctx, purchase.ID)
		require.NoError(t, err)
		assert.Equal(t, model.TransactionStatusSuccess, got.Status)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := env.service.Refund(ctx, "tx_missing", nil)
		assert.ErrorIs(t, err, ErrTransactionNotFound)
	})
}

func TestPaymentService_ListGet(t *testing.T) {
	env := newPaymentEnv(0)
	ctx := context.Background()

	purchase, err := env.service.Process(ctx, purchaseRequest())
	require.NoError(t, err)
	authReq := purchaseRequest()
	authReq.Type = model.TransactionTypeAuthorization
	auth, err := env.service.Process(ctx, authReq)
	require.NoError(t, err)

	t.Run("list preserves submission order", func(t *testing.T) {
		items, err := env.service.List(ctx)
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, purchase.ID, items[0].ID)
		assert.Equal(t, auth.ID, items[1].ID)
	})

	t.Run("get is a read, not a mutation", func(t *testing.T) {
		first, err := env.service.Get(ctx, purchase.ID)
		require.NoError(t, err)
		require.NotNil(t, first)
		first.Amount = 0

		second, err := env.service.Get(ctx, purchase.ID)
		require.NoError(t, err)
		require.NotNil(t, second)
		assert.Equal(t, 99.99, second.Amount)
	})

	t.Run("unknown id is a nil result, not an error", func(t *testing.T) {
		got, err := env.service.Get(ctx, "tx_missing")
		assert.NoError(t, err)
		assert.Nil(t, got)
	})
}
