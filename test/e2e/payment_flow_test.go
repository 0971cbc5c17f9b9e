package e2e

import (
	"context"
	"encoding/json"
	"math/rand"
	"testing"

	"github.com/nimasrn/payment-gateway/internal/gateways"
	"github.com/nimasrn/payment-gateway/internal/handlers"
	"github.com/nimasrn/payment-gateway/internal/ident"
	"github.com/nimasrn/payment-gateway/internal/model"
	"github.com/nimasrn/payment-gateway/internal/repository"
	"github.com/nimasrn/payment-gateway/internal/services"
	xhttp "github.com/nimasrn/payment-gateway/pkg/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
)

type TestEnvironment struct {
	Store               *repository.Store
	TransactionRepo     *repository.TransactionRepository
	SubscriptionRepo    *repository.SubscriptionRepository
	CustomerRepo        *repository.CustomerRepository
	PaymentService      *services.PaymentService
	SubscriptionService *services.SubscriptionService
	CustomerService     *services.CustomerService
	PaymentHandler      *handlers.PaymentHandler
}

// setupE2EEnvironment wires the whole gateway against the in-memory store
// with zeroed delays and an always-approving acquirer.
func setupE2EEnvironment(t *testing.T, declineRate float64) *TestEnvironment {
	t.Helper()

	store := repository.NewStore()
	ids := ident.New(rand.NewSource(1))
	processor := gateways.NewProcessor(declineRate, rand.NewSource(1), ids)

	transactionRepo := repository.NewTransactionRepository(store)
	subscriptionRepo := repository.NewSubscriptionRepository(store)
	customerRepo := repository.NewCustomerRepository(store)

	paymentService := services.NewPaymentService(
		transactionRepo, subscriptionRepo, customerRepo, processor, ids,
		services.PaymentOptions{},
	)

	return &TestEnvironment{
		Store:               store,
		TransactionRepo:     transactionRepo,
		SubscriptionRepo:    subscriptionRepo,
		CustomerRepo:        customerRepo,
		PaymentService:      paymentService,
		SubscriptionService: services.NewSubscriptionService(subscriptionRepo, services.Delays{}),
		CustomerService:     services.NewCustomerService(customerRepo, services.Delays{}),
		PaymentHandler:      handlers.NewPaymentHandler(paymentService),
	}
}

func newRequestCtx(method, path string, body []byte) *xhttp.RequestCtx {
	var req fasthttp.Request
	req.Header.SetMethod(method)
	req.SetRequestURI(path)
	if body != nil {
		req.SetBody(body)
	}
	ctx := &fasthttp.RequestCtx{}
	ctx.Init(&req, nil, nil)
	return ctx
}

func submitPayment(t *testing.T, env *TestEnvironment, req model.PaymentRequest) *model.Transaction {
	t.Helper()
	body, err := json.Marshal(req)
	require.NoError(t, err)

	ctx := newRequestCtx("POST", "/payments", body)
	env.PaymentHandler.SubmitPayment(ctx)
	require.Equal(t, 201, ctx.Response.StatusCode(), string(ctx.Response.Body()))

	var tx model.Transaction
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &tx))
	return &tx
}

func TestPaymentFlow(t *testing.T) {
	env := setupE2EEnvironment(t, 0)
	bg := context.Background()

	// 1. purchase mints a transaction, subscription and customer
	purchase := submitPayment(t, env, model.PaymentRequest{
		CardNumber:  "4242424242424242",
		CardName:    "Jane Smith",
		ExpiryMonth: "06",
		ExpiryYear:  "2028",
		CVV:         "321",
		Amount:      "99.99",
		Type:        model.TransactionTypePurchase,
	})
	require.NotEmpty(t, purchase.SubscriptionID)

	sub, err := env.SubscriptionService.Get(bg, purchase.SubscriptionID)
	require.NoError(t, err)
	require.NotNil(t, sub)
	assert.Equal(t, model.SubscriptionStatusActive, sub.Status)

	cus, err := env.CustomerService.Get(bg, sub.CustomerID)
	require.NoError(t, err)
	require.NotNil(t, cus)
	assert.Equal(t, "jane.smith@example.com", cus.Email)

	// 2. authorization then capture at the default amount
	auth := submitPayment(t, env, model.PaymentRequest{
		CardNumber:  "5500000000000004",
		CardName:    "Jane Smith",
		ExpiryMonth: "06",
		ExpiryYear:  "2028",
		CVV:         "321",
		Amount:      "199.99",
		Type:        model.TransactionTypeAuthorization,
	})
	assert.Empty(t, auth.SubscriptionID)

	ctx := newRequestCtx("POST", "/transactions/"+auth.ID+"/capture", nil)
	ctx.SetUserValue("id", auth.ID)
	env.PaymentHandler.CaptureAuthorization(ctx)
	require.Equal(t, 201, ctx.Response.StatusCode())

	var capture model.Transaction
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &capture))
	assert.Equal(t, model.TransactionTypeCapture, capture.Type)
	assert.Equal(t, 199.99, capture.Amount)

	// 3. void the purchase: new record plus an in-place status flip
	ctx = newRequestCtx("POST", "/transactions/"+purchase.ID+"/void", nil)
	ctx.SetUserValue("id", purchase.ID)
	env.PaymentHandler.VoidTransaction(ctx)
	require.Equal(t, 201, ctx.Response.StatusCode())

	voided, err := env.PaymentService.Get(bg, purchase.ID)
	require.NoError(t, err)
	require.NotNil(t, voided)
	assert.Equal(t, model.TransactionStatusVoided, voided.Status)

	// a second void is a conflict
	ctx = newRequestCtx("POST", "/transactions/"+purchase.ID+"/void", nil)
	ctx.SetUserValue("id", purchase.ID)
	env.PaymentHandler.VoidTransaction(ctx)
	assert.Equal(t, 409, ctx.Response.StatusCode())

	// 4. refund the capture; its record keeps its status
	ctx = newRequestCtx("POST", "/transactions/"+capture.ID+"/refund", []byte(`{"amount": 100.00}`))
	ctx.SetUserValue("id", capture.ID)
	env.PaymentHandler.RefundTransaction(ctx)
	require.Equal(t, 201, ctx.Response.StatusCode())

	var refund model.Transaction
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &refund))
	assert.Equal(t, model.TransactionStatusRefunded, refund.Status)
	assert.Equal(t, 100.00, refund.Amount)

	captured, err := env.PaymentService.Get(bg, capture.ID)
	require.NoError(t, err)
	require.NotNil(t, captured)
	assert.Equal(t, model.TransactionStatusSuccess, captured.Status)

	// 5. the ledger holds every record in submission order
	ctx = newRequestCtx("GET", "/transactions", nil)
	env.PaymentHandler.ListTransactions(ctx)
	require.Equal(t, 200, ctx.Response.StatusCode())

	var list struct {
		Items []*model.Transaction `json:"items"`
		Total int                  `json:"total"`
	}
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &list))
	assert.Equal(t, 5, list.Total) // purchase, authorization, capture, void, refund
	assert.Equal(t, purchase.ID, list.Items[0].ID)
}

func TestPaymentFlow_Declined(t *testing.T) {
	env := setupE2EEnvironment(t, 1)

	body, err := json.Marshal(model.PaymentRequest{
		CardNumber:  "4242424242424242",
		CardName:    "Jane Smith",
		ExpiryMonth: "06",
		ExpiryYear:  "2028",
		CVV:         "321",
		Amount:      "99.99",
		Type:        model.TransactionTypePurchase,
	})
	require.NoError(t, err)

	ctx := newRequestCtx("POST", "/payments", body)
	env.PaymentHandler.SubmitPayment(ctx)
	assert.Equal(t, 402, ctx.Response.StatusCode())

	// nothing committed
	txs, err := env.TransactionRepo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, txs)
	customers, err := env.CustomerRepo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, customers)
}
