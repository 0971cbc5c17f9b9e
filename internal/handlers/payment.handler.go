package handlers

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/fasthttp/router"
	"github.com/nimasrn/payment-gateway/internal/model"
	"github.com/nimasrn/payment-gateway/internal/services"
	xhttp "github.com/nimasrn/payment-gateway/pkg/http"
)

type PaymentService interface {
	Process(ctx context.Context, req model.PaymentRequest) (*model.Transaction, error)
	Capture(ctx context.Context, authorizationID string, amount *float64) (*model.Transaction, error)
	Void(ctx context.Context, transactionID string) (*model.Transaction, error)
	Refund(ctx context.Context, transactionID string, amount *float64) (*model.Transaction, error)
	List(ctx context.Context) ([]*model.Transaction, error)
	Get(ctx context.Context, id string) (*model.Transaction, error)
}

type PaymentHandler struct {
	svc PaymentService
}

func RegisterPaymentRoutes(e *router.Group, h *PaymentHandler) {
	e.POST("/payments", h.SubmitPayment)
	e.POST("/transactions/{id}/capture", h.CaptureAuthorization)
	e.POST("/transactions/{id}/void", h.VoidTransaction)
	e.POST("/transactions/{id}/refund", h.RefundTransaction)
	e.GET("/transactions", h.ListTransactions)
	e.GET("/transactions/{id}", h.GetTransaction)
}

func NewPaymentHandler(paymentService PaymentService) *PaymentHandler {
	return &PaymentHandler{
		svc: paymentService,
	}
}

// amountRequest is the optional body of capture/refund calls.
type amountRequest struct {
	Amount *float64 `json:"amount"`
}

type listTransactionsResponse struct {
	Items []*model.Transaction `json:"items"`
	Total int                  `json:"total"`
}

/* --------------------------------- Routes ----------------------------------- */

func (h *PaymentHandler) SubmitPayment(ctx *xhttp.RequestCtx) {
	var req model.PaymentRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	tx, err := h.svc.Process(ctx, req)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusCreated, tx)
}

func (h *PaymentHandler) CaptureAuthorization(ctx *xhttp.RequestCtx) {
	var req amountRequest
	if len(ctx.PostBody()) > 0 {
		if err := readJSON(ctx, &req); err != nil {
			writeError(ctx, xhttp.StatusBadRequest, "invalid JSON: "+err.Error())
			return
		}
	}
	tx, err := h.svc.Capture(ctx, param(ctx, "id"), req.Amount)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusCreated, tx)
}

func (h *PaymentHandler) VoidTransaction(ctx *xhttp.RequestCtx) {
	tx, err := h.svc.Void(ctx, param(ctx, "id"))
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusCreated, tx)
}

func (h *PaymentHandler) RefundTransaction(ctx *xhttp.RequestCtx) {
	var req amountRequest
	if len(ctx.PostBody()) > 0 {
		if err := readJSON(ctx, &req); err != nil {
			writeError(ctx, xhttp.StatusBadRequest, "invalid JSON: "+err.Error())
			return
		}
	}
	tx, err := h.svc.Refund(ctx, param(ctx, "id"), req.Amount)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusCreated, tx)
}

func (h *PaymentHandler) ListTransactions(ctx *xhttp.RequestCtx) {
	items, err := h.svc.List(ctx)
	if err != nil {
		writeError(ctx, xhttp.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(ctx, xhttp.StatusOK, listTransactionsResponse{Items: items, Total: len(items)})
}

func (h *PaymentHandler) GetTransaction(ctx *xhttp.RequestCtx) {
	tx, err := h.svc.Get(ctx, param(ctx, "id"))
	if err != nil {
		writeError(ctx, xhttp.StatusInternalServerError, err.Error())
		return
	}
	if tx == nil {
		writeError(ctx, xhttp.StatusNotFound, "transaction not found")
		return
	}
	writeJSON(ctx, xhttp.StatusOK, tx)
}

/* -------------------------------- Helpers ----------------------------------- */

func readJSON(ctx *xhttp.RequestCtx, dst any) error {
	return json.Unmarshal(ctx.PostBody(), dst)
}

func writeJSON(ctx *xhttp.RequestCtx, status int, v any) {
	b, _ := json.Marshal(v)
	ctx.Response.Header.Set("Content-Type", "application/json; charset=utf-8")
	ctx.Response.SetStatusCode(status)
	ctx.Response.SetBodyRaw(b)
}

func writeError(ctx *xhttp.RequestCtx, status int, msg string) {
	writeJSON(ctx, status, map[string]string{"error": msg})
}

// writeServiceError maps gateway sentinel errors onto HTTP statuses.
// Anything unmapped is a caller error.
func writeServiceError(ctx *xhttp.RequestCtx, err error) {
	switch {
	case errors.Is(err, services.ErrPaymentDeclined):
		writeError(ctx, xhttp.StatusPaymentRequired, err.Error())
	case errors.Is(err, services.ErrAuthorizationNotFound),
		errors.Is(err, services.ErrTransactionNotFound),
		errors.Is(err, services.ErrSubscriptionNotFound):
		writeError(ctx, xhttp.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrAlreadyVoided):
		writeError(ctx, xhttp.StatusConflict, err.Error())
	default:
		writeError(ctx, xhttp.StatusBadRequest, err.Error())
	}
}

func param(ctx *xhttp.RequestCtx, name string) string {
	v, _ := ctx.UserValue(name).(string)
	return v
}
