package handlers

import (
	"context"

	"github.com/fasthttp/router"
	"github.com/nimasrn/payment-gateway/internal/model"
	xhttp "github.com/nimasrn/payment-gateway/pkg/http"
)

type SubscriptionService interface {
	List(ctx context.Context) ([]*model.Subscription, error)
	Get(ctx context.Context, id string) (*model.Subscription, error)
	Cancel(ctx context.Context, id string) (*model.Subscription, error)
	Renew(ctx context.Context, id string) (*model.Subscription, error)
	UpdatePaymentMethod(ctx context.Context, id string, pm model.PaymentMethod) (*model.Subscription, error)
}

type SubscriptionHandler struct {
	svc SubscriptionService
}

func RegisterSubscriptionRoutes(e *router.Group, h *SubscriptionHandler) {
	e.GET("/subscriptions", h.ListSubscriptions)
	e.GET("/subscriptions/{id}", h.GetSubscription)
	e.POST("/subscriptions/{id}/cancel", h.CancelSubscription)
	e.POST("/subscriptions/{id}/renew", h.RenewSubscription)
	e.POST("/subscriptions/{id}/payment-method", h.UpdatePaymentMethod)
}

func NewSubscriptionHandler(subscriptionService SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{
		svc: subscriptionService,
	}
}

type listSubscriptionsResponse struct {
	Items []*model.Subscription `json:"items"`
	Total int                   `json:"total"`
}

func (h *SubscriptionHandler) ListSubscriptions(ctx *xhttp.RequestCtx) {
	items, err := h.svc.List(ctx)
	if err != nil {
		writeError(ctx, xhttp.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(ctx, xhttp.StatusOK, listSubscriptionsResponse{Items: items, Total: len(items)})
}

func (h *SubscriptionHandler) GetSubscription(ctx *xhttp.RequestCtx) {
	sub, err := h.svc.Get(ctx, param(ctx, "id"))
	if err != nil {
		writeError(ctx, xhttp.StatusInternalServerError, err.Error())
		return
	}
	if sub == nil {
		writeError(ctx, xhttp.StatusNotFound, "subscription not found")
		return
	}
	writeJSON(ctx, xhttp.StatusOK, sub)
}

func (h *SubscriptionHandler) CancelSubscription(ctx *xhttp.RequestCtx) {
	sub, err := h.svc.Cancel(ctx, param(ctx, "id"))
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, sub)
}

func (h *SubscriptionHandler) RenewSubscription(ctx *xhttp.RequestCtx) {
	sub, err := h.svc.Renew(ctx, param(ctx, "id"))
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, sub)
}

func (h *SubscriptionHandler) UpdatePaymentMethod(ctx *xhttp.RequestCtx) {
	var pm model.PaymentMethod
	if err := readJSON(ctx, &pm); err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	sub, err := h.svc.UpdatePaymentMethod(ctx, param(ctx, "id"), pm)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, sub)
}
