package handlers

import (
	"context"

	"github.com/fasthttp/router"
	"github.com/nimasrn/payment-gateway/internal/model"
	xhttp "github.com/nimasrn/payment-gateway/pkg/http"
)

type CustomerService interface {
	List(ctx context.Context) ([]*model.Customer, error)
	Get(ctx context.Context, id string) (*model.Customer, error)
}

type CustomerHandler struct {
	svc CustomerService
}

func RegisterCustomerRoutes(e *router.Group, h *CustomerHandler) {
	e.GET("/customers", h.ListCustomers)
	e.GET("/customers/{id}", h.GetCustomer)
}

func NewCustomerHandler(customerService CustomerService) *CustomerHandler {
	return &CustomerHandler{
		svc: customerService,
	}
}

type listCustomersResponse struct {
	Items []*model.Customer `json:"items"`
	Total int               `json:"total"`
}

func (h *CustomerHandler) ListCustomers(ctx *xhttp.RequestCtx) {
	items, err := h.svc.List(ctx)
	if err != nil {
		writeError(ctx, xhttp.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(ctx, xhttp.StatusOK, listCustomersResponse{Items: items, Total: len(items)})
}

func (h *CustomerHandler) GetCustomer(ctx *xhttp.RequestCtx) {
	c, err := h.svc.Get(ctx, param(ctx, "id"))
	if err != nil {
		writeError(ctx, xhttp.StatusInternalServerError, err.Error())
		return
	}
	if c == nil {
		writeError(ctx, xhttp.StatusNotFound, "customer not found")
		return
	}
	writeJSON(ctx, xhttp.StatusOK, c)
}
