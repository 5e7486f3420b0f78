// Package api exposes the order service over HTTP.
package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"orderservice/pkg/logger"
	"orderservice/pkg/order"
	"orderservice/pkg/otel"
)

// ServiceName is reported by the health endpoint.
const ServiceName = "order-service"

// MaxBodyBytes caps request bodies.
const MaxBodyBytes = 1 << 20

// Handler serves the order endpoints.
type Handler struct {
	orders      *order.Service
	log         *zap.Logger
	environment string
}

// NewHandler returns a Handler backed by orders.
func NewHandler(orders *order.Service, log *zap.Logger, environment string) *Handler {
	return &Handler{orders: orders, log: log, environment: environment}
}

// NewRouter returns a router with every endpoint of h registered. Unknown
// paths and methods answer with the JSON error shape.
func NewRouter(h *Handler) *mux.Router {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.HandleFunc("/", h.home).Methods(http.MethodGet)
	r.HandleFunc("/health", h.health).Methods(http.MethodGet)

	r.HandleFunc("/orders", h.listOrders).Methods(http.MethodGet)
	r.HandleFunc("/orders", h.createOrder).Methods(http.MethodPost)
	r.HandleFunc("/orders/{id}", h.getOrder).Methods(http.MethodGet)
	r.HandleFunc("/orders/{id}", h.deleteOrder).Methods(http.MethodDelete)
	r.HandleFunc("/orders/{id}/status", h.updateOrderStatus).Methods(http.MethodPut)
	return r
}

// MessageResponse is a plain confirmation body.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status      string `json:"status"`
	Service     string `json:"service"`
	Environment string `json:"environment"`
}

// ListResponse is the body of GET /orders.
type ListResponse struct {
	Orders []order.Order `json:"orders"`
	Count  int           `json:"count"`
}

// StatusUpdate documents the body of PUT /orders/{id}/status.
type StatusUpdate struct {
	Status string `json:"status" example:"shipped"`
}

// CreateOrder documents the body of POST /orders.
type CreateOrder struct {
	CustomerName string  `json:"customer_name" example:"John Doe"`
	ProductName  string  `json:"product_name" example:"Laptop"`
	Quantity     int     `json:"quantity" example:"1"`
	Price        float64 `json:"price" example:"1000.0"`
}

// home greets the caller.
// @Summary Welcome message
// @Produce json
// @Success 200 {object} MessageResponse
// @Router / [get]
func (h *Handler) home(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, MessageResponse{
		Message: fmt.Sprintf("Welcome to the Order Service environment %s!", h.environment),
	})
}

// health reports liveness.
// @Summary Health check
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:      "healthy",
		Service:     ServiceName,
		Environment: h.environment,
	})
}

// listOrders lists orders.
// @Summary List orders
// @Produce json
// @Success 200 {object} ListResponse
// @Router /orders [get]
func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "listOrdersHandler")
	defer span.End()

	orders, err := h.orders.List(ctx)
	if err != nil {
		h.fail(w, r.WithContext(ctx), "list orders", err)
		return
	}
	writeJSON(w, http.StatusOK, ListResponse{Orders: orders, Count: len(orders)})
}

// createOrder creates a new order.
// @Summary Create order
// @Accept json
// @Produce json
// @Param order body CreateOrder true "Order"
// @Success 201 {object} order.Order
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /orders [post]
func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "createOrderHandler")
	defer span.End()
	r = r.WithContext(ctx)

	body, err := readBody(w, r)
	if err != nil {
		h.fail(w, r, "read body", err)
		return
	}
	req, err := order.DecodeCreateRequest(body)
	if err != nil {
		h.fail(w, r, "create order", err)
		return
	}
	o, err := h.orders.Create(ctx, req)
	if err != nil {
		h.fail(w, r, "create order", err)
		return
	}
	h.log.Debug("Order created", zap.String("order_id", o.ID), zap.Float64("total", o.Total))
	writeJSON(w, http.StatusCreated, o)
}

// getOrder retrieves an order by ID.
// @Summary Get order
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} order.Order
// @Failure 404 {object} ErrorResponse
// @Router /orders/{id} [get]
func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "getOrderHandler")
	defer span.End()

	o, err := h.orders.Get(ctx, mux.Vars(r)["id"])
	if err != nil {
		h.fail(w, r.WithContext(ctx), "get order", err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

// updateOrderStatus changes the status of an order.
// @Summary Update order status
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param status body StatusUpdate true "New status"
// @Success 200 {object} order.Order
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /orders/{id}/status [put]
func (h *Handler) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "updateOrderStatusHandler")
	defer span.End()
	r = r.WithContext(ctx)

	id := mux.Vars(r)["id"]
	if _, err := h.orders.Get(ctx, id); err != nil {
		h.fail(w, r, "update order status", err)
		return
	}
	body, err := readBody(w, r)
	if err != nil {
		h.fail(w, r, "read body", &order.ValidationError{Field: "status", Reason: err.Error()})
		return
	}
	req, err := order.DecodeStatusRequest(body)
	if err != nil {
		h.fail(w, r, "update order status", err)
		return
	}
	o, err := h.orders.UpdateStatus(ctx, id, req)
	if err != nil {
		h.fail(w, r, "update order status", err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

// deleteOrder removes an order.
// @Summary Delete order
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} ErrorResponse
// @Router /orders/{id} [delete]
func (h *Handler) deleteOrder(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "deleteOrderHandler")
	defer span.End()

	if err := h.orders.Delete(ctx, mux.Vars(r)["id"]); err != nil {
		h.fail(w, r.WithContext(ctx), "delete order", err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Order deleted successfully"})
}

// fail maps err onto the response: not found is 404, validation is 400 and
// anything else is a 500 carrying the error text.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	if errors.Is(err, order.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Order not found")
		return
	}
	var vErr *order.ValidationError
	if errors.As(err, &vErr) {
		writeError(w, http.StatusBadRequest, vErr.Error())
		return
	}
	logger.WithTrace(r.Context(), h.log).Error(op, zap.Error(err))
	writeError(w, http.StatusInternalServerError, err.Error())
}

// readBody reads at most MaxBodyBytes of the request body.
func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, errors.Errorf("request body exceeds %d bytes", tooLarge.Limit)
		}
		return nil, errors.Wrap(err, "read body")
	}
	return body, nil
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
