// Package api exposes the aggregation core over HTTP: the merged view
// snapshot plus the user commands. The browser UI is a pure consumer of this
// surface; it holds no state of its own.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	validatorv10 "github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/openmart/dashboard/internal/client"
	"github.com/openmart/dashboard/internal/domain/catalog"
	"github.com/openmart/dashboard/internal/domain/order"
	"github.com/openmart/dashboard/internal/view"
)

// StateSource is the read side of the view core.
type StateSource interface {
	Snapshot() view.Snapshot
	Select(orderID int64) bool
	ClearSelection()
}

// Commands is the write side of the view core.
type Commands interface {
	AddToCart(ctx context.Context, productID int64, quantity int) error
	UpdateCartQuantity(ctx context.Context, productID int64, quantity int) error
	RemoveFromCart(ctx context.Context, productID int64) error
	CreateOrder(ctx context.Context) (*order.Order, error)
	PayOrder(ctx context.Context, orderID int64) (*order.Order, error)
	CreateProduct(ctx context.Context, in view.CreateProductInput) (*catalog.Product, error)
}

var (
	_ StateSource = (*view.Store)(nil)
	_ Commands    = (*view.Mutator)(nil)
)

// Handler serves the dashboard API.
type Handler struct {
	state    StateSource
	commands Commands
	validate *validatorv10.Validate
}

// NewHandler constructs a Handler over the view core.
func NewHandler(state StateSource, commands Commands) *Handler {
	return &Handler{
		state:    state,
		commands: commands,
		validate: validatorv10.New(),
	}
}

// Routes registers all dashboard endpoints on mux.
func (h *Handler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/state", h.getState)
	mux.HandleFunc("POST /api/cart/items", h.addCartItem)
	mux.HandleFunc("PUT /api/cart/items/{productID}", h.updateCartItem)
	mux.HandleFunc("DELETE /api/cart/items/{productID}", h.removeCartItem)
	mux.HandleFunc("POST /api/orders", h.createOrder)
	mux.HandleFunc("POST /api/orders/{orderID}/payment", h.payOrder)
	mux.HandleFunc("POST /api/products", h.createProduct)
	mux.HandleFunc("PUT /api/selection", h.setSelection)
	mux.HandleFunc("DELETE /api/selection", h.clearSelection)
}

type errorResponse struct {
	Message string `json:"message"`
	// UpstreamStatus is the backend's HTTP status when the failure came from
	// a backend service.
	UpstreamStatus int `json:"upstream_status,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError maps command failures: backend errors become 502 carrying the
// upstream detail; everything else is a local validation failure and becomes
// 400. Either way the message is what the UI should show the user.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var remote *client.RemoteError
	if errors.As(err, &remote) {
		writeJSON(w, http.StatusBadGateway, errorResponse{
			Message:        view.Notice(err),
			UpstreamStatus: remote.Status,
		})
		return
	}
	zctx.From(r.Context()).Debug("Command rejected", zap.Error(err))
	writeJSON(w, http.StatusBadRequest, errorResponse{Message: view.Notice(err)})
}

// decodeValid decodes the request body into out and runs tag validation.
func (h *Handler) decodeValid(w http.ResponseWriter, r *http.Request, out any) bool {
	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "invalid request body"})
		return false
	}
	if err := h.validate.Struct(out); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: err.Error()})
		return false
	}
	return true
}
