package api

import (
	"net/http"
	"strconv"

	"github.com/openmart/dashboard/internal/view"
)

// stateResponse is the full render-ready payload the UI polls.
type stateResponse struct {
	view.Snapshot
	Stats view.Stats `json:"stats"`
}

func (h *Handler) getState(w http.ResponseWriter, r *http.Request) {
	snap := h.state.Snapshot()
	writeJSON(w, http.StatusOK, stateResponse{
		Snapshot: snap,
		Stats:    snap.Stats(),
	})
}

type addItemRequest struct {
	ProductID int64 `json:"product_id" validate:"required"`
	Quantity  int   `json:"quantity" validate:"gte=1"`
}

func (h *Handler) addCartItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if !h.decodeValid(w, r, &req) {
		return
	}
	if err := h.commands.AddToCart(r.Context(), req.ProductID, req.Quantity); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, h.state.Snapshot().Cart)
}

type updateItemRequest struct {
	// Quantity zero or below removes the item.
	Quantity int `json:"quantity"`
}

func (h *Handler) updateCartItem(w http.ResponseWriter, r *http.Request) {
	productID, ok := pathID(w, r, "productID")
	if !ok {
		return
	}
	var req updateItemRequest
	if !h.decodeValid(w, r, &req) {
		return
	}
	if err := h.commands.UpdateCartQuantity(r.Context(), productID, req.Quantity); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.state.Snapshot().Cart)
}

func (h *Handler) removeCartItem(w http.ResponseWriter, r *http.Request) {
	productID, ok := pathID(w, r, "productID")
	if !ok {
		return
	}
	if err := h.commands.RemoveFromCart(r.Context(), productID); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.state.Snapshot().Cart)
}

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	created, err := h.commands.CreateOrder(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) payOrder(w http.ResponseWriter, r *http.Request) {
	orderID, ok := pathID(w, r, "orderID")
	if !ok {
		return
	}
	paid, err := h.commands.PayOrder(r.Context(), orderID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, paid)
}

type createProductRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	Price       string `json:"price" validate:"required"`
	Stock       string `json:"stock"`
	Category    string `json:"category"`
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if !h.decodeValid(w, r, &req) {
		return
	}
	created, err := h.commands.CreateProduct(r.Context(), view.CreateProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		Category:    req.Category,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

type selectionRequest struct {
	OrderID int64 `json:"order_id" validate:"required"`
}

func (h *Handler) setSelection(w http.ResponseWriter, r *http.Request) {
	var req selectionRequest
	if !h.decodeValid(w, r, &req) {
		return
	}
	if !h.state.Select(req.OrderID) {
		writeJSON(w, http.StatusNotFound, errorResponse{Message: "order not found"})
		return
	}
	writeJSON(w, http.StatusOK, h.state.Snapshot().Selected)
}

func (h *Handler) clearSelection(w http.ResponseWriter, r *http.Request) {
	h.state.ClearSelection()
	w.WriteHeader(http.StatusNoContent)
}

// pathID parses a numeric path segment, answering 400 on garbage.
func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "invalid " + name})
		return 0, false
	}
	return id, true
}
