package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopcart/api/internal/repository"
	"github.com/shopcart/api/internal/service"
)

// CartHandler handles cart-related HTTP requests
type CartHandler struct {
	service *service.CartService
	logger  *slog.Logger
}

// NewCartHandler creates a new cart handler
func NewCartHandler(service *service.CartService, logger *slog.Logger) *CartHandler {
	return &CartHandler{
		service: service,
		logger:  logger,
	}
}

// cartRequest is the body of create and update requests. Pointer fields
// distinguish absent values from zero values.
type cartRequest struct {
	ProductID *int64 `json:"productId"`
	Quantity  *int   `json:"quantity"`
}

// received echoes back what the client sent so validation failures name the
// offending fields.
func (req *cartRequest) received() map[string]any {
	fields := map[string]any{"productId": "missing", "quantity": "missing"}
	if req.ProductID != nil {
		fields["productId"] = *req.ProductID
	}
	if req.Quantity != nil {
		fields["quantity"] = *req.Quantity
	}
	return fields
}

// decodeCartRequest parses and validates the body: both fields present,
// numeric, and quantity positive.
func (h *CartHandler) decodeCartRequest(w http.ResponseWriter, r *http.Request) (*cartRequest, bool) {
	var req cartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("failed to decode cart request", "error", err)
		WriteJSON(w, http.StatusBadRequest, map[string]any{
			"error": "Product ID and quantity must be valid numbers",
		}, h.logger)
		return nil, false
	}

	if req.ProductID == nil || req.Quantity == nil {
		WriteJSON(w, http.StatusBadRequest, map[string]any{
			"error":    "Product ID and quantity are required",
			"received": req.received(),
		}, h.logger)
		return nil, false
	}

	if *req.Quantity <= 0 {
		WriteJSON(w, http.StatusBadRequest, map[string]any{
			"error":    "Quantity must be a positive number",
			"received": req.received(),
		}, h.logger)
		return nil, false
	}

	return &req, true
}

// CreateCart handles POST /carts
func (h *CartHandler) CreateCart(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeCartRequest(w, r)
	if !ok {
		return
	}

	cart, err := h.service.CreateCart(r.Context(), *req.ProductID, *req.Quantity)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.logger.Info("cart created", "cart_id", cart.ID, "product_id", cart.ProductID, "quantity", cart.Quantity)
	WriteJSON(w, http.StatusCreated, cart, h.logger)
}

// ListCarts handles GET /carts. Without a filter the rows are joined with
// product attributes for display; with a product_id query they are returned
// as plain cart rows.
func (h *CartHandler) ListCarts(w http.ResponseWriter, r *http.Request) {
	if raw := r.URL.Query().Get("product_id"); raw != "" {
		productID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			h.logger.Warn("invalid product_id filter", "product_id", raw, "error", err)
			WriteError(w, http.StatusBadRequest, "Invalid product_id supplied", h.logger)
			return
		}

		carts, err := h.service.ListCartsByProduct(r.Context(), productID)
		if err != nil {
			h.logger.Error("failed to list carts by product", "product_id", productID, "error", err)
			WriteError(w, http.StatusInternalServerError, "Internal server error", h.logger)
			return
		}
		WriteJSON(w, http.StatusOK, carts, h.logger)
		return
	}

	carts, err := h.service.ListCarts(r.Context())
	if err != nil {
		h.logger.Error("failed to list carts", "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.logger)
		return
	}
	WriteJSON(w, http.StatusOK, carts, h.logger)
}

// GetCart handles GET /carts/{cartID}
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	id, ok := h.cartID(w, r)
	if !ok {
		return
	}

	cart, err := h.service.GetCart(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrCartNotFound) {
			h.logger.Info("cart not found", "cart_id", id)
			WriteError(w, http.StatusNotFound, "Cart not found", h.logger)
			return
		}
		h.logger.Error("failed to get cart", "cart_id", id, "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.logger)
		return
	}

	WriteJSON(w, http.StatusOK, cart, h.logger)
}

// cartUpdateResponse confirms an update together with the reconciled stock
type cartUpdateResponse struct {
	Message string `json:"message"`
	service.CartUpdateResult
}

// UpdateCart handles PUT /carts/{cartID}
func (h *CartHandler) UpdateCart(w http.ResponseWriter, r *http.Request) {
	id, ok := h.cartID(w, r)
	if !ok {
		return
	}

	req, ok := h.decodeCartRequest(w, r)
	if !ok {
		return
	}

	result, err := h.service.UpdateCart(r.Context(), id, *req.ProductID, *req.Quantity)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.logger.Info("cart updated", "cart_id", id,
		"old_quantity", result.OldQuantity, "new_quantity", result.NewQuantity, "updated_stock", result.UpdatedStock)
	WriteJSON(w, http.StatusOK, cartUpdateResponse{
		Message:          "Cart updated successfully",
		CartUpdateResult: *result,
	}, h.logger)
}

// DeleteCart handles DELETE /carts/{cartID}
func (h *CartHandler) DeleteCart(w http.ResponseWriter, r *http.Request) {
	id, ok := h.cartID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteCart(r.Context(), id); err != nil {
		h.logger.Error("failed to delete cart", "cart_id", id, "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.logger)
		return
	}

	h.logger.Info("cart deleted", "cart_id", id)
	WriteJSON(w, http.StatusOK, map[string]string{"message": "Cart deleted successfully"}, h.logger)
}

// writeServiceError maps cart service failures to status codes: missing
// references are 404, domain violations 400, everything else 500.
func (h *CartHandler) writeServiceError(w http.ResponseWriter, err error) {
	var stockErr *service.InsufficientStockError
	switch {
	case errors.Is(err, repository.ErrProductNotFound):
		h.logger.Info("product not found")
		WriteError(w, http.StatusNotFound, "Product not found", h.logger)
	case errors.Is(err, repository.ErrCartNotFound):
		h.logger.Info("cart not found")
		WriteError(w, http.StatusNotFound, "Cart not found", h.logger)
	case errors.As(err, &stockErr):
		h.logger.Info("insufficient stock", "available", stockErr.Available)
		WriteError(w, http.StatusBadRequest, stockErr.Error(), h.logger)
	default:
		h.logger.Error("cart operation failed", "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.logger)
	}
}

// cartID parses the cartID URL parameter
func (h *CartHandler) cartID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "cartID")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		h.logger.Warn("invalid cart ID format", "cartId", raw, "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid ID supplied", h.logger)
		return 0, false
	}
	return id, true
}
