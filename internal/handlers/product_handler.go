package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopcart/api/internal/models"
	"github.com/shopcart/api/internal/repository"
	"github.com/shopcart/api/internal/service"
)

// ProductHandler handles product-related HTTP requests
type ProductHandler struct {
	service *service.ProductService
	logger  *slog.Logger
}

// NewProductHandler creates a new product handler
func NewProductHandler(service *service.ProductService, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		logger:  logger,
	}
}

// productRequest is the body of create and update requests. Pointer fields
// distinguish absent values from zero values.
type productRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Price       *int64  `json:"price"`
	Category    *string `json:"category"`
	Stock       *int    `json:"stock"`
}

// missingFields lists the required fields absent from the request
func (req *productRequest) missingFields() []string {
	var missing []string
	if req.Name == nil {
		missing = append(missing, "name")
	}
	if req.Description == nil {
		missing = append(missing, "description")
	}
	if req.Price == nil {
		missing = append(missing, "price")
	}
	if req.Category == nil {
		missing = append(missing, "category")
	}
	if req.Stock == nil {
		missing = append(missing, "stock")
	}
	return missing
}

func (req *productRequest) toModel() *models.Product {
	return &models.Product{
		Name:        *req.Name,
		Description: *req.Description,
		Price:       *req.Price,
		Category:    *req.Category,
		Stock:       *req.Stock,
	}
}

// decodeProductRequest parses the body and reports field-level problems.
// A non-numeric price or stock surfaces as an invalid-field message.
func (h *ProductHandler) decodeProductRequest(w http.ResponseWriter, r *http.Request) (*productRequest, bool) {
	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			WriteError(w, http.StatusBadRequest,
				fmt.Sprintf("Field %q must be a valid %s", typeErr.Field, typeErr.Type), h.logger)
			return nil, false
		}
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.logger)
		return nil, false
	}

	if missing := req.missingFields(); len(missing) > 0 {
		h.logger.Warn("product request missing fields", "missing", missing)
		WriteError(w, http.StatusBadRequest,
			fmt.Sprintf("Missing required fields: %s", strings.Join(missing, ", ")), h.logger)
		return nil, false
	}

	return &req, true
}

// CreateProduct handles POST /products
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeProductRequest(w, r)
	if !ok {
		return
	}

	product, err := h.service.CreateProduct(r.Context(), req.toModel())
	if err != nil {
		h.logger.Error("failed to create product", "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.logger)
		return
	}

	h.logger.Info("product created", "product_id", product.ID, "name", product.Name)
	WriteJSON(w, http.StatusCreated, product, h.logger)
}

// ListProducts handles GET /products with an optional category query filter
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")

	products, err := h.service.ListProducts(r.Context(), category)
	if err != nil {
		h.logger.Error("failed to list products", "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.logger)
		return
	}

	WriteJSON(w, http.StatusOK, products, h.logger)
}

// GetProduct handles GET /products/{productID}
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := h.productID(w, r)
	if !ok {
		return
	}

	product, err := h.service.GetProduct(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			h.logger.Info("product not found", "product_id", id)
			WriteError(w, http.StatusNotFound, "Product not found", h.logger)
			return
		}
		h.logger.Error("failed to get product", "product_id", id, "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.logger)
		return
	}

	WriteJSON(w, http.StatusOK, product, h.logger)
}

// UpdateProduct handles PUT /products/{productID} as a full field replacement
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := h.productID(w, r)
	if !ok {
		return
	}

	req, ok := h.decodeProductRequest(w, r)
	if !ok {
		return
	}

	if err := h.service.UpdateProduct(r.Context(), id, req.toModel()); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			h.logger.Info("product not found", "product_id", id)
			WriteError(w, http.StatusNotFound, "Product not found", h.logger)
			return
		}
		h.logger.Error("failed to update product", "product_id", id, "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.logger)
		return
	}

	h.logger.Info("product updated", "product_id", id)
	WriteJSON(w, http.StatusOK, map[string]string{"message": "Product updated successfully"}, h.logger)
}

// DeleteProduct handles DELETE /products/{productID}. Cart rows referencing
// the product are removed by the schema cascade.
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := h.productID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteProduct(r.Context(), id); err != nil {
		h.logger.Error("failed to delete product", "product_id", id, "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.logger)
		return
	}

	h.logger.Info("product deleted", "product_id", id)
	WriteJSON(w, http.StatusOK, map[string]string{"message": "Product deleted successfully"}, h.logger)
}

// productID parses the productID URL parameter
func (h *ProductHandler) productID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "productID")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		h.logger.Warn("invalid product ID format", "productId", raw, "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid ID supplied", h.logger)
		return 0, false
	}
	return id, true
}
