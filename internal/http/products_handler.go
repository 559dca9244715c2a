package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/aetherstore/storefront/internal/domain"
	"github.com/aetherstore/storefront/internal/repository"
)

type ProductsHandler struct {
	products repository.ProductRepository
	timeout  time.Duration
}

func NewProductsHandler(products repository.ProductRepository, timeout time.Duration) *ProductsHandler {
	return &ProductsHandler{
		products: products,
		timeout:  timeout,
	}
}

type ProductRequestDTO struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Image       string  `json:"image"`
	Category    string  `json:"category"`
	Stock       int     `json:"stock"`
}

func (dto *ProductRequestDTO) validate() (code, message string, ok bool) {
	if dto.Name == "" {
		return "missing_name", "name is required", false
	}
	if dto.Price < 0 {
		return "invalid_price", "price must not be negative", false
	}
	if dto.Stock < 0 {
		return "invalid_stock", "stock must not be negative", false
	}
	return "", "", true
}

// GET /api/products
func (h *ProductsHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	products, err := h.products.ListProducts(ctx)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if products == nil {
		products = []*domain.Product{}
	}

	respondJSON(w, http.StatusOK, products)
}

// GET /api/products/{product_id}
func (h *ProductsHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	product, err := h.products.GetProduct(ctx, chi.URLParam(r, "product_id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, product)
}

// POST /api/products (operator)
func (h *ProductsHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req ProductRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if code, msg, ok := req.validate(); !ok {
		respondError(w, http.StatusBadRequest, code, msg)
		return
	}

	product := &domain.Product{
		ID:          uuid.New().String(),
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Image:       req.Image,
		Category:    req.Category,
		Stock:       req.Stock,
		CreatedAt:   time.Now(),
	}

	if err := h.products.CreateProduct(ctx, product); err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, product)
}

// PUT /api/products/{product_id} (operator)
func (h *ProductsHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id := chi.URLParam(r, "product_id")

	var req ProductRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if code, msg, ok := req.validate(); !ok {
		respondError(w, http.StatusBadRequest, code, msg)
		return
	}

	existing, err := h.products.GetProduct(ctx, id)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	existing.Name = req.Name
	existing.Description = req.Description
	existing.Price = req.Price
	existing.Image = req.Image
	existing.Category = req.Category
	existing.Stock = req.Stock

	if err := h.products.UpdateProduct(ctx, existing); err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, existing)
}

// DELETE /api/products/{product_id} (operator)
func (h *ProductsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.products.DeleteProduct(ctx, chi.URLParam(r, "product_id")); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
