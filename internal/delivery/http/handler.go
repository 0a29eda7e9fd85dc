package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/egannguyen/go-kafka-ecommerce/storefront/internal/entity"
	"github.com/egannguyen/go-kafka-ecommerce/storefront/internal/service"
)

// Handler handles HTTP requests for one storefront session.
type Handler struct {
	session *service.Session
}

func NewHandler(session *service.Session) *Handler {
	return &Handler{
		session: session,
	}
}

func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/session", h.handleGetSession)
	mux.HandleFunc("GET /api/categories", h.handleGetCategories)
	mux.HandleFunc("GET /api/products", h.handleGetProducts)
	mux.HandleFunc("PUT /api/category", h.handleSelectCategory)
	mux.HandleFunc("GET /api/cart", h.handleGetCart)
	mux.HandleFunc("POST /api/cart/items", h.handleAddToCart)
}

func (h *Handler) handleGetSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.session.Snapshot())
}

func (h *Handler) handleGetCategories(w http.ResponseWriter, r *http.Request) {
	if !h.catalogReady(w) {
		return
	}
	writeJSON(w, http.StatusOK, h.session.Categories())
}

// ProductsResponse is the visible catalog for the selected category.
type ProductsResponse struct {
	Category string           `json:"category"`
	Products []entity.Product `json:"products"`
}

func (h *Handler) handleGetProducts(w http.ResponseWriter, r *http.Request) {
	if !h.catalogReady(w) {
		return
	}
	writeJSON(w, http.StatusOK, ProductsResponse{
		Category: h.session.SelectedCategory(),
		Products: h.session.VisibleProducts(),
	})
}

type SelectCategoryRequest struct {
	Category string `json:"category"`
}

func (h *Handler) handleSelectCategory(w http.ResponseWriter, r *http.Request) {
	var req SelectCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	h.session.SelectCategory(req.Category)
	writeJSON(w, http.StatusOK, ProductsResponse{
		Category: h.session.SelectedCategory(),
		Products: h.session.VisibleProducts(),
	})
}

// CartResponse is the cart with its total.
type CartResponse struct {
	Items entity.Cart `json:"items"`
	Total float64     `json:"total"`
}

func (h *Handler) handleGetCart(w http.ResponseWriter, r *http.Request) {
	cart := h.session.Cart()
	writeJSON(w, http.StatusOK, CartResponse{Items: cart, Total: cart.Total()})
}

type AddToCartRequest struct {
	ProductID int `json:"product_id"`
}

func (h *Handler) handleAddToCart(w http.ResponseWriter, r *http.Request) {
	var req AddToCartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	cart, err := h.session.AddToCart(r.Context(), req.ProductID)
	switch {
	case errors.Is(err, service.ErrUnknownProduct):
		http.Error(w, "product not found", http.StatusNotFound)
		return
	case errors.Is(err, service.ErrCatalogNotReady):
		h.catalogReady(w)
		return
	case err != nil:
		slog.Error("Failed to add item to cart", "err", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, CartResponse{Items: cart, Total: cart.Total()})
}

// catalogReady writes a 503 and returns false while the catalog is loading
// or after it failed.
func (h *Handler) catalogReady(w http.ResponseWriter) bool {
	switch h.session.Status() {
	case service.CatalogLoaded:
		return true
	case service.CatalogFailed:
		var loadErr *service.LoadError
		if errors.As(h.session.Err(), &loadErr) {
			http.Error(w, loadErr.Message(), http.StatusServiceUnavailable)
			return false
		}
		http.Error(w, service.ErrLoad.Error(), http.StatusServiceUnavailable)
		return false
	default:
		w.Header().Set("Retry-After", "1")
		http.Error(w, "catalog is loading", http.StatusServiceUnavailable)
		return false
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "err", err)
	}
}

// EnableCORS is a middleware to allow a browser frontend to connect.
func EnableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
