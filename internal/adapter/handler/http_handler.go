package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/rl1809/rocketshoes-cart/internal/adapter/inventoryapi"
	"github.com/rl1809/rocketshoes-cart/internal/core/domain"
	"github.com/rl1809/rocketshoes-cart/internal/core/service"
)

type HTTPHandler struct {
	cartService *service.CartService
}

type AddProductHTTPRequest struct {
	ProductID int64 `json:"product_id"`
}

type UpdateAmountHTTPRequest struct {
	Amount int `json:"amount"`
}

type CartHTTPResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Cart    *domain.Summary `json:"cart,omitempty"`
}

func NewHTTPHandler(cartService *service.CartService) *HTTPHandler {
	return &HTTPHandler{cartService: cartService}
}

func (h *HTTPHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", h.HealthCheck)
	mux.HandleFunc("GET /api/cart", h.GetCart)
	mux.HandleFunc("POST /api/cart/items", h.AddProduct)
	mux.HandleFunc("DELETE /api/cart/items/{id}", h.RemoveProduct)
	mux.HandleFunc("PATCH /api/cart/items/{id}", h.UpdateProductAmount)
}

func (h *HTTPHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	writeCart(w, h.cartService.Summary())
}

func (h *HTTPHandler) AddProduct(w http.ResponseWriter, r *http.Request) {
	var req AddProductHTTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ProductID <= 0 {
		writeJSON(w, http.StatusBadRequest, CartHTTPResponse{
			Success: false,
			Message: "invalid request body",
		})
		return
	}

	summary, err := h.cartService.AddProduct(r.Context(), req.ProductID)
	if err != nil {
		writeCartError(w, err)
		return
	}

	writeCart(w, summary)
}

func (h *HTTPHandler) RemoveProduct(w http.ResponseWriter, r *http.Request) {
	productID, ok := pathProductID(w, r)
	if !ok {
		return
	}

	summary, err := h.cartService.RemoveProduct(r.Context(), productID)
	if err != nil {
		writeCartError(w, err)
		return
	}

	writeCart(w, summary)
}

func (h *HTTPHandler) UpdateProductAmount(w http.ResponseWriter, r *http.Request) {
	productID, ok := pathProductID(w, r)
	if !ok {
		return
	}

	var req UpdateAmountHTTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, CartHTTPResponse{
			Success: false,
			Message: "invalid request body",
		})
		return
	}

	summary, err := h.cartService.UpdateProductAmount(r.Context(), service.UpdateProductAmount{
		ProductID: productID,
		Amount:    req.Amount,
	})
	if err != nil {
		writeCartError(w, err)
		return
	}

	writeCart(w, summary)
}

func (h *HTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeCart(w http.ResponseWriter, summary domain.Summary) {
	writeJSON(w, http.StatusOK, CartHTTPResponse{
		Success: true,
		Cart:    &summary,
	})
}

func pathProductID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusBadRequest, CartHTTPResponse{
			Success: false,
			Message: "invalid product id",
		})
		return 0, false
	}
	return id, true
}

func writeCartError(w http.ResponseWriter, err error) {
	status := http.StatusBadGateway

	switch {
	case errors.Is(err, service.ErrOutOfStock):
		status = http.StatusConflict
	case errors.Is(err, service.ErrProductNotInCart), errors.Is(err, inventoryapi.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrInvalidAmount):
		status = http.StatusBadRequest
	}

	message := service.UserMessage(err)
	if message == "" {
		message = "internal error"
	}

	writeJSON(w, status, CartHTTPResponse{
		Success: false,
		Message: message,
	})
}
