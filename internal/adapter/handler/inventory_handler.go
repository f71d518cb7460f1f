package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/rl1809/rocketshoes-cart/internal/core/service"
)

// InventoryHTTPHandler serves the json-server style API the cart consumes.
type InventoryHTTPHandler struct {
	inventoryService *service.InventoryService
}

type StockHTTPRequest struct {
	Amount *int `json:"amount"`
}

func NewInventoryHTTPHandler(inventoryService *service.InventoryService) *InventoryHTTPHandler {
	return &InventoryHTTPHandler{inventoryService: inventoryService}
}

func (h *InventoryHTTPHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", h.HealthCheck)
	mux.HandleFunc("GET /products/{id}", h.GetProduct)
	mux.HandleFunc("GET /stock/{id}", h.GetStock)
	mux.HandleFunc("PUT /stock/{id}", h.PutStock)
}

func (h *InventoryHTTPHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := inventoryID(w, r)
	if !ok {
		return
	}

	p, err := h.inventoryService.Product(r.Context(), id)
	if err != nil {
		writeInventoryError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, p)
}

func (h *InventoryHTTPHandler) GetStock(w http.ResponseWriter, r *http.Request) {
	id, ok := inventoryID(w, r)
	if !ok {
		return
	}

	s, err := h.inventoryService.Stock(r.Context(), id)
	if err != nil {
		writeInventoryError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, s)
}

func (h *InventoryHTTPHandler) PutStock(w http.ResponseWriter, r *http.Request) {
	id, ok := inventoryID(w, r)
	if !ok {
		return
	}

	var req StockHTTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Amount == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "amount is required"})
		return
	}

	s, err := h.inventoryService.SetStock(r.Context(), id, *req.Amount)
	if err != nil {
		writeInventoryError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, s)
}

func (h *InventoryHTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func inventoryID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

func writeInventoryError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "internal error"

	switch {
	case errors.Is(err, service.ErrProductNotFound):
		status, message = http.StatusNotFound, "not found"
	case errors.Is(err, service.ErrInvalidAmount):
		status, message = http.StatusBadRequest, "amount must not be negative"
	case errors.Is(err, service.ErrStockConflict):
		status, message = http.StatusConflict, "stock is being updated, try again"
	}

	writeJSON(w, status, map[string]string{"error": message})
}
