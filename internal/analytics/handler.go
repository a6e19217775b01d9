package analytics

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	myErr "lifeline-store/internal/types/errors"
)

type Handler struct {
	service AnalyticsService
	logger  *zap.SugaredLogger
}

func NewHandler(service AnalyticsService, logger *zap.SugaredLogger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

func (h *Handler) GetProductStats(w http.ResponseWriter, r *http.Request) {
	productID := mux.Vars(r)["product_id"]
	if productID == "" {
		http.Error(w, "Product ID is required", http.StatusBadRequest)
		return
	}

	stats, err := h.service.GetProductStats(r.Context(), productID)
	if errors.Is(err, myErr.ErrNotFound) {
		http.Error(w, "No stats for product", http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.Errorf("Failed to get product stats: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(stats); err != nil {
		h.logger.Errorf("Failed to encode response: %v", err)
	}
}

func (h *Handler) GetTopProducts(w http.ResponseWriter, r *http.Request) {
	limit := 5 // По умолчанию
	if limitParam := r.URL.Query().Get("limit"); limitParam != "" {
		if n, err := strconv.Atoi(limitParam); err == nil && n > 0 {
			limit = n
		}
	}

	stats, err := h.service.GetTopProducts(r.Context(), limit)
	if err != nil {
		h.logger.Errorf("Failed to get top products: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	if len(stats) == 0 {
		stats = []ProductStats{} // Пустой массив вместо null
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(stats); err != nil {
		h.logger.Errorf("Failed to encode response: %v", err)
	}
}
