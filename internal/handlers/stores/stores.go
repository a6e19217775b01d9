package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"lifeline-store/internal/stores"
	myErr "lifeline-store/internal/types/errors"
)

// StoreHandler ручки поиска магазинов
type StoreHandler struct {
	Logger    *zap.SugaredLogger
	StoreRepo stores.StoreRepo
}

func NewStoreHandler(l *zap.SugaredLogger, sr stores.StoreRepo) *StoreHandler {
	return &StoreHandler{
		Logger:    l,
		StoreRepo: sr,
	}
}

// List handles GET /stores?lat=&lng=.
// Без координат отдает справочник как есть, с координатами - по расстоянию
func (h *StoreHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	latStr, lngStr := q.Get("lat"), q.Get("lng")

	if latStr == "" && lngStr == "" {
		h.writeJSON(w, h.StoreRepo.List())
		return
	}

	lat, errLat := strconv.ParseFloat(latStr, 64)
	lng, errLng := strconv.ParseFloat(lngStr, 64)
	if errLat != nil || errLng != nil {
		myErr.SendErrorTo(w, myErr.ErrBadCoordinates, http.StatusBadRequest, h.Logger)
		return
	}

	locations, err := h.StoreRepo.Nearest(lat, lng)
	if err != nil {
		if errors.Is(err, myErr.ErrBadCoordinates) {
			myErr.SendErrorTo(w, err, http.StatusBadRequest, h.Logger)
			return
		}
		myErr.SendErrorTo(w, err, http.StatusInternalServerError, h.Logger)
		return
	}

	h.writeJSON(w, locations)
}

func (h *StoreHandler) writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.Logger.Errorf("failed to encode response: %v", err)
	}
}
