package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"lifeline-store/internal/cart"
	"lifeline-store/internal/catalog"
	"lifeline-store/internal/checkout"
	"lifeline-store/internal/contextutil"
	"lifeline-store/internal/session"
	myErr "lifeline-store/internal/types/errors"
)

// CartProvider выдает корзину сессии на время запроса, см. cart.Registry
type CartProvider interface {
	Acquire(ctx context.Context, cartID string) (*cart.Store, func(), error)
}

// Checkouter оформляет заказ из корзины, см. checkout.Service
type Checkouter interface {
	Checkout(ctx context.Context, store *cart.Store, info checkout.ShippingInfo) (string, error)
}

// CartHandler ручки корзины текущей сессии
type CartHandler struct {
	Logger      *zap.SugaredLogger
	SessionRepo session.SessionRepo
	Carts       CartProvider
	CatalogRepo catalog.CatalogRepo
	Checkout    Checkouter
}

func NewCartHandler(
	log *zap.SugaredLogger,
	sr session.SessionRepo,
	carts CartProvider,
	cr catalog.CatalogRepo,
	co Checkouter,
) *CartHandler {
	return &CartHandler{
		Logger:      log,
		SessionRepo: sr,
		Carts:       carts,
		CatalogRepo: cr,
		Checkout:    co,
	}
}

// CartView - корзина в ответах API
type CartView struct {
	Items      []cart.Line `json:"items"`
	TotalItems int         `json:"totalItems"`
	TotalPrice string      `json:"totalPrice"`
	IsCartOpen bool        `json:"isCartOpen"`
}

func newCartView(s *cart.Store) CartView {
	lines := s.Lines()

	return CartView{
		Items:      lines,
		TotalItems: cart.TotalItems(lines),
		TotalPrice: cart.TotalPrice(lines).StringFixed(2),
		IsCartOpen: s.IsCartOpen(),
	}
}

// CreateSession - POST /api/cart/session
func (h *CartHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	sess, token, err := h.SessionRepo.CreateSession(r.Context())
	if err != nil {
		myErr.SendErrorTo(w, err, http.StatusInternalServerError, h.Logger)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(map[string]string{
		"token":  token,
		"cartId": sess.CartID,
	}); err != nil {
		h.Logger.Errorf("failed to encode session: %v", err)
		return
	}

	h.Logger.Infof("cart session %s created", sess.ID)
}

// GetCart - GET /api/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	store, release, ok := h.store(w, r)
	if !ok {
		return
	}
	defer release()

	h.writeCart(w, store)
}

// AddItem - POST /api/cart/items/{productID}
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	productID := mux.Vars(r)["productID"]
	if productID == "" {
		myErr.SendErrorTo(w, myErr.ErrBadID, http.StatusBadRequest, h.Logger)
		return
	}

	store, release, ok := h.store(w, r)
	if !ok {
		return
	}
	defer release()

	p, err := h.CatalogRepo.GetByID(productID)
	if err != nil {
		if errors.Is(err, myErr.ErrProductNotFound) {
			myErr.SendErrorTo(w, err, http.StatusNotFound, h.Logger)
			return
		}
		myErr.SendErrorTo(w, err, http.StatusInternalServerError, h.Logger)
		return
	}

	store.AddToCart(r.Context(), *p)
	h.writeCart(w, store)
}

// UpdateItem - PUT /api/cart/items/{productID}, тело {"quantity": n}.
// n <= 0 удаляет строку
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	productID := mux.Vars(r)["productID"]
	if productID == "" {
		myErr.SendErrorTo(w, myErr.ErrBadID, http.StatusBadRequest, h.Logger)
		return
	}

	var payload struct {
		Quantity *int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		myErr.SendErrorTo(w, myErr.ErrBadQuantity, http.StatusBadRequest, h.Logger)
		return
	}
	if payload.Quantity == nil {
		myErr.SendErrorTo(w, myErr.ErrBadQuantity, http.StatusBadRequest, h.Logger)
		return
	}

	store, release, ok := h.store(w, r)
	if !ok {
		return
	}
	defer release()

	store.UpdateQuantity(r.Context(), productID, *payload.Quantity)
	h.writeCart(w, store)
}

// RemoveItem - DELETE /api/cart/items/{productID}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	productID := mux.Vars(r)["productID"]
	if productID == "" {
		myErr.SendErrorTo(w, myErr.ErrBadID, http.StatusBadRequest, h.Logger)
		return
	}

	store, release, ok := h.store(w, r)
	if !ok {
		return
	}
	defer release()

	store.RemoveFromCart(r.Context(), productID)
	h.writeCart(w, store)
}

// Clear - DELETE /api/cart
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	store, release, ok := h.store(w, r)
	if !ok {
		return
	}
	defer release()

	store.ClearCart(r.Context())
	h.writeCart(w, store)
}

// SetPanel - PUT /api/cart/panel, тело {"open": bool}
func (h *CartHandler) SetPanel(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Open bool `json:"open"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		myErr.SendErrorTo(w, myErr.ErrInvalidJSONPayload, http.StatusBadRequest, h.Logger)
		return
	}

	store, release, ok := h.store(w, r)
	if !ok {
		return
	}
	defer release()

	store.SetCartOpen(r.Context(), payload.Open)
	h.writeCart(w, store)
}

// PlaceOrder - POST /api/cart/checkout
func (h *CartHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		ShippingInfo checkout.ShippingInfo `json:"shippingInfo"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		myErr.SendErrorTo(w, myErr.ErrInvalidJSONPayload, http.StatusBadRequest, h.Logger)
		return
	}

	store, release, ok := h.store(w, r)
	if !ok {
		return
	}
	defer release()

	orderID, err := h.Checkout.Checkout(r.Context(), store, payload.ShippingInfo)
	if err != nil {
		switch {
		case errors.Is(err, myErr.ErrEmptyCart):
			myErr.SendErrorTo(w, err, http.StatusBadRequest, h.Logger)
		case errors.Is(err, myErr.ErrCheckoutFailed):
			myErr.SendErrorTo(w, myErr.ErrCheckoutFailed, http.StatusBadGateway, h.Logger)
		default:
			myErr.SendErrorTo(w, err, http.StatusInternalServerError, h.Logger)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(map[string]string{"orderId": orderID}); err != nil {
		h.Logger.Errorf("failed to encode order: %v", err)
	}
}

func (h *CartHandler) store(w http.ResponseWriter, r *http.Request) (*cart.Store, func(), bool) {
	cartID, ok := contextutil.GetCartIDFromContext(r.Context())
	if !ok {
		myErr.SendErrorTo(w, myErr.ErrNoAuth, http.StatusUnauthorized, h.Logger)
		return nil, nil, false
	}

	store, release, err := h.Carts.Acquire(r.Context(), cartID)
	if err != nil {
		if errors.Is(err, myErr.ErrCartUnavailable) {
			myErr.SendErrorTo(w, myErr.ErrCartUnavailable, http.StatusServiceUnavailable, h.Logger)
			return nil, nil, false
		}
		myErr.SendErrorTo(w, err, http.StatusInternalServerError, h.Logger)
		return nil, nil, false
	}

	return store, release, true
}

func (h *CartHandler) writeCart(w http.ResponseWriter, s *cart.Store) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(newCartView(s)); err != nil {
		h.Logger.Errorf("failed to encode cart %s: %v", s.ID(), err)
	}
}
