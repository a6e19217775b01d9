package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"lifeline-store/internal/catalog"
	esDoc "lifeline-store/internal/types/elastic"
	myErr "lifeline-store/internal/types/errors"
	"lifeline-store/internal/types/product"
)

// Searcher - полнотекстовый поиск, см. elastic.ElasticService
type Searcher interface {
	Search(ctx context.Context, query string, limit int) ([]esDoc.ElasticDoc, error)
}

// CatalogHandler ручки витрины
type CatalogHandler struct {
	Logger      *zap.SugaredLogger
	CatalogRepo catalog.CatalogRepo
	Searcher    Searcher
}

func NewCatalogHandler(l *zap.SugaredLogger, cr catalog.CatalogRepo, s Searcher) *CatalogHandler {
	return &CatalogHandler{
		Logger:      l,
		CatalogRepo: cr,
		Searcher:    s,
	}
}

// List handles GET /products?category=&q=&priceRange=&sort=
func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	products, err := h.CatalogRepo.List(catalog.Filter{
		Category:   q.Get("category"),
		Query:      q.Get("q"),
		PriceRange: q.Get("priceRange"),
		Sort:       catalog.Sort(q.Get("sort")),
	})
	if err != nil {
		if errors.Is(err, myErr.ErrBadPriceRange) {
			myErr.SendErrorTo(w, err, http.StatusBadRequest, h.Logger)
			return
		}
		myErr.SendErrorTo(w, err, http.StatusInternalServerError, h.Logger)
		return
	}

	h.writeJSON(w, products)
}

// GetByID handles GET /products/{id}
func (h *CatalogHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if id == "" {
		myErr.SendErrorTo(w, myErr.ErrBadID, http.StatusBadRequest, h.Logger)
		return
	}

	p, err := h.CatalogRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, myErr.ErrProductNotFound) {
			myErr.SendErrorTo(w, err, http.StatusNotFound, h.Logger)
			return
		}
		myErr.SendErrorTo(w, err, http.StatusInternalServerError, h.Logger)
		return
	}

	h.writeJSON(w, p)
}

// Categories handles GET /categories
func (h *CatalogHandler) Categories(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, h.CatalogRepo.Categories())
}

// Deals handles GET /deals
func (h *CatalogHandler) Deals(w http.ResponseWriter, r *http.Request) {
	h.listDerived(w, catalog.Deals)
}

// BestSellers handles GET /bestsellers
func (h *CatalogHandler) BestSellers(w http.ResponseWriter, r *http.Request) {
	h.listDerived(w, catalog.BestSellers)
}

// Search handles GET /search?q={query}.
// Без индекса ищет подстроку по каталогу
func (h *CatalogHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		myErr.SendErrorTo(w, errors.New("missing query parameter"), http.StatusBadRequest, h.Logger)
		return
	}

	if h.Searcher != nil {
		docs, err := h.Searcher.Search(r.Context(), q, 0)
		if err == nil {
			h.writeJSON(w, h.resolve(docs))
			return
		}
		h.Logger.Warnf("full-text search failed, falling back to catalog filter: %v", err)
	}

	products, err := h.CatalogRepo.List(catalog.Filter{Query: q})
	if err != nil {
		myErr.SendErrorTo(w, err, http.StatusInternalServerError, h.Logger)
		return
	}

	h.writeJSON(w, products)
}

// resolve подменяет документы индекса актуальными товарами каталога
func (h *CatalogHandler) resolve(docs []esDoc.ElasticDoc) []product.Product {
	products := make([]product.Product, 0, len(docs))
	for _, doc := range docs {
		p, err := h.CatalogRepo.GetByID(doc.ID)
		if err != nil {
			h.Logger.Debugf("search hit %s is not in catalog", doc.ID)
			continue
		}
		products = append(products, *p)
	}

	return products
}

func (h *CatalogHandler) listDerived(w http.ResponseWriter, pick func([]product.Product) []product.Product) {
	all, err := h.CatalogRepo.List(catalog.Filter{})
	if err != nil {
		myErr.SendErrorTo(w, err, http.StatusInternalServerError, h.Logger)
		return
	}

	h.writeJSON(w, pick(all))
}

func (h *CatalogHandler) writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.Logger.Errorf("failed to encode response: %v", err)
	}
}
