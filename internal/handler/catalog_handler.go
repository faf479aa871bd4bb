package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"boty-storefront/internal/model"
	"boty-storefront/internal/service"
)

type CatalogHandler struct {
	catalog *service.CatalogService
}

func NewCatalogHandler(catalog *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.catalog.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.ItemsResponse{OK: true, Items: items})
}

func (h *CatalogHandler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	item, err := h.catalog.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.ItemResponse{OK: true, Item: item})
}
