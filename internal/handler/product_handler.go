package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"boty-storefront/internal/auth"
	"boty-storefront/internal/model"
	"boty-storefront/internal/service"
	"boty-storefront/pkg/apierror"
)

type ProductHandler struct {
	products *service.ProductService
	verifier auth.Verifier
}

func NewProductHandler(products *service.ProductService, verifier auth.Verifier) *ProductHandler {
	return &ProductHandler{products: products, verifier: verifier}
}

func queryInt(r *http.Request, key string) int {
	v, err := strconv.Atoi(strings.TrimSpace(r.URL.Query().Get(key)))
	if err != nil {
		return 0
	}
	return v
}

func parseProductQuery(r *http.Request) model.ProductQuery {
	includeInactive := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("includeInactive")))
	return model.ProductQuery{
		Page:            queryInt(r, "page"),
		Limit:           queryInt(r, "limit"),
		Search:          r.URL.Query().Get("q"),
		IncludeInactive: includeInactive == "true" || includeInactive == "1",
	}
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAdmin(h.verifier, w, r); !ok {
		return
	}

	items, pagination, err := h.products.List(r.Context(), parseProductQuery(r))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.ItemsResponse{OK: true, Items: items, Pagination: &pagination})
}

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAdmin(h.verifier, w, r); !ok {
		return
	}

	item, err := h.products.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.ItemResponse{OK: true, Item: item})
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	admin, ok := requireAdmin(h.verifier, w, r)
	if !ok {
		return
	}

	var payload model.CreateProductRequest
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, apierror.BadRequest(msgInvalidProduct, ""))
		return
	}

	item, err := h.products.Create(r.Context(), payload, admin.Email)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, model.ItemResponse{OK: true, Item: item})
}

func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	admin, ok := requireAdmin(h.verifier, w, r)
	if !ok {
		return
	}

	var payload model.UpdateProductRequest
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, apierror.BadRequest(msgInvalidProduct, ""))
		return
	}

	item, err := h.products.Update(r.Context(), chi.URLParam(r, "id"), payload, admin.Email)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.ItemResponse{OK: true, Item: item})
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	admin, ok := requireAdmin(h.verifier, w, r)
	if !ok {
		return
	}

	if err := h.products.Delete(r.Context(), chi.URLParam(r, "id"), admin.Email); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.OKResponse{OK: true})
}
