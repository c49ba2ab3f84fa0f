package catalog

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/roamsim/backend-store/internal/common"
	"github.com/roamsim/backend-store/internal/currency"
)

// Handler exposes public catalog endpoints.
type Handler struct {
	Service *Service
}

// Packages handles GET /api/v1/packages with country/type filters and pagination.
func (h *Handler) Packages(w http.ResponseWriter, r *http.Request) {
	if h.Service == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "catalog service not configured", nil)
		return
	}
	params, err := h.Service.ParseListParams(r.URL.Query())
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid listing parameters", nil)
		return
	}
	cur, err := requestCurrency(r)
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
		return
	}
	result, err := h.Service.List(r.Context(), params, cur)
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "unable to load packages", nil)
		return
	}
	w.Header().Set("X-Total-Count", strconv.FormatInt(result.Total, 10))
	common.JSON(w, http.StatusOK, map[string]any{
		"data":       result.Items,
		"pagination": common.Pagination{Page: result.Page, PerPage: result.Limit, TotalItems: int(result.Total)},
	})
}

// PackageDetail handles GET /api/v1/packages/{id}.
func (h *Handler) PackageDetail(w http.ResponseWriter, r *http.Request) {
	if h.Service == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "catalog service not configured", nil)
		return
	}
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "package id required", nil)
		return
	}
	cur, err := requestCurrency(r)
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
		return
	}
	pkg, err := h.Service.GetPriced(r.Context(), id, cur)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "package not found", nil)
			return
		}
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "unable to load package", nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": pkg})
}

func requestCurrency(r *http.Request) (currency.Code, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("currency"))
	if raw == "" {
		return currency.USD, nil
	}
	return currency.Parse(strings.ToUpper(raw))
}
