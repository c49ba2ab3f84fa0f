package cart

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	validator "github.com/go-playground/validator/v10"

	"github.com/roamsim/backend-store/internal/catalog"
	"github.com/roamsim/backend-store/internal/common"
	"github.com/roamsim/backend-store/internal/coupon"
	"github.com/roamsim/backend-store/internal/currency"
)

var validate = validator.New()

// Handler wires cart operations to HTTP.
type Handler struct {
	Svc *Service
}

type createPayload struct {
	Currency string `json:"currency" validate:"omitempty,oneof=USD IDR usd idr"`
}

// Create handles POST /api/v1/carts.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var payload createPayload
	_ = json.NewDecoder(r.Body).Decode(&payload)
	if err := validate.Struct(payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid currency", nil)
		return
	}
	cur := currency.USD
	if payload.Currency != "" {
		cur, _ = currency.Parse(strings.ToUpper(payload.Currency))
	}
	c, err := h.Svc.Create(r.Context(), cur)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": c})
}

// Get handles GET /api/v1/carts/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	c, err := h.Svc.Get(r.Context(), cartID(r))
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": c})
}

// Delete handles DELETE /api/v1/carts/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Svc.Delete(r.Context(), cartID(r)); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type itemPayload struct {
	PackageID string `json:"packageId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"min=0,max=50"`
	PeriodNum *int   `json:"periodNum" validate:"omitempty,min=1,max=365"`
}

// AddItem handles POST /api/v1/carts/{id}/items.
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	var payload itemPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid body", nil)
		return
	}
	if err := validate.Struct(payload); err != nil || payload.Quantity < 1 {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid item payload", nil)
		return
	}
	c, err := h.Svc.AddItem(r.Context(), cartID(r), payload.PackageID, payload.Quantity, payload.PeriodNum)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": c})
}

// UpdateItem handles PUT /api/v1/carts/{id}/items/{packageId}.
func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	var payload itemPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid body", nil)
		return
	}
	payload.PackageID = chi.URLParam(r, "packageId")
	if err := validate.Struct(payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid item payload", nil)
		return
	}
	c, err := h.Svc.UpdateItem(r.Context(), cartID(r), payload.PackageID, payload.Quantity, payload.PeriodNum)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": c})
}

// RemoveItem handles DELETE /api/v1/carts/{id}/items/{packageId}.
func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	c, err := h.Svc.RemoveItem(r.Context(), cartID(r), chi.URLParam(r, "packageId"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": c})
}

type currencyPayload struct {
	Currency string `json:"currency" validate:"required"`
}

// SetCurrency handles PUT /api/v1/carts/{id}/currency. The response carries a
// couponRemoved flag so the storefront can tell the user their code was
// dropped by the switch.
func (h *Handler) SetCurrency(w http.ResponseWriter, r *http.Request) {
	var payload currencyPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid body", nil)
		return
	}
	cur, err := currency.Parse(strings.ToUpper(strings.TrimSpace(payload.Currency)))
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "unsupported currency", nil)
		return
	}
	c, couponRemoved, err := h.Svc.SetCurrency(r.Context(), cartID(r), cur)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"data":          c,
		"couponRemoved": couponRemoved,
	})
}

type couponPayload struct {
	Code string `json:"code" validate:"required,max=64"`
}

// ApplyCoupon handles POST /api/v1/carts/{id}/apply-coupon.
func (h *Handler) ApplyCoupon(w http.ResponseWriter, r *http.Request) {
	var payload couponPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid body", nil)
		return
	}
	if err := validate.Struct(payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "coupon code required", nil)
		return
	}
	c, totals, err := h.Svc.ApplyCoupon(r.Context(), cartID(r), payload.Code)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"data":   c,
		"totals": totals,
	})
}

// RemoveCoupon handles DELETE /api/v1/carts/{id}/coupon.
func (h *Handler) RemoveCoupon(w http.ResponseWriter, r *http.Request) {
	c, err := h.Svc.RemoveCoupon(r.Context(), cartID(r))
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": c})
}

// Totals handles GET /api/v1/carts/{id}/totals.
func (h *Handler) Totals(w http.ResponseWriter, r *http.Request) {
	totals, err := h.Svc.Totals(r.Context(), cartID(r))
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": totals})
}

func cartID(r *http.Request) string {
	return strings.TrimSpace(chi.URLParam(r, "id"))
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "cart not found", nil)
	case errors.Is(err, ErrItemNotFound):
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "item not in cart", nil)
	case errors.Is(err, ErrInvalidInput):
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
	case errors.Is(err, catalog.ErrNotFound):
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "unknown package", nil)
	case errors.Is(err, coupon.ErrNotFound):
		common.JSONError(w, http.StatusBadRequest, "COUPON_NOT_FOUND", "coupon code invalid or inactive", nil)
	case errors.Is(err, coupon.ErrNotStarted):
		common.JSONError(w, http.StatusBadRequest, "COUPON_NOT_STARTED", "coupon is not active yet", nil)
	case errors.Is(err, coupon.ErrExpired):
		common.JSONError(w, http.StatusBadRequest, "COUPON_EXPIRED", "coupon has expired", nil)
	case errors.Is(err, coupon.ErrExhausted):
		common.JSONError(w, http.StatusBadRequest, "COUPON_EXHAUSTED", "coupon usage limit reached", nil)
	case errors.Is(err, coupon.ErrCurrencyMismatch):
		common.JSONError(w, http.StatusBadRequest, "COUPON_CURRENCY", "coupon not valid for this currency", nil)
	case errors.Is(err, coupon.ErrMinPurchase):
		common.JSONError(w, http.StatusBadRequest, "COUPON_MIN_PURCHASE", "minimum purchase not met", nil)
	case errors.Is(err, coupon.ErrLookupTimeout):
		common.JSONError(w, http.StatusServiceUnavailable, "COUPON_TIMEOUT", "coupon check timed out, try again", nil)
	default:
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "cart operation failed", nil)
	}
}
