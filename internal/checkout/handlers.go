package checkout

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/roamsim/backend-store/internal/cart"
	"github.com/roamsim/backend-store/internal/common"
)

// Handler exposes POST /api/v1/checkout.
type Handler struct {
	Svc *Service
}

type submitPayload struct {
	CartID string `json:"cartId"`
}

// Submit assembles the external checkout payload for a cart.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	var payload submitPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid body", nil)
		return
	}
	cartID := strings.TrimSpace(payload.CartID)
	if cartID == "" {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "cartId required", nil)
		return
	}
	sub, err := h.Svc.Submit(r.Context(), cartID)
	if err != nil {
		switch {
		case errors.Is(err, cart.ErrNotFound):
			common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "cart not found", nil)
		case errors.Is(err, ErrEmptyCart):
			common.JSONError(w, http.StatusUnprocessableEntity, "EMPTY_CART", "cart has no items", nil)
		default:
			common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "checkout failed", nil)
		}
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": sub})
}
