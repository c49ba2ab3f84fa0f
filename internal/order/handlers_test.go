package order

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roamsim/backend-store/internal/currency"
)

type stubGetter struct {
	order Order
	err   error
}

func (s *stubGetter) Get(context.Context, string) (Order, error) {
	return s.order, s.err
}

func serve(t *testing.T, g Getter, path string) *httptest.ResponseRecorder {
	t.Helper()
	h := &Handler{Store: g}
	r := chi.NewRouter()
	r.Get("/orders/{id}", h.Get)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestGetOrderPaddleEncodedDisplay(t *testing.T) {
	// 1050 provider cents is $10.50; the same integer in catalog encoding
	// would be about a tenth of a cent.
	o := Order{
		ID:            "ord-1",
		Currency:      currency.USD,
		SubtotalCents: 1050,
		TotalCents:    945,
		Status:        "paid",
		CreatedAt:     time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC),
	}
	o.DisplaySubtotal = currency.Format(o.SubtotalCents, o.Currency, currency.EncodingPaddle)
	o.DisplayTotal = currency.Format(o.TotalCents, o.Currency, currency.EncodingPaddle)

	rec := serve(t, &stubGetter{order: o}, "/orders/ord-1")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data Order `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "$10.50", body.Data.DisplaySubtotal)
	assert.Equal(t, "$9.45", body.Data.DisplayTotal)
}

func TestGetOrderNotFound(t *testing.T) {
	rec := serve(t, &stubGetter{err: ErrNotFound}, "/orders/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
