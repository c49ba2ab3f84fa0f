package obs

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// ScheduleSourceTotal counts where the active schedule set was served from
	// (cache, store, or the empty-set fallback).
	ScheduleSourceTotal *prometheus.CounterVec
	// ScheduleRefreshTotal counts snapshot refresh outcomes in the worker.
	ScheduleRefreshTotal *prometheus.CounterVec
	// CouponApplyTotal counts coupon apply attempts by outcome.
	CouponApplyTotal *prometheus.CounterVec
	// CouponLookupLatency records discount-code lookup latency in milliseconds.
	CouponLookupLatency prometheus.Histogram
	// CartTotalsTotal counts cart totals computations by currency.
	CartTotalsTotal *prometheus.CounterVec
	// CheckoutSubmissionTotal counts checkout submissions handed to the
	// external payment initiator.
	CheckoutSubmissionTotal *prometheus.CounterVec
)

// MustRegisterDomainMetrics initialises and registers domain-specific Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		ScheduleSourceTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "schedule_source_total",
			Help:      "Origin of the active schedule set served to pricing callers.",
		}, []string{"origin"})
		ScheduleRefreshTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "schedule_refresh_total",
			Help:      "Snapshot refresh outcomes in the worker.",
		}, []string{"result"})
		CouponApplyTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "coupon_apply_total",
			Help:      "Coupon apply attempts by outcome.",
		}, []string{"result"})
		CouponLookupLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "coupon_lookup_duration_ms",
			Help:      "Discount-code lookup latency in milliseconds.",
			Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 5000, 10000},
		})
		CartTotalsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cart_totals_total",
			Help:      "Cart totals computations by currency.",
		}, []string{"currency"})
		CheckoutSubmissionTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkout_submission_total",
			Help:      "Checkout submissions assembled for the payment initiator.",
		}, []string{"currency", "result"})

		ScheduleSourceTotal = registerCounterVec(reg, ScheduleSourceTotal)
		ScheduleRefreshTotal = registerCounterVec(reg, ScheduleRefreshTotal)
		CouponApplyTotal = registerCounterVec(reg, CouponApplyTotal)
		CouponLookupLatency = registerHistogram(reg, CouponLookupLatency)
		CartTotalsTotal = registerCounterVec(reg, CartTotalsTotal)
		CheckoutSubmissionTotal = registerCounterVec(reg, CheckoutSubmissionTotal)
	})
}

func registerHistogram(reg prometheus.Registerer, h prometheus.Histogram) prometheus.Histogram {
	if err := reg.Register(h); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing
			}
		}
		panic(err)
	}
	return h
}
