package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "storefront"

// Guard decision labels.
const (
	DecisionAllow    = "allow"
	DecisionPublic   = "public"
	DecisionPrefetch = "prefetch"
	DecisionDeny     = "deny"
	DecisionRedirect = "redirect"
	DecisionIgnore   = "unprotected"
)

var (
	GuardDecisionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guard_decisions_total",
		Help:      "Route guard decisions by surface (ui, api, none) and outcome.",
	}, []string{"surface", "decision"})

	LoginAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Admin login attempts by outcome.",
	}, []string{"outcome"})

	ProductMutationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "product_mutations_total",
		Help:      "Successful product writes by action.",
	}, []string{"action"})

	ImageUploadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "image_uploads_total",
		Help:      "Product image uploads by outcome.",
	}, []string{"outcome"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route pattern, method and status class.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method", "status"})
)
