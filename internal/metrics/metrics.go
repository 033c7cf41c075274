package metrics

import (
	"sync"
	"time"

	"food-delivery-service/internal/domain"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	// Registry is the dedicated Prometheus registry served on /metrics
	Registry = prometheus.NewRegistry()
	// HTTPRequests counts requests by method, route, and status
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests."},
		[]string{"method", "path", "status"},
	)
	// HTTPDuration records request durations in seconds
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP request duration in seconds.", Buckets: prometheus.DefBuckets},
		[]string{"method", "path", "status"},
	)
	// RateLimited counts requests rejected by the rate limiter
	RateLimited = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "http_rate_limited_total", Help: "Requests rejected with 429."},
	)

	// OrdersAssigned counts orders placed on a rider route
	OrdersAssigned = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "optimizer_orders_assigned_total", Help: "Orders assigned to a rider."},
	)
	// OrdersUnassigned counts orders left out of every route, by reason
	OrdersUnassigned = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "optimizer_orders_unassigned_total", Help: "Orders left unassigned by reason."},
		[]string{"reason"},
	)
	// PlanDuration tracks end-to-end planning latency in seconds
	PlanDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{Name: "optimizer_plan_duration_seconds", Help: "Delivery planning duration in seconds.", Buckets: prometheus.DefBuckets},
	)
	// PlanTotalTime records the summed route time of each plan
	PlanTotalTime = prometheus.NewHistogram(
		prometheus.HistogramOpts{Name: "optimizer_plan_total_time_units", Help: "Sum of rider route times per plan.", Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000}},
	)
)

// RegisterDefault registers all collectors on Registry. Safe to call more than once.
func RegisterDefault() {
	regOnce.Do(func() {
		Registry.MustRegister(HTTPRequests)
		Registry.MustRegister(HTTPDuration)
		Registry.MustRegister(RateLimited)
		Registry.MustRegister(OrdersAssigned)
		Registry.MustRegister(OrdersUnassigned)
		Registry.MustRegister(PlanDuration)
		Registry.MustRegister(PlanTotalTime)
		// Go/process collectors on our registry
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}

var regOnce sync.Once

// ObservePlan records the outcome of one planning run.
func ObservePlan(plan *domain.Plan, d time.Duration) {
	if plan == nil {
		return
	}
	OrdersAssigned.Add(float64(plan.DeliveredCount()))
	for _, u := range plan.Unassigned {
		OrdersUnassigned.WithLabelValues(string(u.Reason)).Inc()
	}
	PlanDuration.Observe(d.Seconds())
	PlanTotalTime.Observe(float64(plan.TotalTime()))
}
