package api

import (
	"net/http"

	"food-delivery-service/internal/api/handlers"
	"food-delivery-service/internal/metrics"
	"food-delivery-service/internal/ports"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Deps holds everything the HTTP layer needs. Plans, Cache and DB may be nil.
type Deps struct {
	Restaurants ports.RestaurantRepository
	Plans       ports.PlanRepository
	Cache       ports.DistanceCache
	DB          handlers.Pinger
	Defaults    handlers.PlanDefaults

	// Token bucket applied to POST /plans; RateLimitRPS <= 0 disables it.
	RateLimitRPS   float64
	RateLimitBurst int
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(deps Deps) http.Handler {
	metrics.RegisterDefault()
	mux := http.NewServeMux()

	healthHandler := &handlers.HealthHandler{DB: deps.DB}
	restaurantHandler := &handlers.RestaurantHandler{Repo: deps.Restaurants}
	planHandler := &handlers.PlanHandler{
		Restaurants: deps.Restaurants,
		Plans:       deps.Plans,
		Cache:       deps.Cache,
		Defaults:    deps.Defaults,
	}

	mux.HandleFunc("/health", healthHandler.Health)
	mux.HandleFunc("/restaurants", restaurantHandler.List)
	mux.Handle("/plans", rateLimit(deps.RateLimitRPS, deps.RateLimitBurst, http.HandlerFunc(planHandler.Plan)))
	mux.HandleFunc("/plans/{id}", planHandler.Get)
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	return requestIDMiddleware(loggingMiddleware(mux))
}
