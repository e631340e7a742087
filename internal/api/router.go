package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"smartrouting/internal/api/handlers"
	"smartrouting/internal/metrics"
	"smartrouting/internal/ports"
	"smartrouting/internal/services"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(engine *services.Engine, addresses ports.AddressStore) http.Handler {
	mux := http.NewServeMux()

	routeHandler := &handlers.RouteHandler{Engine: engine}
	addrHandler := &handlers.AddressHandler{Store: addresses}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/routes/calc", routeHandler.Calc)
	mux.HandleFunc("/addresses", addrHandler.List)
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	return requestIDMiddleware(loggingMiddleware(mux))
}
