package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.opentelemetry.io/otel"

	"calculator-api/internal/calculator"
	"calculator-api/internal/config"
	"calculator-api/internal/handlers"
	"calculator-api/internal/observability"
)

func NewRouter(cfg config.Config) (http.Handler, error) {

	metrics, err := calculator.NewMetrics(otel.Meter("calculator"))
	if err != nil {
		return nil, err
	}
	calc := calculator.NewHandler(metrics, cfg.MaxBodyBytes)

	r := chi.NewRouter()

	r.Use(observability.RequestIDMiddleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", observability.RequestIDHeader},
		ExposedHeaders: []string{observability.RequestIDHeader},
		MaxAge:         300,
	}))
	r.Use(observability.TracingMiddleware)
	r.Use(observability.LoggingMiddleware)

	r.Get("/", handlers.Health)
	r.Get("/health", handlers.Health)

	calculator.RegisterRoutes(r, calc)

	r.Handle("/metrics", observability.PrometheusHandler())

	return r, nil
}
