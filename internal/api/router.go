package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/wonny/optionlab/backend/internal/api/handlers"
	"github.com/wonny/optionlab/backend/pkg/logger"
)

// NewRouter wires all HTTP routes and middleware.
func NewRouter(
	calculator *handlers.CalculatorHandler,
	portfolio *handlers.PortfolioHandler,
	backtest *handlers.BacktestHandler,
	log *logger.Logger,
) http.Handler {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", healthCheckHandler).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()

	// Calculator endpoints
	api.HandleFunc("/calculator/greeks", calculator.Greeks).Methods("POST")
	api.HandleFunc("/calculator/surface", calculator.Surface).Methods("POST")
	api.HandleFunc("/calculator/scenarios", calculator.Scenarios).Methods("POST")
	api.HandleFunc("/calculator/theta-decay", calculator.ThetaDecay).Methods("POST")

	// Portfolio endpoints
	api.HandleFunc("/portfolio/greeks", portfolio.Greeks).Methods("POST")
	api.HandleFunc("/portfolio/hedge", portfolio.Hedge).Methods("POST")

	// Backtest endpoints
	api.HandleFunc("/backtest/run", backtest.Run).Methods("POST")
	api.HandleFunc("/backtest/strategies", backtest.Strategies).Methods("GET")
	api.HandleFunc("/backtest/stream", backtest.Stream).Methods("GET")

	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))

	return r
}

// healthCheckHandler returns server health status
func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "ok",
		"service": "optionlab-api",
	})
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			next.ServeHTTP(w, r)

			log.WithFields(map[string]interface{}{
				"method":   r.Method,
				"path":     r.URL.Path,
				"duration": time.Since(start),
			}).Debug("HTTP request")
		})
	}
}

// recoveryMiddleware recovers from panics
func recoveryMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.WithFields(map[string]interface{}{
						"error": err,
						"path":  r.URL.Path,
					}).Error("Panic recovered")

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(map[string]string{
						"error": "Internal server error",
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
