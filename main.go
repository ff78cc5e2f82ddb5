package main

import (
	"crypto/tls"
	"encoding/json"
	stdlog "log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"

	"github.com/LibertytechX/seeds-metrics-sub003/src/config"
	"github.com/LibertytechX/seeds-metrics-sub003/src/database"
	"github.com/LibertytechX/seeds-metrics-sub003/src/handlers"
	"github.com/LibertytechX/seeds-metrics-sub003/src/logger"
	"github.com/LibertytechX/seeds-metrics-sub003/src/services"
)

func proxyHeadersMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Forwarded-Proto") == "https" {
			r.URL.Scheme = "https"
			r.TLS = &tls.ConnectionState{}
		}
		next.ServeHTTP(w, r)
	})
}

var limiter = rate.NewLimiter(rate.Every(100*time.Millisecond), 30)

func rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow() {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
			logger.L.Warn("Rate limit exceeded", "path", r.URL.Path)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		allowedOrigins := map[string]bool{
			"http://localhost:3000":    true,
			config.Cfg.FrontendBaseURL: true,
		}

		if allowedOrigins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE, PATCH")
			w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, Authorization, X-Requested-With, If-None-Match")
		} else if origin == "" {
			w.Header().Set("Access-Control-Allow-Origin", "*")
		}

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func main() {
	config.LoadConfig()
	logger.InitLogger(config.Cfg.LogLevel)

	logger.L.Info("Seeds metrics engine starting...")

	logger.L.Info("Initializing database...", "path", config.Cfg.DatabasePath)
	database.InitDB(config.Cfg.DatabasePath)
	database.RunMigrations(config.Cfg.DatabasePath)

	snapshotService := services.NewSnapshotService(database.DB)
	metricsService := services.NewMetricsService(database.DB, snapshotService)

	loanHandler := handlers.NewLoanHandler(metricsService)
	repaymentHandler := handlers.NewRepaymentHandler(metricsService)
	scheduleHandler := handlers.NewScheduleHandler(metricsService)
	metricsHandler := handlers.NewMetricsHandler(metricsService)
	dashboardHandler := handlers.NewDashboardHandler(snapshotService)

	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(handlers.ContextualLoggerMiddleware)
	r.Use(proxyHeadersMiddleware)
	r.Use(enableCORS)
	r.Use(rateLimitMiddleware)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "Seeds metrics engine is running"})
	})
	r.Get("/health", handlers.HandleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		// ETL write paths: each write recomputes the affected loan in the
		// same transaction.
		r.Post("/loans", loanHandler.HandleUpsertLoan)
		r.Post("/repayments", repaymentHandler.HandleUpsertRepayment)
		r.Post("/schedule-entries", scheduleHandler.HandleUpsertScheduleEntries)

		r.Get("/loans/{loanID}", loanHandler.HandleGetLoan)

		r.Post("/metrics/recalculate", metricsHandler.HandleRecalculate)
		r.Get("/dashboard/officers", dashboardHandler.HandleGetOfficers)
		r.Get("/dashboard/portfolio", dashboardHandler.HandleGetPortfolio)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/api/") {
			http.NotFound(w, r)
		}
	})

	serverAddr := ":" + config.Cfg.Port
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.L.Info("Server starting", "address", serverAddr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		stdlog.Fatalf("Failed to start server: %v", err)
	}
}
