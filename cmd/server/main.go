package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Lixing-Zhang/coupon-portal/internal/apiclient"
	"github.com/Lixing-Zhang/coupon-portal/internal/config"
	"github.com/Lixing-Zhang/coupon-portal/internal/handlers"
	"github.com/Lixing-Zhang/coupon-portal/internal/middleware"
	"github.com/Lixing-Zhang/coupon-portal/internal/service"
	"github.com/Lixing-Zhang/coupon-portal/internal/session"
	"github.com/Lixing-Zhang/coupon-portal/internal/view"
	"github.com/Lixing-Zhang/coupon-portal/pkg/logger"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func main() {
	// Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	log.Info("starting coupon portal",
		"port", cfg.Server.Port,
		"host", cfg.Server.Host,
		"api_base_url", cfg.API.BaseURL,
		"log_level", cfg.LogLevel,
	)

	renderer, err := view.New(log)
	if err != nil {
		log.Error("failed to parse templates", "error", err)
		os.Exit(1)
	}

	client := apiclient.New(cfg.API.BaseURL, cfg.API.Timeout, log)
	store := session.NewStore(cfg.Session.DefaultPageSize)

	// Initialize services
	authService := service.NewAuthService(client, log)
	couponService := service.NewCouponService(client, log)
	orderService := service.NewOrderService(client, log)
	adminService := service.NewAdminService(client, log)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(store, log)
	appHandler := handlers.NewAppHandler(authService, couponService, orderService, renderer, log)
	adminHandler := handlers.NewAdminHandler(adminService, renderer, log)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(log))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", healthHandler.ServeHTTP)
	r.Handle("/static/*", http.StripPrefix("/static/", view.Static()))

	// Pages carry the session cookie
	r.Group(func(r chi.Router) {
		r.Use(middleware.Session(store, cfg.Session, log))
		appHandler.Routes(r)
		adminHandler.Routes(r)
	})

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		log.Info("server listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped gracefully", "sessions", store.Len())
}
