// Command fakeapi serves the coupon/order REST API from in-memory fixtures
// for local development of the portal.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Lixing-Zhang/coupon-portal/internal/fakeapi"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	if lvl, err := logrus.ParseLevel(getEnv("LOG_LEVEL", "info")); err == nil {
		logrus.SetLevel(lvl)
	}
	gin.SetMode(gin.ReleaseMode)

	addr := ":" + getEnv("FAKEAPI_PORT", "8080")
	srv := &http.Server{
		Addr:              addr,
		Handler:           fakeapi.New(getEnv("FAKEAPI_JWT_SECRET", "fakeapi-dev-secret")).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logrus.WithFields(logrus.Fields{
			"address": addr,
			"base":    fakeapi.BasePath,
			"user":    fakeapi.DemoUsername,
			"admin":   fakeapi.AdminUsername,
		}).Info("fake api listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.WithError(err).Fatal("fake api failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logrus.WithError(err).Error("fake api forced to shutdown")
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
