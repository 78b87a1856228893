// Command loadtest posts concurrent orders to the order endpoint and
// reports latency statistics. Environment variables set the defaults and
// flags override them.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Lixing-Zhang/coupon-portal/internal/apiclient"
	"github.com/Lixing-Zhang/coupon-portal/internal/loadtest"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg := loadtest.FromEnv(os.Getenv)

	fs := flag.NewFlagSet("loadtest", flag.ExitOnError)
	fs.StringVar(&cfg.BaseURL, "base-url", cfg.BaseURL, "API base URL")
	fs.StringVar(&cfg.Token, "token", cfg.Token, "bearer token")
	fs.StringVar(&cfg.Username, "username", cfg.Username, "log in as this user when no token is given")
	fs.StringVar(&cfg.Password, "password", cfg.Password, "password for -username")
	fs.IntVar(&cfg.VUs, "vus", cfg.VUs, "concurrent virtual users")
	fs.IntVar(&cfg.Iterations, "iterations", cfg.Iterations, "iterations shared by all users")
	fs.DurationVar(&cfg.MaxDuration, "max-duration", cfg.MaxDuration, "upper bound for the whole run")
	fs.Int64Var(&cfg.UserID, "user-id", cfg.UserID, "userId sent with each order")
	fs.Int64Var(&cfg.OrderAmount, "amount", cfg.OrderAmount, "orderAmount sent with each order")
	fs.StringVar(&cfg.CouponCode, "coupon", cfg.CouponCode, "couponCode sent with each order")
	fs.StringVar(&cfg.OrderDate, "order-date", cfg.OrderDate, "orderDate sent with each order")
	fs.StringVar(&cfg.RequestIDPrefix, "request-id-prefix", cfg.RequestIDPrefix, "prefix for generated request ids")
	fs.StringVar(&cfg.RequestID, "request-id", cfg.RequestID, "send this request id on every iteration instead of generated ones")
	verbose := fs.Bool("v", false, "log response bodies")
	_ = fs.Parse(os.Args[1:])

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if *verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	if err := cfg.Validate(); err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Token == "" {
		api := apiclient.New(cfg.BaseURL, 10*time.Second, slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))
		if err := loadtest.FetchToken(ctx, api, &cfg); err != nil {
			log.WithError(err).Fatal("could not obtain a token")
		}
	}

	log.WithFields(logrus.Fields{
		"url":          cfg.BaseURL + loadtest.OrderPath,
		"vus":          cfg.VUs,
		"iterations":   cfg.Iterations,
		"max_duration": cfg.MaxDuration,
	}).Info("starting run")

	sum, _ := loadtest.NewRunner(cfg, &http.Client{}, log).Run(ctx)
	log.WithFields(sum.Fields()).Info("run finished")

	if sum.Iterations < cfg.Iterations {
		fmt.Fprintf(os.Stderr, "only %d of %d iterations ran before the deadline\n", sum.Iterations, cfg.Iterations)
	}
	if sum.Failed > 0 {
		os.Exit(1)
	}
}
