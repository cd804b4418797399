package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomz197/shapecollide/internal/config"
	"github.com/tomz197/shapecollide/internal/log"
	"github.com/tomz197/shapecollide/internal/server"
	"github.com/tomz197/shapecollide/internal/service"
)

const shutdownTimeout = 5 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger := log.New(log.ParseLevel(cfg.Log.Level))
	defer func() { _ = logger.Sync() }()

	svc := service.New(logger, service.Options{
		Name:     cfg.Name,
		Workers:  cfg.Batch.Workers,
		MaxPairs: cfg.Batch.MaxPairs,
	})

	addr := net.JoinHostPort(cfg.Web.Host, cfg.Web.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           server.New(svc, logger, cfg.SSH.DisplayHost),
		ReadHeaderTimeout: 10 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("starting web server", log.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", log.Err(err))
			os.Exit(1)
		}
	}()

	<-done
	logger.Info("shutting down web server")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", log.Err(err))
	}
}
