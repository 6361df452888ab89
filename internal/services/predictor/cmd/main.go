package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/agri-hub/irrigation-backend/internal/mlmodel"
	"github.com/agri-hub/irrigation-backend/internal/services/predictor"
	"github.com/agri-hub/irrigation-backend/internal/statestore"
)

func main() {
	cfg := loadConfig()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// === Model artifacts ===
	artifacts, err := mlmodel.Load(cfg.ModelPath)
	if err != nil {
		log.Fatalf("model load error: %v", err)
	}
	log.Printf("model loaded from %s (%d features)", cfg.ModelPath, artifacts.FeatureCount())

	// === State store ===
	base, err := statestore.New(cfg.Store)
	if err != nil {
		log.Fatalf("state store error: %v", err)
	}
	store := statestore.NewBreakerStore(base, cfg.BreakerFailures, cfg.BreakerOpenFor)

	// === Core ===
	pipeline, err := predictor.NewPipeline(store, artifacts, predictor.Config{
		District: cfg.District,
		Zone:     cfg.Zone,
		Season:   cfg.Season,
	})
	if err != nil {
		log.Fatalf("pipeline error: %v", err)
	}
	svc := predictor.NewService(store, pipeline, nil)

	// Exactly one poller for the process lifetime.
	poller := predictor.NewPoller(store, pipeline, cfg.PollInterval, cfg.MaxPollErrors, nil)
	go poller.Run(ctx)

	// === HTTP ===
	hs := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.HTTPPort),
		Handler:           predictor.NewRouter(svc),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Printf("predictor listening on %s", hs.Addr)
		if err := hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := hs.Shutdown(shutdownCtx); err != nil {
		log.Printf("http shutdown error: %v", err)
	}
}
