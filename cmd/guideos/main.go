package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"guideos/internal/amqp"
	"guideos/internal/config"
	apphttp "guideos/internal/http"
	"guideos/internal/log"
	"guideos/internal/services"
	"guideos/internal/store"
	"guideos/internal/store/memory"
	"guideos/internal/store/sqlite"
)

func main() {
	// .env is optional; real environments set variables directly
	_ = godotenv.Load()

	logger := log.New(log.DefaultConfig())
	log.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", log.FieldError, err.Error())
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var kv store.KV
	switch cfg.DataBackend {
	case "sqlite":
		db, err := sqlite.Open(cfg.SQLiteDBPath)
		if err != nil {
			logger.Error("Failed to open sqlite backend",
				log.FieldError, err.Error(),
				log.FieldBackend, cfg.DataBackend)
			os.Exit(1)
		}
		defer db.Close()
		kv = db
	default:
		kv = memory.New()
	}
	logger.Info("Initialized data backend", log.FieldBackend, cfg.DataBackend)

	// The relay is nil without a broker; every method no-ops then.
	var relay *amqp.Client
	if cfg.AMQPURL != "" {
		var err error
		relay, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			logger.Error("Failed to connect change relay", log.FieldError, err.Error())
			os.Exit(1)
		}
		defer relay.Close()
		logger.Info("Connected change relay", "exchange", cfg.AMQPExchange)
	}

	st := store.New(kv, store.WithNotifier(relay))

	trips := services.NewTrips(st)
	payments := services.NewPayments(st)
	assistant := services.NewAssistant(
		services.WithTypingDelay(cfg.AssistantMinDelay, cfg.AssistantMaxDelay),
	)

	srv := apphttp.NewServer(":"+cfg.Port, trips, payments, assistant, st, logger)
	srv.ReadTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16
	// no WriteTimeout: the event stream holds its response open

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting guideos server", "port", cfg.Port, log.FieldBackend, cfg.DataBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		// signals from other processes feed straight into the local bus
		err := relay.Consume(gctx, st.Broadcast)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutdown signal received", log.FieldOperation, log.OpShutdown)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", log.FieldError, err.Error())
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
