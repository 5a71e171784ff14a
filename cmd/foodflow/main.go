package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"foodflow/internal/common/logger"
	"foodflow/internal/config"
	"foodflow/internal/connections/database"
	"foodflow/internal/connections/rabbitmq"
	"foodflow/internal/eventbus"
	"foodflow/internal/handlers"
	"foodflow/internal/notify"
	"foodflow/internal/receipt"
	"foodflow/internal/repository"
	"foodflow/internal/service"
	"foodflow/internal/tablesync"
)

func main() {
	lg := logger.New("foodflow")
	if err := run(lg); err != nil {
		lg.Error("fatal", err, nil)
		os.Exit(1)
	}
}

func run(lg *logger.Logger) error {
	cfg, err := config.New()
	if err != nil {
		return err
	}
	lg.SetLevel(cfg.LogLevel)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	db, err := database.Connect(ctx, cfg.DatabaseURI)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := database.Migrate(db); err != nil {
		return err
	}
	lg.Info("database_ready", nil)

	bus := eventbus.New(lg)
	defer bus.Close()

	repo := repository.New(db)
	sync := tablesync.New(repo.Orders, repo.Tables, bus, lg)
	receipts := receipt.New(repo.Orders, repo.Details)
	svc := service.New(repo, bus, sync, receipts, lg)

	if cfg.RabbitMQURL != "" {
		mq, err := rabbitmq.Dial(cfg.RabbitMQURL)
		if err != nil {
			return err
		}
		defer mq.Close()
		relay := notify.Start(bus, mq, lg)
		defer relay.Stop()
		lg.Info("event_relay_started", map[string]any{"exchange": rabbitmq.FanoutExchange})
	}

	h := handlers.New(svc, bus, lg, cfg.StreamHeartbeat)
	// No WriteTimeout: the SSE stream holds its connection open.
	srv := &http.Server{
		Addr:        cfg.Address,
		Handler:     handlers.Router(h),
		ReadTimeout: 5 * time.Second,
		IdleTimeout: 120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		lg.Info("service_started", map[string]any{"address": cfg.Address})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shCtx, shCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer shCancel()
		return srv.Shutdown(shCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	lg.Info("service_stopped", nil)
	return nil
}
