package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"MediBook/config"
	"MediBook/internal/schedule"
	"MediBook/pkg/logger"
	"MediBook/pkg/objstore"
	"MediBook/storage"
)

func main() {
	config.MustValidate()

	logger.Init()
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		logger.Logger.Info("Scheduler received shutdown signal",
			zap.String("signal", sig.String()),
		)
		cancel()
	}()

	if err := storage.Init(); err != nil {
		logger.Logger.Fatal("Failed to initialize storage for scheduler", zap.Error(err))
	}
	defer storage.Close()

	store, err := objstore.NewRESTStore(
		config.Cfg.StorageBaseURL,
		config.Cfg.StorageServiceKey,
		config.Cfg.StorageBucket,
	)
	if err != nil {
		logger.Logger.Fatal("Failed to initialize object storage client", zap.Error(err))
	}

	logger.Logger.Info("Scheduler service starting",
		zap.String("service", config.Cfg.ServiceName+"-scheduler"),
		zap.String("environment", config.Cfg.Environment),
	)

	runReconcileLoop(ctx, store)

	logger.Logger.Info("Scheduler service shutting down gracefully")
}

// runReconcileLoop 周期执行对象存储对账清理，启动时先跑一轮。
func runReconcileLoop(ctx context.Context, store *objstore.RESTStore) {
	r := schedule.GetReconciler(store)

	interval := time.Duration(config.Cfg.ReconcileIntervalMinutes) * time.Minute
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	if err := r.Run(ctx); err != nil {
		logger.Logger.Error("Reconcile sweep failed", zap.Error(err))
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := r.Run(ctx); err != nil {
				logger.Logger.Error("Reconcile sweep failed", zap.Error(err))
			}
		}
	}
}
