package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	hertzconfig "github.com/cloudwego/hertz/pkg/common/config"
	"go.uber.org/zap"

	"MediBook/config"
	"MediBook/internal/middleware"
	"MediBook/internal/realtime"
	"MediBook/internal/router"
	"MediBook/internal/service"
	"MediBook/pkg/geocode"
	"MediBook/pkg/logger"
	"MediBook/pkg/metrics"
	"MediBook/pkg/objstore"
	"MediBook/pkg/otel"
	"MediBook/pkg/snowflake"
	"MediBook/pkg/token"
	"MediBook/storage"
	"MediBook/storage/database"
	"MediBook/storage/redis"
)

func main() {
	config.MustValidate()

	logger.Init()
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		logger.Logger.Info("Received shutdown signal",
			zap.String("signal", sig.String()),
		)
		cancel()
	}()

	if config.Cfg.TracingEnabled {
		shutdown, err := otel.InitOpenTelemetry(ctx, otel.Config{
			ServiceName:  config.Cfg.ServiceName,
			Environment:  config.Cfg.Environment,
			OTLPEndpoint: config.Cfg.OTLPEndpoint,
		})
		if err != nil {
			logger.Logger.Warn("Failed to initialize OpenTelemetry, tracing disabled", zap.Error(err))
		} else {
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(shutdownCtx); err != nil {
					logger.Logger.Error("Failed to shutdown OpenTelemetry", zap.Error(err))
				}
			}()
		}
	}

	// 初始化存储层，记得关闭外部连接
	if err := storage.Init(); err != nil {
		logger.Logger.Fatal("Failed to initialize storage", zap.Error(err))
	}
	defer storage.Close()

	if err := snowflake.Init(config.Cfg.SnowflakeMachineID, config.Cfg.SnowflakeDataCenter); err != nil {
		logger.Logger.Fatal("Failed to initialize snowflake", zap.Error(err))
	}

	if err := token.Init(); err != nil {
		logger.Logger.Fatal("Failed to initialize token package", zap.Error(err))
	} // token 在中间件前初始化，middleware 依赖 token

	if err := middleware.Init(); err != nil {
		logger.Logger.Fatal("Failed to initialize middlewares", zap.Error(err))
	}

	if err := metrics.InitMetrics(); err != nil {
		logger.Logger.Warn("Failed to initialize metrics", zap.Error(err))
	}

	store, err := objstore.NewRESTStore(
		config.Cfg.StorageBaseURL,
		config.Cfg.StorageServiceKey,
		config.Cfg.StorageBucket,
	)
	if err != nil {
		logger.Logger.Fatal("Failed to initialize object storage client", zap.Error(err))
	}

	geo, err := geocode.NewNominatimClient(config.Cfg.GeocodeBaseURL, config.Cfg.GeocodeContact)
	if err != nil {
		logger.Logger.Fatal("Failed to initialize geocode client", zap.Error(err))
	}

	service.Setup(service.Dependencies{
		DB:    database.DB(),
		Store: store,
		Geo:   geo,
		Hub:   realtime.NewHub(redis.Client()),
	})

	logger.Logger.Info("Server starting",
		zap.String("service", config.Cfg.ServiceName),
		zap.String("port", config.Cfg.ServerPort),
		zap.String("environment", config.Cfg.Environment),
	)

	addr := net.JoinHostPort(config.Cfg.ServerHost, config.Cfg.ServerPort)
	opts := []hertzconfig.Option{server.WithHostPorts(addr)}

	// 开启 tracing 时挂上 Hertz 的 server tracer，负责从请求头提取上游 trace 上下文
	var tracingMW app.HandlerFunc
	if config.Cfg.TracingEnabled {
		var tracerOpt hertzconfig.Option
		tracerOpt, tracingMW = middleware.NewServerTracerConfig()
		opts = append(opts, tracerOpt)
	}

	h := server.Default(opts...)
	if tracingMW != nil {
		h.Use(tracingMW)
	}

	if err := router.Register(h); err != nil {
		logger.Logger.Fatal("Failed to register routes", zap.Error(err))
	}

	// 优雅关闭：在单独的 goroutine 中监听关闭信号并调用 Shutdown
	go func() {
		<-ctx.Done()
		logger.Logger.Info("Initiating graceful shutdown...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := h.Shutdown(shutdownCtx); err != nil {
			logger.Logger.Error("Failed to shutdown HTTP server", zap.Error(err))
		}
	}()

	logger.Logger.Info("HTTP server listening", zap.String("addr", addr))

	h.Spin()

	logger.Logger.Info("Server shutting down gracefully")
}
