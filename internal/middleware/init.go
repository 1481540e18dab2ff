package middleware

import (
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"MediBook/pkg/logger"
)

// Init 初始化所有中间件
func Init() error {
	if err := initAuthMiddleware(); err != nil {
		logger.Logger.Error("Failed to initialize auth middleware", zap.Error(err))
		return err
	}

	// HTTP 指标必须在 OpenTelemetryMiddleware 挂载前建好，
	// 没装 SDK 时拿到的是 noop meter，一样可用
	if err := InitMetrics(otel.Meter("medibook/http")); err != nil {
		logger.Logger.Error("Failed to initialize HTTP metrics", zap.Error(err))
		return err
	}

	logger.Logger.Info("All middlewares initialized successfully")
	return nil
}
