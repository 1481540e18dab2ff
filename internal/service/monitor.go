package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"MediBook/config"
	"MediBook/internal/realtime"
	"MediBook/pkg/logger"
)

// 邮箱确认监控：推送优先，订阅确认事件；轮询只是兜底，
// 固定间隔查确认状态，窗口收尾前再查最后一次。
// 超出窗口仍未确认按未确认返回，不算错误。

var (
	monitorService *MonitorService
	monitorOnce    sync.Once
)

func Monitor() *MonitorService {
	monitorOnce.Do(func() {
		cfg := config.Cfg
		monitorService = &MonitorService{
			status:     func(ctx context.Context, userID int64) (bool, error) { return Verification().Status(ctx, userID) },
			subscribe:  hubSubscriber(deps.Hub),
			interval:   time.Duration(cfg.VerifyPollIntervalSeconds) * time.Second,
			window:     time.Duration(cfg.VerifyPollWindowSeconds) * time.Second,
			finalAfter: time.Duration(cfg.VerifyFinalCheckSeconds) * time.Second,
		}
	})
	return monitorService
}

type subscribeFunc func(ctx context.Context, userID int64) (<-chan realtime.Event, func(), error)

func hubSubscriber(hub *realtime.Hub) subscribeFunc {
	return func(ctx context.Context, userID int64) (<-chan realtime.Event, func(), error) {
		if hub == nil {
			return nil, func() {}, nil
		}
		sub, err := hub.SubscribeUser(ctx, userID)
		if err != nil {
			return nil, func() {}, err
		}
		return sub.Events(), func() { _ = sub.Close() }, nil
	}
}

type MonitorService struct {
	status     func(ctx context.Context, userID int64) (bool, error)
	subscribe  subscribeFunc
	interval   time.Duration
	window     time.Duration
	finalAfter time.Duration
}

// WaitForConfirmation 阻塞等待用户完成邮箱确认。
// 返回 (true, nil) 表示已确认，(false, nil) 表示窗口内未确认。
func (s *MonitorService) WaitForConfirmation(ctx context.Context, userID int64) (bool, error) {
	// 先查一次，已经确认就不用等
	confirmed, err := s.status(ctx, userID)
	if err != nil {
		logger.Logger.Warn("Confirmation status check failed",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
	} else if confirmed {
		return true, nil
	}

	events, closeSub, err := s.subscribe(ctx, userID)
	if err != nil {
		// 订阅失败退化成纯轮询
		logger.Logger.Warn("Realtime subscribe failed, falling back to polling only",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
		events = nil
		closeSub = func() {}
	}

	ticker := time.NewTicker(s.interval)
	finalCheck := time.NewTimer(s.finalAfter)
	deadline := time.NewTimer(s.window)

	// 所有计时器和订阅在退出时统一回收
	defer func() {
		ticker.Stop()
		finalCheck.Stop()
		deadline.Stop()
		closeSub()
	}()

	check := func() (bool, bool) {
		confirmed, err := s.status(ctx, userID)
		if ctx.Err() != nil {
			// 收尾之后到达的结果直接丢弃
			return false, false
		}
		if err != nil {
			logger.Logger.Warn("Confirmation poll failed",
				zap.Int64("user_id", userID),
				zap.Error(err),
			)
			return false, false
		}
		return confirmed, confirmed
	}

	for {
		select {
		case <-ctx.Done():
			return false, ctx.Err()

		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if ev.Type == realtime.EventUserConfirmed && ev.UserID == userID {
				return true, nil
			}

		case <-ticker.C:
			if confirmed, done := check(); done {
				return confirmed, nil
			}

		case <-finalCheck.C:
			if confirmed, done := check(); done {
				return confirmed, nil
			}

		case <-deadline.C:
			return false, nil
		}
	}
}
