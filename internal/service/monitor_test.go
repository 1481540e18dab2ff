package service

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MediBook/internal/realtime"
)

func newTestMonitor(status func(ctx context.Context, userID int64) (bool, error), sub subscribeFunc) *MonitorService {
	if sub == nil {
		sub = func(ctx context.Context, userID int64) (<-chan realtime.Event, func(), error) {
			return nil, func() {}, nil
		}
	}
	return &MonitorService{
		status:     status,
		subscribe:  sub,
		interval:   10 * time.Millisecond,
		window:     300 * time.Millisecond,
		finalAfter: 250 * time.Millisecond,
	}
}

func TestMonitorReturnsImmediatelyWhenAlreadyConfirmed(t *testing.T) {
	m := newTestMonitor(func(ctx context.Context, userID int64) (bool, error) {
		return true, nil
	}, nil)

	confirmed, err := m.WaitForConfirmation(context.Background(), 1)

	require.NoError(t, err)
	assert.True(t, confirmed)
}

func TestMonitorPollingDetectsConfirmation(t *testing.T) {
	var calls int32
	m := newTestMonitor(func(ctx context.Context, userID int64) (bool, error) {
		return atomic.AddInt32(&calls, 1) >= 3, nil
	}, nil)

	confirmed, err := m.WaitForConfirmation(context.Background(), 1)

	require.NoError(t, err)
	assert.True(t, confirmed)
	assert.GreaterOrEqual(t, atomic.LoadInt32(&calls), int32(3))
}

func TestMonitorWindowExpiryReturnsUnconfirmed(t *testing.T) {
	m := newTestMonitor(func(ctx context.Context, userID int64) (bool, error) {
		return false, nil
	}, nil)
	m.window = 60 * time.Millisecond
	m.finalAfter = 50 * time.Millisecond

	start := time.Now()
	confirmed, err := m.WaitForConfirmation(context.Background(), 1)

	require.NoError(t, err)
	assert.False(t, confirmed)
	assert.GreaterOrEqual(t, time.Since(start), 60*time.Millisecond)
}

func TestMonitorPushEventWinsOverPolling(t *testing.T) {
	events := make(chan realtime.Event, 1)
	events <- realtime.Event{Type: realtime.EventUserConfirmed, UserID: 1}

	closed := false
	m := newTestMonitor(func(ctx context.Context, userID int64) (bool, error) {
		return false, nil
	}, func(ctx context.Context, userID int64) (<-chan realtime.Event, func(), error) {
		return events, func() { closed = true }, nil
	})
	// 轮询间隔远大于窗口，只有推送能在窗口内送达
	m.interval = time.Hour

	confirmed, err := m.WaitForConfirmation(context.Background(), 1)

	require.NoError(t, err)
	assert.True(t, confirmed)
	assert.True(t, closed)
}

func TestMonitorIgnoresEventsForOtherUsers(t *testing.T) {
	events := make(chan realtime.Event, 2)
	events <- realtime.Event{Type: realtime.EventUserConfirmed, UserID: 99}

	m := newTestMonitor(func(ctx context.Context, userID int64) (bool, error) {
		return false, nil
	}, func(ctx context.Context, userID int64) (<-chan realtime.Event, func(), error) {
		return events, func() {}, nil
	})
	m.interval = time.Hour
	m.window = 60 * time.Millisecond
	m.finalAfter = 50 * time.Millisecond

	confirmed, err := m.WaitForConfirmation(context.Background(), 1)

	require.NoError(t, err)
	assert.False(t, confirmed)
}

func TestMonitorContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	m := newTestMonitor(func(ctx context.Context, userID int64) (bool, error) {
		return false, nil
	}, nil)
	m.interval = time.Hour
	m.window = time.Hour
	m.finalAfter = time.Hour

	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := m.WaitForConfirmation(ctx, 1)
	require.ErrorIs(t, err, context.Canceled)
}
