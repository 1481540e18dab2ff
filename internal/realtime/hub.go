package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"MediBook/pkg/logger"
	"MediBook/storage/redis"
)

// 确认事件的实时分发，走 Redis Pub/Sub。
// Hub 由启动代码构造后显式注入使用方，不做包级单例，
// 句柄的生命周期跟着持有它的服务走。

const EventUserConfirmed = "user_confirmed"

// Event 一条实时事件
type Event struct {
	Type   string    `json:"type"`
	UserID int64     `json:"user_id"`
	Email  string    `json:"email"`
	At     time.Time `json:"at"`
}

// Hub 事件发布与订阅的入口
type Hub struct {
	rdb *goredis.Client
}

func NewHub(rdb *goredis.Client) *Hub {
	return &Hub{rdb: rdb}
}

func userChannel(userID int64) string {
	return redis.Key("events", "user", strconv.FormatInt(userID, 10))
}

// PublishUserConfirmed 广播某用户邮箱确认完成
func (h *Hub) PublishUserConfirmed(ctx context.Context, userID int64, email string) error {
	payload, err := json.Marshal(Event{
		Type:   EventUserConfirmed,
		UserID: userID,
		Email:  email,
		At:     time.Now(),
	})
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	return h.rdb.Publish(ctx, userChannel(userID), payload).Err()
}

// Subscription 一个活跃订阅。用完必须 Close，否则底层连接泄漏。
type Subscription struct {
	pubsub *goredis.PubSub
	events chan Event
	cancel context.CancelFunc
}

// Events 解码后的事件流，订阅关闭时通道关闭。
func (s *Subscription) Events() <-chan Event {
	return s.events
}

// Close 退订并释放连接
func (s *Subscription) Close() error {
	s.cancel()
	return s.pubsub.Close()
}

// SubscribeUser 订阅某用户的事件通道
func (h *Hub) SubscribeUser(ctx context.Context, userID int64) (*Subscription, error) {
	pubsub := h.rdb.Subscribe(ctx, userChannel(userID))

	// 确认订阅建立，避免发布跑在订阅前面
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("subscribe user %d: %w", userID, err)
	}

	subCtx, cancel := context.WithCancel(context.Background())
	sub := &Subscription{
		pubsub: pubsub,
		events: make(chan Event, 8),
		cancel: cancel,
	}

	go func() {
		defer close(sub.events)
		ch := pubsub.Channel()
		for {
			select {
			case <-subCtx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var ev Event
				if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					logger.Logger.Warn("drop malformed realtime event",
						zap.String("channel", msg.Channel),
						zap.Error(err),
					)
					continue
				}
				select {
				case sub.events <- ev:
				case <-subCtx.Done():
					return
				}
			}
		}
	}()

	return sub, nil
}
