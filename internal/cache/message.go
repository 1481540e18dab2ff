package cache

import (
	"context"
	"time"

	"MediBook/storage/redis"
)

const messagePrefix = "message"

// TryMarkMessageProcessing 尝试标记消息进入处理，返回 false 表示已有人在处理。
// 消费者靠它做幂等，重复投递直接跳过。
func TryMarkMessageProcessing(ctx context.Context, messageID string, ttl time.Duration) (bool, error) {
	key := redis.Key(messagePrefix, "processing", messageID)
	return redis.Client().SetNX(ctx, key, "1", ttl).Result()
}

// UnmarkMessageProcessing 处理失败时取消标记，允许重试。
func UnmarkMessageProcessing(ctx context.Context, messageID string) error {
	key := redis.Key(messagePrefix, "processing", messageID)
	return redis.Client().Del(ctx, key).Err()
}
