package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"MediBook/config"
	"MediBook/storage/redis"
	"MediBook/utils"
)

// 邮件确认 token 与重发限额。token 只存哈希，明文只出现在邮件链接里。

const confirmPrefix = "confirm"

// SetConfirmToken 存储确认 token 对应的用户
// Key: mdbk:confirm:token:{sha256(token)}
func SetConfirmToken(ctx context.Context, token string, userID int64) error {
	key := redis.Key(confirmPrefix, "token", utils.HashToken(token))
	ttl := time.Duration(config.Cfg.ConfirmTokenTTLHours) * time.Hour
	return redis.Client().Set(ctx, key, strconv.FormatInt(userID, 10), ttl).Err()
}

// GetConfirmTokenUser 按 token 取用户 ID，token 无效或过期返回 (0, nil)。
func GetConfirmTokenUser(ctx context.Context, token string) (int64, error) {
	key := redis.Key(confirmPrefix, "token", utils.HashToken(token))

	val, err := redis.Client().Get(ctx, key).Result()
	if err != nil {
		if redis.IsNil(err) {
			return 0, nil
		}
		return 0, err
	}

	userID, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("corrupt confirm token entry: %w", err)
	}
	return userID, nil
}

// DeleteConfirmToken 确认成功后立即作废 token
func DeleteConfirmToken(ctx context.Context, token string) error {
	key := redis.Key(confirmPrefix, "token", utils.HashToken(token))
	return redis.Client().Del(ctx, key).Err()
}

// SetResetToken 存储密码重置 token，1 小时有效。
func SetResetToken(ctx context.Context, token string, userID int64) error {
	key := redis.Key(confirmPrefix, "reset", utils.HashToken(token))
	return redis.Client().Set(ctx, key, strconv.FormatInt(userID, 10), time.Hour).Err()
}

// GetResetTokenUser 按重置 token 取用户 ID，无效或过期返回 (0, nil)。
func GetResetTokenUser(ctx context.Context, token string) (int64, error) {
	key := redis.Key(confirmPrefix, "reset", utils.HashToken(token))

	val, err := redis.Client().Get(ctx, key).Result()
	if err != nil {
		if redis.IsNil(err) {
			return 0, nil
		}
		return 0, err
	}

	userID, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("corrupt reset token entry: %w", err)
	}
	return userID, nil
}

// DeleteResetToken 重置完成后作废 token
func DeleteResetToken(ctx context.Context, token string) error {
	key := redis.Key(confirmPrefix, "reset", utils.HashToken(token))
	return redis.Client().Del(ctx, key).Err()
}

// IncrResendCount 重发计数加一并返回当天累计值，首次写入时挂上到午夜的 TTL。
func IncrResendCount(ctx context.Context, userID int64) (int64, error) {
	day := time.Now().UTC().Format("20060102")
	key := redis.Key(confirmPrefix, "resend", day, strconv.FormatInt(userID, 10))

	count, err := redis.Client().Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if count == 1 {
		if err := redis.Client().Expire(ctx, key, 24*time.Hour).Err(); err != nil {
			return count, err
		}
	}
	return count, nil
}
