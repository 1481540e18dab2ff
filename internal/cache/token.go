package cache

import (
	"context"
	"strconv"
	"time"

	"MediBook/config"
	"MediBook/storage/redis"
	"MediBook/utils"
)

const tokenPrefix = "token"

// SetRefreshToken 存储 refresh token 的哈希
// Key: mdbk:token:refresh:{user_id}
// TTL: 跟随 JWT_REFRESH_DAYS
func SetRefreshToken(ctx context.Context, userID int64, refreshToken string) error {
	key := redis.Key(tokenPrefix, "refresh", strconv.FormatInt(userID, 10))
	ttl := time.Duration(config.Cfg.JWTRefreshDays) * 24 * time.Hour
	return redis.Client().Set(ctx, key, utils.HashToken(refreshToken), ttl).Err()
}

// ValidateRefreshToken 检查 refresh token 是否仍然有效且匹配
func ValidateRefreshToken(ctx context.Context, userID int64, refreshToken string) bool {
	key := redis.Key(tokenPrefix, "refresh", strconv.FormatInt(userID, 10))
	stored, err := redis.Client().Get(ctx, key).Result()
	if err != nil {
		return false
	}
	return stored == utils.HashToken(refreshToken)
}

// DeleteRefreshToken 登出或轮换时作废旧 token
func DeleteRefreshToken(ctx context.Context, userID int64) error {
	key := redis.Key(tokenPrefix, "refresh", strconv.FormatInt(userID, 10))
	return redis.Client().Del(ctx, key).Err()
}
