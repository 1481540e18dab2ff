package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"MediBook/config"
	"MediBook/internal/form"
	"MediBook/storage/redis"
	"MediBook/utils"
)

// 多步表单的累积状态按会话存在 Redis。
// 里面有手机号、出生日期这类敏感字段，落 Redis 前整体加密。

const onboardingPrefix = "onboarding"

func sessionTTL() time.Duration {
	return time.Duration(config.Cfg.SessionTTLHours) * time.Hour
}

// SetOnboardingState 保存引导会话状态
// Key: mdbk:onboarding:state:{session_id}
func SetOnboardingState(ctx context.Context, sessionID string, state *form.State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal onboarding state: %w", err)
	}

	sealed, err := utils.EncryptBytes(data)
	if err != nil {
		return fmt.Errorf("encrypt onboarding state: %w", err)
	}

	key := redis.Key(onboardingPrefix, "state", sessionID)
	return redis.Client().Set(ctx, key, sealed, sessionTTL()).Err()
}

// GetOnboardingState 读取引导会话状态，不存在时返回 (nil, nil)。
func GetOnboardingState(ctx context.Context, sessionID string) (*form.State, error) {
	key := redis.Key(onboardingPrefix, "state", sessionID)

	sealed, err := redis.Client().Get(ctx, key).Result()
	if err != nil {
		if redis.IsNil(err) {
			return nil, nil
		}
		return nil, err
	}

	data, err := utils.DecryptBytes(sealed)
	if err != nil {
		return nil, fmt.Errorf("decrypt onboarding state: %w", err)
	}

	var state form.State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("unmarshal onboarding state: %w", err)
	}
	return &state, nil
}

// TouchOnboardingState 活跃会话续期
func TouchOnboardingState(ctx context.Context, sessionID string) error {
	key := redis.Key(onboardingPrefix, "state", sessionID)
	return redis.Client().Expire(ctx, key, sessionTTL()).Err()
}

// DeleteOnboardingState 提交成功后清掉会话状态
func DeleteOnboardingState(ctx context.Context, sessionID string) error {
	key := redis.Key(onboardingPrefix, "state", sessionID)
	return redis.Client().Del(ctx, key).Err()
}
