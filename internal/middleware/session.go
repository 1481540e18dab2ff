package middleware

import (
	"github.com/cloudwego/hertz/pkg/app"
	"github.com/hertz-contrib/sessions"
	"github.com/hertz-contrib/sessions/redis"

	"MediBook/config"
)

// SessionMiddleware 基于 Redis 的 cookie 会话。
// 多步表单的累积状态以会话 ID 为键，cookie 只存 ID 不存数据。
func SessionMiddleware() (app.HandlerFunc, error) {
	cfg := config.Cfg

	store, err := redis.NewStore(10, "tcp", cfg.RedisAddr, cfg.RedisPassword, []byte(cfg.SessionSecret))
	if err != nil {
		return nil, err
	}

	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   cfg.SessionTTLHours * 3600,
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
	})

	return sessions.New(cfg.SessionCookieName, store), nil
}
