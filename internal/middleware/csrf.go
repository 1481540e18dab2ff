package middleware

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/hertz-contrib/csrf"

	"MediBook/config"
	"MediBook/pkg/errors"
	"MediBook/pkg/response"
)

// CSRFMiddleware 会话路由的 CSRF 防护，必须挂在 SessionMiddleware 之后。
// token 从 X-CSRF-TOKEN 头取，密钥复用会话密钥。
func CSRFMiddleware() app.HandlerFunc {
	return csrf.New(
		csrf.WithSecret(config.Cfg.SessionSecret),
		csrf.WithKeyLookUp("header:X-CSRF-TOKEN"),
		csrf.WithErrorFunc(func(ctx context.Context, c *app.RequestContext) {
			c.Abort()
			response.Error(ctx, c, errors.Unauthorized)
		}),
	)
}
