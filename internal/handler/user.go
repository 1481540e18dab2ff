package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"MediBook/internal/service"
	"MediBook/pkg/response"
)

// Me 当前用户信息
// GET /v1/users/me
func Me(ctx context.Context, c *app.RequestContext) {
	userID, ok := currentUserID(ctx, c)
	if !ok {
		return
	}

	snap, err := service.Auth().Me(ctx, userID)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}
	response.Success(ctx, c, snap)
}
