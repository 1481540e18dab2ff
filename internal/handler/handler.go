package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/google/uuid"
	"github.com/hertz-contrib/sessions"

	"MediBook/internal/middleware"
	"MediBook/pkg/errors"
	"MediBook/pkg/response"
)

// 会话里存引导会话 ID 的键
const onboardingSessionKey = "onboarding_id"

// currentUserID 从 JWT 身份取用户 ID，失败时直接写出错误响应。
func currentUserID(ctx context.Context, c *app.RequestContext) (int64, bool) {
	idStr, exists := middleware.GetUserID(ctx, c)
	if !exists {
		response.Error(ctx, c, errors.Unauthorized)
		return 0, false
	}

	userID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		response.Error(ctx, c, errors.InvalidUserID)
		return 0, false
	}
	return userID, true
}

// onboardingSessionID 取或建引导会话 ID。ID 存在 cookie 会话里，
// 表单状态本身以它为键落在 Redis。
func onboardingSessionID(c *app.RequestContext) (string, error) {
	s := sessions.Default(c)
	if v, ok := s.Get(onboardingSessionKey).(string); ok && v != "" {
		return v, nil
	}

	id := uuid.NewString()
	s.Set(onboardingSessionKey, id)
	if err := s.Save(); err != nil {
		return "", err
	}
	return id, nil
}

func internalError(ctx context.Context, c *app.RequestContext, err error) {
	c.JSON(http.StatusInternalServerError, map[string]interface{}{
		"error":   "Internal server error",
		"details": err.Error(),
	})
}
