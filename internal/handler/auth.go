package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"
	"go.uber.org/zap"

	"MediBook/internal/model/dto"
	"MediBook/internal/service"
	"MediBook/pkg/errors"
	"MediBook/pkg/logger"
	"MediBook/pkg/response"
)

// Signup 邮箱注册
// POST /v1/auth/signup
func Signup(ctx context.Context, c *app.RequestContext) {
	var req dto.SignupRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	resp, err := service.Auth().Signup(ctx, req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}
	response.Success(ctx, c, resp)
}

// Login 邮箱密码登录
// POST /v1/auth/login
func Login(ctx context.Context, c *app.RequestContext) {
	var req dto.LoginRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	resp, err := service.Auth().Login(ctx, req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}
	response.Success(ctx, c, resp)
}

// RefreshToken 刷新令牌对
// POST /v1/auth/token/refresh
func RefreshToken(ctx context.Context, c *app.RequestContext) {
	var req dto.RefreshRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	resp, err := service.Auth().Refresh(ctx, req.RefreshToken)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}
	response.Success(ctx, c, resp)
}

// Logout 登出，作废 refresh token
// POST /v1/auth/logout
func Logout(ctx context.Context, c *app.RequestContext) {
	userID, ok := currentUserID(ctx, c)
	if !ok {
		return
	}

	if err := service.Auth().Logout(ctx, userID); err != nil {
		logger.Logger.Warn("Logout failed", zap.Int64("user_id", userID), zap.Error(err))
	}
	response.NoContent(ctx, c)
}

// ResendConfirmation 重发确认邮件
// POST /v1/auth/email/resend
func ResendConfirmation(ctx context.Context, c *app.RequestContext) {
	var req dto.ResendRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	if err := service.Verification().Resend(ctx, req.Email); err != nil {
		response.Error(ctx, c, err)
		return
	}
	response.Success(ctx, c, map[string]string{"message": "Confirmation mail queued"})
}

// ConfirmEmail 消费确认 token，邮件里的链接指到这里
// GET /v1/auth/email/confirm
func ConfirmEmail(ctx context.Context, c *app.RequestContext) {
	confirmToken := c.Query("token")
	if confirmToken == "" {
		response.Error(ctx, c, errors.ConfirmTokenInvalid)
		return
	}

	if err := service.Verification().Confirm(ctx, confirmToken); err != nil {
		response.Error(ctx, c, err)
		return
	}
	response.Success(ctx, c, map[string]string{"message": "Email confirmed"})
}

// EmailStatus 邮箱确认状态，监控的轮询兜底接口
// GET /v1/auth/email/status
func EmailStatus(ctx context.Context, c *app.RequestContext) {
	userID, ok := currentUserID(ctx, c)
	if !ok {
		return
	}

	confirmed, err := service.Verification().Status(ctx, userID)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}
	response.Success(ctx, c, dto.EmailStatusResponse{Confirmed: confirmed})
}

// WaitEmailConfirmation 长轮询等待邮箱确认。
// 推送通道先行，轮询兜底，窗口耗尽返回 confirmed=false。
// GET /v1/auth/email/wait
func WaitEmailConfirmation(ctx context.Context, c *app.RequestContext) {
	userID, ok := currentUserID(ctx, c)
	if !ok {
		return
	}

	confirmed, err := service.Monitor().WaitForConfirmation(ctx, userID)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}
	response.Success(ctx, c, dto.EmailStatusResponse{Confirmed: confirmed})
}

// RequestPasswordReset 请求重置密码
// POST /v1/auth/password/reset
func RequestPasswordReset(ctx context.Context, c *app.RequestContext) {
	var req dto.PasswordResetRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	if err := service.Auth().RequestPasswordReset(ctx, req.Email); err != nil {
		response.Error(ctx, c, err)
		return
	}
	// 邮箱不存在也返回成功，不泄露注册状态
	response.Success(ctx, c, map[string]string{"message": "If the address is registered, a reset mail has been sent"})
}

// ConfirmPasswordReset 执行重置密码
// POST /v1/auth/password/reset/confirm
func ConfirmPasswordReset(ctx context.Context, c *app.RequestContext) {
	var req dto.PasswordResetConfirmRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	if err := service.Auth().ResetPassword(ctx, req.Token, req.NewPassword); err != nil {
		response.Error(ctx, c, err)
		return
	}
	response.Success(ctx, c, map[string]string{"message": "Password updated"})
}
