package service

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"MediBook/config"
	"MediBook/internal/cache"
	"MediBook/internal/model"
	"MediBook/internal/model/dto"
	"MediBook/internal/queue"
	"MediBook/internal/repository"
	"MediBook/pkg/errors"
	"MediBook/pkg/logger"
	"MediBook/pkg/snowflake"
	"MediBook/pkg/token"
	"MediBook/utils"
)

var (
	authService *AuthService
	authOnce    sync.Once
)

func Auth() *AuthService {
	authOnce.Do(func() {
		authService = &AuthService{
			users: repository.NewUserRepo(deps.DB),
		}
	})
	return authService
}

type AuthService struct {
	users *repository.UserRepo
}

// Signup 注册新用户：建号、签发确认 token、投递确认邮件、返回令牌对。
// 邮件投递失败不阻断注册，用户之后可以走重发。
func (s *AuthService) Signup(ctx context.Context, req dto.SignupRequest) (*dto.AuthResponse, error) {
	if !utils.ValidateEmail(req.Email) {
		return nil, errors.ValidationFailed
	}
	if len(req.Password) < 8 {
		return nil, errors.ValidationFailed
	}

	existing, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	if existing != nil {
		return nil, errors.EmailAlreadyRegistered
	}

	publicID, err := snowflake.NextID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate user ID: %w", err)
	}

	user := &model.User{
		PublicID:     publicID,
		Email:        req.Email,
		PasswordHash: utils.HashPassword(req.Password),
		FullName:     req.FullName,
		Role:         model.UserRolePatient,
		Status:       model.UserStatusPending,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	logger.Logger.Info("New user created",
		zap.Int64("public_id", publicID),
		zap.String("email", req.Email),
	)

	if err := Verification().Issue(ctx, user, false); err != nil {
		logger.Logger.Warn("Failed to issue confirmation mail on signup",
			zap.Int64("public_id", publicID),
			zap.Error(err),
		)
	}

	return s.buildAuthResponse(ctx, user)
}

// Login 邮箱密码登录
func (s *AuthService) Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	if !credentialsValid(user, req.Password) {
		return nil, errors.InvalidCredentials
	}

	return s.buildAuthResponse(ctx, user)
}

// credentialsValid 核对登录口令。明文在前，存量哈希在后。
func credentialsValid(user *model.User, password string) bool {
	return user != nil && utils.VerifyPassword(password, user.PasswordHash)
}

// Refresh 刷新令牌对，旧 refresh token 作废。
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*dto.TokenPairResponse, error) {
	userIDStr, err := token.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, errors.Unauthorized
	}

	userID, err := strconv.ParseInt(userIDStr, 10, 64)
	if err != nil {
		return nil, errors.InvalidUserID
	}

	if !cache.ValidateRefreshToken(ctx, userID, refreshToken) {
		return nil, errors.Unauthorized
	}

	accessToken, newRefreshToken, expiresIn, err := token.GenerateTokenPair(userIDStr)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	if err := cache.SetRefreshToken(ctx, userID, newRefreshToken); err != nil {
		logger.Logger.Warn("Failed to rotate refresh token in Redis",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
	}

	return &dto.TokenPairResponse{
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
		ExpiresIn:    expiresIn,
	}, nil
}

// Logout 作废 refresh token
func (s *AuthService) Logout(ctx context.Context, userID int64) error {
	return cache.DeleteRefreshToken(ctx, userID)
}

// RequestPasswordReset 签发重置 token 并投递重置邮件。
// 邮箱不存在时同样返回成功，避免泄露注册状态。
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to query user: %w", err)
	}
	if user == nil {
		return nil
	}

	resetToken := uuid.NewString()
	if err := cache.SetResetToken(ctx, resetToken, user.PublicID); err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	return queue.PublishPasswordResetMail(queue.PasswordResetMailMessage{
		UserID:      user.PublicID,
		Email:       user.Email,
		ResetURL:    fmt.Sprintf("%s/reset-password?token=%s", config.Cfg.PublicBaseURL, resetToken),
		RequestedAt: time.Now().Format(time.RFC3339),
	})
}

// ResetPassword 校验重置 token 并落新密码，同时作废所有会话。
func (s *AuthService) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	if len(newPassword) < 8 {
		return errors.ValidationFailed
	}

	userID, err := cache.GetResetTokenUser(ctx, resetToken)
	if err != nil {
		return fmt.Errorf("failed to look up reset token: %w", err)
	}
	if userID == 0 {
		return errors.ConfirmTokenInvalid
	}

	if err := s.users.UpdatePassword(ctx, userID, utils.HashPassword(newPassword)); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	_ = cache.DeleteResetToken(ctx, resetToken)
	_ = cache.DeleteRefreshToken(ctx, userID)

	logger.Logger.Info("Password reset completed", zap.Int64("user_id", userID))
	return nil
}

// Me 当前用户快照
func (s *AuthService) Me(ctx context.Context, userID int64) (*dto.UserSnapshot, error) {
	user, err := s.users.GetByPublicID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	if user == nil {
		return nil, errors.ErrUserNotFound
	}

	snap := snapshotOf(user)
	return &snap, nil
}

func (s *AuthService) buildAuthResponse(ctx context.Context, user *model.User) (*dto.AuthResponse, error) {
	userIDStr := strconv.FormatInt(user.PublicID, 10)
	accessToken, refreshToken, expiresIn, err := token.GenerateTokenPair(userIDStr)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	// 缓存失败不阻断，token 本身已经签发成功
	if err := cache.SetRefreshToken(ctx, user.PublicID, refreshToken); err != nil {
		logger.Logger.Warn("Failed to store refresh token in Redis",
			zap.Int64("user_id", user.PublicID),
			zap.Error(err),
		)
	}

	return &dto.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    expiresIn,
		User:         snapshotOf(user),
	}, nil
}

func snapshotOf(user *model.User) dto.UserSnapshot {
	return dto.UserSnapshot{
		ID:             strconv.FormatInt(user.PublicID, 10),
		Email:          user.Email,
		FullName:       user.FullName,
		Role:           string(user.Role),
		Status:         model.StatusToStringMap[user.Status],
		EmailConfirmed: user.IsConfirmed(),
	}
}
