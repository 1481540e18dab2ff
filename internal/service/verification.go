package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"MediBook/config"
	"MediBook/internal/cache"
	"MediBook/internal/model"
	"MediBook/internal/queue"
	"MediBook/internal/realtime"
	"MediBook/internal/repository"
	"MediBook/pkg/errors"
	"MediBook/pkg/logger"
)

var (
	verificationService *VerificationService
	verifyOnce          sync.Once
)

func Verification() *VerificationService {
	verifyOnce.Do(func() {
		verificationService = &VerificationService{
			users: repository.NewUserRepo(deps.DB),
			hub:   deps.Hub,
		}
	})
	return verificationService
}

type VerificationService struct {
	users *repository.UserRepo
	hub   *realtime.Hub
}

// Issue 签发确认 token 并投递确认邮件
func (s *VerificationService) Issue(ctx context.Context, user *model.User, resend bool) error {
	confirmToken := uuid.NewString()
	if err := cache.SetConfirmToken(ctx, confirmToken, user.PublicID); err != nil {
		return fmt.Errorf("failed to store confirm token: %w", err)
	}

	return queue.PublishConfirmationMail(queue.ConfirmationMailMessage{
		UserID:      user.PublicID,
		Email:       user.Email,
		FullName:    user.FullName,
		ConfirmURL:  fmt.Sprintf("%s/v1/auth/email/confirm?token=%s", config.Cfg.PublicBaseURL, confirmToken),
		RequestedAt: time.Now().Format(time.RFC3339),
		Resend:      resend,
	})
}

// Resend 重发确认邮件，受每日限额约束。
func (s *VerificationService) Resend(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to query user: %w", err)
	}
	if user == nil {
		return errors.ErrUserNotFound
	}
	if user.IsConfirmed() {
		return nil
	}

	count, err := cache.IncrResendCount(ctx, user.PublicID)
	if err != nil {
		return fmt.Errorf("failed to check resend count: %w", err)
	}
	if count > int64(config.Cfg.ResendMaxDaily) {
		return errors.ResendRateLimited
	}

	return s.Issue(ctx, user, true)
}

// Confirm 消费确认 token：落库、作废 token、广播确认事件。
func (s *VerificationService) Confirm(ctx context.Context, confirmToken string) error {
	userID, err := cache.GetConfirmTokenUser(ctx, confirmToken)
	if err != nil {
		return fmt.Errorf("failed to look up confirm token: %w", err)
	}
	if userID == 0 {
		return errors.ConfirmTokenInvalid
	}

	user, err := s.users.GetByPublicID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to query user: %w", err)
	}
	if user == nil {
		return errors.ErrUserNotFound
	}

	if err := s.users.MarkConfirmed(ctx, userID, time.Now()); err != nil {
		return fmt.Errorf("failed to mark user confirmed: %w", err)
	}

	_ = cache.DeleteConfirmToken(ctx, confirmToken)

	// 推送是加速手段，失败了轮询兜底照样收敛
	if s.hub != nil {
		if err := s.hub.PublishUserConfirmed(ctx, userID, user.Email); err != nil {
			logger.Logger.Warn("Failed to publish user-confirmed event",
				zap.Int64("user_id", userID),
				zap.Error(err),
			)
		}
	}

	logger.Logger.Info("Email confirmed", zap.Int64("user_id", userID))
	return nil
}

// Status 轮询兜底接口用的确认状态查询
func (s *VerificationService) Status(ctx context.Context, userID int64) (bool, error) {
	user, err := s.users.GetByPublicID(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("failed to query user: %w", err)
	}
	if user == nil {
		return false, errors.ErrUserNotFound
	}
	return user.IsConfirmed(), nil
}
