package queue

import (
	"fmt"

	"go.uber.org/zap"

	"MediBook/pkg/logger"
	"MediBook/pkg/snowflake"
	"MediBook/storage/mq"
)

// PublishConfirmationMail 发布确认邮件任务
func PublishConfirmationMail(msg ConfirmationMailMessage) error {
	msg.Kind = KindConfirmationMail
	if msg.MessageID == "" {
		id, err := snowflake.NextID()
		if err != nil {
			logger.Logger.Error("Failed to generate message ID",
				zap.Int64("user_id", msg.UserID),
				zap.Error(err),
			)
			return fmt.Errorf("failed to generate message ID: %w", err)
		}
		msg.MessageID = fmt.Sprintf("confirm_mail_%d", id)
	}

	err := mq.PublishMessage(mq.MailExchange, mq.MailRoutingKey, msg)
	if err != nil {
		logger.Logger.Error("Failed to publish confirmation mail message",
			zap.String("message_id", msg.MessageID),
			zap.Int64("user_id", msg.UserID),
			zap.Error(err),
		)
		return err
	}

	logger.Logger.Info("Published confirmation mail message",
		zap.String("message_id", msg.MessageID),
		zap.Int64("user_id", msg.UserID),
		zap.Bool("resend", msg.Resend),
	)
	return nil
}

// PublishPasswordResetMail 发布密码重置邮件任务
func PublishPasswordResetMail(msg PasswordResetMailMessage) error {
	msg.Kind = KindPasswordResetMail
	if msg.MessageID == "" {
		id, err := snowflake.NextID()
		if err != nil {
			return fmt.Errorf("failed to generate message ID: %w", err)
		}
		msg.MessageID = fmt.Sprintf("reset_mail_%d", id)
	}

	err := mq.PublishMessage(mq.MailExchange, mq.MailRoutingKey, msg)
	if err != nil {
		logger.Logger.Error("Failed to publish password reset mail message",
			zap.String("message_id", msg.MessageID),
			zap.Int64("user_id", msg.UserID),
			zap.Error(err),
		)
		return err
	}

	logger.Logger.Info("Published password reset mail message",
		zap.String("message_id", msg.MessageID),
		zap.Int64("user_id", msg.UserID),
	)
	return nil
}
