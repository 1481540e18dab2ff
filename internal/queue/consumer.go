package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"MediBook/internal/cache"
	"MediBook/pkg/logger"
	"MediBook/pkg/mailer"
	"MediBook/pkg/metrics"
	"MediBook/storage/mq"
)

// 邮件队列的消费侧。worker 启动时注入邮件客户端，
// 按 kind 分流确认邮件和密码重置邮件。

type mailEnvelope struct {
	Kind      string `json:"kind"`
	MessageID string `json:"message_id"`
}

// StartMailConsumer 启动邮件任务消费者，阻塞直到队列通道关闭。
func StartMailConsumer(ctx context.Context, mail mailer.Client) error {
	handler := func(body []byte) error {
		var env mailEnvelope
		if err := json.Unmarshal(body, &env); err != nil {
			return fmt.Errorf("failed to unmarshal mail envelope: %w", err)
		}

		if env.MessageID != "" {
			fresh, err := cache.TryMarkMessageProcessing(ctx, env.MessageID, 24*time.Hour)
			if err != nil {
				logger.Logger.Warn("Failed to check message processed status",
					zap.String("message_id", env.MessageID),
					zap.Error(err),
				)
				// 检查失败时继续处理，宁可重发也不丢邮件
			} else if !fresh {
				logger.Logger.Info("Message already processed, skipping",
					zap.String("message_id", env.MessageID),
				)
				return nil
			}
		}

		var deliverErr error
		switch env.Kind {
		case KindConfirmationMail:
			deliverErr = deliverConfirmationMail(ctx, mail, body)
		case KindPasswordResetMail:
			deliverErr = deliverPasswordResetMail(ctx, mail, body)
		default:
			logger.Logger.Warn("Unknown mail message kind, dropping",
				zap.String("kind", env.Kind),
				zap.String("message_id", env.MessageID),
			)
			return nil
		}

		if deliverErr != nil {
			metrics.RecordMailDelivered(env.Kind, "failure")
			if env.MessageID != "" {
				// 投递失败，取消标记，消息会重回队列
				_ = cache.UnmarkMessageProcessing(ctx, env.MessageID)
			}
			return deliverErr
		}
		metrics.RecordMailDelivered(env.Kind, "success")
		return nil
	}

	return mq.Consume(mq.ConsumeOptions{
		Queue:         mq.MailQueue,
		ConsumerTag:   "mail-worker",
		PrefetchCount: 10,
		Handler:       handler,
	})
}

func deliverConfirmationMail(ctx context.Context, mail mailer.Client, body []byte) error {
	var msg ConfirmationMailMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return fmt.Errorf("failed to unmarshal confirmation mail message: %w", err)
	}

	subject := "Confirm your MediBook account"
	mailBody := fmt.Sprintf(
		"<p>Hello %s,</p>"+
			"<p>Please confirm your email address by clicking the link below:</p>"+
			"<p><a href=\"%s\">Confirm my email</a></p>"+
			"<p>If you did not sign up for MediBook, you can ignore this mail.</p>",
		msg.FullName, msg.ConfirmURL,
	)

	if err := mail.Send(ctx, mailer.Message{
		To:      msg.Email,
		Subject: subject,
		Body:    mailBody,
		HTML:    true,
	}); err != nil {
		logger.Logger.Error("Failed to deliver confirmation mail",
			zap.String("message_id", msg.MessageID),
			zap.Int64("user_id", msg.UserID),
			zap.Error(err),
		)
		return err
	}

	logger.Logger.Info("Delivered confirmation mail",
		zap.String("message_id", msg.MessageID),
		zap.Int64("user_id", msg.UserID),
		zap.Bool("resend", msg.Resend),
	)
	return nil
}

func deliverPasswordResetMail(ctx context.Context, mail mailer.Client, body []byte) error {
	var msg PasswordResetMailMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return fmt.Errorf("failed to unmarshal password reset mail message: %w", err)
	}

	mailBody := fmt.Sprintf(
		"<p>We received a request to reset your MediBook password.</p>"+
			"<p><a href=\"%s\">Reset my password</a></p>"+
			"<p>If you did not request this, you can ignore this mail.</p>",
		msg.ResetURL,
	)

	if err := mail.Send(ctx, mailer.Message{
		To:      msg.Email,
		Subject: "Reset your MediBook password",
		Body:    mailBody,
		HTML:    true,
	}); err != nil {
		logger.Logger.Error("Failed to deliver password reset mail",
			zap.String("message_id", msg.MessageID),
			zap.Int64("user_id", msg.UserID),
			zap.Error(err),
		)
		return err
	}

	logger.Logger.Info("Delivered password reset mail",
		zap.String("message_id", msg.MessageID),
		zap.Int64("user_id", msg.UserID),
	)
	return nil
}
