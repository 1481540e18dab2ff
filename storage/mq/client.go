package mq

import (
	"context"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"MediBook/config"
)

var (
	conn   *amqp.Connection
	connMu sync.RWMutex
)

const (
	// MailExchange 邮件任务交换机
	MailExchange = "mail.direct"
	// MailQueue 确认邮件队列
	MailQueue = "mail.confirmation"
	// MailRoutingKey 确认邮件路由键
	MailRoutingKey = "mail.confirmation.send"
)

func Init() error {
	connMu.Lock()
	defer connMu.Unlock()

	c, err := amqp.Dial(config.Cfg.GetRabbitMQURL())
	if err != nil {
		return fmt.Errorf("dial rabbitmq: %w", err)
	}

	ch, err := c.Channel()
	if err != nil {
		_ = c.Close()
		return fmt.Errorf("open channel: %w", err)
	}
	defer ch.Close()

	// 声明拓扑，幂等
	if err := ch.ExchangeDeclare(MailExchange, "direct", true, false, false, false, nil); err != nil {
		_ = c.Close()
		return fmt.Errorf("declare exchange: %w", err)
	}
	if _, err := ch.QueueDeclare(MailQueue, true, false, false, false, nil); err != nil {
		_ = c.Close()
		return fmt.Errorf("declare queue: %w", err)
	}
	if err := ch.QueueBind(MailQueue, MailRoutingKey, MailExchange, false, nil); err != nil {
		_ = c.Close()
		return fmt.Errorf("bind queue: %w", err)
	}

	conn = c
	return nil
}

func Connection() *amqp.Connection {
	connMu.RLock()
	defer connMu.RUnlock()
	return conn
}

func Close(ctx context.Context) error {
	connMu.Lock()
	defer connMu.Unlock()
	if conn == nil {
		return nil
	}
	err := conn.Close()
	conn = nil
	return err
}
