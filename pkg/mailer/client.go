package mailer

import "context"

// 邮件发送的薄接口，worker 消费确认邮件任务时使用。

// Message 一封待发送的邮件
type Message struct {
	To      string
	Subject string
	Body    string
	HTML    bool
}

// Client 邮件客户端
type Client interface {
	Send(ctx context.Context, msg Message) error
}
