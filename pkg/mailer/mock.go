package mailer

import (
	"context"
	"sync"
)

// MockClient 测试用实现，记录发送过的邮件。
type MockClient struct {
	mu      sync.Mutex
	SendErr error
	Sent    []Message
}

func NewMockClient() *MockClient {
	return &MockClient{}
}

func (m *MockClient) Send(ctx context.Context, msg Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SendErr != nil {
		return m.SendErr
	}
	m.Sent = append(m.Sent, msg)
	return nil
}
