package geocode

import (
	"context"
	"sync"
)

// MockClient 测试用实现，记录调用并返回预置结果。
type MockClient struct {
	mu sync.Mutex

	ForwardResult *Result
	ForwardErr    error
	ReverseResult *Result
	ReverseErr    error

	ForwardCalls []string
	ReverseCalls [][2]float64
}

func NewMockClient() *MockClient {
	return &MockClient{}
}

func (m *MockClient) Forward(ctx context.Context, query string) (*Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ForwardCalls = append(m.ForwardCalls, query)
	if m.ForwardErr != nil {
		return nil, m.ForwardErr
	}
	return m.ForwardResult, nil
}

func (m *MockClient) Reverse(ctx context.Context, lat, lng float64) (*Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ReverseCalls = append(m.ReverseCalls, [2]float64{lat, lng})
	if m.ReverseErr != nil {
		return nil, m.ReverseErr
	}
	return m.ReverseResult, nil
}
