// Package llm 封装多模态生成后端客户端
package llm

import (
	"context"
	"sync"
)

// MockClient 测试用后端替身，记录收到的请求并按预设函数应答
type MockClient struct {
	mu       sync.Mutex
	requests []Request

	// GenerateFunc 为空时返回固定文本输出
	GenerateFunc func(ctx context.Context, req Request) (*Output, error)
}

var _ Client = (*MockClient)(nil)

func (m *MockClient) Generate(ctx context.Context, req Request) (*Output, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, req)
	}
	return &Output{Text: "ok"}, nil
}

// Requests 返回截至目前收到的全部请求
func (m *MockClient) Requests() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Request, len(m.requests))
	copy(out, m.requests)
	return out
}

// LastRequest 返回最近一次请求
func (m *MockClient) LastRequest() (Request, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.requests) == 0 {
		return Request{}, false
	}
	return m.requests[len(m.requests)-1], true
}
