package restapi

import (
	"context"
	"sync"

	"github.com/appetiteclub/apt"
)

type MockServiceClient struct {
	mu          sync.Mutex
	calls       []string
	bodies      []interface{}
	ListFunc    func(ctx context.Context, resource string) (*apt.SuccessResponse, error)
	GetFunc     func(ctx context.Context, resource, id string) (*apt.SuccessResponse, error)
	CreateFunc  func(ctx context.Context, resource string, payload interface{}) (*apt.SuccessResponse, error)
	RequestFunc func(ctx context.Context, method, path string, body interface{}) (*apt.SuccessResponse, error)
}

func (m *MockServiceClient) record(call string, body interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, call)
	m.bodies = append(m.bodies, body)
}

func (m *MockServiceClient) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

func (m *MockServiceClient) List(ctx context.Context, resource string) (*apt.SuccessResponse, error) {
	m.record("LIST "+resource, nil)
	if m.ListFunc != nil {
		return m.ListFunc(ctx, resource)
	}
	return &apt.SuccessResponse{Data: []interface{}{}}, nil
}

func (m *MockServiceClient) Get(ctx context.Context, resource, id string) (*apt.SuccessResponse, error) {
	m.record("GET "+resource+"/"+id, nil)
	if m.GetFunc != nil {
		return m.GetFunc(ctx, resource, id)
	}
	return &apt.SuccessResponse{Data: map[string]interface{}{}}, nil
}

func (m *MockServiceClient) Create(ctx context.Context, resource string, payload interface{}) (*apt.SuccessResponse, error) {
	m.record("CREATE "+resource, payload)
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, resource, payload)
	}
	return &apt.SuccessResponse{Data: map[string]interface{}{}}, nil
}

func (m *MockServiceClient) Request(ctx context.Context, method, path string, body interface{}) (*apt.SuccessResponse, error) {
	m.record(method+" "+path, body)
	if m.RequestFunc != nil {
		return m.RequestFunc(ctx, method, path, body)
	}
	return &apt.SuccessResponse{Data: map[string]interface{}{}}, nil
}
