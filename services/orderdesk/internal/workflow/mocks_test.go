package workflow

import (
	"context"
	"sync"

	"github.com/appetiteclub/bakery/services/orderdesk/internal/orders"
	"github.com/appetiteclub/bakery/services/orderdesk/internal/restapi"
)

type MockAPI struct {
	mu    sync.Mutex
	calls []string

	ListOrdersFunc         func(ctx context.Context) ([]orders.Payload, error)
	FactoryOrdersFunc      func(ctx context.Context) ([]orders.Payload, error)
	ChefsFunc              func(ctx context.Context) ([]orders.Payload, error)
	ProductsFunc           func(ctx context.Context) ([]orders.Payload, error)
	DepartmentsFunc        func(ctx context.Context) ([]orders.Payload, error)
	BranchesFunc           func(ctx context.Context) ([]orders.Payload, error)
	CreateFactoryOrderFunc func(ctx context.Context, req restapi.CreateFactoryOrderRequest) (orders.Payload, error)
	ApproveFunc            func(ctx context.Context, id string) (orders.Payload, error)
	UpdateStatusFunc       func(ctx context.Context, id, status, notes string) (orders.Payload, error)
	AssignChefsFunc        func(ctx context.Context, id string, items []restapi.ChefAssignmentRequest) (orders.Payload, error)
	UpdateItemStatusFunc   func(ctx context.Context, orderID, itemID, status string) (orders.Payload, error)
	ConfirmProductionFunc  func(ctx context.Context, id string) (orders.Payload, error)
}

func (m *MockAPI) record(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, name)
}

func (m *MockAPI) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

func (m *MockAPI) ListOrders(ctx context.Context) ([]orders.Payload, error) {
	m.record("ListOrders")
	if m.ListOrdersFunc != nil {
		return m.ListOrdersFunc(ctx)
	}
	return nil, nil
}

func (m *MockAPI) FactoryOrders(ctx context.Context) ([]orders.Payload, error) {
	m.record("FactoryOrders")
	if m.FactoryOrdersFunc != nil {
		return m.FactoryOrdersFunc(ctx)
	}
	return nil, nil
}

func (m *MockAPI) Chefs(ctx context.Context) ([]orders.Payload, error) {
	m.record("Chefs")
	if m.ChefsFunc != nil {
		return m.ChefsFunc(ctx)
	}
	return nil, nil
}

func (m *MockAPI) Products(ctx context.Context) ([]orders.Payload, error) {
	m.record("Products")
	if m.ProductsFunc != nil {
		return m.ProductsFunc(ctx)
	}
	return nil, nil
}

func (m *MockAPI) Departments(ctx context.Context) ([]orders.Payload, error) {
	m.record("Departments")
	if m.DepartmentsFunc != nil {
		return m.DepartmentsFunc(ctx)
	}
	return nil, nil
}

func (m *MockAPI) Branches(ctx context.Context) ([]orders.Payload, error) {
	m.record("Branches")
	if m.BranchesFunc != nil {
		return m.BranchesFunc(ctx)
	}
	return nil, nil
}

func (m *MockAPI) CreateFactoryOrder(ctx context.Context, req restapi.CreateFactoryOrderRequest) (orders.Payload, error) {
	m.record("CreateFactoryOrder")
	if m.CreateFactoryOrderFunc != nil {
		return m.CreateFactoryOrderFunc(ctx, req)
	}
	return orders.Payload{}, nil
}

func (m *MockAPI) ApproveFactoryOrder(ctx context.Context, id string) (orders.Payload, error) {
	m.record("ApproveFactoryOrder")
	if m.ApproveFunc != nil {
		return m.ApproveFunc(ctx, id)
	}
	return orders.Payload{}, nil
}

func (m *MockAPI) UpdateFactoryOrderStatus(ctx context.Context, id, status, notes string) (orders.Payload, error) {
	m.record("UpdateFactoryOrderStatus")
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, id, status, notes)
	}
	return orders.Payload{}, nil
}

func (m *MockAPI) AssignChefs(ctx context.Context, id string, items []restapi.ChefAssignmentRequest) (orders.Payload, error) {
	m.record("AssignChefs")
	if m.AssignChefsFunc != nil {
		return m.AssignChefsFunc(ctx, id, items)
	}
	return orders.Payload{}, nil
}

func (m *MockAPI) UpdateItemStatus(ctx context.Context, orderID, itemID, status string) (orders.Payload, error) {
	m.record("UpdateItemStatus")
	if m.UpdateItemStatusFunc != nil {
		return m.UpdateItemStatusFunc(ctx, orderID, itemID, status)
	}
	return orders.Payload{}, nil
}

func (m *MockAPI) ConfirmProduction(ctx context.Context, id string) (orders.Payload, error) {
	m.record("ConfirmProduction")
	if m.ConfirmProductionFunc != nil {
		return m.ConfirmProductionFunc(ctx, id)
	}
	return orders.Payload{}, nil
}
