package orderdesk

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/appetiteclub/bakery/services/orderdesk/internal/notify"
	"github.com/appetiteclub/bakery/services/orderdesk/internal/orders"
	"github.com/appetiteclub/bakery/services/orderdesk/internal/restapi"
	"github.com/go-chi/chi/v5"
)

type MockLookups struct {
	ChefTasksFunc func(ctx context.Context, q restapi.TaskQuery) ([]orders.Payload, error)
	ReturnsFunc   func(ctx context.Context) ([]orders.Payload, error)
}

func (m *MockLookups) ChefTasks(ctx context.Context, q restapi.TaskQuery) ([]orders.Payload, error) {
	if m.ChefTasksFunc != nil {
		return m.ChefTasksFunc(ctx, q)
	}
	return nil, nil
}

func (m *MockLookups) Returns(ctx context.Context) ([]orders.Payload, error) {
	if m.ReturnsFunc != nil {
		return m.ReturnsFunc(ctx)
	}
	return nil, nil
}

func (m *MockLookups) Inventory(ctx context.Context) ([]orders.Payload, error) {
	return []orders.Payload{}, nil
}

func (m *MockLookups) Sales(ctx context.Context) ([]orders.Payload, error) {
	return []orders.Payload{}, nil
}

func TestLookupRoutes(t *testing.T) {
	var got restapi.TaskQuery
	lookups := &MockLookups{
		ChefTasksFunc: func(ctx context.Context, q restapi.TaskQuery) ([]orders.Payload, error) {
			got = q
			return []orders.Payload{{"itemId": "i1"}}, nil
		},
		ReturnsFunc: func(ctx context.Context) ([]orders.Payload, error) {
			return nil, errors.New("down")
		},
	}

	h := NewHandler(HandlerDeps{
		Store:         orders.NewStore(orders.NewState(orders.VariantBranch, 0), nil),
		Notifications: notify.NewList(nil),
		Lookups:       lookups,
	}, nil)
	r := chi.NewRouter()
	h.RegisterRoutes(r)

	tests := []struct {
		name   string
		path   string
		status int
	}{
		{name: "tasks", path: "/chefs/c1/tasks?page=3&status=assigned", status: http.StatusOK},
		{name: "badPage", path: "/chefs/c1/tasks?page=-1", status: http.StatusBadRequest},
		{name: "inventory", path: "/lookups/inventory", status: http.StatusOK},
		{name: "upstreamFailure", path: "/lookups/returns", status: http.StatusBadGateway},
		{name: "unknown", path: "/lookups/weather", status: http.StatusNotFound},
		{name: "noFactoryRoutes", path: "/factory-orders/reference", status: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			if rec.Code != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, rec.Code)
			}
		})
	}

	if got.ChefID != "c1" || got.Page != 3 || got.Status != "assigned" {
		t.Fatalf("unexpected query %+v", got)
	}
}
