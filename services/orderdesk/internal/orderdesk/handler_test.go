package orderdesk

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/appetiteclub/bakery/pkg/enums/itemstatus"
	"github.com/appetiteclub/bakery/pkg/enums/orderstatus"
	"github.com/appetiteclub/bakery/services/orderdesk/internal/notify"
	"github.com/appetiteclub/bakery/services/orderdesk/internal/orders"
	"github.com/appetiteclub/bakery/services/orderdesk/internal/restapi"
	"github.com/appetiteclub/bakery/services/orderdesk/internal/workflow"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
)

type MockCommands struct {
	LoadFunc              func(ctx context.Context) error
	CreateFunc            func(ctx context.Context, req workflow.CreateRequest) (orders.Order, error)
	ApproveFunc           func(ctx context.Context, orderID string) error
	UpdateStatusFunc      func(ctx context.Context, orderID string, status orderstatus.Status, notes string) error
	AssignChefsFunc       func(ctx context.Context, orderID string, assignments []workflow.ChefAssignment) error
	UpdateItemStatusFunc  func(ctx context.Context, orderID, itemID string, status itemstatus.Status) error
	ConfirmProductionFunc func(ctx context.Context, orderID string) error
}

func (m *MockCommands) Load(ctx context.Context) error {
	if m.LoadFunc != nil {
		return m.LoadFunc(ctx)
	}
	return nil
}

func (m *MockCommands) Reference() workflow.Reference {
	return workflow.Reference{}
}

func (m *MockCommands) Create(ctx context.Context, req workflow.CreateRequest) (orders.Order, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, req)
	}
	return orders.Order{}, nil
}

func (m *MockCommands) Approve(ctx context.Context, orderID string) error {
	if m.ApproveFunc != nil {
		return m.ApproveFunc(ctx, orderID)
	}
	return nil
}

func (m *MockCommands) UpdateStatus(ctx context.Context, orderID string, status orderstatus.Status, notes string) error {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, orderID, status, notes)
	}
	return nil
}

func (m *MockCommands) AssignChefs(ctx context.Context, orderID string, assignments []workflow.ChefAssignment) error {
	if m.AssignChefsFunc != nil {
		return m.AssignChefsFunc(ctx, orderID, assignments)
	}
	return nil
}

func (m *MockCommands) UpdateItemStatus(ctx context.Context, orderID, itemID string, status itemstatus.Status) error {
	if m.UpdateItemStatusFunc != nil {
		return m.UpdateItemStatusFunc(ctx, orderID, itemID, status)
	}
	return nil
}

func (m *MockCommands) ConfirmProduction(ctx context.Context, orderID string) error {
	if m.ConfirmProductionFunc != nil {
		return m.ConfirmProductionFunc(ctx, orderID)
	}
	return nil
}

type fixture struct {
	router chi.Router
	store  *orders.Store
	list   *notify.List
	cmds   *MockCommands
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	store := orders.NewStore(orders.NewState(orders.VariantFactory, 2), nil)
	store.Dispatch(orders.SetOrders{Orders: []orders.Order{
		{ID: "o1", OrderNumber: "ORD-1", Status: orderstatus.Statuses.Pending, Priority: orders.PriorityHigh, CreatedAt: time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)},
		{ID: "o2", OrderNumber: "ORD-2", Status: orderstatus.Statuses.Approved, Priority: orders.PriorityLow, CreatedAt: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)},
		{ID: "o3", OrderNumber: "ORD-3", Status: orderstatus.Statuses.Pending, Priority: orders.PriorityMedium, CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
	}})
	list := notify.NewList(nil)
	cmds := &MockCommands{}

	h := NewHandler(HandlerDeps{
		Store:         store,
		Notifications: list,
		Commands:      cmds,
		Gatherer:      prometheus.NewRegistry(),
	}, nil)

	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return fixture{router: r, store: store, list: list, cmds: cmds}
}

func (f fixture) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func TestListOrders(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name     string
		path     string
		status   int
		contains []string
		excludes []string
	}{
		{name: "firstPage", path: "/orders", status: http.StatusOK, contains: []string{"ORD-1", "ORD-2"}, excludes: []string{"ORD-3"}},
		{name: "secondPage", path: "/orders?page=2", status: http.StatusOK, contains: []string{"ORD-3"}, excludes: []string{"ORD-1"}},
		{name: "statusFilter", path: "/orders?status=approved", status: http.StatusOK, contains: []string{"ORD-2"}, excludes: []string{"ORD-1", "ORD-3"}},
		{name: "invalidPage", path: "/orders?page=zero", status: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.do(http.MethodGet, tt.path, "")
			if rec.Code != tt.status {
				t.Fatalf("expected %d, got %d: %s", tt.status, rec.Code, rec.Body.String())
			}
			for _, s := range tt.contains {
				if !strings.Contains(rec.Body.String(), s) {
					t.Errorf("expected body to contain %q", s)
				}
			}
			for _, s := range tt.excludes {
				if strings.Contains(rec.Body.String(), s) {
					t.Errorf("expected body not to contain %q", s)
				}
			}
		})
	}
}

func TestGetAndSelectOrder(t *testing.T) {
	f := newFixture(t)

	if rec := f.do(http.MethodGet, "/orders/o2", ""); rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "ORD-2") {
		t.Fatalf("unexpected response %d: %s", rec.Code, rec.Body.String())
	}
	if rec := f.do(http.MethodGet, "/orders/nope", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}

	if rec := f.do(http.MethodPost, "/orders/o3/select", ""); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if sel := f.store.State().SelectedOrder; sel == nil || sel.ID != "o3" {
		t.Fatalf("expected o3 selected, got %+v", sel)
	}
}

func TestDispatch(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{name: "setPage", body: `{"type":"setPage","page":2}`, status: http.StatusOK},
		{name: "setSort", body: `{"type":"setSort","sort":{"by":"priority","desc":true}}`, status: http.StatusOK},
		{name: "badSortField", body: `{"type":"setSort","sort":{"by":"color"}}`, status: http.StatusBadRequest},
		{name: "serverActionRejected", body: `{"type":"updateOrderStatus"}`, status: http.StatusBadRequest},
		{name: "missingFilter", body: `{"type":"setFilter"}`, status: http.StatusBadRequest},
		{name: "invalidJSON", body: `{`, status: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.do(http.MethodPost, "/dispatch", tt.body)
			if rec.Code != tt.status {
				t.Fatalf("expected %d, got %d: %s", tt.status, rec.Code, rec.Body.String())
			}
		})
	}

	st := f.store.State()
	if st.Sort.By != orders.SortByPriority || !st.Sort.Desc {
		t.Fatalf("unexpected sort %+v", st.Sort)
	}
}

func TestNotifications(t *testing.T) {
	f := newFixture(t)
	f.list.Add(notify.Notification{ID: "n1", Message: "طلب جديد"})
	f.list.Add(notify.Notification{ID: "n2", Message: "تم"})

	if rec := f.do(http.MethodPatch, "/notifications/n1/read", ""); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec := f.do(http.MethodPatch, "/notifications/missing/read", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}

	rec := f.do(http.MethodGet, "/notifications?unread=true", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "n2") || strings.Contains(rec.Body.String(), `"n1"`) {
		t.Fatalf("unexpected unread list %s", rec.Body.String())
	}

	if rec := f.do(http.MethodPatch, "/notifications/read-all", ""); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if f.list.Unread() != 0 {
		t.Fatalf("expected everything read, got %d unread", f.list.Unread())
	}
}

func TestFactoryOrderCommands(t *testing.T) {
	f := newFixture(t)

	f.cmds.ApproveFunc = func(ctx context.Context, orderID string) error {
		return workflow.ErrInvalidTransition
	}
	if rec := f.do(http.MethodPatch, "/factory-orders/o1/approve", ""); rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}

	var gotStatus orderstatus.Status
	f.cmds.UpdateStatusFunc = func(ctx context.Context, orderID string, status orderstatus.Status, notes string) error {
		gotStatus = status
		return nil
	}
	if rec := f.do(http.MethodPatch, "/factory-orders/o1/status", `{"status":"cancelled"}`); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if gotStatus != orderstatus.Statuses.Cancelled {
		t.Fatalf("unexpected status %s", gotStatus)
	}
	if rec := f.do(http.MethodPatch, "/factory-orders/o1/status", `{"status":"baking"}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	var gotItem string
	f.cmds.UpdateItemStatusFunc = func(ctx context.Context, orderID, itemID string, status itemstatus.Status) error {
		gotItem = itemID
		return nil
	}
	if rec := f.do(http.MethodPatch, "/factory-orders/o1/items/i7/status", `{"status":"completed"}`); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotItem != "i7" {
		t.Fatalf("unexpected item %q", gotItem)
	}

	f.cmds.AssignChefsFunc = func(ctx context.Context, orderID string, assignments []workflow.ChefAssignment) error {
		return workflow.ErrOrderNotFound
	}
	if rec := f.do(http.MethodPatch, "/factory-orders/zz/assign", `{"items":[{"itemId":"i1","chefId":"c1"}]}`); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if rec := f.do(http.MethodPatch, "/factory-orders/o1/assign", `{"items":[]}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	f.cmds.CreateFunc = func(ctx context.Context, req workflow.CreateRequest) (orders.Order, error) {
		if len(req.Items) != 1 || req.Items[0].Quantity != 1.5 {
			t.Errorf("unexpected request %+v", req)
		}
		return orders.Order{ID: "o9", OrderNumber: "F-9"}, nil
	}
	rec := f.do(http.MethodPost, "/factory-orders", `{"items":[{"productId":"p1","quantity":1.5}],"priority":"high"}`)
	if rec.Code != http.StatusCreated || !strings.Contains(rec.Body.String(), "F-9") {
		t.Fatalf("unexpected response %d: %s", rec.Code, rec.Body.String())
	}
}

func TestMetricsEndpoint(t *testing.T) {
	f := newFixture(t)
	if rec := f.do(http.MethodGet, "/metrics", ""); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestEventsStream(t *testing.T) {
	f := newFixture(t)
	srv := httptest.NewServer(f.router)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/events", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("unexpected content type %q", ct)
	}

	lines := make(chan string, 64)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	expect := func(want string) {
		t.Helper()
		for {
			select {
			case line, ok := <-lines:
				if !ok {
					t.Fatalf("stream closed before %q", want)
				}
				if line == want {
					return
				}
			case <-ctx.Done():
				t.Fatalf("timed out waiting for %q", want)
			}
		}
	}

	expect(": connected")
	expect("event: state")

	f.list.Add(notify.Notification{ID: "n1", Message: "طلب جديد"})
	expect("event: notification")

	f.store.Dispatch(orders.SetSocketConnected{Connected: true})
	expect("event: state")
}

func TestReloadOrders(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		status   int
		message  string
		notFound bool
	}{
		{name: "success", status: http.StatusOK},
		{name: "notFound", err: restapi.NewLoadError(restapi.ErrNotFound), status: http.StatusNotFound, message: "no orders found", notFound: true},
		{name: "genericFailure", err: restapi.NewLoadError(errors.New("connection refused")), status: http.StatusBadGateway, message: "orders could not be loaded"},
		{name: "circuitOpen", err: restapi.NewLoadError(restapi.ErrCircuitOpen), status: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.cmds.LoadFunc = func(ctx context.Context) error {
				if tt.err != nil {
					var loadErr *restapi.LoadError
					errors.As(tt.err, &loadErr)
					f.store.Dispatch(orders.SetLoadError{NotFound: loadErr.NotFound, Message: loadErr.Error()})
				}
				return tt.err
			}

			rec := f.do(http.MethodPost, "/factory-orders/reload", "")
			if rec.Code != tt.status {
				t.Fatalf("expected %d, got %d: %s", tt.status, rec.Code, rec.Body.String())
			}
			if tt.message != "" && !strings.Contains(rec.Body.String(), tt.message) {
				t.Fatalf("expected message %q in %s", tt.message, rec.Body.String())
			}

			rec = f.do(http.MethodGet, "/state", "")
			var body struct {
				Data struct {
					LoadError *orders.LoadError `json:"loadError"`
				} `json:"data"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("cannot decode state: %v", err)
			}
			le := body.Data.LoadError
			if tt.err == nil {
				if le != nil {
					t.Fatalf("expected no load error, got %+v", le)
				}
				return
			}
			if le == nil || le.NotFound != tt.notFound {
				t.Fatalf("expected load error with notFound=%v, got %+v", tt.notFound, le)
			}
		})
	}
}
