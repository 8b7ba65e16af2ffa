package orderdesk

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/telemetry"
	"github.com/appetiteclub/bakery/pkg/enums/itemstatus"
	"github.com/appetiteclub/bakery/pkg/enums/orderstatus"
	"github.com/appetiteclub/bakery/services/orderdesk/internal/notify"
	"github.com/appetiteclub/bakery/services/orderdesk/internal/orders"
	"github.com/appetiteclub/bakery/services/orderdesk/internal/restapi"
	"github.com/appetiteclub/bakery/services/orderdesk/internal/workflow"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const MaxBodyBytes = 1 << 20

type StateStore interface {
	Dispatch(a orders.Action) orders.State
	State() orders.State
	Subscribe() (string, <-chan orders.State)
	Unsubscribe(id string)
}

type Notifications interface {
	All() []notify.Notification
	Unread() int
	MarkRead(id string) bool
	MarkAllRead() int
	Subscribe() (string, <-chan notify.Notification)
	Unsubscribe(id string)
}

type Commands interface {
	Load(ctx context.Context) error
	Reference() workflow.Reference
	Create(ctx context.Context, req workflow.CreateRequest) (orders.Order, error)
	Approve(ctx context.Context, orderID string) error
	UpdateStatus(ctx context.Context, orderID string, status orderstatus.Status, notes string) error
	AssignChefs(ctx context.Context, orderID string, assignments []workflow.ChefAssignment) error
	UpdateItemStatus(ctx context.Context, orderID, itemID string, status itemstatus.Status) error
	ConfirmProduction(ctx context.Context, orderID string) error
}

// Lookups serves read-only collaborator data next to the board.
type Lookups interface {
	ChefTasks(ctx context.Context, q restapi.TaskQuery) ([]orders.Payload, error)
	Returns(ctx context.Context) ([]orders.Payload, error)
	Inventory(ctx context.Context) ([]orders.Payload, error)
	Sales(ctx context.Context) ([]orders.Payload, error)
}

type HandlerDeps struct {
	Store         StateStore
	Notifications Notifications
	Commands      Commands
	Lookups       Lookups
	Gatherer      prometheus.Gatherer
}

type Handler struct {
	logger   apt.Logger
	tlm      *telemetry.HTTP
	validate *validator.Validate
	store    StateStore
	notes    Notifications
	commands Commands
	lookups  Lookups
	metrics  http.Handler
}

func NewHandler(hd HandlerDeps, logger apt.Logger) *Handler {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	gatherer := hd.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return &Handler{
		logger:   logger,
		tlm:      telemetry.NewHTTP(),
		validate: validator.New(validator.WithRequiredStructEnabled()),
		store:    hd.Store,
		notes:    hd.Notifications,
		commands: hd.Commands,
		lookups:  hd.Lookups,
		metrics:  promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/orders", func(r chi.Router) {
		r.Get("/", h.ListOrders)
		r.Get("/{id}", h.GetOrder)
		r.Post("/{id}/select", h.SelectOrder)
	})

	r.Get("/state", h.GetState)
	r.Post("/dispatch", h.Dispatch)

	r.Route("/notifications", func(r chi.Router) {
		r.Get("/", h.ListNotifications)
		r.Patch("/read-all", h.MarkAllNotificationsRead)
		r.Patch("/{id}/read", h.MarkNotificationRead)
	})

	r.Get("/events", h.Events)

	if h.commands != nil {
		r.Route("/factory-orders", func(r chi.Router) {
			r.Post("/", h.CreateFactoryOrder)
			r.Post("/reload", h.ReloadOrders)
			r.Get("/reference", h.GetReference)
			r.Patch("/{id}/approve", h.ApproveFactoryOrder)
			r.Patch("/{id}/status", h.UpdateFactoryOrderStatus)
			r.Patch("/{id}/assign", h.AssignChefs)
			r.Patch("/{id}/items/{itemID}/status", h.UpdateItemStatus)
			r.Patch("/{id}/confirm-production", h.ConfirmProduction)
		})
	}

	if h.lookups != nil {
		r.Get("/chefs/{id}/tasks", h.ListChefTasks)
		r.Get("/lookups/{name}", h.GetLookup)
	}

	r.Handle("/metrics", h.metrics)
}

// ListOrders returns the visible page. Query parameters override the stored
// filter, sort and page for this request only.
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListOrders")
	defer finish()

	st := h.store.State()
	q := r.URL.Query()

	if v := q.Get("status"); v != "" {
		st.Filter.Status = orderstatus.Status(v)
	}
	if v := q.Get("branch"); v != "" {
		st.Filter.BranchID = v
	}
	if v := q.Get("priority"); v != "" {
		st.Filter.Priority = orders.Priority(v)
	}
	if v := q.Get("department"); v != "" {
		st.Filter.DepartmentID = v
	}
	if v := q.Get("search"); v != "" {
		st.Filter.Search = v
	}
	if v := q.Get("sort"); v != "" {
		st.Sort.By = orders.SortField(v)
	}
	if v := q.Get("desc"); v != "" {
		st.Sort.Desc = v == "true" || v == "1"
	}
	if v := q.Get("page"); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil || page < 1 {
			apt.RespondError(w, http.StatusBadRequest, "invalid page")
			return
		}
		st.Page = page
	}

	apt.Respond(w, http.StatusOK, orders.Visible(st), nil)
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetOrder")
	defer finish()

	id := chi.URLParam(r, "id")
	o, ok := h.store.State().Order(id)
	if !ok {
		apt.RespondError(w, http.StatusNotFound, "order not found")
		return
	}

	apt.Respond(w, http.StatusOK, o, nil)
}

func (h *Handler) SelectOrder(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.SelectOrder")
	defer finish()

	id := chi.URLParam(r, "id")
	if _, ok := h.store.State().Order(id); !ok {
		apt.RespondError(w, http.StatusNotFound, "order not found")
		return
	}

	st := h.store.Dispatch(orders.SelectOrder{OrderID: id})
	apt.Respond(w, http.StatusOK, st.SelectedOrder, nil)
}

type stateView struct {
	Page            orders.Page       `json:"page"`
	SelectedOrder   *orders.Order     `json:"selectedOrder,omitempty"`
	Filter          orders.Filter     `json:"filter"`
	Sort            orders.Sort       `json:"sort"`
	Variant         orders.Variant    `json:"variant"`
	SocketConnected bool              `json:"socketConnected"`
	SocketError     string            `json:"socketError,omitempty"`
	LoadError       *orders.LoadError `json:"loadError,omitempty"`
	Unread          int               `json:"unread"`
}

func (h *Handler) view(st orders.State) stateView {
	v := stateView{
		Page:            orders.Visible(st),
		SelectedOrder:   st.SelectedOrder,
		Filter:          st.Filter,
		Sort:            st.Sort,
		Variant:         st.Variant,
		SocketConnected: st.SocketConnected,
		SocketError:     st.SocketError,
		LoadError:       st.LoadError,
	}
	if h.notes != nil {
		v.Unread = h.notes.Unread()
	}
	return v
}

func (h *Handler) GetState(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetState")
	defer finish()

	apt.Respond(w, http.StatusOK, h.view(h.store.State()), nil)
}

func (h *Handler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListNotifications")
	defer finish()

	all := h.notes.All()
	if r.URL.Query().Get("unread") == "true" {
		unread := make([]notify.Notification, 0, len(all))
		for _, n := range all {
			if !n.Read {
				unread = append(unread, n)
			}
		}
		all = unread
	}

	apt.Respond(w, http.StatusOK, all, nil)
}

func (h *Handler) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.MarkNotificationRead")
	defer finish()

	id := chi.URLParam(r, "id")
	if !h.notes.MarkRead(id) {
		apt.RespondError(w, http.StatusNotFound, "notification not found")
		return
	}

	apt.Respond(w, http.StatusOK, map[string]int{"unread": h.notes.Unread()}, nil)
}

func (h *Handler) MarkAllNotificationsRead(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.MarkAllNotificationsRead")
	defer finish()

	marked := h.notes.MarkAllRead()
	apt.Respond(w, http.StatusOK, map[string]int{"marked": marked}, nil)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dest interface{}) bool {
	log := h.log(r)
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	defer r.Body.Close()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Debug("failed to read request body", "error", err)
		apt.RespondError(w, http.StatusBadRequest, "Failed to read request body")
		return false
	}

	if err := json.Unmarshal(body, dest); err != nil {
		log.Debug("failed to decode request body", "error", err)
		apt.RespondError(w, http.StatusBadRequest, "Invalid JSON in request body")
		return false
	}

	if err := h.validate.Struct(dest); err != nil {
		log.Debug("invalid request body", "error", err)
		apt.RespondError(w, http.StatusBadRequest, err.Error())
		return false
	}

	return true
}

func (h *Handler) log(r *http.Request) apt.Logger {
	return h.logger.With("request_id", r.Context().Value("request_id"))
}
