package router

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/events"
	"github.com/appetiteclub/bakery/pkg/enums/itemstatus"
	"github.com/appetiteclub/bakery/pkg/enums/orderstatus"
	"github.com/appetiteclub/bakery/pkg/enums/returnstatus"
	"github.com/appetiteclub/bakery/pkg/event"
	"github.com/appetiteclub/bakery/services/orderdesk/internal/orders"
	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/errgroup"
)

// Channel is a named-event transport: the websocket client or the NATS channel.
type Channel interface {
	On(name string, handler events.HandlerFunc) func()
	Emit(ctx context.Context, name string, payload any) error
}

type Store interface {
	Dispatch(a orders.Action) orders.State
	State() orders.State
}

// OrderFetcher loads the current server copy of an order.
type OrderFetcher interface {
	GetByID(ctx context.Context, id string) (orders.Payload, error)
}

// Notifier receives every accepted server event.
type Notifier interface {
	Notify(ev Event)
}

// Router gates inbound events by shape and viewer scope and turns the accepted
// ones into store actions and notifications.
type Router struct {
	channel    Channel
	store      Store
	fetcher    OrderFetcher
	notifier   Notifier
	viewer     Viewer
	normalizer *orders.Normalizer
	validator  *validator.Validate
	metrics    *Metrics
	logger     apt.Logger
	now        func() time.Time

	mu      sync.Mutex
	offs    []func()
	cancel  context.CancelFunc
	tasks   *errgroup.Group
	taskCtx context.Context
}

func New(channel Channel, store Store, fetcher OrderFetcher, notifier Notifier, viewer Viewer, metrics *Metrics, logger apt.Logger) *Router {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &Router{
		channel:    channel,
		store:      store,
		fetcher:    fetcher,
		notifier:   notifier,
		viewer:     viewer,
		normalizer: orders.NewNormalizer(viewer.Lang),
		validator:  newValidator(),
		metrics:    metrics,
		logger:     logger,
		now:        time.Now,
	}
}

// Start registers one handler per inbound event and joins the viewer's rooms.
func (r *Router) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.offs != nil {
		r.mu.Unlock()
		return nil
	}

	r.taskCtx, r.cancel = context.WithCancel(context.WithoutCancel(ctx))
	r.tasks = new(errgroup.Group)

	r.offs = make([]func(), 0, len(event.Inbound))
	for _, name := range event.Inbound {
		r.offs = append(r.offs, r.channel.On(name, func(ctx context.Context, msg []byte) error {
			r.Handle(ctx, name, msg)
			return nil
		}))
	}
	r.mu.Unlock()

	r.log().Info("event router started", "role", r.viewer.Role, "events", len(event.Inbound))
	r.joinRoom(ctx)
	return nil
}

// Stop removes every handler Start registered and cancels in-flight fetches.
func (r *Router) Stop(ctx context.Context) error {
	r.mu.Lock()
	offs, cancel, tasks := r.offs, r.cancel, r.tasks
	r.offs, r.cancel, r.tasks, r.taskCtx = nil, nil, nil, nil
	r.mu.Unlock()

	for _, off := range offs {
		off()
	}
	if cancel != nil {
		cancel()
	}
	if tasks != nil {
		_ = tasks.Wait()
	}
	r.log().Info("event router stopped")
	return nil
}

// Handle routes one inbound event. Rejected events are logged and counted only.
func (r *Router) Handle(ctx context.Context, name string, data []byte) Outcome {
	kind := KindOf(name)
	if kind == KindUnknown {
		r.metrics.observe(name, OutcomeUnknown)
		r.log().Debug("ignoring unknown event", "event", name)
		return OutcomeUnknown
	}

	ev, err := decodeEvent(name, data, r.normalizer, r.now())
	if err != nil {
		r.metrics.observe(name, OutcomeMalformed)
		r.log().Info("dropping malformed event", "event", name, "error", err)
		return OutcomeMalformed
	}

	if err := r.validate(ev); err != nil {
		r.metrics.observe(name, OutcomeInvalid)
		r.log().Info("dropping invalid event", "event", name, "order_id", ev.OrderID, "fields", missingFields(err))
		return OutcomeInvalid
	}

	ev, ok := r.authorize(ev, r.store.State())
	if !ok {
		r.metrics.observe(name, OutcomeUnauthorized)
		r.log().Debug("dropping out-of-scope event", "event", name, "order_id", ev.OrderID, "role", r.viewer.Role)
		return OutcomeUnauthorized
	}

	r.apply(ctx, ev)
	r.metrics.observe(name, OutcomeAccepted)

	if !ev.Kind.Connectivity() && r.notifier != nil {
		r.notifier.Notify(ev)
	}
	return OutcomeAccepted
}

// Replay routes retained messages in stream order and returns how many were
// accepted. Before Start it opens its own task scope and waits for the
// follow-up fetches, so the backlog is fully applied when it returns.
func (r *Router) Replay(ctx context.Context, msgs []events.StreamMessage) int {
	if tasks, ok := r.openReplayScope(ctx); ok {
		defer r.closeReplayScope(tasks)
	}

	sorted := slices.Clone(msgs)
	slices.SortFunc(sorted, func(a, b events.StreamMessage) int {
		switch {
		case a.Sequence < b.Sequence:
			return -1
		case a.Sequence > b.Sequence:
			return 1
		}
		return 0
	})

	accepted := 0
	for _, msg := range sorted {
		env, err := event.Decode(msg.Data)
		if err != nil {
			r.log().Info("skipping undecodable stream message", "sequence", msg.Sequence, "error", err)
			continue
		}
		if event.IsConnectivity(env.Event) {
			continue
		}
		if r.Handle(ctx, env.Event, env.Data) == OutcomeAccepted {
			accepted++
		}
	}
	return accepted
}

func (r *Router) openReplayScope(ctx context.Context) (*errgroup.Group, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.tasks != nil {
		return nil, false
	}
	r.taskCtx, r.cancel = context.WithCancel(ctx)
	r.tasks = new(errgroup.Group)
	return r.tasks, true
}

func (r *Router) closeReplayScope(tasks *errgroup.Group) {
	_ = tasks.Wait()

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.tasks != tasks {
		return
	}
	r.cancel()
	r.tasks, r.taskCtx, r.cancel = nil, nil, nil
}

func (r *Router) apply(ctx context.Context, ev Event) {
	switch ev.Kind {
	case KindOrderCreated:
		r.store.Dispatch(orders.AddOrder{Order: *ev.Order})

	case KindOrderApproved, KindOrderStatusUpdated, KindOrderCompleted, KindOrderInTransit, KindOrderDelivered:
		target, _ := ev.TargetStatus()
		st := r.store.Dispatch(orders.UpdateOrderStatus{
			OrderID: ev.OrderID,
			Status:  target,
			By:      ev.By,
			At:      ev.At,
			Notes:   ev.Raw.String("notes"),
		})
		// The server is authoritative: when the local copy is missing or cannot
		// take the transition, reload the order instead.
		if o, ok := st.Order(ev.OrderID); !ok || o.Status != target {
			r.spawn(func(ctx context.Context) error {
				return r.refresh(ctx, ev.OrderID)
			})
		}

	case KindTaskAssigned:
		r.store.Dispatch(orders.TaskAssigned{
			OrderID: ev.OrderID,
			Items:   ev.Assignments,
			By:      ev.By,
			At:      ev.At,
		})

	case KindItemStatusUpdated:
		r.store.Dispatch(orders.UpdateItemStatus{
			OrderID: ev.OrderID,
			ItemID:  ev.ItemID,
			Status:  *itemstatus.ByName(ev.Status),
			By:      ev.By,
			At:      ev.At,
		})
		r.spawn(func(ctx context.Context) error {
			return r.checkCompletion(ctx, ev.OrderID)
		})

	case KindReturnStatusUpdated:
		r.store.Dispatch(orders.ReturnStatusUpdated{
			OrderID:     ev.OrderID,
			ReturnID:    ev.ReturnID,
			Status:      *returnstatus.ByName(ev.Status),
			ReviewNotes: ev.Raw.String("reviewNotes"),
			ReviewedBy:  ev.Raw.String("reviewedBy"),
		})

	case KindMissingAssignments:
		// Notification only.

	case KindConnect:
		r.store.Dispatch(orders.SetSocketConnected{Connected: true})
		r.joinRoom(ctx)

	case KindDisconnect:
		r.store.Dispatch(orders.SetSocketConnected{Connected: false})
		r.store.Dispatch(orders.SetSocketError{Message: r.viewer.Lang.Pick("انقطع الاتصال بالخادم", "Connection to server lost")})

	case KindConnectError:
		msg := ev.Message
		if msg == "" {
			msg = r.viewer.Lang.Pick("تعذر الاتصال بالخادم", "Could not connect to server")
		}
		r.store.Dispatch(orders.SetSocketError{Message: msg})

	case KindUnknown:
	}
}

// checkCompletion reloads an order after an item change and, when the server
// copy has every item completed, installs it as completed.
func (r *Router) checkCompletion(ctx context.Context, orderID string) error {
	o, err := r.fetch(ctx, orderID)
	if err != nil {
		r.log().Error("cannot check order completion", "order_id", orderID, "error", err)
		return nil
	}
	if !o.AllItemsCompleted() {
		return nil
	}
	r.store.Dispatch(orders.UpdateOrderStatus{
		OrderID:  orderID,
		Status:   orderstatus.Statuses.Completed,
		Snapshot: &o,
		At:       r.now(),
	})
	return nil
}

func (r *Router) refresh(ctx context.Context, orderID string) error {
	o, err := r.fetch(ctx, orderID)
	if err != nil {
		r.log().Error("cannot refresh order", "order_id", orderID, "error", err)
		return nil
	}
	if _, ok := r.store.State().Order(orderID); !ok {
		r.store.Dispatch(orders.AddOrder{Order: o})
		return nil
	}
	r.store.Dispatch(orders.UpdateOrderStatus{OrderID: orderID, Snapshot: &o})
	return nil
}

func (r *Router) fetch(ctx context.Context, orderID string) (orders.Order, error) {
	raw, err := r.fetcher.GetByID(ctx, orderID)
	if err != nil {
		return orders.Order{}, err
	}
	o := r.normalizer.Order(raw)
	if o.ID == "" {
		o.ID = orderID
	}
	return o, nil
}

// spawn runs fn in the subscription's task scope. Without a fetcher or before
// Start there is no scope and fn is skipped.
func (r *Router) spawn(fn func(ctx context.Context) error) {
	if r.fetcher == nil {
		return
	}
	r.mu.Lock()
	tasks, ctx := r.tasks, r.taskCtx
	r.mu.Unlock()
	if tasks == nil {
		r.log().Debug("router not started, skipping follow-up fetch")
		return
	}
	tasks.Go(func() error {
		if ctx.Err() != nil {
			return nil
		}
		return fn(ctx)
	})
}

func (r *Router) joinRoom(ctx context.Context) {
	if err := r.channel.Emit(ctx, event.EventJoinRoom, r.viewer.JoinRoom()); err != nil {
		r.log().Error("cannot join rooms", "error", err)
		return
	}
	r.log().Debug("joined rooms", "role", r.viewer.Role, "branch_id", r.viewer.BranchID)
}

// Wait blocks until in-flight follow-up fetches finish.
func (r *Router) Wait() {
	r.mu.Lock()
	tasks := r.tasks
	r.mu.Unlock()
	if tasks != nil {
		_ = tasks.Wait()
	}
}

func (r *Router) log() apt.Logger {
	return r.logger.With("component", "event-router")
}
