package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/bakery/pkg"
	"github.com/appetiteclub/bakery/services/orderdesk/internal/notify"
	"github.com/appetiteclub/bakery/services/orderdesk/internal/orderdesk"
	"github.com/appetiteclub/bakery/services/orderdesk/internal/orders"
	"github.com/appetiteclub/bakery/services/orderdesk/internal/restapi"
	"github.com/appetiteclub/bakery/services/orderdesk/internal/router"
	"github.com/appetiteclub/bakery/services/orderdesk/internal/socket"
	"github.com/appetiteclub/bakery/services/orderdesk/internal/workflow"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const replayLimit = 500

// Channel is a startable event transport.
type Channel interface {
	router.Channel
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// App is the wired order desk: its HTTP handler and the lifecycle members
// the micro runtime starts and stops in order.
type App struct {
	Handler    *orderdesk.Handler
	Lifecycles []interface{}

	Store    *orders.Store
	Router   *router.Router
	Workflow *workflow.Service
}

func New(ctx context.Context, s Settings, logger apt.Logger) (*App, error) {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	viewer := s.Viewer()
	normalizer := orders.NewNormalizer(viewer.Lang)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	api, err := restapi.NewServiceClient(s.OrdersURL)
	if err != nil {
		return nil, err
	}

	var lifecycles []interface{}

	var tasks restapi.TaskCache = restapi.NewMemoryTaskCache(s.CacheTTL)
	if s.RedisURL != "" {
		redisTasks, err := restapi.NewRedisTaskCache(ctx, s.RedisURL, s.CacheTTL)
		if err != nil {
			return nil, err
		}
		tasks = redisTasks
		lifecycles = append(lifecycles, apt.LifecycleHooks{
			OnStop: func(context.Context) error { return redisTasks.Close() },
		})
	}

	client := restapi.NewClient(api, restapi.ClientOptions{
		Retry: restapi.RetryConfig{MaxAttempts: s.RetryAttempts, Delay: s.RetryDelay},
		Tasks: tasks,
	}, logger)

	channel, err := newChannel(s, logger)
	if err != nil {
		return nil, err
	}

	store := orders.NewStore(orders.NewState(orders.Variant(s.Variant), s.PageSize), logger)
	list := notify.NewList(logger)
	center := notify.NewCenter(notify.NewEmitter(viewer.Lang), list, store, logger)
	rt := router.New(channel, store, client, center, viewer, router.NewMetrics(registry), logger)
	wf := workflow.New(client, store, normalizer, viewer.UserID, logger)

	bootstrap := apt.LifecycleHooks{
		OnStart: func(ctx context.Context) error {
			load(ctx, wf, store, logger)
			if s.StreamEnabled {
				replay(ctx, s, rt, logger)
			}
			return nil
		},
	}

	// Snapshot first, then handlers, then the transport that feeds them.
	lifecycles = append(lifecycles, bootstrap, rt, channel)

	handler := orderdesk.NewHandler(orderdesk.HandlerDeps{
		Store:         store,
		Notifications: list,
		Commands:      wf,
		Lookups:       client,
		Gatherer:      registry,
	}, logger)

	return &App{
		Handler:    handler,
		Lifecycles: lifecycles,
		Store:      store,
		Router:     rt,
		Workflow:   wf,
	}, nil
}

func newChannel(s Settings, logger apt.Logger) (Channel, error) {
	switch s.Transport {
	case "nats":
		return pkg.NewNATSChannel(pkg.NATSChannelConfig{
			URL:           s.NATSURL,
			Prefix:        s.NATSPrefix,
			ReconnectWait: s.SocketReconnect,
		}), nil
	case "socket", "":
		return socket.NewClient(socket.Config{
			URL:               s.SocketURL,
			ReconnectInterval: s.SocketReconnect,
		}, logger), nil
	}
	return nil, fmt.Errorf("unknown channel transport %q", s.Transport)
}

// load fills the board. A failed load leaves the desk running empty; the
// reload endpoint can retry it.
func load(ctx context.Context, wf *workflow.Service, store *orders.Store, logger apt.Logger) {
	if err := wf.Load(ctx); err != nil {
		var loadErr *restapi.LoadError
		if errors.As(err, &loadErr) && loadErr.NotFound {
			logger.Info("no orders available yet", "error", err)
		} else {
			logger.Error("initial order load failed", "error", err)
		}
	}

	if store.State().Variant != orders.VariantFactory {
		return
	}
	if _, err := wf.LoadReference(ctx); err != nil {
		logger.Error("reference data load failed", "error", err)
	}
}

// replay applies retained events this desk has not acknowledged yet.
func replay(ctx context.Context, s Settings, rt *router.Router, logger apt.Logger) {
	stream, err := pkg.NewNATSStream(ctx, pkg.NATSStreamConfig{
		URL:          s.NATSURL,
		StreamName:   s.StreamName,
		Prefix:       s.NATSPrefix,
		ConsumerName: "orderdesk-" + s.UserID,
	})
	if err != nil {
		logger.Error("cannot open event stream", "error", err)
		return
	}
	defer stream.Close()

	msgs, err := stream.Fetch(ctx, replayLimit)
	if err != nil {
		logger.Error("cannot fetch event backlog", "error", err)
	}
	applied := rt.Replay(ctx, msgs)
	logger.Info("event backlog replayed", "fetched", len(msgs), "applied", applied)
}
