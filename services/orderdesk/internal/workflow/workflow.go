package workflow

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/bakery/services/orderdesk/internal/orders"
	"github.com/appetiteclub/bakery/services/orderdesk/internal/restapi"
	"golang.org/x/sync/errgroup"
)

// API is the part of the orders backend the workflow drives.
type API interface {
	ListOrders(ctx context.Context) ([]orders.Payload, error)
	FactoryOrders(ctx context.Context) ([]orders.Payload, error)
	Chefs(ctx context.Context) ([]orders.Payload, error)
	Products(ctx context.Context) ([]orders.Payload, error)
	Departments(ctx context.Context) ([]orders.Payload, error)
	Branches(ctx context.Context) ([]orders.Payload, error)
	CreateFactoryOrder(ctx context.Context, req restapi.CreateFactoryOrderRequest) (orders.Payload, error)
	ApproveFactoryOrder(ctx context.Context, id string) (orders.Payload, error)
	UpdateFactoryOrderStatus(ctx context.Context, id, status, notes string) (orders.Payload, error)
	AssignChefs(ctx context.Context, id string, items []restapi.ChefAssignmentRequest) (orders.Payload, error)
	UpdateItemStatus(ctx context.Context, orderID, itemID, status string) (orders.Payload, error)
	ConfirmProduction(ctx context.Context, id string) (orders.Payload, error)
}

type Store interface {
	Dispatch(a orders.Action) orders.State
	State() orders.State
}

// Reference holds the lookup lists shown next to the order board.
type Reference struct {
	Chefs       []orders.Chef
	Products    []orders.Product
	Departments []orders.DepartmentRef
	Branches    []orders.BranchRef
}

// Service runs user commands against the backend and folds the results into
// the store. Commands are validated locally first; the store only changes
// after the backend accepted the command.
type Service struct {
	api        API
	store      Store
	normalizer *orders.Normalizer
	actor      string
	now        func() time.Time
	logger     apt.Logger

	mu  sync.RWMutex
	ref Reference
}

func New(api API, store Store, normalizer *orders.Normalizer, actor string, logger apt.Logger) *Service {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	if normalizer == nil {
		normalizer = orders.NewNormalizer(orders.Arabic)
	}
	return &Service{
		api:        api,
		store:      store,
		normalizer: normalizer,
		actor:      actor,
		now:        time.Now,
		logger:     logger,
	}
}

// Load replaces the board with the server snapshot. A failure is kept in the
// state as a page-level load error until the next successful load.
func (s *Service) Load(ctx context.Context) error {
	fetch := s.api.ListOrders
	if s.factory() {
		fetch = s.api.FactoryOrders
	}

	raw, err := fetch(ctx)
	if err != nil {
		s.log().Error("cannot load orders", "error", err)
		loadErr := restapi.NewLoadError(err)
		s.store.Dispatch(orders.SetLoadError{NotFound: loadErr.NotFound, Message: loadErr.Error()})
		return loadErr
	}

	list := make([]orders.Order, 0, len(raw))
	for _, p := range raw {
		o := s.normalizer.Order(p)
		if o.ID == "" {
			continue
		}
		list = append(list, o)
	}
	s.store.Dispatch(orders.SetOrders{Orders: list})
	s.log().Info("orders loaded", "count", len(list))
	return nil
}

// LoadReference fetches chefs, products, departments and branches concurrently.
func (s *Service) LoadReference(ctx context.Context) (Reference, error) {
	var (
		chefs, products, departments, branches []orders.Payload
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		chefs, err = s.api.Chefs(gctx)
		return err
	})
	g.Go(func() (err error) {
		products, err = s.api.Products(gctx)
		return err
	})
	g.Go(func() (err error) {
		departments, err = s.api.Departments(gctx)
		return err
	})
	g.Go(func() (err error) {
		branches, err = s.api.Branches(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return Reference{}, fmt.Errorf("failed to load reference data: %w", err)
	}

	var ref Reference
	for _, p := range chefs {
		if c := s.normalizer.Chef(p); c.ID != "" {
			ref.Chefs = append(ref.Chefs, c)
		}
	}
	for _, p := range products {
		if pr := s.normalizer.Product(p); pr.ID != "" {
			ref.Products = append(ref.Products, pr)
		}
	}
	for _, p := range departments {
		if d := s.normalizer.Department(p, ""); d.ID != "" {
			ref.Departments = append(ref.Departments, d)
		}
	}
	for _, p := range branches {
		if b := s.normalizer.Branch(p); b.ID != "" {
			ref.Branches = append(ref.Branches, b)
		}
	}

	s.mu.Lock()
	s.ref = ref
	s.mu.Unlock()
	return ref, nil
}

func (s *Service) Reference() Reference {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ref
}

func (s *Service) factory() bool {
	return s.store.State().Variant == orders.VariantFactory
}

func (s *Service) order(id string) (orders.Order, error) {
	o, ok := s.store.State().Order(id)
	if !ok {
		return orders.Order{}, fmt.Errorf("%w: %s", ErrOrderNotFound, id)
	}
	return o, nil
}

// ValidQuantity reports whether q is positive and a multiple of 0.5.
func ValidQuantity(q float64) bool {
	if q <= 0 || math.IsNaN(q) || math.IsInf(q, 0) {
		return false
	}
	return math.Mod(q*2, 1) == 0
}

func (s *Service) log() apt.Logger {
	return s.logger.With("component", "order-workflow")
}
