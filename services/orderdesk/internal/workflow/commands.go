package workflow

import (
	"context"
	"fmt"
	"slices"

	"github.com/appetiteclub/bakery/pkg/enums/itemstatus"
	"github.com/appetiteclub/bakery/pkg/enums/orderstatus"
	"github.com/appetiteclub/bakery/services/orderdesk/internal/orders"
	"github.com/appetiteclub/bakery/services/orderdesk/internal/restapi"
)

type ItemRequest struct {
	ProductID  string
	Quantity   float64
	AssignedTo string
}

type CreateRequest struct {
	Items    []ItemRequest
	Notes    string
	Priority orders.Priority
}

// ChefAssignment asks for ChefID to produce ItemID. An empty ChefID picks the
// only eligible chef, if there is exactly one.
type ChefAssignment struct {
	ItemID string
	ChefID string
}

// Create submits a new production order and adds the server copy to the board.
func (s *Service) Create(ctx context.Context, req CreateRequest) (orders.Order, error) {
	if len(req.Items) == 0 {
		return orders.Order{}, ErrEmptyOrder
	}

	items := make([]restapi.FactoryItemRequest, 0, len(req.Items))
	for _, it := range req.Items {
		if !ValidQuantity(it.Quantity) {
			return orders.Order{}, fmt.Errorf("%w: %v", ErrInvalidQuantity, it.Quantity)
		}
		if it.AssignedTo != "" {
			if err := s.checkChefForProduct(it.AssignedTo, it.ProductID); err != nil {
				return orders.Order{}, err
			}
		}
		items = append(items, restapi.FactoryItemRequest{
			ProductID:  it.ProductID,
			Quantity:   it.Quantity,
			AssignedTo: it.AssignedTo,
		})
	}

	raw, err := s.api.CreateFactoryOrder(ctx, restapi.CreateFactoryOrderRequest{
		Items:    items,
		Notes:    req.Notes,
		Priority: string(req.Priority),
	})
	if err != nil {
		return orders.Order{}, fmt.Errorf("cannot create order: %w", err)
	}

	o := s.normalizer.Order(raw)
	s.store.Dispatch(orders.AddOrder{Order: o})
	s.log().Info("order created", "order_id", o.ID)
	return o, nil
}

func (s *Service) Approve(ctx context.Context, orderID string) error {
	return s.changeStatus(ctx, orderID, orderstatus.Statuses.Approved, "", func() (orders.Payload, error) {
		return s.api.ApproveFactoryOrder(ctx, orderID)
	})
}

func (s *Service) UpdateStatus(ctx context.Context, orderID string, status orderstatus.Status, notes string) error {
	return s.changeStatus(ctx, orderID, status, notes, func() (orders.Payload, error) {
		return s.api.UpdateFactoryOrderStatus(ctx, orderID, status.Code(), notes)
	})
}

// ConfirmProduction moves a completed production order into stock.
func (s *Service) ConfirmProduction(ctx context.Context, orderID string) error {
	return s.changeStatus(ctx, orderID, orderstatus.Statuses.Stocked, "", func() (orders.Payload, error) {
		return s.api.ConfirmProduction(ctx, orderID)
	})
}

func (s *Service) changeStatus(ctx context.Context, orderID string, status orderstatus.Status, notes string, call func() (orders.Payload, error)) error {
	o, err := s.order(orderID)
	if err != nil {
		return err
	}
	if o.Status == status {
		return nil
	}
	if err := orderstatus.Transition(o.Status, status, s.factory()); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidTransition, err)
	}

	raw, err := call()
	if err != nil {
		return fmt.Errorf("cannot update order %s: %w", orderID, err)
	}

	s.store.Dispatch(orders.UpdateOrderStatus{
		OrderID:  orderID,
		Status:   status,
		Snapshot: s.snapshot(raw),
		By:       s.actor,
		At:       s.now(),
		Notes:    notes,
	})
	s.log().Info("order status changed", "order_id", orderID, "status", status)
	return nil
}

// AssignChefs assigns chefs to order items after checking each chef may work them.
func (s *Service) AssignChefs(ctx context.Context, orderID string, assignments []ChefAssignment) error {
	o, err := s.order(orderID)
	if err != nil {
		return err
	}

	reqs := make([]restapi.ChefAssignmentRequest, 0, len(assignments))
	local := make([]orders.Assignment, 0, len(assignments))
	for _, a := range assignments {
		i := slices.IndexFunc(o.Items, func(it orders.OrderItem) bool { return it.ItemID == a.ItemID })
		if i < 0 {
			return fmt.Errorf("%w: %s", ErrItemNotFound, a.ItemID)
		}
		item := o.Items[i]

		chef, err := s.chefFor(item, a.ChefID)
		if err != nil {
			return err
		}
		reqs = append(reqs, restapi.ChefAssignmentRequest{ItemID: item.ItemID, AssignedTo: chef.ID})
		local = append(local, orders.Assignment{
			ItemID:      item.ItemID,
			AssignedTo:  chef.Ref(),
			Status:      itemstatus.Statuses.Assigned,
			Department:  item.Department,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
		})
	}
	if len(reqs) == 0 {
		return nil
	}

	raw, err := s.api.AssignChefs(ctx, orderID, reqs)
	if err != nil {
		return fmt.Errorf("cannot assign chefs on order %s: %w", orderID, err)
	}

	s.store.Dispatch(orders.TaskAssigned{OrderID: orderID, Items: local, By: s.actor, At: s.now()})
	if snap := s.snapshot(raw); snap != nil {
		s.store.Dispatch(orders.UpdateOrderStatus{OrderID: orderID, Snapshot: snap, By: s.actor, At: s.now()})
	}
	return nil
}

// UpdateItemStatus moves one item forward through pending, assigned,
// in_progress and completed.
func (s *Service) UpdateItemStatus(ctx context.Context, orderID, itemID string, status itemstatus.Status) error {
	o, err := s.order(orderID)
	if err != nil {
		return err
	}
	i := slices.IndexFunc(o.Items, func(it orders.OrderItem) bool { return it.ItemID == itemID })
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrItemNotFound, itemID)
	}
	current := o.Items[i].Status
	if current == status {
		return nil
	}
	if !itemForward(current, status) {
		return fmt.Errorf("%w: item %s -> %s", ErrInvalidTransition, current, status)
	}

	raw, err := s.api.UpdateItemStatus(ctx, orderID, itemID, status.Code())
	if err != nil {
		return fmt.Errorf("cannot update item %s: %w", itemID, err)
	}

	s.store.Dispatch(orders.UpdateItemStatus{OrderID: orderID, ItemID: itemID, Status: status, By: s.actor, At: s.now()})
	if snap := s.snapshot(raw); snap != nil {
		s.store.Dispatch(orders.UpdateOrderStatus{OrderID: orderID, Snapshot: snap, By: s.actor, At: s.now()})
	}
	return nil
}

// snapshot normalizes a mutation response when it carries the order.
func (s *Service) snapshot(raw orders.Payload) *orders.Order {
	if raw == nil || raw.String("_id", "id", "orderId") == "" {
		return nil
	}
	o := s.normalizer.Order(raw)
	return &o
}

func itemForward(from, to itemstatus.Status) bool {
	fi := slices.Index(itemstatus.All, from)
	ti := slices.Index(itemstatus.All, to)
	return fi >= 0 && ti > fi
}
