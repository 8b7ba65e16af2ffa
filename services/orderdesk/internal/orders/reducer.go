package orders

import (
	"slices"
	"time"

	"github.com/appetiteclub/bakery/pkg/enums/orderstatus"
)

// Reduce returns the state after applying a. It is pure and total: an action
// that targets a missing order or item, or asks for a transition outside the
// status table, returns s unchanged.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case SetOrders:
		return setOrders(s, a)
	case AddOrder:
		return addOrder(s, a)
	case UpdateOrderStatus:
		return updateOrderStatus(s, a)
	case UpdateItemStatus:
		return updateItemStatus(s, a)
	case TaskAssigned:
		return taskAssigned(s, a)
	case ReturnStatusUpdated:
		return returnStatusUpdated(s, a)
	case SetSocketConnected:
		s.SocketConnected = a.Connected
		if a.Connected {
			s.SocketError = ""
		}
		return s
	case SetSocketError:
		s.SocketError = a.Message
		return s
	case SetLoadError:
		s.LoadError = nil
		if a.Message != "" {
			s.LoadError = &LoadError{NotFound: a.NotFound, Message: a.Message}
		}
		return s
	case SelectOrder:
		s.SelectedOrder = nil
		if o, ok := s.Order(a.OrderID); ok {
			s.SelectedOrder = &o
		}
		return s
	case SetFilter:
		s.Filter = a.Filter
		s.Page = 1
		return s
	case SetSort:
		s.Sort = a.Sort
		return s
	case SetPage:
		s.Page = max(a.Page, 1)
		return s
	}
	return s
}

func setOrders(s State, a SetOrders) State {
	var selectedID string
	if s.SelectedOrder != nil {
		selectedID = s.SelectedOrder.ID
	}

	s.Orders = slices.Clone(a.Orders)
	if s.Orders == nil {
		s.Orders = []Order{}
	}
	s.Page = 1
	s.LoadError = nil
	s.SelectedOrder = nil
	if o, ok := s.Order(selectedID); ok && selectedID != "" {
		s.SelectedOrder = &o
	}
	return s
}

func addOrder(s State, a AddOrder) State {
	if a.Order.ID == "" {
		return s
	}
	if i := s.index(a.Order.ID); i >= 0 {
		return replaceAt(s, i, a.Order)
	}
	orders := make([]Order, 0, len(s.Orders)+1)
	orders = append(orders, a.Order)
	s.Orders = append(orders, s.Orders...)
	return s
}

func updateOrderStatus(s State, a UpdateOrderStatus) State {
	i := s.index(a.OrderID)
	if i < 0 {
		return s
	}
	o := s.Orders[i]

	if a.Snapshot != nil {
		if !snapshotWins(o, *a.Snapshot) {
			return s
		}
		o = *a.Snapshot
		o.ID = a.OrderID
	}

	factory := s.Variant == VariantFactory
	if a.Status != "" && a.Status != o.Status && orderstatus.CanTransition(o.Status, a.Status, factory) {
		o = withStatus(o, a.Status, a.By, a.At, a.Notes)
	} else if a.Snapshot == nil {
		return s
	}
	return replaceAt(s, i, o)
}

// snapshotWins decides whether a fetched snapshot may replace the current order.
// Revisions are compared when both sides carry one, then update times; with
// neither, the last applied snapshot wins.
func snapshotWins(current, snapshot Order) bool {
	if current.Revision > 0 && snapshot.Revision > 0 {
		return snapshot.Revision >= current.Revision
	}
	if !current.UpdatedAt.IsZero() && !snapshot.UpdatedAt.IsZero() {
		return !snapshot.UpdatedAt.Before(current.UpdatedAt)
	}
	return true
}

func updateItemStatus(s State, a UpdateItemStatus) State {
	i := s.index(a.OrderID)
	if i < 0 {
		return s
	}
	o := s.Orders[i]
	j := o.itemIndex(a.ItemID)
	if j < 0 || o.Items[j].Status == a.Status {
		return s
	}

	o.Items = slices.Clone(o.Items)
	o.Items[j].Status = a.Status

	if o.AllItemsCompleted() && o.Status.BeforeCompletion() {
		o = withStatus(o, orderstatus.Statuses.Completed, a.By, a.At, "")
	}
	return replaceAt(s, i, o)
}

func taskAssigned(s State, a TaskAssigned) State {
	i := s.index(a.OrderID)
	if i < 0 {
		return s
	}
	o := s.Orders[i]

	var items []OrderItem
	for _, as := range a.Items {
		j := o.itemIndex(as.ItemID)
		if j < 0 {
			continue
		}
		if items == nil {
			items = slices.Clone(o.Items)
		}
		if as.AssignedTo.ID != "" {
			ref := as.AssignedTo
			items[j].AssignedTo = &ref
		}
		if as.Status != "" {
			items[j].Status = as.Status
		}
	}
	if items == nil {
		return s
	}
	o.Items = items

	if o.AllItemsAssigned() && o.Status.BeforeProduction() {
		o = withStatus(o, orderstatus.Statuses.InProduction, a.By, a.At, "")
	}
	return replaceAt(s, i, o)
}

func returnStatusUpdated(s State, a ReturnStatusUpdated) State {
	i := s.index(a.OrderID)
	if i < 0 {
		return s
	}
	o := s.Orders[i]
	j := o.returnIndex(a.ReturnID)
	if j < 0 {
		return s
	}

	o.Returns = slices.Clone(o.Returns)
	r := &o.Returns[j]
	r.Status = a.Status
	if a.ReviewNotes != "" {
		r.ReviewNotes = a.ReviewNotes
	}
	if a.ReviewedBy != "" {
		r.ReviewedBy = a.ReviewedBy
	}

	o.Items = slices.Clone(o.Items)
	for k := range o.Items {
		if !returnsMention(o.Returns, o.Items[k].ProductID) {
			continue
		}
		o.Items[k].ReturnedQuantity, o.Items[k].ReturnReason = returnedFor(o.Returns, o.Items[k].ProductID, "")
	}
	return replaceAt(s, i, o)
}

func returnsMention(returns []Return, productID string) bool {
	for _, r := range returns {
		for _, it := range r.Items {
			if it.ProductID != "" && it.ProductID == productID {
				return true
			}
		}
	}
	return false
}

func withStatus(o Order, status orderstatus.Status, by string, at time.Time, notes string) Order {
	o.Status = status
	history := make([]StatusChange, len(o.StatusHistory), len(o.StatusHistory)+1)
	copy(history, o.StatusHistory)
	o.StatusHistory = append(history, StatusChange{
		Status:    status,
		ChangedBy: by,
		ChangedAt: at,
		Notes:     notes,
	})
	return o
}

// replaceAt installs o at index i in a fresh slice and mirrors it into the selection.
func replaceAt(s State, i int, o Order) State {
	orders := slices.Clone(s.Orders)
	orders[i] = o
	s.Orders = orders
	if s.SelectedOrder != nil && s.SelectedOrder.ID == o.ID {
		selected := o
		s.SelectedOrder = &selected
	}
	return s
}
