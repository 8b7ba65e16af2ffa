package router

import (
	"encoding/json"
	"time"

	"github.com/appetiteclub/bakery/pkg/enums/orderstatus"
	"github.com/appetiteclub/bakery/services/orderdesk/internal/orders"
)

// Event is an inbound message after decoding, with the fields the router,
// reducer and notifications need lifted out of the raw payload.
type Event struct {
	Kind Kind
	Name string
	// ID is the server event id, empty when the server did not send one.
	ID string

	OrderID      string
	OrderNumber  string
	BranchID     string
	BranchName   string
	ItemID       string
	ReturnID     string
	ChefID       string
	DepartmentID string
	ProductName  string
	Status       string
	Message      string
	By           string
	At           time.Time

	// Order is set for orderCreated.
	Order *orders.Order
	// Assignments is set for taskAssigned, already narrowed to the viewer's scope.
	Assignments []orders.Assignment

	Raw orders.Payload
}

// TargetStatus is the order status an order lifecycle event moves to.
func (e Event) TargetStatus() (orderstatus.Status, bool) {
	switch e.Kind {
	case KindOrderApproved:
		return orderstatus.Statuses.Approved, true
	case KindOrderCompleted:
		return orderstatus.Statuses.Completed, true
	case KindOrderInTransit:
		return orderstatus.Statuses.InTransit, true
	case KindOrderDelivered:
		return orderstatus.Statuses.Delivered, true
	case KindOrderStatusUpdated:
		if st := orderstatus.ByName(e.Status); st != nil {
			return *st, true
		}
	}
	return "", false
}

func decodeEvent(name string, data []byte, n *orders.Normalizer, now time.Time) (Event, error) {
	ev := Event{Kind: KindOf(name), Name: name, At: now}

	if ev.Kind == KindConnectError {
		var msg string
		if err := json.Unmarshal(data, &msg); err == nil {
			ev.Message = msg
			return ev, nil
		}
	}

	raw, err := orders.DecodePayload(data)
	if err != nil {
		return ev, err
	}
	ev.Raw = raw

	order := raw.Object("order")
	branch := raw.Object("branch")

	ev.ID = raw.String("eventId")
	ev.OrderID = firstNonEmpty(raw.String("orderId"), raw.ID("order"))
	ev.OrderNumber = firstNonEmpty(raw.String("orderNumber"), order.String("orderNumber"))
	ev.BranchID = firstNonEmpty(raw.String("branchId"), raw.ID("branch"), order.ID("branch"))
	ev.BranchName = firstNonEmpty(raw.String("branchName"), branch.String("name", "nameEn"))
	ev.ItemID = firstNonEmpty(raw.String("itemId"), raw.ID("item"))
	ev.ReturnID = firstNonEmpty(raw.String("returnId"), raw.ID("return"))
	ev.ChefID = firstNonEmpty(raw.String("chefId"), raw.ID("assignedTo"))
	ev.DepartmentID = firstNonEmpty(raw.String("departmentId"), raw.ID("department"))
	ev.ProductName = firstNonEmpty(raw.String("productName"), raw.Object("product").String("name"))
	ev.Status = raw.String("status")
	ev.Message = raw.String("message")
	ev.By = firstNonEmpty(raw.String("changedBy", "updatedBy", "assignedBy"), raw.Object("changedBy").String("username"))
	if at := raw.Time("timestamp", "updatedAt", "changedAt"); !at.IsZero() {
		ev.At = at
	}

	switch ev.Kind {
	case KindOrderCreated:
		o := n.Order(raw)
		if o.CreatedAt.IsZero() {
			o.CreatedAt = ev.At
		}
		ev.Order = &o
		ev.OrderID = firstNonEmpty(ev.OrderID, o.ID)
		ev.BranchID = firstNonEmpty(ev.BranchID, o.Branch.ID)
	case KindTaskAssigned:
		ev.Assignments = n.Assignments(raw)
	}

	return ev, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
