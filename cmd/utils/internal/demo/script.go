// Package demo scripts a production order lifecycle as channel events.
package demo

import (
	"fmt"
	"time"

	"github.com/appetiteclub/bakery/pkg/event"
)

type Step struct {
	Event   string
	Payload map[string]any
}

type Options struct {
	OrderID      string
	OrderNumber  string
	BranchID     string
	BranchName   string
	ChefID       string
	DepartmentID string
	Start        time.Time
}

// Lifecycle returns the events of one order from creation to delivery: two
// items, both assigned to the same chef and completed one after the other.
func Lifecycle(o Options) []Step {
	at := o.Start
	tick := func() string {
		at = at.Add(time.Minute)
		return at.Format(time.RFC3339)
	}
	eventID := func(n int) string {
		return fmt.Sprintf("%s-%02d", o.OrderID, n)
	}

	items := []map[string]any{
		{"_id": o.OrderID + "-i1", "productName": "خبز عربي", "productNameEn": "Arabic bread", "quantity": 20, "unit": "قطعة", "price": 0.5, "status": "pending", "department": o.DepartmentID},
		{"_id": o.OrderID + "-i2", "productName": "كعك", "productNameEn": "Kaak", "quantity": 2.5, "unit": "kg", "price": 12, "status": "pending", "department": o.DepartmentID},
	}

	steps := []Step{
		{Event: event.EventOrderCreated, Payload: map[string]any{
			"eventId":     eventID(1),
			"_id":         o.OrderID,
			"orderId":     o.OrderID,
			"orderNumber": o.OrderNumber,
			"branch":      map[string]any{"_id": o.BranchID, "name": o.BranchName},
			"branchName":  o.BranchName,
			"status":      "pending",
			"priority":    "high",
			"totalAmount": 40,
			"items":       items,
			"createdAt":   tick(),
		}},
		{Event: event.EventOrderApprovedForBranch, Payload: map[string]any{
			"eventId": eventID(2), "orderId": o.OrderID, "orderNumber": o.OrderNumber,
			"branchId": o.BranchID, "status": "approved", "timestamp": tick(),
		}},
		{Event: event.EventTaskAssigned, Payload: map[string]any{
			"eventId": eventID(3), "orderId": o.OrderID, "orderNumber": o.OrderNumber, "branchId": o.BranchID,
			"items": []map[string]any{
				{"itemId": o.OrderID + "-i1", "assignedTo": map[string]any{"_id": o.ChefID, "name": "Chef"}, "productName": "خبز عربي", "department": o.DepartmentID},
				{"itemId": o.OrderID + "-i2", "assignedTo": map[string]any{"_id": o.ChefID, "name": "Chef"}, "productName": "كعك", "department": o.DepartmentID},
			},
			"timestamp": tick(),
		}},
	}

	n := 4
	for _, item := range items {
		steps = append(steps, Step{Event: event.EventItemStatusUpdated, Payload: map[string]any{
			"eventId": eventID(n), "orderId": o.OrderID, "orderNumber": o.OrderNumber, "branchId": o.BranchID,
			"itemId": item["_id"], "chefId": o.ChefID, "departmentId": o.DepartmentID,
			"productName": item["productName"], "status": "completed", "timestamp": tick(),
		}})
		n++
	}

	for _, name := range []string{event.EventOrderCompletedByChefs, event.EventOrderInTransitToBranch, event.EventBranchConfirmedReceipt} {
		steps = append(steps, Step{Event: name, Payload: map[string]any{
			"eventId": eventID(n), "orderId": o.OrderID, "orderNumber": o.OrderNumber,
			"branchId": o.BranchID, "timestamp": tick(),
		}})
		n++
	}

	return steps
}
