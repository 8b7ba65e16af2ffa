package orders

import (
	"time"

	"github.com/appetiteclub/bakery/pkg/enums/itemstatus"
	"github.com/appetiteclub/bakery/pkg/enums/orderstatus"
	"github.com/appetiteclub/bakery/pkg/enums/returnstatus"
)

// Action is the closed set of state changes Reduce understands.
type Action interface {
	isAction()
}

// SetOrders replaces the whole collection and resets pagination.
type SetOrders struct {
	Orders []Order
}

// AddOrder prepends an order, replacing any order with the same id.
type AddOrder struct {
	Order Order
}

// UpdateOrderStatus moves an order to Status. When Snapshot is set it replaces
// the whole order first, subject to the revision check.
type UpdateOrderStatus struct {
	OrderID  string
	Status   orderstatus.Status
	Snapshot *Order
	By       string
	At       time.Time
	Notes    string
}

type UpdateItemStatus struct {
	OrderID string
	ItemID  string
	Status  itemstatus.Status
	By      string
	At      time.Time
}

type TaskAssigned struct {
	OrderID string
	Items   []Assignment
	By      string
	At      time.Time
}

type ReturnStatusUpdated struct {
	OrderID     string
	ReturnID    string
	Status      returnstatus.Status
	ReviewNotes string
	ReviewedBy  string
}

type SetSocketConnected struct {
	Connected bool
}

// SetSocketError sets the connectivity message; an empty message clears it.
type SetSocketError struct {
	Message string
}

// SetLoadError records a failed snapshot load; an empty message clears it.
type SetLoadError struct {
	NotFound bool
	Message  string
}

// SelectOrder selects the order with OrderID; an empty id clears the selection.
type SelectOrder struct {
	OrderID string
}

type SetFilter struct {
	Filter Filter
}

type SetSort struct {
	Sort Sort
}

type SetPage struct {
	Page int
}

func (SetOrders) isAction()           {}
func (AddOrder) isAction()            {}
func (UpdateOrderStatus) isAction()   {}
func (UpdateItemStatus) isAction()    {}
func (TaskAssigned) isAction()        {}
func (ReturnStatusUpdated) isAction() {}
func (SetSocketConnected) isAction()  {}
func (SetSocketError) isAction()      {}
func (SetLoadError) isAction()        {}
func (SelectOrder) isAction()         {}
func (SetFilter) isAction()           {}
func (SetSort) isAction()             {}
func (SetPage) isAction()             {}
