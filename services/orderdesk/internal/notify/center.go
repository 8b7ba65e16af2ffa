package notify

import (
	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/bakery/services/orderdesk/internal/orders"
	"github.com/appetiteclub/bakery/services/orderdesk/internal/router"
)

type StateReader interface {
	State() orders.State
}

// Center turns accepted router events into list entries.
type Center struct {
	emitter *Emitter
	list    *List
	state   StateReader
	logger  apt.Logger
}

func NewCenter(emitter *Emitter, list *List, state StateReader, logger apt.Logger) *Center {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &Center{emitter: emitter, list: list, state: state, logger: logger}
}

// Notify fills in display fields the event lacks from the current state, then
// builds and stores its notifications.
func (c *Center) Notify(ev router.Event) {
	if c.state != nil {
		ev = enrich(ev, c.state.State())
	}
	for _, n := range c.emitter.Build(ev) {
		if !c.list.Add(n) {
			c.log().Debug("duplicate notification suppressed", "notification_id", n.ID, "type", n.Type)
		}
	}
}

func (c *Center) List() *List {
	return c.list
}

func enrich(ev router.Event, st orders.State) router.Event {
	o, ok := st.Order(ev.OrderID)
	if !ok {
		return ev
	}
	if ev.OrderNumber == "" {
		ev.OrderNumber = o.OrderNumber
	}
	if ev.BranchID == "" {
		ev.BranchID = o.Branch.ID
	}
	if ev.BranchName == "" {
		ev.BranchName = o.Branch.DisplayName
	}
	if ev.ProductName == "" && ev.ItemID != "" {
		for _, item := range o.Items {
			if item.ItemID == ev.ItemID {
				ev.ProductName = item.DisplayProductName
				break
			}
		}
	}
	if len(ev.Assignments) > 0 {
		assignments := make([]orders.Assignment, len(ev.Assignments))
		copy(assignments, ev.Assignments)
		for i := range assignments {
			if assignments[i].ProductName != "" {
				continue
			}
			for _, item := range o.Items {
				if item.ItemID == assignments[i].ItemID {
					assignments[i].ProductName = item.DisplayProductName
				}
			}
		}
		ev.Assignments = assignments
	}
	return ev
}

func (c *Center) log() apt.Logger {
	return c.logger.With("component", "notification-center")
}
