package router

import (
	"github.com/appetiteclub/bakery/services/orderdesk/internal/orders"
)

// authorize decides whether the viewer may see ev. Scoping fields missing from
// the payload are resolved against the current state; anything that cannot be
// resolved is treated as out of scope. Task assignments come back narrowed to
// the viewer's own items.
func (r *Router) authorize(ev Event, st orders.State) (Event, bool) {
	if !r.viewer.allows(ev.Kind) {
		return ev, false
	}
	if ev.Kind.Connectivity() {
		return ev, true
	}

	switch r.viewer.Role {
	case RoleBranch:
		branch := ev.BranchID
		if branch == "" {
			if o, ok := st.Order(ev.OrderID); ok {
				branch = o.Branch.ID
			}
		}
		return ev, branch != "" && branch == r.viewer.BranchID
	case RoleChef:
		return r.scopeChef(ev, st)
	case RoleProduction:
		if r.viewer.DepartmentID == "" {
			return ev, true
		}
		return r.scopeDepartment(ev, st)
	}
	return ev, true
}

func (r *Router) scopeChef(ev Event, st orders.State) (Event, bool) {
	me := firstNonEmpty(r.viewer.ChefID, r.viewer.UserID)
	if me == "" {
		return ev, false
	}

	switch ev.Kind {
	case KindTaskAssigned:
		var mine []orders.Assignment
		for _, a := range ev.Assignments {
			if a.AssignedTo.ID == me {
				mine = append(mine, a)
			}
		}
		ev.Assignments = mine
		return ev, len(mine) > 0
	case KindItemStatusUpdated:
		chef := ev.ChefID
		if chef == "" {
			if item, ok := storedItem(st, ev.OrderID, ev.ItemID); ok && item.AssignedTo != nil {
				chef = item.AssignedTo.ID
			}
		}
		return ev, chef == me
	}
	return ev, false
}

func (r *Router) scopeDepartment(ev Event, st orders.State) (Event, bool) {
	dept := r.viewer.DepartmentID

	switch ev.Kind {
	case KindTaskAssigned:
		var scoped []orders.Assignment
		for _, a := range ev.Assignments {
			d := a.Department.ID
			if d == "" {
				if item, ok := storedItem(st, ev.OrderID, a.ItemID); ok {
					d = item.Department.ID
				}
			}
			if d == dept {
				scoped = append(scoped, a)
			}
		}
		ev.Assignments = scoped
		return ev, len(scoped) > 0
	case KindItemStatusUpdated:
		d := ev.DepartmentID
		if d == "" {
			if item, ok := storedItem(st, ev.OrderID, ev.ItemID); ok {
				d = item.Department.ID
			}
		}
		return ev, d == dept
	}
	return ev, true
}

func storedItem(st orders.State, orderID, itemID string) (orders.OrderItem, bool) {
	o, ok := st.Order(orderID)
	if !ok {
		return orders.OrderItem{}, false
	}
	for _, item := range o.Items {
		if item.ItemID == itemID {
			return item, true
		}
	}
	return orders.OrderItem{}, false
}
