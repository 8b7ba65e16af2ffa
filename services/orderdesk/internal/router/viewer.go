package router

import (
	"slices"

	"github.com/appetiteclub/bakery/pkg/event"
	"github.com/appetiteclub/bakery/services/orderdesk/internal/orders"
)

type Role string

const (
	RoleAdmin      Role = "admin"
	RoleBranch     Role = "branch"
	RoleProduction Role = "production"
	RoleChef       Role = "chef"
)

// Viewer identifies whose order desk this is.
type Viewer struct {
	UserID       string
	Role         Role
	BranchID     string
	ChefID       string
	DepartmentID string
	Lang         orders.Lang
}

// JoinRoom is the registration the server uses to pick rooms for this viewer.
func (v Viewer) JoinRoom() event.JoinRoom {
	return event.JoinRoom{
		UserID:       v.UserID,
		Role:         string(v.Role),
		BranchID:     v.BranchID,
		ChefID:       v.ChefID,
		DepartmentID: v.DepartmentID,
	}
}

var (
	lifecycleRoles  = []Role{RoleAdmin, RoleBranch, RoleProduction}
	productionRoles = []Role{RoleAdmin, RoleBranch, RoleProduction, RoleChef}
)

// allowedRoles gates each server event kind to the roles that may see it.
var allowedRoles = map[Kind][]Role{
	KindOrderCreated:        lifecycleRoles,
	KindOrderApproved:       lifecycleRoles,
	KindOrderStatusUpdated:  lifecycleRoles,
	KindOrderCompleted:      lifecycleRoles,
	KindOrderInTransit:      lifecycleRoles,
	KindOrderDelivered:      lifecycleRoles,
	KindReturnStatusUpdated: lifecycleRoles,
	KindTaskAssigned:        productionRoles,
	KindItemStatusUpdated:   productionRoles,
	KindMissingAssignments:  {RoleAdmin, RoleProduction},
}

func (v Viewer) allows(k Kind) bool {
	if k.Connectivity() {
		return true
	}
	return slices.Contains(allowedRoles[k], v.Role)
}
