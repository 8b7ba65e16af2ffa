package router

import "github.com/appetiteclub/bakery/pkg/event"

// Kind is the closed set of inbound events. Aliased wire names share a kind.
type Kind int

const (
	KindUnknown Kind = iota
	KindOrderCreated
	KindOrderApproved
	KindTaskAssigned
	KindItemStatusUpdated
	KindOrderStatusUpdated
	KindOrderCompleted
	KindOrderInTransit
	KindOrderDelivered
	KindReturnStatusUpdated
	KindMissingAssignments
	KindConnect
	KindDisconnect
	KindConnectError
)

var kindNames = map[string]Kind{
	event.EventOrderCreated:           KindOrderCreated,
	event.EventOrderApprovedForBranch: KindOrderApproved,
	event.EventOrderConfirmed:         KindOrderApproved,
	event.EventTaskAssigned:           KindTaskAssigned,
	event.EventItemStatusUpdated:      KindItemStatusUpdated,
	event.EventOrderStatusUpdated:     KindOrderStatusUpdated,
	event.EventOrderCompletedByChefs:  KindOrderCompleted,
	event.EventOrderCompleted:         KindOrderCompleted,
	event.EventOrderInTransitToBranch: KindOrderInTransit,
	event.EventOrderShipped:           KindOrderInTransit,
	event.EventBranchConfirmedReceipt: KindOrderDelivered,
	event.EventOrderDelivered:         KindOrderDelivered,
	event.EventReturnStatusUpdated:    KindReturnStatusUpdated,
	event.EventMissingAssignments:     KindMissingAssignments,
	event.EventConnect:                KindConnect,
	event.EventDisconnect:             KindDisconnect,
	event.EventConnectError:           KindConnectError,
}

func KindOf(name string) Kind {
	return kindNames[name]
}

func (k Kind) String() string {
	switch k {
	case KindOrderCreated:
		return "orderCreated"
	case KindOrderApproved:
		return "orderApproved"
	case KindTaskAssigned:
		return "taskAssigned"
	case KindItemStatusUpdated:
		return "itemStatusUpdated"
	case KindOrderStatusUpdated:
		return "orderStatusUpdated"
	case KindOrderCompleted:
		return "orderCompleted"
	case KindOrderInTransit:
		return "orderInTransit"
	case KindOrderDelivered:
		return "orderDelivered"
	case KindReturnStatusUpdated:
		return "returnStatusUpdated"
	case KindMissingAssignments:
		return "missingAssignments"
	case KindConnect:
		return "connect"
	case KindDisconnect:
		return "disconnect"
	case KindConnectError:
		return "connectError"
	}
	return "unknown"
}

// Connectivity reports whether the kind comes from the transport rather than the server.
func (k Kind) Connectivity() bool {
	return k == KindConnect || k == KindDisconnect || k == KindConnectError
}
