package event

const (
	EventTaskAssigned       = "taskAssigned"
	EventItemStatusUpdated  = "itemStatusUpdated"
	EventMissingAssignments = "missingAssignments"
)

// Inbound lists every event name the order desk consumes, in registration order.
var Inbound = []string{
	EventOrderCreated,
	EventOrderApprovedForBranch,
	EventOrderConfirmed,
	EventTaskAssigned,
	EventItemStatusUpdated,
	EventOrderStatusUpdated,
	EventOrderCompletedByChefs,
	EventOrderCompleted,
	EventOrderInTransitToBranch,
	EventOrderShipped,
	EventBranchConfirmedReceipt,
	EventOrderDelivered,
	EventReturnStatusUpdated,
	EventMissingAssignments,
	EventConnect,
	EventDisconnect,
	EventConnectError,
}
