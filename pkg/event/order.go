package event

import (
	"encoding/json"
	"fmt"
)

const (
	// EventsTopic is the subject prefix used when the channel is carried over NATS.
	EventsTopic = "bakery.events"

	EventOrderCreated           = "orderCreated"
	EventOrderApprovedForBranch = "orderApprovedForBranch"
	EventOrderConfirmed         = "orderConfirmed"
	EventOrderStatusUpdated     = "orderStatusUpdated"
	EventOrderCompletedByChefs  = "orderCompletedByChefs"
	EventOrderCompleted         = "orderCompleted"
	EventOrderInTransitToBranch = "orderInTransitToBranch"
	EventOrderShipped           = "orderShipped"
	EventBranchConfirmedReceipt = "branchConfirmedReceipt"
	EventOrderDelivered         = "orderDelivered"
	EventReturnStatusUpdated    = "returnStatusUpdated"

	// Connectivity pseudo-events raised by the transport itself.
	EventConnect      = "connect"
	EventDisconnect   = "disconnect"
	EventConnectError = "connect_error"

	// EventJoinRoom is the only outbound event.
	EventJoinRoom = "joinRoom"
)

// Envelope is the frame carried by every channel: the event name plus its raw payload.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// JoinRoom registers the viewer with the server-side rooms it is allowed to see.
type JoinRoom struct {
	UserID       string `json:"userId"`
	Role         string `json:"role"`
	BranchID     string `json:"branchId,omitempty"`
	ChefID       string `json:"chefId,omitempty"`
	DepartmentID string `json:"departmentId,omitempty"`
}

// Encode frames payload under name. A payload that is already raw JSON is kept as is.
func Encode(name string, payload any) ([]byte, error) {
	var data json.RawMessage
	switch p := payload.(type) {
	case nil:
	case json.RawMessage:
		data = p
	case []byte:
		data = p
	default:
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", name, err)
		}
		data = b
	}
	return json.Marshal(Envelope{Event: name, Data: data})
}

func Decode(msg []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(msg, &env); err != nil {
		return env, fmt.Errorf("decode envelope: %w", err)
	}
	if env.Event == "" {
		return env, fmt.Errorf("decode envelope: missing event name")
	}
	return env, nil
}

// IsConnectivity reports whether name is raised by the transport rather than the server.
func IsConnectivity(name string) bool {
	switch name {
	case EventConnect, EventDisconnect, EventConnectError:
		return true
	}
	return false
}
