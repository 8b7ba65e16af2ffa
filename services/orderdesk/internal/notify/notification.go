package notify

import "time"

type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Notification is a client-side record of one accepted event. Both languages
// are kept so the desk can switch language without rebuilding the list.
type Notification struct {
	ID             string    `json:"id"`
	Type           string    `json:"type"`
	DisplayType    Severity  `json:"displayType"`
	Message        string    `json:"message"`
	MessageEn      string    `json:"messageEn"`
	DisplayMessage string    `json:"displayMessage"`
	Data           Data      `json:"data"`
	Read           bool      `json:"read"`
	CreatedAt      time.Time `json:"createdAt"`
	Sound          string    `json:"sound,omitempty"`
	Vibrate        []int     `json:"vibrate,omitempty"`
}

// Data cross-references the records a notification is about.
type Data struct {
	OrderID     string `json:"orderId,omitempty"`
	OrderNumber string `json:"orderNumber,omitempty"`
	ItemID      string `json:"itemId,omitempty"`
	ReturnID    string `json:"returnId,omitempty"`
	BranchID    string `json:"branchId,omitempty"`
	ChefID      string `json:"chefId,omitempty"`
	EventID     string `json:"eventId,omitempty"`
}
