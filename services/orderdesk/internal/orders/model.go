package orders

import (
	"time"

	"github.com/appetiteclub/bakery/pkg/enums/itemstatus"
	"github.com/appetiteclub/bakery/pkg/enums/orderstatus"
	"github.com/appetiteclub/bakery/pkg/enums/returnstatus"
	"github.com/shopspring/decimal"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// rank orders priorities for sorting; unknown values sort with medium.
func (p Priority) rank() int {
	switch p {
	case PriorityLow:
		return 0
	case PriorityHigh:
		return 2
	case PriorityUrgent:
		return 3
	default:
		return 1
	}
}

// Order is the root aggregate. It exclusively owns its items and returns.
type Order struct {
	ID                    string             `json:"id"`
	OrderNumber           string             `json:"orderNumber"`
	Branch                BranchRef          `json:"branch"`
	Items                 []OrderItem        `json:"items"`
	Status                orderstatus.Status `json:"status"`
	TotalAmount           decimal.Decimal    `json:"totalAmount"`
	AdjustedTotal         decimal.Decimal    `json:"adjustedTotal"`
	Priority              Priority           `json:"priority"`
	StatusHistory         []StatusChange     `json:"statusHistory"`
	Returns               []Return           `json:"returns"`
	Notes                 string             `json:"notes,omitempty"`
	CreatedBy             string             `json:"createdBy,omitempty"`
	CreatedAt             time.Time          `json:"createdAt"`
	RequestedDeliveryDate *time.Time         `json:"requestedDeliveryDate,omitempty"`

	// Revision is the server-side document version; 0 when the server did not send one.
	Revision  int64     `json:"revision"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type BranchRef struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	NameEn      string `json:"nameEn,omitempty"`
	DisplayName string `json:"displayName"`
}

type DepartmentRef struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	NameEn      string `json:"nameEn,omitempty"`
	DisplayName string `json:"displayName"`
}

type ChefRef struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	Name        string `json:"name"`
	NameEn      string `json:"nameEn,omitempty"`
	DisplayName string `json:"displayName"`
}

type OrderItem struct {
	ItemID string `json:"itemId"`
	// IDSynthesized marks ids generated locally because the server sent none.
	IDSynthesized      bool              `json:"idSynthesized,omitempty"`
	ProductID          string            `json:"productId"`
	ProductName        string            `json:"productName"`
	ProductNameEn      string            `json:"productNameEn,omitempty"`
	DisplayProductName string            `json:"displayProductName"`
	Quantity           float64           `json:"quantity"`
	Unit               string            `json:"unit"`
	UnitEn             string            `json:"unitEn,omitempty"`
	DisplayUnit        string            `json:"displayUnit"`
	Price              decimal.Decimal   `json:"price"`
	Department         DepartmentRef     `json:"department"`
	AssignedTo         *ChefRef          `json:"assignedTo,omitempty"`
	Status             itemstatus.Status `json:"status"`
	ReturnedQuantity   float64           `json:"returnedQuantity"`
	ReturnReason       string            `json:"returnReason,omitempty"`
}

// Assigned reports whether the item has a chef with a non-empty id.
func (i OrderItem) Assigned() bool {
	return i.AssignedTo != nil && i.AssignedTo.ID != ""
}

type StatusChange struct {
	Status    orderstatus.Status `json:"status"`
	ChangedBy string             `json:"changedBy"`
	ChangedAt time.Time          `json:"changedAt"`
	Notes     string             `json:"notes,omitempty"`
}

type Return struct {
	ReturnID     string              `json:"returnId"`
	ReturnNumber string              `json:"returnNumber"`
	Items        []ReturnItem        `json:"items"`
	Status       returnstatus.Status `json:"status"`
	ReviewNotes  string              `json:"reviewNotes,omitempty"`
	CreatedAt    time.Time           `json:"createdAt"`
	CreatedBy    string              `json:"createdBy,omitempty"`
	ReviewedBy   string              `json:"reviewedBy,omitempty"`
}

type ReturnItem struct {
	ProductID string  `json:"productId"`
	Quantity  float64 `json:"quantity"`
	Reason    string  `json:"reason"`
}

// Chef is reference data used for assignment eligibility; it is not owned by any order.
type Chef struct {
	ID          string        `json:"id"`
	UserID      string        `json:"userId"`
	Username    string        `json:"username"`
	Name        string        `json:"name"`
	NameEn      string        `json:"nameEn,omitempty"`
	DisplayName string        `json:"displayName"`
	Department  DepartmentRef `json:"department"`
}

// Ref returns the reference stored on an assigned item.
func (c Chef) Ref() ChefRef {
	return ChefRef{
		ID:          c.ID,
		Username:    c.Username,
		Name:        c.Name,
		NameEn:      c.NameEn,
		DisplayName: c.DisplayName,
	}
}

// Product is a catalog entry used when creating production orders.
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	NameEn      string          `json:"nameEn,omitempty"`
	DisplayName string          `json:"displayName"`
	Unit        string          `json:"unit"`
	UnitEn      string          `json:"unitEn"`
	DisplayUnit string          `json:"displayUnit"`
	Price       decimal.Decimal `json:"price"`
	Department  DepartmentRef   `json:"department"`
}

// Assignment is one (item, chef, status) tuple carried by a task assignment.
type Assignment struct {
	ItemID     string            `json:"itemId"`
	AssignedTo ChefRef           `json:"assignedTo"`
	Status     itemstatus.Status `json:"status"`
	// Department is filled when the payload carries it; used for scoping only.
	Department  DepartmentRef `json:"department"`
	ProductName string        `json:"productName,omitempty"`
	Quantity    float64       `json:"quantity,omitempty"`
}

// AllItemsCompleted reports whether the order has items and every one is completed.
func (o Order) AllItemsCompleted() bool {
	if len(o.Items) == 0 {
		return false
	}
	for _, item := range o.Items {
		if item.Status != itemstatus.Statuses.Completed {
			return false
		}
	}
	return true
}

// AllItemsAssigned reports whether the order has items and every one has a chef.
func (o Order) AllItemsAssigned() bool {
	if len(o.Items) == 0 {
		return false
	}
	for _, item := range o.Items {
		if !item.Assigned() {
			return false
		}
	}
	return true
}

func (o Order) itemIndex(itemID string) int {
	for i := range o.Items {
		if o.Items[i].ItemID == itemID {
			return i
		}
	}
	return -1
}

func (o Order) returnIndex(returnID string) int {
	for i := range o.Returns {
		if o.Returns[i].ReturnID == returnID {
			return i
		}
	}
	return -1
}
