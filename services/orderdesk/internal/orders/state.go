package orders

import (
	"github.com/appetiteclub/bakery/pkg/enums/orderstatus"
)

const DefaultPageSize = 20

// Variant selects the order flow: branch orders, or factory production orders
// that may end in stock.
type Variant string

const (
	VariantBranch  Variant = "branch"
	VariantFactory Variant = "factory"
)

// State is everything the view layer reads. It is only ever replaced, never
// mutated in place, so comparing slices by identity detects changes.
type State struct {
	Orders          []Order    `json:"orders"`
	SelectedOrder   *Order     `json:"selectedOrder,omitempty"`
	Filter          Filter     `json:"filter"`
	Sort            Sort       `json:"sort"`
	Page            int        `json:"page"`
	PageSize        int        `json:"pageSize"`
	Variant         Variant    `json:"variant"`
	SocketConnected bool       `json:"socketConnected"`
	SocketError     string     `json:"socketError,omitempty"`
	LoadError       *LoadError `json:"loadError,omitempty"`
}

// LoadError is the page-level failure of the last snapshot load.
type LoadError struct {
	NotFound bool   `json:"notFound"`
	Message  string `json:"message"`
}

type Filter struct {
	Status       orderstatus.Status `json:"status,omitempty"`
	BranchID     string             `json:"branchId,omitempty"`
	Priority     Priority           `json:"priority,omitempty"`
	DepartmentID string             `json:"departmentId,omitempty"`
	Search       string             `json:"search,omitempty"`
}

type SortField string

const (
	SortByDate        SortField = "date"
	SortByPriority    SortField = "priority"
	SortByTotal       SortField = "total"
	SortByOrderNumber SortField = "orderNumber"
)

type Sort struct {
	By   SortField `json:"by"`
	Desc bool      `json:"desc"`
}

func NewState(variant Variant, pageSize int) State {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if variant != VariantFactory {
		variant = VariantBranch
	}
	return State{
		Orders:   []Order{},
		Sort:     Sort{By: SortByDate, Desc: true},
		Page:     1,
		PageSize: pageSize,
		Variant:  variant,
	}
}

// Order returns the order with id, if present.
func (s State) Order(id string) (Order, bool) {
	if i := s.index(id); i >= 0 {
		return s.Orders[i], true
	}
	return Order{}, false
}

func (s State) index(id string) int {
	for i := range s.Orders {
		if s.Orders[i].ID == id {
			return i
		}
	}
	return -1
}
