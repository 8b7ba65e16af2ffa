package orders

import (
	"cmp"
	"slices"
	"strings"
)

// Page is the visible slice of orders after filtering, sorting and pagination.
type Page struct {
	Orders   []Order `json:"orders"`
	Total    int     `json:"total"`
	Page     int     `json:"page"`
	PageSize int     `json:"pageSize"`
	Pages    int     `json:"pages"`
}

func Visible(s State) Page {
	filtered := Filtered(s.Orders, s.Filter)
	SortOrders(filtered, s.Sort)

	size := s.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}
	pages := (len(filtered) + size - 1) / size
	page := min(max(s.Page, 1), max(pages, 1))

	start := min((page-1)*size, len(filtered))
	end := min(start+size, len(filtered))

	return Page{
		Orders:   filtered[start:end],
		Total:    len(filtered),
		Page:     page,
		PageSize: size,
		Pages:    pages,
	}
}

// Filtered returns a new slice holding the orders that match f.
func Filtered(orders []Order, f Filter) []Order {
	search := strings.ToLower(strings.TrimSpace(f.Search))
	out := make([]Order, 0, len(orders))
	for _, o := range orders {
		if f.Status != "" && o.Status != f.Status {
			continue
		}
		if f.BranchID != "" && o.Branch.ID != f.BranchID {
			continue
		}
		if f.Priority != "" && o.Priority != f.Priority {
			continue
		}
		if f.DepartmentID != "" && !hasDepartment(o, f.DepartmentID) {
			continue
		}
		if search != "" && !matches(o, search) {
			continue
		}
		out = append(out, o)
	}
	return out
}

// SortOrders sorts in place; ties keep their relative order.
func SortOrders(orders []Order, s Sort) {
	by := s.By
	if by == "" {
		by = SortByDate
	}
	slices.SortStableFunc(orders, func(a, b Order) int {
		var c int
		switch by {
		case SortByPriority:
			c = cmp.Compare(a.Priority.rank(), b.Priority.rank())
		case SortByTotal:
			c = a.TotalAmount.Cmp(b.TotalAmount)
		case SortByOrderNumber:
			c = strings.Compare(a.OrderNumber, b.OrderNumber)
		default:
			c = a.CreatedAt.Compare(b.CreatedAt)
		}
		if s.Desc {
			return -c
		}
		return c
	})
}

func hasDepartment(o Order, departmentID string) bool {
	for _, item := range o.Items {
		if item.Department.ID == departmentID {
			return true
		}
	}
	return false
}

func matches(o Order, search string) bool {
	fields := []string{o.OrderNumber, o.Branch.Name, o.Branch.NameEn, o.Branch.DisplayName}
	for _, item := range o.Items {
		fields = append(fields, item.ProductName, item.ProductNameEn)
	}
	for _, f := range fields {
		if f != "" && strings.Contains(strings.ToLower(f), search) {
			return true
		}
	}
	return false
}
