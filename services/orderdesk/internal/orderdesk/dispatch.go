package orderdesk

import (
	"net/http"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/bakery/services/orderdesk/internal/orders"
)

// DispatchRequest carries one view action. Server-originated actions cannot be
// dispatched over HTTP.
type DispatchRequest struct {
	Type    string         `json:"type" validate:"required,oneof=selectOrder setFilter setSort setPage"`
	OrderID string         `json:"orderId,omitempty"`
	Filter  *orders.Filter `json:"filter,omitempty"`
	Sort    *orders.Sort   `json:"sort,omitempty"`
	Page    int            `json:"page,omitempty"`
}

func (req DispatchRequest) action() (orders.Action, string) {
	switch req.Type {
	case "selectOrder":
		return orders.SelectOrder{OrderID: req.OrderID}, ""
	case "setFilter":
		if req.Filter == nil {
			return nil, "filter is required"
		}
		return orders.SetFilter{Filter: *req.Filter}, ""
	case "setSort":
		if req.Sort == nil {
			return nil, "sort is required"
		}
		switch req.Sort.By {
		case orders.SortByDate, orders.SortByPriority, orders.SortByTotal, orders.SortByOrderNumber:
		default:
			return nil, "unknown sort field"
		}
		return orders.SetSort{Sort: *req.Sort}, ""
	case "setPage":
		if req.Page < 1 {
			return nil, "page must be positive"
		}
		return orders.SetPage{Page: req.Page}, ""
	}
	return nil, "unsupported action"
}

func (h *Handler) Dispatch(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.Dispatch")
	defer finish()

	var req DispatchRequest
	if !h.decode(w, r, &req) {
		return
	}

	action, problem := req.action()
	if problem != "" {
		apt.RespondError(w, http.StatusBadRequest, problem)
		return
	}

	st := h.store.Dispatch(action)
	h.log(r).Debug("view action dispatched", "type", req.Type)
	apt.Respond(w, http.StatusOK, h.view(st), nil)
}
