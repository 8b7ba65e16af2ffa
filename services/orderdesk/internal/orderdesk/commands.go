package orderdesk

import (
	"errors"
	"net/http"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/bakery/pkg/enums/itemstatus"
	"github.com/appetiteclub/bakery/pkg/enums/orderstatus"
	"github.com/appetiteclub/bakery/services/orderdesk/internal/orders"
	"github.com/appetiteclub/bakery/services/orderdesk/internal/restapi"
	"github.com/appetiteclub/bakery/services/orderdesk/internal/workflow"
	"github.com/go-chi/chi/v5"
)

type CreateFactoryOrderRequest struct {
	Items []struct {
		ProductID  string  `json:"productId" validate:"required"`
		Quantity   float64 `json:"quantity" validate:"required"`
		AssignedTo string  `json:"assignedTo,omitempty"`
	} `json:"items" validate:"required,min=1,dive"`
	Notes    string `json:"notes,omitempty"`
	Priority string `json:"priority,omitempty" validate:"omitempty,oneof=low medium high urgent"`
}

type StatusRequest struct {
	Status string `json:"status" validate:"required"`
	Notes  string `json:"notes,omitempty"`
}

type AssignRequest struct {
	Items []struct {
		ItemID string `json:"itemId" validate:"required"`
		ChefID string `json:"chefId,omitempty"`
	} `json:"items" validate:"required,min=1,dive"`
}

func (h *Handler) CreateFactoryOrder(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.CreateFactoryOrder")
	defer finish()

	var req CreateFactoryOrderRequest
	if !h.decode(w, r, &req) {
		return
	}

	cr := workflow.CreateRequest{Notes: req.Notes, Priority: orders.Priority(req.Priority)}
	for _, it := range req.Items {
		cr.Items = append(cr.Items, workflow.ItemRequest{
			ProductID:  it.ProductID,
			Quantity:   it.Quantity,
			AssignedTo: it.AssignedTo,
		})
	}

	o, err := h.commands.Create(r.Context(), cr)
	if err != nil {
		h.commandError(w, r, err)
		return
	}

	apt.Respond(w, http.StatusCreated, o, nil)
}

func (h *Handler) ReloadOrders(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ReloadOrders")
	defer finish()

	if err := h.commands.Load(r.Context()); err != nil {
		h.commandError(w, r, err)
		return
	}

	apt.Respond(w, http.StatusOK, h.view(h.store.State()), nil)
}

func (h *Handler) GetReference(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetReference")
	defer finish()

	apt.Respond(w, http.StatusOK, h.commands.Reference(), nil)
}

func (h *Handler) ApproveFactoryOrder(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ApproveFactoryOrder")
	defer finish()

	id := chi.URLParam(r, "id")
	if err := h.commands.Approve(r.Context(), id); err != nil {
		h.commandError(w, r, err)
		return
	}
	h.respondOrder(w, id)
}

func (h *Handler) UpdateFactoryOrderStatus(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.UpdateFactoryOrderStatus")
	defer finish()

	var req StatusRequest
	if !h.decode(w, r, &req) {
		return
	}
	status := orderstatus.ByName(req.Status)
	if status == nil {
		apt.RespondError(w, http.StatusBadRequest, "unknown order status")
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.commands.UpdateStatus(r.Context(), id, *status, req.Notes); err != nil {
		h.commandError(w, r, err)
		return
	}
	h.respondOrder(w, id)
}

func (h *Handler) AssignChefs(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.AssignChefs")
	defer finish()

	var req AssignRequest
	if !h.decode(w, r, &req) {
		return
	}

	assignments := make([]workflow.ChefAssignment, 0, len(req.Items))
	for _, it := range req.Items {
		assignments = append(assignments, workflow.ChefAssignment{ItemID: it.ItemID, ChefID: it.ChefID})
	}

	id := chi.URLParam(r, "id")
	if err := h.commands.AssignChefs(r.Context(), id, assignments); err != nil {
		h.commandError(w, r, err)
		return
	}
	h.respondOrder(w, id)
}

func (h *Handler) UpdateItemStatus(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.UpdateItemStatus")
	defer finish()

	var req StatusRequest
	if !h.decode(w, r, &req) {
		return
	}
	status := itemstatus.ByName(req.Status)
	if status == nil {
		apt.RespondError(w, http.StatusBadRequest, "unknown item status")
		return
	}

	id := chi.URLParam(r, "id")
	itemID := chi.URLParam(r, "itemID")
	if err := h.commands.UpdateItemStatus(r.Context(), id, itemID, *status); err != nil {
		h.commandError(w, r, err)
		return
	}
	h.respondOrder(w, id)
}

func (h *Handler) ConfirmProduction(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ConfirmProduction")
	defer finish()

	id := chi.URLParam(r, "id")
	if err := h.commands.ConfirmProduction(r.Context(), id); err != nil {
		h.commandError(w, r, err)
		return
	}
	h.respondOrder(w, id)
}

func (h *Handler) respondOrder(w http.ResponseWriter, id string) {
	o, ok := h.store.State().Order(id)
	if !ok {
		apt.RespondError(w, http.StatusNotFound, "order not found")
		return
	}
	apt.Respond(w, http.StatusOK, o, nil)
}

func (h *Handler) commandError(w http.ResponseWriter, r *http.Request, err error) {
	var loadErr *restapi.LoadError
	switch {
	case errors.As(err, &loadErr) && loadErr.NotFound:
		apt.RespondError(w, http.StatusNotFound, "no orders found")
	case errors.Is(err, workflow.ErrOrderNotFound), errors.Is(err, workflow.ErrItemNotFound):
		apt.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, workflow.ErrInvalidTransition),
		errors.Is(err, workflow.ErrChefNotEligible),
		errors.Is(err, workflow.ErrInvalidQuantity),
		errors.Is(err, workflow.ErrEmptyOrder):
		apt.RespondError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, restapi.ErrCircuitOpen):
		apt.RespondError(w, http.StatusServiceUnavailable, err.Error())
	case loadErr != nil:
		h.log(r).Error("order load failed", "error", err)
		apt.RespondError(w, http.StatusBadGateway, "orders could not be loaded")
	default:
		h.log(r).Error("command failed", "error", err)
		apt.RespondError(w, http.StatusBadGateway, "upstream request failed")
	}
}
