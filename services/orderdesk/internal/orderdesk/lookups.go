package orderdesk

import (
	"context"
	"net/http"
	"strconv"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/bakery/services/orderdesk/internal/orders"
	"github.com/appetiteclub/bakery/services/orderdesk/internal/restapi"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) ListChefTasks(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListChefTasks")
	defer finish()

	q := restapi.TaskQuery{
		ChefID: chi.URLParam(r, "id"),
		Page:   1,
		Status: r.URL.Query().Get("status"),
		Search: r.URL.Query().Get("search"),
	}
	if v := r.URL.Query().Get("page"); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil || page < 1 {
			apt.RespondError(w, http.StatusBadRequest, "invalid page")
			return
		}
		q.Page = page
	}

	tasks, err := h.lookups.ChefTasks(r.Context(), q)
	if err != nil {
		h.log(r).Error("cannot list chef tasks", "chef_id", q.ChefID, "error", err)
		apt.RespondError(w, http.StatusBadGateway, "cannot load tasks")
		return
	}

	apt.Respond(w, http.StatusOK, tasks, nil)
}

func (h *Handler) GetLookup(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetLookup")
	defer finish()

	var fetch func(context.Context) ([]orders.Payload, error)
	switch name := chi.URLParam(r, "name"); name {
	case "returns":
		fetch = h.lookups.Returns
	case "inventory":
		fetch = h.lookups.Inventory
	case "sales":
		fetch = h.lookups.Sales
	default:
		apt.RespondError(w, http.StatusNotFound, "unknown lookup")
		return
	}

	items, err := fetch(r.Context())
	if err != nil {
		h.log(r).Error("lookup failed", "error", err)
		apt.RespondError(w, http.StatusBadGateway, "cannot load lookup")
		return
	}

	apt.Respond(w, http.StatusOK, items, nil)
}
