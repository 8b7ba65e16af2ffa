package orderdesk

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
)

const keepaliveInterval = 30 * time.Second

// Events streams state snapshots and new notifications as server-sent events.
func (h *Handler) Events(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	subscriberID := uuid.New().String()
	h.logger.Info("new SSE connection", "subscriber_id", subscriberID)

	stateID, states := h.store.Subscribe()
	defer h.store.Unsubscribe(stateID)

	notesID, notes := h.notes.Subscribe()
	defer h.notes.Unsubscribe(notesID)

	fmt.Fprintf(w, ": connected\n\n")
	fmt.Fprintf(w, "retry: 2000\n\n")
	h.sendEvent(w, "state", h.view(h.store.State()))

	ticker := time.NewTicker(keepaliveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			h.logger.Info("SSE client disconnected", "subscriber_id", subscriberID)
			return

		case <-ticker.C:
			fmt.Fprintf(w, ": keepalive\n\n")
			flush(w)

		case st, ok := <-states:
			if !ok {
				return
			}
			h.sendEvent(w, "state", h.view(st))

		case n, ok := <-notes:
			if !ok {
				return
			}
			h.sendEvent(w, "notification", n)
		}
	}
}

func (h *Handler) sendEvent(w http.ResponseWriter, name string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("failed to encode SSE payload", "event", name, "error", err)
		return
	}
	fmt.Fprintf(w, "event: %s\n", name)
	fmt.Fprintf(w, "data: %s\n\n", data)
	flush(w)
}

func flush(w http.ResponseWriter) {
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}
