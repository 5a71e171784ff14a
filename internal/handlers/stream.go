package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"foodflow/internal/domain"
)

// streamBuffer bounds the per-subscriber event backlog; a client that
// cannot keep up loses events rather than blocking the publisher.
const streamBuffer = 32

// StreamOrders serves the SSE lifecycle feed: a connected event first,
// then business events as they occur, with heartbeats in between. The
// subscription and heartbeat ticker are released when the client
// disconnects.
func (h *Handler) StreamOrders(w http.ResponseWriter, r *http.Request) {
	fl, ok := w.(http.Flusher)
	if !ok {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "streaming unsupported"})
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache, no-transform")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	events := make(chan domain.Event, streamBuffer)
	unsubscribe := h.bus.Subscribe(func(evt domain.Event) {
		select {
		case events <- evt:
		default:
		}
	})
	defer unsubscribe()

	writeSSE(w, domain.EventConnected, map[string]any{"ok": true, "ts": time.Now().UTC()})
	fl.Flush()

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			writeSSE(w, domain.EventHeartbeat, map[string]any{"ts": time.Now().UTC()})
			fl.Flush()
		case evt := <-events:
			writeSSE(w, evt.Name, evt.StreamData())
			fl.Flush()
		}
	}
}

// writeSSE emits one event block: event line, data line, blank line.
func writeSSE(w io.Writer, event string, data any) {
	b, err := json.Marshal(data)
	if err != nil {
		b = []byte("{}")
	}
	// A disconnected client surfaces as a write error here; the loop
	// exits via the request context, so the error is dropped.
	_, _ = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, b)
}
