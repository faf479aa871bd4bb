package handler

import (
	"log/slog"
	"net/http"

	"boty-storefront/internal/auth"
	"boty-storefront/internal/websocket"
)

type EventsHandler struct {
	hub            *websocket.Hub
	verifier       auth.Verifier
	allowedOrigins []string
}

func NewEventsHandler(hub *websocket.Hub, verifier auth.Verifier, allowedOrigins []string) *EventsHandler {
	return &EventsHandler{hub: hub, verifier: verifier, allowedOrigins: allowedOrigins}
}

// Stream upgrades to a websocket carrying product events.
func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	admin, ok := requireAdmin(h.verifier, w, r)
	if !ok {
		return
	}

	if err := h.hub.Serve(w, r, admin.Email, h.allowedOrigins); err != nil {
		slog.Warn("event stream upgrade failed", "error", err, "admin", admin.Email)
	}
}
