package handler

import (
	"net/http"

	gorillaws "github.com/gorilla/websocket"

	"go-studio-booking/internal/middleware"
	"go-studio-booking/internal/websocket"
	"go-studio-booking/pkg/apierror"
)

// EventsHandler streams session and roster events over a websocket.
type EventsHandler struct {
	hub      *websocket.Hub
	upgrader *gorillaws.Upgrader
}

// NewEventsHandler accepts browser upgrades from origins. An empty list
// accepts any origin.
func NewEventsHandler(hub *websocket.Hub, origins []string) *EventsHandler {
	allowed := make(map[string]struct{}, len(origins))
	for _, origin := range origins {
		allowed[origin] = struct{}{}
	}

	return &EventsHandler{
		hub: hub,
		upgrader: &gorillaws.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" || len(allowed) == 0 {
					return true
				}
				if _, ok := allowed["*"]; ok {
					return true
				}
				_, ok := allowed[origin]
				return ok
			},
		},
	}
}

func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, r, apierror.New("UNAUTHORIZED", "full authentication is required", "", http.StatusUnauthorized))
		return
	}

	h.hub.Serve(w, r, principal.Subject, h.upgrader)
}
