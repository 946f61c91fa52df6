package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"go-studio-booking/pkg/apierror"
)

type pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	storage pinger
	driver  string
}

func NewHealthHandler(storage pinger, driver string) *HealthHandler {
	return &HealthHandler{storage: storage, driver: driver}
}

func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.storage.Ping(ctx); err != nil {
		slog.Warn("health check failed", "driver", h.driver, "error", err)
		writeError(w, r, apierror.New("UNAVAILABLE", "storage is unreachable", h.driver, http.StatusServiceUnavailable))
		return
	}

	writeSuccess(w, http.StatusOK, map[string]string{"status": "ok", "storage": h.driver})
}
