package http

import (
	"net/http"

	"github.com/opsdesk/deskd/internal/helpdesk/store"
	"github.com/opsdesk/deskd/pkg/httpx"
)

// SystemHandler serves the probe endpoints. Liveness is unconditional;
// readiness pings the database so a wedged store takes the instance out of
// rotation.
type SystemHandler struct {
	Store store.Store
}

func (h *SystemHandler) HandleLivez(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *SystemHandler) HandleReadyz(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Ping(r.Context()); err != nil {
		httpx.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
