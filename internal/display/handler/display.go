package handler

import (
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"roombook/internal/display/service"
	"roombook/pkg/config"
	httputil "roombook/pkg/http"
)

// DisplayHandler serves the snapshot endpoint. The live event stream is
// mounted separately so it skips the request timeout and idempotency
// middleware, which would break a long-lived connection.
type DisplayHandler struct {
	service service.DisplayService
	cfg     *config.Config
}

func NewDisplayHandler(service service.DisplayService, cfg *config.Config) *DisplayHandler {
	return &DisplayHandler{
		service: service,
		cfg:     cfg,
	}
}

// Snapshot returns the full render state for a display: every room's
// timeline for the requested day plus the active carousel images.
func (h *DisplayHandler) Snapshot(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	day, err := httputil.ExtractDay(r, h.cfg.Location, time.Now())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	snapshot, err := h.service.Snapshot(r.Context(), day)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, snapshot)
}

func (h *DisplayHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/display", h.Snapshot)
}
