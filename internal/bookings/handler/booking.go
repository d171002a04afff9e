package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"roombook/internal/bookings/service"
	"roombook/pkg/config"
	apperrors "roombook/pkg/errors"
	httputil "roombook/pkg/http"
	"roombook/pkg/logger"
	"roombook/pkg/model"
	"roombook/pkg/scheduling"
)

// Identity headers are set by the fronting gateway after authentication.
const (
	HeaderUsername = "X-Username"
	HeaderRole     = "X-Role"
)

type BookingHandler struct {
	service service.BookingService
	cfg     *config.Config
	log     *logger.Logger
}

func NewBookingHandler(service service.BookingService, cfg *config.Config) *BookingHandler {
	return &BookingHandler{
		service: service,
		cfg:     cfg,
		log:     cfg.Log,
	}
}

func requesterFrom(r *http.Request) service.Requester {
	return service.Requester{
		Username: r.Header.Get(HeaderUsername),
		Role:     r.Header.Get(HeaderRole),
	}
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var booking model.Booking
	if err := json.NewDecoder(r.Body).Decode(&booking); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		})
		return
	}

	if err := h.service.Create(r.Context(), &booking); err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteCreated(w, booking)
}

func (h *BookingHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	booking, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, booking)
}

func (h *BookingHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	bookings, total, err := h.service.GetAll(r.Context(), limit, offset)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WritePaginated(w, bookings, total, limit, int(offset))
}

func (h *BookingHandler) GetMine(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	var day time.Time
	if s := r.URL.Query().Get("date"); s != "" {
		day, err = time.ParseInLocation(scheduling.DayKeyFormat, s, h.cfg.Location)
		if err != nil {
			httputil.WriteError(w, apperrors.InvalidInput("invalid date parameter, expected YYYY-MM-DD: "+s))
			return
		}
	}

	includeHistory := r.URL.Query().Get("all") == "true"
	bookings, total, err := h.service.ListByRequester(r.Context(), requesterFrom(r), includeHistory, day, limit, offset)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WritePaginated(w, bookings, total, limit, int(offset))
}

func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Cancel(r.Context(), ps.ByName("id"), requesterFrom(r)); err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteNoContent(w)
}

type bulkCancelRequest struct {
	IDs []string `json:"ids"`
}

type bulkCancelResponse struct {
	Deleted int64 `json:"deleted"`
}

func (h *BookingHandler) BulkCancel(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req bulkCancelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		})
		return
	}

	deleted, err := h.service.BulkCancel(r.Context(), req.IDs, requesterFrom(r))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, bulkCancelResponse{Deleted: deleted})
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/bookings", h.Create)
	router.GET("/api/v1/bookings", h.GetAll)
	router.GET("/api/v1/bookings/my", h.GetMine)
	router.GET("/api/v1/bookings/id/:id", h.GetByID)
	router.DELETE("/api/v1/bookings/id/:id", h.Cancel)
	router.POST("/api/v1/bookings/bulk-delete", h.BulkCancel)
}
