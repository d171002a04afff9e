package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"roombook/internal/schedule/service"
	"roombook/pkg/config"
	apperrors "roombook/pkg/errors"
	httputil "roombook/pkg/http"
	"roombook/pkg/logger"
	"roombook/pkg/scheduling"
)

type ScheduleHandler struct {
	service service.ScheduleService
	cfg     *config.Config
	log     *logger.Logger
}

func NewScheduleHandler(service service.ScheduleService, cfg *config.Config) *ScheduleHandler {
	return &ScheduleHandler{
		service: service,
		cfg:     cfg,
		log:     cfg.Log,
	}
}

func (h *ScheduleHandler) DaySchedule(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	day, err := httputil.ExtractDay(r, h.cfg.Location, time.Now())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	schedule, err := h.service.DaySchedule(r.Context(), day)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, schedule)
}

func (h *ScheduleHandler) RoomTimeline(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	day, err := httputil.ExtractDay(r, h.cfg.Location, time.Now())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	timeline, err := h.service.RoomTimelineForDay(r.Context(), ps.ByName("id"), day)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, timeline)
}

func (h *ScheduleHandler) Grid(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	day, err := httputil.ExtractDay(r, h.cfg.Location, time.Now())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	grid, err := h.service.Grid(r.Context(), day)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, grid)
}

// AvailableTimes answers both GET (date in the query string) and POST
// (date in a JSON body) so booking forms can reuse their submit payload.
func (h *ScheduleHandler) AvailableTimes(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	day, err := h.extractRequestedDay(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	availability, err := h.service.AvailableTimes(r.Context(), ps.ByName("id"), day)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, availability)
}

func (h *ScheduleHandler) extractRequestedDay(r *http.Request) (time.Time, error) {
	if r.Method == http.MethodPost {
		var body struct {
			Date string `json:"date"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil && err != io.EOF {
			return time.Time{}, apperrors.InvalidInput("invalid request body")
		}
		if body.Date != "" {
			day, err := time.ParseInLocation(scheduling.DayKeyFormat, body.Date, h.cfg.Location)
			if err != nil {
				return time.Time{}, apperrors.InvalidInput("invalid date, expected YYYY-MM-DD: " + body.Date)
			}
			return day, nil
		}
	}

	return httputil.ExtractDay(r, h.cfg.Location, time.Now())
}

func (h *ScheduleHandler) Export(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	day, err := httputil.ExtractDay(r, h.cfg.Location, time.Now())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	file, err := h.service.Export(r.Context(), day)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	filename := fmt.Sprintf("schedule_%s.xlsx", day.Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if err := file.Write(w); err != nil {
		h.log.Error("Failed to stream schedule export", "error", err)
	}
}

func (h *ScheduleHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/schedule", h.DaySchedule)
	router.GET("/api/v1/schedule/grid", h.Grid)
	router.GET("/api/v1/schedule/export", h.Export)
	router.GET("/api/v1/schedule/rooms/:id/timeline", h.RoomTimeline)
	router.GET("/api/v1/schedule/rooms/:id/available-times", h.AvailableTimes)
	router.POST("/api/v1/schedule/rooms/:id/available-times", h.AvailableTimes)
}
