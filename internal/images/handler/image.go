package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"roombook/internal/images/service"
	"roombook/pkg/config"
	httputil "roombook/pkg/http"
	"roombook/pkg/logger"
)

type ImageHandler struct {
	service service.ImageService
	cfg     *config.Config
	log     *logger.Logger
}

func NewImageHandler(service service.ImageService, cfg *config.Config) *ImageHandler {
	return &ImageHandler{
		service: service,
		cfg:     cfg,
		log:     cfg.Log,
	}
}

func (h *ImageHandler) Upload(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := r.ParseMultipartForm(h.cfg.MaxUploadSize); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid multipart form",
		})
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Missing 'image' form field",
		})
		return
	}
	defer file.Close()

	image, err := h.service.Upload(r.Context(), header.Filename, r.FormValue("caption"), file)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteCreated(w, image)
}

func (h *ImageHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := r.ParseMultipartForm(h.cfg.MaxUploadSize); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid multipart form",
		})
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Missing 'image' form field",
		})
		return
	}
	defer file.Close()

	image, err := h.service.Replace(r.Context(), ps.ByName("id"), header.Filename, r.FormValue("caption"), file)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, image)
}

func (h *ImageHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	images, err := h.service.GetAll(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, images)
}

func (h *ImageHandler) GetActive(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	images, err := h.service.GetActive(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, images)
}

type setActiveRequest struct {
	Active bool `json:"active"`
}

func (h *ImageHandler) SetActive(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req setActiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		})
		return
	}

	if err := h.service.SetActive(r.Context(), ps.ByName("id"), req.Active); err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *ImageHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Delete(r.Context(), ps.ByName("id")); err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *ImageHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/images", h.Upload)
	router.GET("/api/v1/images", h.GetAll)
	router.GET("/api/v1/images/active", h.GetActive)
	router.PUT("/api/v1/images/id/:id", h.Update)
	router.PATCH("/api/v1/images/id/:id", h.SetActive)
	router.DELETE("/api/v1/images/id/:id", h.Delete)

	// Stored files are served directly; names are server-generated UUIDs.
	router.ServeFiles("/uploads/*filepath", http.Dir(h.cfg.UploadDir))
}
