// AngelaMos | 2026
// handler.go

package layout

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/bazaar-api/internal/core"
	"github.com/carterperez-dev/bazaar-api/internal/storage"
)

const maxBannerSize = 10 << 20

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/layouts/{layoutType}", h.GetLayout)
}

// RegisterAdminRoutes mounts layout management. Creating and editing
// content needs admin; replacing the banner image needs master.
func (h *Handler) RegisterAdminRoutes(
	r chi.Router,
	authenticator, staffOnly, masterOnly func(http.Handler) http.Handler,
) {
	r.Route("/admin/layouts", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(staffOnly)

		r.Post("/", h.CreateLayout)
		r.Put("/", h.UpdateLayout)

		r.Group(func(r chi.Router) {
			r.Use(masterOnly)
			r.Put("/banner/image", h.UpdateBannerImage)
		})
	})
}

func (h *Handler) GetLayout(w http.ResponseWriter, r *http.Request) {
	layoutType := chi.URLParam(r, "layoutType")

	layout, err := h.service.GetLayout(r.Context(), layoutType)
	if err != nil {
		core.RespondError(w, err)
		return
	}

	core.OK(w, ToLayoutResponse(layout))
}

func (h *Handler) CreateLayout(w http.ResponseWriter, r *http.Request) {
	var req UpsertLayoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	layout, err := h.service.CreateLayout(r.Context(), req)
	if err != nil {
		core.RespondError(w, err)
		return
	}

	core.Created(w, ToLayoutResponse(layout))
}

func (h *Handler) UpdateLayout(w http.ResponseWriter, r *http.Request) {
	var req UpsertLayoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	layout, err := h.service.UpdateLayout(r.Context(), req)
	if err != nil {
		core.RespondError(w, err)
		return
	}

	core.OK(w, ToLayoutResponse(layout))
}

// UpdateBannerImage accepts a multipart form with an "image" file
// field.
func (h *Handler) UpdateBannerImage(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxBannerSize); err != nil {
		core.BadRequest(w, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		core.BadRequest(w, "image file required")
		return
	}
	defer file.Close()

	if !storage.IsValidImage(header.Filename) {
		core.BadRequest(w, "image must be a jpg or png file")
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, maxBannerSize))
	if err != nil {
		core.BadRequest(w, "could not read image file")
		return
	}

	layout, err := h.service.UpdateBannerImage(
		r.Context(),
		data,
		header.Filename,
		header.Header.Get("Content-Type"),
	)
	if err != nil {
		core.RespondError(w, err)
		return
	}

	core.OK(w, ToLayoutResponse(layout))
}
