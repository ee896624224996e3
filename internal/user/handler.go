// AngelaMos | 2026
// handler.go

package user

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/bazaar-api/internal/auth"
	"github.com/carterperez-dev/bazaar-api/internal/core"
	"github.com/carterperez-dev/bazaar-api/internal/middleware"
	"github.com/carterperez-dev/bazaar-api/internal/storage"
)

const maxAvatarSize = 5 << 20

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

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/users/me", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/", h.GetMe)
		r.Put("/", h.UpdateMe)
		r.Put("/password", h.ChangePassword)
		r.Put("/avatar", h.UpdateAvatar)
		r.Put("/email", h.RequestEmailUpdate)
		r.Post("/email/verify", h.ConfirmEmailUpdate)
		r.Post("/delete", h.RequestAccountDelete)
		r.Post("/delete/confirm", h.ConfirmAccountDelete)
		r.Put("/love/{productID}", h.AddLove)
		r.Delete("/love/{productID}", h.RemoveLove)
	})
}

// RegisterAdminRoutes mounts staff account management. Listing and
// blocking need admin, role changes and hard deletes need master.
func (h *Handler) RegisterAdminRoutes(
	r chi.Router,
	authenticator, staffOnly, masterOnly func(http.Handler) http.Handler,
) {
	r.Route("/admin/users", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(staffOnly)

		r.Get("/", h.ListUsers)
		r.Get("/{userID}", h.GetUser)
		r.Put("/{userID}/block", h.BlockUser)
		r.Put("/{userID}/unblock", h.UnblockUser)

		r.Group(func(r chi.Router) {
			r.Use(masterOnly)
			r.Put("/{userID}/role", h.UpdateUserRole)
			r.Delete("/{userID}", h.DeleteUser)
		})
	})
}

func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	user, err := h.service.GetMe(r.Context(), userID)
	if err != nil {
		h.respondUserError(w, err)
		return
	}

	core.OK(w, ToUserResponse(user))
}

func (h *Handler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req UpdateMeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	user, err := h.service.UpdateMe(r.Context(), userID, req)
	if err != nil {
		h.respondUserError(w, err)
		return
	}

	core.OK(w, ToUserResponse(user))
}

func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req UpdatePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	if err := h.service.ChangePassword(r.Context(), userID, req); err != nil {
		h.respondUserError(w, err)
		return
	}

	core.NoContent(w)
}

// UpdateAvatar accepts a multipart form with an "avatar" file field.
func (h *Handler) UpdateAvatar(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	if err := r.ParseMultipartForm(maxAvatarSize); err != nil {
		core.BadRequest(w, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("avatar")
	if err != nil {
		core.BadRequest(w, "avatar file required")
		return
	}
	defer file.Close()

	if !storage.IsValidImage(header.Filename) {
		core.BadRequest(w, "avatar must be a jpg or png image")
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, maxAvatarSize))
	if err != nil {
		core.BadRequest(w, "could not read avatar file")
		return
	}

	user, err := h.service.UpdateAvatar(
		r.Context(),
		userID,
		data,
		header.Filename,
		header.Header.Get("Content-Type"),
	)
	if err != nil {
		h.respondUserError(w, err)
		return
	}

	core.OK(w, ToUserResponse(user))
}

func (h *Handler) RequestEmailUpdate(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req UpdateEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	resp, err := h.service.RequestEmailUpdate(r.Context(), userID, req)
	if err != nil {
		h.respondUserError(w, err)
		return
	}

	core.OK(w, resp)
}

func (h *Handler) ConfirmEmailUpdate(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req ConfirmEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	user, err := h.service.ConfirmEmailUpdate(r.Context(), userID, req)
	if err != nil {
		h.respondUserError(w, err)
		return
	}

	core.OK(w, ToUserResponse(user))
}

func (h *Handler) RequestAccountDelete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	resp, err := h.service.RequestAccountDelete(r.Context(), userID)
	if err != nil {
		h.respondUserError(w, err)
		return
	}

	core.OK(w, resp)
}

func (h *Handler) ConfirmAccountDelete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req ConfirmDeleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	if err := h.service.ConfirmAccountDelete(r.Context(), userID, req); err != nil {
		h.respondUserError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) AddLove(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	productID := chi.URLParam(r, "productID")

	love, err := h.service.AddLove(r.Context(), userID, productID)
	if err != nil {
		h.respondUserError(w, err)
		return
	}

	core.OK(w, map[string][]string{"love": love})
}

func (h *Handler) RemoveLove(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	productID := chi.URLParam(r, "productID")

	love, err := h.service.RemoveLove(r.Context(), userID, productID)
	if err != nil {
		h.respondUserError(w, err)
		return
	}

	core.OK(w, map[string][]string{"love": love})
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	viewerRole := middleware.GetUserRole(r.Context())

	params := ListUsersParams{
		Page:     parseIntQuery(r, "page", 1),
		PageSize: parseIntQuery(r, "page_size", 20),
		Search:   r.URL.Query().Get("search"),
		Role:     r.URL.Query().Get("role"),
	}

	users, total, err := h.service.ListUsers(r.Context(), viewerRole, params)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.Paginated(
		w,
		ToUserResponseList(users),
		params.Page,
		params.PageSize,
		total,
	)
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	actorRole := middleware.GetUserRole(r.Context())
	targetID := chi.URLParam(r, "userID")

	user, err := h.service.GetUser(r.Context(), actorRole, targetID)
	if err != nil {
		h.respondUserError(w, err)
		return
	}

	core.OK(w, ToUserResponse(user))
}

func (h *Handler) BlockUser(w http.ResponseWriter, r *http.Request) {
	actorRole := middleware.GetUserRole(r.Context())
	targetID := chi.URLParam(r, "userID")

	user, err := h.service.BlockUser(r.Context(), actorRole, targetID)
	if err != nil {
		h.respondUserError(w, err)
		return
	}

	core.OK(w, ToUserResponse(user))
}

func (h *Handler) UnblockUser(w http.ResponseWriter, r *http.Request) {
	actorRole := middleware.GetUserRole(r.Context())
	targetID := chi.URLParam(r, "userID")

	user, err := h.service.UnblockUser(r.Context(), actorRole, targetID)
	if err != nil {
		h.respondUserError(w, err)
		return
	}

	core.OK(w, ToUserResponse(user))
}

func (h *Handler) UpdateUserRole(w http.ResponseWriter, r *http.Request) {
	actorRole := middleware.GetUserRole(r.Context())
	targetID := chi.URLParam(r, "userID")

	var req UpdateRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	user, err := h.service.UpdateUserRole(
		r.Context(),
		actorRole,
		targetID,
		req.Role,
	)
	if err != nil {
		h.respondUserError(w, err)
		return
	}

	core.OK(w, ToUserResponse(user))
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	actorRole := middleware.GetUserRole(r.Context())
	targetID := chi.URLParam(r, "userID")

	if err := h.service.DeleteUser(r.Context(), actorRole, targetID); err != nil {
		h.respondUserError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) respondUserError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrAlreadyLoved):
		core.Conflict(w, "product already in love list")
	case errors.Is(err, ErrNotLoved):
		core.Conflict(w, "product not in love list")
	case errors.Is(err, ErrAlreadyBlocked):
		core.Conflict(w, "account already blocked")
	case errors.Is(err, ErrNotBlocked):
		core.Conflict(w, "account is not blocked")
	case errors.Is(err, auth.ErrChallengeInvalid):
		core.JSONError(
			w,
			core.ValidationError("verification token is expired or invalid"),
		)
	default:
		core.RespondError(w, err)
	}
}

func parseIntQuery(r *http.Request, key string, defaultVal int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}

	parsed, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}

	return parsed
}
