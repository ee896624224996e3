// AngelaMos | 2026
// handler.go

package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/bazaar-api/internal/config"
	"github.com/carterperez-dev/bazaar-api/internal/core"
	"github.com/carterperez-dev/bazaar-api/internal/middleware"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
	jwtConfig config.JWTConfig
}

func NewHandler(service *Service, jwtConfig config.JWTConfig) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(validator.WithRequiredStructEnabled()),
		jwtConfig: jwtConfig,
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/verification", h.Verify)
		r.Post("/login", h.Login)
		r.Post("/social", h.SocialAuth)
		r.Post("/refresh", h.Refresh)
		r.Post("/forgot-password", h.ForgotPassword)
		r.Post("/confirm-password", h.ConfirmChangedPassword)

		r.Group(func(r chi.Router) {
			r.Use(authenticator)
			r.Post("/logout", h.Logout)
		})
	})
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	resp, err := h.service.Register(r.Context(), req)
	if err != nil {
		h.respondAuthError(w, err)
		return
	}

	core.OK(w, resp)
}

func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	var req VerificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	resp, refreshToken, err := h.service.Verify(r.Context(), req)
	if err != nil {
		h.respondAuthError(w, err)
		return
	}

	h.setRefreshCookie(w, refreshToken)
	core.Created(w, resp)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	resp, refreshToken, err := h.service.Login(r.Context(), req)
	if err != nil {
		h.respondAuthError(w, err)
		return
	}

	h.setRefreshCookie(w, refreshToken)
	core.OK(w, resp)
}

func (h *Handler) SocialAuth(w http.ResponseWriter, r *http.Request) {
	var req SocialAuthRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	resp, refreshToken, err := h.service.SocialAuth(r.Context(), req)
	if err != nil {
		h.respondAuthError(w, err)
		return
	}

	h.setRefreshCookie(w, refreshToken)
	core.OK(w, resp)
}

// Refresh reads the refresh token from its HTTP-only cookie rather
// than the request body.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(h.jwtConfig.CookieName)
	if err != nil || cookie.Value == "" {
		core.JSONError(w, core.TokenInvalidError())
		return
	}

	resp, refreshToken, err := h.service.Refresh(r.Context(), cookie.Value)
	if err != nil {
		h.respondAuthError(w, err)
		return
	}

	h.setRefreshCookie(w, refreshToken)
	core.OK(w, resp)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		core.Unauthorized(w, "")
		return
	}

	h.service.Logout(r.Context(), userID)
	h.clearRefreshCookie(w)
	core.NoContent(w)
}

func (h *Handler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req ForgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	resp, err := h.service.ForgotPassword(r.Context(), req)
	if err != nil {
		h.respondAuthError(w, err)
		return
	}

	core.OK(w, resp)
}

func (h *Handler) ConfirmChangedPassword(w http.ResponseWriter, r *http.Request) {
	var req ConfirmPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	if err := h.service.ConfirmChangedPassword(r.Context(), req); err != nil {
		h.respondAuthError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) respondAuthError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		core.JSONError(w, core.UnauthorizedError("invalid email or password"))
	case errors.Is(err, ErrEmailExists):
		core.JSONError(w, core.DuplicateError("email"))
	case errors.Is(err, ErrAccountBlocked):
		core.JSONError(w, core.ForbiddenError("account is blocked"))
	case errors.Is(err, ErrChallengeInvalid):
		core.JSONError(
			w,
			core.ValidationError("verification token is expired or invalid"),
		)
	case errors.Is(err, core.ErrCodeMismatch):
		core.JSONError(w, core.CodeMismatchError())
	default:
		core.RespondError(w, err)
	}
}

func (h *Handler) setRefreshCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.jwtConfig.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.jwtConfig.RefreshTokenExpire / time.Second),
		HttpOnly: true,
		Secure:   h.jwtConfig.CookieSecure,
		SameSite: http.SameSiteStrictMode,
	})
}

func (h *Handler) clearRefreshCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.jwtConfig.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.jwtConfig.CookieSecure,
		SameSite: http.SameSiteStrictMode,
	})
}
