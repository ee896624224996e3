// AngelaMos | 2026
// contact.go

package contact

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/bazaar-api/internal/core"
	"github.com/carterperez-dev/bazaar-api/internal/mailer"
	"github.com/carterperez-dev/bazaar-api/internal/notification"
)

type SendMessageRequest struct {
	Name    string `json:"name"    validate:"required,min=1,max=100"`
	Email   string `json:"email"   validate:"required,email,max=255"`
	Phone   string `json:"phone"   validate:"omitempty,max=30"`
	Message string `json:"message" validate:"required,min=1,max=5000"`
}

type Service struct {
	mail          mailer.Sender
	notifications *notification.Service
	staffMailbox  string
}

func NewService(
	mail mailer.Sender,
	notifications *notification.Service,
	staffMailbox string,
) *Service {
	return &Service{
		mail:          mail,
		notifications: notifications,
		staffMailbox:  staffMailbox,
	}
}

// SendMessage forwards a visitor message to the staff mailbox and
// records a dashboard notification.
func (s *Service) SendMessage(
	ctx context.Context,
	req SendMessageRequest,
) error {
	err := s.mail.Send(
		ctx,
		s.staffMailbox,
		"Contact message from "+req.Name,
		mailer.TemplateContactMessage,
		map[string]any{
			"Name":    req.Name,
			"Email":   req.Email,
			"Phone":   req.Phone,
			"Message": req.Message,
		},
	)
	if err != nil {
		return fmt.Errorf("forward contact message: %w", err)
	}

	err = s.notifications.Notify(
		ctx,
		"New contact message",
		req.Name+" <"+req.Email+"> sent a message",
	)
	if err != nil {
		return fmt.Errorf("record contact notification: %w", err)
	}

	return nil
}

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
	r.Post("/contact", h.SendMessage)
}

func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	if err := h.service.SendMessage(r.Context(), req); err != nil {
		core.RespondError(w, err)
		return
	}

	core.NoContent(w)
}
