// AngelaMos | 2026
// mailer.go

package mailer

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"

	"github.com/wneessen/go-mail"

	"github.com/carterperez-dev/bazaar-api/internal/config"
	"github.com/carterperez-dev/bazaar-api/internal/core"
)

//go:embed templates/*.html
var templateFS embed.FS

// Sender delivers a templated notification email. Implementations must
// surface delivery failure so callers can report it.
type Sender interface {
	Send(
		ctx context.Context,
		to, subject, templateName string,
		data map[string]any,
	) error
}

// SMTPSender renders embedded HTML templates and delivers them over
// SMTP.
type SMTPSender struct {
	client    *mail.Client
	templates *template.Template
	fromAddr  string
	fromName  string
}

func NewSMTPSender(cfg config.SMTPConfig) (*SMTPSender, error) {
	templates, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse mail templates: %w", err)
	}

	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("create smtp client: %w", err)
	}

	return &SMTPSender{
		client:    client,
		templates: templates,
		fromAddr:  cfg.FromAddress,
		fromName:  cfg.FromName,
	}, nil
}

func (s *SMTPSender) Send(
	ctx context.Context,
	to, subject, templateName string,
	data map[string]any,
) error {
	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, templateName, data); err != nil {
		return fmt.Errorf("render template %q: %w", templateName, err)
	}

	msg := mail.NewMsg()
	if err := msg.FromFormat(s.fromName, s.fromAddr); err != nil {
		return fmt.Errorf("set from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("set to address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, body.String())

	if err := s.client.DialAndSendWithContext(ctx, msg); err != nil {
		return core.UpstreamError("send mail to "+to, err)
	}

	return nil
}

var _ Sender = (*SMTPSender)(nil)
