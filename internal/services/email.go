package services

import (
	"context"
	"fmt"
	"log"

	"conduit/internal/domain"
)

// welcomeTemplate is the template set used for the post-registration email.
const welcomeTemplate = "welcome"

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
}

// NewEmailService assembles the domain EmailService on top of a Mailer and a
// template renderer.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer) domain.EmailService {
	return &emailService{mailer: mailer, renderer: renderer}
}

// SendWelcomeMessage renders the welcome template for a newly registered
// user and hands the result to the mailer.
func (s *emailService) SendWelcomeMessage(ctx context.Context, data *domain.WelcomeMessageEmailData) error {
	if data == nil {
		return fmt.Errorf("welcome message data is nil")
	}
	return s.deliver(ctx, welcomeTemplate, data.Email, data)
}

// deliver renders the named template and sends the result to one recipient.
func (s *emailService) deliver(ctx context.Context, template, to string, data any) error {
	subject, htmlBody, textBody, err := s.renderer.Render(template, data)
	if err != nil {
		return fmt.Errorf("failed to render %s template: %w", template, err)
	}
	if err := s.mailer.Send(ctx, to, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send %s email: %w", template, err)
	}
	log.Printf("[EMAIL] %s email sent to %s", template, to)
	return nil
}
