package domain

import "context"

// Mailer is the outbound port for delivering email.
type Mailer interface {
	Send(ctx context.Context, to, subject, html, text string) error
}

// EmailTemplateRenderer produces the subject and both bodies for a named
// template.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// WelcomeMessageEmailData holds data for the welcome email sent after
// registration.
type WelcomeMessageEmailData struct {
	Email    string
	Username string
}

// EmailService sends domain-level emails.
type EmailService interface {
	SendWelcomeMessage(ctx context.Context, data *WelcomeMessageEmailData) error
}
