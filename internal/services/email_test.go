package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"conduit/internal/domain"
)

type fakeMailer struct {
	sent    int
	lastTo  string
	lastSub string
	err     error
}

func (f *fakeMailer) Send(ctx context.Context, to, subject, html, text string) error {
	if f.err != nil {
		return f.err
	}
	f.sent++
	f.lastTo = to
	f.lastSub = subject
	return nil
}

type fakeRenderer struct {
	err error
}

func (f *fakeRenderer) Render(templateName string, data any) (string, string, string, error) {
	if f.err != nil {
		return "", "", "", f.err
	}
	return "subject: " + templateName, "<p>html</p>", "text", nil
}

func TestEmailService_SendWelcomeMessage(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		mailer := &fakeMailer{}
		svc := NewEmailService(mailer, &fakeRenderer{})

		err := svc.SendWelcomeMessage(ctx, &domain.WelcomeMessageEmailData{Email: "jake@example.com", Username: "jake"})
		require.NoError(t, err)
		assert.Equal(t, 1, mailer.sent)
		assert.Equal(t, "jake@example.com", mailer.lastTo)
		assert.Equal(t, "subject: welcome", mailer.lastSub)
	})

	t.Run("nil data", func(t *testing.T) {
		svc := NewEmailService(&fakeMailer{}, &fakeRenderer{})
		require.Error(t, svc.SendWelcomeMessage(ctx, nil))
	})

	t.Run("render failure", func(t *testing.T) {
		mailer := &fakeMailer{}
		svc := NewEmailService(mailer, &fakeRenderer{err: assert.AnError})

		require.Error(t, svc.SendWelcomeMessage(ctx, &domain.WelcomeMessageEmailData{Email: "jake@example.com"}))
		assert.Zero(t, mailer.sent)
	})

	t.Run("send failure", func(t *testing.T) {
		svc := NewEmailService(&fakeMailer{err: assert.AnError}, &fakeRenderer{})
		require.Error(t, svc.SendWelcomeMessage(ctx, &domain.WelcomeMessageEmailData{Email: "jake@example.com"}))
	})
}
