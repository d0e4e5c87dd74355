package resend

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/resend/resend-go/v3"

	"github.com/lightside/site/pkg/mailer"
)

type emailsAPI interface {
	SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

// Sender implements mailer.Sender using the Resend API.
type Sender struct {
	emails emailsAPI
	config Config
}

// New creates a Resend sender.
func New(cfg Config) *Sender {
	return &Sender{
		emails: resend.NewClient(cfg.APIKey).Emails,
		config: cfg,
	}
}

// Send implements mailer.Sender.
func (s *Sender) Send(ctx context.Context, email *mailer.Email) error {
	_, err := s.emails.SendWithContext(ctx, s.request(email))
	if err != nil {
		return fmt.Errorf("resend: failed to send email: %w", err)
	}
	return nil
}

func (s *Sender) request(email *mailer.Email) *resend.SendEmailRequest {
	from := email.From
	if from == "" {
		from = mailer.Recipient(s.config.SenderName, s.config.SenderEmail)
	}

	req := &resend.SendEmailRequest{
		From:    from,
		To:      email.To,
		Subject: email.Subject,
		Html:    email.HTML,
		Text:    email.Text,
		ReplyTo: email.ReplyTo,
		Headers: email.Headers,
	}

	// Sorted for stable requests.
	for _, name := range slices.Sorted(maps.Keys(email.Tags)) {
		value := email.Tags[name]
		if value == "" {
			value = "true"
		}
		req.Tags = append(req.Tags, resend.Tag{Name: name, Value: value})
	}
	return req
}
