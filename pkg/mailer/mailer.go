package mailer

import (
	"context"
	"errors"
)

// Mailer renders templates and hands the result to a Sender.
type Mailer struct {
	sender   Sender
	renderer *Renderer
	config   Config
}

// New creates a Mailer.
func New(sender Sender, renderer *Renderer, cfg Config) *Mailer {
	return &Mailer{sender: sender, renderer: renderer, config: cfg}
}

// SendParams describes one templated email.
type SendParams struct {
	To       []string
	Template string // template file name, e.g. "contact.md"
	Data     any

	Subject string // overrides the template subject
	Layout  string // overrides Config.DefaultLayout
	From    string
	ReplyTo string
	Tags    Tags
}

// Send renders params.Template and sends it.
// Subject resolution: params.Subject, then the template's subject, then
// Config.FallbackSubject.
func (m *Mailer) Send(ctx context.Context, params SendParams) error {
	if len(params.To) == 0 {
		return ErrNoRecipient
	}

	layout := params.Layout
	if layout == "" {
		layout = m.config.DefaultLayout
	}

	res, err := m.renderer.Render(layout, params.Template, params.Data)
	if err != nil {
		return err
	}

	subject := params.Subject
	if subject == "" {
		subject = res.Subject
	}
	if subject == "" {
		subject = m.config.FallbackSubject
	}

	return m.SendRaw(ctx, &Email{
		To:      params.To,
		Subject: subject,
		HTML:    res.HTML,
		Text:    res.Text,
		From:    params.From,
		ReplyTo: params.ReplyTo,
		Tags:    params.Tags,
	})
}

// SendRaw sends a prepared email.
func (m *Mailer) SendRaw(ctx context.Context, email *Email) error {
	if err := email.validate(); err != nil {
		return err
	}
	if err := m.sender.Send(ctx, email); err != nil {
		return errors.Join(ErrSendFailed, err)
	}
	return nil
}
