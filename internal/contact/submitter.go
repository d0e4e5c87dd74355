package contact

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/lightside/site/pkg/logger"
	"github.com/lightside/site/pkg/mailer"
)

// Submitter delivers a validated form.
type Submitter interface {
	Submit(ctx context.Context, f Form) error
}

// SubmitterFunc adapts a function to the Submitter interface.
type SubmitterFunc func(ctx context.Context, f Form) error

// Submit implements Submitter.
func (fn SubmitterFunc) Submit(ctx context.Context, f Form) error {
	return fn(ctx, f)
}

// Service normalizes, validates and delivers submissions.
type Service struct {
	submitters []Submitter
	logger     *slog.Logger
}

// NewService returns a Service delivering to every submitter in order.
func NewService(log *slog.Logger, submitters ...Submitter) *Service {
	if log == nil {
		log = logger.NewNope()
	}
	return &Service{submitters: submitters, logger: log}
}

// Submit processes one submission. A honeypot hit is logged and reported as
// success so bots get no signal. Validation failures are returned as joined
// *FieldError values; the first delivery failure stops the chain.
func (s *Service) Submit(ctx context.Context, f Form) error {
	f = f.Normalize()
	if err := f.Validate(); err != nil {
		if err == ErrHoneypot { //nolint:errorlint // returned unwrapped by Validate
			s.logger.InfoContext(ctx, "contact honeypot hit")
			return nil
		}
		return err
	}

	for _, sub := range s.submitters {
		if err := sub.Submit(ctx, f); err != nil {
			s.logger.ErrorContext(ctx, "contact delivery failed", slog.Any("error", err))
			return err
		}
	}
	s.logger.InfoContext(ctx, "contact form delivered", slog.String("subject", f.Subject))
	return nil
}

// Forwarder posts submissions as multipart form data to an HTTP endpoint,
// such as a spreadsheet script.
type Forwarder struct {
	endpoint string
	client   *http.Client
}

// ForwarderOption configures a Forwarder.
type ForwarderOption func(*Forwarder)

// WithHTTPClient sets the client. Default: 10s timeout.
func WithHTTPClient(c *http.Client) ForwarderOption {
	return func(f *Forwarder) {
		if c != nil {
			f.client = c
		}
	}
}

// NewForwarder returns a Forwarder for endpoint.
func NewForwarder(endpoint string, opts ...ForwarderOption) *Forwarder {
	f := &Forwarder{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Submit implements Submitter. A JSON response decides by its "ok" field;
// any other response by its status code.
func (fw *Forwarder) Submit(ctx context.Context, f Form) error {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for _, kv := range [][2]string{
		{"name", f.Name},
		{"email", f.Email},
		{"subject", f.Subject},
		{"message", f.Message},
	} {
		if err := mw.WriteField(kv[0], kv[1]); err != nil {
			return err
		}
	}
	if err := mw.Close(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fw.endpoint, &body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := fw.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if mt, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type")); mt == "application/json" {
		var out struct {
			OK bool `json:"ok"`
		}
		if err := json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&out); err != nil {
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		if !out.OK {
			return ErrRejected
		}
		return nil
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}
	return nil
}

//go:embed templates
var templates embed.FS

// Templates returns the embedded mail templates.
func Templates() fs.FS {
	sub, _ := fs.Sub(templates, "templates")
	return sub
}

// MailSubmitter emails submissions to the studio inbox with the visitor's
// address as Reply-To.
type MailSubmitter struct {
	mailer *mailer.Mailer
	to     []string
}

// NewMailSubmitter returns a MailSubmitter sending to the given addresses.
func NewMailSubmitter(m *mailer.Mailer, to ...string) *MailSubmitter {
	return &MailSubmitter{mailer: m, to: to}
}

// Submit implements Submitter.
func (s *MailSubmitter) Submit(ctx context.Context, f Form) error {
	return s.mailer.Send(ctx, mailer.SendParams{
		To:       s.to,
		Template: "contact.md",
		Data:     f,
		ReplyTo:  f.Email,
		Tags:     mailer.Tags{"form": "contact"},
	})
}
