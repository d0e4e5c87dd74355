package contact_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/lightside/site/internal/contact"
	"github.com/lightside/site/pkg/logger"
	"github.com/lightside/site/pkg/mailer"
)

type MockSender struct {
	mock.Mock
}

func (m *MockSender) Send(ctx context.Context, email *mailer.Email) error {
	return m.Called(ctx, email).Error(0)
}

func TestService_Submit(t *testing.T) {
	t.Parallel()

	t.Run("delivers normalized form", func(t *testing.T) {
		t.Parallel()

		var got contact.Form
		svc := contact.NewService(logger.NewNope(), contact.SubmitterFunc(func(_ context.Context, f contact.Form) error {
			got = f
			return nil
		}))

		f := validForm()
		f.Subject = ""
		f.Email = " ADA@example.com"
		require.NoError(t, svc.Submit(context.Background(), f))
		assert.Equal(t, contact.DefaultSubject, got.Subject)
		assert.Equal(t, "ada@example.com", got.Email)
	})

	t.Run("honeypot is silently dropped", func(t *testing.T) {
		t.Parallel()

		called := false
		svc := contact.NewService(nil, contact.SubmitterFunc(func(context.Context, contact.Form) error {
			called = true
			return nil
		}))

		f := validForm()
		f.Company = "Spam Inc"
		require.NoError(t, svc.Submit(context.Background(), f))
		assert.False(t, called)
	})

	t.Run("validation error", func(t *testing.T) {
		t.Parallel()

		svc := contact.NewService(nil)
		err := svc.Submit(context.Background(), contact.Form{Email: "ada@example.com"})
		require.ErrorIs(t, err, contact.ErrRequired)
	})

	t.Run("first failure stops chain", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("boom")
		second := false
		svc := contact.NewService(nil,
			contact.SubmitterFunc(func(context.Context, contact.Form) error { return boom }),
			contact.SubmitterFunc(func(context.Context, contact.Form) error { second = true; return nil }),
		)

		require.ErrorIs(t, svc.Submit(context.Background(), validForm()), boom)
		assert.False(t, second)
	})
}

func TestForwarder_Submit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		contentType string
		status      int
		body        string
		wantErr     error
	}{
		{"json ok", "application/json; charset=utf-8", http.StatusOK, `{"ok":true}`, nil},
		{"json not ok", "application/json", http.StatusOK, `{"ok":false}`, contact.ErrRejected},
		{"json ok despite status", "application/json", http.StatusAccepted, `{"ok":true}`, nil},
		{"bad json", "application/json", http.StatusOK, `{`, contact.ErrUnavailable},
		{"text 200", "text/plain", http.StatusOK, "done", nil},
		{"text 500", "text/plain", http.StatusInternalServerError, "oops", contact.ErrUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var mu sync.Mutex
			var fields map[string]string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if err := r.ParseMultipartForm(1 << 20); err != nil {
					w.WriteHeader(http.StatusBadRequest)
					return
				}
				mu.Lock()
				fields = map[string]string{
					"name":    r.FormValue("name"),
					"email":   r.FormValue("email"),
					"subject": r.FormValue("subject"),
					"message": r.FormValue("message"),
				}
				mu.Unlock()
				w.Header().Set("Content-Type", tt.contentType)
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			t.Cleanup(srv.Close)

			err := contact.NewForwarder(srv.URL, contact.WithHTTPClient(srv.Client())).
				Submit(context.Background(), validForm())

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}

			mu.Lock()
			defer mu.Unlock()
			assert.Equal(t, "Ada Lovelace", fields["name"])
			assert.Equal(t, "Press kit", fields["subject"])
		})
	}

	t.Run("unreachable", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		err := contact.NewForwarder(url).Submit(context.Background(), validForm())
		require.ErrorIs(t, err, contact.ErrUnavailable)
	})
}

func TestMailSubmitter_Submit(t *testing.T) {
	t.Parallel()

	sender := &MockSender{}
	sender.On("Send", mock.Anything, mock.MatchedBy(func(email *mailer.Email) bool {
		return email.Subject == "Contact form: Press kit" &&
			email.ReplyTo == "ada@example.com" &&
			email.To[0] == "hello@lightside.games" &&
			email.Tags["form"] == "contact"
	})).Return(nil).Run(func(args mock.Arguments) {
		email := args.Get(1).(*mailer.Email)
		assert.Contains(t, email.HTML, "Ada Lovelace")
		assert.Contains(t, email.HTML, "Could you send the press kit?")
		assert.Contains(t, email.Text, "**From:** Ada Lovelace (ada@example.com)")
	})

	m := mailer.New(sender, mailer.NewRenderer(contact.Templates()), mailer.Config{
		FallbackSubject: "Light Side",
		DefaultLayout:   "base.html",
	})

	err := contact.NewMailSubmitter(m, "hello@lightside.games").Submit(context.Background(), validForm())
	require.NoError(t, err)
	sender.AssertExpectations(t)
}

func TestMailSubmitter_EscapesMarkup(t *testing.T) {
	t.Parallel()

	var got *mailer.Email
	m := mailer.New(mailer.SenderFunc(func(_ context.Context, email *mailer.Email) error {
		got = email
		return nil
	}), mailer.NewRenderer(contact.Templates()), mailer.Config{DefaultLayout: "base.html"})

	f := validForm()
	f.Message = "<script>alert(1)</script>"
	require.NoError(t, contact.NewMailSubmitter(m, "hello@lightside.games").Submit(context.Background(), f))
	require.NotNil(t, got)
	assert.NotContains(t, got.HTML, "<script>")
}
