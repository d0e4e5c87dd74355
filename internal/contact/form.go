package contact

import (
	"errors"
	"net/http"
	"net/mail"
	"unicode/utf8"

	"github.com/lightside/site/pkg/sanitizer"
)

// DefaultSubject is used when the visitor leaves the subject empty.
const DefaultSubject = "Website contact"

// Field limits in runes.
const (
	MaxNameLen    = 200
	MaxEmailLen   = 254
	MaxSubjectLen = 200
	MaxMessageLen = 5000
)

// Form is one contact form submission.
type Form struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
	Company string `json:"company"` // honeypot: hidden from people, filled by bots
}

// FormFromRequest reads a url-encoded or multipart form.
func FormFromRequest(r *http.Request) (Form, error) {
	if err := r.ParseMultipartForm(1 << 20); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return Form{}, err
	}
	return Form{
		Name:    r.PostFormValue("name"),
		Email:   r.PostFormValue("email"),
		Subject: r.PostFormValue("subject"),
		Message: r.PostFormValue("message"),
		Company: r.PostFormValue("company"),
	}, nil
}

// Normalize returns a copy with markup stripped, whitespace collapsed and
// the default subject applied.
func (f Form) Normalize() Form {
	f.Name = sanitizer.Text(f.Name)
	f.Email = sanitizer.Email(f.Email)
	f.Subject = sanitizer.Text(f.Subject)
	f.Message = sanitizer.Multiline(f.Message)
	f.Company = sanitizer.Text(f.Company)
	if f.Subject == "" {
		f.Subject = DefaultSubject
	}
	return f
}

// Validate checks a normalized form. A filled honeypot returns ErrHoneypot
// before any other check.
func (f Form) Validate() error {
	if f.Company != "" {
		return ErrHoneypot
	}

	var errs []error
	check := func(field, value string, max int) {
		switch {
		case value == "":
			errs = append(errs, &FieldError{Field: field, Err: ErrRequired})
		case utf8.RuneCountInString(value) > max:
			errs = append(errs, &FieldError{Field: field, Err: ErrTooLong})
		}
	}
	check("name", f.Name, MaxNameLen)
	check("email", f.Email, MaxEmailLen)
	check("message", f.Message, MaxMessageLen)
	if utf8.RuneCountInString(f.Subject) > MaxSubjectLen {
		errs = append(errs, &FieldError{Field: "subject", Err: ErrTooLong})
	}

	if f.Email != "" {
		if addr, err := mail.ParseAddress(f.Email); err != nil || addr.Address != f.Email {
			errs = append(errs, &FieldError{Field: "email", Err: ErrInvalidEmail})
		}
	}

	return errors.Join(errs...)
}

// Fields lists the names of the fields that failed in err.
func Fields(err error) []string {
	var fields []string
	var walk func(error)
	walk = func(err error) {
		if err == nil {
			return
		}
		if fe, ok := err.(*FieldError); ok { //nolint:errorlint // walking joined errors by hand
			fields = append(fields, fe.Field)
			return
		}
		if j, ok := err.(interface{ Unwrap() []error }); ok { //nolint:errorlint // same
			for _, e := range j.Unwrap() {
				walk(e)
			}
		}
	}
	walk(err)
	return fields
}
