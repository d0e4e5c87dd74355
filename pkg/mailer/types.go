package mailer

import "net/mail"

// Tags label a message for the provider's dashboards.
type Tags map[string]string

// Recipient formats a display name and address per RFC 5322, quoting the
// name when needed. Returns just the address when name is empty.
func Recipient(name, address string) string {
	if name == "" {
		return address
	}
	return (&mail.Address{Name: name, Address: address}).String()
}

// Email is a fully prepared message.
type Email struct {
	Headers map[string]string
	Tags    Tags
	Subject string
	HTML    string
	Text    string
	From    string // overrides the sender default when set
	ReplyTo string
	To      []string
}

func (e *Email) validate() error {
	switch {
	case len(e.To) == 0:
		return ErrNoRecipient
	case e.Subject == "":
		return ErrNoSubject
	case e.HTML == "" && e.Text == "":
		return ErrNoContent
	}
	return nil
}
