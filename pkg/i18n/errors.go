package i18n

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyLocale       = errors.New("i18n: locale cannot be empty")
	ErrEmptyNamespace    = errors.New("i18n: namespace cannot be empty")
	ErrNilSource         = errors.New("i18n: source cannot be nil")
	ErrNotFound          = errors.New("i18n: translation resource not found")
	ErrUnreachable       = errors.New("i18n: translation source unreachable")
	ErrMalformed         = errors.New("i18n: malformed translation resource")
	ErrUnsupportedLocale = errors.New("i18n: unsupported locale")
	ErrUnsupportedValue  = errors.New("i18n: unsupported interpolation value")
)

// LoadError reports a failed load of one (namespace, locale) pair.
// Err carries the cause and is matched by errors.Is against the sentinels
// above.
type LoadError struct {
	Err       error
	Namespace string
	Locale    string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("i18n: load %s/%s: %v", e.Locale, e.Namespace, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
