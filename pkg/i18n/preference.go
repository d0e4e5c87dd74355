package i18n

import "sync"

// Preference stores the user's chosen locale between sessions.
type Preference interface {
	Get() (locale string, ok bool)
	Set(locale string) error
}

// MemoryPreference is a Preference held in memory.
type MemoryPreference struct {
	mu     sync.RWMutex
	locale string
}

// NewMemoryPreference returns a preference preset to locale; empty means
// unset.
func NewMemoryPreference(locale string) *MemoryPreference {
	return &MemoryPreference{locale: locale}
}

func (p *MemoryPreference) Get() (string, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.locale, p.locale != ""
}

func (p *MemoryPreference) Set(locale string) error {
	if locale == "" {
		return ErrEmptyLocale
	}
	p.mu.Lock()
	p.locale = locale
	p.mu.Unlock()
	return nil
}
