package i18n

import (
	"context"
	"html/template"
)

type listener struct {
	id uint64
	fn func(State)
}

// Subscribe registers fn to run after every state change, in registration
// order and outside the Runtime lock. The returned func unregisters it and
// is safe to call more than once.
func (r *Runtime) Subscribe(fn func(State)) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}
	r.lmu.Lock()
	r.nextID++
	id := r.nextID
	r.listeners = append(r.listeners, listener{id: id, fn: fn})
	r.lmu.Unlock()

	return func() {
		r.lmu.Lock()
		defer r.lmu.Unlock()
		for i, l := range r.listeners {
			if l.id == id {
				r.listeners = append(r.listeners[:i:i], r.listeners[i+1:]...)
				return
			}
		}
	}
}

func (r *Runtime) notify(s State) {
	r.lmu.Lock()
	ls := make([]listener, len(r.listeners))
	copy(ls, r.listeners)
	r.lmu.Unlock()

	for _, l := range ls {
		l.fn(s)
	}
}

// Handle is the view-facing side of a Runtime. Its SetLocale returns
// immediately; the outcome shows up in Status, Err and subscriptions.
type Handle struct {
	rt *Runtime
}

// Handle returns the view binding of r.
func (r *Runtime) Handle() Handle {
	return Handle{rt: r}
}

// T is Runtime.T.
func (h Handle) T(key string, vars ...Vars) string { return h.rt.T(key, vars...) }

// HTML is Runtime.HTML.
func (h Handle) HTML(key string, vars ...Vars) template.HTML { return h.rt.HTML(key, vars...) }

// Locale is Runtime.Locale.
func (h Handle) Locale() string { return h.rt.Locale() }

// Status is Runtime.Status.
func (h Handle) Status() Status { return h.rt.Status() }

// Err is Runtime.Err.
func (h Handle) Err() error { return h.rt.Err() }

// SetLocale starts switching to locale in the background. Calls are ordered
// as made: of two quick calls the second one wins.
func (h Handle) SetLocale(locale string) {
	if locale == "" {
		return
	}
	h.rt.start(context.Background(), h.rt.canonical(locale), true)
}
