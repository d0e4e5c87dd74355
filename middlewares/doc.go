// Package middlewares provides net/http middleware for the site server.
//
// # Request ID
//
// RequestID assigns each request an ID taken from upstream headers or
// generated as a UUID. Pair it with RequestIDExtractor so every log line
// written with the request context carries request_id:
//
//	log := logger.New(cfg.Log, middlewares.RequestIDExtractor())
//	r.Use(middlewares.RequestID())
//
// # Recover
//
// Recover turns panics into a logged *PanicError and a 500 response (or the
// response written by WithRecoverErrorHandler).
//
// # Timeout
//
// Timeout bounds request handling and puts the deadline on the request
// context, so locale loads started by a handler are cancelled with it.
//
// # CORS
//
// CORS answers preflight requests and adds CORS headers for allowed origins,
// for sites that post the contact form from another host.
//
// # Locale
//
// Locale builds an i18n.Runtime per request. The initial locale is the
// locale cookie, then the best Accept-Language match, then the loader's
// default; a successful SetLocale writes the cookie back.
//
//	r.Use(middlewares.Locale(loader, middlewares.WithLocaleCookie(cookies, "locale", maxAge)))
//
//	func handler(w http.ResponseWriter, r *http.Request) {
//		rt := middlewares.GetRuntime(r.Context())
//		title := rt.T("hero.title")
//	}
//
// # Recommended Order
//
//	r.Use(
//		middlewares.CORS(),
//		middlewares.RequestID(),
//		middlewares.Recover(middlewares.WithRecoverLogger(log)),
//		middlewares.Timeout(10*time.Second),
//		middlewares.Locale(loader),
//	)
package middlewares
