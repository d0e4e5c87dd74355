// Package site is the HTTP backend of the studio website: it serves
// translation bundles, switches the visitor's locale and accepts the contact
// form.
//
// Routes:
//
//	GET  /healthz                              readiness checks (JSON)
//	GET  /healthz/live                         liveness
//	GET  /locales/{locale}/{namespace}.json    translation tree
//	GET  /api/locale                           request locale state
//	POST /api/locale    {"locale":"ru"}        switch locale, sets the cookie
//	POST /api/contact                          contact form (JSON or form)
//	GET  /*                                    STATIC_DIR, when set
//
// Every /api request gets its own i18n.Runtime (see middlewares.Locale), so
// responses such as the contact confirmation are localized for the visitor.
package site
