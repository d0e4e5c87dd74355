// Package i18n loads translation resources per namespace and locale and
// switches the active locale of a page at runtime without a reload.
//
// A Runtime binds one namespace. It starts idle, loads its first locale in
// Init and serves translations synchronously through T while later locale
// switches load in the background. Loads go through a Loader, which fetches
// each (namespace, locale) pair at most once and caches the result.
//
// # Basic Usage
//
//	//go:embed locales
//	var localesFS embed.FS
//
//	sub, _ := fs.Sub(localesFS, "locales")
//	loader, err := i18n.NewLoader(i18n.NewFSSource(sub),
//		i18n.WithSupportedLocales("en", "ru"),
//	)
//
//	rt := i18n.New(loader,
//		i18n.WithNamespace("default"),
//		i18n.WithDetector(i18n.DetectFromEnv("en", "ru")),
//	)
//	if err := rt.Init(ctx); err != nil {
//		// status is StatusError, T returns keys
//	}
//
//	rt.T("hero.title")                                     // "Light Side"
//	rt.T("news.items.0.title")                             // first news item
//	rt.T("footer.copyright", i18n.Vars{"year": i18n.Int(2026)})
//
// File convention: {locale}/{namespace}.json (or .yaml/.yml).
//
// # Key Paths
//
// Keys are dot-separated. Arrays in resources are addressed by index
// ("news.items.0.title"). A key that is missing, malformed or points at a
// subtree translates to the key itself.
//
// # Interpolation
//
// Both {name} and {{name}} placeholders are replaced from Vars. Placeholders
// without a value are left as written. Values are not escaped: use HTML for
// translations carrying markup, which sanitizes the result with a bluemonday
// policy.
//
// # Switching Locale
//
// SetLocale loads the new locale and swaps it in once loaded. The previous
// locale keeps serving T while the load is in flight and stays active if it
// fails. When switches overlap, the last request wins.
//
//	unsubscribe := rt.Subscribe(func(s i18n.State) {
//		log.Println(s.Locale, s.Status)
//	})
//	defer unsubscribe()
//
//	if err := rt.SetLocale(ctx, "ru"); err != nil {
//		var le *i18n.LoadError
//		errors.As(err, &le)
//	}
//
// # Fallback
//
// When a locale has no resource the Loader tries its base language
// ("pt-BR" then "pt") and then the default locale. Only a missing resource
// falls back; an unreachable or malformed source fails the load.
//
// # Thread Safety
//
// Runtime, Loader and Tree are safe for concurrent use. Trees are immutable
// once built.
package i18n
