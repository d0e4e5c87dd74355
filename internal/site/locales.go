package site

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/lightside/site/pkg/i18n"
	"github.com/lightside/site/pkg/i18n/bucket"
	"github.com/lightside/site/pkg/storage"
)

//go:embed locales
var bundles embed.FS

// Namespaces are the bundles the site ships.
var Namespaces = []string{i18n.DefaultNamespace, "privacy"}

// Bundles returns the embedded translation bundles laid out as
// {locale}/{namespace}.json.
func Bundles() fs.FS {
	sub, err := fs.Sub(bundles, "locales")
	if err != nil {
		panic(err) // embedded path is fixed at build time
	}
	return sub
}

// newSource picks the translation source from cfg.
func newSource(cfg Config) (i18n.Source, string, error) {
	switch {
	case cfg.LocalesDir != "":
		return i18n.NewFSSource(os.DirFS(cfg.LocalesDir)), "dir", nil
	case cfg.LocalesBaseURL != "":
		src, err := i18n.NewHTTPSource(cfg.LocalesBaseURL)
		if err != nil {
			return nil, "", fmt.Errorf("locales base url: %w", err)
		}
		return src, "http", nil
	case cfg.LocalesBucketPrefix != "":
		store, err := storage.New(cfg.Storage)
		if err != nil {
			return nil, "", fmt.Errorf("locales bucket: %w", err)
		}
		return bucket.New(store, cfg.LocalesBucketPrefix), "bucket", nil
	default:
		return i18n.NewFSSource(Bundles()), "embedded", nil
	}
}

// warmUp loads every shipped namespace for every supported locale so the
// first requests are served from cache. Failures are returned joined but do
// not stop the remaining loads.
func warmUp(ctx context.Context, loader *i18n.Loader) error {
	var errs []error
	for _, locale := range loader.SupportedLocales() {
		for _, ns := range Namespaces {
			if _, err := loader.Load(ctx, ns, locale); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// treeCachePrefix is the Redis key prefix for translation trees, scoped to
// version when set.
func treeCachePrefix(version string) string {
	if version == "" {
		return "i18n"
	}
	return "i18n:" + version
}
