package site

import (
	"errors"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/lightside/site/pkg/cookie"
	"github.com/lightside/site/pkg/logger"
	"github.com/lightside/site/pkg/mailer"
	"github.com/lightside/site/pkg/mailer/resend"
	"github.com/lightside/site/pkg/redis"
	"github.com/lightside/site/pkg/storage"
)

// Config is the site server configuration, read from the environment.
type Config struct {
	Addr            string        `env:"ADDR" envDefault:":8080"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"15s"`
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT" envDefault:"10s"`
	StaticDir       string        `env:"STATIC_DIR"`
	CORSOrigins     []string      `env:"CORS_ORIGINS" envSeparator:","`

	DefaultLocale    string   `env:"DEFAULT_LOCALE" envDefault:"en"`
	SupportedLocales []string `env:"SUPPORTED_LOCALES" envDefault:"en,ru" envSeparator:","`
	LocaleCookie     string   `env:"LOCALE_COOKIE" envDefault:"locale"`

	// Translation source, first configured wins: directory, HTTP base URL,
	// S3 bucket prefix, embedded bundles.
	LocalesDir          string `env:"LOCALES_DIR"`
	LocalesBaseURL      string `env:"LOCALES_BASE_URL"`
	LocalesBucketPrefix string `env:"LOCALES_BUCKET_PREFIX"`

	// Cached trees expire after LocalesCacheTTL. LocalesVersion namespaces
	// the Redis keys so a deploy with new bundles does not read old trees.
	LocalesCacheTTL time.Duration `env:"LOCALES_CACHE_TTL" envDefault:"1h"`
	LocalesVersion  string        `env:"LOCALES_VERSION"`

	ContactEndpoint string   `env:"CONTACT_ENDPOINT"`
	ContactTo       []string `env:"CONTACT_TO" envSeparator:","`

	Log     logger.Config
	Redis   redis.Config
	Storage storage.Config
	Cookie  cookie.Config
	Mailer  mailer.Config
	Resend  resend.Config
}

// LoadConfig parses the environment.
func LoadConfig() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, errors.Join(ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks settings that depend on each other.
func (c Config) Validate() error {
	var errs []error
	if c.DefaultLocale == "" {
		errs = append(errs, errors.New("DEFAULT_LOCALE is empty"))
	}
	if c.LocalesBucketPrefix != "" && !c.Storage.Enabled() {
		errs = append(errs, errors.New("LOCALES_BUCKET_PREFIX requires S3_BUCKET"))
	}
	if len(c.ContactTo) > 0 && !c.Resend.Enabled() {
		errs = append(errs, errors.New("CONTACT_TO requires RESEND_API_KEY"))
	}
	if len(errs) > 0 {
		return errors.Join(ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// contactEnabled reports whether any contact delivery is configured.
func (c Config) contactEnabled() bool {
	return c.ContactEndpoint != "" || len(c.ContactTo) > 0
}
