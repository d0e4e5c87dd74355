// Command localesync exports a translation spreadsheet to per-language JSON
// bundles and optionally publishes them to the locales bucket.
//
//	localesync --url "https://docs.google.com/spreadsheets/d/<ID>/edit#gid=0" \
//		--out ./internal/site/locales --namespace default --allow "en,ru"
//
// Publishing reads the S3_* variables and LOCALES_BUCKET_PREFIX from the
// environment.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/napalu/goopt"

	"github.com/lightside/site/pkg/i18n/bucket"
	"github.com/lightside/site/pkg/logger"
	"github.com/lightside/site/pkg/sheet"
	"github.com/lightside/site/pkg/storage"
)

// Options are the command line flags.
type Options struct {
	URL           string   `goopt:"name:url;short:u;desc:Shared Google Sheets link or CSV export URL"`
	Out           string   `goopt:"name:out;short:o;desc:Output directory;default:./locales"`
	Namespace     string   `goopt:"name:namespace;short:n;desc:Namespace file name written per language;default:default"`
	KeyColumn     string   `goopt:"name:key-col;desc:Header of the key column;default:key"`
	Format        string   `goopt:"name:format;short:f;desc:nested or flat;default:nested"`
	Separator     string   `goopt:"name:sep;desc:Key separator for nested output;default:."`
	Allow         []string `goopt:"name:allow;short:a;desc:Only export these language columns;type:chained"`
	Gid           int      `goopt:"name:gid;desc:Sheet tab to export (overrides the link);default:-1"`
	Timeout       int      `goopt:"name:timeout;desc:HTTP timeout in seconds;default:30"`
	CommentPrefix string   `goopt:"name:comment-prefix;desc:Skip keys starting with this prefix;default:#"`
	NoMissing     bool     `goopt:"name:no-missing;desc:Drop empty cells instead of writing empty strings"`
	Strict        bool     `goopt:"name:strict;desc:Fail on colliding keys"`
	Publish       bool     `goopt:"name:publish;short:p;desc:Upload the bundles to the locales bucket"`
	DryRun        bool     `goopt:"name:dry-run;desc:Print the bundles instead of writing them"`
	Help          bool     `goopt:"name:help;short:h;desc:Show help"`
}

// Env is the environment read when publishing.
type Env struct {
	Storage storage.Config
	Prefix  string `env:"LOCALES_BUCKET_PREFIX"`
	Log     logger.Config
}

var errUsage = errors.New("usage")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args, os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, errUsage) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	opts := &Options{}
	parser, err := goopt.NewParserFromStruct(opts)
	if err != nil {
		return err
	}
	if !parser.Parse(args) {
		for _, err := range parser.GetErrors() {
			fmt.Fprintf(stderr, "Error: %v\n", err)
		}
		return errUsage
	}
	if opts.Help {
		parser.PrintUsageWithGroups(stdout)
		return nil
	}
	if opts.URL == "" {
		if pos := parser.GetPositionalArgs(); len(pos) > 0 {
			opts.URL = pos[0].Value
		}
	}
	if opts.URL == "" {
		fmt.Fprintln(stderr, "Error: --url is required")
		return errUsage
	}

	cfg, err := env.ParseAs[Env]()
	if err != nil {
		return fmt.Errorf("environment: %w", err)
	}
	log := slog.New(logger.NewHandler(stderr, logger.Config{Level: cfg.Log.Level, Format: "text"}))

	var gid *int
	if opts.Gid >= 0 {
		gid = &opts.Gid
	}
	exportURL, err := sheet.ExportURL(opts.URL, gid)
	if err != nil {
		return err
	}

	log.InfoContext(ctx, "fetching sheet", slog.String("url", exportURL))
	rows, err := sheet.Fetch(ctx, exportURL, sheet.WithHTTPClient(httpClient(opts.Timeout)))
	if err != nil {
		return err
	}

	res, err := sheet.Build(rows, buildOptions(opts)...)
	if err != nil {
		return err
	}
	log.InfoContext(ctx, "detected languages", slog.Any("languages", res.Languages))

	if opts.DryRun {
		for _, lang := range res.Languages {
			data, err := sheet.Encode(res.Docs[lang])
			if err != nil {
				return err
			}
			fmt.Fprintf(stdout, "# %s/%s.json\n%s", lang, opts.Namespace, data)
		}
		return nil
	}

	paths, err := sheet.Write(opts.Out, opts.Namespace, res)
	for _, p := range paths {
		log.InfoContext(ctx, "wrote bundle", slog.String("path", p))
	}
	if err != nil {
		return err
	}

	if opts.Publish {
		if !cfg.Storage.Enabled() {
			return errors.New("publish: S3_BUCKET is not set")
		}
		store, err := storage.New(cfg.Storage)
		if err != nil {
			return fmt.Errorf("publish: %w", err)
		}
		if err := publish(ctx, log, store, cfg.Prefix, opts.Namespace, res); err != nil {
			return err
		}
	}
	return nil
}

func buildOptions(opts *Options) []sheet.Option {
	out := []sheet.Option{
		sheet.WithKeyColumn(opts.KeyColumn),
		sheet.WithFormat(sheet.Format(opts.Format)),
		sheet.WithSeparator(opts.Separator),
		sheet.WithCommentPrefix(opts.CommentPrefix),
	}
	if len(opts.Allow) > 0 {
		out = append(out, sheet.WithAllow(opts.Allow...))
	}
	if opts.NoMissing {
		out = append(out, sheet.WithoutMissing())
	}
	if opts.Strict {
		out = append(out, sheet.WithStrict())
	}
	return out
}

func publish(ctx context.Context, log *slog.Logger, store bucket.Putter, prefix, namespace string, res *sheet.Result) error {
	for _, lang := range res.Languages {
		data, err := sheet.Encode(res.Docs[lang])
		if err != nil {
			return err
		}
		key, err := bucket.Publish(ctx, store, prefix, namespace, lang, data)
		if err != nil {
			return err
		}
		log.InfoContext(ctx, "published bundle", slog.String("key", key))
	}
	return nil
}

func httpClient(seconds int) *http.Client {
	if seconds <= 0 {
		return &http.Client{Timeout: sheet.DefaultTimeout}
	}
	return &http.Client{Timeout: time.Duration(seconds) * time.Second}
}
