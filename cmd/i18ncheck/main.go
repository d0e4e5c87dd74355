// Command i18ncheck compares the translation bundles of every locale in a
// directory against a base locale and reports missing keys, keys the base
// does not have and placeholder mismatches.
//
//	i18ncheck --dir ./internal/site/locales --namespace privacy --strict
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"slices"

	"github.com/caarlos0/env/v11"
	"github.com/napalu/goopt"

	"github.com/lightside/site/pkg/i18n"
	"github.com/lightside/site/pkg/logger"
)

// Options are the command line flags.
type Options struct {
	Dir       string `goopt:"name:dir;short:d;desc:Directory holding {locale}/{namespace}.json;default:./locales"`
	Namespace string `goopt:"name:namespace;short:n;desc:Namespace to check;default:default"`
	Base      string `goopt:"name:base;short:b;desc:Locale the others are compared against;default:en"`
	Strict    bool   `goopt:"name:strict;short:s;desc:Exit non-zero on any finding"`
	Help      bool   `goopt:"name:help;short:h;desc:Show help"`
}

var (
	errUsage    = errors.New("usage")
	errFindings = errors.New("translation check failed")
)

func main() {
	if err := run(context.Background(), os.Args, os.Stdout, os.Stderr); err != nil {
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

	logCfg, err := env.ParseAs[logger.Config]()
	if err != nil {
		return fmt.Errorf("environment: %w", err)
	}
	log := slog.New(logger.NewHandler(stderr, logger.Config{Level: logCfg.Level, Format: "text"}))

	findings, err := check(ctx, os.DirFS(opts.Dir), opts.Namespace, opts.Base)
	if err != nil {
		return err
	}
	for _, f := range findings {
		fmt.Fprintln(stdout, f)
	}
	log.InfoContext(ctx, "check finished",
		slog.String("namespace", opts.Namespace),
		slog.String("base", opts.Base),
		slog.Int("findings", len(findings)),
	)

	if opts.Strict && len(findings) > 0 {
		return errFindings
	}
	return nil
}

// Kind classifies a finding.
type Kind string

const (
	KindNoResource   Kind = "no-resource"
	KindMissing      Kind = "missing"
	KindExtra        Kind = "extra"
	KindPlaceholders Kind = "placeholders"
)

// Finding is one difference between a locale and the base locale.
type Finding struct {
	Locale string
	Kind   Kind
	Key    string
	Detail string
}

func (f Finding) String() string {
	s := fmt.Sprintf("%s\t%s\t%s", f.Locale, f.Kind, f.Key)
	if f.Detail != "" {
		s += "\t" + f.Detail
	}
	return s
}

// check loads every locale of namespace through a Runtime and compares it
// with base.
func check(ctx context.Context, fsys fs.FS, namespace, base string) ([]Finding, error) {
	src := i18n.NewFSSource(fsys)
	locales, err := src.Locales()
	if err != nil {
		return nil, fmt.Errorf("listing locales: %w", err)
	}
	if !slices.Contains(locales, base) {
		return nil, fmt.Errorf("base locale %q not found in %v", base, locales)
	}

	baseTree, err := src.Fetch(ctx, namespace, base)
	if err != nil {
		return nil, fmt.Errorf("loading base locale: %w", err)
	}
	basePaths := baseTree.Paths()

	loader, err := i18n.NewLoader(src,
		i18n.WithDefaultLocale(base),
		i18n.WithSupportedLocales(locales...),
	)
	if err != nil {
		return nil, err
	}

	var findings []Finding
	for _, locale := range locales {
		if locale == base {
			continue
		}

		// The loader falls back to the base for a missing resource, which
		// would hide it.
		tree, err := src.Fetch(ctx, namespace, locale)
		if errors.Is(err, i18n.ErrNotFound) {
			findings = append(findings, Finding{Locale: locale, Kind: KindNoResource, Key: namespace})
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", locale, err)
		}

		found, err := compare(ctx, loader, namespace, locale, baseTree, basePaths)
		if err != nil {
			return nil, err
		}
		findings = append(findings, found...)

		for _, p := range tree.Paths() {
			if _, ok := i18n.Resolve(baseTree, p); !ok {
				findings = append(findings, Finding{Locale: locale, Kind: KindExtra, Key: p})
			}
		}
	}
	return findings, nil
}

func compare(ctx context.Context, loader *i18n.Loader, namespace, locale string, baseTree *i18n.Tree, paths []string) ([]Finding, error) {
	var missing []string
	rt := i18n.New(loader,
		i18n.WithNamespace(namespace),
		i18n.WithFallbackLocale(locale),
		i18n.WithMissingKeyHandler(func(_, _, key string) {
			missing = append(missing, key)
		}),
	)
	if err := rt.Init(ctx); err != nil {
		return nil, fmt.Errorf("loading %s: %w", locale, err)
	}

	var findings []Finding
	for _, p := range paths {
		before := len(missing)
		got := rt.T(p)
		if len(missing) > before {
			findings = append(findings, Finding{Locale: locale, Kind: KindMissing, Key: p})
			continue
		}

		want, _ := i18n.Resolve(baseTree, p)
		wantVars, gotVars := placeholderSet(want), placeholderSet(got)
		if !slices.Equal(wantVars, gotVars) {
			findings = append(findings, Finding{
				Locale: locale,
				Kind:   KindPlaceholders,
				Key:    p,
				Detail: fmt.Sprintf("want %v, got %v", wantVars, gotVars),
			})
		}
	}
	return findings, nil
}

func placeholderSet(s string) []string {
	names := i18n.Placeholders(s)
	slices.Sort(names)
	return names
}
