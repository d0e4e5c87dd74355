package i18n

import (
	"os"
	"strings"

	"golang.org/x/text/language"
)

// maxAcceptLanguageLength prevents oversized Accept-Language headers from
// reaching the parser.
const maxAcceptLanguageLength = 4096

// Detector guesses the user's locale from the platform (environment,
// request headers). ok is false when there is nothing usable.
type Detector func() (locale string, ok bool)

// MatchLocale picks the supported locale that best serves the preferred
// tags, in preference order. ok is false when no supported locale is a
// reasonable match. With no supported locales, the first parsable preferred
// tag is returned as is.
func MatchLocale(supported []string, preferred ...string) (string, bool) {
	prefs := make([]language.Tag, 0, len(preferred))
	for _, p := range preferred {
		if tag, err := language.Parse(p); err == nil {
			prefs = append(prefs, tag)
		}
	}
	if len(prefs) == 0 {
		return "", false
	}
	return matchTags(supported, prefs)
}

func matchTags(supported []string, prefs []language.Tag) (string, bool) {
	if len(supported) == 0 {
		return prefs[0].String(), true
	}

	tags := make([]language.Tag, 0, len(supported))
	names := make([]string, 0, len(supported))
	for _, s := range supported {
		tag, err := language.Parse(s)
		if err != nil {
			continue
		}
		tags = append(tags, tag)
		names = append(names, s)
	}
	if len(tags) == 0 {
		return "", false
	}

	_, idx, conf := language.NewMatcher(tags).Match(prefs...)
	if conf == language.No {
		return "", false
	}
	return names[idx], true
}

// DetectFromAcceptLanguage returns a Detector for an HTTP Accept-Language
// header, honoring quality values.
//
// Example: header "de-AT,de;q=0.9,en;q=0.8" with supported [en ru de]
// detects "de".
func DetectFromAcceptLanguage(header string, supported ...string) Detector {
	return func() (string, bool) {
		if len(header) > maxAcceptLanguageLength {
			header = header[:maxAcceptLanguageLength]
			if i := strings.LastIndexByte(header, ','); i > 0 {
				header = header[:i]
			}
		}
		if strings.TrimSpace(header) == "" {
			return "", false
		}
		prefs, _, err := language.ParseAcceptLanguage(header)
		if err != nil || len(prefs) == 0 {
			return "", false
		}
		return matchTags(supported, prefs)
	}
}

// localeEnvVars are consulted in POSIX precedence order.
var localeEnvVars = []string{"LC_ALL", "LC_MESSAGES", "LANG"}

// DetectFromEnv returns a Detector reading the POSIX locale variables
// ("de_DE.UTF-8" -> "de-DE"). The "C" and "POSIX" locales are ignored.
func DetectFromEnv(supported ...string) Detector {
	return func() (string, bool) {
		for _, name := range localeEnvVars {
			v := posixToBCP47(os.Getenv(name))
			if v == "" {
				continue
			}
			return MatchLocale(supported, v)
		}
		return "", false
	}
}

func posixToBCP47(v string) string {
	if i := strings.IndexAny(v, ".@"); i >= 0 {
		v = v[:i]
	}
	if v == "" || v == "C" || v == "POSIX" {
		return ""
	}
	return strings.ReplaceAll(v, "_", "-")
}

// FirstDetected chains detectors; the first one with a result wins.
func FirstDetected(detectors ...Detector) Detector {
	return func() (string, bool) {
		for _, d := range detectors {
			if d == nil {
				continue
			}
			if loc, ok := d(); ok {
				return loc, true
			}
		}
		return "", false
	}
}
