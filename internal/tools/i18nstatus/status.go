// Package i18nstatus reports how complete each locale catalog is against
// the base locale.
package i18nstatus

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"sort"

	i18ncatalog "github.com/louisbranch/minefield/internal/platform/i18n/catalog"
)

// Report is the coverage of every locale in a bundle.
type Report struct {
	BaseLocale string         `json:"base_locale"`
	Locales    []LocaleStatus `json:"locales"`
}

// LocaleStatus is the coverage of one locale.
type LocaleStatus struct {
	Locale      string            `json:"locale"`
	BaseKeys    int               `json:"base_keys"`
	Translated  int               `json:"translated"`
	Missing     int               `json:"missing"`
	Extra       int               `json:"extra"`
	Completion  float64           `json:"completion"`
	Namespaces  []NamespaceStatus `json:"namespaces"`
	MissingKeys []string          `json:"missing_keys"`
	ExtraKeys   []string          `json:"extra_keys"`
}

// NamespaceStatus is the coverage of one namespace inside a locale.
type NamespaceStatus struct {
	Namespace  string  `json:"namespace"`
	BaseKeys   int     `json:"base_keys"`
	Translated int     `json:"translated"`
	Missing    int     `json:"missing"`
	Completion float64 `json:"completion"`
}

// Build compares every locale in bundle with baseLocale.
func Build(bundle *i18ncatalog.Bundle, baseLocale string) (Report, error) {
	if !bundle.HasLocale(baseLocale) {
		return Report{}, fmt.Errorf("base locale %q is missing from catalogs", baseLocale)
	}
	baseMessages := bundle.LocaleMessages(baseLocale)

	rep := Report{BaseLocale: baseLocale}
	for _, locale := range bundle.Locales() {
		localeMessages := bundle.LocaleMessages(locale)
		missing := diffKeys(baseMessages, localeMessages)
		translated := len(baseMessages) - len(missing)

		status := LocaleStatus{
			Locale:      locale,
			BaseKeys:    len(baseMessages),
			Translated:  translated,
			Missing:     len(missing),
			Completion:  percent(translated, len(baseMessages)),
			MissingKeys: missing,
			ExtraKeys:   diffKeys(localeMessages, baseMessages),
		}
		status.Extra = len(status.ExtraKeys)

		for _, namespace := range bundle.Namespaces(baseLocale) {
			baseNS := bundle.NamespaceMessages(baseLocale, namespace)
			nsMissing := diffKeys(baseNS, bundle.NamespaceMessages(locale, namespace))
			nsTranslated := len(baseNS) - len(nsMissing)
			status.Namespaces = append(status.Namespaces, NamespaceStatus{
				Namespace:  namespace,
				BaseKeys:   len(baseNS),
				Translated: nsTranslated,
				Missing:    len(nsMissing),
				Completion: percent(nsTranslated, len(baseNS)),
			})
		}
		rep.Locales = append(rep.Locales, status)
	}
	return rep, nil
}

// Incomplete returns the locales that miss at least one base key.
func (r Report) Incomplete() []string {
	var out []string
	for _, locale := range r.Locales {
		if locale.Missing > 0 {
			out = append(out, locale.Locale)
		}
	}
	return out
}

// WriteJSON writes the report as indented JSON.
func WriteJSON(w io.Writer, rep Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rep); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}

// WriteMarkdown writes a translator-friendly summary table followed by the
// missing keys of each locale.
func WriteMarkdown(w io.Writer, rep Report) error {
	ew := &errWriter{w: w}
	ew.printf("# Catalog status\n\nBase locale: `%s`.\n\n", rep.BaseLocale)
	ew.printf("| Locale | Base Keys | Translated | Missing | Extra | Completion |\n")
	ew.printf("| --- | ---: | ---: | ---: | ---: | ---: |\n")
	for _, locale := range rep.Locales {
		ew.printf("| `%s` | %d | %d | %d | %d | %.1f%% |\n", locale.Locale, locale.BaseKeys, locale.Translated, locale.Missing, locale.Extra, locale.Completion)
	}
	for _, locale := range rep.Locales {
		if len(locale.MissingKeys) == 0 {
			continue
		}
		ew.printf("\n## Missing in `%s`\n\n", locale.Locale)
		for _, key := range locale.MissingKeys {
			ew.printf("- `%s`\n", key)
		}
	}
	return ew.err
}

type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}

// diffKeys returns the sorted keys of a that b lacks.
func diffKeys(a, b map[string]string) []string {
	out := make([]string, 0)
	for key := range a {
		if _, ok := b[key]; !ok {
			out = append(out, key)
		}
	}
	sort.Strings(out)
	return out
}

func percent(numerator int, denominator int) float64 {
	if denominator <= 0 {
		return 100
	}
	value := float64(numerator) * 100 / float64(denominator)
	return math.Round(value*10) / 10
}
