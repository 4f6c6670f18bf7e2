// Package main prints the locale catalog coverage report.
package main

import (
	"flag"
	"os"
	"strings"

	"github.com/louisbranch/minefield/internal/platform/config"
	i18ncatalog "github.com/louisbranch/minefield/internal/platform/i18n/catalog"
	"github.com/louisbranch/minefield/internal/tools/i18nstatus"
)

func main() {
	var baseLocale string
	var format string
	var strict bool
	flag.StringVar(&baseLocale, "base-locale", i18ncatalog.BaseLocale, "base locale used as translation source of truth")
	flag.StringVar(&format, "format", "markdown", "output format: markdown or json")
	flag.BoolVar(&strict, "strict", false, "exit non-zero when a locale misses keys")
	flag.Parse()

	bundle, err := i18ncatalog.LoadEmbedded()
	if err != nil {
		config.Exitf("load catalogs: %v", err)
	}
	rep, err := i18nstatus.Build(bundle, baseLocale)
	if err != nil {
		config.Exitf("build report: %v", err)
	}

	switch format {
	case "json":
		err = i18nstatus.WriteJSON(os.Stdout, rep)
	case "markdown":
		err = i18nstatus.WriteMarkdown(os.Stdout, rep)
	default:
		config.Exitf("unknown format %q", format)
	}
	if err != nil {
		config.Exitf("write report: %v", err)
	}
	if incomplete := rep.Incomplete(); strict && len(incomplete) > 0 {
		config.Exitf("incomplete locales: %s", strings.Join(incomplete, ", "))
	}
}
