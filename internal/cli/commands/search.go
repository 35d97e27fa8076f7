package commands

import (
	"flag"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/nonibytes/contactrank/contactrank"
	"github.com/nonibytes/contactrank/internal/cliopt"
	"github.com/nonibytes/contactrank/internal/cliutil"
)

func RunSearch(g cliopt.GlobalOptions, argv []string) int {
	fs := flag.NewFlagSet("search", flag.ContinueOnError)
	fs.SetOutput(g.Stderr)
	var format string
	var limit int
	var explain bool
	fs.IntVar(&limit, "limit", contactrank.DefaultSearchLimit, "max results (0 = all)")
	fs.StringVar(&format, "format", "pretty", "format: pretty|names|json")
	fs.BoolVar(&explain, "explain", false, "show priority, sort key and distance")
	terms, err := parseInterspersed(fs, argv)
	if err != nil {
		return cliutil.ExitUsage
	}
	if len(terms) == 0 {
		fmt.Fprintln(g.Stderr, "search term required")
		return cliutil.ExitUsage
	}
	if limit < 0 {
		fmt.Fprintln(g.Stderr, "--limit must be >= 0")
		return cliutil.ExitUsage
	}
	outFmt, err := cliutil.ParseOutputFormat(format)
	if err != nil {
		fmt.Fprintln(g.Stderr, err)
		return cliutil.ExitUsage
	}
	term := strings.Join(terms, " ")

	ctx, cancel := background()
	defer cancel()
	book, err := openBook(ctx, g)
	if err != nil {
		return cliutil.Fail(g.Stderr, err)
	}
	defer book.Close()

	start := time.Now()
	matches, err := book.Search(ctx, term, contactrank.SearchOptions{Limit: limit})
	if err != nil {
		return cliutil.Fail(g.Stderr, err)
	}
	slog.Debug("search finished", "term", term, "results", len(matches), "elapsed", time.Since(start))

	cliutil.NewPrinter(g.Stdout, outFmt, g.Config.Color).Matches(matches, explain)
	return cliutil.ExitOK
}
