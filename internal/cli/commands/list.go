package commands

import (
	"flag"
	"fmt"

	"github.com/nonibytes/contactrank/internal/cliopt"
	"github.com/nonibytes/contactrank/internal/cliutil"
)

func RunList(g cliopt.GlobalOptions, argv []string) int {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	fs.SetOutput(g.Stderr)
	var format string
	fs.StringVar(&format, "format", "pretty", "format: pretty|names|json")
	if err := fs.Parse(argv); err != nil {
		return cliutil.ExitUsage
	}
	outFmt, err := cliutil.ParseOutputFormat(format)
	if err != nil {
		fmt.Fprintln(g.Stderr, err)
		return cliutil.ExitUsage
	}
	ctx, cancel := background()
	defer cancel()
	book, err := openBook(ctx, g)
	if err != nil {
		return cliutil.Fail(g.Stderr, err)
	}
	defer book.Close()

	recs, err := book.List(ctx)
	if err != nil {
		return cliutil.Fail(g.Stderr, err)
	}
	cliutil.NewPrinter(g.Stdout, outFmt, g.Config.Color).Records(recs)
	return cliutil.ExitOK
}
