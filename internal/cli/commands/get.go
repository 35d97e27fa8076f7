package commands

import (
	"flag"
	"fmt"

	"github.com/nonibytes/contactrank/internal/cliopt"
	"github.com/nonibytes/contactrank/internal/cliutil"
)

func RunGet(g cliopt.GlobalOptions, argv []string) int {
	fs := flag.NewFlagSet("get", flag.ContinueOnError)
	fs.SetOutput(g.Stderr)
	var id string
	fs.StringVar(&id, "id", "", "contact id")
	if err := fs.Parse(argv); err != nil {
		return cliutil.ExitUsage
	}
	if id == "" {
		fmt.Fprintln(g.Stderr, "missing --id")
		return cliutil.ExitUsage
	}
	ctx, cancel := background()
	defer cancel()
	book, err := openBook(ctx, g)
	if err != nil {
		return cliutil.Fail(g.Stderr, err)
	}
	defer book.Close()

	rec, err := book.Get(ctx, id)
	if err != nil {
		return cliutil.Fail(g.Stderr, err)
	}
	cliutil.PrintJSON(g.Stdout, rec)
	return cliutil.ExitOK
}
