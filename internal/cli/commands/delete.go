package commands

import (
	"flag"
	"fmt"

	"github.com/nonibytes/contactrank/internal/cliopt"
	"github.com/nonibytes/contactrank/internal/cliutil"
)

func RunDelete(g cliopt.GlobalOptions, argv []string) int {
	fs := flag.NewFlagSet("delete", flag.ContinueOnError)
	fs.SetOutput(g.Stderr)
	var ids idList
	fs.Var(&ids, "id", "contact id (repeatable)")
	if err := fs.Parse(argv); err != nil {
		return cliutil.ExitUsage
	}
	if len(ids) == 0 {
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

	n, err := book.Delete(ctx, ids...)
	if err != nil {
		return cliutil.Fail(g.Stderr, err)
	}
	fmt.Fprintf(g.Stdout, "deleted %d\n", n)
	return cliutil.ExitOK
}
