package commands

import (
	"flag"
	"fmt"
	"log/slog"

	"github.com/nonibytes/contactrank/contactrank"
	"github.com/nonibytes/contactrank/internal/cliopt"
	"github.com/nonibytes/contactrank/internal/cliutil"
)

func RunImport(g cliopt.GlobalOptions, argv []string) int {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	fs.SetOutput(g.Stderr)
	var path, format string
	var jsonLines bool
	fs.StringVar(&path, "file", "", "contacts file to import")
	fs.StringVar(&path, "f", "", "contacts file to import")
	fs.StringVar(&format, "format", "auto", "file format: auto|json|jsonl|yaml")
	fs.BoolVar(&jsonLines, "json", false, "read JSON lines from stdin")
	if err := fs.Parse(argv); err != nil {
		return cliutil.ExitUsage
	}
	if (path == "") == !jsonLines {
		fmt.Fprintln(g.Stderr, "provide exactly one of --file or --json")
		return cliutil.ExitUsage
	}
	f, err := contactrank.ParseFormat(format)
	if err != nil {
		fmt.Fprintln(g.Stderr, err)
		return cliutil.ExitUsage
	}

	var contacts []contactrank.Contact
	if jsonLines {
		contacts, err = contactrank.Decode(g.Stdin, contactrank.FormatJSONL)
	} else {
		contacts, err = contactrank.LoadFile(path, f)
	}
	if err != nil {
		return cliutil.Fail(g.Stderr, err)
	}

	ctx, cancel := background()
	defer cancel()
	book, err := openBook(ctx, g)
	if err != nil {
		return cliutil.Fail(g.Stderr, err)
	}
	defer book.Close()

	n, err := book.PutMany(ctx, contacts)
	if err != nil {
		return cliutil.Fail(g.Stderr, err)
	}
	total, err := book.Count(ctx)
	if err != nil {
		return cliutil.Fail(g.Stderr, err)
	}
	slog.Debug("import finished", "read", len(contacts), "stored", n, "total", total, "backend", book.Backend())
	fmt.Fprintf(g.Stdout, "imported %d contacts (%d in book)\n", n, total)
	return cliutil.ExitOK
}
