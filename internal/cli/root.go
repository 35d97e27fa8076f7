package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/nonibytes/contactrank/internal/cli/commands"
	"github.com/nonibytes/contactrank/internal/cliopt"
	"github.com/nonibytes/contactrank/internal/cliutil"
	"github.com/nonibytes/contactrank/internal/logging"
)

// Execute runs the CLI against the process streams and returns an exit code.
func Execute(argv []string) int {
	return Run(argv, os.Stdin, os.Stdout, os.Stderr)
}

// Run is Execute with explicit streams.
func Run(argv []string, stdin io.Reader, stdout, stderr io.Writer) int {
	globalFS := flag.NewFlagSet("contactrank", flag.ContinueOnError)
	globalFS.SetOutput(stderr)
	g := cliopt.DefaultGlobalOptions()
	g.Stdin, g.Stdout, g.Stderr = stdin, stdout, stderr
	cliopt.BindGlobalFlags(globalFS, &g)

	if err := globalFS.Parse(argv); err != nil {
		// flag package already printed the error
		return cliutil.ExitUsage
	}

	args := globalFS.Args()
	if len(args) == 0 {
		PrintRootHelp(stdout)
		return cliutil.ExitOK
	}

	verb := args[0]
	rest := args[1:]
	switch verb {
	case "--help", "-h", "help":
		PrintRootHelp(stdout)
		return cliutil.ExitOK
	}

	if err := cliopt.Resolve(globalFS, &g); err != nil {
		return cliutil.Fail(stderr, err)
	}
	logger, err := logging.New(stderr, g.Config.LogLevel, g.Config.LogFormat)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return cliutil.ExitUsage
	}
	slog.SetDefault(logger)

	switch verb {
	case "search":
		return commands.RunSearch(g, rest)
	case "import":
		return commands.RunImport(g, rest)
	case "list":
		return commands.RunList(g, rest)
	case "get":
		return commands.RunGet(g, rest)
	case "delete":
		return commands.RunDelete(g, rest)
	case "serve":
		return commands.RunServe(g, rest)
	default:
		fmt.Fprintf(stderr, "unknown command: %s\n\n", verb)
		PrintRootHelp(stderr)
		return cliutil.ExitUsage
	}
}
