package commands

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/nonibytes/contactrank/internal/cliopt"
	"github.com/nonibytes/contactrank/internal/cliutil"
	"github.com/nonibytes/contactrank/internal/server"
)

func RunServe(g cliopt.GlobalOptions, argv []string) int {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(g.Stderr)
	addr := g.Config.ServeAddr
	fs.StringVar(&addr, "addr", addr, "listen address")
	if err := fs.Parse(argv); err != nil {
		return cliutil.ExitUsage
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	book, err := openBook(ctx, g)
	if err != nil {
		return cliutil.Fail(g.Stderr, err)
	}
	defer book.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	srv, err := server.New(book, reg, slog.Default())
	if err != nil {
		return cliutil.Fail(g.Stderr, err)
	}
	if err := srv.ListenAndServe(ctx, addr); err != nil {
		return cliutil.Fail(g.Stderr, err)
	}
	return cliutil.ExitOK
}
