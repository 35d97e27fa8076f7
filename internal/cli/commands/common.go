package commands

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nonibytes/contactrank/contactrank"
	"github.com/nonibytes/contactrank/contactrank/storage"
	"github.com/nonibytes/contactrank/contactrank/storage/file"
	"github.com/nonibytes/contactrank/contactrank/storage/postgres"
	"github.com/nonibytes/contactrank/contactrank/storage/redis"
	"github.com/nonibytes/contactrank/contactrank/storage/sqlite"
	"github.com/nonibytes/contactrank/internal/cliopt"
	"github.com/nonibytes/contactrank/internal/config"
)

// idList is a repeatable --id flag.
type idList []string

func (s *idList) String() string { return strings.Join(*s, ",") }
func (s *idList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

// parseInterspersed parses fs allowing flags after positional arguments,
// e.g. "search ann --limit 1". Arguments after "--" are always positional.
func parseInterspersed(fs *flag.FlagSet, argv []string) ([]string, error) {
	var positional []string
	args := argv
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		rest := fs.Args()
		if len(rest) == 0 {
			return positional, nil
		}
		if len(args) > len(rest) && args[len(args)-len(rest)-1] == "--" {
			return append(positional, rest...), nil
		}
		positional = append(positional, rest[0])
		args = rest[1:]
	}
}

func newStore(cfg config.Config) (storage.Store, error) {
	switch cfg.Backend {
	case "file":
		format, err := contactrank.ParseFormat(cfg.ContactsFormat)
		if err != nil {
			return nil, err
		}
		return file.New(cfg.ContactsFile, format), nil
	case "sqlite":
		return sqlite.NewStore(cliopt.SQLiteFile(cfg.SQLitePath), cfg.SQLiteDriver), nil
	case "postgres":
		return postgres.NewStore(cfg.PostgresDSN, cfg.PostgresSchema), nil
	case "redis":
		return redis.New(redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   cfg.RedisPrefix,
		}), nil
	default:
		return nil, contactrank.New(contactrank.ErrConfig, fmt.Sprintf("unknown backend %q", cfg.Backend))
	}
}

func openBook(ctx context.Context, g cliopt.GlobalOptions) (*contactrank.Book, error) {
	store, err := newStore(g.Config)
	if err != nil {
		return nil, err
	}
	opts := contactrank.DefaultBookOptions()
	opts.Logger = slog.Default()
	return contactrank.Open(ctx, store, opts)
}

func background() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), contactrank.DefaultOpTimeout)
}
