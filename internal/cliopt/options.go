package cliopt

import (
	"flag"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/nonibytes/contactrank/internal/config"
)

// GlobalOptions are parsed once at the CLI root and passed to subcommands.
//
// NOTE: This is a separate package to avoid import cycles between the root
// command router and per-command code.
type GlobalOptions struct {
	ConfigPath string

	// Flags holds values bound to the root flag set. Only flags the user set
	// explicitly override Config.
	Flags config.Config

	// Config is the effective configuration after Resolve.
	Config config.Config

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

func DefaultGlobalOptions() GlobalOptions {
	return GlobalOptions{
		Flags:  config.Defaults(),
		Config: config.Defaults(),
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

func BindGlobalFlags(fs *flag.FlagSet, g *GlobalOptions) {
	f := &g.Flags
	fs.StringVar(&g.ConfigPath, "config", g.ConfigPath, "YAML config file")

	fs.StringVar(&f.Backend, "backend", f.Backend, "backend: file|sqlite|postgres|redis")

	fs.StringVar(&f.ContactsFile, "contacts", f.ContactsFile, "contacts file for the file backend")
	fs.StringVar(&f.ContactsFormat, "contacts-format", f.ContactsFormat, "contacts file format: auto|json|jsonl|yaml")

	fs.StringVar(&f.SQLitePath, "sqlite-path", f.SQLitePath, "sqlite directory or explicit .db file path")
	fs.StringVar(&f.SQLiteDriver, "sqlite-driver", f.SQLiteDriver, "sqlite driver: sqlite|sqlite3")

	fs.StringVar(&f.PostgresDSN, "pg-dsn", f.PostgresDSN, "postgres DSN")
	fs.StringVar(&f.PostgresSchema, "pg-schema", f.PostgresSchema, "postgres schema")

	fs.StringVar(&f.RedisAddr, "redis-addr", f.RedisAddr, "redis address host:port")
	fs.StringVar(&f.RedisPassword, "redis-password", f.RedisPassword, "redis password")
	fs.IntVar(&f.RedisDB, "redis-db", f.RedisDB, "redis db number")
	fs.StringVar(&f.RedisPrefix, "redis-prefix", f.RedisPrefix, "redis key prefix")

	fs.StringVar(&f.LogLevel, "log-level", f.LogLevel, "log level: debug|info|warn|error")
	fs.StringVar(&f.LogFormat, "log-format", f.LogFormat, "log format: text|json")
	fs.StringVar(&f.Color, "color", f.Color, "colorize output: auto|on|off")
}

// Resolve loads the config file and environment, then applies every flag
// that was set on fs.
func Resolve(fs *flag.FlagSet, g *GlobalOptions) error {
	cfg, err := config.Load(g.ConfigPath)
	if err != nil {
		return err
	}
	f := g.Flags
	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "backend":
			cfg.Backend = f.Backend
		case "contacts":
			cfg.ContactsFile = f.ContactsFile
		case "contacts-format":
			cfg.ContactsFormat = f.ContactsFormat
		case "sqlite-path":
			cfg.SQLitePath = f.SQLitePath
		case "sqlite-driver":
			cfg.SQLiteDriver = f.SQLiteDriver
		case "pg-dsn":
			cfg.PostgresDSN = f.PostgresDSN
		case "pg-schema":
			cfg.PostgresSchema = f.PostgresSchema
		case "redis-addr":
			cfg.RedisAddr = f.RedisAddr
		case "redis-password":
			cfg.RedisPassword = f.RedisPassword
		case "redis-db":
			cfg.RedisDB = f.RedisDB
		case "redis-prefix":
			cfg.RedisPrefix = f.RedisPrefix
		case "log-level":
			cfg.LogLevel = f.LogLevel
		case "log-format":
			cfg.LogFormat = f.LogFormat
		case "color":
			cfg.Color = f.Color
		}
	})
	if err := cfg.Validate(); err != nil {
		return err
	}
	g.Config = cfg
	return nil
}

// SQLiteFile turns --sqlite-path into a database file path.
//
//   - ends in .db or names an existing file: used as-is.
//   - an existing directory: <dir>/contacts.db
//   - empty: contacts.db in the working directory.
func SQLiteFile(path string) string {
	if path == "" {
		return config.DefaultSQLitePath
	}
	if strings.HasSuffix(path, ".db") {
		return path
	}
	if st, err := os.Stat(path); err == nil && st.IsDir() {
		return filepath.Join(path, config.DefaultSQLitePath)
	}
	return path
}
