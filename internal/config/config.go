// Package config loads contactrank settings from an optional YAML file and
// CONTACTRANK_* environment variables. Environment values take precedence
// over file values; command-line flags are layered on top by the CLI.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/nonibytes/contactrank/contactrank"
)

// Config holds every setting the CLI and server need to open a contact book.
type Config struct {
	Backend string `koanf:"backend"`

	// file backend
	ContactsFile   string `koanf:"contacts_file"`
	ContactsFormat string `koanf:"contacts_format"`

	// sqlite backend
	SQLitePath   string `koanf:"sqlite_path"`
	SQLiteDriver string `koanf:"sqlite_driver"`

	// postgres backend
	PostgresDSN    string `koanf:"pg_dsn"`
	PostgresSchema string `koanf:"pg_schema"`

	// redis backend
	RedisAddr     string `koanf:"redis_addr"`
	RedisPassword string `koanf:"redis_password"`
	RedisDB       int    `koanf:"redis_db"`
	RedisPrefix   string `koanf:"redis_prefix"`

	LogLevel  string `koanf:"log_level"`
	LogFormat string `koanf:"log_format"`
	Color     string `koanf:"color"`

	ServeAddr string `koanf:"serve_addr"`
}

// Default values.
const (
	DefaultBackend        = "file"
	DefaultContactsFormat = "auto"
	DefaultSQLitePath     = "contacts.db"
	DefaultSQLiteDriver   = "sqlite"
	DefaultPostgresSchema = "contactrank"
	DefaultRedisAddr      = "localhost:6379"
	DefaultRedisPrefix    = "contactrank"
	DefaultLogLevel       = "warn"
	DefaultLogFormat      = "text"
	DefaultColor          = "auto"
	DefaultServeAddr      = ":8080"
)

// EnvPrefix is prepended to the upper-cased koanf key to form the
// environment variable name, e.g. CONTACTRANK_PG_DSN.
const EnvPrefix = "CONTACTRANK_"

// Defaults returns a Config populated with default values only.
func Defaults() Config {
	return Config{
		Backend:        DefaultBackend,
		ContactsFile:   contactrank.DefaultContactsFile,
		ContactsFormat: DefaultContactsFormat,
		SQLitePath:     DefaultSQLitePath,
		SQLiteDriver:   DefaultSQLiteDriver,
		PostgresSchema: DefaultPostgresSchema,
		RedisAddr:      DefaultRedisAddr,
		RedisPrefix:    DefaultRedisPrefix,
		LogLevel:       DefaultLogLevel,
		LogFormat:      DefaultLogFormat,
		Color:          DefaultColor,
		ServeAddr:      DefaultServeAddr,
	}
}

// Load reads configuration from an optional YAML file and the environment.
// An empty path skips the file.
func Load(path string) (Config, error) {
	k := koanf.New(".")
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, contactrank.Wrap(contactrank.ErrConfig, fmt.Sprintf("load config file %s", path), err)
		}
	}

	d := Defaults()
	redisDB, err := envIntOrKoanf("redis_db", k, d.RedisDB)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Backend:        envOrKoanf("backend", k, d.Backend),
		ContactsFile:   envOrKoanf("contacts_file", k, d.ContactsFile),
		ContactsFormat: envOrKoanf("contacts_format", k, d.ContactsFormat),
		SQLitePath:     envOrKoanf("sqlite_path", k, d.SQLitePath),
		SQLiteDriver:   envOrKoanf("sqlite_driver", k, d.SQLiteDriver),
		PostgresDSN:    envOrKoanf("pg_dsn", k, d.PostgresDSN),
		PostgresSchema: envOrKoanf("pg_schema", k, d.PostgresSchema),
		RedisAddr:      envOrKoanf("redis_addr", k, d.RedisAddr),
		RedisPassword:  envOrKoanf("redis_password", k, d.RedisPassword),
		RedisDB:        redisDB,
		RedisPrefix:    envOrKoanf("redis_prefix", k, d.RedisPrefix),
		LogLevel:       envOrKoanf("log_level", k, d.LogLevel),
		LogFormat:      envOrKoanf("log_format", k, d.LogFormat),
		Color:          envOrKoanf("color", k, d.Color),
		ServeAddr:      envOrKoanf("serve_addr", k, d.ServeAddr),
	}
	return cfg, nil
}

// Validate checks enumerated settings and backend requirements.
func (c Config) Validate() error {
	switch c.Backend {
	case "file", "sqlite", "postgres", "redis":
	default:
		return contactrank.New(contactrank.ErrConfig, fmt.Sprintf("unknown backend %q (want file|sqlite|postgres|redis)", c.Backend))
	}
	if _, err := contactrank.ParseFormat(c.ContactsFormat); err != nil {
		return err
	}
	switch c.SQLiteDriver {
	case "sqlite", "sqlite3":
	default:
		return contactrank.New(contactrank.ErrConfig, fmt.Sprintf("unknown sqlite driver %q (want sqlite|sqlite3)", c.SQLiteDriver))
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return contactrank.New(contactrank.ErrConfig, fmt.Sprintf("unknown log format %q (want text|json)", c.LogFormat))
	}
	switch c.Color {
	case "auto", "on", "off":
	default:
		return contactrank.New(contactrank.ErrConfig, fmt.Sprintf("unknown color mode %q (want auto|on|off)", c.Color))
	}
	if c.Backend == "postgres" && c.PostgresDSN == "" {
		return contactrank.New(contactrank.ErrConfig, "postgres backend requires pg_dsn")
	}
	return nil
}

func envKey(koanfKey string) string {
	return EnvPrefix + strings.ToUpper(koanfKey)
}

// envOrKoanf returns the environment value if set, otherwise the koanf
// value, or def.
func envOrKoanf(key string, k *koanf.Koanf, def string) string {
	if v := os.Getenv(envKey(key)); v != "" {
		return v
	}
	if v := k.String(key); v != "" {
		return v
	}
	return def
}

func envIntOrKoanf(key string, k *koanf.Koanf, def int) (int, error) {
	if v := os.Getenv(envKey(key)); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, contactrank.Wrap(contactrank.ErrConfig, fmt.Sprintf("%s must be an integer", envKey(key)), err)
		}
		return n, nil
	}
	if k.Exists(key) {
		return k.Int(key), nil
	}
	return def, nil
}
