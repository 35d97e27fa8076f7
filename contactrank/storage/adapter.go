package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/nonibytes/contactrank/contactrank/storage/sqlbuilder"
)

type Backend string

const (
	BackendFile     Backend = "file"
	BackendSQLite   Backend = "sqlite"
	BackendPostgres Backend = "postgres"
	BackendRedis    Backend = "redis"
)

var (
	ErrNotFound = errors.New("row not found")
	ErrReadOnly = errors.New("store is read-only")
)

// Row is one stored contact. Seq preserves insertion order across backends.
type Row struct {
	ID          string            `msgpack:"id"`
	Fields      map[string]string `msgpack:"fields"`
	Seq         int64             `msgpack:"seq"`
	CreatedAtMS int64             `msgpack:"created_at"`
	UpdatedAtMS int64             `msgpack:"updated_at"`
}

// Store persists contact rows.
type Store interface {
	Backend() Backend
	Init(ctx context.Context) error
	Ping(ctx context.Context) error

	// Upsert inserts or replaces rows by ID. CreatedAtMS and Seq of an
	// existing row are kept.
	Upsert(ctx context.Context, rows []Row) (int, error)
	Get(ctx context.Context, id string) (Row, error)
	Delete(ctx context.Context, ids []string) (int, error)
	// Scan returns every row in insertion order.
	Scan(ctx context.Context) ([]Row, error)

	Close() error
}

// Counter is implemented by stores that can count rows without a Scan.
type Counter interface {
	Count(ctx context.Context) (int, error)
}

// Adapter abstracts database-specific operations for SQL-backed stores
type Adapter interface {
	Backend() Backend
	PlaceholderStyle() sqlbuilder.PlaceholderStyle
	StoreID() string

	Connect(ctx context.Context) (*sql.DB, error)
	CreateSchema(ctx context.Context, db *sql.DB) error

	SQL() SQL
}

// SQL holds prepared SQL templates for common operations
type SQL struct {
	GetMeta  string
	SetMeta  string
	InitMeta string // insert only when the key is absent

	UpsertContact string
	GetContact    string
	ScanContacts  string
	CountContacts string

	// DeleteContactsIn is completed with a placeholder list and ")".
	DeleteContactsIn string
}

const (
	MetaMagic      = "contactrank_magic"
	MetaVersion    = "contactrank_version"
	MagicValue     = "contactrank"
	CurrentVersion = "1"
)
