package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nonibytes/contactrank/contactrank/storage/sqlbuilder"
)

// SQLStore implements Store on top of a database/sql Adapter.
type SQLStore struct {
	adapter Adapter
	db      *sql.DB
}

func NewSQLStore(adapter Adapter) *SQLStore {
	return &SQLStore{adapter: adapter}
}

func (s *SQLStore) Backend() Backend { return s.adapter.Backend() }

// DB returns the underlying database connection (nil before Init).
func (s *SQLStore) DB() *sql.DB { return s.db }

// Init connects, creates the schema if missing and checks the store marker.
func (s *SQLStore) Init(ctx context.Context) error {
	db, err := s.adapter.Connect(ctx)
	if err != nil {
		return fmt.Errorf("connect %s: %w", s.adapter.StoreID(), err)
	}
	if err := s.adapter.CreateSchema(ctx, db); err != nil {
		db.Close()
		return fmt.Errorf("create schema: %w", err)
	}

	sqlt := s.adapter.SQL()
	var magic string
	if err := db.QueryRowContext(ctx, sqlt.GetMeta, MetaMagic).Scan(&magic); err != nil {
		db.Close()
		return fmt.Errorf("read store marker: %w", err)
	}
	if magic != MagicValue {
		db.Close()
		return fmt.Errorf("not a contactrank store: %s", s.adapter.StoreID())
	}
	s.db = db
	return nil
}

func (s *SQLStore) Ping(ctx context.Context) error {
	if s.db == nil {
		return errors.New("store not initialized")
	}
	return s.db.PingContext(ctx)
}

func (s *SQLStore) Upsert(ctx context.Context, rows []Row) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, s.adapter.SQL().UpsertContact)
	if err != nil {
		return 0, fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	count := 0
	for _, r := range rows {
		data, err := json.Marshal(r.Fields)
		if err != nil {
			return count, fmt.Errorf("encode contact %s: %w", r.ID, err)
		}
		if _, err := stmt.ExecContext(ctx, r.ID, string(data), r.CreatedAtMS, r.UpdatedAtMS); err != nil {
			return count, fmt.Errorf("upsert contact %s: %w", r.ID, err)
		}
		count++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return count, nil
}

func (s *SQLStore) Get(ctx context.Context, id string) (Row, error) {
	row := s.db.QueryRowContext(ctx, s.adapter.SQL().GetContact, id)
	r, err := scanRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Row{}, ErrNotFound
	}
	return r, err
}

func (s *SQLStore) Delete(ctx context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	b := sqlbuilder.New(s.adapter.PlaceholderStyle())
	vals := make([]any, len(ids))
	for i, id := range ids {
		vals[i] = id
	}
	q := s.adapter.SQL().DeleteContactsIn + b.List(vals...) + ")"

	res, err := s.db.ExecContext(ctx, q, b.Args()...)
	if err != nil {
		return 0, fmt.Errorf("delete contacts: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func (s *SQLStore) Scan(ctx context.Context) ([]Row, error) {
	rows, err := s.db.QueryContext(ctx, s.adapter.SQL().ScanContacts)
	if err != nil {
		return nil, fmt.Errorf("scan contacts: %w", err)
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		r, err := scanRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Count returns the number of stored contacts.
func (s *SQLStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, s.adapter.SQL().CountContacts).Scan(&n); err != nil {
		return 0, fmt.Errorf("count contacts: %w", err)
	}
	return n, nil
}

func (s *SQLStore) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRow(sc rowScanner) (Row, error) {
	var r Row
	var data []byte
	if err := sc.Scan(&r.Seq, &r.ID, &data, &r.CreatedAtMS, &r.UpdatedAtMS); err != nil {
		return Row{}, err
	}
	if err := json.Unmarshal(data, &r.Fields); err != nil {
		return Row{}, fmt.Errorf("decode contact %s: %w", r.ID, err)
	}
	return r, nil
}
