// Package file serves contacts straight from a JSON, JSON lines or YAML
// file. The store is read-only.
package file

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/nonibytes/contactrank/contactrank"
	"github.com/nonibytes/contactrank/contactrank/storage"
)

type Store struct {
	Path   string
	Format contactrank.Format
}

func New(path string, format contactrank.Format) *Store {
	if path == "" {
		path = contactrank.DefaultContactsFile
	}
	return &Store{Path: path, Format: format}
}

func (s *Store) Backend() storage.Backend { return storage.BackendFile }

func (s *Store) Init(ctx context.Context) error {
	return s.Ping(ctx)
}

func (s *Store) Ping(ctx context.Context) error {
	_ = ctx
	st, err := os.Stat(s.Path)
	if err != nil {
		return err
	}
	if st.IsDir() {
		return fmt.Errorf("%s is a directory", s.Path)
	}
	return nil
}

func (s *Store) Upsert(ctx context.Context, rows []storage.Row) (int, error) {
	return 0, storage.ErrReadOnly
}

func (s *Store) Delete(ctx context.Context, ids []string) (int, error) {
	return 0, storage.ErrReadOnly
}

func (s *Store) Get(ctx context.Context, id string) (storage.Row, error) {
	rows, err := s.Scan(ctx)
	if err != nil {
		return storage.Row{}, err
	}
	for _, r := range rows {
		if r.ID == id {
			return r, nil
		}
	}
	return storage.Row{}, storage.ErrNotFound
}

// Scan re-reads the file on every call so edits are picked up without a
// restart.
func (s *Store) Scan(ctx context.Context) ([]storage.Row, error) {
	_ = ctx
	contacts, err := contactrank.LoadFile(s.Path, s.Format)
	if err != nil {
		return nil, err
	}
	var modMS int64
	if st, err := os.Stat(s.Path); err == nil {
		modMS = st.ModTime().UnixMilli()
	} else {
		modMS = time.Now().UnixMilli()
	}

	rows := make([]storage.Row, len(contacts))
	for i, c := range contacts {
		rows[i] = storage.Row{
			ID:          contactrank.ContactID(c),
			Fields:      c,
			Seq:         int64(i + 1),
			CreatedAtMS: modMS,
			UpdatedAtMS: modMS,
		}
	}
	return rows, nil
}

func (s *Store) Close() error { return nil }
