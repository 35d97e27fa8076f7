// Package redis stores contacts in a redis hash, one msgpack-encoded row per
// field, with a counter key supplying insertion order.
package redis

import (
	"context"
	"errors"
	"fmt"
	"sort"

	goredis "github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/nonibytes/contactrank/contactrank/storage"
)

const DefaultPrefix = "contactrank"

type Options struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

type Store struct {
	opts   Options
	client *goredis.Client
}

func New(opts Options) *Store {
	if opts.Prefix == "" {
		opts.Prefix = DefaultPrefix
	}
	return &Store{opts: opts}
}

// NewWithClient wraps an existing client; Init will not dial again.
func NewWithClient(client *goredis.Client, prefix string) *Store {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Store{opts: Options{Prefix: prefix}, client: client}
}

func (s *Store) Backend() storage.Backend { return storage.BackendRedis }

func (s *Store) contactsKey() string { return s.opts.Prefix + ":contacts" }
func (s *Store) seqKey() string      { return s.opts.Prefix + ":seq" }

func (s *Store) Init(ctx context.Context) error {
	if s.client == nil {
		s.client = goredis.NewClient(&goredis.Options{
			Addr:     s.opts.Addr,
			Password: s.opts.Password,
			DB:       s.opts.DB,
		})
	}
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping %s: %w", s.opts.Addr, err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	if s.client == nil {
		return errors.New("store not initialized")
	}
	return s.client.Ping(ctx).Err()
}

func (s *Store) Upsert(ctx context.Context, rows []storage.Row) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	written := len(rows)
	rows = coalesceRows(rows)
	ids := make([]string, len(rows))
	for i, r := range rows {
		ids[i] = r.ID
	}
	existing, err := s.client.HMGet(ctx, s.contactsKey(), ids...).Result()
	if err != nil {
		return 0, fmt.Errorf("load existing rows: %w", err)
	}

	values := make([]any, 0, 2*len(rows))
	for i, r := range rows {
		if raw, ok := existing[i].(string); ok {
			var prev storage.Row
			if err := msgpack.Unmarshal([]byte(raw), &prev); err != nil {
				return 0, fmt.Errorf("decode row %s: %w", r.ID, err)
			}
			r.Seq = prev.Seq
			r.CreatedAtMS = prev.CreatedAtMS
		} else {
			seq, err := s.client.Incr(ctx, s.seqKey()).Result()
			if err != nil {
				return 0, fmt.Errorf("allocate seq: %w", err)
			}
			r.Seq = seq
		}
		b, err := msgpack.Marshal(&r)
		if err != nil {
			return 0, fmt.Errorf("encode row %s: %w", r.ID, err)
		}
		values = append(values, r.ID, b)
	}

	if err := s.client.HSet(ctx, s.contactsKey(), values...).Err(); err != nil {
		return 0, fmt.Errorf("write rows: %w", err)
	}
	return written, nil
}

// coalesceRows keeps one row per ID: the position of its first occurrence
// with the contents of its last, matching a sequence of single upserts.
func coalesceRows(rows []storage.Row) []storage.Row {
	pos := make(map[string]int, len(rows))
	out := make([]storage.Row, 0, len(rows))
	for _, r := range rows {
		if i, ok := pos[r.ID]; ok {
			out[i] = r
			continue
		}
		pos[r.ID] = len(out)
		out = append(out, r)
	}
	return out
}

func (s *Store) Get(ctx context.Context, id string) (storage.Row, error) {
	raw, err := s.client.HGet(ctx, s.contactsKey(), id).Bytes()
	if errors.Is(err, goredis.Nil) {
		return storage.Row{}, storage.ErrNotFound
	}
	if err != nil {
		return storage.Row{}, err
	}
	var r storage.Row
	if err := msgpack.Unmarshal(raw, &r); err != nil {
		return storage.Row{}, fmt.Errorf("decode row %s: %w", id, err)
	}
	return r, nil
}

func (s *Store) Delete(ctx context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	n, err := s.client.HDel(ctx, s.contactsKey(), ids...).Result()
	if err != nil {
		return 0, fmt.Errorf("delete rows: %w", err)
	}
	return int(n), nil
}

func (s *Store) Scan(ctx context.Context) ([]storage.Row, error) {
	all, err := s.client.HGetAll(ctx, s.contactsKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("scan rows: %w", err)
	}
	out := make([]storage.Row, 0, len(all))
	for id, raw := range all {
		var r storage.Row
		if err := msgpack.Unmarshal([]byte(raw), &r); err != nil {
			return nil, fmt.Errorf("decode row %s: %w", id, err)
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Seq < out[j].Seq })
	return out, nil
}

func (s *Store) Count(ctx context.Context) (int, error) {
	n, err := s.client.HLen(ctx, s.contactsKey()).Result()
	if err != nil {
		return 0, fmt.Errorf("count rows: %w", err)
	}
	return int(n), nil
}

// Drop removes every key owned by the store.
func (s *Store) Drop(ctx context.Context) error {
	return s.client.Del(ctx, s.contactsKey(), s.seqKey()).Err()
}

func (s *Store) Close() error {
	if s.client == nil {
		return nil
	}
	err := s.client.Close()
	s.client = nil
	return err
}
