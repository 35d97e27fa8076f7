package contactrank

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/nonibytes/contactrank/contactrank/storage"
)

var idNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/nonibytes/contactrank"))

// ContactID derives a stable id from the contact's fields, so importing the
// same record twice updates it in place.
func ContactID(c Contact) string {
	b, _ := json.Marshal(map[string]string(c)) // map keys marshal sorted
	return uuid.NewSHA1(idNamespace, b).String()
}

// BookOptions configures a Book
type BookOptions struct {
	Now    func() time.Time
	Logger *slog.Logger
}

// DefaultBookOptions returns sensible defaults
func DefaultBookOptions() BookOptions {
	return BookOptions{
		Now:    time.Now,
		Logger: slog.Default(),
	}
}

// Record is a stored contact with its metadata
type Record struct {
	ID          string  `json:"id"`
	Contact     Contact `json:"contact"`
	CreatedAtMS int64   `json:"created_at_ms"`
	UpdatedAtMS int64   `json:"updated_at_ms"`
}

// SearchOptions configures Book.Search
type SearchOptions struct {
	Limit int // 0 means no limit
}

// Book is an address book backed by a storage.Store.
type Book struct {
	store storage.Store
	opts  BookOptions
}

// Open initializes store and wraps it in a Book.
func Open(ctx context.Context, store storage.Store, opts BookOptions) (*Book, error) {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if err := store.Init(ctx); err != nil {
		return nil, Wrap(ErrIO, "open "+string(store.Backend())+" store", err)
	}
	opts.Logger.Debug("opened contact store", "backend", store.Backend())
	return &Book{store: store, opts: opts}, nil
}

// Close closes the underlying store
func (b *Book) Close() error {
	if err := b.store.Close(); err != nil {
		return Wrap(ErrIO, "close store", err)
	}
	return nil
}

// Backend reports which store the book uses
func (b *Book) Backend() storage.Backend {
	return b.store.Backend()
}

// Ping checks the store is reachable
func (b *Book) Ping(ctx context.Context) error {
	if err := b.store.Ping(ctx); err != nil {
		return Wrap(ErrIO, "ping store", err)
	}
	return nil
}

// Put stores c under id, deriving the id from the contact when empty.
func (b *Book) Put(ctx context.Context, id string, c Contact) (string, error) {
	if len(c) == 0 {
		return "", InvalidContactError("", "contact has no fields")
	}
	if id == "" {
		id = ContactID(c)
	}
	nowMS := b.opts.Now().UnixMilli()
	row := storage.Row{ID: id, Fields: c.Clone(), CreatedAtMS: nowMS, UpdatedAtMS: nowMS}
	if _, err := b.store.Upsert(ctx, []storage.Row{row}); err != nil {
		return "", storageError("put contact", err)
	}
	return id, nil
}

// PutMany stores every contact in one write, skipping empty records.
func (b *Book) PutMany(ctx context.Context, contacts []Contact) (int, error) {
	nowMS := b.opts.Now().UnixMilli()
	rows := make([]storage.Row, 0, len(contacts))
	for _, c := range contacts {
		if len(c) == 0 {
			continue
		}
		rows = append(rows, storage.Row{
			ID:          ContactID(c),
			Fields:      c.Clone(),
			CreatedAtMS: nowMS,
			UpdatedAtMS: nowMS,
		})
	}
	n, err := b.store.Upsert(ctx, rows)
	if err != nil {
		return 0, storageError("put contacts", err)
	}
	b.opts.Logger.Debug("stored contacts", "count", n, "skipped", len(contacts)-len(rows))
	return n, nil
}

// Get retrieves a contact by id
func (b *Book) Get(ctx context.Context, id string) (Record, error) {
	row, err := b.store.Get(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return Record{}, NotFoundError(id)
	}
	if err != nil {
		return Record{}, storageError("get contact", err)
	}
	return recordFromRow(row), nil
}

// Delete removes contacts by id and reports how many existed
func (b *Book) Delete(ctx context.Context, ids ...string) (int, error) {
	n, err := b.store.Delete(ctx, ids)
	if err != nil {
		return 0, storageError("delete contacts", err)
	}
	return n, nil
}

// List returns every stored contact in insertion order
func (b *Book) List(ctx context.Context) ([]Record, error) {
	rows, err := b.store.Scan(ctx)
	if err != nil {
		return nil, storageError("list contacts", err)
	}
	out := make([]Record, len(rows))
	for i, r := range rows {
		out[i] = recordFromRow(r)
	}
	return out, nil
}

// Count reports how many contacts are stored.
func (b *Book) Count(ctx context.Context) (int, error) {
	if c, ok := b.store.(storage.Counter); ok {
		n, err := c.Count(ctx)
		if err != nil {
			return 0, storageError("count contacts", err)
		}
		return n, nil
	}
	rows, err := b.store.Scan(ctx)
	if err != nil {
		return 0, storageError("count contacts", err)
	}
	return len(rows), nil
}

// Contacts returns the stored contacts without metadata
func (b *Book) Contacts(ctx context.Context) ([]Contact, error) {
	recs, err := b.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Contact, len(recs))
	for i, r := range recs {
		out[i] = r.Contact
	}
	return out, nil
}

// Search ranks the stored contacts against term.
func (b *Book) Search(ctx context.Context, term string, opts SearchOptions) ([]Match, error) {
	start := b.opts.Now()
	contacts, err := b.Contacts(ctx)
	if err != nil {
		return nil, err
	}
	matches, err := RankMatches(term, contacts)
	if err != nil {
		return nil, err
	}
	if opts.Limit > 0 && len(matches) > opts.Limit {
		matches = matches[:opts.Limit]
	}
	b.opts.Logger.Debug("ranked contacts",
		"term", term,
		"candidates", len(contacts),
		"returned", len(matches),
		"elapsed", b.opts.Now().Sub(start))
	return matches, nil
}

func recordFromRow(r storage.Row) Record {
	return Record{
		ID:          r.ID,
		Contact:     Contact(r.Fields),
		CreatedAtMS: r.CreatedAtMS,
		UpdatedAtMS: r.UpdatedAtMS,
	}
}

func storageError(msg string, err error) error {
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	if errors.Is(err, storage.ErrReadOnly) {
		return Wrap(ErrReadOnly, msg, err)
	}
	return Wrap(ErrStorage, msg, err)
}
