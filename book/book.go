// Package book owns the journal Database. Readers take an immutable
// snapshot; every change goes through Commit, which normalizes the edited
// copy, persists it and only then publishes it as the new snapshot.
package book

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/phuslu/log"

	"github.com/danmarmu/trading-journal-app/internal/logging"
	"github.com/danmarmu/trading-journal-app/model"
	"github.com/danmarmu/trading-journal-app/normalize"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidImport = errors.New("import must be a JSON object")
)

// Persister is the storage a Book commits to. *store.Store implements it.
type Persister interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, db model.Database) error
	Export(ctx context.Context) (string, error)
	Import(ctx context.Context, text string) error
	Reset(ctx context.Context) error
}

type Book struct {
	mu     sync.Mutex
	store  Persister
	logger *log.Logger
	db     model.Database
}

// Open loads the stored Database into a new Book. A nil logger discards.
func Open(ctx context.Context, store Persister, logger *log.Logger) (*Book, error) {
	if logger == nil {
		logger = logging.Discard()
	}
	b := &Book{store: store, logger: logger, db: model.Empty()}
	if err := b.Reload(ctx); err != nil {
		return nil, err
	}
	return b, nil
}

// Snapshot returns the current Database. Callers must treat it as read
// only; later commits publish a new value and never modify this one.
func (b *Book) Snapshot() model.Database {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.db
}

// Commit applies update to a copy of the current Database. If update
// returns an error nothing changes. Otherwise the copy is normalized and
// saved, and becomes the new snapshot once the save succeeds.
func (b *Book) Commit(ctx context.Context, update func(db *model.Database) error) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	next := b.db.Clone()
	if err := update(&next); err != nil {
		return err
	}
	return b.publish(ctx, next, "commit")
}

// publish is called with mu held.
func (b *Book) publish(ctx context.Context, db model.Database, op string) error {
	norm, st := normalize.Database(db)
	if n := st.Dropped(); n > 0 {
		b.logger.Warn().Str("op", op).
			Int("accounts", st.DroppedAccounts).
			Int("compliance", st.DroppedCompliance).
			Msg("normalization dropped dangling records")
	}

	if err := b.store.Save(ctx, norm); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	b.db = norm

	b.logger.Debug().Str("op", op).
		Int("firms", len(norm.Firms)).
		Int("accounts", len(norm.Accounts)).
		Int("compliance", len(norm.Compliance)).
		Int("journals", len(norm.Journals)).
		Msg("published")
	return nil
}

// Reload replaces the snapshot with the stored Database. A stored value
// that is not a JSON object loads as the empty Database and is left in
// place rather than overwritten.
func (b *Book) Reload(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	raw, err := b.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("reload: %w", err)
	}

	db, st := normalize.Decode(raw)
	if st.Malformed > 0 {
		b.logger.Warn().Int("records", st.Malformed).Msg("skipped malformed records")
	}
	if st.Corrupt {
		b.logger.Warn().Int("bytes", len(raw)).Msg("stored database is corrupt, starting empty")
		b.db = db
		return nil
	}
	if raw == nil {
		b.db = db
		return nil
	}
	return b.publish(ctx, db, "reload")
}

// Export returns the stored Database as indented JSON.
func (b *Book) Export(ctx context.Context) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.store.Export(ctx)
}

// Import replaces the stored Database with text, a JSON object in the
// serialized form, and reloads it. Any other text is rejected with
// ErrInvalidImport and changes nothing.
func (b *Book) Import(ctx context.Context, text string) error {
	trimmed := bytes.TrimSpace([]byte(text))
	if len(trimmed) == 0 || trimmed[0] != '{' || !json.Valid(trimmed) {
		return ErrInvalidImport
	}

	b.mu.Lock()
	if err := b.store.Import(ctx, text); err != nil {
		b.mu.Unlock()
		return err
	}
	b.mu.Unlock()

	return b.Reload(ctx)
}

// Reset removes the stored Database and publishes an empty one.
func (b *Book) Reset(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.store.Reset(ctx); err != nil {
		return err
	}
	b.db = model.Empty()
	b.logger.Info().Msg("journal reset")
	return nil
}

func notFound(kind, id string) error {
	return fmt.Errorf("%s %q: %w", kind, id, ErrNotFound)
}
