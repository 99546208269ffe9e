// Package store persists the journal Database as one JSON document under a
// single key, in SQLite, a plain JSON file or an embedded Badger database.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/phuslu/log"

	"github.com/danmarmu/trading-journal-app/config"
	"github.com/danmarmu/trading-journal-app/internal/logging"
	"github.com/danmarmu/trading-journal-app/model"
)

// Key names the stored document in the key/value backends.
const Key = "trading_journal_db_v1"

// backend holds the raw document text.
type backend interface {
	get(ctx context.Context) (value string, ok bool, err error)
	put(ctx context.Context, value string) error
	remove(ctx context.Context) error
	Close() error
}

// Store is the persistence boundary. It never interprets the document
// beyond serializing a Database on Save; Load returns the raw text for
// normalization.
type Store struct {
	kind   string
	path   string
	be     backend
	logger *log.Logger
}

// Open opens the backend named by cfg.Type at cfg.Path. A nil logger
// discards.
func Open(cfg config.StoreConfig, logger *log.Logger) (*Store, error) {
	if logger == nil {
		logger = logging.Discard()
	}
	var (
		be  backend
		err error
	)
	switch cfg.Type {
	case config.StoreSQLite:
		be, err = openSQLite(cfg.Path)
	case config.StoreFile:
		be, err = openFile(cfg.Path)
	case config.StoreBadger:
		be, err = openBadger(cfg.Path)
	default:
		return nil, fmt.Errorf("open store: unknown type %q", cfg.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Type, err)
	}

	logger.Debug().Str("type", cfg.Type).Str("path", cfg.Path).Msg("store opened")
	return &Store{kind: cfg.Type, path: cfg.Path, be: be, logger: logger}, nil
}

// Load returns the stored document, or nil when nothing has been saved.
func (s *Store) Load(ctx context.Context) ([]byte, error) {
	v, ok, err := s.be.get(ctx)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	if !ok {
		s.logger.Debug().Str("type", s.kind).Msg("store empty")
		return nil, nil
	}
	s.logger.Debug().Str("type", s.kind).Int("bytes", len(v)).Msg("store loaded")
	return []byte(v), nil
}

// Save replaces the stored document with db.
func (s *Store) Save(ctx context.Context, db model.Database) error {
	data, err := json.Marshal(db)
	if err != nil {
		return fmt.Errorf("marshal database: %w", err)
	}
	if err := s.be.put(ctx, string(data)); err != nil {
		return fmt.Errorf("save: %w", err)
	}
	s.logger.Debug().Str("type", s.kind).Int("bytes", len(data)).Msg("store saved")
	return nil
}

// Export returns the stored document indented for a backup file. Without a
// stored document it returns the empty Database. Text that is not valid
// JSON is returned unchanged.
func (s *Store) Export(ctx context.Context) (string, error) {
	raw, err := s.Load(ctx)
	if err != nil {
		return "", err
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		empty, err := json.MarshalIndent(model.Empty(), "", "  ")
		if err != nil {
			return "", fmt.Errorf("marshal database: %w", err)
		}
		return string(empty), nil
	}

	var out bytes.Buffer
	if err := json.Indent(&out, raw, "", "  "); err != nil {
		s.logger.Warn().Err(err).Msg("stored document is not valid JSON, exporting as is")
		return string(raw), nil
	}
	return out.String(), nil
}

// Import replaces the stored document with text verbatim.
func (s *Store) Import(ctx context.Context, text string) error {
	if err := s.be.put(ctx, text); err != nil {
		return fmt.Errorf("import: %w", err)
	}
	s.logger.Info().Str("type", s.kind).Int("bytes", len(text)).Msg("store imported")
	return nil
}

// Reset removes the stored document.
func (s *Store) Reset(ctx context.Context) error {
	if err := s.be.remove(ctx); err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	s.logger.Info().Str("type", s.kind).Msg("store reset")
	return nil
}

// Describe names the backend and its location, e.g. "sqlite ./propjournal.sqlite".
func (s *Store) Describe() string {
	return s.kind + " " + s.path
}

func (s *Store) Close() error {
	return s.be.Close()
}
