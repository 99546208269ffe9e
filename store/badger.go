package store

import (
	"context"
	"errors"
	"os"

	"github.com/timshannon/badgerhold/v4"
)

// KVEntry is the Badger record holding the document.
type KVEntry struct {
	Key   string `badgerhold:"key"`
	Value string
}

type badgerBackend struct {
	store *badgerhold.Store
}

func openBadger(path string) (*badgerBackend, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, err
	}

	options := badgerhold.DefaultOptions
	options.Dir = path
	options.ValueDir = path
	options.Logger = nil // Disable default badger logger

	s, err := badgerhold.Open(options)
	if err != nil {
		return nil, err
	}
	return &badgerBackend{store: s}, nil
}

func (b *badgerBackend) get(ctx context.Context) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	var entry KVEntry
	err := b.store.Get(Key, &entry)
	if errors.Is(err, badgerhold.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return entry.Value, true, nil
}

func (b *badgerBackend) put(ctx context.Context, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return b.store.Upsert(Key, &KVEntry{Key: Key, Value: value})
}

func (b *badgerBackend) remove(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := b.store.Delete(Key, KVEntry{})
	if errors.Is(err, badgerhold.ErrNotFound) {
		return nil
	}
	return err
}

func (b *badgerBackend) Close() error {
	return b.store.Close()
}
