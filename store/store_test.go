package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danmarmu/trading-journal-app/config"
	"github.com/danmarmu/trading-journal-app/model"
)

var backends = []struct {
	kind string
	name string
}{
	{config.StoreSQLite, "journal.sqlite"},
	{config.StoreFile, "journal.json"},
	{config.StoreBadger, "journal.badger"},
}

func newTestStore(t *testing.T, kind, name string) (*Store, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	s, err := Open(config.StoreConfig{Type: kind, Path: path}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	return s, path
}

func sample() model.Database {
	db := model.Empty()
	db.Firms = append(db.Firms, model.Firm{ID: "f1", Name: "Topstep"})
	db.Accounts = append(db.Accounts, model.Account{ID: "a1", FirmID: "f1", Name: "50K", AccountType: model.Evaluation})
	db.Compliance = append(db.Compliance, model.ComplianceEntry{ID: "c1", AccountID: "a1", Date: "2024-01-01", EndingBalance: "49000"})
	return db
}

func TestBackends(t *testing.T) {
	t.Parallel()

	for _, b := range backends {
		b := b
		t.Run(b.kind, func(t *testing.T) {
			t.Parallel()
			ctx := context.Background()
			s, _ := newTestStore(t, b.kind, b.name)

			raw, err := s.Load(ctx)
			require.NoError(t, err)
			assert.Nil(t, raw)

			require.NoError(t, s.Save(ctx, sample()))
			raw, err = s.Load(ctx)
			require.NoError(t, err)

			var got model.Database
			require.NoError(t, json.Unmarshal(raw, &got))
			assert.Equal(t, sample(), got)

			// Saving again replaces the document.
			require.NoError(t, s.Save(ctx, model.Empty()))
			raw, err = s.Load(ctx)
			require.NoError(t, err)
			assert.JSONEq(t, `{"firms":[],"accounts":[],"journals":[],"compliance":[]}`, string(raw))

			require.NoError(t, s.Import(ctx, "not json"))
			raw, err = s.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, "not json", string(raw))

			require.NoError(t, s.Reset(ctx))
			raw, err = s.Load(ctx)
			require.NoError(t, err)
			assert.Nil(t, raw)

			// Resetting twice is harmless.
			assert.NoError(t, s.Reset(ctx))
		})
	}
}

func TestExport(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s, _ := newTestStore(t, config.StoreFile, "journal.json")

	text, err := s.Export(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `{"firms":[],"accounts":[],"journals":[],"compliance":[]}`, text)
	assert.Contains(t, text, "\n  \"firms\"")

	require.NoError(t, s.Save(ctx, sample()))
	text, err = s.Export(ctx)
	require.NoError(t, err)
	assert.Contains(t, text, "\n  \"firms\": [\n")
	assert.Contains(t, text, `"name": "Topstep"`)

	require.NoError(t, s.Import(ctx, "{broken"))
	text, err = s.Export(ctx)
	require.NoError(t, err)
	assert.Equal(t, "{broken", text)
}

func TestSQLiteSchemaCreated(t *testing.T) {
	t.Parallel()

	s, path := newTestStore(t, config.StoreSQLite, "journal.sqlite")
	require.NoError(t, s.Save(context.Background(), sample()))

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM kv WHERE key = ?`, Key).Scan(&n))
	assert.Equal(t, 1, n)
}

func TestFileStoreSurvivesReopen(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "journal.json")
	cfg := config.StoreConfig{Type: config.StoreFile, Path: path}

	s, err := Open(cfg, nil)
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, sample()))
	require.NoError(t, s.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"firmId":"f1"`)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files are cleaned up")

	s, err = Open(cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	raw, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, string(data), string(raw))
}

func TestOpenUnknownType(t *testing.T) {
	t.Parallel()

	_, err := Open(config.StoreConfig{Type: "redis", Path: "x"}, nil)
	assert.ErrorContains(t, err, "unknown type")
}

func TestCanceledContext(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t, config.StoreFile, "journal.json")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
