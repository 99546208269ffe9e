package book

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danmarmu/trading-journal-app/config"
	"github.com/danmarmu/trading-journal-app/model"
	"github.com/danmarmu/trading-journal-app/store"
)

func newTestBook(t *testing.T) (*Book, *store.Store) {
	t.Helper()

	s, err := store.Open(config.StoreConfig{Type: config.StoreFile, Path: filepath.Join(t.TempDir(), "journal.json")}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	b, err := Open(context.Background(), s, nil)
	require.NoError(t, err)
	return b, s
}

func reopen(t *testing.T, s *store.Store) model.Database {
	t.Helper()

	b, err := Open(context.Background(), s, nil)
	require.NoError(t, err)
	return b.Snapshot()
}

func TestOpenEmptyStore(t *testing.T) {
	t.Parallel()

	b, s := newTestBook(t)
	assert.Equal(t, model.Empty(), b.Snapshot())

	raw, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, raw, "opening does not write an empty document")
}

func TestCommitPersistsAndPublishes(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	b, s := newTestBook(t)

	before := b.Snapshot()
	f, err := b.AddFirm(ctx, "  Topstep ")
	require.NoError(t, err)
	assert.Equal(t, "Topstep", f.Name)

	assert.Empty(t, before.Firms, "earlier snapshots are not modified")
	assert.Equal(t, []model.Firm{f}, b.Snapshot().Firms)
	assert.Equal(t, b.Snapshot(), reopen(t, s))
}

func TestCommitErrorChangesNothing(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	b, _ := newTestBook(t)
	_, err := b.AddFirm(ctx, "Apex")
	require.NoError(t, err)

	boom := errors.New("boom")
	err = b.Commit(ctx, func(db *model.Database) error {
		db.Firms = nil
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Len(t, b.Snapshot().Firms, 1)
}

func TestCommitNormalizes(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	b, _ := newTestBook(t)

	err := b.Commit(ctx, func(db *model.Database) error {
		db.Accounts = append(db.Accounts, model.Account{ID: "orphan", FirmID: "gone"})
		return nil
	})
	require.NoError(t, err)
	assert.Empty(t, b.Snapshot().Accounts)
}

// seedTwoFirms builds firm A with 2 accounts and 5 entries and firm B with
// 1 account and 2 entries.
func seedTwoFirms(t *testing.T, b *Book) (model.Firm, model.Firm) {
	t.Helper()
	ctx := context.Background()

	fa, err := b.AddFirm(ctx, "A")
	require.NoError(t, err)
	fb, err := b.AddFirm(ctx, "B")
	require.NoError(t, err)

	counts := []struct {
		firm    model.Firm
		entries int
	}{{fa, 3}, {fa, 2}, {fb, 2}}
	for i, c := range counts {
		a, err := b.AddAccount(ctx, c.firm.ID, func(a *model.Account) { a.Name = fmt.Sprint("acct ", i) })
		require.NoError(t, err)
		for d := 0; d < c.entries; d++ {
			_, err := b.AddCompliance(ctx, a.ID, fmt.Sprintf("2024-01-%02d", d+1), nil)
			require.NoError(t, err)
		}
	}
	return fa, fb
}

func TestDeleteFirmCascades(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	b, s := newTestBook(t)
	fa, fb := seedTwoFirms(t, b)

	before := b.Snapshot()
	var keptAccounts []model.Account
	for _, a := range before.Accounts {
		if a.FirmID == fb.ID {
			keptAccounts = append(keptAccounts, a)
		}
	}

	accounts, entries, err := b.DeleteFirm(ctx, fa.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, accounts)
	assert.Equal(t, 5, entries)

	after := b.Snapshot()
	assert.Equal(t, []model.Firm{fb}, after.Firms)
	assert.Equal(t, keptAccounts, after.Accounts)
	assert.Len(t, after.Compliance, 2)
	for _, c := range after.Compliance {
		assert.Equal(t, keptAccounts[0].ID, c.AccountID)
	}
	assert.Len(t, before.Compliance, 7)
	assert.Equal(t, after, reopen(t, s))

	_, _, err = b.DeleteFirm(ctx, fa.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAccountLifecycle(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	b, _ := newTestBook(t)
	fa, fb := seedTwoFirms(t, b)

	_, err := b.AddAccount(ctx, "nope", nil)
	assert.ErrorIs(t, err, ErrNotFound)

	a, err := b.AddAccount(ctx, fa.ID, func(a *model.Account) {
		a.ID = "hijack"
		a.Name = "PA 1"
		a.AccountType = model.SimFunded
		a.Platform = "Rithmic"
	})
	require.NoError(t, err)
	assert.NotEqual(t, "hijack", a.ID)
	assert.Equal(t, model.Today(), a.StartDate)

	a, err = b.UpdateAccount(ctx, a.ID, func(a *model.Account) { a.FirmID = fb.ID })
	require.NoError(t, err)
	assert.Equal(t, fb.ID, a.FirmID)

	_, err = b.UpdateAccount(ctx, a.ID, func(a *model.Account) { a.FirmID = "missing" })
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Len(t, b.Accounts(AccountFilter{FirmID: fb.ID}), 2)
	assert.Len(t, b.Accounts(AccountFilter{Type: model.SimFunded}), 1)
	got := b.Accounts(AccountFilter{Query: "rithmic"})
	require.Len(t, got, 1)
	assert.Equal(t, "PA 1", got[0].Name)

	all := b.Accounts(AccountFilter{})
	require.Len(t, all, 4)
	assert.Equal(t, []string{"PA 1", "acct 0", "acct 1", "acct 2"},
		[]string{all[0].Name, all[1].Name, all[2].Name, all[3].Name})

	n, err := b.DeleteAccount(ctx, all[1].ID)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	_, err = b.DeleteAccount(ctx, all[1].ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestComplianceLifecycle(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	b, _ := newTestBook(t)
	f, err := b.AddFirm(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "New Firm", f.Name)
	a, err := b.AddAccount(ctx, f.ID, nil)
	require.NoError(t, err)

	_, err = b.AddCompliance(ctx, "ghost", "2024-01-01", nil)
	assert.ErrorIs(t, err, ErrNotFound)

	c, err := b.AddCompliance(ctx, a.ID, "2024-01-01", func(c *model.ComplianceEntry) {
		c.StartingBalance = "1000"
		c.EndingBalance = "900"
		c.WithdrewFunds = true
		c.WithdrawalAmount = "200"
		c.ComplianceGrade = "Z"
	})
	require.NoError(t, err)
	assert.Equal(t, "100.00", c.DailyPnL)
	assert.Equal(t, model.GradeC, c.ComplianceGrade)
	assert.True(t, c.FollowedStopRule11)

	c, err = b.UpdateCompliance(ctx, c.ID, func(c *model.ComplianceEntry) {
		c.WithdrewFunds = false
		c.AccountID = "elsewhere"
	})
	require.NoError(t, err)
	assert.Equal(t, "-100.00", c.DailyPnL)
	assert.Empty(t, c.WithdrawalAmount)
	assert.Equal(t, a.ID, c.AccountID)

	second, err := b.AddCompliance(ctx, a.ID, "2024-01-01", nil)
	require.NoError(t, err)
	third, err := b.AddCompliance(ctx, a.ID, "2024-01-02", nil)
	require.NoError(t, err)

	// Newest first; the later of two same-day entries comes first.
	listed := b.Compliance(a.ID)
	require.Len(t, listed, 3)
	assert.Equal(t, []string{third.ID, second.ID, c.ID}, []string{listed[0].ID, listed[1].ID, listed[2].ID})

	// New entries are appended in insertion order.
	stored := b.Snapshot().Compliance
	assert.Equal(t, []string{c.ID, second.ID, third.ID}, []string{stored[0].ID, stored[1].ID, stored[2].ID})

	require.NoError(t, b.DeleteCompliance(ctx, second.ID))
	assert.ErrorIs(t, b.DeleteCompliance(ctx, second.ID), ErrNotFound)

	n, err := b.DeleteAllCompliance(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Empty(t, b.Compliance(a.ID))
	assert.Len(t, b.Snapshot().Accounts, 1)
}

func TestJournalLifecycle(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	b, _ := newTestBook(t)

	j1, err := b.AddJournal(ctx, "2024-01-02", func(j *model.JournalEntry) { j.Focus = "ES opening range" })
	require.NoError(t, err)
	assert.Equal(t, model.DefaultHardStopTime, j1.HardStopTime)

	_, err = b.AddJournal(ctx, "2024-01-05", func(j *model.JournalEntry) { j.TradingRules.AllowedSetups = "VWAP reclaim" })
	require.NoError(t, err)
	j3, err := b.AddJournal(ctx, "2024-01-03", nil)
	require.NoError(t, err)

	listed := b.Journals(JournalFilter{})
	require.Len(t, listed, 3)
	assert.Equal(t, "2024-01-05", listed[0].Date)
	assert.Equal(t, "2024-01-02", listed[2].Date)

	assert.Len(t, b.Journals(JournalFilter{From: "2024-01-03"}), 2)
	assert.Len(t, b.Journals(JournalFilter{To: "2024-01-03"}), 2)
	assert.Len(t, b.Journals(JournalFilter{Query: "vwap"}), 1)

	j1, err = b.UpdateJournal(ctx, j1.ID, func(j *model.JournalEntry) { j.HardStopTime = "10:30 AM" })
	require.NoError(t, err)
	assert.Equal(t, "10:30 AM", j1.HardStopTime)

	require.NoError(t, b.DeleteJournal(ctx, j3.ID))
	assert.ErrorIs(t, b.DeleteJournal(ctx, j3.ID), ErrNotFound)
	_, err = b.UpdateJournal(ctx, j3.ID, func(*model.JournalEntry) {})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBackupRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	b, _ := newTestBook(t)
	seedTwoFirms(t, b)
	want := b.Snapshot()

	text, err := b.Export(ctx)
	require.NoError(t, err)

	require.NoError(t, b.Reset(ctx))
	assert.Equal(t, model.Empty(), b.Snapshot())

	require.NoError(t, b.Import(ctx, text))
	assert.Equal(t, want, b.Snapshot())
}

func TestImportRejectsNonObjects(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	b, s := newTestBook(t)
	seedTwoFirms(t, b)
	want := b.Snapshot()

	for _, text := range []string{"", "  ", "[]", "null", "42", `{"firms":`, "hello"} {
		assert.ErrorIs(t, b.Import(ctx, text), ErrInvalidImport, text)
	}
	assert.Equal(t, want, b.Snapshot())
	assert.Equal(t, want, reopen(t, s))
}

func TestImportNormalizes(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	b, s := newTestBook(t)

	text := `{"firms":[{"id":"f1","name":"Topstep"}],
		"accounts":[{"id":"a1","firmId":"f1","accountType":"Bogus"},{"id":"a2","firmId":"zz"}],
		"compliance":[{"id":"c1","accountId":"a1","date":"2024-01-01"},{"id":"c2","accountId":"a2"}]}`
	require.NoError(t, b.Import(ctx, text))

	db := b.Snapshot()
	require.Len(t, db.Accounts, 1)
	assert.Equal(t, model.AccountType("Bogus"), db.Accounts[0].AccountType)
	require.Len(t, db.Compliance, 1)
	assert.True(t, db.Compliance[0].FollowedStopRule11)
	assert.NotNil(t, db.Journals)

	// The normalized form replaced the imported text.
	assert.Equal(t, db, reopen(t, s))
	raw, err := s.Load(ctx)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), `"zz"`)
	assert.Contains(t, string(raw), `"accountType":"Bogus"`)
}

func TestCorruptStoreIsNotOverwritten(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	_, s := newTestBook(t)
	require.NoError(t, s.Import(ctx, "{not json"))

	b, err := Open(ctx, s, nil)
	require.NoError(t, err)
	assert.Equal(t, model.Empty(), b.Snapshot())

	raw, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "{not json", string(raw))
}

type failingStore struct {
	err error
}

func (f *failingStore) Load(context.Context) ([]byte, error)       { return nil, nil }
func (f *failingStore) Save(context.Context, model.Database) error { return f.err }
func (f *failingStore) Export(context.Context) (string, error)     { return "", f.err }
func (f *failingStore) Import(context.Context, string) error       { return f.err }
func (f *failingStore) Reset(context.Context) error                { return f.err }

func TestSaveFailureKeepsSnapshot(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	disk := errors.New("disk full")
	b, err := Open(ctx, &failingStore{err: disk}, nil)
	require.NoError(t, err)

	_, err = b.AddFirm(ctx, "Apex")
	assert.ErrorIs(t, err, disk)
	assert.Empty(t, b.Snapshot().Firms)
}
