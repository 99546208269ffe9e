package book

import (
	"context"
	"sort"

	"github.com/danmarmu/trading-journal-app/model"
)

// AddCompliance appends a new entry for accountID dated date, applying edit
// when it is not nil. Derived fields are recalculated after the edit.
func (b *Book) AddCompliance(ctx context.Context, accountID, date string, edit func(*model.ComplianceEntry)) (model.ComplianceEntry, error) {
	var c model.ComplianceEntry
	err := b.Commit(ctx, func(db *model.Database) error {
		if _, ok := db.Account(accountID); !ok {
			return notFound("account", accountID)
		}
		c = model.NewComplianceEntry(accountID, date)
		if edit != nil {
			id := c.ID
			edit(&c)
			c.ID, c.AccountID = id, accountID
		}
		c.Recalculate()
		db.Compliance = append(db.Compliance, c)
		return nil
	})
	if err != nil {
		return model.ComplianceEntry{}, err
	}
	return c, nil
}

// UpdateCompliance applies edit to the entry and recalculates it. The id
// and account cannot change.
func (b *Book) UpdateCompliance(ctx context.Context, id string, edit func(*model.ComplianceEntry)) (model.ComplianceEntry, error) {
	var c model.ComplianceEntry
	err := b.Commit(ctx, func(db *model.Database) error {
		for i := range db.Compliance {
			e := &db.Compliance[i]
			if e.ID != id {
				continue
			}
			accountID := e.AccountID
			edit(e)
			e.ID, e.AccountID = id, accountID
			e.Recalculate()
			c = *e
			return nil
		}
		return notFound("compliance entry", id)
	})
	if err != nil {
		return model.ComplianceEntry{}, err
	}
	return c, nil
}

func (b *Book) DeleteCompliance(ctx context.Context, id string) error {
	return b.Commit(ctx, func(db *model.Database) error {
		if removeCompliance(db, func(c model.ComplianceEntry) bool { return c.ID == id }) == 0 {
			return notFound("compliance entry", id)
		}
		return nil
	})
}

// DeleteAllCompliance clears the ledger of one account and returns the
// number of entries removed.
func (b *Book) DeleteAllCompliance(ctx context.Context, accountID string) (int, error) {
	var n int
	err := b.Commit(ctx, func(db *model.Database) error {
		if _, ok := db.Account(accountID); !ok {
			return notFound("account", accountID)
		}
		n = removeCompliance(db, func(c model.ComplianceEntry) bool { return c.AccountID == accountID })
		return nil
	})
	return n, err
}

// Compliance lists an account's entries newest first. Entries sharing a
// date are listed most recently added first.
func (b *Book) Compliance(accountID string) []model.ComplianceEntry {
	entries := b.Snapshot().EntriesFor(accountID)
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Date > entries[j].Date })
	return entries
}
