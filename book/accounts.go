package book

import (
	"context"
	"sort"
	"strings"

	"github.com/danmarmu/trading-journal-app/model"
	"github.com/danmarmu/trading-journal-app/report"
)

// AddAccount creates an account under firmID with the defaults of
// model.NewAccount, then applies edit when it is not nil.
func (b *Book) AddAccount(ctx context.Context, firmID string, edit func(*model.Account)) (model.Account, error) {
	var a model.Account
	err := b.Commit(ctx, func(db *model.Database) error {
		if _, ok := db.Firm(firmID); !ok {
			return notFound("firm", firmID)
		}
		a = model.NewAccount(firmID)
		if edit != nil {
			id := a.ID
			edit(&a)
			a.ID = id
		}
		if _, ok := db.Firm(a.FirmID); !ok {
			return notFound("firm", a.FirmID)
		}
		db.Accounts = append(db.Accounts, a)
		return nil
	})
	if err != nil {
		return model.Account{}, err
	}
	return a, nil
}

// UpdateAccount applies edit to the account. The id cannot change; moving
// the account to another firm requires that firm to exist.
func (b *Book) UpdateAccount(ctx context.Context, id string, edit func(*model.Account)) (model.Account, error) {
	var a model.Account
	err := b.Commit(ctx, func(db *model.Database) error {
		for i := range db.Accounts {
			if db.Accounts[i].ID != id {
				continue
			}
			edit(&db.Accounts[i])
			db.Accounts[i].ID = id
			if _, ok := db.Firm(db.Accounts[i].FirmID); !ok {
				return notFound("firm", db.Accounts[i].FirmID)
			}
			a = db.Accounts[i]
			return nil
		}
		return notFound("account", id)
	})
	if err != nil {
		return model.Account{}, err
	}
	return a, nil
}

// DeleteAccount removes the account and its compliance entries, reporting
// how many entries were removed.
func (b *Book) DeleteAccount(ctx context.Context, id string) (entries int, err error) {
	err = b.Commit(ctx, func(db *model.Database) error {
		kept := db.Accounts[:0]
		for _, a := range db.Accounts {
			if a.ID != id {
				kept = append(kept, a)
			}
		}
		if len(kept) == len(db.Accounts) {
			return notFound("account", id)
		}
		db.Accounts = kept
		entries = removeCompliance(db, func(c model.ComplianceEntry) bool { return c.AccountID == id })
		return nil
	})
	if err != nil {
		return 0, err
	}
	return entries, nil
}

// AccountFilter narrows Accounts. Zero fields match everything.
type AccountFilter struct {
	FirmID string
	Type   model.AccountType
	Query  string // case-insensitive match on firm, account, type and platform
}

// Accounts lists the matching accounts sorted by name.
func (b *Book) Accounts(f AccountFilter) []model.Account {
	db := b.Snapshot()
	query := strings.TrimSpace(f.Query)

	var out []model.Account
	for _, a := range db.Accounts {
		if f.FirmID != "" && a.FirmID != f.FirmID {
			continue
		}
		if f.Type != "" && a.AccountType != f.Type {
			continue
		}
		if query != "" {
			blob := strings.Join([]string{db.FirmName(a.FirmID), a.Name, string(a.AccountType), a.Platform}, " | ")
			if !report.ContainsFold(blob, query) {
				continue
			}
		}
		out = append(out, a)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
