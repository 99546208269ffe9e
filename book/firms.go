package book

import (
	"context"
	"sort"
	"strings"

	"github.com/danmarmu/trading-journal-app/model"
	"github.com/danmarmu/trading-journal-app/report"
)

// AddFirm creates a firm. A blank name becomes "New Firm".
func (b *Book) AddFirm(ctx context.Context, name string) (model.Firm, error) {
	f := model.NewFirm(strings.TrimSpace(name))
	err := b.Commit(ctx, func(db *model.Database) error {
		db.Firms = append(db.Firms, f)
		return nil
	})
	if err != nil {
		return model.Firm{}, err
	}
	return f, nil
}

func (b *Book) RenameFirm(ctx context.Context, id, name string) error {
	return b.Commit(ctx, func(db *model.Database) error {
		for i := range db.Firms {
			if db.Firms[i].ID == id {
				db.Firms[i].Name = name
				return nil
			}
		}
		return notFound("firm", id)
	})
}

// DeleteFirm removes a firm with its accounts and their compliance
// entries, and reports how many accounts and entries went with it.
func (b *Book) DeleteFirm(ctx context.Context, id string) (accounts, entries int, err error) {
	err = b.Commit(ctx, func(db *model.Database) error {
		if _, ok := db.Firm(id); !ok {
			return notFound("firm", id)
		}

		gone := map[string]bool{}
		kept := db.Accounts[:0]
		for _, a := range db.Accounts {
			if a.FirmID == id {
				gone[a.ID] = true
				continue
			}
			kept = append(kept, a)
		}
		db.Accounts = kept
		accounts = len(gone)

		entries = removeCompliance(db, func(c model.ComplianceEntry) bool { return gone[c.AccountID] })

		firms := db.Firms[:0]
		for _, f := range db.Firms {
			if f.ID != id {
				firms = append(firms, f)
			}
		}
		db.Firms = firms
		return nil
	})
	if err != nil {
		return 0, 0, err
	}
	return accounts, entries, nil
}

// Firms lists the firms whose name contains query, ignoring case, sorted
// by name.
func (b *Book) Firms(query string) []model.Firm {
	db := b.Snapshot()
	query = strings.TrimSpace(query)

	var out []model.Firm
	for _, f := range db.Firms {
		if query == "" || report.ContainsFold(f.Name, query) {
			out = append(out, f)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// removeCompliance deletes the entries matching drop in place and returns
// how many were removed.
func removeCompliance(db *model.Database, drop func(model.ComplianceEntry) bool) int {
	kept := db.Compliance[:0]
	for _, c := range db.Compliance {
		if !drop(c) {
			kept = append(kept, c)
		}
	}
	n := len(db.Compliance) - len(kept)
	db.Compliance = kept
	return n
}
