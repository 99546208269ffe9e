package book

import (
	"context"
	"sort"
	"strings"

	"github.com/danmarmu/trading-journal-app/model"
	"github.com/danmarmu/trading-journal-app/report"
)

// AddJournal creates a journal entry dated date, applying edit when it is
// not nil.
func (b *Book) AddJournal(ctx context.Context, date string, edit func(*model.JournalEntry)) (model.JournalEntry, error) {
	j := model.NewJournalEntry(date)
	if edit != nil {
		id := j.ID
		edit(&j)
		j.ID = id
	}
	err := b.Commit(ctx, func(db *model.Database) error {
		db.Journals = append(db.Journals, j)
		return nil
	})
	if err != nil {
		return model.JournalEntry{}, err
	}
	return j, nil
}

func (b *Book) UpdateJournal(ctx context.Context, id string, edit func(*model.JournalEntry)) (model.JournalEntry, error) {
	var j model.JournalEntry
	err := b.Commit(ctx, func(db *model.Database) error {
		for i := range db.Journals {
			if db.Journals[i].ID != id {
				continue
			}
			edit(&db.Journals[i])
			db.Journals[i].ID = id
			j = db.Journals[i]
			return nil
		}
		return notFound("journal", id)
	})
	if err != nil {
		return model.JournalEntry{}, err
	}
	return j, nil
}

func (b *Book) DeleteJournal(ctx context.Context, id string) error {
	return b.Commit(ctx, func(db *model.Database) error {
		kept := db.Journals[:0]
		for _, j := range db.Journals {
			if j.ID != id {
				kept = append(kept, j)
			}
		}
		if len(kept) == len(db.Journals) {
			return notFound("journal", id)
		}
		db.Journals = kept
		return nil
	})
}

// JournalFilter narrows Journals. From and To are inclusive dates; zero
// fields match everything.
type JournalFilter struct {
	From  string
	To    string
	Query string // case-insensitive match on focus, key levels, news and rules
}

// Journals lists the matching journal entries newest first.
func (b *Book) Journals(f JournalFilter) []model.JournalEntry {
	query := strings.TrimSpace(f.Query)

	var out []model.JournalEntry
	for _, j := range b.Snapshot().Journals {
		if f.From != "" && j.Date < f.From {
			continue
		}
		if f.To != "" && j.Date > f.To {
			continue
		}
		if query != "" {
			r := j.TradingRules
			blob := strings.Join([]string{j.Focus, j.KeyLevels, j.NewsEvents, r.AllowedSetups, r.DailyMaxLoss, r.MaxTrades, r.MaxRiskPerTrade}, " | ")
			if !report.ContainsFold(blob, query) {
				continue
			}
		}
		out = append(out, j)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out
}
