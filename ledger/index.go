package ledger

import (
	"sort"

	"github.com/danmarmu/trading-journal-app/model"
	"github.com/danmarmu/trading-journal-app/numeric"
)

type accountLedger struct {
	entries []model.ComplianceEntry // sorted by date, stable
	ending  []float64               // parsed EndingBalance per entry
	drawn   []float64               // drawn[i] = withdrawals of entries[0..i]
}

// Index sorts and parses every account's entries once so that repeated
// point-in-time lookups cost a binary search. It answers exactly what the
// package-level scan functions answer.
type Index struct {
	accounts map[string]*accountLedger
}

// NewIndex indexes the compliance entries of db by account.
func NewIndex(db model.Database) *Index {
	grouped := map[string][]model.ComplianceEntry{}
	for _, c := range db.Compliance {
		grouped[c.AccountID] = append(grouped[c.AccountID], c)
	}

	ix := &Index{accounts: make(map[string]*accountLedger, len(grouped))}
	for accountID, entries := range grouped {
		sorted := Sorted(entries)
		al := &accountLedger{
			entries: sorted,
			ending:  make([]float64, len(sorted)),
			drawn:   make([]float64, len(sorted)),
		}
		var sum float64
		for i, e := range sorted {
			al.ending[i] = numeric.Parse(e.EndingBalance)
			sum += e.Withdrawal()
			al.drawn[i] = sum
		}
		ix.accounts[accountID] = al
	}
	return ix
}

func (ix *Index) ledger(accountID string) *accountLedger {
	if al, ok := ix.accounts[accountID]; ok {
		return al
	}
	return &accountLedger{}
}

func (al *accountLedger) count(cutoff Cutoff) int {
	return count(al.entries, cutoff)
}

// EntriesOnOrBefore returns the account's entries admitted by cutoff,
// sorted by date. The slice must not be modified.
func (ix *Index) EntriesOnOrBefore(accountID string, cutoff Cutoff) []model.ComplianceEntry {
	al := ix.ledger(accountID)
	return al.entries[:al.count(cutoff)]
}

// LatestOnOrBefore returns the last entry admitted by cutoff.
func (ix *Index) LatestOnOrBefore(accountID string, cutoff Cutoff) (model.ComplianceEntry, bool) {
	al := ix.ledger(accountID)
	n := al.count(cutoff)
	if n == 0 {
		return model.ComplianceEntry{}, false
	}
	return al.entries[n-1], true
}

// WithdrawalsUpTo is the running withdrawal total through date.
func (ix *Index) WithdrawalsUpTo(accountID, date string) float64 {
	al := ix.ledger(accountID)
	n := al.count(UpTo(date))
	if n == 0 {
		return 0
	}
	return al.drawn[n-1]
}

// EndingBalanceOnOrBefore is the latest ending balance through date, or 0.
func (ix *Index) EndingBalanceOnOrBefore(accountID, date string) float64 {
	al := ix.ledger(accountID)
	n := al.count(UpTo(date))
	if n == 0 {
		return 0
	}
	return al.ending[n-1]
}

// Dates returns the distinct entry dates of the given accounts, ascending.
func (ix *Index) Dates(accountIDs []string) []string {
	seen := map[string]struct{}{}
	for _, accountID := range accountIDs {
		for _, e := range ix.ledger(accountID).entries {
			seen[e.Date] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for d := range seen {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}
