// Package ledger answers time-indexed questions about one account's
// compliance entries: what was recorded on or before a date, the latest
// balance as of a date, and the running withdrawal total.
//
// Dates are ISO "YYYY-MM-DD" strings and compare lexically. Entries sharing
// a date keep their stored order, so the later one in the Database is the
// "latest" for that day.
package ledger

import (
	"sort"

	"github.com/danmarmu/trading-journal-app/model"
	"github.com/danmarmu/trading-journal-app/numeric"
)

// Cutoff bounds a query by entry date. The zero value is All, which
// admits every entry including ones with a blank date.
type Cutoff struct {
	date    string
	bounded bool
}

// All selects every entry regardless of date.
var All = Cutoff{}

// UpTo selects the entries dated on or before date. A blank date is a real
// bound: only blank-dated entries fall on or before it.
func UpTo(date string) Cutoff {
	return Cutoff{date: date, bounded: true}
}

func (c Cutoff) admits(date string) bool {
	return !c.bounded || date <= c.date
}

// Sorted returns a copy of entries ordered by date ascending, ties in
// their original relative order.
func Sorted(entries []model.ComplianceEntry) []model.ComplianceEntry {
	out := append([]model.ComplianceEntry(nil), entries...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// OnOrBefore returns the entries admitted by cutoff, sorted.
func OnOrBefore(entries []model.ComplianceEntry, cutoff Cutoff) []model.ComplianceEntry {
	sorted := Sorted(entries)
	return sorted[:count(sorted, cutoff)]
}

// Latest returns the last entry of OnOrBefore(entries, cutoff).
func Latest(entries []model.ComplianceEntry, cutoff Cutoff) (model.ComplianceEntry, bool) {
	var (
		best  model.ComplianceEntry
		found bool
	)
	for _, e := range entries {
		if !cutoff.admits(e.Date) {
			continue
		}
		if !found || e.Date >= best.Date {
			best, found = e, true
		}
	}
	return best, found
}

// WithdrawalsUpTo sums withdrawal amounts on entries dated on or before
// date, adding in date order.
func WithdrawalsUpTo(entries []model.ComplianceEntry, date string) float64 {
	var sum float64
	for _, e := range OnOrBefore(entries, UpTo(date)) {
		sum += e.Withdrawal()
	}
	return sum
}

// EndingBalanceOnOrBefore is the parsed ending balance of the latest entry
// on or before date, or 0 when there is none.
func EndingBalanceOnOrBefore(entries []model.ComplianceEntry, date string) float64 {
	if e, ok := Latest(entries, UpTo(date)); ok {
		return numeric.Parse(e.EndingBalance)
	}
	return 0
}

// count returns the number of leading sorted entries admitted by cutoff.
func count(sorted []model.ComplianceEntry, cutoff Cutoff) int {
	if !cutoff.bounded {
		return len(sorted)
	}
	return sort.Search(len(sorted), func(i int) bool { return sorted[i].Date > cutoff.date })
}
