// Package report derives an account's financial position from its
// compliance ledger, optionally as of a past date.
package report

import (
	"math"

	"github.com/danmarmu/trading-journal-app/ledger"
	"github.com/danmarmu/trading-journal-app/model"
	"github.com/danmarmu/trading-journal-app/numeric"
)

// Snapshot is an account's state after the entries on or before a cutoff.
type Snapshot struct {
	AccountID string

	// AsOfDate is the date of the latest entry considered, "" when none.
	AsOfDate string
	Entries  int

	InitialBalance        float64
	CurrentBalance        float64
	HighWaterMark         float64
	TotalWithdrawals      float64
	ProfitInclWithdrawals float64

	OverallMaxLossLimit   float64
	OverallUsed           float64
	OverallRemaining      float64
	TrailingDrawdownLimit float64
	TrailingUsed          float64
	TrailingRemaining     float64
}

// InitialBalance is the account's configured initial balance, or the
// starting balance of its earliest entry when the field is blank. sorted
// must be in date order.
func InitialBalance(a model.Account, sorted []model.ComplianceEntry) float64 {
	if !numeric.Blank(a.InitialBalance) {
		return numeric.Parse(a.InitialBalance)
	}
	if len(sorted) > 0 {
		return numeric.Parse(sorted[0].StartingBalance)
	}
	return 0
}

// AccountSnapshot computes a's snapshot from its entries (any order) dated
// on or before cutoff. Pass ledger.All for the current state.
func AccountSnapshot(a model.Account, entries []model.ComplianceEntry, cutoff ledger.Cutoff) Snapshot {
	return fromSorted(a, ledger.OnOrBefore(entries, cutoff))
}

// SnapshotFor looks the account up in db. It reports false when the
// account does not exist.
func SnapshotFor(db model.Database, accountID string, cutoff ledger.Cutoff) (Snapshot, bool) {
	a, ok := db.Account(accountID)
	if !ok {
		return Snapshot{}, false
	}
	return AccountSnapshot(a, db.EntriesFor(accountID), cutoff), true
}

// SnapshotFromIndex is AccountSnapshot over a prebuilt index.
func SnapshotFromIndex(ix *ledger.Index, a model.Account, cutoff ledger.Cutoff) Snapshot {
	return fromSorted(a, ix.EntriesOnOrBefore(a.ID, cutoff))
}

func fromSorted(a model.Account, sorted []model.ComplianceEntry) Snapshot {
	s := Snapshot{
		AccountID:             a.ID,
		Entries:               len(sorted),
		InitialBalance:        InitialBalance(a, sorted),
		OverallMaxLossLimit:   numeric.Parse(a.OverallMaxLossLimit),
		TrailingDrawdownLimit: numeric.Parse(a.TrailingDrawdownLimit),
	}

	if n := len(sorted); n > 0 {
		latest := sorted[n-1]
		s.AsOfDate = latest.Date
		s.CurrentBalance = numeric.Parse(latest.EndingBalance)

		s.HighWaterMark = math.Inf(-1)
		for _, e := range sorted {
			s.HighWaterMark = math.Max(s.HighWaterMark, numeric.Parse(e.EndingBalance))
			s.TotalWithdrawals += e.Withdrawal()
		}
	} else {
		s.HighWaterMark = s.CurrentBalance
	}

	s.ProfitInclWithdrawals = s.CurrentBalance + s.TotalWithdrawals - s.InitialBalance

	s.OverallUsed = math.Max(0, s.InitialBalance-s.CurrentBalance)
	if s.OverallMaxLossLimit > 0 {
		s.OverallRemaining = math.Max(0, s.OverallMaxLossLimit-s.OverallUsed)
	}

	s.TrailingUsed = math.Max(0, s.HighWaterMark-s.CurrentBalance)
	if s.TrailingDrawdownLimit > 0 {
		s.TrailingRemaining = math.Max(0, s.TrailingDrawdownLimit-s.TrailingUsed)
	}

	return s
}
