// Package aggregate rolls account snapshots up into firm and global totals
// and builds the date-aligned series behind the totals chart.
package aggregate

import (
	"sort"

	"github.com/danmarmu/trading-journal-app/ledger"
	"github.com/danmarmu/trading-journal-app/model"
	"github.com/danmarmu/trading-journal-app/report"
)

// AllFirms selects every firm as the scope.
const AllFirms = ""

// FirmTotals sums the current (no cutoff) snapshots of a group of accounts.
type FirmTotals struct {
	FirmID   string
	FirmName string

	Accounts              int
	CurrentBalance        float64
	TotalWithdrawals      float64
	InitialBalance        float64
	ProfitInclWithdrawals float64
}

func (t *FirmTotals) add(s report.Snapshot) {
	t.Accounts++
	t.CurrentBalance += s.CurrentBalance
	t.TotalWithdrawals += s.TotalWithdrawals
	t.InitialBalance += s.InitialBalance
	t.ProfitInclWithdrawals += s.ProfitInclWithdrawals
}

func (t *FirmTotals) merge(o FirmTotals) {
	t.Accounts += o.Accounts
	t.CurrentBalance += o.CurrentBalance
	t.TotalWithdrawals += o.TotalWithdrawals
	t.InitialBalance += o.InitialBalance
	t.ProfitInclWithdrawals += o.ProfitInclWithdrawals
}

// Totals is the totals table: one row per firm with accounts in scope,
// ordered by firm name, and their sum.
type Totals struct {
	PerFirm []FirmTotals
	Global  FirmTotals
}

// InScope returns the accounts of firmID, or every account for AllFirms,
// in stored order.
func InScope(db model.Database, firmID string) []model.Account {
	if firmID == AllFirms {
		return db.Accounts
	}
	var out []model.Account
	for _, a := range db.Accounts {
		if a.FirmID == firmID {
			out = append(out, a)
		}
	}
	return out
}

// Aggregate computes the totals for the accounts in scope.
func Aggregate(db model.Database, firmID string) Totals {
	ix := ledger.NewIndex(db)

	byFirm := map[string]*FirmTotals{}
	var order []string
	for _, a := range InScope(db, firmID) {
		ft, ok := byFirm[a.FirmID]
		if !ok {
			ft = &FirmTotals{FirmID: a.FirmID, FirmName: db.FirmName(a.FirmID)}
			byFirm[a.FirmID] = ft
			order = append(order, a.FirmID)
		}
		ft.add(report.SnapshotFromIndex(ix, a, ledger.All))
	}

	var t Totals
	for _, id := range order {
		t.PerFirm = append(t.PerFirm, *byFirm[id])
	}
	sort.SliceStable(t.PerFirm, func(i, j int) bool { return t.PerFirm[i].FirmName < t.PerFirm[j].FirmName })

	for _, ft := range t.PerFirm {
		t.Global.merge(ft)
	}
	return t
}
