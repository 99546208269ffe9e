// Package alert flags accounts whose remaining drawdown cushion has fallen
// below a fraction of their limit.
package alert

import (
	"math"
	"sort"

	"github.com/danmarmu/trading-journal-app/ledger"
	"github.com/danmarmu/trading-journal-app/model"
	"github.com/danmarmu/trading-journal-app/numeric"
	"github.com/danmarmu/trading-journal-app/report"
)

// Threshold is the remaining/limit ratio below which an account warns.
const Threshold = 0.20

// Source tells where Remaining came from.
type Source string

const (
	SourceManual  Source = "manual"
	SourceDerived Source = "derived"
)

// Warning describes one account below Threshold.
type Warning struct {
	AccountID   string
	AccountName string
	FirmID      string
	FirmName    string
	Date        string

	Limit     float64
	Remaining float64
	Ratio     float64
	Source    Source
}

// Limit is the drawdown limit the alert measures against: the trailing
// limit when positive, otherwise the overall max-loss limit.
func Limit(a model.Account) float64 {
	if t := numeric.Parse(a.TrailingDrawdownLimit); t > 0 {
		return t
	}
	return numeric.Parse(a.OverallMaxLossLimit)
}

// check evaluates one account. ok is false when the account has no entries
// or no positive limit.
func check(a model.Account, entries []model.ComplianceEntry) (w Warning, ok bool) {
	sorted := ledger.Sorted(entries)
	latest, found := ledger.Latest(sorted, ledger.All)
	if !found {
		return Warning{}, false
	}
	limit := Limit(a)
	if limit <= 0 {
		return Warning{}, false
	}

	w = Warning{AccountID: a.ID, AccountName: a.Name, FirmID: a.FirmID, Date: latest.Date, Limit: limit}
	if manual := numeric.Parse(latest.ManualDrawdownRemaining); manual > 0 {
		w.Remaining, w.Source = manual, SourceManual
	} else {
		used := math.Max(0, report.InitialBalance(a, sorted)-numeric.Parse(latest.EndingBalance))
		w.Remaining, w.Source = math.Max(0, limit-used), SourceDerived
	}
	w.Ratio = w.Remaining / limit
	return w, true
}

// HasLowDrawdownWarning reports whether any account in db is below
// Threshold. It stops at the first match.
func HasLowDrawdownWarning(db model.Database) bool {
	byAccount := group(db)
	for _, a := range db.Accounts {
		if w, ok := check(a, byAccount[a.ID]); ok && w.Ratio < Threshold {
			return true
		}
	}
	return false
}

// Evaluate lists every account of firmID (every account for an empty
// firmID) that is below Threshold, lowest ratio first.
func Evaluate(db model.Database, firmID string) []Warning {
	byAccount := group(db)
	var out []Warning
	for _, a := range db.Accounts {
		if firmID != "" && a.FirmID != firmID {
			continue
		}
		w, ok := check(a, byAccount[a.ID])
		if !ok || w.Ratio >= Threshold {
			continue
		}
		w.FirmName = db.FirmName(a.FirmID)
		out = append(out, w)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Ratio < out[j].Ratio })
	return out
}

func group(db model.Database) map[string][]model.ComplianceEntry {
	m := make(map[string][]model.ComplianceEntry, len(db.Accounts))
	for _, c := range db.Compliance {
		m[c.AccountID] = append(m[c.AccountID], c)
	}
	return m
}
