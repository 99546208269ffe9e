// Package normalize restores the Database invariants after every load and
// every commit: accounts must belong to a surviving firm, compliance entries
// to a surviving account, and missing fields take their defaults.
//
// Normalization never fails. Dangling and malformed records are dropped and
// counted in Stats.
package normalize

import (
	"github.com/danmarmu/trading-journal-app/model"
	"github.com/danmarmu/trading-journal-app/pkg/id"
)

// Stats describes what normalization removed or could not read.
type Stats struct {
	DroppedAccounts   int
	DroppedCompliance int

	// Malformed counts records that were not JSON objects.
	Malformed int
	// Corrupt is set when the persisted value was not a JSON object at all.
	Corrupt bool

	// IDKinds counts the surviving record ids by generator.
	IDKinds map[id.Kind]int
}

// Dropped is the total number of records removed.
func (s Stats) Dropped() int {
	return s.DroppedAccounts + s.DroppedCompliance + s.Malformed
}

// Database filters dangling references out of db and applies the defaults
// that can be detected on typed records. Only blank fields are defaulted;
// an account type or grade outside the known set is kept as stored. The result never shares slice
// storage with db, and Database(Database(x)) equals Database(x).
func Database(db model.Database) (model.Database, Stats) {
	st := Stats{IDKinds: map[id.Kind]int{}}
	out := model.Empty()

	firmIDs := make(map[string]struct{}, len(db.Firms))
	for _, f := range db.Firms {
		firmIDs[f.ID] = struct{}{}
		out.Firms = append(out.Firms, f)
		st.IDKinds[id.KindOf(f.ID)]++
	}

	accountIDs := make(map[string]struct{}, len(db.Accounts))
	for _, a := range db.Accounts {
		if _, ok := firmIDs[a.FirmID]; !ok {
			st.DroppedAccounts++
			continue
		}
		if a.AccountType == "" {
			a.AccountType = model.Evaluation
		}
		accountIDs[a.ID] = struct{}{}
		out.Accounts = append(out.Accounts, a)
		st.IDKinds[id.KindOf(a.ID)]++
	}

	for _, c := range db.Compliance {
		if _, ok := accountIDs[c.AccountID]; !ok {
			st.DroppedCompliance++
			continue
		}
		if c.ComplianceGrade == "" {
			c.ComplianceGrade = model.DefaultGrade
		}
		out.Compliance = append(out.Compliance, c)
		st.IDKinds[id.KindOf(c.ID)]++
	}

	for _, j := range db.Journals {
		out.Journals = append(out.Journals, j)
		st.IDKinds[id.KindOf(j.ID)]++
	}

	return out, st
}
