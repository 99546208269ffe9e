package report

import (
	"sort"
	"strings"

	"github.com/danmarmu/trading-journal-app/ledger"
	"github.com/danmarmu/trading-journal-app/model"
)

// Filter selects the accounts shown on the account report.
type Filter struct {
	AccountID string        // "" for all accounts
	Query     string        // case-insensitive match on firm, account, type and platform
	AsOf      ledger.Cutoff // zero value for the current state
}

// Row is one account's report line.
type Row struct {
	Snapshot

	FirmName    string
	AccountName string
	AccountType model.AccountType
	Platform    string

	// MissingLimits is set when the initial balance or either limit is
	// zero, which makes the remaining cushions meaningless.
	MissingLimits bool
}

// ContainsFold reports whether needle occurs in haystack ignoring case.
func ContainsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// Rows returns a report line per matching account, sorted by account name.
func Rows(db model.Database, f Filter) []Row {
	query := strings.TrimSpace(f.Query)
	ix := ledger.NewIndex(db)

	var rows []Row
	for _, a := range db.Accounts {
		if f.AccountID != "" && a.ID != f.AccountID {
			continue
		}
		firmName := db.FirmName(a.FirmID)
		if query != "" {
			blob := strings.Join([]string{firmName, a.Name, string(a.AccountType), a.Platform}, " | ")
			if !ContainsFold(blob, query) {
				continue
			}
		}

		s := SnapshotFromIndex(ix, a, f.AsOf)
		platform := a.Platform
		if platform == "" {
			platform = "—"
		}
		rows = append(rows, Row{
			Snapshot:      s,
			FirmName:      firmName,
			AccountName:   a.Name,
			AccountType:   a.AccountType,
			Platform:      platform,
			MissingLimits: s.InitialBalance == 0 || s.OverallMaxLossLimit == 0 || s.TrailingDrawdownLimit == 0,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].AccountName < rows[j].AccountName })
	return rows
}
