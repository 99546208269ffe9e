package report

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/danmarmu/trading-journal-app/ledger"
	"github.com/danmarmu/trading-journal-app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scenarioAccount() model.Account {
	return model.Account{
		ID:                    "a1",
		FirmID:                "f1",
		Name:                  "50K Combine",
		AccountType:           model.Evaluation,
		InitialBalance:        "50000",
		OverallMaxLossLimit:   "2500",
		TrailingDrawdownLimit: "2500",
	}
}

func day(id, date, start, end string) model.ComplianceEntry {
	return model.ComplianceEntry{ID: id, AccountID: "a1", Date: date, StartingBalance: start, EndingBalance: end}
}

func TestSnapshotSingleLosingDay(t *testing.T) {
	t.Parallel()

	entries := []model.ComplianceEntry{day("c1", "2024-01-01", "50000", "49000")}
	s := AccountSnapshot(scenarioAccount(), entries, ledger.All)

	assert.Equal(t, 49000.0, s.CurrentBalance)
	assert.Equal(t, 1000.0, s.OverallUsed)
	assert.Equal(t, 1500.0, s.OverallRemaining)
	assert.Equal(t, "2024-01-01", s.AsOfDate)
	assert.Equal(t, -1000.0, s.ProfitInclWithdrawals)
}

func TestSnapshotTrailingFromHighWaterMark(t *testing.T) {
	t.Parallel()

	entries := []model.ComplianceEntry{
		day("c3", "2024-01-03", "51000", "50500"),
		day("c1", "2024-01-01", "50000", "49000"),
		day("c2", "2024-01-02", "49000", "51000"),
	}
	s := AccountSnapshot(scenarioAccount(), entries, ledger.All)

	assert.Equal(t, 51000.0, s.HighWaterMark)
	assert.Equal(t, 50500.0, s.CurrentBalance)
	assert.Equal(t, 500.0, s.TrailingUsed)
	assert.Equal(t, 2000.0, s.TrailingRemaining)
	assert.Equal(t, 0.0, s.OverallUsed)
	assert.Equal(t, 2500.0, s.OverallRemaining)

	asOf := AccountSnapshot(scenarioAccount(), entries, ledger.UpTo("2024-01-02"))
	assert.Equal(t, 51000.0, asOf.CurrentBalance)
	assert.Equal(t, 0.0, asOf.TrailingUsed)
	assert.Equal(t, "2024-01-02", asOf.AsOfDate)
	assert.Equal(t, 2, asOf.Entries)
}

func TestSnapshotEmptyLedger(t *testing.T) {
	t.Parallel()

	a := scenarioAccount()
	a.InitialBalance = ""
	s := AccountSnapshot(a, nil, ledger.All)

	assert.Equal(t, Snapshot{
		AccountID:             "a1",
		OverallMaxLossLimit:   2500,
		OverallRemaining:      2500,
		TrailingDrawdownLimit: 2500,
		TrailingRemaining:     2500,
	}, s)
}

func TestSnapshotInitialBalanceFallsBackToFirstEntry(t *testing.T) {
	t.Parallel()

	a := scenarioAccount()
	a.InitialBalance = "  "
	entries := []model.ComplianceEntry{
		day("c2", "2024-01-02", "25500", "26000"),
		day("c1", "2024-01-01", "25000", "25500"),
	}
	s := AccountSnapshot(a, entries, ledger.All)

	assert.Equal(t, 25000.0, s.InitialBalance)
	assert.Equal(t, 1000.0, s.ProfitInclWithdrawals)
}

func TestSnapshotWithdrawalsCountTowardProfit(t *testing.T) {
	t.Parallel()

	e := day("c1", "2024-01-01", "50000", "49500")
	e.WithdrewFunds = true
	e.WithdrawalAmount = "1,000"
	s := AccountSnapshot(scenarioAccount(), []model.ComplianceEntry{e}, ledger.All)

	assert.Equal(t, 1000.0, s.TotalWithdrawals)
	assert.Equal(t, 500.0, s.ProfitInclWithdrawals)
}

func TestSnapshotZeroLimitsLeaveNoCushion(t *testing.T) {
	t.Parallel()

	a := scenarioAccount()
	a.OverallMaxLossLimit = ""
	a.TrailingDrawdownLimit = "n/a"
	s := AccountSnapshot(a, []model.ComplianceEntry{day("c1", "2024-01-01", "50000", "49000")}, ledger.All)

	assert.Zero(t, s.OverallRemaining)
	assert.Zero(t, s.TrailingRemaining)
}

func TestSnapshotForUnknownAccount(t *testing.T) {
	t.Parallel()

	_, ok := SnapshotFor(model.Empty(), "missing", ledger.All)
	assert.False(t, ok)
}

func TestSnapshotCutoffIsMonotonic(t *testing.T) {
	t.Parallel()

	r := rand.New(rand.NewSource(3))
	a := scenarioAccount()
	var entries []model.ComplianceEntry
	for i := 0; i < 30; i++ {
		entries = append(entries, day(fmt.Sprint(i), fmt.Sprintf("2024-03-%02d", 1+r.Intn(20)), "", fmt.Sprint(45000+r.Intn(10000))))
	}

	for d := 1; d <= 20; d++ {
		cutoff := fmt.Sprintf("2024-03-%02d", d)
		s := AccountSnapshot(a, entries, ledger.UpTo(cutoff))

		var considered []model.ComplianceEntry
		for _, e := range entries {
			if e.Date <= cutoff {
				considered = append(considered, e)
			}
		}
		// Only entries on or before the cutoff matter.
		assert.Equal(t, s, AccountSnapshot(a, considered, ledger.UpTo(cutoff)))

		if d > 1 {
			prev := AccountSnapshot(a, entries, ledger.UpTo(fmt.Sprintf("2024-03-%02d", d-1)))
			assert.LessOrEqual(t, prev.Entries, s.Entries)
		}
	}
}

func testDB() model.Database {
	return model.Database{
		Firms: []model.Firm{{ID: "f1", Name: "Topstep"}, {ID: "f2", Name: "Apex"}},
		Accounts: []model.Account{
			scenarioAccount(),
			{ID: "a2", FirmID: "f2", Name: "PA 1", AccountType: model.SimFunded, Platform: "Rithmic", InitialBalance: "100000"},
			{ID: "a3", FirmID: "f2", Name: "Cash", AccountType: model.Personal},
		},
		Compliance: []model.ComplianceEntry{
			day("c1", "2024-01-01", "50000", "49000"),
			{ID: "c2", AccountID: "a2", Date: "2024-01-01", EndingBalance: "101000", ComplianceGrade: model.GradeA},
			{ID: "c3", AccountID: "a2", Date: "2024-01-03", EndingBalance: "102000", ComplianceGrade: model.GradeF, Violations: "oversized"},
		},
		Journals: []model.JournalEntry{{ID: "j1", Date: "2024-01-02"}, {ID: "j2", Date: "2024-01-05"}},
	}
}

func TestRowsFilterAndSort(t *testing.T) {
	t.Parallel()

	db := testDB()

	rows := Rows(db, Filter{})
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"50K Combine", "Cash", "PA 1"}, []string{rows[0].AccountName, rows[1].AccountName, rows[2].AccountName})
	assert.Equal(t, "—", rows[1].Platform)
	assert.True(t, rows[1].MissingLimits)

	rows = Rows(db, Filter{Query: "rithmic"})
	require.Len(t, rows, 1)
	assert.Equal(t, "a2", rows[0].AccountID)

	rows = Rows(db, Filter{Query: "APEX"})
	assert.Len(t, rows, 2)

	rows = Rows(db, Filter{AccountID: "a2", AsOf: ledger.UpTo("2024-01-02")})
	require.Len(t, rows, 1)
	assert.Equal(t, 101000.0, rows[0].CurrentBalance)
	assert.Equal(t, "Apex", rows[0].FirmName)
	assert.Equal(t, "2024-01-01", rows[0].AsOfDate)
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	d := Summarize(testDB())

	assert.Equal(t, 2, d.Journals)
	assert.Equal(t, 2, d.Firms)
	assert.Equal(t, 3, d.Accounts)
	assert.Equal(t, 3, d.Compliance)
	assert.Equal(t, 1, d.AccountsByType[model.Evaluation])
	assert.Equal(t, 0, d.AccountsByType[model.Live])
	assert.Equal(t, 1, d.GradeCounts[model.GradeA])
	assert.Equal(t, 1, d.GradeCounts[model.GradeF])
	assert.Equal(t, 1, d.WithViolations)
	assert.Equal(t, "2024-01-05", d.LatestJournal)
}
