package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDailyPnLWithWithdrawal(t *testing.T) {
	t.Parallel()

	c := NewComplianceEntry("acct", "2024-01-01")
	c.StartingBalance = "1000"
	c.EndingBalance = "900"
	c.WithdrewFunds = true
	c.WithdrawalAmount = "200"
	c.Recalculate()

	assert.Equal(t, "100.00", c.DailyPnL)
}

func TestRecalculateClearsWithdrawalWhenToggledOff(t *testing.T) {
	t.Parallel()

	c := NewComplianceEntry("acct", "2024-01-01")
	c.StartingBalance = "1,000"
	c.EndingBalance = "$1,050.5"
	c.WithdrewFunds = true
	c.WithdrawalAmount = "300"
	c.WithdrawalNotes = "payout"
	c.Recalculate()
	require.Equal(t, "350.50", c.DailyPnL)

	c.WithdrewFunds = false
	c.Recalculate()

	assert.Empty(t, c.WithdrawalAmount)
	assert.Empty(t, c.WithdrawalNotes)
	assert.Equal(t, "50.50", c.DailyPnL)
}

func TestRecalculateFixesGrade(t *testing.T) {
	t.Parallel()

	c := ComplianceEntry{ComplianceGrade: "Z"}
	c.Recalculate()
	assert.Equal(t, GradeC, c.ComplianceGrade)
	assert.Equal(t, "0.00", c.DailyPnL)

	c.ComplianceGrade = GradeA
	c.Recalculate()
	assert.Equal(t, GradeA, c.ComplianceGrade)
}

func TestNewRecordsDefaults(t *testing.T) {
	t.Parallel()

	f := NewFirm("")
	assert.Equal(t, "New Firm", f.Name)
	assert.NotEmpty(t, f.ID)

	a := NewAccount(f.ID)
	assert.Equal(t, f.ID, a.FirmID)
	assert.Equal(t, Evaluation, a.AccountType)
	assert.Equal(t, Today(), a.StartDate)

	c := NewComplianceEntry(a.ID, "2024-05-01")
	assert.Equal(t, GradeC, c.ComplianceGrade)
	assert.True(t, c.FollowedStopRule11)
	assert.False(t, c.StayedWithinDailyMaxLoss)
	assert.Equal(t, "0.00", c.DailyPnL)

	j := NewJournalEntry("2024-05-01")
	assert.Equal(t, DefaultHardStopTime, j.HardStopTime)
}

func TestDailyPnLLaw(t *testing.T) {
	t.Parallel()

	cases := []struct {
		start, end, w string
		withdrew      bool
		want          string
	}{
		{"50000", "49000", "", false, "-1000.00"},
		{"49000", "51000", "500", false, "2000.00"},
		{"100.10", "100.30", "0.05", true, "0.25"},
		{"", "", "", false, "0.00"},
		{"abc", "12", "x", true, "12.00"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, DailyPnL(tc.start, tc.end, tc.withdrew, tc.w))
	}
}

func TestCloneIsIndependent(t *testing.T) {
	t.Parallel()

	db := Empty()
	db.Firms = append(db.Firms, Firm{ID: "f1", Name: "Apex"})
	cp := db.Clone()
	cp.Firms[0].Name = "Changed"

	assert.Equal(t, "Apex", db.Firms[0].Name)
}

func TestLookups(t *testing.T) {
	t.Parallel()

	db := Database{
		Firms:    []Firm{{ID: "f1", Name: "Apex"}},
		Accounts: []Account{{ID: "a1", FirmID: "f1"}},
		Compliance: []ComplianceEntry{
			{ID: "c1", AccountID: "a1"},
			{ID: "c2", AccountID: "a2"},
			{ID: "c3", AccountID: "a1"},
		},
	}

	_, ok := db.Account("a1")
	assert.True(t, ok)
	_, ok = db.Account("zz")
	assert.False(t, ok)
	assert.Equal(t, "Apex", db.FirmName("f1"))
	assert.Equal(t, "—", db.FirmName("missing"))

	entries := db.EntriesFor("a1")
	require.Len(t, entries, 2)
	assert.Equal(t, "c1", entries[0].ID)
	assert.Equal(t, "c3", entries[1].ID)
}
