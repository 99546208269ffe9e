package model

import (
	"time"

	"github.com/danmarmu/trading-journal-app/numeric"
	"github.com/danmarmu/trading-journal-app/pkg/id"
)

// DateLayout is the ISO date format used for every record date.
const DateLayout = "2006-01-02"

// Today returns the local calendar date in DateLayout.
func Today() string {
	return time.Now().Format(DateLayout)
}

func NewFirm(name string) Firm {
	if name == "" {
		name = "New Firm"
	}
	return Firm{ID: id.New(), Name: name}
}

func NewAccount(firmID string) Account {
	return Account{
		ID:          id.New(),
		FirmID:      firmID,
		Name:        "New Account",
		AccountType: Evaluation,
		StartDate:   Today(),
	}
}

// NewComplianceEntry returns a blank entry for accountID dated date.
func NewComplianceEntry(accountID, date string) ComplianceEntry {
	c := ComplianceEntry{
		ID:                 id.New(),
		AccountID:          accountID,
		Date:               date,
		ComplianceGrade:    DefaultGrade,
		FollowedStopRule11: true,
	}
	c.Recalculate()
	return c
}

func NewJournalEntry(date string) JournalEntry {
	return JournalEntry{
		ID:           id.New(),
		Date:         date,
		HardStopTime: DefaultHardStopTime,
	}
}

// DailyPnL is ending - starting, plus the withdrawal when funds were taken
// out that day, formatted to 2 decimals.
func DailyPnL(starting, ending string, withdrew bool, withdrawal string) string {
	v := numeric.Parse(ending) - numeric.Parse(starting)
	if withdrew {
		v += numeric.Parse(withdrawal)
	}
	return numeric.Fixed2(v)
}

// Recalculate restores the derived fields after an edit: an invalid grade
// falls back to C, withdrawal fields are cleared when no funds were
// withdrawn, and DailyPnL is recomputed.
func (c *ComplianceEntry) Recalculate() {
	if !c.ComplianceGrade.Valid() {
		c.ComplianceGrade = DefaultGrade
	}
	if !c.WithdrewFunds {
		c.WithdrawalAmount = ""
		c.WithdrawalNotes = ""
	}
	c.DailyPnL = DailyPnL(c.StartingBalance, c.EndingBalance, c.WithdrewFunds, c.WithdrawalAmount)
}

// Withdrawal is the parsed withdrawal amount, or 0 when no funds were withdrawn.
func (c ComplianceEntry) Withdrawal() float64 {
	if !c.WithdrewFunds {
		return 0
	}
	return numeric.Parse(c.WithdrawalAmount)
}
