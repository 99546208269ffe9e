package report

import (
	"strings"

	"github.com/danmarmu/trading-journal-app/model"
)

// Dashboard is the at-a-glance summary of the whole journal.
type Dashboard struct {
	Journals   int
	Firms      int
	Accounts   int
	Compliance int

	AccountsByType map[model.AccountType]int
	GradeCounts    map[model.Grade]int

	// WithViolations counts entries whose violations note is not blank.
	WithViolations int

	// LatestJournal is the date of the newest journal entry, "" when none.
	LatestJournal string
}

func Summarize(db model.Database) Dashboard {
	d := Dashboard{
		Journals:       len(db.Journals),
		Firms:          len(db.Firms),
		Accounts:       len(db.Accounts),
		Compliance:     len(db.Compliance),
		AccountsByType: map[model.AccountType]int{},
		GradeCounts:    map[model.Grade]int{},
	}
	for _, t := range model.AccountTypes {
		d.AccountsByType[t] = 0
	}
	for _, g := range model.Grades {
		d.GradeCounts[g] = 0
	}

	for _, a := range db.Accounts {
		if _, ok := d.AccountsByType[a.AccountType]; ok {
			d.AccountsByType[a.AccountType]++
		}
	}
	for _, c := range db.Compliance {
		if _, ok := d.GradeCounts[c.ComplianceGrade]; ok {
			d.GradeCounts[c.ComplianceGrade]++
		}
		if strings.TrimSpace(c.Violations) != "" {
			d.WithViolations++
		}
	}
	for _, j := range db.Journals {
		if j.Date > d.LatestJournal {
			d.LatestJournal = j.Date
		}
	}
	return d
}
