// Package model holds the journal's records: prop firms, their accounts,
// the daily compliance ledger of each account and the daily trading plans.
//
// Monetary and numeric fields are kept as the text the trader typed and are
// read through numeric.Parse. The JSON field names are the serialized form
// of the whole Database.
package model

// AccountType classifies an account by funding stage.
type AccountType string

const (
	Evaluation AccountType = "Evaluation"
	SimFunded  AccountType = "Sim Funded"
	Live       AccountType = "Live"
	Personal   AccountType = "Personal"
)

// AccountTypes lists the valid account types in display order.
var AccountTypes = []AccountType{Evaluation, SimFunded, Live, Personal}

// Valid reports whether t is one of AccountTypes.
func (t AccountType) Valid() bool {
	for _, v := range AccountTypes {
		if t == v {
			return true
		}
	}
	return false
}

// Grade is the trader's self-assessed compliance grade for a day.
type Grade string

const (
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
	GradeF Grade = "F"

	DefaultGrade = GradeC
)

// Grades lists the valid grades, best first.
var Grades = []Grade{GradeA, GradeB, GradeC, GradeD, GradeF}

// Valid reports whether g is one of Grades.
func (g Grade) Valid() bool {
	for _, v := range Grades {
		if g == v {
			return true
		}
	}
	return false
}

// DefaultHardStopTime is the hard stop written on new journal entries.
const DefaultHardStopTime = "11:00 AM"

type Firm struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Account struct {
	ID     string `json:"id"`
	FirmID string `json:"firmId"`

	Name        string      `json:"name"`
	AccountType AccountType `json:"accountType"`
	Platform    string      `json:"platform"`
	StartDate   string      `json:"startDate"`

	InitialBalance        string `json:"initialBalance"`
	OverallMaxLossLimit   string `json:"overallMaxLossLimit"`
	TrailingDrawdownLimit string `json:"trailingDrawdownLimit"`
}

// ComplianceEntry is one day of an account's ledger.
type ComplianceEntry struct {
	ID        string `json:"id"`
	AccountID string `json:"accountId"`
	Date      string `json:"date"`

	ComplianceGrade Grade `json:"complianceGrade"`

	StartingBalance string `json:"startingBalance"`
	EndingBalance   string `json:"endingBalance"`

	// DailyPnL is derived by Recalculate and never set directly.
	DailyPnL string `json:"dailyPnL"`

	// ManualDrawdownRemaining overrides the derived cushion when positive.
	ManualDrawdownRemaining string `json:"manualDrawdownRemaining"`

	StayedWithinDailyMaxLoss     bool `json:"stayedWithinDailyMaxLoss"`
	StayedWithinTrailingDrawdown bool `json:"stayedWithinTrailingDrawdown"`
	FollowedPositionSize         bool `json:"followedPositionSize"`
	FollowedTradingHours         bool `json:"followedTradingHours"`
	FollowedStopRule11           bool `json:"followedStopRule11"`

	WithdrewFunds    bool   `json:"withdrewFunds"`
	WithdrawalAmount string `json:"withdrawalAmount"`
	WithdrawalNotes  string `json:"withdrawalNotes"`

	Violations string `json:"violations"`
	Notes      string `json:"notes"`
}

type TradingRules struct {
	DailyMaxLoss    string `json:"dailyMaxLoss"`
	AllowedSetups   string `json:"allowedSetups"`
	MaxTrades       string `json:"maxTrades"`
	MaxRiskPerTrade string `json:"maxRiskPerTrade"`
}

// JournalEntry is a daily trading plan. It is not linked to firms or accounts.
type JournalEntry struct {
	ID           string       `json:"id"`
	Date         string       `json:"date"`
	Focus        string       `json:"focus"`
	HardStopTime string       `json:"hardStopTime"`
	KeyLevels    string       `json:"keyLevels"`
	NewsEvents   string       `json:"newsEvents"`
	TradingRules TradingRules `json:"tradingRules"`
}

// Database is the aggregate root. After normalization every Account.FirmID
// names a Firm in Firms and every ComplianceEntry.AccountID names an Account
// in Accounts.
type Database struct {
	Firms      []Firm            `json:"firms"`
	Accounts   []Account         `json:"accounts"`
	Journals   []JournalEntry    `json:"journals"`
	Compliance []ComplianceEntry `json:"compliance"`
}

// Empty returns a Database with all four collections present and empty.
func Empty() Database {
	return Database{
		Firms:      []Firm{},
		Accounts:   []Account{},
		Journals:   []JournalEntry{},
		Compliance: []ComplianceEntry{},
	}
}

// Clone returns a copy that shares no slice storage with db.
func (db Database) Clone() Database {
	return Database{
		Firms:      append([]Firm{}, db.Firms...),
		Accounts:   append([]Account{}, db.Accounts...),
		Journals:   append([]JournalEntry{}, db.Journals...),
		Compliance: append([]ComplianceEntry{}, db.Compliance...),
	}
}

func (db Database) Firm(id string) (Firm, bool) {
	for _, f := range db.Firms {
		if f.ID == id {
			return f, true
		}
	}
	return Firm{}, false
}

func (db Database) Account(id string) (Account, bool) {
	for _, a := range db.Accounts {
		if a.ID == id {
			return a, true
		}
	}
	return Account{}, false
}

// FirmName returns the name of the firm with id, or "—" when it is unknown.
func (db Database) FirmName(id string) string {
	if f, ok := db.Firm(id); ok {
		return f.Name
	}
	return "—"
}

// EntriesFor returns the compliance entries of one account in stored order.
func (db Database) EntriesFor(accountID string) []ComplianceEntry {
	var out []ComplianceEntry
	for _, c := range db.Compliance {
		if c.AccountID == accountID {
			out = append(out, c)
		}
	}
	return out
}
