package normalize

import (
	"bytes"
	"encoding/json"

	"github.com/danmarmu/trading-journal-app/model"
)

// text decodes any JSON scalar into a string: strings as-is, numbers as
// their literal, everything else as "". Older exports sometimes stored
// balances as numbers.
type text string

func (t *text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return nil
	}
	switch c := b[0]; {
	case c == '"':
		var s string
		if err := json.Unmarshal(b, &s); err == nil {
			*t = text(s)
		}
	case c == '-' || (c >= '0' && c <= '9'):
		*t = text(b)
	}
	return nil
}

// flag decodes a JSON boolean and ignores anything else.
type flag bool

func (f *flag) UnmarshalJSON(b []byte) error {
	var v bool
	if err := json.Unmarshal(b, &v); err == nil {
		*f = flag(v)
	}
	return nil
}

type rawFirm struct {
	ID   text `json:"id"`
	Name text `json:"name"`
}

type rawAccount struct {
	ID                    text `json:"id"`
	FirmID                text `json:"firmId"`
	Name                  text `json:"name"`
	AccountType           text `json:"accountType"`
	Platform              text `json:"platform"`
	StartDate             text `json:"startDate"`
	InitialBalance        text `json:"initialBalance"`
	OverallMaxLossLimit   text `json:"overallMaxLossLimit"`
	TrailingDrawdownLimit text `json:"trailingDrawdownLimit"`
}

type rawCompliance struct {
	ID                           text  `json:"id"`
	AccountID                    text  `json:"accountId"`
	Date                         text  `json:"date"`
	ComplianceGrade              text  `json:"complianceGrade"`
	StartingBalance              text  `json:"startingBalance"`
	EndingBalance                text  `json:"endingBalance"`
	DailyPnL                     text  `json:"dailyPnL"`
	ManualDrawdownRemaining      text  `json:"manualDrawdownRemaining"`
	StayedWithinDailyMaxLoss     flag  `json:"stayedWithinDailyMaxLoss"`
	StayedWithinTrailingDrawdown flag  `json:"stayedWithinTrailingDrawdown"`
	FollowedPositionSize         flag  `json:"followedPositionSize"`
	FollowedTradingHours         flag  `json:"followedTradingHours"`
	FollowedStopRule11           *flag `json:"followedStopRule11"`
	WithdrewFunds                flag  `json:"withdrewFunds"`
	WithdrawalAmount             text  `json:"withdrawalAmount"`
	WithdrawalNotes              text  `json:"withdrawalNotes"`
	Violations                   text  `json:"violations"`
	Notes                        text  `json:"notes"`
}

// rawRules merges per field: a partial tradingRules object keeps the
// fields it has and the rest default to "".
type rawRules struct {
	DailyMaxLoss    text `json:"dailyMaxLoss"`
	AllowedSetups   text `json:"allowedSetups"`
	MaxTrades       text `json:"maxTrades"`
	MaxRiskPerTrade text `json:"maxRiskPerTrade"`
}

func (r *rawRules) UnmarshalJSON(b []byte) error {
	type plain rawRules
	var p plain
	if err := json.Unmarshal(b, &p); err == nil {
		*r = rawRules(p)
	}
	return nil
}

type rawJournal struct {
	ID           text     `json:"id"`
	Date         text     `json:"date"`
	Focus        text     `json:"focus"`
	HardStopTime *text    `json:"hardStopTime"`
	KeyLevels    text     `json:"keyLevels"`
	NewsEvents   text     `json:"newsEvents"`
	TradingRules rawRules `json:"tradingRules"`
}

// Decode reads a persisted Database. A missing or corrupt value yields an
// empty Database; a missing collection is empty; records that are not
// objects are skipped. Field defaults are applied to absent fields only, so
// present values are never overwritten.
func Decode(raw []byte) (model.Database, Stats) {
	var top map[string]json.RawMessage
	if len(bytes.TrimSpace(raw)) == 0 {
		db, st := Database(model.Empty())
		return db, st
	}
	if err := json.Unmarshal(raw, &top); err != nil || top == nil {
		db, st := Database(model.Empty())
		st.Corrupt = true
		return db, st
	}

	var (
		db        model.Database
		malformed int
	)

	for _, m := range elements(top["firms"], &malformed) {
		var r rawFirm
		if json.Unmarshal(m, &r) != nil {
			malformed++
			continue
		}
		db.Firms = append(db.Firms, model.Firm{ID: string(r.ID), Name: string(r.Name)})
	}

	for _, m := range elements(top["accounts"], &malformed) {
		var r rawAccount
		if json.Unmarshal(m, &r) != nil {
			malformed++
			continue
		}
		db.Accounts = append(db.Accounts, model.Account{
			ID:                    string(r.ID),
			FirmID:                string(r.FirmID),
			Name:                  string(r.Name),
			AccountType:           model.AccountType(r.AccountType),
			Platform:              string(r.Platform),
			StartDate:             string(r.StartDate),
			InitialBalance:        string(r.InitialBalance),
			OverallMaxLossLimit:   string(r.OverallMaxLossLimit),
			TrailingDrawdownLimit: string(r.TrailingDrawdownLimit),
		})
	}

	for _, m := range elements(top["compliance"], &malformed) {
		var r rawCompliance
		if json.Unmarshal(m, &r) != nil {
			malformed++
			continue
		}
		stopRule := true
		if r.FollowedStopRule11 != nil {
			stopRule = bool(*r.FollowedStopRule11)
		}
		db.Compliance = append(db.Compliance, model.ComplianceEntry{
			ID:                           string(r.ID),
			AccountID:                    string(r.AccountID),
			Date:                         string(r.Date),
			ComplianceGrade:              model.Grade(r.ComplianceGrade),
			StartingBalance:              string(r.StartingBalance),
			EndingBalance:                string(r.EndingBalance),
			DailyPnL:                     string(r.DailyPnL),
			ManualDrawdownRemaining:      string(r.ManualDrawdownRemaining),
			StayedWithinDailyMaxLoss:     bool(r.StayedWithinDailyMaxLoss),
			StayedWithinTrailingDrawdown: bool(r.StayedWithinTrailingDrawdown),
			FollowedPositionSize:         bool(r.FollowedPositionSize),
			FollowedTradingHours:         bool(r.FollowedTradingHours),
			FollowedStopRule11:           stopRule,
			WithdrewFunds:                bool(r.WithdrewFunds),
			WithdrawalAmount:             string(r.WithdrawalAmount),
			WithdrawalNotes:              string(r.WithdrawalNotes),
			Violations:                   string(r.Violations),
			Notes:                        string(r.Notes),
		})
	}

	for _, m := range elements(top["journals"], &malformed) {
		var r rawJournal
		if json.Unmarshal(m, &r) != nil {
			malformed++
			continue
		}
		hardStop := model.DefaultHardStopTime
		if r.HardStopTime != nil {
			hardStop = string(*r.HardStopTime)
		}
		db.Journals = append(db.Journals, model.JournalEntry{
			ID:           string(r.ID),
			Date:         string(r.Date),
			Focus:        string(r.Focus),
			HardStopTime: hardStop,
			KeyLevels:    string(r.KeyLevels),
			NewsEvents:   string(r.NewsEvents),
			TradingRules: model.TradingRules{
				DailyMaxLoss:    string(r.TradingRules.DailyMaxLoss),
				AllowedSetups:   string(r.TradingRules.AllowedSetups),
				MaxTrades:       string(r.TradingRules.MaxTrades),
				MaxRiskPerTrade: string(r.TradingRules.MaxRiskPerTrade),
			},
		})
	}

	out, st := Database(db)
	st.Malformed = malformed
	return out, st
}

// elements splits a JSON array into its object members. A missing or null
// collection is empty; a non-array value and each non-object member count as
// malformed.
func elements(v json.RawMessage, malformed *int) []json.RawMessage {
	v = bytes.TrimSpace(v)
	if len(v) == 0 || bytes.Equal(v, []byte("null")) {
		return nil
	}
	var all []json.RawMessage
	if err := json.Unmarshal(v, &all); err != nil {
		*malformed++
		return nil
	}
	out := all[:0]
	for _, m := range all {
		if m = bytes.TrimSpace(m); len(m) == 0 || m[0] != '{' {
			*malformed++
			continue
		}
		out = append(out, m)
	}
	return out
}
