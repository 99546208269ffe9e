package aggregate

import (
	"errors"
	"fmt"
	"sort"

	"github.com/danmarmu/trading-journal-app/ledger"
	"github.com/danmarmu/trading-journal-app/model"
	"github.com/danmarmu/trading-journal-app/report"
)

// Overlay selects how many lines the chart draws.
type Overlay string

const (
	OverlayGlobal   Overlay = "global"
	OverlayFirms    Overlay = "firms"
	OverlayAccounts Overlay = "accounts"
)

// Metric selects the value plotted for each date.
type Metric string

const (
	MetricBalance               Metric = "balance"
	MetricProfitInclWithdrawals Metric = "profitInclWithdrawals"
	MetricWithdrawals           Metric = "withdrawals"
)

// Per-account overlays are capped to keep the chart legible.
const (
	MaxAccountLinesFirm = 12
	MaxAccountLinesAll  = 6
)

var (
	ErrInsufficientData = errors.New("not enough data to chart: need at least 2 distinct dates")
	ErrUnknownOverlay   = errors.New("unknown overlay")
	ErrUnknownMetric    = errors.New("unknown metric")
)

// ParseOverlay accepts the Overlay names.
func ParseOverlay(s string) (Overlay, error) {
	switch o := Overlay(s); o {
	case OverlayGlobal, OverlayFirms, OverlayAccounts:
		return o, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownOverlay, s)
}

// ParseMetric accepts the Metric names.
func ParseMetric(s string) (Metric, error) {
	switch m := Metric(s); m {
	case MetricBalance, MetricProfitInclWithdrawals, MetricWithdrawals:
		return m, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMetric, s)
}

type Point struct {
	Date  string
	Value float64
}

// Series is one chart line. Every series of a Chart has a point for each
// date of Chart.Dates.
type Series struct {
	Key    string
	Label  string
	Points []Point
}

type Chart struct {
	Dates  []string
	Series []Series

	// Omitted counts accounts left out by the per-account line cap and
	// Note explains it to the reader; both are zero otherwise.
	Omitted int
	Note    string
}

// BuildSeries computes the chart lines for the accounts in scope. The x
// axis is the distinct dates of every in-scope compliance entry; at each
// date an account contributes its latest ending balance, its withdrawals
// so far and its initial balance.
func BuildSeries(db model.Database, firmID string, overlay Overlay, metric Metric) (Chart, error) {
	if _, err := ParseOverlay(string(overlay)); err != nil {
		return Chart{}, err
	}
	if _, err := ParseMetric(string(metric)); err != nil {
		return Chart{}, err
	}

	accounts := InScope(db, firmID)
	ids := make([]string, len(accounts))
	for i, a := range accounts {
		ids[i] = a.ID
	}

	ix := ledger.NewIndex(db)
	dates := ix.Dates(ids)
	if len(dates) < 2 {
		return Chart{Dates: dates}, ErrInsufficientData
	}

	initial := make(map[string]float64, len(accounts))
	for _, a := range accounts {
		initial[a.ID] = report.InitialBalance(a, ix.EntriesOnOrBefore(a.ID, ledger.All))
	}

	points := func(group []string) []Point {
		out := make([]Point, len(dates))
		for i, d := range dates {
			var bal, drawn, init float64
			for _, id := range group {
				bal += ix.EndingBalanceOnOrBefore(id, d)
				drawn += ix.WithdrawalsUpTo(id, d)
				init += initial[id]
			}
			out[i] = Point{Date: d, Value: pick(metric, bal, drawn, init)}
		}
		return out
	}

	chart := Chart{Dates: dates}
	switch overlay {
	case OverlayGlobal:
		label := "Global Total"
		if firmID != AllFirms {
			label = "Firm Total"
		}
		chart.Series = []Series{{Key: "global", Label: label, Points: points(ids)}}

	case OverlayFirms:
		groups := map[string][]string{}
		var firmIDs []string
		for _, a := range accounts {
			if _, ok := groups[a.FirmID]; !ok {
				firmIDs = append(firmIDs, a.FirmID)
			}
			groups[a.FirmID] = append(groups[a.FirmID], a.ID)
		}
		sort.SliceStable(firmIDs, func(i, j int) bool { return db.FirmName(firmIDs[i]) < db.FirmName(firmIDs[j]) })
		for _, fid := range firmIDs {
			chart.Series = append(chart.Series, Series{
				Key:    "firm-" + fid,
				Label:  db.FirmName(fid),
				Points: points(groups[fid]),
			})
		}

	case OverlayAccounts:
		limit := MaxAccountLinesAll
		if firmID != AllFirms {
			limit = MaxAccountLinesFirm
		}
		shown := accounts
		if len(shown) > limit {
			shown = shown[:limit]
			chart.Omitted = len(accounts) - limit
			chart.Note = fmt.Sprintf("showing %d of %d accounts; select a firm to see more", limit, len(accounts))
			if firmID != AllFirms {
				chart.Note = fmt.Sprintf("showing %d of %d accounts", limit, len(accounts))
			}
		}
		for _, a := range shown {
			chart.Series = append(chart.Series, Series{
				Key:    "acct-" + a.ID,
				Label:  db.FirmName(a.FirmID) + " / " + a.Name,
				Points: points([]string{a.ID}),
			})
		}
	}

	return chart, nil
}

func pick(m Metric, balance, withdrawals, initial float64) float64 {
	switch m {
	case MetricWithdrawals:
		return withdrawals
	case MetricProfitInclWithdrawals:
		return balance + withdrawals - initial
	default:
		return balance
	}
}
