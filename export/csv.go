// Package export renders reports for use outside the journal: CSV for
// spreadsheets and scripts, org-mode for notes and an XLSX workbook.
package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/danmarmu/trading-journal-app/aggregate"
)

// WriteSeriesCSV writes one row per chart date with a column per series.
func WriteSeriesCSV(w io.Writer, c aggregate.Chart) error {
	cw := csv.NewWriter(w)

	header := []string{"date"}
	for _, s := range c.Series {
		header = append(header, s.Label)
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for i, d := range c.Dates {
		row := []string{d}
		for _, s := range c.Series {
			row = append(row, f(s.Points[i].Value))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteTotalsCSV writes the per-firm rows followed by a "Global" row.
func WriteTotalsCSV(w io.Writer, t aggregate.Totals) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"firm", "accounts", "current_balance", "withdrawals", "initial_balance", "profit_incl_withdrawals"}); err != nil {
		return err
	}

	rows := append(append([]aggregate.FirmTotals(nil), t.PerFirm...), t.Global)
	rows[len(rows)-1].FirmName = "Global"
	for _, ft := range rows {
		err := cw.Write([]string{
			ft.FirmName,
			strconv.Itoa(ft.Accounts),
			f(ft.CurrentBalance),
			f(ft.TotalWithdrawals),
			f(ft.InitialBalance),
			f(ft.ProfitInclWithdrawals),
		})
		if err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', 2, 64)
}
