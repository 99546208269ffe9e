package export

import (
	"errors"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/danmarmu/trading-journal-app/aggregate"
	"github.com/danmarmu/trading-journal-app/model"
	"github.com/danmarmu/trading-journal-app/report"
)

// Workbook sheet names.
const (
	SheetAccounts = "Accounts"
	SheetTotals   = "Firm Totals"
	SheetSeries   = "Series"
)

// WriteWorkbook writes an XLSX workbook with the current account reports,
// the firm totals and the global series for every metric.
func WriteWorkbook(w io.Writer, db model.Database) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := accountsSheet(f, report.Rows(db, report.Filter{})); err != nil {
		return err
	}
	if err := totalsSheet(f, aggregate.Aggregate(db, aggregate.AllFirms)); err != nil {
		return err
	}
	if err := seriesSheet(f, db); err != nil {
		return err
	}

	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("workbook: %w", err)
	}
	if idx, err := f.GetSheetIndex(SheetAccounts); err == nil {
		f.SetActiveSheet(idx)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeTable(f *excelize.File, sheet string, header []string, rows [][]any, widths []float64) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("create sheet %s: %w", sheet, err)
	}

	put := func(col, row int, v any) error {
		cell, err := excelize.CoordinatesToCellName(col, row)
		if err != nil {
			return err
		}
		return f.SetCellValue(sheet, cell, v)
	}

	for i, h := range header {
		if err := put(i+1, 1, h); err != nil {
			return fmt.Errorf("sheet %s: %w", sheet, err)
		}
	}
	for r, row := range rows {
		for c, v := range row {
			if err := put(c+1, r+2, v); err != nil {
				return fmt.Errorf("sheet %s: %w", sheet, err)
			}
		}
	}

	for i, width := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, col, col, width); err != nil {
			return fmt.Errorf("sheet %s: %w", sheet, err)
		}
	}
	return nil
}

func accountsSheet(f *excelize.File, rows []report.Row) error {
	header := []string{
		"Firm", "Account", "Type", "Platform", "As Of",
		"Initial", "Current", "High Water", "Withdrawals", "Profit incl. WD",
		"Overall Limit", "Overall Used", "Overall Remaining",
		"Trailing Limit", "Trailing Used", "Trailing Remaining",
	}
	data := make([][]any, 0, len(rows))
	for _, r := range rows {
		data = append(data, []any{
			r.FirmName, r.AccountName, string(r.AccountType), r.Platform, r.AsOfDate,
			r.InitialBalance, r.CurrentBalance, r.HighWaterMark, r.TotalWithdrawals, r.ProfitInclWithdrawals,
			r.OverallMaxLossLimit, r.OverallUsed, r.OverallRemaining,
			r.TrailingDrawdownLimit, r.TrailingUsed, r.TrailingRemaining,
		})
	}
	return writeTable(f, SheetAccounts, header, data, []float64{18, 20, 12, 12, 12})
}

func totalsSheet(f *excelize.File, t aggregate.Totals) error {
	header := []string{"Firm", "Accounts", "Current Balance", "Withdrawals", "Initial Balance", "Profit incl. WD"}
	var data [][]any
	for _, ft := range append(append([]aggregate.FirmTotals(nil), t.PerFirm...), t.Global) {
		name := ft.FirmName
		if len(data) == len(t.PerFirm) {
			name = "Global"
		}
		data = append(data, []any{name, ft.Accounts, ft.CurrentBalance, ft.TotalWithdrawals, ft.InitialBalance, ft.ProfitInclWithdrawals})
	}
	return writeTable(f, SheetTotals, header, data, []float64{20, 10, 16, 14, 16, 16})
}

func seriesSheet(f *excelize.File, db model.Database) error {
	metrics := []aggregate.Metric{aggregate.MetricBalance, aggregate.MetricWithdrawals, aggregate.MetricProfitInclWithdrawals}
	header := []string{"Date", "Balance", "Withdrawals", "Profit incl. WD"}

	var charts []aggregate.Chart
	for _, m := range metrics {
		c, err := aggregate.BuildSeries(db, aggregate.AllFirms, aggregate.OverlayGlobal, m)
		if errors.Is(err, aggregate.ErrInsufficientData) {
			return writeTable(f, SheetSeries, header, nil, []float64{12})
		}
		if err != nil {
			return err
		}
		charts = append(charts, c)
	}

	var data [][]any
	for i, d := range charts[0].Dates {
		row := []any{d}
		for _, c := range charts {
			row = append(row, c.Series[0].Points[i].Value)
		}
		data = append(data, row)
	}
	return writeTable(f, SheetSeries, header, data, []float64{12, 16, 14, 16})
}
