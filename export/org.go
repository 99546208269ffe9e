package export

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/danmarmu/trading-journal-app/numeric"
	"github.com/danmarmu/trading-journal-app/report"
)

// FormatRowOrg renders one account report as an org-mode heading with a
// properties drawer and a limits table.
func FormatRowOrg(r report.Row) string {
	asOf := r.AsOfDate
	if asOf == "" {
		asOf = "(no entries)"
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("** Account: %s (%s)\n", r.AccountName, r.FirmName))
	b.WriteString(":PROPERTIES:\n")
	b.WriteString(fmt.Sprintf(":ID: %s\n", r.AccountID))
	b.WriteString(fmt.Sprintf(":FIRM: %s\n", r.FirmName))
	b.WriteString(fmt.Sprintf(":TYPE: %s\n", r.AccountType))
	b.WriteString(fmt.Sprintf(":PLATFORM: %s\n", r.Platform))
	b.WriteString(fmt.Sprintf(":AS_OF: %s\n", asOf))
	b.WriteString(fmt.Sprintf(":ENTRIES: %d\n", r.Entries))
	b.WriteString(fmt.Sprintf(":INITIAL_BAL: %.2f\n", r.InitialBalance))
	b.WriteString(fmt.Sprintf(":CURRENT_BAL: %.2f\n", r.CurrentBalance))
	b.WriteString(fmt.Sprintf(":HIGH_WATER: %.2f\n", r.HighWaterMark))
	b.WriteString(fmt.Sprintf(":WITHDRAWALS: %.2f\n", r.TotalWithdrawals))
	b.WriteString(fmt.Sprintf(":PROFIT_INCL_WD: %.2f\n", r.ProfitInclWithdrawals))
	b.WriteString(":END:\n")
	b.WriteString("\n")
	b.WriteString("| Limit    |      Limit |       Used |  Remaining |\n")
	b.WriteString("|----------+------------+------------+------------|\n")
	b.WriteString(fmt.Sprintf("| Overall  | %10s | %10s | %10s |\n",
		numeric.Money(r.OverallMaxLossLimit), numeric.Money(r.OverallUsed), numeric.Money(r.OverallRemaining)))
	b.WriteString(fmt.Sprintf("| Trailing | %10s | %10s | %10s |\n",
		numeric.Money(r.TrailingDrawdownLimit), numeric.Money(r.TrailingUsed), numeric.Money(r.TrailingRemaining)))
	if r.MissingLimits {
		b.WriteString("\n- Tip: set the initial balance and both limits for accurate cushions.\n")
	}

	return b.String()
}

// FormatRowsOrg renders multiple reports separated by blank lines.
func FormatRowsOrg(rows []report.Row) string {
	var b strings.Builder
	for i, r := range rows {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(FormatRowOrg(r))
	}
	return b.String()
}

var dashboardOrgFuncs = template.FuncMap{
	"orNone": func(s string) string {
		if s == "" {
			return "(none)"
		}
		return s
	},
}

// DashboardOrgTemplate renders a report.Dashboard.
const DashboardOrgTemplate = `* DASHBOARD
:PROPERTIES:
:JOURNALS:    {{.Journals}}
:FIRMS:       {{.Firms}}
:ACCOUNTS:    {{.Accounts}}
:COMPLIANCE:  {{.Compliance}}
:VIOLATIONS:  {{.WithViolations}}
:LAST_PLAN:   {{orNone .LatestJournal}}
:END:

** Accounts by Type
| Type | Count |
|------+-------|
{{- range $t, $n := .AccountsByType }}
| {{$t}} | {{$n}} |
{{- end }}

** Compliance Grades
| Grade | Count |
|-------+-------|
{{- range $g, $n := .GradeCounts }}
| {{$g}} | {{$n}} |
{{- end }}
`

var dashboardOrg = template.Must(template.New("dashboard").Funcs(dashboardOrgFuncs).Parse(DashboardOrgTemplate))

// FormatDashboardOrg renders d with DashboardOrgTemplate.
func FormatDashboardOrg(d report.Dashboard) (string, error) {
	buf := new(bytes.Buffer)
	if err := dashboardOrg.Execute(buf, d); err != nil {
		return "", fmt.Errorf("render dashboard: %w", err)
	}
	return buf.String(), nil
}
