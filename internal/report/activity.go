package report

import (
	"time"

	"minimart/internal/apierror"
	"minimart/internal/model"

	"github.com/shopspring/decimal"
)

const systemActor = "System"

// MsgInvalidRange is returned when a date range is inverted.
const MsgInvalidRange = "Start date must be on or before the end date."

type Actor struct {
	Username string `json:"username"`
	Count    int    `json:"count"`
}

// Activity summarises an activity log page. Logs arrive newest first, so the
// derived range runs from the last entry to the first.
type Activity struct {
	Total       int                `json:"total"`
	UniqueUsers int                `json:"uniqueUsers"`
	TopActor    *Actor             `json:"topActor"`
	Latest      *model.ActivityLog `json:"latest"`
	RangeStart  string             `json:"rangeStart,omitempty"`
	RangeEnd    string             `json:"rangeEnd,omitempty"`
	AutoRange   bool               `json:"autoRange"`
}

func actor(l model.ActivityLog) string {
	if l.User == nil || l.User.Username == "" {
		return systemActor
	}
	return l.User.Username
}

// ActivitySummary computes totals over logs. start and end are the filter the
// logs were fetched with; an empty bound is filled from the logs themselves.
func ActivitySummary(logs []model.ActivityLog, start, end string) Activity {
	a := Activity{Total: len(logs), RangeStart: start, RangeEnd: end}
	if len(logs) == 0 {
		return a
	}

	counts := map[string]int{}
	var order []string
	for _, l := range logs {
		u := actor(l)
		if counts[u] == 0 {
			order = append(order, u)
		}
		counts[u]++
	}
	a.UniqueUsers = len(counts)
	top := Actor{Username: order[0], Count: counts[order[0]]}
	for _, u := range order[1:] {
		if counts[u] > top.Count {
			top = Actor{Username: u, Count: counts[u]}
		}
	}
	a.TopActor = &top

	latest := logs[0]
	a.Latest = &latest
	if a.RangeStart == "" {
		a.RangeStart = logs[len(logs)-1].LogDate
	}
	if a.RangeEnd == "" {
		a.RangeEnd = logs[0].LogDate
	}
	a.AutoRange = start == "" || end == ""
	return a
}

// ValidateRange rejects start after end. Either bound may be empty.
// Bounds are yyyy-mm-dd.
func ValidateRange(start, end string) error {
	var s, e time.Time
	var err error
	if start != "" {
		if s, err = time.Parse("2006-01-02", start); err != nil {
			return apierror.Validation("Invalid start date.")
		}
	}
	if end != "" {
		if e, err = time.Parse("2006-01-02", end); err != nil {
			return apierror.Validation("Invalid end date.")
		}
	}
	if start != "" && end != "" && s.After(e) {
		return apierror.Validation(MsgInvalidRange)
	}
	return nil
}

// Ratios are percentages of total revenue.
type Ratios struct {
	GrossMargin  decimal.Decimal `json:"grossMargin"`
	NetMargin    decimal.Decimal `json:"netMargin"`
	ExpenseShare decimal.Decimal `json:"expenseShare"`
	COGSShare    decimal.Decimal `json:"cogsShare"`
}

// ProfitLossRatios derives margin percentages, rounded to two places. Zero
// revenue yields zero ratios.
func ProfitLossRatios(r model.ProfitLossReport) Ratios {
	if !r.TotalRevenue.IsPositive() {
		return Ratios{GrossMargin: decimal.Zero, NetMargin: decimal.Zero, ExpenseShare: decimal.Zero, COGSShare: decimal.Zero}
	}
	pct := func(v decimal.Decimal) decimal.Decimal {
		return v.Mul(decimal.NewFromInt(100)).Div(r.TotalRevenue).Round(2)
	}
	return Ratios{
		GrossMargin:  pct(r.GrossProfit),
		NetMargin:    pct(r.NetProfit),
		ExpenseShare: pct(r.TotalExpenses),
		COGSShare:    pct(r.CostOfGoodsSold),
	}
}
