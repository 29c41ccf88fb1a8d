// Package report turns fetched backend slices into the numbers the reporting
// screens show. Aggregators are pure and take the clock explicitly.
package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"minimart/internal/model"

	"github.com/shopspring/decimal"
)

const (
	trendDays       = 7
	peakHourLimit   = 6
	recentSaleLimit = 10
)

// DayTotal is one day of the trailing week.
type DayTotal struct {
	Key          string          `json:"key"`
	Label        string          `json:"label"`
	Revenue      decimal.Decimal `json:"revenue"`
	Transactions int             `json:"transactions"`
}

type StatusCount struct {
	Status   string  `json:"status"`
	Count    int     `json:"count"`
	Percent  int     `json:"percent"`
	Relative float64 `json:"relative"`
}

type HourBucket struct {
	Hour    int             `json:"hour"`
	Label   string          `json:"label"`
	Count   int             `json:"count"`
	Revenue decimal.Decimal `json:"revenue"`
}

// Sales is the daily sales summary.
type Sales struct {
	GrossToday         decimal.Decimal `json:"grossToday"`
	TransactionsToday  int             `json:"transactionsToday"`
	PendingCountToday  int             `json:"pendingCountToday"`
	PendingAmountToday decimal.Decimal `json:"pendingAmountToday"`
	AverageTicketToday decimal.Decimal `json:"averageTicketToday"`
	Trend              []DayTotal      `json:"trend"`
	TrendRevenue       decimal.Decimal `json:"trendRevenue"`
	PaidCountTrend     int             `json:"paidCountTrend"`
	AverageTicketTrend decimal.Decimal `json:"averageTicketTrend"`
	StatusBreakdown    []StatusCount   `json:"statusBreakdown"`
	PeakHours          []HourBucket    `json:"peakHours"`
	Recent             []model.Order   `json:"recent"`
}

// dated pairs an order with its parsed date. Orders without a readable date
// are dropped by the sales summary.
type dated struct {
	model.Order
	at time.Time
}

func withDates(orders []model.Order, loc *time.Location) []dated {
	out := make([]dated, 0, len(orders))
	for _, o := range orders {
		if t, ok := o.Date(loc); ok {
			out = append(out, dated{Order: o, at: t})
		}
	}
	return out
}

func status(o model.Order) string {
	return strings.ToUpper(string(o.PaymentStatus))
}

func paid(o model.Order) bool { return status(o) == string(model.PaymentPaid) }

func dayKey(t time.Time) string { return t.Format("2006-01-02") }

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// window returns the trailing week ending today, oldest first.
func window(now time.Time) []DayTotal {
	today := startOfDay(now)
	days := make([]DayTotal, 0, trendDays)
	for offset := trendDays - 1; offset >= 0; offset-- {
		d := today.AddDate(0, 0, -offset)
		days = append(days, DayTotal{Key: dayKey(d), Label: d.Format("Mon"), Revenue: decimal.Zero})
	}
	return days
}

func divide(sum decimal.Decimal, n int) decimal.Decimal {
	if n == 0 {
		return decimal.Zero
	}
	return sum.Div(decimal.NewFromInt(int64(n)))
}

// SalesSummary computes today's figures, the trailing week, and the status
// and hourly breakdowns of today's orders.
func SalesSummary(orders []model.Order, now time.Time) Sales {
	all := withDates(orders, now.Location())
	todayKey := dayKey(now)

	s := Sales{
		GrossToday:         decimal.Zero,
		PendingAmountToday: decimal.Zero,
		TrendRevenue:       decimal.Zero,
		StatusBreakdown:    []StatusCount{},
		PeakHours:          []HourBucket{},
	}

	var today []dated
	for _, o := range all {
		if dayKey(o.at) == todayKey {
			today = append(today, o)
		}
	}
	for _, o := range today {
		if paid(o.Order) {
			s.GrossToday = s.GrossToday.Add(o.Total)
		} else {
			s.PendingCountToday++
			s.PendingAmountToday = s.PendingAmountToday.Add(o.Total)
		}
	}
	s.TransactionsToday = len(today)
	s.AverageTicketToday = divide(s.GrossToday, s.TransactionsToday)

	s.Trend = window(now)
	pos := make(map[string]int, len(s.Trend))
	for i, d := range s.Trend {
		pos[d.Key] = i
	}
	for _, o := range all {
		i, ok := pos[dayKey(o.at)]
		if !ok {
			continue
		}
		s.Trend[i].Transactions++
		if paid(o.Order) {
			s.Trend[i].Revenue = s.Trend[i].Revenue.Add(o.Total)
			s.PaidCountTrend++
		}
	}
	for _, d := range s.Trend {
		s.TrendRevenue = s.TrendRevenue.Add(d.Revenue)
	}
	s.AverageTicketTrend = divide(s.TrendRevenue, s.PaidCountTrend)

	s.StatusBreakdown = statusBreakdown(today)
	s.PeakHours = peakHours(today)

	sort.SliceStable(all, func(i, j int) bool { return all[i].at.After(all[j].at) })
	if len(all) > recentSaleLimit {
		all = all[:recentSaleLimit]
	}
	s.Recent = make([]model.Order, 0, len(all))
	for _, o := range all {
		s.Recent = append(s.Recent, o.Order)
	}
	return s
}

func statusBreakdown(today []dated) []StatusCount {
	if len(today) == 0 {
		return []StatusCount{}
	}
	counts := map[string]int{}
	var order []string
	for _, o := range today {
		st := status(o.Order)
		if st == "" {
			st = "UNKNOWN"
		}
		if counts[st] == 0 {
			order = append(order, st)
		}
		counts[st]++
	}
	max := 1
	for _, c := range counts {
		if c > max {
			max = c
		}
	}
	out := make([]StatusCount, 0, len(order))
	for _, st := range order {
		c := counts[st]
		out = append(out, StatusCount{
			Status:   st,
			Count:    c,
			Percent:  percent(c, len(today)),
			Relative: float64(c) / float64(max) * 100,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

func peakHours(today []dated) []HourBucket {
	byHour := map[int]*HourBucket{}
	for _, o := range today {
		h := o.at.Hour()
		b, ok := byHour[h]
		if !ok {
			b = &HourBucket{Hour: h, Label: fmt.Sprintf("%02d:00", h), Revenue: decimal.Zero}
			byHour[h] = b
		}
		b.Count++
		if paid(o.Order) {
			b.Revenue = b.Revenue.Add(o.Total)
		}
	}
	out := make([]HourBucket, 0, len(byHour))
	for _, b := range byHour {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		if c := out[i].Revenue.Cmp(out[j].Revenue); c != 0 {
			return c > 0
		}
		return out[i].Hour < out[j].Hour
	})
	if len(out) > peakHourLimit {
		out = out[:peakHourLimit]
	}
	return out
}

// percent is round(part/whole × 100), zero for an empty whole.
func percent(part, whole int) int {
	if whole <= 0 {
		return 0
	}
	return int(decimal.NewFromInt(int64(part)).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(int64(whole))).
		Round(0).IntPart())
}
