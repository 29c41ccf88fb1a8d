package infra

import (
	"fmt"
	"time"

	"minimart/internal/report"

	"github.com/xuri/excelize/v2"
)

const (
	SheetSummary = "Summary"
	SheetTrend   = "Trend"
	SheetHours   = "Peak Hours"
	SheetRecent  = "Recent Orders"
)

// SalesWorkbook exports the sales summary as an .xlsx file.
func SalesWorkbook(s report.Sales, generatedAt time.Time) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return nil, err
	}
	summary := [][]any{
		{"Generated", generatedAt.Format("2006-01-02 15:04")},
		{"Gross sales today", s.GrossToday.InexactFloat64()},
		{"Transactions today", s.TransactionsToday},
		{"Pending orders today", s.PendingCountToday},
		{"Pending amount today", s.PendingAmountToday.InexactFloat64()},
		{"Average ticket today", s.AverageTicketToday.InexactFloat64()},
		{"Revenue last 7 days", s.TrendRevenue.InexactFloat64()},
		{"Average ticket last 7 days", s.AverageTicketTrend.InexactFloat64()},
	}
	if err := writeRows(f, SheetSummary, summary); err != nil {
		return nil, err
	}

	trend := [][]any{{"Date", "Day", "Revenue", "Transactions"}}
	for _, d := range s.Trend {
		trend = append(trend, []any{d.Key, d.Label, d.Revenue.InexactFloat64(), d.Transactions})
	}
	hours := [][]any{{"Hour", "Orders", "Revenue"}}
	for _, h := range s.PeakHours {
		hours = append(hours, []any{h.Label, h.Count, h.Revenue.InexactFloat64()})
	}
	recent := [][]any{{"Order", "Date", "Status", "Total"}}
	for _, o := range s.Recent {
		recent = append(recent, []any{o.OrderID, o.OrderDate, string(o.PaymentStatus), o.Total.InexactFloat64()})
	}

	for _, sheet := range []struct {
		name string
		rows [][]any
	}{{SheetTrend, trend}, {SheetHours, hours}, {SheetRecent, recent}} {
		if _, err := f.NewSheet(sheet.name); err != nil {
			return nil, err
		}
		if err := writeRows(f, sheet.name, sheet.rows); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx: write: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("xlsx: %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
