package report

import (
	"context"
	"time"

	"minimart/internal/model"

	"golang.org/x/sync/errgroup"
)

// Source is the slice of the backend client the reports read from.
type Source interface {
	ListOrders(ctx context.Context) ([]model.Order, error)
	ListCustomers(ctx context.Context) ([]model.Customer, error)
	StockLevels(ctx context.Context, f model.StockFilter) ([]model.StockLevel, error)
	ProfitLoss(ctx context.Context, f model.ProfitLossFilter) (*model.ProfitLossReport, error)
	ActivityLogs(ctx context.Context, start, end string) ([]model.ActivityLog, error)
}

// LoadDashboard fetches orders, customers and stock together. The first
// failure cancels the other fetches.
func LoadDashboard(ctx context.Context, src Source, now time.Time, lowStockThreshold int) (Overview, error) {
	var (
		orders    []model.Order
		customers []model.Customer
		stock     []model.StockLevel
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		orders, err = src.ListOrders(gctx)
		return err
	})
	g.Go(func() (err error) {
		customers, err = src.ListCustomers(gctx)
		return err
	})
	g.Go(func() (err error) {
		stock, err = src.StockLevels(gctx, model.StockFilter{})
		return err
	})
	if err := g.Wait(); err != nil {
		return Overview{}, err
	}
	return Dashboard(orders, customers, stock, now, lowStockThreshold), nil
}

func LoadSales(ctx context.Context, src Source, now time.Time) (Sales, error) {
	orders, err := src.ListOrders(ctx)
	if err != nil {
		return Sales{}, err
	}
	return SalesSummary(orders, now), nil
}

// ProfitLoss pairs the backend report with its derived ratios.
type ProfitLoss struct {
	Report *model.ProfitLossReport `json:"report"`
	Ratios Ratios                  `json:"ratios"`
}

// LoadProfitLoss validates the range before touching the network.
func LoadProfitLoss(ctx context.Context, src Source, f model.ProfitLossFilter) (ProfitLoss, error) {
	if err := ValidateRange(f.StartDate, f.EndDate); err != nil {
		return ProfitLoss{}, err
	}
	r, err := src.ProfitLoss(ctx, f)
	if err != nil {
		return ProfitLoss{}, err
	}
	if r == nil {
		r = &model.ProfitLossReport{}
	}
	return ProfitLoss{Report: r, Ratios: ProfitLossRatios(*r)}, nil
}

// ActivityPage is the activity log screen payload.
type ActivityPage struct {
	Logs    []model.ActivityLog `json:"logs"`
	Summary Activity            `json:"summary"`
}

func LoadActivity(ctx context.Context, src Source, start, end string) (ActivityPage, error) {
	if err := ValidateRange(start, end); err != nil {
		return ActivityPage{}, err
	}
	logs, err := src.ActivityLogs(ctx, start, end)
	if err != nil {
		return ActivityPage{}, err
	}
	if logs == nil {
		logs = []model.ActivityLog{}
	}
	return ActivityPage{Logs: logs, Summary: ActivitySummary(logs, start, end)}, nil
}
