package service

import (
	"context"
	"time"

	"minimart/internal/apiclient"
	"minimart/internal/infra"
	"minimart/internal/model"
	"minimart/internal/report"
)

type ReportService interface {
	Dashboard(ctx context.Context, sess *model.Session) (report.Overview, error)
	Sales(ctx context.Context, sess *model.Session) (report.Sales, error)
	SalesWorkbook(ctx context.Context, sess *model.Session) ([]byte, error)
	ProfitLoss(ctx context.Context, sess *model.Session, f model.ProfitLossFilter) (report.ProfitLoss, error)
	Activity(ctx context.Context, sess *model.Session, start, end string) (report.ActivityPage, error)
}

type reportService struct {
	api               *apiclient.Client
	lowStockThreshold int
	now               func() time.Time
}

func NewReportService(api *apiclient.Client, lowStockThreshold int) ReportService {
	return &reportService{api: api, lowStockThreshold: lowStockThreshold, now: time.Now}
}

func (s *reportService) Dashboard(ctx context.Context, sess *model.Session) (report.Overview, error) {
	return report.LoadDashboard(ctx, s.api.WithToken(sess.Token), s.now(), s.lowStockThreshold)
}

func (s *reportService) Sales(ctx context.Context, sess *model.Session) (report.Sales, error) {
	return report.LoadSales(ctx, s.api.WithToken(sess.Token), s.now())
}

func (s *reportService) SalesWorkbook(ctx context.Context, sess *model.Session) ([]byte, error) {
	now := s.now()
	sales, err := report.LoadSales(ctx, s.api.WithToken(sess.Token), now)
	if err != nil {
		return nil, err
	}
	return infra.SalesWorkbook(sales, now)
}

func (s *reportService) ProfitLoss(ctx context.Context, sess *model.Session, f model.ProfitLossFilter) (report.ProfitLoss, error) {
	return report.LoadProfitLoss(ctx, s.api.WithToken(sess.Token), f)
}

func (s *reportService) Activity(ctx context.Context, sess *model.Session, start, end string) (report.ActivityPage, error) {
	return report.LoadActivity(ctx, s.api.WithToken(sess.Token), start, end)
}
