package service

import (
	"context"
	"sync"

	"minimart/internal/apiclient"
	"minimart/internal/apierror"
	"minimart/internal/authz"
	"minimart/internal/model"
	"minimart/internal/report"

	"github.com/rs/zerolog/log"
)

type NavigationService interface {
	// Counters fetches the badge counts the role's menu shows. Each count that
	// fails to load is reported as 0.
	Counters(ctx context.Context, sess *model.Session) authz.Counters
	Navigation(ctx context.Context, sess *model.Session) []authz.Section
}

type navigationService struct {
	api               *apiclient.Client
	policy            *authz.Policy
	lowStockThreshold int
}

func NewNavigationService(api *apiclient.Client, policy *authz.Policy, lowStockThreshold int) NavigationService {
	return &navigationService{api: api, policy: policy, lowStockThreshold: lowStockThreshold}
}

func (s *navigationService) Navigation(ctx context.Context, sess *model.Session) []authz.Section {
	return s.policy.BuildNavigation(sess.Role(), s.Counters(ctx, sess))
}

func (s *navigationService) Counters(ctx context.Context, sess *model.Session) authz.Counters {
	var c authz.Counters
	if !sess.Valid() {
		return c
	}
	wantPending, wantLow := s.policy.Wants(sess.Role())
	api := s.api.WithToken(sess.Token)

	var wg sync.WaitGroup
	if wantPending {
		wg.Add(1)
		go func() {
			defer wg.Done()
			orders, err := api.ListOrders(ctx)
			if err != nil {
				logCounterFailure("pending_orders", err)
				return
			}
			for _, o := range orders {
				if !o.Paid() {
					c.PendingOrders++
				}
			}
		}()
	}
	if wantLow {
		wg.Add(1)
		go func() {
			defer wg.Done()
			stock, err := api.StockLevels(ctx, model.StockFilter{})
			if err != nil {
				logCounterFailure("low_stock", err)
				return
			}
			c.LowStock = report.LowStockCount(stock, s.lowStockThreshold)
		}()
	}
	wg.Wait()
	return c
}

func logCounterFailure(counter string, err error) {
	if apierror.IsCancelled(err) {
		return
	}
	log.Warn().Err(err).Str("counter", counter).Msg("navigation: counter unavailable")
}
