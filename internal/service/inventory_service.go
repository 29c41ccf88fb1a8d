package service

import (
	"context"
	"fmt"
	"time"

	"minimart/internal/apiclient"
	"minimart/internal/apierror"
	"minimart/internal/live"
	"minimart/internal/model"
)

const (
	MsgInvalidMovementType = "Movement type must be PURCHASE, SALE, RETURN or ADJUSTMENT."
	MsgZeroQuantity        = "Quantity must not be zero."
)

// InventoryService reads stock from the backend and records adjustments.
type InventoryService interface {
	StockLevels(ctx context.Context, sess *model.Session, f model.StockFilter) ([]model.StockLevel, error)
	Movements(ctx context.Context, sess *model.Session, f model.MovementFilter) ([]model.StockMovement, error)
	Adjust(ctx context.Context, sess *model.Session, in model.InventoryAdjustment) (*model.StockMovement, error)
}

type inventoryService struct {
	api       *apiclient.Client
	jobs      JobQueue
	publisher live.Publisher
	now       func() time.Time
}

func NewInventoryService(api *apiclient.Client, jobs JobQueue, publisher live.Publisher) InventoryService {
	return &inventoryService{api: api, jobs: jobs, publisher: publisher, now: time.Now}
}

func (s *inventoryService) StockLevels(ctx context.Context, sess *model.Session, f model.StockFilter) ([]model.StockLevel, error) {
	return s.api.WithToken(sess.Token).StockLevels(ctx, f)
}

func (s *inventoryService) Movements(ctx context.Context, sess *model.Session, f model.MovementFilter) ([]model.StockMovement, error) {
	return s.api.WithToken(sess.Token).StockMovements(ctx, f)
}

func (s *inventoryService) Adjust(ctx context.Context, sess *model.Session, in model.InventoryAdjustment) (*model.StockMovement, error) {
	switch in.MovementType {
	case model.MovementPurchase, model.MovementSale, model.MovementReturn, model.MovementAdjustment:
	default:
		return nil, apierror.Validation(MsgInvalidMovementType)
	}
	if in.Quantity == 0 {
		return nil, apierror.Validation(MsgZeroQuantity)
	}

	mv, err := s.api.WithToken(sess.Token).AdjustStock(ctx, in)
	if err != nil {
		return nil, err
	}

	recordActivity(ctx, s.jobs, sess, fmt.Sprintf("Adjusted stock of product %d by %d (%s)", in.ProductID, in.Quantity, in.MovementType), s.now())
	if s.publisher != nil {
		s.publisher.Publish(live.Event{
			Type: live.EventStockAdjusted,
			Data: map[string]int64{"productId": in.ProductID, "locationId": in.LocationID},
		})
	}
	return mv, nil
}
