package dto

import "minimart/internal/model"

type AdjustStockRequest struct {
	ProductID    int64  `json:"productId"    validate:"required,gt=0"`
	LocationID   int64  `json:"locationId"   validate:"required,gt=0"`
	MovementType string `json:"movementType" validate:"required"`
	Quantity     int    `json:"quantity"`
	Reference    string `json:"reference"    validate:"max=120"`
	Note         string `json:"note"         validate:"max=255"`
}

func (r AdjustStockRequest) Adjustment() model.InventoryAdjustment {
	return model.InventoryAdjustment{
		ProductID:    r.ProductID,
		LocationID:   r.LocationID,
		MovementType: model.MovementType(r.MovementType),
		Quantity:     r.Quantity,
		Reference:    r.Reference,
		Note:         r.Note,
	}
}

type StockQuery struct {
	ProductID  *int64 `form:"productId"`
	LocationID *int64 `form:"locationId"`
}

func (q StockQuery) Filter() model.StockFilter {
	return model.StockFilter{ProductID: q.ProductID, LocationID: q.LocationID}
}

type MovementQuery struct {
	ProductID  *int64 `form:"productId"`
	LocationID *int64 `form:"locationId"`
	StartDate  string `form:"startDate" validate:"omitempty,datetime=2006-01-02"`
	EndDate    string `form:"endDate"   validate:"omitempty,datetime=2006-01-02"`
}

func (q MovementQuery) Filter() model.MovementFilter {
	return model.MovementFilter{
		ProductID:  q.ProductID,
		LocationID: q.LocationID,
		StartDate:  q.StartDate,
		EndDate:    q.EndDate,
	}
}
