package dto

import (
	"minimart/internal/authz"
	"minimart/internal/model"
)

type ProfitLossQuery struct {
	StartDate  string `form:"startDate"  validate:"required,datetime=2006-01-02"`
	EndDate    string `form:"endDate"    validate:"required,datetime=2006-01-02"`
	LocationID *int64 `form:"locationId"`
}

func (q ProfitLossQuery) Filter() model.ProfitLossFilter {
	return model.ProfitLossFilter{StartDate: q.StartDate, EndDate: q.EndDate, LocationID: q.LocationID}
}

// ScreenResponse is the shell the SPA renders around a console screen.
type ScreenResponse struct {
	Screen       string             `json:"screen"`
	Title        string             `json:"title"`
	User         *model.SessionUser `json:"user,omitempty"`
	Navigation   []authz.Section    `json:"navigation,omitempty"`
	DefaultRoute string             `json:"defaultRoute,omitempty"`
	Next         string             `json:"next,omitempty"`
}
