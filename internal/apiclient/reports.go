package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"minimart/internal/apierror"
	"minimart/internal/model"
)

func (c *Client) ProfitLoss(ctx context.Context, f model.ProfitLossFilter) (*model.ProfitLossReport, error) {
	q := url.Values{}
	setIf(q, "startDate", f.StartDate)
	setIf(q, "endDate", f.EndDate)
	setID(q, "locationId", f.LocationID)
	var out model.ProfitLossReport
	if err := c.do(ctx, http.MethodGet, "/reports/profit-loss", q, nil, &out, "Failed to load profit and loss report"); err != nil {
		return nil, err
	}
	return &out, nil
}

// ActivityLogs lists entries between the optional start and end dates (yyyy-mm-dd).
// A non-array body yields an empty slice.
func (c *Client) ActivityLogs(ctx context.Context, start, end string) ([]model.ActivityLog, error) {
	q := url.Values{}
	setIf(q, "start", start)
	setIf(q, "end", end)
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/activity-logs", q, nil, &raw, "Unable to load activity logs"); err != nil {
		return nil, err
	}
	out := []model.ActivityLog{}
	if trimmed := bytes.TrimSpace(raw); len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &out); err != nil {
			return nil, apierror.Transport("Unable to load activity logs (malformed response)", err)
		}
	}
	return out, nil
}

func (c *Client) LogActivity(ctx context.Context, in model.NewActivityLog) error {
	return c.do(ctx, http.MethodPost, "/activity-logs", nil, in, nil, "Unable to log activity")
}
