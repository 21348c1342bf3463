package calendar

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"slotbook/internal/domain/timewindow"
	"slotbook/internal/pkg/config"
	"slotbook/internal/pkg/errs"
)

var (
	// ErrUnauthorized signals the professional's calendar connection is no
	// longer valid; callers downgrade the connection state and surface a
	// reconnect flow outside this core.
	ErrUnauthorized = errors.New("calendar authorization failed")
	ErrUnavailable  = errors.New("calendar source unavailable")
)

// BusySource supplies externally-sourced busy periods. Fetching is the
// collaborator's concern; availability computation only consumes the
// already-fetched windows and never retries on its own.
type BusySource interface {
	ListBusyPeriods(ctx context.Context, calendarRef string, rangeStart, rangeEnd time.Time) ([]timewindow.Window, error)
}

type HTTPClient struct {
	baseURL string
	client  *http.Client
}

func NewHTTPClient(cfg config.CalendarConfig) *HTTPClient {
	return &HTTPClient{
		baseURL: cfg.BaseURL,
		client:  &http.Client{Timeout: cfg.Timeout},
	}
}

type busyPeriodPayload struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func (c *HTTPClient) ListBusyPeriods(ctx context.Context, calendarRef string, rangeStart, rangeEnd time.Time) ([]timewindow.Window, error) {
	endpoint := fmt.Sprintf("%s/calendars/%s/busy?%s", c.baseURL, url.PathEscape(calendarRef), url.Values{
		"from": {rangeStart.Format(time.RFC3339)},
		"to":   {rangeEnd.Format(time.RFC3339)},
	}.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errs.Wrap(err, "failed to build busy-period request")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errs.Mark(err, ErrUnavailable)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, ErrUnauthorized
	case resp.StatusCode != http.StatusOK:
		return nil, errs.Mark(fmt.Errorf("calendar responded %d", resp.StatusCode), ErrUnavailable)
	}

	var payload []busyPeriodPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, errs.Mark(err, ErrUnavailable)
	}

	busy := make([]timewindow.Window, 0, len(payload))
	for _, p := range payload {
		if !p.Start.Before(p.End) {
			// Zero-length or inverted periods contribute nothing.
			continue
		}
		busy = append(busy, timewindow.Reconstruct(p.Start, p.End))
	}
	return busy, nil
}
