package geolocation

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultTimeout = 10 * time.Second

	// maxResponseSize bounds the body read from the lookup service.
	maxResponseSize = 64 << 10
)

// IPAPI looks up the host's approximate location from its public IP using
// the ip-api.com JSON endpoint.
type IPAPI struct {
	url        string
	httpClient *http.Client
}

// ipapiResponse is the subset of fields requested via ?fields=status,message,lat,lon.
type ipapiResponse struct {
	Status  string   `json:"status"`
	Message string   `json:"message"`
	Lat     *float64 `json:"lat"`
	Lon     *float64 `json:"lon"`
}

// NewIPAPI creates a lookup against url. A zero timeout uses the default.
func NewIPAPI(url string, timeout time.Duration) *IPAPI {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &IPAPI{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Locate performs one lookup. Any failure wraps ErrUnavailable; there is no retry.
func (p *IPAPI) Locate(ctx context.Context) (Location, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return Location{}, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return Location{}, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return Location{}, fmt.Errorf("%w: lookup returned status %d", ErrUnavailable, resp.StatusCode)
	}

	var body ipapiResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(&body); err != nil {
		return Location{}, fmt.Errorf("%w: decoding response: %w", ErrUnavailable, err)
	}

	// status is only present when requested; its absence is not a failure.
	if body.Status != "" && body.Status != "success" {
		return Location{}, fmt.Errorf("%w: lookup failed: %s", ErrUnavailable, body.Message)
	}
	if body.Lat == nil || body.Lon == nil {
		return Location{}, fmt.Errorf("%w: response has no coordinates", ErrUnavailable)
	}

	loc := Location{Latitude: *body.Lat, Longitude: *body.Lon}
	if err := loc.Validate(); err != nil {
		return Location{}, err
	}
	return loc, nil
}
