package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gregjones/httpcache"
	"golang.org/x/time/rate"
)

// HTTPDoer is the http.Client subset the provider client needs.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

const (
	defaultCallTimeout = 10 * time.Second
	// Provider quota protection: sustained 10 req/s with small bursts.
	defaultRateLimit = 10
	defaultBurst     = 5
)

// Client talks to a Google-Maps-shaped places web service. Responses for
// geocode and details lookups are effectively static, so the default transport
// carries an in-memory HTTP cache; all calls go through a client-side rate
// limiter and a per-call timeout.
type Client struct {
	baseURL     string
	apiKey      string
	http        HTTPDoer
	limiter     *rate.Limiter
	callTimeout time.Duration
}

// NewClient builds a provider client with a caching transport.
func NewClient(baseURL, apiKey string) *Client {
	transport := httpcache.NewMemoryCacheTransport()
	return NewClientWithHTTP(baseURL, apiKey, &http.Client{
		Transport: transport,
		Timeout:   defaultCallTimeout,
	})
}

// NewClientWithHTTP builds a provider client around a caller-supplied HTTP
// client. Intended for tests with httptest servers.
func NewClientWithHTTP(baseURL, apiKey string, doer HTTPDoer) *Client {
	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		apiKey:      apiKey,
		http:        doer,
		limiter:     rate.NewLimiter(defaultRateLimit, defaultBurst),
		callTimeout: defaultCallTimeout,
	}
}

var _ Provider = (*Client)(nil)

type geocodeResponse struct {
	Status  string `json:"status"`
	Results []struct {
		Geometry struct {
			Location Coordinates `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// Geocode resolves a free-text address to candidate coordinates.
func (c *Client) Geocode(ctx context.Context, address string) ([]Coordinates, error) {
	query := url.Values{"address": {address}}
	var resp geocodeResponse
	if err := c.get(ctx, "/maps/api/geocode/json", query, &resp); err != nil {
		return nil, err
	}
	if err := checkStatus(resp.Status); err != nil {
		return nil, err
	}

	coords := make([]Coordinates, 0, len(resp.Results))
	for _, r := range resp.Results {
		coords = append(coords, r.Geometry.Location)
	}
	return coords, nil
}

type nearbyResponse struct {
	Status  string `json:"status"`
	Results []struct {
		PlaceID  string `json:"place_id"`
		Name     string `json:"name"`
		Vicinity string `json:"vicinity"`
		Geometry struct {
			Location Coordinates `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// NearbySearch lists places of the given category around center, preserving
// provider response order.
func (c *Client) NearbySearch(ctx context.Context, center Coordinates, radiusMeters int, category string) ([]PlaceSummary, error) {
	query := url.Values{
		"location": {fmt.Sprintf("%f,%f", center.Lat, center.Lng)},
		"radius":   {strconv.Itoa(radiusMeters)},
		"type":     {category},
	}
	var resp nearbyResponse
	if err := c.get(ctx, "/maps/api/place/nearbysearch/json", query, &resp); err != nil {
		return nil, err
	}
	if err := checkStatus(resp.Status); err != nil {
		return nil, err
	}

	places := make([]PlaceSummary, 0, len(resp.Results))
	for _, r := range resp.Results {
		places = append(places, PlaceSummary{
			PlaceID:  r.PlaceID,
			Name:     r.Name,
			Address:  r.Vicinity,
			Location: r.Geometry.Location,
		})
	}
	return places, nil
}

type detailsResponse struct {
	Status string `json:"status"`
	Result struct {
		PlaceID  string `json:"place_id"`
		Name     string `json:"name"`
		Address  string `json:"formatted_address"`
		Geometry struct {
			Location Coordinates `json:"location"`
		} `json:"geometry"`
		Rating         *float64 `json:"rating"`
		BusinessStatus string   `json:"business_status"`
		OpeningHours   struct {
			WeekdayText []string `json:"weekday_text"`
		} `json:"opening_hours"`
	} `json:"result"`
}

// GetDetails fetches the enrichment fields for one place.
func (c *Client) GetDetails(ctx context.Context, placeID string) (*PlaceDetail, error) {
	query := url.Values{
		"place_id": {placeID},
		"fields":   {"place_id,name,formatted_address,geometry,rating,business_status,opening_hours"},
	}
	var resp detailsResponse
	if err := c.get(ctx, "/maps/api/place/details/json", query, &resp); err != nil {
		return nil, err
	}
	if err := checkStatus(resp.Status); err != nil {
		return nil, err
	}

	return &PlaceDetail{
		PlaceSummary: PlaceSummary{
			PlaceID:  resp.Result.PlaceID,
			Name:     resp.Result.Name,
			Address:  resp.Result.Address,
			Location: resp.Result.Geometry.Location,
		},
		Rating:         resp.Result.Rating,
		BusinessStatus: resp.Result.BusinessStatus,
		OpeningHours:   resp.Result.OpeningHours.WeekdayText,
	}, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()

	query.Set("key", c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("geo: %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("geo: read %s: %w", path, err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("geo: %s returned %d", path, resp.StatusCode)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("geo: decode %s: %w", path, err)
	}
	return nil
}

// checkStatus maps provider status strings onto errors. ZERO_RESULTS is a
// successful empty answer, not a failure.
func checkStatus(status string) error {
	switch status {
	case "OK", "ZERO_RESULTS":
		return nil
	default:
		return fmt.Errorf("geo: provider status %s", status)
	}
}
