package clients

import (
	"context"
	"net/http"
)

// ReservationsClient proxies the booking service's reservation endpoints on
// behalf of the authenticated web session.
type ReservationsClient struct {
	base *BaseClient
}

// NewReservationsClient returns a client for the booking service base URL.
func NewReservationsClient(baseURL string, httpClient HTTPDoer) *ReservationsClient {
	return &ReservationsClient{base: NewBaseClient(baseURL, httpClient)}
}

// Create books a slot for the user behind the token.
func (c *ReservationsClient) Create(ctx context.Context, token string, body []byte) (int, []byte, error) {
	return c.base.Do(ctx, http.MethodPost, "/api/reservations", body, bearer(token))
}

// ListMine lists the user's reservations.
func (c *ReservationsClient) ListMine(ctx context.Context, token string) (int, []byte, error) {
	return c.base.Do(ctx, http.MethodGet, "/api/reservations/me", nil, bearer(token))
}

// MyStats fetches the user's usage statistics.
func (c *ReservationsClient) MyStats(ctx context.Context, token string) (int, []byte, error) {
	return c.base.Do(ctx, http.MethodGet, "/api/reservations/myStats", nil, bearer(token))
}

// Cancel cancels one reservation.
func (c *ReservationsClient) Cancel(ctx context.Context, token, reservationID string) (int, []byte, error) {
	return c.base.Do(ctx, http.MethodPut, "/api/reservations/"+reservationID+"/cancel", nil, bearer(token))
}
