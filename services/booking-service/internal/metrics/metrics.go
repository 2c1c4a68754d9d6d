// Package metrics registers the booking service Prometheus collectors.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector tracks reservation activity.
type Collector struct {
	reservationsTotal    prometheus.Counter
	reservationsCanceled prometheus.Counter
	reservationErrors    prometheus.Counter
	creationSeconds      prometheus.Histogram
}

// NewCollector registers reservation metrics with the given registry.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		reservationsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "reservations_total",
			Help: "Total number of reservations created.",
		}),
		reservationsCanceled: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "reservations_canceled_total",
			Help: "Total number of reservations canceled.",
		}),
		reservationErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "reservation_errors_total",
			Help: "Total number of failed reservation attempts.",
		}),
		creationSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "reservation_creation_seconds",
			Help:    "Time taken to create a reservation.",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		c.reservationsTotal,
		c.reservationsCanceled,
		c.reservationErrors,
		c.creationSeconds,
	)

	return c
}

// ReservationCreated records a successful booking.
func (c *Collector) ReservationCreated() {
	c.reservationsTotal.Inc()
}

// ReservationCanceled records a cancellation.
func (c *Collector) ReservationCanceled() {
	c.reservationsCanceled.Inc()
}

// ReservationError records a failed booking attempt.
func (c *Collector) ReservationError() {
	c.reservationErrors.Inc()
}

// ObserveCreation records how long a booking took.
func (c *Collector) ObserveCreation(d time.Duration) {
	c.creationSeconds.Observe(d.Seconds())
}

// Handler serves the scrape endpoint for the registry.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
