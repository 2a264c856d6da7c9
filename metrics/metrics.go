package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gin-gonic/gin"
)

// Collector holds the Prometheus metrics for the booking core.
type Collector struct {
	bookingsCreated prometheus.Counter
	transitions     *prometheus.CounterVec
	requestsDecided *prometheus.CounterVec
	reviewsCreated  prometheus.Counter
}

// NewCollector creates and registers the metrics collector.
func NewCollector() *Collector {
	c := &Collector{
		bookingsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "quickstaff_bookings_created_total",
			Help: "Total number of bookings created",
		}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "quickstaff_booking_transitions_total",
			Help: "Total number of booking status transitions",
		}, []string{"to"}),
		requestsDecided: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "quickstaff_job_requests_decided_total",
			Help: "Total number of job requests accepted or rejected",
		}, []string{"decision"}),
		reviewsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "quickstaff_reviews_created_total",
			Help: "Total number of reviews accepted by the aggregator",
		}),
	}

	prometheus.MustRegister(c.bookingsCreated)
	prometheus.MustRegister(c.transitions)
	prometheus.MustRegister(c.requestsDecided)
	prometheus.MustRegister(c.reviewsCreated)

	return c
}

// RecordBookingCreated records a new booking insert.
func (c *Collector) RecordBookingCreated() {
	c.bookingsCreated.Inc()
}

// RecordTransition records a committed status transition.
func (c *Collector) RecordTransition(to string) {
	c.transitions.WithLabelValues(to).Inc()
}

// RecordRequestDecided records an accept/reject decision.
func (c *Collector) RecordRequestDecided(decision string) {
	c.requestsDecided.WithLabelValues(decision).Inc()
}

// RecordReviewCreated records a folded-in review.
func (c *Collector) RecordReviewCreated() {
	c.reviewsCreated.Inc()
}

// Handler exposes the default registry in Prometheus text format.
func Handler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}

// Default is the process-wide collector used by the route handlers.
var Default = NewCollector()
