package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Storefront records catalog, cart and HTTP metrics. A nil *Storefront is a
// valid no-op recorder.
type Storefront struct {
	catalogDuration *prometheus.HistogramVec
	emptyPages      prometheus.Counter
	cartAdditions   *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
	httpRequests    *prometheus.CounterVec
}

// NewStorefront registers the storefront metrics on the provided registerer.
func NewStorefront(reg prometheus.Registerer) *Storefront {
	if reg == nil {
		return &Storefront{}
	}
	catalogDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "catalog_query_duration_seconds",
		Help:    "Duration of catalog queries in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "outcome"})
	emptyPages := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "catalog_empty_pages_total",
		Help: "Listing requests whose page was past the last page.",
	})
	cartAdditions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_additions_total",
		Help: "Add-to-cart attempts by outcome.",
	}, []string{"outcome"})
	httpDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
	httpRequests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "HTTP requests by method, route and status code.",
	}, []string{"method", "route", "status"})

	reg.MustRegister(catalogDuration, emptyPages, cartAdditions, httpDuration, httpRequests)
	return &Storefront{
		catalogDuration: catalogDuration,
		emptyPages:      emptyPages,
		cartAdditions:   cartAdditions,
		httpDuration:    httpDuration,
		httpRequests:    httpRequests,
	}
}

// ObserveCatalogQuery records the duration of a catalog read.
func (s *Storefront) ObserveCatalogQuery(operation string, err error, duration time.Duration) {
	if s == nil || s.catalogDuration == nil {
		return
	}
	s.catalogDuration.WithLabelValues(normalizeLabel(operation), outcome(err)).Observe(duration.Seconds())
}

// IncEmptyPage counts a listing page requested past the end of the result set.
func (s *Storefront) IncEmptyPage() {
	if s == nil || s.emptyPages == nil {
		return
	}
	s.emptyPages.Inc()
}

// IncCartAddition counts an add-to-cart attempt.
func (s *Storefront) IncCartAddition(err error) {
	if s == nil || s.cartAdditions == nil {
		return
	}
	s.cartAdditions.WithLabelValues(outcome(err)).Inc()
}

// ObserveHTTPRequest records one served request. route should be the matched
// route pattern, not the raw path, to keep label cardinality bounded.
func (s *Storefront) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	if s == nil || s.httpRequests == nil {
		return
	}
	route = normalizeLabel(route)
	s.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	s.httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func outcome(err error) string {
	if err != nil {
		return OutcomeError
	}
	return OutcomeOK
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
