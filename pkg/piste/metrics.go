package piste

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "droitfr",
		Subsystem: "piste",
		Name:      "requests_total",
		Help:      "PISTE API requests by service, method and status class.",
	}, []string{"service", "method", "status"})
	metricRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "droitfr",
		Subsystem: "piste",
		Name:      "request_duration_seconds",
		Help:      "PISTE API request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"service", "method"})
	metricTokenFetches = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "droitfr",
		Subsystem: "piste",
		Name:      "token_fetches_total",
		Help:      "OAuth token requests sent to the PISTE gateway.",
	}, []string{"result"})
)

func statusClass(code int) string {
	switch {
	case code == 0:
		return "error"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}
