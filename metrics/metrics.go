// Package metrics exposes Prometheus collectors for platform calls.
package metrics

import (
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "walacor_sdk"

// Collector implements dto.RequestObserver.
type Collector struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	logins   *prometheus.CounterVec
}

// NewCollector creates the collectors and registers them with reg when it is
// not nil.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of platform HTTP requests.",
			},
			[]string{"method", "path", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "Duration of platform HTTP requests.",
				Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12), // 5ms to ~10s
			},
			[]string{"method", "path"},
		),
		logins: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "auth",
				Name:      "logins_total",
				Help:      "Total number of login attempts.",
			},
			[]string{"success"},
		),
	}
	if reg != nil {
		for _, col := range []prometheus.Collector{c.requests, c.duration, c.logins} {
			if err := reg.Register(col); err != nil {
				return nil, err
			}
		}
	}
	return c, nil
}

func (c *Collector) ObserveRequest(method, path string, status int, elapsed time.Duration) {
	p := normalizePath(path)
	c.requests.WithLabelValues(method, p, strconv.Itoa(status)).Inc()
	c.duration.WithLabelValues(method, p).Observe(elapsed.Seconds())
}

func (c *Collector) ObserveAuth(success bool) {
	c.logins.WithLabelValues(strconv.FormatBool(success)).Inc()
}

// schemaRoutes are the fixed segments after "schemas/". Any other segment
// there is a schema document id.
var schemaRoutes = map[string]bool{
	"dataTypes":     true,
	"envelopeTypes": true,
	"schemaList":    true,
	"systemFields":  true,
	"versions":      true,
}

// normalizePath drops the query string and replaces numeric segments and
// schema document ids to keep label cardinality bounded.
func normalizePath(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	parts := strings.Split(strings.Trim(path, "/"), "/")
	for i, part := range parts {
		if _, err := strconv.Atoi(part); err == nil {
			parts[i] = ":id"
			continue
		}
		if i == 1 && parts[0] == "schemas" && part != "" && !schemaRoutes[part] {
			parts[i] = ":id"
		}
	}
	return strings.Join(parts, "/")
}
