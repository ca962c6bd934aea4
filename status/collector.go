package status

import (
	"strings"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
)

// Namespace prefixes every exported metric name
const Namespace = "simon"

// Collector exposes a Registry to Prometheus
// Keys are read at scrape time, so metrics registered after construction are included
type Collector struct {
	reg *Registry
}

// NewCollector wraps reg as a prometheus.Collector
func NewCollector(reg *Registry) *Collector {
	return &Collector{reg: reg}
}

// Describe sends nothing; the collector is unchecked since keys appear at runtime
func (c *Collector) Describe(chan<- *prometheus.Desc) {}

// Collect implements prometheus.Collector
// Ints and bools become gauges, counters gain a _total suffix,
// strings become info gauges with a value label
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.reg.Ints.Range(func(key string, ptr *atomic.Int64) {
		desc := prometheus.NewDesc(MetricName(key), key, nil, nil)
		ch <- prometheus.MustNewConstMetric(desc, prometheus.GaugeValue, float64(ptr.Load()))
	})
	c.reg.Counters.Range(func(key string, ptr *atomic.Int64) {
		desc := prometheus.NewDesc(MetricName(key)+"_total", key, nil, nil)
		ch <- prometheus.MustNewConstMetric(desc, prometheus.CounterValue, float64(ptr.Load()))
	})
	c.reg.Bools.Range(func(key string, ptr *atomic.Bool) {
		v := 0.0
		if ptr.Load() {
			v = 1
		}
		desc := prometheus.NewDesc(MetricName(key), key, nil, nil)
		ch <- prometheus.MustNewConstMetric(desc, prometheus.GaugeValue, v)
	})
	c.reg.Strings.Range(func(key string, ptr *AtomicString) {
		desc := prometheus.NewDesc(MetricName(key)+"_info", key, []string{"value"}, nil)
		ch <- prometheus.MustNewConstMetric(desc, prometheus.GaugeValue, 1, ptr.Load())
	})
}

// MetricName converts a dotted registry key to a Prometheus metric name
func MetricName(key string) string {
	var b strings.Builder
	b.WriteString(Namespace)
	b.WriteByte('_')
	for _, r := range key {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
