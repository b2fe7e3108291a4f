package server

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/matzehuels/nodemap/pkg/errors"
	"github.com/matzehuels/nodemap/pkg/observability"
)

const metricsNamespace = "nodemap"

// Metrics implements the observability hooks on Prometheus collectors.
type Metrics struct {
	compileDuration prometheus.Histogram
	diagramNodes    prometheus.Histogram
	layoutDuration  *prometheus.HistogramVec
	layoutsInFlight prometheus.Gauge
	renderDuration  *prometheus.HistogramVec
	renderErrors    *prometheus.CounterVec
	cacheRequests   *prometheus.CounterVec
	cacheBytes      *prometheus.CounterVec
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
	httpInFlight    prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		compileDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "pipeline",
			Name:      "compile_duration_seconds",
			Help:      "Time to compile the DOT document and stylesheet",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		}),
		diagramNodes: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "pipeline",
			Name:      "diagram_nodes",
			Help:      "Nodes per compiled diagram",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		}),
		layoutDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "pipeline",
			Name:      "layout_duration_seconds",
			Help:      "Layout engine run time",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"layout", "status"}),
		layoutsInFlight: f.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "pipeline",
			Name:      "layouts_in_flight",
			Help:      "Layout engine runs in progress",
		}),
		renderDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "pipeline",
			Name:      "render_duration_seconds",
			Help:      "End-to-end pipeline run time",
			Buckets:   []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5, 30},
		}, []string{"formats", "status"}),
		renderErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "pipeline",
			Name:      "errors_total",
			Help:      "Failed pipeline runs by error code",
		}, []string{"code"}),
		cacheRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "cache",
			Name:      "requests_total",
			Help:      "Artifact cache lookups by format and result",
		}, []string{"format", "result"}),
		cacheBytes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "cache",
			Name:      "written_bytes_total",
			Help:      "Bytes written to the artifact cache",
		}, []string{"format"}),
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route and status",
		}, []string{"method", "route", "status"}),
		httpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		httpInFlight: f.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "requests_in_flight",
			Help:      "HTTP requests being served",
		}),
	}
}

// Register installs m as the process-wide pipeline, cache and HTTP hooks.
func (m *Metrics) Register() {
	observability.Register(observability.Hooks{Pipeline: m, Cache: m, HTTP: m})
}

func (m *Metrics) OnCompileComplete(_ context.Context, nodeCount, _ int, d time.Duration) {
	m.compileDuration.Observe(d.Seconds())
	m.diagramNodes.Observe(float64(nodeCount))
}

func (m *Metrics) OnLayoutStart(context.Context, string, int) {
	m.layoutsInFlight.Inc()
}

func (m *Metrics) OnLayoutComplete(_ context.Context, layout string, d time.Duration, err error) {
	m.layoutsInFlight.Dec()
	m.layoutDuration.WithLabelValues(layout, status(err)).Observe(d.Seconds())
}

func (m *Metrics) OnRenderStart(context.Context, []string) {}

func (m *Metrics) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	m.renderDuration.WithLabelValues(strings.Join(formats, ","), status(err)).Observe(d.Seconds())
	if err != nil {
		code := errors.GetCode(err)
		if code == "" {
			code = errors.ErrCodeInternal
		}
		m.renderErrors.WithLabelValues(string(code)).Inc()
	}
}

func (m *Metrics) OnCacheHit(_ context.Context, format string) {
	m.cacheRequests.WithLabelValues(format, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, format string) {
	m.cacheRequests.WithLabelValues(format, "miss").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, format string, size int) {
	m.cacheBytes.WithLabelValues(format).Add(float64(size))
}

func (m *Metrics) OnRequest(context.Context, string, string) {
	m.httpInFlight.Inc()
}

func (m *Metrics) OnResponse(_ context.Context, method, route string, statusCode int, d time.Duration) {
	m.httpInFlight.Dec()
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(statusCode)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

var (
	_ observability.PipelineHooks = (*Metrics)(nil)
	_ observability.CacheHooks    = (*Metrics)(nil)
	_ observability.HTTPHooks     = (*Metrics)(nil)
)
