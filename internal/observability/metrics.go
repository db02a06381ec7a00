package observability

import (
	"net/http"
	"strconv"
	"sync"
	"time"
)

// MetricsRegistry holds all registered metrics.
type MetricsRegistry struct {
	mu       sync.RWMutex
	counters map[string]*Counter
	gauges   map[string]*Gauge
	histos   map[string]*Histogram
}

// Counter is a monotonically increasing metric.
type Counter struct {
	name   string
	help   string
	labels map[string]string
	value  float64
	mu     sync.Mutex
}

// Gauge is a metric that can go up or down.
type Gauge struct {
	name   string
	help   string
	labels map[string]string
	value  float64
	mu     sync.Mutex
}

// Histogram tracks distribution of values.
type Histogram struct {
	name    string
	help    string
	labels  map[string]string
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
	mu      sync.Mutex
}

// NewMetricsRegistry creates a new metrics registry.
func NewMetricsRegistry() *MetricsRegistry {
	return &MetricsRegistry{
		counters: make(map[string]*Counter),
		gauges:   make(map[string]*Gauge),
		histos:   make(map[string]*Histogram),
	}
}

// NewCounter creates and registers a counter.
func (r *MetricsRegistry) NewCounter(name, help string, labels map[string]string) *Counter {
	r.mu.Lock()
	defer r.mu.Unlock()

	c := &Counter{name: name, help: help, labels: labels}
	r.counters[name] = c
	return c
}

// NewGauge creates and registers a gauge.
func (r *MetricsRegistry) NewGauge(name, help string, labels map[string]string) *Gauge {
	r.mu.Lock()
	defer r.mu.Unlock()

	g := &Gauge{name: name, help: help, labels: labels}
	r.gauges[name] = g
	return g
}

// NewHistogram creates and registers a histogram.
func (r *MetricsRegistry) NewHistogram(name, help string, labels map[string]string, buckets []float64) *Histogram {
	r.mu.Lock()
	defer r.mu.Unlock()

	if buckets == nil {
		buckets = DefaultBuckets()
	}

	h := &Histogram{
		name:    name,
		help:    help,
		labels:  labels,
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
	r.histos[name] = h
	return h
}

// DefaultBuckets returns default histogram buckets for latency.
func DefaultBuckets() []float64 {
	return []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}
}

// Inc increments a counter by 1.
func (c *Counter) Inc() {
	c.Add(1)
}

// Add adds a value to the counter.
func (c *Counter) Add(v float64) {
	c.mu.Lock()
	c.value += v
	c.mu.Unlock()
}

// Value returns the counter value.
func (c *Counter) Value() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value
}

// Set sets the gauge value.
func (g *Gauge) Set(v float64) {
	g.mu.Lock()
	g.value = v
	g.mu.Unlock()
}

// Inc increments the gauge by 1.
func (g *Gauge) Inc() {
	g.Add(1)
}

// Dec decrements the gauge by 1.
func (g *Gauge) Dec() {
	g.Add(-1)
}

// Add adds a value to the gauge.
func (g *Gauge) Add(v float64) {
	g.mu.Lock()
	g.value += v
	g.mu.Unlock()
}

// Value returns the gauge value.
func (g *Gauge) Value() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.value
}

// Observe records a value in the histogram.
func (h *Histogram) Observe(v float64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.sum += v
	h.count++

	for i, bound := range h.buckets {
		if v <= bound {
			h.counts[i]++
		}
	}
}

// ObserveDuration records a duration in the histogram.
func (h *Histogram) ObserveDuration(start time.Time) {
	h.Observe(time.Since(start).Seconds())
}

// Handler returns an HTTP handler for Prometheus metrics.
func (r *MetricsRegistry) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
		r.WritePrometheus(w)
	})
}

// WritePrometheus writes metrics in Prometheus text format.
func (r *MetricsRegistry) WritePrometheus(w http.ResponseWriter) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.counters {
		c.mu.Lock()
		writeMetric(w, c.name, "counter", c.help, c.labels, c.value)
		c.mu.Unlock()
	}

	for _, g := range r.gauges {
		g.mu.Lock()
		writeMetric(w, g.name, "gauge", g.help, g.labels, g.value)
		g.mu.Unlock()
	}

	for _, h := range r.histos {
		h.mu.Lock()
		writeHistogram(w, h)
		h.mu.Unlock()
	}
}

func writeMetric(w http.ResponseWriter, name, metricType, help string, labels map[string]string, value float64) {
	w.Write([]byte("# HELP " + name + " " + help + "\n"))
	w.Write([]byte("# TYPE " + name + " " + metricType + "\n"))
	w.Write([]byte(name + formatLabels(labels) + " "))
	w.Write([]byte(formatFloat(value) + "\n"))
}

func writeHistogram(w http.ResponseWriter, h *Histogram) {
	w.Write([]byte("# HELP " + h.name + " " + h.help + "\n"))
	w.Write([]byte("# TYPE " + h.name + " histogram\n"))

	var cumulative uint64
	for i, bound := range h.buckets {
		cumulative += h.counts[i]
		labels := copyLabels(h.labels)
		labels["le"] = formatFloat(bound)
		w.Write([]byte(h.name + "_bucket" + formatLabels(labels) + " "))
		w.Write([]byte(strconv.FormatUint(cumulative, 10) + "\n"))
	}

	labels := copyLabels(h.labels)
	labels["le"] = "+Inf"
	w.Write([]byte(h.name + "_bucket" + formatLabels(labels) + " "))
	w.Write([]byte(strconv.FormatUint(h.count, 10) + "\n"))

	w.Write([]byte(h.name + "_sum" + formatLabels(h.labels) + " "))
	w.Write([]byte(formatFloat(h.sum) + "\n"))
	w.Write([]byte(h.name + "_count" + formatLabels(h.labels) + " "))
	w.Write([]byte(strconv.FormatUint(h.count, 10) + "\n"))
}

func formatLabels(labels map[string]string) string {
	if len(labels) == 0 {
		return ""
	}
	result := "{"
	first := true
	for k, v := range labels {
		if !first {
			result += ","
		}
		result += k + "=\"" + v + "\""
		first = false
	}
	result += "}"
	return result
}

func copyLabels(labels map[string]string) map[string]string {
	if labels == nil {
		return make(map[string]string)
	}
	result := make(map[string]string, len(labels))
	for k, v := range labels {
		result[k] = v
	}
	return result
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// AnalysisMetrics contains the engine's metrics.
type AnalysisMetrics struct {
	Registry *MetricsRegistry

	// Scanner metrics
	ScansTotal      *Counter
	ScanDuration    *Histogram
	ScannedModules  *Gauge
	ScanErrorsTotal *Counter

	// Analysis metrics
	AnalysesTotal        *Counter
	AnalysisDuration     *Histogram
	CyclesDetectedTotal  *Counter
	LayerViolationsTotal *Counter

	// Graph store metrics
	StoreOpsTotal    *Counter
	StoreDuration    *Histogram
	StoreErrorsTotal *Counter

	// Active workers gauge
	ActiveWorkers *Gauge
}

// NewAnalysisMetrics creates the engine's metrics.
func NewAnalysisMetrics() *AnalysisMetrics {
	r := NewMetricsRegistry()

	return &AnalysisMetrics{
		Registry: r,

		ScansTotal:      r.NewCounter("archlens_scans_total", "Total project scans", nil),
		ScanDuration:    r.NewHistogram("archlens_scan_duration_seconds", "Scan duration", nil, nil),
		ScannedModules:  r.NewGauge("archlens_scanned_modules", "Modules in the last scan", nil),
		ScanErrorsTotal: r.NewCounter("archlens_scan_errors_total", "Total scan errors", nil),

		AnalysesTotal:        r.NewCounter("archlens_analyses_total", "Total analysis runs", nil),
		AnalysisDuration:     r.NewHistogram("archlens_analysis_duration_seconds", "Analysis duration", nil, nil),
		CyclesDetectedTotal:  r.NewCounter("archlens_cycles_detected_total", "Total circular dependencies detected", nil),
		LayerViolationsTotal: r.NewCounter("archlens_layer_violations_total", "Total layer violations detected", nil),

		StoreOpsTotal:    r.NewCounter("archlens_store_ops_total", "Total graph store writes", nil),
		StoreDuration:    r.NewHistogram("archlens_store_duration_seconds", "Graph store write duration", nil, nil),
		StoreErrorsTotal: r.NewCounter("archlens_store_errors_total", "Total graph store errors", nil),

		ActiveWorkers: r.NewGauge("archlens_active_workers", "Number of active workers", nil),
	}
}

// Handler returns an HTTP handler for the metrics endpoint.
func (m *AnalysisMetrics) Handler() http.Handler {
	return m.Registry.Handler()
}

// RecordScan records a project scan.
func (m *AnalysisMetrics) RecordScan(duration time.Duration, moduleCount int, err error) {
	m.ScansTotal.Inc()
	m.ScanDuration.Observe(duration.Seconds())
	if err != nil {
		m.ScanErrorsTotal.Inc()
		return
	}
	m.ScannedModules.Set(float64(moduleCount))
}

// RecordAnalysis records an analysis run.
func (m *AnalysisMetrics) RecordAnalysis(duration time.Duration, cycleCount, violationCount int) {
	m.AnalysesTotal.Inc()
	m.AnalysisDuration.Observe(duration.Seconds())
	m.CyclesDetectedTotal.Add(float64(cycleCount))
	m.LayerViolationsTotal.Add(float64(violationCount))
}

// RecordStore records a graph store write.
func (m *AnalysisMetrics) RecordStore(duration time.Duration, err error) {
	m.StoreOpsTotal.Inc()
	m.StoreDuration.Observe(duration.Seconds())
	if err != nil {
		m.StoreErrorsTotal.Inc()
	}
}

// Global metrics instance
var globalMetrics *AnalysisMetrics
var metricsOnce sync.Once

// Metrics returns the global metrics instance.
func Metrics() *AnalysisMetrics {
	metricsOnce.Do(func() {
		globalMetrics = NewAnalysisMetrics()
	})
	return globalMetrics
}
