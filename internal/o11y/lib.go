// Package o11y pushes planner and executor telemetry to a Prometheus
// pushgateway and, optionally, records per-plan points in InfluxDB. All
// writes are best-effort: telemetry must never fail or slow a planning call.
package o11y

import (
	"context"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// MetricManager lazily materializes gauges from a GaugeVec and registers
// them with the pusher.
type MetricManager struct {
	labelNames []string
	gauges     *prometheus.GaugeVec
	metrics    map[string]prometheus.Gauge
	pusher     *push.Pusher
	mu         sync.Mutex
}

func NewMetricManager(pusher *push.Pusher, name, help string, labelNames []string) *MetricManager {
	g := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: name,
			Help: help,
		},
		labelNames,
	)
	return &MetricManager{
		gauges:     g,
		labelNames: labelNames,
		metrics:    make(map[string]prometheus.Gauge),
		pusher:     pusher,
	}
}

// Telemetry is the process-wide sink for planner metrics. A nil *Telemetry
// is valid and drops everything, so callers never branch on whether metrics
// are enabled.
type Telemetry struct {
	pusher      *push.Pusher
	planCounter *prometheus.CounterVec
	planCost    *MetricManager
	planNodes   *MetricManager
	planMillis  *MetricManager

	influxURL    string
	influxToken  string
	influxOrg    string
	influxBucket string
}

// Options configures the telemetry sinks. Empty fields disable that sink.
type Options struct {
	PushgatewayURL string
	JobName        string
	InfluxURL      string
	InfluxToken    string
	InfluxOrg      string
	InfluxBucket   string
}

// New creates a telemetry sink. Returns nil when no pushgateway is
// configured, which disables all recording.
func New(opts Options) *Telemetry {
	if opts.PushgatewayURL == "" {
		return nil
	}
	job := opts.JobName
	if job == "" {
		job = "hexplan_pusher"
	}
	pusher := push.New(opts.PushgatewayURL, job)

	t := &Telemetry{
		pusher: pusher,
		planCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "goap_plans_total",
				Help: "Planning calls by agent and outcome.",
			},
			[]string{"agent", "outcome"}),
		planCost:     NewMetricManager(pusher, "goap_plan_cost", "Total cost of the last plan", []string{"agent"}),
		planNodes:    NewMetricManager(pusher, "goap_plan_expansions", "Nodes expanded by the last search", []string{"agent"}),
		planMillis:   NewMetricManager(pusher, "goap_plan_duration_ms", "Duration of the last search", []string{"agent"}),
		influxURL:    opts.InfluxURL,
		influxToken:  opts.InfluxToken,
		influxOrg:    opts.InfluxOrg,
		influxBucket: opts.InfluxBucket,
	}
	pusher.Collector(t.planCounter)
	return t
}

// ObservePlan records one planning call's outcome and pushes asynchronously.
func (t *Telemetry) ObservePlan(agent, outcome string, cost float64, expansions int, elapsed time.Duration) {
	if t == nil {
		return
	}
	labels := map[string]string{"agent": agent}
	t.planCounter.WithLabelValues(agent, outcome).Inc()
	t.planCost.GetGauge(labels).Set(cost)
	t.planNodes.GetGauge(labels).Set(float64(expansions))
	t.planMillis.GetGauge(labels).Set(float64(elapsed.Milliseconds()))

	// launch a goroutine to do the pushing
	go func() {
		if err := t.pusher.Push(); err != nil {
			log.Println("Error pushing data to Pushgateway:", err)
		}
	}()
}

// Record writes a single measurement point to InfluxDB, when configured.
func (t *Telemetry) Record(name string, tags map[string]string, fields map[string]interface{}) {
	if t == nil || t.influxURL == "" {
		return
	}
	client := influxdb2.NewClient(t.influxURL, t.influxToken)
	defer client.Close()
	writeAPI := client.WriteAPIBlocking(t.influxOrg, t.influxBucket)
	point := write.NewPoint(name, tags, fields, time.Now())
	if err := writeAPI.WritePoint(context.Background(), point); err != nil {
		log.Println("Error writing point to InfluxDB:", err)
	}
}

func isUnorderedEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	sort.Strings(a)
	sort.Strings(b)
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// GetGauge returns the gauge for the given label values, creating and
// registering it on first use.
func (m *MetricManager) GetGauge(labelValues map[string]string) prometheus.Gauge {
	m.mu.Lock()
	defer m.mu.Unlock()

	var keys []string
	for k := range labelValues {
		keys = append(keys, k)
	}
	if !isUnorderedEqual(keys, m.labelNames) {
		log.Fatal("labelNames do not match labelValues")
	}

	key := m.createKey(labelValues)
	if gauge, exists := m.metrics[key]; exists {
		return gauge
	}

	gauge := m.gauges.With(labelValues)
	m.metrics[key] = gauge
	m.pusher.Collector(gauge)
	return gauge
}

func (m *MetricManager) createKey(labelValues map[string]string) string {
	var labels []string
	for _, v := range labelValues {
		labels = append(labels, v)
	}
	sort.Strings(labels)
	return strings.Join(labels, "|")
}
