// Package monitoring tracks portal activity two ways: prometheus counters
// exported on the ops metrics port, and an in-process snapshot served to
// the UI's metrics view.
package monitoring

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus counters for the portal's main actions.
var (
	RowsNormalized = promauto.NewCounter(prometheus.CounterOpts{
		Name: "portal_rows_normalized_total",
		Help: "Spreadsheet rows normalized during bulk ingestion.",
	})
	RecordsConfirmed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "portal_records_confirmed_total",
		Help: "Inventory records confirmed into a session store.",
	})
	DriveUploads = promauto.NewCounter(prometheus.CounterOpts{
		Name: "portal_drive_uploads_total",
		Help: "Files uploaded to the shared drive folder.",
	})
	AnalysisRequests = promauto.NewCounter(prometheus.CounterOpts{
		Name: "portal_analysis_requests_total",
		Help: "LLM analysis requests sent.",
	})
)

// Monitor collects named metric values for the UI snapshot.
type Monitor struct {
	metrics      map[string]interface{}
	metricsMutex sync.RWMutex
	startTime    time.Time
}

// NewMonitor creates a new monitoring instance.
func NewMonitor() *Monitor {
	return &Monitor{
		metrics:   make(map[string]interface{}),
		startTime: time.Now(),
	}
}

// RecordMetric records a metric value.
func (m *Monitor) RecordMetric(name string, value interface{}) {
	m.metricsMutex.Lock()
	defer m.metricsMutex.Unlock()
	m.metrics[name] = value
}

// IncrementMetric adds one to an integer metric.
func (m *Monitor) IncrementMetric(name string) {
	m.metricsMutex.Lock()
	defer m.metricsMutex.Unlock()
	if current, ok := m.metrics[name].(int); ok {
		m.metrics[name] = current + 1
		return
	}
	m.metrics[name] = 1
}

// GetMetric returns a specific metric value.
func (m *Monitor) GetMetric(name string) (interface{}, bool) {
	m.metricsMutex.RLock()
	defer m.metricsMutex.RUnlock()
	value, exists := m.metrics[name]
	return value, exists
}

// GetMetrics returns all current metrics plus the process uptime.
func (m *Monitor) GetMetrics() map[string]interface{} {
	m.metricsMutex.RLock()
	defer m.metricsMutex.RUnlock()

	metrics := make(map[string]interface{}, len(m.metrics)+1)
	for k, v := range m.metrics {
		metrics[k] = v
	}
	metrics["uptime_seconds"] = time.Since(m.startTime).Seconds()
	return metrics
}

// Reset clears all metrics.
func (m *Monitor) Reset() {
	m.metricsMutex.Lock()
	defer m.metricsMutex.Unlock()
	m.metrics = make(map[string]interface{})
}
