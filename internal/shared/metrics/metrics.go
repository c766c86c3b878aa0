package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/gin-gonic/gin"
)

var (
	savesTotal          atomic.Uint64
	saveFailuresTotal   atomic.Uint64
	projectionsTotal    atomic.Uint64
	projectionCacheHits atomic.Uint64
	sessionsOpened      atomic.Uint64
	sessionsClosed      atomic.Uint64

	saveDuration = newHistogram([]float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 10000})

	gaugesMu sync.RWMutex
	gauges   = map[string]gauge{}
)

type gauge struct {
	help string
	read func() float64
}

// RegisterGauge exposes read as a gauge sampled on every scrape. Registering
// the same name again replaces the previous reader.
func RegisterGauge(name, help string, read func() float64) {
	gaugesMu.Lock()
	defer gaugesMu.Unlock()
	gauges[name] = gauge{help: help, read: read}
}

// IncSaves increments the successful save counter.
func IncSaves() {
	savesTotal.Add(1)
}

// IncSaveFailures increments the failed save counter.
func IncSaveFailures() {
	saveFailuresTotal.Add(1)
}

// IncProjections increments the template projection counter.
func IncProjections() {
	projectionsTotal.Add(1)
}

// IncProjectionCacheHits counts projections served from the cache.
func IncProjectionCacheHits() {
	projectionCacheHits.Add(1)
}

// IncSessionsOpened counts editing sessions opened.
func IncSessionsOpened() {
	sessionsOpened.Add(1)
}

// IncSessionsClosed counts editing sessions closed.
func IncSessionsClosed() {
	sessionsClosed.Add(1)
}

// ObserveSaveDurationMs records a save duration in milliseconds.
func ObserveSaveDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	saveDuration.Observe(value)
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render renders metrics in Prometheus text format.
func Render() string {
	var buf bytes.Buffer
	writeCounter(&buf, "resume_saves_total", "Total successful resume saves", savesTotal.Load())
	writeCounter(&buf, "resume_save_failures_total", "Total failed resume saves", saveFailuresTotal.Load())
	writeCounter(&buf, "resume_projections_total", "Total template projections", projectionsTotal.Load())
	writeCounter(&buf, "resume_projection_cache_hits_total", "Projections served from cache", projectionCacheHits.Load())
	writeCounter(&buf, "editing_sessions_opened_total", "Editing sessions opened", sessionsOpened.Load())
	writeCounter(&buf, "editing_sessions_closed_total", "Editing sessions closed", sessionsClosed.Load())
	writeGauge(&buf, "editing_sessions_active", "Editing sessions currently open", activeSessions())
	writeRegisteredGauges(&buf)
	writeHistogram(&buf, "resume_save_duration_ms", "Resume save duration in milliseconds", saveDuration.Snapshot())
	return buf.String()
}

func activeSessions() float64 {
	opened, closed := sessionsOpened.Load(), sessionsClosed.Load()
	if closed > opened {
		return 0
	}
	return float64(opened - closed)
}

type histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type histogramSnapshot struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(buckets []float64) *histogram {
	return &histogram{
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
	return out
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

func writeGauge(buf *bytes.Buffer, name, help string, value float64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s gauge\n", name)
	fmt.Fprintf(buf, "%s %s\n", name, formatFloat(value))
}

func writeRegisteredGauges(buf *bytes.Buffer) {
	gaugesMu.RLock()
	names := make([]string, 0, len(gauges))
	for name := range gauges {
		names = append(names, name)
	}
	gaugesMu.RUnlock()
	sort.Strings(names)

	for _, name := range names {
		gaugesMu.RLock()
		g, ok := gauges[name]
		gaugesMu.RUnlock()
		if ok {
			writeGauge(buf, name, g.help, g.read())
		}
	}
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	// Observe already counts into every bucket at or above the value.
	for i, bound := range snap.buckets {
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), snap.counts[i])
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %s\n", name, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}
