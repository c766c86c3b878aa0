package metrics

import (
	"strings"
	"testing"
)

func TestRenderIncludesCountersAndHistogram(t *testing.T) {
	IncSaves()
	IncSaveFailures()
	IncProjections()
	ObserveSaveDurationMs(12)
	ObserveSaveDurationMs(-1)

	out := Render()
	for _, want := range []string{
		"# TYPE resume_saves_total counter",
		"# TYPE resume_save_failures_total counter",
		"# TYPE resume_projections_total counter",
		"# TYPE resume_save_duration_ms histogram",
		`resume_save_duration_ms_bucket{le="+Inf"}`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestHistogramBucketsAreCumulative(t *testing.T) {
	h := newHistogram([]float64{10, 100})
	h.Observe(5)
	h.Observe(50)
	h.Observe(500)

	snap := h.Snapshot()
	if snap.count != 3 {
		t.Fatalf("expected count 3, got %d", snap.count)
	}
	if snap.counts[0] != 1 || snap.counts[1] != 2 {
		t.Fatalf("unexpected bucket counts %v", snap.counts)
	}
	if snap.sum != 555 {
		t.Fatalf("expected sum 555, got %v", snap.sum)
	}
}

func TestRenderIncludesGauges(t *testing.T) {
	IncSessionsOpened()
	IncSessionsOpened()
	IncSessionsClosed()
	RegisterGauge("db_open_connections", "Open database connections", func() float64 { return 3 })
	RegisterGauge("db_open_connections", "Open database connections", func() float64 { return 4 })

	out := Render()
	for _, want := range []string{
		"# TYPE editing_sessions_active gauge",
		"# TYPE db_open_connections gauge",
		"db_open_connections 4\n",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
	if strings.Contains(out, "db_open_connections 3\n") {
		t.Fatalf("expected re-registered gauge to replace the old reader:\n%s", out)
	}
}
