package observability

import (
	"strings"
	"testing"
	"time"
)

func TestMetricsExposition(t *testing.T) {
	t.Parallel()

	m := NewMetrics()
	m.AcquireIssued("question", "POOL")
	m.AcquireIssued("question", "FALLBACK")
	m.RateLimited("question")
	m.GeneratorError("todo")
	m.RefillCompleted("todo", "tick", "corpus", 8)
	m.SetPoolOccupancy("question", "DAILY", 17)
	m.ObserveAPI("POST", "/api/content/questions/next", "200", 3*time.Millisecond)

	var b strings.Builder
	if err := m.WritePrometheus(&b); err != nil {
		t.Fatalf("write: %v", err)
	}
	out := b.String()

	for _, want := range []string{
		`content_acquire_total{class="question",origin="POOL"} 1`,
		`content_rate_limited_total{class="question"} 1`,
		`content_generator_errors_total{class="todo"} 1`,
		`content_refill_items_total{class="todo",trigger="tick",source="corpus"} 8`,
		`content_pool_occupancy{class="question",category="DAILY"} 17`,
		`http_requests_total{method="POST",route="/api/content/questions/next",status="200"} 1`,
		"# TYPE http_request_seconds histogram",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("exposition missing %q\n%s", want, out)
		}
	}
}

func TestNilMetricsAreSafe(t *testing.T) {
	t.Parallel()

	var m *Metrics
	m.AcquireIssued("question", "POOL")
	m.RateLimited("question")
	m.SetPoolOccupancy("todo", "TRAVEL", 1)
	var b strings.Builder
	if err := m.WritePrometheus(&b); err != nil {
		t.Fatalf("nil write: %v", err)
	}
}
