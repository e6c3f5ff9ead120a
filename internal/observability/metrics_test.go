package observability

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecapRunCounter(t *testing.T) {
	before := testutil.ToFloat64(recapRuns.WithLabelValues("skipped"))
	IncRecapRun("skipped")
	if got := testutil.ToFloat64(recapRuns.WithLabelValues("skipped")); got != before+1 {
		t.Fatalf("recap runs skipped: want=%v got=%v", before+1, got)
	}
}

func TestAddSweepTriggersIgnoresZero(t *testing.T) {
	before := testutil.ToFloat64(sweepTriggers.WithLabelValues("started"))
	AddSweepTriggers("started", 0)
	AddSweepTriggers("started", 3)
	if got := testutil.ToFloat64(sweepTriggers.WithLabelValues("started")); got != before+3 {
		t.Fatalf("sweep triggers: want=%v got=%v", before+3, got)
	}
}

func TestHandlerServesRegistry(t *testing.T) {
	ObserveAPI("GET", "/api/recaps", "200", 20*time.Millisecond)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), "lore_api_requests_total") {
		t.Fatalf("metrics body missing lore_api_requests_total")
	}
}
