package observability

import "testing"

func TestSampleRatioClamps(t *testing.T) {
	cases := map[string]float64{"": 0.1, "0.5": 0.5, "7": 1, "-2": 0, "abc": 0.1}
	for in, want := range cases {
		t.Setenv("OTEL_SAMPLER_RATIO", in)
		if got := sampleRatio(); got != want {
			t.Fatalf("sampleRatio(%q): want=%v got=%v", in, want, got)
		}
	}
}

func TestOTLPHeaders(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "x-api-key=abc, bad ,x-team = lore,")
	h := otlpHeaders()
	if len(h) != 2 || h["x-api-key"] != "abc" || h["x-team"] != "lore" {
		t.Fatalf("otlpHeaders: got=%v", h)
	}
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "")
	if otlpHeaders() != nil {
		t.Fatalf("otlpHeaders: want nil when unset")
	}
}
