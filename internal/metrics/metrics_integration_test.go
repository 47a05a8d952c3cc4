package metrics

import (
	"context"
	"strings"
	"testing"

	"github.com/mohammed-shakir/healpix-geo/internal/core/observability"
	"github.com/mohammed-shakir/healpix-geo/internal/dispatch"
)

func assertHasMetricLine(t *testing.T, body, metric string, wantLabels ...string) {
	t.Helper()
	for ln := range strings.SplitSeq(body, "\n") {
		if !strings.HasPrefix(ln, metric+"{") {
			continue
		}
		ok := true
		for _, s := range wantLabels {
			if !strings.Contains(ln, s) {
				ok = false
				break
			}
		}
		if ok && ln[len(ln)-1] >= '0' && ln[len(ln)-1] <= '9' {
			return
		}
	}
	t.Fatalf("expected a %s line with labels %v; got:\n%s", metric, wantLabels, body)
}

func TestProvider_ServesServiceCollectors(t *testing.T) {
	p := Init(Config{Build: BuildInfo{Version: "test"}})

	d := dispatch.New(dispatch.WithStrategy(dispatch.Pool), dispatch.WithChunk(256))
	out := make([]int, 4096)
	d.Run(context.Background(), "nested.lonlat_to_healpix", len(out), 4, func(i int) { out[i] = i })

	observability.ObserveStoreOp("get", observability.ResultOK, 0.002)
	observability.ObserveStoreOp("get", observability.ResultMiss, 0.001)
	observability.IncLRUMiss()
	observability.ObserveHTTP("POST", "/v1/moc", 201, 0.004)

	body := scrape(t, p)
	for _, s := range []string{
		`dispatch_duration_seconds_bucket`,
		`store_op_duration_seconds_count{op="get"}`,
		`store_lru_results_total{outcome="miss"} `,
		`http_request_duration_seconds_bucket`,
	} {
		if !strings.Contains(body, s) {
			t.Fatalf("expected metrics to contain %q;\n---\n%s", s, body)
		}
	}

	assertHasMetricLine(t, body, "dispatch_calls_total",
		`operation="nested.lonlat_to_healpix"`, `strategy="pool"`)
	assertHasMetricLine(t, body, "dispatch_elements_total",
		`operation="nested.lonlat_to_healpix"`)
	assertHasMetricLine(t, body, "store_ops_total",
		`op="get"`, `result="miss"`)
	assertHasMetricLine(t, body, "healpixd_build_info",
		`version="test"`)
}

func TestInit_TwiceDoesNotPanic(t *testing.T) {
	_ = Init(Config{})
	_ = Init(Config{Strategy: "sequential", Workers: 1})
}
