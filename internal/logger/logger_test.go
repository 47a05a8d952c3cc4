package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			t.Fatalf("invalid json line %q: %v", line, err)
		}
		out = append(out, m)
	}
	return out
}

func TestSlogBridge_CopiesContextFields(t *testing.T) {
	var buf bytes.Buffer
	zl := Build(Config{Level: "debug", Service: "healpixd"}, &buf)
	log := NewSlog(&zl)

	ctx := WithRequestID(context.Background(), "req-1")
	ctx = WithComponent(ctx, "dispatch")
	ctx = WithOperation(ctx, "nested.healpix_to_lonlat")
	log.With("workers", 4).DebugContext(ctx, "bulk call", "elements", 10, "dur", time.Millisecond, "err", errors.New("boom"))

	lines := decodeLines(t, &buf)
	if len(lines) != 1 {
		t.Fatalf("got %d lines want 1", len(lines))
	}
	rec := lines[0]
	want := map[string]any{
		"level":      "debug",
		"msg":        "bulk call",
		"service":    "healpixd",
		"request_id": "req-1",
		"component":  "dispatch",
		"operation":  "nested.healpix_to_lonlat",
		"workers":    float64(4),
		"elements":   float64(10),
		"dur":        "1ms",
		"err":        "boom",
	}
	for k, v := range want {
		if rec[k] != v {
			t.Fatalf("field %s got=%v want=%v", k, rec[k], v)
		}
	}
	if _, ok := rec["timestamp"]; !ok {
		t.Fatalf("timestamp missing: %v", rec)
	}
}

func TestSlogBridge_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	zl := Build(Config{Level: "warn"}, &buf)
	log := NewSlog(&zl)

	log.Info("dropped")
	log.Debug("dropped")
	log.Warn("kept")

	lines := decodeLines(t, &buf)
	if len(lines) != 1 || lines[0]["msg"] != "kept" {
		t.Fatalf("got=%v", lines)
	}
	if log.Enabled(context.Background(), -4) {
		t.Fatalf("debug should be disabled at warn level")
	}
}

func TestWithRequestID_GeneratesID(t *testing.T) {
	ctx := WithRequestID(context.Background(), "")
	if id := RequestID(ctx); len(id) != 16 {
		t.Fatalf("generated id got=%q", id)
	}
	if WithOperation(ctx, "") != ctx {
		t.Fatalf("empty operation should leave the context untouched")
	}
}

func TestSlogBridge_GroupsPrefixKeys(t *testing.T) {
	var buf bytes.Buffer
	zl := Build(Config{Level: "info"}, &buf)
	log := NewSlog(&zl).WithGroup("store").With("backend", "redis")

	ctx := WithCoverage(context.Background(), "ocean")
	log.InfoContext(ctx, "put", slog.Group("moc", "depth", 8, "ranges", 3))

	lines := decodeLines(t, &buf)
	if len(lines) != 1 {
		t.Fatalf("got %d lines want 1", len(lines))
	}
	want := map[string]any{
		"store.backend":    "redis",
		"store.moc.depth":  float64(8),
		"store.moc.ranges": float64(3),
		"coverage":         "ocean",
	}
	for k, v := range want {
		if lines[0][k] != v {
			t.Fatalf("field %s got=%v want=%v (record %v)", k, lines[0][k], v, lines[0])
		}
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"":         zerolog.InfoLevel,
		"TRACE":    zerolog.TraceLevel,
		" debug ":  zerolog.DebugLevel,
		"warning":  zerolog.WarnLevel,
		"error":    zerolog.ErrorLevel,
		"disabled": zerolog.Disabled,
		"verbose":  zerolog.InfoLevel,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Fatalf("parseLevel(%q) got=%v want=%v", in, got, want)
		}
	}
}
