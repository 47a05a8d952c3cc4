package config

import (
	"testing"
	"time"
)

func TestFromEnv_Defaults(t *testing.T) {
	for _, k := range []string{"ADDR", "LOG_LEVEL", "STORE_ENABLED", "MOC_TTL", "MOC_LRU_SIZE", "DISPATCH_WORKERS", "DISPATCH_STRATEGY", "DISPATCH_CHUNK", "DEFAULT_ELLIPSOID"} {
		t.Setenv(k, "")
	}
	c := FromEnv()
	if c.Addr != ":8090" || c.Log.Level != "info" || c.DefaultEllipsoid != "sphere" {
		t.Fatalf("unexpected defaults: %+v", c)
	}
	if c.Store.Enabled || c.Store.TTL != 0 || c.Store.LRUSize != 256 || c.Store.OpTimeout != 250*time.Millisecond {
		t.Fatalf("unexpected store defaults: %+v", c.Store)
	}
	if c.Dispatch.Workers != 0 || c.Dispatch.Strategy != "" || c.Dispatch.Chunk != 1024 {
		t.Fatalf("unexpected dispatch defaults: %+v", c.Dispatch)
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("STORE_ENABLED", "yes")
	t.Setenv("MOC_TTL", "90s")
	t.Setenv("MOC_LRU_SIZE", "-3")
	t.Setenv("DISPATCH_WORKERS", "6")
	t.Setenv("DISPATCH_STRATEGY", "sequential")
	t.Setenv("DISPATCH_CHUNK", "garbage")
	t.Setenv("LOG_SAMPLE_N", "10")

	c := FromEnv()
	if !c.Store.Enabled || c.Store.TTL != 90*time.Second {
		t.Fatalf("store overrides not applied: %+v", c.Store)
	}
	if c.Store.LRUSize != 1 {
		t.Fatalf("lru size should be clamped to 1, got %d", c.Store.LRUSize)
	}
	if c.Dispatch.Workers != 6 || c.Dispatch.Strategy != "sequential" || c.Dispatch.Chunk != 1024 {
		t.Fatalf("dispatch overrides not applied: %+v", c.Dispatch)
	}
	if c.Log.SampleN != 10 {
		t.Fatalf("got=%d want=10", c.Log.SampleN)
	}
}
