package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type LogCfg struct {
	Level   string
	Console bool
	SampleN uint32
}

type StoreCfg struct {
	Enabled   bool
	RedisAddr string
	TTL       time.Duration
	LRUSize   int
	OpTimeout time.Duration
}

type DispatchCfg struct {
	Workers  int
	Strategy string
	Chunk    int
}

type MetricsCfg struct {
	Enabled bool
	Addr    string
	Path    string
}

type Config struct {
	Addr             string
	Log              LogCfg
	Store            StoreCfg
	Dispatch         DispatchCfg
	Metrics          MetricsCfg
	DefaultEllipsoid string
}

func FromEnv() Config {
	lru := getint("MOC_LRU_SIZE", 256)
	if lru < 1 {
		lru = 1
	}
	chunk := getint("DISPATCH_CHUNK", 1024)
	if chunk < 1 {
		chunk = 1024
	}

	return Config{
		Addr: getenv("ADDR", ":8090"),
		Log: LogCfg{
			Level:   getenv("LOG_LEVEL", "info"),
			Console: getbool("LOG_CONSOLE", false),
			SampleN: uint32(max(getint("LOG_SAMPLE_N", 0), 0)),
		},
		Store: StoreCfg{
			Enabled:   getbool("STORE_ENABLED", false),
			RedisAddr: getenv("REDIS_ADDR", "localhost:6379"),
			TTL:       getduration("MOC_TTL", 0),
			LRUSize:   lru,
			OpTimeout: getduration("STORE_OP_TIMEOUT", 250*time.Millisecond),
		},
		Dispatch: DispatchCfg{
			Workers:  getint("DISPATCH_WORKERS", 0),
			Strategy: getenv("DISPATCH_STRATEGY", ""),
			Chunk:    chunk,
		},
		Metrics: MetricsCfg{
			Enabled: getbool("METRICS_ENABLED", true),
			Addr:    getenv("METRICS_ADDR", ":9090"),
			Path:    getenv("METRICS_PATH", "/metrics"),
		},
		DefaultEllipsoid: getenv("DEFAULT_ELLIPSOID", "sphere"),
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getint(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	if v := os.Getenv(k); v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "t", "true", "y", "yes":
			return true
		case "0", "f", "false", "n", "no":
			return false
		}
	}
	return def
}

func getduration(k string, def time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
