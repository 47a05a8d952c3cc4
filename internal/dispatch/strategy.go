package dispatch

import (
	"strings"

	"github.com/mohammed-shakir/healpix-geo/internal/core/geoerr"
)

// Strategy selects how a Dispatcher fans work out.
type Strategy int

const (
	// Pool runs chunks of elements on a bounded set of goroutines built per call.
	Pool Strategy = iota
	// Sequential runs every element on the calling goroutine.
	Sequential
)

// DefaultStrategy is the build's default: Pool, or Sequential on single-threaded targets.
func DefaultStrategy() Strategy { return defaultStrategy }

func (s Strategy) String() string {
	if s == Sequential {
		return "sequential"
	}
	return "pool"
}

// ParseStrategy accepts "pool" or "sequential"; empty selects the build default.
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return defaultStrategy, nil
	case "pool", "parallel":
		return Pool, nil
	case "sequential", "serial":
		return Sequential, nil
	}
	return 0, geoerr.Validation("strategy", "unknown dispatch strategy %q", s)
}
