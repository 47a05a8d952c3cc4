package transform

import (
	"math"

	"github.com/mohammed-shakir/healpix-geo/internal/core/geoerr"
)

// ValidateLonLat checks that coordinates are finite and latitudes lie in [-90, 90].
func ValidateLonLat(lon, lat []float64) error {
	if len(lon) != len(lat) {
		return geoerr.Validation("latitude", "length %d does not match longitude length %d", len(lat), len(lon))
	}
	for i := range lon {
		if math.IsNaN(lon[i]) || math.IsInf(lon[i], 0) {
			return geoerr.Validation("longitude", "value at position %d is not finite", i)
		}
		if !(lat[i] >= -90 && lat[i] <= 90) {
			return geoerr.Validation("latitude", "value %g at position %d is outside [-90, 90]", lat[i], i)
		}
	}
	return nil
}
