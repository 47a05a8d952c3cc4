// Package coordinates converts latitudes between the geographic and authalic forms
// of an ellipsoid in bulk.
package coordinates

import (
	"context"
	"math"

	"github.com/mohammed-shakir/healpix-geo/internal/core/geoerr"
	"github.com/mohammed-shakir/healpix-geo/internal/dispatch"
	"github.com/mohammed-shakir/healpix-geo/internal/ellipsoid"
	"github.com/mohammed-shakir/healpix-geo/internal/transform"
)

func checkFinite(field string, v []float64, limit float64) error {
	for i, x := range v {
		if math.IsNaN(x) || math.Abs(x) > limit {
			return geoerr.Validation(field, "value %g at position %d outside [-%g, %g]", x, i, limit, limit)
		}
	}
	return nil
}

// AuthalicToGeographic converts authalic latitudes in radians into geographic
// latitudes in degrees.
func AuthalicToGeographic(ctx context.Context, authalic []float64, ell ellipsoid.Spec, out []float64, workers int) error {
	n := len(authalic)
	if err := checkFinite("authalic_lat", authalic, math.Pi/2); err != nil {
		return err
	}
	if err := dispatch.CheckLen("geographic_lat", len(out), n); err != nil {
		return err
	}
	m, err := ellipsoid.Resolve(ell)
	if err != nil {
		return err
	}
	dispatch.Default().Run(ctx, "coordinates.authalic_to_geographic", n, workers, func(i int) {
		out[i] = transform.GeographicLatitude(m, authalic[i])
	})
	return nil
}

// GeographicToAuthalic converts geographic latitudes in degrees into authalic
// latitudes in radians.
func GeographicToAuthalic(ctx context.Context, geographic []float64, ell ellipsoid.Spec, out []float64, workers int) error {
	n := len(geographic)
	if err := checkFinite("geographic_lat", geographic, 90); err != nil {
		return err
	}
	if err := dispatch.CheckLen("authalic_lat", len(out), n); err != nil {
		return err
	}
	m, err := ellipsoid.Resolve(ell)
	if err != nil {
		return err
	}
	dispatch.Default().Run(ctx, "coordinates.geographic_to_authalic", n, workers, func(i int) {
		out[i] = transform.AuthalicLatitude(m, geographic[i])
	})
	return nil
}
