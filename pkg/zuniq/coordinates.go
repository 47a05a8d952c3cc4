package zuniq

import (
	"context"

	"github.com/mohammed-shakir/healpix-geo/internal/dispatch"
	"github.com/mohammed-shakir/healpix-geo/internal/ellipsoid"
	"github.com/mohammed-shakir/healpix-geo/internal/healpix"
	"github.com/mohammed-shakir/healpix-geo/internal/transform"
	"github.com/mohammed-shakir/healpix-geo/internal/zuniq"
)

// HealpixToLonLat writes the center of every coded cell, each at its own depth.
func HealpixToLonLat(ctx context.Context, codes []uint64, ell ellipsoid.Spec, lon, lat []float64, workers int) error {
	n := len(codes)
	if err := ValidateCodes(codes); err != nil {
		return err
	}
	if err := dispatch.CheckLen("longitude", len(lon), n); err != nil {
		return err
	}
	if err := dispatch.CheckLen("latitude", len(lat), n); err != nil {
		return err
	}
	m, err := ellipsoid.Resolve(ell)
	if err != nil {
		return err
	}
	dispatch.Default().Run(ctx, "zuniq.healpix_to_lonlat", n, workers, func(i int) {
		d, c := decode(codes[i])
		lon[i], lat[i] = transform.CellToLonLat(healpix.Get(d), c, m)
	})
	return nil
}

// LonLatToHealpix writes the code of the cell containing every point at a constant
// or per-element depth.
func LonLatToHealpix(ctx context.Context, lon, lat []float64, depth healpix.Depths, ell ellipsoid.Spec, codes []uint64, workers int) error {
	n := len(lon)
	if err := transform.ValidateLonLat(lon, lat); err != nil {
		return err
	}
	if err := depth.Validate(n); err != nil {
		return err
	}
	if err := dispatch.CheckLen("zuniq", len(codes), n); err != nil {
		return err
	}
	m, err := ellipsoid.Resolve(ell)
	if err != nil {
		return err
	}
	dispatch.Default().Run(ctx, "zuniq.lonlat_to_healpix", n, workers, func(i int) {
		layer := depth.Layer(i)
		codes[i] = zuniq.Encode(layer.Depth(), transform.LonLatToCell(layer, lon[i], lat[i], m))
	})
	return nil
}

// Vertices writes the four corners of every coded cell, ordered south, east, north,
// west, into rows of width 4.
func Vertices(ctx context.Context, codes []uint64, ell ellipsoid.Spec, lon, lat dispatch.Rows[float64], workers int) error {
	n := len(codes)
	if err := ValidateCodes(codes); err != nil {
		return err
	}
	if err := dispatch.CheckRows("longitude", lon, n, 4); err != nil {
		return err
	}
	if err := dispatch.CheckRows("latitude", lat, n, 4); err != nil {
		return err
	}
	m, err := ellipsoid.Resolve(ell)
	if err != nil {
		return err
	}
	dispatch.Default().Run(ctx, "zuniq.vertices", n, workers, func(i int) {
		d, c := decode(codes[i])
		lons, lats := transform.CellVertices(healpix.Get(d), c, m)
		copy(lon.Row(i), lons[:])
		copy(lat.Row(i), lats[:])
	})
	return nil
}
