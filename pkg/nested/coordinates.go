// Package nested is the bulk interface over cells numbered in the nested scheme.
//
// Every function validates its whole input before any work is dispatched and writes
// into caller-owned outputs; workers <= 0 uses one worker per CPU. Angles are in
// degrees.
package nested

import (
	"context"

	"github.com/mohammed-shakir/healpix-geo/internal/dispatch"
	"github.com/mohammed-shakir/healpix-geo/internal/ellipsoid"
	"github.com/mohammed-shakir/healpix-geo/internal/healpix"
	"github.com/mohammed-shakir/healpix-geo/internal/transform"
)

func checkCells(depth healpix.Depths, cells []uint64) error {
	if err := depth.Validate(len(cells)); err != nil {
		return err
	}
	return depth.ValidateCells(cells)
}

// HealpixToLonLat writes the center of every cell into lon and lat.
func HealpixToLonLat(ctx context.Context, cells []uint64, depth healpix.Depths, ell ellipsoid.Spec, lon, lat []float64, workers int) error {
	n := len(cells)
	if err := checkCells(depth, cells); err != nil {
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
	dispatch.Default().Run(ctx, "nested.healpix_to_lonlat", n, workers, func(i int) {
		lon[i], lat[i] = transform.CellToLonLat(depth.Layer(i), cells[i], m)
	})
	return nil
}

// LonLatToHealpix writes the cell containing every point into cells.
func LonLatToHealpix(ctx context.Context, lon, lat []float64, depth healpix.Depths, ell ellipsoid.Spec, cells []uint64, workers int) error {
	n := len(lon)
	if err := transform.ValidateLonLat(lon, lat); err != nil {
		return err
	}
	if err := depth.Validate(n); err != nil {
		return err
	}
	if err := dispatch.CheckLen("cells", len(cells), n); err != nil {
		return err
	}
	m, err := ellipsoid.Resolve(ell)
	if err != nil {
		return err
	}
	dispatch.Default().Run(ctx, "nested.lonlat_to_healpix", n, workers, func(i int) {
		cells[i] = transform.LonLatToCell(depth.Layer(i), lon[i], lat[i], m)
	})
	return nil
}

// Vertices writes the four corners of every cell, ordered south, east, north, west,
// into rows of width 4.
func Vertices(ctx context.Context, cells []uint64, depth healpix.Depths, ell ellipsoid.Spec, lon, lat dispatch.Rows[float64], workers int) error {
	n := len(cells)
	if err := checkCells(depth, cells); err != nil {
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
	dispatch.Default().Run(ctx, "nested.vertices", n, workers, func(i int) {
		lons, lats := transform.CellVertices(depth.Layer(i), cells[i], m)
		copy(lon.Row(i), lons[:])
		copy(lat.Row(i), lats[:])
	})
	return nil
}

// BilinearInterpolation writes, for every point, the four interpolation cells and
// their weights into rows of width 4.
func BilinearInterpolation(ctx context.Context, lon, lat []float64, depth healpix.Depths, ell ellipsoid.Spec, cells dispatch.Rows[uint64], weights dispatch.Rows[float64], workers int) error {
	n := len(lon)
	if err := transform.ValidateLonLat(lon, lat); err != nil {
		return err
	}
	if err := depth.Validate(n); err != nil {
		return err
	}
	if err := dispatch.CheckRows("cells", cells, n, 4); err != nil {
		return err
	}
	if err := dispatch.CheckRows("weights", weights, n, 4); err != nil {
		return err
	}
	m, err := ellipsoid.Resolve(ell)
	if err != nil {
		return err
	}
	dispatch.Default().Run(ctx, "nested.bilinear_interpolation", n, workers, func(i int) {
		cr, wr := cells.Row(i), weights.Row(i)
		for j, cw := range transform.BilinearWeights(depth.Layer(i), lon[i], lat[i], m) {
			cr[j] = cw.Cell
			wr[j] = cw.Weight
		}
	})
	return nil
}
