// Package ring is the bulk interface over cells numbered in the ring scheme. Each
// cell is converted to nested order, processed, and converted back where the output
// is a cell id.
package ring

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

// HealpixToLonLat writes the center of every ring cell into lon and lat.
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
	dispatch.Default().Run(ctx, "ring.healpix_to_lonlat", n, workers, func(i int) {
		layer := depth.Layer(i)
		lon[i], lat[i] = transform.CellToLonLat(layer, layer.FromRing(cells[i]), m)
	})
	return nil
}

// LonLatToHealpix writes the ring id of the cell containing every point.
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
	dispatch.Default().Run(ctx, "ring.lonlat_to_healpix", n, workers, func(i int) {
		layer := depth.Layer(i)
		cells[i] = layer.ToRing(transform.LonLatToCell(layer, lon[i], lat[i], m))
	})
	return nil
}

// Vertices writes the four corners of every ring cell, ordered south, east, north,
// west, into rows of width 4.
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
	dispatch.Default().Run(ctx, "ring.vertices", n, workers, func(i int) {
		layer := depth.Layer(i)
		lons, lats := transform.CellVertices(layer, layer.FromRing(cells[i]), m)
		copy(lon.Row(i), lons[:])
		copy(lat.Row(i), lats[:])
	})
	return nil
}
