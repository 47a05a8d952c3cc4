package nested

import (
	"math"
	"slices"

	"github.com/golang/geo/s2"

	"github.com/mohammed-shakir/healpix-geo/internal/core/geoerr"
	"github.com/mohammed-shakir/healpix-geo/internal/core/model"
	"github.com/mohammed-shakir/healpix-geo/internal/ellipsoid"
	"github.com/mohammed-shakir/healpix-geo/internal/healpix"
	"github.com/mohammed-shakir/healpix-geo/internal/transform"
)

// ZoneCell is one entry of a box coverage: a cell, its depth and whether the box
// covers it entirely.
type ZoneCell = healpix.ZoneCell

// SearchOptions tunes BBoxSearch.
type SearchOptions struct {
	// Flat reports every cell at the requested depth. Otherwise cells fully inside
	// the box are merged into their coarsest fully covered ancestor.
	Flat bool
	// MaxCells bounds the number of returned entries; zero leaves it unbounded.
	MaxCells int
}

// BBoxSearch returns, in ascending order, the cells at depth overlapping the box.
// Box latitudes are geographic and converted with the ellipsoid.
func BBoxSearch(depth uint8, box model.Bbox, ell ellipsoid.Spec, opts SearchOptions) ([]ZoneCell, error) {
	if err := healpix.ValidateDepth(depth); err != nil {
		return nil, err
	}
	if err := box.Validate(); err != nil {
		return nil, err
	}
	m, err := ellipsoid.Resolve(ell)
	if err != nil {
		return nil, err
	}
	zone := healpix.Zone{
		LonMin: box.LonMin * math.Pi / 180,
		LatMin: transform.AuthalicLatitude(m, box.LatMin),
		LonMax: box.LonMax * math.Pi / 180,
		LatMax: transform.AuthalicLatitude(m, box.LatMax),
	}
	cells, ok := healpix.Get(depth).ZoneCoverage(zone, opts.MaxCells)
	if !ok {
		return nil, geoerr.Validation("bbox", "coverage exceeds %d cells at depth %d", opts.MaxCells, depth)
	}
	if !opts.Flat {
		return cells, nil
	}
	if opts.MaxCells > 0 && healpix.FlatSize(depth, cells) > uint64(opts.MaxCells) {
		return nil, geoerr.Validation("bbox", "coverage exceeds %d cells at depth %d", opts.MaxCells, depth)
	}
	return healpix.Flatten(depth, cells), nil
}

// CellsInPolygon returns, sorted and without duplicates, the cells among cells whose
// centers lie inside the polygon. Each polygon row is one vertex, latitude then
// longitude in degrees, taken on the sphere. A closing row repeating the first is
// dropped, and the interior is the smaller of the two regions the edges bound.
func CellsInPolygon(depth uint8, cells []uint64, polygon [][]float64) ([]uint64, error) {
	if err := healpix.ValidateDepth(depth); err != nil {
		return nil, err
	}
	loop, err := polygonLoop(polygon)
	if err != nil {
		return nil, err
	}
	l := healpix.Get(depth)
	out := []uint64{}
	for i, c := range cells {
		if c >= l.NCells() {
			return nil, geoerr.Validation("cells", "cell id %d at position %d out of range at depth %d", c, i, depth)
		}
		if loop.ContainsPoint(transform.CenterPoint(l, c)) {
			out = append(out, c)
		}
	}
	slices.Sort(out)
	return slices.Compact(out), nil
}

func polygonLoop(polygon [][]float64) (*s2.Loop, error) {
	pts := make([]s2.Point, 0, len(polygon))
	for i, row := range polygon {
		if len(row) != 2 {
			return nil, geoerr.Validation("polygon", "expected shape (n, 2), row %d has %d values", i, len(row))
		}
		lat, lon := row[0], row[1]
		if math.IsNaN(lat) || math.IsNaN(lon) || math.IsInf(lon, 0) || lat < -90 || lat > 90 {
			return nil, geoerr.Validation("polygon", "invalid vertex (%v, %v) at row %d", lat, lon, i)
		}
		pts = append(pts, s2.PointFromLatLng(s2.LatLngFromDegrees(lat, lon)))
	}
	if len(pts) > 1 && pts[0] == pts[len(pts)-1] {
		pts = pts[:len(pts)-1]
	}
	if len(pts) < 3 {
		return nil, geoerr.Validation("polygon", "needs at least 3 distinct vertices (got %d)", len(pts))
	}
	loop := s2.LoopFromPoints(pts)
	if err := loop.Validate(); err != nil {
		return nil, geoerr.Validation("polygon", "%v", err)
	}
	if !loop.IsNormalized() {
		loop.Normalize()
	}
	return loop, nil
}
