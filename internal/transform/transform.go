// Package transform converts between cells and geographic coordinates on an
// ellipsoid. Angles crossing this package are in degrees; the tiling works on the
// authalic sphere, so latitudes are converted on the way in and out.
package transform

import (
	"math"

	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"

	"github.com/mohammed-shakir/healpix-geo/internal/ellipsoid"
	"github.com/mohammed-shakir/healpix-geo/internal/healpix"
)

const (
	toRad = math.Pi / 180
	toDeg = 180 / math.Pi
)

func geographic(m *ellipsoid.Model, beta float64) float64 {
	if m.IsSpherical() {
		return beta * toDeg
	}
	return m.ToGeographic(beta) * toDeg
}

func authalic(m *ellipsoid.Model, latDeg float64) float64 {
	if m.IsSpherical() {
		return latDeg * toRad
	}
	return m.ToAuthalic(latDeg * toRad)
}

// AuthalicLatitude converts a geographic latitude in degrees to the authalic
// latitude in radians.
func AuthalicLatitude(m *ellipsoid.Model, latDeg float64) float64 {
	return authalic(m, latDeg)
}

// GeographicLatitude converts an authalic latitude in radians to the geographic
// latitude in degrees.
func GeographicLatitude(m *ellipsoid.Model, beta float64) float64 {
	return geographic(m, beta)
}

// CellToLonLat returns the center of cell. Longitude is in [0, 360).
func CellToLonLat(l *healpix.Layer, cell uint64, m *ellipsoid.Model) (lon, lat float64) {
	c := l.Center(cell)
	return c.Lon * toDeg, geographic(m, c.Lat)
}

// LonLatToCell returns the cell containing the point.
func LonLatToCell(l *healpix.Layer, lon, lat float64, m *ellipsoid.Model) uint64 {
	return l.Hash(lon*toRad, authalic(m, lat))
}

// CellVertices returns the corners of cell ordered south, east, north, west, with
// longitudes normalised into [0, 360).
func CellVertices(l *healpix.Layer, cell uint64, m *ellipsoid.Model) (lons, lats [4]float64) {
	for i, v := range l.Vertices(cell) {
		lons[i] = normalizeLon(v.Lon * toDeg)
		lats[i] = geographic(m, v.Lat)
	}
	return lons, lats
}

func normalizeLon(deg float64) float64 {
	r := math.Mod(deg, 360)
	if r < 0 {
		r += 360
	}
	if r >= 360 {
		r = 0
	}
	return r
}

// BilinearWeights returns the interpolation nodes of the point and their weights,
// exactly as the tiling produces them.
func BilinearWeights(l *healpix.Layer, lon, lat float64, m *ellipsoid.Model) [4]healpix.CellWeight {
	return l.BilinearInterpolation(lon*toRad, authalic(m, lat))
}

// CenterPoint returns the center of cell as a unit vector on the authalic sphere.
func CenterPoint(l *healpix.Layer, cell uint64) s2.Point {
	c := l.Center(cell)
	return s2.PointFromLatLng(s2.LatLng{Lat: s1.Angle(c.Lat), Lng: s1.Angle(c.Lon)})
}

// AngularDistance returns the great-circle angle in radians between the centers of
// two cells, measured on the authalic sphere without any ellipsoid correction.
func AngularDistance(la *healpix.Layer, a uint64, lb *healpix.Layer, b uint64) float64 {
	return CenterPoint(la, a).Distance(CenterPoint(lb, b)).Radians()
}
