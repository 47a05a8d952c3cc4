package healpix

import (
	"fmt"
	"math"
	"sync"
	"sync/atomic"
)

// ring index of the southern vertex of each base cell, in units of nside
var jrll = [12]int64{2, 2, 2, 2, 3, 3, 3, 3, 4, 4, 4, 4}

// longitude index of the center of each base cell, in units of pi/4
var jpll = [12]int64{1, 3, 5, 7, 0, 2, 4, 6, 1, 3, 5, 7}

// Layer holds the precomputed constants of one depth. It is immutable.
type Layer struct {
	depth  uint8
	nside  int64
	npface uint64
	ncells uint64
	ncap   int64
}

var (
	layers [DepthMax + 1]struct {
		once  sync.Once
		layer *Layer
	}
	built atomic.Int32
)

// Cached reports how many depths have a layer built.
func Cached() int { return int(built.Load()) }

// Get returns the process-wide layer for depth, building it on first use. Layers are
// never evicted. Get panics on a depth above DepthMax; validate inputs first.
func Get(depth uint8) *Layer {
	if depth > DepthMax {
		panic(fmt.Sprintf("healpix: depth %d out of range", depth))
	}
	slot := &layers[depth]
	slot.once.Do(func() {
		slot.layer = newLayer(depth)
		built.Add(1)
	})
	return slot.layer
}

func newLayer(depth uint8) *Layer {
	nside := int64(1) << depth
	return &Layer{
		depth:  depth,
		nside:  nside,
		npface: uint64(nside * nside),
		ncells: NCells(depth),
		ncap:   2 * nside * (nside - 1),
	}
}

func (l *Layer) Depth() uint8   { return l.depth }
func (l *Layer) NSide() uint64  { return uint64(l.nside) }
func (l *Layer) NCells() uint64 { return l.ncells }

func (l *Layer) nest(x, y int64, face int) uint64 {
	return uint64(face)<<(2*l.depth) | spread(uint64(x)) | spread(uint64(y))<<1
}

func (l *Layer) unnest(hash uint64) (x, y int64, face int) {
	face = int(hash >> (2 * l.depth))
	in := hash & (l.npface - 1)
	return int64(compress(in)), int64(compress(in >> 1)), face
}

// Hash returns the cell containing the point.
func (l *Layer) Hash(lon, lat float64) uint64 {
	face, x, y := faceXY(lon, lat)
	n := float64(l.nside)
	return l.nest(clampIndex(x*n, l.nside), clampIndex(y*n, l.nside), face)
}

func clampIndex(v float64, nside int64) int64 {
	i := int64(math.Floor(v))
	if i < 0 {
		return 0
	}
	if i >= nside {
		return nside - 1
	}
	return i
}

// Center returns the center of the cell.
func (l *Layer) Center(hash uint64) LonLat {
	x, y, face := l.unnest(hash)
	n := float64(l.nside)
	return faceToLonLat(face, (float64(x)+0.5)/n, (float64(y)+0.5)/n)
}

// Vertices returns the four corners of the cell, ordered south, east, north, west.
func (l *Layer) Vertices(hash uint64) [4]LonLat {
	x, y, face := l.unnest(hash)
	n := float64(l.nside)
	fx, fy := float64(x), float64(y)
	return [4]LonLat{
		faceToLonLat(face, fx/n, fy/n),
		faceToLonLat(face, (fx+1)/n, fy/n),
		faceToLonLat(face, (fx+1)/n, (fy+1)/n),
		faceToLonLat(face, fx/n, (fy+1)/n),
	}
}

// faceXY projects a point onto its base cell, returning continuous coordinates in [0, 1].
func faceXY(lon, lat float64) (face int, x, y float64) {
	lat = math.Max(-halfPi, math.Min(halfPi, lat))
	z, sth := math.Sin(lat), math.Cos(lat)
	za := math.Abs(z)
	tt := fmodulo(lon/halfPi, 4)

	if za <= 2.0/3 {
		jp := 0.5 + tt - 0.75*z
		jm := 0.5 + tt + 0.75*z
		ifp := math.Floor(jp)
		ifm := math.Floor(jm)
		switch {
		case ifp == ifm:
			face = int(ifp) | 4
		case ifp < ifm:
			face = int(ifp)
		default:
			face = int(ifm) + 8
		}
		return face, jm - ifm, 1 - (jp - ifp)
	}

	ntt := min(3, int(tt))
	tp := tt - float64(ntt)
	tmp := sth * math.Sqrt(3/(1+za))
	jp := math.Min(tp*tmp, 1)
	jm := math.Min((1-tp)*tmp, 1)
	if z >= 0 {
		return ntt, 1 - jm, 1 - jp
	}
	return ntt + 8, jp, jm
}

// faceToLonLat maps continuous base cell coordinates back to the sphere.
func faceToLonLat(face int, x, y float64) LonLat {
	jr := float64(jrll[face]) - x - y
	var nr, z, sth float64
	switch {
	case jr < 1:
		nr = jr
		tmp := nr * nr / 3
		z = 1 - tmp
		sth = math.Sqrt(tmp * (2 - tmp))
	case jr > 3:
		nr = 4 - jr
		tmp := nr * nr / 3
		z = tmp - 1
		sth = math.Sqrt(tmp * (2 - tmp))
	default:
		nr = 1
		z = (2 - jr) * 2 / 3
		sth = math.Sqrt((1 - z) * (1 + z))
	}

	tmp := float64(jpll[face])*nr + x - y
	if tmp < 0 {
		tmp += 8
	}
	if tmp >= 8 {
		tmp -= 8
	}
	lon := 0.0
	if nr >= 1e-15 {
		lon = math.Pi / 4 * tmp / nr
	}
	return LonLat{Lon: lon, Lat: math.Atan2(z, sth)}
}
