package healpix

import "math"

// Zone is a longitude/latitude box in radians. LonMin may exceed LonMax, in which
// case the box wraps through longitude zero.
type Zone struct {
	LonMin, LatMin, LonMax, LatMax float64
}

// polar cells may span every longitude, so their bounds are not refined
var polarLimit = math.Asin(2.0 / 3)

const (
	boundsMargin = 1e-9
	insideMargin = 1e-12
)

type lonInterval struct{ lo, hi float64 }

// intervals splits the zone longitudes into non-wrapping ranges within [0, 2pi].
func (z Zone) intervals() []lonInterval {
	if z.LonMax-z.LonMin >= twoPi {
		return []lonInterval{{0, twoPi}}
	}
	lo := fmodulo(z.LonMin, twoPi)
	hi := fmodulo(z.LonMax, twoPi)
	if z.LonMax > z.LonMin && hi == 0 {
		hi = twoPi
	}
	if lo <= hi {
		return []lonInterval{{lo, hi}}
	}
	return []lonInterval{{lo, twoPi}, {0, hi}}
}

func containsLon(ivs []lonInterval, lon float64) bool {
	lon = fmodulo(lon, twoPi)
	for _, iv := range ivs {
		if lon >= iv.lo && lon <= iv.hi {
			return true
		}
	}
	return false
}

// overlapsLon reports whether [lo, hi], given unwrapped with hi - lo < 2pi, meets ivs.
func overlapsLon(ivs []lonInterval, lo, hi float64) bool {
	base := math.Floor(lo/twoPi) * twoPi
	for _, shift := range []float64{base, base + twoPi} {
		a, b := lo-shift, hi-shift
		for _, iv := range ivs {
			if a <= iv.hi && b >= iv.lo {
				return true
			}
		}
	}
	return false
}

// ZoneCell is one entry of a zone coverage. Full reports that the whole cell lies
// inside the zone.
type ZoneCell struct {
	Depth uint8
	Hash  uint64
	Full  bool
}

// ZoneCoverage returns, in ascending order, the cells overlapping zone. A cell lying
// entirely inside the zone is reported once at the coarsest depth where that holds,
// so entries may be shallower than the layer; Flatten expands them. When maxCells is
// positive and the coverage needs more entries, ok is false and the partial result
// is discarded.
func (l *Layer) ZoneCoverage(zone Zone, maxCells int) (cells []ZoneCell, ok bool) {
	if zone.LatMin > zone.LatMax {
		return nil, true
	}
	ivs := zone.intervals()
	var out []ZoneCell
	var descend func(layer *Layer, hash uint64) bool
	descend = func(layer *Layer, hash uint64) bool {
		if !layer.mayIntersect(hash, zone, ivs) {
			return true
		}
		inside := layer.insideZone(hash, zone, ivs)
		if !inside && layer.depth < l.depth {
			next := Get(layer.depth + 1)
			for i := range uint64(4) {
				if !descend(next, hash<<2|i) {
					return false
				}
			}
			return true
		}
		if !inside && !layer.overlapsZone(hash, zone, ivs) {
			return true
		}
		if maxCells > 0 && len(out) == maxCells {
			return false
		}
		out = append(out, ZoneCell{Depth: layer.depth, Hash: hash, Full: inside})
		return true
	}
	root := Get(0)
	for base := range uint64(12) {
		if !descend(root, base) {
			return nil, false
		}
	}
	return out, true
}

// FlatSize returns the number of depth cells the entries expand to.
func FlatSize(depth uint8, cells []ZoneCell) uint64 {
	var n uint64
	for _, c := range cells {
		n += 1 << (2 * uint(depth-c.Depth))
	}
	return n
}

// Flatten expands every entry to its cells at depth, keeping the order.
func Flatten(depth uint8, cells []ZoneCell) []ZoneCell {
	out := make([]ZoneCell, 0, FlatSize(depth, cells))
	for _, c := range cells {
		shift := 2 * uint(depth-c.Depth)
		first := c.Hash << shift
		for h := first; h < first+1<<shift; h++ {
			out = append(out, ZoneCell{Depth: depth, Hash: h, Full: c.Full})
		}
	}
	return out
}

func atPole(lat float64) bool { return math.Abs(lat) >= halfPi-1e-15 }

// insideZone reports whether the whole cell lies in the zone. Latitude and longitude
// are monotonic along cell edges, so the vertices bound the cell. A pole vertex has
// no longitude and the edges leaving it are meridians, so it is skipped.
func (l *Layer) insideZone(hash uint64, zone Zone, ivs []lonInterval) bool {
	ref := l.Center(hash).Lon
	lonLo, lonHi := math.Inf(1), math.Inf(-1)
	for _, v := range l.Vertices(hash) {
		if v.Lat < zone.LatMin-insideMargin || v.Lat > zone.LatMax+insideMargin {
			return false
		}
		if atPole(v.Lat) {
			continue
		}
		lon := ref + math.Remainder(v.Lon-ref, twoPi)
		lonLo = math.Min(lonLo, lon)
		lonHi = math.Max(lonHi, lon)
	}
	return containsLonRange(ivs, lonLo, lonHi)
}

// containsLonRange reports whether the unwrapped range [lo, hi] fits in ivs.
func containsLonRange(ivs []lonInterval, lo, hi float64) bool {
	a, b := ivs[0].lo, ivs[0].hi
	if len(ivs) == 2 {
		b = ivs[1].hi + twoPi
	}
	if b-a >= twoPi {
		return true
	}
	off := fmodulo(lo-a, twoPi)
	if off > twoPi-boundsMargin {
		off = 0
	}
	return a+off+(hi-lo) <= b
}

// overlapsZone reports whether the cell and the zone share a point: either an edge
// of the cell meets the zone or the zone lies inside the cell.
func (l *Layer) overlapsZone(hash uint64, zone Zone, ivs []lonInterval) bool {
	c := l.Center(hash)
	if c.Lat >= zone.LatMin && c.Lat <= zone.LatMax && containsLon(ivs, c.Lon) {
		return true
	}
	if l.Hash(zone.LonMin, zone.LatMin) == hash {
		return true
	}
	x, y, face := l.unnest(hash)
	n := float64(l.nside)
	fx, fy, step := float64(x)/n, float64(y)/n, 1/n
	corners := [5][2]float64{{fx, fy}, {fx + step, fy}, {fx + step, fy + step}, {fx, fy + step}, {fx, fy}}
	for i := range 4 {
		if edgeMeetsZone(face, corners[i], corners[i+1], zone, ivs, c.Lon) {
			return true
		}
	}
	return false
}

// edgeMeetsZone reports whether the segment a-b of face coordinates meets the zone.
// Latitude only depends on x+y, so it is monotonic along the segment and the points
// at the zone latitudes are found in closed form. Longitude is monotonic too, so
// those two points bound the part of the segment inside the zone latitudes.
func edgeMeetsZone(face int, a, b [2]float64, zone Zone, ivs []lonInterval, ref float64) bool {
	pa, pb := faceToLonLat(face, a[0], a[1]), faceToLonLat(face, b[0], b[1])
	if pa.Lat > pb.Lat {
		a, b, pa, pb = b, a, pb, pa
	}
	lo, hi := math.Max(pa.Lat, zone.LatMin), math.Min(pb.Lat, zone.LatMax)
	if lo > hi+boundsMargin {
		return false
	}
	if atPole(pb.Lat) && atPole(hi) || atPole(pa.Lat) && atPole(lo) {
		return true
	}
	sa, sb := a[0]+a[1], b[0]+b[1]
	lonLo, lonHi := math.Inf(1), math.Inf(-1)
	for _, lat := range [2]float64{lo, hi} {
		t := 0.0
		switch {
		case lat >= pb.Lat:
			t = 1
		case lat > pa.Lat:
			t = math.Max(0, math.Min(1, (faceSumAt(face, lat)-sa)/(sb-sa)))
		}
		p := faceToLonLat(face, a[0]+t*(b[0]-a[0]), a[1]+t*(b[1]-a[1]))
		if atPole(p.Lat) {
			continue
		}
		lon := ref + math.Remainder(p.Lon-ref, twoPi)
		lonLo = math.Min(lonLo, lon)
		lonHi = math.Max(lonHi, lon)
	}
	if lonLo > lonHi {
		return true
	}
	return overlapsLon(ivs, lonLo-boundsMargin, lonHi+boundsMargin)
}

// faceSumAt inverts faceToLonLat's latitude, returning x+y on face at lat.
func faceSumAt(face int, lat float64) float64 {
	z := math.Sin(lat)
	var jr float64
	switch {
	case z > 2.0/3:
		jr = math.Sqrt(3 * (1 - z))
	case z < -2.0/3:
		jr = 4 - math.Sqrt(3*(1+z))
	default:
		jr = 2 - 1.5*z
	}
	return float64(jrll[face]) - jr
}

func (l *Layer) mayIntersect(hash uint64, zone Zone, ivs []lonInterval) bool {
	c := l.Center(hash)
	vs := l.Vertices(hash)
	latLo, latHi := c.Lat, c.Lat
	for _, v := range vs {
		latLo = math.Min(latLo, v.Lat)
		latHi = math.Max(latHi, v.Lat)
	}
	if latHi+boundsMargin < zone.LatMin || latLo-boundsMargin > zone.LatMax {
		return false
	}
	if latHi > polarLimit || latLo < -polarLimit {
		return true
	}
	lonLo, lonHi := c.Lon, c.Lon
	for _, v := range vs {
		d := math.Remainder(v.Lon-c.Lon, twoPi)
		lonLo = math.Min(lonLo, c.Lon+d)
		lonHi = math.Max(lonHi, c.Lon+d)
	}
	return overlapsLon(ivs, lonLo-boundsMargin, lonHi+boundsMargin)
}
