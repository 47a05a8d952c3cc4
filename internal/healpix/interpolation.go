package healpix

import "math"

// BilinearInterpolation returns the four cells whose centers surround the point and
// their weights, which sum to one. Where the diagonal cell does not exist, at the
// corners where only three base cells meet, the edge-adjacent cell stands in for it.
func (l *Layer) BilinearInterpolation(lon, lat float64) [4]CellWeight {
	face, fx, fy := faceXY(lon, lat)
	n := float64(l.nside)
	x := fx*n - 0.5
	y := fy*n - 0.5
	x0 := math.Floor(x)
	y0 := math.Floor(y)
	dx := x - x0
	dy := y - y0
	ix, iy := int64(x0), int64(y0)

	corners := [4]struct {
		x, y int64
		w    float64
	}{
		{ix, iy, (1 - dx) * (1 - dy)},
		{ix + 1, iy, dx * (1 - dy)},
		{ix, iy + 1, (1 - dx) * dy},
		{ix + 1, iy + 1, dx * dy},
	}
	var out [4]CellWeight
	for i, c := range corners {
		cell, ok := l.translate(face, c.x, c.y)
		if !ok {
			cell, _ = l.translate(face, clampCoord(c.x, l.nside), c.y)
		}
		out[i] = CellWeight{Cell: cell, Weight: c.w}
	}
	return out
}

func clampCoord(v, nside int64) int64 {
	if v < 0 {
		return 0
	}
	if v >= nside {
		return nside - 1
	}
	return v
}
