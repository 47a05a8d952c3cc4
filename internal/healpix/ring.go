package healpix

import "math"

func isqrt(v int64) int64 {
	r := int64(math.Sqrt(float64(v) + 0.5))
	for r*r > v {
		r--
	}
	for (r+1)*(r+1) <= v {
		r++
	}
	return r
}

// ToRing converts a nested cell id to the ring scheme.
func (l *Layer) ToRing(hash uint64) uint64 {
	x, y, face := l.unnest(hash)
	return uint64(l.xyfToRing(x, y, face))
}

// FromRing converts a ring cell id to the nested scheme.
func (l *Layer) FromRing(ring uint64) uint64 {
	x, y, face := l.ringToXYF(int64(ring))
	return l.nest(x, y, face)
}

func (l *Layer) xyfToRing(x, y int64, face int) int64 {
	n := l.nside
	nl4 := 4 * n
	jr := jrll[face]*n - x - y - 1

	var nr, kshift, startpix int64
	switch {
	case jr < n:
		nr = jr
		startpix = 2 * nr * (nr - 1)
		kshift = 0
	case jr > 3*n:
		nr = nl4 - jr
		startpix = int64(l.ncells) - 2*(nr+1)*nr
		kshift = 0
	default:
		nr = n
		startpix = l.ncap + (jr-n)*nl4
		kshift = (jr - n) & 1
	}

	jp := (jpll[face]*nr + x - y + 1 + kshift) / 2
	if jp > nl4 {
		jp -= nl4
	} else if jp < 1 {
		jp += nl4
	}
	return startpix + jp - 1
}

func (l *Layer) ringToXYF(pix int64) (x, y int64, face int) {
	n := l.nside
	nl2 := 2 * n
	npix := int64(l.ncells)
	var iring, iphi, kshift, nr int64

	switch {
	case pix < l.ncap:
		iring = (1 + isqrt(1+2*pix)) >> 1
		iphi = pix - 2*iring*(iring-1) + 1
		kshift = 0
		nr = iring
		face = int((iphi - 1) / nr)
	case pix < npix-l.ncap:
		ip := pix - l.ncap
		tmp := ip / (4 * n)
		iring = tmp + n
		iphi = ip - tmp*4*n + 1
		kshift = (iring + n) & 1
		nr = n
		ire := tmp + 1
		irm := nl2 + 2 - ire
		ifm := (iphi - ire/2 + n - 1) / n
		ifp := (iphi - irm/2 + n - 1) / n
		switch {
		case ifp == ifm:
			face = int(ifp | 4)
		case ifp < ifm:
			face = int(ifp)
		default:
			face = int(ifm + 8)
		}
	default:
		ip := npix - pix
		iring = (1 + isqrt(2*ip-1)) >> 1
		iphi = 4*iring + 1 - (ip - 2*iring*(iring-1))
		kshift = 0
		nr = iring
		iring = 2*nl2 - iring
		face = int((iphi-1)/nr) + 8
	}

	irt := iring - jrll[face]*n + 1
	ipt := 2*iphi - jpll[face]*nr - kshift - 1
	if ipt >= nl2 {
		ipt -= 8 * n
	}
	x = (ipt - irt) >> 1
	y = (-ipt - irt) >> 1
	return x, y, face
}
