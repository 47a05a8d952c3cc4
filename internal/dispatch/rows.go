package dispatch

import "github.com/mohammed-shakir/healpix-geo/internal/core/geoerr"

// Rows is a row-major output sink: Len() rows of Width values each.
type Rows[T any] struct {
	Data  []T
	Width int
}

func NewRows[T any](n, width int) Rows[T] {
	return Rows[T]{Data: make([]T, n*width), Width: width}
}

func (r Rows[T]) Len() int {
	if r.Width <= 0 {
		return 0
	}
	return len(r.Data) / r.Width
}

// Row returns row i; writes through it land in Data.
func (r Rows[T]) Row(i int) []T {
	lo := i * r.Width
	return r.Data[lo : lo+r.Width : lo+r.Width]
}

// CheckLen reports a validation error when an array does not have the expected length.
func CheckLen(field string, got, want int) error {
	if got != want {
		return geoerr.Validation(field, "length %d does not match the %d input elements", got, want)
	}
	return nil
}

// CheckRows reports a validation error when r is not n rows of width values.
func CheckRows[T any](field string, r Rows[T], n, width int) error {
	if r.Width != width {
		return geoerr.Validation(field, "row width %d, expected %d", r.Width, width)
	}
	if len(r.Data) != n*width {
		return geoerr.Validation(field, "holds %d values, expected %d rows of %d", len(r.Data), n, width)
	}
	return nil
}
