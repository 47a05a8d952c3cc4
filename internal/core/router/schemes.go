package router

import (
	"context"
	"net/http"

	"github.com/mohammed-shakir/healpix-geo/internal/core/geoerr"
	"github.com/mohammed-shakir/healpix-geo/internal/dispatch"
	"github.com/mohammed-shakir/healpix-geo/internal/ellipsoid"
	"github.com/mohammed-shakir/healpix-geo/pkg/nested"
	"github.com/mohammed-shakir/healpix-geo/pkg/ring"
)

func (a *API) ringToLonLat(w http.ResponseWriter, r *http.Request) error {
	var req cellsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return err
	}
	depth, err := depthsOf(req.Depth, req.Depths)
	if err != nil {
		return err
	}
	out := pointsResponse{Lon: make([]float64, len(req.Cells)), Lat: make([]float64, len(req.Cells))}
	if err := ring.HealpixToLonLat(r.Context(), req.Cells, depth, a.ellipsoidOr(req.Ellipsoid), out.Lon, out.Lat, a.workers); err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, out)
	return nil
}

func (a *API) ringFromLonLat(w http.ResponseWriter, r *http.Request) error {
	var req pointsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return err
	}
	depth, err := depthsOf(req.Depth, req.Depths)
	if err != nil {
		return err
	}
	out := cellsResponse{Cells: make([]uint64, len(req.Lon))}
	if err := ring.LonLatToHealpix(r.Context(), req.Lon, req.Lat, depth, a.ellipsoidOr(req.Ellipsoid), out.Cells, a.workers); err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, out)
	return nil
}

type convertFunc func(ctx context.Context, cells []uint64, depth uint8, out []uint64, workers int) error

// renumber serves the ring/nested conversions, which share one request shape.
func (a *API) renumber(conv convertFunc) handlerFunc {
	return func(w http.ResponseWriter, r *http.Request) error {
		var req struct {
			Cells []uint64 `json:"cells"`
			Depth *int     `json:"depth"`
		}
		if err := decodeJSON(w, r, &req); err != nil {
			return err
		}
		depth, err := depthOf("depth", req.Depth)
		if err != nil {
			return err
		}
		out := cellsResponse{Cells: make([]uint64, len(req.Cells))}
		if err := conv(r.Context(), req.Cells, depth, out.Cells, a.workers); err != nil {
			return err
		}
		writeJSON(w, http.StatusOK, out)
		return nil
	}
}

func (a *API) nestedNeighbourhood(w http.ResponseWriter, r *http.Request) error {
	var req struct {
		Cells []uint64 `json:"cells"`
		Depth *int     `json:"depth"`
		K     uint32   `json:"k"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		return err
	}
	depth, err := depthOf("depth", req.Depth)
	if err != nil {
		return err
	}
	if err := nested.ValidateRing(depth, req.K); err != nil {
		return err
	}
	width := nested.NeighbourhoodWidth(req.K)
	if err := checkOutput("k", len(req.Cells), width); err != nil {
		return err
	}
	rows := dispatch.NewRows[int64](len(req.Cells), width)
	if err := nested.KthNeighbourhood(r.Context(), req.Cells, depth, req.K, rows, a.workers); err != nil {
		return err
	}
	out := struct {
		Neighbours [][]int64 `json:"neighbours"`
	}{Neighbours: make([][]int64, len(req.Cells))}
	for i := range req.Cells {
		out.Neighbours[i] = rows.Row(i)
	}
	writeJSON(w, http.StatusOK, out)
	return nil
}

func (a *API) nestedZoom(w http.ResponseWriter, r *http.Request) error {
	var req struct {
		Cells    []uint64 `json:"cells"`
		Depth    *int     `json:"depth"`
		NewDepth *int     `json:"new_depth"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		return err
	}
	depth, err := depthOf("depth", req.Depth)
	if err != nil {
		return err
	}
	newDepth, err := depthOf("new_depth", req.NewDepth)
	if err != nil {
		return err
	}
	width := nested.ZoomWidth(depth, newDepth)
	if err := checkOutput("new_depth", len(req.Cells), width); err != nil {
		return err
	}
	rows := dispatch.NewRows[uint64](len(req.Cells), width)
	if err := nested.ZoomTo(r.Context(), req.Cells, depth, newDepth, rows, a.workers); err != nil {
		return err
	}
	out := struct {
		Cells [][]uint64 `json:"cells"`
	}{Cells: make([][]uint64, len(req.Cells))}
	for i := range req.Cells {
		out.Cells[i] = rows.Row(i)
	}
	writeJSON(w, http.StatusOK, out)
	return nil
}

const maxOutputCells = 1 << 22

// checkOutput bounds the row buffer a request asks the server to allocate.
func checkOutput(field string, n, width int) error {
	if width > maxOutputCells || n*width > maxOutputCells {
		return geoerr.Validation(field, "%d rows of width %d exceed %d output values", n, width, maxOutputCells)
	}
	return nil
}

type latitudeFunc func(ctx context.Context, in []float64, ell ellipsoid.Spec, out []float64, workers int) error

// latitude serves the authalic and geographic latitude conversions.
func (a *API) latitude(conv latitudeFunc) handlerFunc {
	return func(w http.ResponseWriter, r *http.Request) error {
		var req struct {
			Lat       []float64       `json:"lat"`
			Ellipsoid *ellipsoid.Spec `json:"ellipsoid,omitempty"`
		}
		if err := decodeJSON(w, r, &req); err != nil {
			return err
		}
		out := struct {
			Lat []float64 `json:"lat"`
		}{Lat: make([]float64, len(req.Lat))}
		if err := conv(r.Context(), req.Lat, a.ellipsoidOr(req.Ellipsoid), out.Lat, a.workers); err != nil {
			return err
		}
		writeJSON(w, http.StatusOK, out)
		return nil
	}
}
