package router

import (
	"net/http"

	"github.com/mohammed-shakir/healpix-geo/internal/core/model"
	"github.com/mohammed-shakir/healpix-geo/internal/dispatch"
	"github.com/mohammed-shakir/healpix-geo/internal/ellipsoid"
	"github.com/mohammed-shakir/healpix-geo/pkg/nested"
	"github.com/mohammed-shakir/healpix-geo/pkg/zuniq"
)

type cellsRequest struct {
	Cells     []uint64        `json:"cells"`
	Depth     *int            `json:"depth,omitempty"`
	Depths    []int           `json:"depths,omitempty"`
	Ellipsoid *ellipsoid.Spec `json:"ellipsoid,omitempty"`
}

type pointsRequest struct {
	Lon       []float64       `json:"lon"`
	Lat       []float64       `json:"lat"`
	Depth     *int            `json:"depth,omitempty"`
	Depths    []int           `json:"depths,omitempty"`
	Ellipsoid *ellipsoid.Spec `json:"ellipsoid,omitempty"`
}

type pointsResponse struct {
	Lon []float64 `json:"lon"`
	Lat []float64 `json:"lat"`
}

type cellsResponse struct {
	Cells []uint64 `json:"cells"`
}

func (a *API) nestedToLonLat(w http.ResponseWriter, r *http.Request) error {
	var req cellsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return err
	}
	depth, err := depthsOf(req.Depth, req.Depths)
	if err != nil {
		return err
	}
	out := pointsResponse{Lon: make([]float64, len(req.Cells)), Lat: make([]float64, len(req.Cells))}
	if err := nested.HealpixToLonLat(r.Context(), req.Cells, depth, a.ellipsoidOr(req.Ellipsoid), out.Lon, out.Lat, a.workers); err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, out)
	return nil
}

func (a *API) nestedFromLonLat(w http.ResponseWriter, r *http.Request) error {
	var req pointsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return err
	}
	depth, err := depthsOf(req.Depth, req.Depths)
	if err != nil {
		return err
	}
	out := cellsResponse{Cells: make([]uint64, len(req.Lon))}
	if err := nested.LonLatToHealpix(r.Context(), req.Lon, req.Lat, depth, a.ellipsoidOr(req.Ellipsoid), out.Cells, a.workers); err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, out)
	return nil
}

func (a *API) nestedVertices(w http.ResponseWriter, r *http.Request) error {
	var req cellsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return err
	}
	depth, err := depthsOf(req.Depth, req.Depths)
	if err != nil {
		return err
	}
	n := len(req.Cells)
	lon, lat := dispatch.NewRows[float64](n, 4), dispatch.NewRows[float64](n, 4)
	if err := nested.Vertices(r.Context(), req.Cells, depth, a.ellipsoidOr(req.Ellipsoid), lon, lat, a.workers); err != nil {
		return err
	}
	out := struct {
		Lon [][]float64 `json:"lon"`
		Lat [][]float64 `json:"lat"`
	}{Lon: make([][]float64, n), Lat: make([][]float64, n)}
	for i := range n {
		out.Lon[i], out.Lat[i] = lon.Row(i), lat.Row(i)
	}
	writeJSON(w, http.StatusOK, out)
	return nil
}

type bboxResponse struct {
	Cells        []uint64 `json:"cells"`
	Depths       []uint8  `json:"depths"`
	FullyCovered []bool   `json:"fully_covered"`
}

func (a *API) nestedBBox(w http.ResponseWriter, r *http.Request) error {
	var req struct {
		Depth     *int            `json:"depth"`
		BBox      [4]float64      `json:"bbox"`
		Ellipsoid *ellipsoid.Spec `json:"ellipsoid,omitempty"`
		Flat      *bool           `json:"flat,omitempty"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		return err
	}
	depth, err := depthOf("depth", req.Depth)
	if err != nil {
		return err
	}
	opts := nested.SearchOptions{Flat: req.Flat == nil || *req.Flat, MaxCells: maxOutputCells}
	cells, err := nested.BBoxSearch(depth, model.NewBbox(req.BBox), a.ellipsoidOr(req.Ellipsoid), opts)
	if err != nil {
		return err
	}
	out := bboxResponse{
		Cells:        make([]uint64, len(cells)),
		Depths:       make([]uint8, len(cells)),
		FullyCovered: make([]bool, len(cells)),
	}
	for i, c := range cells {
		out.Cells[i], out.Depths[i], out.FullyCovered[i] = c.Hash, c.Depth, c.Full
	}
	writeJSON(w, http.StatusOK, out)
	return nil
}

func (a *API) nestedPolygon(w http.ResponseWriter, r *http.Request) error {
	var req struct {
		Cells   []uint64    `json:"cells"`
		Depth   *int        `json:"depth"`
		Polygon [][]float64 `json:"polygon"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		return err
	}
	depth, err := depthOf("depth", req.Depth)
	if err != nil {
		return err
	}
	cells, err := nested.CellsInPolygon(depth, req.Cells, req.Polygon)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, cellsResponse{Cells: cells})
	return nil
}

func (a *API) zuniqEncode(w http.ResponseWriter, r *http.Request) error {
	var req cellsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return err
	}
	depth, err := depthsOf(req.Depth, req.Depths)
	if err != nil {
		return err
	}
	out := struct {
		Zuniq []uint64 `json:"zuniq"`
	}{Zuniq: make([]uint64, len(req.Cells))}
	if err := zuniq.FromNested(r.Context(), req.Cells, depth, out.Zuniq, a.workers); err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, out)
	return nil
}

func (a *API) zuniqDecode(w http.ResponseWriter, r *http.Request) error {
	var req struct {
		Zuniq []uint64 `json:"zuniq"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		return err
	}
	n := len(req.Zuniq)
	cells, depths := make([]uint64, n), make([]uint8, n)
	if err := zuniq.ToNested(r.Context(), req.Zuniq, cells, depths, a.workers); err != nil {
		return err
	}
	// []uint8 would be encoded as base64
	out := struct {
		Cells  []uint64 `json:"cells"`
		Depths []int    `json:"depths"`
	}{Cells: cells, Depths: make([]int, n)}
	for i, d := range depths {
		out.Depths[i] = int(d)
	}
	writeJSON(w, http.StatusOK, out)
	return nil
}
