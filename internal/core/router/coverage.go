package router

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mohammed-shakir/healpix-geo/internal/core/geoerr"
	mylog "github.com/mohammed-shakir/healpix-geo/internal/logger"
	"github.com/mohammed-shakir/healpix-geo/internal/moc"
)

type coverageResponse struct {
	Name        string      `json:"name,omitempty"`
	Fingerprint string      `json:"fingerprint,omitempty"`
	Depth       uint8       `json:"depth"`
	Size        uint64      `json:"size"`
	NBytes      int         `json:"nbytes"`
	Ranges      [][2]uint64 `json:"ranges"`
	Cells       []uint64    `json:"cells,omitempty"`
}

func newCoverageResponse(ix *moc.Index, withCells bool) (coverageResponse, error) {
	if withCells {
		if err := checkSize("cells", ix); err != nil {
			return coverageResponse{}, err
		}
	}
	rs := ix.Ranges()
	out := coverageResponse{
		Depth:  ix.Depth(),
		Size:   ix.Size(),
		NBytes: ix.NBytes(),
		Ranges: make([][2]uint64, len(rs)),
	}
	for i, r := range rs {
		out.Ranges[i] = [2]uint64{r.Start, r.End}
	}
	if withCells {
		out.Cells = ix.CellIDs()
	}
	return out, nil
}

// checkSize rejects coverages too large to expand into cell ids.
func checkSize(field string, ix *moc.Index) error {
	if ix.Size() > maxOutputCells {
		return geoerr.Validation(field, "coverage of %d cells exceeds %d output values", ix.Size(), maxOutputCells)
	}
	return nil
}

func (a *API) requireStore() error {
	if a.store == nil {
		return ErrStoreDisabled
	}
	return nil
}

func (a *API) load(r *http.Request) (*moc.Index, error) {
	if err := a.requireStore(); err != nil {
		return nil, err
	}
	name := chi.URLParam(r, "name")
	return a.store.Get(mylog.WithCoverage(r.Context(), name), name)
}

// save stores ix under name when one is given and fills in the response.
func (a *API) save(r *http.Request, name string, ix *moc.Index, resp *coverageResponse) error {
	if name == "" {
		return nil
	}
	if err := a.requireStore(); err != nil {
		return err
	}
	fp, err := a.store.Put(mylog.WithCoverage(r.Context(), name), name, ix)
	if err != nil {
		return err
	}
	resp.Name, resp.Fingerprint = name, fp
	return nil
}

func withCells(r *http.Request) bool {
	v, _ := strconv.ParseBool(r.URL.Query().Get("cells"))
	return v
}

func (a *API) createCoverage(w http.ResponseWriter, r *http.Request) error {
	var req struct {
		Depth *int     `json:"depth"`
		Cells []uint64 `json:"cells"`
		Full  bool     `json:"full,omitempty"`
		Name  string   `json:"name,omitempty"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		return err
	}
	depth, err := depthOf("depth", req.Depth)
	if err != nil {
		return err
	}
	var ix *moc.Index
	if req.Full {
		ix, err = moc.FullDomain(depth)
	} else {
		ix, err = moc.FromCellIDs(depth, req.Cells)
	}
	if err != nil {
		return err
	}
	resp, err := newCoverageResponse(ix, withCells(r))
	if err != nil {
		return err
	}
	if err := a.save(r, req.Name, ix, &resp); err != nil {
		return err
	}
	code := http.StatusOK
	if req.Name != "" {
		code = http.StatusCreated
	}
	writeJSON(w, code, resp)
	return nil
}

func (a *API) getCoverage(w http.ResponseWriter, r *http.Request) error {
	ix, err := a.load(r)
	if err != nil {
		return err
	}
	resp, err := newCoverageResponse(ix, withCells(r))
	if err != nil {
		return err
	}
	resp.Name = chi.URLParam(r, "name")
	writeJSON(w, http.StatusOK, resp)
	return nil
}

func (a *API) deleteCoverage(w http.ResponseWriter, r *http.Request) error {
	if err := a.requireStore(); err != nil {
		return err
	}
	name := chi.URLParam(r, "name")
	existed, err := a.store.Delete(mylog.WithCoverage(r.Context(), name), name)
	if err != nil {
		return err
	}
	if !existed {
		return fmt.Errorf("no coverage named %q: %w", name, geoerr.ErrLookup)
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

// combine applies a set operation between the named coverage and an operand given
// either inline as cells at the same depth or as another stored name.
func (a *API) combine(op func(*moc.Index, *moc.Index) (*moc.Index, error)) handlerFunc {
	return func(w http.ResponseWriter, r *http.Request) error {
		var req struct {
			Cells   []uint64 `json:"cells,omitempty"`
			Depth   *int     `json:"depth,omitempty"`
			Other   string   `json:"other,omitempty"`
			StoreAs string   `json:"store_as,omitempty"`
		}
		if err := decodeJSON(w, r, &req); err != nil {
			return err
		}
		base, err := a.load(r)
		if err != nil {
			return err
		}
		var other *moc.Index
		switch {
		case req.Other != "" && req.Cells != nil:
			return geoerr.Validation("other", "give either other or cells, not both")
		case req.Other != "":
			if other, err = a.store.Get(r.Context(), req.Other); err != nil {
				return err
			}
		default:
			depth := base.Depth()
			if req.Depth != nil {
				if depth, err = depthOf("depth", req.Depth); err != nil {
					return err
				}
			}
			if other, err = moc.FromCellIDs(depth, req.Cells); err != nil {
				return err
			}
		}
		out, err := op(base, other)
		if err != nil {
			return err
		}
		resp, err := newCoverageResponse(out, withCells(r))
		if err != nil {
			return err
		}
		if err := a.save(r, req.StoreAs, out, &resp); err != nil {
			return err
		}
		writeJSON(w, http.StatusOK, resp)
		return nil
	}
}

func (a *API) boundary(w http.ResponseWriter, r *http.Request) error {
	ix, err := a.load(r)
	if err != nil {
		return err
	}
	if err := checkSize("name", ix); err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, cellsResponse{Cells: ix.InternalBoundary()})
	return nil
}

func queryInt(r *http.Request, key string) (*int64, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, geoerr.Validation(key, "not an integer: %q", raw)
	}
	return &v, nil
}

// isel selects by position with start, stop and step query parameters.
func (a *API) isel(w http.ResponseWriter, r *http.Request) error {
	var s moc.Slice
	var err error
	if s.Start, err = queryInt(r, "start"); err != nil {
		return err
	}
	if s.Stop, err = queryInt(r, "stop"); err != nil {
		return err
	}
	if s.Step, err = queryInt(r, "step"); err != nil {
		return err
	}
	ix, err := a.load(r)
	if err != nil {
		return err
	}
	out, err := ix.Select(s)
	if err != nil {
		return err
	}
	resp, err := newCoverageResponse(out, withCells(r))
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, resp)
	return nil
}

// sel selects by cell value between the inclusive lo and hi labels.
func (a *API) sel(w http.ResponseWriter, r *http.Request) error {
	lo, err := queryInt(r, "lo")
	if err != nil {
		return err
	}
	hi, err := queryInt(r, "hi")
	if err != nil {
		return err
	}
	if lo == nil || hi == nil || *lo < 0 || *hi < *lo {
		return geoerr.Validation("lo", "lo and hi are required with 0 <= lo <= hi")
	}
	ix, err := a.load(r)
	if err != nil {
		return err
	}
	positions, out := ix.SelectRange(uint64(*lo), uint64(*hi))
	resp, err := newCoverageResponse(out, withCells(r))
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, struct {
		Positions [3]int64         `json:"positions"`
		Coverage  coverageResponse `json:"coverage"`
	}{
		Positions: [3]int64{positions.Start, positions.Stop, positions.Step},
		Coverage:  resp,
	})
	return nil
}
