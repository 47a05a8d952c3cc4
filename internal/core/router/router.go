// Package router exposes the bulk cell operations and the coverage store over JSON.
package router

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mohammed-shakir/healpix-geo/internal/core/geoerr"
	"github.com/mohammed-shakir/healpix-geo/internal/ellipsoid"
	"github.com/mohammed-shakir/healpix-geo/internal/healpix"
	mylog "github.com/mohammed-shakir/healpix-geo/internal/logger"
	"github.com/mohammed-shakir/healpix-geo/internal/moc"
	"github.com/mohammed-shakir/healpix-geo/pkg/coordinates"
	"github.com/mohammed-shakir/healpix-geo/pkg/ring"
)

const maxBodyBytes = 32 << 20

// ErrStoreDisabled is returned by coverage routes that need the store when the
// service runs without one.
var ErrStoreDisabled = errors.New("coverage store is disabled")

// CoverageStore persists named coverages. *mocstore.Store implements it.
type CoverageStore interface {
	Put(ctx context.Context, name string, ix *moc.Index) (string, error)
	Get(ctx context.Context, name string) (*moc.Index, error)
	Delete(ctx context.Context, name string) (bool, error)
}

type Options struct {
	Store            CoverageStore // nil serves inline coverages only
	DefaultEllipsoid ellipsoid.Spec
	Workers          int
}

type API struct {
	log     *slog.Logger
	store   CoverageStore
	ell     ellipsoid.Spec
	workers int
}

func New(log *slog.Logger, opts Options) *API {
	if log == nil {
		log = slog.Default()
	}
	ell := opts.DefaultEllipsoid
	if ell.IsZero() {
		ell = ellipsoid.Named("sphere")
	}
	return &API{log: log, store: opts.Store, ell: ell, workers: opts.Workers}
}

// Mount registers every /v1 route on r.
func (a *API) Mount(r chi.Router) {
	r.Route("/v1", func(r chi.Router) {
		r.Post("/nested/lonlat", a.handle("nested.healpix_to_lonlat", a.nestedToLonLat))
		r.Post("/nested/cells", a.handle("nested.lonlat_to_healpix", a.nestedFromLonLat))
		r.Post("/nested/vertices", a.handle("nested.vertices", a.nestedVertices))
		r.Post("/nested/bbox", a.handle("nested.bbox_search", a.nestedBBox))
		r.Post("/nested/polygon", a.handle("nested.cells_in_polygon", a.nestedPolygon))
		r.Post("/nested/neighbourhood", a.handle("nested.kth_neighbourhood", a.nestedNeighbourhood))
		r.Post("/nested/zoom", a.handle("nested.zoom_to", a.nestedZoom))
		r.Post("/ring/lonlat", a.handle("ring.healpix_to_lonlat", a.ringToLonLat))
		r.Post("/ring/cells", a.handle("ring.lonlat_to_healpix", a.ringFromLonLat))
		r.Post("/ring/to-nested", a.handle("ring.to_nested", a.renumber(ring.ToNested)))
		r.Post("/ring/from-nested", a.handle("ring.from_nested", a.renumber(ring.FromNested)))
		r.Post("/latitude/authalic", a.handle("coordinates.geographic_to_authalic", a.latitude(coordinates.GeographicToAuthalic)))
		r.Post("/latitude/geographic", a.handle("coordinates.authalic_to_geographic", a.latitude(coordinates.AuthalicToGeographic)))
		r.Post("/zuniq/encode", a.handle("zuniq.from_nested", a.zuniqEncode))
		r.Post("/zuniq/decode", a.handle("zuniq.to_nested", a.zuniqDecode))

		r.Post("/moc", a.handle("moc.create", a.createCoverage))
		r.Get("/moc/{name}", a.handle("moc.get", a.getCoverage))
		r.Delete("/moc/{name}", a.handle("moc.delete", a.deleteCoverage))
		r.Post("/moc/{name}/union", a.handle("moc.union", a.combine((*moc.Index).Union)))
		r.Post("/moc/{name}/intersection", a.handle("moc.intersection", a.combine((*moc.Index).Intersection)))
		r.Get("/moc/{name}/boundary", a.handle("moc.boundary", a.boundary))
		r.Get("/moc/{name}/isel", a.handle("moc.isel", a.isel))
		r.Get("/moc/{name}/sel", a.handle("moc.sel", a.sel))
	})
}

type handlerFunc func(w http.ResponseWriter, r *http.Request) error

func (a *API) handle(op string, fn handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := mylog.WithOperation(r.Context(), op)
		r = r.WithContext(ctx)
		if err := fn(w, r); err != nil {
			a.writeError(ctx, w, op, err)
		}
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, geoerr.ErrValidation), errors.Is(err, geoerr.ErrUnsupportedSelection):
		return http.StatusBadRequest
	case errors.Is(err, geoerr.ErrDepthMismatch):
		return http.StatusUnprocessableEntity
	case errors.Is(err, geoerr.ErrLookup):
		return http.StatusNotFound
	case errors.Is(err, ErrStoreDisabled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (a *API) writeError(ctx context.Context, w http.ResponseWriter, op string, err error) {
	code := statusFor(err)
	switch {
	case code >= 500:
		a.log.ErrorContext(ctx, "request failed", "op", op, "err", err)
	default:
		a.log.WarnContext(ctx, "request rejected", "op", op, "status", code, "err", err)
	}
	msg := err.Error()
	if code == http.StatusInternalServerError {
		msg = "internal server error"
	}
	writeJSON(w, code, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return geoerr.Validation("body", "invalid JSON: %v", err)
	}
	return nil
}

func depthOf(field string, v *int) (uint8, error) {
	if v == nil {
		return 0, geoerr.Validation(field, "is required")
	}
	if *v < 0 || *v > healpix.DepthMax {
		return 0, geoerr.Validation(field, "must be between 0 and %d, inclusive (got %d)", healpix.DepthMax, *v)
	}
	return uint8(*v), nil
}

// depthsOf accepts exactly one of a constant depth or a per-element depth list.
func depthsOf(depth *int, depths []int) (healpix.Depths, error) {
	switch {
	case depth != nil && depths != nil:
		return healpix.Depths{}, geoerr.Validation("depth", "give either depth or depths, not both")
	case depths != nil:
		out := make([]uint8, len(depths))
		for i, d := range depths {
			v, err := depthOf(fmt.Sprintf("depths[%d]", i), &d)
			if err != nil {
				return healpix.Depths{}, err
			}
			out[i] = v
		}
		return healpix.PerElement(out), nil
	default:
		d, err := depthOf("depth", depth)
		if err != nil {
			return healpix.Depths{}, err
		}
		return healpix.Constant(d), nil
	}
}

func (a *API) ellipsoidOr(s *ellipsoid.Spec) ellipsoid.Spec {
	if s == nil || s.IsZero() {
		return a.ell
	}
	return *s
}
