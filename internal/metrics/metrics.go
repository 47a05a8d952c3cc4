// Package metrics owns the dedicated Prometheus registry served on the metrics
// listener.
package metrics

import (
	"net/http"
	"runtime"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mohammed-shakir/healpix-geo/internal/core/observability"
	"github.com/mohammed-shakir/healpix-geo/internal/healpix"
)

type BuildInfo struct {
	Version   string
	Revision  string
	Branch    string
	BuildDate string
}

type Config struct {
	Build BuildInfo
	// Dispatch labels healpixd_dispatch_info; empty leaves the gauge unset.
	Strategy string
	Workers  int
}

type Provider struct {
	reg *prometheus.Registry
}

// Init builds a fresh registry with the runtime collectors, the build and
// dispatch info gauges, the tiling cache gauge and the service collectors from
// observability.
func Init(cfg Config) *Provider {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	build := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "healpixd_build_info",
		Help: "Build info for this binary (value is always 1).",
	}, []string{"version", "revision", "branch", "build_date", "go_version"})
	v := cfg.Build
	if v.Version == "" {
		v.Version = "dev"
	}
	build.WithLabelValues(v.Version, v.Revision, v.Branch, v.BuildDate, runtime.Version()).Set(1)
	reg.MustRegister(build)

	if cfg.Strategy != "" {
		info := prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "healpixd_dispatch_info",
			Help: "Configured dispatch strategy; the value is the default worker count.",
		}, []string{"strategy"})
		info.WithLabelValues(cfg.Strategy).Set(float64(cfg.Workers))
		reg.MustRegister(info)
	}

	reg.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "healpix_layers_cached",
		Help: "Depths with a tiling layer built in this process.",
	}, func() float64 { return float64(healpix.Cached()) }))

	if err := observability.Register(reg); err != nil {
		panic(err)
	}
	return &Provider{reg: reg}
}

func (p *Provider) Handler() http.Handler {
	return promhttp.HandlerFor(p.reg, promhttp.HandlerOpts{Registry: p.reg})
}

func (p *Provider) Register(cs ...prometheus.Collector) {
	for _, c := range cs {
		p.reg.MustRegister(c)
	}
}

func (p *Provider) Registerer() prometheus.Registerer { return p.reg }
