package ellipsoid

import "sort"

type reference struct {
	a  float64
	rf float64 // zero for spheres
}

// reference ellipsoids, parameters as published with PROJ
var registry = map[string]reference{
	"GRS80":      {a: 6378137.0, rf: 298.257222101},
	"WGS84":      {a: 6378137.0, rf: 298.257223563},
	"WGS72":      {a: 6378135.0, rf: 298.26},
	"WGS66":      {a: 6378145.0, rf: 298.25},
	"WGS60":      {a: 6378165.0, rf: 298.3},
	"intl":       {a: 6378388.0, rf: 297.0},
	"new_intl":   {a: 6378157.5, rf: 298.2496153900135},
	"bessel":     {a: 6377397.155, rf: 299.1528128},
	"clrk66":     {a: 6378206.4, rf: 294.9786982138982},
	"clrk80":     {a: 6378249.145, rf: 293.4663},
	"airy":       {a: 6377563.396, rf: 299.3249646},
	"mod_airy":   {a: 6377340.189, rf: 299.3249646},
	"krass":      {a: 6378245.0, rf: 298.3},
	"helmert":    {a: 6378200.0, rf: 298.3},
	"hough":      {a: 6378270.0, rf: 297.0},
	"aust_SA":    {a: 6378160.0, rf: 298.25},
	"evrst30":    {a: 6377276.345, rf: 300.8017},
	"sphere":     {a: 6370997.0},
	"unitsphere": {a: 1.0},
}

// Names lists the registered ellipsoid names in sorted order.
func Names() []string {
	out := make([]string, 0, len(registry))
	for k := range registry {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
