package model

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

const ppm = 1e-6

// Alias maps an external field name onto a canonical field.
// Scale is applied to numeric values to convert them into the canonical unit.
type Alias struct {
	Name  string  `yaml:"name" json:"name"`
	Field Field   `yaml:"field" json:"field"`
	Scale float64 `yaml:"scale,omitempty" json:"scale,omitempty"`
}

// Aliases is the lookup table from external names to canonical fields.
type Aliases map[string]Alias

// DefaultAliases returns the table for the short names and the kepler (KOI) archive columns.
// KOI depths are given in ppm and are converted to fractions.
func DefaultAliases() Aliases {
	aa := make(Aliases)
	// canonical names map onto themselves
	for _, f := range Fields {
		aa.Add(Alias{Name: string(f), Field: f})
	}
	return aa.Add(
		Alias{Name: "period", Field: OrbitalPeriod},
		Alias{Name: "duration", Field: TransitDuration},
		Alias{Name: "depth", Field: TransitDepth},
		Alias{Name: "radius", Field: PlanetRadius},
		Alias{Name: "planetary_radius", Field: PlanetRadius},
		Alias{Name: "insolation", Field: InsolationFlux},
		Alias{Name: "period_err1", Field: OrbitalPeriodErr1},
		Alias{Name: "period_err2", Field: OrbitalPeriodErr2},
		Alias{Name: "depth_err1", Field: TransitDepthErr1},
		Alias{Name: "depth_err2", Field: TransitDepthErr2},
		Alias{Name: "duration_err1", Field: TransitDurationErr1},
		Alias{Name: "duration_err2", Field: TransitDurationErr2},
		Alias{Name: "radius_err1", Field: PlanetRadiusErr1},
		Alias{Name: "radius_err2", Field: PlanetRadiusErr2},
		Alias{Name: "koi_period", Field: OrbitalPeriod},
		Alias{Name: "koi_duration", Field: TransitDuration},
		Alias{Name: "koi_depth", Field: TransitDepth, Scale: ppm},
		Alias{Name: "koi_prad", Field: PlanetRadius},
		Alias{Name: "koi_insol", Field: InsolationFlux},
		Alias{Name: "koi_slogg", Field: SurfaceGravity},
		Alias{Name: "koi_impact", Field: ImpactParameter},
		Alias{Name: "koi_kepmag", Field: StellarMagnitude},
		Alias{Name: "koi_steff", Field: StellarTemperature},
		Alias{Name: "koi_srad", Field: StellarRadius},
		Alias{Name: "koi_model_snr", Field: SNR},
		Alias{Name: "koi_snr", Field: SNR},
		Alias{Name: "koi_period_err1", Field: OrbitalPeriodErr1},
		Alias{Name: "koi_period_err2", Field: OrbitalPeriodErr2},
		Alias{Name: "koi_depth_err1", Field: TransitDepthErr1, Scale: ppm},
		Alias{Name: "koi_depth_err2", Field: TransitDepthErr2, Scale: ppm},
		Alias{Name: "koi_duration_err1", Field: TransitDurationErr1},
		Alias{Name: "koi_duration_err2", Field: TransitDurationErr2},
		Alias{Name: "koi_prad_err1", Field: PlanetRadiusErr1},
		Alias{Name: "koi_prad_err2", Field: PlanetRadiusErr2},
	)
}

// Add adds the given aliases to the table, replacing existing entries with the same name.
func (aa Aliases) Add(alias ...Alias) Aliases {
	for _, a := range alias {
		aa[normalise(a.Name)] = a
	}
	return aa
}

// Lookup finds the alias for the given external name.
func (aa Aliases) Lookup(name string) (Alias, bool) {
	a, ok := aa[normalise(name)]
	return a, ok
}

// Resolve maps the raw payload onto canonical fields.
// It returns the names it could not map, sorted, so that the caller can report them.
// When two names resolve to the same field the canonical name wins,
// otherwise the first one in sorted order.
func (aa Aliases) Resolve(raw map[string]interface{}) (FeatureRecord, []string) {
	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)

	record := make(FeatureRecord)
	canonical := make(map[Field]bool)
	unknown := make([]string, 0)
	for _, name := range names {
		alias, ok := aa.Lookup(name)
		if !ok {
			unknown = append(unknown, name)
			continue
		}
		isCanonical := normalise(name) == string(alias.Field)
		if _, exists := record[alias.Field]; exists && (canonical[alias.Field] || !isCanonical) {
			continue
		}
		record[alias.Field] = alias.apply(raw[name])
		canonical[alias.Field] = isCanonical
	}
	return record, unknown
}

// apply scales numeric values, leaving anything else as is for the validation to reject.
func (a Alias) apply(v interface{}) interface{} {
	if a.Scale == 0 || a.Scale == 1 {
		return v
	}
	f, err := Float(v)
	if err != nil {
		return v
	}
	return f * a.Scale
}

func normalise(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Float coerces a raw payload value into a float.
func Float(v interface{}) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case json.Number:
		return n.Float64()
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0, fmt.Errorf("empty value")
		}
		return strconv.ParseFloat(s, 64)
	case nil:
		return 0, fmt.Errorf("null value")
	}
	return 0, fmt.Errorf("unsupported type %T", v)
}
