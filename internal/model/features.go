package model

// FeatureRecord is a raw observation keyed by canonical field.
// Values are still in the form received at the boundary e.g. numbers, json numbers or strings.
type FeatureRecord map[Field]interface{}

// Has checks if the record carries a non-empty value for the field.
func (r FeatureRecord) Has(f Field) bool {
	v, ok := r[f]
	if !ok || v == nil {
		return false
	}
	if s, isString := v.(string); isString && s == "" {
		return false
	}
	return true
}

// Features is the typed set of values of one transit signal, with defaults applied.
// Optional quantities without a physical default are pointers.
type Features struct {
	OrbitalPeriod      float64 `json:"orbital_period"`
	TransitDuration    float64 `json:"transit_duration"`
	TransitDepth       float64 `json:"transit_depth"`
	PlanetRadius       float64 `json:"planet_radius"`
	InsolationFlux     float64 `json:"insolation_flux"`
	SurfaceGravity     float64 `json:"surface_gravity"`
	ImpactParameter    float64 `json:"impact_parameter"`
	StellarMagnitude   float64 `json:"stellar_magnitude"`
	StellarTemperature float64 `json:"stellar_temperature"`
	StellarRadius      float64 `json:"stellar_radius"`

	SNR *float64 `json:"snr,omitempty"`

	OrbitalPeriodErr1   *float64 `json:"orbital_period_err1,omitempty"`
	OrbitalPeriodErr2   *float64 `json:"orbital_period_err2,omitempty"`
	TransitDepthErr1    *float64 `json:"transit_depth_err1,omitempty"`
	TransitDepthErr2    *float64 `json:"transit_depth_err2,omitempty"`
	TransitDurationErr1 *float64 `json:"transit_duration_err1,omitempty"`
	TransitDurationErr2 *float64 `json:"transit_duration_err2,omitempty"`
	PlanetRadiusErr1    *float64 `json:"planet_radius_err1,omitempty"`
	PlanetRadiusErr2    *float64 `json:"planet_radius_err2,omitempty"`

	// Defaulted lists the fields that were absent and received a default value.
	Defaulted []Field `json:"defaulted,omitempty"`
}

// Get returns the value of the given field, if it is set.
func (f Features) Get(field Field) (float64, bool) {
	switch field {
	case OrbitalPeriod:
		return f.OrbitalPeriod, true
	case TransitDuration:
		return f.TransitDuration, true
	case TransitDepth:
		return f.TransitDepth, true
	case PlanetRadius:
		return f.PlanetRadius, true
	case InsolationFlux:
		return f.InsolationFlux, true
	case SurfaceGravity:
		return f.SurfaceGravity, true
	case ImpactParameter:
		return f.ImpactParameter, true
	case StellarMagnitude:
		return f.StellarMagnitude, true
	case StellarTemperature:
		return f.StellarTemperature, true
	case StellarRadius:
		return f.StellarRadius, true
	}
	p := f.optional(field)
	if p == nil || *p == nil {
		return 0, false
	}
	return **p, true
}

// Set assigns the value of the given field.
func (f *Features) Set(field Field, v float64) {
	switch field {
	case OrbitalPeriod:
		f.OrbitalPeriod = v
	case TransitDuration:
		f.TransitDuration = v
	case TransitDepth:
		f.TransitDepth = v
	case PlanetRadius:
		f.PlanetRadius = v
	case InsolationFlux:
		f.InsolationFlux = v
	case SurfaceGravity:
		f.SurfaceGravity = v
	case ImpactParameter:
		f.ImpactParameter = v
	case StellarMagnitude:
		f.StellarMagnitude = v
	case StellarTemperature:
		f.StellarTemperature = v
	case StellarRadius:
		f.StellarRadius = v
	default:
		if p := f.optional(field); p != nil {
			value := v
			*p = &value
		}
	}
}

func (f *Features) optional(field Field) **float64 {
	switch field {
	case SNR:
		return &f.SNR
	case OrbitalPeriodErr1:
		return &f.OrbitalPeriodErr1
	case OrbitalPeriodErr2:
		return &f.OrbitalPeriodErr2
	case TransitDepthErr1:
		return &f.TransitDepthErr1
	case TransitDepthErr2:
		return &f.TransitDepthErr2
	case TransitDurationErr1:
		return &f.TransitDurationErr1
	case TransitDurationErr2:
		return &f.TransitDurationErr2
	case PlanetRadiusErr1:
		return &f.PlanetRadiusErr1
	case PlanetRadiusErr2:
		return &f.PlanetRadiusErr2
	}
	return nil
}

// IsDefaulted checks if the field received a default value instead of a measured one.
func (f Features) IsDefaulted(field Field) bool {
	for _, d := range f.Defaulted {
		if d == field {
			return true
		}
	}
	return false
}

// Vector extracts the values of the given fields.
// Fields that are not set take the value of fill.
func (f Features) Vector(fields []Field, fill func(field Field) float64) []float64 {
	vv := make([]float64, len(fields))
	for i, field := range fields {
		if v, ok := f.Get(field); ok {
			vv[i] = v
		} else if fill != nil {
			vv[i] = fill(field)
		}
	}
	return vv
}
